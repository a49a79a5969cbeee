// Copyright 2026 The Druid Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package druid

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
)

// KeyEvent describes one keyboard event as delivered to
// WinHandler.KeyDown/KeyUp.
type KeyEvent struct {
	Key  tcell.Key      // Key code, tcell.KeyRune for printable input.
	Rune rune           // The printable rune, if Key == tcell.KeyRune.
	Mods tcell.ModMask  // Modifiers held during the event.
}

// MouseEvent describes one pointer event as delivered to the mouse and wheel
// callbacks of WinHandler. Pos is expressed in the client area coordinates
// of the window the event is delivered to.
type MouseEvent struct {
	Pos        Position         // Client area coordinates.
	Button     tcell.ButtonMask // The button that changed state, 0 for moves.
	Buttons    tcell.ButtonMask // All buttons held during the event.
	Mods       tcell.ModMask    // Modifiers held during the event.
	WheelDelta Position         // Scroll amount, wheel events only.
}

var (
	_ tcell.Event = (*eventFunc)(nil)
	_ tcell.Event = (*eventTimer)(nil)
	_ tcell.Event = (*eventOpenFile)(nil)
	_ tcell.Event = (*eventPaint)(nil)
	_ tcell.Event = (*eventQuit)(nil)
)

var (
	eventFuncPool  = sync.Pool{New: func() interface{} { return &eventFunc{} }}
	eventTimerPool = sync.Pool{New: func() interface{} { return &eventTimer{} }}
)

type event struct{}

func (event) When() time.Time { return time.Time{} }

// eventFunc carries a deferred function through the backend event queue.
type eventFunc struct {
	event
	f func()
}

func newEventFunc(f func()) *eventFunc {
	e := eventFuncPool.Get().(*eventFunc)
	e.f = f
	return e
}

func (e *eventFunc) dispose() {
	*e = eventFunc{}
	eventFuncPool.Put(e)
}

// eventTimer carries a fired timer back to the dispatch loop.
type eventTimer struct {
	event
	w     *window
	token TimerToken
}

func newEventTimer(w *window, token TimerToken) *eventTimer {
	e := eventTimerPool.Get().(*eventTimer)
	e.w = w
	e.token = token
	return e
}

func (e *eventTimer) dispose() {
	*e = eventTimer{}
	eventTimerPool.Put(e)
}

// eventOpenFile carries a file dialog completion back to the dispatch loop.
// info is nil when the dialog was cancelled.
type eventOpenFile struct {
	event
	w     *window
	token FileDialogToken
	info  *FileInfo
}

// eventPaint asks the dispatch loop to run one coalesced paint turn.
type eventPaint struct {
	event
}

// eventQuit asks the dispatch loop to tear down and return from Run.
type eventQuit struct {
	event
}
