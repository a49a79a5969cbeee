// Copyright 2026 The Druid Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package druid

import (
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/gdamore/tcell/v2/encoding"
	"github.com/golang/glog"
	"modernc.org/mathutil"
)

const (
	appIdle = iota
	appRunning
	appTerminated
)

// RunOptions configures Application.Run. It is currently empty and reserved
// for forward compatibility; passing nil is equivalent to the zero value.
type RunOptions struct{}

// PlatformInitError is returned by NewApplication when the terminal backend
// cannot initialize.
type PlatformInitError struct {
	Err error
}

func (e *PlatformInitError) Error() string { return "druid: platform init: " + e.Err.Error() }

func (e *PlatformInitError) Unwrap() error { return e.Err }

// Application is the process-wide handle to the event loop. It owns the
// terminal screen and every live window, and it is the dispatch loop: Run
// pumps backend events and invokes WinHandler callbacks, one at a time, on
// the calling goroutine.
//
// Except for Post, PostWait and Quit-via-posted-work, Application state is
// owned by the dispatch goroutine and its methods must be called from
// there.
type Application struct {
	dirty        Region           // Screen coordinates pending repaint.
	finalized    atomic.Bool      //
	focused      *window          //
	menu         *menuOverlay     //
	mouseButtons tcell.ButtonMask //
	mousePos     Position         //
	paintPending bool             //
	picker       *filePicker      //
	quitPosted   bool             //
	screen       tcell.Screen     //
	size         Size             //
	state        int              //
	theme        *Theme           //
	windows      []*window        // Top-level windows, in z-order.
}

// NewApplication returns a newly created Application bound to the process
// terminal, or a *PlatformInitError if the backend cannot initialize.
//
// Calling this function more than once will panic: the event loop is
// process wide and not restartable.
func NewApplication() (*Application, error) {
	done := false
	var a *Application
	var err error
	onceNewApplication.Do(func() {
		a, err = newApplication(nil)
		done = true
	})
	if !done {
		panic("NewApplication called more than once")
	}

	return a, err
}

func newApplication(screen tcell.Screen) (*Application, error) {
	encoding.Register()
	var err error
	if screen == nil {
		if screen, err = tcell.NewScreen(); err != nil {
			return nil, &PlatformInitError{err}
		}
	}

	if err = screen.Init(); err != nil {
		return nil, &PlatformInitError{err}
	}

	var size Size
	size.Width, size.Height = screen.Size()
	a := &Application{
		screen: screen,
		size:   size,
		theme:  DefaultTheme(),
	}
	a.screen.EnableMouse()
	return a, nil
}

// Size returns the size of the terminal the application runs in.
func (a *Application) Size() Size { return a.size }

// Theme returns the active theme.
func (a *Application) Theme() *Theme { return a.theme }

// SetTheme replaces the active theme. Windows built before the call keep
// their styles.
func (a *Application) SetTheme(t *Theme) {
	a.theme = t
	a.invalidateScreen(Rectangle{Size: a.size})
}

// Run blocks the calling goroutine, dispatching backend events to all live
// windows' handlers until Quit is called. After Run returns the terminal is
// restored and the Application is spent; it cannot be restarted.
//
// Calling Run more than once will panic.
func (a *Application) Run(opts *RunOptions) {
	if a.state != appIdle {
		panic("Application.Run called more than once")
	}

	_ = opts
	a.state = appRunning
	a.invalidateScreen(Rectangle{Size: a.size})
	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return
		}

		switch e := ev.(type) {
		case *tcell.EventResize:
			a.size = newSize(e.Size())
			a.screen.Sync()
			a.dirty.Clear()
			a.invalidateScreen(Rectangle{Size: a.size})
		case *tcell.EventKey:
			a.dispatchKey(e)
		case *tcell.EventMouse:
			a.translateMouse(e)
		case *eventFunc:
			f := e.f
			e.dispose()
			f()
		case *eventTimer:
			w, token := e.w, e.token
			e.dispose()
			if !w.dead {
				w.deliverTimer(token)
			}
		case *eventOpenFile:
			if !e.w.dead {
				e.w.deliverOpenFile(e.token, e.info)
			}
		case *eventPaint:
			a.paintTurn()
		case *eventQuit:
			a.terminate()
			return
		default:
			glog.V(2).Infof("druid: ignoring backend event %T", e)
		}
	}
}

// Quit stops the event loop: Run returns after the remaining queued events
// are drained and every surviving window received Destroy. Quit is
// idempotent.
func (a *Application) Quit() {
	if a.quitPosted {
		return
	}

	a.quitPosted = true
	a.post(&eventQuit{})
}

func (a *Application) terminate() {
	for len(a.windows) > 0 {
		a.closeWindow(a.windows[len(a.windows)-1])
	}
	a.state = appTerminated
	a.finalized.Store(true)
	a.screen.Fini()
}

// Post puts f in the event queue, if the queue is not full, and executes it
// on the dispatch goroutine on dequeuing. Safe for concurrent use.
func (a *Application) Post(f func()) { a.post(newEventFunc(f)) }

// PostWait puts f in the event queue and blocks until the dispatch
// goroutine executed it. Safe for concurrent use, but must not be called
// from the dispatch goroutine itself.
func (a *Application) PostWait(f func()) {
	if a.finalized.Load() {
		return
	}

	c := make(chan struct{})
	a.screen.PostEventWait(newEventFunc(func() {
		defer close(c)
		f()
	}))
	<-c
}

func (a *Application) post(ev tcell.Event) {
	if a.finalized.Load() {
		return
	}

	if err := a.screen.PostEvent(ev); err != nil {
		glog.Errorf("druid: event queue full, dropping %T", ev)
	}
}

// ----------------------------------------------------------------------------
// Window bookkeeping.

func (a *Application) buildWindow(b *WindowBuilder) WindowHandle {
	w := &window{
		app:       a,
		handler:   b.handler,
		menu:      b.menu,
		minSize:   b.minSize,
		position:  b.position,
		resizable: b.resizable,
		title:     b.title,
		titlebar:  b.titlebar,
	}
	size := b.size
	if b.parent.w != nil {
		w.parent = b.parent.w
		w.style = a.theme.ChildWindow
		if size.IsZero() {
			size = Size{24, 8}
		}
		w.parent.children = append(w.parent.children, w)
	} else {
		w.style = a.theme.Window
		if size.IsZero() {
			size = a.size
		}
		a.windows = append(a.windows, w)
	}
	if b.menu != nil {
		w.hotkeys = b.menu.bindings()
	}
	size.Width = mathutil.Max(size.Width, w.minSize.Width)
	size.Height = mathutil.Max(size.Height, w.minSize.Height)
	w.size = size

	handle := WindowHandle{w}
	w.deliverConnect(handle)
	w.deliverSize(w.size)
	return handle
}

func (a *Application) showWindow(w *window) {
	if w.visible {
		return
	}

	w.visible = true
	w.invalidate(Rectangle{Size: w.size})
	if a.focused == nil {
		a.setFocus(w)
	}
}

// closeWindow destroys w: children first, backend driven, then w's own
// handler receives Destroy. Idempotent.
func (a *Application) closeWindow(w *window) {
	if w.dead {
		return
	}

	w.dead = true
	if a.picker != nil && a.picker.win == w {
		p := a.picker
		a.picker = nil // Outstanding request dropped silently.
		a.invalidateScreen(p.area)
	}
	if a.menu != nil && a.menu.win == w {
		a.closeMenu()
	}

	area := w.screenArea()
	for len(w.children) > 0 {
		a.closeWindow(w.children[len(w.children)-1])
	}
	if w.parent != nil {
		w.parent.removeChild(w)
	} else {
		a.removeTopLevel(w)
	}
	if w.visible {
		a.invalidateScreen(area)
	}
	if a.focused == w {
		a.focused = nil
	}
	w.deliverDestroy()
	a.refocus()
}

func (a *Application) removeTopLevel(w *window) {
	for i, v := range a.windows {
		if v == w {
			copy(a.windows[i:], a.windows[i+1:])
			a.windows = a.windows[:len(a.windows)-1]
			return
		}
	}
}

func (a *Application) raiseWindow(w *window) {
	if p := w.parent; p != nil {
		a.raiseWindow(p)
		p.raise(w)
		return
	}

	for i, v := range a.windows {
		if v == w {
			if i == len(a.windows)-1 { // Already in front.
				return
			}

			copy(a.windows[i:], a.windows[i+1:])
			a.windows[len(a.windows)-1] = w
			w.invalidate(Rectangle{Size: w.size})
			return
		}
	}
}

func (a *Application) setFocus(w *window) {
	if a.focused == w {
		return
	}

	old := a.focused
	a.focused = w
	if old != nil && !old.dead {
		old.deliverLostFocus()
		old.invalidate(Rectangle{Size: old.size})
	}
	if w != nil && !w.dead {
		w.deliverGotFocus()
		w.invalidate(Rectangle{Size: w.size})
	}
}

func (a *Application) refocus() {
	if a.focused != nil {
		return
	}

	for i := len(a.windows) - 1; i >= 0; i-- {
		if w := a.windows[i]; w.visible && !w.dead {
			a.setFocus(w)
			return
		}
	}
}

func (a *Application) topLevelAt(pos Position) *window {
	for i := len(a.windows) - 1; i >= 0; i-- {
		w := a.windows[i]
		if w.visible && !w.dead && pos.In(w.screenArea()) {
			return w
		}
	}
	return nil
}

// ----------------------------------------------------------------------------
// Painting.

func (a *Application) invalidateScreen(area Rectangle) {
	if !area.Clip(Rectangle{Size: a.size}) {
		return
	}

	a.dirty.Add(area)
	a.schedulePaint()
}

// schedulePaint posts at most one pending paint event: repaints are
// coalesced per loop turn.
func (a *Application) schedulePaint() {
	if a.paintPending {
		return
	}

	a.paintPending = true
	a.post(&eventPaint{})
}

func (a *Application) paintTurn() {
	a.paintPending = false
	region := a.dirty
	a.dirty = Region{}
	if region.IsEmpty() {
		return
	}

	for _, r := range region.Rects() {
		area := r
		if !area.Clip(Rectangle{Size: a.size}) {
			continue
		}

		a.fill(area, a.theme.Desktop)
		for _, w := range a.windows {
			w.paintTree(area)
		}
	}
	if a.menu != nil {
		a.menu.paint()
	}
	if a.picker != nil {
		a.picker.paint()
	}
	a.screen.Show()
}

func (a *Application) fill(area Rectangle, style Style) {
	st := style.TCellStyle()
	for y := area.Y; y < area.Y+area.Height; y++ {
		for x := area.X; x < area.X+area.Width; x++ {
			a.screen.SetContent(x, y, ' ', nil, st)
		}
	}
}

// ----------------------------------------------------------------------------
// Input translation and routing.

func (a *Application) dispatchKey(e *tcell.EventKey) {
	ev := KeyEvent{Key: e.Key(), Rune: e.Rune(), Mods: e.Modifiers()}
	switch {
	case a.picker != nil:
		a.picker.key(ev)
	case a.menu != nil:
		a.menu.key(ev)
	default:
		w := a.focused
		if w == nil || w.dead {
			return
		}

		if w.deliverKeyDown(ev) {
			return // Default platform handling suppressed.
		}
		if w.dead {
			return
		}
		if id, ok := w.matchHotKey(ev); ok {
			w.deliverCommand(id)
		}
	}
}

const wheelMask = tcell.WheelUp | tcell.WheelDown | tcell.WheelLeft | tcell.WheelRight

// translateMouse splits one backend mouse event into move, wheel and button
// transitions. Moves are reported only when the pointer cell changed, so
// intermediate positions may be dropped under load.
func (a *Application) translateMouse(e *tcell.EventMouse) {
	x, y := e.Position()
	pos := Position{x, y}
	btns := e.Buttons()

	if wheel := btns & wheelMask; wheel != 0 {
		var d Position
		if wheel&tcell.WheelUp != 0 {
			d.Y--
		}
		if wheel&tcell.WheelDown != 0 {
			d.Y++
		}
		if wheel&tcell.WheelLeft != 0 {
			d.X--
		}
		if wheel&tcell.WheelRight != 0 {
			d.X++
		}
		a.routeWheel(pos, d, e.Modifiers())
	}

	btns &^= wheelMask
	if pos != a.mousePos {
		a.mousePos = pos
		a.routeMouseMove(pos, btns, e.Modifiers())
	}
	if diff := btns ^ a.mouseButtons; diff != 0 {
		pressed := diff & btns
		released := diff &^ btns
		a.mouseButtons = btns
		for b := tcell.Button1; b <= tcell.Button8; b <<= 1 {
			if pressed&b != 0 {
				a.routeMouseDown(pos, b, btns, e.Modifiers())
			}
			if released&b != 0 {
				a.routeMouseUp(pos, b, btns, e.Modifiers())
			}
		}
	}
}

// resolve maps a screen position to the deepest window under it and the
// position in that window's coordinates.
func (a *Application) resolve(pos Position) (*window, Position) {
	w := a.topLevelAt(pos)
	if w == nil {
		return nil, Position{}
	}

	o := w.screenPos()
	return w.hit(Position{pos.X - o.X, pos.Y - o.Y})
}

func (a *Application) routeMouseDown(pos Position, b, btns tcell.ButtonMask, mods tcell.ModMask) {
	if a.picker != nil {
		a.picker.mouseDown(pos)
		return
	}
	if a.menu != nil {
		a.menu.mouseDown(pos)
		return
	}

	target, tl := a.resolve(pos)
	if target == nil {
		return
	}

	if b == tcell.Button1 && target.titlebar {
		if tl.Y == 0 && target.closeButtonArea().Has(tl) {
			a.setFocus(target)
			target.deliverRequestClose()
			return
		}
		if target.menu != nil && tl.Y == 1 {
			if idx, ok := target.menubarHit(tl.X); ok {
				a.raiseWindow(target)
				a.setFocus(target)
				a.openMenu(target, idx)
				return
			}
		}
	}

	a.raiseWindow(target)
	a.setFocus(target)
	ca := target.clientArea()
	if !tl.In(ca) {
		return // Frame clicks are consumed by the shell.
	}

	target.deliverMouseDown(MouseEvent{
		Pos:     Position{tl.X - ca.X, tl.Y - ca.Y},
		Button:  b,
		Buttons: btns,
		Mods:    mods,
	})
}

func (a *Application) routeMouseUp(pos Position, b, btns tcell.ButtonMask, mods tcell.ModMask) {
	if a.picker != nil || a.menu != nil {
		return
	}

	target, tl := a.resolve(pos)
	if target == nil {
		return
	}

	ca := target.clientArea()
	if !tl.In(ca) {
		return
	}

	target.deliverMouseUp(MouseEvent{
		Pos:     Position{tl.X - ca.X, tl.Y - ca.Y},
		Button:  b,
		Buttons: btns,
		Mods:    mods,
	})
}

func (a *Application) routeMouseMove(pos Position, btns tcell.ButtonMask, mods tcell.ModMask) {
	if a.picker != nil || a.menu != nil {
		return
	}

	target, tl := a.resolve(pos)
	if target == nil {
		return
	}

	ca := target.clientArea()
	if !tl.In(ca) {
		return
	}

	target.deliverMouseMove(MouseEvent{
		Pos:     Position{tl.X - ca.X, tl.Y - ca.Y},
		Buttons: btns,
		Mods:    mods,
	})
}

func (a *Application) routeWheel(pos Position, delta Position, mods tcell.ModMask) {
	if a.picker != nil || a.menu != nil {
		return
	}

	target, tl := a.resolve(pos)
	if target == nil {
		return
	}

	ca := target.clientArea()
	if !tl.In(ca) {
		return
	}

	target.deliverWheel(MouseEvent{
		Pos:        Position{tl.X - ca.X, tl.Y - ca.Y},
		Buttons:    a.mouseButtons,
		Mods:       mods,
		WheelDelta: delta,
	})
}
