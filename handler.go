// Copyright 2026 The Druid Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package druid

// WinHandler is the capability contract every window owner implements. The
// dispatch loop delivers every inbound event of a window through this
// interface; it is the loop's sole dispatch target.
//
// Callbacks are invoked one at a time, run to completion, on the dispatch
// goroutine. Connect is delivered exactly once before any other callback and
// Destroy exactly once after all others; no ordering is guaranteed across
// distinct windows. A callback must not block: long-running work stalls
// every window and has to be deferred to a timer or an external mechanism.
//
// Most callbacks have no error channel. A failure inside a callback must be
// absorbed by the implementation; panics are recovered by the dispatch loop,
// logged and otherwise ignored, leaving the window in its last well-defined
// state.
type WinHandler interface {
	// Connect is delivered once, before any other callback, handing the
	// window its action handle. Implementations store the handle for later
	// action calls.
	Connect(handle WindowHandle)

	// Size is delivered whenever the backend resizes the window. It must be
	// idempotent and limited to updating cached layout state; it triggers no
	// implicit repaint.
	Size(size Size)

	// PreparePaint is delivered immediately before Paint, on the same
	// dispatch turn, and is the place to finalize lazily computed layout.
	PreparePaint()

	// Paint is delivered when the backend needs pixels. Drawing is clipped
	// to the dirty region: a full-surface redraw is always legal, merely
	// less efficient, as effects outside the region are discarded. When
	// region is empty the whole client area needs repainting.
	Paint(surface *Surface, region *Region)

	// Command is delivered when the menu item carrying id is activated,
	// either by click or by its hotkey. Unknown ids must be handled without
	// crashing; ignoring them, optionally with a log line, is the defined
	// behavior.
	Command(id uint32)

	// OpenFile is the completion callback of a WindowHandle.OpenFile
	// request, correlated by token. info is nil when the user cancelled.
	// Delivered at most once per token.
	OpenFile(token FileDialogToken, info *FileInfo)

	// KeyDown reports a key press. Returning true suppresses default
	// platform handling of the event, including menu hotkey activation;
	// returning false lets the platform continue.
	KeyDown(e KeyEvent) bool

	// KeyUp reports a key release. Terminal backends cannot observe key
	// release and never deliver it; the callback is part of the contract
	// for backends that can.
	KeyUp(e KeyEvent)

	// Wheel reports scroll wheel motion over the window.
	Wheel(e MouseEvent)

	// MouseMove reports pointer motion over the client area. Moves are
	// coalesced: delivery is at most once per loop turn, not once per
	// intermediate position, and handlers must not rely on seeing every
	// position.
	MouseMove(e MouseEvent)

	// MouseDown reports a button press in the client area.
	MouseDown(e MouseEvent)

	// MouseUp reports a button release in the client area.
	MouseUp(e MouseEvent)

	// Timer is delivered once when a timer scheduled through
	// WindowHandle.RequestTimer fires. Timers are single shot unless the
	// handler re-arms.
	Timer(token TimerToken)

	// GotFocus and LostFocus are paired notifications. A window must not
	// assume it starts focused or unfocused; the initial state is backend
	// determined.
	GotFocus()
	LostFocus()

	// RequestClose is delivered when an external close request arrives,
	// such as the user clicking the close control. The handler decides
	// whether to actually close, by calling Close on its handle, or to
	// veto by doing nothing.
	RequestClose()

	// Destroy is the terminal callback, delivered once after the backend
	// window is gone. The handler must release what it holds and must not
	// call actions on its now dead handle.
	Destroy()

	// AsAny exposes the handler as a dynamically typed value for host-side
	// downcasting when the host needs concrete access beyond the contract.
	// Not part of the steady-state event path.
	AsAny() interface{}
}

// WindowHandlerBase provides no-op defaults for the full WinHandler
// contract. Concrete window roles embed it and override only the callbacks
// they care about. The defaults veto RequestClose (by doing nothing) and
// decline KeyDown (returning false).
type WindowHandlerBase struct{}

var _ WinHandler = (*WindowHandlerBase)(nil)

func (*WindowHandlerBase) Connect(WindowHandle)                   {}
func (*WindowHandlerBase) Size(Size)                              {}
func (*WindowHandlerBase) PreparePaint()                          {}
func (*WindowHandlerBase) Paint(*Surface, *Region)                {}
func (*WindowHandlerBase) Command(uint32)                         {}
func (*WindowHandlerBase) OpenFile(FileDialogToken, *FileInfo)    {}
func (*WindowHandlerBase) KeyDown(KeyEvent) bool                  { return false }
func (*WindowHandlerBase) KeyUp(KeyEvent)                         {}
func (*WindowHandlerBase) Wheel(MouseEvent)                       {}
func (*WindowHandlerBase) MouseMove(MouseEvent)                   {}
func (*WindowHandlerBase) MouseDown(MouseEvent)                   {}
func (*WindowHandlerBase) MouseUp(MouseEvent)                     {}
func (*WindowHandlerBase) Timer(TimerToken)                       {}
func (*WindowHandlerBase) GotFocus()                              {}
func (*WindowHandlerBase) LostFocus()                             {}
func (*WindowHandlerBase) RequestClose()                          {}
func (*WindowHandlerBase) Destroy()                               {}

// AsAny returns nil. Handlers that want host-side downcasting override it to
// return themselves.
func (*WindowHandlerBase) AsAny() interface{} { return nil }
