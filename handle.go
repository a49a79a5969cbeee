// Copyright 2026 The Druid Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package druid

import (
	"time"
)

// WindowHandle is a cloneable, shared reference to one live window; it is
// the only way a handler acts on its own window. Copies share identity:
// every copy refers to the same backend window, never owns it.
//
// The zero WindowHandle is detached. Every action on a detached handle, or
// on a handle whose window has been destroyed, is a no-op; it is never
// undefined behavior. Actions are requests to the backend and must be
// issued from the dispatch goroutine; calling them from another goroutine
// is unsupported.
type WindowHandle struct {
	w *window
}

// IsLive returns whether the handle refers to a window that has not been
// destroyed.
func (h WindowHandle) IsLive() bool { return h.w != nil && !h.w.dead }

// Close requests destruction of the window. Destruction tears down child
// windows first, then delivers Destroy to the window's own handler. Calling
// Close more than once is an idempotent no-op after the first call.
func (h WindowHandle) Close() {
	if !h.IsLive() {
		return
	}

	h.w.app.closeWindow(h.w)
}

// Show makes the window visible. Windows are built hidden and must be shown
// explicitly. The first window shown receives focus.
func (h WindowHandle) Show() {
	if !h.IsLive() {
		return
	}

	h.w.app.showWindow(h.w)
}

// SetTitle changes the window title.
func (h WindowHandle) SetTitle(title string) {
	if !h.IsLive() {
		return
	}

	w := h.w
	if w.title == title {
		return
	}

	w.title = title
	w.invalidate(Rectangle{Size: Size{w.size.Width, 1}})
}

// SetCursor records the pointer appearance requested while over this
// window. On a terminal backend the kind is advisory; it has no visible
// effect unless the window is hovered.
func (h WindowHandle) SetCursor(c Cursor) {
	if !h.IsLive() {
		return
	}

	h.w.cursor = c
}

// SetSize resizes the window, delivering a Size callback with the new
// dimensions.
func (h WindowHandle) SetSize(s Size) {
	if !h.IsLive() {
		return
	}

	h.w.setSize(s)
}

// SetPosition moves the window. Child window positions are relative to the
// parent's client area.
func (h WindowHandle) SetPosition(p Position) {
	if !h.IsLive() {
		return
	}

	h.w.setPosition(p)
}

// GetSize returns the current window size, or the zero Size on a detached
// handle.
func (h WindowHandle) GetSize() Size {
	if !h.IsLive() {
		return Size{}
	}

	return h.w.size
}

// GetPosition returns the current window position.
func (h WindowHandle) GetPosition() Position {
	if !h.IsLive() {
		return Position{}
	}

	return h.w.position
}

// SetFocus makes the window the keyboard focus target. Hidden windows
// cannot take focus.
func (h WindowHandle) SetFocus() {
	if !h.IsLive() || !h.w.visible {
		return
	}

	h.w.app.setFocus(h.w)
}

// BringToFront raises the window above its siblings.
func (h WindowHandle) BringToFront() {
	if !h.IsLive() {
		return
	}

	h.w.app.raiseWindow(h.w)
}

// Invalidate marks the whole window for repaint.
func (h WindowHandle) Invalidate() {
	if !h.IsLive() {
		return
	}

	h.w.invalidate(Rectangle{Size: h.w.size})
}

// InvalidateRect marks an area of the client area, in client coordinates,
// for repaint.
func (h WindowHandle) InvalidateRect(area Rectangle) {
	if !h.IsLive() {
		return
	}

	ca := h.w.clientArea()
	if !area.Clip(Rectangle{Size: ca.Size}) {
		return
	}

	area.X += ca.X
	area.Y += ca.Y
	h.w.invalidate(area)
}

// OpenFile issues an asynchronous file-selection request and returns its
// correlation token immediately. The eventual result arrives through the
// OpenFile callback of this window's handler: exactly once with the chosen
// file, or with nil if the user cancelled. A request still outstanding when
// the window is destroyed is dropped silently; the completion callback is
// then never delivered. On a detached handle the zero token is returned and
// no dialog opens.
func (h WindowHandle) OpenFile(options FileDialogOptions) FileDialogToken {
	if !h.IsLive() {
		return 0
	}

	return h.w.app.openFileDialog(h.w, options)
}

// RequestTimer schedules a single-shot timer and returns its token. The
// Timer callback fires once on the dispatch goroutine after d elapses,
// unless the window is destroyed first, in which case the callback is
// dropped silently. On a detached handle the zero token is returned and no
// timer is scheduled.
func (h WindowHandle) RequestTimer(d time.Duration) TimerToken {
	if !h.IsLive() {
		return 0
	}

	return h.w.app.requestTimer(h.w, d)
}
