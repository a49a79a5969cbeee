// Copyright 2026 The Druid Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package druid

import (
	"runtime/debug"

	"github.com/golang/glog"
)

// guard invokes one handler callback, isolating the dispatch loop from
// panics. A panic inside a callback is logged and absorbed; it must not
// corrupt the loop's ability to deliver further events, in particular
// Destroy, to this or any other window.
func (w *window) guard(callback string, f func()) {
	defer func() {
		if r := recover(); r != nil {
			glog.Errorf("druid: recovered panic in %s handler of window %q: %v\n%s",
				callback, w.title, r, debug.Stack())
		}
	}()
	f()
}

func (w *window) guardKeyDown(e KeyEvent) (handled bool) {
	defer func() {
		if r := recover(); r != nil {
			glog.Errorf("druid: recovered panic in key down handler of window %q: %v\n%s",
				w.title, r, debug.Stack())
			handled = false
		}
	}()
	return w.handler.KeyDown(e)
}

// canDeliver reports whether steady-state callbacks may still be delivered
// to w: after Connect, before destruction.
func (w *window) canDeliver() bool { return w.connected && !w.destroyed && !w.dead }

func (w *window) deliverConnect(h WindowHandle) {
	if w.connected {
		return
	}

	w.connected = true
	w.guard("connect", func() { w.handler.Connect(h) })
}

func (w *window) deliverSize(s Size) {
	if !w.canDeliver() {
		return
	}

	w.guard("size", func() { w.handler.Size(s) })
}

func (w *window) deliverPaint(s *Surface, region *Region) {
	if !w.canDeliver() {
		return
	}

	w.guard("prepare paint", func() { w.handler.PreparePaint() })
	w.guard("paint", func() { w.handler.Paint(s, region) })
}

func (w *window) deliverCommand(id uint32) {
	if !w.canDeliver() {
		return
	}

	w.guard("command", func() { w.handler.Command(id) })
}

func (w *window) deliverOpenFile(token FileDialogToken, info *FileInfo) {
	if !w.canDeliver() {
		return
	}

	w.guard("open file", func() { w.handler.OpenFile(token, info) })
}

func (w *window) deliverKeyDown(e KeyEvent) bool {
	if !w.canDeliver() {
		return false
	}

	return w.guardKeyDown(e)
}

func (w *window) deliverKeyUp(e KeyEvent) {
	if !w.canDeliver() {
		return
	}

	w.guard("key up", func() { w.handler.KeyUp(e) })
}

func (w *window) deliverWheel(e MouseEvent) {
	if !w.canDeliver() {
		return
	}

	w.guard("wheel", func() { w.handler.Wheel(e) })
}

func (w *window) deliverMouseMove(e MouseEvent) {
	if !w.canDeliver() {
		return
	}

	w.guard("mouse move", func() { w.handler.MouseMove(e) })
}

func (w *window) deliverMouseDown(e MouseEvent) {
	if !w.canDeliver() {
		return
	}

	w.guard("mouse down", func() { w.handler.MouseDown(e) })
}

func (w *window) deliverMouseUp(e MouseEvent) {
	if !w.canDeliver() {
		return
	}

	w.guard("mouse up", func() { w.handler.MouseUp(e) })
}

func (w *window) deliverTimer(token TimerToken) {
	if !w.canDeliver() {
		return
	}

	w.guard("timer", func() { w.handler.Timer(token) })
}

func (w *window) deliverGotFocus() {
	if !w.canDeliver() {
		return
	}

	w.guard("got focus", func() { w.handler.GotFocus() })
}

func (w *window) deliverLostFocus() {
	if !w.canDeliver() {
		return
	}

	w.guard("lost focus", func() { w.handler.LostFocus() })
}

func (w *window) deliverRequestClose() {
	if !w.canDeliver() {
		return
	}

	w.guard("request close", func() { w.handler.RequestClose() })
}

func (w *window) deliverDestroy() {
	if !w.connected || w.destroyed {
		return
	}

	w.destroyed = true
	w.guard("destroy", func() { w.handler.Destroy() })
}
