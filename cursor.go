// Copyright 2026 The Druid Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package druid

// Cursor enumerates the pointer appearances a window can request through
// WindowHandle.SetCursor. Terminal backends cannot change the pointer shape;
// the requested kind is recorded per window and is purely advisory.
type Cursor int

// Available cursor kinds.
const (
	CursorArrow Cursor = iota
	CursorIBeam
	CursorCrosshair
	CursorOpenHand
	CursorNotAllowed
	CursorResizeLeftRight
	CursorResizeUpDown
)

func (c Cursor) String() string {
	switch c {
	case CursorArrow:
		return "Arrow"
	case CursorIBeam:
		return "IBeam"
	case CursorCrosshair:
		return "Crosshair"
	case CursorOpenHand:
		return "OpenHand"
	case CursorNotAllowed:
		return "NotAllowed"
	case CursorResizeLeftRight:
		return "ResizeLeftRight"
	case CursorResizeUpDown:
		return "ResizeUpDown"
	}
	return "Cursor(?)"
}
