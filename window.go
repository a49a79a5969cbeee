// Copyright 2026 The Druid Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package druid

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"modernc.org/mathutil"
)

const (
	closeButtonOffset = 4 // X coordinate: window width - closeButtonOffset.
	closeButtonWidth  = 3
)

// window is the backend record of one live window. The exported surface is
// WindowHandle; handlers never see this type. All fields are owned by the
// dispatch goroutine.
type window struct {
	app       *Application //
	children  []*window    // In z-order, last on top.
	connected bool         // Connect delivered.
	cursor    Cursor       //
	dead      bool         // Backend resource gone, all actions are no-ops.
	destroyed bool         // Destroy delivered.
	handler   WinHandler   //
	hotkeys   []hotKeyBinding
	menu      *Menu       //
	minSize   Size        //
	parent    *window     //
	position  Position    // Screen coordinates, or parent client coordinates.
	resizable bool        //
	size      Size        //
	style     WindowStyle //
	title     string      //
	titlebar  bool        //
	visible   bool        //
}

// screenPos returns the screen coordinates of the window's top left corner.
// Child positions are relative to the parent's client area.
func (w *window) screenPos() Position {
	if w.parent == nil {
		return w.position
	}

	pp := w.parent.screenPos()
	ca := w.parent.clientArea()
	return Position{pp.X + ca.X + w.position.X, pp.Y + ca.Y + w.position.Y}
}

func (w *window) screenArea() Rectangle { return Rectangle{w.screenPos(), w.size} }

// frameTop returns the number of frame rows above the client area.
func (w *window) frameTop() int {
	if !w.titlebar {
		return 0
	}

	if w.menu != nil {
		return 2 // Title row plus menubar row.
	}

	return 1
}

// clientArea returns the client area in window coordinates.
func (w *window) clientArea() Rectangle {
	if !w.titlebar {
		return Rectangle{Size: w.size}
	}

	top := w.frameTop()
	return Rectangle{
		Position{1, top},
		Size{mathutil.Max(0, w.size.Width-2), mathutil.Max(0, w.size.Height-top-1)},
	}
}

func (w *window) closeButtonArea() Rectangle {
	return Rectangle{Position{w.size.Width - closeButtonOffset, 0}, Size{closeButtonWidth, 1}}
}

// setSize resizes the window and delivers the Size callback with the new
// dimensions. The cached size a handler keeps must equal the last value
// delivered, so delivery is unconditional even when coalescing repaints.
func (w *window) setSize(s Size) {
	s.Width = mathutil.Max(mathutil.Max(0, w.minSize.Width), s.Width)
	s.Height = mathutil.Max(mathutil.Max(0, w.minSize.Height), s.Height)
	old := w.screenArea()
	w.size = s
	w.app.invalidateScreen(old)
	w.app.invalidateScreen(w.screenArea())
	w.deliverSize(s)
}

func (w *window) setPosition(p Position) {
	old := w.screenArea()
	w.position = p
	w.app.invalidateScreen(old)
	w.app.invalidateScreen(w.screenArea())
}

func (w *window) invalidate(area Rectangle) {
	if !area.Clip(Rectangle{Size: w.size}) {
		return
	}

	o := w.screenPos()
	area.X += o.X
	area.Y += o.Y
	w.app.invalidateScreen(area)
}

func (w *window) removeChild(ch *window) {
	for i, v := range w.children {
		if v == ch {
			copy(w.children[i:], w.children[i+1:])
			w.children = w.children[:len(w.children)-1]
			break
		}
	}
}

// raise puts c on top of its siblings.
func (w *window) raise(c *window) {
	for i, v := range w.children {
		if v == c {
			if i == len(w.children)-1 { // Already in front.
				return
			}

			copy(w.children[i:], w.children[i+1:])
			w.children[len(w.children)-1] = c
			c.invalidate(Rectangle{Size: c.size})
			return
		}
	}
}

func (w *window) focused() bool { return w.app.focused == w }

// hit resolves pos, in w's window coordinates, to the deepest visible window
// containing it, returning that window and the position in its window
// coordinates.
func (w *window) hit(pos Position) (*window, Position) {
	ca := w.clientArea()
	if !pos.In(ca) {
		return w, pos
	}

	cpos := Position{pos.X - ca.X, pos.Y - ca.Y}
	for i := len(w.children) - 1; i >= 0; i-- {
		c := w.children[i]
		if !c.visible || c.dead {
			continue
		}

		if (Rectangle{c.position, c.size}).Has(cpos) {
			return c.hit(Position{cpos.X - c.position.X, cpos.Y - c.position.Y})
		}
	}
	return w, pos
}

// matchHotKey resolves a key event against the window's menu accelerators.
func (w *window) matchHotKey(e KeyEvent) (id uint32, ok bool) {
	for _, b := range w.hotkeys {
		if b.key.Match(e) {
			return b.id, true
		}
	}
	return 0, false
}

// paintTree renders the window and its children, clipped to area (screen
// coordinates). Painting is bottom to top so overlapping siblings end up in
// z-order.
func (w *window) paintTree(area Rectangle) {
	if !w.visible || w.dead {
		return
	}

	wa := w.screenArea()
	clip := wa
	if !clip.Clip(area) {
		return
	}

	if w.titlebar {
		fs := &Surface{app: w.app, origin: wa.Position, clip: clip, size: w.size}
		w.paintFrame(fs)
	}

	caw := w.clientArea()
	ca := Rectangle{Position{wa.X + caw.X, wa.Y + caw.Y}, caw.Size}
	cl := ca
	if !cl.Clip(area) {
		return
	}

	s := &Surface{app: w.app, origin: ca.Position, clip: cl, size: caw.Size}
	dirty := Rectangle{Position{cl.X - ca.X, cl.Y - ca.Y}, cl.Size}
	s.Fill(dirty, ' ', w.style.ClientArea)

	var region Region
	if dirty != (Rectangle{Size: caw.Size}) {
		region.Add(dirty)
	}
	w.deliverPaint(s, &region)

	for _, c := range w.children {
		c.paintTree(cl)
	}
}

// paintFrame draws the border, the title row with the close button and the
// menubar. s covers the whole window area.
func (w *window) paintFrame(s *Surface) {
	border := w.style.Border
	if w.focused() {
		border.Attr ^= tcell.AttrReverse
	}

	sz := w.size
	for x := 1; x < sz.Width-1; x++ {
		s.SetCell(x, 0, tcell.RuneHLine, nil, border)
		s.SetCell(x, sz.Height-1, tcell.RuneHLine, nil, border)
	}
	for y := 1; y < sz.Height-1; y++ {
		s.SetCell(0, y, tcell.RuneVLine, nil, border)
		s.SetCell(sz.Width-1, y, tcell.RuneVLine, nil, border)
	}
	s.SetCell(0, 0, tcell.RuneULCorner, nil, border)
	s.SetCell(sz.Width-1, 0, tcell.RuneURCorner, nil, border)
	s.SetCell(0, sz.Height-1, tcell.RuneLLCorner, nil, border)
	s.SetCell(sz.Width-1, sz.Height-1, tcell.RuneLRCorner, nil, border)

	if w.title != "" {
		title := w.style.Title
		if w.focused() {
			title.Attr ^= tcell.AttrReverse
		}
		max := sz.Width - 2 - closeButtonOffset
		s.Print(1, 0, title, runewidth.Truncate(fmt.Sprintf(" %s ", w.title), mathutil.Max(0, max), ""))
	}
	if x := sz.Width - closeButtonOffset; x > 0 {
		s.Print(x, 0, border, "[X]")
	}

	if w.menu != nil {
		w.paintMenubar(s)
	}
}

// Surface is the drawing target handed to WinHandler.Paint. Its coordinates
// are client area coordinates: (0, 0) is the top left client cell. Writes
// are clipped to the area being repainted; a handler can safely draw outside
// of it, or outside of the client area, as such attempts are silently
// discarded. A surface is only valid for the duration of the Paint call it
// is passed to.
type Surface struct {
	app    *Application //
	clip   Rectangle    // Screen coordinates.
	origin Position     // Screen coordinates of local (0, 0).
	size   Size         //
}

// Size returns the size of the drawable area.
func (s *Surface) Size() Size { return s.size }

// SetCell sets one cell. combc carries combining runes, usually nil.
func (s *Surface) SetCell(x, y int, mainc rune, combc []rune, style Style) {
	p := Position{s.origin.X + x, s.origin.Y + y}
	if !p.In(s.clip) {
		return
	}

	s.app.screen.SetContent(p.X, p.Y, mainc, combc, style.TCellStyle())
}

// Fill sets every cell of area to mainc.
func (s *Surface) Fill(area Rectangle, mainc rune, style Style) {
	for y := area.Y; y < area.Y+area.Height; y++ {
		for x := area.X; x < area.X+area.Width; x++ {
			s.SetCell(x, y, mainc, nil, style)
		}
	}
}

// Clear fills the whole drawable area with spaces.
func (s *Surface) Clear(style Style) { s.Fill(Rectangle{Size: s.size}, ' ', style) }

func (s *Surface) printCell(x, y, width int, main rune, comb []rune, style Style) (int, int) {
	switch main {
	case '\r':
		return 0, y
	case '\n':
		return 0, y + 1
	default:
		s.SetCell(x, y, main, comb, style)
		return x + width, y
	}
}

// Print renders str starting at x, y, handling newlines, combining runes and
// double width runes. Cells outside the clip area are dropped.
func (s *Surface) Print(x, y int, style Style, str string) {
	if str == "" {
		return
	}

	var main rune
	var comb []rune
	var state, width int

	const (
		st0         = iota // main, width, comb not valid.
		stCheckComb        // main, width, comb valid, checking if followed by combining char(s).
		stComb             // main, width, comb valid, collecting combining chars.
	)

	for _, r := range str {
		if r == 0 {
			continue
		}

		switch runewidth.RuneWidth(r) {
		case 0: // Combining char.
			switch state {
			case st0:
				main = ' '
				width = 1
				comb = append(comb[:0], r)
				state = stComb
			case stCheckComb, stComb:
				comb = append(comb, r)
				state = stComb
			default:
				panic("internal error")
			}
		case 1: // Normal width.
			switch state {
			case st0:
				main = r
				width = 1
				comb = comb[:0]
				state = stCheckComb
			case stCheckComb:
				x, y = s.printCell(x, y, width, main, comb, style)
				main = r
				width = 1
				comb = comb[:0]
				state = stCheckComb
			case stComb:
				comb = append(comb, r)
			default:
				panic("internal error")
			}
		case 2: // Double width.
			switch state {
			case st0:
				main = r
				width = 2
				comb = comb[:0]
				state = stCheckComb
			case stCheckComb:
				x, y = s.printCell(x, y, width, main, comb, style)
				main = r
				width = 2
				comb = comb[:0]
				state = stCheckComb
			case stComb:
				comb = append(comb, r)
			default:
				panic("internal error")
			}
		default:
			panic("internal error")
		}
	}
	switch state {
	case stCheckComb, stComb:
		s.printCell(x, y, width, main, comb, style)
	default:
		panic(fmt.Errorf("%q: %v", str, state))
	}
}

// Printf is like Print with fmt.Sprintf formatting.
func (s *Surface) Printf(x, y int, style Style, format string, arg ...interface{}) {
	s.Print(x, y, style, fmt.Sprintf(format, arg...))
}
