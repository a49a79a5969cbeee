// Copyright 2026 The Druid Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package druid

import (
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"modernc.org/mathutil"
)

// Menu is a declarative tree of command entries with optional hotkeys. A
// menu is built once at configuration time, bound to a window through
// WindowBuilder.SetMenu and immutable thereafter.
//
// Command ids are caller-assigned opaque integers; the shell neither
// allocates nor validates uniqueness. Colliding ids are a caller error
// whose effect is ambiguous dispatch. Id 0 is reserved by convention and
// never dispatched.
type Menu struct {
	items []*menuItem
}

type menuItem struct {
	checked bool    //
	enabled bool    //
	hotkey  *HotKey //
	id      uint32  //
	label   string  //
	sub     *Menu   // Dropdown group, nil for leaves.
}

// NewMenu returns an empty menu.
func NewMenu() *Menu { return &Menu{} }

// AddItem appends a leaf entry activating Command(id) on the owning
// window's handler. key optionally binds a hotkey activating the same id; a
// hotkey and its menu entry are indistinguishable to the handler. An '&' in
// label marks the mnemonic rune and is stripped for display.
func (m *Menu) AddItem(id uint32, label string, key *HotKey, enabled, checked bool) {
	m.items = append(m.items, &menuItem{
		checked: checked,
		enabled: enabled,
		hotkey:  key,
		id:      id,
		label:   label,
	})
}

// AddDropdown appends sub as a labeled dropdown group.
func (m *Menu) AddDropdown(sub *Menu, label string, enabled bool) {
	m.items = append(m.items, &menuItem{
		enabled: enabled,
		label:   label,
		sub:     sub,
	})
}

type hotKeyBinding struct {
	id  uint32
	key HotKey
}

// bindings collects the hotkeys of all enabled leaves, at any depth.
func (m *Menu) bindings() (r []hotKeyBinding) {
	for _, it := range m.items {
		if it.sub != nil {
			if it.enabled {
				r = append(r, it.sub.bindings()...)
			}
			continue
		}

		if it.enabled && it.hotkey != nil && it.id != 0 {
			r = append(r, hotKeyBinding{it.id, *it.hotkey})
		}
	}
	return r
}

func displayLabel(label string) string { return strings.ReplaceAll(label, "&", "") }

// SysMods is a platform independent modifier set for hotkeys. Cmd resolves
// to the primary command modifier of the platform; on terminals that is
// Ctrl.
type SysMods int

// Available modifier sets.
const (
	SysModsNone SysMods = iota
	SysModsShift
	SysModsCmd
	SysModsAltCmd
	SysModsCmdShift
)

// HotKey is a platform independent accelerator: a modifier set and a key.
// Each hotkey resolves to exactly one physical key combination per
// platform.
type HotKey struct {
	Mods SysMods
	Key  rune
}

// NewHotKey returns a hotkey activating on mods plus key.
func NewHotKey(mods SysMods, key rune) *HotKey { return &HotKey{mods, key} }

// ctrlKey returns the tcell key code of Ctrl plus a letter, or KeyNUL when
// r has no control form.
func ctrlKey(r rune) tcell.Key {
	r = unicode.ToLower(r)
	if r < 'a' || r > 'z' {
		return tcell.KeyNUL
	}

	return tcell.KeyCtrlA + tcell.Key(r-'a')
}

// Match returns whether e is the physical combination k resolves to on this
// platform.
func (k HotKey) Match(e KeyEvent) bool {
	switch k.Mods {
	case SysModsNone:
		return e.Key == tcell.KeyRune && e.Rune == k.Key &&
			e.Mods&(tcell.ModCtrl|tcell.ModAlt) == 0
	case SysModsShift:
		return e.Key == tcell.KeyRune && e.Rune == unicode.ToUpper(k.Key) &&
			e.Mods&(tcell.ModCtrl|tcell.ModAlt) == 0
	case SysModsCmd:
		c := ctrlKey(k.Key)
		return c != tcell.KeyNUL && e.Key == c && e.Mods&tcell.ModAlt == 0
	case SysModsAltCmd:
		c := ctrlKey(k.Key)
		return c != tcell.KeyNUL && e.Key == c && e.Mods&tcell.ModAlt != 0
	case SysModsCmdShift:
		c := ctrlKey(k.Key)
		return c != tcell.KeyNUL && e.Key == c && e.Mods&tcell.ModAlt == 0 &&
			e.Mods&tcell.ModShift != 0
	}
	return false
}

func (k HotKey) String() string {
	var b strings.Builder
	switch k.Mods {
	case SysModsShift:
		b.WriteString("Shift+")
	case SysModsCmd:
		b.WriteString("Ctrl+")
	case SysModsAltCmd:
		b.WriteString("Alt+Ctrl+")
	case SysModsCmdShift:
		b.WriteString("Ctrl+Shift+")
	}
	b.WriteRune(unicode.ToUpper(k.Key))
	return b.String()
}

// menubarItem is one laid out menubar entry: x and width are window
// coordinates on the menubar row.
type menubarItem struct {
	index int
	width int
	x     int
}

func (w *window) menubarItems() (r []menubarItem) {
	if w.menu == nil {
		return nil
	}

	x := 1
	for i, it := range w.menu.items {
		width := runewidth.StringWidth(displayLabel(it.label)) + 2
		r = append(r, menubarItem{index: i, width: width, x: x})
		x += width
	}
	return r
}

// menubarHit resolves an x coordinate on the menubar row to a menu item
// index.
func (w *window) menubarHit(x int) (index int, ok bool) {
	for _, it := range w.menubarItems() {
		if x >= it.x && x < it.x+it.width {
			return it.index, true
		}
	}
	return 0, false
}

// paintMenubar renders the menubar row of the frame. The open dropdown's
// label, if any, is shown selected.
func (w *window) paintMenubar(s *Surface) {
	theme := w.app.theme
	style := w.style.Menubar
	for x := 1; x < w.size.Width-1; x++ {
		s.SetCell(x, 1, ' ', nil, style)
	}
	open := -1
	if ov := w.app.menu; ov != nil && ov.win == w {
		open = ov.index
	}
	for _, mi := range w.menubarItems() {
		it := w.menu.items[mi.index]
		st := style
		switch {
		case mi.index == open:
			st = theme.MenuSelected
		case !it.enabled:
			st = theme.MenuDisabled
		}
		s.Printf(mi.x, 1, st, " %s ", displayLabel(it.label))
	}
}

// menuOverlay is the open dropdown of one window's menubar. At most one
// overlay is open per application; it grabs key and mouse input until it
// closes.
type menuOverlay struct {
	app   *Application //
	area  Rectangle    // Screen coordinates.
	index int          // Menubar item index of the dropdown.
	menu  *Menu        // The dropdown's entries.
	sel   int          //
	win   *window      //
}

// openMenu activates menubar item index of w: dropdowns open as an overlay,
// enabled leaves dispatch their command directly.
func (a *Application) openMenu(w *window, index int) {
	it := w.menu.items[index]
	if !it.enabled {
		return
	}

	if it.sub == nil {
		if it.id != 0 {
			w.deliverCommand(it.id)
		}
		return
	}

	width := 0
	for _, sub := range it.sub.items {
		n := runewidth.StringWidth(displayLabel(sub.label)) + 2
		if sub.hotkey != nil {
			n += runewidth.StringWidth(sub.hotkey.String()) + 2
		}
		width = mathutil.Max(width, n)
	}

	var x int
	for _, mi := range w.menubarItems() {
		if mi.index == index {
			x = mi.x
			break
		}
	}
	o := w.screenPos()
	area := Rectangle{Position{o.X + x, o.Y + 2}, Size{width + 2, len(it.sub.items) + 2}}
	screen := Rectangle{Size: a.size}
	area.X = mathutil.Min(area.X, screen.Width-area.Width)
	area.X = mathutil.Max(area.X, 0)
	area.Clip(screen)

	a.menu = &menuOverlay{
		app:   a,
		area:  area,
		index: index,
		menu:  it.sub,
		win:   w,
	}
	a.invalidateScreen(area)
	w.invalidate(Rectangle{Position{0, 1}, Size{w.size.Width, 1}})
}

func (a *Application) closeMenu() {
	ov := a.menu
	if ov == nil {
		return
	}

	a.menu = nil
	a.invalidateScreen(ov.area)
	if !ov.win.dead {
		ov.win.invalidate(Rectangle{Position{0, 1}, Size{ov.win.size.Width, 1}})
	}
}

func (ov *menuOverlay) key(e KeyEvent) {
	switch e.Key {
	case tcell.KeyEscape:
		ov.app.closeMenu()
	case tcell.KeyUp:
		if ov.sel > 0 {
			ov.sel--
			ov.app.invalidateScreen(ov.area)
		}
	case tcell.KeyDown:
		if ov.sel < len(ov.menu.items)-1 {
			ov.sel++
			ov.app.invalidateScreen(ov.area)
		}
	case tcell.KeyLeft:
		ov.shift(-1)
	case tcell.KeyRight:
		ov.shift(1)
	case tcell.KeyEnter:
		ov.activate(ov.sel)
	}
}

// shift moves the overlay to the adjacent menubar dropdown, if any.
func (ov *menuOverlay) shift(dir int) {
	w, items := ov.win, ov.win.menu.items
	for i := ov.index + dir; i >= 0 && i < len(items); i += dir {
		if items[i].sub != nil && items[i].enabled {
			ov.app.closeMenu()
			ov.app.openMenu(w, i)
			return
		}
	}
}

func (ov *menuOverlay) mouseDown(pos Position) {
	if !pos.In(ov.area) {
		ov.app.closeMenu()
		return
	}

	row := pos.Y - ov.area.Y - 1
	if row >= 0 && row < len(ov.menu.items) {
		ov.sel = row
		ov.activate(row)
	}
}

func (ov *menuOverlay) activate(index int) {
	it := ov.menu.items[index]
	if !it.enabled || it.sub != nil || it.id == 0 {
		return
	}

	w := ov.win
	ov.app.closeMenu()
	w.deliverCommand(it.id)
}

func (ov *menuOverlay) paint() {
	theme := ov.app.theme
	s := &Surface{app: ov.app, origin: ov.area.Position, clip: ov.area, size: ov.area.Size}
	s.Clear(theme.Menu)
	border := theme.Menu
	for x := 1; x < ov.area.Width-1; x++ {
		s.SetCell(x, 0, tcell.RuneHLine, nil, border)
		s.SetCell(x, ov.area.Height-1, tcell.RuneHLine, nil, border)
	}
	for y := 1; y < ov.area.Height-1; y++ {
		s.SetCell(0, y, tcell.RuneVLine, nil, border)
		s.SetCell(ov.area.Width-1, y, tcell.RuneVLine, nil, border)
	}
	s.SetCell(0, 0, tcell.RuneULCorner, nil, border)
	s.SetCell(ov.area.Width-1, 0, tcell.RuneURCorner, nil, border)
	s.SetCell(0, ov.area.Height-1, tcell.RuneLLCorner, nil, border)
	s.SetCell(ov.area.Width-1, ov.area.Height-1, tcell.RuneLRCorner, nil, border)

	for i, it := range ov.menu.items {
		st := theme.Menu
		switch {
		case i == ov.sel:
			st = theme.MenuSelected
		case !it.enabled:
			st = theme.MenuDisabled
		}
		for x := 1; x < ov.area.Width-1; x++ {
			s.SetCell(x, i+1, ' ', nil, st)
		}
		label := displayLabel(it.label)
		if it.checked {
			label = "*" + label
		} else {
			label = " " + label
		}
		s.Print(1, i+1, st, label)
		if it.hotkey != nil {
			hk := it.hotkey.String()
			s.Print(ov.area.Width-1-runewidth.StringWidth(hk)-1, i+1, st, hk)
		}
	}
}
