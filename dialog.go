// Copyright 2026 The Druid Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package druid

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"modernc.org/mathutil"
)

// FileDialogToken correlates a file dialog request with its completion
// callback. Tokens are unique per outstanding request and never zero.
type FileDialogToken uint64

var fileDialogTokens uint64

func nextFileDialogToken() FileDialogToken {
	return FileDialogToken(atomic.AddUint64(&fileDialogTokens, 1))
}

// FileSpec names a group of file extensions shown as one filter, e.g.
// {"Go files", []string{"go", "mod"}}.
type FileSpec struct {
	Name       string
	Extensions []string
}

// Common file specs.
var (
	FileSpecText = FileSpec{"Text files", []string{"txt"}}
	FileSpecJPG  = FileSpec{"JPEG images", []string{"jpg", "jpeg"}}
)

// FileInfo is the result of a completed file dialog.
type FileInfo struct {
	Path string
}

// FileDialogOptions configures a file-selection request. All filters are
// advisory: they constrain what the dialog lists, not what this layer
// enforces on the result.
type FileDialogOptions struct {
	// AllowedTypes restricts the listed files to the named extension
	// groups. Empty means all files.
	AllowedTypes []FileSpec

	// ShowHidden lists dot-prefixed entries too.
	ShowHidden bool

	// SelectDirectories makes Enter on a directory accept it instead of
	// descending into it.
	SelectDirectories bool

	// StartDirectory is the directory first listed. Empty means the
	// process working directory.
	StartDirectory string

	// Title overrides the dialog title.
	Title string
}

func (o *FileDialogOptions) allows(name string) bool {
	if len(o.AllowedTypes) == 0 {
		return true
	}

	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	for _, spec := range o.AllowedTypes {
		for _, e := range spec.Extensions {
			if strings.EqualFold(e, ext) {
				return true
			}
		}
	}
	return false
}

type pickerEntry struct {
	dir  bool
	name string
}

// filePicker is the modal file dialog overlay. At most one is open per
// application; it grabs key and mouse input until it completes. Completion
// is posted to the dispatch queue, never delivered inline, so the issuing
// action has returned its token before the callback can run.
type filePicker struct {
	app     *Application      //
	area    Rectangle         // Screen coordinates.
	dir     string            //
	entries []pickerEntry     //
	opts    FileDialogOptions //
	sel     int               //
	token   FileDialogToken   //
	top     int               // First visible entry.
	win     *window           //
}

// openFileDialog starts a file-selection request for w. A second request
// while one is already showing completes immediately with a nil result.
func (a *Application) openFileDialog(w *window, opts FileDialogOptions) FileDialogToken {
	token := nextFileDialogToken()
	if a.picker != nil {
		a.post(&eventOpenFile{w: w, token: token})
		return token
	}

	dir := opts.StartDirectory
	if dir == "" {
		var err error
		if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	size := Size{
		mathutil.Min(mathutil.Max(20, a.size.Width-8), 56),
		mathutil.Min(mathutil.Max(6, a.size.Height-4), 18),
	}
	area := Rectangle{
		Position{(a.size.Width - size.Width) / 2, (a.size.Height - size.Height) / 2},
		size,
	}
	area.X = mathutil.Max(area.X, 0)
	area.Y = mathutil.Max(area.Y, 0)

	p := &filePicker{
		app:   a,
		area:  area,
		opts:  opts,
		token: token,
		win:   w,
	}
	p.load(dir)
	a.picker = p
	a.invalidateScreen(area)
	return token
}

// load lists dir into the picker, applying the advisory filters.
func (p *filePicker) load(dir string) {
	p.dir = dir
	p.sel = 0
	p.top = 0
	p.entries = p.entries[:0]
	if filepath.Dir(dir) != dir {
		p.entries = append(p.entries, pickerEntry{dir: true, name: ".."})
	}

	des, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	for _, de := range des {
		name := de.Name()
		if !p.opts.ShowHidden && strings.HasPrefix(name, ".") {
			continue
		}
		if !de.IsDir() && !p.opts.allows(name) {
			continue
		}
		p.entries = append(p.entries, pickerEntry{dir: de.IsDir(), name: name})
	}
	sort.Slice(p.entries, func(i, j int) bool {
		a, b := p.entries[i], p.entries[j]
		if a.name == ".." || b.name == ".." {
			return a.name == ".."
		}
		if a.dir != b.dir {
			return a.dir
		}
		return a.name < b.name
	})
}

// rows returns the number of visible list rows.
func (p *filePicker) rows() int { return mathutil.Max(1, p.area.Height-4) }

func (p *filePicker) key(e KeyEvent) {
	switch e.Key {
	case tcell.KeyEscape:
		p.finish(nil)
		return
	case tcell.KeyUp:
		p.move(-1)
	case tcell.KeyDown:
		p.move(1)
	case tcell.KeyPgUp:
		p.move(-p.rows())
	case tcell.KeyPgDn:
		p.move(p.rows())
	case tcell.KeyHome:
		p.move(-len(p.entries))
	case tcell.KeyEnd:
		p.move(len(p.entries))
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		p.load(filepath.Dir(p.dir))
	case tcell.KeyEnter:
		p.accept()
	}
	p.app.invalidateScreen(p.area)
}

func (p *filePicker) move(delta int) {
	if len(p.entries) == 0 {
		return
	}

	p.sel = mathutil.Min(mathutil.Max(0, p.sel+delta), len(p.entries)-1)
	if p.sel < p.top {
		p.top = p.sel
	}
	if p.sel >= p.top+p.rows() {
		p.top = p.sel - p.rows() + 1
	}
}

func (p *filePicker) accept() {
	if p.sel >= len(p.entries) {
		return
	}

	e := p.entries[p.sel]
	switch {
	case e.name == "..":
		p.load(filepath.Dir(p.dir))
	case e.dir && !p.opts.SelectDirectories:
		p.load(filepath.Join(p.dir, e.name))
	default:
		p.finish(&FileInfo{Path: filepath.Join(p.dir, e.name)})
	}
}

func (p *filePicker) mouseDown(pos Position) {
	if !pos.In(p.area) {
		p.finish(nil)
		return
	}

	row := pos.Y - p.area.Y - 3
	if row >= 0 && row < p.rows() && p.top+row < len(p.entries) {
		p.sel = p.top + row
		p.accept()
	}
	p.app.invalidateScreen(p.area)
}

// finish closes the dialog and posts the completion. info is nil on
// cancellation.
func (p *filePicker) finish(info *FileInfo) {
	a := p.app
	if a.picker != p {
		return
	}

	a.picker = nil
	a.invalidateScreen(p.area)
	a.post(&eventOpenFile{w: p.win, token: p.token, info: info})
}

func (p *filePicker) paint() {
	theme := p.app.theme
	s := &Surface{app: p.app, origin: p.area.Position, clip: p.area, size: p.area.Size}
	s.Clear(theme.Dialog)
	border := theme.Dialog
	for x := 1; x < p.area.Width-1; x++ {
		s.SetCell(x, 0, tcell.RuneHLine, nil, border)
		s.SetCell(x, p.area.Height-1, tcell.RuneHLine, nil, border)
	}
	for y := 1; y < p.area.Height-1; y++ {
		s.SetCell(0, y, tcell.RuneVLine, nil, border)
		s.SetCell(p.area.Width-1, y, tcell.RuneVLine, nil, border)
	}
	s.SetCell(0, 0, tcell.RuneULCorner, nil, border)
	s.SetCell(p.area.Width-1, 0, tcell.RuneURCorner, nil, border)
	s.SetCell(0, p.area.Height-1, tcell.RuneLLCorner, nil, border)
	s.SetCell(p.area.Width-1, p.area.Height-1, tcell.RuneLRCorner, nil, border)

	title := p.opts.Title
	if title == "" {
		title = "Open"
	}
	s.Printf(1, 0, border, " %s ", title)
	s.Print(1, 1, theme.Dialog, runewidth.Truncate(p.dir, p.area.Width-2, "…"))

	for row := 0; row < p.rows(); row++ {
		i := p.top + row
		if i >= len(p.entries) {
			break
		}

		st := theme.Dialog
		if i == p.sel {
			st = theme.DialogSelected
		}
		for x := 1; x < p.area.Width-1; x++ {
			s.SetCell(x, row+3, ' ', nil, st)
		}
		name := p.entries[i].name
		if p.entries[i].dir {
			name += "/"
		}
		s.Print(2, row+3, st, runewidth.Truncate(name, p.area.Width-4, "…"))
	}
}
