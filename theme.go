// Copyright 2026 The Druid Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package druid

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"gopkg.in/yaml.v3"
)

var zeroStyle Style

// Style represents a text style.
type Style struct {
	Foreground tcell.Color
	Background tcell.Color
	Attr       tcell.AttrMask
}

// IsZero returns whether s is the zero value of Style.
func (s *Style) IsZero() bool { return *s == zeroStyle }

// NewStyle returns Style having values filled from s.
func NewStyle(s tcell.Style) Style {
	f, b, a := s.Decompose()
	return Style{f, b, a}
}

// TCellStyle converts a Style to a tcell.Style value.
func (s Style) TCellStyle() tcell.Style {
	return tcell.StyleDefault.
		Foreground(s.Foreground).
		Background(s.Background).
		Attributes(s.Attr)
}

// WindowStyle represents visual styles of a window frame.
type WindowStyle struct {
	Border     Style
	ClientArea Style
	Title      Style
	Menubar    Style
}

// Theme represents visual styles of the shell UI elements.
type Theme struct {
	Desktop        Style       // Screen area not covered by any window.
	Window         WindowStyle // Top-level windows.
	ChildWindow    WindowStyle // Windows built with SetParent.
	Menu           Style       // Dropdown items.
	MenuSelected   Style       // The selected dropdown item.
	MenuDisabled   Style       // Disabled dropdown items.
	Dialog         Style       // File dialog chrome and entries.
	DialogSelected Style       // The selected file dialog entry.
}

// DefaultTheme returns the theme used by an Application unless SetTheme is
// called before Run.
func DefaultTheme() *Theme {
	windowStyle := WindowStyle{
		Border:     Style{Background: tcell.ColorNavy, Foreground: tcell.ColorSilver},
		ClientArea: Style{Background: tcell.ColorSilver, Foreground: tcell.ColorBlack},
		Title:      Style{Background: tcell.ColorNavy, Foreground: tcell.ColorWhite},
		Menubar:    Style{Background: tcell.ColorSilver, Foreground: tcell.ColorNavy},
	}
	return &Theme{
		Desktop:        Style{Background: tcell.ColorTeal, Foreground: tcell.ColorWhite},
		Window:         windowStyle,
		ChildWindow:    windowStyle,
		Menu:           Style{Background: tcell.ColorSilver, Foreground: tcell.ColorBlack},
		MenuSelected:   Style{Background: tcell.ColorNavy, Foreground: tcell.ColorWhite},
		MenuDisabled:   Style{Background: tcell.ColorSilver, Foreground: tcell.ColorGray},
		Dialog:         Style{Background: tcell.ColorSilver, Foreground: tcell.ColorBlack},
		DialogSelected: Style{Background: tcell.ColorNavy, Foreground: tcell.ColorWhite},
	}
}

// Clear sets t to its zero value.
func (t *Theme) Clear() { *t = Theme{} }

// WriteJSON writes t to w in JSON format.
func (t *Theme) WriteJSON(w io.Writer) error {
	b, err := json.Marshal(t)
	if err != nil {
		return err
	}

	_, err = w.Write(b)
	return err
}

// ReadJSON reads t from r in JSON format. Values of fields having no JSON
// data are preserved.
func (t *Theme) ReadJSON(r io.Reader) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	return json.Unmarshal(b, t)
}

// LoadTheme reads a theme from a file. Files with a .yaml or .yml extension
// are decoded as YAML, anything else as JSON. Fields absent from the file
// keep their DefaultTheme value.
func LoadTheme(path string) (*Theme, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	t := DefaultTheme()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, t)
	default:
		err = json.Unmarshal(b, t)
	}
	if err != nil {
		return nil, err
	}

	return t, nil
}
