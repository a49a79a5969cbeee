// Copyright 2026 The Druid Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package druid

// BuildError is returned by WindowBuilder.Build when mandatory configuration
// is missing or the backend rejects window creation.
type BuildError struct {
	Reason string
}

func (e *BuildError) Error() string { return "druid: build window: " + e.Reason }

// WindowBuilder is a single-use configuration accumulator producing one
// window bound to one handler. Zero or more Set calls are followed by one
// Build; the builder is not reusable afterwards.
type WindowBuilder struct {
	app       *Application //
	built     bool         //
	handler   WinHandler   //
	menu      *Menu        //
	minSize   Size         //
	parent    WindowHandle //
	position  Position     //
	resizable bool         //
	size      Size         //
	title     string       //
	titlebar  bool         //
}

// NewWindowBuilder returns a builder creating windows on app.
func NewWindowBuilder(app *Application) *WindowBuilder {
	return &WindowBuilder{
		app:       app,
		resizable: true,
		titlebar:  true,
	}
}

// SetHandler sets the window's handler. A handler is mandatory; Build fails
// without one.
func (b *WindowBuilder) SetHandler(h WinHandler) { b.handler = h }

// SetTitle sets the window title.
func (b *WindowBuilder) SetTitle(title string) { b.title = title }

// SetMenu sets the window's menu bar. The menu is compiled at build time;
// later mutation of m has no effect on the built window.
func (b *WindowBuilder) SetMenu(m *Menu) { b.menu = m }

// SetSize sets the initial window size. A zero size means a default chosen
// by the backend.
func (b *WindowBuilder) SetSize(s Size) { b.size = s }

// SetMinSize sets the minimum window size.
func (b *WindowBuilder) SetMinSize(s Size) { b.minSize = s }

// SetPosition sets the initial window position: screen coordinates for a
// top-level window, parent client area coordinates for a child.
func (b *WindowBuilder) SetPosition(p Position) { b.position = p }

// SetParent makes the built window a child of the window parent refers to.
// The relation is ownership for destruction and coordinates only: closing
// the parent destroys the child, and the child's position is parent
// relative. It creates no data channel between the two handlers.
func (b *WindowBuilder) SetParent(parent WindowHandle) { b.parent = parent }

// SetResizable sets whether the window may be resized.
func (b *WindowBuilder) SetResizable(resizable bool) { b.resizable = resizable }

// SetShowTitlebar sets whether the window is framed with a border, title
// row and close button.
func (b *WindowBuilder) SetShowTitlebar(show bool) { b.titlebar = show }

// Build creates the window and returns its handle. The window starts
// hidden; call Show on the handle to make it visible. The handler receives
// Connect and an initial Size before Build returns.
func (b *WindowBuilder) Build() (WindowHandle, error) {
	switch {
	case b.built:
		return WindowHandle{}, &BuildError{"builder already used"}
	case b.app == nil:
		return WindowHandle{}, &BuildError{"no application"}
	case b.handler == nil:
		return WindowHandle{}, &BuildError{"no handler set"}
	case b.app.state == appTerminated:
		return WindowHandle{}, &BuildError{"application has quit"}
	case b.parent.w != nil && b.parent.w.dead:
		return WindowHandle{}, &BuildError{"parent window is closed"}
	}

	b.built = true
	return b.app.buildWindow(b), nil
}
