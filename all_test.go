// Copyright 2026 The Druid Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package druid

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

func caller(s string, va ...interface{}) {
	if s == "" {
		s = strings.Repeat("%v ", len(va))
	}
	_, fn, fl, _ := runtime.Caller(2)
	fmt.Fprintf(os.Stderr, "// caller: %s:%d: ", path.Base(fn), fl)
	fmt.Fprintf(os.Stderr, s, va...)
	fmt.Fprintln(os.Stderr)
	_, fn, fl, _ = runtime.Caller(1)
	fmt.Fprintf(os.Stderr, "// \tcallee: %s:%d: ", path.Base(fn), fl)
	fmt.Fprintln(os.Stderr)
	os.Stderr.Sync()
}

func dbg(s string, va ...interface{}) {
	if s == "" {
		s = strings.Repeat("%v ", len(va))
	}
	_, fn, fl, _ := runtime.Caller(1)
	fmt.Fprintf(os.Stderr, "// dbg %s:%d: ", path.Base(fn), fl)
	fmt.Fprintf(os.Stderr, s, va...)
	fmt.Fprintln(os.Stderr)
	os.Stderr.Sync()
}

func use(...interface{}) {}

func init() {
	use(caller, dbg)
}

// ============================================================================

func TestNewRectangle(t *testing.T) {
	if g, e := NewRectangle(3, 7, 1, 2), (Rectangle{Position{1, 2}, Size{3, 6}}); g != e {
		t.Fatal(g, e)
	}
}

func TestJoin(t *testing.T) {
	a := Rectangle{Position{X: 46, Y: 12}, Size{Width: 55, Height: 27}}
	b := Rectangle{Position{X: 45, Y: 12}, Size{Width: 55, Height: 27}}
	a.join(b)
	if g, e := a, (Rectangle{Position{X: 45, Y: 12}, Size{Width: 56, Height: 27}}); g != e {
		t.Fatal(g, e)
	}

	// Differing origins on both axes: the far edges stay put.
	a = Rectangle{Position{X: 10, Y: 20}, Size{Width: 5, Height: 5}}
	a.join(Rectangle{Position{X: 2, Y: 3}, Size{Width: 4, Height: 4}})
	if g, e := a, (Rectangle{Position{X: 2, Y: 3}, Size{Width: 13, Height: 22}}); g != e {
		t.Fatal(g, e)
	}
}

func TestHas(t *testing.T) {
	// Has is callable on rvalues, e.g. directly on a constructor result.
	if g, e := NewRectangle(0, 0, 4, 4).Has(Position{2, 2}), true; g != e {
		t.Fatal(g, e)
	}

	if g, e := NewRectangle(0, 0, 4, 4).Has(Position{5, 2}), false; g != e {
		t.Fatal(g, e)
	}

	if g, e := (Rectangle{Position{1, 1}, Size{2, 2}}).Has(Position{1, 1}), true; g != e {
		t.Fatal(g, e)
	}
}

func TestClip(t *testing.T) {
	r := Rectangle{Position{5, 5}, Size{10, 10}}
	if g, e := r.Clip(Rectangle{Position{0, 0}, Size{8, 8}}), true; g != e {
		t.Fatal(g, e)
	}

	if g, e := r, (Rectangle{Position{5, 5}, Size{3, 3}}); g != e {
		t.Fatal(g, e)
	}

	r = Rectangle{Position{5, 5}, Size{10, 10}}
	if g, e := r.Clip(Rectangle{Position{20, 20}, Size{8, 8}}), false; g != e {
		t.Fatal(g, e)
	}
}

func TestRegion(t *testing.T) {
	var g0 Region
	if g, e := g0.IsEmpty(), true; g != e {
		t.Fatal(g, e)
	}

	g0.Add(Rectangle{Position{0, 0}, Size{10, 10}})
	g0.Add(Rectangle{Position{2, 2}, Size{3, 3}}) // Covered, dropped.
	g0.Add(Rectangle{})                           // Zero, dropped.
	if g, e := len(g0.Rects()), 1; g != e {
		t.Fatal(g, e)
	}

	g0.Add(Rectangle{Position{20, 0}, Size{5, 5}})
	if g, e := len(g0.Rects()), 2; g != e {
		t.Fatal(g, e)
	}

	if g, e := g0.BoundingBox(), (Rectangle{Position{0, 0}, Size{25, 10}}); g != e {
		t.Fatal(g, e)
	}

	if g, e := g0.Intersects(Rectangle{Position{24, 0}, Size{1, 1}}), true; g != e {
		t.Fatal(g, e)
	}

	if g, e := g0.Intersects(Rectangle{Position{30, 30}, Size{1, 1}}), false; g != e {
		t.Fatal(g, e)
	}

	g0.Clear()
	if g, e := g0.IsEmpty(), true; g != e {
		t.Fatal(g, e)
	}
}

func TestHotKeyMatch(t *testing.T) {
	k := NewHotKey(SysModsCmd, 'o')
	if g, e := k.Match(KeyEvent{Key: tcell.KeyCtrlO}), true; g != e {
		t.Fatal(g, e)
	}

	if g, e := k.Match(KeyEvent{Key: tcell.KeyRune, Rune: 'o'}), false; g != e {
		t.Fatal(g, e)
	}

	if g, e := k.Match(KeyEvent{Key: tcell.KeyCtrlO, Mods: tcell.ModAlt}), false; g != e {
		t.Fatal(g, e)
	}

	if g, e := k.String(), "Ctrl+O"; g != e {
		t.Fatal(g, e)
	}

	k = NewHotKey(SysModsNone, 'a')
	if g, e := k.Match(KeyEvent{Key: tcell.KeyRune, Rune: 'a'}), true; g != e {
		t.Fatal(g, e)
	}

	if g, e := k.Match(KeyEvent{Key: tcell.KeyRune, Rune: 'a', Mods: tcell.ModCtrl}), false; g != e {
		t.Fatal(g, e)
	}

	k = NewHotKey(SysModsAltCmd, 'x')
	if g, e := k.Match(KeyEvent{Key: tcell.KeyCtrlX, Mods: tcell.ModAlt}), true; g != e {
		t.Fatal(g, e)
	}

	if g, e := k.Match(KeyEvent{Key: tcell.KeyCtrlX}), false; g != e {
		t.Fatal(g, e)
	}
}

func TestMenuBindings(t *testing.T) {
	sub := NewMenu()
	sub.AddItem(0x101, "&Open", NewHotKey(SysModsCmd, 'o'), true, false)
	sub.AddItem(0x102, "&Save", NewHotKey(SysModsCmd, 's'), false, false) // Disabled.
	sub.AddItem(0, "About", NewHotKey(SysModsCmd, 'b'), true, false)     // Reserved id.
	m := NewMenu()
	m.AddDropdown(sub, "File", true)
	m.AddItem(0x100, "E&xit", NewHotKey(SysModsCmd, 'q'), true, false)

	b := m.bindings()
	if g, e := len(b), 2; g != e {
		t.Fatal(g, e)
	}

	if g, e := b[0].id, uint32(0x101); g != e {
		t.Fatal(g, e)
	}

	if g, e := b[1].id, uint32(0x100); g != e {
		t.Fatal(g, e)
	}
}

func TestThemeReadWrite(t *testing.T) {
	th := DefaultTheme()
	var buf bytes.Buffer
	if err := th.WriteJSON(&buf); err != nil {
		t.Fatal(err)
	}

	var u Theme
	if err := u.ReadJSON(&buf); err != nil {
		t.Fatal(err)
	}

	if g, e := u, *th; g != e {
		t.Fatalf("\n%+v\n%+v", g, e)
	}
}

func TestLoadTheme(t *testing.T) {
	dir := t.TempDir()
	yml := filepath.Join(dir, "theme.yaml")
	data := "desktop:\n  foreground: 10\n  background: 20\n"
	if err := os.WriteFile(yml, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}

	th, err := LoadTheme(yml)
	if err != nil {
		t.Fatal(err)
	}

	if g, e := th.Desktop, (Style{Foreground: tcell.Color(10), Background: tcell.Color(20)}); g != e {
		t.Fatal(g, e)
	}

	// Fields absent from the file keep their defaults.
	if g, e := th.Window, DefaultTheme().Window; g != e {
		t.Fatalf("\n%+v\n%+v", g, e)
	}

	jsn := filepath.Join(dir, "theme.json")
	if err := os.WriteFile(jsn, []byte(`{"Desktop":{"Foreground":10}}`), 0600); err != nil {
		t.Fatal(err)
	}

	if th, err = LoadTheme(jsn); err != nil {
		t.Fatal(err)
	}

	if g, e := th.Desktop.Foreground, tcell.Color(10); g != e {
		t.Fatal(g, e)
	}
}

// ============================================================================

// recHandler records every delivered callback, in order.
type recHandler struct {
	WindowHandlerBase

	calls      []string
	commands   []uint32
	downs      []MouseEvent
	fileInfos  []*FileInfo
	fileTokens []FileDialogToken
	handle     WindowHandle
	handled    bool // KeyDown return value.
	name       string
	size       Size
	timerC     chan TimerToken
	trace      *[]string
	ups        []MouseEvent
	wheels     []MouseEvent
}

func (h *recHandler) log(s string) {
	h.calls = append(h.calls, s)
	if h.trace != nil {
		*h.trace = append(*h.trace, h.name+":"+s)
	}
}

func (h *recHandler) Connect(handle WindowHandle) { h.handle = handle; h.log("connect") }
func (h *recHandler) Size(s Size)                 { h.size = s; h.log("size") }
func (h *recHandler) PreparePaint()               { h.log("prepare paint") }
func (h *recHandler) Paint(*Surface, *Region)     { h.log("paint") }
func (h *recHandler) Command(id uint32)           { h.commands = append(h.commands, id); h.log("command") }
func (h *recHandler) KeyDown(KeyEvent) bool       { h.log("key down"); return h.handled }
func (h *recHandler) Wheel(e MouseEvent)          { h.wheels = append(h.wheels, e); h.log("wheel") }
func (h *recHandler) MouseMove(MouseEvent)        { h.log("mouse move") }
func (h *recHandler) MouseDown(e MouseEvent)      { h.downs = append(h.downs, e); h.log("mouse down") }
func (h *recHandler) MouseUp(e MouseEvent)        { h.ups = append(h.ups, e); h.log("mouse up") }
func (h *recHandler) GotFocus()                   { h.log("got focus") }
func (h *recHandler) LostFocus()                  { h.log("lost focus") }
func (h *recHandler) RequestClose()               { h.log("request close") }
func (h *recHandler) Destroy()                    { h.log("destroy") }

func (h *recHandler) OpenFile(token FileDialogToken, info *FileInfo) {
	h.fileTokens = append(h.fileTokens, token)
	h.fileInfos = append(h.fileInfos, info)
	h.log("open file")
}

func (h *recHandler) Timer(token TimerToken) {
	h.log("timer")
	if h.timerC != nil {
		h.timerC <- token
	}
}

func count(calls []string, s string) (n int) {
	for _, c := range calls {
		if c == s {
			n++
		}
	}
	return n
}

func startApp(t *testing.T) (*Application, tcell.SimulationScreen, chan struct{}) {
	s := tcell.NewSimulationScreen("")
	app, err := newApplication(s)
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		app.Run(nil)
		close(done)
	}()
	return app, s, done
}

func stopApp(t *testing.T, app *Application, done chan struct{}) {
	app.Post(func() { app.Quit() })
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return")
	}
}

func buildWindow(t *testing.T, app *Application, h WinHandler, cfg func(*WindowBuilder)) WindowHandle {
	var handle WindowHandle
	var err error
	app.PostWait(func() {
		b := NewWindowBuilder(app)
		b.SetHandler(h)
		if cfg != nil {
			cfg(b)
		}
		handle, err = b.Build()
	})
	if err != nil {
		t.Fatal(err)
	}

	return handle
}

// barrier waits until the dispatch loop drained the queue up to this call
// plus everything those events posted themselves.
func barrier(app *Application) {
	app.PostWait(func() {})
	app.PostWait(func() {})
}

func TestPostWait(t *testing.T) {
	app, _, done := startApp(t)

	// PostWait returns only after the dispatch goroutine ran the function.
	ran := false
	app.PostWait(func() { ran = true })
	if g, e := ran, true; g != e {
		t.Fatal(g, e)
	}

	stopApp(t, app, done)
}

func TestBuilderErrors(t *testing.T) {
	app, _, done := startApp(t)

	var err error
	app.PostWait(func() {
		b := NewWindowBuilder(app)
		_, err = b.Build()
	})
	if err == nil {
		t.Fatal("expected error for missing handler")
	}

	if _, ok := err.(*BuildError); !ok {
		t.Fatalf("%T", err)
	}

	h := &recHandler{}
	app.PostWait(func() {
		b := NewWindowBuilder(app)
		b.SetHandler(h)
		if _, err = b.Build(); err != nil {
			return
		}

		_, err = b.Build() // Single use.
	})
	if err == nil {
		t.Fatal("expected error for reused builder")
	}

	stopApp(t, app, done)

	b := NewWindowBuilder(app)
	b.SetHandler(h)
	if _, err = b.Build(); err == nil {
		t.Fatal("expected error after quit")
	}
}

func TestWindowLifecycle(t *testing.T) {
	app, _, done := startApp(t)
	h := &recHandler{}
	handle := buildWindow(t, app, h, func(b *WindowBuilder) { b.SetTitle("Hello") })
	app.PostWait(func() { handle.Show() })
	barrier(app)

	app.PostWait(func() {
		handle.Close()
		handle.Close() // Idempotent.
	})
	barrier(app)

	var calls []string
	var live bool
	app.PostWait(func() {
		calls = append([]string(nil), h.calls...)
		live = handle.IsLive()
	})
	if g, e := live, false; g != e {
		t.Fatal(g, e)
	}

	if len(calls) < 2 {
		t.Fatal(calls)
	}

	if g, e := calls[0], "connect"; g != e {
		t.Fatal(g, e)
	}

	if g, e := calls[len(calls)-1], "destroy"; g != e {
		t.Fatal(g, e)
	}

	if g, e := count(calls, "connect"), 1; g != e {
		t.Fatal(g, e)
	}

	if g, e := count(calls, "destroy"), 1; g != e {
		t.Fatal(g, e)
	}

	if g, e := calls[1], "size"; g != e {
		t.Fatal(g, e)
	}

	stopApp(t, app, done)
}

func TestSetSize(t *testing.T) {
	app, _, done := startApp(t)
	h := &recHandler{}
	handle := buildWindow(t, app, h, nil)
	app.PostWait(func() { handle.Show() })

	var got, cached Size
	app.PostWait(func() {
		handle.SetSize(Size{40, 12})
		got = handle.GetSize()
		cached = h.size
	})
	if g, e := got, (Size{40, 12}); g != e {
		t.Fatal(g, e)
	}

	// The handler's cached size equals the last delivered value.
	if g, e := cached, (Size{40, 12}); g != e {
		t.Fatal(g, e)
	}

	// Resizes below the minimum size are clamped.
	h2 := &recHandler{}
	handle2 := buildWindow(t, app, h2, func(b *WindowBuilder) { b.SetMinSize(Size{10, 5}) })
	app.PostWait(func() {
		handle2.SetSize(Size{3, 3})
		got = handle2.GetSize()
	})
	if g, e := got, (Size{10, 5}); g != e {
		t.Fatal(g, e)
	}

	stopApp(t, app, done)
}

func TestDetachedHandle(t *testing.T) {
	var h WindowHandle
	if g, e := h.IsLive(), false; g != e {
		t.Fatal(g, e)
	}

	// Every action on a detached handle is a defined no-op.
	h.Close()
	h.Show()
	h.SetTitle("x")
	h.SetSize(Size{1, 1})
	h.SetPosition(Position{1, 1})
	h.BringToFront()
	h.Invalidate()
	h.InvalidateRect(Rectangle{Size: Size{1, 1}})
	if g, e := h.GetSize(), (Size{}); g != e {
		t.Fatal(g, e)
	}

	if g, e := h.OpenFile(FileDialogOptions{}), FileDialogToken(0); g != e {
		t.Fatal(g, e)
	}

	if g, e := h.RequestTimer(time.Hour), TimerToken(0); g != e {
		t.Fatal(g, e)
	}
}

func testMenu() *Menu {
	sub := NewMenu()
	sub.AddItem(0x101, "&Open", NewHotKey(SysModsCmd, 'o'), true, false)
	sub.AddItem(0x100, "E&xit", NewHotKey(SysModsCmd, 'q'), true, false)
	m := NewMenu()
	m.AddDropdown(sub, "File", true)
	m.AddItem(0x102, "&Layout", NewHotKey(SysModsCmd, 'l'), true, false)
	return m
}

func TestHotKeyDispatch(t *testing.T) {
	app, s, done := startApp(t)
	h := &recHandler{}
	handle := buildWindow(t, app, h, func(b *WindowBuilder) { b.SetMenu(testMenu()) })
	app.PostWait(func() { handle.Show() })

	s.InjectKey(tcell.KeyCtrlO, 0, tcell.ModCtrl)
	barrier(app)

	var commands []uint32
	app.PostWait(func() { commands = append([]uint32(nil), h.commands...) })
	if g, e := len(commands), 1; g != e {
		t.Fatal(g, e)
	}

	if g, e := commands[0], uint32(0x101); g != e {
		t.Fatal(g, e)
	}

	// A handler returning true from KeyDown suppresses hotkey activation.
	app.PostWait(func() { h.handled = true })
	s.InjectKey(tcell.KeyCtrlO, 0, tcell.ModCtrl)
	barrier(app)

	app.PostWait(func() { commands = append([]uint32(nil), h.commands...) })
	if g, e := len(commands), 1; g != e {
		t.Fatal(g, e)
	}

	stopApp(t, app, done)
}

// quitHandler closes its window and quits the application on the exit
// command, the way a real application's top window does.
type quitHandler struct {
	recHandler
	app *Application
}

func (h *quitHandler) Command(id uint32) {
	h.recHandler.Command(id)
	if id == 0x100 {
		h.handle.Close()
		h.app.Quit()
	}
}

func TestQuitViaMenuCommand(t *testing.T) {
	app, s, done := startApp(t)
	h := &quitHandler{app: app}
	handle := buildWindow(t, app, h, func(b *WindowBuilder) { b.SetMenu(testMenu()) })
	app.PostWait(func() { handle.Show() })

	s.InjectKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl)
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return")
	}

	if g, e := count(h.calls, "command"), 1; g != e {
		t.Fatal(g, e)
	}

	if g, e := count(h.calls, "destroy"), 1; g != e {
		t.Fatal(g, e)
	}

	if g, e := h.calls[len(h.calls)-1], "destroy"; g != e {
		t.Fatal(g, e)
	}
}

func TestMenuOverlay(t *testing.T) {
	app, s, done := startApp(t)
	h := &recHandler{}
	handle := buildWindow(t, app, h, func(b *WindowBuilder) { b.SetMenu(testMenu()) })
	app.PostWait(func() { handle.Show() })
	barrier(app)

	// Click "File" on the menubar row, then activate the first entry.
	s.InjectMouse(2, 1, tcell.Button1, 0)
	s.InjectMouse(2, 1, tcell.ButtonNone, 0)
	barrier(app)

	var open bool
	app.PostWait(func() { open = app.menu != nil })
	if g, e := open, true; g != e {
		t.Fatal(g, e)
	}

	s.InjectKey(tcell.KeyEnter, 0, 0)
	barrier(app)

	var commands []uint32
	app.PostWait(func() {
		open = app.menu != nil
		commands = append([]uint32(nil), h.commands...)
	})
	if g, e := open, false; g != e {
		t.Fatal(g, e)
	}

	if g, e := len(commands), 1; g != e {
		t.Fatal(g, e)
	}

	if g, e := commands[0], uint32(0x101); g != e {
		t.Fatal(g, e)
	}

	stopApp(t, app, done)
}

func TestCloseButton(t *testing.T) {
	app, s, done := startApp(t)
	h := &recHandler{}
	handle := buildWindow(t, app, h, nil)
	app.PostWait(func() { handle.Show() })
	barrier(app)

	// Default size is the whole 80x25 screen; [X] sits at width-4 on row 0.
	s.InjectMouse(77, 0, tcell.Button1, 0)
	s.InjectMouse(77, 0, tcell.ButtonNone, 0)
	barrier(app)

	var calls []string
	var live bool
	app.PostWait(func() {
		calls = append([]string(nil), h.calls...)
		live = handle.IsLive()
	})
	if g, e := count(calls, "request close"), 1; g != e {
		t.Fatal(g, e)
	}

	// The default handler vetoes by doing nothing.
	if g, e := live, true; g != e {
		t.Fatal(g, e)
	}

	if g, e := count(calls, "destroy"), 0; g != e {
		t.Fatal(g, e)
	}

	stopApp(t, app, done)
}

func TestMouseEvents(t *testing.T) {
	app, s, done := startApp(t)
	h := &recHandler{}
	handle := buildWindow(t, app, h, nil)
	app.PostWait(func() { handle.Show() })
	barrier(app)

	// Client area of a framed, menu-less top-level window starts at (1, 1),
	// so screen (5, 5) is client (4, 4).
	s.InjectMouse(5, 5, tcell.WheelUp, 0)
	barrier(app)

	var wheels []MouseEvent
	app.PostWait(func() { wheels = append([]MouseEvent(nil), h.wheels...) })
	if g, e := len(wheels), 1; g != e {
		t.Fatal(g, e)
	}

	if g, e := wheels[0].Pos, (Position{4, 4}); g != e {
		t.Fatal(g, e)
	}

	if g, e := wheels[0].WheelDelta, (Position{0, -1}); g != e {
		t.Fatal(g, e)
	}

	s.InjectMouse(5, 5, tcell.Button1, 0)
	s.InjectMouse(5, 5, tcell.ButtonNone, 0)
	barrier(app)

	var downs, ups []MouseEvent
	app.PostWait(func() {
		downs = append([]MouseEvent(nil), h.downs...)
		ups = append([]MouseEvent(nil), h.ups...)
	})
	if g, e := len(downs), 1; g != e {
		t.Fatal(g, e)
	}

	if g, e := downs[0].Pos, (Position{4, 4}); g != e {
		t.Fatal(g, e)
	}

	if g, e := downs[0].Button, tcell.Button1; g != e {
		t.Fatal(g, e)
	}

	if g, e := len(ups), 1; g != e {
		t.Fatal(g, e)
	}

	if g, e := ups[0].Pos, (Position{4, 4}); g != e {
		t.Fatal(g, e)
	}

	stopApp(t, app, done)
}

func TestChildWindow(t *testing.T) {
	app, _, done := startApp(t)
	var trace []string
	ph := &recHandler{name: "parent", trace: &trace}
	ch := &recHandler{name: "child", trace: &trace}
	parent := buildWindow(t, app, ph, nil)
	child := buildWindow(t, app, ch, func(b *WindowBuilder) {
		b.SetParent(parent)
		b.SetPosition(Position{10, 10})
		b.SetSize(Size{40, 10})
	})
	app.PostWait(func() {
		parent.Show()
		child.Show()
	})
	barrier(app)

	var psize, csize Size
	var cpos Position
	app.PostWait(func() {
		psize = ph.size
		csize = ch.size
		cpos = child.GetPosition()
	})
	if g, e := psize, (Size{80, 25}); g != e {
		t.Fatal(g, e)
	}

	if g, e := csize, (Size{40, 10}); g != e {
		t.Fatal(g, e)
	}

	if g, e := cpos, (Position{10, 10}); g != e {
		t.Fatal(g, e)
	}

	// Closing the parent destroys the child first.
	app.PostWait(func() { parent.Close() })
	barrier(app)

	var tr []string
	var plive, clive bool
	app.PostWait(func() {
		tr = append([]string(nil), trace...)
		plive = parent.IsLive()
		clive = child.IsLive()
	})
	if plive || clive {
		t.Fatal(plive, clive)
	}

	ci, pi := -1, -1
	for i, s := range tr {
		switch s {
		case "child:destroy":
			ci = i
		case "parent:destroy":
			pi = i
		}
	}
	if ci < 0 || pi < 0 || ci > pi {
		t.Fatal(tr)
	}

	stopApp(t, app, done)
}

func TestBuildWithDeadParent(t *testing.T) {
	app, _, done := startApp(t)
	ph := &recHandler{}
	parent := buildWindow(t, app, ph, nil)
	app.PostWait(func() { parent.Close() })

	var err error
	app.PostWait(func() {
		b := NewWindowBuilder(app)
		b.SetHandler(&recHandler{})
		b.SetParent(parent)
		_, err = b.Build()
	})
	if err == nil {
		t.Fatal("expected error for dead parent")
	}

	stopApp(t, app, done)
}

func TestOpenFileCancel(t *testing.T) {
	app, s, done := startApp(t)
	h := &recHandler{}
	handle := buildWindow(t, app, h, nil)
	app.PostWait(func() { handle.Show() })

	var token FileDialogToken
	app.PostWait(func() {
		token = handle.OpenFile(FileDialogOptions{StartDirectory: t.TempDir()})
	})
	if token == 0 {
		t.Fatal(token)
	}

	var tokens []FileDialogToken
	app.PostWait(func() { tokens = append([]FileDialogToken(nil), h.fileTokens...) })
	if g, e := len(tokens), 0; g != e { // Never completed inline.
		t.Fatal(g, e)
	}

	s.InjectKey(tcell.KeyEscape, 0, 0)
	barrier(app)

	var infos []*FileInfo
	app.PostWait(func() {
		tokens = append([]FileDialogToken(nil), h.fileTokens...)
		infos = append([]*FileInfo(nil), h.fileInfos...)
	})
	if g, e := len(tokens), 1; g != e {
		t.Fatal(g, e)
	}

	if g, e := tokens[0], token; g != e {
		t.Fatal(g, e)
	}

	if infos[0] != nil {
		t.Fatal(infos[0])
	}

	stopApp(t, app, done)
}

func TestOpenFileAccept(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(fn, nil, 0600); err != nil {
		t.Fatal(err)
	}

	app, s, done := startApp(t)
	h := &recHandler{}
	handle := buildWindow(t, app, h, nil)
	app.PostWait(func() { handle.Show() })

	var token FileDialogToken
	app.PostWait(func() {
		token = handle.OpenFile(FileDialogOptions{
			AllowedTypes:   []FileSpec{FileSpecText},
			StartDirectory: dir,
		})
	})

	// The only listed file is a.txt; the ".." entry sorts first.
	s.InjectKey(tcell.KeyDown, 0, 0)
	s.InjectKey(tcell.KeyEnter, 0, 0)
	barrier(app)

	var tokens []FileDialogToken
	var infos []*FileInfo
	app.PostWait(func() {
		tokens = append([]FileDialogToken(nil), h.fileTokens...)
		infos = append([]*FileInfo(nil), h.fileInfos...)
	})
	if g, e := len(tokens), 1; g != e {
		t.Fatal(g, e)
	}

	if g, e := tokens[0], token; g != e {
		t.Fatal(g, e)
	}

	if infos[0] == nil {
		t.Fatal("expected a result")
	}

	if g, e := infos[0].Path, fn; g != e {
		t.Fatal(g, e)
	}

	stopApp(t, app, done)
}

func TestOpenFileDroppedOnClose(t *testing.T) {
	app, _, done := startApp(t)
	h := &recHandler{}
	handle := buildWindow(t, app, h, nil)
	app.PostWait(func() { handle.Show() })

	var token FileDialogToken
	app.PostWait(func() {
		token = handle.OpenFile(FileDialogOptions{StartDirectory: t.TempDir()})
		handle.Close()
	})
	if token == 0 {
		t.Fatal(token)
	}

	barrier(app)
	var tokens []FileDialogToken
	app.PostWait(func() { tokens = append([]FileDialogToken(nil), h.fileTokens...) })

	// The outstanding request died with the window.
	if g, e := len(tokens), 0; g != e {
		t.Fatal(g, e)
	}

	stopApp(t, app, done)
}

func TestTimer(t *testing.T) {
	app, _, done := startApp(t)
	h := &recHandler{timerC: make(chan TimerToken, 1)}
	handle := buildWindow(t, app, h, nil)
	app.PostWait(func() { handle.Show() })

	var token TimerToken
	app.PostWait(func() { token = handle.RequestTimer(10 * time.Millisecond) })
	if token == 0 {
		t.Fatal(token)
	}

	select {
	case g := <-h.timerC:
		if e := token; g != e {
			t.Fatal(g, e)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("timer did not fire")
	}

	// Single shot.
	barrier(app)
	var n int
	app.PostWait(func() { n = count(h.calls, "timer") })
	if g, e := n, 1; g != e {
		t.Fatal(g, e)
	}

	stopApp(t, app, done)
}

func TestTimerDroppedOnClose(t *testing.T) {
	app, _, done := startApp(t)
	h := &recHandler{}
	handle := buildWindow(t, app, h, nil)
	app.PostWait(func() {
		handle.Show()
		handle.RequestTimer(10 * time.Millisecond)
		handle.Close()
	})

	time.Sleep(100 * time.Millisecond)
	barrier(app)
	var n int
	app.PostWait(func() { n = count(h.calls, "timer") })
	if g, e := n, 0; g != e {
		t.Fatal(g, e)
	}

	stopApp(t, app, done)
}

func TestScreenContent(t *testing.T) {
	app, s, done := startApp(t)
	h := &recHandler{}
	handle := buildWindow(t, app, h, func(b *WindowBuilder) { b.SetTitle("Hello") })
	app.PostWait(func() { handle.Show() })
	barrier(app)

	var cells []tcell.SimCell
	var width int
	app.PostWait(func() { cells, width, _ = s.GetContents() })

	// The title row shows " Hello " starting at x 1.
	for i, r := range " Hello " {
		if g, e := cells[1+i].Runes[0], r; g != e {
			t.Fatalf("cell %d: %q %q", 1+i, g, e)
		}
	}

	// The close button.
	for i, r := range "[X]" {
		if g, e := cells[80-4+i].Runes[0], r; g != e {
			t.Fatalf("cell %d: %q %q", 80-4+i, g, e)
		}
	}

	use(width)
	stopApp(t, app, done)
}

func TestFocus(t *testing.T) {
	app, _, done := startApp(t)
	h1 := &recHandler{}
	h2 := &recHandler{}
	w1 := buildWindow(t, app, h1, func(b *WindowBuilder) { b.SetSize(Size{20, 10}) })
	w2 := buildWindow(t, app, h2, func(b *WindowBuilder) {
		b.SetSize(Size{20, 10})
		b.SetPosition(Position{30, 0})
	})
	app.PostWait(func() {
		w1.Show()
		w2.Show()
	})
	barrier(app)

	// The first window shown got focus.
	var c1got, c1lost, c2got int
	app.PostWait(func() {
		c1got = count(h1.calls, "got focus")
		c1lost = count(h1.calls, "lost focus")
		c2got = count(h2.calls, "got focus")
	})
	if g, e := c1got, 1; g != e {
		t.Fatal(g, e)
	}

	if g, e := c2got, 0; g != e {
		t.Fatal(g, e)
	}

	// Closing the focused window moves focus to the remaining one.
	app.PostWait(func() { w1.Close() })
	barrier(app)
	app.PostWait(func() {
		c1lost = count(h1.calls, "lost focus")
		c2got = count(h2.calls, "got focus")
	})
	if g, e := c2got, 1; g != e {
		t.Fatal(g, e)
	}

	use(c1lost)
	stopApp(t, app, done)
}

func TestResize(t *testing.T) {
	app, s, done := startApp(t)
	h := &recHandler{}
	handle := buildWindow(t, app, h, nil)
	app.PostWait(func() { handle.Show() })
	barrier(app)

	// The simulation screen does not synthesize resize events on its own.
	s.SetSize(100, 30)
	if err := s.PostEvent(tcell.NewEventResize(100, 30)); err != nil {
		t.Fatal(err)
	}

	barrier(app)

	var size Size
	app.PostWait(func() { size = app.Size() })
	if g, e := size, (Size{100, 30}); g != e {
		t.Fatal(g, e)
	}

	stopApp(t, app, done)
}

func TestPanicRecovery(t *testing.T) {
	app, _, done := startApp(t)
	h := &panicHandler{}
	handle := buildWindow(t, app, h, nil)
	app.PostWait(func() { handle.Show() })
	barrier(app)

	// The panicking Paint did not take down the loop.
	var live bool
	app.PostWait(func() { live = handle.IsLive() })
	if g, e := live, true; g != e {
		t.Fatal(g, e)
	}

	stopApp(t, app, done)
}

type panicHandler struct {
	WindowHandlerBase
}

func (h *panicHandler) Paint(*Surface, *Region) { panic("boom") }
