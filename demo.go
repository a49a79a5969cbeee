// Copyright 2026 The Druid Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build ignore

// $ go run demo.go
//
// A parent window with a menu and a child window. Ctrl+O, or the Open menu
// entry, opens a file dialog; Ctrl+L moves the child; Ctrl+Q quits.
package main

import (
	"github.com/golang/glog"

	"github.com/djeedai/druid"
	"github.com/djeedai/druid/internal/demoapp"
)

const (
	menuExit   = 0x100
	menuOpen   = 0x101
	menuLayout = 0x102
)

type parentHandler struct {
	druid.WindowHandlerBase

	child  druid.WindowHandle
	handle druid.WindowHandle
	opened string
}

func (h *parentHandler) Connect(handle druid.WindowHandle) { h.handle = handle }

func (h *parentHandler) Command(id uint32) {
	switch id {
	case menuExit:
		h.handle.Close()
	case menuOpen:
		token := h.handle.OpenFile(druid.FileDialogOptions{
			AllowedTypes: []druid.FileSpec{druid.FileSpecText},
			Title:        "Open file",
		})
		glog.Infof("demo: file dialog %v opened", token)
	case menuLayout:
		pos := h.child.GetPosition()
		if pos.X == 10 {
			pos.X = 30
		} else {
			pos.X = 10
		}
		h.child.SetPosition(pos)
	}
}

func (h *parentHandler) OpenFile(token druid.FileDialogToken, info *druid.FileInfo) {
	if info == nil {
		glog.Infof("demo: file dialog %v cancelled", token)
		return
	}

	h.opened = info.Path
	h.handle.Invalidate()
}

func (h *parentHandler) Paint(s *druid.Surface, _ *druid.Region) {
	sz := s.Size()
	for y := 0; y < sz.Height; y++ {
		for x := 0; x < sz.Width; x++ {
			s.SetCell(x, y, ' ', nil, druid.Style{})
		}
	}
	s.Print(0, 0, druid.Style{}, "Ctrl+O open, Ctrl+L layout, Ctrl+Q quit")
	if h.opened != "" {
		s.Printf(0, 1, druid.Style{}, "opened: %s", h.opened)
	}
}

func (h *parentHandler) Destroy() { app.Quit() }

type childHandler struct {
	druid.WindowHandlerBase
}

func (h *childHandler) Paint(s *druid.Surface, _ *druid.Region) {
	s.Print(0, 0, druid.Style{}, "child")
}

var app *druid.Application

func main() {
	app = demoapp.New()

	fileMenu := druid.NewMenu()
	fileMenu.AddItem(menuOpen, "&Open", druid.NewHotKey(druid.SysModsCmd, 'o'), true, false)
	fileMenu.AddItem(menuExit, "E&xit", druid.NewHotKey(druid.SysModsCmd, 'q'), true, false)
	menu := druid.NewMenu()
	menu.AddDropdown(fileMenu, "File", true)
	menu.AddItem(menuLayout, "&Layout", druid.NewHotKey(druid.SysModsCmd, 'l'), true, false)

	handler := &parentHandler{}
	b := druid.NewWindowBuilder(app)
	b.SetHandler(handler)
	b.SetTitle("Hello")
	b.SetMenu(menu)
	parent, err := b.Build()
	if err != nil {
		glog.Exit(err)
	}

	b = druid.NewWindowBuilder(app)
	b.SetHandler(&childHandler{})
	b.SetTitle("child")
	b.SetParent(parent)
	b.SetPosition(druid.Position{X: 10, Y: 10})
	b.SetSize(druid.Size{Width: 40, Height: 10})
	child, err := b.Build()
	if err != nil {
		glog.Exit(err)
	}

	handler.child = child
	parent.Show()
	child.Show()
	app.Run(nil)
}
