// Copyright 2026 The Druid Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package demoapp is a terminal application skeleton shared by the demo
// programs.
package demoapp

import (
	"flag"

	"github.com/golang/glog"

	"github.com/djeedai/druid"
)

var oTheme = flag.String("theme", "", "theme file (.json, .yaml or .yml)")

// New returns a newly created application with flags parsed and the theme
// file, if any, applied. Errors are fatal; a demo has nothing to fall back
// to.
func New() *druid.Application {
	flag.Parse()
	app, err := druid.NewApplication()
	if err != nil {
		glog.Exitf("demoapp: %v", err)
	}

	if *oTheme != "" {
		theme, err := druid.LoadTheme(*oTheme)
		if err != nil {
			glog.Exitf("demoapp: load theme %s: %v", *oTheme, err)
		}

		app.SetTheme(theme)
	}
	return app
}
