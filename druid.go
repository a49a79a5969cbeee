// Copyright 2026 The Druid Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package druid is a window shell for terminal applications.
//
// The shell owns the terminal event loop and a set of windows. Every window
// is bound to exactly one WinHandler, the capability contract through which
// the event loop delivers lifecycle, input, paint and platform-service
// callbacks. Handlers act back on their own window only through the
// WindowHandle stored during Connect.
//
// Dispatch is single threaded: one callback at a time, run to completion, on
// the goroutine that called Application.Run. Asynchronous platform services
// (file dialogs, timers) return an opaque token immediately and resolve
// later through a completion callback on the same handler, correlated by
// that token.
package druid

import (
	"sync"
)

var onceNewApplication sync.Once
