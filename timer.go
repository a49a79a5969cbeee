// Copyright 2026 The Druid Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package druid

import (
	"sync/atomic"
	"time"
)

// TimerToken correlates a timer request with its Timer callback. Tokens are
// unique per request and never zero.
type TimerToken uint64

var timerTokens uint64

func nextTimerToken() TimerToken {
	return TimerToken(atomic.AddUint64(&timerTokens, 1))
}

// requestTimer schedules a single-shot timer for w. The expiry fires on a
// runtime timer goroutine and is re-posted to the dispatch queue, so the
// Timer callback runs on the dispatch goroutine like every other callback.
func (a *Application) requestTimer(w *window, d time.Duration) TimerToken {
	token := nextTimerToken()
	time.AfterFunc(d, func() { a.post(newEventTimer(w, token)) })
	return token
}
