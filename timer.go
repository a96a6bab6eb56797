// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ware

import "time"

// Clock is the process-wide time source used by [Delay].
type Clock interface {
	Now() time.Time
}

// timer is the cancellation-aware handle behind a pending [Delay].
// A stopped timer never expires.
type timer struct {
	deadline time.Time
	stopped  bool
}

func newTimer(now time.Time, d time.Duration) *timer {
	return &timer{deadline: now.Add(d)}
}

func (tm *timer) expired(now time.Time) bool {
	return !tm.stopped && !now.Before(tm.deadline)
}

func (tm *timer) release() { tm.stopped = true }
