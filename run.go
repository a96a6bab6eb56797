// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ware

import (
	"time"

	"code.hybscloud.com/iox"
)

// maxIdleWait caps a single backoff sleep of an idle driver. It bounds
// how late a queued dispatch or an expired Delay is noticed.
const maxIdleWait = 2 * time.Millisecond

// drive is the scheduler loop. Each turn gives every live task one chance
// to advance, in the order the tasks were created. Tasks forked during a
// turn first run on the next one. When a whole turn makes no progress,
// the loop waits with adaptive backoff (iox.Backoff) instead of spinning;
// new submissions reset the backoff.
// The loop exits once no task is live and no dispatch is queued.
func (in *Interpreter) drive() {
	var bo iox.Backoff
	bo.SetMax(maxIdleWait)
	for {
		in.mu.Lock()
		in.tasks = append(in.tasks, in.inbox...)
		in.inbox = nil
		if in.woken {
			in.woken = false
			bo.Reset()
		}
		if len(in.tasks) == 0 {
			in.running = false
			in.mu.Unlock()
			return
		}
		in.mu.Unlock()

		if in.turn() {
			bo.Reset()
		} else {
			bo.Wait()
		}
	}
}

// turn advances every task live at the start of the turn once and drops
// the tasks that reached a terminal state. Reports whether anything
// happened.
func (in *Interpreter) turn() bool {
	in.spawned = false
	progress := false
	n := len(in.tasks)
	for i := 0; i < n; i++ {
		if in.advance(in.tasks[i]) {
			progress = true
		}
	}
	live := in.tasks[:0]
	for _, t := range in.tasks {
		if t.state == StateRunning {
			live = append(live, t)
		}
	}
	clear(in.tasks[len(live):])
	in.tasks = live
	return progress || in.spawned
}
