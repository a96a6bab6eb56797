// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ware

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/lfq"
)

// Channel is a rendezvous queue for [Take], [Put] and [Close].
//
// Transport is two bounded SPSC queues from lfq: pending values and
// pending waiters. Only the interpreter goroutine touches them, so it is
// both the single producer and the single consumer. At most one of the
// two queues is non-empty at any time.
type Channel struct {
	name    any
	values  lfq.SPSC[any]
	waiters lfq.SPSC[*waiter]
	closed  bool
}

// minChannelCapacity is the smallest queue lfq accepts.
const minChannelCapacity = 2

// NewChannel creates an open channel whose queues hold up to capacity
// entries, rounded up to a power of two. A full queue applies backpressure: the blocked [Put] or [Take]
// retries on a later turn.
func NewChannel(capacity int) *Channel {
	c := &Channel{}
	c.init(nil, capacity)
	return c
}

func (c *Channel) init(name any, capacity int) {
	switch {
	case capacity <= 0:
		capacity = DefaultChannelCapacity
	case capacity < minChannelCapacity:
		capacity = minChannelCapacity
	}
	c.name = name
	c.values.Init(capacity)
	c.waiters.Init(capacity)
}

// Name returns the registry name, or nil for a channel made by NewChannel.
func (c *Channel) Name() any { return c.name }

// waiter is a pending [Take]. Put fills it directly: the value never
// passes through the value queue.
type waiter struct {
	value    any
	filled   bool
	canceled bool
}

func (w *waiter) fill(v any) {
	w.value = v
	w.filled = true
}

// release drops an unfilled waiter whose task was canceled.
func (w *waiter) release() {
	if !w.filled {
		w.canceled = true
	}
}

// take dequeues a value, concludes with [Closed] on a drained closed
// channel, or registers f as a waiter.
func (c *Channel) take(f *frame) (outcome, error) {
	if w, ok := f.wait.(*waiter); ok {
		if !w.filled {
			return outcome{}, iox.ErrWouldBlock
		}
		return outcome{value: w.value}, nil
	}
	if v, err := c.values.Dequeue(); err == nil {
		return outcome{value: v}, nil
	}
	if c.closed {
		return outcome{value: Closed}, nil
	}
	w := &waiter{}
	if err := c.waiters.Enqueue(&w); err != nil {
		c.compact()
		if err := c.waiters.Enqueue(&w); err != nil {
			return outcome{}, iox.ErrWouldBlock
		}
	}
	f.wait = w
	return outcome{}, iox.ErrWouldBlock
}

// compact drops canceled waiters, keeping the live ones in order.
func (c *Channel) compact() {
	var live []*waiter
	for {
		w, err := c.waiters.Dequeue()
		if err != nil {
			break
		}
		if !w.canceled {
			live = append(live, w)
		}
	}
	for i := range live {
		_ = c.waiters.Enqueue(&live[i])
	}
}

// put hands v to the oldest live waiter, or enqueues it.
func (c *Channel) put(v any) (outcome, error) {
	if c.closed {
		return outcome{err: ErrChannelClosed}, nil
	}
	for {
		w, err := c.waiters.Dequeue()
		if err != nil {
			break
		}
		if w.canceled {
			continue
		}
		w.fill(v)
		return outcome{value: struct{}{}}, nil
	}
	if err := c.values.Enqueue(&v); err != nil {
		return outcome{}, iox.ErrWouldBlock
	}
	return outcome{value: struct{}{}}, nil
}

// close marks c closed and resolves every queued waiter with [Closed].
// Values still queued stay takeable; Closed follows the last of them.
func (c *Channel) close() {
	if c.closed {
		return
	}
	c.closed = true
	for {
		w, err := c.waiters.Dequeue()
		if err != nil {
			break
		}
		if !w.canceled {
			w.fill(Closed)
		}
	}
}

// channel resolves a channel reference: a *Channel is used as is, any
// other value names a channel in the registry, created on first use.
func (in *Interpreter) channel(ref any) *Channel {
	if c, ok := ref.(*Channel); ok {
		return c
	}
	c, ok := in.chans[ref]
	if !ok {
		c = &Channel{}
		c.init(ref, in.cfg.capacity)
		in.chans[ref] = c
	}
	return c
}
