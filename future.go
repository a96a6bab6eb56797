// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ware

import (
	"context"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
)

// Awaitable is a single-resolution result that settles at most once.
// Done is closed after settlement; Result then reports the value or failure.
type Awaitable interface {
	Done() <-chan struct{}
	Result() (any, error)
}

// Future is the goroutine-safe [Awaitable] returned by every dispatch.
// Only the first Resolve or Reject takes effect.
type Future struct {
	gate  atomix.Uint32
	done  chan struct{}
	value any
	err   error
}

// NewFuture returns a pending future.
func NewFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Resolved returns a future already settled with v.
func Resolved(v any) *Future {
	f := NewFuture()
	f.Resolve(v)
	return f
}

// Rejected returns a future already settled with err.
func Rejected(err error) *Future {
	f := NewFuture()
	f.Reject(err)
	return f
}

// Resolve settles the future with v. Reports whether this call settled it.
func (f *Future) Resolve(v any) bool {
	return f.settle(v, nil)
}

// Reject settles the future with err. Reports whether this call settled it.
func (f *Future) Reject(err error) bool {
	return f.settle(nil, err)
}

func (f *Future) settle(v any, err error) bool {
	if f.gate.Add(1) != 1 {
		return false
	}
	f.value, f.err = v, err
	close(f.done)
	return true
}

// Done returns a channel closed once the future settles.
func (f *Future) Done() <-chan struct{} { return f.done }

// Result returns the settled value or failure without blocking.
// Returns iox.ErrWouldBlock while the future is pending.
func (f *Future) Result() (any, error) {
	select {
	case <-f.done:
		return f.value, f.err
	default:
		return nil, iox.ErrWouldBlock
	}
}

// Wait blocks until the future settles or ctx is done.
func (f *Future) Wait(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
