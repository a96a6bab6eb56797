// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ware

// Boot is dispatched through the pipeline once per interpreter, ahead of
// the first action. A stage may intercept it to hand the [Driver] to an
// external event source.
type Boot struct {
	Driver *Driver
}

// Pushed carries a value pushed through the [Driver].
type Pushed struct {
	Value any
}

// Driver lets code outside the interpreter feed it actions.
type Driver struct {
	in *Interpreter
}

// Push dispatches Pushed{Value: v} through the main handler, or the
// pipeline when none is configured, and returns the dispatch's future.
// Safe for concurrent use.
func (d *Driver) Push(v any) *Future {
	h := d.in.cfg.main
	if h == nil {
		h = d.in.ware
	}
	return d.in.submit(Pushed{Value: v}, h)
}
