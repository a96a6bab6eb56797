// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ware

import (
	"slices"
	"sync"

	"code.hybscloud.com/kont"
)

// mode is the binding state of a pipeline. It leaves unbound exactly once.
type mode uint8

const (
	modeUnbound mode = iota
	modeRoot
	modeChild
)

// Values is the context a root pipeline creates when none was bound.
type Values map[string]any

// Ware is a middleware pipeline. It can be dispatched directly or mounted
// as a [Handler] in another pipeline.
//
// The first Bind, Dispatch or Serve freezes the pipeline's mode:
//   - Bind, or Dispatch on a pipeline that is not mounted, makes it root:
//     it owns the context and an [Interpreter].
//   - Serve, that is being run as a stage of another pipeline, makes it a
//     child: it composes into the caller's chain with the caller's context.
//
// A child that is dispatched directly runs on its root ancestor's
// interpreter, with that ancestor's context. A child with no recorded
// ancestor, such as one mounted through [Compose], gets an interpreter and
// a fresh [Values] context of its own.
type Ware struct {
	mu       sync.Mutex
	handlers []Handler
	mode     mode
	ctx      any
	parent   *Ware
	in       *Interpreter
	cfg      config
}

// New creates an unbound pipeline.
func New(opts ...Option) *Ware {
	w := &Ware{cfg: defaultConfig()}
	for _, opt := range opts {
		opt(&w.cfg)
	}
	return w
}

// Use appends stages. Registration order is dispatch precedence.
// A *Ware passed here is mounted: it records w as its parent.
func (w *Ware) Use(hs ...Handler) *Ware {
	w.mu.Lock()
	w.handlers = append(w.handlers, hs...)
	w.mu.Unlock()
	for _, h := range hs {
		if child, ok := h.(*Ware); ok && child != w {
			child.mount(w)
		}
	}
	return w
}

// UseFunc appends function stages.
func (w *Ware) UseFunc(fs ...func(action Action, next Next, ctx any) kont.Eff[any]) *Ware {
	hs := make([]Handler, len(fs))
	for i, f := range fs {
		hs[i] = Func(f)
	}
	return w.Use(hs...)
}

func (w *Ware) mount(parent *Ware) {
	w.mu.Lock()
	w.parent = parent
	w.mu.Unlock()
}

// Bind makes w root with ctx. Binding again replaces the context; the
// interpreter and the registered stages are kept.
func (w *Ware) Bind(ctx any) *Ware {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ctx = ctx
	w.mode = modeRoot
	if w.in == nil {
		w.in = newInterpreter(w, w.cfg)
	}
	return w
}

// Dispatch sends action through the pipeline. The returned future always
// settles, with action itself when no stage handled it.
func (w *Ware) Dispatch(action Action) *Future {
	return w.interpreter().submit(action, w)
}

// Driver returns the push bridge of the interpreter w runs on.
func (w *Ware) Driver() *Driver {
	return w.interpreter().driver
}

// Interpreter returns the interpreter w runs on, binding w as root with a
// fresh [Values] context if it is neither bound nor mounted.
func (w *Ware) Interpreter() *Interpreter {
	return w.interpreter()
}

func (w *Ware) interpreter() *Interpreter {
	w.mu.Lock()
	if w.mode == modeUnbound {
		if w.parent != nil {
			w.mode = modeChild
		} else {
			w.mode = modeRoot
			w.ctx = Values{}
			w.in = newInterpreter(w, w.cfg)
		}
	}
	if w.in == nil && w.parent == nil {
		// A child served through Compose or WithMain has no mount link:
		// it keeps composing as a child and dispatches on its own.
		w.ctx = Values{}
		w.in = newInterpreter(w, w.cfg)
	}
	in, parent := w.in, w.parent
	w.mu.Unlock()
	if in != nil {
		return in
	}
	return parent.interpreter()
}

// Serve implements [Handler]: w's stages run in the caller's chain and
// the caller's next follows the last of them. A root w serves its own
// bound context.
func (w *Ware) Serve(action Action, next Next, ctx any) kont.Eff[any] {
	w.mu.Lock()
	if w.mode == modeUnbound {
		w.mode = modeChild
	}
	if w.mode == modeRoot {
		ctx = w.ctx
	}
	c := chain(slices.Clip(w.handlers))
	w.mu.Unlock()
	return c.serve(0, action, next, ctx)
}

func (w *Ware) context() any {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ctx
}
