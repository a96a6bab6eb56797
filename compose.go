// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ware

import "code.hybscloud.com/kont"

// Action is the opaque value dispatched through a pipeline.
type Action = any

// Next runs the remainder of the chain for the current action.
type Next func() kont.Eff[any]

// Handler is a middleware stage.
//
// Serve either concludes the action itself or delegates by returning
// next(). The returned computation may suspend on any effect built by the
// constructors of this package; it runs only when the interpreter drives
// it. ctx is the context of the pipeline tree.
type Handler interface {
	Serve(action Action, next Next, ctx any) kont.Eff[any]
}

// Func adapts a function to [Handler].
type Func func(action Action, next Next, ctx any) kont.Eff[any]

// Serve implements [Handler].
func (f Func) Serve(action Action, next Next, ctx any) kont.Eff[any] {
	return f(action, next, ctx)
}

// Handlers is an ordered list of stages usable as one stage.
type Handlers []Handler

// Serve runs the stages in order; the last stage's next is next.
func (hs Handlers) Serve(action Action, next Next, ctx any) kont.Eff[any] {
	return chain(hs).serve(0, action, next, ctx)
}

// Compose nests hs onion-style into a single [Handler].
func Compose(hs ...Handler) Handler {
	return Handlers(hs)
}

// chain is the composed pipeline: stage i gets a next that runs stage
// i+1, and the stage after the last one is the enclosing next.
type chain []Handler

func (c chain) serve(i int, action Action, next Next, ctx any) kont.Eff[any] {
	if i >= len(c) {
		return next()
	}
	return c[i].Serve(action, func() kont.Eff[any] {
		return c.serve(i+1, action, next, ctx)
	}, ctx)
}

// identity is the terminal stage of a root chain: an action nobody
// handled concludes with itself.
func identity(action Action) Next {
	return func() kont.Eff[any] {
		return kont.Pure(action)
	}
}
