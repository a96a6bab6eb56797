// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ware

import (
	"code.hybscloud.com/kont"
)

// ExprFunc is a [Handler] written against defunctionalized kont.Expr
// computations. Its result is reflected back into Cont-world before the
// interpreter drives it.
type ExprFunc func(action Action, next Next, ctx any) kont.Expr[any]

// Serve implements [Handler].
func (f ExprFunc) Serve(action Action, next Next, ctx any) kont.Eff[any] {
	return Reflect(f(action, next, ctx))
}

// Reify converts an effectful computation to Expr-world, for use inside
// an [ExprFunc] (for example, reifying next()).
func Reify(m kont.Eff[any]) kont.Expr[any] {
	return kont.Reify(m)
}

// Reflect converts an Expr-world computation to Cont-world.
func Reflect(m kont.Expr[any]) kont.Eff[any] {
	return kont.Reflect(m)
}
