// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ware_test

import (
	"testing"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/ware"
)

func TestExprFunc(t *testing.T) {
	app := ware.New()
	app.Use(ware.ExprFunc(func(action ware.Action, next ware.Next, _ any) kont.Expr[any] {
		if action == "expr" {
			return kont.ExprReturn[any]("from expr")
		}
		return ware.Reify(next())
	}))
	app.Use(match("cont", "from cont"))

	if got := mustSettle(t, app.Dispatch("expr")); got != "from expr" {
		t.Fatalf("got %v, want %q", got, "from expr")
	}
	if got := mustSettle(t, app.Dispatch("cont")); got != "from cont" {
		t.Fatalf("got %v, want %q", got, "from cont")
	}
}

func TestExprFuncSuspends(t *testing.T) {
	app := ware.New()
	app.Use(match("fetch", "google"))
	app.Use(ware.ExprFunc(func(action ware.Action, next ware.Next, _ any) kont.Expr[any] {
		if action == "qux" {
			return ware.Reify(ware.Dispatch("fetch"))
		}
		return ware.Reify(next())
	}))

	if got := mustSettle(t, app.Dispatch("qux")); got != "google" {
		t.Fatalf("got %v, want %q", got, "google")
	}
}
