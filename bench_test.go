// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ware_test

import (
	"testing"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/ware"
)

func BenchmarkDispatch(b *testing.B) {
	app := ware.New()
	app.Use(match("a", "b"))
	mustSettle(b, app.Dispatch("warm"))

	b.ReportAllocs()
	for b.Loop() {
		mustSettle(b, app.Dispatch("a"))
	}
}

func BenchmarkNestedDispatch(b *testing.B) {
	app := ware.New()
	app.Use(match("leaf", "done"))
	app.Use(on("outer", func(any) kont.Eff[any] { return ware.Dispatch("leaf") }))
	mustSettle(b, app.Dispatch("warm"))

	b.ReportAllocs()
	for b.Loop() {
		mustSettle(b, app.Dispatch("outer"))
	}
}

func BenchmarkRendezvous(b *testing.B) {
	app := ware.New()
	app.Use(on("go", func(any) kont.Eff[any] {
		ch := ware.NewChannel(4)
		return kont.Then(ware.Fork(func(...any) kont.Eff[any] {
			return kont.Then(ware.Put(ch, 1), ware.Pure(nil))
		}), ware.Take(ch))
	}))
	mustSettle(b, app.Dispatch("warm"))

	b.ReportAllocs()
	for b.Loop() {
		mustSettle(b, app.Dispatch("go"))
	}
}
