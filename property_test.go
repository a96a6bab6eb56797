// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ware_test

import (
	"testing"
	"testing/quick"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/ware"
)

// send puts every value on ch in order, then closes it.
func send(ch any, values []int8) ware.Proc {
	return func(...any) kont.Eff[any] {
		return ware.Loop(0, func(i int) kont.Eff[kont.Either[int, any]] {
			if i == len(values) {
				return kont.Map(ware.Close(ch), func(struct{}) kont.Either[int, any] {
					return kont.Right[int, any](nil)
				})
			}
			return kont.Map(ware.Put(ch, values[i]), func(struct{}) kont.Either[int, any] {
				return kont.Left[int, any](i + 1)
			})
		})
	}
}

func TestChannelPreservesOrder(t *testing.T) {
	app := ware.New(ware.WithChannelCapacity(4))
	app.UseFunc(func(action ware.Action, next ware.Next, _ any) kont.Eff[any] {
		values, ok := action.([]int8)
		if !ok {
			return next()
		}
		ch := ware.NewChannel(4)
		return kont.Then(ware.Fork(send(ch, values)), collect(ch))
	})

	prop := func(values []int8) bool {
		got, err := settle(t, app.Dispatch(values))
		if err != nil {
			return false
		}
		out, _ := got.([]any)
		if len(out) != len(values) {
			return false
		}
		for i, v := range out {
			if v != values[i] {
				return false
			}
		}
		return true
	}
	if err := quick.Check(prop, &quick.Config{MaxCount: 50}); err != nil {
		t.Fatal(err)
	}
}

func TestBatchPreservesOrder(t *testing.T) {
	app := ware.New()
	app.UseFunc(func(action ware.Action, next ware.Next, _ any) kont.Eff[any] {
		values, ok := action.([]int16)
		if !ok {
			return next()
		}
		members := make([]kont.Eff[any], len(values))
		for i, v := range values {
			members[i] = kont.Then(ware.Delay(0), ware.Pure(v))
		}
		return kont.Map(ware.All(members...), func(vs []any) any { return vs })
	})

	prop := func(values []int16) bool {
		got, err := settle(t, app.Dispatch(values))
		if err != nil {
			return false
		}
		out, _ := got.([]any)
		if len(out) != len(values) {
			return false
		}
		for i, v := range out {
			if v != values[i] {
				return false
			}
		}
		return true
	}
	if err := quick.Check(prop, &quick.Config{MaxCount: 50}); err != nil {
		t.Fatal(err)
	}
}
