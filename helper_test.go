// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ware_test

import (
	"context"
	"testing"
	"time"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/ware"
)

// settle waits for f with a deadline so a stuck interpreter fails the
// test instead of hanging it.
func settle(tb testing.TB, f *ware.Future) (any, error) {
	tb.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	v, err := f.Wait(ctx)
	if err == context.DeadlineExceeded {
		tb.Fatalf("dispatch did not settle")
	}
	return v, err
}

// mustSettle waits for f and fails the test on a failure.
func mustSettle(tb testing.TB, f *ware.Future) any {
	tb.Helper()
	v, err := settle(tb, f)
	if err != nil {
		tb.Fatalf("dispatch failed: %v", err)
	}
	return v
}

// match returns a stage that resolves from to to and delegates otherwise.
func match(from, to any) ware.Func {
	return func(action ware.Action, next ware.Next, _ any) kont.Eff[any] {
		if action == from {
			return ware.Pure(to)
		}
		return next()
	}
}

// on returns a stage that runs body for action and delegates otherwise.
func on(action any, body func(ctx any) kont.Eff[any]) ware.Func {
	return func(a ware.Action, next ware.Next, ctx any) kont.Eff[any] {
		if a == action {
			return body(ctx)
		}
		return next()
	}
}
