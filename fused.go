// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ware

import (
	"time"

	"code.hybscloud.com/kont"
)

// Effect constructors. Each returns a computation that performs the effect
// when the interpreter drives it; none performs anything when called.

// perform suspends on op and re-raises a failed outcome.
func perform[O kont.Op[O, outcome]](op O) kont.Eff[any] {
	return kont.Bind(kont.Perform[O, outcome](op), unwrap)
}

func unwrap(o outcome) kont.Eff[any] {
	if o.err != nil {
		return kont.ThrowError[error, any](o.err)
	}
	return kont.Pure[any](o.value)
}

func asTask(v any) *Task { return v.(*Task) }

func asUnit(any) struct{} { return struct{}{} }

func asSlice(v any) []any { return v.([]any) }

func asEither(v any) kont.Either[error, any] { return v.(kont.Either[error, any]) }

// Pure concludes with v.
func Pure(v any) kont.Eff[any] {
	return kont.Pure[any](v)
}

// Fail raises err in the current computation.
// Unless caught by an enclosing [Try], the task fails with err.
func Fail(err error) kont.Eff[any] {
	if err == nil {
		err = errNilThrow
	}
	return kont.ThrowError[error, any](err)
}

// Fork starts proc(args...) as a child of the current task and concludes
// with its handle. The forker is never blocked.
func Fork(proc Proc, args ...any) kont.Eff[*Task] {
	return kont.Map(perform(forkOp{proc: proc, args: args}), asTask)
}

// Join waits until t is terminal. It concludes with t's value when t
// completed, with [Canceled] when t was canceled, and raises a [*JoinError]
// when t failed.
func Join(t *Task) kont.Eff[any] {
	return perform(joinOp{task: t})
}

// Cancel cancels t and its still-running descendants.
// Canceling a terminal task is a no-op.
func Cancel(t *Task) kont.Eff[struct{}] {
	return kont.Map(perform(cancelOp{task: t}), asUnit)
}

// Delay suspends the current task for at least d.
func Delay(d time.Duration) kont.Eff[struct{}] {
	return kont.Map(perform(delayOp{d: d}), asUnit)
}

// Take receives the next value from ch, a [*Channel] or a channel name.
// On a closed channel it concludes with [Closed].
func Take(ch any) kont.Eff[any] {
	return perform(takeOp{ch: ch})
}

// Put sends v on ch, a [*Channel] or a channel name.
// It raises [ErrChannelClosed] on a closed channel.
func Put(ch any, v any) kont.Eff[struct{}] {
	return kont.Map(perform(putOp{ch: ch, value: v}), asUnit)
}

// Close closes ch, a [*Channel] or a channel name.
func Close(ch any) kont.Eff[struct{}] {
	return kont.Map(perform(closeOp{ch: ch}), asUnit)
}

// Await waits for a to settle and concludes with its value, or raises its
// failure. A nil awaitable concludes with nil.
func Await(a Awaitable) kont.Eff[any] {
	return perform(awaitOp{a: a})
}

// Callback invokes fn with a completion function. A completion with a
// non-nil err raises it wrapped in [ErrCallback]; otherwise the effect
// concludes with v. Only the first completion counts.
func Callback(fn func(done func(err error, v any))) kont.Eff[any] {
	return perform(callbackOp{fn: fn})
}

// All resolves members concurrently and concludes with their values in
// member order. The first member failure fails the batch and cancels the
// rest; wrap members in [Try] to resolve them individually.
func All(members ...kont.Eff[any]) kont.Eff[[]any] {
	return kont.Map(perform(allOp{members: members}), asSlice)
}

// Call drives body to completion as a sub-computation of the current task.
func Call(body kont.Eff[any]) kont.Eff[any] {
	return perform(callOp{body: body})
}

// Try drives body like [Call] and returns its failure as Left instead of
// raising it. A canceled task observes [ErrCanceled] through Try.
func Try(body kont.Eff[any]) kont.Eff[kont.Either[error, any]] {
	return kont.Map(perform(tryOp{body: body}), asEither)
}

// Dispatch sends action through the whole pipeline and concludes with its
// result.
func Dispatch(action Action) kont.Eff[any] {
	return perform(dispatchOp{action: action})
}

// Loop runs a recursive computation.
// step returns Left(nextState) to continue or Right(result) to finish.
func Loop[S any](initial S, step func(S) kont.Eff[kont.Either[S, any]]) kont.Eff[any] {
	return kont.Bind(step(initial), func(e kont.Either[S, any]) kont.Eff[any] {
		if next, ok := e.GetLeft(); ok {
			return Loop(next, step)
		}
		v, _ := e.GetRight()
		return kont.Pure(v)
	})
}
