// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ware provides an action-dispatch runtime: an ordered pipeline of
// middleware whose stages are effectful computations on
// [code.hybscloud.com/kont], driven by a cooperative scheduler.
//
// A stage intercepts an action, resolves it, or delegates to the rest of
// the chain. While resolving, it may suspend to await results, fork
// concurrent tasks, rendezvous over channels, or delay itself.
//
// # Architecture
//
//   - Composition: [Ware] nests its stages onion-style. An action no stage
//     handles concludes with itself. A [*Ware] is itself a [Handler] and
//     can be mounted inside another pipeline.
//   - Binding: the first [Ware.Bind] or [Ware.Dispatch] makes a pipeline
//     root; it owns the context and an [Interpreter]. A mounted pipeline
//     composes into its parent and shares its context.
//   - Interpretation: stages return kont.Eff[any]. The interpreter steps
//     them with kont.Step one effect at a time. Effects are non-blocking
//     and report [code.hybscloud.com/iox.ErrWouldBlock] when they cannot
//     complete, so one goroutine multiplexes every task.
//   - Channels: bounded lock-free SPSC queues via [code.hybscloud.com/lfq].
//
// # Effects
//
//   - Values: [Pure], [Fail].
//   - Suspension: [Await], [Callback], [All], [Call], [Try], [Dispatch].
//   - Tasks: [Fork], [Join], [Cancel].
//   - Channels: [Take], [Put], [Close].
//   - Time: [Delay].
//
// [Classify] reports the [Kind] of an effect operation.
//
// # Settlement
//
// Every dispatch returns a [Future]. A failure that no [Try] recovers fails
// the task; a joiner of a failed task gets a [*JoinError]. [Closed] and
// [Canceled] are signals, not errors.
//
// # Boot and push
//
// Each interpreter dispatches [Boot] once before its first action. A stage
// may keep the [Driver] it carries; [Driver.Push] dispatches [Pushed]
// values from outside the interpreter.
//
// # Example
//
//	app := ware.New()
//	app.UseFunc(func(action ware.Action, next ware.Next, ctx any) kont.Eff[any] {
//		if action != "fetch" {
//			return next()
//		}
//		return kont.Then(ware.Delay(10*time.Millisecond), ware.Pure("google"))
//	})
//	v, err := app.Dispatch("fetch").Wait(context.Background())
//	// v == "google", err == nil
package ware
