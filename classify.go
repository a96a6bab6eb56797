// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ware

import "code.hybscloud.com/kont"

// Kind is the classification of an effect operation produced at a
// suspension point.
type Kind uint8

const (
	// KindValue is an immediate value: the computation resumes with the
	// operation itself.
	KindValue Kind = iota
	// KindAction is a nested action dispatched through the whole pipeline.
	KindAction
	// KindThunk is a completion-style function, built by [Callback].
	KindThunk
	// KindAwaitable is an external [Awaitable], built by [Await].
	KindAwaitable
	// KindComputation is a nested computation, built by [Call] or [Try].
	KindComputation
	// KindBatch is a group of computations resolved together by [All].
	KindBatch
	// KindFork starts a child task.
	KindFork
	// KindJoin waits for a task to become terminal.
	KindJoin
	// KindCancel cancels a task and its running descendants.
	KindCancel
	// KindDelay suspends until a deadline.
	KindDelay
	// KindTake receives from a channel.
	KindTake
	// KindPut sends on a channel.
	KindPut
	// KindClose closes a channel.
	KindClose
	// KindFailure raises an error, built by [Fail].
	KindFailure
)

var kindNames = [...]string{
	KindValue:       "value",
	KindAction:      "action",
	KindThunk:       "thunk",
	KindAwaitable:   "awaitable",
	KindComputation: "computation",
	KindBatch:       "batch",
	KindFork:        "fork",
	KindJoin:        "join",
	KindCancel:      "cancel",
	KindDelay:       "delay",
	KindTake:        "take",
	KindPut:         "put",
	KindClose:       "close",
	KindFailure:     "failure",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsControl reports whether k is a tagged control effect routed to the
// task supervisor, the channel registry, or the timer.
func (k Kind) IsControl() bool {
	return k >= KindFork && k <= KindClose
}

// Classify returns the kind of an effect operation. It is pure.
//
// Cases are listed in precedence order: control effects, batches,
// resumable computations, awaitables, thunks, nested actions.
// Anything else, including operations of other effect families, is an
// immediate value: the interpreter resumes the computation with the
// operation itself.
func Classify(op kont.Operation) Kind {
	switch op.(type) {
	case forkOp:
		return KindFork
	case joinOp:
		return KindJoin
	case cancelOp:
		return KindCancel
	case delayOp:
		return KindDelay
	case takeOp:
		return KindTake
	case putOp:
		return KindPut
	case closeOp:
		return KindClose
	case allOp:
		return KindBatch
	case callOp, tryOp:
		return KindComputation
	case awaitOp:
		return KindAwaitable
	case callbackOp:
		return KindThunk
	case dispatchOp:
		return KindAction
	case kont.Throw[error]:
		return KindFailure
	default:
		return KindValue
	}
}
