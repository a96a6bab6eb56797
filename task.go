// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ware

import (
	"slices"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// Proc is a computation started by [Fork].
type Proc func(args ...any) kont.Eff[any]

// State is the lifecycle state of a [Task].
// Running is the only non-terminal state.
type State uint8

const (
	// StateRunning is a task that has not concluded yet.
	StateRunning State = iota
	// StateCompleted is a task that concluded with a value.
	StateCompleted
	// StateFailed is a task that concluded with an error.
	StateFailed
	// StateCanceled is a task stopped by [Cancel].
	StateCanceled
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateCanceled:
		return "canceled"
	}
	return "unknown"
}

// Task is a supervised computation: a top-level dispatch or a fork.
//
// Task state is owned by the interpreter goroutine. Read it from handlers,
// or from other goroutines only after the owning dispatch has settled.
type Task struct {
	id       Serial
	parent   *Task
	children []*Task
	state    State
	value    any
	err      error

	body   func() kont.Eff[any]
	frames []*frame
	future *Future

	joiners  int
	observed bool
	member   bool
	boot     bool

	// Failed descendants nobody had joined when they failed. Checked when
	// t concludes.
	unjoined []*Task

	busy          bool
	cancelPending bool
	canceling     bool
}

func newTask(parent *Task) *Task {
	return &Task{id: nextSerial(), parent: parent}
}

// ID returns the task serial.
func (t *Task) ID() Serial { return t.id }

// Parent returns the task that forked t, or nil for a top-level dispatch.
func (t *Task) Parent() *Task { return t.parent }

// State returns the current lifecycle state.
func (t *Task) State() State { return t.state }

// Result returns the terminal value or failure.
// Returns iox.ErrWouldBlock while the task is running, and [Canceled]
// with [ErrCanceled] once it is canceled.
func (t *Task) Result() (any, error) {
	switch t.state {
	case StateRunning:
		return nil, iox.ErrWouldBlock
	case StateCanceled:
		return Canceled, ErrCanceled
	}
	return t.value, t.err
}

// Children returns a snapshot of the still-running children of t.
func (t *Task) Children() []*Task { return slices.Clone(t.children) }

func (t *Task) top() *frame { return t.frames[len(t.frames)-1] }

func (t *Task) push(f *frame) { t.frames = append(t.frames, f) }

func (t *Task) pop() *frame {
	f := t.top()
	t.frames[len(t.frames)-1] = nil
	t.frames = t.frames[:len(t.frames)-1]
	return f
}

// root returns the top-level task t descends from.
func (t *Task) root() *Task {
	for t.parent != nil {
		t = t.parent
	}
	return t
}

func (t *Task) detach() {
	p := t.parent
	if p == nil {
		return
	}
	if i := slices.Index(p.children, t); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
}

// signal is a distinguished settlement that is not a failure.
type signal struct{ name string }

func (s *signal) String() string { return "ware: " + s.name }

var (
	// Canceled is what [Join] concludes with when the joined task was
	// canceled.
	Canceled any = &signal{"canceled"}

	// Closed is what [Take] concludes with on a closed channel.
	Closed any = &signal{"closed"}
)

// batch tracks the members forked by [All].
type batch struct {
	tasks []*Task
}

func (b *batch) poll(in *Interpreter) (outcome, error) {
	for _, t := range b.tasks {
		if t.state == StateFailed {
			for _, other := range b.tasks {
				in.cancel(other)
			}
			return outcome{err: t.err}, nil
		}
	}
	values := make([]any, len(b.tasks))
	for i, t := range b.tasks {
		switch t.state {
		case StateRunning:
			return outcome{}, iox.ErrWouldBlock
		case StateCanceled:
			values[i] = Canceled
		default:
			values[i] = t.value
		}
	}
	return outcome{value: values}, nil
}

// release is a no-op: members are children of the batch owner and are
// canceled with it.
func (*batch) release() {}

// spawn creates a child of parent that runs body from the next turn on.
func (in *Interpreter) spawn(parent *Task, body func() kont.Eff[any]) *Task {
	t := newTask(parent)
	t.body = body
	parent.children = append(parent.children, t)
	in.tasks = append(in.tasks, t)
	in.spawned = true
	return t
}

// cancel cancels the running descendants of t depth-first, then t itself.
// A task that is in the middle of dispatching an effect is canceled as
// soon as that dispatch returns.
func (in *Interpreter) cancel(t *Task) {
	if t.state != StateRunning || t.canceling {
		return
	}
	t.canceling = true
	for _, c := range slices.Clone(t.children) {
		in.cancel(c)
	}
	if t.busy {
		t.cancelPending = true
		return
	}
	in.interrupt(t)
}

// interrupt resumes the current suspension of t with ErrCanceled, lets
// the computation run until it suspends again or concludes, and then
// marks t canceled.
func (in *Interpreter) interrupt(t *Task) {
	if len(t.frames) > 0 {
		prev := in.current
		in.current = t
		f := t.top()
		f.release()
		v, next, err := resumeStep(t, f.susp, outcome{err: ErrCanceled})
		in.settle(t, v, next, err)
		in.current = prev
	}
	if t.state == StateRunning {
		in.finish(t, nil, nil)
	}
}

// finish moves t to its terminal state and notifies whoever observes it.
//
// A top-level task that would complete fails instead with the first
// unjoined failure of its descendants. Other unjoined failures move up to
// the nearest running ancestor, or are logged when there is none.
func (in *Interpreter) finish(t *Task, v any, err error) {
	for _, f := range t.frames {
		f.release()
		if f.susp != nil {
			f.susp.Discard()
		}
	}
	t.frames = nil
	t.body = nil

	lost := t.unjoinedFailures()
	if t.parent == nil && !t.canceling && err == nil && len(lost) > 0 {
		err = lost[0].err
		lost = lost[1:]
	}

	switch {
	case t.canceling:
		t.state, t.value = StateCanceled, Canceled
	case err != nil:
		t.state, t.err = StateFailed, err
	default:
		t.state, t.value = StateCompleted, v
	}
	t.detach()

	if t.future != nil {
		switch t.state {
		case StateCompleted:
			t.future.Resolve(t.value)
		case StateCanceled:
			t.future.Reject(ErrCanceled)
		default:
			t.future.Reject(t.err)
		}
	}
	if t.state == StateFailed {
		switch {
		case t.boot:
			in.cfg.logger.Warn("ware: boot dispatch failed", "task", t.id, "err", t.err)
		case t.parent != nil && !t.member && t.joiners == 0:
			lost = append(lost, t)
		}
	}
	in.handOver(t, lost)
}

// unjoinedFailures drains the failures recorded on t that no [Join] has
// observed since.
func (t *Task) unjoinedFailures() []*Task {
	var lost []*Task
	for _, c := range t.unjoined {
		if !c.observed {
			lost = append(lost, c)
		}
	}
	t.unjoined = nil
	return lost
}

// handOver records failures nobody joined on the nearest running
// ancestor of t, where a later Join can still observe them.
func (in *Interpreter) handOver(t *Task, lost []*Task) {
	if len(lost) == 0 {
		return
	}
	for owner := t.parent; owner != nil; owner = owner.parent {
		if owner.state == StateRunning {
			owner.unjoined = append(owner.unjoined, lost...)
			return
		}
	}
	for _, c := range lost {
		in.cfg.logger.Warn("ware: unjoined task failed", "task", c.id, "root", c.root().id, "err", c.err)
	}
}
