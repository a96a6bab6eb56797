// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ware

import (
	"time"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// outcome is the resumption value of every ware effect.
// A non-nil err is re-raised in the suspended computation.
type outcome struct {
	value any
	err   error
}

// scope is what an effect sees while it is dispatched: the interpreter,
// the suspended task, and the frame whose suspension carries the effect.
type scope struct {
	in *Interpreter
	t  *Task
	f  *frame
}

// effectDispatcher is the structural interface for control effects.
// dispatchEffect is non-blocking: it returns iox.ErrWouldBlock when the
// effect cannot complete yet, leaving the suspension for a later turn.
type effectDispatcher interface {
	dispatchEffect(s *scope) (outcome, error)
}

// frameOpener is the structural interface for effects that run another
// computation on the suspended task's own frame stack.
type frameOpener interface {
	openFrame(s *scope) (body func() kont.Eff[any], kind frameKind)
}

// forkOp starts proc(args...) as a child task.
type forkOp struct {
	kont.Phantom[outcome]
	proc Proc
	args []any
}

// dispatchEffect creates the child and hands it back without blocking.
// The child is stepped no earlier than the next scheduling turn.
func (o forkOp) dispatchEffect(s *scope) (outcome, error) {
	proc, args := o.proc, o.args
	child := s.in.spawn(s.t, func() kont.Eff[any] {
		return proc(args...)
	})
	return outcome{value: child}, nil
}

// joinOp waits for a task to reach a terminal state.
type joinOp struct {
	kont.Phantom[outcome]
	task *Task
}

func (o joinOp) dispatchEffect(s *scope) (outcome, error) {
	t := o.task
	if t == nil {
		return outcome{err: ErrNilTask}, nil
	}
	switch t.state {
	case StateCompleted:
		return outcome{value: t.value}, nil
	case StateFailed:
		t.observed = true
		return outcome{err: &JoinError{Task: t.id, Err: t.err}}, nil
	case StateCanceled:
		return outcome{value: Canceled}, nil
	}
	if s.f.wait == nil {
		t.joiners++
		s.f.wait = joinWait{t}
	}
	return outcome{}, iox.ErrWouldBlock
}

// joinWait keeps the joined task marked as observed while the join is
// pending.
type joinWait struct{ task *Task }

func (w joinWait) release() { w.task.joiners-- }

// cancelOp cancels a task and its still-running descendants.
type cancelOp struct {
	kont.Phantom[outcome]
	task *Task
}

func (o cancelOp) dispatchEffect(s *scope) (outcome, error) {
	if o.task == nil {
		return outcome{err: ErrNilTask}, nil
	}
	s.in.cancel(o.task)
	return outcome{value: struct{}{}}, nil
}

// allOp resolves a batch of computations concurrently.
type allOp struct {
	kont.Phantom[outcome]
	members []kont.Eff[any]
}

// dispatchEffect forks every member on first dispatch and then polls
// them in order. The first failure cancels the remaining members.
func (o allOp) dispatchEffect(s *scope) (outcome, error) {
	b, ok := s.f.wait.(*batch)
	if !ok {
		if len(o.members) == 0 {
			return outcome{value: []any{}}, nil
		}
		b = &batch{tasks: make([]*Task, len(o.members))}
		for i, m := range o.members {
			b.tasks[i] = s.in.spawn(s.t, func() kont.Eff[any] { return m })
			b.tasks[i].member = true
		}
		s.f.wait = b
		return outcome{}, iox.ErrWouldBlock
	}
	return b.poll(s.in)
}

// awaitOp waits for an external awaitable to settle.
type awaitOp struct {
	kont.Phantom[outcome]
	a Awaitable
}

func (o awaitOp) dispatchEffect(*scope) (outcome, error) {
	if o.a == nil {
		return outcome{}, nil
	}
	return awaitOutcome(o.a)
}

func awaitOutcome(a Awaitable) (outcome, error) {
	select {
	case <-a.Done():
		v, err := a.Result()
		return outcome{value: v, err: err}, nil
	default:
		return outcome{}, iox.ErrWouldBlock
	}
}

// callbackOp invokes a completion-style function once.
type callbackOp struct {
	kont.Phantom[outcome]
	fn func(done func(err error, v any))
}

// dispatchEffect calls fn on first dispatch. Only the first completion
// settles the effect; later completions are ignored.
func (o callbackOp) dispatchEffect(s *scope) (outcome, error) {
	w, ok := s.f.wait.(callbackWait)
	if !ok {
		w = callbackWait{NewFuture()}
		s.f.wait = w
		o.fn(w.complete)
	}
	return awaitOutcome(w.f)
}

type callbackWait struct{ f *Future }

func (w callbackWait) complete(err error, v any) {
	if err != nil {
		w.f.Reject(callbackError(err))
		return
	}
	w.f.Resolve(v)
}

func (callbackWait) release() {}

// delayOp suspends until the interpreter clock passes a deadline.
type delayOp struct {
	kont.Phantom[outcome]
	d time.Duration
}

func (o delayOp) dispatchEffect(s *scope) (outcome, error) {
	now := s.in.cfg.clock.Now()
	tm, ok := s.f.wait.(*timer)
	if !ok {
		tm = newTimer(now, o.d)
		s.f.wait = tm
	}
	if !tm.expired(now) {
		return outcome{}, iox.ErrWouldBlock
	}
	return outcome{value: struct{}{}}, nil
}

// takeOp receives from a channel.
type takeOp struct {
	kont.Phantom[outcome]
	ch any
}

func (o takeOp) dispatchEffect(s *scope) (outcome, error) {
	return s.in.channel(o.ch).take(s.f)
}

// putOp sends to a channel.
type putOp struct {
	kont.Phantom[outcome]
	ch    any
	value any
}

func (o putOp) dispatchEffect(s *scope) (outcome, error) {
	return s.in.channel(o.ch).put(o.value)
}

// closeOp closes a channel.
type closeOp struct {
	kont.Phantom[outcome]
	ch any
}

func (o closeOp) dispatchEffect(s *scope) (outcome, error) {
	s.in.channel(o.ch).close()
	return outcome{value: struct{}{}}, nil
}

// dispatchOp re-enters the whole pipeline with a nested action.
type dispatchOp struct {
	kont.Phantom[outcome]
	action Action
}

func (o dispatchOp) openFrame(s *scope) (func() kont.Eff[any], frameKind) {
	in, action := s.in, o.action
	return func() kont.Eff[any] { return in.serve(in.ware, action) }, frameCall
}

// callOp drives a nested computation to completion.
type callOp struct {
	kont.Phantom[outcome]
	body kont.Eff[any]
}

func (o callOp) openFrame(*scope) (func() kont.Eff[any], frameKind) {
	body := o.body
	return func() kont.Eff[any] { return body }, frameCall
}

// tryOp drives a nested computation and catches its failure.
type tryOp struct {
	kont.Phantom[outcome]
	body kont.Eff[any]
}

func (o tryOp) openFrame(*scope) (func() kont.Eff[any], frameKind) {
	body := o.body
	return func() kont.Eff[any] { return body }, frameTry
}
