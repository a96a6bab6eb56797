// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ware

import (
	"sync"

	"code.hybscloud.com/kont"
)

// frameKind says how a concluded frame resumes the frame below it.
type frameKind uint8

const (
	frameRoot frameKind = iota // the task body
	frameCall                  // Call and Dispatch: value resumes, failure re-raises
	frameTry                   // Try: value and failure both resume as Either
)

// pending is per-suspension state held while an effect cannot complete:
// a timer, a channel waiter, a joined task, a batch.
type pending interface {
	release()
}

// frame is one computation on a task's stack, suspended at susp.
type frame struct {
	kind frameKind
	susp *kont.Suspension[any]
	wait pending
}

func (f *frame) release() {
	if f.wait != nil {
		f.wait.release()
		f.wait = nil
	}
}

// Interpreter drives the tasks of one root pipeline.
//
// All computations run on a single driver goroutine, started when work
// arrives and stopped when no task is live. Exactly one computation runs
// at a time; control changes hands only at suspension points.
type Interpreter struct {
	ware   *Ware
	cfg    config
	driver *Driver

	mu      sync.Mutex
	inbox   []*Task
	running bool
	booted  bool
	woken   bool

	// Owned by the driver goroutine.
	tasks   []*Task
	chans   map[any]*Channel
	current *Task
	spawned bool
}

func newInterpreter(w *Ware, cfg config) *Interpreter {
	in := &Interpreter{
		ware:  w,
		cfg:   cfg,
		chans: make(map[any]*Channel),
	}
	in.driver = &Driver{in: in}
	return in
}

// Driver returns the push bridge of the interpreter.
func (in *Interpreter) Driver() *Driver { return in.driver }

// Context returns the context shared by the pipeline tree.
func (in *Interpreter) Context() any { return in.ware.context() }

// serve starts action down h with the identity terminal.
func (in *Interpreter) serve(h Handler, action Action) kont.Eff[any] {
	return h.Serve(action, identity(action), in.ware.context())
}

// submit queues a top-level dispatch of action through h.
// The first submission also queues the boot dispatch ahead of it.
func (in *Interpreter) submit(action Action, h Handler) *Future {
	t := newTask(nil)
	t.future = NewFuture()
	t.body = func() kont.Eff[any] { return in.serve(h, action) }

	in.mu.Lock()
	if !in.booted {
		in.booted = true
		in.inbox = append(in.inbox, in.bootTask())
	}
	in.inbox = append(in.inbox, t)
	in.woken = true
	if !in.running {
		in.running = true
		go in.drive()
	}
	in.mu.Unlock()
	return t.future
}

func (in *Interpreter) bootTask() *Task {
	t := newTask(nil)
	t.boot = true
	t.future = NewFuture()
	boot := Boot{Driver: in.driver}
	t.body = func() kont.Eff[any] { return in.serve(in.ware, boot) }
	return t
}

// advance gives t one chance to make progress.
func (in *Interpreter) advance(t *Task) bool {
	if t.state != StateRunning {
		return false
	}
	in.current = t
	defer func() { in.current = nil }()

	if t.body != nil {
		body := t.body
		t.body = nil
		in.open(t, frameRoot, body)
		return true
	}

	f := t.top()
	op := f.susp.Op()
	s := &scope{in: in, t: t, f: f}
	switch e := op.(type) {
	case frameOpener:
		body, kind := e.openFrame(s)
		in.open(t, kind, body)
		return true
	case effectDispatcher:
		t.busy = true
		o, err := in.dispatch(s, e)
		t.busy = false
		if t.cancelPending {
			t.cancelPending = false
			in.interrupt(t)
			return true
		}
		if err != nil {
			return false
		}
		f.release()
		v, next, err := resumeStep(t, f.susp, o)
		in.settle(t, v, next, err)
		return true
	default:
		// Fail-open: an operation the interpreter does not know is an
		// immediate value.
		v, next, err := resumeStep(t, f.susp, op)
		in.settle(t, v, next, err)
		return true
	}
}

// dispatch runs a control effect, turning a panic into a failed outcome.
func (in *Interpreter) dispatch(s *scope, e effectDispatcher) (o outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			o, err = outcome{err: &HandlerError{Task: s.t.id, Panic: r}}, nil
		}
	}()
	return e.dispatchEffect(s)
}

// open pushes a frame for body on t and runs it to its first suspension.
func (in *Interpreter) open(t *Task, kind frameKind, body func() kont.Eff[any]) {
	t.push(&frame{kind: kind})
	v, next, err := startStep(t, body)
	in.settle(t, v, next, err)
}

// settle installs the next suspension of t's top frame, or, when the
// frame concluded, pops it and resumes the frame below until some frame
// suspends or the stack is empty.
func (in *Interpreter) settle(t *Task, v any, susp *kont.Suspension[any], err error) {
	for {
		if err == nil && susp != nil {
			th, ok := susp.Op().(kont.Throw[error])
			if !ok {
				t.top().susp = susp
				return
			}
			susp.Discard()
			susp, err = nil, th.Err
			if err == nil {
				err = errNilThrow
			}
			continue
		}

		f := t.pop()
		f.release()
		if len(t.frames) == 0 {
			in.finish(t, v, err)
			return
		}
		var o outcome
		switch {
		case f.kind == frameTry && err != nil:
			o.value = kont.Left[error, any](err)
		case f.kind == frameTry:
			o.value = kont.Right[error, any](v)
		default:
			o = outcome{value: v, err: err}
		}
		v, susp, err = resumeStep(t, t.top().susp, o)
	}
}

// startStep evaluates body up to its first suspension.
func startStep(t *Task, body func() kont.Eff[any]) (v any, next *kont.Suspension[any], err error) {
	defer func() {
		if r := recover(); r != nil {
			v, next, err = nil, nil, &HandlerError{Task: t.id, Panic: r}
		}
	}()
	m := body()
	if m == nil {
		return nil, nil, nil
	}
	v, next = kont.Step(m)
	return v, next, nil
}

// resumeStep resumes susp with r up to the next suspension.
func resumeStep(t *Task, susp *kont.Suspension[any], r kont.Resumed) (v any, next *kont.Suspension[any], err error) {
	defer func() {
		if rec := recover(); rec != nil {
			v, next, err = nil, nil, &HandlerError{Task: t.id, Panic: rec}
		}
	}()
	v, next = susp.Resume(r)
	return v, next, nil
}
