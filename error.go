// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ware

import (
	"errors"
	"fmt"
)

var (
	// ErrCanceled is observed by a task at its suspension point when the
	// task or one of its ancestors is canceled. A top-level dispatch that
	// is canceled settles its [Future] with ErrCanceled.
	ErrCanceled = errors.New("ware: task canceled")

	// ErrChannelClosed is raised by [Put] on a closed channel.
	ErrChannelClosed = errors.New("ware: put on closed channel")

	// ErrCallback wraps the error a [Callback] completion reported.
	ErrCallback = errors.New("ware: callback failed")

	// ErrNilTask is raised by [Join] and [Cancel] when given a nil task.
	ErrNilTask = errors.New("ware: nil task")

	errNilThrow = errors.New("ware: nil error thrown")
)

// HandlerError reports a panic recovered while stepping a handler.
type HandlerError struct {
	Task  Serial
	Panic any
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("ware: handler panic in task %d: %v", e.Task, e.Panic)
}

// Unwrap returns the panic value when it is an error.
func (e *HandlerError) Unwrap() error {
	err, _ := e.Panic.(error)
	return err
}

// JoinError is raised in a joiner when the joined task failed.
type JoinError struct {
	Task Serial
	Err  error
}

func (e *JoinError) Error() string {
	return fmt.Sprintf("ware: joined task %d failed: %v", e.Task, e.Err)
}

func (e *JoinError) Unwrap() error { return e.Err }

// callbackError wraps a non-nil completion error from a [Callback].
func callbackError(err error) error {
	return fmt.Errorf("%w: %w", ErrCallback, err)
}
