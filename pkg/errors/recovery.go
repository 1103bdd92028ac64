package errors

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/structscan/structscan/engine/core"
	"github.com/structscan/structscan/pkg/logger"
)

// panicToError converts a recovered panic value into an error
func panicToError(r any) error {
	switch v := r.(type) {
	case error:
		return v
	case string:
		return errors.New(v)
	default:
		return fmt.Errorf("panic: %v", v)
	}
}

// WithRecover executes a function with panic recovery. A panic anywhere in
// the analysis pipeline becomes a structured error instead of crashing the
// process mid-run.
func WithRecover(operation string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := string(debug.Stack())
			logger.Error("panic recovered",
				"operation", operation,
				"panic", r,
				"stack", stack,
			)
			err = core.NewError(panicToError(r), "PANIC_RECOVERED", map[string]any{
				"operation": operation,
			})
		}
	}()
	return fn()
}

// WithRecoverTyped executes a function with panic recovery and returns a
// typed result alongside the error.
func WithRecoverTyped[T any](operation string, fn func() (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := string(debug.Stack())
			logger.Error("panic recovered",
				"operation", operation,
				"panic", r,
				"stack", stack,
			)
			err = core.NewError(panicToError(r), "PANIC_RECOVERED", map[string]any{
				"operation": operation,
			})
		}
	}()
	return fn()
}
