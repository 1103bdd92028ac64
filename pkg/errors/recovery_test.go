package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structscan/structscan/engine/core"
	"github.com/structscan/structscan/pkg/errors"
	"github.com/structscan/structscan/pkg/logger"
)

func TestWithRecover(t *testing.T) {
	logger.Disable()
	t.Cleanup(logger.Enable)

	t.Run("Should pass through a successful call", func(t *testing.T) {
		err := errors.WithRecover("noop", func() error { return nil })
		assert.NoError(t, err)
	})

	t.Run("Should pass through a returned error unchanged", func(t *testing.T) {
		sentinel := stderrors.New("boom")
		err := errors.WithRecover("failing", func() error { return sentinel })
		assert.ErrorIs(t, err, sentinel)
	})

	t.Run("Should convert a panic into a structured error", func(t *testing.T) {
		err := errors.WithRecover("panicking", func() error {
			panic("something went sideways")
		})
		require.Error(t, err)

		var typed *core.Error
		require.ErrorAs(t, err, &typed)
		assert.Equal(t, core.ErrorCode("PANIC_RECOVERED"), typed.Code)
		assert.Equal(t, "panicking", typed.Metadata["operation"])
		assert.Contains(t, err.Error(), "something went sideways")
	})

	t.Run("Should preserve a panicked error value", func(t *testing.T) {
		sentinel := stderrors.New("wrapped panic")
		err := errors.WithRecover("panicking", func() error {
			panic(sentinel)
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, sentinel)
	})
}

func TestWithRecoverTyped(t *testing.T) {
	logger.Disable()
	t.Cleanup(logger.Enable)

	t.Run("Should return the typed result on success", func(t *testing.T) {
		result, err := errors.WithRecoverTyped("counting", func() (int, error) {
			return 42, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 42, result)
	})

	t.Run("Should zero the result and report the panic", func(t *testing.T) {
		result, err := errors.WithRecoverTyped("panicking", func() (string, error) {
			panic("no result")
		})
		require.Error(t, err)
		assert.Empty(t, result)
	})
}
