package rabbitmq

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRetryable(t *testing.T) {
	base := errors.New("db unreachable")

	err := Retryable(base)
	assert.True(t, IsRetryable(err))
	assert.False(t, IsDrop(err))
	assert.ErrorIs(t, err, base)

	assert.Nil(t, Retryable(nil))
}

func TestDrop(t *testing.T) {
	base := errors.New("order 42 not found")

	err := Drop(base)
	assert.True(t, IsDrop(err))
	assert.False(t, IsRetryable(err))
	assert.ErrorIs(t, err, base)

	assert.Nil(t, Drop(nil))
}

func TestMarkersSurviveWrapping(t *testing.T) {
	err := fmt.Errorf("handler: %w", Retryable(errors.New("timeout")))
	assert.True(t, IsRetryable(err))
}

func TestPlainErrorIsNeither(t *testing.T) {
	err := errors.New("malformed payload")
	assert.False(t, IsRetryable(err))
	assert.False(t, IsDrop(err))
}
