package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NewOrderNotFound("x")))
	assert.Equal(t, KindConflict, KindOf(fmt.Errorf("wrapped: %w", NewDuplicateResource("Category", "name", "Books"))))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindTimeout, KindOf(NewStoreError(KindTimeout, CodeStoreTimeout, "get", errors.New("i/o timeout"))))
}

func TestError_IsMatchesByCode(t *testing.T) {
	err := NewInvalidTransition(StatusDelivered, StatusPending)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.NotErrorIs(t, err, ErrOrderNotCancellable)
	assert.Equal(t, "Cannot change order status from Delivered to Pending", err.Message)
	assert.Equal(t, "Delivered", err.Details["currentStatus"])
}

func TestError_UnwrapKeepsCause(t *testing.T) {
	cause := errors.New("duplicate key")
	err := NewOrderNumberCollision("ORD-20240101000000-1234", cause)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrOrderNumberCollision)
}
