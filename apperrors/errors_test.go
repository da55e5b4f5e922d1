package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfSurvivesWrapping(t *testing.T) {
	base := NotFound("Product with ID %s not found", "abc")
	wrapped := fmt.Errorf("load cart: %w", base)

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsConflict(wrapped))
	assert.Equal(t, "Product with ID abc not found", Message(wrapped))
}

func TestErrorsIsMatchesSentinelByKind(t *testing.T) {
	err := Conflict("Category name already exists")

	assert.True(t, errors.Is(err, ErrConflict))
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestUnclassifiedErrors(t *testing.T) {
	err := errors.New("connection reset")

	assert.Equal(t, KindUnknown, KindOf(err))
	assert.Empty(t, Message(err))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("E11000 duplicate key")
	err := Wrap(KindConflict, cause, "Email already registered")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Email already registered: E11000 duplicate key", err.Error())
	assert.Equal(t, "conflict", err.Kind.String())
}
