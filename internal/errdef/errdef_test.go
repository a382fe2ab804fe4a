package errdef_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/rsvp-platform/event-manager/internal/errdef"

	"github.com/stretchr/testify/assert"
)

func TestIsForbidden(t *testing.T) {
	assert.False(t, errdef.IsForbidden(errors.New("some error")))
	assert.True(t, errdef.IsForbidden(errdef.NewForbidden("some error")))
}

func TestIsBadRequest(t *testing.T) {
	assert.False(t, errdef.IsBadRequest(errors.New("some error")))
	assert.True(t, errdef.IsBadRequest(errdef.NewBadRequest("some error")))
	assert.True(t, errdef.IsBadRequest(errdef.NewFieldBadRequest("emails", "some error")))
}

func TestField(t *testing.T) {
	assert.Empty(t, errdef.Field(errors.New("some error")))
	assert.Empty(t, errdef.Field(errdef.NewBadRequest("some error")))

	err := fmt.Errorf("wrapped: %w", errdef.NewFieldBadRequest("description", "too long"))
	assert.Equal(t, "description", errdef.Field(err))
	assert.Equal(t, "wrapped: too long", err.Error())
}

func TestIsDuplicate(t *testing.T) {
	assert.False(t, errdef.IsDuplicated(errors.New("some error")))
	assert.True(t, errdef.IsDuplicated(errdef.NewDuplicated("some error")))
}

func TestIsUnauthorized(t *testing.T) {
	assert.False(t, errdef.IsUnauthorized(errors.New("some error")))
	assert.True(t, errdef.IsUnauthorized(errdef.NewUnauthorized("some error")))
}

func TestIsNotFound(t *testing.T) {
	assert.False(t, errdef.IsNotFound(errors.New("some error")))
	assert.True(t, errdef.IsNotFound(errdef.NewNotFound("some error")))
}

func TestIsConflict(t *testing.T) {
	assert.False(t, errdef.IsConflict(errors.New("some error")))
	assert.True(t, errdef.IsConflict(errdef.NewConflict("some error")))
}

func TestIsUnsupportedMediaType(t *testing.T) {
	assert.False(t, errdef.IsUnsupportedMediaType(errors.New("some error")))
	assert.True(t, errdef.IsUnsupportedMediaType(errdef.NewUnsupportedMediaType("some error")))
}

func TestUnwrap(t *testing.T) {
	sentinel := errors.New("monthly event limit reached")

	err := errdef.NewBadRequest("%w: up to 5 private events", sentinel)

	assert.ErrorIs(t, err, sentinel)
	assert.ErrorIs(t, errdef.NewNotFound("%w", sentinel), sentinel)
}
