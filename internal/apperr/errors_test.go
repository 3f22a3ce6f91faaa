package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_MatchesKindAndKeepsMessage(t *testing.T) {
	err := Forbidden("not authorized to update this booking")

	assert.ErrorIs(t, err, ErrForbidden)
	assert.NotErrorIs(t, err, ErrConflict)
	assert.Equal(t, "not authorized to update this booking", err.Error())
}

func TestNew_SurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("decide booking: %w", Conflict("booking is no longer pending"))

	assert.True(t, errors.Is(err, ErrConflict))

	var appErr *Error
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, "booking is no longer pending", appErr.Msg)
}
