package apperrors_test

import (
	"errors"
	"fmt"
	"testing"

	"travelbook/internal/apperrors"

	"github.com/stretchr/testify/assert"
)

func TestAppError_KindSurvivesWrapping(t *testing.T) {
	cause := errors.New("smtp: connection refused")
	err := fmt.Errorf("forgot password: %w", apperrors.Service(cause, "Unable to send reset email"))

	assert.True(t, apperrors.Is(err, apperrors.KindService))
	assert.Equal(t, apperrors.KindService, apperrors.KindOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "smtp: connection refused")
}

func TestAppError_PlainErrorIsInternal(t *testing.T) {
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(errors.New("boom")))
	assert.False(t, apperrors.Is(errors.New("boom"), apperrors.KindNotFound))
}

func TestAppError_ErrorString(t *testing.T) {
	assert.Equal(t, "conflict: Email already exists", apperrors.Conflict("Email already exists").Error())
}
