package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"travelbook/internal/apperrors"
	"travelbook/internal/repositories"
	"travelbook/internal/security"
	"travelbook/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSessionGuard_TokenExpiry(t *testing.T) {
	ctx := context.Background()
	s := newStack(time.Second)
	jane := registerJane(t, s)

	user, err := s.guard.Authenticate(ctx, jane.Token)
	require.NoError(t, err)
	assert.Equal(t, jane.User.ID, user.ID)

	s.clock.Advance(2 * time.Second)

	_, err = s.guard.Authenticate(ctx, jane.Token)
	assert.True(t, apperrors.Is(err, apperrors.KindUnauthorized))
}

func TestSessionGuard_UniformRejection(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	tokens := security.NewTokenIssuer(testSecret, time.Hour)
	guard := services.NewSessionGuard(repo, tokens, nil)

	deleted, err := tokens.Issue("deleted-user")
	require.NoError(t, err)
	foreign, err := security.NewTokenIssuer("other-secret", time.Hour).Issue("u1")
	require.NoError(t, err)

	repo.On("GetByID", mock.Anything, "deleted-user").Return(nil, repositories.ErrNotFound).Once()

	var messages []string
	for _, token := range []string{"", "garbage", foreign, deleted} {
		_, err := guard.Authenticate(ctx, token)
		require.True(t, apperrors.Is(err, apperrors.KindUnauthorized), "token %q", token)

		var appErr *apperrors.AppError
		require.True(t, errors.As(err, &appErr))
		messages = append(messages, appErr.Message)
	}
	for _, m := range messages {
		assert.Equal(t, services.MsgUnauthorized, m)
	}
	repo.AssertExpectations(t)
}

func TestSessionGuard_StoreFailureIsInternal(t *testing.T) {
	repo := new(MockUserRepository)
	tokens := security.NewTokenIssuer(testSecret, time.Hour)
	guard := services.NewSessionGuard(repo, tokens, nil)

	token, err := tokens.Issue("u1")
	require.NoError(t, err)
	repo.On("GetByID", mock.Anything, "u1").Return(nil, errors.New("connection reset")).Once()

	_, err = guard.Authenticate(context.Background(), token)
	assert.True(t, apperrors.Is(err, apperrors.KindInternal))
	repo.AssertExpectations(t)
}
