package services_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"travelbook/internal/apperrors"
	"travelbook/internal/models"
	"travelbook/internal/repositories"
	"travelbook/internal/security"
	"travelbook/internal/services"
	"travelbook/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var resetLink = regexp.MustCompile(`http://localhost:5173/reset-password/([0-9a-f]{40})`)

func tokenFromMail(t *testing.T, body string) string {
	t.Helper()
	m := resetLink.FindStringSubmatch(body)
	require.Len(t, m, 2, "reset link not found in %q", body)
	return m[1]
}

func registerJane(t *testing.T, s *stack) *services.AuthResult {
	t.Helper()
	res, err := s.auth.Register(context.Background(), validRegistration("jane@example.com"))
	require.NoError(t, err)
	return res
}

func TestPasswordService_ForgotThenReset(t *testing.T) {
	ctx := context.Background()
	s := newStack(time.Hour)
	jane := registerJane(t, s)

	require.NoError(t, s.password.ForgotPassword(ctx, "Jane@Example.com"))

	mail := s.mail.last()
	assert.Equal(t, "jane@example.com", mail.To)
	assert.Equal(t, "Reset Password", mail.Subject)
	token := tokenFromMail(t, mail.Body)

	stored, err := s.users.GetByID(ctx, jane.User.ID)
	require.NoError(t, err)
	require.True(t, stored.HasResetToken())
	assert.NotEqual(t, token, *stored.ResetTokenHash)

	require.NoError(t, s.password.ResetPassword(ctx, token, "brand-new-password"))

	stored, err = s.users.GetByID(ctx, jane.User.ID)
	require.NoError(t, err)
	assert.False(t, stored.HasResetToken())
	assert.False(t, s.hasher.Verify("password123", stored.PasswordHash))
	assert.True(t, s.hasher.Verify("brand-new-password", stored.PasswordHash))

	_, err = s.auth.Login(ctx, services.LoginInput{Email: "jane@example.com", Password: "brand-new-password"})
	assert.NoError(t, err)

	// Tokens are single use.
	err = s.password.ResetPassword(ctx, token, "another-password")
	assert.True(t, apperrors.Is(err, apperrors.KindBadRequest))
}

func TestPasswordService_ResetAfterExpiry(t *testing.T) {
	ctx := context.Background()
	s := newStack(time.Hour)
	jane := registerJane(t, s)

	require.NoError(t, s.password.ForgotPassword(ctx, "jane@example.com"))
	token := tokenFromMail(t, s.mail.last().Body)

	s.clock.Advance(16 * time.Minute)

	err := s.password.ResetPassword(ctx, token, "brand-new-password")
	require.True(t, apperrors.Is(err, apperrors.KindBadRequest))
	assert.Contains(t, err.Error(), "Token is invalid or expired, please try again")

	stored, err := s.users.GetByID(ctx, jane.User.ID)
	require.NoError(t, err)
	assert.True(t, s.hasher.Verify("password123", stored.PasswordHash))
	assert.False(t, stored.HasResetToken(), "expired token should be cleared")
}

func TestPasswordService_WrongAndExpiredTokenLookAlike(t *testing.T) {
	ctx := context.Background()
	s := newStack(time.Hour)
	registerJane(t, s)

	require.NoError(t, s.password.ForgotPassword(ctx, "jane@example.com"))
	token := tokenFromMail(t, s.mail.last().Body)

	wrong := s.password.ResetPassword(ctx, "0000000000000000000000000000000000000000", "brand-new-password")
	s.clock.Advance(16 * time.Minute)
	expired := s.password.ResetPassword(ctx, token, "brand-new-password")

	require.Error(t, wrong)
	require.Error(t, expired)
	assert.Equal(t, wrong.Error(), expired.Error())
}

func TestPasswordService_ForgotPasswordNewTokenSupersedesOld(t *testing.T) {
	ctx := context.Background()
	s := newStack(time.Hour)
	registerJane(t, s)

	require.NoError(t, s.password.ForgotPassword(ctx, "jane@example.com"))
	first := tokenFromMail(t, s.mail.last().Body)
	require.NoError(t, s.password.ForgotPassword(ctx, "jane@example.com"))
	second := tokenFromMail(t, s.mail.last().Body)
	require.NotEqual(t, first, second)

	assert.Error(t, s.password.ResetPassword(ctx, first, "brand-new-password"))
	assert.NoError(t, s.password.ResetPassword(ctx, second, "brand-new-password"))
}

func TestPasswordService_ForgotPasswordValidation(t *testing.T) {
	s := newStack(time.Hour)

	err := s.password.ForgotPassword(context.Background(), "  ")
	assert.True(t, apperrors.Is(err, apperrors.KindBadRequest))

	err = s.password.ForgotPassword(context.Background(), "nobody@example.com")
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestPasswordService_ForgotPasswordSendFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	sender := new(MockSender)
	service := services.NewPasswordService(
		repo,
		security.NewPasswordHasher(bcrypt.MinCost),
		security.NewResetTokenManager(security.DefaultResetTokenTTL),
		sender,
		"http://localhost:5173/",
		validation.New(),
		nil,
		nil,
	)

	user := &models.User{ID: "u1", Email: "jane@example.com"}
	var tokenSet, tokenCleared bool
	repo.On("GetByEmail", mock.Anything, "jane@example.com").Return(user, nil).Once()
	repo.On("Update", mock.Anything, user).Run(func(args mock.Arguments) {
		u := args.Get(1).(*models.User)
		if u.HasResetToken() {
			tokenSet = true
		} else {
			tokenCleared = true
		}
	}).Return(nil).Twice()
	sender.On("Send", mock.Anything, "jane@example.com", "Reset Password", mock.MatchedBy(func(body string) bool {
		return resetLink.MatchString(body)
	})).Return(errors.New("smtp: 535 authentication failed")).Once()

	err := service.ForgotPassword(ctx, "jane@example.com")
	require.True(t, apperrors.Is(err, apperrors.KindService))

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.NotContains(t, appErr.Message, "535")
	assert.EqualError(t, errors.Unwrap(err), "smtp: 535 authentication failed")

	assert.True(t, tokenSet)
	assert.True(t, tokenCleared)
	assert.False(t, user.HasResetToken())
	repo.AssertExpectations(t)
	sender.AssertExpectations(t)
}

func TestPasswordService_ResetPasswordValidation(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	service := services.NewPasswordService(repo, security.NewPasswordHasher(bcrypt.MinCost),
		security.NewResetTokenManager(0), new(MockSender), "http://localhost:5173", validation.New(), nil, nil)

	err := service.ResetPassword(ctx, "sometoken", "")
	assert.True(t, apperrors.Is(err, apperrors.KindBadRequest))
	assert.Contains(t, err.Error(), "Password is required")

	err = service.ResetPassword(ctx, "sometoken", "short")
	assert.True(t, apperrors.Is(err, apperrors.KindBadRequest))

	repo.On("GetByResetTokenHash", mock.Anything, mock.Anything).Return(nil, repositories.ErrNotFound).Once()
	err = service.ResetPassword(ctx, "unknown", "long-enough-password")
	assert.True(t, apperrors.Is(err, apperrors.KindBadRequest))
	repo.AssertExpectations(t)
}

func TestPasswordService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	s := newStack(time.Hour)
	jane := registerJane(t, s)

	require.NoError(t, s.password.ChangePassword(ctx, jane.User.ID, "password123", "changed-password"))

	_, err := s.auth.Login(ctx, services.LoginInput{Email: "jane@example.com", Password: "changed-password"})
	assert.NoError(t, err)
	_, err = s.auth.Login(ctx, services.LoginInput{Email: "jane@example.com", Password: "password123"})
	assert.True(t, apperrors.Is(err, apperrors.KindUnauthorized))
	assert.Contains(t, s.events.Types(), services.EventPasswordChanged)
}

func TestPasswordService_ChangePasswordFailures(t *testing.T) {
	ctx := context.Background()
	s := newStack(time.Hour)
	jane := registerJane(t, s)

	err := s.password.ChangePassword(ctx, jane.User.ID, "", "changed-password")
	assert.True(t, apperrors.Is(err, apperrors.KindBadRequest))

	err = s.password.ChangePassword(ctx, jane.User.ID, "wrong-password", "changed-password")
	require.True(t, apperrors.Is(err, apperrors.KindBadRequest))
	assert.Contains(t, err.Error(), "Invalid old password")

	err = s.password.ChangePassword(ctx, "missing", "password123", "changed-password")
	assert.True(t, apperrors.Is(err, apperrors.KindBadRequest))

	stored, err := s.users.GetByID(ctx, jane.User.ID)
	require.NoError(t, err)
	assert.True(t, s.hasher.Verify("password123", stored.PasswordHash))
}
