package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"travelbook/internal/apperrors"
	"travelbook/internal/models"
	"travelbook/internal/repositories"
	"travelbook/pkg/mailer"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	msgEmailRequired        = "Email is required"
	msgEmailNotRegistered   = "Email not registered"
	msgPasswordRequired     = "Password is required"
	msgResetTokenInvalid    = "Token is invalid or expired, please try again"
	msgChangeFieldsRequired = "Old password and new password are required"
	msgInvalidOldPassword   = "Invalid old password"
	msgResetEmailFailed     = "Unable to send the reset password email, please try again later"

	resetEmailSubject = "Reset Password"
	passwordRule      = "min=8"
)

// PasswordService handles forgotten, reset and changed passwords.
type PasswordService struct {
	userRepo    repositories.UserRepository
	hasher      Hasher
	resets      ResetTokens
	mail        mailer.Sender
	frontendURL string
	validate    *validator.Validate
	events      EventPublisher
	logger      *zap.Logger
}

// NewPasswordService creates a new PasswordService. Reset links point at
// {frontendURL}/reset-password/{token}.
func NewPasswordService(
	userRepo repositories.UserRepository,
	hasher Hasher,
	resets ResetTokens,
	mail mailer.Sender,
	frontendURL string,
	validate *validator.Validate,
	events EventPublisher,
	logger *zap.Logger,
) *PasswordService {
	if events == nil {
		events = NoopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PasswordService{
		userRepo:    userRepo,
		hasher:      hasher,
		resets:      resets,
		mail:        mail,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		validate:    validate,
		events:      events,
		logger:      logger,
	}
}

// ForgotPassword stores a fresh reset token for email and mails the reset
// link. When delivery fails the stored token is rolled back.
func (s *PasswordService) ForgotPassword(ctx context.Context, email string) error {
	email = models.NormalizeEmail(email)
	if email == "" {
		return apperrors.BadRequest(msgEmailRequired)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NotFound(msgEmailNotRegistered)
		}
		return apperrors.Internal(err)
	}

	plain, hashed, expiry, err := s.resets.Generate()
	if err != nil {
		return apperrors.Internal(err)
	}
	user.SetResetToken(hashed, expiry)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return apperrors.Internal(err)
	}

	if err := s.mail.Send(ctx, user.Email, resetEmailSubject, s.resetMessage(plain)); err != nil {
		user.ClearResetToken()
		if rollbackErr := s.userRepo.Update(ctx, user); rollbackErr != nil {
			s.logger.Error("failed to roll back reset token", zap.String("user_id", user.ID), zap.Error(rollbackErr))
		}
		s.logger.Error("failed to send reset email", zap.String("user_id", user.ID), zap.Error(err))
		return apperrors.Service(err, msgResetEmailFailed)
	}

	s.publish(ctx, EventPasswordResetIssued, map[string]string{"userId": user.ID})
	return nil
}

func (s *PasswordService) resetMessage(token string) string {
	url := fmt.Sprintf("%s/reset-password/%s", s.frontendURL, token)
	return fmt.Sprintf(
		`You can reset your password by clicking <a href="%s" target="_blank">Reset your password</a><br>`+
			`If the above link does not work for some reason then copy paste this link in new tab %s.<br>`+
			`If you have not requested this, kindly ignore.`,
		url, url)
}

// ResetPassword sets newPassword on the account holding token. A wrong token
// and an expired one fail with the same message.
func (s *PasswordService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if newPassword == "" {
		return apperrors.BadRequest(msgPasswordRequired)
	}
	if err := s.validate.Var(newPassword, passwordRule); err != nil {
		return apperrors.BadRequest("Password must be at least 8 characters")
	}
	if token == "" {
		return apperrors.BadRequest(msgResetTokenInvalid)
	}

	user, err := s.userRepo.GetByResetTokenHash(ctx, s.resets.Hash(token))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.BadRequest(msgResetTokenInvalid)
		}
		return apperrors.Internal(err)
	}

	if !user.HasResetToken() || !s.resets.Validate(token, *user.ResetTokenHash, *user.ResetTokenExpiry) {
		if user.HasResetToken() {
			user.ClearResetToken()
			if err := s.userRepo.Update(ctx, user); err != nil {
				s.logger.Warn("failed to clear expired reset token", zap.String("user_id", user.ID), zap.Error(err))
			}
		}
		return apperrors.BadRequest(msgResetTokenInvalid)
	}

	if err := user.SetPassword(newPassword, s.hasher); err != nil {
		return apperrors.Internal(err)
	}
	user.ClearResetToken()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return apperrors.Internal(err)
	}

	s.logger.Info("password reset", zap.String("user_id", user.ID))
	s.publish(ctx, EventPasswordReset, map[string]string{"userId": user.ID})
	return nil
}

// ChangePassword replaces the password of userID after verifying oldPassword.
func (s *PasswordService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return apperrors.BadRequest(msgChangeFieldsRequired)
	}
	if err := s.validate.Var(newPassword, passwordRule); err != nil {
		return apperrors.BadRequest("Password must be at least 8 characters")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.BadRequest(msgUserNotFound)
		}
		return apperrors.Internal(err)
	}
	if !s.hasher.Verify(oldPassword, user.PasswordHash) {
		return apperrors.BadRequest(msgInvalidOldPassword)
	}

	if err := user.SetPassword(newPassword, s.hasher); err != nil {
		return apperrors.Internal(err)
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return apperrors.Internal(err)
	}

	s.logger.Info("password changed", zap.String("user_id", user.ID))
	s.publish(ctx, EventPasswordChanged, map[string]string{"userId": user.ID})
	return nil
}

func (s *PasswordService) publish(ctx context.Context, eventType string, data any) {
	if err := s.events.Publish(ctx, eventType, data); err != nil {
		s.logger.Warn("failed to publish event", zap.String("type", eventType), zap.Error(err))
	}
}
