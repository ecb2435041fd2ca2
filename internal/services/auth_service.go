package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"travelbook/internal/apperrors"
	"travelbook/internal/models"
	"travelbook/internal/repositories"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// SessionCookieName is the cookie the session token travels in.
const SessionCookieName = "token"

const (
	msgAllFieldsRequired = "All fields are required"
	msgEmailExists       = "Email already exists"
	msgLoginRequired     = "Email and Password are required"
	msgLoginFailed       = "Email or Password do not match or user does not exist"
	msgUserNotFound      = "Invalid user id or user does not exist"
)

// RegisterInput is the payload of a registration.
type RegisterInput struct {
	FullName    string `json:"fullName" validate:"required,min=5,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	PhoneNumber string `json:"phoneNumber" validate:"required,phone_in"`
}

// LoginInput is the payload of a login.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserInput carries the profile fields to change. Empty fields are left untouched.
type UpdateUserInput struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User  models.UserProfile
	Token string
}

// CookieDirective tells the HTTP layer how to set or clear the session cookie.
type CookieDirective struct {
	Name   string
	Value  string
	MaxAge time.Duration
	// Clear expires the cookie immediately.
	Clear bool
}

// AuthService handles registration, login and the account profile.
type AuthService struct {
	userRepo repositories.UserRepository
	hasher   Hasher
	tokens   TokenIssuer
	validate *validator.Validate
	events   EventPublisher
	logger   *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	userRepo repositories.UserRepository,
	hasher Hasher,
	tokens TokenIssuer,
	validate *validator.Validate,
	events EventPublisher,
	logger *zap.Logger,
) *AuthService {
	if events == nil {
		events = NoopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		validate: validate,
		events:   events,
		logger:   logger,
	}
}

// Register creates an account and signs the new user in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = models.NormalizeEmail(in.Email)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	if in.FullName == "" || in.Email == "" || in.Password == "" || in.PhoneNumber == "" {
		return nil, apperrors.BadRequest(msgAllFieldsRequired)
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err, "Invalid registration details")
	}

	_, err := s.userRepo.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, apperrors.Conflict(msgEmailExists)
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, apperrors.Internal(err)
	}

	user := &models.User{
		FullName:    in.FullName,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
	}
	user.Normalize()
	if err := user.SetPassword(in.Password, s.hasher); err != nil {
		return nil, apperrors.Internal(err)
	}

	// The unique index catches registrations that raced past the check above.
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, apperrors.Conflict(msgEmailExists)
		}
		return nil, apperrors.Internal(err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID))
	s.publish(ctx, EventUserRegistered, map[string]string{"userId": user.ID, "email": user.Email})

	return &AuthResult{User: user.Profile(), Token: token}, nil
}

// Login verifies the credentials and issues a session token. Unknown email and
// wrong password fail with the same message.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	email := models.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, apperrors.BadRequest(msgLoginRequired)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.Unauthorized(msgLoginFailed)
		}
		return nil, apperrors.Internal(err)
	}
	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		return nil, apperrors.Unauthorized(msgLoginFailed)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &AuthResult{User: user.Profile(), Token: token}, nil
}

// SessionCookie describes the cookie that carries token.
func (s *AuthService) SessionCookie(token string) CookieDirective {
	return CookieDirective{Name: SessionCookieName, Value: token, MaxAge: s.tokens.Lifetime()}
}

// Logout clears the client's session cookie. Tokens are stateless, so one
// issued before logout stays valid until it expires.
func (s *AuthService) Logout() CookieDirective {
	return CookieDirective{Name: SessionCookieName, Clear: true}
}

// WhoAmI returns the public profile of userID.
func (s *AuthService) WhoAmI(ctx context.Context, userID string) (*models.UserProfile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound(msgUserNotFound)
		}
		return nil, apperrors.Internal(err)
	}
	profile := user.Profile()
	return &profile, nil
}

// UpdateUser changes the profile of targetID. Only the account owner may do so.
func (s *AuthService) UpdateUser(ctx context.Context, actorID, targetID string, in UpdateUserInput) (*models.UserProfile, error) {
	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound(msgUserNotFound)
		}
		return nil, apperrors.Internal(err)
	}
	if actorID != user.ID {
		return nil, apperrors.Forbidden("You can only update your own account")
	}

	if v := strings.TrimSpace(in.FullName); v != "" {
		user.FullName = v
	}
	if v := strings.TrimSpace(in.Email); v != "" {
		user.Email = v
	}
	if v := strings.TrimSpace(in.PhoneNumber); v != "" {
		user.PhoneNumber = v
	}
	user.Normalize()
	if err := s.validate.Struct(user); err != nil {
		return nil, validationError(err, "Invalid user details")
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repositories.ErrDuplicateKey):
			return nil, apperrors.Conflict(msgEmailExists)
		case errors.Is(err, repositories.ErrNotFound):
			return nil, apperrors.NotFound(msgUserNotFound)
		}
		return nil, apperrors.Internal(err)
	}

	s.publish(ctx, EventUserUpdated, map[string]string{"userId": user.ID})
	profile := user.Profile()
	return &profile, nil
}

func (s *AuthService) publish(ctx context.Context, eventType string, data any) {
	if err := s.events.Publish(ctx, eventType, data); err != nil {
		s.logger.Warn("failed to publish event", zap.String("type", eventType), zap.Error(err))
	}
}
