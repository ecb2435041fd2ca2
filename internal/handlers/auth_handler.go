package handlers

import (
	"fmt"
	"time"

	"travelbook/internal/apperrors"
	"travelbook/internal/middleware"
	"travelbook/internal/observability"
	"travelbook/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler handles HTTP requests for accounts and sessions.
type AuthHandler struct {
	authService     *services.AuthService
	passwordService *services.PasswordService
	guard           fiber.Handler
	secureCookies   bool
	prom            *observability.Prom
	logger          *zap.Logger
}

// NewAuthHandler creates a new AuthHandler. guard protects the routes that
// need a session.
func NewAuthHandler(
	authService *services.AuthService,
	passwordService *services.PasswordService,
	guard fiber.Handler,
	secureCookies bool,
	prom *observability.Prom,
	logger *zap.Logger,
) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{
		authService:     authService,
		passwordService: passwordService,
		guard:           guard,
		secureCookies:   secureCookies,
		prom:            prom,
		logger:          logger,
	}
}

// RegisterRoutes registers the user routes with the Fiber router.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/user")
	userRoutes.Post("/register", h.HandleRegister)
	userRoutes.Post("/login", h.HandleLogin)
	userRoutes.Post("/logout", h.HandleLogout)
	userRoutes.Get("/me", h.guard, h.HandleMe)
	userRoutes.Post("/reset", h.HandleForgotPassword)
	userRoutes.Post("/reset/:resetToken", h.HandleResetPassword)
	userRoutes.Post("/change-password", h.guard, h.HandleChangePassword)
	userRoutes.Put("/update/:id", h.guard, h.HandleUpdateUser)
}

func (h *AuthHandler) setCookie(c *fiber.Ctx, d services.CookieDirective) {
	cookie := &fiber.Cookie{
		Name:     d.Name,
		Value:    d.Value,
		Path:     "/",
		HTTPOnly: true,
		Secure:   h.secureCookies,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
	if d.Clear {
		cookie.Value = ""
		cookie.Expires = time.Unix(0, 0)
	} else {
		cookie.MaxAge = int(d.MaxAge.Seconds())
	}
	c.Cookie(cookie)
}

// record counts the outcome of an authentication operation.
func (h *AuthHandler) record(operation string, err error) {
	switch {
	case err == nil:
		h.prom.RecordAuth(operation, observability.OutcomeSuccess)
	case apperrors.KindOf(err) == apperrors.KindInternal || apperrors.KindOf(err) == apperrors.KindService:
		h.prom.RecordAuth(operation, observability.OutcomeError)
	default:
		h.prom.RecordAuth(operation, observability.OutcomeRejected)
	}
}

// HandleRegister creates an account and starts a session.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req services.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	res, err := h.authService.Register(c.UserContext(), req)
	h.record("register", err)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	h.setCookie(c, h.authService.SessionCookie(res.Token))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User registered successfully",
		"user":    res.User,
	})
}

// HandleLogin verifies credentials and starts a session.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req services.LoginInput
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	res, err := h.authService.Login(c.UserContext(), req)
	h.record("login", err)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	h.setCookie(c, h.authService.SessionCookie(res.Token))
	return c.JSON(fiber.Map{
		"success": true,
		"message": "User logged in successfully",
		"user":    res.User,
		"token":   res.Token,
	})
}

// HandleLogout clears the session cookie.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	h.setCookie(c, h.authService.Logout())
	return c.JSON(fiber.Map{
		"success": true,
		"message": "User logged out successfully",
	})
}

// HandleMe returns the profile of the signed-in user.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return unauthorized(c)
	}

	profile, err := h.authService.WhoAmI(c.UserContext(), user.ID)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "User details",
		"user":    profile,
	})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// HandleForgotPassword emails a password reset link.
func (h *AuthHandler) HandleForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	err := h.passwordService.ForgotPassword(c.UserContext(), req.Email)
	h.record("forgot_password", err)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Reset password token has been sent to %s successfully", req.Email),
	})
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

// HandleResetPassword sets a new password using an emailed reset token.
func (h *AuthHandler) HandleResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	err := h.passwordService.ResetPassword(c.UserContext(), c.Params("resetToken"), req.Password)
	h.record("reset_password", err)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Password changed successfully",
	})
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// HandleChangePassword replaces the password of the signed-in user.
func (h *AuthHandler) HandleChangePassword(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return unauthorized(c)
	}
	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	err := h.passwordService.ChangePassword(c.UserContext(), user.ID, req.OldPassword, req.NewPassword)
	h.record("change_password", err)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Password changed successfully",
	})
}

// HandleUpdateUser changes the profile of the signed-in user.
func (h *AuthHandler) HandleUpdateUser(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return unauthorized(c)
	}
	var req services.UpdateUserInput
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	profile, err := h.authService.UpdateUser(c.UserContext(), user.ID, c.Params("id"), req)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "User details updated successfully",
		"user":    profile,
	})
}
