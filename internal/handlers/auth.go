package handlers

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/anonto42/pulse/backend/internal/models"
	"github.com/anonto42/pulse/backend/internal/services"
	"github.com/anonto42/pulse/backend/pkg/firebase"
	"github.com/anonto42/pulse/backend/pkg/logger"
	"github.com/anonto42/pulse/backend/pkg/session"
)

// IdentityVerifier checks an ID token issued by the external identity provider.
type IdentityVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*firebase.Identity, error)
}

// AuthHandler exchanges provider ID tokens for session tokens
type AuthHandler struct {
	verifier IdentityVerifier
	users    *services.UserService
	sessions *session.Manager
	validate *validator.Validate
}

// NewAuthHandler creates a new AuthHandler. A nil verifier disables login.
func NewAuthHandler(verifier IdentityVerifier, users *services.UserService, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{
		verifier: verifier,
		users:    users,
		sessions: sessions,
		validate: validator.New(),
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/firebase-login", h.FirebaseLogin)
}

// FirebaseLogin verifies a Firebase ID token, provisions the user on first
// sight and issues a session token.
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	if h.verifier == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Identity provider is not configured")
	}

	var req models.FirebaseLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := h.validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	identity, err := h.verifier.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		logger.Logger.Info("firebase token rejected", zap.Error(err))
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
	}

	user, created, err := h.users.SyncUser(ctx, models.Identity{
		UID:               identity.UID,
		Email:             identity.Email,
		Name:              identity.Name,
		AvatarURL:         identity.Picture,
		RequestedUsername: req.Username,
	})
	if err != nil {
		return httpError(err)
	}

	token, expiresAt, err := h.sessions.Issue(user.ID, identity.UID)
	if err != nil {
		logger.Logger.Error("failed to issue session token", zap.Uint("user_id", user.ID), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return respond(c, status, echo.Map{
		"token":      token,
		"expires_at": expiresAt,
		"user":       user.ToCompact(),
		"created":    created,
	})
}
