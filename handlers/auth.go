package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/dfi-sistemas/legajosbackend/config"
	"github.com/dfi-sistemas/legajosbackend/models"
	"github.com/dfi-sistemas/legajosbackend/repository"
)

type AuthHandler struct {
	UserRepo repository.UserRepository
	Cfg      config.Config
	Logger   *zap.SugaredLogger
}

func NewAuthHandler(userRepo repository.UserRepository, cfg config.Config, logger *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{UserRepo: userRepo, Cfg: cfg, Logger: logger}
}

type LoginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	User      models.User `json:"user"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// Login verifies credentials and issues a signed token. A wrong password and
// a deactivated account produce the same 401 so callers can't probe which
// addresses exist.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	user, err := h.UserRepo.GetByEmail(payload.Email)
	if err != nil || !user.Active || !user.CheckPassword(payload.Password) {
		WriteAPIError(w, http.StatusUnauthorized, CodeUnauthorized, "Invalid email or password")
		return
	}

	expirationTime := time.Now().Add(time.Duration(h.Cfg.TokenExpiryHrs) * time.Hour)
	claims := &jwt.RegisteredClaims{
		Subject:   fmt.Sprint(user.ID),
		ExpiresAt: jwt.NewNumericDate(expirationTime),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		Issuer:    "legajosbackend",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(h.Cfg.JWTSecret))
	if err != nil {
		h.Logger.Errorw("failed to sign token", "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to generate token")
		return
	}

	if err := h.UserRepo.TouchLastLogin(user.ID); err != nil {
		h.Logger.Warnw("failed to record last login", "user_id", user.ID, "error", err)
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Token:     tokenString,
		User:      *user,
		ExpiresAt: expirationTime,
	})
}

// CurrentUser returns the authenticated user from the request context.
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Could not retrieve user from context")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type ChangePasswordPayload struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// ChangePassword lets the authenticated user rotate their own password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Could not retrieve user from context")
		return
	}

	var payload ChangePasswordPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	if !user.CheckPassword(payload.CurrentPassword) {
		WriteAPIError(w, http.StatusUnauthorized, CodeUnauthorized, "Current password is incorrect")
		return
	}

	if err := user.SetPassword(payload.NewPassword, h.Cfg.BcryptCost); err != nil {
		h.Logger.Errorw("failed to hash password", "user_id", user.ID, "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to update password")
		return
	}
	if err := h.UserRepo.Update(user); err != nil {
		h.Logger.Errorw("failed to persist password change", "user_id", user.ID, "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to update password")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated"})
}
