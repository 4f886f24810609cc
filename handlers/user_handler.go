package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dfi-sistemas/legajosbackend/config"
	"github.com/dfi-sistemas/legajosbackend/models"
	"github.com/dfi-sistemas/legajosbackend/repository"
)

// UserHandler serves the admin user-management endpoints.
type UserHandler struct {
	UserRepo repository.UserRepository
	Cfg      config.Config
	Logger   *zap.SugaredLogger
}

func NewUserHandler(userRepo repository.UserRepository, cfg config.Config, logger *zap.SugaredLogger) *UserHandler {
	return &UserHandler{UserRepo: userRepo, Cfg: cfg, Logger: logger}
}

type UserCreatePayload struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=admin operator consultant"`
}

type UserUpdatePayload struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8"`
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=admin operator consultant"`
	Active   *bool   `json:"active,omitempty"`
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserRepo.ListAll()
	if err != nil {
		h.Logger.Errorw("failed to list users", "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to retrieve users")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	user, err := h.UserRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, CodeNotFound, "User not found")
		} else {
			h.Logger.Errorw("failed to get user", "user_id", userID, "error", err)
			WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to retrieve user")
		}
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var payload UserCreatePayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	user := &models.User{
		Name:   payload.Name,
		Email:  strings.ToLower(strings.TrimSpace(payload.Email)),
		Role:   models.Role(payload.Role),
		Active: true,
	}
	if err := user.SetPassword(payload.Password, h.Cfg.BcryptCost); err != nil {
		h.Logger.Errorw("failed to hash password", "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to hash password")
		return
	}

	if err := h.UserRepo.Create(user); err != nil {
		if isUniqueViolation(err) {
			WriteAPIError(w, http.StatusConflict, CodeConflict, "A user with that email already exists")
			return
		}
		h.Logger.Errorw("failed to create user", "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to create user")
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var payload UserUpdatePayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	user, err := h.UserRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, CodeNotFound, "User not found")
		} else {
			h.Logger.Errorw("failed to load user for update", "user_id", userID, "error", err)
			WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to retrieve user")
		}
		return
	}

	if payload.Name != nil {
		user.Name = *payload.Name
	}
	if payload.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*payload.Email))
	}
	if payload.Role != nil {
		user.Role = models.Role(*payload.Role)
	}
	if payload.Active != nil {
		if !*payload.Active && user.ID == UserFromContext(r.Context()).ID {
			WriteAPIError(w, http.StatusBadRequest, CodeBadRequest, "You cannot deactivate your own account")
			return
		}
		user.Active = *payload.Active
	}
	if payload.Password != nil && *payload.Password != "" {
		if err := user.SetPassword(*payload.Password, h.Cfg.BcryptCost); err != nil {
			h.Logger.Errorw("failed to hash password", "user_id", userID, "error", err)
			WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to set new password")
			return
		}
	}

	if err := h.UserRepo.Update(user); err != nil {
		if isUniqueViolation(err) {
			WriteAPIError(w, http.StatusConflict, CodeConflict, "A user with that email already exists")
			return
		}
		h.Logger.Errorw("failed to update user", "user_id", userID, "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to update user")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// DeleteUser removes a user account. Self-deletion is blocked even for
// administrators.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	if current := UserFromContext(r.Context()); current != nil && current.ID == userID {
		WriteAPIError(w, http.StatusBadRequest, CodeBadRequest, "You cannot delete your own account")
		return
	}

	if _, err := h.UserRepo.GetByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, CodeNotFound, "User not found")
			return
		}
		h.Logger.Errorw("failed to check user before delete", "user_id", userID, "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to check user before delete")
		return
	}

	if err := h.UserRepo.Delete(userID); err != nil {
		h.Logger.Errorw("failed to delete user", "user_id", userID, "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to delete user")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseIDParam reads a numeric chi URL parameter, writing the 400 itself.
func parseIDParam(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	idStr := chi.URLParam(r, name)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, CodeBadRequest, "Invalid "+name+" format")
		return 0, false
	}
	return uint(id), true
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique")
}
