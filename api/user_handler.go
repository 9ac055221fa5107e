package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/connectingdots/blog-backend/auth"
	"github.com/connectingdots/blog-backend/errs"
	"github.com/connectingdots/blog-backend/models"
)

type userHandler struct {
	responder Responder
	logger    zerolog.Logger
	users     userStore
}

func newUserHandler(users userStore, isProduction bool) userHandler {
	logger := log.With().Str("handlerName", "userHandler").Logger()
	return userHandler{
		responder: NewResponder(logger, isProduction),
		logger:    logger,
		users:     users,
	}
}

// listUsers returns every account as a profile, admin/superadmin only.
func (h userHandler) listUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := ctxGetClaims(r.Context())
		if err := auth.RequireAdmin(claims); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		users, err := h.users.FindAll()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "users", err))
			return
		}

		profiles := make([]models.Profile, 0, len(users))
		for _, u := range users {
			profiles = append(profiles, u.Profile())
		}

		h.logger.Info().Str("admin", claims.Username).Int("count", len(profiles)).Msg("Fetched all users")
		h.responder.WriteJSON(w, profiles)
	}
}

func (h userHandler) getUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := ctxGetClaims(r.Context())
		if err := auth.RequireAdmin(claims); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		userID, apiErr := parseUserID(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		user, err := h.users.FindByID(userID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "user", err))
			return
		}
		if user == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("user not found"))
			return
		}

		h.responder.WriteJSON(w, user.Profile())
	}
}

type updateUserRequest struct {
	Username string  `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Role     string  `json:"role,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

// updateUser applies an admin patch to the target account, subject to the
// protected-account and promotion rules of the authorization gate.
func (h userHandler) updateUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := ctxGetClaims(r.Context())

		userID, apiErr := parseUserID(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		var req updateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		user, err := h.users.FindByID(userID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "user", err))
			return
		}
		if user == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("user not found"))
			return
		}

		if err := auth.CheckUserUpdate(claims, *user, req.Username, req.Role); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var fieldErrors []string
		if req.Username != "" && !usernamePattern.MatchString(req.Username) {
			fieldErrors = append(fieldErrors, "username must be 3-30 characters and contain only letters, numbers, and underscores")
		}
		if req.Role != "" && !models.ValidRole(req.Role) {
			fieldErrors = append(fieldErrors, "role must be one of: superadmin, admin, or user")
		}
		if req.Email != nil && *req.Email != "" && !emailPattern.MatchString(*req.Email) {
			fieldErrors = append(fieldErrors, "please enter a valid email address")
		}
		if len(fieldErrors) > 0 {
			h.responder.WriteError(w, errs.NewValidationError(fieldErrors...))
			return
		}

		if req.Username != "" {
			user.Username = req.Username
		}
		if req.Email != nil {
			user.Email = req.Email
		}
		if req.Role != "" {
			user.Role = models.NormalizeRole(req.Role)
		}
		if req.IsActive != nil {
			user.IsActive = *req.IsActive
		}

		if err := h.users.Update(user); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "user", err))
			return
		}

		h.logger.Info().Str("user", user.Username).Str("updatedBy", claims.Username).Msg("User updated")
		h.responder.WriteJSON(w, map[string]any{
			"message": "User updated successfully",
			"user":    user.Profile(),
		})
	}
}

// deleteUser removes the target account, subject to the protected-account,
// self-deletion and superadmin rules of the authorization gate.
func (h userHandler) deleteUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := ctxGetClaims(r.Context())

		userID, apiErr := parseUserID(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		user, err := h.users.FindByID(userID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "user", err))
			return
		}
		if user == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("user not found"))
			return
		}

		if err := auth.CheckUserDelete(claims, *user); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.users.Delete(userID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "user", err))
			return
		}

		h.logger.Info().Str("user", user.Username).Str("deletedBy", claims.Username).Msg("User deleted")
		h.responder.WriteJSON(w, map[string]any{
			"message": fmt.Sprintf("User %q deleted successfully", user.Username),
			"deletedUser": map[string]any{
				"id":       user.ID,
				"username": user.Username,
				"role":     user.Role,
			},
		})
	}
}

func parseUserID(r *http.Request) (uuid.UUID, *errs.ApiErr) {
	idStr := chi.URLParam(r, "userID")
	if idStr == "" {
		return uuid.Nil, errs.NewBadRequestError("missing userID")
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, errs.NewBadRequestError("invalid user ID format")
	}
	return id, nil
}
