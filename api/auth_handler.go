package api

import (
	"encoding/json"
	"net/http"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/connectingdots/blog-backend/auth"
	"github.com/connectingdots/blog-backend/errs"
	"github.com/connectingdots/blog-backend/models"
)

// userStore is the slice of the user repository the handlers need.
// *database.UserRepo satisfies it; tests substitute an in-memory fake.
type userStore interface {
	FindAll() ([]models.User, error)
	FindByID(id uuid.UUID) (*models.User, error)
	FindByUsername(username string) (*models.User, error)
	FindByIdentifier(identifier string) (*models.User, error)
	UsernameOrEmailTaken(username string, email *string) (bool, error)
	Add(user *models.User) error
	Update(user *models.User) error
	UpdateLastLogin(id uuid.UUID, at time.Time) error
	Delete(id uuid.UUID) error
}

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,30}$`)
	emailPattern    = regexp.MustCompile(`^\S+@\S+\.\S+$`)
)

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	users     userStore
	tokens    *auth.TokenService
	passwords *auth.PasswordService
}

func newAuthHandler(users userStore, tokens *auth.TokenService, passwords *auth.PasswordService, isProduction bool) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()
	return authHandler{
		responder: NewResponder(logger, isProduction),
		logger:    logger,
		users:     users,
		tokens:    tokens,
		passwords: passwords,
	}
}

type registerRequest struct {
	Username string  `json:"username"`
	Email    *string `json:"email,omitempty"`
	Password string  `json:"password"`
	Role     string  `json:"role,omitempty"`
}

// register creates a new account. Username and email collisions are
// rejected with 409; the unique indexes catch the race a concurrent
// registration can slip through the pre-check.
func (h authHandler) register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		var fieldErrors []string
		if req.Username == "" || req.Password == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("username and password are required"))
			return
		}
		if !usernamePattern.MatchString(req.Username) {
			fieldErrors = append(fieldErrors, "username must be 3-30 characters and contain only letters, numbers, and underscores")
		}
		if len(req.Password) < 6 {
			fieldErrors = append(fieldErrors, "password must be at least 6 characters long")
		}
		if req.Email != nil && *req.Email != "" && !emailPattern.MatchString(*req.Email) {
			fieldErrors = append(fieldErrors, "please enter a valid email address")
		}
		role := models.RoleUser
		if req.Role != "" {
			if !models.ValidRole(req.Role) {
				fieldErrors = append(fieldErrors, "role must be one of: superadmin, admin, or user")
			} else {
				role = models.NormalizeRole(req.Role)
			}
		}
		if len(fieldErrors) > 0 {
			h.responder.WriteError(w, errs.NewValidationError(fieldErrors...))
			return
		}

		taken, err := h.users.UsernameOrEmailTaken(req.Username, req.Email)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("check existing", "user", err))
			return
		}
		if taken {
			h.responder.WriteError(w, errs.NewConflictError("user with that username or email already exists"))
			return
		}

		digest, err := h.passwords.Hash(req.Password)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		user := models.User{
			Username: req.Username,
			Email:    req.Email,
			Password: digest,
			Role:     role,
			IsActive: true,
		}
		if err := h.users.Add(&user); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "user", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, map[string]any{
			"message": "User registered successfully!",
			"user":    user.Profile(),
		})
	}
}

type loginRequest struct {
	LoginIdentifier string `json:"loginIdentifier"`
	Password        string `json:"password"`
}

// login matches the identifier against username or email. Unknown
// identifier and wrong password share one uniform rejection; inactive
// accounts get a distinct one (preserved behavior, flagged to
// stakeholders).
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		if req.LoginIdentifier == "" || req.Password == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("login identifier and password are required"))
			return
		}

		user, err := h.users.FindByIdentifier(req.LoginIdentifier)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "user", err))
			return
		}
		if user == nil {
			h.responder.WriteError(w, errs.NewInvalidCredentialsError())
			return
		}

		if !h.passwords.Compare(req.Password, user.Password) {
			h.responder.WriteError(w, errs.NewInvalidCredentialsError())
			return
		}

		if !user.IsActive {
			h.responder.WriteError(w, errs.NewInactiveAccountError())
			return
		}

		now := time.Now()
		if err := h.users.UpdateLastLogin(user.ID, now); err != nil {
			// A failed stamp should not block the login itself.
			h.logger.Error().Err(err).Str("username", user.Username).Msg("Failed to update last login")
		} else {
			user.LastLogin = &now
		}

		token, err := h.tokens.Sign(user.ID, user.Username, user.Role)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalError("error issuing token"))
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"message": "Logged in successfully",
			"token":   token,
			"user":    user.Profile(),
		})
	}
}

// validateToken re-checks the principal behind an already verified token
// still exists and is active, and returns a fresh profile.
func (h authHandler) validateToken() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := ctxGetClaims(r.Context())

		user, err := h.users.FindByID(claims.UserID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "user", err))
			return
		}
		if user == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("user not found"))
			return
		}
		if !user.IsActive {
			h.responder.WriteError(w, errs.NewInactiveAccountError())
			return
		}

		h.responder.WriteJSON(w, user.Profile())
	}
}

func (h authHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Tokens are stateless; nothing to invalidate server-side.
		h.responder.WriteJSON(w, map[string]string{"message": "Logged out successfully"})
	}
}

func (h authHandler) getProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := ctxGetClaims(r.Context())

		user, err := h.users.FindByID(claims.UserID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "user", err))
			return
		}
		if user == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("user not found"))
			return
		}

		h.responder.WriteJSON(w, map[string]any{"user": user.Profile()})
	}
}

type updateProfileRequest struct {
	Email *string `json:"email,omitempty"`
}

// updateProfile lets any authenticated principal change its own email.
// That is the whole self-service surface for now.
func (h authHandler) updateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := ctxGetClaims(r.Context())

		var req updateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		user, err := h.users.FindByID(claims.UserID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "user", err))
			return
		}
		if user == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("user not found"))
			return
		}

		if req.Email != nil && *req.Email != "" {
			if !emailPattern.MatchString(*req.Email) {
				h.responder.WriteError(w, errs.NewValidationError("please enter a valid email address"))
				return
			}
			user.Email = req.Email
		}

		if err := h.users.Update(user); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "user", err))
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"message": "Profile updated successfully",
			"user":    user.Profile(),
		})
	}
}
