package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"inventory-tracker/internal/domain"
	"inventory-tracker/internal/middleware"
	"inventory-tracker/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DefaultKeepAlive is the comment interval on idle event streams
const DefaultKeepAlive = 25 * time.Second

// SignUpRequest represents the sign-up request payload
type SignUpRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
}

// SignInRequest represents the sign-in request payload
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents the token refresh request payload
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// SignOutRequest names the session to end; an empty token ends all of them
type SignOutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// SignInResponse represents the sign-in response
type SignInResponse struct {
	service.TokenPair
	User UserProfile `json:"user"`
}

// UserProfile represents user profile data
type UserProfile struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

func newUserProfile(user *domain.User) UserProfile {
	return UserProfile{
		ID:        user.ID.String(),
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
	}
}

// AuthHandler handles HTTP requests for accounts and sessions
type AuthHandler struct {
	authService service.AuthService
	logger      *zap.Logger
	keepAlive   time.Duration
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
		keepAlive:   DefaultKeepAlive,
	}
}

// RegisterRoutes registers all auth routes. limit guards the credential
// endpoints.
func (h *AuthHandler) RegisterRoutes(r chi.Router, authMiddleware, limit func(http.Handler) http.Handler) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(limit)
			r.Post("/signup", h.SignUp)
			r.Post("/signin", h.SignIn)
			r.Post("/refresh", h.Refresh)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/signout", h.SignOut)
			r.Get("/me", h.Me)
			r.Get("/session", h.Session)
			r.Get("/events", h.Events)
		})
	})
}

// SignUp handles account creation
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Sign-up validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}

	user, err := h.authService.SignUp(r.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to sign up")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, newUserProfile(user))
}

// SignIn handles user authentication
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Sign-in validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}

	pair, user, err := h.authService.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to sign in")
		return
	}

	h.logger.Info("User signed in", zap.String("user_id", user.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, SignInResponse{TokenPair: *pair, User: newUserProfile(user)})
}

// Refresh exchanges a refresh token for a new token pair
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Refresh token validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}

	pair, err := h.authService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to refresh token")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, pair)
}

// SignOut revokes the given refresh token, or all of them
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	var req SignOutRequest
	if err := middleware.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	if err := h.authService.SignOut(r.Context(), req.RefreshToken); err != nil {
		respondWithServiceError(w, h.logger, err, "failed to sign out")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "signed out"})
}

// Me returns the signed-in user
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.CurrentUser(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to get user profile")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, newUserProfile(user))
}

// Session returns the claims of the presented access token
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	session, err := h.authService.CurrentSession(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to get session")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, session)
}

// Events streams the caller's session changes as server-sent events until
// the client disconnects.
func (h *AuthHandler) Events(w http.ResponseWriter, r *http.Request) {
	events, cancel, err := h.authService.Subscribe(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to subscribe")
		return
	}
	defer cancel()

	rc := http.NewResponseController(w)
	// streams outlive the server write timeout
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if _, err := io.WriteString(w, ": connected\n\n"); err != nil {
		return
	}
	if err := rc.Flush(); err != nil {
		h.logger.Warn("Event stream cannot be flushed", zap.Error(err))
		return
	}

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(evt)
			if err != nil {
				h.logger.Error("Failed to encode session event", zap.Error(err))
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Type, data); err != nil {
				return
			}
		case <-ticker.C:
			if _, err := io.WriteString(w, ": ping\n\n"); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}
