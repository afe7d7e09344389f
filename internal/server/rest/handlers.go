package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/corechat/internal/common"
	"github.com/dmitrijs2005/corechat/internal/logging"
	"github.com/dmitrijs2005/corechat/internal/server/models"
	"github.com/dmitrijs2005/corechat/internal/server/services"
	"github.com/go-playground/validator/v10"
)

// AccountService is the credential store as seen by the API.
type AccountService interface {
	Register(ctx context.Context, username, email, password string) (*models.Account, error)
	Authenticate(ctx context.Context, usernameOrEmail, password string) (*models.Account, error)
}

// SessionService issues and checks session tokens.
type SessionService interface {
	CreateSession(ctx context.Context, userID int64, username string) (string, time.Time, error)
	Verify(ctx context.Context, token string) (*models.Identity, error)
	Revoke(ctx context.Context, token string) error
}

// ChatService runs conversation turns.
type ChatService interface {
	Submit(ctx context.Context, role models.Role, content string) (*services.Exchange, error)
	History(ctx context.Context) ([]models.Message, error)
	Clear(ctx context.Context) error
}

// AuthRecorder counts authentication outcomes. May be nil.
type AuthRecorder interface {
	AuthEvent(event, outcome string)
}

type handlers struct {
	accounts     AccountService
	sessions     SessionService
	chat         ChatService
	auth         AuthRecorder
	validate     *validator.Validate
	logger       logging.Logger
	cookieSecure bool
}

type registerRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail" validate:"required"`
	Password        string `json:"password" validate:"required"`
}

type userInfo struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type loginResponse struct {
	Success bool     `json:"success"`
	User    userInfo `json:"user"`
}

type currentUserResponse struct {
	Authenticated bool   `json:"authenticated"`
	ID            int64  `json:"id,omitempty"`
	Name          string `json:"name,omitempty"`
}

type messageRequest struct {
	Role    string `json:"role" validate:"required,oneof=user"`
	Content string `json:"content" validate:"required"`
}

func (h *handlers) record(event, outcome string) {
	if h.auth != nil {
		h.auth.AuthEvent(event, outcome)
	}
}

func (h *handlers) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if err := h.decode(w, r, &req); err != nil {
		h.record("register", "invalid_input")
		writeServiceError(ctx, w, h.logger, err)
		return
	}

	account, err := h.accounts.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrDuplicateIdentity):
			h.record("register", "duplicate")
		case errors.Is(err, common.ErrInvalidInput):
			h.record("register", "invalid_input")
		default:
			h.record("register", "error")
		}
		writeServiceError(ctx, w, h.logger, err)
		return
	}

	h.record("register", "ok")
	h.logger.Info(ctx, "Registered", "user_id", account.ID, "username", account.Username)
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := h.decode(w, r, &req); err != nil {
		h.record("login", "invalid_input")
		writeServiceError(ctx, w, h.logger, err)
		return
	}

	account, err := h.accounts.Authenticate(ctx, req.UsernameOrEmail, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			h.record("login", "invalid_credentials")
		} else {
			h.record("login", "error")
		}
		writeServiceError(ctx, w, h.logger, err)
		return
	}

	token, expiresAt, err := h.sessions.CreateSession(ctx, account.ID, account.Username)
	if err != nil {
		h.record("login", "error")
		writeServiceError(ctx, w, h.logger, err)
		return
	}

	h.record("login", "ok")
	h.setSessionCookie(w, token, expiresAt)
	writeJSON(w, http.StatusOK, loginResponse{
		Success: true,
		User:    userInfo{ID: account.ID, Username: account.Username},
	})
}

func (h *handlers) logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.sessions.Revoke(ctx, tokenFromRequest(r)); err != nil {
		h.record("logout", "error")
		writeServiceError(ctx, w, h.logger, err)
		return
	}

	h.record("logout", "ok")
	h.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (h *handlers) currentUser(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusOK, currentUserResponse{Authenticated: false})
		return
	}
	writeJSON(w, http.StatusOK, currentUserResponse{Authenticated: true, ID: id.UserID, Name: id.Username})
}

func (h *handlers) listMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	list, err := h.chat.History(ctx)
	if err != nil {
		writeServiceError(ctx, w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

func (h *handlers) postMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req messageRequest
	if err := h.decode(w, r, &req); err != nil {
		writeServiceError(ctx, w, h.logger, err)
		return
	}

	exchange, err := h.chat.Submit(ctx, models.Role(req.Role), req.Content)
	if err != nil {
		writeServiceError(ctx, w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, exchange)
}

func (h *handlers) clearMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.chat.Clear(ctx); err != nil {
		writeServiceError(ctx, w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
