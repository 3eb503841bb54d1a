package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/campshare/internal/application"
)

type authService interface {
	LoginWithPhoneAndPassword(ctx context.Context, phoneNumber, password string) (application.LoginResult, error)
	ResetPassword(ctx context.Context, id, oldPassword, newPassword string) error
	CurrentUser() (application.User, bool)
	Logout(ctx context.Context) error
}

type AuthHandler struct {
	service   authService
	responder responder
	logger    *slog.Logger
}

func NewAuthHandler(service authService, logger *slog.Logger) *AuthHandler {
	base := defaultLogger(logger)
	return &AuthHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *AuthHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AuthHandler", operation, attrs...)
}

// CreateSession logs in with a phone number and either the temporary or the permanent password.
func (h *AuthHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.log(r.Context(), "CreateSession", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode session request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "CreateSession")
	result, err := h.service.LoginWithPhoneAndPassword(r.Context(), strings.TrimSpace(req.PhoneNumber), req.Password)
	if err != nil {
		logger.WarnContext(r.Context(), "login rejected", "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "user logged in", "user_id", result.User.ID, "must_set_password", result.MustSetPassword)
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, sessionResponse{
		User:            toUserView(result.User),
		MustSetPassword: result.MustSetPassword,
	})
}

// CurrentSession returns the session user.
func (h *AuthHandler) CurrentSession(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	user, ok := h.service.CurrentUser()
	if !ok {
		h.responder.handleServiceError(r.Context(), w, application.ErrUnauthenticated)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, sessionResponse{User: toUserView(user)})
}

// DeleteCurrentSession logs out.
func (h *AuthHandler) DeleteCurrentSession(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "DeleteCurrentSession")
	if err := h.service.Logout(r.Context()); err != nil {
		logger.ErrorContext(r.Context(), "logout failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "session cleared")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// ResetPassword checks the new password policy before delegating to the container.
// A missing userId targets the session user.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		h.log(r.Context(), "ResetPassword", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode password request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		current, ok := h.service.CurrentUser()
		if !ok {
			h.responder.handleServiceError(r.Context(), w, application.ErrUnauthenticated)
			return
		}
		userID = current.ID
	}

	logger := h.log(r.Context(), "ResetPassword", "user_id", userID)
	if err := application.ValidateNewPassword(req.NewPassword); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	if err := h.service.ResetPassword(r.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		logger.WarnContext(r.Context(), "password reset failed", "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "password updated")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type loginRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

type sessionResponse struct {
	User            userView `json:"user"`
	MustSetPassword bool     `json:"mustSetPassword"`
}

type resetPasswordRequest struct {
	UserID      string `json:"userId"`
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}
