package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/campshare/internal/application"
	"github.com/gorilla/mux"
)

type userService interface {
	Users() []application.User
	PendingUsers() []application.User
	ActiveUsers() []application.User
	User(id string) (application.User, error)
	AddUser(ctx context.Context, input application.UserInput) (application.User, error)
	UpdateUserProfile(ctx context.Context, id string, patch application.UserPatch) error
	UpdateUserPermissions(ctx context.Context, id string, permissions []application.Permission) error
}

type UserHandler struct {
	service   userService
	responder responder
	logger    *slog.Logger
}

func NewUserHandler(service userService, logger *slog.Logger) *UserHandler {
	base := defaultLogger(logger)
	return &UserHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *UserHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "UserHandler", operation, attrs...)
}

// List returns users, optionally narrowed by ?status=pending|active.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var users []application.User
	switch status := strings.ToLower(r.URL.Query().Get("status")); status {
	case "":
		users = h.service.Users()
	case "pending":
		users = h.service.PendingUsers()
	case "active":
		users = h.service.ActiveUsers()
	default:
		h.responder.writeJSON(r.Context(), w, http.StatusUnprocessableEntity, errorResponse{
			ErrorCode: "VALIDATION_FAILED",
			Message:   statusMessage(http.StatusUnprocessableEntity),
			Errors:    map[string]string{"status": "status must be pending or active"},
		})
		return
	}

	h.log(r.Context(), "List").DebugContext(r.Context(), "users listed", "result_count", len(users))
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listUsersResponse{Users: toUserViews(users)})
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode user request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create")
	user, err := h.service.AddUser(r.Context(), req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "user creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "user created", "user_id", user.ID)
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, userResponse{User: toUserView(user)})
}

// Patch merges profile fields. Only an "accepted" invitation status is applied.
func (h *UserHandler) Patch(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID := mux.Vars(r)["id"]
	var req patchUserRequest
	if err := decodeJSON(r, &req); err != nil {
		h.log(r.Context(), "Patch", "user_id", userID, "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode user patch", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Patch", "user_id", userID)
	if err := h.service.UpdateUserProfile(r.Context(), userID, req.toPatch()); err != nil {
		logger.ErrorContext(r.Context(), "user update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.writeUser(w, r, logger, userID, "user updated")
}

func (h *UserHandler) UpdatePermissions(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID := mux.Vars(r)["id"]
	var req permissionsRequest
	if err := decodeJSON(r, &req); err != nil {
		h.log(r.Context(), "UpdatePermissions", "user_id", userID, "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode permissions", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "UpdatePermissions", "user_id", userID)
	if err := h.service.UpdateUserPermissions(r.Context(), userID, req.Permissions); err != nil {
		logger.ErrorContext(r.Context(), "permission update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.writeUser(w, r, logger, userID, "permissions updated")
}

// writeUser responds with the stored user, or 404 when the update targeted an unknown id.
func (h *UserHandler) writeUser(w http.ResponseWriter, r *http.Request, logger *slog.Logger, userID, message string) {
	user, err := h.service.User(userID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	logger.InfoContext(r.Context(), message)
	h.responder.writeJSON(r.Context(), w, http.StatusOK, userResponse{User: toUserView(user)})
}

type createUserRequest struct {
	Name             string                       `json:"name"`
	Permissions      []application.Permission     `json:"permissions"`
	PhoneNumber      string                       `json:"phoneNumber"`
	Email            string                       `json:"email"`
	InvitationStatus application.InvitationStatus `json:"invitationStatus"`
	Password         string                       `json:"password"`
}

func (r createUserRequest) toInput() application.UserInput {
	return application.UserInput{
		Name:             strings.TrimSpace(r.Name),
		Permissions:      r.Permissions,
		PhoneNumber:      r.PhoneNumber,
		Email:            strings.TrimSpace(r.Email),
		InvitationStatus: r.InvitationStatus,
		Password:         r.Password,
	}
}

type patchUserRequest struct {
	Name             *string                       `json:"name"`
	PhoneNumber      *string                       `json:"phoneNumber"`
	Email            *string                       `json:"email"`
	InvitationStatus *application.InvitationStatus `json:"invitationStatus"`
}

func (r patchUserRequest) toPatch() application.UserPatch {
	return application.UserPatch{
		Name:             r.Name,
		PhoneNumber:      r.PhoneNumber,
		Email:            r.Email,
		InvitationStatus: r.InvitationStatus,
	}
}

type permissionsRequest struct {
	Permissions []application.Permission `json:"permissions"`
}

type userResponse struct {
	User userView `json:"user"`
}

type listUsersResponse struct {
	Users []userView `json:"users"`
}

// userView is a User without password material.
type userView struct {
	ID               string                       `json:"id"`
	Name             string                       `json:"name"`
	Permissions      []application.Permission     `json:"permissions"`
	PhoneNumber      string                       `json:"phoneNumber,omitempty"`
	Email            string                       `json:"email,omitempty"`
	InvitationStatus application.InvitationStatus `json:"invitationStatus,omitempty"`
	InvitationSentAt *time.Time                   `json:"invitationSentAt,omitempty"`
	LastLogin        *time.Time                   `json:"lastLogin,omitempty"`
	PasswordSetAt    *time.Time                   `json:"passwordSetAt,omitempty"`
	ProfileCompleted bool                         `json:"profileCompleted"`
}

func toUserView(user application.User) userView {
	return userView{
		ID:               user.ID,
		Name:             user.Name,
		Permissions:      user.Permissions,
		PhoneNumber:      user.PhoneNumber,
		Email:            user.Email,
		InvitationStatus: user.InvitationStatus,
		InvitationSentAt: user.InvitationSentAt,
		LastLogin:        user.LastLogin,
		PasswordSetAt:    user.PasswordSetAt,
		ProfileCompleted: user.ProfileCompleted,
	}
}

func toUserViews(users []application.User) []userView {
	out := make([]userView, 0, len(users))
	for _, user := range users {
		out = append(out, toUserView(user))
	}
	return out
}
