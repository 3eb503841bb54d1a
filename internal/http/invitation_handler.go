package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/campshare/internal/application"
	"github.com/gorilla/mux"
)

type invitationService interface {
	InviteUserBySMS(ctx context.Context, phoneNumber, name string, permissions []application.Permission) (application.InvitationResult, error)
	ResendInvitation(ctx context.Context, id string) (application.InvitationResult, error)
	VerifyInvitation(ctx context.Context, phoneNumber, code string) (application.User, error)
}

type InvitationHandler struct {
	service   invitationService
	responder responder
	logger    *slog.Logger
}

func NewInvitationHandler(service invitationService, logger *slog.Logger) *InvitationHandler {
	base := defaultLogger(logger)
	return &InvitationHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *InvitationHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "InvitationHandler", operation, attrs...)
}

// Invite texts a temporary password. A failed delivery still answers 200 with delivered=false.
func (h *InvitationHandler) Invite(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req inviteRequest
	if err := decodeJSON(r, &req); err != nil {
		h.log(r.Context(), "Invite", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode invitation", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	result, err := h.service.InviteUserBySMS(r.Context(), req.PhoneNumber, strings.TrimSpace(req.Name), req.Permissions)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toInvitationResponse(result))
}

func (h *InvitationHandler) Resend(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	result, err := h.service.ResendInvitation(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toInvitationResponse(result))
}

// Verify accepts an invitation code. It does not require a session.
func (h *InvitationHandler) Verify(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req verifyRequest
	if err := decodeJSON(r, &req); err != nil {
		h.log(r.Context(), "Verify", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode verification", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	user, err := h.service.VerifyInvitation(r.Context(), req.PhoneNumber, strings.TrimSpace(req.Code))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, userResponse{User: toUserView(user)})
}

type inviteRequest struct {
	PhoneNumber string                   `json:"phoneNumber"`
	Name        string                   `json:"name"`
	Permissions []application.Permission `json:"permissions"`
}

type verifyRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Code        string `json:"code"`
}

type invitationResponse struct {
	User      userView `json:"user"`
	Delivered bool     `json:"delivered"`
	Detail    string   `json:"detail,omitempty"`
}

func toInvitationResponse(result application.InvitationResult) invitationResponse {
	return invitationResponse{User: toUserView(result.User), Delivered: result.Delivered, Detail: result.Detail}
}
