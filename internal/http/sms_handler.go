package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/campshare/internal/notify"
)

// SMSRelayHandler forwards relay requests to a provider backed sender.
// The optional sid field of the request is not honoured; the server's own credentials are used.
type SMSRelayHandler struct {
	sender    notify.Sender
	responder responder
	logger    *slog.Logger
}

func NewSMSRelayHandler(sender notify.Sender, logger *slog.Logger) *SMSRelayHandler {
	base := defaultLogger(logger)
	return &SMSRelayHandler{sender: sender, responder: newResponder(base), logger: base}
}

func (h *SMSRelayHandler) Send(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.sender == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req notify.RelayRequest
	if err := decodeJSON(r, &req); err != nil {
		h.responder.writeJSON(r.Context(), w, http.StatusBadRequest, notify.RelayResponse{Error: "Invalid request body"})
		return
	}
	if strings.TrimSpace(req.PhoneNumber) == "" || strings.TrimSpace(req.Message) == "" {
		h.responder.writeJSON(r.Context(), w, http.StatusBadRequest, notify.RelayResponse{Error: "Phone number and message are required"})
		return
	}

	logger := handlerLogger(r.Context(), h.logger, "SMSRelayHandler", "Send", "phone_suffix", notify.PhoneSuffix(req.PhoneNumber))
	result := h.sender.Send(r.Context(), notify.Message{To: req.PhoneNumber, Body: req.Message})
	if !result.Success {
		logger.WarnContext(r.Context(), "relay send failed", "detail", result.Error)
		h.responder.writeJSON(r.Context(), w, http.StatusInternalServerError, notify.RelayResponse{Error: result.Error})
		return
	}

	logger.InfoContext(r.Context(), "relay message sent", "message_id", result.ID)
	h.responder.writeJSON(r.Context(), w, http.StatusOK, notify.RelayResponse{Success: true})
}
