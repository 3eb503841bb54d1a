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

type eventService interface {
	Events() []application.Event
	EventsOn(day time.Time) []application.Event
	EventsBetween(from, to time.Time) []application.Event
	AddEvent(ctx context.Context, input application.EventInput) (application.Event, error)
	UpdateEvent(ctx context.Context, event application.Event) error
	DeleteEvent(ctx context.Context, id string) error
}

type EventHandler struct {
	service   eventService
	responder responder
	logger    *slog.Logger
}

func NewEventHandler(service eventService, logger *slog.Logger) *EventHandler {
	base := defaultLogger(logger)
	return &EventHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *EventHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "EventHandler", operation, attrs...)
}

// List returns all events, the events of ?day=, or the events overlapping ?from= and ?to=.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()
	var events []application.Event
	switch {
	case query.Get("day") != "":
		day, err := parseDate(query.Get("day"))
		if err != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDate)
			return
		}
		events = h.service.EventsOn(day)
	case query.Get("from") != "" || query.Get("to") != "":
		from, fromErr := parseDate(query.Get("from"))
		to, toErr := parseDate(query.Get("to"))
		if fromErr != nil || toErr != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDate)
			return
		}
		events = h.service.EventsBetween(from, to)
	default:
		events = h.service.Events()
	}

	h.log(r.Context(), "List").DebugContext(r.Context(), "events listed", "result_count", len(events))
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listEventsResponse{Events: events})
}

// Create stores a new event. createdBy defaults to the session user.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req eventRequest
	if err := decodeJSON(r, &req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode event", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, err := req.toInput()
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	if input.CreatedBy == "" {
		if user, ok := SessionUserFromContext(r.Context()); ok {
			input.CreatedBy = user.ID
		}
	}

	event, err := h.service.AddEvent(r.Context(), input)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, eventResponse{Event: event})
}

// Update replaces the event named in the path with the body, which uses the list representation.
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id := mux.Vars(r)["id"]
	var event application.Event
	if err := decodeJSON(r, &event); err != nil {
		h.log(r.Context(), "Update", "event_id", id, "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode event", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	event.ID = id

	if err := h.service.UpdateEvent(r.Context(), event); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if err := h.service.DeleteEvent(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type eventRequest struct {
	Title       string                    `json:"title"`
	Date        string                    `json:"date"`
	EndDate     string                    `json:"endDate"`
	StartTime   string                    `json:"startTime"`
	EndTime     string                    `json:"endTime"`
	Description string                    `json:"description"`
	CreatedBy   string                    `json:"createdBy"`
	Category    application.EventCategory `json:"category"`
	Color       string                    `json:"color"`
}

func (r eventRequest) toInput() (application.EventInput, error) {
	vErr := &application.ValidationError{FieldErrors: map[string]string{}}
	date, err := parseDate(r.Date)
	if err != nil {
		vErr.FieldErrors["date"] = errInvalidDate.Error()
	}
	endDate, err := parseOptionalDate(r.EndDate)
	if err != nil {
		vErr.FieldErrors["endDate"] = errInvalidDate.Error()
	}
	if vErr.HasErrors() {
		return application.EventInput{}, vErr
	}

	return application.EventInput{
		Title:       r.Title,
		Date:        date,
		EndDate:     endDate,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Description: r.Description,
		CreatedBy:   strings.TrimSpace(r.CreatedBy),
		Category:    r.Category,
		Color:       r.Color,
	}, nil
}

type eventResponse struct {
	Event application.Event `json:"event"`
}

type listEventsResponse struct {
	Events []application.Event `json:"events"`
}

// parseDate accepts a calendar day (UTC midnight) or an RFC 3339 timestamp.
func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func parseOptionalDate(value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := parseDate(value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
