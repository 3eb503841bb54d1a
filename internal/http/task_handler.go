package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/campshare/internal/application"
	"github.com/gorilla/mux"
)

type maintenanceService interface {
	FilterMaintenanceTasks(status application.TaskStatus) []application.MaintenanceTask
	AddMaintenanceTask(ctx context.Context, input application.MaintenanceTaskInput) (application.MaintenanceTask, error)
	UpdateMaintenanceTask(ctx context.Context, task application.MaintenanceTask) error
	DeleteMaintenanceTask(ctx context.Context, id string) error
}

type cleaningService interface {
	FilterCleaningTasks(status application.CleanStatus) []application.CleaningTask
	AddCleaningTask(ctx context.Context, input application.CleaningTaskInput) (application.CleaningTask, error)
	UpdateCleaningTask(ctx context.Context, task application.CleaningTask) error
	DeleteCleaningTask(ctx context.Context, id string) error
	ToggleCleanStatus(ctx context.Context, id string) error
	AssignCleaningTask(ctx context.Context, id, userID string) error
}

// MaintenanceHandler serves the maintenance task board.
type MaintenanceHandler struct {
	service   maintenanceService
	responder responder
	logger    *slog.Logger
}

func NewMaintenanceHandler(service maintenanceService, logger *slog.Logger) *MaintenanceHandler {
	base := defaultLogger(logger)
	return &MaintenanceHandler{service: service, responder: newResponder(base), logger: base}
}

// List returns tasks ordered by priority then status, optionally filtered by ?status=.
func (h *MaintenanceHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	tasks := h.service.FilterMaintenanceTasks(application.TaskStatus(strings.TrimSpace(r.URL.Query().Get("status"))))
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listMaintenanceResponse{Tasks: tasks})
}

func (h *MaintenanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req maintenanceRequest
	if err := decodeJSON(r, &req); err != nil {
		handlerLogger(r.Context(), h.logger, "MaintenanceHandler", "Create", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode task", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	dueDate, err := parseOptionalDate(req.DueDate)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, &application.ValidationError{FieldErrors: map[string]string{"dueDate": errInvalidDate.Error()}})
		return
	}

	task, err := h.service.AddMaintenanceTask(r.Context(), application.MaintenanceTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
		AssignedTo:  req.AssignedTo,
		DueDate:     dueDate,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, maintenanceResponse{Task: task})
}

func (h *MaintenanceHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var task application.MaintenanceTask
	if err := decodeJSON(r, &task); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	task.ID = mux.Vars(r)["id"]

	if err := h.service.UpdateMaintenanceTask(r.Context(), task); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *MaintenanceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if err := h.service.DeleteMaintenanceTask(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// CleaningHandler serves the cleaning board.
type CleaningHandler struct {
	service   cleaningService
	responder responder
	logger    *slog.Logger
}

func NewCleaningHandler(service cleaningService, logger *slog.Logger) *CleaningHandler {
	base := defaultLogger(logger)
	return &CleaningHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *CleaningHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	tasks := h.service.FilterCleaningTasks(application.CleanStatus(strings.TrimSpace(r.URL.Query().Get("status"))))
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listCleaningResponse{Tasks: tasks})
}

func (h *CleaningHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req cleaningRequest
	if err := decodeJSON(r, &req); err != nil {
		handlerLogger(r.Context(), h.logger, "CleaningHandler", "Create", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode task", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	lastCleaned, err := parseOptionalDate(req.LastCleaned)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, &application.ValidationError{FieldErrors: map[string]string{"lastCleaned": errInvalidDate.Error()}})
		return
	}

	task, err := h.service.AddCleaningTask(r.Context(), application.CleaningTaskInput{
		Area:        req.Area,
		Description: req.Description,
		Status:      req.Status,
		AssignedTo:  req.AssignedTo,
		LastCleaned: lastCleaned,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, cleaningResponse{Task: task})
}

func (h *CleaningHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var task application.CleaningTask
	if err := decodeJSON(r, &task); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	task.ID = mux.Vars(r)["id"]

	if err := h.service.UpdateCleaningTask(r.Context(), task); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *CleaningHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if err := h.service.DeleteCleaningTask(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *CleaningHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if err := h.service.ToggleCleanStatus(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *CleaningHandler) Assign(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req assignRequest
	if err := decodeJSON(r, &req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	if err := h.service.AssignCleaningTask(r.Context(), mux.Vars(r)["id"], strings.TrimSpace(req.UserID)); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type maintenanceRequest struct {
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Priority    application.Priority   `json:"priority"`
	Status      application.TaskStatus `json:"status"`
	AssignedTo  string                 `json:"assignedTo"`
	DueDate     string                 `json:"dueDate"`
}

type maintenanceResponse struct {
	Task application.MaintenanceTask `json:"task"`
}

type listMaintenanceResponse struct {
	Tasks []application.MaintenanceTask `json:"tasks"`
}

type cleaningRequest struct {
	Area        string                  `json:"area"`
	Description string                  `json:"description"`
	Status      application.CleanStatus `json:"status"`
	AssignedTo  string                  `json:"assignedTo"`
	LastCleaned string                  `json:"lastCleaned"`
}

type cleaningResponse struct {
	Task application.CleaningTask `json:"task"`
}

type listCleaningResponse struct {
	Tasks []application.CleaningTask `json:"tasks"`
}

type assignRequest struct {
	UserID string `json:"userId"`
}
