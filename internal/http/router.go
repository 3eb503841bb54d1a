package http

import (
	"log/slog"
	"net/http"

	"github.com/example/campshare/internal/application"
	"github.com/gorilla/mux"
)

// RouterConfig wires handlers into the router. Nil handlers leave their routes unregistered.
type RouterConfig struct {
	Authorizer  Authorizer
	Auth        *AuthHandler
	Events      *EventHandler
	Maintenance *MaintenanceHandler
	Cleaning    *CleaningHandler
	Users       *UserHandler
	Invitations *InvitationHandler
	SMSRelay    *SMSRelayHandler
	Logger      *slog.Logger
	Middleware  []mux.MiddlewareFunc
}

func NewRouter(cfg RouterConfig) *mux.Router {
	logger := defaultLogger(cfg.Logger)
	r := mux.NewRouter()
	r.Use(mux.MiddlewareFunc(Recover(logger)))
	for _, mw := range cfg.Middleware {
		if mw != nil {
			r.Use(mw)
		}
	}

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	session := func(h http.HandlerFunc) http.Handler {
		return RequireSession(cfg.Authorizer, logger)(h)
	}
	permitted := func(p application.Permission, h http.HandlerFunc) http.Handler {
		return RequirePermission(cfg.Authorizer, p, logger)(h)
	}

	if cfg.Auth != nil {
		r.HandleFunc("/sessions", cfg.Auth.CreateSession).Methods(http.MethodPost)
		r.HandleFunc("/sessions/current", cfg.Auth.CurrentSession).Methods(http.MethodGet)
		r.HandleFunc("/sessions/current", cfg.Auth.DeleteCurrentSession).Methods(http.MethodDelete)
		r.HandleFunc("/password", cfg.Auth.ResetPassword).Methods(http.MethodPost)
	}

	if cfg.Events != nil {
		r.Handle("/events", session(cfg.Events.List)).Methods(http.MethodGet)
		r.Handle("/events", permitted(application.PermissionCalendar, cfg.Events.Create)).Methods(http.MethodPost)
		r.Handle("/events/{id}", permitted(application.PermissionCalendar, cfg.Events.Update)).Methods(http.MethodPut)
		r.Handle("/events/{id}", permitted(application.PermissionCalendar, cfg.Events.Delete)).Methods(http.MethodDelete)
	}

	if cfg.Maintenance != nil {
		r.Handle("/maintenance-tasks", session(cfg.Maintenance.List)).Methods(http.MethodGet)
		r.Handle("/maintenance-tasks", permitted(application.PermissionMaintenance, cfg.Maintenance.Create)).Methods(http.MethodPost)
		r.Handle("/maintenance-tasks/{id}", permitted(application.PermissionMaintenance, cfg.Maintenance.Update)).Methods(http.MethodPut)
		r.Handle("/maintenance-tasks/{id}", permitted(application.PermissionMaintenance, cfg.Maintenance.Delete)).Methods(http.MethodDelete)
	}

	if cfg.Cleaning != nil {
		r.Handle("/cleaning-tasks", session(cfg.Cleaning.List)).Methods(http.MethodGet)
		r.Handle("/cleaning-tasks", permitted(application.PermissionCleaning, cfg.Cleaning.Create)).Methods(http.MethodPost)
		r.Handle("/cleaning-tasks/{id}", permitted(application.PermissionCleaning, cfg.Cleaning.Update)).Methods(http.MethodPut)
		r.Handle("/cleaning-tasks/{id}", permitted(application.PermissionCleaning, cfg.Cleaning.Delete)).Methods(http.MethodDelete)
		r.Handle("/cleaning-tasks/{id}/toggle", permitted(application.PermissionCleaning, cfg.Cleaning.Toggle)).Methods(http.MethodPost)
		r.Handle("/cleaning-tasks/{id}/assignee", permitted(application.PermissionCleaning, cfg.Cleaning.Assign)).Methods(http.MethodPut)
	}

	if cfg.Users != nil {
		r.Handle("/users", permitted(application.PermissionAdmin, cfg.Users.List)).Methods(http.MethodGet)
		r.Handle("/users", permitted(application.PermissionAdmin, cfg.Users.Create)).Methods(http.MethodPost)
		r.Handle("/users/{id}", permitted(application.PermissionAdmin, cfg.Users.Patch)).Methods(http.MethodPatch)
		r.Handle("/users/{id}/permissions", permitted(application.PermissionAdmin, cfg.Users.UpdatePermissions)).Methods(http.MethodPut)
	}

	if cfg.Invitations != nil {
		r.Handle("/invitations", permitted(application.PermissionAdmin, cfg.Invitations.Invite)).Methods(http.MethodPost)
		r.Handle("/users/{id}/invitation", permitted(application.PermissionAdmin, cfg.Invitations.Resend)).Methods(http.MethodPost)
		r.HandleFunc("/invitations/verify", cfg.Invitations.Verify).Methods(http.MethodPost)
	}

	if cfg.SMSRelay != nil {
		r.HandleFunc("/api/send-sms", cfg.SMSRelay.Send).Methods(http.MethodPost)
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		newResponder(logger).handleServiceError(req.Context(), w, application.ErrNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		newResponder(logger).writeJSON(req.Context(), w, http.StatusMethodNotAllowed, errorResponse{
			ErrorCode: "METHOD_NOT_ALLOWED",
			Message:   http.StatusText(http.StatusMethodNotAllowed),
		})
	})

	return r
}
