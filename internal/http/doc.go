// Package http exposes the camp container as a JSON API routed with gorilla/mux.
//
// Endpoints:
//   - GET /healthz: liveness.
//   - POST /sessions, GET /sessions/current, DELETE /sessions/current: phone number and
//     password login, the current session user, logout. There is a single session per
//     process, held by the container.
//   - POST /password: {"userId","oldPassword","newPassword"}. The strength policy is
//     checked before the old password.
//   - /events, /maintenance-tasks, /cleaning-tasks: list (any session user) and mutate
//     (calendar, maintenance or cleaning permission). PUT bodies use the list representation.
//   - /users, /users/{id}, /users/{id}/permissions, /invitations, /users/{id}/invitation:
//     administrator only. POST /invitations/verify is public.
//   - POST /api/send-sms: optional SMS relay, registered only when the server owns provider
//     credentials.
//
// User payloads never include password material.
package http
