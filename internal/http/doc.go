// Package http provides HTTP handlers and middleware for the meeting scheduler API.
//
// The router exposes the following endpoints:
//   - GET /meetings, POST /meetings: list stored meetings or schedule a new one.
//     POST takes the `meetingRequest` payload defined in meeting_handler.go and
//     answers 201 with the booked meeting, 409 NO_SLOT_AVAILABLE when nothing
//     fits, or 409 UNKNOWN_PARTICIPANT naming the missing user ids.
//   - POST /meetings/slots?limit=N: lists up to N candidate slots for the same
//     payload without booking anything.
//   - GET /meetings/calendar.ics?user=ID: iCalendar export, optionally for one user.
//   - GET /meetings/{id}, DELETE /meetings/{id}: lookup and idempotent removal.
//   - GET /users, POST /users, GET /users/{id}, DELETE /users/{id}: directory
//     management exchanging the `userDTO` payload defined in user_handler.go.
//   - GET /users/{id}/meetings: meetings the user takes part in.
//   - POST /users/{id}/calendar: imports a text/calendar body as busy meetings.
//   - GET /audit?limit=N: newest audit journal entries first.
//   - GET /healthz and GET /metrics.
//
// Instants are RFC3339. Validation failures answer 422 with a per field
// `errors` map.
package http
