package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/meeting-scheduler/internal/application"
	"github.com/example/meeting-scheduler/internal/persistence"
)

type auditService interface {
	List(ctx context.Context, limit int) ([]persistence.AuditEntry, error)
}

type AuditHandler struct {
	service   auditService
	responder responder
	logger    *slog.Logger
}

func NewAuditHandler(service auditService, logger *slog.Logger) *AuditHandler {
	base := defaultLogger(logger)
	return &AuditHandler{service: service, responder: newResponder(base), logger: base}
}

// List returns the newest journal entries first.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	limit, err := parseLimit(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidLimit)
		return
	}

	entries, err := h.service.List(r.Context(), limit)
	if err != nil {
		handlerLogger(r.Context(), h.logger, "AuditHandler", "List").ErrorContext(r.Context(), "audit list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]auditEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, auditEntryDTO{
			ID:     e.ID,
			At:     e.At.UTC().Format(time.RFC3339Nano),
			Action: e.Action,
			Target: e.Target,
			Detail: e.Detail,
		})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listAuditResponse{Entries: out})
}

type listAuditResponse struct {
	Entries []auditEntryDTO `json:"entries"`
}

type auditEntryDTO struct {
	ID     int64  `json:"id"`
	At     string `json:"at"`
	Action string `json:"action"`
	Target string `json:"target"`
	Detail string `json:"detail,omitempty"`
}
