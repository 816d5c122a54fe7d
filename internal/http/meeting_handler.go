package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/meeting-scheduler/internal/application"
	"github.com/example/meeting-scheduler/internal/scheduler"
)

// maxCalendarBytes bounds the body accepted by ImportCalendar.
const maxCalendarBytes = 1 << 20

type meetingService interface {
	CreateMeeting(ctx context.Context, req scheduler.MeetingRequest) (scheduler.Meeting, error)
	FindSlots(ctx context.Context, req scheduler.MeetingRequest, limit int) ([]scheduler.Slot, error)
	GetMeeting(ctx context.Context, id int) (scheduler.Meeting, error)
	ListMeetings(ctx context.Context) ([]scheduler.Meeting, error)
	ListMeetingsForUser(ctx context.Context, userID int) ([]scheduler.Meeting, error)
	DeleteMeeting(ctx context.Context, id int) (bool, error)
	ExportCalendar(ctx context.Context, w io.Writer, userID int) error
	ImportCalendar(ctx context.Context, userID int, r io.Reader) ([]scheduler.Meeting, error)
}

type MeetingHandler struct {
	service   meetingService
	responder responder
	logger    *slog.Logger
}

func NewMeetingHandler(service meetingService, logger *slog.Logger) *MeetingHandler {
	base := defaultLogger(logger)
	return &MeetingHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *MeetingHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "MeetingHandler", operation, attrs...)
}

func (h *MeetingHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req meetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode meeting request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "participant_count", len(req.ParticipantIDs))
	meeting, err := h.service.CreateMeeting(r.Context(), req.toDomain())
	if err != nil {
		logger.InfoContext(r.Context(), "meeting not scheduled", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("meeting_id", meeting.ID).InfoContext(r.Context(), "meeting scheduled")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, meetingResponse{Meeting: toMeetingDTO(meeting)})
}

func (h *MeetingHandler) Slots(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	limit, err := parseLimit(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidLimit)
		return
	}

	var req meetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Slots", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode slot request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Slots", "limit", limit)
	slots, err := h.service.FindSlots(r.Context(), req.toDomain(), limit)
	if err != nil {
		logger.InfoContext(r.Context(), "slot search failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(slots)).DebugContext(r.Context(), "slots listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listSlotsResponse{Slots: toSlotDTOs(slots)})
}

func (h *MeetingHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	meetingID, ok := pathMeetingID(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidMeetingID)
		return
	}

	meeting, err := h.service.GetMeeting(r.Context(), meetingID)
	if err != nil {
		h.log(r.Context(), "Get", "meeting_id", meetingID).InfoContext(r.Context(), "meeting lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, meetingResponse{Meeting: toMeetingDTO(meeting)})
}

func (h *MeetingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	meetingID, ok := pathMeetingID(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidMeetingID)
		return
	}

	logger := h.log(r.Context(), "Delete", "meeting_id", meetingID)
	removed, err := h.service.DeleteMeeting(r.Context(), meetingID)
	if err != nil {
		logger.ErrorContext(r.Context(), "meeting delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "meeting delete handled", "removed", removed)
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *MeetingHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "List")
	meetings, err := h.service.ListMeetings(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "meeting list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(meetings)).DebugContext(r.Context(), "meetings listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listMeetingsResponse{Meetings: toMeetingDTOs(meetings)})
}

func (h *MeetingHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID, ok := pathUserID(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidUserID)
		return
	}

	logger := h.log(r.Context(), "ListForUser", "user_id", userID)
	meetings, err := h.service.ListMeetingsForUser(r.Context(), userID)
	if err != nil {
		logger.ErrorContext(r.Context(), "meeting list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listMeetingsResponse{Meetings: toMeetingDTOs(meetings)})
}

// ExportCalendar serves meetings as text/calendar. The optional user query
// parameter restricts the export to one participant.
func (h *MeetingHandler) ExportCalendar(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID := 0
	if raw := r.URL.Query().Get("user"); raw != "" {
		id, ok := parsePathID(raw)
		if !ok {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidUserID)
			return
		}
		userID = id
	}

	var buf bytes.Buffer
	if err := h.service.ExportCalendar(r.Context(), &buf, userID); err != nil {
		h.log(r.Context(), "ExportCalendar", "user_id", userID).ErrorContext(r.Context(), "calendar export failed", "error", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="meetings.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.log(r.Context(), "ExportCalendar").WarnContext(r.Context(), "failed to write calendar", "error", err)
	}
}

// ImportCalendar stores the events of an iCalendar body as busy meetings of
// the user named in the path.
func (h *MeetingHandler) ImportCalendar(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID, ok := pathUserID(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidUserID)
		return
	}

	logger := h.log(r.Context(), "ImportCalendar", "user_id", userID)
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxCalendarBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.responder.writeError(r.Context(), w, http.StatusRequestEntityTooLarge, errCalendarTooLarge)
			return
		}
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	imported, err := h.service.ImportCalendar(r.Context(), userID, bytes.NewReader(body))
	if err != nil {
		logger.InfoContext(r.Context(), "calendar import failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(imported)).InfoContext(r.Context(), "calendar imported")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, listMeetingsResponse{Meetings: toMeetingDTOs(imported)})
}

func pathMeetingID(ctx context.Context) (int, bool) {
	raw, ok := MeetingIDFromContext(ctx)
	if !ok {
		return 0, false
	}
	return parsePathID(raw)
}

// parseLimit reads the optional limit query parameter. Absent means zero.
func parseLimit(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if limit < 0 {
		return 0, errInvalidLimit
	}
	return limit, nil
}

type meetingRequest struct {
	ParticipantIDs  []int     `json:"participantIds"`
	DurationMinutes int       `json:"durationMinutes"`
	EarliestStart   time.Time `json:"earliestStart"`
	LatestEnd       time.Time `json:"latestEnd"`
}

func (r meetingRequest) toDomain() scheduler.MeetingRequest {
	return scheduler.MeetingRequest{
		ParticipantIDs:  r.ParticipantIDs,
		DurationMinutes: r.DurationMinutes,
		EarliestStart:   r.EarliestStart,
		LatestEnd:       r.LatestEnd,
	}
}

type meetingResponse struct {
	Meeting meetingDTO `json:"meeting"`
}

type listMeetingsResponse struct {
	Meetings []meetingDTO `json:"meetings"`
}

type listSlotsResponse struct {
	Slots []slotDTO `json:"slots"`
}

type meetingDTO struct {
	ID             int    `json:"id"`
	ParticipantIDs []int  `json:"participantIds"`
	Start          string `json:"start"`
	End            string `json:"end"`
}

type slotDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func toMeetingDTO(m scheduler.Meeting) meetingDTO {
	participants := m.ParticipantIDs
	if participants == nil {
		participants = []int{}
	}
	return meetingDTO{
		ID:             m.ID,
		ParticipantIDs: participants,
		Start:          m.Start.UTC().Format(time.RFC3339),
		End:            m.End.UTC().Format(time.RFC3339),
	}
}

func toMeetingDTOs(meetings []scheduler.Meeting) []meetingDTO {
	out := make([]meetingDTO, 0, len(meetings))
	for _, m := range meetings {
		out = append(out, toMeetingDTO(m))
	}
	return out
}

func toSlotDTOs(slots []scheduler.Slot) []slotDTO {
	out := make([]slotDTO, 0, len(slots))
	for _, s := range slots {
		out = append(out, slotDTO{Start: s.Start.UTC().Format(time.RFC3339), End: s.End.UTC().Format(time.RFC3339)})
	}
	return out
}
