package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/example/meeting-scheduler/internal/scheduler"
)

const defaultSlotLimit = 5

// APIError is a non-2xx answer from the server. It matches ErrNotFound and
// scheduler.ErrNoSlotAvailable through errors.Is.
type APIError struct {
	Status         int
	Code           string
	Message        string
	Fields         map[string]string
	ParticipantIDs []int
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api: %d: %s", e.Status, e.Message)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case scheduler.ErrNoSlotAvailable:
		return e.Code == "NO_SLOT_AVAILABLE" || e.Code == "UNKNOWN_PARTICIPANT"
	case scheduler.ErrAlreadyExists:
		return e.Code == "ALREADY_EXISTS"
	}
	return false
}

// APIProvider talks JSON to a running scheduler server.
type APIProvider struct {
	base   *url.URL
	client *http.Client
}

// NewAPIProvider validates cfg.Endpoint and prepares an HTTP client.
func NewAPIProvider(cfg Config) (*APIProvider, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, errors.New("client: endpoint is required in api mode")
	}
	base, err := url.Parse(strings.TrimRight(endpoint, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("client: invalid endpoint %q", cfg.Endpoint)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &APIProvider{base: base, client: httpClient}, nil
}

func (p *APIProvider) Users(ctx context.Context) ([]scheduler.User, error) {
	var resp struct {
		Users []userPayload `json:"users"`
	}
	if err := p.do(ctx, http.MethodGet, "/users", nil, &resp); err != nil {
		return nil, err
	}
	out := make([]scheduler.User, 0, len(resp.Users))
	for _, u := range resp.Users {
		out = append(out, scheduler.User{ID: u.ID, Name: u.Name})
	}
	return out, nil
}

func (p *APIProvider) CreateUser(ctx context.Context, name string) (scheduler.User, error) {
	var resp struct {
		User userPayload `json:"user"`
	}
	if err := p.do(ctx, http.MethodPost, "/users", userPayload{Name: name}, &resp); err != nil {
		return scheduler.User{}, err
	}
	return scheduler.User{ID: resp.User.ID, Name: resp.User.Name}, nil
}

func (p *APIProvider) Meetings(ctx context.Context) ([]scheduler.Meeting, error) {
	var resp struct {
		Meetings []meetingPayload `json:"meetings"`
	}
	if err := p.do(ctx, http.MethodGet, "/meetings", nil, &resp); err != nil {
		return nil, err
	}
	out := make([]scheduler.Meeting, 0, len(resp.Meetings))
	for _, m := range resp.Meetings {
		out = append(out, m.toDomain())
	}
	return out, nil
}

func (p *APIProvider) CreateMeeting(ctx context.Context, req scheduler.MeetingRequest) (scheduler.Meeting, error) {
	var resp struct {
		Meeting meetingPayload `json:"meeting"`
	}
	if err := p.do(ctx, http.MethodPost, "/meetings", toRequestPayload(req), &resp); err != nil {
		return scheduler.Meeting{}, err
	}
	return resp.Meeting.toDomain(), nil
}

func (p *APIProvider) DeleteMeeting(ctx context.Context, id int) error {
	return p.do(ctx, http.MethodDelete, "/meetings/"+strconv.Itoa(id), nil, nil)
}

func (p *APIProvider) FindSlots(ctx context.Context, req scheduler.MeetingRequest, limit int) ([]scheduler.Slot, error) {
	if limit <= 0 {
		limit = defaultSlotLimit
	}
	var resp struct {
		Slots []slotPayload `json:"slots"`
	}
	if err := p.do(ctx, http.MethodPost, "/meetings/slots?limit="+strconv.Itoa(limit), toRequestPayload(req), &resp); err != nil {
		return nil, err
	}
	out := make([]scheduler.Slot, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		out = append(out, scheduler.Slot{Start: s.Start.UTC(), End: s.End.UTC()})
	}
	return out, nil
}

func (p *APIProvider) do(ctx context.Context, method, path string, body, out any) error {
	target, err := p.base.Parse(p.base.Path + path)
	if err != nil {
		return fmt.Errorf("client: build url: %w", err)
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return fmt.Errorf("client: new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	var payload struct {
		ErrorCode      string            `json:"error_code"`
		Message        string            `json:"message"`
		Errors         map[string]string `json:"errors"`
		ParticipantIDs []int             `json:"participantIds"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(raw, &payload); err == nil {
		apiErr.Code = payload.ErrorCode
		if payload.Message != "" {
			apiErr.Message = payload.Message
		}
		apiErr.Fields = payload.Errors
		apiErr.ParticipantIDs = payload.ParticipantIDs
	} else if text := strings.TrimSpace(string(raw)); text != "" {
		apiErr.Message = text
	}
	return apiErr
}

type userPayload struct {
	ID   int    `json:"id,omitempty"`
	Name string `json:"name"`
}

type meetingRequestPayload struct {
	ParticipantIDs  []int     `json:"participantIds"`
	DurationMinutes int       `json:"durationMinutes"`
	EarliestStart   time.Time `json:"earliestStart"`
	LatestEnd       time.Time `json:"latestEnd"`
}

func toRequestPayload(req scheduler.MeetingRequest) meetingRequestPayload {
	return meetingRequestPayload{
		ParticipantIDs:  req.ParticipantIDs,
		DurationMinutes: req.DurationMinutes,
		EarliestStart:   req.EarliestStart.UTC(),
		LatestEnd:       req.LatestEnd.UTC(),
	}
}

type meetingPayload struct {
	ID             int       `json:"id"`
	ParticipantIDs []int     `json:"participantIds"`
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
}

func (m meetingPayload) toDomain() scheduler.Meeting {
	return scheduler.Meeting{ID: m.ID, ParticipantIDs: m.ParticipantIDs, Start: m.Start.UTC(), End: m.End.UTC()}
}

type slotPayload struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
