// Package client gives command line tools a single view of the scheduler,
// backed either by a running server or by an in-process demo data set.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/example/meeting-scheduler/internal/scheduler"
)

// Provider modes accepted by New.
const (
	ModeAPI  = "api"
	ModeMock = "mock"
)

// DefaultTimeout bounds a single API round trip.
const DefaultTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when the addressed user or meeting does not exist.
	ErrNotFound = errors.New("client: not found")
	// ErrUnknownMode is returned by New for an unsupported mode.
	ErrUnknownMode = errors.New("client: unknown provider mode")
)

// Provider is the capability set shared by every data source.
type Provider interface {
	Users(ctx context.Context) ([]scheduler.User, error)
	CreateUser(ctx context.Context, name string) (scheduler.User, error)
	Meetings(ctx context.Context) ([]scheduler.Meeting, error)
	CreateMeeting(ctx context.Context, req scheduler.MeetingRequest) (scheduler.Meeting, error)
	DeleteMeeting(ctx context.Context, id int) error
	FindSlots(ctx context.Context, req scheduler.MeetingRequest, limit int) ([]scheduler.Slot, error)
}

// Config selects and configures a provider.
type Config struct {
	Mode       string
	Endpoint   string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// New returns the provider named by cfg.Mode. An empty mode selects the mock.
func New(cfg Config) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Mode)) {
	case "", ModeMock:
		return NewMockProvider()
	case ModeAPI:
		return NewAPIProvider(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, cfg.Mode)
	}
}
