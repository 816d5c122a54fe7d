package client

import (
	"context"
	"fmt"

	"github.com/example/meeting-scheduler/internal/config"
	"github.com/example/meeting-scheduler/internal/scheduler"
)

// MockProvider serves the demo data set from an in-process scheduler. State
// lives only as long as the provider.
type MockProvider struct {
	directory *scheduler.Directory
	scheduler *scheduler.Scheduler
}

// NewMockProvider seeds a fresh scheduler with config.DemoSeed.
func NewMockProvider() (*MockProvider, error) {
	return NewMockProviderFromSeed(config.DemoSeed())
}

// NewMockProviderFromSeed seeds a fresh scheduler with seed.
func NewMockProviderFromSeed(seed config.Seed) (*MockProvider, error) {
	directory, err := scheduler.NewDirectory(seed.DirectoryUsers())
	if err != nil {
		return nil, fmt.Errorf("mock provider: %w", err)
	}
	sched, err := scheduler.NewScheduler(directory, seed.SchedulerMeetings())
	if err != nil {
		return nil, fmt.Errorf("mock provider: %w", err)
	}
	return &MockProvider{directory: directory, scheduler: sched}, nil
}

func (p *MockProvider) Users(ctx context.Context) ([]scheduler.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.directory.All(), nil
}

func (p *MockProvider) CreateUser(ctx context.Context, name string) (scheduler.User, error) {
	if err := ctx.Err(); err != nil {
		return scheduler.User{}, err
	}
	return p.directory.Register(name)
}

func (p *MockProvider) Meetings(ctx context.Context) ([]scheduler.Meeting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.scheduler.Meetings(), nil
}

func (p *MockProvider) CreateMeeting(ctx context.Context, req scheduler.MeetingRequest) (scheduler.Meeting, error) {
	if err := ctx.Err(); err != nil {
		return scheduler.Meeting{}, err
	}
	return p.scheduler.ScheduleMeeting(req)
}

// DeleteMeeting removes the meeting. Unknown ids are not an error.
func (p *MockProvider) DeleteMeeting(ctx context.Context, id int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.scheduler.DeleteMeeting(id)
	return nil
}

func (p *MockProvider) FindSlots(ctx context.Context, req scheduler.MeetingRequest, limit int) ([]scheduler.Slot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultSlotLimit
	}
	return p.scheduler.FindSlots(req, limit)
}
