// Package metrics exposes Prometheus collectors for the scheduler.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Schedule attempt outcomes.
const (
	OutcomeScheduled          = "scheduled"
	OutcomeNoSlot             = "no_slot"
	OutcomeUnknownParticipant = "unknown_participant"
	OutcomeInvalid            = "invalid"
)

var (
	// ScheduleAttemptsTotal counts ScheduleMeeting calls.
	// Labels: outcome (scheduled/no_slot/unknown_participant/invalid)
	ScheduleAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meeting_scheduler_schedule_attempts_total",
			Help: "Total number of meeting scheduling attempts by outcome",
		},
		[]string{"outcome"},
	)

	// OperationsTotal counts service operations.
	// Labels: operation, status (success/error)
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meeting_scheduler_operations_total",
			Help: "Total number of service operations by operation and status",
		},
		[]string{"operation", "status"},
	)

	// SlotSearchDuration observes how long earliest-fit searches take.
	// Labels: operation (schedule/find_slots)
	SlotSearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "meeting_scheduler_slot_search_duration_seconds",
			Help:    "Slot search duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"operation"},
	)

	// MeetingsStored is the number of meetings currently held.
	MeetingsStored = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "meeting_scheduler_meetings_stored",
			Help: "Number of meetings currently stored",
		},
	)

	// UsersRegistered is the number of users currently in the directory.
	UsersRegistered = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "meeting_scheduler_users_registered",
			Help: "Number of users currently registered",
		},
	)
)

// RecordScheduleAttempt counts one scheduling attempt.
func RecordScheduleAttempt(outcome string) {
	ScheduleAttemptsTotal.WithLabelValues(outcome).Inc()
}

// RecordOperation counts one service operation.
func RecordOperation(operation string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	OperationsTotal.WithLabelValues(operation, status).Inc()
}

// ObserveSearch records the duration of a slot search started at start.
func ObserveSearch(operation string, start time.Time) {
	SlotSearchDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// SetMeetingsStored updates the stored meetings gauge.
func SetMeetingsStored(n int) {
	MeetingsStored.Set(float64(n))
}

// SetUsersRegistered updates the registered users gauge.
func SetUsersRegistered(n int) {
	UsersRegistered.Set(float64(n))
}
