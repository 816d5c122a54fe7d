package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordScheduleAttempt(t *testing.T) {
	before := testutil.ToFloat64(ScheduleAttemptsTotal.WithLabelValues(OutcomeNoSlot))
	RecordScheduleAttempt(OutcomeNoSlot)
	after := testutil.ToFloat64(ScheduleAttemptsTotal.WithLabelValues(OutcomeNoSlot))
	if after-before != 1 {
		t.Fatalf("expected counter to grow by 1, grew by %v", after-before)
	}
}

func TestRecordOperation(t *testing.T) {
	success := OperationsTotal.WithLabelValues("test_op", "success")
	failure := OperationsTotal.WithLabelValues("test_op", "error")
	okBefore, errBefore := testutil.ToFloat64(success), testutil.ToFloat64(failure)

	RecordOperation("test_op", nil)
	RecordOperation("test_op", errors.New("boom"))
	RecordOperation("test_op", errors.New("boom"))

	if got := testutil.ToFloat64(success) - okBefore; got != 1 {
		t.Fatalf("expected 1 success, got %v", got)
	}
	if got := testutil.ToFloat64(failure) - errBefore; got != 2 {
		t.Fatalf("expected 2 errors, got %v", got)
	}
}

func TestGauges(t *testing.T) {
	SetMeetingsStored(4)
	SetUsersRegistered(7)
	if got := testutil.ToFloat64(MeetingsStored); got != 4 {
		t.Fatalf("expected 4 meetings, got %v", got)
	}
	if got := testutil.ToFloat64(UsersRegistered); got != 7 {
		t.Fatalf("expected 7 users, got %v", got)
	}
}

func TestObserveSearch(t *testing.T) {
	ObserveSearch("test_search", time.Now().Add(-time.Millisecond))
	if n := testutil.CollectAndCount(SlotSearchDuration); n == 0 {
		t.Fatal("expected histogram series to be collected")
	}
}
