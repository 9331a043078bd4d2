package nudge

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestChooseDelay(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text string
		def  int
		want int
	}{
		{"I'm halfway through, totally in flow", 10, 30},
		{"give me 10 minutes, I'm in flow", 10, 30}, // 30-set wins over a literal "10"
		{"just open the editor", 10, 5},
		{"write 2 bullet points", 30, 5},
		{"I'll start with the tests", 30, 10},
		{"give me 10 minutes", 30, 10},
		{"something else entirely", 25, 25},
		{"", 15, 15},
	}
	for _, c := range cases {
		if got := ChooseDelay(c.text, c.def); got != c.want {
			t.Fatalf("ChooseDelay(%q, %d) = %d, want %d", c.text, c.def, got, c.want)
		}
	}
}

func waitFired(t *testing.T, fired <-chan int) int {
	t.Helper()
	select {
	case m := <-fired:
		return m
	case <-time.After(2 * time.Second):
		t.Fatalf("nudge did not fire")
		return 0
	}
}

func assertQuiet(t *testing.T, fired <-chan int) {
	t.Helper()
	select {
	case m := <-fired:
		t.Fatalf("unexpected nudge fire (%d minutes)", m)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestScheduleFiresAfterDelay(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	fired := make(chan int, 1)
	s := NewScheduler(clock, func(_ int64, minutes int) { fired <- minutes }, nil)

	if err := s.Schedule(7, 10); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if !s.Pending(7) {
		t.Fatalf("expected pending timer")
	}

	clock.Advance(9 * time.Minute)
	assertQuiet(t, fired)

	clock.Advance(2 * time.Minute)
	if got := waitFired(t, fired); got != 10 {
		t.Fatalf("fired with %d minutes, want 10", got)
	}
}

func TestScheduleClampsToOneMinute(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	fired := make(chan int, 1)
	s := NewScheduler(clock, func(_ int64, minutes int) { fired <- minutes }, nil)

	if err := s.Schedule(7, 0); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	clock.Advance(time.Minute)
	if got := waitFired(t, fired); got != 1 {
		t.Fatalf("fired with %d minutes, want clamped 1", got)
	}
}

func TestRescheduleReplacesPrevious(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	fired := make(chan int, 2)
	s := NewScheduler(clock, func(_ int64, minutes int) { fired <- minutes }, nil)

	if err := s.Schedule(7, 10); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if err := s.Schedule(7, 30); err != nil {
		t.Fatalf("reschedule: %v", err)
	}

	clock.Advance(15 * time.Minute)
	assertQuiet(t, fired)

	clock.Advance(20 * time.Minute)
	if got := waitFired(t, fired); got != 30 {
		t.Fatalf("fired with %d minutes, want 30", got)
	}
	assertQuiet(t, fired)
}

func TestCancelIsIdempotent(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	fired := make(chan int, 1)
	s := NewScheduler(clock, func(_ int64, minutes int) { fired <- minutes }, nil)

	// Cancelling without a pending timer is a no-op.
	s.Cancel(7)

	if err := s.Schedule(7, 5); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	s.Cancel(7)
	s.Cancel(7)
	if s.Pending(7) {
		t.Fatalf("expected no pending timer after cancel")
	}

	clock.Advance(time.Hour)
	assertQuiet(t, fired)
}

func TestChatsAreIndependent(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	fired := make(chan int, 2)
	s := NewScheduler(clock, func(chatID int64, _ int) { fired <- int(chatID) }, nil)

	if err := s.Schedule(1, 5); err != nil {
		t.Fatalf("schedule chat 1: %v", err)
	}
	if err := s.Schedule(2, 5); err != nil {
		t.Fatalf("schedule chat 2: %v", err)
	}
	s.Cancel(1)

	clock.Advance(10 * time.Minute)
	if got := waitFired(t, fired); got != 2 {
		t.Fatalf("fired for chat %d, want 2", got)
	}
	assertQuiet(t, fired)
}
