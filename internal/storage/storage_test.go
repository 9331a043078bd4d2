package storage

import (
	"path/filepath"
	"testing"
	"time"

	"telegram-anchor-bot/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "anchor.db"), time.UTC)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestGetReturnsDefaultsForUnknownDay(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	rec, err := db.Get("2025-06-02")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Mode != models.ModeWork {
		t.Fatalf("mode = %q, want work", rec.Mode)
	}
	if rec.Done {
		t.Fatalf("expected done=false")
	}
	if !rec.NeedFollowup {
		t.Fatalf("expected need_followup=true")
	}
	if rec.FailCount != 0 {
		t.Fatalf("fail_count = %d, want 0", rec.FailCount)
	}
	if rec.WaitingFor != models.WaitingNone {
		t.Fatalf("waiting_for = %q, want absent", rec.WaitingFor)
	}
}

func TestMutatePersistsBeforeReturning(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	const day = "2025-06-02"

	out, err := db.Mutate(day, func(r *models.DayRecord) {
		r.Mode = models.ModeKid
		r.WaitingFor = models.WaitingPartialPlan
		r.FailCount = 1
		r.AppendEvent(time.Now(), "checkin_answer", "partial", "")
	})
	if err != nil {
		t.Fatalf("mutate: %v", err)
	}
	if out.Mode != models.ModeKid {
		t.Fatalf("returned mode = %q, want kid", out.Mode)
	}

	got, err := db.Get(day)
	if err != nil {
		t.Fatalf("get after mutate: %v", err)
	}
	if got.Mode != models.ModeKid || got.WaitingFor != models.WaitingPartialPlan || got.FailCount != 1 {
		t.Fatalf("record not persisted: %+v", got)
	}
	if len(got.Events) != 1 || got.Events[0].Type != "checkin_answer" {
		t.Fatalf("events not persisted: %+v", got.Events)
	}
}

func TestMutateSurvivesReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "anchor.db")
	db, err := New(path, time.UTC)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	const day = "2025-06-02"
	if _, err := db.Mutate(day, func(r *models.DayRecord) { r.Done = true }); err != nil {
		t.Fatalf("mutate: %v", err)
	}
	db.Close()

	db2, err := New(path, time.UTC)
	if err != nil {
		t.Fatalf("reopen db: %v", err)
	}
	defer db2.Close()

	got, err := db2.Get(day)
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if !got.Done {
		t.Fatalf("expected done=true after reopen")
	}
}

func TestDaysAreIndependent(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	if _, err := db.Mutate("2025-06-02", func(r *models.DayRecord) { r.Done = true }); err != nil {
		t.Fatalf("mutate: %v", err)
	}

	next, err := db.Get("2025-06-03")
	if err != nil {
		t.Fatalf("get next day: %v", err)
	}
	if next.Done {
		t.Fatalf("next day inherited done=true")
	}
}

func TestNotifiedUsers(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	if db.HasNotified(42) {
		t.Fatalf("unexpected notified for fresh user")
	}
	if err := db.MarkNotified(42); err != nil {
		t.Fatalf("mark notified: %v", err)
	}
	if err := db.MarkNotified(42); err != nil {
		t.Fatalf("mark notified twice: %v", err)
	}
	if !db.HasNotified(42) {
		t.Fatalf("expected notified after mark")
	}
}
