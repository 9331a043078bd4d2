package flow

import (
	"errors"
	"strings"
	"testing"

	"telegram-anchor-bot/internal/models"
)

// memStore is an in-memory Store for engine tests.
type memStore struct {
	day     string
	recs    map[string]models.DayRecord
	failing bool
}

func newMemStore(day string) *memStore {
	return &memStore{day: day, recs: make(map[string]models.DayRecord)}
}

func (m *memStore) Today() string { return m.day }

func (m *memStore) Get(day string) (models.DayRecord, error) {
	if rec, ok := m.recs[day]; ok {
		return rec, nil
	}
	return models.NewDayRecord(day), nil
}

func (m *memStore) Mutate(day string, fn func(*models.DayRecord)) (models.DayRecord, error) {
	if m.failing {
		return models.DayRecord{}, errors.New("disk full")
	}
	rec, _ := m.Get(day)
	fn(&rec)
	m.recs[day] = rec
	return rec, nil
}

// fakeNudger records schedule and cancel calls.
type fakeNudger struct {
	scheduled []int
	cancels   int
	err       error
}

func (f *fakeNudger) Schedule(_ int64, minutes int) error {
	if f.err != nil {
		return f.err
	}
	f.scheduled = append(f.scheduled, minutes)
	return nil
}

func (f *fakeNudger) Cancel(_ int64) { f.cancels++ }

type fakeJournal struct {
	entries []string
	err     error
}

func (f *fakeJournal) Append(text string) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, text)
	return nil
}

const day = "2025-06-02"

func newTestEngine() (*Engine, *memStore, *fakeNudger, *fakeJournal) {
	store := newMemStore(day)
	nudger := &fakeNudger{}
	jrnl := &fakeJournal{}
	return NewEngine(store, nudger, jrnl, nil), store, nudger, jrnl
}

func record(t *testing.T, store *memStore) models.DayRecord {
	t.Helper()
	rec, err := store.Get(day)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	return rec
}

func dispatch(t *testing.T, e *Engine, token string) []Reply {
	t.Helper()
	replies, err := e.Dispatch(1, models.ParseSignal(token))
	if err != nil {
		t.Fatalf("dispatch %q: %v", token, err)
	}
	return replies
}

func freeText(t *testing.T, e *Engine, text string) []Reply {
	t.Helper()
	replies, err := e.HandleFreeText(1, text)
	if err != nil {
		t.Fatalf("free text %q: %v", text, err)
	}
	return replies
}

func TestModeChoicePromptsCheckin(t *testing.T) {
	t.Parallel()

	e, store, _, _ := newTestEngine()
	replies := dispatch(t, e, "mode:kid")

	if record(t, store).Mode != models.ModeKid {
		t.Fatalf("mode not set")
	}
	if len(replies) != 2 {
		t.Fatalf("expected confirmation + check-in, got %d replies", len(replies))
	}
	if !replies[0].Edit {
		t.Fatalf("confirmation should edit the mode prompt")
	}
	if len(replies[1].Buttons) == 0 {
		t.Fatalf("check-in prompt should carry the worked keyboard")
	}
}

func TestCheckinYes(t *testing.T) {
	t.Parallel()

	e, store, _, _ := newTestEngine()
	dispatch(t, e, "worked:yes")

	rec := record(t, store)
	if rec.Worked != models.WorkedYes {
		t.Fatalf("worked = %q", rec.Worked)
	}
	if rec.NeedFollowup {
		t.Fatalf("expected need_followup=false after yes")
	}
	if rec.FailCount != 0 {
		t.Fatalf("fail_count = %d", rec.FailCount)
	}
	if rec.WaitingFor != models.WaitingYesWhatDid {
		t.Fatalf("waiting_for = %q", rec.WaitingFor)
	}
}

func TestCheckinPartial(t *testing.T) {
	t.Parallel()

	e, store, _, _ := newTestEngine()
	dispatch(t, e, "worked:partial")

	rec := record(t, store)
	if !rec.NeedFollowup {
		t.Fatalf("expected need_followup=true after partial")
	}
	if rec.WaitingFor != models.WaitingPartialPlan {
		t.Fatalf("waiting_for = %q", rec.WaitingFor)
	}
}

func TestNoThenStuckThenFreeText(t *testing.T) {
	t.Parallel()

	e, store, nudger, _ := newTestEngine()
	dispatch(t, e, "worked:no")
	dispatch(t, e, "noreason:stuck")

	rec := record(t, store)
	if rec.Context != models.ContextStuck {
		t.Fatalf("context = %q, want stuck", rec.Context)
	}
	if rec.WaitingFor != models.WaitingStuckFirstStep {
		t.Fatalf("waiting_for = %q", rec.WaitingFor)
	}

	freeText(t, e, "open the failing test the computer is yelling about")

	rec = record(t, store)
	if rec.WaitingFor != models.WaitingNone {
		t.Fatalf("waiting_for not cleared: %q", rec.WaitingFor)
	}
	if rec.Plan == "" || rec.PlanTS == nil {
		t.Fatalf("plan not recorded: %+v", rec)
	}
	if len(nudger.scheduled) != 1 {
		t.Fatalf("expected one nudge scheduled, got %v", nudger.scheduled)
	}
}

func TestNoThenFearEndToEnd(t *testing.T) {
	t.Parallel()

	e, store, nudger, _ := newTestEngine()
	dispatch(t, e, "worked:no")
	dispatch(t, e, "noreason:fear")

	rec := record(t, store)
	if rec.Context != models.ContextFear {
		t.Fatalf("context = %q, want fear", rec.Context)
	}
	if rec.WaitingFor != models.WaitingFearReframe {
		t.Fatalf("waiting_for = %q", rec.WaitingFor)
	}

	freeText(t, e, "I'll just open the editor")

	rec = record(t, store)
	if rec.Plan != "I'll just open the editor" {
		t.Fatalf("plan = %q", rec.Plan)
	}
	if rec.WaitingFor != models.WaitingNone {
		t.Fatalf("waiting_for not cleared")
	}
	if len(nudger.scheduled) != 1 {
		t.Fatalf("expected a nudge decision, got %v", nudger.scheduled)
	}
}

func TestHeuristicWinsOverDefault(t *testing.T) {
	t.Parallel()

	e, _, nudger, _ := newTestEngine()
	dispatch(t, e, "worked:partial")
	freeText(t, e, "10 more minutes, I'm in flow")

	if len(nudger.scheduled) != 1 || nudger.scheduled[0] != 30 {
		t.Fatalf("scheduled = %v, want [30]: flow keywords beat a literal 10", nudger.scheduled)
	}
}

func TestTwoStrikesCloseTheDay(t *testing.T) {
	t.Parallel()

	e, store, _, _ := newTestEngine()

	dispatch(t, e, "nudge:no")
	rec := record(t, store)
	if rec.Done {
		t.Fatalf("day closed after a single strike")
	}
	if rec.FailCount != 1 {
		t.Fatalf("fail_count = %d, want 1", rec.FailCount)
	}
	if rec.WaitingFor != models.WaitingPartialPlan {
		t.Fatalf("expected re-prompt for smallest next action")
	}

	dispatch(t, e, "nudge:no")
	rec = record(t, store)
	if !rec.Done {
		t.Fatalf("day not closed after two strikes")
	}
	if rec.NeedFollowup {
		t.Fatalf("need_followup should be false after release")
	}
}

func TestPartialProgressResetsFailCount(t *testing.T) {
	t.Parallel()

	e, store, _, _ := newTestEngine()
	dispatch(t, e, "nudge:no")
	dispatch(t, e, "nudge:partial")

	rec := record(t, store)
	if rec.FailCount != 0 {
		t.Fatalf("fail_count = %d, want 0 after partial progress", rec.FailCount)
	}
	if rec.Done {
		t.Fatalf("partial progress must not close the day")
	}
}

func TestInFlowCancelsNudgesButKeepsDayOpen(t *testing.T) {
	t.Parallel()

	e, store, nudger, _ := newTestEngine()
	dispatch(t, e, "nudge:flow")

	rec := record(t, store)
	if rec.Done {
		t.Fatalf("flow must not close the day")
	}
	if rec.NeedFollowup {
		t.Fatalf("flow should clear need_followup")
	}
	if nudger.cancels != 1 {
		t.Fatalf("expected pending nudge cancelled, cancels=%d", nudger.cancels)
	}
}

func TestCloseDayIsTerminal(t *testing.T) {
	t.Parallel()

	e, store, nudger, _ := newTestEngine()
	dispatch(t, e, "worked:yes")
	dispatch(t, e, "yesnext:close")

	rec := record(t, store)
	if !rec.Done || rec.NeedFollowup {
		t.Fatalf("close: done=%v need_followup=%v", rec.Done, rec.NeedFollowup)
	}
	if rec.WaitingFor != models.WaitingNone {
		t.Fatalf("close must clear waiting_for")
	}
	if nudger.cancels != 1 {
		t.Fatalf("close must cancel the pending nudge")
	}
}

func TestContinueSchedulesHourNudge(t *testing.T) {
	t.Parallel()

	e, store, nudger, _ := newTestEngine()
	dispatch(t, e, "yesnext:continue")

	if !record(t, store).NeedFollowup {
		t.Fatalf("continue should set need_followup")
	}
	if len(nudger.scheduled) != 1 || nudger.scheduled[0] != continueNudgeMinutes {
		t.Fatalf("scheduled = %v, want [%d]", nudger.scheduled, continueNudgeMinutes)
	}
}

func TestYesWhatDidLeadsToNextChoice(t *testing.T) {
	t.Parallel()

	e, store, nudger, _ := newTestEngine()
	dispatch(t, e, "worked:yes")
	replies := freeText(t, e, "shipped the exporter")

	rec := record(t, store)
	if rec.Plan != "shipped the exporter" {
		t.Fatalf("plan = %q", rec.Plan)
	}
	if rec.WaitingFor != models.WaitingNone {
		t.Fatalf("waiting_for not cleared")
	}
	if len(nudger.scheduled) != 0 {
		t.Fatalf("yes_what_did must not auto-schedule, got %v", nudger.scheduled)
	}
	if len(replies) != 1 || len(replies[0].Buttons) == 0 {
		t.Fatalf("expected continue/close choice")
	}
}

func TestBigActionDoTwoMinutes(t *testing.T) {
	t.Parallel()

	e, store, nudger, _ := newTestEngine()
	dispatch(t, e, "worked:no")
	dispatch(t, e, "noreason:big")

	rec := record(t, store)
	if rec.Context != models.ContextOverwhelmed {
		t.Fatalf("context = %q", rec.Context)
	}

	dispatch(t, e, "bigaction:do2")
	if record(t, store).WaitingFor != models.WaitingBigThreeBullets {
		t.Fatalf("expected waiting for 3 bullets")
	}

	freeText(t, e, "a) read b) sketch c) write")
	if len(nudger.scheduled) != 1 {
		t.Fatalf("bullets should schedule a nudge, got %v", nudger.scheduled)
	}
}

func TestBigActionSkipLeavesStateAlone(t *testing.T) {
	t.Parallel()

	e, store, _, _ := newTestEngine()
	before := record(t, store)
	replies := dispatch(t, e, "bigaction:skip")

	after := record(t, store)
	if after.WaitingFor != before.WaitingFor || after.Done != before.Done {
		t.Fatalf("skip mutated state: %+v", after)
	}
	if len(replies) != 1 {
		t.Fatalf("expected a single message")
	}
}

func TestFreeNoteWithoutWaitingState(t *testing.T) {
	t.Parallel()

	e, store, nudger, _ := newTestEngine()
	freeText(t, e, "random shower thought")

	rec := record(t, store)
	if rec.WaitingFor != models.WaitingNone || rec.Plan != "" {
		t.Fatalf("free note must not change flow state: %+v", rec)
	}
	if len(rec.Events) != 1 || rec.Events[0].Type != "free_note" {
		t.Fatalf("expected a free_note event, got %+v", rec.Events)
	}
	if len(nudger.scheduled) != 0 {
		t.Fatalf("free note must not schedule")
	}
}

func TestJournalAddConsumesText(t *testing.T) {
	t.Parallel()

	e, store, _, jrnl := newTestEngine()
	store.recs[day] = func() models.DayRecord {
		r := models.NewDayRecord(day)
		r.WaitingFor = models.WaitingJournalAdd
		return r
	}()

	freeText(t, e, "today I noticed something")

	if len(jrnl.entries) != 1 || jrnl.entries[0] != "today I noticed something" {
		t.Fatalf("journal entries = %v", jrnl.entries)
	}
	if record(t, store).WaitingFor != models.WaitingNone {
		t.Fatalf("waiting_for not cleared after journal add")
	}
}

func TestUnknownSignalIsNoOp(t *testing.T) {
	t.Parallel()

	e, store, nudger, _ := newTestEngine()
	replies, err := e.Dispatch(1, models.ParseSignal("mystery:whatever"))
	if err != nil {
		t.Fatalf("unknown signal errored: %v", err)
	}
	if replies != nil {
		t.Fatalf("unknown signal produced replies: %v", replies)
	}
	if len(store.recs) != 0 {
		t.Fatalf("unknown signal mutated state")
	}
	if len(nudger.scheduled) != 0 || nudger.cancels != 0 {
		t.Fatalf("unknown signal touched the nudger")
	}
}

func TestUnknownValuesAreNoOps(t *testing.T) {
	t.Parallel()

	e, store, _, _ := newTestEngine()
	for _, token := range []string{"worked:maybe", "mode:party", "noreason:tired", "yesnext:later", "nudge:shrug", "bigaction:do5"} {
		if _, err := e.Dispatch(1, models.ParseSignal(token)); err != nil {
			t.Fatalf("%q errored: %v", token, err)
		}
	}
	if len(store.recs) != 0 {
		t.Fatalf("unknown values mutated state")
	}
}

func TestPersistenceErrorPropagates(t *testing.T) {
	t.Parallel()

	e, store, _, _ := newTestEngine()
	store.failing = true

	if _, err := e.Dispatch(1, models.ParseSignal("worked:yes")); err == nil {
		t.Fatalf("expected persistence error to propagate")
	}
}

func TestSchedulerErrorPropagates(t *testing.T) {
	t.Parallel()

	e, _, nudger, _ := newTestEngine()
	nudger.err = errors.New("timer backend down")

	dispatch(t, e, "worked:partial")
	_, err := e.HandleFreeText(1, "small next step")
	if err == nil || !strings.Contains(err.Error(), "schedule nudge") {
		t.Fatalf("expected scheduling error to surface, got %v", err)
	}
}
