package models

import "time"

// Mode is the day's overall mode, chosen once by the morning prompt.
type Mode string

const (
	ModeWork Mode = "work"
	ModeKid  Mode = "kid"
)

// Worked is the most recent check-in answer.
type Worked string

const (
	WorkedYes     Worked = "yes"
	WorkedPartial Worked = "partial"
	WorkedNo      Worked = "no"
)

// DayContext records why the user didn't work. Set at most once per day.
type DayContext string

const (
	ContextOverwhelmed DayContext = "overwhelmed"
	ContextStuck       DayContext = "stuck"
	ContextFear        DayContext = "fear"
)

// Waiting names which free-text handler consumes the next text message.
// Empty means free text is treated as an unstructured note.
type Waiting string

const (
	WaitingNone            Waiting = ""
	WaitingYesWhatDid      Waiting = "yes_what_did"
	WaitingPartialPlan     Waiting = "partial_plan"
	WaitingStuckFirstStep  Waiting = "no_stuck_first_action"
	WaitingFearReframe     Waiting = "no_fear_reframe"
	WaitingBigThreeBullets Waiting = "big_3_bullets"
	WaitingJournalAdd      Waiting = "journal_add"
)

// Event is one entry of the day's append-only audit trail.
type Event struct {
	TS    time.Time `json:"ts"`
	Type  string    `json:"type"`
	Value string    `json:"value,omitempty"`
	Text  string    `json:"text,omitempty"`
}

// DayRecord is the full state container for one calendar day.
type DayRecord struct {
	Day          string     `json:"day"` // YYYY-MM-DD
	Mode         Mode       `json:"mode"`
	WaitingFor   Waiting    `json:"waiting_for,omitempty"`
	Worked       Worked     `json:"worked,omitempty"`
	WorkedTS     *time.Time `json:"worked_ts,omitempty"`
	Done         bool       `json:"done"`
	NeedFollowup bool       `json:"need_followup"`
	FailCount    int        `json:"fail_count"`
	Plan         string     `json:"plan,omitempty"`
	PlanTS       *time.Time `json:"plan_ts,omitempty"`
	Context      DayContext `json:"context,omitempty"`
	Events       []Event    `json:"events,omitempty"`
}

// NewDayRecord returns the default record for a day that has no state yet.
func NewDayRecord(day string) DayRecord {
	return DayRecord{
		Day:          day,
		Mode:         ModeWork,
		NeedFollowup: true,
	}
}

// AppendEvent adds an audit entry. Only the read-side summary consumes these.
func (r *DayRecord) AppendEvent(ts time.Time, typ, value, text string) {
	r.Events = append(r.Events, Event{TS: ts, Type: typ, Value: value, Text: text})
}

// SetContext records the no-work reason. First write wins for the day.
func (r *DayRecord) SetContext(c DayContext) {
	if r.Context == "" {
		r.Context = c
	}
}
