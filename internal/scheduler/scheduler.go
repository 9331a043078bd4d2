// Package scheduler runs the four fixed daily jobs: morning mode prompt,
// two check-ins, and the evening summary.
package scheduler

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"telegram-anchor-bot/internal/flow"
	"telegram-anchor-bot/internal/messages"
	"telegram-anchor-bot/internal/models"
	"telegram-anchor-bot/internal/summary"
)

// Stage identifies one of the fixed daily triggers.
type Stage string

const (
	StageMorning   Stage = "morning"
	StageMidday    Stage = "midday"
	StageAfternoon Stage = "afternoon"
	StageSummary   Stage = "summary"
)

// Sender delivers a rendered reply to the chat.
type Sender interface {
	SendReply(chatID int64, r flow.Reply) error
}

// Config holds the clock's fixed times ("HH:MM", local to Location) and the
// weekend weekdays that suppress everything.
type Config struct {
	ChatID      int64
	Location    *time.Location
	MorningAt   string
	MiddayAt    string
	AfternoonAt string
	SummaryAt   string
	Weekend     []time.Weekday
}

// Clock wires the daily jobs onto a gocron scheduler.
type Clock struct {
	cfg    Config
	store  flow.Store
	engine *flow.Engine
	send   Sender
	log    *slog.Logger
}

func New(cfg Config, store flow.Store, engine *flow.Engine, send Sender, log *slog.Logger) *Clock {
	if log == nil {
		log = slog.Default()
	}
	return &Clock{cfg: cfg, store: store, engine: engine, send: send, log: log}
}

// Start registers the four daily jobs and starts the scheduler.
func (c *Clock) Start() (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler(gocron.WithLocation(c.cfg.Location))
	if err != nil {
		return nil, err
	}

	stages := []struct {
		stage Stage
		at    string
	}{
		{StageMorning, c.cfg.MorningAt},
		{StageMidday, c.cfg.MiddayAt},
		{StageAfternoon, c.cfg.AfternoonAt},
		{StageSummary, c.cfg.SummaryAt},
	}
	for _, st := range stages {
		hh, mm, err := parseAt(st.at)
		if err != nil {
			return nil, fmt.Errorf("stage %s: %w", st.stage, err)
		}
		stage := st.stage
		_, err = s.NewJob(
			gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(hh, mm, 0))),
			gocron.NewTask(func() { c.run(stage) }),
		)
		if err != nil {
			return nil, fmt.Errorf("register stage %s: %w", st.stage, err)
		}
		c.log.Info("daily job registered", "stage", st.stage, "at", st.at)
	}

	s.Start()
	return s, nil
}

func (c *Clock) run(stage Stage) {
	rec, err := c.store.Get(c.store.Today())
	if err != nil {
		c.log.Error("daily job: read day state", "stage", stage, "err", err)
		return
	}

	weekday := time.Now().In(c.cfg.Location).Weekday()
	if Suppressed(stage, rec, weekday, c.cfg.Weekend) {
		c.log.Debug("daily job suppressed", "stage", stage, "weekday", weekday,
			"done", rec.Done, "mode", rec.Mode, "need_followup", rec.NeedFollowup)
		return
	}

	var out flow.Reply
	switch stage {
	case StageMorning:
		out = c.engine.ModePrompt()
	case StageMidday:
		out = c.engine.CheckinPrompt(messages.CheckinMidday)
	case StageAfternoon:
		out = c.engine.CheckinPrompt(messages.CheckinAfternoon)
	case StageSummary:
		out = flow.Reply{Text: summary.Render(rec), Verbatim: true, Markdown: true}
	}

	if err := c.send.SendReply(c.cfg.ChatID, out); err != nil {
		c.log.Error("daily job: send", "stage", stage, "err", err)
		return
	}
	c.log.Info("daily job sent", "stage", stage)
}

// Suppressed applies the firing policy in order: weekend silences every
// stage; done, kid mode (late afternoon only) and a cleared follow-up flag
// silence only the two check-ins. The morning prompt and the summary report
// regardless of the day's completion state.
func Suppressed(stage Stage, rec models.DayRecord, weekday time.Weekday, weekend []time.Weekday) bool {
	for _, w := range weekend {
		if weekday == w {
			return true
		}
	}

	if stage == StageMidday || stage == StageAfternoon {
		if rec.Done {
			return true
		}
		if stage == StageAfternoon && rec.Mode == models.ModeKid {
			return true
		}
		if !rec.NeedFollowup {
			return true
		}
	}
	return false
}

func parseAt(s string) (uint, uint, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("bad time of day %q: %w", s, err)
	}
	return uint(t.Hour()), uint(t.Minute()), nil
}
