package flow

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"telegram-anchor-bot/internal/messages"
	"telegram-anchor-bot/internal/models"
	"telegram-anchor-bot/internal/nudge"
)

// maxNoProgressStrikes closes the day after this many consecutive
// "no progress" nudge answers.
const maxNoProgressStrikes = 2

// continueNudgeMinutes is the fixed follow-up interval after "keep going".
const continueNudgeMinutes = 60

// Default auto-scheduled delays per waiting state, overridden by the
// keyword heuristic in nudge.ChooseDelay.
const (
	defaultPartialPlanMinutes = 30
	defaultStuckMinutes       = 20
	defaultFearMinutes        = 15
	defaultBulletsMinutes     = 15
)

// Engine applies conversation transitions to the current day's record and
// produces rendering instructions. It never talks to Telegram directly.
type Engine struct {
	store   Store
	nudger  Nudger
	journal Journal
	log     *slog.Logger
	now     func() time.Time
}

func NewEngine(store Store, nudger Nudger, journal Journal, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		store:   store,
		nudger:  nudger,
		journal: journal,
		log:     log,
		now:     time.Now,
	}
}

// Dispatch routes one decoded button press. Unknown domains and unknown
// values are deliberate no-ops: no mutation, no reply.
func (e *Engine) Dispatch(chatID int64, sig models.Signal) ([]Reply, error) {
	switch sig.Domain {
	case models.DomainMode:
		return e.HandleMode(chatID, sig.Value)
	case models.DomainWorked:
		return e.HandleWorked(chatID, sig.Value)
	case models.DomainNoReason:
		return e.HandleNoReason(chatID, sig.Value)
	case models.DomainBigAction:
		return e.HandleBigAction(chatID, sig.Value)
	case models.DomainYesNext:
		return e.HandleYesNext(chatID, sig.Value)
	case models.DomainNudge:
		return e.HandleNudgeProgress(chatID, sig.Value)
	default:
		e.log.Warn("unknown signal ignored", "chat_id", chatID, "token", sig.Value)
		return nil, nil
	}
}

// ModePrompt renders the morning "what kind of day" question.
func (e *Engine) ModePrompt() Reply {
	return reply(messages.Morning, KbDayMode())
}

// CheckinPrompt renders a check-in question for the daily clock or /checkin.
func (e *Engine) CheckinPrompt(text string) Reply {
	return reply(text, kbWorked())
}

// HandleMode records the day's mode and immediately asks the first check-in.
func (e *Engine) HandleMode(chatID int64, value string) ([]Reply, error) {
	mode := models.Mode(value)
	if mode != models.ModeKid && mode != models.ModeWork {
		e.log.Warn("unknown mode ignored", "chat_id", chatID, "value", value)
		return nil, nil
	}

	_, err := e.store.Mutate(e.store.Today(), func(r *models.DayRecord) {
		r.Mode = mode
		r.AppendEvent(e.now(), "mode_set", value, "")
	})
	if err != nil {
		return nil, err
	}
	e.log.Info("mode set", "chat_id", chatID, "mode", mode)

	confirm := messages.ModeWorkConfirmed
	if mode == models.ModeKid {
		confirm = messages.ModeKidConfirmed
	}
	return []Reply{
		edit(confirm, nil),
		reply(messages.ModeFirstCheckin, kbWorked()),
	}, nil
}

// HandleWorked consumes a check-in answer.
func (e *Engine) HandleWorked(chatID int64, value string) ([]Reply, error) {
	worked := models.Worked(value)
	switch worked {
	case models.WorkedYes, models.WorkedPartial, models.WorkedNo:
	default:
		e.log.Warn("unknown check-in answer ignored", "chat_id", chatID, "value", value)
		return nil, nil
	}

	_, err := e.store.Mutate(e.store.Today(), func(r *models.DayRecord) {
		ts := e.now()
		r.Worked = worked
		r.WorkedTS = &ts
		r.AppendEvent(ts, "checkin_answer", value, "")

		switch worked {
		case models.WorkedYes:
			r.NeedFollowup = false
			r.FailCount = 0
			r.WaitingFor = models.WaitingYesWhatDid
		case models.WorkedPartial:
			r.NeedFollowup = true
			r.FailCount = 0
			r.WaitingFor = models.WaitingPartialPlan
		case models.WorkedNo:
			r.NeedFollowup = true
		}
	})
	if err != nil {
		return nil, err
	}
	e.log.Info("check-in answered", "chat_id", chatID, "worked", worked)

	switch worked {
	case models.WorkedYes:
		return []Reply{edit(messages.WorkedYes, nil)}, nil
	case models.WorkedPartial:
		return []Reply{edit(messages.WorkedPartial, nil)}, nil
	default:
		return []Reply{edit(messages.WorkedNo, kbNoReason())}, nil
	}
}

// HandleNoReason consumes the "why not" choice after a "no" check-in.
func (e *Engine) HandleNoReason(chatID int64, value string) ([]Reply, error) {
	var (
		ctx     models.DayContext
		waiting models.Waiting
		out     Reply
	)
	switch value {
	case "big":
		ctx = models.ContextOverwhelmed
		out = edit(messages.ReasonBig, kbBigAction())
	case "stuck":
		ctx = models.ContextStuck
		waiting = models.WaitingStuckFirstStep
		out = edit(messages.ReasonStuck, nil)
	case "fear":
		ctx = models.ContextFear
		waiting = models.WaitingFearReframe
		out = edit(messages.ReasonFear, nil)
	default:
		e.log.Warn("unknown reason ignored", "chat_id", chatID, "value", value)
		return nil, nil
	}

	_, err := e.store.Mutate(e.store.Today(), func(r *models.DayRecord) {
		r.SetContext(ctx)
		r.AppendEvent(e.now(), "context", string(ctx), "")
		if waiting != models.WaitingNone {
			r.WaitingFor = waiting
		}
	})
	if err != nil {
		return nil, err
	}
	e.log.Info("no-work reason recorded", "chat_id", chatID, "context", ctx)
	return []Reply{out}, nil
}

// HandleBigAction consumes the 2-minute offer for an overwhelming task.
func (e *Engine) HandleBigAction(chatID int64, value string) ([]Reply, error) {
	switch value {
	case "skip":
		// Terminal for this sub-flow, message only.
		return []Reply{edit(messages.BigActionSkip, nil)}, nil
	case "do2":
		_, err := e.store.Mutate(e.store.Today(), func(r *models.DayRecord) {
			r.WaitingFor = models.WaitingBigThreeBullets
			r.AppendEvent(e.now(), "big_action", "do2", "")
		})
		if err != nil {
			return nil, err
		}
		return []Reply{edit(messages.BigActionDo, nil)}, nil
	default:
		e.log.Warn("unknown big-action choice ignored", "chat_id", chatID, "value", value)
		return nil, nil
	}
}

// HandleYesNext consumes the continue / close / flow choice.
func (e *Engine) HandleYesNext(chatID int64, value string) ([]Reply, error) {
	switch value {
	case "close":
		if err := e.closeDay(chatID); err != nil {
			return nil, err
		}
		return []Reply{edit(messages.CloseForDay, nil)}, nil

	case "flow":
		if err := e.enterFlow(chatID); err != nil {
			return nil, err
		}
		return []Reply{edit(messages.InFlowConfirmed, nil)}, nil

	case "continue":
		_, err := e.store.Mutate(e.store.Today(), func(r *models.DayRecord) {
			r.NeedFollowup = true
			r.AppendEvent(e.now(), "continue", "true", "")
		})
		if err != nil {
			return nil, err
		}
		if err := e.nudger.Schedule(chatID, continueNudgeMinutes); err != nil {
			return nil, fmt.Errorf("schedule continue nudge: %w", err)
		}
		e.log.Info("continuing", "chat_id", chatID, "minutes", continueNudgeMinutes)
		return []Reply{edit(messages.Continue60Min, nil)}, nil

	default:
		e.log.Warn("unknown next choice ignored", "chat_id", chatID, "value", value)
		return nil, nil
	}
}

// HandleNudgeProgress consumes the answer to a fired nudge.
func (e *Engine) HandleNudgeProgress(chatID int64, value string) ([]Reply, error) {
	switch value {
	case "flow":
		if err := e.enterFlow(chatID); err != nil {
			return nil, err
		}
		return []Reply{edit(messages.InFlowConfirmed, nil)}, nil

	case "yes", "partial":
		_, err := e.store.Mutate(e.store.Today(), func(r *models.DayRecord) {
			r.FailCount = 0
			r.AppendEvent(e.now(), "nudge_progress", value, "")
		})
		if err != nil {
			return nil, err
		}
		if value == "yes" {
			return []Reply{edit(messages.NudgeYesProgress, kbYesNext())}, nil
		}
		return []Reply{edit(messages.NudgePartialProgress, kbPartialNext())}, nil

	case "no":
		rec, err := e.store.Mutate(e.store.Today(), func(r *models.DayRecord) {
			r.FailCount++
			r.AppendEvent(e.now(), "nudge_progress", value, "")
			if r.FailCount >= maxNoProgressStrikes {
				r.Done = true
				r.NeedFollowup = false
				r.WaitingFor = models.WaitingNone
			} else {
				r.WaitingFor = models.WaitingPartialPlan
			}
		})
		if err != nil {
			return nil, err
		}
		if rec.Done {
			e.log.Info("day released after repeated no-progress", "chat_id", chatID, "fail_count", rec.FailCount)
			return []Reply{edit(messages.NudgeGiveUp, nil)}, nil
		}
		return []Reply{edit(messages.NudgeNoProgress, nil)}, nil

	default:
		e.log.Warn("unknown nudge answer ignored", "chat_id", chatID, "value", value)
		return nil, nil
	}
}

// HandleFreeText dispatches a text message to the waiting handler, or records
// it as an unstructured note when nothing is waiting.
func (e *Engine) HandleFreeText(chatID int64, text string) ([]Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	rec, err := e.store.Get(e.store.Today())
	if err != nil {
		return nil, err
	}

	switch rec.WaitingFor {
	case models.WaitingYesWhatDid:
		_, err := e.store.Mutate(e.store.Today(), func(r *models.DayRecord) {
			e.setPlan(r, text)
			r.AppendEvent(e.now(), "did", "", text)
			r.WaitingFor = models.WaitingNone
		})
		if err != nil {
			return nil, err
		}
		return []Reply{reply(messages.YesWhatDidReceived, kbYesNext())}, nil

	case models.WaitingPartialPlan:
		mins, err := e.recordPlanAndSchedule(chatID, text, "plan", defaultPartialPlanMinutes)
		if err != nil {
			return nil, err
		}
		return []Reply{reply(messages.PlanReceived(mins), nil)}, nil

	case models.WaitingStuckFirstStep:
		mins, err := e.recordPlanAndSchedule(chatID, text, "first_action", defaultStuckMinutes)
		if err != nil {
			return nil, err
		}
		return []Reply{reply(messages.StuckReceived(mins), nil)}, nil

	case models.WaitingFearReframe:
		mins, err := e.recordPlanAndSchedule(chatID, text, "fear_reframe", defaultFearMinutes)
		if err != nil {
			return nil, err
		}
		return []Reply{reply(messages.FearReframeReceived(mins), nil)}, nil

	case models.WaitingBigThreeBullets:
		mins, err := e.recordPlanAndSchedule(chatID, text, "bullets", defaultBulletsMinutes)
		if err != nil {
			return nil, err
		}
		return []Reply{reply(messages.BulletsReceived(mins), nil)}, nil

	case models.WaitingJournalAdd:
		appendErr := e.journal.Append(text)
		if _, err := e.store.Mutate(e.store.Today(), func(r *models.DayRecord) {
			r.WaitingFor = models.WaitingNone
		}); err != nil {
			return nil, err
		}
		if appendErr != nil {
			e.log.Error("journal append failed", "err", appendErr)
			return []Reply{reply(messages.JournalAddError, nil)}, nil
		}
		return []Reply{reply(messages.JournalAddSuccess, nil)}, nil

	case models.WaitingNone:
		_, err := e.store.Mutate(e.store.Today(), func(r *models.DayRecord) {
			r.AppendEvent(e.now(), "free_note", "", text)
		})
		if err != nil {
			return nil, err
		}
		return []Reply{reply(messages.FreeNoteSaved, nil)}, nil

	default:
		e.log.Warn("unknown waiting state ignored", "chat_id", chatID, "waiting_for", rec.WaitingFor)
		return nil, nil
	}
}

// recordPlanAndSchedule captures free text as the day's plan, clears the
// waiting state, derives a delay from the text and arms a nudge. A scheduler
// failure propagates; a silently dropped nudge would break the day's flow.
func (e *Engine) recordPlanAndSchedule(chatID int64, text, eventName string, defaultMinutes int) (int, error) {
	mins := nudge.ChooseDelay(text, defaultMinutes)

	_, err := e.store.Mutate(e.store.Today(), func(r *models.DayRecord) {
		e.setPlan(r, text)
		r.AppendEvent(e.now(), eventName, "", text)
		r.AppendEvent(e.now(), "nudge_scheduled", fmt.Sprintf("%d", mins), "")
		r.WaitingFor = models.WaitingNone
	})
	if err != nil {
		return 0, err
	}
	if err := e.nudger.Schedule(chatID, mins); err != nil {
		return 0, fmt.Errorf("schedule nudge: %w", err)
	}
	e.log.Info("plan recorded", "chat_id", chatID, "event", eventName, "minutes", mins)
	return mins, nil
}

func (e *Engine) setPlan(r *models.DayRecord, text string) {
	ts := e.now()
	r.Plan = text
	r.PlanTS = &ts
}

func (e *Engine) closeDay(chatID int64) error {
	_, err := e.store.Mutate(e.store.Today(), func(r *models.DayRecord) {
		r.Done = true
		r.NeedFollowup = false
		r.WaitingFor = models.WaitingNone
		r.AppendEvent(e.now(), "closed", "true", "")
	})
	if err != nil {
		return err
	}
	e.nudger.Cancel(chatID)
	e.log.Info("day closed", "chat_id", chatID)
	return nil
}

func (e *Engine) enterFlow(chatID int64) error {
	_, err := e.store.Mutate(e.store.Today(), func(r *models.DayRecord) {
		r.NeedFollowup = false
		r.AppendEvent(e.now(), "in_flow", "true", "")
	})
	if err != nil {
		return err
	}
	e.nudger.Cancel(chatID)
	e.log.Info("in flow, nudges off", "chat_id", chatID)
	return nil
}
