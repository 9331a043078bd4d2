// Package summary renders the read-only end-of-day report from the event log.
package summary

import (
	"fmt"
	"strings"

	"telegram-anchor-bot/internal/messages"
	"telegram-anchor-bot/internal/models"
)

// Render builds the daily summary text. Read-only: it never mutates the
// record. empty reports whether the day has any recorded activity at all.
func Render(rec models.DayRecord) string {
	if empty(rec) {
		return messages.SummaryNoData
	}

	lines := []string{messages.SummaryHeader, ""}

	if rec.Mode == models.ModeKid {
		lines = append(lines, messages.SummaryModeKid)
	} else {
		lines = append(lines, messages.SummaryModeWork)
	}
	lines = append(lines, "")

	switch rec.Worked {
	case models.WorkedYes:
		lines = append(lines, messages.SummaryWorkedYes)
	case models.WorkedPartial:
		lines = append(lines, messages.SummaryWorkedPartial)
	case models.WorkedNo:
		lines = append(lines, messages.SummaryWorkedNo)
	}

	if len(rec.Events) > 0 {
		lines = append(lines, "", messages.SummaryEventsHeader)
		for _, ev := range rec.Events {
			if line := eventLine(ev); line != "" {
				lines = append(lines, line)
			}
		}
	}

	if rec.Plan != "" {
		lines = append(lines, "", messages.SummaryLastPlan+" "+rec.Plan)
	}

	lines = append(lines, "")
	if rec.Done {
		lines = append(lines, messages.SummaryDayDone)
	} else {
		lines = append(lines, messages.SummaryDayOpen)
	}

	if rec.FailCount > 0 {
		lines = append(lines, fmt.Sprintf("⚠️ Stalled attempts: %d", rec.FailCount))
	}

	return strings.Join(lines, "\n")
}

func empty(rec models.DayRecord) bool {
	return rec.Worked == "" && len(rec.Events) == 0 && rec.Plan == "" && !rec.Done
}

func eventLine(ev models.Event) string {
	t := ev.TS.Format("15:04")

	switch ev.Type {
	case "checkin_answer":
		switch ev.Value {
		case "yes":
			return fmt.Sprintf("  • %s ✅ answered: worked", t)
		case "partial":
			return fmt.Sprintf("  • %s 🤏 answered: worked partially", t)
		default:
			return fmt.Sprintf("  • %s ❌ answered: didn't work", t)
		}
	case "did":
		return fmt.Sprintf("  • %s 💪 what you did: %s", t, ev.Text)
	case "plan":
		return fmt.Sprintf("  • %s 📋 plan: %s", t, ev.Text)
	case "first_action":
		return fmt.Sprintf("  • %s 🚀 first action: %s", t, ev.Text)
	case "fear_reframe":
		return fmt.Sprintf("  • %s 💙 fear reframed: %s", t, ev.Text)
	case "bullets":
		return fmt.Sprintf("  • %s 📌 3 bullets: %s", t, ev.Text)
	case "context":
		switch ev.Value {
		case "overwhelmed":
			return fmt.Sprintf("  • %s 😰 felt overwhelmed, the task was too big", t)
		case "stuck":
			return fmt.Sprintf("  • %s 🤔 felt stuck, no obvious starting point", t)
		case "fear":
			return fmt.Sprintf("  • %s 😨 fear of not being good enough", t)
		}
	case "big_action":
		if ev.Value == "do2" {
			return fmt.Sprintf("  • %s ⏱️ agreed to a 2-minute start", t)
		}
	case "nudge_scheduled":
		return fmt.Sprintf("  • %s ⏰ follow-up set for %s minutes", t, ev.Value)
	case "closed":
		return fmt.Sprintf("  • %s 🏁 you closed the day", t)
	case "continue":
		return fmt.Sprintf("  • %s ▶️ you chose to keep going", t)
	case "in_flow":
		return fmt.Sprintf("  • %s 🌊 in flow, pings off", t)
	case "free_note":
		return fmt.Sprintf("  • %s 💭 note: %s", t, ev.Text)
	case "mode_set":
		// Already shown at the top.
	}
	return ""
}
