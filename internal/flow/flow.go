// Package flow implements the per-day conversation state machine.
package flow

import (
	"telegram-anchor-bot/internal/models"
)

// Store is the day-record persistence the engine drives. Get never errors on
// absence; Mutate persists synchronously before returning.
type Store interface {
	Get(day string) (models.DayRecord, error)
	Mutate(day string, fn func(*models.DayRecord)) (models.DayRecord, error)
	Today() string
}

// Nudger arms and cancels the single pending follow-up timer per chat.
type Nudger interface {
	Schedule(chatID int64, minutes int) error
	Cancel(chatID int64)
}

// Journal is the append-only personal journal file.
type Journal interface {
	Append(text string) error
}

// Button is one inline choice. Data is the callback token the press echoes
// back ("worked:yes" and friends).
type Button struct {
	Label string
	Data  string
}

// Reply is a rendering instruction for the transport. Edit asks the adapter
// to rewrite the message that carried the pressed button instead of sending
// a new one. Verbatim skips the beautifier (reports, journal dumps);
// Markdown requests Telegram markdown parsing.
type Reply struct {
	Text     string
	Buttons  [][]Button
	Edit     bool
	Verbatim bool
	Markdown bool
}

func reply(text string, buttons [][]Button) Reply {
	return Reply{Text: text, Buttons: buttons}
}

func edit(text string, buttons [][]Button) Reply {
	return Reply{Text: text, Buttons: buttons, Edit: true}
}
