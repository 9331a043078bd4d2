// Package nudge schedules the one-shot "did you make progress?" follow-ups.
package nudge

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Keyword sets for ChooseDelay, checked in this exact order. A "flow" phrase
// wins over a literal "10" even when both match, so the 30-minute set is
// checked first despite the 5-minute set being the smallest value.
var (
	keywords30 = []string{"30", "half an hour", "halfway", "in the middle", "flow", "immersed"}
	keywords5  = []string{"2", "two", "just open", "bullet", "tiny", "quick look"}
	keywords10 = []string{"10", "ten", "start", "continue", "keep going"}
)

// ChooseDelay derives a nudge delay in minutes from the user's free text.
// Precedence is 30 → 5 → 10, first match wins; defaultMinutes when nothing
// matches.
func ChooseDelay(freeText string, defaultMinutes int) int {
	t := strings.ToLower(freeText)

	for _, k := range keywords30 {
		if strings.Contains(t, k) {
			return 30
		}
	}
	for _, k := range keywords5 {
		if strings.Contains(t, k) {
			return 5
		}
	}
	for _, k := range keywords10 {
		if strings.Contains(t, k) {
			return 10
		}
	}
	return defaultMinutes
}

// FireFunc delivers the progress prompt. It runs on the timer goroutine and
// must re-validate the chat's day state at fire time, not schedule time.
type FireFunc func(chatID int64, minutes int)

type pending struct {
	timer   clockwork.Timer
	day     string
	minutes int
}

// Scheduler arms at most one live timer per chat. Nudge identity is anchored
// to the chat: Cancel stops whatever timer is pending for that chat even when
// it was armed on the previous calendar day.
type Scheduler struct {
	clock clockwork.Clock
	fire  FireFunc
	log   *slog.Logger

	mu      sync.Mutex
	pending map[int64]*pending
}

func NewScheduler(clock clockwork.Clock, fire FireFunc, log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{
		clock:   clock,
		fire:    fire,
		log:     log,
		pending: make(map[int64]*pending),
	}
}

// Schedule cancels any pending nudge for the chat and arms a new one-shot
// timer for max(1, minutes) minutes.
func (s *Scheduler) Schedule(chatID int64, minutes int) error {
	if s.fire == nil {
		return fmt.Errorf("nudge scheduler has no fire callback configured")
	}
	if minutes < 1 {
		minutes = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.pending[chatID]; ok {
		p.timer.Stop()
		delete(s.pending, chatID)
	}

	day := s.clock.Now().Format("2006-01-02")
	mins := minutes
	timer := s.clock.AfterFunc(time.Duration(minutes)*time.Minute, func() {
		s.mu.Lock()
		if p, ok := s.pending[chatID]; ok && p.day == day {
			delete(s.pending, chatID)
		}
		s.mu.Unlock()
		s.fire(chatID, mins)
	})
	s.pending[chatID] = &pending{timer: timer, day: day, minutes: minutes}

	s.log.Info("nudge scheduled", "chat_id", chatID, "minutes", minutes, "day", day)
	return nil
}

// Cancel removes the chat's pending nudge if one exists. Idempotent; a timer
// whose callback already started cannot be stopped.
func (s *Scheduler) Cancel(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pending[chatID]
	if !ok {
		return
	}
	p.timer.Stop()
	delete(s.pending, chatID)
	s.log.Info("nudge cancelled", "chat_id", chatID, "day", p.day)
}

// Pending reports whether the chat has a live nudge timer.
func (s *Scheduler) Pending(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[chatID]
	return ok
}
