package handlers

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-anchor-bot/internal/flow"
	"telegram-anchor-bot/internal/messages"
	"telegram-anchor-bot/internal/models"
	"telegram-anchor-bot/internal/summary"
)

// telegram caps messages at 4096 chars; chunk journal dumps below that.
const journalChunkSize = 4000

func (h *Handler) HandleCommand(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if msg.From != nil && h.rejectNonOwner(msg.From.ID, chatID) {
		return
	}

	switch msg.Command() {
	case "start":
		h.sendPlain(chatID, messages.StartMessage)
		h.render(chatID, 0, []flow.Reply{{Text: messages.StartModeQuestion, Buttons: flow.KbDayMode()}})

	case "checkin":
		h.render(chatID, 0, []flow.Reply{h.Engine.CheckinPrompt(messages.CheckinManual)})

	case "summary":
		rec, err := h.DB.Get(h.DB.Today())
		if err != nil {
			h.Log.Error("summary: read day state", "err", err)
			h.sendPlain(chatID, messages.GenericError)
			return
		}
		h.render(chatID, 0, []flow.Reply{{Text: summary.Render(rec), Verbatim: true, Markdown: true}})

	case "journal":
		h.handleJournal(chatID)

	case "journal_add":
		_, err := h.DB.Mutate(h.DB.Today(), func(r *models.DayRecord) {
			r.WaitingFor = models.WaitingJournalAdd
		})
		if err != nil {
			h.Log.Error("journal_add: set waiting", "err", err)
			h.sendPlain(chatID, messages.GenericError)
			return
		}
		h.sendPlain(chatID, messages.JournalAddPrompt)

	case "journal_info":
		info, err := h.Journal.Info()
		if err != nil {
			h.Log.Error("journal info", "err", err)
			h.sendPlain(chatID, messages.GenericError)
			return
		}
		h.sendPlain(chatID, info)
	}
}

func (h *Handler) handleJournal(chatID int64) {
	content, err := h.Journal.Read()
	if err != nil {
		h.Log.Error("journal read", "err", err)
		h.sendPlain(chatID, messages.GenericError)
		return
	}
	if content == "" {
		h.sendPlain(chatID, messages.JournalEmpty)
		return
	}

	if len(content) <= journalChunkSize {
		h.sendPlain(chatID, "📓 Personal journal:\n\n"+content)
		return
	}
	for i := 0; i < len(content); i += journalChunkSize {
		end := min(i+journalChunkSize, len(content))
		chunk := content[i:end]
		if i == 0 {
			chunk = "📓 Personal journal:\n\n" + chunk
		}
		h.sendPlain(chatID, chunk)
	}
}
