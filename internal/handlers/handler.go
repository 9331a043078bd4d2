package handlers

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-anchor-bot/internal/beautify"
	"telegram-anchor-bot/internal/flow"
	"telegram-anchor-bot/internal/journal"
	"telegram-anchor-bot/internal/messages"
	"telegram-anchor-bot/internal/models"
	"telegram-anchor-bot/internal/storage"
)

// Handler adapts Telegram updates to the flow engine and renders its replies.
type Handler struct {
	Bot     *tgbotapi.BotAPI
	DB      *storage.DB
	Engine  *flow.Engine
	Journal *journal.Journal
	Pretty  beautify.Beautifier
	OwnerID int64
	Log     *slog.Logger
}

// ------------- callbacks ------------------

func (h *Handler) HandleCallback(cq *tgbotapi.CallbackQuery) {
	// Always answer so the client drops its 'loading…' spinner.
	defer func() { _, _ = h.Bot.Request(tgbotapi.NewCallback(cq.ID, "")) }()

	if cq.Message == nil {
		return
	}
	chatID := cq.Message.Chat.ID
	if h.rejectNonOwner(cq.From.ID, chatID) {
		return
	}

	sig := models.ParseSignal(cq.Data)
	replies, err := h.Engine.Dispatch(chatID, sig)
	if err != nil {
		h.Log.Error("callback failed", "token", cq.Data, "err", err)
		h.sendPlain(chatID, messages.GenericError)
		return
	}
	h.render(chatID, cq.Message.MessageID, replies)
}

// ------------- text -----------------------

func (h *Handler) HandleText(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if msg.From != nil && h.rejectNonOwner(msg.From.ID, chatID) {
		return
	}
	text := msg.Text
	if text == "" {
		return
	}

	replies, err := h.Engine.HandleFreeText(chatID, text)
	if err != nil {
		h.Log.Error("free text failed", "err", err)
		h.sendPlain(chatID, messages.GenericError)
		return
	}
	h.render(chatID, 0, replies)
}

// ------------- nudge delivery -------------

// SendNudge is the nudge scheduler's fire callback. State is re-validated
// here, at fire time: a day closed or set to flow after scheduling stays
// quiet even though the timer still fired.
func (h *Handler) SendNudge(chatID int64, minutes int) {
	rec, err := h.DB.Get(h.DB.Today())
	if err != nil {
		h.Log.Error("nudge fire: read day state", "chat_id", chatID, "err", err)
		return
	}
	if rec.Done || !rec.NeedFollowup {
		h.Log.Info("nudge fire skipped", "chat_id", chatID, "done", rec.Done, "need_followup", rec.NeedFollowup)
		return
	}
	h.render(chatID, 0, []flow.Reply{{
		Text:    messages.NudgeMessage(minutes),
		Buttons: flow.KbNudgeProgress(),
	}})
}

// SendReply implements the daily clock's Sender.
func (h *Handler) SendReply(chatID int64, r flow.Reply) error {
	return h.sendOne(chatID, 0, r)
}

// ------------- rendering ------------------

func (h *Handler) render(chatID int64, editableMsgID int, replies []flow.Reply) {
	for _, r := range replies {
		if err := h.sendOne(chatID, editableMsgID, r); err != nil {
			h.Log.Error("send reply", "chat_id", chatID, "err", err)
		}
	}
}

func (h *Handler) sendOne(chatID int64, editableMsgID int, r flow.Reply) error {
	text := r.Text
	if !r.Verbatim {
		text = h.beautify(text)
	}

	if r.Edit && editableMsgID != 0 {
		if kb := inlineKeyboard(r.Buttons); kb != nil {
			_, err := h.Bot.Send(tgbotapi.NewEditMessageTextAndMarkup(chatID, editableMsgID, text, *kb))
			return err
		}
		_, err := h.Bot.Send(tgbotapi.NewEditMessageText(chatID, editableMsgID, text))
		return err
	}

	msg := tgbotapi.NewMessage(chatID, text)
	if kb := inlineKeyboard(r.Buttons); kb != nil {
		msg.ReplyMarkup = kb
	}
	if r.Markdown {
		msg.ParseMode = tgbotapi.ModeMarkdown
	}
	_, err := h.Bot.Send(msg)
	return err
}

func (h *Handler) sendPlain(chatID int64, text string) {
	if _, err := h.Bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		h.Log.Error("send", "chat_id", chatID, "err", err)
	}
}

// beautify rewrites copy when the beautifier is enabled; any failure falls
// back to the template.
func (h *Handler) beautify(text string) string {
	if h.Pretty == nil {
		return text
	}
	out, err := h.Pretty.Rewrite(context.Background(), text, "")
	if err != nil {
		h.Log.Warn("beautifier fallback", "err", err)
		return text
	}
	return out
}

func inlineKeyboard(rows [][]flow.Button) *tgbotapi.InlineKeyboardMarkup {
	if len(rows) == 0 {
		return nil
	}
	var kbRows [][]tgbotapi.InlineKeyboardButton
	for _, row := range rows {
		var btns []tgbotapi.InlineKeyboardButton
		for _, b := range row {
			btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Data))
		}
		kbRows = append(kbRows, btns)
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(kbRows...)
	return &kb
}

// ------------- auth -----------------------

// rejectNonOwner enforces the single-principal policy. A stranger gets one
// polite notice, then silence.
func (h *Handler) rejectNonOwner(userID, chatID int64) bool {
	if userID == h.OwnerID {
		return false
	}
	if h.DB.HasNotified(userID) {
		return true
	}
	if err := h.DB.MarkNotified(userID); err != nil {
		h.Log.Error("mark notified", "user_id", userID, "err", err)
	}
	h.sendPlain(chatID, messages.NonOwnerNotice)
	h.Log.Warn("rejected non-owner", "user_id", userID)
	return true
}
