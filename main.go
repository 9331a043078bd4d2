package main

import (
	"log/slog"
	"os"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/lmittmann/tint"

	"telegram-anchor-bot/internal/beautify"
	"telegram-anchor-bot/internal/config"
	"telegram-anchor-bot/internal/flow"
	"telegram-anchor-bot/internal/handlers"
	"telegram-anchor-bot/internal/journal"
	"telegram-anchor-bot/internal/nudge"
	"telegram-anchor-bot/internal/scheduler"
	"telegram-anchor-bot/internal/storage"
	"telegram-anchor-bot/internal/utils"
)

func main() {
	_ = godotenv.Load() // BOT_TOKEN, OWNER_USER_ID etc.

	log := slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelInfo}))
	slog.SetDefault(log)

	cfg, err := config.Load()
	utils.Must(err)

	loc, err := time.LoadLocation(cfg.Timezone)
	utils.Must(err)

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	utils.Must(err)
	log.Info("bot authorized", "username", bot.Self.UserName)

	db, err := storage.New(cfg.DBPath, loc)
	utils.Must(err)

	var pretty beautify.Beautifier = beautify.Noop{}
	if cfg.UseBeautifier {
		model, err := beautify.NewModel(cfg.AnthropicAPIKey, cfg.BeautifierModel)
		utils.Must(err)
		pretty = model
		log.Info("beautifier enabled", "model", cfg.BeautifierModel)
	}

	h := &handlers.Handler{
		Bot:     bot,
		DB:      db,
		Journal: journal.New(cfg.JournalPath),
		Pretty:  pretty,
		OwnerID: cfg.OwnerID,
		Log:     log,
	}

	nudger := nudge.NewScheduler(clockwork.NewRealClock(), h.SendNudge, log)
	h.Engine = flow.NewEngine(db, nudger, h.Journal, log)

	clock := scheduler.New(scheduler.Config{
		ChatID:      cfg.OwnerID,
		Location:    loc,
		MorningAt:   cfg.MorningAt,
		MiddayAt:    cfg.MiddayAt,
		AfternoonAt: cfg.AfternoonAt,
		SummaryAt:   cfg.SummaryAt,
		Weekend:     cfg.Weekend,
	}, db, h.Engine, h, log)
	_, err = clock.Start()
	utils.Must(err)

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60

	updates := bot.GetUpdatesChan(updateConfig)
	log.Info("listening for updates")

	for upd := range updates {
		if upd.Message != nil {
			if upd.Message.IsCommand() {
				h.HandleCommand(upd.Message)
				continue
			}
			h.HandleText(upd.Message)
		}
		if upd.CallbackQuery != nil {
			h.HandleCallback(upd.CallbackQuery)
		}
	}
}
