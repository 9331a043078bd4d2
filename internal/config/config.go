package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	TelegramToken string
	OwnerID       int64

	Timezone    string
	DBPath      string
	JournalPath string

	MorningAt   string // "HH:MM"
	MiddayAt    string
	AfternoonAt string
	SummaryAt   string
	Weekend     []time.Weekday

	UseBeautifier   bool
	AnthropicAPIKey string
	BeautifierModel string
}

func Load() (Config, error) {
	token := getBotToken()
	if token == "" {
		return Config{}, fmt.Errorf("bot token not found: neither Docker secret nor BOT_TOKEN is set")
	}

	ownerRaw := strings.TrimSpace(os.Getenv("OWNER_USER_ID"))
	owner, err := strconv.ParseInt(ownerRaw, 10, 64)
	if err != nil {
		return Config{}, fmt.Errorf("OWNER_USER_ID is not set or invalid: %q", ownerRaw)
	}

	weekend, err := parseWeekend(getenv("WEEKEND_DAYS", "Friday,Saturday"))
	if err != nil {
		return Config{}, err
	}

	return Config{
		TelegramToken: token,
		OwnerID:       owner,

		Timezone:    getenv("TZ_NAME", "Asia/Jerusalem"),
		DBPath:      getenv("DB_PATH", "anchor.db"),
		JournalPath: getenv("JOURNAL_PATH", "personal_journal.txt"),

		MorningAt:   getenv("MORNING_AT", "11:00"),
		MiddayAt:    getenv("MIDDAY_AT", "14:00"),
		AfternoonAt: getenv("AFTERNOON_AT", "17:00"),
		SummaryAt:   getenv("SUMMARY_AT", "22:00"),
		Weekend:     weekend,

		UseBeautifier:   boolenv("USE_BEAUTIFIER"),
		AnthropicAPIKey: strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")),
		BeautifierModel: getenv("BEAUTIFIER_MODEL", "claude-3-5-haiku-latest"),
	}, nil
}

func getBotToken() string {
	if data, err := os.ReadFile("/run/secrets/telegram_bot_token"); err == nil {
		if token := strings.TrimSpace(string(data)); token != "" {
			return token
		}
	}
	return strings.TrimSpace(os.Getenv("BOT_TOKEN"))
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func boolenv(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "true", "1", "yes":
		return true
	}
	return false
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func parseWeekend(s string) ([]time.Weekday, error) {
	var out []time.Weekday
	for _, part := range strings.Split(s, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		d, ok := weekdays[name]
		if !ok {
			return nil, fmt.Errorf("WEEKEND_DAYS: unknown weekday %q", part)
		}
		out = append(out, d)
	}
	return out, nil
}
