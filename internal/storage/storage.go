package storage

import (
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"telegram-anchor-bot/internal/models"
)

//go:embed schema.sql
var ddl embed.FS

// DB is the day-keyed record store. One row per calendar day, the whole
// DayRecord serialized as a JSON document, persisted synchronously on every
// mutation. A single mutex serializes the read-modify-write cycle so a timer
// callback and an inbound update cannot interleave a partial write.
type DB struct {
	*sql.DB
	mu  sync.Mutex
	loc *time.Location
}

func New(path string, loc *time.Location) (*DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, err
	}
	if err = migrate(db); err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.Local
	}
	return &DB{DB: db, loc: loc}, nil
}

func migrate(db *sql.DB) error {
	b, err := ddl.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = db.Exec(string(b))
	return err
}

// Today returns the current calendar date in the configured timezone.
// Recomputed on every call: a mutation just before midnight and one just
// after target different records.
func (d *DB) Today() string {
	return time.Now().In(d.loc).Format("2006-01-02")
}

// Location returns the store's timezone.
func (d *DB) Location() *time.Location {
	return d.loc
}

// ---------- day records -----------------------------------------------------

// Get returns the record for a day, or the default record if none exists yet.
// Absence is not an error; records are created lazily on first mutation.
func (d *DB) Get(day string) (models.DayRecord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.get(day)
}

func (d *DB) get(day string) (models.DayRecord, error) {
	var raw string
	err := d.QueryRow(`SELECT record FROM day_records WHERE day=?`, day).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NewDayRecord(day), nil
	}
	if err != nil {
		return models.DayRecord{}, fmt.Errorf("read day %s: %w", day, err)
	}
	var rec models.DayRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return models.DayRecord{}, fmt.Errorf("decode day %s: %w", day, err)
	}
	return rec, nil
}

// Mutate applies fn to the day's record and persists the result before
// returning. Any Get after Mutate returns observes the change. A persistence
// error propagates; the in-memory change is discarded with it.
func (d *DB) Mutate(day string, fn func(*models.DayRecord)) (models.DayRecord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	rec, err := d.get(day)
	if err != nil {
		return models.DayRecord{}, err
	}
	fn(&rec)
	rec.Day = day

	raw, err := json.Marshal(rec)
	if err != nil {
		return models.DayRecord{}, fmt.Errorf("encode day %s: %w", day, err)
	}
	_, err = d.Exec(`
        INSERT INTO day_records(day, record) VALUES (?,?)
        ON CONFLICT(day) DO UPDATE SET record=excluded.record
    `, day, string(raw))
	if err != nil {
		return models.DayRecord{}, fmt.Errorf("persist day %s: %w", day, err)
	}
	return rec, nil
}

// ---------- non-owner rejection notices -------------------------------------

// HasNotified reports whether a non-owner user was already sent the one-time
// "this bot is private" notice.
func (d *DB) HasNotified(userID int64) bool {
	var one int
	_ = d.QueryRow(`SELECT 1 FROM notified_users WHERE user_id=?`, userID).Scan(&one)
	return one == 1
}

// MarkNotified records that the rejection notice went out. Idempotent.
func (d *DB) MarkNotified(userID int64) error {
	_, err := d.Exec(`
        INSERT INTO notified_users(user_id, notified_at) VALUES (?,?)
        ON CONFLICT(user_id) DO NOTHING
    `, userID, time.Now().Unix())
	return err
}
