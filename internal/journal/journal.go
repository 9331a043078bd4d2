// Package journal keeps the free-form personal journal file.
package journal

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Journal appends timestamped entries to a plain text file.
type Journal struct {
	Path string
}

func New(path string) *Journal {
	return &Journal{Path: path}
}

// Append writes a timestamped entry. Creates the file on first use.
func (j *Journal) Append(text string) error {
	f, err := os.OpenFile(j.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()

	stamp := time.Now().Format("2006-01-02 15:04")
	if _, err := fmt.Fprintf(f, "\n[%s]\n%s\n", stamp, text); err != nil {
		return fmt.Errorf("write journal: %w", err)
	}
	return nil
}

// Read returns the whole journal. A missing file reads as empty.
func (j *Journal) Read() (string, error) {
	b, err := os.ReadFile(j.Path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read journal: %w", err)
	}
	return string(b), nil
}

// Info returns line/character/size statistics for the journal file.
func (j *Journal) Info() (string, error) {
	content, err := j.Read()
	if err != nil {
		return "", err
	}

	var nonEmpty int
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			nonEmpty++
		}
	}

	var sizeKB float64
	if st, err := os.Stat(j.Path); err == nil {
		sizeKB = float64(st.Size()) / 1024
	}

	return fmt.Sprintf(
		"📊 Journal stats:\n• %d lines\n• %d characters\n• %.2f KB\n• path: %s",
		nonEmpty, len(content), sizeKB, j.Path,
	), nil
}
