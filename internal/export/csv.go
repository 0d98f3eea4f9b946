// Package export serializes the subscription list for sharing: delimited
// text, a spreadsheet workbook, and an aligned text preview.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"subtrack/internal/entity"
	"subtrack/internal/format"
)

// Delimiter separates CSV fields; spreadsheets in this locale default to
// semicolons.
type Delimiter string

const (
	Semicolon Delimiter = ";"
	Comma     Delimiter = ","
)

func (d Delimiter) Label() string {
	if d == Comma {
		return "Comma"
	}
	return "Semicolon"
}

// ParseDelimiter maps a user-supplied delimiter string; only ";" and "," are
// offered.
func ParseDelimiter(s string) (Delimiter, error) {
	switch Delimiter(s) {
	case Semicolon, Comma:
		return Delimiter(s), nil
	default:
		return "", fmt.Errorf("unsupported delimiter %q", s)
	}
}

var headerFields = []string{"Name", "Monthly price", "Next charge date", "Status", "Note"}

// SubscriptionsCSV renders a header row plus one row per subscription. A
// field is wrapped in double quotes, with interior quotes doubled, when it
// contains a quote, the delimiter or a newline.
func SubscriptionsCSV(subs []entity.Subscription, d Delimiter) string {
	sep := string(d)
	rows := make([]string, 0, len(subs)+1)
	rows = append(rows, strings.Join(headerFields, sep))

	for _, sub := range subs {
		status := "Active"
		if !sub.IsActive {
			status = "Ended"
		}
		cols := []string{
			escape(sub.DisplayName(), d),
			format.Amount(sub.Price),
			format.DateFull(sub.NextChargeDate),
			status,
			escape(sub.Note, d),
		}
		rows = append(rows, strings.Join(cols, sep))
	}
	return strings.Join(rows, "\n")
}

func escape(value string, d Delimiter) string {
	needsQuotes := strings.Contains(value, `"`) ||
		strings.Contains(value, string(d)) ||
		strings.Contains(value, "\n")
	escaped := strings.ReplaceAll(value, `"`, `""`)
	if needsQuotes {
		return `"` + escaped + `"`
	}
	return escaped
}

// WriteCSV writes the content to a timestamped file in dir, optionally
// prefixed with a UTF-8 byte-order-mark for spreadsheet compatibility, and
// returns the file path.
func WriteCSV(dir, content string, includeBOM bool) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	name := fmt.Sprintf("subscriptions-%s.csv", format.Timestamp(time.Now()))
	path := filepath.Join(dir, name)
	if includeBOM {
		content = "\ufeff" + content
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write csv: %w", err)
	}
	return path, nil
}
