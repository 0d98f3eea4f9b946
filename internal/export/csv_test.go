package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subtrack/internal/entity"
)

func exportSub(name, price string, active bool, note string) entity.Subscription {
	sub := entity.New(name, decimal.RequireFromString(price), time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC))
	sub.IsActive = active
	sub.Note = note
	return sub
}

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		input   string
		want    Delimiter
		wantErr bool
	}{
		{";", Semicolon, false},
		{",", Comma, false},
		{"\t", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDelimiter(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDelimiterLabel(t *testing.T) {
	assert.Equal(t, "Semicolon", Semicolon.Label())
	assert.Equal(t, "Comma", Comma.Label())
}

func TestSubscriptionsCSV(t *testing.T) {
	t.Run("header_only_when_empty", func(t *testing.T) {
		got := SubscriptionsCSV(nil, Semicolon)
		assert.Equal(t, "Name;Monthly price;Next charge date;Status;Note", got)
	})

	t.Run("plain_rows", func(t *testing.T) {
		subs := []entity.Subscription{
			exportSub("Netflix", "149", true, ""),
			exportSub("Spotify", "129", false, "family plan"),
		}
		got := SubscriptionsCSV(subs, Semicolon)

		lines := strings.Split(got, "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "Netflix;149;15.09.2026;Active;", lines[1])
		assert.Equal(t, "Spotify;129;15.09.2026;Ended;family plan", lines[2])
	})

	t.Run("unnamed_uses_fallback_label", func(t *testing.T) {
		got := SubscriptionsCSV([]entity.Subscription{exportSub("  ", "49", true, "")}, Semicolon)
		assert.Contains(t, got, "Subscription;49")
	})

	t.Run("fields_containing_the_delimiter_are_quoted", func(t *testing.T) {
		got := SubscriptionsCSV([]entity.Subscription{exportSub("A;B", "10", true, "x;y")}, Semicolon)
		lines := strings.Split(got, "\n")
		assert.Equal(t, `"A;B";10;15.09.2026;Active;"x;y"`, lines[1])
	})

	t.Run("interior_quotes_are_doubled", func(t *testing.T) {
		got := SubscriptionsCSV([]entity.Subscription{exportSub(`He said "hi"`, "10", true, "")}, Semicolon)
		assert.Contains(t, got, `"He said ""hi"""`)
	})

	t.Run("newlines_force_quoting", func(t *testing.T) {
		got := SubscriptionsCSV([]entity.Subscription{exportSub("Multi", "10", true, "line one\nline two")}, Comma)
		assert.Contains(t, got, "\"line one\nline two\"")
	})

	t.Run("comma_delimiter", func(t *testing.T) {
		got := SubscriptionsCSV([]entity.Subscription{exportSub("Netflix", "149", true, "")}, Comma)
		lines := strings.Split(got, "\n")
		assert.Equal(t, "Name,Monthly price,Next charge date,Status,Note", lines[0])
		assert.Equal(t, "Netflix,149,15.09.2026,Active,", lines[1])
	})
}

func TestWriteCSV(t *testing.T) {
	t.Run("with_bom", func(t *testing.T) {
		dir := t.TempDir()
		path, err := WriteCSV(dir, "Name;Note", true)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(filepath.Base(path), "subscriptions-"))
		assert.True(t, strings.HasSuffix(path, ".csv"))

		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "\ufeff"+"Name;Note", string(raw))
	})

	t.Run("without_bom", func(t *testing.T) {
		dir := t.TempDir()
		path, err := WriteCSV(dir, "Name;Note", false)
		require.NoError(t, err)

		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "Name;Note", string(raw))
	})

	t.Run("creates_missing_dir", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "exports")
		path, err := WriteCSV(dir, "Name", false)
		require.NoError(t, err)
		assert.FileExists(t, path)
	})
}
