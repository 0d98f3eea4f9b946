package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	charge := time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC)
	sub := New("Netflix", decimal.RequireFromString("149"), charge)

	assert.NotEqual(t, uuid.Nil, sub.ID)
	assert.True(t, sub.IsActive)
	assert.Equal(t, CycleMonthly, sub.BillingCycle)
	assert.Equal(t, DefaultCurrency, sub.Currency)
	require.NotNil(t, sub.ReminderOffsetDays)
	assert.Equal(t, 1, *sub.ReminderOffsetDays)
	assert.Equal(t, charge, sub.NextChargeDate)
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Netflix", "Netflix"},
		{"trimmed", "  Netflix  ", "Netflix"},
		{"empty_falls_back", "", FallbackName},
		{"whitespace_falls_back", "   ", FallbackName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := Subscription{Name: tt.input}
			assert.Equal(t, tt.want, sub.DisplayName())
		})
	}
}

func TestMonthKey(t *testing.T) {
	assert.Equal(t, "2026-08", MonthKey(2026, time.August))
	assert.Equal(t, "2026-12", MonthKey(2026, time.December))
	assert.Equal(t, "0999-01", MonthKey(999, time.January))
}
