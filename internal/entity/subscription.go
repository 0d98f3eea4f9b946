package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillingCycle - how often a subscription bills. Only monthly exists today;
// the field is stored so other cycles can be added without a data migration.
type BillingCycle string

const CycleMonthly BillingCycle = "monthly"

// DefaultCurrency - the single currency the app operates in; amounts are
// never converted.
const DefaultCurrency = "NOK"

// FallbackName - display label used when a subscription has no name.
const FallbackName = "Subscription"

// Subscription - one recurring charge tracked by the user.
type Subscription struct {
	// ID - unique identifier, assigned at creation, immutable
	ID uuid.UUID `json:"id"`
	// Name - optional display label; empty means unset
	Name string `json:"name,omitempty"`
	// Note - optional short annotation (the editing surface caps it at 30 chars)
	Note string `json:"note,omitempty"`
	// Price - monthly price as an exact decimal, never negative
	Price decimal.Decimal `json:"price"`
	// NextChargeDate - calendar date of the next billing
	NextChargeDate time.Time `json:"next_charge_date"`
	// IsActive - inactive records are kept for history but excluded from
	// totals and reminders
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	// BillingCycle - always monthly for now, not used in any computation
	BillingCycle BillingCycle `json:"billing_cycle"`
	// Currency - fixed currency code
	Currency string `json:"currency"`
	// ReminderOffsetDays - days before NextChargeDate to remind; nil disables
	// the reminder for this subscription
	ReminderOffsetDays *int `json:"reminder_offset_days,omitempty"`
	// LastNotifiedAt - reserved for future use, not written by current logic
	LastNotifiedAt *time.Time `json:"last_notified_at,omitempty"`
}

// New builds an active monthly subscription with a fresh ID and the defaults
// the add flow uses (reminder one day ahead).
func New(name string, price decimal.Decimal, nextCharge time.Time) Subscription {
	now := time.Now()
	offset := 1
	return Subscription{
		ID:                 uuid.New(),
		Name:               name,
		Price:              price,
		NextChargeDate:     nextCharge,
		IsActive:           true,
		CreatedAt:          now,
		UpdatedAt:          now,
		BillingCycle:       CycleMonthly,
		Currency:           DefaultCurrency,
		ReminderOffsetDays: &offset,
	}
}

// DisplayName returns the trimmed name, or the generic fallback label when the
// subscription has no name.
func (s Subscription) DisplayName() string {
	name := strings.TrimSpace(s.Name)
	if name == "" {
		return FallbackName
	}
	return name
}

// MonthlySnapshot - the aggregate monthly total recorded for one (year, month)
// pair. At most one snapshot exists per pair; a later write for the same month
// overwrites the earlier one.
type MonthlySnapshot struct {
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	TotalPerMonth decimal.Decimal `json:"total_per_month"`
}

// MonthKey renders a (year, month) pair as the persisted "YYYY-MM" key.
func MonthKey(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}
