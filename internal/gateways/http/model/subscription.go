// Package model holds the wire representations used by the HTTP gateway,
// kept in the shape and validation style of generated openapi models.
package model

import (
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
)

// Note length is capped by the editing surface, not by the entity.
const maxNoteLength = 30

// SubscriptionInput - payload for creating or replacing a subscription.
type SubscriptionInput struct {
	// Name - optional display label
	Name string `json:"name,omitempty"`
	// Note - optional annotation, at most 30 characters
	Note string `json:"note,omitempty"`
	// Price - exact decimal amount as a string, e.g. "149" or "149.50"
	Price *string `json:"price"`
	// NextChargeDate - calendar date of the next billing
	NextChargeDate *strfmt.Date `json:"next_charge_date"`
	// IsActive - defaults to true on create
	IsActive *bool `json:"is_active,omitempty"`
	// Currency - defaults to the fixed app currency
	Currency string `json:"currency,omitempty"`
	// ReminderOffsetDays - days before the charge to remind; omitted on
	// create means the user's default offset
	ReminderOffsetDays *int64 `json:"reminder_offset_days,omitempty"`
}

// Validate validates this subscription input.
func (m *SubscriptionInput) Validate(formats strfmt.Registry) error {
	var res []error

	if err := m.validatePrice(); err != nil {
		res = append(res, err)
	}
	if err := m.validateNextChargeDate(formats); err != nil {
		res = append(res, err)
	}
	if err := m.validateNote(); err != nil {
		res = append(res, err)
	}
	if err := m.validateReminderOffsetDays(); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

func (m *SubscriptionInput) validatePrice() error {
	if m.Price == nil {
		return errors.Required("price", "body", nil)
	}
	return nil
}

func (m *SubscriptionInput) validateNextChargeDate(formats strfmt.Registry) error {
	if m.NextChargeDate == nil {
		return errors.Required("next_charge_date", "body", nil)
	}
	if err := validate.FormatOf("next_charge_date", "body", "date", m.NextChargeDate.String(), formats); err != nil {
		return err
	}
	return nil
}

func (m *SubscriptionInput) validateNote() error {
	if err := validate.MaxLength("note", "body", m.Note, maxNoteLength); err != nil {
		return err
	}
	return nil
}

func (m *SubscriptionInput) validateReminderOffsetDays() error {
	if m.ReminderOffsetDays == nil {
		return nil
	}
	if err := validate.MinimumInt("reminder_offset_days", "body", *m.ReminderOffsetDays, 0, false); err != nil {
		return err
	}
	return nil
}

// Subscription - a stored subscription as returned by the gateway.
type Subscription struct {
	ID                 strfmt.UUID     `json:"id"`
	Name               string          `json:"name,omitempty"`
	Note               string          `json:"note,omitempty"`
	Price              string          `json:"price"`
	NextChargeDate     strfmt.Date     `json:"next_charge_date"`
	IsActive           bool            `json:"is_active"`
	CreatedAt          strfmt.DateTime `json:"created_at"`
	UpdatedAt          strfmt.DateTime `json:"updated_at"`
	BillingCycle       string          `json:"billing_cycle"`
	Currency           string          `json:"currency"`
	ReminderOffsetDays *int64          `json:"reminder_offset_days,omitempty"`
}

// Summary - the derived aggregate views of the store.
type Summary struct {
	TotalPerMonth    string `json:"total_per_month"`
	AnnualEstimate   string `json:"annual_estimate"`
	ActiveCount      int64  `json:"active_count"`
	FreeLimit        int64  `json:"free_limit"`
	FreeLimitReached bool   `json:"free_limit_reached"`
	IsPro            bool   `json:"is_pro"`
	FeedbackMessage  string `json:"feedback_message,omitempty"`
}
