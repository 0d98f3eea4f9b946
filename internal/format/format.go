// Package format renders amounts and dates the way the Norwegian UI shows
// them: whole kroner with space grouping, day-first dates.
package format

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.Norwegian)

// CLDR groups digits with non-breaking spaces; exports and notification
// bodies want plain ones.
var plainSpaces = strings.NewReplacer("\u00a0", " ", "\u202f", " ")

// Amount renders a price in whole kroner, rounded to the nearest krone, with
// a plain space as the digit group separator.
func Amount(v decimal.Decimal) string {
	return plainSpaces.Replace(printer.Sprint(number.Decimal(v.Round(0).IntPart())))
}

// DateFull renders a date for exports and detail rows.
func DateFull(t time.Time) string {
	return t.Format("02.01.2006")
}

// DateShort renders a date for list rows.
func DateShort(t time.Time) string {
	return t.Format("02.01")
}

// Timestamp renders the minute-resolution stamp used in export file names.
func Timestamp(t time.Time) string {
	return t.Format("20060102-1504")
}
