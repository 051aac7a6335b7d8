package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Amounts are rupee values with at most two decimal places, stored in
// NUMERIC(14,2) columns on PostgreSQL.
const amountScale = 2

// maxAmount is the largest value a NUMERIC(14,2) column holds.
var maxAmount = decimal.RequireFromString("999999999999.99")

func validateAmount(field string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return invalid(field, "must not be negative")
	}
	if !amount.Equal(amount.Round(amountScale)) {
		return invalid(field, "must have at most %d decimal places", amountScale)
	}
	if amount.GreaterThan(maxAmount) {
		return invalid(field, "must not exceed %s", maxAmount)
	}
	return nil
}

func validateOpening(amount decimal.Decimal) error {
	if !amount.Equal(amount.Round(amountScale)) {
		return invalid("opening_balance", "must have at most %d decimal places", amountScale)
	}
	if amount.Abs().GreaterThan(maxAmount) {
		return invalid("opening_balance", "must not exceed %s in magnitude", maxAmount)
	}
	return nil
}

func amountOrZero(amount *decimal.Decimal) decimal.Decimal {
	if amount == nil {
		return decimal.Zero
	}
	return *amount
}

func validateEntry(in EntryInput) error {
	if in.LabourID == "" {
		return invalid("labour_id", "is required")
	}
	if in.Date.IsZero() {
		return invalid("date", "is required")
	}
	if !in.Attendance.Valid() {
		return invalid("attendance_status", "unknown value %q", in.Attendance)
	}
	if in.Amount == nil {
		if in.Attendance != AttendanceAbsent {
			return invalid("amount", "is required unless absent")
		}
	} else if err := validateAmount("amount", *in.Amount); err != nil {
		return err
	}
	return validateWorkFields(in.Attendance, amountOrZero(in.Amount), in.WorkType, in.Category, in.Subcategory)
}

// validateWorkFields enforces the attendance rules: an absent day carries
// no wage and needs no classification, any other day needs all three.
func validateWorkFields(att AttendanceStatus, amount decimal.Decimal, workType, category, subcategory string) error {
	if att == AttendanceAbsent {
		if !amount.IsZero() {
			return invalid("amount", "must be zero when absent")
		}
		return nil
	}
	if strings.TrimSpace(workType) == "" {
		return invalid("work_type", "is required unless absent")
	}
	if strings.TrimSpace(category) == "" {
		return invalid("category", "is required unless absent")
	}
	if strings.TrimSpace(subcategory) == "" {
		return invalid("subcategory", "is required unless absent")
	}
	return nil
}

func validatePayment(in PaymentInput) error {
	if in.LabourID == "" {
		return invalid("labour_id", "is required")
	}
	if in.Date.IsZero() {
		return invalid("date", "is required")
	}
	if in.Amount == nil {
		return invalid("amount", "is required")
	}
	return validateAmount("amount", *in.Amount)
}

// validatePatch checks the patch on its own, before any read.
func validatePatch(p EventPatch) error {
	if p.hasWorkFields() && p.hasPaymentFields() {
		return invalid("", "patch mixes work entry and payment fields")
	}
	if p.Date != nil && p.Date.IsZero() {
		return invalid("date", "must not be empty")
	}
	if p.Amount != nil {
		if err := validateAmount("amount", *p.Amount); err != nil {
			return err
		}
	}
	if p.Attendance != nil && !p.Attendance.Valid() {
		return invalid("attendance_status", "unknown value %q", *p.Attendance)
	}
	return nil
}

// applyPatch returns a copy of e with the patch applied and re-validated
// against the event's kind.
func applyPatch(e Event, p EventPatch) (Event, error) {
	switch e.Kind {
	case KindWork:
		if p.hasPaymentFields() {
			return Event{}, invalid("", "mode and narration apply to payments only")
		}
	case KindPayment:
		if p.hasWorkFields() {
			return Event{}, invalid("", "attendance and work fields apply to work entries only")
		}
	}

	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	setString(&e.WorkType, p.WorkType)
	setString(&e.Category, p.Category)
	setString(&e.Subcategory, p.Subcategory)
	setString(&e.Notes, p.Notes)
	setString(&e.Mode, p.Mode)
	setString(&e.Narration, p.Narration)
	if p.Attendance != nil {
		e.Attendance = *p.Attendance
	}

	if e.IsWork() {
		// Marking a day absent clears its wage unless a new amount was given.
		if e.Attendance == AttendanceAbsent && p.Attendance != nil && p.Amount == nil {
			e.Amount = decimal.Zero
		}
		if err := validateWorkFields(e.Attendance, e.Amount, e.WorkType, e.Category, e.Subcategory); err != nil {
			return Event{}, err
		}
	}
	return e, nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
