package booking

import (
	"testing"

	"bhraman/apperr"
	"bhraman/models"
)

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		from models.BookingStatus
		to   string
		ok   bool
	}{
		{models.StatusPending, "confirmed", true},
		{models.StatusPending, "cancelled", true},
		{models.StatusPending, "pending", true},
		{models.StatusConfirmed, "completed", true},
		{models.StatusPending, "completed", false},
		{models.StatusConfirmed, "cancelled", false},
		{models.StatusCancelled, "confirmed", false},
		{models.StatusCompleted, "pending", false},
		{models.StatusPending, "shipped", false},
		{models.StatusPending, "", false},
		{models.StatusPending, "CONFIRMED", false},
	}
	for _, tt := range tests {
		got, err := CheckStatus(tt.from, tt.to)
		if tt.ok {
			if err != nil || string(got) != tt.to {
				t.Errorf("%s -> %q: got %q, %v", tt.from, tt.to, got, err)
			}
			continue
		}
		if !apperr.IsValidation(err) {
			t.Errorf("%s -> %q: expected validation error, got %v", tt.from, tt.to, err)
		}
	}
}

func TestCheckPayment(t *testing.T) {
	tests := []struct {
		from models.PaymentStatus
		to   string
		ok   bool
	}{
		{models.PaymentPending, "completed", true},
		{models.PaymentCompleted, "refunded", true},
		{models.PaymentPending, "failed", true},
		{models.PaymentFailed, "refunded", true},
		{models.PaymentCompleted, "completed", true},
		{models.PaymentFailed, "completed", false},
		{models.PaymentRefunded, "pending", false},
		{models.PaymentPending, "paid", false},
	}
	for _, tt := range tests {
		_, err := CheckPayment(tt.from, tt.to)
		if tt.ok && err != nil {
			t.Errorf("%s -> %q: unexpected %v", tt.from, tt.to, err)
		}
		if !tt.ok && !apperr.IsValidation(err) {
			t.Errorf("%s -> %q: expected validation error, got %v", tt.from, tt.to, err)
		}
	}
}
