package booking

import (
	"fmt"

	"bhraman/apperr"
	"bhraman/models"
)

// statusFlow lists the admin transitions out of each booking status.
// cancelled and completed are terminal.
var statusFlow = map[models.BookingStatus][]models.BookingStatus{
	models.StatusPending:   {models.StatusConfirmed, models.StatusCancelled},
	models.StatusConfirmed: {models.StatusCompleted},
}

// CheckStatus validates a status change. The enum is checked before the
// transition, and writing the current status again is allowed.
func CheckStatus(from models.BookingStatus, to string) (models.BookingStatus, error) {
	next := models.BookingStatus(to)
	if !next.Valid() {
		return "", apperr.Invalid("status", "must be one of pending, confirmed, cancelled, completed")
	}
	if next == from {
		return next, nil
	}
	for _, allowed := range statusFlow[from] {
		if allowed == next {
			return next, nil
		}
	}
	return "", apperr.Invalid("status", fmt.Sprintf("cannot move a %s booking to %s", from, next))
}

// CheckPayment validates a payment status change: pending may complete,
// and any state may fail or be refunded.
func CheckPayment(from models.PaymentStatus, to string) (models.PaymentStatus, error) {
	next := models.PaymentStatus(to)
	if !next.Valid() {
		return "", apperr.Invalid("paymentStatus", "must be one of pending, completed, failed, refunded")
	}
	switch {
	case next == from:
		return next, nil
	case next == models.PaymentFailed, next == models.PaymentRefunded:
		return next, nil
	case next == models.PaymentCompleted && from == models.PaymentPending:
		return next, nil
	}
	return "", apperr.Invalid("paymentStatus", fmt.Sprintf("cannot move payment from %s to %s", from, next))
}
