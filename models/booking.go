package models

import "time"

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Terminal reports whether no further status transition is possible.
func (s BookingStatus) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

type ContactInfo struct {
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
	Phone string `json:"phone" bson:"phone"`
}

// Booking is a reservation against a package. PackageID and UserID may
// dangle after the referenced documents are deleted.
type Booking struct {
	ID              string        `json:"id" bson:"id"`
	PackageID       string        `json:"packageId" bson:"packageId"`
	UserID          string        `json:"userId" bson:"userId"`
	StartDate       time.Time     `json:"startDate" bson:"startDate"`
	NumberOfPeople  int           `json:"numberOfPeople" bson:"numberOfPeople"`
	TotalAmount     float64       `json:"totalAmount" bson:"totalAmount"`
	ContactInfo     ContactInfo   `json:"contactInfo" bson:"contactInfo"`
	SpecialRequests string        `json:"specialRequests,omitempty" bson:"specialRequests,omitempty"`
	Status          BookingStatus `json:"status" bson:"status"`
	PaymentStatus   PaymentStatus `json:"paymentStatus" bson:"paymentStatus"`
	PaymentID       string        `json:"paymentId,omitempty" bson:"paymentId,omitempty"`
	CreatedAt       time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt" bson:"updatedAt"`
}

// BookingStats backs the admin dashboard.
type BookingStats struct {
	Total           int64                   `json:"total"`
	ByStatus        map[BookingStatus]int64 `json:"byStatus"`
	ByPaymentStatus map[PaymentStatus]int64 `json:"byPaymentStatus"`
	Revenue         float64                 `json:"revenue"`
}

// NewBookingStats returns stats with every known status present at zero.
func NewBookingStats() BookingStats {
	return BookingStats{
		ByStatus: map[BookingStatus]int64{
			StatusPending: 0, StatusConfirmed: 0, StatusCancelled: 0, StatusCompleted: 0,
		},
		ByPaymentStatus: map[PaymentStatus]int64{
			PaymentPending: 0, PaymentCompleted: 0, PaymentFailed: 0, PaymentRefunded: 0,
		},
	}
}
