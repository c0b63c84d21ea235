package memstore

import (
	"context"
	"sync"
	"time"

	"bhraman/apperr"
	"bhraman/booking"
	"bhraman/models"
)

type Bookings struct {
	mu   sync.RWMutex
	byID map[string]*models.Booking
}

func NewBookings() *Bookings {
	return &Bookings{byID: map[string]*models.Booking{}}
}

func cloneBooking(b *models.Booking) *models.Booking {
	c := *b
	return &c
}

func (s *Bookings) Insert(_ context.Context, b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[b.ID]; ok {
		return apperr.ConflictError{Resource: "booking", Msg: "duplicate id"}
	}
	s.byID[b.ID] = cloneBooking(b)
	return nil
}

func (s *Bookings) FindByID(_ context.Context, id string) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.byID[id]
	if !ok {
		return nil, apperr.NotFound("booking")
	}
	return cloneBooking(b), nil
}

func (s *Bookings) Update(_ context.Context, id string, p booking.Patch) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.byID[id]
	if !ok {
		return nil, apperr.NotFound("booking")
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
	if p.PaymentStatus != nil {
		b.PaymentStatus = *p.PaymentStatus
	}
	if p.PaymentID != nil {
		b.PaymentID = *p.PaymentID
	}
	if p.StartDate != nil {
		b.StartDate = *p.StartDate
	}
	if p.ContactInfo != nil {
		b.ContactInfo = *p.ContactInfo
	}
	if p.SpecialRequests != nil {
		b.SpecialRequests = *p.SpecialRequests
	}
	if !p.UpdatedAt.IsZero() {
		b.UpdatedAt = p.UpdatedAt
	}
	return cloneBooking(b), nil
}

func (s *Bookings) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return apperr.NotFound("booking")
	}
	delete(s.byID, id)
	return nil
}

func (s *Bookings) List(_ context.Context, f booking.Filter) ([]models.Booking, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Booking
	for _, b := range s.byID {
		switch {
		case f.UserID != "" && b.UserID != f.UserID:
			continue
		case f.Status != "" && b.Status != f.Status:
			continue
		case f.PaymentStatus != "" && b.PaymentStatus != f.PaymentStatus:
			continue
		case !matchesAny(f.Search, b.ContactInfo.Name, b.ContactInfo.Email, b.ContactInfo.Phone):
			continue
		}
		out = append(out, *b)
	}
	newestFirst(out, func(b models.Booking) time.Time { return b.CreatedAt })
	return page(out, f.QueryOptions), int64(len(out)), nil
}

func (s *Bookings) Stats(_ context.Context) (models.BookingStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := models.NewBookingStats()
	for _, b := range s.byID {
		stats.Total++
		stats.ByStatus[b.Status]++
		stats.ByPaymentStatus[b.PaymentStatus]++
		if b.PaymentStatus == models.PaymentCompleted {
			stats.Revenue += b.TotalAmount
		}
	}
	return stats, nil
}
