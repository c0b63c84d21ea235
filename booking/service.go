package booking

import (
	"context"
	"log"
	"strings"
	"time"

	"bhraman/apperr"
	"bhraman/models"
	"bhraman/mq"
	"bhraman/utils"
)

type Service struct {
	store    Store
	packages PackageLookup
	users    UserLookup
	events   mq.Publisher
	now      func() time.Time
}

func NewService(store Store, packages PackageLookup, users UserLookup, events mq.Publisher) *Service {
	return &Service{
		store:    store,
		packages: packages,
		users:    users,
		events:   events,
		now:      time.Now,
	}
}

type CreateInput struct {
	PackageID       string             `json:"packageId"`
	StartDate       string             `json:"startDate"`
	NumberOfPeople  int                `json:"numberOfPeople"`
	ContactInfo     models.ContactInfo `json:"contactInfo"`
	SpecialRequests string             `json:"specialRequests"`
}

// UpdateInput is an admin patch. Status values arrive as raw strings so
// the enum check happens here rather than in the JSON decoder.
type UpdateInput struct {
	Status          *string             `json:"status"`
	PaymentStatus   *string             `json:"paymentStatus"`
	PaymentID       *string             `json:"paymentId"`
	StartDate       *string             `json:"startDate"`
	ContactInfo     *models.ContactInfo `json:"contactInfo"`
	SpecialRequests *string             `json:"specialRequests"`
}

func parseDate(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, apperr.Invalid(field, "is required")
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, apperr.Invalid(field, "must be a date (YYYY-MM-DD)")
}

func day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validateContact(c *models.ContactInfo) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Phone = strings.TrimSpace(c.Phone)
	switch {
	case c.Name == "":
		return apperr.Invalid("contactInfo.name", "is required")
	case c.Email == "":
		return apperr.Invalid("contactInfo.email", "is required")
	case !utils.ValidEmail(c.Email):
		return apperr.Invalid("contactInfo.email", "is not a valid email address")
	case c.Phone == "":
		return apperr.Invalid("contactInfo.phone", "is required")
	case !utils.ValidPhone(c.Phone):
		return apperr.Invalid("contactInfo.phone", "must contain at least 10 digits")
	}
	return nil
}

// Create books a package for a customer. The total is a snapshot of the
// unit price at this instant and is never recomputed.
func (s *Service) Create(ctx context.Context, user *models.User, in CreateInput) (*models.Booking, error) {
	if user == nil {
		return nil, apperr.Unauthorized("authentication required")
	}
	if user.IsAdmin() {
		return nil, apperr.Forbidden("admins cannot create bookings")
	}
	if err := validateContact(&in.ContactInfo); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.PackageID) == "" {
		return nil, apperr.Invalid("packageId", "is required")
	}
	if in.NumberOfPeople < 1 {
		return nil, apperr.Invalid("numberOfPeople", "must be at least 1")
	}

	now := s.now()
	start, err := parseDate("startDate", in.StartDate)
	if err != nil {
		return nil, err
	}
	if day(start).Before(day(now)) {
		return nil, apperr.Invalid("startDate", "must not be in the past")
	}

	pkg, err := s.packages.FindByID(ctx, in.PackageID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Invalid("packageId", "package does not exist")
		}
		return nil, err
	}
	if in.NumberOfPeople > pkg.MaxGroupSize {
		return nil, apperr.Invalid("numberOfPeople", "exceeds the package's maximum group size")
	}

	b := &models.Booking{
		ID:              utils.GetUUID(),
		PackageID:       pkg.ID,
		UserID:          user.ID,
		StartDate:       start,
		NumberOfPeople:  in.NumberOfPeople,
		TotalAmount:     float64(in.NumberOfPeople) * pkg.UnitPrice(),
		ContactInfo:     in.ContactInfo,
		SpecialRequests: strings.TrimSpace(in.SpecialRequests),
		Status:          models.StatusPending,
		PaymentStatus:   models.PaymentPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.store.Insert(ctx, b); err != nil {
		return nil, err
	}
	log.Printf("[booking] created id=%s package=%s user=%s people=%d", b.ID, b.PackageID, b.UserID, b.NumberOfPeople)
	mq.Emit(ctx, s.events, mq.Event{Type: mq.BookingCreated, EntityID: b.ID, Payload: b})
	return b, nil
}

func (s *Service) resolver() *resolver {
	return newResolver(s.packages, s.users)
}

func (s *Service) Get(ctx context.Context, id string) (*View, error) {
	b, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v := s.resolver().view(ctx, b)
	return &v, nil
}

// GetForUser returns the booking only to the customer who made it.
func (s *Service) GetForUser(ctx context.Context, user *models.User, id string) (*View, error) {
	b, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || b.UserID != user.ID {
		return nil, apperr.Forbidden("booking belongs to another customer")
	}
	v := s.resolver().view(ctx, b)
	return &v, nil
}

// Update applies an admin patch. Every check runs before anything is
// written, so a rejected patch leaves the stored booking unchanged.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*View, error) {
	cur, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p := Patch{UpdatedAt: s.now()}
	if in.Status != nil {
		next, err := CheckStatus(cur.Status, *in.Status)
		if err != nil {
			return nil, err
		}
		p.Status = &next
	}
	if in.PaymentStatus != nil {
		next, err := CheckPayment(cur.PaymentStatus, *in.PaymentStatus)
		if err != nil {
			return nil, err
		}
		p.PaymentStatus = &next
	}
	if in.PaymentID != nil {
		pid := strings.TrimSpace(*in.PaymentID)
		p.PaymentID = &pid
	}
	if in.StartDate != nil {
		start, err := parseDate("startDate", *in.StartDate)
		if err != nil {
			return nil, err
		}
		p.StartDate = &start
	}
	if in.ContactInfo != nil {
		c := *in.ContactInfo
		if err := validateContact(&c); err != nil {
			return nil, err
		}
		p.ContactInfo = &c
	}
	if in.SpecialRequests != nil {
		sr := strings.TrimSpace(*in.SpecialRequests)
		p.SpecialRequests = &sr
	}

	b, err := s.store.Update(ctx, id, p)
	if err != nil {
		return nil, err
	}
	log.Printf("[booking] updated id=%s status=%s payment=%s", b.ID, b.Status, b.PaymentStatus)
	mq.Emit(ctx, s.events, mq.Event{Type: mq.BookingUpdated, EntityID: b.ID, Payload: b})
	v := s.resolver().view(ctx, b)
	return &v, nil
}

// CompletePayment marks a pending payment as completed.
func (s *Service) CompletePayment(ctx context.Context, id, paymentID string) (*View, error) {
	cur, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cur.PaymentStatus != models.PaymentPending {
		return nil, apperr.Invalid("paymentStatus", "only a pending payment can be completed")
	}

	completed := models.PaymentCompleted
	p := Patch{PaymentStatus: &completed, UpdatedAt: s.now()}
	if pid := strings.TrimSpace(paymentID); pid != "" {
		p.PaymentID = &pid
	}
	b, err := s.store.Update(ctx, id, p)
	if err != nil {
		return nil, err
	}
	log.Printf("[booking] payment completed id=%s payment_id=%s", b.ID, b.PaymentID)
	mq.Emit(ctx, s.events, mq.Event{Type: mq.BookingPaymentCompleted, EntityID: b.ID, Payload: b})
	v := s.resolver().view(ctx, b)
	return &v, nil
}

// SendConfirmation records a request to email the customer. No mail is
// sent; the event is the only effect.
func (s *Service) SendConfirmation(ctx context.Context, id string) (*View, error) {
	v, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	mq.Emit(ctx, s.events, mq.Event{
		Type:     mq.BookingConfirmationRequested,
		EntityID: v.ID,
		Payload:  map[string]string{"email": v.CustomerEmail, "name": v.CustomerName},
	})
	return v, nil
}

// Delete is a hard delete; the package and user are left alone.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	log.Printf("[booking] deleted id=%s", id)
	mq.Emit(ctx, s.events, mq.Event{Type: mq.BookingDeleted, EntityID: id})
	return nil
}

func (s *Service) List(ctx context.Context, f Filter) ([]View, int64, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, apperr.Invalid("status", "must be one of pending, confirmed, cancelled, completed")
	}
	if f.PaymentStatus != "" && !f.PaymentStatus.Valid() {
		return nil, 0, apperr.Invalid("paymentStatus", "must be one of pending, completed, failed, refunded")
	}
	items, total, err := s.store.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	res := s.resolver()
	out := make([]View, 0, len(items))
	for i := range items {
		out = append(out, res.view(ctx, &items[i]))
	}
	return out, total, nil
}

func (s *Service) ListForUser(ctx context.Context, user *models.User, opts utils.QueryOptions) ([]View, int64, error) {
	if user == nil {
		return nil, 0, apperr.Unauthorized("authentication required")
	}
	return s.List(ctx, Filter{UserID: user.ID, QueryOptions: opts})
}

func (s *Service) Stats(ctx context.Context) (models.BookingStats, error) {
	return s.store.Stats(ctx)
}
