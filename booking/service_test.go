package booking_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"bhraman/apperr"
	"bhraman/booking"
	"bhraman/memstore"
	"bhraman/models"
	"bhraman/mq"
	"bhraman/utils"
)

type recorder struct {
	mu     sync.Mutex
	events []mq.Event
}

func (r *recorder) Publish(_ context.Context, ev mq.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}

type fixture struct {
	svc      *booking.Service
	bookings *memstore.Bookings
	packages *memstore.Packages
	users    *memstore.Users
	events   *recorder
	pkg      *models.Package
	customer *models.User
	admin    *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{
		bookings: memstore.NewBookings(),
		packages: memstore.NewPackages(),
		users:    memstore.NewUsers(),
		events:   &recorder{},
	}
	f.svc = booking.NewService(f.bookings, f.packages, f.users, f.events)

	now := time.Now()
	f.pkg = &models.Package{
		ID:           "pkg-1",
		Slug:         "goa-getaway",
		Title:        "Goa Getaway",
		Duration:     4,
		Price:        10000,
		MaxGroupSize: 4,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := f.packages.Insert(ctx, f.pkg); err != nil {
		t.Fatal(err)
	}
	f.customer = &models.User{ID: "u-1", ExternalID: "ext_1", Email: "asha@example.com", Name: "Asha", Role: models.RoleUser, CreatedAt: now}
	f.admin = &models.User{ID: "u-2", ExternalID: "ext_2", Email: "ops@example.com", Name: "Ops", Role: models.RoleAdmin, CreatedAt: now}
	for _, u := range []*models.User{f.customer, f.admin} {
		if err := f.users.Insert(ctx, u); err != nil {
			t.Fatal(err)
		}
	}
	return f
}

func nextWeek() string {
	return time.Now().AddDate(0, 0, 7).Format("2006-01-02")
}

func (f *fixture) input(people int) booking.CreateInput {
	return booking.CreateInput{
		PackageID:      f.pkg.ID,
		StartDate:      nextWeek(),
		NumberOfPeople: people,
		ContactInfo:    models.ContactInfo{Name: "Asha Rao", Email: "asha@example.com", Phone: "+91 98765 43210"},
	}
}

// seed stores a pending booking last touched an hour ago.
func (f *fixture) seed(t *testing.T) *models.Booking {
	t.Helper()
	past := time.Now().Add(-time.Hour)
	b := &models.Booking{
		ID:             "b-1",
		PackageID:      f.pkg.ID,
		UserID:         f.customer.ID,
		StartDate:      past.AddDate(0, 1, 0),
		NumberOfPeople: 2,
		TotalAmount:    20000,
		ContactInfo:    models.ContactInfo{Name: "Asha Rao", Email: "asha.rao@example.com", Phone: "9876543210"},
		Status:         models.StatusPending,
		PaymentStatus:  models.PaymentPending,
		CreatedAt:      past,
		UpdatedAt:      past,
	}
	if err := f.bookings.Insert(context.Background(), b); err != nil {
		t.Fatal(err)
	}
	return b
}

func TestCreateSnapshotsTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.svc.Create(ctx, f.customer, f.input(3))
	if err != nil {
		t.Fatal(err)
	}
	if b.TotalAmount != 30000 || b.Status != models.StatusPending || b.PaymentStatus != models.PaymentPending {
		t.Fatalf("created = %+v", b)
	}
	if b.UserID != f.customer.ID {
		t.Fatalf("user = %q", b.UserID)
	}

	// a later price change does not touch the stored total
	f.pkg.Price = 50000
	if err := f.packages.Replace(ctx, f.pkg); err != nil {
		t.Fatal(err)
	}
	v, err := f.svc.Get(ctx, b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if v.TotalAmount != 30000 {
		t.Fatalf("total recomputed: %v", v.TotalAmount)
	}
	if got := f.events.types(); len(got) != 1 || got[0] != mq.BookingCreated {
		t.Fatalf("events = %v", got)
	}
}

func TestCreateUsesDiscountedPrice(t *testing.T) {
	f := newFixture(t)
	d := 8000.0
	f.pkg.DiscountedPrice = &d
	if err := f.packages.Replace(context.Background(), f.pkg); err != nil {
		t.Fatal(err)
	}
	b, err := f.svc.Create(context.Background(), f.customer, f.input(2))
	if err != nil {
		t.Fatal(err)
	}
	if b.TotalAmount != 16000 {
		t.Fatalf("total = %v", b.TotalAmount)
	}
}

func TestCreateRejects(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name   string
		mutate func(*booking.CreateInput)
	}{
		{"over capacity", func(in *booking.CreateInput) { in.NumberOfPeople = 6 }},
		{"zero people", func(in *booking.CreateInput) { in.NumberOfPeople = 0 }},
		{"short phone", func(in *booking.CreateInput) { in.ContactInfo.Phone = "12345" }},
		{"missing phone", func(in *booking.CreateInput) { in.ContactInfo.Phone = "" }},
		{"missing name", func(in *booking.CreateInput) { in.ContactInfo.Name = " " }},
		{"bad email", func(in *booking.CreateInput) { in.ContactInfo.Email = "asha" }},
		{"unknown package", func(in *booking.CreateInput) { in.PackageID = "nope" }},
		{"past date", func(in *booking.CreateInput) { in.StartDate = "2001-01-01" }},
		{"bad date", func(in *booking.CreateInput) { in.StartDate = "next tuesday" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := f.input(2)
			tt.mutate(&in)
			if _, err := f.svc.Create(context.Background(), f.customer, in); !apperr.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}

	_, total, _ := f.bookings.List(context.Background(), booking.Filter{})
	if total != 0 {
		t.Fatalf("rejected creates persisted %d bookings", total)
	}
}

func TestAdminCannotCreate(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.Create(context.Background(), f.admin, f.input(1)); !apperr.IsForbidden(err) {
		t.Fatalf("err = %v", err)
	}
	if _, err := f.svc.Create(context.Background(), nil, f.input(1)); !apperr.IsUnauthorized(err) {
		t.Fatalf("err = %v", err)
	}
}

func TestUpdateConfirmsPendingBooking(t *testing.T) {
	f := newFixture(t)
	seeded := f.seed(t)

	v, err := f.svc.Update(context.Background(), seeded.ID, booking.UpdateInput{Status: ptr("confirmed")})
	if err != nil {
		t.Fatal(err)
	}
	if v.Status != models.StatusConfirmed {
		t.Fatalf("status = %s", v.Status)
	}
	if !v.UpdatedAt.After(seeded.UpdatedAt) {
		t.Fatalf("updatedAt did not advance: %v -> %v", seeded.UpdatedAt, v.UpdatedAt)
	}
	if v.PackageName != "Goa Getaway" {
		t.Fatalf("references not re-resolved: %q", v.PackageName)
	}
}

func ptr[T any](v T) *T { return &v }

func TestUpdateRejectsBadEnumsWithoutWriting(t *testing.T) {
	f := newFixture(t)
	seeded := f.seed(t)
	ctx := context.Background()

	patches := []booking.UpdateInput{
		{Status: ptr("shipped")},
		{Status: ptr("")},
		{PaymentStatus: ptr("paid")},
		{Status: ptr("confirmed"), PaymentStatus: ptr("bogus")},
		{Status: ptr("completed")},
		{Status: ptr("confirmed"), ContactInfo: &models.ContactInfo{Name: "A", Email: "a@b.co", Phone: "1"}},
	}
	for _, p := range patches {
		if _, err := f.svc.Update(ctx, seeded.ID, p); !apperr.IsValidation(err) {
			t.Errorf("patch %+v: expected validation error, got %v", p, err)
		}
	}

	stored, err := f.bookings.FindByID(ctx, seeded.ID)
	if err != nil {
		t.Fatal(err)
	}
	if *stored != *seeded {
		t.Fatalf("stored booking changed:\n got %+v\nwant %+v", stored, seeded)
	}
	if len(f.events.types()) != 0 {
		t.Fatalf("events emitted for rejected patches: %v", f.events.types())
	}
}

func TestTerminalStates(t *testing.T) {
	f := newFixture(t)
	seeded := f.seed(t)
	ctx := context.Background()

	if _, err := f.svc.Update(ctx, seeded.ID, booking.UpdateInput{Status: ptr("cancelled")}); err != nil {
		t.Fatal(err)
	}
	for _, next := range []string{"pending", "confirmed", "completed"} {
		if _, err := f.svc.Update(ctx, seeded.ID, booking.UpdateInput{Status: ptr(next)}); !apperr.IsValidation(err) {
			t.Errorf("cancelled -> %s: expected validation error, got %v", next, err)
		}
	}
}

func TestCompletePayment(t *testing.T) {
	f := newFixture(t)
	seeded := f.seed(t)
	ctx := context.Background()

	v, err := f.svc.CompletePayment(ctx, seeded.ID, "pay_123")
	if err != nil {
		t.Fatal(err)
	}
	if v.PaymentStatus != models.PaymentCompleted || v.PaymentID != "pay_123" {
		t.Fatalf("view = %+v", v.Booking)
	}
	if _, err := f.svc.CompletePayment(ctx, seeded.ID, ""); !apperr.IsValidation(err) {
		t.Fatalf("second completion: %v", err)
	}

	stats, err := f.svc.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Total != 1 || stats.Revenue != 20000 || stats.ByPaymentStatus[models.PaymentCompleted] != 1 {
		t.Fatalf("stats = %+v", stats)
	}

	if _, err := f.svc.Update(ctx, seeded.ID, booking.UpdateInput{PaymentStatus: ptr("refunded")}); err != nil {
		t.Fatalf("refund: %v", err)
	}
}

func TestGetToleratesDeletedReferences(t *testing.T) {
	f := newFixture(t)
	seeded := f.seed(t)
	ctx := context.Background()

	if err := f.packages.Delete(ctx, f.pkg.ID); err != nil {
		t.Fatal(err)
	}
	// the user record goes away too
	f2 := booking.NewService(f.bookings, f.packages, memstore.NewUsers(), nil)

	v, err := f2.Get(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v.PackageName != booking.UnknownPackage {
		t.Fatalf("packageName = %q", v.PackageName)
	}
	if v.CustomerName != "Asha Rao" || v.CustomerEmail != "asha.rao@example.com" || v.CustomerPhone != "9876543210" {
		t.Fatalf("customer fallback = %q %q %q", v.CustomerName, v.CustomerEmail, v.CustomerPhone)
	}

	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatal(err)
	}
	if body["packageId"] != nil || body["userId"] != nil {
		t.Fatalf("dangling refs should encode as null: %v %v", body["packageId"], body["userId"])
	}
	if body["packageName"] != "Unknown Package" {
		t.Fatalf("packageName = %v", body["packageName"])
	}
}

type failingPackages struct{}

func (failingPackages) FindByID(context.Context, string) (*models.Package, error) {
	return nil, apperr.Upstream("find package", errors.New("connection reset"))
}

func TestGetWithUnreachablePackageKeepsID(t *testing.T) {
	f := newFixture(t)
	seeded := f.seed(t)
	svc := booking.NewService(f.bookings, failingPackages{}, f.users, nil)

	v, err := svc.Get(context.Background(), seeded.ID)
	if err != nil {
		t.Fatal(err)
	}
	if v.Package.State != models.RefUnresolved || v.PackageName != booking.UnknownPackage {
		t.Fatalf("package ref = %+v", v.Package)
	}
	if u, ok := v.User.Get(); !ok || u.ID != f.customer.ID {
		t.Fatalf("user ref = %+v", v.User)
	}
	raw, _ := json.Marshal(v)
	var body map[string]any
	_ = json.Unmarshal(raw, &body)
	if body["packageId"] != f.pkg.ID {
		t.Fatalf("packageId = %v", body["packageId"])
	}
	if user, ok := body["userId"].(map[string]any); !ok || user["name"] != "Asha" {
		t.Fatalf("userId = %v", body["userId"])
	}
	if v.CustomerName != "Asha" || v.CustomerEmail != "asha@example.com" {
		t.Fatalf("customer = %q %q", v.CustomerName, v.CustomerEmail)
	}
}

func TestGetForUserChecksOwner(t *testing.T) {
	f := newFixture(t)
	seeded := f.seed(t)
	ctx := context.Background()

	if _, err := f.svc.GetForUser(ctx, f.customer, seeded.ID); err != nil {
		t.Fatal(err)
	}
	stranger := &models.User{ID: "u-9", Role: models.RoleUser}
	if _, err := f.svc.GetForUser(ctx, stranger, seeded.ID); !apperr.IsForbidden(err) {
		t.Fatalf("err = %v", err)
	}
}

func TestListFiltersAndSearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, c := range []models.ContactInfo{
		{Name: "Asha Rao", Email: "asha@example.com", Phone: "9876543210"},
		{Name: "Vikram Singh", Email: "vikram@example.com", Phone: "9876543211"},
		{Name: "Meera Iyer", Email: "meera@example.com", Phone: "9876543212"},
	} {
		in := f.input(1)
		in.ContactInfo = c
		if _, err := f.svc.Create(ctx, f.customer, in); err != nil {
			t.Fatal(err)
		}
	}
	all, _, _ := f.svc.List(ctx, booking.Filter{})
	if _, err := f.svc.Update(ctx, all[0].ID, booking.UpdateInput{Status: ptr("confirmed")}); err != nil {
		t.Fatal(err)
	}

	items, total, err := f.svc.List(ctx, booking.Filter{QueryOptions: utils.QueryOptions{Page: 1, Limit: 10, Search: "VIKRAM"}})
	if err != nil || total != 1 || items[0].ContactInfo.Name != "Vikram Singh" {
		t.Fatalf("search = %+v, %d, %v", items, total, err)
	}

	_, total, _ = f.svc.List(ctx, booking.Filter{Status: models.StatusConfirmed})
	if total != 1 {
		t.Fatalf("confirmed total = %d", total)
	}

	items, total, _ = f.svc.List(ctx, booking.Filter{QueryOptions: utils.QueryOptions{Page: 2, Limit: 2}})
	if total != 3 || len(items) != 1 {
		t.Fatalf("page 2 = %d items of %d", len(items), total)
	}

	if _, _, err := f.svc.List(ctx, booking.Filter{Status: "archived"}); !apperr.IsValidation(err) {
		t.Fatalf("err = %v", err)
	}
}

func TestDeleteLeavesPackageAndUser(t *testing.T) {
	f := newFixture(t)
	seeded := f.seed(t)
	ctx := context.Background()

	if err := f.svc.Delete(ctx, seeded.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Get(ctx, seeded.ID); !apperr.IsNotFound(err) {
		t.Fatalf("err = %v", err)
	}
	if _, err := f.packages.FindByID(ctx, f.pkg.ID); err != nil {
		t.Fatalf("package removed: %v", err)
	}
	if _, err := f.users.FindByID(ctx, f.customer.ID); err != nil {
		t.Fatalf("user removed: %v", err)
	}
}

func TestSendConfirmationOnlyEmits(t *testing.T) {
	f := newFixture(t)
	seeded := f.seed(t)

	if _, err := f.svc.SendConfirmation(context.Background(), seeded.ID); err != nil {
		t.Fatal(err)
	}
	got := f.events.types()
	if len(got) != 1 || got[0] != mq.BookingConfirmationRequested {
		t.Fatalf("events = %v", got)
	}
	stored, _ := f.bookings.FindByID(context.Background(), seeded.ID)
	if *stored != *seeded {
		t.Fatal("confirmation changed the booking")
	}
}
