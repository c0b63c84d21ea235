package migrate_test

import (
	"context"
	"testing"
	"time"

	"bhraman/memstore"
	"bhraman/migrate"
	"bhraman/models"
	"bhraman/users"
)

func legacy() *memstore.LegacyAdmins {
	seen := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return memstore.NewLegacyAdmins(
		migrate.LegacyAdmin{ExternalID: "ext_ops", Email: "Ops@Bhraman.in", Name: "Ops", Permissions: []string{"bookings"}, LastLogin: seen},
		migrate.LegacyAdmin{ExternalID: "ext_existing", Email: "meera@example.com", Name: "Meera", Permissions: []string{"packages", "bookings"}},
		migrate.LegacyAdmin{Email: "orphan@example.com", Name: "No Account"},
	)
}

func TestRunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	dst := memstore.NewUsers()
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	if err := dst.Insert(ctx, &models.User{
		ID:         "u-meera",
		ExternalID: "ext_existing",
		Role:       models.RoleUser,
		CreatedAt:  now.AddDate(0, -1, 0),
	}); err != nil {
		t.Fatal(err)
	}
	src := legacy()

	res, err := migrate.Run(ctx, src, dst, now)
	if err != nil {
		t.Fatal(err)
	}
	want := migrate.Result{Scanned: 3, Promoted: 1, Created: 1, Skipped: 1}
	if res != want {
		t.Fatalf("first run = %+v, want %+v", res, want)
	}

	meera, err := dst.FindByID(ctx, "u-meera")
	if err != nil {
		t.Fatal(err)
	}
	if !meera.IsAdmin() || meera.Name != "Meera" || meera.Email != "meera@example.com" || len(meera.Permissions) != 2 {
		t.Fatalf("promoted user = %+v", meera)
	}
	ops, err := dst.FindByExternalID(ctx, "ext_ops")
	if err != nil {
		t.Fatal(err)
	}
	if !ops.IsAdmin() || ops.Email != "ops@bhraman.in" || ops.LastLogin.IsZero() {
		t.Fatalf("created user = %+v", ops)
	}

	res, err = migrate.Run(ctx, src, dst, now.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	want = migrate.Result{Scanned: 3, Skipped: 3}
	if res != want {
		t.Fatalf("second run = %+v, want %+v", res, want)
	}
	admins, total, _ := dst.List(ctx, users.Filter{Role: models.RoleAdmin})
	if total != 2 || len(admins) != 2 {
		t.Fatalf("admins after rerun = %d", total)
	}
	if n, _ := dst.Count(ctx); n != 2 {
		t.Fatalf("users = %d, want 2", n)
	}
}
