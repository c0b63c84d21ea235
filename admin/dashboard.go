package admin

import (
	"context"
	"net/http"

	"bhraman/booking"
	"bhraman/models"
	"bhraman/utils"

	"github.com/julienschmidt/httprouter"
)

const recentBookings = 5

// BookingReader is what the dashboard reads from the booking service.
type BookingReader interface {
	Stats(ctx context.Context) (models.BookingStats, error)
	List(ctx context.Context, f booking.Filter) ([]booking.View, int64, error)
}

// Counter returns the number of documents of one kind.
type Counter func(ctx context.Context) (int64, error)

type Dashboard struct {
	bookings BookingReader
	packages Counter
	users    Counter
}

func NewDashboard(bookings BookingReader, packages, users Counter) *Dashboard {
	return &Dashboard{bookings: bookings, packages: packages, users: users}
}

type Summary struct {
	Bookings models.BookingStats `json:"bookings"`
	Packages int64               `json:"packages"`
	Users    int64               `json:"users"`
	Recent   []booking.View      `json:"recentBookings"`
}

func (d *Dashboard) Summary(ctx context.Context) (*Summary, error) {
	stats, err := d.bookings.Stats(ctx)
	if err != nil {
		return nil, err
	}
	pkgs, err := d.packages(ctx)
	if err != nil {
		return nil, err
	}
	users, err := d.users(ctx)
	if err != nil {
		return nil, err
	}
	recent, _, err := d.bookings.List(ctx, booking.Filter{
		QueryOptions: utils.QueryOptions{Page: 1, Limit: recentBookings},
	})
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []booking.View{}
	}
	return &Summary{Bookings: stats, Packages: pkgs, Users: users, Recent: recent}, nil
}

// GET /api/admin/stats
func (d *Dashboard) Stats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s, err := d.Summary(r.Context())
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"data": s})
}
