package routes

import (
	"net/http"

	"bhraman/admin"
	"bhraman/auth"
	"bhraman/booking"
	"bhraman/catalog"
	"bhraman/filemgr"
	"bhraman/home"
	"bhraman/middleware"
	"bhraman/ratelim"
	"bhraman/users"
	"bhraman/utils"

	"github.com/julienschmidt/httprouter"
)

// Deps carries everything the HTTP surface needs. main builds it.
type Deps struct {
	Provider  auth.Provider
	Gate      *admin.Gate
	Directory *users.Directory
	Limiter   *ratelim.RateLimiter

	Users     *users.Handler
	Catalog   *catalog.Handler
	Bookings  *booking.Handler
	Live      *booking.Hub
	Home      *home.Handler
	Uploads   *filemgr.Handler
	Dashboard *admin.Dashboard

	UploadDir string
	Health    httprouter.Handle
}

// customer wraps h for signed-in non-admin routes: a valid session, then
// the caller's user record.
func (d Deps) customer(h httprouter.Handle) httprouter.Handle {
	return middleware.Authenticate(d.Provider)(d.Directory.RequireUser(h))
}

func (d Deps) admin(h httprouter.Handle) httprouter.Handle {
	return middleware.Authenticate(d.Provider)(d.Gate.RequireAdmin(h))
}

func AddStaticRoutes(router *httprouter.Router, d Deps) {
	if d.UploadDir != "" {
		router.ServeFiles("/uploads/*filepath", http.Dir(d.UploadDir))
	}
	health := d.Health
	if health == nil {
		health = func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
			utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "ok"})
		}
	}
	router.GET("/health", health)
}

func AddUserRoutes(router *httprouter.Router, d Deps) {
	router.GET("/api/me", d.customer(d.Users.Me))
	router.PATCH("/api/me", d.customer(d.Users.UpdateMe))

	router.GET("/api/admin/users", d.admin(d.Users.List))
	router.GET("/api/admin/users/:id", d.admin(d.Users.Get))
	router.PATCH("/api/admin/users/:id/role", d.admin(d.Users.SetRole))
}

func AddPackageRoutes(router *httprouter.Router, d Deps) {
	router.GET("/api/packages", d.Catalog.List)
	router.GET("/api/packages/:slug", d.Catalog.GetBySlug)

	router.GET("/api/admin/packages", d.admin(d.Catalog.List))
	router.POST("/api/admin/packages", d.admin(d.Catalog.Create))
	router.GET("/api/admin/packages/:id", d.admin(d.Catalog.Get))
	router.PATCH("/api/admin/packages/:id", d.admin(d.Catalog.Update))
	router.DELETE("/api/admin/packages/:id", d.admin(d.Catalog.Delete))
	router.PATCH("/api/admin/packages/:id/featured", d.admin(d.Catalog.SetFeatured))
}

func AddBookingRoutes(router *httprouter.Router, d Deps) {
	create := d.customer(d.Bookings.Create)
	if d.Limiter != nil {
		create = d.Limiter.Limit(create)
	}
	router.POST("/api/bookings", create)
	router.GET("/api/bookings", d.customer(d.Bookings.ListMine))
	router.GET("/api/bookings/:id", d.customer(d.Bookings.GetMine))
	router.GET("/api/bookings/:id/invoice", d.customer(d.Bookings.InvoiceMine))

	router.GET("/api/admin/bookings", d.admin(d.Bookings.List))
	router.GET("/api/admin/bookings/:id", d.admin(d.Bookings.Get))
	router.PATCH("/api/admin/bookings/:id", d.admin(d.Bookings.Update))
	router.DELETE("/api/admin/bookings/:id", d.admin(d.Bookings.Delete))
	router.POST("/api/admin/bookings/:id/complete-payment", d.admin(d.Bookings.CompletePayment))
	router.POST("/api/admin/bookings/:id/send-confirmation", d.admin(d.Bookings.SendConfirmation))
	router.GET("/api/admin/bookings/:id/invoice", d.admin(d.Bookings.Invoice))

	if d.Live != nil {
		router.GET("/api/admin/live/bookings", d.admin(d.Live.ServeWS))
	}
}

func AddHomeRoutes(router *httprouter.Router, d Deps) {
	router.GET("/api/home-config", d.Home.Public)
	router.GET("/api/admin/home-config", d.admin(d.Home.Get))
	router.PATCH("/api/admin/home-config", d.admin(d.Home.Patch))
}

func AddAdminRoutes(router *httprouter.Router, d Deps) {
	router.GET("/api/admin/stats", d.admin(d.Dashboard.Stats))
	if d.Uploads != nil {
		router.POST("/api/admin/uploads", d.admin(d.Uploads.Upload))
	}
}
