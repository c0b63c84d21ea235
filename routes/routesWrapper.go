package routes

import (
	"net/http"

	"bhraman/middleware"
	"bhraman/utils"

	"github.com/julienschmidt/httprouter"
)

func RoutesWrapper(router *httprouter.Router, d Deps) {
	AddStaticRoutes(router, d)
	AddUserRoutes(router, d)
	AddPackageRoutes(router, d)
	AddBookingRoutes(router, d)
	AddHomeRoutes(router, d)
	AddAdminRoutes(router, d)
}

// NewRouter returns a router with every route registered and JSON
// responses for panics, unknown paths and wrong methods.
func NewRouter(d Deps) *httprouter.Router {
	router := httprouter.New()
	router.PanicHandler = middleware.PanicHandler
	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondWithError(w, http.StatusNotFound, "route not found")
	})
	router.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	RoutesWrapper(router, d)
	return router
}
