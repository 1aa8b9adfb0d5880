package router

import (
	"github.com/labstack/echo/v4"

	"github.com/nvasic/lastminute-booking/internal/handler"
	"github.com/nvasic/lastminute-booking/internal/middleware"
	"github.com/nvasic/lastminute-booking/internal/model"
)

// RegisterTraveler registers traveler-scoped endpoints under /v1.  All
// routes require a valid JWT and the TRAVELER role.  Travelers create
// bookings, list and inspect their own, move the journey marker and
// leave reviews after completed stays.
//
// GET /v1/bookings/:id and the journey PATCH are shared with guides, so
// they live in RegisterShared instead of here.
func RegisterTraveler(e *echo.Echo, b *handler.BookingHandler, r *handler.ReviewHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleTraveler),
	)

	g.POST("/bookings", b.Create)
	g.GET("/my-bookings", b.ListMine)
	g.POST("/bookings/:id/reviews", r.Create)
}

// RegisterShared registers booking endpoints reachable by more than one
// role.  The handlers enforce per-booking access themselves (traveler on
// the booking, assigned guide, or admin).
func RegisterShared(e *echo.Echo, b *handler.BookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleTraveler, model.RoleGuide, model.RoleAdmin),
	)

	g.GET("/bookings/:id", b.Get)
	g.PATCH("/bookings/:id/journey", b.UpdateJourney)
}
