package router

import (
	"github.com/labstack/echo/v4"

	"github.com/nvasic/lastminute-booking/internal/handler"
	"github.com/nvasic/lastminute-booking/internal/middleware"
	"github.com/nvasic/lastminute-booking/internal/model"
)

// RegisterOwner registers OWNER-scoped endpoints under /v1/owner.
// All routes require a valid JWT and the OWNER role.
func RegisterOwner(e *echo.Echo, o *handler.OwnerHandler, jwtSecret string) {
	g := e.Group(
		"/v1/owner",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleOwner),
	)

	g.POST("/accommodations", o.Create)
	g.GET("/accommodations", o.List)
	g.GET("/accommodations/:id", o.Get)
	g.PUT("/accommodations/:id", o.Update)
	g.PATCH("/accommodations/:id/status", o.SetStatus)
	g.PUT("/accommodations/:id/prices", o.ReplacePrices)
	g.DELETE("/accommodations/:id", o.Delete)

	g.GET("/bookings", o.ListBookings)
}
