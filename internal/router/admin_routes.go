package router

import (
	"github.com/labstack/echo/v4"

	"github.com/nvasic/lastminute-booking/internal/handler"
	"github.com/nvasic/lastminute-booking/internal/middleware"
	"github.com/nvasic/lastminute-booking/internal/model"
)

// RegisterAdmin registers ADMIN-scoped endpoints under /v1/admin.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	g.GET("/bookings", a.ListBookings)
	g.PATCH("/bookings/:id", a.UpdateBooking)
	g.PATCH("/payments/:id", a.UpdatePayment)

	g.POST("/countries", a.CreateCountry)
	g.POST("/regions", a.CreateRegion)
	g.POST("/cities", a.CreateCity)
}
