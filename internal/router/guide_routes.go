package router

import (
	"github.com/labstack/echo/v4"

	"github.com/nvasic/lastminute-booking/internal/handler"
	"github.com/nvasic/lastminute-booking/internal/middleware"
	"github.com/nvasic/lastminute-booking/internal/model"
)

// RegisterGuide registers GUIDE-scoped endpoints under /v1/guide.
// Guides maintain their availability windows and see the bookings they
// were assigned to.
func RegisterGuide(e *echo.Echo, g *handler.GuideHandler, jwtSecret string) {
	grp := e.Group(
		"/v1/guide",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleGuide),
	)

	grp.POST("/availability", g.CreateWindow)
	grp.GET("/availability", g.ListWindows)
	grp.PUT("/availability/:id", g.UpdateWindow)
	grp.PATCH("/availability/:id", g.UpdateWindow)
	grp.DELETE("/availability/:id", g.DeleteWindow)

	grp.GET("/bookings", g.ListBookings)
}
