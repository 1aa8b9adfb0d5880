package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/nvasic/lastminute-booking/internal/handler"
	"github.com/nvasic/lastminute-booking/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check;
// the /metrics endpoint is mounted in main next to the Prometheus
// registry.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication routes.  Unauthenticated
// operations live under /v1/auth; /v1/me needs a valid access token but
// works for every role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	e.GET("/v1/me", a.Me, middleware.JWTAuth(jwtSecret))
}

// RegisterPublic registers the guest browse endpoints: the destination
// tree, accommodation search, details, quotes and reviews.  No JWT or
// role middleware; cacheMW (the Redis response cache) may be nil when
// caching is disabled.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cacheMW echo.MiddlewareFunc) {
	mws := []echo.MiddlewareFunc{}
	if cacheMW != nil {
		mws = append(mws, cacheMW)
	}
	g := e.Group("/v1", mws...)

	g.GET("/countries", p.ListCountries)
	g.GET("/countries/:id/regions", p.ListRegions)
	g.GET("/regions/:id/cities", p.ListCities)
	g.GET("/cities/:id/accommodations", p.SearchAccommodations)
	g.GET("/accommodations/:id", p.GetAccommodation)
	g.GET("/accommodations/:id/quote", p.Quote)
	g.GET("/accommodations/:id/reviews", p.ListReviews)
}
