package handler

// public_browse.go exposes the unauthenticated catalog: the destination
// tree, accommodation search, listing details with their price tables,
// price quotes for the booking wizard, and reviews.  These routes sit
// behind the Redis response cache.

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nvasic/lastminute-booking/internal/config"
	"github.com/nvasic/lastminute-booking/internal/model"
	"github.com/nvasic/lastminute-booking/internal/pricing"
	"github.com/nvasic/lastminute-booking/internal/repository"
)

// PublicHandler bundles read-only repositories for guest browsing.
type PublicHandler struct {
	Cfg            config.Config
	Destinations   *repository.DestinationRepo
	Accommodations *repository.AccommodationRepo
	Reviews        *repository.ReviewRepo
}

func NewPublicHandler(cfg config.Config, d *repository.DestinationRepo, a *repository.AccommodationRepo, r *repository.ReviewRepo) *PublicHandler {
	if d == nil || a == nil || r == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{Cfg: cfg, Destinations: d, Accommodations: a, Reviews: r}
}

// ListCountries handles GET /v1/countries.
func (h *PublicHandler) ListCountries(c echo.Context) error {
	items, err := h.Destinations.ListCountries(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListRegions handles GET /v1/countries/:id/regions.
func (h *PublicHandler) ListRegions(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid country id"})
	}
	items, err := h.Destinations.ListRegionsByCountry(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListCities handles GET /v1/regions/:id/cities.
func (h *PublicHandler) ListCities(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid region id"})
	}
	items, err := h.Destinations.ListCitiesByRegion(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// boolParam parses an optional true/false query parameter into a *bool.
func boolParam(c echo.Context, name string) *bool {
	v := strings.ToLower(strings.TrimSpace(c.QueryParam(name)))
	switch v {
	case "true", "1":
		b := true
		return &b
	case "false", "0":
		b := false
		return &b
	}
	return nil
}

// SearchAccommodations handles GET /v1/cities/:id/accommodations.  It is
// the server side of the wizard's catalog step: filter by capacity and
// amenities within one city.  Status defaults to AVAILABLE so travelers
// only see bookable listings; pass status=ALL to lift the filter.
func (h *PublicHandler) SearchAccommodations(c echo.Context) error {
	cityID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid city id"})
	}
	if _, err := h.Destinations.GetCity(c.Request().Context(), cityID); err != nil {
		if err == repository.ErrCityNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "city not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	f := repository.SearchFilter{
		CityID:  cityID,
		Status:  model.AccommodationAvailable,
		Wifi:    boolParam(c, "wifi"),
		Parking: boolParam(c, "parking"),
		Pool:    boolParam(c, "pool"),
		Pets:    boolParam(c, "pets"),
	}
	if s := strings.ToUpper(strings.TrimSpace(c.QueryParam("status"))); s == "ALL" {
		f.Status = ""
	}
	if mc := c.QueryParam("min_capacity"); mc != "" {
		n, err := strconv.ParseUint(mc, 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid min_capacity"})
		}
		f.MinCapacity = uint32(n)
	}

	items, err := h.Accommodations.Search(c.Request().Context(), f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetAccommodation handles GET /v1/accommodations/:id and includes the
// seasonal price table.
func (h *PublicHandler) GetAccommodation(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	a, err := h.Accommodations.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrAccommodationNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "accommodation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	prices, err := h.Accommodations.ListPrices(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"accommodation": a, "prices": prices})
}

// Quote handles GET /v1/accommodations/:id/quote.  The wizard calls it
// before checkout so the displayed total always matches what the booking
// endpoint will compute.  Query: arrival (RFC3339), duration, package.
func (h *PublicHandler) Quote(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	arrival, err := time.Parse(time.RFC3339, c.QueryParam("arrival"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid arrival, want RFC3339"})
	}
	duration := strings.ToUpper(strings.TrimSpace(c.QueryParam("duration")))
	if !model.ValidDuration(duration) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid duration"})
	}
	pkg := strings.ToUpper(strings.TrimSpace(c.QueryParam("package")))
	if pkg == "" {
		pkg = model.PackageBasic
	}
	if pkg != model.PackageBasic && pkg != model.PackageBonus {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid package"})
	}

	if _, err := h.Accommodations.GetByID(c.Request().Context(), id); err != nil {
		if err == repository.ErrAccommodationNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "accommodation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	rows, err := h.Accommodations.ListPrices(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	total, err := pricing.Quote(rows, arrival, duration, pkg, h.Cfg.GuideSurchargeCents)
	if err != nil {
		if err == pricing.ErrNoPrice {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "no price for this season and duration"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "quote failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"season":      pricing.SeasonFor(arrival),
		"duration":    duration,
		"package":     pkg,
		"total_cents": total,
	})
}

// ListReviews handles GET /v1/accommodations/:id/reviews.
func (h *PublicHandler) ListReviews(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	items, err := h.Reviews.ListByAccommodation(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
