package handler

// guide_availability.go lets guides publish the windows during which
// checkout may assign them to BONUS bookings, and lists the bookings a
// guide has been assigned to.

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nvasic/lastminute-booking/internal/model"
	"github.com/nvasic/lastminute-booking/internal/repository"
)

type GuideHandler struct {
	Availability *repository.GuideAvailabilityRepo
	Destinations *repository.DestinationRepo
	Bookings     *repository.BookingRepo
}

func NewGuideHandler(a *repository.GuideAvailabilityRepo, d *repository.DestinationRepo, b *repository.BookingRepo) *GuideHandler {
	if a == nil || d == nil || b == nil {
		panic("nil repository passed to NewGuideHandler")
	}
	return &GuideHandler{Availability: a, Destinations: d, Bookings: b}
}

type availabilityReq struct {
	CityID   uint64 `json:"city_id" validate:"required"`
	FromDate string `json:"from_date" validate:"required"`
	ToDate   string `json:"to_date" validate:"required"`
	IsActive *bool  `json:"is_active"`
}

// parseWindow validates the from/to pair: both RFC3339 and from strictly
// before to.
func parseWindow(fromStr, toStr string) (from, to time.Time, ok bool) {
	from, err := time.Parse(time.RFC3339, fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	to, err = time.Parse(time.RFC3339, toStr)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	from, to = from.UTC(), to.UTC()
	if !from.Before(to) {
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

// CreateWindow handles POST /v1/guide/availability.  Overlapping windows
// for the same guide and city are rejected so a guide never double-books
// a period.
func (h *GuideHandler) CreateWindow(c echo.Context) error {
	guideID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req availabilityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := Validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed: " + err.Error()})
	}
	from, to, ok := parseWindow(req.FromDate, req.ToDate)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid window, want RFC3339 with from_date before to_date"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Destinations.GetCity(ctx, req.CityID); err != nil {
		if err == repository.ErrCityNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "city not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	overlap, err := h.Availability.ExistsOverlapping(ctx, guideID, req.CityID, from, to, 0)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if overlap {
		return c.JSON(http.StatusConflict, echo.Map{"error": "window overlaps an existing one"})
	}

	w := model.GuideAvailability{
		GuideID:  guideID,
		CityID:   req.CityID,
		FromDate: from,
		ToDate:   to,
		IsActive: true,
	}
	if req.IsActive != nil {
		w.IsActive = *req.IsActive
	}
	if err := h.Availability.Create(ctx, &w); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"availability": w})
}

// ListWindows handles GET /v1/guide/availability.
func (h *GuideHandler) ListWindows(c echo.Context) error {
	guideID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Availability.ListByGuide(c.Request().Context(), guideID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateWindow handles PUT /v1/guide/availability/:id.  The overlap
// check excludes the window being edited.
func (h *GuideHandler) UpdateWindow(c echo.Context) error {
	guideID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req availabilityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := Validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed: " + err.Error()})
	}
	from, to, ok := parseWindow(req.FromDate, req.ToDate)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid window, want RFC3339 with from_date before to_date"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	w, err := h.Availability.GetByIDAndGuide(ctx, id, guideID)
	if err != nil {
		if err == repository.ErrAvailabilityNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "availability window not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if _, err := h.Destinations.GetCity(ctx, req.CityID); err != nil {
		if err == repository.ErrCityNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "city not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	overlap, err := h.Availability.ExistsOverlapping(ctx, guideID, req.CityID, from, to, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if overlap {
		return c.JSON(http.StatusConflict, echo.Map{"error": "window overlaps an existing one"})
	}

	w.CityID = req.CityID
	w.FromDate = from
	w.ToDate = to
	if req.IsActive != nil {
		w.IsActive = *req.IsActive
	}
	if err := h.Availability.Update(ctx, &w); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"availability": w})
}

// DeleteWindow handles DELETE /v1/guide/availability/:id.
func (h *GuideHandler) DeleteWindow(c echo.Context) error {
	guideID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Availability.Delete(ctx, id, guideID); err != nil {
		if err == repository.ErrAvailabilityNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "availability window not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListBookings handles GET /v1/guide/bookings: bookings where this guide
// is assigned.
func (h *GuideHandler) ListBookings(c echo.Context) error {
	guideID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Bookings.ListByGuide(c.Request().Context(), guideID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
