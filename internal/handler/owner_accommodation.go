package handler

// owner_accommodation.go covers the owner console: managing listings,
// their seasonal price tables, manual status flips and the bookings that
// land on the owner's properties.

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nvasic/lastminute-booking/internal/model"
	"github.com/nvasic/lastminute-booking/internal/pricing"
	"github.com/nvasic/lastminute-booking/internal/repository"
)

// OwnerHandler bundles the repositories the owner routes need.
type OwnerHandler struct {
	Accommodations *repository.AccommodationRepo
	Bookings       *repository.BookingRepo
}

func NewOwnerHandler(a *repository.AccommodationRepo, b *repository.BookingRepo) *OwnerHandler {
	if a == nil || b == nil {
		panic("nil repository passed to NewOwnerHandler")
	}
	return &OwnerHandler{Accommodations: a, Bookings: b}
}

type accommodationReq struct {
	CityID      uint64   `json:"city_id" validate:"required"`
	Name        string   `json:"name" validate:"required,min=2,max=160"`
	Description *string  `json:"description"`
	Capacity    uint32   `json:"capacity" validate:"required,min=1,max=50"`
	HasWifi     bool     `json:"has_wifi"`
	HasParking  bool     `json:"has_parking"`
	HasPool     bool     `json:"has_pool"`
	HasAirCon   bool     `json:"has_aircon"`
	AllowsPets  bool     `json:"allows_pets"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,longitude"`
}

// Create handles POST /v1/owner/accommodations.  New listings start as
// AVAILABLE.
func (h *OwnerHandler) Create(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req accommodationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := Validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed: " + err.Error()})
	}

	a := model.Accommodation{
		OwnerID:     ownerID,
		CityID:      req.CityID,
		Name:        req.Name,
		Description: req.Description,
		Capacity:    req.Capacity,
		HasWifi:     req.HasWifi,
		HasParking:  req.HasParking,
		HasPool:     req.HasPool,
		HasAirCon:   req.HasAirCon,
		AllowsPets:  req.AllowsPets,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Accommodations.Create(ctx, &a); err != nil {
		if err == repository.ErrCityNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "city not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"accommodation": a})
}

// List handles GET /v1/owner/accommodations.
func (h *OwnerHandler) List(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Accommodations.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/owner/accommodations/:id and includes prices.
func (h *OwnerHandler) Get(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	a, err := h.Accommodations.GetByIDAndOwner(c.Request().Context(), id, ownerID)
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

// Update handles PUT /v1/owner/accommodations/:id.  Status is not part
// of the payload; SetStatus handles flips separately.  The city is fixed
// at creation, city_id in the payload is ignored here.
func (h *OwnerHandler) Update(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req accommodationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := Validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed: " + err.Error()})
	}

	a := model.Accommodation{
		ID:          id,
		OwnerID:     ownerID,
		CityID:      req.CityID,
		Name:        req.Name,
		Description: req.Description,
		Capacity:    req.Capacity,
		HasWifi:     req.HasWifi,
		HasParking:  req.HasParking,
		HasPool:     req.HasPool,
		HasAirCon:   req.HasAirCon,
		AllowsPets:  req.AllowsPets,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Accommodations.Update(ctx, &a); err != nil {
		if err == repository.ErrAccommodationNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "accommodation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out, err := h.Accommodations.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"accommodation": out})
}

type statusReq struct {
	Status string `json:"status" validate:"required"`
}

// SetStatus handles PATCH /v1/owner/accommodations/:id/status.  Owners
// flip between AVAILABLE and UNAVAILABLE; BOOKED belongs to the booking
// flow and is rejected here, as is flipping a listing that currently
// holds a booking.
func (h *OwnerHandler) SetStatus(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if status != model.AccommodationAvailable && status != model.AccommodationUnavailable {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be AVAILABLE or UNAVAILABLE"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Accommodations.SetStatusByOwner(ctx, id, ownerID, status); err != nil {
		switch err {
		case repository.ErrAccommodationNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "accommodation not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "accommodation is currently booked"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	a, err := h.Accommodations.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"accommodation": a})
}

// Delete handles DELETE /v1/owner/accommodations/:id.  Listings with
// active bookings cannot be removed.
func (h *OwnerHandler) Delete(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Accommodations.Delete(ctx, id, ownerID); err != nil {
		switch err {
		case repository.ErrAccommodationNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "accommodation not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "accommodation has active bookings"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.NoContent(http.StatusNoContent)
}

type priceRowReq struct {
	Season     string `json:"season" validate:"required,oneof=LOW MID HIGH"`
	Duration   string `json:"duration" validate:"required"`
	PriceCents uint32 `json:"price_cents" validate:"required,min=1"`
}

type replacePricesReq struct {
	Prices []priceRowReq `json:"prices" validate:"required,min=1,max=12,dive"`
}

// ReplacePrices handles PUT /v1/owner/accommodations/:id/prices.  The
// whole table is replaced in one transaction; a duplicate
// (season, duration) pair in the payload is a conflict.
func (h *OwnerHandler) ReplacePrices(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req replacePricesReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := Validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed: " + err.Error()})
	}

	rows := make([]model.SeasonalPrice, 0, len(req.Prices))
	for _, p := range req.Prices {
		season := strings.ToUpper(strings.TrimSpace(p.Season))
		duration := strings.ToUpper(strings.TrimSpace(p.Duration))
		if !pricing.ValidSeason(season) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid season"})
		}
		if !model.ValidDuration(duration) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid duration"})
		}
		rows = append(rows, model.SeasonalPrice{
			AccommodationID: id,
			Season:          season,
			Duration:        duration,
			PriceCents:      p.PriceCents,
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if _, err := h.Accommodations.GetByIDAndOwner(ctx, id, ownerID); err != nil {
		if err == repository.ErrAccommodationNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "accommodation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if err := h.Accommodations.ReplacePrices(ctx, id, rows); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "duplicate season/duration pair"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out, err := h.Accommodations.ListPrices(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"prices": out})
}

// ListBookings handles GET /v1/owner/bookings: every booking on any of
// the owner's accommodations.
func (h *OwnerHandler) ListBookings(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Bookings.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
