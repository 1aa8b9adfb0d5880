package handler

// admin.go is the back-office surface: the full booking list with hold
// expiry flags, manual booking and payment corrections, and destination
// management.  Holds are never expired automatically; staff see which
// bookings ran past their 36 hour window and decide what to do.

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nvasic/lastminute-booking/internal/model"
	"github.com/nvasic/lastminute-booking/internal/repository"
)

type AdminHandler struct {
	Bookings       *repository.BookingRepo
	Payments       *repository.PaymentRepo
	Accommodations *repository.AccommodationRepo
	Destinations   *repository.DestinationRepo
	Users          *repository.UserRepo
}

func NewAdminHandler(b *repository.BookingRepo, p *repository.PaymentRepo, a *repository.AccommodationRepo, d *repository.DestinationRepo, u *repository.UserRepo) *AdminHandler {
	if b == nil || p == nil || a == nil || d == nil || u == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{Bookings: b, Payments: p, Accommodations: a, Destinations: d, Users: u}
}

// bookingWithExpiry decorates a booking with the computed expired flag.
type bookingWithExpiry struct {
	model.Booking
	Expired bool `json:"expired"`
}

// holdExpired reports whether a PENDING or CONFIRMED booking ran past its
// hold window.  Terminal states never count as expired.
func holdExpired(b model.Booking, now time.Time) bool {
	if b.Status != model.BookingPending && b.Status != model.BookingConfirmed {
		return false
	}
	return now.After(b.ExpiresAt)
}

// ListBookings handles GET /v1/admin/bookings with an optional ?status=
// filter.
func (h *AdminHandler) ListBookings(c echo.Context) error {
	status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))
	if status != "" && !model.ValidBookingStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	items, err := h.Bookings.ListAll(c.Request().Context(), status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	now := time.Now().UTC()
	out := make([]bookingWithExpiry, 0, len(items))
	for _, b := range items {
		out = append(out, bookingWithExpiry{Booking: b, Expired: holdExpired(b, now)})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

type adminBookingPatch struct {
	Status        *string `json:"status"`
	GuideID       *uint64 `json:"guide_id"`
	ClearGuide    bool    `json:"clear_guide"`
	JourneyStatus *string `json:"journey_status"`
}

// UpdateBooking handles PATCH /v1/admin/bookings/:id.  Any combination
// of status, guide assignment and journey status can be corrected in one
// call; moving a booking to CANCELLED or NO_SHOW releases its
// accommodation in the same transaction.
func (h *AdminHandler) UpdateBooking(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req adminBookingPatch
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Status == nil && req.GuideID == nil && !req.ClearGuide && req.JourneyStatus == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nothing to update"})
	}
	if req.GuideID != nil && req.ClearGuide {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "guide_id and clear_guide are mutually exclusive"})
	}

	var newStatus string
	if req.Status != nil {
		newStatus = strings.ToUpper(strings.TrimSpace(*req.Status))
		if !model.ValidBookingStatus(newStatus) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
		}
	}
	var newJourney string
	if req.JourneyStatus != nil {
		newJourney = strings.ToUpper(strings.TrimSpace(*req.JourneyStatus))
		if !model.ValidJourneyStatus(newJourney) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid journey_status"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if req.GuideID != nil {
		u, err := h.Users.GetByID(ctx, *req.GuideID)
		if err != nil || u.Role != model.RoleGuide {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "guide_id does not reference a guide"})
		}
	}

	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b, err := h.Bookings.GetByIDTx(ctx, tx, id)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	if newStatus != "" && newStatus != b.Status {
		if err := h.Bookings.UpdateStatusTx(ctx, tx, b.ID, newStatus); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		// Leaving the active states frees the listing for the next
		// last-minute traveler.
		if newStatus == model.BookingCancelled || newStatus == model.BookingNoShow {
			if err := h.Accommodations.ReleaseTx(ctx, tx, b.AccommodationID); err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
			}
		}
	}
	if req.GuideID != nil {
		if err := h.Bookings.SetGuideTx(ctx, tx, b.ID, req.GuideID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
	} else if req.ClearGuide {
		if err := h.Bookings.SetGuideTx(ctx, tx, b.ID, nil); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
	}
	if newJourney != "" {
		if err := h.Bookings.StampJourneyTx(ctx, tx, b.ID, newJourney, time.Now().UTC()); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	committed = true

	out, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": bookingWithExpiry{Booking: out, Expired: holdExpired(out, time.Now().UTC())}})
}

type paymentPatch struct {
	Status string `json:"status" validate:"required"`
}

// UpdatePayment handles PATCH /v1/admin/payments/:id.  There is no
// gateway; staff move payments between states by hand.
func (h *AdminHandler) UpdatePayment(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req paymentPatch
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if !model.ValidPaymentStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	p, err := h.Payments.UpdateStatus(c.Request().Context(), id, status)
	if err != nil {
		if err == repository.ErrPaymentNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "payment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"payment": p})
}

type countryReq struct {
	Name string `json:"name" validate:"required,min=2,max=120"`
	Code string `json:"code" validate:"required,len=2,alpha"`
}

// CreateCountry handles POST /v1/admin/countries.
func (h *AdminHandler) CreateCountry(c echo.Context) error {
	var req countryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := Validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed: " + err.Error()})
	}
	country := model.Country{Name: req.Name, Code: strings.ToUpper(req.Code)}
	if err := h.Destinations.CreateCountry(c.Request().Context(), &country); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "country already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"country": country})
}

type regionReq struct {
	CountryID uint64 `json:"country_id" validate:"required"`
	Name      string `json:"name" validate:"required,min=2,max=120"`
}

// CreateRegion handles POST /v1/admin/regions.
func (h *AdminHandler) CreateRegion(c echo.Context) error {
	var req regionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := Validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed: " + err.Error()})
	}
	region := model.Region{CountryID: req.CountryID, Name: req.Name}
	if err := h.Destinations.CreateRegion(c.Request().Context(), &region); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "duplicate region or unknown country"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"region": region})
}

type cityReq struct {
	RegionID uint64 `json:"region_id" validate:"required"`
	Name     string `json:"name" validate:"required,min=2,max=120"`
}

// CreateCity handles POST /v1/admin/cities.
func (h *AdminHandler) CreateCity(c echo.Context) error {
	var req cityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := Validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed: " + err.Error()})
	}
	city := model.City{RegionID: req.RegionID, Name: req.Name}
	if err := h.Destinations.CreateCity(c.Request().Context(), &city); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "duplicate city or unknown region"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"city": city})
}
