package handler

// booking.go implements the traveler side of the booking lifecycle: the
// checkout that turns a travel form into a CONFIRMED booking, listing
// and fetching bookings, and journey-status updates during the trip.

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/nvasic/lastminute-booking/internal/config"
	"github.com/nvasic/lastminute-booking/internal/model"
	"github.com/nvasic/lastminute-booking/internal/pricing"
	"github.com/nvasic/lastminute-booking/internal/queue"
	"github.com/nvasic/lastminute-booking/internal/repository"
	queue_publisher "github.com/nvasic/lastminute-booking/internal/service"
)

// BookingHandler owns checkout and the traveler-facing booking reads.
type BookingHandler struct {
	Cfg            config.Config
	Bookings       *repository.BookingRepo
	Payments       *repository.PaymentRepo
	Accommodations *repository.AccommodationRepo
	Availability   *repository.GuideAvailabilityRepo
	Destinations   *repository.DestinationRepo
	Users          *repository.UserRepo
}

func NewBookingHandler(cfg config.Config, b *repository.BookingRepo, p *repository.PaymentRepo, a *repository.AccommodationRepo, g *repository.GuideAvailabilityRepo, d *repository.DestinationRepo, u *repository.UserRepo) *BookingHandler {
	if b == nil || p == nil || a == nil || g == nil || d == nil || u == nil {
		panic("nil repository passed to NewBookingHandler")
	}
	return &BookingHandler{Cfg: cfg, Bookings: b, Payments: p, Accommodations: a, Availability: g, Destinations: d, Users: u}
}

type createBookingReq struct {
	AccommodationID   uint64 `json:"accommodation_id" validate:"required"`
	ArrivalAt         string `json:"arrival_at" validate:"required"`
	Duration          string `json:"duration" validate:"required"`
	Package           string `json:"package" validate:"required,oneof=BASIC BONUS"`
	GuestName         string `json:"guest_name" validate:"required,min=2,max=120"`
	GuestEmail        string `json:"guest_email" validate:"required,email"`
	GuestPhone        string `json:"guest_phone" validate:"required,min=5,max=32"`
	WantsEmailUpdates bool   `json:"wants_email_updates"`
	WantsSMSUpdates   bool   `json:"wants_sms_updates"`
}

// Create handles POST /v1/bookings.  The whole checkout runs in one
// transaction: flip the accommodation AVAILABLE to BOOKED, pick a guide
// for BONUS packages, compute the total from the stored price table,
// insert the booking and its PENDING payment.  The notification event is
// published only after the transaction commits.
func (h *BookingHandler) Create(c echo.Context) error {
	travelerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := Validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed: " + err.Error()})
	}
	req.Duration = strings.ToUpper(strings.TrimSpace(req.Duration))
	if !model.ValidDuration(req.Duration) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid duration"})
	}
	arrival, err := time.Parse(time.RFC3339, req.ArrivalAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid arrival_at, want RFC3339"})
	}
	arrival = arrival.UTC()
	now := time.Now().UTC()
	if arrival.Before(now) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "arrival_at is in the past"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	acc, err := h.Accommodations.GetByID(ctx, req.AccommodationID)
	if err != nil {
		if err == repository.ErrAccommodationNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "accommodation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	prices, err := h.Accommodations.ListPrices(ctx, acc.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	total, err := pricing.Quote(prices, arrival, req.Duration, req.Package, h.Cfg.GuideSurchargeCents)
	if err != nil {
		if err == pricing.ErrNoPrice {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "no price for this season and duration"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "quote failed"})
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

	// The status flip doubles as the concurrency guard: the first
	// checkout wins, everyone else sees zero affected rows.
	if err := h.Accommodations.MarkBookedTx(ctx, tx, acc.ID); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "accommodation is no longer available"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	var guideID *uint64
	if req.Package == model.PackageBonus {
		gid, err := h.Availability.FindAvailableGuideTx(ctx, tx, acc.CityID, now)
		if err == nil {
			guideID = &gid
		} else if err != sql.ErrNoRows {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		// No matching guide leaves guide_id empty; the booking still goes through.
	}

	b := model.Booking{
		Reference:         uuid.NewString(),
		TravelerID:        travelerID,
		AccommodationID:   acc.ID,
		GuideID:           guideID,
		GuestName:         req.GuestName,
		GuestEmail:        req.GuestEmail,
		GuestPhone:        req.GuestPhone,
		WantsEmailUpdates: req.WantsEmailUpdates,
		WantsSMSUpdates:   req.WantsSMSUpdates,
		ArrivalAt:         arrival,
		Duration:          req.Duration,
		Package:           req.Package,
		TotalCents:        total,
		Status:            model.BookingConfirmed,
		JourneyStatus:     model.JourneyNotStarted,
		ExpiresAt:         now.Add(time.Duration(h.Cfg.BookingHoldHours) * time.Hour),
	}
	if err := h.Bookings.CreateTx(ctx, tx, &b); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	p := model.Payment{
		BookingID:   b.ID,
		Reference:   uuid.NewString(),
		AmountCents: total,
		Status:      model.PaymentPending,
	}
	if err := h.Payments.CreateTx(ctx, tx, &p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	committed = true

	h.publishCreated(acc, b)

	return c.JSON(http.StatusCreated, echo.Map{"booking": b, "payment": p})
}

// publishCreated fires the booking.created event in the background.  A
// broker outage must not fail a committed checkout, so errors are only
// logged.
func (h *BookingHandler) publishCreated(acc model.Accommodation, b model.Booking) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		ev := queue.BookingCreatedEvent{
			BookingID:         b.ID,
			Reference:         b.Reference,
			GuestName:         b.GuestName,
			GuestEmail:        b.GuestEmail,
			AccommodationName: acc.Name,
			ArrivalAt:         b.ArrivalAt.Format(time.RFC3339),
			Duration:          b.Duration,
			Package:           b.Package,
			GuideAssigned:     b.GuideID != nil,
			TotalCents:        b.TotalCents,
			ExpiresAt:         b.ExpiresAt.Format(time.RFC3339),
			CreatedAt:         b.CreatedAt.Format(time.RFC3339),
		}
		if owner, err := h.Users.GetByID(ctx, acc.OwnerID); err == nil {
			ev.OwnerName = owner.FullName
			ev.OwnerEmail = owner.Email
		} else {
			log.Printf("booking %d: owner lookup for notification failed: %v", b.ID, err)
		}
		if city, err := h.Destinations.GetCity(ctx, acc.CityID); err == nil {
			ev.CityName = city.Name
		}
		if err := queue_publisher.PublishBookingCreated(ctx, ev); err != nil {
			log.Printf("booking %d: publish booking.created failed: %v", b.ID, err)
		}
	}()
}

// ListMine handles GET /v1/my-bookings.
func (h *BookingHandler) ListMine(c echo.Context) error {
	travelerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Bookings.ListByTraveler(c.Request().Context(), travelerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// canSee reports whether the caller may read booking b.  Travelers see
// their own bookings, guides the ones assigned to them, admins all.
func canSee(b model.Booking, userID uint64, role string) bool {
	switch {
	case role == model.RoleAdmin:
		return true
	case b.TravelerID == userID:
		return true
	case b.GuideID != nil && *b.GuideID == userID:
		return true
	}
	return false
}

// Get handles GET /v1/bookings/:id.
func (h *BookingHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	b, err := h.Bookings.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if !canSee(b, userID, currentRole(c)) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	payment, err := h.Payments.GetByBookingID(c.Request().Context(), b.ID)
	if err != nil && err != repository.ErrPaymentNotFound {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	resp := echo.Map{"booking": b}
	if err == nil {
		resp["payment"] = payment
	}
	return c.JSON(http.StatusOK, resp)
}

type journeyReq struct {
	JourneyStatus string `json:"journey_status" validate:"required"`
}

// UpdateJourney handles PATCH /v1/bookings/:id/journey.  The traveler on
// the booking or its assigned guide may move the marker; any of the four
// values is accepted in any order and only the matching timestamp column
// is stamped, earlier stamps are left alone.
func (h *BookingHandler) UpdateJourney(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req journeyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	status := strings.ToUpper(strings.TrimSpace(req.JourneyStatus))
	if !model.ValidJourneyStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid journey_status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

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
	allowed := b.TravelerID == userID || (b.GuideID != nil && *b.GuideID == userID)
	if !allowed {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Bookings.StampJourneyTx(ctx, tx, b.ID, status, time.Now().UTC()); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	committed = true

	b, err = h.Bookings.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": b})
}
