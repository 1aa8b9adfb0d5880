package handler

// review.go takes reviews from travelers.  A review hangs off a booking,
// not just an accommodation: only the traveler who completed the stay
// may write one, and only once.

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nvasic/lastminute-booking/internal/model"
	"github.com/nvasic/lastminute-booking/internal/repository"
)

type ReviewHandler struct {
	Reviews  *repository.ReviewRepo
	Bookings *repository.BookingRepo
}

func NewReviewHandler(r *repository.ReviewRepo, b *repository.BookingRepo) *ReviewHandler {
	if r == nil || b == nil {
		panic("nil repository passed to NewReviewHandler")
	}
	return &ReviewHandler{Reviews: r, Bookings: b}
}

type createReviewReq struct {
	Rating  uint8   `json:"rating" validate:"required,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,max=2000"`
}

// Create handles POST /v1/bookings/:id/reviews.  The eligibility check
// and the insert run in one transaction; the unique index on booking_id
// backstops concurrent double submissions.
func (h *ReviewHandler) Create(c echo.Context) error {
	travelerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req createReviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := Validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed: " + err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tx, err := h.Reviews.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b, err := h.Bookings.GetByIDTx(ctx, tx, bookingID)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if b.TravelerID != travelerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if b.Status != model.BookingCompleted {
		return c.JSON(http.StatusConflict, echo.Map{"error": "only completed stays can be reviewed"})
	}
	exists, err := h.Reviews.ExistsForBookingTx(ctx, tx, b.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if exists {
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking already reviewed"})
	}

	rev := model.Review{
		BookingID:       b.ID,
		AccommodationID: b.AccommodationID,
		TravelerID:      travelerID,
		Rating:          req.Rating,
		Comment:         req.Comment,
	}
	if err := h.Reviews.CreateTx(ctx, tx, &rev); err != nil {
		if err == repository.ErrReviewExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking already reviewed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	committed = true

	return c.JSON(http.StatusCreated, echo.Map{"review": rev})
}
