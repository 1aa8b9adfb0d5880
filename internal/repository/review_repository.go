package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/nvasic/lastminute-booking/internal/model"
)

// ErrReviewExists is returned when a booking already carries a review.
var ErrReviewExists = errors.New("review already exists for this booking")

// ReviewRepo provides data access to the reviews table.  One review per
// booking: the existence check and the insert run in the same transaction
// and the booking_id column is UNIQUE, so a duplicate attempt fails even
// if two requests race past the check.
type ReviewRepo struct{ db *sql.DB }

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// DB exposes the underlying handle so the handler can run the gate and
// the insert in one transaction.
func (r *ReviewRepo) DB() *sql.DB { return r.db }

// ExistsForBookingTx reports whether the booking already has a review.
func (r *ReviewRepo) ExistsForBookingTx(ctx context.Context, tx *sql.Tx, bookingID uint64) (bool, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reviews WHERE booking_id = ?`, bookingID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateTx inserts a review within the provided transaction.  The UNIQUE
// constraint on booking_id maps duplicate inserts to ErrReviewExists.
func (r *ReviewRepo) CreateTx(ctx context.Context, tx *sql.Tx, rev *model.Review) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO reviews (booking_id, accommodation_id, traveler_id, rating, comment)
		 VALUES (?, ?, ?, ?, ?)`,
		rev.BookingID, rev.AccommodationID, rev.TravelerID, rev.Rating, rev.Comment)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return ErrReviewExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rev.ID = uint64(id)
	return nil
}

// ListByAccommodation returns the public reviews of one accommodation,
// newest first.
func (r *ReviewRepo) ListByAccommodation(ctx context.Context, accommodationID uint64) ([]model.Review, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, booking_id, accommodation_id, traveler_id, rating, comment, created_at
		 FROM reviews WHERE accommodation_id = ?
		 ORDER BY created_at DESC`, accommodationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Review{}
	for rows.Next() {
		var (
			rev     model.Review
			comment sql.NullString
		)
		if err := rows.Scan(&rev.ID, &rev.BookingID, &rev.AccommodationID,
			&rev.TravelerID, &rev.Rating, &comment, &rev.CreatedAt); err != nil {
			return nil, err
		}
		if comment.Valid {
			c := comment.String
			rev.Comment = &c
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}
