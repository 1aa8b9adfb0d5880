package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/nvasic/lastminute-booking/internal/model"
)

// ErrAvailabilityNotFound is returned when an availability window lookup
// scoped to a guide matches no row.
var ErrAvailabilityNotFound = errors.New("availability window not found")

// GuideAvailabilityRepo provides data access to the guide_availability
// table.  Windows are what checkout consults when a BONUS booking needs a
// guide; no row locking is taken, so two simultaneous bookings may pick
// the same guide.  All timestamps are UTC.
type GuideAvailabilityRepo struct{ db *sql.DB }

func NewGuideAvailabilityRepo(db *sql.DB) *GuideAvailabilityRepo {
	return &GuideAvailabilityRepo{db: db}
}

const availabilityCols = `id, guide_id, city_id, from_date, to_date, is_active, created_at, updated_at`

func scanAvailability(row interface{ Scan(...interface{}) error }) (model.GuideAvailability, error) {
	var w model.GuideAvailability
	err := row.Scan(&w.ID, &w.GuideID, &w.CityID, &w.FromDate, &w.ToDate,
		&w.IsActive, &w.CreatedAt, &w.UpdatedAt)
	return w, err
}

// Create inserts a new window and populates the generated ID.
func (r *GuideAvailabilityRepo) Create(ctx context.Context, w *model.GuideAvailability) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO guide_availability (guide_id, city_id, from_date, to_date, is_active)
		 VALUES (?, ?, ?, ?, ?)`,
		w.GuideID, w.CityID, w.FromDate.UTC(), w.ToDate.UTC(), w.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	w.ID = uint64(id)
	return nil
}

// ListByGuide returns every window of one guide, newest first.
func (r *GuideAvailabilityRepo) ListByGuide(ctx context.Context, guideID uint64) ([]model.GuideAvailability, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+availabilityCols+` FROM guide_availability
		 WHERE guide_id = ? ORDER BY from_date DESC`, guideID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.GuideAvailability{}
	for rows.Next() {
		w, err := scanAvailability(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// GetByIDAndGuide fetches one window and enforces that it belongs to the
// calling guide.
func (r *GuideAvailabilityRepo) GetByIDAndGuide(ctx context.Context, id, guideID uint64) (model.GuideAvailability, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+availabilityCols+` FROM guide_availability
		 WHERE id = ? AND guide_id = ? LIMIT 1`, id, guideID)
	w, err := scanAvailability(row)
	if err == sql.ErrNoRows {
		return model.GuideAvailability{}, ErrAvailabilityNotFound
	}
	return w, err
}

// Update overwrites the window bounds and active flag.  Zero affected
// rows maps to not-found.
func (r *GuideAvailabilityRepo) Update(ctx context.Context, w *model.GuideAvailability) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE guide_availability SET city_id = ?, from_date = ?, to_date = ?, is_active = ?, updated_at = NOW()
		 WHERE id = ? AND guide_id = ?`,
		w.CityID, w.FromDate.UTC(), w.ToDate.UTC(), w.IsActive, w.ID, w.GuideID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAvailabilityNotFound
	}
	return nil
}

// Delete removes a window owned by the guide.
func (r *GuideAvailabilityRepo) Delete(ctx context.Context, id, guideID uint64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM guide_availability WHERE id = ? AND guide_id = ?`, id, guideID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAvailabilityNotFound
	}
	return nil
}

// ExistsOverlapping reports whether an active window of the same guide and
// city overlaps [from, to).  The three clauses cover the three overlap
// shapes: the new window contains an existing start, contains an existing
// end, or sits nested inside an existing window.  excludeID skips the row
// being updated; pass 0 on create.
func (r *GuideAvailabilityRepo) ExistsOverlapping(ctx context.Context, guideID, cityID uint64, from, to time.Time, excludeID uint64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM guide_availability
		 WHERE guide_id = ? AND city_id = ? AND is_active = 1 AND id <> ?
		   AND (
		         (from_date >= ? AND from_date < ?)
		      OR (to_date   >  ? AND to_date   <= ?)
		      OR (from_date <= ? AND to_date   >= ?)
		   )`,
		guideID, cityID, excludeID,
		from.UTC(), to.UTC(),
		from.UTC(), to.UTC(),
		from.UTC(), to.UTC()).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// FindAvailableGuideTx returns the ID of the first guide with an active
// window in the given city containing "now".  Used by BONUS checkout
// inside the booking transaction.  First match wins; there is no fairness
// or round-robin.  sql.ErrNoRows means no guide matched and the booking
// proceeds unguided.
func (r *GuideAvailabilityRepo) FindAvailableGuideTx(ctx context.Context, tx *sql.Tx, cityID uint64, now time.Time) (uint64, error) {
	var guideID uint64
	err := tx.QueryRowContext(ctx,
		`SELECT guide_id FROM guide_availability
		 WHERE city_id = ? AND is_active = 1 AND from_date <= ? AND to_date > ?
		 ORDER BY id LIMIT 1`,
		cityID, now.UTC(), now.UTC()).Scan(&guideID)
	if err != nil {
		return 0, err
	}
	return guideID, nil
}
