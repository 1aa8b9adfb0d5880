package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/nvasic/lastminute-booking/internal/model"
)

// ErrAccommodationNotFound is returned when a lookup by id (optionally
// scoped to an owner) matches no row.
var ErrAccommodationNotFound = errors.New("accommodation not found")

// AccommodationRepo provides CRUD over accommodations and their seasonal
// price tables.  Status transitions triggered by the booking lifecycle
// run through the Tx variants so they share the checkout transaction.
type AccommodationRepo struct{ db *sql.DB }

func NewAccommodationRepo(db *sql.DB) *AccommodationRepo { return &AccommodationRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// spanning several repositories.
func (r *AccommodationRepo) DB() *sql.DB { return r.db }

const accommodationCols = `id, owner_id, city_id, name, description, capacity,
	has_wifi, has_parking, has_pool, has_aircon, allows_pets,
	latitude, longitude, status, created_at, updated_at`

func scanAccommodation(row interface{ Scan(...interface{}) error }) (model.Accommodation, error) {
	var (
		a    model.Accommodation
		desc sql.NullString
		lat  sql.NullFloat64
		lng  sql.NullFloat64
	)
	err := row.Scan(&a.ID, &a.OwnerID, &a.CityID, &a.Name, &desc, &a.Capacity,
		&a.HasWifi, &a.HasParking, &a.HasPool, &a.HasAirCon, &a.AllowsPets,
		&lat, &lng, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return model.Accommodation{}, err
	}
	if desc.Valid {
		d := desc.String
		a.Description = &d
	}
	if lat.Valid {
		v := lat.Float64
		a.Latitude = &v
	}
	if lng.Valid {
		v := lng.Float64
		a.Longitude = &v
	}
	return a, nil
}

// Create inserts a new listing with status AVAILABLE and populates the
// generated ID on the model.
func (r *AccommodationRepo) Create(ctx context.Context, a *model.Accommodation) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO accommodations
		 (owner_id, city_id, name, description, capacity,
		  has_wifi, has_parking, has_pool, has_aircon, allows_pets,
		  latitude, longitude, status)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		a.OwnerID, a.CityID, a.Name, a.Description, a.Capacity,
		a.HasWifi, a.HasParking, a.HasPool, a.HasAirCon, a.AllowsPets,
		a.Latitude, a.Longitude, model.AccommodationAvailable)
	if err != nil {
		if strings.Contains(err.Error(), "1452") {
			return ErrCityNotFound
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	a.Status = model.AccommodationAvailable
	return nil
}

// GetByID fetches one accommodation.
func (r *AccommodationRepo) GetByID(ctx context.Context, id uint64) (model.Accommodation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accommodationCols+` FROM accommodations WHERE id = ? LIMIT 1`, id)
	a, err := scanAccommodation(row)
	if err == sql.ErrNoRows {
		return model.Accommodation{}, ErrAccommodationNotFound
	}
	return a, err
}

// GetByIDAndOwner fetches one accommodation and enforces ownership.
func (r *AccommodationRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (model.Accommodation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accommodationCols+` FROM accommodations WHERE id = ? AND owner_id = ? LIMIT 1`, id, ownerID)
	a, err := scanAccommodation(row)
	if err == sql.ErrNoRows {
		return model.Accommodation{}, ErrAccommodationNotFound
	}
	return a, err
}

// ListByOwner returns every listing of one owner.
func (r *AccommodationRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Accommodation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accommodationCols+` FROM accommodations WHERE owner_id = ? ORDER BY id`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Accommodation{}
	for rows.Next() {
		a, err := scanAccommodation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SearchFilter narrows the public catalog query.  Zero values mean "no
// constraint"; Status defaults to AVAILABLE in the handler.
type SearchFilter struct {
	CityID      uint64
	MinCapacity uint32
	Wifi        *bool
	Parking     *bool
	Pool        *bool
	Pets        *bool
	Status      string
}

// Search lists accommodations in a city matching the filter.  This backs
// the catalog step of the client booking wizard.
func (r *AccommodationRepo) Search(ctx context.Context, f SearchFilter) ([]model.Accommodation, error) {
	q := `SELECT ` + accommodationCols + ` FROM accommodations WHERE city_id = ?`
	args := []interface{}{f.CityID}
	if f.Status != "" {
		q += ` AND status = ?`
		args = append(args, f.Status)
	}
	if f.MinCapacity > 0 {
		q += ` AND capacity >= ?`
		args = append(args, f.MinCapacity)
	}
	amenities := []struct {
		col  string
		flag *bool
	}{
		{"has_wifi", f.Wifi},
		{"has_parking", f.Parking},
		{"has_pool", f.Pool},
		{"allows_pets", f.Pets},
	}
	for _, am := range amenities {
		if am.flag != nil {
			q += ` AND ` + am.col + ` = ?`
			args = append(args, *am.flag)
		}
	}
	q += ` ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Accommodation{}
	for rows.Next() {
		a, err := scanAccommodation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Update overwrites the owner-editable fields of a listing.  Ownership is
// part of the WHERE clause; zero affected rows maps to not-found.
func (r *AccommodationRepo) Update(ctx context.Context, a *model.Accommodation) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accommodations SET
		   name = ?, description = ?, capacity = ?,
		   has_wifi = ?, has_parking = ?, has_pool = ?, has_aircon = ?, allows_pets = ?,
		   latitude = ?, longitude = ?, updated_at = NOW()
		 WHERE id = ? AND owner_id = ?`,
		a.Name, a.Description, a.Capacity,
		a.HasWifi, a.HasParking, a.HasPool, a.HasAirCon, a.AllowsPets,
		a.Latitude, a.Longitude, a.ID, a.OwnerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAccommodationNotFound
	}
	return nil
}

// SetStatusByOwner toggles an accommodation between AVAILABLE and
// UNAVAILABLE.  Rows currently BOOKED are never touched; the booking
// lifecycle owns that state.
func (r *AccommodationRepo) SetStatusByOwner(ctx context.Context, id, ownerID uint64, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accommodations SET status = ?
		 WHERE id = ? AND owner_id = ? AND status <> ?`,
		status, id, ownerID, model.AccommodationBooked)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either the row is missing, owned by someone else, or BOOKED.
		if _, err := r.GetByIDAndOwner(ctx, id, ownerID); err != nil {
			return err
		}
		return ErrConflict
	}
	return nil
}

// MarkBookedTx flips AVAILABLE → BOOKED inside the checkout transaction.
// The status guard in the WHERE clause makes the flip the only winner when
// two checkouts race for the same listing; the loser sees ErrConflict.
func (r *AccommodationRepo) MarkBookedTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE accommodations SET status = ? WHERE id = ? AND status = ?`,
		model.AccommodationBooked, id, model.AccommodationAvailable)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// ReleaseTx flips BOOKED → AVAILABLE when the booking holding the listing
// is cancelled.  Releasing a row that is not BOOKED is a no-op.
func (r *AccommodationRepo) ReleaseTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE accommodations SET status = ? WHERE id = ? AND status = ?`,
		model.AccommodationAvailable, id, model.AccommodationBooked)
	return err
}

// Delete removes a listing after verifying no active booking references
// it.  Bookings in a terminal state do not block deletion.
func (r *AccommodationRepo) Delete(ctx context.Context, id, ownerID uint64) error {
	var active int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings
		 WHERE accommodation_id = ? AND status IN (?, ?)`,
		id, model.BookingPending, model.BookingConfirmed).Scan(&active)
	if err != nil {
		return err
	}
	if active > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM accommodations WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAccommodationNotFound
	}
	return nil
}

// ListPrices returns the full seasonal price table of one accommodation.
func (r *AccommodationRepo) ListPrices(ctx context.Context, accommodationID uint64) ([]model.SeasonalPrice, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, accommodation_id, season, duration, price_cents
		 FROM seasonal_prices WHERE accommodation_id = ?
		 ORDER BY season, duration`, accommodationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.SeasonalPrice{}
	for rows.Next() {
		var p model.SeasonalPrice
		if err := rows.Scan(&p.ID, &p.AccommodationID, &p.Season, &p.Duration, &p.PriceCents); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ReplacePrices swaps the whole seasonal price table of an accommodation
// in one transaction.  Passing an empty slice clears the table.
func (r *AccommodationRepo) ReplacePrices(ctx context.Context, accommodationID uint64, prices []model.SeasonalPrice) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM seasonal_prices WHERE accommodation_id = ?`, accommodationID); err != nil {
		return err
	}
	if len(prices) > 0 {
		q := `INSERT INTO seasonal_prices (accommodation_id, season, duration, price_cents) VALUES `
		args := make([]interface{}, 0, len(prices)*4)
		for i, p := range prices {
			if i > 0 {
				q += ","
			}
			q += "(?, ?, ?, ?)"
			args = append(args, accommodationID, p.Season, p.Duration, p.PriceCents)
		}
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			if strings.Contains(err.Error(), "1062") {
				return ErrConflict
			}
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
