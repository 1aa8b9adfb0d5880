package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/nvasic/lastminute-booking/internal/model"
)

// ErrBookingNotFound is returned when a booking lookup matches no row.
var ErrBookingNotFound = errors.New("booking not found")

// BookingRepo provides data access to the bookings table.  Creation always
// happens inside the checkout transaction together with the accommodation
// status flip and the payment row; the Tx variants exist for that.  All
// timestamps are stored in UTC.
type BookingRepo struct{ db *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// spanning several repositories.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingCols = `id, reference, traveler_id, accommodation_id, guide_id,
	guest_name, guest_email, guest_phone, wants_email_updates, wants_sms_updates,
	arrival_at, duration, package, total_cents, status, journey_status,
	departed_at, arrived_greece_at, arrived_destination_at,
	expires_at, created_at, updated_at`

func scanBooking(row interface{ Scan(...interface{}) error }) (model.Booking, error) {
	var (
		b        model.Booking
		guideID  sql.NullInt64
		departed sql.NullTime
		greece   sql.NullTime
		arrived  sql.NullTime
	)
	err := row.Scan(&b.ID, &b.Reference, &b.TravelerID, &b.AccommodationID, &guideID,
		&b.GuestName, &b.GuestEmail, &b.GuestPhone, &b.WantsEmailUpdates, &b.WantsSMSUpdates,
		&b.ArrivalAt, &b.Duration, &b.Package, &b.TotalCents, &b.Status, &b.JourneyStatus,
		&departed, &greece, &arrived,
		&b.ExpiresAt, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return model.Booking{}, err
	}
	if guideID.Valid {
		g := uint64(guideID.Int64)
		b.GuideID = &g
	}
	if departed.Valid {
		t := departed.Time
		b.DepartedAt = &t
	}
	if greece.Valid {
		t := greece.Time
		b.ArrivedGreeceAt = &t
	}
	if arrived.Valid {
		t := arrived.Time
		b.ArrivedDestinationAt = &t
	}
	return b, nil
}

// CreateTx inserts a booking within an existing transaction, then queries
// the row back to populate generated defaults.  The caller must commit or
// roll back.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings
		 (reference, traveler_id, accommodation_id, guide_id,
		  guest_name, guest_email, guest_phone, wants_email_updates, wants_sms_updates,
		  arrival_at, duration, package, total_cents, status, journey_status, expires_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		b.Reference, b.TravelerID, b.AccommodationID, b.GuideID,
		b.GuestName, b.GuestEmail, b.GuestPhone, b.WantsEmailUpdates, b.WantsSMSUpdates,
		b.ArrivalAt.UTC(), b.Duration, b.Package, b.TotalCents, b.Status, b.JourneyStatus,
		b.ExpiresAt.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	row := tx.QueryRowContext(ctx,
		`SELECT `+bookingCols+` FROM bookings WHERE id = ?`, b.ID)
	created, err := scanBooking(row)
	if err != nil {
		return err
	}
	*b = created
	return nil
}

// GetByID fetches one booking.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+bookingCols+` FROM bookings WHERE id = ? LIMIT 1`, id)
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return model.Booking{}, ErrBookingNotFound
	}
	return b, err
}

// GetByIDTx fetches one booking inside a transaction so subsequent updates
// see a consistent row.
func (r *BookingRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Booking, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+bookingCols+` FROM bookings WHERE id = ? LIMIT 1 FOR UPDATE`, id)
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return model.Booking{}, ErrBookingNotFound
	}
	return b, err
}

// ListByTraveler returns all bookings created by one traveler, newest first.
func (r *BookingRepo) ListByTraveler(ctx context.Context, travelerID uint64) ([]model.Booking, error) {
	return r.list(ctx,
		`SELECT `+bookingCols+` FROM bookings WHERE traveler_id = ? ORDER BY created_at DESC`,
		travelerID)
}

// ListByGuide returns all bookings assigned to one guide, newest first.
func (r *BookingRepo) ListByGuide(ctx context.Context, guideID uint64) ([]model.Booking, error) {
	return r.list(ctx,
		`SELECT `+bookingCols+` FROM bookings WHERE guide_id = ? ORDER BY created_at DESC`,
		guideID)
}

// ListByOwner returns all bookings touching accommodations of one owner.
func (r *BookingRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Booking, error) {
	return r.list(ctx,
		`SELECT b.id, b.reference, b.traveler_id, b.accommodation_id, b.guide_id,
		        b.guest_name, b.guest_email, b.guest_phone, b.wants_email_updates, b.wants_sms_updates,
		        b.arrival_at, b.duration, b.package, b.total_cents, b.status, b.journey_status,
		        b.departed_at, b.arrived_greece_at, b.arrived_destination_at,
		        b.expires_at, b.created_at, b.updated_at
		 FROM bookings b
		 JOIN accommodations a ON a.id = b.accommodation_id
		 WHERE a.owner_id = ?
		 ORDER BY b.created_at DESC`,
		ownerID)
}

// ListAll returns bookings for the admin dashboard, optionally filtered by
// status.  The hold-expiry flag is computed at read time; nothing in the
// system acts on it automatically.
func (r *BookingRepo) ListAll(ctx context.Context, status string) ([]model.Booking, error) {
	q := `SELECT ` + bookingCols + ` FROM bookings`
	args := []interface{}{}
	if status != "" {
		q += ` WHERE status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY created_at DESC`
	return r.list(ctx, q, args...)
}

func (r *BookingRepo) list(ctx context.Context, query string, args ...interface{}) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// UpdateStatusTx sets the booking status inside a transaction.  Callers
// load the row first; a repeated no-op update reports zero affected rows
// on MySQL, so existence is not inferred from the result here.
func (r *BookingRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = ? WHERE id = ?`, status, id)
	return err
}

// SetGuideTx assigns (or clears, with nil) the guide on a booking.
func (r *BookingRepo) SetGuideTx(ctx context.Context, tx *sql.Tx, id uint64, guideID *uint64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE bookings SET guide_id = ? WHERE id = ?`, guideID, id)
	return err
}

// StampJourneyTx sets the journey status and, for the three travelling
// states, stamps the matching timestamp column.  Other stamps are left
// untouched; NOT_STARTED writes no stamp at all.  Ordering of transitions
// is not validated here – the clients drive the progression.
func (r *BookingRepo) StampJourneyTx(ctx context.Context, tx *sql.Tx, id uint64, journeyStatus string, now time.Time) error {
	col, ok := model.JourneyStampColumn(journeyStatus)
	var err error
	if ok {
		_, err = tx.ExecContext(ctx,
			`UPDATE bookings SET journey_status = ?, `+col+` = ? WHERE id = ?`,
			journeyStatus, now.UTC(), id)
	} else {
		_, err = tx.ExecContext(ctx,
			`UPDATE bookings SET journey_status = ? WHERE id = ?`,
			journeyStatus, id)
	}
	return err
}
