package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/nvasic/lastminute-booking/internal/model"
)

// ErrPaymentNotFound is returned when a payment lookup matches no row.
var ErrPaymentNotFound = errors.New("payment not found")

// PaymentRepo provides data access to the payments table.  A payment is a
// 1:1 ledger entry per booking; there is no gateway integration and
// status changes come from the admin surface only.
type PaymentRepo struct{ db *sql.DB }

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

const paymentCols = `id, booking_id, reference, amount_cents, status, created_at, updated_at`

func scanPayment(row interface{ Scan(...interface{}) error }) (model.Payment, error) {
	var p model.Payment
	err := row.Scan(&p.ID, &p.BookingID, &p.Reference, &p.AmountCents,
		&p.Status, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// CreateTx inserts the PENDING payment row within the checkout
// transaction and populates the generated ID.
func (r *PaymentRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO payments (booking_id, reference, amount_cents, status)
		 VALUES (?, ?, ?, ?)`,
		p.BookingID, p.Reference, p.AmountCents, p.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// GetByID fetches one payment.
func (r *PaymentRepo) GetByID(ctx context.Context, id uint64) (model.Payment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+paymentCols+` FROM payments WHERE id = ? LIMIT 1`, id)
	p, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return model.Payment{}, ErrPaymentNotFound
	}
	return p, err
}

// GetByBookingID fetches the payment belonging to one booking.
func (r *PaymentRepo) GetByBookingID(ctx context.Context, bookingID uint64) (model.Payment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+paymentCols+` FROM payments WHERE booking_id = ? LIMIT 1`, bookingID)
	p, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return model.Payment{}, ErrPaymentNotFound
	}
	return p, err
}

// UpdateStatus mutates the payment status.  The caller validates the
// status value; existence is checked with a lookup first because a
// repeated no-op update reports zero affected rows on MySQL.
func (r *PaymentRepo) UpdateStatus(ctx context.Context, id uint64, status string) (model.Payment, error) {
	if _, err := r.GetByID(ctx, id); err != nil {
		return model.Payment{}, err
	}
	if _, err := r.db.ExecContext(ctx,
		`UPDATE payments SET status = ? WHERE id = ?`, status, id); err != nil {
		return model.Payment{}, err
	}
	return r.GetByID(ctx, id)
}
