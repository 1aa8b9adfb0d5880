package model

import "time"

// Payment status values stored in payments.status.  There is no gateway
// integration; admins move payments through these states manually.
const (
    PaymentPending   = "PENDING"
    PaymentCompleted = "COMPLETED"
    PaymentFailed    = "FAILED"
    PaymentRefunded  = "REFUNDED"
)

// ValidPaymentStatus reports whether s is one of the four payment states.
func ValidPaymentStatus(s string) bool {
    switch s {
    case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
        return true
    }
    return false
}

// Payment is a status-tagged ledger entry tied 1:1 to a booking.
//
// Fields:
//  ID          – primary key identifier.
//  BookingID   – the booking this payment settles.
//  Reference   – external UUID used on invoices.
//  AmountCents – amount owed, copied from the booking total.
//  Status      – PENDING, COMPLETED, FAILED or REFUNDED.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Payment struct {
    ID          uint64    // payments.id
    BookingID   uint64    // payments.booking_id
    Reference   string    // payments.reference
    AmountCents uint32    // payments.amount_cents
    Status      string    // payments.status
    CreatedAt   time.Time // payments.created_at
    UpdatedAt   time.Time // payments.updated_at
}
