package model

import "time"

// Booking status values stored in bookings.status.  Cancellation is a
// status change, never a row deletion.
const (
    BookingPending   = "PENDING"
    BookingConfirmed = "CONFIRMED"
    BookingCompleted = "COMPLETED"
    BookingCancelled = "CANCELLED"
    BookingNoShow    = "NO_SHOW"
)

// Journey status values stored in bookings.journey_status.  The client
// drives the progression; the server accepts any of the four values and
// stamps the matching timestamp.
const (
    JourneyNotStarted = "NOT_STARTED"
    JourneyDeparted   = "DEPARTED"
    JourneyInGreece   = "IN_GREECE"
    JourneyArrived    = "ARRIVED"
)

// Package tiers.  BONUS additionally assigns a local guide at checkout.
const (
    PackageBasic = "BASIC"
    PackageBonus = "BONUS"
)

// Stay-duration buckets stored in bookings.duration and used as part of
// the seasonal price key.
const (
    Duration2To3   = "D2_3"
    Duration4To7   = "D4_7"
    Duration8To10  = "D8_10"
    Duration10Plus = "D10_PLUS"
)

// ValidDuration reports whether s is one of the four duration buckets.
func ValidDuration(s string) bool {
    switch s {
    case Duration2To3, Duration4To7, Duration8To10, Duration10Plus:
        return true
    }
    return false
}

// ValidJourneyStatus reports whether s is one of the four journey values.
func ValidJourneyStatus(s string) bool {
    switch s {
    case JourneyNotStarted, JourneyDeparted, JourneyInGreece, JourneyArrived:
        return true
    }
    return false
}

// ValidBookingStatus reports whether s is one of the five booking states.
func ValidBookingStatus(s string) bool {
    switch s {
    case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled, BookingNoShow:
        return true
    }
    return false
}

// JourneyStampColumn maps a journey status to the bookings column that
// records when the traveler reached that stage.  NOT_STARTED stamps
// nothing, so ok is false for it and for unknown values.
func JourneyStampColumn(status string) (column string, ok bool) {
    switch status {
    case JourneyDeparted:
        return "departed_at", true
    case JourneyInGreece:
        return "arrived_greece_at", true
    case JourneyArrived:
        return "arrived_destination_at", true
    }
    return "", false
}

// Booking records one traveler's checkout for an accommodation, together
// with the contact snapshot taken from the travel form.  A booking
// references exactly one accommodation and zero-or-one guide.
//
// Fields:
//  ID                   – primary key identifier.
//  Reference            – external UUID shown to the traveler.
//  TravelerID           – user who created the booking.
//  AccommodationID      – accommodation being booked.
//  GuideID              – assigned guide (nil for BASIC or when no guide matched).
//  GuestName, GuestEmail, GuestPhone – contact snapshot from the travel form.
//  WantsEmailUpdates, WantsSMSUpdates – communication preference flags.
//  ArrivalAt            – arrival date/time.
//  Duration             – stay-length bucket.
//  Package              – BASIC or BONUS.
//  TotalCents           – total price computed server-side.
//  Status               – booking state.
//  JourneyStatus        – travel-progress marker.
//  DepartedAt, ArrivedGreeceAt, ArrivedDestinationAt – journey stamps (nullable).
//  ExpiresAt            – hold expiry, creation time + 36h.
//  CreatedAt, UpdatedAt – row timestamps.
type Booking struct {
    ID                   uint64     // bookings.id
    Reference            string     // bookings.reference
    TravelerID           uint64     // bookings.traveler_id
    AccommodationID      uint64     // bookings.accommodation_id
    GuideID              *uint64    // bookings.guide_id (nullable)
    GuestName            string     // bookings.guest_name
    GuestEmail           string     // bookings.guest_email
    GuestPhone           string     // bookings.guest_phone
    WantsEmailUpdates    bool       // bookings.wants_email_updates
    WantsSMSUpdates      bool       // bookings.wants_sms_updates
    ArrivalAt            time.Time  // bookings.arrival_at
    Duration             string     // bookings.duration
    Package              string     // bookings.package
    TotalCents           uint32     // bookings.total_cents
    Status               string     // bookings.status
    JourneyStatus        string     // bookings.journey_status
    DepartedAt           *time.Time // bookings.departed_at (nullable)
    ArrivedGreeceAt      *time.Time // bookings.arrived_greece_at (nullable)
    ArrivedDestinationAt *time.Time // bookings.arrived_destination_at (nullable)
    ExpiresAt            time.Time  // bookings.expires_at
    CreatedAt            time.Time  // bookings.created_at
    UpdatedAt            time.Time  // bookings.updated_at
}
