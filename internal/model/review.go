package model

import "time"

// Review is a traveler's rating of a completed booking.  At most one
// review exists per booking; the booking_id column carries a UNIQUE
// constraint so the gate in the handler cannot be raced past.
//
// Fields:
//  ID              – primary key identifier.
//  BookingID       – the completed booking being reviewed (unique).
//  AccommodationID – denormalized accommodation reference for listing.
//  TravelerID      – author of the review.
//  Rating          – 1 to 5.
//  Comment         – optional free text.
//  CreatedAt       – creation timestamp.
type Review struct {
    ID              uint64    // reviews.id
    BookingID       uint64    // reviews.booking_id
    AccommodationID uint64    // reviews.accommodation_id
    TravelerID      uint64    // reviews.traveler_id
    Rating          uint8     // reviews.rating
    Comment         *string   // reviews.comment (nullable)
    CreatedAt       time.Time // reviews.created_at
}
