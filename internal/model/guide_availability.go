package model

import "time"

// GuideAvailability is a time window during which a guide is eligible for
// assignment to bookings in a given city.  Windows for the same guide and
// city must not overlap while active.  Assignment at checkout is a plain
// lookup against these rows; there is no locking against two simultaneous
// bookings picking the same guide.
//
// Fields:
//  ID        – primary key identifier.
//  GuideID   – user ID of the guide.
//  CityID    – city the window applies to.
//  FromDate  – start of the window (inclusive).
//  ToDate    – end of the window (exclusive); must be after FromDate.
//  IsActive  – inactive windows are ignored by assignment and overlap checks.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type GuideAvailability struct {
    ID        uint64    // guide_availability.id
    GuideID   uint64    // guide_availability.guide_id
    CityID    uint64    // guide_availability.city_id
    FromDate  time.Time // guide_availability.from_date
    ToDate    time.Time // guide_availability.to_date
    IsActive  bool      // guide_availability.is_active
    CreatedAt time.Time // guide_availability.created_at
    UpdatedAt time.Time // guide_availability.updated_at
}
