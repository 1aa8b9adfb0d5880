package model

import "time"

// Accommodation status values stored in accommodations.status.  BOOKED is
// system-owned: it is set when a booking is created and cleared when that
// booking is cancelled.  Owners may only toggle between AVAILABLE and
// UNAVAILABLE for maintenance.
const (
    AccommodationAvailable   = "AVAILABLE"
    AccommodationBooked      = "BOOKED"
    AccommodationUnavailable = "UNAVAILABLE"
)

// Accommodation represents an owner-managed listing as stored in the
// `accommodations` table.
//
// Fields:
//  ID          – primary key identifier.
//  OwnerID     – user ID of the listing owner.
//  CityID      – city the accommodation is located in.
//  Name        – listing title.
//  Description – optional free-text description.
//  Capacity    – maximum number of guests.
//  HasWifi, HasParking, HasPool, HasAirCon, AllowsPets – amenity flags.
//  Latitude, Longitude – geolocation (nullable when not provided).
//  Status      – AVAILABLE, BOOKED or UNAVAILABLE.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Accommodation struct {
    ID          uint64    // accommodations.id
    OwnerID     uint64    // accommodations.owner_id
    CityID      uint64    // accommodations.city_id
    Name        string    // accommodations.name
    Description *string   // accommodations.description (nullable)
    Capacity    uint32    // accommodations.capacity
    HasWifi     bool      // accommodations.has_wifi
    HasParking  bool      // accommodations.has_parking
    HasPool     bool      // accommodations.has_pool
    HasAirCon   bool      // accommodations.has_aircon
    AllowsPets  bool      // accommodations.allows_pets
    Latitude    *float64  // accommodations.latitude (nullable)
    Longitude   *float64  // accommodations.longitude (nullable)
    Status      string    // accommodations.status
    CreatedAt   time.Time // accommodations.created_at
    UpdatedAt   time.Time // accommodations.updated_at
}

// SeasonalPrice is one row of an accommodation's price table, keyed by
// (season, duration bucket).  Prices are stored in cents.
type SeasonalPrice struct {
    ID              uint64 // seasonal_prices.id
    AccommodationID uint64 // seasonal_prices.accommodation_id
    Season          string // seasonal_prices.season (LOW, MID, HIGH)
    Duration        string // seasonal_prices.duration (D2_3 .. D10_PLUS)
    PriceCents      uint32 // seasonal_prices.price_cents
}
