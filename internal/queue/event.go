// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingCreatedEvent is published after a checkout commits.  It carries
// enough information for the notification consumer to render both the
// guest confirmation and the owner notification without querying the
// primary database.
type BookingCreatedEvent struct {
    BookingID         uint64 `json:"booking_id"`
    Reference         string `json:"reference"`
    GuestName         string `json:"guest_name"`
    GuestEmail        string `json:"guest_email"`
    OwnerName         string `json:"owner_name"`
    OwnerEmail        string `json:"owner_email"`
    AccommodationName string `json:"accommodation_name"`
    CityName          string `json:"city_name"`
    ArrivalAt         string `json:"arrival_at"`
    Duration          string `json:"duration"`
    Package           string `json:"package"`
    GuideAssigned     bool   `json:"guide_assigned"`
    TotalCents        uint32 `json:"total_cents"`
    ExpiresAt         string `json:"expires_at"`
    CreatedAt         string `json:"created_at"`
}
