package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvasic/lastminute-booking/internal/queue"
)

func sampleEvent() queue.BookingCreatedEvent {
	return queue.BookingCreatedEvent{
		BookingID:         7,
		Reference:         "a3a2f8d0-0000-0000-0000-000000000001",
		GuestName:         "Nikos Traveler",
		GuestEmail:        "nikos@example.com",
		OwnerName:         "Maria Owner",
		OwnerEmail:        "maria@example.com",
		AccommodationName: "Sea View Villa",
		CityName:          "Chania",
		ArrivalAt:         "2026-07-10T14:00:00Z",
		Duration:          "D4_7",
		Package:           "BONUS",
		GuideAssigned:     true,
		TotalCents:        123450,
		ExpiresAt:         "2026-07-01T14:00:00Z",
		CreatedAt:         "2026-06-30T02:00:00Z",
	}
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "0.00 EUR", FormatCents(0))
	assert.Equal(t, "0.05 EUR", FormatCents(5))
	assert.Equal(t, "12.30 EUR", FormatCents(1230))
	assert.Equal(t, "1234.50 EUR", FormatCents(123450))
}

func TestRenderGuestConfirmation(t *testing.T) {
	ev := sampleEvent()
	subject, body, err := RenderGuestConfirmation(ev)
	require.NoError(t, err)

	assert.Contains(t, subject, ev.Reference)
	assert.Contains(t, body, ev.GuestName)
	assert.Contains(t, body, ev.AccommodationName)
	assert.Contains(t, body, "1234.50 EUR")
}

func TestRenderOwnerNotification(t *testing.T) {
	ev := sampleEvent()
	subject, body, err := RenderOwnerNotification(ev)
	require.NoError(t, err)

	assert.Contains(t, subject, ev.AccommodationName)
	assert.Contains(t, body, ev.GuestName)
	assert.Contains(t, body, "1234.50 EUR")
}
