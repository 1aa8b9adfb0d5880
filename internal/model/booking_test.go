package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJourneyStampColumn(t *testing.T) {
	cases := []struct {
		status string
		column string
		ok     bool
	}{
		{JourneyDeparted, "departed_at", true},
		{JourneyInGreece, "arrived_greece_at", true},
		{JourneyArrived, "arrived_destination_at", true},
		{JourneyNotStarted, "", false},
		{"SOMEWHERE", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		col, ok := JourneyStampColumn(tc.status)
		assert.Equal(t, tc.column, col, tc.status)
		assert.Equal(t, tc.ok, ok, tc.status)
	}
}

func TestValidDuration(t *testing.T) {
	for _, d := range []string{Duration2To3, Duration4To7, Duration8To10, Duration10Plus} {
		assert.True(t, ValidDuration(d), d)
	}
	assert.False(t, ValidDuration("D1"))
	assert.False(t, ValidDuration("d4_7"))
	assert.False(t, ValidDuration(""))
}

func TestValidJourneyStatus(t *testing.T) {
	for _, s := range []string{JourneyNotStarted, JourneyDeparted, JourneyInGreece, JourneyArrived} {
		assert.True(t, ValidJourneyStatus(s), s)
	}
	assert.False(t, ValidJourneyStatus("LANDED"))
}

func TestValidBookingStatus(t *testing.T) {
	for _, s := range []string{BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled, BookingNoShow} {
		assert.True(t, ValidBookingStatus(s), s)
	}
	assert.False(t, ValidBookingStatus("EXPIRED"))
}

func TestValidPaymentStatus(t *testing.T) {
	for _, s := range []string{PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded} {
		assert.True(t, ValidPaymentStatus(s), s)
	}
	assert.False(t, ValidPaymentStatus("VOID"))
}
