package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/nvasic/lastminute-booking/internal/model"
)

func TestRegistrableRole(t *testing.T) {
	assert.Equal(t, model.RoleOwner, registrableRole("OWNER"))
	assert.Equal(t, model.RoleGuide, registrableRole("guide"))
	assert.Equal(t, model.RoleTraveler, registrableRole("TRAVELER"))
	// defaults and forbidden values all land on TRAVELER
	assert.Equal(t, model.RoleTraveler, registrableRole(""))
	assert.Equal(t, model.RoleTraveler, registrableRole("ADMIN"))
	assert.Equal(t, model.RoleTraveler, registrableRole("root"))
}

func TestHoldExpired(t *testing.T) {
	now := time.Date(2026, time.July, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.True(t, holdExpired(model.Booking{Status: model.BookingConfirmed, ExpiresAt: past}, now))
	assert.True(t, holdExpired(model.Booking{Status: model.BookingPending, ExpiresAt: past}, now))
	assert.False(t, holdExpired(model.Booking{Status: model.BookingConfirmed, ExpiresAt: future}, now))
	// terminal states never expire
	assert.False(t, holdExpired(model.Booking{Status: model.BookingCompleted, ExpiresAt: past}, now))
	assert.False(t, holdExpired(model.Booking{Status: model.BookingCancelled, ExpiresAt: past}, now))
	assert.False(t, holdExpired(model.Booking{Status: model.BookingNoShow, ExpiresAt: past}, now))
}

func TestCanSee(t *testing.T) {
	guide := uint64(5)
	b := model.Booking{TravelerID: 1, GuideID: &guide}

	assert.True(t, canSee(b, 1, model.RoleTraveler))
	assert.True(t, canSee(b, 5, model.RoleGuide))
	assert.True(t, canSee(b, 99, model.RoleAdmin))
	assert.False(t, canSee(b, 2, model.RoleTraveler))
	assert.False(t, canSee(model.Booking{TravelerID: 1}, 5, model.RoleGuide))
}

func TestParseWindow(t *testing.T) {
	from, to, ok := parseWindow("2026-07-01T00:00:00Z", "2026-07-10T00:00:00Z")
	assert.True(t, ok)
	assert.True(t, from.Before(to))

	_, _, ok = parseWindow("2026-07-10T00:00:00Z", "2026-07-01T00:00:00Z")
	assert.False(t, ok, "from after to")

	_, _, ok = parseWindow("2026-07-01T00:00:00Z", "2026-07-01T00:00:00Z")
	assert.False(t, ok, "zero-length window")

	_, _, ok = parseWindow("next tuesday", "2026-07-10T00:00:00Z")
	assert.False(t, ok, "bad format")
}

func newQueryContext(query string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestBoolParam(t *testing.T) {
	c := newQueryContext("wifi=true&parking=0&pool=banana")

	wifi := boolParam(c, "wifi")
	assert.NotNil(t, wifi)
	assert.True(t, *wifi)

	parking := boolParam(c, "parking")
	assert.NotNil(t, parking)
	assert.False(t, *parking)

	assert.Nil(t, boolParam(c, "pool"), "unparseable values are ignored")
	assert.Nil(t, boolParam(c, "pets"), "absent values are ignored")
}

func TestGetUserIDTypeHandling(t *testing.T) {
	e := echo.New()
	for _, tc := range []struct {
		val  interface{}
		want uint64
	}{
		{uint64(7), 7},
		{int(8), 8},
		{int64(9), 9},
		{float64(10), 10}, // JWT claims decode numbers as float64
		{"11", 11},
	} {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		c.Set("user_id", tc.val)
		got, err := getUserID(c)
		assert.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.Set("user_id", "not-a-number")
	_, err := getUserID(c)
	assert.Error(t, err)
}
