package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvasic/lastminute-booking/internal/config"
	"github.com/nvasic/lastminute-booking/internal/model"
	"github.com/nvasic/lastminute-booking/internal/pricing"
	"github.com/nvasic/lastminute-booking/internal/repository"
	"github.com/nvasic/lastminute-booking/internal/testutil"
)

type checkoutEnv struct {
	h               *BookingHandler
	travelerID      uint64
	guideID         uint64
	cityID          uint64
	accommodationID uint64
}

func newCheckoutEnv(t *testing.T) checkoutEnv {
	t.Helper()
	db := testutil.NewTestDB(t)

	ownerID := testutil.InsertUser(t, db, "owner@example.com", model.RoleOwner)
	travelerID := testutil.InsertUser(t, db, "traveler@example.com", model.RoleTraveler)
	guideID := testutil.InsertUser(t, db, "guide@example.com", model.RoleGuide)
	cityID := testutil.InsertCity(t, db, "Greece", "GR", "Crete", "Chania")
	accID := testutil.InsertAccommodation(t, db, ownerID, cityID, "Sea View Villa")
	for _, season := range []string{pricing.SeasonLow, pricing.SeasonMid, pricing.SeasonHigh} {
		testutil.InsertPrice(t, db, accID, season, model.Duration4To7, 50000)
	}

	cfg := config.Config{GuideSurchargeCents: 15000, BookingHoldHours: 36}
	h := NewBookingHandler(cfg,
		repository.NewBookingRepo(db),
		repository.NewPaymentRepo(db),
		repository.NewAccommodationRepo(db),
		repository.NewGuideAvailabilityRepo(db),
		repository.NewDestinationRepo(db),
		repository.NewUserRepo(db),
	)
	return checkoutEnv{h: h, travelerID: travelerID, guideID: guideID, cityID: cityID, accommodationID: accID}
}

func (env checkoutEnv) checkout(t *testing.T, body string) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", env.travelerID)
	c.Set("role", model.RoleTraveler)

	require.NoError(t, env.h.Create(c))

	var resp map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func checkoutBody(accommodationID uint64, pkg string, arrival time.Time) string {
	b, _ := json.Marshal(map[string]interface{}{
		"accommodation_id": accommodationID,
		"arrival_at":       arrival.Format(time.RFC3339),
		"duration":         model.Duration4To7,
		"package":          pkg,
		"guest_name":       "Nikos Traveler",
		"guest_email":      "nikos@example.com",
		"guest_phone":      "+306912345678",
	})
	return string(b)
}

func TestCheckoutBasicPackage(t *testing.T) {
	env := newCheckoutEnv(t)
	arrival := time.Now().UTC().Add(48 * time.Hour)

	rec, resp := env.checkout(t, checkoutBody(env.accommodationID, model.PackageBasic, arrival))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var booking struct {
		ID         uint64  `json:"ID"`
		GuideID    *uint64 `json:"GuideID"`
		TotalCents uint32  `json:"TotalCents"`
		Status     string  `json:"Status"`
	}
	require.NoError(t, json.Unmarshal(resp["booking"], &booking))
	assert.Equal(t, model.BookingConfirmed, booking.Status)
	assert.Nil(t, booking.GuideID, "BASIC never gets a guide")
	assert.Equal(t, uint32(50000), booking.TotalCents)

	var payment struct {
		Status      string `json:"Status"`
		AmountCents uint32 `json:"AmountCents"`
	}
	require.NoError(t, json.Unmarshal(resp["payment"], &payment))
	assert.Equal(t, model.PaymentPending, payment.Status)
	assert.Equal(t, booking.TotalCents, payment.AmountCents)
}

func TestCheckoutBonusAssignsGuideAndSurcharge(t *testing.T) {
	env := newCheckoutEnv(t)
	now := time.Now().UTC()
	testutil.InsertWindow(t, env.h.Bookings.DB(), env.guideID, env.cityID, now.Add(-time.Hour), now.Add(72*time.Hour), true)

	rec, resp := env.checkout(t, checkoutBody(env.accommodationID, model.PackageBonus, now.Add(48*time.Hour)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var booking struct {
		GuideID    *uint64 `json:"GuideID"`
		TotalCents uint32  `json:"TotalCents"`
	}
	require.NoError(t, json.Unmarshal(resp["booking"], &booking))
	require.NotNil(t, booking.GuideID)
	assert.Equal(t, env.guideID, *booking.GuideID)
	assert.Equal(t, uint32(65000), booking.TotalCents, "base price plus guide surcharge")
}

func TestCheckoutBonusWithoutGuideStillBooks(t *testing.T) {
	env := newCheckoutEnv(t)
	arrival := time.Now().UTC().Add(48 * time.Hour)

	rec, resp := env.checkout(t, checkoutBody(env.accommodationID, model.PackageBonus, arrival))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var booking struct {
		GuideID    *uint64 `json:"GuideID"`
		TotalCents uint32  `json:"TotalCents"`
	}
	require.NoError(t, json.Unmarshal(resp["booking"], &booking))
	assert.Nil(t, booking.GuideID, "no window matched, booking proceeds unguided")
	assert.Equal(t, uint32(65000), booking.TotalCents, "surcharge applies to the package, not the assignment")
}

func TestCheckoutSecondTravelerGets409(t *testing.T) {
	env := newCheckoutEnv(t)
	arrival := time.Now().UTC().Add(48 * time.Hour)

	rec, _ := env.checkout(t, checkoutBody(env.accommodationID, model.PackageBasic, arrival))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = env.checkout(t, checkoutBody(env.accommodationID, model.PackageBasic, arrival))
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
}

func TestCheckoutRejectsPastArrival(t *testing.T) {
	env := newCheckoutEnv(t)
	rec, _ := env.checkout(t, checkoutBody(env.accommodationID, model.PackageBasic, time.Now().UTC().Add(-time.Hour)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutUnpricedDurationIs422(t *testing.T) {
	env := newCheckoutEnv(t)
	arrival := time.Now().UTC().Add(48 * time.Hour)

	body, _ := json.Marshal(map[string]interface{}{
		"accommodation_id": env.accommodationID,
		"arrival_at":       arrival.Format(time.RFC3339),
		"duration":         model.Duration10Plus, // no price row seeded
		"package":          model.PackageBasic,
		"guest_name":       "Nikos Traveler",
		"guest_email":      "nikos@example.com",
		"guest_phone":      "+306912345678",
	})
	rec, _ := env.checkout(t, string(body))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
