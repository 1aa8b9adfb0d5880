package repository_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvasic/lastminute-booking/internal/model"
	"github.com/nvasic/lastminute-booking/internal/repository"
	"github.com/nvasic/lastminute-booking/internal/testutil"
)

// fixture seeds one owner, traveler, guide, city and an AVAILABLE
// accommodation for the booking flow tests.
type fixture struct {
	db              *sql.DB
	ownerID         uint64
	travelerID      uint64
	guideID         uint64
	cityID          uint64
	accommodationID uint64
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	f := fixture{db: db}
	f.ownerID = testutil.InsertUser(t, db, "owner@example.com", model.RoleOwner)
	f.travelerID = testutil.InsertUser(t, db, "traveler@example.com", model.RoleTraveler)
	f.guideID = testutil.InsertUser(t, db, "guide@example.com", model.RoleGuide)
	f.cityID = testutil.InsertCity(t, db, "Greece", "GR", "Crete", "Chania")
	f.accommodationID = testutil.InsertAccommodation(t, db, f.ownerID, f.cityID, "Sea View Villa")
	return f
}

func inTx(t *testing.T, db *sql.DB, fn func(tx *sql.Tx) error) error {
	t.Helper()
	tx, err := db.Begin()
	require.NoError(t, err)
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	require.NoError(t, tx.Commit())
	return nil
}

func TestMarkBookedTxFirstCheckoutWins(t *testing.T) {
	f := newFixture(t)
	repo := repository.NewAccommodationRepo(f.db)
	ctx := context.Background()

	err := inTx(t, f.db, func(tx *sql.Tx) error {
		return repo.MarkBookedTx(ctx, tx, f.accommodationID)
	})
	require.NoError(t, err)

	a, err := repo.GetByID(ctx, f.accommodationID)
	require.NoError(t, err)
	assert.Equal(t, model.AccommodationBooked, a.Status)

	// the second checkout on the same listing loses
	err = inTx(t, f.db, func(tx *sql.Tx) error {
		return repo.MarkBookedTx(ctx, tx, f.accommodationID)
	})
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestReleaseTxRestoresAvailability(t *testing.T) {
	f := newFixture(t)
	repo := repository.NewAccommodationRepo(f.db)
	ctx := context.Background()

	require.NoError(t, inTx(t, f.db, func(tx *sql.Tx) error {
		return repo.MarkBookedTx(ctx, tx, f.accommodationID)
	}))
	require.NoError(t, inTx(t, f.db, func(tx *sql.Tx) error {
		return repo.ReleaseTx(ctx, tx, f.accommodationID)
	}))

	a, err := repo.GetByID(ctx, f.accommodationID)
	require.NoError(t, err)
	assert.Equal(t, model.AccommodationAvailable, a.Status)

	// releasing an AVAILABLE or UNAVAILABLE listing is a no-op
	require.NoError(t, inTx(t, f.db, func(tx *sql.Tx) error {
		return repo.ReleaseTx(ctx, tx, f.accommodationID)
	}))
}

func TestFindAvailableGuideTx(t *testing.T) {
	f := newFixture(t)
	repo := repository.NewGuideAvailabilityRepo(f.db)
	ctx := context.Background()
	now := time.Now().UTC()

	find := func() (uint64, error) {
		var id uint64
		err := inTx(t, f.db, func(tx *sql.Tx) error {
			var ferr error
			id, ferr = repo.FindAvailableGuideTx(ctx, tx, f.cityID, now)
			return ferr
		})
		return id, err
	}

	// no windows at all
	_, err := find()
	assert.ErrorIs(t, err, sql.ErrNoRows)

	// inactive window covering now does not count
	inactiveID := testutil.InsertWindow(t, f.db, f.guideID, f.cityID, now.Add(-24*time.Hour), now.Add(24*time.Hour), false)
	_, err = find()
	assert.ErrorIs(t, err, sql.ErrNoRows)

	// window in another city does not count
	otherCity := testutil.InsertCity(t, f.db, "Italy", "IT", "Tuscany", "Florence")
	testutil.InsertWindow(t, f.db, f.guideID, otherCity, now.Add(-24*time.Hour), now.Add(24*time.Hour), true)
	_, err = find()
	assert.ErrorIs(t, err, sql.ErrNoRows)

	// a window that already closed does not count
	testutil.InsertWindow(t, f.db, f.guideID, f.cityID, now.Add(-48*time.Hour), now.Add(-24*time.Hour), true)
	_, err = find()
	assert.ErrorIs(t, err, sql.ErrNoRows)

	// an active window containing now matches
	_, err = f.db.Exec(`UPDATE guide_availability SET is_active = 1 WHERE id = ?`, inactiveID)
	require.NoError(t, err)
	got, err := find()
	require.NoError(t, err)
	assert.Equal(t, f.guideID, got)
}

func TestExistsOverlappingShapes(t *testing.T) {
	f := newFixture(t)
	repo := repository.NewGuideAvailabilityRepo(f.db)
	ctx := context.Background()

	base := time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC)
	day := func(n int) time.Time { return base.AddDate(0, 0, n) }

	existingID := testutil.InsertWindow(t, f.db, f.guideID, f.cityID, day(0), day(10), true)

	cases := []struct {
		name string
		from time.Time
		to   time.Time
		want bool
	}{
		{"left overlap", day(-3), day(3), true},
		{"right overlap", day(7), day(15), true},
		{"new contains existing", day(-2), day(12), true},
		{"existing contains new", day(2), day(8), true},
		{"disjoint before", day(-10), day(-1), false},
		{"disjoint after", day(11), day(20), false},
		{"touching at end", day(10), day(15), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := repo.ExistsOverlapping(ctx, f.guideID, f.cityID, tc.from, tc.to, 0)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("exclude self on update", func(t *testing.T) {
		got, err := repo.ExistsOverlapping(ctx, f.guideID, f.cityID, day(0), day(10), existingID)
		require.NoError(t, err)
		assert.False(t, got)
	})

	t.Run("other guide unaffected", func(t *testing.T) {
		other := testutil.InsertUser(t, f.db, "guide2@example.com", model.RoleGuide)
		got, err := repo.ExistsOverlapping(ctx, other, f.cityID, day(0), day(10), 0)
		require.NoError(t, err)
		assert.False(t, got)
	})
}

func TestStampJourneyKeepsEarlierStamps(t *testing.T) {
	f := newFixture(t)
	repo := repository.NewBookingRepo(f.db)
	ctx := context.Background()

	id := testutil.InsertBooking(t, f.db, model.Booking{
		TravelerID:      f.travelerID,
		AccommodationID: f.accommodationID,
	})

	stamp := func(status string, at time.Time) {
		require.NoError(t, inTx(t, f.db, func(tx *sql.Tx) error {
			return repo.StampJourneyTx(ctx, tx, id, status, at)
		}))
	}

	t0 := time.Date(2026, time.July, 1, 8, 0, 0, 0, time.UTC)
	stamp(model.JourneyDeparted, t0)

	b, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.JourneyDeparted, b.JourneyStatus)
	require.NotNil(t, b.DepartedAt)
	assert.Nil(t, b.ArrivedGreeceAt)
	assert.Nil(t, b.ArrivedDestinationAt)

	// advancing stamps only the new column
	stamp(model.JourneyInGreece, t0.Add(2*time.Hour))
	b, err = repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.JourneyInGreece, b.JourneyStatus)
	require.NotNil(t, b.DepartedAt)
	require.NotNil(t, b.ArrivedGreeceAt)
	assert.True(t, b.DepartedAt.Equal(t0), "earlier stamp untouched")

	// moving back to NOT_STARTED changes the marker but clears nothing
	stamp(model.JourneyNotStarted, t0.Add(3*time.Hour))
	b, err = repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.JourneyNotStarted, b.JourneyStatus)
	require.NotNil(t, b.DepartedAt)
	require.NotNil(t, b.ArrivedGreeceAt)
}

func TestReviewUniquePerBooking(t *testing.T) {
	f := newFixture(t)
	reviews := repository.NewReviewRepo(f.db)
	ctx := context.Background()

	id := testutil.InsertBooking(t, f.db, model.Booking{
		TravelerID:      f.travelerID,
		AccommodationID: f.accommodationID,
		Status:          model.BookingCompleted,
	})

	rev := model.Review{BookingID: id, AccommodationID: f.accommodationID, TravelerID: f.travelerID, Rating: 5}
	require.NoError(t, inTx(t, f.db, func(tx *sql.Tx) error {
		return reviews.CreateTx(ctx, tx, &rev)
	}))

	dup := model.Review{BookingID: id, AccommodationID: f.accommodationID, TravelerID: f.travelerID, Rating: 1}
	err := inTx(t, f.db, func(tx *sql.Tx) error {
		return reviews.CreateTx(ctx, tx, &dup)
	})
	assert.ErrorIs(t, err, repository.ErrReviewExists)

	exists := false
	require.NoError(t, inTx(t, f.db, func(tx *sql.Tx) error {
		var eerr error
		exists, eerr = reviews.ExistsForBookingTx(ctx, tx, id)
		return eerr
	}))
	assert.True(t, exists)
}

func TestBookingCreateAndLists(t *testing.T) {
	f := newFixture(t)
	repo := repository.NewBookingRepo(f.db)
	ctx := context.Background()

	b := model.Booking{
		Reference:       "11111111-2222-3333-4444-555555555555",
		TravelerID:      f.travelerID,
		AccommodationID: f.accommodationID,
		GuestName:       "Nikos",
		GuestEmail:      "nikos@example.com",
		GuestPhone:      "+3069",
		ArrivalAt:       time.Now().UTC().Add(48 * time.Hour),
		Duration:        model.Duration4To7,
		Package:         model.PackageBonus,
		TotalCents:      98700,
		Status:          model.BookingConfirmed,
		JourneyStatus:   model.JourneyNotStarted,
		ExpiresAt:       time.Now().UTC().Add(36 * time.Hour),
	}
	require.NoError(t, inTx(t, f.db, func(tx *sql.Tx) error {
		return repo.CreateTx(ctx, tx, &b)
	}))
	require.NotZero(t, b.ID)
	assert.False(t, b.CreatedAt.IsZero(), "row timestamps read back after insert")

	require.NoError(t, inTx(t, f.db, func(tx *sql.Tx) error {
		return repo.SetGuideTx(ctx, tx, b.ID, &f.guideID)
	}))

	mine, err := repo.ListByTraveler(ctx, f.travelerID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, b.ID, mine[0].ID)

	guided, err := repo.ListByGuide(ctx, f.guideID)
	require.NoError(t, err)
	require.Len(t, guided, 1)

	owned, err := repo.ListByOwner(ctx, f.ownerID)
	require.NoError(t, err)
	require.Len(t, owned, 1)

	confirmed, err := repo.ListAll(ctx, model.BookingConfirmed)
	require.NoError(t, err)
	require.Len(t, confirmed, 1)

	cancelled, err := repo.ListAll(ctx, model.BookingCancelled)
	require.NoError(t, err)
	assert.Empty(t, cancelled)
}
