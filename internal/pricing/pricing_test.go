package pricing

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/nvasic/lastminute-booking/internal/model"
)

func date(month time.Month) time.Time {
    return time.Date(2026, month, 15, 12, 0, 0, 0, time.UTC)
}

func TestSeasonFor(t *testing.T) {
    cases := []struct {
        month time.Month
        want  string
    }{
        {time.January, SeasonLow},
        {time.February, SeasonLow},
        {time.March, SeasonLow},
        {time.April, SeasonMid},
        {time.May, SeasonMid},
        {time.June, SeasonHigh},
        {time.July, SeasonHigh},
        {time.August, SeasonHigh},
        {time.September, SeasonHigh},
        {time.October, SeasonMid},
        {time.November, SeasonLow},
        {time.December, SeasonLow},
    }
    for _, c := range cases {
        assert.Equal(t, c.want, SeasonFor(date(c.month)), "month %s", c.month)
    }
}

func TestSeasonForUsesUTC(t *testing.T) {
    // 23:30 on May 31 in UTC+2 is still May in local time but June in UTC.
    loc := time.FixedZone("CEST", 2*60*60)
    arrival := time.Date(2026, time.June, 1, 1, 30, 0, 0, loc)
    assert.Equal(t, SeasonHigh, SeasonFor(arrival))
}

func TestQuote(t *testing.T) {
    rows := []model.SeasonalPrice{
        {Season: SeasonLow, Duration: model.Duration2To3, PriceCents: 20000},
        {Season: SeasonHigh, Duration: model.Duration2To3, PriceCents: 45000},
        {Season: SeasonHigh, Duration: model.Duration4To7, PriceCents: 90000},
    }

    t.Run("basic package is the bare table price", func(t *testing.T) {
        total, err := Quote(rows, date(time.July), model.Duration4To7, model.PackageBasic, 15000)
        require.NoError(t, err)
        assert.Equal(t, uint32(90000), total)
    })

    t.Run("bonus package adds the guide surcharge once", func(t *testing.T) {
        total, err := Quote(rows, date(time.July), model.Duration2To3, model.PackageBonus, 15000)
        require.NoError(t, err)
        assert.Equal(t, uint32(60000), total)
    })

    t.Run("season comes from the arrival month", func(t *testing.T) {
        total, err := Quote(rows, date(time.January), model.Duration2To3, model.PackageBasic, 15000)
        require.NoError(t, err)
        assert.Equal(t, uint32(20000), total)
    })

    t.Run("missing row yields ErrNoPrice", func(t *testing.T) {
        _, err := Quote(rows, date(time.April), model.Duration2To3, model.PackageBasic, 15000)
        assert.ErrorIs(t, err, ErrNoPrice)

        _, err = Quote(rows, date(time.July), model.Duration10Plus, model.PackageBasic, 15000)
        assert.ErrorIs(t, err, ErrNoPrice)
    })

    t.Run("empty table yields ErrNoPrice", func(t *testing.T) {
        _, err := Quote(nil, date(time.July), model.Duration2To3, model.PackageBasic, 0)
        assert.ErrorIs(t, err, ErrNoPrice)
    })
}
