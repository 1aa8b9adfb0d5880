// Package pricing implements the seasonal price lookup used for quotes and
// checkout totals.  The price of a stay is a flat lookup on the
// accommodation's (season, duration-bucket) table; the BONUS package adds a
// configurable guide surcharge on top.
package pricing

import (
    "errors"
    "time"

    "github.com/nvasic/lastminute-booking/internal/model"
)

// Season names used as the first half of the price-table key.
const (
    SeasonLow  = "LOW"
    SeasonMid  = "MID"
    SeasonHigh = "HIGH"
)

// ErrNoPrice is returned when the accommodation's price table has no row
// for the requested season and duration bucket.  Handlers translate it
// into a 422 so owners notice the gap in their table.
var ErrNoPrice = errors.New("no price for season and duration")

// SeasonFor maps an arrival date to a season.  June through September is
// HIGH, the shoulder months April, May and October are MID, the rest of
// the year is LOW.
func SeasonFor(arrival time.Time) string {
    switch arrival.UTC().Month() {
    case time.June, time.July, time.August, time.September:
        return SeasonHigh
    case time.April, time.May, time.October:
        return SeasonMid
    default:
        return SeasonLow
    }
}

// ValidSeason reports whether s is one of the three season names.
func ValidSeason(s string) bool {
    return s == SeasonLow || s == SeasonMid || s == SeasonHigh
}

// Quote computes the total for a stay from the accommodation's seasonal
// price rows.  rows is the full price table of one accommodation; arrival
// selects the season, duration selects the bucket.  For the BONUS package
// surchargeCents is added once.  Returns ErrNoPrice when the table has no
// matching row.
func Quote(rows []model.SeasonalPrice, arrival time.Time, duration, pkg string, surchargeCents int) (uint32, error) {
    season := SeasonFor(arrival)
    for _, r := range rows {
        if r.Season == season && r.Duration == duration {
            total := r.PriceCents
            if pkg == model.PackageBonus {
                total += uint32(surchargeCents)
            }
            return total, nil
        }
    }
    return 0, ErrNoPrice
}
