// Package testutil opens a MySQL database for integration tests and
// seeds the fixtures they share.  Tests skip when no server is
// reachable, so `go test ./...` stays green on machines without one.
package testutil

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nvasic/lastminute-booking/internal/database"
	"github.com/nvasic/lastminute-booking/internal/model"
	"github.com/nvasic/lastminute-booking/migrations"
)

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// NewTestDB opens the test database, applies migrations and wipes every
// table.  The connection is closed via t.Cleanup.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(
		env("TEST_DB_USER", "root"),
		env("TEST_DB_PASS", ""),
		env("TEST_DB_HOST", "127.0.0.1"),
		env("TEST_DB_PORT", "3306"),
		env("TEST_DB_NAME", "lastminute_test"),
	)
	if err != nil {
		t.Skipf("skipping MySQL integration tests: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		t.Skipf("skipping MySQL integration tests: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	mctx, mcancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer mcancel()
	if err := migrations.Apply(mctx, db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	TruncateAll(t, db)
	return db
}

// TruncateAll empties every table in FK-safe order.
func TruncateAll(t *testing.T, db *sql.DB) {
	t.Helper()
	tables := []string{
		"reviews", "payments", "bookings",
		"guide_availability", "seasonal_prices", "accommodations",
		"cities", "regions", "countries",
		"refresh_tokens", "users",
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, `SET FOREIGN_KEY_CHECKS = 0`); err != nil {
		t.Fatalf("disable fk checks: %v", err)
	}
	for _, tbl := range tables {
		if _, err := db.ExecContext(ctx, `TRUNCATE TABLE `+tbl); err != nil {
			t.Fatalf("truncate %s: %v", tbl, err)
		}
	}
	if _, err := db.ExecContext(ctx, `SET FOREIGN_KEY_CHECKS = 1`); err != nil {
		t.Fatalf("enable fk checks: %v", err)
	}
}

// InsertUser creates a user with a dummy password hash and returns its id.
func InsertUser(t *testing.T, db *sql.DB, email, role string) uint64 {
	t.Helper()
	res, err := db.Exec(
		`INSERT INTO users (email, password_hash, role, full_name) VALUES (?, 'x', ?, ?)`,
		email, role, "Test "+role)
	if err != nil {
		t.Fatalf("insert user %s: %v", email, err)
	}
	id, _ := res.LastInsertId()
	return uint64(id)
}

// InsertCity creates a country, region and city and returns the city id.
func InsertCity(t *testing.T, db *sql.DB, country, code, region, city string) uint64 {
	t.Helper()
	res, err := db.Exec(`INSERT INTO countries (name, code) VALUES (?, ?)`, country, code)
	if err != nil {
		t.Fatalf("insert country: %v", err)
	}
	countryID, _ := res.LastInsertId()
	res, err = db.Exec(`INSERT INTO regions (country_id, name) VALUES (?, ?)`, countryID, region)
	if err != nil {
		t.Fatalf("insert region: %v", err)
	}
	regionID, _ := res.LastInsertId()
	res, err = db.Exec(`INSERT INTO cities (region_id, name) VALUES (?, ?)`, regionID, city)
	if err != nil {
		t.Fatalf("insert city: %v", err)
	}
	cityID, _ := res.LastInsertId()
	return uint64(cityID)
}

// InsertAccommodation creates an AVAILABLE listing and returns its id.
func InsertAccommodation(t *testing.T, db *sql.DB, ownerID, cityID uint64, name string) uint64 {
	t.Helper()
	res, err := db.Exec(
		`INSERT INTO accommodations (owner_id, city_id, name, capacity, status) VALUES (?, ?, ?, 4, ?)`,
		ownerID, cityID, name, model.AccommodationAvailable)
	if err != nil {
		t.Fatalf("insert accommodation: %v", err)
	}
	id, _ := res.LastInsertId()
	return uint64(id)
}

// InsertPrice adds one seasonal price row.
func InsertPrice(t *testing.T, db *sql.DB, accommodationID uint64, season, duration string, cents uint32) {
	t.Helper()
	if _, err := db.Exec(
		`INSERT INTO seasonal_prices (accommodation_id, season, duration, price_cents) VALUES (?, ?, ?, ?)`,
		accommodationID, season, duration, cents); err != nil {
		t.Fatalf("insert price: %v", err)
	}
}

// InsertWindow adds a guide availability window and returns its id.
func InsertWindow(t *testing.T, db *sql.DB, guideID, cityID uint64, from, to time.Time, active bool) uint64 {
	t.Helper()
	res, err := db.Exec(
		`INSERT INTO guide_availability (guide_id, city_id, from_date, to_date, is_active) VALUES (?, ?, ?, ?, ?)`,
		guideID, cityID, from.UTC(), to.UTC(), active)
	if err != nil {
		t.Fatalf("insert window: %v", err)
	}
	id, _ := res.LastInsertId()
	return uint64(id)
}

// InsertBooking creates a booking row directly and returns its id.
func InsertBooking(t *testing.T, db *sql.DB, b model.Booking) uint64 {
	t.Helper()
	if b.Reference == "" {
		b.Reference = uuid.NewString()
	}
	if b.Duration == "" {
		b.Duration = model.Duration4To7
	}
	if b.Package == "" {
		b.Package = model.PackageBasic
	}
	if b.Status == "" {
		b.Status = model.BookingConfirmed
	}
	if b.JourneyStatus == "" {
		b.JourneyStatus = model.JourneyNotStarted
	}
	if b.ArrivalAt.IsZero() {
		b.ArrivalAt = time.Now().UTC().Add(24 * time.Hour)
	}
	if b.ExpiresAt.IsZero() {
		b.ExpiresAt = time.Now().UTC().Add(36 * time.Hour)
	}
	res, err := db.Exec(
		`INSERT INTO bookings (reference, traveler_id, accommodation_id, guide_id,
		   guest_name, guest_email, guest_phone, arrival_at, duration, package,
		   total_cents, status, journey_status, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.Reference, b.TravelerID, b.AccommodationID, b.GuideID,
		"Guest", "guest@example.com", "+30123456789",
		b.ArrivalAt.UTC(), b.Duration, b.Package,
		b.TotalCents, b.Status, b.JourneyStatus, b.ExpiresAt.UTC())
	if err != nil {
		t.Fatalf("insert booking: %v", err)
	}
	id, _ := res.LastInsertId()
	return uint64(id)
}
