package migrations_test

import (
	"context"
	"testing"

	"github.com/nvasic/lastminute-booking/internal/testutil"
	"github.com/nvasic/lastminute-booking/migrations"
)

func TestApplyIsIdempotent(t *testing.T) {
	db := testutil.NewTestDB(t) // first Apply happens here
	ctx := context.Background()

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count < 1 {
		t.Fatalf("expected at least 1 applied migration, got %d", count)
	}

	if err := migrations.Apply(ctx, db); err != nil {
		t.Fatalf("re-apply migrations: %v", err)
	}

	var count2 int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&count2); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count2 != count {
		t.Fatalf("expected migration count unchanged, got %d vs %d", count2, count)
	}

	// every table the repositories touch exists
	for _, tbl := range []string{
		"users", "refresh_tokens", "countries", "regions", "cities",
		"accommodations", "seasonal_prices", "guide_availability",
		"bookings", "payments", "reviews",
	} {
		var n int
		if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+tbl).Scan(&n); err != nil {
			t.Fatalf("table %s missing: %v", tbl, err)
		}
	}
}
