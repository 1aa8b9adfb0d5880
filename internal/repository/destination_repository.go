package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/nvasic/lastminute-booking/internal/model"
)

// ErrCityNotFound is returned when a referenced city does not exist.
var ErrCityNotFound = errors.New("city not found")

// DestinationRepo reads and seeds the static Country → Region → City tree.
// The tree is reference data: travelers browse it, accommodations and
// guide availability windows point into it, and only admins write to it.
type DestinationRepo struct{ db *sql.DB }

func NewDestinationRepo(db *sql.DB) *DestinationRepo { return &DestinationRepo{db: db} }

// ListCountries returns all countries ordered by name.
func (r *DestinationRepo) ListCountries(ctx context.Context) ([]model.Country, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, code, created_at FROM countries ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Country{}
	for rows.Next() {
		var c model.Country
		if err := rows.Scan(&c.ID, &c.Name, &c.Code, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListRegionsByCountry returns the regions of one country ordered by name.
func (r *DestinationRepo) ListRegionsByCountry(ctx context.Context, countryID uint64) ([]model.Region, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, country_id, name, created_at FROM regions WHERE country_id = ? ORDER BY name`, countryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Region{}
	for rows.Next() {
		var reg model.Region
		if err := rows.Scan(&reg.ID, &reg.CountryID, &reg.Name, &reg.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, reg)
	}
	return out, rows.Err()
}

// ListCitiesByRegion returns the cities of one region ordered by name.
func (r *DestinationRepo) ListCitiesByRegion(ctx context.Context, regionID uint64) ([]model.City, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, region_id, name, created_at FROM cities WHERE region_id = ? ORDER BY name`, regionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.City{}
	for rows.Next() {
		var c model.City
		if err := rows.Scan(&c.ID, &c.RegionID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetCity fetches one city by id.  Returns ErrCityNotFound when absent.
func (r *DestinationRepo) GetCity(ctx context.Context, id uint64) (model.City, error) {
	var c model.City
	err := r.db.QueryRowContext(ctx,
		`SELECT id, region_id, name, created_at FROM cities WHERE id = ? LIMIT 1`, id).
		Scan(&c.ID, &c.RegionID, &c.Name, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return model.City{}, ErrCityNotFound
	}
	return c, err
}

// CreateCountry inserts a country.  Duplicate names map to ErrConflict.
func (r *DestinationRepo) CreateCountry(ctx context.Context, c *model.Country) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO countries (name, code) VALUES (?, ?)`, c.Name, c.Code)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// CreateRegion inserts a region under an existing country.  A missing
// country surfaces as a 1452 foreign key failure mapped to ErrConflict.
func (r *DestinationRepo) CreateRegion(ctx context.Context, reg *model.Region) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO regions (country_id, name) VALUES (?, ?)`, reg.CountryID, reg.Name)
	if err != nil {
		if strings.Contains(err.Error(), "1062") || strings.Contains(err.Error(), "1452") {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	reg.ID = uint64(id)
	return nil
}

// CreateCity inserts a city under an existing region.
func (r *DestinationRepo) CreateCity(ctx context.Context, c *model.City) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO cities (region_id, name) VALUES (?, ?)`, c.RegionID, c.Name)
	if err != nil {
		if strings.Contains(err.Error(), "1062") || strings.Contains(err.Error(), "1452") {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}
