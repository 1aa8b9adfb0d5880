package model

import "time"

// The destination hierarchy is static reference data: a country contains
// regions, a region contains cities.  Accommodations and guide
// availability windows point at cities by id.

// Country is a row in the `countries` table.
type Country struct {
    ID        uint64    // countries.id
    Name      string    // countries.name
    Code      string    // countries.code (ISO 3166-1 alpha-2)
    CreatedAt time.Time // countries.created_at
}

// Region is a row in the `regions` table and belongs to one country.
type Region struct {
    ID        uint64    // regions.id
    CountryID uint64    // regions.country_id
    Name      string    // regions.name
    CreatedAt time.Time // regions.created_at
}

// City is a row in the `cities` table and belongs to one region.
type City struct {
    ID        uint64    // cities.id
    RegionID  uint64    // cities.region_id
    Name      string    // cities.name
    CreatedAt time.Time // cities.created_at
}
