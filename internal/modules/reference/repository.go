// Package reference serves the read-mostly lookup catalogs: standard water
// densities and named stability criteria sets. The catalogs live in
// reference.db and are seeded at startup; rows are never modified through
// the API.
package reference

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/abhee15/navarch-studio-sub003/internal/domain"
	"github.com/abhee15/navarch-studio-sub003/internal/modules/hydro"
)

// WaterDensity is one catalog entry for a standard fluid.
type WaterDensity struct {
	Key   string          `json:"key"`
	Name  string          `json:"name"`
	Rho   decimal.Decimal `json:"rho"` // t/m3
	Notes string          `json:"notes,omitempty"`
}

// CriteriaSet is a named stability rule set.
type CriteriaSet struct {
	Key      string                 `json:"key"`
	Name     string                 `json:"name"`
	Criteria hydro.StabilityCriteria `json:"criteria"`
}

// Repository reads the reference catalogs.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new reference repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "reference").Logger(),
	}
}

// Seed populates the catalogs with the built-in entries. Existing keys are
// left alone so operators can adjust values without fighting startup.
func (r *Repository) Seed() error {
	densities := []WaterDensity{
		{Key: "seawater", Name: "Standard seawater", Rho: decimal.NewFromFloat(1.025)},
		{Key: "freshwater", Name: "Fresh water", Rho: decimal.NewFromFloat(1.000)},
		{Key: "brackish", Name: "Brackish water", Rho: decimal.NewFromFloat(1.010), Notes: "Typical estuary value"},
		{Key: "dockwater", Name: "Dock water", Rho: decimal.NewFromFloat(1.015)},
	}
	for _, d := range densities {
		if _, err := r.db.Exec(`
			INSERT INTO water_densities (key, name, rho, notes)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(key) DO NOTHING
		`, d.Key, d.Name, d.Rho.String(), d.Notes); err != nil {
			return fmt.Errorf("failed to seed water density %s: %w", d.Key, err)
		}
	}

	imo := hydro.DefaultCriteria()
	sets := []CriteriaSet{
		{Key: "imo-a749", Name: "IMO A.749 intact stability", Criteria: imo},
	}
	for _, set := range sets {
		if _, err := r.db.Exec(`
			INSERT INTO stability_criteria (key, name, min_gmt, min_area_to_30, min_area_30_to_40, min_gz_at_30, min_angle_max_gz)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(key) DO NOTHING
		`, set.Key, set.Name,
			set.Criteria.MinGMt.String(), set.Criteria.MinAreaTo30.String(),
			set.Criteria.MinArea30To40.String(), set.Criteria.MinGZAt30.String(),
			set.Criteria.MinAngleMaxGZ.String()); err != nil {
			return fmt.Errorf("failed to seed criteria set %s: %w", set.Key, err)
		}
	}

	r.log.Info().Int("densities", len(densities)).Int("criteria_sets", len(sets)).Msg("Reference catalogs seeded")
	return nil
}

// ListWaterDensities returns the density catalog ordered by key.
func (r *Repository) ListWaterDensities() ([]WaterDensity, error) {
	rows, err := r.db.Query("SELECT key, name, rho, notes FROM water_densities ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("failed to list water densities: %w", err)
	}
	defer rows.Close()

	var result []WaterDensity
	for rows.Next() {
		var (
			d     WaterDensity
			rho   string
			notes sql.NullString
		)
		if err := rows.Scan(&d.Key, &d.Name, &rho, &notes); err != nil {
			return nil, fmt.Errorf("failed to scan water density: %w", err)
		}
		if d.Rho, err = decimal.NewFromString(rho); err != nil {
			return nil, fmt.Errorf("invalid rho %q: %w", rho, err)
		}
		d.Notes = notes.String
		result = append(result, d)
	}
	return result, rows.Err()
}

// GetWaterDensity returns one density entry by key.
func (r *Repository) GetWaterDensity(key string) (*WaterDensity, error) {
	var (
		d     WaterDensity
		rho   string
		notes sql.NullString
	)
	err := r.db.QueryRow(
		"SELECT key, name, rho, notes FROM water_densities WHERE key = ?", key,
	).Scan(&d.Key, &d.Name, &rho, &notes)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("water density %s: %w", key, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get water density %s: %w", key, err)
	}
	if d.Rho, err = decimal.NewFromString(rho); err != nil {
		return nil, fmt.Errorf("invalid rho %q: %w", rho, err)
	}
	d.Notes = notes.String
	return &d, nil
}

// ListCriteriaSets returns the criteria catalog ordered by key.
func (r *Repository) ListCriteriaSets() ([]CriteriaSet, error) {
	rows, err := r.db.Query(`
		SELECT key, name, min_gmt, min_area_to_30, min_area_30_to_40, min_gz_at_30, min_angle_max_gz
		FROM stability_criteria ORDER BY key
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list criteria sets: %w", err)
	}
	defer rows.Close()

	var result []CriteriaSet
	for rows.Next() {
		set, err := scanCriteriaSet(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *set)
	}
	return result, rows.Err()
}

// GetCriteriaSet returns one criteria set by key.
func (r *Repository) GetCriteriaSet(key string) (*CriteriaSet, error) {
	row := r.db.QueryRow(`
		SELECT key, name, min_gmt, min_area_to_30, min_area_30_to_40, min_gz_at_30, min_angle_max_gz
		FROM stability_criteria WHERE key = ?
	`, key)
	set, err := scanCriteriaSet(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("criteria set %s: %w", key, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get criteria set %s: %w", key, err)
	}
	return set, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanCriteriaSet(s scanner) (*CriteriaSet, error) {
	var (
		set                               CriteriaSet
		gmt, a30, a3040, gz30, angleMaxGZ string
	)
	if err := s.Scan(&set.Key, &set.Name, &gmt, &a30, &a3040, &gz30, &angleMaxGZ); err != nil {
		return nil, err
	}
	var err error
	if set.Criteria.MinGMt, err = decimal.NewFromString(gmt); err != nil {
		return nil, fmt.Errorf("invalid min_gmt %q: %w", gmt, err)
	}
	if set.Criteria.MinAreaTo30, err = decimal.NewFromString(a30); err != nil {
		return nil, fmt.Errorf("invalid min_area_to_30 %q: %w", a30, err)
	}
	if set.Criteria.MinArea30To40, err = decimal.NewFromString(a3040); err != nil {
		return nil, fmt.Errorf("invalid min_area_30_to_40 %q: %w", a3040, err)
	}
	if set.Criteria.MinGZAt30, err = decimal.NewFromString(gz30); err != nil {
		return nil, fmt.Errorf("invalid min_gz_at_30 %q: %w", gz30, err)
	}
	if set.Criteria.MinAngleMaxGZ, err = decimal.NewFromString(angleMaxGZ); err != nil {
		return nil, fmt.Errorf("invalid min_angle_max_gz %q: %w", angleMaxGZ, err)
	}
	return &set, nil
}
