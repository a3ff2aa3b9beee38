package vessels

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/abhee15/navarch-studio-sub003/internal/database"
	"github.com/abhee15/navarch-studio-sub003/internal/domain"
	"github.com/abhee15/navarch-studio-sub003/internal/modules/hydro"
)

// GeometryRepository stores hull offset tables and serves them back as
// immutable HullGeometry snapshots. It is the engine's geometry provider.
type GeometryRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewGeometryRepository creates a new geometry repository.
func NewGeometryRepository(db *sql.DB, log zerolog.Logger) *GeometryRepository {
	return &GeometryRepository{
		db:  db,
		log: log.With().Str("repository", "geometry").Logger(),
	}
}

// ReplaceGeometry swaps a vessel's entire offset table in one transaction
// and bumps the geometry version. Partial geometry updates are not
// supported; an import always replaces everything.
func (r *GeometryRepository) ReplaceGeometry(vesselID string, stations []hydro.Station, waterlines []hydro.Waterline, offsets []hydro.Offset) (int64, error) {
	// Validate before touching the database so a broken table never
	// replaces a good one.
	if _, err := hydro.NewHullGeometry(stations, waterlines, offsets); err != nil {
		return 0, err
	}

	var version int64
	err := database.WithTransaction(r.db, func(tx *sql.Tx) error {
		// RFC3339, same convention as the vessel repository writes, so
		// scanVessel can parse the row back.
		res, err := tx.Exec(`
			UPDATE vessels SET geometry_version = geometry_version + 1, updated_at = ?
			WHERE id = ?
		`, time.Now().UTC().Format(time.RFC3339), vesselID)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("vessel %s: %w", vesselID, domain.ErrNotFound)
		}

		for _, table := range []string{"offsets", "waterlines", "stations"} {
			if _, err := tx.Exec("DELETE FROM "+table+" WHERE vessel_id = ?", vesselID); err != nil {
				return err
			}
		}

		for _, st := range stations {
			if _, err := tx.Exec(
				"INSERT INTO stations (vessel_id, station_index, x) VALUES (?, ?, ?)",
				vesselID, st.Index, st.X.String()); err != nil {
				return err
			}
		}
		for _, wl := range waterlines {
			if _, err := tx.Exec(
				"INSERT INTO waterlines (vessel_id, waterline_index, z) VALUES (?, ?, ?)",
				vesselID, wl.Index, wl.Z.String()); err != nil {
				return err
			}
		}
		for _, off := range offsets {
			if _, err := tx.Exec(
				"INSERT INTO offsets (vessel_id, station_index, waterline_index, half_breadth) VALUES (?, ?, ?, ?)",
				vesselID, off.StationIndex, off.WaterlineIndex, off.HalfBreadth.String()); err != nil {
				return err
			}
		}

		return tx.QueryRow("SELECT geometry_version FROM vessels WHERE id = ?", vesselID).Scan(&version)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to replace geometry for vessel %s: %w", vesselID, err)
	}

	r.log.Info().
		Str("vessel", vesselID).
		Int("stations", len(stations)).
		Int("waterlines", len(waterlines)).
		Int("offsets", len(offsets)).
		Int64("version", version).
		Msg("Geometry replaced")
	return version, nil
}

// HullGeometryForVessel loads the vessel's offset table and builds the
// immutable geometry snapshot the engine computes against.
func (r *GeometryRepository) HullGeometryForVessel(vesselID string) (*hydro.HullGeometry, int64, error) {
	var version int64
	err := r.db.QueryRow("SELECT geometry_version FROM vessels WHERE id = ?", vesselID).Scan(&version)
	if err == sql.ErrNoRows {
		return nil, 0, fmt.Errorf("vessel %s: %w", vesselID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get vessel %s: %w", vesselID, err)
	}

	stations, err := r.loadStations(vesselID)
	if err != nil {
		return nil, 0, err
	}
	waterlines, err := r.loadWaterlines(vesselID)
	if err != nil {
		return nil, 0, err
	}
	offsets, err := r.loadOffsets(vesselID)
	if err != nil {
		return nil, 0, err
	}

	geo, err := hydro.NewHullGeometry(stations, waterlines, offsets)
	if err != nil {
		return nil, 0, err
	}
	return geo, version, nil
}

// OffsetTable loads the long-format offset rows for export, ordered by
// station then waterline.
func (r *GeometryRepository) OffsetTable(vesselID string) ([]OffsetRow, error) {
	rows, err := r.db.Query(`
		SELECT o.station_index, s.x, o.waterline_index, w.z, o.half_breadth
		FROM offsets o
		JOIN stations s ON s.vessel_id = o.vessel_id AND s.station_index = o.station_index
		JOIN waterlines w ON w.vessel_id = o.vessel_id AND w.waterline_index = o.waterline_index
		WHERE o.vessel_id = ?
		ORDER BY o.station_index, o.waterline_index
	`, vesselID)
	if err != nil {
		return nil, fmt.Errorf("failed to load offset table for vessel %s: %w", vesselID, err)
	}
	defer rows.Close()

	var result []OffsetRow
	for rows.Next() {
		var (
			row     OffsetRow
			x, z, y string
		)
		if err := rows.Scan(&row.StationIndex, &x, &row.WaterlineIndex, &z, &y); err != nil {
			return nil, fmt.Errorf("failed to scan offset row: %w", err)
		}
		if row.X, err = decimal.NewFromString(x); err != nil {
			return nil, fmt.Errorf("invalid station x %q: %w", x, err)
		}
		if row.Z, err = decimal.NewFromString(z); err != nil {
			return nil, fmt.Errorf("invalid waterline z %q: %w", z, err)
		}
		if row.HalfBreadth, err = decimal.NewFromString(y); err != nil {
			return nil, fmt.Errorf("invalid half breadth %q: %w", y, err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating offset table: %w", err)
	}
	return result, nil
}

func (r *GeometryRepository) loadStations(vesselID string) ([]hydro.Station, error) {
	rows, err := r.db.Query(
		"SELECT station_index, x FROM stations WHERE vessel_id = ? ORDER BY station_index", vesselID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stations for vessel %s: %w", vesselID, err)
	}
	defer rows.Close()

	var result []hydro.Station
	for rows.Next() {
		var (
			st hydro.Station
			x  string
		)
		if err := rows.Scan(&st.Index, &x); err != nil {
			return nil, fmt.Errorf("failed to scan station: %w", err)
		}
		if st.X, err = decimal.NewFromString(x); err != nil {
			return nil, fmt.Errorf("invalid station x %q: %w", x, err)
		}
		result = append(result, st)
	}
	return result, rows.Err()
}

func (r *GeometryRepository) loadWaterlines(vesselID string) ([]hydro.Waterline, error) {
	rows, err := r.db.Query(
		"SELECT waterline_index, z FROM waterlines WHERE vessel_id = ? ORDER BY waterline_index", vesselID)
	if err != nil {
		return nil, fmt.Errorf("failed to load waterlines for vessel %s: %w", vesselID, err)
	}
	defer rows.Close()

	var result []hydro.Waterline
	for rows.Next() {
		var (
			wl hydro.Waterline
			z  string
		)
		if err := rows.Scan(&wl.Index, &z); err != nil {
			return nil, fmt.Errorf("failed to scan waterline: %w", err)
		}
		if wl.Z, err = decimal.NewFromString(z); err != nil {
			return nil, fmt.Errorf("invalid waterline z %q: %w", z, err)
		}
		result = append(result, wl)
	}
	return result, rows.Err()
}

func (r *GeometryRepository) loadOffsets(vesselID string) ([]hydro.Offset, error) {
	rows, err := r.db.Query(`
		SELECT station_index, waterline_index, half_breadth
		FROM offsets WHERE vessel_id = ?
		ORDER BY station_index, waterline_index
	`, vesselID)
	if err != nil {
		return nil, fmt.Errorf("failed to load offsets for vessel %s: %w", vesselID, err)
	}
	defer rows.Close()

	var result []hydro.Offset
	for rows.Next() {
		var (
			off hydro.Offset
			y   string
		)
		if err := rows.Scan(&off.StationIndex, &off.WaterlineIndex, &y); err != nil {
			return nil, fmt.Errorf("failed to scan offset: %w", err)
		}
		if off.HalfBreadth, err = decimal.NewFromString(y); err != nil {
			return nil, fmt.Errorf("invalid half breadth %q: %w", y, err)
		}
		result = append(result, off)
	}
	return result, rows.Err()
}
