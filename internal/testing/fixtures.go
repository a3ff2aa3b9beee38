package testing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/abhee15/navarch-studio-sub003/internal/database"
	"github.com/abhee15/navarch-studio-sub003/internal/modules/hydro"
)

// SeedVessel inserts a minimal vessel row into a fleet test database.
func SeedVessel(t *testing.T, db *database.DB, id, name string) {
	t.Helper()
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := db.Exec(`
		INSERT INTO vessels (id, name, description, geometry_version, created_at, updated_at)
		VALUES (?, ?, '', 0, ?, ?)
	`, id, name, now, now)
	if err != nil {
		t.Fatalf("Failed to seed vessel %s: %v", id, err)
	}
}

// SeedLoadcase inserts a loadcase row into a fleet test database.
func SeedLoadcase(t *testing.T, db *database.DB, id, vesselID string, rho, kg decimal.Decimal) {
	t.Helper()
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := db.Exec(`
		INSERT INTO loadcases (id, vessel_id, name, rho, kg, target_displacement, created_at, updated_at)
		VALUES (?, ?, 'test loadcase', ?, ?, NULL, ?, ?)
	`, id, vesselID, rho.String(), kg.String(), now, now)
	if err != nil {
		t.Fatalf("Failed to seed loadcase %s: %v", id, err)
	}
}

// WigleyGeometry builds the classic Wigley parabolic hull as offset table
// slices: length 100, beam 10, design draft 6.25 with the deck edge at the
// design waterline. 21 stations, 11 waterlines at 0.625 spacing.
func WigleyGeometry() ([]hydro.Station, []hydro.Waterline, []hydro.Offset) {
	const (
		length      = 100.0
		beam        = 10.0
		designDraft = 6.25
		nStations   = 21
		nWaterlines = 11
	)

	stations := make([]hydro.Station, nStations)
	for i := 0; i < nStations; i++ {
		x := length * float64(i) / float64(nStations-1)
		stations[i] = hydro.Station{Index: i, X: decimal.NewFromFloat(x)}
	}

	waterlines := make([]hydro.Waterline, nWaterlines)
	for j := 0; j < nWaterlines; j++ {
		z := 0.625 * float64(j)
		waterlines[j] = hydro.Waterline{Index: j, Z: decimal.NewFromFloat(z)}
	}

	var offsets []hydro.Offset
	for i := 0; i < nStations; i++ {
		x := length * float64(i) / float64(nStations-1)
		xi := 2.0*x/length - 1.0
		for j := 0; j < nWaterlines; j++ {
			z := 0.625 * float64(j)
			zeta := z / designDraft
			halfBreadth := beam / 2.0 * (1.0 - xi*xi) * (1.0 - (1.0-zeta)*(1.0-zeta))
			offsets = append(offsets, hydro.Offset{
				StationIndex:   i,
				WaterlineIndex: j,
				HalfBreadth:    decimal.NewFromFloat(halfBreadth).Round(6),
			})
		}
	}
	return stations, waterlines, offsets
}

// BoxGeometry builds a rectangular barge offset table: constant half
// breadth at every station and waterline.
func BoxGeometry(length, halfBreadth, depth float64, nStations, nWaterlines int) ([]hydro.Station, []hydro.Waterline, []hydro.Offset) {
	stations := make([]hydro.Station, nStations)
	for i := 0; i < nStations; i++ {
		x := length * float64(i) / float64(nStations-1)
		stations[i] = hydro.Station{Index: i, X: decimal.NewFromFloat(x)}
	}
	waterlines := make([]hydro.Waterline, nWaterlines)
	for j := 0; j < nWaterlines; j++ {
		z := depth * float64(j) / float64(nWaterlines-1)
		waterlines[j] = hydro.Waterline{Index: j, Z: decimal.NewFromFloat(z)}
	}
	hb := decimal.NewFromFloat(halfBreadth)
	var offsets []hydro.Offset
	for i := 0; i < nStations; i++ {
		for j := 0; j < nWaterlines; j++ {
			offsets = append(offsets, hydro.Offset{StationIndex: i, WaterlineIndex: j, HalfBreadth: hb})
		}
	}
	return stations, waterlines, offsets
}
