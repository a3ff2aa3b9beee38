// Package vessels manages the fleet: vessel records and their hull geometry
// offset tables. The geometry repository is the engine's geometry provider;
// offsets are replaced wholesale on re-import and every replacement bumps the
// vessel's geometry version so cached results keyed on the old geometry die.
package vessels

import (
	"time"

	"github.com/shopspring/decimal"
)

// Vessel is one fleet entry. Principal dimensions are optional metadata; the
// authoritative geometry lives in the offsets table.
type Vessel struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	LengthPP *decimal.Decimal `json:"length_pp,omitempty"`
	Beam     *decimal.Decimal `json:"beam,omitempty"`
	Depth    *decimal.Decimal `json:"depth,omitempty"`

	GeometryVersion int64     `json:"geometry_version"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// OffsetRow is one row of the long-format offset table used for CSV
// import/export: a (station, waterline) cell with its coordinates.
type OffsetRow struct {
	StationIndex   int             `json:"station_index"`
	X              decimal.Decimal `json:"x"`
	WaterlineIndex int             `json:"waterline_index"`
	Z              decimal.Decimal `json:"z"`
	HalfBreadth    decimal.Decimal `json:"half_breadth"`
}

// GeometrySummary reports what an import produced.
type GeometrySummary struct {
	VesselID   string `json:"vessel_id"`
	Stations   int    `json:"stations"`
	Waterlines int    `json:"waterlines"`
	Offsets    int    `json:"offsets"`
	Version    int64  `json:"version"`
}
