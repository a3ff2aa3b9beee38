// Package hydro implements the hydrostatic integration and equilibrium
// solving engine: sectional and longitudinal integration of a discretized
// hull form, trim equilibrium solving, hydrostatic curve generation and
// intact stability analysis.
//
// The engine is a pure library. It never persists or serializes anything
// itself; vessel geometry and loadcases are handed in through provider
// interfaces and results are returned as immutable values. All quantities
// are carried as fixed-scale decimals (see DecimalScale).
package hydro

import (
	"github.com/shopspring/decimal"

	"github.com/abhee15/navarch-studio-sub003/internal/domain"
)

// Station is a transverse section position along the hull, indexed from aft.
type Station struct {
	Index int             `json:"index"`
	X     decimal.Decimal `json:"x"`
}

// Waterline is a horizontal plane at a height above the keel, indexed upward.
type Waterline struct {
	Index int             `json:"index"`
	Z     decimal.Decimal `json:"z"`
}

// Offset is the half-breadth of the hull at a station/waterline crossing.
// The hull is laterally symmetric, so the full breadth is twice the offset.
type Offset struct {
	StationIndex   int             `json:"station_index"`
	WaterlineIndex int             `json:"waterline_index"`
	HalfBreadth    decimal.Decimal `json:"half_breadth"`
}

// OutOfRangeMode controls lookups above the highest defined waterline.
type OutOfRangeMode int

const (
	// OutOfRangeClamp returns the topmost defined half-breadth, treating
	// the hull as wall-sided above its highest waterline.
	OutOfRangeClamp OutOfRangeMode = iota
	// OutOfRangeError rejects heights above the highest defined waterline.
	OutOfRangeError
)

// profilePoint is one defined (height, half-breadth) sample of a station.
type profilePoint struct {
	z decimal.Decimal
	y decimal.Decimal
}

// HullGeometry is the in-memory discretized hull form. It is immutable once
// constructed; re-imports replace it wholesale.
type HullGeometry struct {
	stations   []Station
	waterlines []Waterline

	// profiles[i] holds station i's defined offsets ordered by height,
	// with a synthetic keel point (0, 0) prepended when the lowest defined
	// offset sits above the keel. The sparse offset grid is resolved into
	// these dense per-station profiles at construction time.
	profiles [][]profilePoint
}

// NewHullGeometry validates and assembles a hull form from its stations,
// waterlines and sparse offset grid.
//
// Station X coordinates and waterline Z coordinates must be strictly
// increasing by index and offsets must be non-negative. Integration is
// undefined for fewer than two stations or two waterlines, or when any
// station has no offsets at all; those cases fail with a
// GeometryIncompleteError.
func NewHullGeometry(stations []Station, waterlines []Waterline, offsets []Offset) (*HullGeometry, error) {
	if len(stations) < 2 {
		return nil, domain.NewGeometryIncompleteError("need at least 2 stations, have %d", len(stations))
	}
	if len(waterlines) < 2 {
		return nil, domain.NewGeometryIncompleteError("need at least 2 waterlines, have %d", len(waterlines))
	}

	for i := 1; i < len(stations); i++ {
		if !stations[i].X.GreaterThan(stations[i-1].X) {
			return nil, domain.NewArgumentError("stations",
				"x coordinates must be strictly increasing by index")
		}
	}
	for i := 1; i < len(waterlines); i++ {
		if !waterlines[i].Z.GreaterThan(waterlines[i-1].Z) {
			return nil, domain.NewArgumentError("waterlines",
				"z coordinates must be strictly increasing by index")
		}
	}

	// Resolve the sparse grid into per-station dense profiles.
	grid := make([]map[int]decimal.Decimal, len(stations))
	for i := range grid {
		grid[i] = make(map[int]decimal.Decimal)
	}
	for _, off := range offsets {
		if off.StationIndex < 0 || off.StationIndex >= len(stations) {
			return nil, domain.NewArgumentError("offsets", "station index out of range")
		}
		if off.WaterlineIndex < 0 || off.WaterlineIndex >= len(waterlines) {
			return nil, domain.NewArgumentError("offsets", "waterline index out of range")
		}
		if off.HalfBreadth.IsNegative() {
			return nil, domain.NewArgumentError("offsets", "half-breadth must be non-negative")
		}
		grid[off.StationIndex][off.WaterlineIndex] = off.HalfBreadth
	}

	profiles := make([][]profilePoint, len(stations))
	for si := range stations {
		var pts []profilePoint
		for wi, wl := range waterlines {
			if y, ok := grid[si][wi]; ok {
				pts = append(pts, profilePoint{z: wl.Z, y: y})
			}
		}
		if len(pts) == 0 {
			return nil, domain.NewGeometryIncompleteError("station %d has no offsets", stations[si].Index)
		}
		// Extrapolate toward zero breadth at the keel when the lowest
		// defined offset is above it.
		if pts[0].z.IsPositive() {
			pts = append([]profilePoint{{z: decZero, y: decZero}}, pts...)
		}
		profiles[si] = pts
	}

	return &HullGeometry{
		stations:   stations,
		waterlines: waterlines,
		profiles:   profiles,
	}, nil
}

// Stations returns the ordered station positions.
func (g *HullGeometry) Stations() []Station { return g.stations }

// Waterlines returns the ordered waterline heights.
func (g *HullGeometry) Waterlines() []Waterline { return g.waterlines }

// Length returns the longitudinal extent between the first and last station.
func (g *HullGeometry) Length() decimal.Decimal {
	return g.stations[len(g.stations)-1].X.Sub(g.stations[0].X)
}

// MidX returns the longitudinal midpoint between the end stations.
func (g *HullGeometry) MidX() decimal.Decimal {
	return g.stations[0].X.Add(g.stations[len(g.stations)-1].X).Div(decTwo)
}

// MaxZ returns the highest defined waterline height.
func (g *HullGeometry) MaxZ() decimal.Decimal {
	return g.waterlines[len(g.waterlines)-1].Z
}

// MinZ returns the lowest defined waterline height.
func (g *HullGeometry) MinZ() decimal.Decimal {
	return g.waterlines[0].Z
}

// HalfBreadthAt returns the hull half-breadth at a station and height,
// interpolating linearly between the two bracketing defined waterlines.
// Heights below the keel return zero; heights above the station's highest
// defined offset either clamp or fail depending on mode.
func (g *HullGeometry) HalfBreadthAt(stationIdx int, z decimal.Decimal, mode OutOfRangeMode) (decimal.Decimal, error) {
	if stationIdx < 0 || stationIdx >= len(g.stations) {
		return decZero, domain.NewArgumentError("station", "index out of range")
	}
	pts := g.profiles[stationIdx]

	if z.LessThan(pts[0].z) {
		// Below the profile start; the keel point makes this zero for any
		// physically sensible height.
		return decZero, nil
	}
	top := pts[len(pts)-1]
	if z.GreaterThan(top.z) {
		if mode == OutOfRangeError {
			return decZero, domain.NewInvalidOperationError(
				"height %s is above the highest defined waterline %s at station %d",
				z.String(), top.z.String(), g.stations[stationIdx].Index)
		}
		return top.y, nil
	}

	for i := 1; i < len(pts); i++ {
		if z.LessThanOrEqual(pts[i].z) {
			lo, hi := pts[i-1], pts[i]
			frac := z.Sub(lo.z).Div(hi.z.Sub(lo.z))
			return quantize(lo.y.Add(hi.y.Sub(lo.y).Mul(frac))), nil
		}
	}
	return top.y, nil
}

// profileAt returns the dense offset profile for a station.
func (g *HullGeometry) profileAt(stationIdx int) []profilePoint {
	return g.profiles[stationIdx]
}
