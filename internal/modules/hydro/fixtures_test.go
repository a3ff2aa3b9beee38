package hydro

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// testLoadcase returns a seawater loadcase with the given KG.
func testLoadcase(kg float64) *Loadcase {
	return &Loadcase{
		ID:       "lc-test",
		VesselID: "vessel-test",
		Name:     "test",
		Rho:      decimal.NewFromFloat(1.025),
		KG:       decimal.NewFromFloat(kg),
	}
}

// boxBarge builds a rectangular barge: L=100 m, B=10 m, depth 10 m.
// Sections are constant, so every hydrostatic property has a closed form.
func boxBarge(t *testing.T) *HullGeometry {
	t.Helper()

	stations := make([]Station, 11)
	for i := range stations {
		stations[i] = Station{Index: i, X: decimal.NewFromInt(int64(i * 10))}
	}
	waterlines := make([]Waterline, 11)
	for i := range waterlines {
		waterlines[i] = Waterline{Index: i, Z: decimal.NewFromInt(int64(i))}
	}
	var offsets []Offset
	for si := range stations {
		for wi := range waterlines {
			offsets = append(offsets, Offset{
				StationIndex:   si,
				WaterlineIndex: wi,
				HalfBreadth:    decimal.NewFromInt(5),
			})
		}
	}

	geo, err := NewHullGeometry(stations, waterlines, offsets)
	require.NoError(t, err)
	return geo
}

// wedgeHull builds a prismatic wedge: half-breadth grows linearly from zero
// at the keel to 5 m at z=10 m, constant along the length.
func wedgeHull(t *testing.T) *HullGeometry {
	t.Helper()

	stations := make([]Station, 11)
	for i := range stations {
		stations[i] = Station{Index: i, X: decimal.NewFromInt(int64(i * 10))}
	}
	waterlines := make([]Waterline, 11)
	for i := range waterlines {
		waterlines[i] = Waterline{Index: i, Z: decimal.NewFromInt(int64(i))}
	}
	var offsets []Offset
	for si := range stations {
		for wi := range waterlines {
			// y = z/2
			offsets = append(offsets, Offset{
				StationIndex:   si,
				WaterlineIndex: wi,
				HalfBreadth:    decimal.New(int64(wi*5), -1),
			})
		}
	}

	geo, err := NewHullGeometry(stations, waterlines, offsets)
	require.NoError(t, err)
	return geo
}

// wigleyHull builds the classic Wigley parabolic hull: L=100 m, B=10 m,
// design draft 6.25 m with the deck edge at the design waterline, so that
// heeling past the freeboard immerses the deck edge. Offsets are rounded to
// 4 decimals like an imported offset table.
func wigleyHull(t *testing.T) *HullGeometry {
	t.Helper()

	const (
		length = 100.0
		beam   = 10.0
		design = 6.25
	)

	stations := make([]Station, 21)
	for i := range stations {
		stations[i] = Station{Index: i, X: decimal.NewFromInt(int64(i * 5))}
	}
	waterlines := make([]Waterline, 11)
	for i := range waterlines {
		waterlines[i] = Waterline{Index: i, Z: decimal.NewFromFloat(float64(i) * 0.625)}
	}

	var offsets []Offset
	for si, st := range stations {
		x, _ := st.X.Float64()
		xi := (x - length/2) / (length / 2)
		for wi, wl := range waterlines {
			z, _ := wl.Z.Float64()
			zeta := (design - z) / design
			y := beam / 2 * (1 - xi*xi) * (1 - zeta*zeta)
			offsets = append(offsets, Offset{
				StationIndex:   si,
				WaterlineIndex: wi,
				HalfBreadth:    decimal.NewFromFloat(y).Round(4),
			})
		}
	}

	geo, err := NewHullGeometry(stations, waterlines, offsets)
	require.NoError(t, err)
	return geo
}

// requireDecInDelta asserts two decimals agree within delta.
func requireDecInDelta(t *testing.T, expected, actual decimal.Decimal, delta float64, msgAndArgs ...interface{}) {
	t.Helper()
	diff := expected.Sub(actual).Abs()
	require.True(t, diff.LessThanOrEqual(decimal.NewFromFloat(delta)),
		"expected %s within %v of %s (diff %s): %v", actual.String(), delta, expected.String(), diff.String(), msgAndArgs)
}
