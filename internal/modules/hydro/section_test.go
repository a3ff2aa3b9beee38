package hydro

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhee15/navarch-studio-sub003/internal/domain"
)

func TestSectionAt_BoxBargeClosedForm(t *testing.T) {
	geo := boxBarge(t)
	draft := decimal.NewFromInt(4)

	sp, err := geo.SectionAt(5, draft, OutOfRangeClamp)
	require.NoError(t, err)

	// Area = B*T = 10*4, moment about keel = B*T^2/2 = 80.
	assert.True(t, sp.Area.Equal(decimal.NewFromInt(40)), "area %s", sp.Area)
	assert.True(t, sp.KeelMoment.Equal(decimal.NewFromInt(80)), "moment %s", sp.KeelMoment)
	assert.True(t, sp.WaterlineHalfBreadth.Equal(decimal.NewFromInt(5)))
}

func TestSectionAt_WedgeClosedForm(t *testing.T) {
	geo := wedgeHull(t)
	draft := decimal.NewFromInt(6)

	sp, err := geo.SectionAt(5, draft, OutOfRangeClamp)
	require.NoError(t, err)

	// y = z/2: area = 2*t^2/4 = 18, moment = 2*t^3/6 = 72.
	requireDecInDelta(t, decimal.NewFromInt(18), sp.Area, 1e-9)
	requireDecInDelta(t, decimal.NewFromInt(72), sp.KeelMoment, 1e-9)
	requireDecInDelta(t, decimal.NewFromInt(3), sp.WaterlineHalfBreadth, 1e-9)
}

func TestSectionAt_ZeroAndNegativeDraft(t *testing.T) {
	geo := boxBarge(t)

	sp, err := geo.SectionAt(0, decimal.Zero, OutOfRangeClamp)
	require.NoError(t, err)
	assert.True(t, sp.Area.IsZero())

	sp, err = geo.SectionAt(0, decimal.NewFromInt(-2), OutOfRangeClamp)
	require.NoError(t, err)
	assert.True(t, sp.Area.IsZero())
}

func TestSectionAt_PartialIntervalContinuity(t *testing.T) {
	// The cumulative area must not jump as the draft crosses a defined
	// waterline: this is the binding requirement on the partial-interval
	// blend of Simpson and trapezoidal contributions.
	geo := wigleyHull(t)
	eps := decimal.NewFromFloat(0.001)

	for _, wl := range geo.Waterlines()[1:] {
		below, err := geo.SectionAt(10, wl.Z.Sub(eps), OutOfRangeClamp)
		require.NoError(t, err)
		at, err := geo.SectionAt(10, wl.Z, OutOfRangeClamp)
		require.NoError(t, err)
		above, err := geo.SectionAt(10, wl.Z.Add(eps), OutOfRangeClamp)
		require.NoError(t, err)

		requireDecInDelta(t, at.Area, below.Area, 0.02, "below waterline %s", wl.Z)
		requireDecInDelta(t, at.Area, above.Area, 0.02, "above waterline %s", wl.Z)
		assert.True(t, below.Area.LessThanOrEqual(at.Area))
		assert.True(t, at.Area.LessThanOrEqual(above.Area))
	}
}

func TestSectionAt_DegenerateSingleSegment(t *testing.T) {
	// Two waterlines only: a single usable interval must integrate
	// trapezoidally instead of failing.
	stations := []Station{
		{Index: 0, X: decimal.Zero},
		{Index: 1, X: decimal.NewFromInt(10)},
	}
	waterlines := []Waterline{
		{Index: 0, Z: decimal.Zero},
		{Index: 1, Z: decimal.NewFromInt(10)},
	}
	var offsets []Offset
	for si := 0; si < 2; si++ {
		offsets = append(offsets,
			Offset{StationIndex: si, WaterlineIndex: 0, HalfBreadth: decimal.NewFromInt(2)},
			Offset{StationIndex: si, WaterlineIndex: 1, HalfBreadth: decimal.NewFromInt(2)},
		)
	}
	geo, err := NewHullGeometry(stations, waterlines, offsets)
	require.NoError(t, err)

	sp, err := geo.SectionAt(0, decimal.NewFromInt(5), OutOfRangeClamp)
	require.NoError(t, err)
	assert.True(t, sp.Area.Equal(decimal.NewFromInt(20)), "area %s", sp.Area)
}

func TestSectionAt_ClampAboveTopWaterline(t *testing.T) {
	geo := boxBarge(t)
	draft := decimal.NewFromInt(12)

	sp, err := geo.SectionAt(0, draft, OutOfRangeClamp)
	require.NoError(t, err)
	// Wall-sided above the top waterline: 10*12.
	assert.True(t, sp.Area.Equal(decimal.NewFromInt(120)), "area %s", sp.Area)

	_, err = geo.SectionAt(0, draft, OutOfRangeError)
	var opErr *domain.InvalidOperationError
	require.ErrorAs(t, err, &opErr)
}

func TestHeeledSectionAt_ZeroHeelMatchesUpright(t *testing.T) {
	geo := wigleyHull(t)
	draft := decimal.NewFromInt(5)

	hs, err := geo.heeledSectionAt(10, draft, decimal.Zero)
	require.NoError(t, err)
	sp, err := geo.SectionAt(10, draft, OutOfRangeClamp)
	require.NoError(t, err)

	assert.True(t, hs.area.Equal(sp.Area))
	assert.True(t, hs.keelMoment.Equal(sp.KeelMoment))
	assert.True(t, hs.transMom.IsZero())
}

func TestHeeledSectionAt_BoxBargeModerateHeel(t *testing.T) {
	// Box section, waterline fully inside the walls: the immersed and
	// emerged wedges balance, so the heeled area equals the upright area
	// and the transverse moment equals the analytic wedge transfer.
	geo := boxBarge(t)
	draft := decimal.NewFromInt(4)
	heel := decimal.NewFromFloat(11.309932) // tan = 0.2

	hs, err := geo.heeledSectionAt(0, draft, heel)
	require.NoError(t, err)

	requireDecInDelta(t, decimal.NewFromInt(40), hs.area, 0.01)
	// Transverse moment: integral of (b^2 - eta_wl^2)/2 over the wedge
	// band = 50/3 for b=5, tan(heel)=0.2.
	requireDecInDelta(t, decimal.NewFromFloat(50.0/3.0), hs.transMom, 0.15)
}
