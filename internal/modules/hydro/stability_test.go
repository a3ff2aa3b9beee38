package hydro

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhee15/navarch-studio-sub003/internal/domain"
)

// stabilityLoadcase returns a Wigley loadcase floating at a 4.375 m load
// draft, leaving 1.875 m of freeboard so the deck edge goes under during
// the sweep.
func stabilityLoadcase(t *testing.T, calc *Calculator) *Loadcase {
	t.Helper()
	lc := testLoadcase(3.85)
	ref, err := calc.Compute(Condition{Draft: decimal.NewFromFloat(4.375)}, lc)
	require.NoError(t, err)
	target := ref.DispWeight
	lc.TargetDisplacement = &target
	return lc
}

func TestComputeStabilityCurve_WigleyShape(t *testing.T) {
	calc := NewCalculator(wigleyHull(t))
	lc := stabilityLoadcase(t, calc)

	curve, err := calc.ComputeStabilityCurve(context.Background(), lc,
		decimal.Zero, decimal.NewFromInt(60), decimal.NewFromInt(5),
		MethodConstantDisplacement)
	require.NoError(t, err)

	require.Len(t, curve.Points, 13)
	assert.Equal(t, MethodConstantDisplacement, curve.Method)

	// Upright: no righting arm at all.
	assert.True(t, curve.Points[0].GZ.IsZero(), "GZ(0) = %s", curve.Points[0].GZ)
	assert.True(t, curve.Points[0].KN.IsZero())

	// Small angles follow the metacentric approximation GZ = GMt*sin(heel).
	requireDecInDelta(t, curve.GMt.Mul(sinDeg(decimal.NewFromInt(5))), curve.Points[1].GZ, 0.02)
	requireDecInDelta(t, decimal.NewFromFloat(0.80), curve.GMt, 0.05)

	// The curve peaks inside the sweep where deck-edge immersion starts
	// eating the waterplane, in the window published for this hull and
	// loading: max GZ between 0.35 and 0.45 m at a heel of 30 to 50 deg.
	assert.True(t, curve.MaxGZ.GreaterThanOrEqual(decimal.NewFromFloat(0.35)), "max GZ %s", curve.MaxGZ)
	assert.True(t, curve.MaxGZ.LessThanOrEqual(decimal.NewFromFloat(0.45)), "max GZ %s", curve.MaxGZ)
	assert.True(t, curve.AngleAtMaxGZ.GreaterThanOrEqual(decimal.NewFromInt(30)), "peak at %s", curve.AngleAtMaxGZ)
	assert.True(t, curve.AngleAtMaxGZ.LessThanOrEqual(decimal.NewFromInt(50)), "peak at %s", curve.AngleAtMaxGZ)
	assert.True(t, curve.AngleAtMaxGZ.LessThan(decimal.NewFromInt(60)),
		"no interior maximum, sweep ended while still rising")

	// Strictly rising to the peak, strictly falling past it, up to a small
	// quadrature tolerance.
	slack := decimal.NewFromFloat(0.01)
	for i := 1; i < len(curve.Points); i++ {
		prev, cur := curve.Points[i-1], curve.Points[i]
		if cur.Heel.LessThanOrEqual(curve.AngleAtMaxGZ) {
			assert.True(t, cur.GZ.GreaterThanOrEqual(prev.GZ.Sub(slack)),
				"GZ dips before the peak at %s", cur.Heel)
		} else {
			assert.True(t, cur.GZ.LessThanOrEqual(prev.GZ.Add(slack)),
				"GZ rises after the peak at %s", cur.Heel)
		}
	}
}

func TestComputeStabilityCurve_FixedDraftMethod(t *testing.T) {
	calc := NewCalculator(wigleyHull(t))
	lc := stabilityLoadcase(t, calc)

	curve, err := calc.ComputeStabilityCurve(context.Background(), lc,
		decimal.Zero, decimal.NewFromInt(30), decimal.NewFromInt(5),
		MethodFixedDraft)
	require.NoError(t, err)

	require.Len(t, curve.Points, 7)
	assert.Equal(t, MethodFixedDraft, curve.Method)
	assert.True(t, curve.Points[0].GZ.IsZero())

	// At small angles both methods ride the same metacentric slope.
	constant, err := calc.ComputeStabilityCurve(context.Background(), lc,
		decimal.Zero, decimal.NewFromInt(30), decimal.NewFromInt(5),
		MethodConstantDisplacement)
	require.NoError(t, err)
	requireDecInDelta(t, constant.Points[1].GZ, curve.Points[1].GZ, 0.05)
}

func TestComputeStabilityCurve_DefaultsToConstantDisplacement(t *testing.T) {
	calc := NewCalculator(wigleyHull(t))
	lc := stabilityLoadcase(t, calc)

	curve, err := calc.ComputeStabilityCurve(context.Background(), lc,
		decimal.Zero, decimal.NewFromInt(10), decimal.NewFromInt(5), "")
	require.NoError(t, err)
	assert.Equal(t, MethodConstantDisplacement, curve.Method)
}

func TestComputeStabilityCurve_NotifiesObservers(t *testing.T) {
	calc := NewCalculator(wigleyHull(t))
	lc := stabilityLoadcase(t, calc)

	var seen []StabilityCurvePoint
	curve, err := calc.ComputeStabilityCurve(context.Background(), lc,
		decimal.Zero, decimal.NewFromInt(20), decimal.NewFromInt(5),
		MethodConstantDisplacement,
		func(p StabilityCurvePoint) { seen = append(seen, p) })
	require.NoError(t, err)

	require.Equal(t, curve.Points, seen)
}

func TestComputeStabilityCurve_RejectsInvalidArguments(t *testing.T) {
	calc := NewCalculator(wigleyHull(t))
	lc := stabilityLoadcase(t, calc)
	ctx := context.Background()
	zero := decimal.Zero
	thirty := decimal.NewFromInt(30)
	five := decimal.NewFromInt(5)

	var argErr *domain.ArgumentError

	_, err := calc.ComputeStabilityCurve(ctx, lc, zero, thirty, decimal.Zero, MethodConstantDisplacement)
	require.ErrorAs(t, err, &argErr)

	_, err = calc.ComputeStabilityCurve(ctx, lc, thirty, zero, five, MethodConstantDisplacement)
	require.ErrorAs(t, err, &argErr)

	_, err = calc.ComputeStabilityCurve(ctx, lc, decimal.NewFromInt(-10), thirty, five, MethodConstantDisplacement)
	require.ErrorAs(t, err, &argErr)

	_, err = calc.ComputeStabilityCurve(ctx, lc, zero, thirty, five, "free-trim")
	require.ErrorAs(t, err, &argErr)

	noTarget := testLoadcase(3.85)
	_, err = calc.ComputeStabilityCurve(ctx, noTarget, zero, thirty, five, MethodConstantDisplacement)
	require.ErrorAs(t, err, &argErr)
}

func TestComputeStabilityCurve_HonorsCancellation(t *testing.T) {
	calc := NewCalculator(wigleyHull(t))
	lc := stabilityLoadcase(t, calc)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := calc.ComputeStabilityCurve(ctx, lc,
		decimal.Zero, decimal.NewFromInt(60), decimal.NewFromInt(5),
		MethodConstantDisplacement)
	require.ErrorIs(t, err, context.Canceled)
}
