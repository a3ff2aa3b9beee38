package hydro

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhee15/navarch-studio-sub003/internal/domain"
)

// syntheticCurve builds a GZ curve from (heel, gz) pairs with the maximum
// already located, the way ComputeStabilityCurve hands curves off.
func syntheticCurve(gmt float64, pairs ...[2]float64) *StabilityCurve {
	curve := &StabilityCurve{
		LoadcaseID: "lc-test",
		Method:     MethodConstantDisplacement,
		GMt:        decimal.NewFromFloat(gmt),
	}
	for _, p := range pairs {
		pt := StabilityCurvePoint{
			Heel: decimal.NewFromFloat(p[0]),
			GZ:   decimal.NewFromFloat(p[1]),
		}
		curve.Points = append(curve.Points, pt)
		if pt.GZ.GreaterThan(curve.MaxGZ) {
			curve.MaxGZ = pt.GZ
			curve.AngleAtMaxGZ = pt.Heel
		}
	}
	return curve
}

func TestCheckCriteria_HealthyCurvePasses(t *testing.T) {
	// Generous curve peaking at 40 degrees.
	curve := syntheticCurve(1.0,
		[2]float64{0, 0}, [2]float64{10, 0.28}, [2]float64{20, 0.48},
		[2]float64{30, 0.60}, [2]float64{40, 0.64}, [2]float64{50, 0.60},
		[2]float64{60, 0.48})

	res, err := CheckCriteria(curve)
	require.NoError(t, err)

	assert.True(t, res.Passed)
	require.Len(t, res.Items, 5)
	for _, item := range res.Items {
		assert.True(t, item.Passed, "criterion %s: actual %s required %s",
			item.Name, item.Actual, item.Required)
	}

	// Spot-check the integrated areas against a hand trapezoid.
	byName := make(map[string]CriterionResult, len(res.Items))
	for _, item := range res.Items {
		byName[item.Name] = item
	}
	requireDecInDelta(t, decimal.NewFromFloat(0.18501), byName["area_0_30"].Actual, 0.001)
	requireDecInDelta(t, decimal.NewFromFloat(0.10821), byName["area_30_40"].Actual, 0.001)
	requireDecInDelta(t, decimal.NewFromFloat(0.60), byName["gz_at_30"].Actual, 1e-6)
	requireDecInDelta(t, decimal.NewFromInt(40), byName["angle_max_gz"].Actual, 1e-9)
}

func TestCheckCriteria_TenderCurveFails(t *testing.T) {
	// Low GM, early small peak: fails on several counts at once.
	curve := syntheticCurve(0.10,
		[2]float64{0, 0}, [2]float64{5, 0.04}, [2]float64{10, 0.07},
		[2]float64{15, 0.08}, [2]float64{20, 0.06}, [2]float64{25, 0.03},
		[2]float64{30, 0.01})

	res, err := CheckCriteria(curve)
	require.NoError(t, err)

	assert.False(t, res.Passed)
	byName := make(map[string]CriterionResult, len(res.Items))
	for _, item := range res.Items {
		byName[item.Name] = item
	}
	assert.False(t, byName["gm_min"].Passed)
	assert.False(t, byName["gz_at_30"].Passed)
	assert.False(t, byName["angle_max_gz"].Passed)
}

func TestCheckCriteriaWith_CustomThresholds(t *testing.T) {
	curve := syntheticCurve(0.10,
		[2]float64{0, 0}, [2]float64{10, 0.05}, [2]float64{20, 0.08},
		[2]float64{30, 0.06})

	// Zeroed rule set: every criterion trivially met.
	res, err := CheckCriteriaWith(curve, StabilityCriteria{})
	require.NoError(t, err)
	assert.True(t, res.Passed)

	// The same curve against the defaults is a failure.
	res, err = CheckCriteria(curve)
	require.NoError(t, err)
	assert.False(t, res.Passed)
}

func TestCheckCriteria_InterpolatesGZAt30(t *testing.T) {
	// 30 degrees falls between samples at 25 and 37.5.
	curve := syntheticCurve(1.0,
		[2]float64{0, 0}, [2]float64{12.5, 0.30}, [2]float64{25, 0.50},
		[2]float64{37.5, 0.55}, [2]float64{50, 0.45})

	res, err := CheckCriteria(curve)
	require.NoError(t, err)

	byName := make(map[string]CriterionResult, len(res.Items))
	for _, item := range res.Items {
		byName[item.Name] = item
	}
	requireDecInDelta(t, decimal.NewFromFloat(0.52), byName["gz_at_30"].Actual, 1e-6)
}

func TestCheckCriteria_TruncatedSweepClipsAreaWindow(t *testing.T) {
	// Sweep stopped at 35 degrees: the 30..40 area evaluates over 30..35.
	curve := syntheticCurve(1.0,
		[2]float64{0, 0}, [2]float64{10, 0.2}, [2]float64{20, 0.4},
		[2]float64{30, 0.5}, [2]float64{35, 0.52})

	res, err := CheckCriteria(curve)
	require.NoError(t, err)

	byName := make(map[string]CriterionResult, len(res.Items))
	for _, item := range res.Items {
		byName[item.Name] = item
	}
	// 5 degrees * avg(0.50, 0.52) in radians.
	requireDecInDelta(t, decimal.NewFromFloat(0.044506), byName["area_30_40"].Actual, 0.0005)
}

func TestCheckCriteria_TooFewPoints(t *testing.T) {
	var opErr *domain.InvalidOperationError

	_, err := CheckCriteria(nil)
	require.ErrorAs(t, err, &opErr)

	curve := syntheticCurve(1.0, [2]float64{0, 0}, [2]float64{10, 0.2})
	_, err = CheckCriteria(curve)
	require.ErrorAs(t, err, &opErr)
}
