package hydro

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/abhee15/navarch-studio-sub003/internal/domain"
)

// StabilityCriteria is the rule set a righting-arm curve is evaluated
// against. Thresholds default to the IMO intact-stability minima but can be
// overridden, e.g. from the reference catalog.
type StabilityCriteria struct {
	MinGMt        decimal.Decimal `json:"min_gmt"`           // m
	MinAreaTo30   decimal.Decimal `json:"min_area_to_30"`    // m*rad, 0..30 deg
	MinArea30To40 decimal.Decimal `json:"min_area_30_to_40"` // m*rad, 30..40 deg
	MinGZAt30     decimal.Decimal `json:"min_gz_at_30"`      // m
	MinAngleMaxGZ decimal.Decimal `json:"min_angle_max_gz"`  // deg
}

// DefaultCriteria returns the IMO A.749 intact-stability minima.
func DefaultCriteria() StabilityCriteria {
	return StabilityCriteria{
		MinGMt:        decimal.NewFromFloat(0.15),
		MinAreaTo30:   decimal.NewFromFloat(0.055),
		MinArea30To40: decimal.NewFromFloat(0.030),
		MinGZAt30:     decimal.NewFromFloat(0.20),
		MinAngleMaxGZ: decimal.NewFromInt(25),
	}
}

// CriterionResult is the verdict for one named criterion.
type CriterionResult struct {
	Name     string          `json:"name"`
	Actual   decimal.Decimal `json:"actual"`
	Required decimal.Decimal `json:"required"`
	Passed   bool            `json:"passed"`
}

// CriteriaResult is the full verdict for a righting-arm curve.
type CriteriaResult struct {
	Items  []CriterionResult `json:"items"`
	Passed bool              `json:"passed"`
}

// CheckCriteria evaluates a completed GZ curve against the default IMO
// criteria. It is a pure function of the curve: repeated calls return the
// same verdict.
func CheckCriteria(curve *StabilityCurve) (*CriteriaResult, error) {
	return CheckCriteriaWith(curve, DefaultCriteria())
}

// CheckCriteriaWith evaluates a completed GZ curve against an explicit rule
// set. Curves with fewer than 3 points cannot be meaningfully evaluated and
// fail with an InvalidOperationError.
func CheckCriteriaWith(curve *StabilityCurve, crit StabilityCriteria) (*CriteriaResult, error) {
	if curve == nil || len(curve.Points) < 3 {
		return nil, domain.NewInvalidOperationError(
			"stability curve has too few points to evaluate criteria")
	}

	deg30 := decimal.NewFromInt(30)
	deg40 := decimal.NewFromInt(40)

	items := []CriterionResult{
		verdict("gm_min", curve.GMt, crit.MinGMt),
		verdict("area_0_30", curveArea(curve, decZero, deg30), crit.MinAreaTo30),
		verdict("area_30_40", curveArea(curve, deg30, deg40), crit.MinArea30To40),
		verdict("gz_at_30", gzAt(curve, deg30), crit.MinGZAt30),
		verdict("angle_max_gz", curve.AngleAtMaxGZ, crit.MinAngleMaxGZ),
	}

	passed := true
	for _, it := range items {
		if !it.Passed {
			passed = false
			break
		}
	}
	return &CriteriaResult{Items: items, Passed: passed}, nil
}

func verdict(name string, actual, required decimal.Decimal) CriterionResult {
	return CriterionResult{
		Name:     name,
		Actual:   actual,
		Required: required,
		Passed:   actual.GreaterThanOrEqual(required),
	}
}

// gzAt interpolates the righting arm at an arbitrary heel angle, clamping
// to the curve's end values outside the sampled range.
func gzAt(curve *StabilityCurve, angle decimal.Decimal) decimal.Decimal {
	pts := curve.Points
	if angle.LessThanOrEqual(pts[0].Heel) {
		return pts[0].GZ
	}
	last := pts[len(pts)-1]
	if angle.GreaterThanOrEqual(last.Heel) {
		return last.GZ
	}
	for i := 1; i < len(pts); i++ {
		if angle.LessThanOrEqual(pts[i].Heel) {
			lo, hi := pts[i-1], pts[i]
			frac := angle.Sub(lo.Heel).Div(hi.Heel.Sub(lo.Heel))
			return quantize(lo.GZ.Add(hi.GZ.Sub(lo.GZ).Mul(frac)))
		}
	}
	return last.GZ
}

// curveArea integrates GZ over heel between two angles (degrees in, m*rad
// out) by the trapezoidal rule over the curve samples, with interpolated
// end points. The sampled range clips the requested window: criteria over
// angles the sweep never reached evaluate against what is available.
func curveArea(curve *StabilityCurve, from, to decimal.Decimal) decimal.Decimal {
	pts := curve.Points
	lo := from
	if lo.LessThan(pts[0].Heel) {
		lo = pts[0].Heel
	}
	hi := to
	if hi.GreaterThan(pts[len(pts)-1].Heel) {
		hi = pts[len(pts)-1].Heel
	}
	if lo.GreaterThanOrEqual(hi) {
		return decZero
	}

	degToRad := decimal.NewFromFloat(math.Pi / 180)

	angles := []decimal.Decimal{lo}
	values := []decimal.Decimal{gzAt(curve, lo)}
	for _, p := range pts {
		if p.Heel.GreaterThan(lo) && p.Heel.LessThan(hi) {
			angles = append(angles, p.Heel)
			values = append(values, p.GZ)
		}
	}
	angles = append(angles, hi)
	values = append(values, gzAt(curve, hi))

	area := decZero
	for i := 1; i < len(angles); i++ {
		h := angles[i].Sub(angles[i-1]).Mul(degToRad)
		area = area.Add(h.Mul(values[i].Add(values[i-1])).Div(decTwo))
	}
	return quantize(area)
}
