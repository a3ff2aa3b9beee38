package hydro

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/abhee15/navarch-studio-sub003/internal/domain"
)

// equilibrium tolerances for the implicit draft solves inside the heel sweep.
var (
	dispTolRel   = decimal.NewFromFloat(0.0001)
	dispTolFloor = decimal.NewFromFloat(0.001)
)

// ComputeStabilityCurve builds the righting-arm curve for a loadcase across
// a heel-angle sweep, in strictly increasing angle order.
//
// The loadcase must carry a target displacement; the upright equilibrium
// draft is solved first and the sweep proceeds from there. At each angle the
// hull is re-integrated with the waterplane tilted by the heel; KN follows
// from the heeled center of buoyancy and GZ = KN - KG*sin(heel). With
// MethodConstantDisplacement the draft is re-solved per angle so the
// displaced weight stays on target; MethodFixedDraft keeps the upright
// draft throughout (cross-curve style).
//
// The sweep checks ctx between angles and aborts with the context's error.
// Observers, when given, are invoked with each point as soon as it is
// computed, in sweep order; long sweeps use this for progress reporting.
func (c *Calculator) ComputeStabilityCurve(ctx context.Context, lc *Loadcase, minAngle, maxAngle, increment decimal.Decimal, method StabilityMethod, observers ...func(StabilityCurvePoint)) (*StabilityCurve, error) {
	if !increment.IsPositive() {
		return nil, domain.NewArgumentError("angleIncrement", "must be positive")
	}
	if minAngle.GreaterThanOrEqual(maxAngle) {
		return nil, domain.NewArgumentError("angleRange", "minAngle must be less than maxAngle")
	}
	if minAngle.IsNegative() {
		return nil, domain.NewArgumentError("minAngle", "must not be negative")
	}
	if method == "" {
		method = MethodConstantDisplacement
	}
	if method != MethodConstantDisplacement && method != MethodFixedDraft {
		return nil, domain.NewArgumentError("method", "unknown stability method "+string(method))
	}
	if lc == nil || lc.TargetDisplacement == nil || !lc.TargetDisplacement.IsPositive() {
		return nil, domain.NewArgumentError("loadcase", "a positive target displacement is required")
	}

	target := *lc.TargetDisplacement
	tol := target.Mul(dispTolRel)
	if tol.LessThan(dispTolFloor) {
		tol = dispTolFloor
	}

	// Upright equilibrium first: both the sweep's starting draft and the
	// GMt the criteria checker needs.
	guess := c.geo.MaxZ().Div(decTwo)
	solved, err := c.SolveTrim(TrimSolveRequest{
		Target:        target,
		InitialFwd:    guess,
		InitialAft:    guess,
		MaxIterations: 50,
		Tolerance:     tol,
	}, lc)
	if err != nil {
		return nil, err
	}
	if !solved.Converged || solved.Result == nil {
		return nil, domain.NewInvalidOperationError(
			"no equilibrium draft found for displacement %s", target.String())
	}
	uprightDraft := solved.MeanDraft
	gmt := solved.Result.GMt

	curve := &StabilityCurve{
		LoadcaseID: lc.ID,
		Method:     method,
		GMt:        gmt,
	}

	draft := uprightDraft
	for angle := minAngle; angle.LessThanOrEqual(maxAngle); angle = angle.Add(increment) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if method == MethodConstantDisplacement && angle.IsPositive() {
			// Warm-started from the previous angle's draft.
			draft, err = c.heeledEquilibriumDraft(draft, angle, target, tol, lc)
			if err != nil {
				return nil, err
			}
		}

		res, err := c.Compute(Condition{Draft: draft, Heel: angle}, lc)
		if err != nil {
			return nil, err
		}

		sin := sinDeg(angle)
		kn := quantize(res.TCB.Mul(cosDeg(angle)).Add(res.KB.Mul(sin)))
		gz := quantize(kn.Sub(lc.KG.Mul(sin)))
		point := StabilityCurvePoint{Heel: angle, GZ: gz, KN: kn}
		curve.Points = append(curve.Points, point)
		for _, observe := range observers {
			observe(point)
		}
	}

	// Locate the angle of maximum GZ by scanning the generated points.
	for _, p := range curve.Points {
		if p.GZ.GreaterThan(curve.MaxGZ) {
			curve.MaxGZ = p.GZ
			curve.AngleAtMaxGZ = p.Heel
		}
	}
	return curve, nil
}

// heeledEquilibriumDraft solves the draft at which the heeled displaced
// weight matches the target, by the same damped Newton iteration the trim
// solver uses.
func (c *Calculator) heeledEquilibriumDraft(start, heel, target, tol decimal.Decimal, lc *Loadcase) (decimal.Decimal, error) {
	draft := start
	for iter := 0; iter < 25; iter++ {
		cur, err := c.heeledDisplacement(draft, heel, lc)
		if err != nil {
			return decZero, err
		}
		residual := target.Sub(cur)
		if residual.Abs().LessThanOrEqual(tol) {
			return draft, nil
		}

		h := draft.Mul(derivStepRel)
		if h.LessThan(derivStepMin) {
			h = derivStepMin
		}
		perturbed, err := c.heeledDisplacement(draft.Add(h), heel, lc)
		if err != nil {
			return decZero, err
		}
		deriv := perturbed.Sub(cur).Div(h)
		if !deriv.IsPositive() {
			break
		}

		step := residual.Div(deriv)
		limit := draft.Mul(decHalf)
		if step.GreaterThan(limit) {
			step = limit
		} else if step.LessThan(limit.Neg()) {
			step = limit.Neg()
		}
		draft = draft.Add(step)
		if draft.LessThan(minSolvDraft) {
			draft = minSolvDraft
		}
	}
	// Best effort: the sweep continues with the closest draft found. The
	// point remains on the curve; criteria evaluation decides significance.
	return draft, nil
}

// heeledDisplacement evaluates the displaced weight at a draft and heel,
// reporting zero for drafts outside the integrable range.
func (c *Calculator) heeledDisplacement(draft, heel decimal.Decimal, lc *Loadcase) (decimal.Decimal, error) {
	if !draft.IsPositive() {
		return decZero, nil
	}
	res, err := c.Compute(Condition{Draft: draft, Heel: heel}, lc)
	if err != nil {
		var opErr *domain.InvalidOperationError
		if errors.As(err, &opErr) {
			return decZero, nil
		}
		return decZero, err
	}
	return res.DispWeight, nil
}
