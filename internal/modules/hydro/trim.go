package hydro

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"

	"github.com/abhee15/navarch-studio-sub003/internal/domain"
)

// TrimSolveRequest describes an equilibrium problem: find the draft pair at
// which the computed displacement matches the target within tolerance.
type TrimSolveRequest struct {
	// Target displacement, in tonnes unless TargetIsVolume is set (then m3).
	Target         decimal.Decimal
	TargetIsVolume bool

	InitialFwd    decimal.Decimal
	InitialAft    decimal.Decimal
	MaxIterations int
	Tolerance     decimal.Decimal

	// TargetLCG, when set, additionally drives the trimming moment to zero
	// by rotating the waterplane until LCB aligns with this longitudinal
	// center of gravity.
	TargetLCG *decimal.Decimal
}

var (
	decHalf      = decimal.NewFromFloat(0.5)
	minSolvDraft = decimal.NewFromFloat(0.001)
	derivStepMin = decimal.NewFromFloat(0.01)
	derivStepRel = decimal.NewFromFloat(0.02)
)

// SolveTrim runs a damped Newton-Raphson iteration on the mean draft. The
// derivative of displacement with respect to draft has no closed form over
// the integration, so each step estimates it with a finite-difference
// perturbation (secant style). The per-iteration draft change is limited to
// half the current draft so an aggressive step cannot overshoot into a
// range where the geometry is undefined.
//
// Non-convergence is not an error: the result carries Converged=false, the
// iteration count and the best estimate, and the caller decides whether to
// retry with a looser tolerance or different initial drafts.
func (c *Calculator) SolveTrim(req TrimSolveRequest, lc *Loadcase) (*TrimSolverResult, error) {
	if !req.Target.IsPositive() {
		return nil, domain.NewArgumentError("target", "target displacement must be positive")
	}
	if !req.InitialFwd.IsPositive() || !req.InitialAft.IsPositive() {
		return nil, domain.NewArgumentError("initialDrafts", "initial drafts must be positive")
	}
	if req.MaxIterations <= 0 {
		return nil, domain.NewArgumentError("maxIterations", "must be positive")
	}
	if !req.Tolerance.IsPositive() {
		return nil, domain.NewArgumentError("tolerance", "must be positive")
	}
	if lc == nil || !lc.Rho.IsPositive() {
		return nil, domain.NewArgumentError("rho", "density must be positive")
	}

	trim := trimAngleFromDrafts(req.InitialFwd, req.InitialAft, c.geo.Length())
	state := solveState{
		draft: req.InitialFwd.Add(req.InitialAft).Div(decTwo),
		trim:  trim,
	}

	budget := req.MaxIterations
	used, converged, err := c.solveDisplacement(&state, req, lc, budget)
	if err != nil {
		return nil, err
	}

	// Optional moment balance: rotate the waterplane until LCB sits under
	// the requested LCG, re-solving displacement after each rotation.
	if converged && req.TargetLCG != nil {
		lcbTol := c.geo.Length().Mul(decimal.NewFromFloat(0.0005))
		for attempt := 0; attempt < 10 && used < budget; attempt++ {
			res, cErr := c.Compute(Condition{Draft: state.draft, Trim: state.trim}, lc)
			if cErr != nil {
				return nil, cErr
			}
			diff := req.TargetLCG.Sub(res.LCB)
			if diff.Abs().LessThanOrEqual(lcbTol) {
				break
			}
			if !res.GMl.IsPositive() {
				converged = false
				break
			}
			// Small-angle trim correction against the longitudinal metacenter.
			dF, _ := diff.Div(res.GMl).Float64()
			state.trim = state.trim.Add(decimal.NewFromFloat(math.Atan(dF) * 180 / math.Pi))

			var more int
			more, converged, err = c.solveDisplacement(&state, req, lc, budget-used)
			if err != nil {
				return nil, err
			}
			used += more
		}
	}

	final, err := c.Compute(Condition{Draft: state.draft, Trim: state.trim}, lc)
	if err != nil && !converged {
		// Even the best estimate does not integrate; report the diagnostic
		// trail without a result rather than failing the solve.
		final = nil
		err = nil
	}
	if err != nil {
		return nil, err
	}

	residual := state.residual
	fwd, aft := draftsFromAngle(state.draft, state.trim, c.geo)

	return &TrimSolverResult{
		DraftFwd:   quantize(fwd),
		DraftAft:   quantize(aft),
		MeanDraft:  quantize(state.draft),
		Converged:  converged,
		Iterations: used,
		Residual:   quantize(residual),
		Result:     final,
		Trace:      state.trace,
	}, nil
}

// solveState carries the solver's per-step estimates. Steps are recorded as
// immutable trace entries so the iteration can be inspected afterwards.
type solveState struct {
	draft    decimal.Decimal
	trim     decimal.Decimal
	residual decimal.Decimal
	trace    []SolverStep
}

// solveDisplacement drives the displacement residual below tolerance by
// Newton iteration on the mean draft, spending at most budget iterations.
// Returns the iterations used and whether it converged.
func (c *Calculator) solveDisplacement(state *solveState, req TrimSolveRequest, lc *Loadcase, budget int) (int, bool, error) {
	maxZ := c.geo.MaxZ()

	for iter := 1; iter <= budget; iter++ {
		computed, err := c.displacementAt(state.draft, state.trim, lc, req.TargetIsVolume)
		if err != nil {
			return iter, false, err
		}
		state.residual = req.Target.Sub(computed)
		if state.residual.Abs().LessThanOrEqual(req.Tolerance) {
			state.trace = append(state.trace, SolverStep{
				Iteration: iter, MeanDraft: state.draft,
				Residual: state.residual, Derivative: decZero,
			})
			return iter, true, nil
		}

		h := state.draft.Mul(derivStepRel)
		if h.LessThan(derivStepMin) {
			h = derivStepMin
		}
		perturbed, err := c.displacementAt(state.draft.Add(h), state.trim, lc, req.TargetIsVolume)
		if err != nil {
			return iter, false, err
		}
		deriv := perturbed.Sub(computed).Div(h)
		state.trace = append(state.trace, SolverStep{
			Iteration: iter, MeanDraft: state.draft,
			Residual: state.residual, Derivative: deriv,
		})
		if !deriv.IsPositive() {
			// Flat or inverted response; Newton cannot make progress.
			return iter, false, nil
		}

		step := state.residual.Div(deriv)
		// Damping: never move more than half the current draft per step.
		limit := state.draft.Mul(decHalf)
		if step.GreaterThan(limit) {
			step = limit
		} else if step.LessThan(limit.Neg()) {
			step = limit.Neg()
		}

		next := state.draft.Add(step)
		if next.LessThan(minSolvDraft) {
			next = minSolvDraft
		}
		// The geometry is wall-sided above its top waterline; far beyond
		// that the derivative estimate stops being informative.
		ceil := maxZ.Mul(decTwo)
		if next.GreaterThan(ceil) {
			next = ceil
		}
		state.draft = next
	}
	return budget, false, nil
}

// displacementAt evaluates the displacement at a draft/trim in the target's
// unit (volume or weight). Drafts that fall outside the integrable range
// report zero displacement so the solver can step back into range.
func (c *Calculator) displacementAt(draft, trim decimal.Decimal, lc *Loadcase, asVolume bool) (decimal.Decimal, error) {
	res, err := c.Compute(Condition{Draft: draft, Trim: trim}, lc)
	if err != nil {
		var opErr *domain.InvalidOperationError
		if errors.As(err, &opErr) {
			return decZero, nil
		}
		return decZero, err
	}
	if asVolume {
		return res.DispVolume, nil
	}
	return res.DispWeight, nil
}

// trimAngleFromDrafts converts a forward/aft draft pair into the trim angle
// in degrees, positive bow down.
func trimAngleFromDrafts(fwd, aft, length decimal.Decimal) decimal.Decimal {
	if !length.IsPositive() {
		return decZero
	}
	f, _ := fwd.Sub(aft).Div(length).Float64()
	return decimal.NewFromFloat(math.Atan(f) * 180 / math.Pi)
}

// draftsFromAngle reconstructs the forward and aft drafts from a mean draft
// and a trim angle.
func draftsFromAngle(mean, trimDeg decimal.Decimal, geo *HullGeometry) (fwd, aft decimal.Decimal) {
	tan := tanDeg(trimDeg)
	mid := geo.MidX()
	stations := geo.Stations()
	aft = mean.Add(stations[0].X.Sub(mid).Mul(tan))
	fwd = mean.Add(stations[len(stations)-1].X.Sub(mid).Mul(tan))
	return fwd, aft
}
