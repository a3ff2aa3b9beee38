package hydro

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/abhee15/navarch-studio-sub003/internal/domain"
)

// GenerateCurves samples the requested hydrostatic curves at points evenly
// spaced drafts between minDraft and maxDraft inclusive. The hull is
// integrated once per draft and every requested curve is assembled from the
// same pass.
//
// The sweep checks ctx between drafts and aborts with the context's error
// rather than returning a silently truncated curve.
func (c *Calculator) GenerateCurves(ctx context.Context, types []CurveType, minDraft, maxDraft decimal.Decimal, points int, lc *Loadcase) ([]Curve, error) {
	if points < 2 {
		return nil, domain.NewArgumentError("points", "need at least 2 sample points")
	}
	if minDraft.GreaterThanOrEqual(maxDraft) {
		return nil, domain.NewArgumentError("draftRange", "minDraft must be less than maxDraft")
	}
	if !minDraft.IsPositive() {
		return nil, domain.NewArgumentError("minDraft", "must be positive")
	}
	if len(types) == 0 {
		return nil, domain.NewArgumentError("types", "no curve types requested")
	}
	for _, ct := range types {
		switch ct {
		case CurveDisplacement, CurveKB, CurveLCB, CurveAwp, CurveGMt:
		default:
			return nil, domain.NewArgumentError("types", "unknown curve type "+string(ct))
		}
	}

	drafts := linspace(minDraft, maxDraft, points)
	curves := make([]Curve, len(types))
	for i, ct := range types {
		curves[i] = Curve{Type: ct, Points: make([]CurvePoint, 0, points)}
	}

	for _, draft := range drafts {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		res, err := c.Compute(Condition{Draft: draft}, lc)
		if err != nil {
			return nil, err
		}
		for i, ct := range types {
			curves[i].Points = append(curves[i].Points, CurvePoint{X: draft, Y: curveValue(res, ct)})
		}
	}
	return curves, nil
}

// curveValue picks the dependent variable of a curve type out of a result.
func curveValue(res *HydroResult, ct CurveType) decimal.Decimal {
	switch ct {
	case CurveDisplacement:
		return res.DispWeight
	case CurveKB:
		return res.KB
	case CurveLCB:
		return res.LCB
	case CurveAwp:
		return res.Awp
	case CurveGMt:
		return res.GMt
	}
	return decZero
}

// BonjeanCurves returns the sectional area as a function of draft for every
// station: one curve per station, sampled at points drafts between minDraft
// and maxDraft inclusive.
func (c *Calculator) BonjeanCurves(ctx context.Context, minDraft, maxDraft decimal.Decimal, points int) ([]BonjeanCurve, error) {
	if points < 2 {
		return nil, domain.NewArgumentError("points", "need at least 2 sample points")
	}
	if minDraft.GreaterThanOrEqual(maxDraft) {
		return nil, domain.NewArgumentError("draftRange", "minDraft must be less than maxDraft")
	}
	if !minDraft.IsPositive() {
		return nil, domain.NewArgumentError("minDraft", "must be positive")
	}

	stations := c.geo.Stations()
	curves := make([]BonjeanCurve, len(stations))
	for i, st := range stations {
		curves[i] = BonjeanCurve{
			StationIndex: st.Index,
			X:            st.X,
			Points:       make([]CurvePoint, 0, points),
		}
	}

	for _, draft := range linspace(minDraft, maxDraft, points) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		for i := range stations {
			sp, err := c.geo.SectionAt(i, draft, OutOfRangeClamp)
			if err != nil {
				return nil, err
			}
			curves[i].Points = append(curves[i].Points, CurvePoint{X: draft, Y: sp.Area})
		}
	}
	return curves, nil
}
