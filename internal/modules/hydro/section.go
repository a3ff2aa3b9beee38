package hydro

import (
	"github.com/shopspring/decimal"

	"github.com/abhee15/navarch-studio-sub003/internal/domain"
)

// SectionProperties are the integrated properties of one submerged cross
// section at a local draft: full-section area (both sides of the symmetric
// hull), first moment of area about the keel, and the half-breadth exactly
// at the waterline.
type SectionProperties struct {
	Area                 decimal.Decimal `json:"area"`
	KeelMoment           decimal.Decimal `json:"keel_moment"`
	WaterlineHalfBreadth decimal.Decimal `json:"waterline_half_breadth"`
}

// heeledSection carries the integrated properties of a cross section under
// heel: area, first moment about the keel (vertical) and the transverse
// first moment about centerline. Positive heel immerses the positive-y side.
type heeledSection struct {
	area       decimal.Decimal
	keelMoment decimal.Decimal
	transMom   decimal.Decimal
}

// subStrips is the fixed per-segment subdivision used by the heeled strip
// integration. Fixed so repeated calls are bit-identical.
const subStrips = 8

// SectionAt integrates station stationIdx up to the local draft t.
//
// Offsets are integrated with composite Simpson's rule over consecutive
// waterline-interval pairs. Each pair is handled as a single quadratic
// interpolant integrated in closed form, so when t lands inside a pair the
// partial contribution comes from the same polynomial that would cover the
// full pair; the cumulative area is therefore continuous in t across
// waterline crossings. An unpaired final interval, and the degenerate case
// of a single usable interval, fall back to the linear (trapezoidal)
// interpolant.
func (g *HullGeometry) SectionAt(stationIdx int, t decimal.Decimal, mode OutOfRangeMode) (SectionProperties, error) {
	if stationIdx < 0 || stationIdx >= len(g.stations) {
		return SectionProperties{}, domain.NewArgumentError("station", "index out of range")
	}
	if !t.IsPositive() {
		return SectionProperties{Area: decZero, KeelMoment: decZero, WaterlineHalfBreadth: decZero}, nil
	}

	pts := g.profiles[stationIdx]
	topZ := pts[len(pts)-1].z
	if t.GreaterThan(topZ) && mode == OutOfRangeError {
		return SectionProperties{}, domain.NewInvalidOperationError(
			"draft %s exceeds the highest defined waterline %s at station %d",
			t.String(), topZ.String(), g.stations[stationIdx].Index)
	}

	tcap := t
	if tcap.GreaterThan(topZ) {
		tcap = topZ
	}

	halfArea := decZero
	halfMoment := decZero

	i := 0
	for i+2 < len(pts) && pts[i+2].z.LessThanOrEqual(tcap) {
		a, m := quadSegmentIntegrals(
			pts[i].z, pts[i+1].z, pts[i+2].z,
			pts[i].y, pts[i+1].y, pts[i+2].y,
			pts[i+2].z,
		)
		halfArea = halfArea.Add(a)
		halfMoment = halfMoment.Add(m)
		i += 2
	}

	switch {
	case i+2 < len(pts) && tcap.GreaterThan(pts[i].z):
		// Draft lands inside an incomplete pair: integrate its quadratic up
		// to the draft.
		a, m := quadSegmentIntegrals(
			pts[i].z, pts[i+1].z, pts[i+2].z,
			pts[i].y, pts[i+1].y, pts[i+2].y,
			tcap,
		)
		halfArea = halfArea.Add(a)
		halfMoment = halfMoment.Add(m)
	case i+1 < len(pts) && tcap.GreaterThan(pts[i].z):
		// Unpaired final interval: trapezoidal.
		upTo := tcap
		if upTo.GreaterThan(pts[i+1].z) {
			upTo = pts[i+1].z
		}
		a, m := linSegmentIntegrals(pts[i].z, pts[i+1].z, pts[i].y, pts[i+1].y, upTo)
		halfArea = halfArea.Add(a)
		halfMoment = halfMoment.Add(m)
	}

	// Wall-sided strip above the highest defined waterline (clamp mode).
	if t.GreaterThan(topZ) {
		yTop := pts[len(pts)-1].y
		dz := t.Sub(topZ)
		halfArea = halfArea.Add(yTop.Mul(dz))
		halfMoment = halfMoment.Add(yTop.Mul(t.Mul(t).Sub(topZ.Mul(topZ))).Div(decTwo))
	}

	yWL, err := g.HalfBreadthAt(stationIdx, t, mode)
	if err != nil {
		return SectionProperties{}, err
	}

	return SectionProperties{
		Area:                 quantize(halfArea.Mul(decTwo)),
		KeelMoment:           quantize(halfMoment.Mul(decTwo)),
		WaterlineHalfBreadth: yWL,
	}, nil
}

// heeledSectionAt integrates station stationIdx with the waterplane tilted
// by heelDeg (> 0) about the centerline at height t. The section is cut into
// horizontal strips; at height z the submerged transverse range is
// [max(-y(z), (z-t)/tan(heel)), y(z)], which captures both the emerging
// windward side and the immersing leeward side. Strips stop at the highest
// defined waterline, which acts as the deck edge.
//
// Strip widths come from the linearly interpolated offset profile sampled at
// a fixed subdivision per waterline interval and integrated trapezoidally.
func (g *HullGeometry) heeledSectionAt(stationIdx int, t, heelDeg decimal.Decimal) (heeledSection, error) {
	if stationIdx < 0 || stationIdx >= len(g.stations) {
		return heeledSection{}, domain.NewArgumentError("station", "index out of range")
	}
	if heelDeg.IsZero() {
		sp, err := g.SectionAt(stationIdx, t, OutOfRangeClamp)
		if err != nil {
			return heeledSection{}, err
		}
		return heeledSection{area: sp.Area, keelMoment: sp.KeelMoment, transMom: decZero}, nil
	}

	tan := tanDeg(heelDeg)
	pts := g.profiles[stationIdx]
	nsub := decimal.NewFromInt(subStrips)

	area := decZero
	keelMom := decZero
	transMom := decZero

	for seg := 0; seg+1 < len(pts); seg++ {
		z0, z1 := pts[seg].z, pts[seg+1].z
		y0, y1 := pts[seg].y, pts[seg+1].y
		dz := z1.Sub(z0).Div(nsub)
		if !dz.IsPositive() {
			continue
		}
		slope := y1.Sub(y0).Div(z1.Sub(z0))

		prevW, prevZW, prevTM := heeledStrip(z0, y0, t, tan)
		for k := 1; k <= subStrips; k++ {
			z := z0.Add(dz.Mul(decimal.NewFromInt(int64(k))))
			if k == subStrips {
				z = z1 // pin the segment end exactly
			}
			y := y0.Add(slope.Mul(z.Sub(z0)))
			w, zw, tm := heeledStrip(z, y, t, tan)

			h := z.Sub(z0.Add(dz.Mul(decimal.NewFromInt(int64(k - 1)))))
			area = area.Add(h.Mul(prevW.Add(w)).Div(decTwo))
			keelMom = keelMom.Add(h.Mul(prevZW.Add(zw)).Div(decTwo))
			transMom = transMom.Add(h.Mul(prevTM.Add(tm)).Div(decTwo))
			prevW, prevZW, prevTM = w, zw, tm
		}
	}

	return heeledSection{
		area:       quantize(area),
		keelMoment: quantize(keelMom),
		transMom:   quantize(transMom),
	}, nil
}

// heeledStrip evaluates the submerged width, z-weighted width and transverse
// first moment of the horizontal strip at height z for a tilted waterplane.
func heeledStrip(z, y, t, tan decimal.Decimal) (w, zw, tm decimal.Decimal) {
	etaWL := z.Sub(t).Div(tan)
	lo := y.Neg()
	if etaWL.GreaterThan(lo) {
		lo = etaWL
	}
	if lo.GreaterThanOrEqual(y) {
		return decZero, decZero, decZero
	}
	w = y.Sub(lo)
	zw = z.Mul(w)
	tm = y.Mul(y).Sub(lo.Mul(lo)).Div(decTwo)
	return w, zw, tm
}
