package hydro

import (
	"github.com/shopspring/decimal"

	"github.com/abhee15/navarch-studio-sub003/internal/domain"
)

// Calculator computes whole-hull hydrostatic properties for one floating
// condition by composing sectional integration along the hull length. It is
// a pure function of (geometry, loadcase, condition): no state is held
// between calls and identical inputs produce bit-identical results.
type Calculator struct {
	geo *HullGeometry
}

// NewCalculator creates a calculator bound to one immutable hull geometry.
func NewCalculator(geo *HullGeometry) *Calculator {
	return &Calculator{geo: geo}
}

// Geometry returns the hull geometry the calculator is bound to.
func (c *Calculator) Geometry() *HullGeometry { return c.geo }

// Compute returns the complete hydrostatic result at the given condition.
//
// Trim is folded in as a linear draft variation along the length about the
// longitudinal midpoint; heel tilts each station's local waterplane. The
// sectional areas are integrated longitudinally with the same composite
// Simpson policy the sections use vertically, and the waterline breadths
// are integrated separately for the waterplane properties.
func (c *Calculator) Compute(cond Condition, lc *Loadcase) (*HydroResult, error) {
	if !cond.Draft.IsPositive() {
		return nil, domain.NewArgumentError("draft", "must be positive")
	}
	if lc == nil || !lc.Rho.IsPositive() {
		return nil, domain.NewArgumentError("rho", "density must be positive")
	}

	stations := c.geo.stations
	n := len(stations)
	midX := c.geo.MidX()
	tanTrim := decZero
	if !cond.Trim.IsZero() {
		tanTrim = tanDeg(cond.Trim)
	}

	xs := make([]decimal.Decimal, n)
	areas := make([]decimal.Decimal, n)
	areaXMoms := make([]decimal.Decimal, n)
	keelMoms := make([]decimal.Decimal, n)
	transMoms := make([]decimal.Decimal, n)
	widths := make([]decimal.Decimal, n)
	widthXMoms := make([]decimal.Decimal, n)
	widthX2Moms := make([]decimal.Decimal, n)
	widthCubes := make([]decimal.Decimal, n)

	heeled := !cond.Heel.IsZero()

	for i, st := range stations {
		xs[i] = st.X
		localDraft := cond.Draft.Add(st.X.Sub(midX).Mul(tanTrim))

		var width decimal.Decimal
		if heeled {
			hs, err := c.geo.heeledSectionAt(i, localDraft, cond.Heel.Abs())
			if err != nil {
				return nil, err
			}
			areas[i] = hs.area
			keelMoms[i] = hs.keelMoment
			transMoms[i] = hs.transMom
			width = c.heeledWaterlineWidth(i, localDraft, cond.Heel.Abs())
		} else {
			sp, err := c.geo.SectionAt(i, localDraft, OutOfRangeClamp)
			if err != nil {
				return nil, err
			}
			areas[i] = sp.Area
			keelMoms[i] = sp.KeelMoment
			transMoms[i] = decZero
			width = sp.WaterlineHalfBreadth.Mul(decTwo)
		}

		areaXMoms[i] = areas[i].Mul(st.X)
		widths[i] = width
		widthXMoms[i] = width.Mul(st.X)
		widthX2Moms[i] = width.Mul(st.X).Mul(st.X)
		widthCubes[i] = width.Mul(width).Mul(width)
	}

	vol := integrateSamples(xs, areas)
	if !vol.IsPositive() {
		return nil, domain.NewInvalidOperationError(
			"draft %s is outside the defined waterline range at every station", cond.Draft.String())
	}

	lcb := integrateSamples(xs, areaXMoms).Div(vol)
	kb := integrateSamples(xs, keelMoms).Div(vol)
	tcb := decZero
	if heeled {
		tcb = integrateSamples(xs, transMoms).Div(vol)
		if cond.Heel.IsNegative() {
			tcb = tcb.Neg()
		}
	}

	awp := integrateSamples(xs, widths)
	lcf := decZero
	iwp := decZero
	it := decZero
	if awp.IsPositive() {
		lcf = integrateSamples(xs, widthXMoms).Div(awp)
		// Parallel axis shift to the centroid of the waterplane.
		iwp = integrateSamples(xs, widthX2Moms).Sub(awp.Mul(lcf).Mul(lcf))
		it = integrateSamples(xs, widthCubes).Div(decTwlv)
	}

	bmt := it.Div(vol)
	bml := iwp.Div(vol)
	gmt := kb.Add(bmt).Sub(lc.KG)
	gml := kb.Add(bml).Sub(lc.KG)

	length := c.geo.Length()
	beam := maxOf(widths)
	maxArea := maxOf(areas)

	cb, cp, cm, cwp := formCoefficients(vol, awp, maxArea, length, beam, cond.Draft)

	res := &HydroResult{
		Draft:      cond.Draft,
		Trim:       cond.Trim,
		Heel:       cond.Heel,
		DispVolume: quantize(vol),
		DispWeight: quantize(vol.Mul(lc.Rho)),
		KB:         quantize(kb),
		LCB:        quantize(lcb),
		TCB:        quantize(tcb),
		Awp:        quantize(awp),
		LCF:        quantize(lcf),
		Iwp:        quantize(iwp),
		It:         quantize(it),
		BMt:        quantize(bmt),
		BMl:        quantize(bml),
		GMt:        quantize(gmt),
		GMl:        quantize(gml),
		Cb:         cb,
		Cp:         cp,
		Cm:         cm,
		Cwp:        cwp,
	}
	return res, nil
}

// heeledWaterlineWidth estimates the inclined waterplane width at a station:
// the tilted waterline meets the immersed side above the upright waterline
// and the emerged side below it. One fixed-point pass through the offset
// profile locates both intersection heights.
func (c *Calculator) heeledWaterlineWidth(stationIdx int, t, heelDeg decimal.Decimal) decimal.Decimal {
	tan := tanDeg(heelDeg)
	cos := cosDeg(heelDeg)
	if !cos.IsPositive() {
		return decZero
	}

	ySeed, _ := c.geo.HalfBreadthAt(stationIdx, t, OutOfRangeClamp)

	zHi := t.Add(ySeed.Mul(tan))
	if zHi.GreaterThan(c.geo.MaxZ()) {
		zHi = c.geo.MaxZ()
	}
	yHi, _ := c.geo.HalfBreadthAt(stationIdx, zHi, OutOfRangeClamp)

	zLo := t.Sub(ySeed.Mul(tan))
	if zLo.IsNegative() {
		zLo = decZero
	}
	yLo, _ := c.geo.HalfBreadthAt(stationIdx, zLo, OutOfRangeClamp)

	return yHi.Add(yLo).Div(cos)
}

// formCoefficients derives the block, prismatic, midship and waterplane
// coefficients from volume and area ratios, guarding degenerate divisors.
func formCoefficients(vol, awp, maxArea, length, beam, draft decimal.Decimal) (cb, cp, cm, cwp decimal.Decimal) {
	cb, cp, cm, cwp = decZero, decZero, decZero, decZero
	if !length.IsPositive() || !draft.IsPositive() {
		return
	}
	if beam.IsPositive() {
		cb = quantize(vol.Div(length.Mul(beam).Mul(draft)))
		cwp = quantize(awp.Div(length.Mul(beam)))
		if maxArea.IsPositive() {
			cm = quantize(maxArea.Div(beam.Mul(draft)))
		}
	}
	if maxArea.IsPositive() {
		cp = quantize(vol.Div(maxArea.Mul(length)))
	}
	return
}

// maxOf returns the largest value in a non-empty slice, or zero when empty.
func maxOf(vals []decimal.Decimal) decimal.Decimal {
	max := decZero
	for _, v := range vals {
		if v.GreaterThan(max) {
			max = v
		}
	}
	return max
}
