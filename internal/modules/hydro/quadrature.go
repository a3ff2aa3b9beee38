package hydro

import (
	"math"

	"github.com/shopspring/decimal"
)

// DecimalScale is the number of fractional digits carried by every quantity
// the engine returns. Intermediate arithmetic runs at the library's full
// division precision; results are quantized at operation boundaries so the
// numbers stay reproducible and auditable against hand calculations.
const DecimalScale int32 = 6

var (
	decZero  = decimal.Zero
	decTwo   = decimal.NewFromInt(2)
	decThree = decimal.NewFromInt(3)
	decFour  = decimal.NewFromInt(4)
	decSix   = decimal.NewFromInt(6)
	decTwlv  = decimal.NewFromInt(12)
)

// quantize rounds a value to the engine's fixed scale.
func quantize(d decimal.Decimal) decimal.Decimal {
	return d.Round(DecimalScale)
}

// radians converts an angle in degrees to float64 radians.
func radians(deg decimal.Decimal) float64 {
	f, _ := deg.Float64()
	return f * math.Pi / 180
}

// sinDeg returns sin of an angle given in degrees. Trigonometry is the one
// place the engine leaves decimal arithmetic: the result is converted back
// and quantized immediately.
func sinDeg(deg decimal.Decimal) decimal.Decimal {
	return quantize(decimal.NewFromFloat(math.Sin(radians(deg))))
}

// cosDeg returns cos of an angle given in degrees.
func cosDeg(deg decimal.Decimal) decimal.Decimal {
	return quantize(decimal.NewFromFloat(math.Cos(radians(deg))))
}

// tanDeg returns tan of an angle given in degrees.
func tanDeg(deg decimal.Decimal) decimal.Decimal {
	return quantize(decimal.NewFromFloat(math.Tan(radians(deg))))
}

// integrateSamples integrates y over x using composite Simpson's rule on
// consecutive interval pairs, with a trapezoidal fallback for the unpaired
// final interval when the interval count is odd. Interval widths need not be
// uniform: each pair is integrated with the quadratic that passes through
// its three sample points, which reduces to the classic Simpson weights for
// equal spacing.
//
// The slices must have equal length and x must be strictly increasing.
// Fewer than two samples integrate to zero.
func integrateSamples(xs, ys []decimal.Decimal) decimal.Decimal {
	if len(xs) < 2 || len(xs) != len(ys) {
		return decZero
	}

	total := decZero
	i := 0
	for ; i+2 < len(xs); i += 2 {
		total = total.Add(simpsonPair(
			xs[i], xs[i+1], xs[i+2],
			ys[i], ys[i+1], ys[i+2],
		))
	}
	if i+1 < len(xs) {
		// Odd interval count: close with a trapezoid.
		h := xs[i+1].Sub(xs[i])
		total = total.Add(h.Mul(ys[i].Add(ys[i+1])).Div(decTwo))
	}
	return total
}

// simpsonPair integrates the quadratic through (x0,f0), (x1,f1), (x2,f2)
// over [x0, x2]. For h0 == h1 this is (h/3)(f0 + 4 f1 + f2).
func simpsonPair(x0, x1, x2, f0, f1, f2 decimal.Decimal) decimal.Decimal {
	h0 := x1.Sub(x0)
	h1 := x2.Sub(x1)
	sum := h0.Add(h1)

	w0 := decTwo.Sub(h1.Div(h0))
	w1 := sum.Mul(sum).Div(h0.Mul(h1))
	w2 := decTwo.Sub(h0.Div(h1))

	inner := w0.Mul(f0).Add(w1.Mul(f1)).Add(w2.Mul(f2))
	return sum.Div(decSix).Mul(inner)
}

// quadCoeffs returns the Newton-form coefficients of the quadratic through
// three points: f(z) = f0 + c1 (z-z0) + c2 (z-z0)(z-z1).
func quadCoeffs(z0, z1, z2, f0, f1, f2 decimal.Decimal) (c1, c2 decimal.Decimal) {
	d0 := f1.Sub(f0).Div(z1.Sub(z0))
	d1 := f2.Sub(f1).Div(z2.Sub(z1))
	c1 = d0
	c2 = d1.Sub(d0).Div(z2.Sub(z0))
	return c1, c2
}

// quadSegmentIntegrals integrates the quadratic through (z0..z2, f0..f2)
// from z0 up to t (z0 <= t <= z2), returning both the plain integral and
// the z-weighted integral (first moment about z = 0). Integrating a single
// fixed interpolant for the whole pair is what keeps the cumulative
// integral continuous in t, including at the waterline crossings.
func quadSegmentIntegrals(z0, z1, z2, f0, f1, f2, t decimal.Decimal) (area, moment decimal.Decimal) {
	c1, c2 := quadCoeffs(z0, z1, z2, f0, f1, f2)
	u := t.Sub(z0)
	h1 := z1.Sub(z0)

	u2 := u.Mul(u)
	u3 := u2.Mul(u)
	u4 := u3.Mul(u)

	// Integral of f0 + c1 s + c2 s(s-h1) over s in [0, u].
	area = f0.Mul(u).
		Add(c1.Mul(u2).Div(decTwo)).
		Add(c2.Mul(u3.Div(decThree).Sub(h1.Mul(u2).Div(decTwo))))

	// Integral of s * f(s): s f0 + c1 s^2 + c2 s^2(s-h1).
	sInt := f0.Mul(u2).Div(decTwo).
		Add(c1.Mul(u3).Div(decThree)).
		Add(c2.Mul(u4.Div(decFour).Sub(h1.Mul(u3).Div(decThree))))
	moment = z0.Mul(area).Add(sInt)
	return area, moment
}

// linSegmentIntegrals integrates the linear interpolant between (z0,f0) and
// (z1,f1) from z0 up to t (z0 <= t <= z1), returning the plain and
// z-weighted integrals.
func linSegmentIntegrals(z0, z1, f0, f1, t decimal.Decimal) (area, moment decimal.Decimal) {
	m := f1.Sub(f0).Div(z1.Sub(z0))
	u := t.Sub(z0)
	u2 := u.Mul(u)
	u3 := u2.Mul(u)

	area = f0.Mul(u).Add(m.Mul(u2).Div(decTwo))
	sInt := f0.Mul(u2).Div(decTwo).Add(m.Mul(u3).Div(decThree))
	moment = z0.Mul(area).Add(sInt)
	return area, moment
}

// linspace returns n evenly spaced values from lo to hi inclusive.
// The final value is pinned to hi exactly so rounding in the step size
// never shifts the endpoint.
func linspace(lo, hi decimal.Decimal, n int) []decimal.Decimal {
	out := make([]decimal.Decimal, n)
	step := hi.Sub(lo).Div(decimal.NewFromInt(int64(n - 1)))
	for i := 0; i < n; i++ {
		out[i] = lo.Add(step.Mul(decimal.NewFromInt(int64(i))))
	}
	out[n-1] = hi
	return out
}
