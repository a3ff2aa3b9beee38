package hydro

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhee15/navarch-studio-sub003/internal/domain"
)

func TestGenerateCurves_DisplacementIsMonotonic(t *testing.T) {
	calc := NewCalculator(wigleyHull(t))
	lc := testLoadcase(3.125)

	curves, err := calc.GenerateCurves(context.Background(),
		[]CurveType{CurveDisplacement, CurveKB},
		decimal.NewFromInt(1), decimal.NewFromFloat(6.25), 12, lc)
	require.NoError(t, err)
	require.Len(t, curves, 2)

	disp := curves[0]
	assert.Equal(t, CurveDisplacement, disp.Type)
	require.Len(t, disp.Points, 12)
	for i := 1; i < len(disp.Points); i++ {
		assert.True(t, disp.Points[i].Y.GreaterThan(disp.Points[i-1].Y),
			"displacement not increasing at %s", disp.Points[i].X)
	}

	// KB rises with draft too, and both curves share the sample drafts.
	kb := curves[1]
	require.Len(t, kb.Points, 12)
	for i := range kb.Points {
		assert.True(t, kb.Points[i].X.Equal(disp.Points[i].X))
	}
}

func TestGenerateCurves_EndpointsExact(t *testing.T) {
	calc := NewCalculator(boxBarge(t))
	lc := testLoadcase(2.0)
	min := decimal.NewFromInt(2)
	max := decimal.NewFromInt(8)

	curves, err := calc.GenerateCurves(context.Background(),
		[]CurveType{CurveAwp}, min, max, 2, lc)
	require.NoError(t, err)

	pts := curves[0].Points
	require.Len(t, pts, 2)
	assert.True(t, pts[0].X.Equal(min))
	assert.True(t, pts[1].X.Equal(max))
}

func TestGenerateCurves_RejectsInvalidArguments(t *testing.T) {
	calc := NewCalculator(boxBarge(t))
	lc := testLoadcase(2.0)
	ctx := context.Background()
	one := decimal.NewFromInt(1)
	five := decimal.NewFromInt(5)
	types := []CurveType{CurveDisplacement}

	var argErr *domain.ArgumentError

	_, err := calc.GenerateCurves(ctx, types, one, five, 1, lc)
	require.ErrorAs(t, err, &argErr)

	_, err = calc.GenerateCurves(ctx, types, five, one, 10, lc)
	require.ErrorAs(t, err, &argErr)

	_, err = calc.GenerateCurves(ctx, types, decimal.Zero, five, 10, lc)
	require.ErrorAs(t, err, &argErr)

	_, err = calc.GenerateCurves(ctx, nil, one, five, 10, lc)
	require.ErrorAs(t, err, &argErr)

	_, err = calc.GenerateCurves(ctx, []CurveType{"sectional-modulus"}, one, five, 10, lc)
	require.ErrorAs(t, err, &argErr)
}

func TestGenerateCurves_HonorsCancellation(t *testing.T) {
	calc := NewCalculator(wigleyHull(t))
	lc := testLoadcase(3.125)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := calc.GenerateCurves(ctx, []CurveType{CurveDisplacement},
		decimal.NewFromInt(1), decimal.NewFromInt(6), 50, lc)
	require.ErrorIs(t, err, context.Canceled)
}

func TestBonjeanCurves_BoxBarge(t *testing.T) {
	calc := NewCalculator(boxBarge(t))

	curves, err := calc.BonjeanCurves(context.Background(),
		decimal.NewFromInt(1), decimal.NewFromInt(9), 9)
	require.NoError(t, err)
	require.Len(t, curves, 11)

	for _, bc := range curves {
		require.Len(t, bc.Points, 9)
		for _, p := range bc.Points {
			// Constant rectangular sections: area = B * draft.
			want := p.X.Mul(decimal.NewFromInt(10))
			requireDecInDelta(t, want, p.Y, 1e-6, "station %d draft %s", bc.StationIndex, p.X)
		}
	}
}

func TestBonjeanCurves_HonorsCancellation(t *testing.T) {
	calc := NewCalculator(boxBarge(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := calc.BonjeanCurves(ctx, decimal.NewFromInt(1), decimal.NewFromInt(9), 9)
	require.ErrorIs(t, err, context.Canceled)
}
