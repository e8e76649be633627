package ints_test

import (
	"testing"

	"github.com/jcorbin/goforth/ferrors"
	"github.com/jcorbin/goforth/ints"
	"github.com/stretchr/testify/require"
)

func TestSaturatingArithmetic(t *testing.T) {
	require.Equal(t, ints.MaxInt, ints.MaxInt.Add(1), "add must saturate at MaxInt")
	require.Equal(t, ints.MinInt, ints.MinInt.Sub(1), "sub must saturate at MinInt")
	require.Equal(t, ints.MaxInt, ints.MaxInt.Mul(2), "mul must saturate at MaxInt")
	require.Equal(t, ints.MaxInt, ints.MinInt.Neg(), "negating MinInt must saturate to MaxInt")
	require.Equal(t, ints.MaxInt, ints.MinInt.Abs(), "abs of MinInt must saturate to MaxInt")
}

func TestDivisionByZero(t *testing.T) {
	_, err := ints.Int(1).Div(0)
	require.ErrorIs(t, err, ferrors.DivisionByZero{})

	_, err = ints.Int(1).Mod(0)
	require.ErrorIs(t, err, ferrors.DivisionByZero{})

	_, _, err = ints.Int(1).DivMod(0)
	require.ErrorIs(t, err, ferrors.DivisionByZero{})

	_, err = ints.Int(1).MulDiv(1, 0)
	require.ErrorIs(t, err, ferrors.DivisionByZero{})
}

func TestModMatchesDividendSign(t *testing.T) {
	r, err := ints.Int(-7).Mod(2)
	require.NoError(t, err)
	require.Equal(t, ints.Int(-1), r)
}

func TestDivModReconstructsDividend(t *testing.T) {
	for _, tc := range []struct{ n, d ints.Int }{
		{17, 5}, {-17, 5}, {17, -5}, {-17, -5}, {0, 3},
	} {
		q, r, err := tc.n.DivMod(tc.d)
		require.NoError(t, err)
		require.Equal(t, tc.n, q.Mul(tc.d).Add(r), "n d /mod swap d * + must reconstruct n")
	}
}

func TestMulDivDoublePrecision(t *testing.T) {
	// 912345678 34 100 */ => 310197530, requires a 64-bit intermediate.
	got, err := ints.Int(912345678).MulDiv(34, 100)
	require.NoError(t, err)
	require.Equal(t, ints.Int(310197530), got)
}

func TestTruthinessAndInvert(t *testing.T) {
	require.True(t, ints.True.IsTrue())
	require.False(t, ints.False.IsTrue())
	require.Equal(t, ints.False, ints.FromBool(false))
	require.Equal(t, ints.True, ints.FromBool(true))
	require.Equal(t, ints.False, ints.True.Invert())
	require.Equal(t, ints.True, ints.False.Invert())
}

func TestDoubleNegate(t *testing.T) {
	for _, n := range []ints.Int{0, 1, -1, 42, ints.MaxInt} {
		require.Equal(t, n, n.Neg().Neg())
	}
}
