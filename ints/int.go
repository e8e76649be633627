// Package ints implements Int, the fixed 32-bit signed integer type that
// backs every stack slot and memory cell in the interpreter.
package ints

import "github.com/jcorbin/goforth/ferrors"

// Int is a signed 32-bit integer. Additive and multiplicative
// operations saturate at the signed 32-bit extremes instead of
// wrapping; canonical booleans are -1 (true, all bits set) and 0
// (false).
type Int int32

const (
	// MaxInt is the largest representable Int.
	MaxInt = Int(1<<31 - 1)
	// MinInt is the smallest representable Int.
	MinInt = Int(-1 << 31)

	// True is the canonical truthy value: all bits set.
	True = Int(-1)
	// False is the canonical falsy value.
	False = Int(0)
)

// FromBool losslessly converts a bool to its canonical Int.
func FromBool(b bool) Int {
	if b {
		return True
	}
	return False
}

// FromIndex converts a memory index to an Int; overflow is the
// caller's problem.
func FromIndex(i uint) Int { return Int(i) }

// IsZero reports whether n is exactly zero.
func (n Int) IsZero() bool { return n == 0 }

// IsTrue reports Forth truthiness: any non-zero value is true.
func (n Int) IsTrue() bool { return n != 0 }

func clamp64(v int64) Int {
	if v > int64(MaxInt) {
		return MaxInt
	}
	if v < int64(MinInt) {
		return MinInt
	}
	return Int(v)
}

// Add returns n+m, saturating at the 32-bit extremes.
func (n Int) Add(m Int) Int { return clamp64(int64(n) + int64(m)) }

// Sub returns n-m, saturating at the 32-bit extremes.
func (n Int) Sub(m Int) Int { return clamp64(int64(n) - int64(m)) }

// Mul returns n*m, saturating at the 32-bit extremes.
func (n Int) Mul(m Int) Int { return clamp64(int64(n) * int64(m)) }

// Div returns n/m, saturating at the 32-bit extremes (only reachable
// for MinInt/-1). Fails DivisionByZero before any division happens.
func (n Int) Div(m Int) (Int, error) {
	if m == 0 {
		return 0, ferrors.DivisionByZero{}
	}
	return clamp64(int64(n) / int64(m)), nil
}

// Mod returns the truncating remainder of n/m, matching the sign of
// the dividend. Fails DivisionByZero before any division happens.
func (n Int) Mod(m Int) (Int, error) {
	if m == 0 {
		return 0, ferrors.DivisionByZero{}
	}
	return Int(int64(n) % int64(m)), nil
}

// DivMod returns (n/m, n%m) as a pair, computed from a single
// DivisionByZero check.
func (n Int) DivMod(m Int) (q, r Int, err error) {
	if m == 0 {
		return 0, 0, ferrors.DivisionByZero{}
	}
	q, _ = n.Div(m)
	r, _ = n.Mod(m)
	return q, r, nil
}

// MulDiv computes n*m/d as a 64-bit intermediate, then saturates:
// Forth's */.
func (n Int) MulDiv(m, d Int) (Int, error) {
	if d == 0 {
		return 0, ferrors.DivisionByZero{}
	}
	return clamp64(int64(n) * int64(m) / int64(d)), nil
}

// MulDivMod computes (n*m/d, n*m%d) as a pair, from a 64-bit
// intermediate product: Forth's */mod.
func (n Int) MulDivMod(m, d Int) (q, r Int, err error) {
	if d == 0 {
		return 0, 0, ferrors.DivisionByZero{}
	}
	prod := int64(n) * int64(m)
	q = clamp64(prod / int64(d))
	r = Int(prod % int64(d))
	return q, r, nil
}

// Neg returns -n, saturating (only reachable for MinInt).
func (n Int) Neg() Int { return clamp64(-int64(n)) }

// Abs returns the absolute value of n, saturating (only reachable for
// MinInt).
func (n Int) Abs() Int {
	if n < 0 {
		return n.Neg()
	}
	return n
}

// Invert returns the bitwise NOT of n, equivalent to n XOR -1.
func (n Int) Invert() Int { return ^n }

// And returns the bitwise AND of n and m.
func (n Int) And(m Int) Int { return n & m }

// Or returns the bitwise OR of n and m.
func (n Int) Or(m Int) Int { return n | m }

// Xor returns the bitwise XOR of n and m.
func (n Int) Xor(m Int) Int { return n ^ m }

// Shl1 arithmetically shifts n left by one bit: Forth's 2*.
func (n Int) Shl1() Int { return clamp64(int64(n) << 1) }

// Shr1 arithmetically shifts n right by one bit: Forth's 2/.
func (n Int) Shr1() Int { return n >> 1 }

// Eq, Lt, Gt report the natural signed comparisons.
func (n Int) Eq(m Int) bool { return n == m }
func (n Int) Lt(m Int) bool { return n < m }
func (n Int) Gt(m Int) bool { return n > m }
