// Package fixedpoint implements the engine's 18-decimal unsigned
// fixed-point numeric type and its consensus-critical EMA-exp helper.
//
// FixedDecimal wraps cosmossdk.io/math.LegacyDec, the 18-decimal
// big.Int-backed decimal type used throughout the cosmos-sdk chains in
// the retrieved pack for exactly this purpose (fee rates, curve
// ratios). LegacyDec itself never overflows — its big.Int grows
// without bound — so the "checked arithmetic" contract the engine
// needs is enforced here explicitly via maxMagnitude, not inherited
// from the library.
package fixedpoint

import (
	"math/big"

	"cosmossdk.io/math"

	"github.com/ledgerforge/bondex/errs"
)

// FixedDecimal is an unsigned 18-decimal fixed-point number.
type FixedDecimal struct {
	d math.LegacyDec
}

// maxMagnitude bounds the integer part of any FixedDecimal the engine
// will accept; anything beyond this is treated as overflow. 2^128 is
// comfortably above any quantity this domain's 128-bit-scale amounts,
// prices, or supplies can produce even after a price*amount multiply.
var maxMagnitude = new(big.Int).Lsh(big.NewInt(1), 128)

// Zero is the additive identity.
func Zero() FixedDecimal { return FixedDecimal{d: math.LegacyZeroDec()} }

// One is the multiplicative identity.
func One() FixedDecimal { return FixedDecimal{d: math.LegacyOneDec()} }

// FromInt64 builds a FixedDecimal from an integer.
func FromInt64(v int64) FixedDecimal { return FixedDecimal{d: math.LegacyNewDec(v)} }

// FromRatio builds a FixedDecimal representing a/b.
func FromRatio(a, b int64) (FixedDecimal, error) {
	if b == 0 {
		return FixedDecimal{}, errs.ErrArithmetic.Wrap("division by zero")
	}
	num := math.LegacyNewDec(a)
	den := math.LegacyNewDec(b)
	return FixedDecimal{d: num.Quo(den)}, nil
}

// FromBigInt builds a FixedDecimal whose integer part equals v.
func FromBigInt(v *big.Int) FixedDecimal {
	return FixedDecimal{d: math.LegacyNewDecFromBigInt(v)}
}

// FromInt builds a FixedDecimal whose integer part equals v.
func FromInt(v math.Int) FixedDecimal {
	return FixedDecimal{d: math.LegacyNewDecFromInt(v)}
}

// CeilFeeOnInt computes ceil(amount * rate) as an integer quantity,
// the engine's exclusive fee-rounding rule: fees always round up so
// the engine never under-collects.
func CeilFeeOnInt(amount math.Int, rate FixedDecimal) math.Int {
	return FromInt(amount).d.Mul(rate.d).Ceil().TruncateInt()
}

func (f FixedDecimal) checked() (FixedDecimal, error) {
	if f.d.IsNegative() {
		return FixedDecimal{}, errs.ErrArithmetic.Wrap("underflow: negative result")
	}
	if f.d.BigInt().CmpAbs(new(big.Int).Mul(maxMagnitude, pow10(18))) > 0 {
		return FixedDecimal{}, errs.ErrArithmetic.Wrap("overflow: magnitude too large")
	}
	return f, nil
}

func pow10(n int64) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(n), nil)
}

// Add returns f+g, failing on overflow.
func (f FixedDecimal) Add(g FixedDecimal) (FixedDecimal, error) {
	return FixedDecimal{d: f.d.Add(g.d)}.checked()
}

// Sub returns f-g, failing on underflow (negative result).
func (f FixedDecimal) Sub(g FixedDecimal) (FixedDecimal, error) {
	return FixedDecimal{d: f.d.Sub(g.d)}.checked()
}

// Mul computes the exact product then truncates to 18 decimals.
func (f FixedDecimal) Mul(g FixedDecimal) (FixedDecimal, error) {
	return FixedDecimal{d: f.d.MulTruncate(g.d)}.checked()
}

// Quo performs a checked division, truncating to 18 decimals.
func (f FixedDecimal) Quo(g FixedDecimal) (FixedDecimal, error) {
	if g.d.IsZero() {
		return FixedDecimal{}, errs.ErrArithmetic.Wrap("division by zero")
	}
	return FixedDecimal{d: f.d.QuoTruncate(g.d)}.checked()
}

// Cmp compares f to g: -1, 0, or 1.
func (f FixedDecimal) Cmp(g FixedDecimal) int {
	switch {
	case f.d.LT(g.d):
		return -1
	case f.d.GT(g.d):
		return 1
	default:
		return 0
	}
}

// LT, LTE, GT, GTE, IsZero are thin readability wrappers over Cmp.
func (f FixedDecimal) LT(g FixedDecimal) bool  { return f.Cmp(g) < 0 }
func (f FixedDecimal) LTE(g FixedDecimal) bool { return f.Cmp(g) <= 0 }
func (f FixedDecimal) GT(g FixedDecimal) bool  { return f.Cmp(g) > 0 }
func (f FixedDecimal) GTE(g FixedDecimal) bool { return f.Cmp(g) >= 0 }
func (f FixedDecimal) IsZero() bool            { return f.d.IsZero() }

// Ceil rounds up to the nearest integer FixedDecimal. Fee amounts use
// this exclusively per the engine's rounding contract.
func (f FixedDecimal) Ceil() FixedDecimal { return FixedDecimal{d: f.d.Ceil()} }

// Floor rounds down to the nearest integer FixedDecimal. Price-to-token
// conversions use this, except the final curve price-unit scaling,
// which always rounds up instead (see package curve).
func (f FixedDecimal) Floor() FixedDecimal {
	return FixedDecimal{d: math.LegacyNewDecFromBigInt(f.d.TruncateInt().BigInt())}
}

// CeilInt returns the ceiling of f as an integer quantity.
func (f FixedDecimal) CeilInt() math.Int { return f.d.Ceil().TruncateInt() }

// FloorInt returns the floor of f as an integer quantity.
func (f FixedDecimal) FloorInt() math.Int { return f.d.TruncateInt() }

// String renders the decimal for logs and error messages.
func (f FixedDecimal) String() string { return f.d.String() }
