// Package decimal implements the 128-bit decimal value carried by the
// Decimal wire type: a 96-bit unsigned magnitude, a sign bit and a base-10
// scale between 0 and 28.
//
// Arithmetic is performed in arbitrary precision and the result is rounded
// half-to-even to 29 significant digits. Results that do not fit saturate
// to MaxValue or MinValue; results smaller in magnitude than 1e-28 become
// Zero.
package decimal

import (
	"math/big"

	"github.com/cockroachdb/errors"
	"gopkg.in/inf.v0"

	"github.com/dadrian/tagwire/internal"
)

const (
	// MaxScale is the largest number of fractional digits.
	MaxScale = 28
	// Precision is the number of significant digits kept by arithmetic.
	Precision = 29

	signMask  = 0x80000000
	scaleMask = 0x00FF0000
	scaleBits = 16
)

// Decimal is an immutable value. The zero value is 0. Field order follows
// the wire layout.
type Decimal struct {
	flags uint32
	hi    uint32
	lo    uint32
	mid   uint32
}

var (
	Zero     = Decimal{}
	One      = Decimal{lo: 1}
	MaxValue = Decimal{hi: 0xFFFFFFFF, mid: 0xFFFFFFFF, lo: 0xFFFFFFFF}
	MinValue = Decimal{flags: signMask, hi: 0xFFFFFFFF, mid: 0xFFFFFFFF, lo: 0xFFFFFFFF}
	// NearZeroAbove is the smallest positive value, 1e-28.
	NearZeroAbove = Decimal{flags: MaxScale << scaleBits, lo: 1}
	// NearZeroBelow is the largest negative value, -1e-28.
	NearZeroBelow = Decimal{flags: signMask | MaxScale<<scaleBits, lo: 1}
)

var ErrDivideByZero = errors.New("decimal: division by zero")

var (
	limit96  = new(big.Int).Lsh(big.NewInt(1), 96)
	nearZero = inf.NewDec(1, MaxScale)
	bigTen   = big.NewInt(10)
	wordMask = big.NewInt(0xFFFFFFFF)
	quoScale = inf.Scale(96)
)

// FromParts builds a value from its four wire words. Reserved flag bits
// must be clear and the scale at most 28.
func FromParts(flags, hi, lo, mid uint32) (Decimal, error) {
	if flags&^(signMask|scaleMask) != 0 {
		return Zero, internal.Errorf(internal.ErrInvalidValue, 0, "decimal flags %#08x: reserved bits set", flags)
	}
	if (flags&scaleMask)>>scaleBits > MaxScale {
		return Zero, internal.Errorf(internal.ErrInvalidValue, 0, "decimal scale %d > %d", (flags&scaleMask)>>scaleBits, MaxScale)
	}
	return Decimal{flags: flags, hi: hi, lo: lo, mid: mid}, nil
}

// Parts returns the four wire words.
func (d Decimal) Parts() (flags, hi, lo, mid uint32) { return d.flags, d.hi, d.lo, d.mid }

func FromInt64(v int64) Decimal { return normalize(inf.NewDec(v, 0)) }

func FromUint64(v uint64) Decimal {
	return normalize(inf.NewDecBig(new(big.Int).SetUint64(v), 0))
}

// New returns unscaled * 10^-scale.
func New(unscaled int64, scale int32) Decimal { return normalize(inf.NewDec(unscaled, inf.Scale(scale))) }

func (d Decimal) Scale() int { return int((d.flags & scaleMask) >> scaleBits) }

func (d Decimal) IsZero() bool { return d.hi == 0 && d.mid == 0 && d.lo == 0 }

func (d Decimal) Sign() int {
	switch {
	case d.IsZero():
		return 0
	case d.flags&signMask != 0:
		return -1
	}
	return 1
}

func (d Decimal) Neg() Decimal {
	if d.IsZero() {
		return d
	}
	d.flags ^= signMask
	return d
}

func (d Decimal) Add(o Decimal) Decimal { return normalize(new(inf.Dec).Add(d.dec(), o.dec())) }

func (d Decimal) Sub(o Decimal) Decimal { return normalize(new(inf.Dec).Sub(d.dec(), o.dec())) }

func (d Decimal) Mul(o Decimal) Decimal { return normalize(new(inf.Dec).Mul(d.dec(), o.dec())) }

// Div returns d / o rounded half-to-even to 29 significant digits.
func (d Decimal) Div(o Decimal) (Decimal, error) {
	if o.IsZero() {
		return Zero, ErrDivideByZero
	}
	x, y := d.dec(), o.dec()
	if q := new(inf.Dec).QuoRound(x, y, quoScale, inf.RoundExact); q != nil {
		return normalize(trimZeros(q, x.Scale()-y.Scale())), nil
	}
	// Inexact: truncate and append a sticky digit so the final half-even
	// rounding sees the discarded remainder.
	q := new(inf.Dec).QuoRound(x, y, quoScale, inf.RoundDown)
	u := new(big.Int).Mul(q.UnscaledBig(), bigTen)
	if x.Sign()*y.Sign() < 0 {
		u.Sub(u, big.NewInt(1))
	} else {
		u.Add(u, big.NewInt(1))
	}
	return normalize(inf.NewDecBig(u, quoScale+1)), nil
}

// Cmp compares numerically: 1.0 and 1.00 are equal.
func (d Decimal) Cmp(o Decimal) int { return d.dec().Cmp(o.dec()) }

func (d Decimal) Equal(o Decimal) bool { return d.Cmp(o) == 0 }

func (d Decimal) String() string { return d.dec().String() }

// dec converts to an arbitrary-precision value.
func (d Decimal) dec() *inf.Dec {
	m := new(big.Int).SetUint64(uint64(d.hi))
	m.Lsh(m, 32).Or(m, new(big.Int).SetUint64(uint64(d.mid)))
	m.Lsh(m, 32).Or(m, new(big.Int).SetUint64(uint64(d.lo)))
	if d.flags&signMask != 0 {
		m.Neg(m)
	}
	return inf.NewDecBig(m, inf.Scale(d.Scale()))
}

// normalize fits an arbitrary-precision value into the 96-bit layout.
func normalize(x *inf.Dec) Decimal {
	if x.Sign() == 0 {
		return Zero
	}
	abs := new(inf.Dec).Abs(x)
	if abs.Cmp(nearZero) < 0 {
		return Zero
	}
	neg := x.Sign() < 0

	if n := digits(abs.UnscaledBig()); n > Precision {
		abs = new(inf.Dec).Round(abs, abs.Scale()-inf.Scale(n-Precision), inf.RoundHalfEven)
	}
	if abs.Scale() < 0 {
		pow := new(big.Int).Exp(bigTen, big.NewInt(int64(-abs.Scale())), nil)
		abs = inf.NewDecBig(new(big.Int).Mul(abs.UnscaledBig(), pow), 0)
	}
	if abs.Scale() > MaxScale {
		abs = new(inf.Dec).Round(abs, MaxScale, inf.RoundHalfEven)
	}
	for abs.UnscaledBig().Cmp(limit96) >= 0 && abs.Scale() > 0 {
		abs = new(inf.Dec).Round(abs, abs.Scale()-1, inf.RoundHalfEven)
	}
	if abs.UnscaledBig().Cmp(limit96) >= 0 {
		if neg {
			return MinValue
		}
		return MaxValue
	}

	m := abs.UnscaledBig()
	var d Decimal
	d.lo = uint32(new(big.Int).And(m, wordMask).Uint64())
	d.mid = uint32(new(big.Int).And(new(big.Int).Rsh(m, 32), wordMask).Uint64())
	d.hi = uint32(new(big.Int).Rsh(m, 64).Uint64())
	d.flags = uint32(abs.Scale()) << scaleBits
	if neg && !d.IsZero() {
		d.flags |= signMask
	}
	return d
}

// trimZeros drops trailing fractional zeros while the scale exceeds floor.
func trimZeros(x *inf.Dec, floor inf.Scale) *inf.Dec {
	u := new(big.Int).Set(x.UnscaledBig())
	s := x.Scale()
	r := new(big.Int)
	for s > floor && u.Sign() != 0 {
		q, m := new(big.Int).QuoRem(u, bigTen, r)
		if m.Sign() != 0 {
			break
		}
		u, s = q, s-1
	}
	return inf.NewDecBig(u, s)
}

// digits counts the decimal digits of a non-negative integer.
func digits(m *big.Int) int {
	if m.Sign() == 0 {
		return 1
	}
	return len(m.Text(10))
}
