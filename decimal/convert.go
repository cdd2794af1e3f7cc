package decimal

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/inf.v0"
)

// FromFloat64 converts the exact binary value of f and rounds it to 29
// significant digits. NaN and infinities are rejected.
func FromFloat64(f float64) (Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Zero, errors.Newf("decimal: cannot convert %v", f)
	}
	if f == 0 {
		return Zero, nil
	}
	bits := math.Float64bits(f)
	neg := bits>>63 != 0
	exp := int((bits >> 52) & 0x7FF)
	mant := bits & (1<<52 - 1)
	if exp == 0 {
		exp = 1
	} else {
		mant |= 1 << 52
	}
	exp -= 1075
	for mant&1 == 0 && exp < 0 {
		mant >>= 1
		exp++
	}

	m := new(big.Int).SetUint64(mant)
	var x *inf.Dec
	if exp >= 0 {
		x = inf.NewDecBig(m.Lsh(m, uint(exp)), 0)
	} else {
		// m * 2^exp == m * 5^-exp / 10^-exp
		pow := new(big.Int).Exp(big.NewInt(5), big.NewInt(int64(-exp)), nil)
		x = inf.NewDecBig(m.Mul(m, pow), inf.Scale(-exp))
	}
	if neg {
		x.Neg(x)
	}
	return normalize(x), nil
}

// Parse reads a decimal literal such as "-12.50" or "1.5e-3".
func Parse(s string) (Decimal, error) {
	mant, exp := s, int64(0)
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		e, err := strconv.ParseInt(s[i+1:], 10, 32)
		if err != nil {
			return Zero, errors.Wrapf(err, "decimal: parse %q", s)
		}
		mant, exp = s[:i], e
	}
	x, ok := new(inf.Dec).SetString(mant)
	if !ok {
		return Zero, errors.Newf("decimal: parse %q: invalid syntax", s)
	}
	if exp != 0 {
		x.SetScale(x.Scale() - inf.Scale(exp))
	}
	return normalize(x), nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Decimal {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Float64 returns the nearest float64.
func (d Decimal) Float64() float64 {
	f, _ := strconv.ParseFloat(d.String(), 64)
	return f
}
