// Package rational implements exact rational arithmetic over arbitrary
// precision integers, extended with the two sentinel infinities the
// engine uses to represent unbounded variable intervals.
package rational

import (
	"fmt"
	"math/big"
)

// sign of an infinite Rational; zero for ordinary finite values.
type infSign int8

const (
	finite infSign = 0
	posInf infSign = 1
	negInf infSign = -1
)

// Rational is an exact fraction, always stored canonicalized (gcd(num,den)=1,
// den>0), or one of the two sentinel infinities.
type Rational struct {
	num *big.Int
	den *big.Int
	inf infSign
}

var (
	bigZero = big.NewInt(0)
	bigOne  = big.NewInt(1)
)

// New returns the rational num/den in canonical form. Panics if den is zero.
func New(num, den int64) Rational {
	return NewBig(big.NewInt(num), big.NewInt(den))
}

// NewBig returns the rational num/den in canonical form, taking ownership of
// neither argument (the values are copied). Panics if den is zero.
func NewBig(num, den *big.Int) Rational {
	if den.Sign() == 0 {
		panic("rational: division by zero")
	}
	n := new(big.Int).Set(num)
	d := new(big.Int).Set(den)
	if d.Sign() < 0 {
		n.Neg(n)
		d.Neg(d)
	}
	if n.Sign() == 0 {
		return Rational{num: big.NewInt(0), den: big.NewInt(1)}
	}
	g := new(big.Int).GCD(nil, nil, new(big.Int).Abs(n), new(big.Int).Abs(d))
	n.Quo(n, g)
	d.Quo(d, g)
	return Rational{num: n, den: d}
}

// Zero is the additive identity.
func Zero() Rational { return Rational{num: big.NewInt(0), den: big.NewInt(1)} }

// One is the multiplicative identity.
func One() Rational { return Rational{num: big.NewInt(1), den: big.NewInt(1)} }

// InfPos is the sentinel positive infinity, used for unbounded upper bounds.
func InfPos() Rational { return Rational{inf: posInf} }

// InfNeg is the sentinel negative infinity, used for unbounded lower bounds.
func InfNeg() Rational { return Rational{inf: negInf} }

// IsInf reports whether r is one of the sentinel infinities.
func (r Rational) IsInf() bool { return r.inf != finite }

// IsPosInf reports whether r is the positive infinity sentinel.
func (r Rational) IsPosInf() bool { return r.inf == posInf }

// IsNegInf reports whether r is the negative infinity sentinel.
func (r Rational) IsNegInf() bool { return r.inf == negInf }

// IsZero reports whether r is exactly zero. Never true for an infinity.
func (r Rational) IsZero() bool { return r.inf == finite && r.num.Sign() == 0 }

// IsPositive reports whether r is greater than zero.
func (r Rational) IsPositive() bool {
	if r.inf != finite {
		return r.inf == posInf
	}
	return r.num.Sign() > 0
}

// IsNegative reports whether r is less than zero.
func (r Rational) IsNegative() bool {
	if r.inf != finite {
		return r.inf == negInf
	}
	return r.num.Sign() < 0
}

// Sign returns -1, 0, or 1 according to the sign of r.
func (r Rational) Sign() int {
	if r.inf != finite {
		return int(r.inf)
	}
	return r.num.Sign()
}

// Neg returns -r.
func (r Rational) Neg() Rational {
	switch r.inf {
	case posInf:
		return InfNeg()
	case negInf:
		return InfPos()
	default:
		return NewBig(new(big.Int).Neg(r.num), r.den)
	}
}

// Add returns r + other. Panics if the two are opposite infinities (the
// indeterminate form +Inf + -Inf), which the engine never constructs.
func (r Rational) Add(other Rational) Rational {
	if r.inf != finite || other.inf != finite {
		if r.inf != finite && other.inf != finite && r.inf != other.inf {
			panic("rational: indeterminate sum of opposite infinities")
		}
		if r.inf != finite {
			return r
		}
		return other
	}
	num := new(big.Int).Add(new(big.Int).Mul(r.num, other.den), new(big.Int).Mul(other.num, r.den))
	den := new(big.Int).Mul(r.den, other.den)
	return NewBig(num, den)
}

// Sub returns r - other.
func (r Rational) Sub(other Rational) Rational {
	return r.Add(other.Neg())
}

// Mul returns r * other. A coefficient is never zero by the engine's term
// invariant, so this never has to resolve Inf*0; any other pairing involving
// an infinity yields the correctly-signed infinity.
func (r Rational) Mul(other Rational) Rational {
	if r.inf != finite || other.inf != finite {
		if (r.inf == finite && r.IsZero()) || (other.inf == finite && other.IsZero()) {
			panic("rational: indeterminate product of zero and infinity")
		}
		sign := r.Sign() * other.Sign()
		if sign > 0 {
			return InfPos()
		}
		return InfNeg()
	}
	num := new(big.Int).Mul(r.num, other.num)
	den := new(big.Int).Mul(r.den, other.den)
	return NewBig(num, den)
}

// Div returns r / other. Panics if other is zero or if r and other are both
// infinite (the indeterminate form Inf/Inf).
func (r Rational) Div(other Rational) Rational {
	if other.inf != finite {
		if r.inf != finite {
			panic("rational: indeterminate quotient of infinities")
		}
		return Zero()
	}
	if other.IsZero() {
		panic("rational: division by zero")
	}
	return r.Mul(NewBig(other.den, other.num))
}

// Cmp returns -1, 0, or 1 as r is less than, equal to, or greater than other.
func (r Rational) Cmp(other Rational) int {
	if r.inf != finite || other.inf != finite {
		rs, os := int(r.inf), int(other.inf)
		if rs == os && rs != 0 {
			return 0
		}
		switch {
		case rs < os:
			return -1
		case rs > os:
			return 1
		default:
			// exactly one side is infinite; finite side compares against 0
			if rs == 0 {
				return -os
			}
			return rs
		}
	}
	lhs := new(big.Int).Mul(r.num, other.den)
	rhs := new(big.Int).Mul(other.num, r.den)
	return lhs.Cmp(rhs)
}

// Equal reports whether r and other denote the same value.
func (r Rational) Equal(other Rational) bool { return r.Cmp(other) == 0 }

// String renders r as "num/den", "num" when den is 1, or "+Inf"/"-Inf".
func (r Rational) String() string {
	switch r.inf {
	case posInf:
		return "+Inf"
	case negInf:
		return "-Inf"
	}
	if r.den.Cmp(bigOne) == 0 {
		return r.num.String()
	}
	return fmt.Sprintf("%s/%s", r.num.String(), r.den.String())
}

// Num returns the canonical numerator. Only meaningful for finite values.
func (r Rational) Num() *big.Int { return new(big.Int).Set(r.num) }

// Den returns the canonical denominator. Only meaningful for finite values.
func (r Rational) Den() *big.Int { return new(big.Int).Set(r.den) }
