// Package fixed implements deterministic fixed-point arithmetic for the
// simulation core. No operation in this package routes through IEEE-754;
// every result is reproducible bit-for-bit across platforms, compilers,
// and optimization levels.
package fixed

import "math/bits"

// Fractional is the number of fractional bits in the Q32.32 representation.
const Fractional = 32

// Fixed is a signed Q32.32 number backed by a raw int64. The high 32 bits
// are the integer part, the low 32 bits are the fraction.
type Fixed int64

// Zero, One and Half are commonly used constants.
const (
	Zero Fixed = 0
	One  Fixed = 1 << Fractional
	Half Fixed = One / 2
)

// Max and Min bound the representable range; arithmetic saturates at
// these limits rather than wrapping, so results stay consistent across
// architectures regardless of how the host's integer overflow behaves.
const (
	Max Fixed = Fixed(1<<63 - 1)
	Min Fixed = Fixed(-1 << 63)
)

// FromInt converts an integer to Fixed.
func FromInt(v int64) Fixed {
	return Fixed(v << Fractional)
}

// ToInt returns the integer part, rounding toward negative infinity
// (an arithmetic shift, so -1.5 becomes -2).
func (f Fixed) ToInt() int64 {
	return int64(f) >> Fractional
}

// ToFloat64 converts to a float64 for display and telemetry export. Never
// use this on a path that feeds back into the simulation or its hash;
// floats are not guaranteed bit-identical across platforms.
func (f Fixed) ToFloat64() float64 {
	return float64(f) / float64(int64(1)<<Fractional)
}

// Bits returns the raw underlying representation, used for hashing and
// serialization. This is the only sanctioned way to turn a Fixed into
// bytes.
func (f Fixed) Bits() int64 {
	return int64(f)
}

// FromBits reconstructs a Fixed from its raw representation.
func FromBits(v int64) Fixed {
	return Fixed(v)
}

// Add returns f+g, saturating on overflow.
func (f Fixed) Add(g Fixed) Fixed {
	sum := int64(f) + int64(g)
	if (int64(f) > 0 && int64(g) > 0 && sum < 0) {
		return Max
	}
	if int64(f) < 0 && int64(g) < 0 && sum >= 0 {
		return Min
	}
	return Fixed(sum)
}

// Sub returns f-g, saturating on overflow.
func (f Fixed) Sub(g Fixed) Fixed {
	return f.Add(-g)
}

// Neg returns -f.
func (f Fixed) Neg() Fixed {
	if f == Min {
		return Max
	}
	return -f
}

// Mul returns f*g using a 128-bit intermediate so the multiply never
// silently overflows before the fractional shift is applied.
func (f Fixed) Mul(g Fixed) Fixed {
	hi, lo := bits.Mul64(uint64(absI64(int64(f))), uint64(absI64(int64(g))))
	negative := (int64(f) < 0) != (int64(g) < 0)

	// Shift the 128-bit product right by Fractional bits.
	shifted := (hi << (64 - Fractional)) | (lo >> Fractional)
	if hi>>Fractional != 0 {
		if negative {
			return Min
		}
		return Max
	}
	result := int64(shifted)
	if result < 0 {
		if negative {
			return Min
		}
		return Max
	}
	if negative {
		return Fixed(-result)
	}
	return Fixed(result)
}

// Div returns f/g. Division by zero returns Max (or Min, matching the
// sign of f) rather than panicking, keeping the simulation total.
func (f Fixed) Div(g Fixed) Fixed {
	if g == 0 {
		if f < 0 {
			return Min
		}
		return Max
	}
	negative := (int64(f) < 0) != (int64(g) < 0)
	num := uint64(absI64(int64(f)))
	den := uint64(absI64(int64(g)))

	hi := num >> (64 - Fractional)
	lo := num << Fractional
	q, _ := bits.Div64(hi, lo, den)
	if q > uint64(Max) {
		if negative {
			return Min
		}
		return Max
	}
	if negative {
		return Fixed(-int64(q))
	}
	return Fixed(q)
}

// MulInt multiplies by a plain integer scalar without the fixed-point
// rescale Mul performs; useful for counting-style multiplications.
func (f Fixed) MulInt(n int64) Fixed {
	return Fixed(int64(f) * n)
}

// Abs returns the absolute value.
func (f Fixed) Abs() Fixed {
	if f < 0 {
		return f.Neg()
	}
	return f
}

// Cmp returns -1, 0, or 1.
func (f Fixed) Cmp(g Fixed) int {
	switch {
	case f < g:
		return -1
	case f > g:
		return 1
	default:
		return 0
	}
}

func absI64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// newtonIterations is the fixed number of Newton steps ReciprocalSqrt
// performs, so the result is identical on every platform. The package
// has no plain square root; normalization only needs the reciprocal.
const newtonIterations = 8

// ReciprocalSqrt approximates 1/sqrt(f) via Newton's method:
// y_{n+1} = y_n * (1.5 - 0.5*f*y_n^2). The iteration count is fixed at
// newtonIterations so every build performs the exact same sequence of
// integer multiplies, regardless of host float behavior.
func (f Fixed) ReciprocalSqrt() Fixed {
	if f <= 0 {
		return 0
	}

	// Seed the initial guess from the bit length of f so the iteration
	// converges in a small, fixed number of steps regardless of scale.
	raw := uint64(f)
	shift := bits.Len64(raw)
	guessShift := Fractional - (shift-Fractional)/2
	var y Fixed
	if guessShift >= 0 && guessShift < 63 {
		y = Fixed(int64(1) << uint(guessShift))
	} else {
		y = One
	}
	if y <= 0 {
		y = One
	}

	half := Half
	threeHalves := Half.Add(One)
	for i := 0; i < newtonIterations; i++ {
		y2 := y.Mul(y)
		fy2 := f.Mul(y2)
		term := threeHalves.Sub(half.Mul(fy2))
		y = y.Mul(term)
	}
	return y
}
