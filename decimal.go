package atree

import "math"

// Decimal is a fixed-point number represented as mantissa * 10^-scale.
// Arithmetic is never performed on decimals, only ordering and equality;
// see Cmp.
type Decimal struct {
	Mantissa int64
	Scale    uint32
}

// NewDecimal builds a Decimal with trailing mantissa zeros folded into the
// scale, e.g. NewDecimal(2500, 2) normalises to {Mantissa: 25, Scale: 0}.
func NewDecimal(mantissa int64, scale uint32) Decimal {
	return Decimal{Mantissa: mantissa, Scale: scale}.normalize()
}

func (d Decimal) normalize() Decimal {
	for d.Scale > 0 && d.Mantissa != 0 && d.Mantissa%10 == 0 {
		d.Mantissa /= 10
		d.Scale--
	}
	if d.Mantissa == 0 {
		d.Scale = 0
	}
	return d
}

// Cmp orders two decimals after aligning their scales. If aligning would
// overflow an int64 mantissa, the comparison falls back to comparing the
// signs of the (unaligned) mantissas, per the design notes on decimal
// precision.
func (d Decimal) Cmp(o Decimal) int {
	d, o = d.normalize(), o.normalize()

	am, bm := d.Mantissa, o.Mantissa
	var overflow bool
	switch {
	case d.Scale < o.Scale:
		am, overflow = mulPow10Checked(d.Mantissa, o.Scale-d.Scale)
	case o.Scale < d.Scale:
		bm, overflow = mulPow10Checked(o.Mantissa, d.Scale-o.Scale)
	}

	if overflow {
		return signOf(int64(signOf(d.Mantissa) - signOf(o.Mantissa)))
	}

	switch {
	case am < bm:
		return -1
	case am > bm:
		return 1
	default:
		return 0
	}
}

// Equal reports whether d and o represent the same value after scale
// alignment.
func (d Decimal) Equal(o Decimal) bool {
	return d.Cmp(o) == 0
}

func mulPow10Checked(m int64, delta uint32) (int64, bool) {
	for i := uint32(0); i < delta; i++ {
		if m == 0 {
			return 0, false
		}
		if m > math.MaxInt64/10 || m < math.MinInt64/10 {
			return 0, true
		}
		m *= 10
	}
	return m, false
}

func signOf(n int64) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
