package slab

import (
	"math"
	"math/bits"
)

// checkedAdd returns a+b, or ErrOverflow.
func checkedAdd(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrOverflow
	}
	return sum, nil
}

// checkedMul returns a*b, or ErrOverflow.
func checkedMul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, ErrOverflow
	}
	return lo, nil
}

// Product multiplies all the values together, failing with ErrOverflow
// instead of wrapping. The product of no values is 1.
func Product(values []uint64) (uint64, error) {
	p := uint64(1)
	for _, v := range values {
		var err error
		p, err = checkedMul(p, v)
		if err != nil {
			return 0, err
		}
	}
	return p, nil
}

func checkedAddInt(a, b int64) (int64, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, ErrOverflow
	}
	return a + b, nil
}

func checkedMulInt(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	c := a * b
	if c/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, ErrOverflow
	}
	return c, nil
}

// toInt converts an index or extent for signed offset arithmetic.
func toInt(v uint64) (int64, error) {
	if v > math.MaxInt64 {
		return 0, ErrOverflow
	}
	return int64(v), nil
}
