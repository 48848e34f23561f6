package safe

import (
	"math"
)

// SafeAdd performs int64 addition and panics on overflow/underflow.
func SafeAdd(a, b int64) int64 {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		panic("CORE_SAFE_ADD_OVERFLOW")
	}
	return a + b
}

// SafeSub performs int64 subtraction and panics on overflow/underflow.
func SafeSub(a, b int64) int64 {
	if (b > 0 && a < math.MinInt64+b) || (b < 0 && a > math.MaxInt64+b) {
		panic("CORE_SAFE_SUB_OVERFLOW")
	}
	return a - b
}

// SafeMul performs int64 multiplication and panics on overflow/underflow.
func SafeMul(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	result := a * b
	if result/b != a {
		panic("CORE_SAFE_MUL_OVERFLOW")
	}
	return result
}

// SafeDiv performs int64 division and panics on division by zero or the
// MinInt64 / -1 overflow case.
func SafeDiv(a, b int64) int64 {
	if b == 0 {
		panic("CORE_SAFE_DIV_ZERO")
	}
	if a == math.MinInt64 && b == -1 {
		panic("CORE_SAFE_DIV_OVERFLOW")
	}
	return a / b
}

// ClampSub subtracts b from a, flooring the result at zero.
// Pending-quantity bookkeeping must never go negative.
func ClampSub(a, b int64) int64 {
	if b >= a {
		return 0
	}
	return a - b
}

// Clamp0 floors v at zero.
func Clamp0(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

// Min returns the smaller of two int64 values.
func Min(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// Min3 returns the smallest of three int64 values.
func Min3(a, b, c int64) int64 {
	return Min(Min(a, b), c)
}
