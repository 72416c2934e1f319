package geom

// Round rounds x to the nearest multiple of m. Exact halves go to the
// upper multiple.
func Round(x, m Int) Int {
	if m <= 0 {
		panic("geom: rounding multiple must be positive")
	}
	lo := RoundDown(x, m)
	hi := lo + m
	if x-lo < hi-x {
		return lo
	}
	return hi
}

// RoundDown rounds x toward negative infinity to a multiple of m.
func RoundDown(x, m Int) Int {
	if m <= 0 {
		panic("geom: rounding multiple must be positive")
	}
	q := x / m
	if x%m != 0 && x < 0 {
		q--
	}
	return q * m
}

// RoundUp rounds x toward positive infinity to a multiple of m.
func RoundUp(x, m Int) Int {
	d := RoundDown(x, m)
	if d == x {
		return x
	}
	return d + m
}

// CeilDiv returns ceil(a / b) for b > 0.
func CeilDiv(a, b Int) Int {
	return RoundUp(a, b) / b
}

// FloorDiv returns floor(a / b) for b > 0.
func FloorDiv(a, b Int) Int {
	return RoundDown(a, b) / b
}
