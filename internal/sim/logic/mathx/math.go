package mathx

func AbsInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ClampInt bounds v to [lo, hi]. hi < lo is treated as hi == lo.
func ClampInt(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func ClampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// NonNeg clamps at zero; ledger and counters never go below it.
func NonNeg(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
