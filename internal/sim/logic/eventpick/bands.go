package eventpick

// Band is one weighted slice of the unit interval. Bands are walked in the
// order given, so the caller owns the stable ordering.
type Band struct {
	Name   string
	Weight float64
}

// Pick maps roll in [0,1) onto the cumulative band weights. Non-positive
// weights never match. An empty or all-zero band list yields "".
func Pick(bands []Band, roll float64) string {
	var total float64
	for _, b := range bands {
		if b.Weight > 0 {
			total += b.Weight
		}
	}
	if total <= 0 {
		return ""
	}
	if roll < 0 {
		roll = 0
	}
	target := roll * total

	var acc float64
	last := ""
	for _, b := range bands {
		if b.Weight <= 0 {
			continue
		}
		acc += b.Weight
		last = b.Name
		if target < acc {
			return b.Name
		}
	}
	return last
}

// Index picks uniformly from n items. n <= 0 yields -1.
func Index(n int, roll float64) int {
	if n <= 0 {
		return -1
	}
	i := int(roll * float64(n))
	if i < 0 {
		i = 0
	}
	if i >= n {
		i = n - 1
	}
	return i
}
