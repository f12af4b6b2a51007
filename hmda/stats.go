package hmda

import (
	"math"
	"sort"
)

// compact returns the non-missing values of vals.
func compact(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// mean returns the arithmetic mean of the non-missing values.
func mean(vals []float64) (float64, bool) {
	sum, n := 0.0, 0
	for _, v := range vals {
		if !math.IsNaN(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// quantile returns the q-th quantile (q in [0,1]) of the non-missing values
// using linear interpolation between order statistics.
func quantile(vals []float64, q float64) (float64, bool) {
	s := compact(vals)
	if len(s) == 0 {
		return 0, false
	}
	sort.Float64s(s)
	if q <= 0 {
		return s[0], true
	}
	if q >= 1 {
		return s[len(s)-1], true
	}
	pos := q * float64(len(s)-1)
	lo := int(math.Floor(pos))
	frac := pos - float64(lo)
	if lo+1 >= len(s) {
		return s[lo], true
	}
	return s[lo] + (s[lo+1]-s[lo])*frac, true
}

// median returns the middle value of the non-missing values.
func median(vals []float64) (float64, bool) {
	return quantile(vals, 0.5)
}

// medianPtr returns the median as a pointer, nil when it is undefined.
// Result structs use pointers so an undefined median marshals as null.
func medianPtr(vals []float64) *float64 {
	m, ok := median(vals)
	if !ok {
		return nil
	}
	return &m
}

// meanPtr returns the mean as a pointer, nil when it is undefined.
func meanPtr(vals []float64) *float64 {
	m, ok := mean(vals)
	if !ok {
		return nil
	}
	return &m
}

// rate returns count/total, or 0 when total is 0.
func rate(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total)
}
