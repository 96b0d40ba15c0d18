package cleaner

import (
	"math"
	"sort"

	"github.com/KaramelBytes/tidyset/internal/table"
)

// numbers collects the non-missing numeric cells of a column.
func numbers(vals []table.Value) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if v.IsNumber() {
			out = append(out, v.Float())
		}
	}
	return out
}

// mean uses Welford's update; ok is false for an empty input.
func mean(xs []float64) (float64, bool) {
	if len(xs) == 0 {
		return 0, false
	}
	var m float64
	for i, x := range xs {
		m += (x - m) / float64(i+1)
	}
	return m, true
}

// meanStd returns the mean and the population (divisor N) standard deviation.
func meanStd(xs []float64) (m, sd float64, ok bool) {
	if len(xs) == 0 {
		return 0, 0, false
	}
	var m2 float64
	for i, x := range xs {
		delta := x - m
		m += delta / float64(i+1)
		m2 += delta * (x - m)
	}
	return m, math.Sqrt(m2 / float64(len(xs))), true
}

func median(xs []float64) (float64, bool) {
	if len(xs) == 0 {
		return 0, false
	}
	cp := make([]float64, len(xs))
	copy(cp, xs)
	sort.Float64s(cp)
	n := len(cp)
	if n%2 == 1 {
		return cp[n/2], true
	}
	return (cp[n/2-1] + cp[n/2]) / 2, true
}

// mode returns the most frequent non-missing value. Among equally frequent
// values the one seen first in row order wins.
func mode(vals []table.Value) (table.Value, bool) {
	counts := make(map[table.Value]int)
	top := 0
	for _, v := range vals {
		if v.IsMissing() {
			continue
		}
		k := v.Key()
		counts[k]++
		if counts[k] > top {
			top = counts[k]
		}
	}
	if top == 0 {
		return table.Missing(), false
	}
	for _, v := range vals {
		if !v.IsMissing() && counts[v.Key()] == top {
			return v, true
		}
	}
	return table.Missing(), false
}
