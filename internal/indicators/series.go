package indicators

import "math"

// IsMissing reports whether a series value is an undefined prefix
// entry rather than a computed reading.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// padFront left-pads a shorter computed series with NaN so index i
// lines up with the same bar as the input series used to compute it.
func padFront(total int, values []float64) []float64 {
	out := make([]float64, total)
	for i := range out {
		out[i] = math.NaN()
	}
	if len(values) == 0 {
		return out
	}
	offset := total - len(values)
	if offset < 0 {
		offset = 0
		values = values[-offset:]
	}
	copy(out[offset:], values)
	return out
}

// LastDefined returns the last non-NaN value in a series and true, or
// (0, false) if the series has no defined entries.
func LastDefined(series []float64) (float64, bool) {
	for i := len(series) - 1; i >= 0; i-- {
		if !IsMissing(series[i]) {
			return series[i], true
		}
	}
	return 0, false
}
