package indicators

// BollingerData holds aligned upper/middle/lower/width/%B series.
type BollingerData struct {
	Upper    []float64
	Middle   []float64
	Lower    []float64
	Width    []float64
	PercentB []float64
}

// CalculateBollingerBands computes Bollinger Bands for a close-price
// series using a population standard deviation over each window.
func CalculateBollingerBands(closes []float64, period int, stdDevMultiplier float64) BollingerData {
	if len(closes) < period || period <= 0 {
		return BollingerData{}
	}

	length := len(closes) - period + 1
	result := BollingerData{
		Upper:    make([]float64, length),
		Middle:   make([]float64, length),
		Lower:    make([]float64, length),
		Width:    make([]float64, length),
		PercentB: make([]float64, length),
	}

	for i := 0; i < length; i++ {
		window := closes[i : i+period]
		middle := Mean(window)
		stdDev := StdDev(window)
		upper := middle + stdDevMultiplier*stdDev
		lower := middle - stdDevMultiplier*stdDev

		result.Upper[i] = upper
		result.Middle[i] = middle
		result.Lower[i] = lower

		if middle != 0 {
			result.Width[i] = (upper - lower) / middle
		}

		if upper != lower {
			result.PercentB[i] = (closes[i+period-1] - lower) / (upper - lower)
		} else {
			result.PercentB[i] = 0.5
		}
	}

	return result
}

func detectBollingerBreakout(close, upper, lower float64) BreakoutType {
	if close > upper {
		return BreakoutUpper
	}
	if close < lower {
		return BreakoutLower
	}
	return BreakoutNone
}
