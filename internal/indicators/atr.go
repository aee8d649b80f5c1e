package indicators

// ATRSeries computes Wilder-smoothed Average True Range for an OHLC
// series. The result has len(highs)-period entries; the caller
// left-pads with NaN to realign to the input bars.
func ATRSeries(highs, lows, closes []float64, period int) []float64 {
	if len(highs) < period+1 || len(highs) != len(lows) || len(highs) != len(closes) {
		return nil
	}

	tr := TrueRanges(highs, lows, closes)
	if tr == nil {
		return nil
	}

	atr := make([]float64, len(tr)-period+1)
	atr[0] = Mean(tr[:period])

	for i := 1; i < len(atr); i++ {
		atr[i] = (atr[i-1]*float64(period-1) + tr[period-1+i]) / float64(period)
	}

	return atr
}
