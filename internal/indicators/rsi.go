package indicators

// CalculateRSI computes Wilder-smoothed RSI for a close-price series.
// The result has len(closes)-period entries; the caller is
// responsible for left-padding with NaN to realign to the input bars.
func CalculateRSI(closes []float64, period int) []float64 {
	if len(closes) < period+1 || period <= 0 {
		return nil
	}

	changes := Diff(closes)
	gains, losses := GainsLosses(changes)

	avgGain := Mean(gains[:period])
	avgLoss := Mean(losses[:period])

	result := make([]float64, len(closes)-period)

	for i := 0; i < len(result); i++ {
		if i == 0 {
			if avgLoss == 0 {
				result[i] = 100
			} else {
				rs := avgGain / avgLoss
				result[i] = 100 - (100 / (1 + rs))
			}
		} else {
			idx := period + i - 1
			avgGain = (avgGain*float64(period-1) + gains[idx]) / float64(period)
			avgLoss = (avgLoss*float64(period-1) + losses[idx]) / float64(period)

			if avgLoss == 0 {
				result[i] = 100
			} else {
				rs := avgGain / avgLoss
				result[i] = 100 - (100 / (1 + rs))
			}
		}
	}

	return result
}
