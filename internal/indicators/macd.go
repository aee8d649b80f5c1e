package indicators

// MACDData holds aligned MACD/signal/histogram series. All three
// slices have equal length, the last signal-line value corresponding
// to the most recent bar.
type MACDData struct {
	MACD      []float64
	Signal    []float64
	Histogram []float64
}

// CalculateMACD computes MACD line, signal line and histogram for a
// close-price series.
func CalculateMACD(closes []float64, fastPeriod, slowPeriod, signalPeriod int) MACDData {
	if len(closes) < slowPeriod+signalPeriod {
		return MACDData{}
	}

	fastEMA := EMA(closes, fastPeriod)
	slowEMA := EMA(closes, slowPeriod)
	if fastEMA == nil || slowEMA == nil {
		return MACDData{}
	}

	offset := len(fastEMA) - len(slowEMA)
	macdLine := make([]float64, len(slowEMA))
	for i := 0; i < len(slowEMA); i++ {
		macdLine[i] = fastEMA[i+offset] - slowEMA[i]
	}

	signalLine := EMA(macdLine, signalPeriod)
	if signalLine == nil {
		return MACDData{MACD: macdLine}
	}

	offset = len(macdLine) - len(signalLine)
	histogram := make([]float64, len(signalLine))
	for i := 0; i < len(signalLine); i++ {
		histogram[i] = macdLine[i+offset] - signalLine[i]
	}

	return MACDData{
		MACD:      macdLine[offset:],
		Signal:    signalLine,
		Histogram: histogram,
	}
}

func detectMACDCrossover(macd, signal, prevMACD, prevSignal float64) CrossoverType {
	if prevMACD <= prevSignal && macd > signal {
		return CrossoverBullish
	}
	if prevMACD >= prevSignal && macd < signal {
		return CrossoverBearish
	}
	return CrossoverNone
}
