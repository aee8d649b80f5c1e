package indicators

import "github.com/cryptrend/analytics/internal/domain"

// Result holds every indicator family computed over one asset's bar
// history, as series aligned index-for-index with the input bars.
// Entries before an indicator's warm-up period are NaN (see IsMissing).
type Result struct {
	SMA50  []float64
	SMA200 []float64
	EMA20  []float64

	MACD          []float64
	MACDSignal    []float64
	MACDHistogram []float64

	BBUpper    []float64
	BBMiddle   []float64
	BBLower    []float64
	BBWidth    []float64
	BBPercentB []float64

	RSI []float64
	ATR []float64

	ADX     []float64
	PlusDI  []float64
	MinusDI []float64

	// ATRDegraded is true when the source bars lacked High/Low and the
	// kernel computed ATR against a Close-only approximation.
	ATRDegraded bool
}

// degradeOHLC returns high/low series, falling back to Close when a
// bar has no observed High/Low (see domain.Bar.HasOHLC).
func degradeOHLC(bars []domain.Bar) (highs, lows []float64, degraded bool) {
	highs = make([]float64, len(bars))
	lows = make([]float64, len(bars))
	for i, b := range bars {
		if !b.HasOHLC() {
			degraded = true
		}
		highs[i] = b.HighOrClose()
		lows[i] = b.LowOrClose()
	}
	return
}

// Compute runs the full indicator kernel over an asset's bar history.
func Compute(bars []domain.Bar, cfg Config) Result {
	n := len(bars)
	closes := domain.Closes(bars)
	highs, lows, degraded := degradeOHLC(bars)

	var res Result
	res.ATRDegraded = degraded

	res.SMA50 = padFront(n, SMA(closes, 50))
	res.SMA200 = padFront(n, SMA(closes, 200))
	res.EMA20 = padFront(n, EMA(closes, 20))

	macd := CalculateMACD(closes, cfg.MACDFast, cfg.MACDSlow, cfg.MACDSignal)
	res.MACD = padFront(n, macd.MACD)
	res.MACDSignal = padFront(n, macd.Signal)
	res.MACDHistogram = padFront(n, macd.Histogram)

	bb := CalculateBollingerBands(closes, cfg.BBPeriod, cfg.BBStdDev)
	res.BBUpper = padFront(n, bb.Upper)
	res.BBMiddle = padFront(n, bb.Middle)
	res.BBLower = padFront(n, bb.Lower)
	res.BBWidth = padFront(n, bb.Width)
	res.BBPercentB = padFront(n, bb.PercentB)

	res.RSI = padFront(n, CalculateRSI(closes, cfg.RSIPeriod))
	res.ATR = padFront(n, ATRSeries(highs, lows, closes, cfg.ATRPeriod))

	adx := CalculateADX(highs, lows, closes, cfg.ADXPeriod)
	res.ADX = padFront(n, adx.ADX)
	res.PlusDI = padFront(n, adx.PlusDI)
	res.MinusDI = padFront(n, adx.MinusDI)

	return res
}

// MACDResultAt returns the MACD/Signal/Histogram readings at a given
// bar index as a typed result, with the crossover against the previous
// bar when both bars have a MACD value. BollingerResultAt below does
// the same for the Bollinger bands.
func (r Result) MACDResultAt(i int) MACDResult {
	res := MACDResult{MACD: r.MACD[i], Signal: r.MACDSignal[i], Histogram: r.MACDHistogram[i]}
	if i > 0 && !IsMissing(r.MACD[i-1]) && !IsMissing(r.MACD[i]) {
		res.Crossover = detectMACDCrossover(r.MACD[i], r.MACDSignal[i], r.MACD[i-1], r.MACDSignal[i-1])
	}
	return res
}

func (r Result) BollingerResultAt(i int, squeezeThreshold float64, close float64) BollingerResult {
	return BollingerResult{
		Upper:    r.BBUpper[i],
		Middle:   r.BBMiddle[i],
		Lower:    r.BBLower[i],
		Width:    r.BBWidth[i],
		PercentB: r.BBPercentB[i],
		Squeeze:  !IsMissing(r.BBWidth[i]) && r.BBWidth[i] < squeezeThreshold,
		Breakout: detectBollingerBreakout(close, r.BBUpper[i], r.BBLower[i]),
	}
}

func (r Result) ADXResultAt(i int, trendingThreshold float64) ADXResult {
	adx := r.ADX[i]
	return ADXResult{
		ADX:       adx,
		PlusDI:    r.PlusDI[i],
		MinusDI:   r.MinusDI[i],
		Trending:  !IsMissing(adx) && adx >= trendingThreshold,
		Strength:  adxStrength(adx),
		Direction: adxDirection(r.PlusDI[i], r.MinusDI[i]),
	}
}
