// Package indicator computes a fixed battery of technical indicators from
// an ordered daily price series, keeping only the latest value of each.
package indicator

import (
	"github.com/shopspring/decimal"

	"stockpulse/internal/models"
)

// Minimum series lengths. An indicator whose requirement exceeds the
// series length is skipped, never zero-filled.
const (
	rsiPeriod   = 14
	atrPeriod   = 14
	macdFast    = 12
	macdSlow    = 26
	macdSignal  = 9
	minBarsRSI  = rsiPeriod + 1
	minBarsATR  = atrPeriod + 1
	minBarsMACD = macdSlow + macdSignal
)

// Compute derives all indicators the series supports. Bars must be in
// ascending timestamp order. The Ticker field of the returned values is
// left empty for the caller to fill.
func Compute(bars []models.PriceBar) []models.Indicator {
	if len(bars) == 0 {
		return nil
	}

	closes := make([]float64, len(bars))
	highs := make([]float64, len(bars))
	lows := make([]float64, len(bars))
	for i, bar := range bars {
		closes[i] = bar.Close.InexactFloat64()
		highs[i] = bar.High.InexactFloat64()
		lows[i] = bar.Low.InexactFloat64()
	}

	var out []models.Indicator
	add := func(name string, value float64, ok bool) {
		if !ok {
			return
		}
		out = append(out, models.Indicator{
			Name:  name,
			Value: decimal.NewFromFloat(value),
		})
	}

	for _, w := range []struct {
		sma, ema string
		window   int
	}{
		{models.IndicatorSMA50, models.IndicatorEMA50, 50},
		{models.IndicatorSMA100, models.IndicatorEMA100, 100},
		{models.IndicatorSMA200, models.IndicatorEMA200, 200},
	} {
		sma, ok := SMA(closes, w.window)
		add(w.sma, sma, ok)
		ema, ok := EMA(closes, w.window)
		add(w.ema, ema, ok)
	}

	macd, ok := MACD(closes)
	add(models.IndicatorMACD, macd, ok)
	rsi, ok := RSI(closes)
	add(models.IndicatorRSI, rsi, ok)
	atr, ok := ATR(highs, lows, closes)
	add(models.IndicatorATR, atr, ok)

	return out
}

// SMA returns the simple moving average of the last window values.
func SMA(values []float64, window int) (float64, bool) {
	if window <= 0 || len(values) < window {
		return 0, false
	}
	var sum float64
	for _, v := range values[len(values)-window:] {
		sum += v
	}
	return sum / float64(window), true
}

// EMA returns the latest exponential moving average, seeded with the SMA
// of the first window values.
func EMA(values []float64, window int) (float64, bool) {
	series := emaSeries(values, window)
	if series == nil {
		return 0, false
	}
	return series[len(series)-1], true
}

// emaSeries returns EMA values aligned to values[window-1:].
func emaSeries(values []float64, window int) []float64 {
	if window <= 0 || len(values) < window {
		return nil
	}
	series := make([]float64, 0, len(values)-window+1)
	var seed float64
	for _, v := range values[:window] {
		seed += v
	}
	ema := seed / float64(window)
	series = append(series, ema)

	k := 2.0 / (float64(window) + 1.0)
	for _, v := range values[window:] {
		ema = (v-ema)*k + ema
		series = append(series, ema)
	}
	return series
}

// MACD returns the latest MACD histogram value using the standard
// 12/26/9 parameterization.
func MACD(closes []float64) (float64, bool) {
	if len(closes) < minBarsMACD {
		return 0, false
	}
	fast := emaSeries(closes, macdFast)
	slow := emaSeries(closes, macdSlow)

	// Both series end at the last close; align fast to slow's start.
	offset := len(fast) - len(slow)
	line := make([]float64, len(slow))
	for i := range slow {
		line[i] = fast[i+offset] - slow[i]
	}

	signal := emaSeries(line, macdSignal)
	if signal == nil {
		return 0, false
	}
	return line[len(line)-1] - signal[len(signal)-1], true
}

// RSI returns the latest 14-period relative strength index with Wilder
// smoothing.
func RSI(closes []float64) (float64, bool) {
	if len(closes) < minBarsRSI {
		return 0, false
	}

	var avgGain, avgLoss float64
	for i := 1; i <= rsiPeriod; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss += -change
		}
	}
	avgGain /= float64(rsiPeriod)
	avgLoss /= float64(rsiPeriod)

	for i := rsiPeriod + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		var gain, loss float64
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(rsiPeriod-1) + gain) / float64(rsiPeriod)
		avgLoss = (avgLoss*float64(rsiPeriod-1) + loss) / float64(rsiPeriod)
	}

	if avgLoss == 0 {
		return 100, true
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), true
}

// ATR returns the latest 14-period average true range with Wilder
// smoothing.
func ATR(highs, lows, closes []float64) (float64, bool) {
	if len(closes) < minBarsATR || len(highs) != len(closes) || len(lows) != len(closes) {
		return 0, false
	}

	trs := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		tr := highs[i] - lows[i]
		if hc := abs(highs[i] - closes[i-1]); hc > tr {
			tr = hc
		}
		if lc := abs(lows[i] - closes[i-1]); lc > tr {
			tr = lc
		}
		trs = append(trs, tr)
	}

	var atr float64
	for _, tr := range trs[:atrPeriod] {
		atr += tr
	}
	atr /= float64(atrPeriod)
	for _, tr := range trs[atrPeriod:] {
		atr = (atr*float64(atrPeriod-1) + tr) / float64(atrPeriod)
	}
	return atr, true
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
