package predict

import (
	"math"

	"marketintel/internal/types"
)

// featureCount is the width of one feature row: open, high, low,
// volume, SMA-5, SMA-20, 10-bar volatility, 5-bar momentum.
const featureCount = 8

// sma is the simple moving average of the n values ending at index i.
// NaN when the window does not fit.
func sma(vals []float64, i, n int) float64 {
	if i+1 < n || n <= 0 {
		return math.NaN()
	}
	sum := 0.0
	for j := i - n + 1; j <= i; j++ {
		sum += vals[j]
	}
	return sum / float64(n)
}

// rollingStd is the population standard deviation of the n values
// ending at index i. NaN when the window does not fit.
func rollingStd(vals []float64, i, n int) float64 {
	m := sma(vals, i, n)
	if math.IsNaN(m) {
		return math.NaN()
	}
	s := 0.0
	for j := i - n + 1; j <= i; j++ {
		d := vals[j] - m
		s += d * d
	}
	return math.Sqrt(s / float64(n))
}

// momentum is the close delta over n bars. NaN when there is no bar n
// steps back.
func momentum(vals []float64, i, n int) float64 {
	if i < n {
		return math.NaN()
	}
	return vals[i] - vals[i-n]
}

// buildFeatures turns price bars into feature rows and same-bar close
// targets. Bars whose rolling windows are incomplete are dropped, so
// the first 19 bars never yield a row.
func buildFeatures(bars []types.OHLCV) (rows [][]float64, targets []float64) {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}

	for i, b := range bars {
		row := []float64{
			b.Open,
			b.High,
			b.Low,
			b.Volume,
			sma(closes, i, 5),
			sma(closes, i, 20),
			rollingStd(closes, i, 10),
			momentum(closes, i, 5),
		}
		complete := true
		for _, v := range row {
			if math.IsNaN(v) {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}
		rows = append(rows, row)
		targets = append(targets, b.Close)
	}
	return rows, targets
}
