package predict

import (
	"errors"
	"time"

	"marketintel/internal/types"
)

// ErrNotTrained is returned by Forecast before a successful Train.
var ErrNotTrained = errors.New("predictor not trained")

// minTrainingRows is the number of complete feature rows required to
// fit the model. Below it the history carries too much window noise
// for even a rough directional read.
const minTrainingRows = 30

// defaultHorizonDays is how far out a forecast nominally looks.
const defaultHorizonDays = 5

// Predictor fits a small linear model over rolling technical features
// of a symbol's price history and labels the expected short-horizon
// trend. It is intentionally crude; the value is the graceful "no
// forecast" behavior on thin history, not the model itself.
type Predictor struct {
	scaler  standardScaler
	model   linreg
	trained bool
}

func NewPredictor() *Predictor {
	return &Predictor{}
}

// Train fits the scaler and regression on the history. It reports
// false, without error, when the history yields fewer than 30 complete
// feature rows; insufficient data is an expected outcome here.
func (p *Predictor) Train(bars []types.OHLCV) bool {
	rows, targets := buildFeatures(bars)
	if len(rows) < minTrainingRows {
		p.trained = false
		return false
	}

	p.scaler.fit(rows)
	scaled := make([][]float64, len(rows))
	for i, r := range rows {
		scaled[i] = p.scaler.transform(r)
	}
	p.model.fit(scaled, targets)
	p.trained = true
	return true
}

// Forecast predicts the close from the latest feature row and maps the
// implied change onto a trend label.
//
// The label split is asymmetric: a flat (0%) prediction reads Bearish
// while Bullish needs any positive change. Kept as observed upstream;
// do not even it out without revisiting the consumers.
func (p *Predictor) Forecast(symbol string, bars []types.OHLCV, now time.Time) (*types.TrendForecast, error) {
	if !p.trained {
		return nil, ErrNotTrained
	}

	rows, _ := buildFeatures(bars)
	if len(rows) == 0 {
		return nil, ErrNotTrained
	}

	lastClose := bars[len(bars)-1].Close
	if lastClose == 0 {
		return nil, errors.New("last close is zero")
	}

	predicted := p.model.predict(p.scaler.transform(rows[len(rows)-1]))
	changePct := (predicted - lastClose) / lastClose * 100

	var direction types.Direction
	switch {
	case changePct > 1:
		direction = types.StrongBullish
	case changePct > 0:
		direction = types.Bullish
	case changePct > -1:
		direction = types.Bearish
	default:
		direction = types.StrongBearish
	}

	confidence := changePct / 5
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return &types.TrendForecast{
		Symbol:         symbol,
		Direction:      direction,
		PredictedClose: predicted,
		ChangePct:      changePct,
		Confidence:     confidence,
		HorizonDays:    defaultHorizonDays,
		GeneratedAt:    now,
	}, nil
}
