package models

import "time"

// ForecastPoint is one dated prediction for a ticker. Actual is set only
// for dates that already have an observed close price.
type ForecastPoint struct {
	ID        int64
	Ticker    string
	Date      time.Time
	Actual    *float64
	Predicted float64
	Lower     *float64
	Upper     *float64
	CreatedAt time.Time
}
