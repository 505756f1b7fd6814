package domain

import "time"

// Quote is the latest observed price data for one symbol from the live feed.
type Quote struct {
	Symbol        string    `json:"symbol"`         // Ticker symbol, upper-cased
	Price         float64   `json:"price"`          // Last observed price
	Change        float64   `json:"change"`         // Absolute change since the previous observation
	ChangePercent float64   `json:"change_percent"` // Relative change since the previous observation
	Timestamp     time.Time `json:"timestamp"`      // When the price was observed
}
