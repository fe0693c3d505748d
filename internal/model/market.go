package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time    time.Time
	Open    float64
	High    float64
	Low     float64
	Close   float64
	Volume  float64
	LastATH float64 // highest close up to and including this bar
}

// PricePoint is one daily closing price.
type PricePoint struct {
	Time  time.Time
	Close float64
}

// PriceSeries holds one closing price per calendar day, oldest first.
type PriceSeries struct {
	Symbol string
	Points []PricePoint
}

// Len returns the number of days in the series.
func (s PriceSeries) Len() int { return len(s.Points) }

// First returns the oldest point. The series must not be empty.
func (s PriceSeries) First() PricePoint { return s.Points[0] }

// Last returns the newest point. The series must not be empty.
func (s PriceSeries) Last() PricePoint { return s.Points[len(s.Points)-1] }
