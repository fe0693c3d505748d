package model

import "errors"

var (
	// ErrInvalidInput marks input the pipeline refuses to work with.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoData is returned when the requested period has no price data.
	ErrNoData = errors.New("no data available for the selected period")
)
