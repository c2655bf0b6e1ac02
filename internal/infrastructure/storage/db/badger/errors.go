package dbbadger

import "errors"

var (
	// ErrFundMeAlreadyExists ...
	ErrFundMeAlreadyExists = errors.New("fundme contract already exists")
	// ErrAggregatorAlreadyExists ...
	ErrAggregatorAlreadyExists = errors.New("aggregator contract already exists")
	// ErrReceiptAlreadyExists ...
	ErrReceiptAlreadyExists = errors.New("receipt already exists")
	// ErrInvalidAmount is returned when a stored amount can't be parsed.
	ErrInvalidAmount = errors.New("invalid stored amount")
)
