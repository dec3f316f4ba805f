package service

import "errors"

var (
	// ErrInvalidOrderReference is returned when an order reference is empty
	// after normalization.
	ErrInvalidOrderReference = errors.New("invalid order reference")

	// ErrInvalidAmount is returned when an amount is not a positive decimal.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidCurrency is returned when the currency is empty.
	ErrInvalidCurrency = errors.New("invalid currency")
)
