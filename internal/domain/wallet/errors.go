package wallet

import "errors"

var (
	ErrDriverNotFound   = errors.New("driver not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrOrderNotOwned    = errors.New("order belongs to another driver")
	ErrOrderAlreadyPaid = errors.New("order already paid")
	ErrInvalidSignature = errors.New("payment signature mismatch")
	ErrInvalidAmount    = errors.New("amount must be positive")
)
