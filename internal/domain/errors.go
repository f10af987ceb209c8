package domain

import "errors"

var (
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrInsufficientBalance = errors.New("insufficient balance for plan purchase")
	ErrInvalidAmount       = errors.New("transaction amount must be greater than zero")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrPlanNotFound        = errors.New("plan not found")
	ErrKeyNotFound         = errors.New("key not found")
	ErrStorageCorruption   = errors.New("stored value is corrupted")
	ErrLockNotAcquired     = errors.New("could not acquire user lock")
)
