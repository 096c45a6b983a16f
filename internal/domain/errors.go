package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrValidation          = errors.New("validation failed")
	ErrInsufficientBalance = errors.New("insufficient credit ledger balance")
	ErrInvalidGSTRate      = errors.New("gst rate not in notified rate schedule")
	ErrInvalidChallan      = errors.New("invalid challan number")
	ErrInvalidPaymentMode  = errors.New("payment mode not in allowed set")
	ErrPeriodClosed        = errors.New("return period is closed")
	ErrDuplicateEmail      = errors.New("email already exists for this registration")
	ErrDuplicateGSTIN      = errors.New("registration gstin already exists")
	ErrUserInactive        = errors.New("user is inactive")
)
