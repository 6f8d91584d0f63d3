package service

import "errors"

// ErrCurrencyNotSupported matches every *CurrencyNotSupportedError via errors.Is.
var ErrCurrencyNotSupported = errors.New("currency is not supported")

// ErrRateUnavailable indicates the source answered but has no rate for the requested code.
var ErrRateUnavailable = errors.New("rate unavailable")

// ErrInvalidCurrencyCode indicates a malformed currency code.
var ErrInvalidCurrencyCode = errors.New("invalid currency code format")

// CurrencyNotSupportedError reports a currency code the rates source could not resolve.
type CurrencyNotSupportedError struct {
	Code string
	Err  error
}

func (e *CurrencyNotSupportedError) Error() string {
	return "currency is not supported: " + e.Code
}

// Unwrap returns the source failure.
func (e *CurrencyNotSupportedError) Unwrap() error { return e.Err }

// Is reports whether target is ErrCurrencyNotSupported.
func (e *CurrencyNotSupportedError) Is(target error) bool {
	return target == ErrCurrencyNotSupported
}
