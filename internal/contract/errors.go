package contract

import "errors"

// Contract errors. All are sentinels so callers can match with errors.Is;
// the call sites wrap them with human-readable context.
var (
	// ErrSupplyExceeded is returned when a mint would push the minted
	// count past the collection's maximum supply.
	ErrSupplyExceeded = errors.New("supply exceeded")

	// ErrPaymentNotFound is returned when the submitted transaction
	// carries no output paying the treasury at least the mint price.
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrTokenNotFound is returned by provenance queries for ids that
	// were never minted.
	ErrTokenNotFound = errors.New("token not found")
)
