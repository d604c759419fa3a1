package repository

import "errors"

var (
	// ErrInvalidSymbol is returned for an empty symbol.
	ErrInvalidSymbol = errors.New("symbol is required")
	// ErrSymbolNotFound is returned when the provider does not know the symbol.
	ErrSymbolNotFound = errors.New("symbol not found")
	// ErrProviderUnavailable is returned while the circuit breaker is open.
	ErrProviderUnavailable = errors.New("market data provider unavailable")
)
