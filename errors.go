package tracker

import "errors"

var (
	// ErrInsufficientHoldings is returned when a sell exceeds the held quantity.
	ErrInsufficientHoldings = errors.New("insufficient holdings")
	// ErrInvalidTransactionKind is returned for a kind other than buy or sell.
	ErrInvalidTransactionKind = errors.New("invalid transaction kind")
	// ErrUnknownInstrumentType is returned for an unrecognized instrument type tag.
	ErrUnknownInstrumentType = errors.New("unknown instrument type")
	// ErrInvalidTransactionFields is returned for non-positive quantity or price, or negative fee.
	ErrInvalidTransactionFields = errors.New("invalid transaction fields")
	// ErrPriceUnavailable is returned by a PriceProvider that has no quote.
	ErrPriceUnavailable = errors.New("price unavailable")
	// ErrCurrencyMismatch is returned when amounts in different currencies would be combined.
	ErrCurrencyMismatch = errors.New("currency mismatch")
)
