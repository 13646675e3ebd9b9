package service

import "errors"

var (
	// ErrTickerNotFound means the symbol resolves to no known equity.
	ErrTickerNotFound = errors.New("ticker not found")

	// ErrUnsupportedLanguage rejects profile or digest languages outside the
	// supported set.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrNothingToUpdate rejects profile updates with no fields set.
	ErrNothingToUpdate = errors.New("nothing to update")
)
