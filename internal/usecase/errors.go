package usecase

import "errors"

var (
	// ErrSymbolRequired is returned when a ticker request carries no symbol.
	ErrSymbolRequired = errors.New("ticker symbol required")

	// ErrNotCandidate is returned when a deploy targets a model that is
	// not in the ticker's candidate set.
	ErrNotCandidate = errors.New("model not in candidates")

	// ErrNoModels is returned when a ticker has an empty candidate set.
	ErrNoModels = errors.New("no models available")

	// ErrNoForecast is returned when a ticker has no forecast points yet.
	ErrNoForecast = errors.New("no forecast available")
)
