package domain

import "errors"

var (
	// ErrInvalidCatalog signals a catalog record that violates item invariants.
	ErrInvalidCatalog = errors.New("invalid catalog")
	// ErrCatalogNotLoaded signals a search issued before any catalog snapshot exists.
	ErrCatalogNotLoaded = errors.New("catalog not loaded")
	// ErrInvalidRequest signals malformed search parameters.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnsupportedFormat signals a catalog file format the provider cannot decode.
	ErrUnsupportedFormat = errors.New("unsupported catalog format")
)
