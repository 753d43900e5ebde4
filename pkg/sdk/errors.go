package sdk

import (
	"errors"
	"fmt"

	"github.com/kailas-cloud/shopsearch/internal/domain"
)

// Sentinel errors matched by APIError. Use errors.Is() to check.
var (
	ErrCatalogNotLoaded  = domain.ErrCatalogNotLoaded
	ErrInvalidRequest    = domain.ErrInvalidRequest
	ErrInvalidCatalog    = domain.ErrInvalidCatalog
	ErrUnsupportedFormat = domain.ErrUnsupportedFormat
	ErrUnauthorized      = errors.New("unauthorized")
)

var codeSentinels = map[string]error{
	"catalog_not_loaded": ErrCatalogNotLoaded,
	"validation_failed":  ErrInvalidRequest,
	"bad_request":        ErrInvalidRequest,
	"invalid_catalog":    ErrInvalidCatalog,
	"unsupported_format": ErrUnsupportedFormat,
	"unauthorized":       ErrUnauthorized,
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`

	body []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("shopsearch: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Unwrap maps the error code to its sentinel.
func (e *APIError) Unwrap() error {
	return codeSentinels[e.Code]
}
