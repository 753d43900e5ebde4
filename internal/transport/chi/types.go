package chi

// ErrorCode is a machine-readable error identifier.
type ErrorCode string

// Error codes returned by the API.
const (
	ErrorCodeBadRequest        ErrorCode = "bad_request"
	ErrorCodeValidationFailed  ErrorCode = "validation_failed"
	ErrorCodeUnauthorized      ErrorCode = "unauthorized"
	ErrorCodeCatalogNotLoaded  ErrorCode = "catalog_not_loaded"
	ErrorCodeInvalidCatalog    ErrorCode = "invalid_catalog"
	ErrorCodeUnsupportedFormat ErrorCode = "unsupported_format"
	ErrorCodeInternalError     ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// SearchParams are the query parameters of GET /search.
type SearchParams struct {
	Q              *string  `json:"q,omitempty"`
	Category       *string  `json:"category,omitempty"`
	PriceMax       *float64 `json:"price_max,omitempty"`
	RatingMin      *float64 `json:"rating_min,omitempty"`
	DynamicPricing *bool    `json:"dynamic_pricing,omitempty"`
	Limit          *int     `json:"limit,omitempty"`
}

// Item is one ranked product.
type Item struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	Price         float64 `json:"price"`
	BasePrice     float64 `json:"base_price"`
	PriceAdjusted bool    `json:"price_adjusted"`
	Rating        float64 `json:"rating"`
	Score         float64 `json:"score"`
}

// Constraints mirrors a set of optional filters.
type Constraints struct {
	PriceMax  *float64 `json:"price_max"`
	RatingMin *float64 `json:"rating_min"`
	Category  *string  `json:"category"`
}

// SearchResponse is the body of GET /search.
type SearchResponse struct {
	Items   []Item      `json:"items"`
	Total   int         `json:"total"`
	Limit   int         `json:"limit"`
	Mode    string      `json:"mode"`
	Intent  Constraints `json:"intent"`
	Applied Constraints `json:"applied"`
}

// RuleHit names the rule that decided one constraint.
type RuleHit struct {
	Constraint string `json:"constraint"`
	Rule       string `json:"rule"`
	Match      string `json:"match"`
}

// IntentResponse is the body of GET /intent.
type IntentResponse struct {
	Query  string      `json:"query"`
	Intent Constraints `json:"intent"`
	Rules  []RuleHit   `json:"rules"`
}

// CategoriesResponse is the body of GET /categories.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// ReloadResponse is the body of POST /catalog/reload.
type ReloadResponse struct {
	Items      int    `json:"items"`
	Vocabulary int    `json:"vocabulary"`
	Version    int64  `json:"version"`
	LoadedAt   string `json:"loaded_at"`
}

// BatchQuery is one search inside POST /search/batch.
type BatchQuery struct {
	Q              string   `json:"q"`
	Category       *string  `json:"category,omitempty"`
	PriceMax       *float64 `json:"price_max,omitempty"`
	RatingMin      *float64 `json:"rating_min,omitempty"`
	DynamicPricing *bool    `json:"dynamic_pricing,omitempty"`
	Limit          *int     `json:"limit,omitempty"`
}

// BatchRequest is the body of POST /search/batch.
type BatchRequest struct {
	Queries []BatchQuery `json:"queries"`
}

// BatchResultItem is the outcome of one batch query.
type BatchResultItem struct {
	Query  string          `json:"query"`
	Status string          `json:"status"`
	Error  *ErrorResponse  `json:"error,omitempty"`
	Result *SearchResponse `json:"result,omitempty"`
}

// BatchResponse is the body of POST /search/batch.
type BatchResponse struct {
	Results   []BatchResultItem `json:"results"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
