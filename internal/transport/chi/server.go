package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/shopsearch/internal/domain"
	dombatch "github.com/kailas-cloud/shopsearch/internal/domain/batch"
	"github.com/kailas-cloud/shopsearch/internal/domain/intent"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/request"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/result"
	batchuc "github.com/kailas-cloud/shopsearch/internal/usecase/batch"
	healthuc "github.com/kailas-cloud/shopsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/shopsearch/internal/usecase/search"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Options holds request defaults taken from configuration.
type Options struct {
	// PriceCeiling is the price_max value that means "no limit".
	PriceCeiling          float64
	DefaultLimit          int
	DynamicPricingDefault bool
}

// Server serves the catalog search HTTP API.
type Server struct {
	search        *searchuc.Service
	batch         *batchuc.Service
	health        *healthuc.Service
	opts          Options
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	batch *batchuc.Service,
	health *healthuc.Service,
	opts Options,
	logger *zap.Logger,
) *Server {
	if opts.PriceCeiling <= 0 {
		opts.PriceCeiling = filter.DefaultPriceCeiling
	}
	s := &Server{
		search: search,
		batch:  batch,
		health: health,
		opts:   opts,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrCatalogNotLoaded, http.StatusServiceUnavailable, ErrorCodeCatalogNotLoaded),
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrInvalidCatalog, http.StatusUnprocessableEntity, ErrorCodeInvalidCatalog),
		sentinelHandler(domain.ErrUnsupportedFormat, http.StatusUnprocessableEntity, ErrorCodeUnsupportedFormat),
	}
	return s
}

// Routes registers the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/search", s.Search)
	r.Post("/search/batch", s.BatchSearch)
	r.Get("/intent", s.Intent)
	r.Get("/categories", s.Categories)
	r.Post("/catalog/reload", s.Reload)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Search handles GET /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	params, err := bindSearchParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}

	req, err := s.requestFrom(BatchQuery{
		Q:              deref(params.Q),
		Category:       params.Category,
		PriceMax:       params.PriceMax,
		RatingMin:      params.RatingMin,
		DynamicPricing: params.DynamicPricing,
		Limit:          params.Limit,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	set, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse(set, req.Limit()))
}

// BatchSearch handles POST /search/batch.
func (s *Server) BatchSearch(w http.ResponseWriter, r *http.Request) {
	var body BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(body.Queries) == 0 {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "queries must not be empty")
		return
	}

	reqs := make([]request.Request, len(body.Queries))
	for i, q := range body.Queries {
		req, err := s.requestFrom(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed,
				fmt.Sprintf("queries[%d]: %s", i, err.Error()))
			return
		}
		reqs[i] = req
	}

	results := s.batch.Search(r.Context(), reqs)

	resp := BatchResponse{Results: make([]BatchResultItem, len(results))}
	for i, res := range results {
		resp.Results[i] = batchResultItem(res, reqs[i].Limit())
		if res.Status() == dombatch.StatusOK {
			resp.Succeeded++
		} else {
			resp.Failed++
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Intent handles GET /intent.
func (s *Server) Intent(w http.ResponseWriter, r *http.Request) {
	var q *string
	if err := runtime.BindQueryParameter("form", true, false, "q", r.URL.Query(), &q); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, fmt.Sprintf("Invalid format for parameter q: %s", err))
		return
	}
	query := deref(q)

	ex := s.search.Explain(query)
	hits := make([]RuleHit, len(ex.Hits))
	for i, h := range ex.Hits {
		hits[i] = RuleHit{Constraint: string(h.Constraint), Rule: h.Rule, Match: h.Match}
	}
	writeJSON(w, http.StatusOK, IntentResponse{
		Query:  query,
		Intent: intentToDTO(ex.Intent),
		Rules:  hits,
	})
}

// Categories handles GET /categories.
func (s *Server) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.search.Categories()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CategoriesResponse{Categories: cats})
}

// Reload handles POST /catalog/reload.
func (s *Server) Reload(w http.ResponseWriter, r *http.Request) {
	snap, err := s.search.Reload(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ReloadResponse{
		Items:      snap.Catalog.Len(),
		Vocabulary: snap.Engine.VocabularySize(),
		Version:    snap.Version,
		LoadedAt:   snap.LoadedAt.UTC().Format(time.RFC3339),
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// bindSearchParams binds GET /search query parameters (form style, exploded).
func bindSearchParams(r *http.Request) (SearchParams, error) {
	var params SearchParams
	q := r.URL.Query()

	bindings := []struct {
		name string
		dest any
	}{
		{"q", &params.Q},
		{"category", &params.Category},
		{"price_max", &params.PriceMax},
		{"rating_min", &params.RatingMin},
		{"dynamic_pricing", &params.DynamicPricing},
		{"limit", &params.Limit},
	}
	for _, b := range bindings {
		if err := runtime.BindQueryParameter("form", true, false, b.name, q, b.dest); err != nil {
			return SearchParams{}, fmt.Errorf("Invalid format for parameter %s: %w", b.name, err)
		}
	}
	return params, nil
}

// requestFrom applies sidebar semantics to raw parameters and validates them.
func (s *Server) requestFrom(q BatchQuery) (request.Request, error) {
	constraints := filter.FromOptional(q.PriceMax, q.RatingMin, deref(q.Category), s.opts.PriceCeiling)

	dynamic := s.opts.DynamicPricingDefault
	if q.DynamicPricing != nil {
		dynamic = *q.DynamicPricing
	}
	limit := s.opts.DefaultLimit
	if q.Limit != nil {
		limit = *q.Limit
	}
	if limit < 0 {
		return request.Request{}, fmt.Errorf("limit must not be negative")
	}

	req, err := request.New(q.Q, constraints, dynamic, limit)
	if err != nil {
		return request.Request{}, err
	}
	return req, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrCatalogNotLoaded,
		domain.ErrInvalidRequest,
		domain.ErrInvalidCatalog,
		domain.ErrUnsupportedFormat,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}

func searchResponse(set result.Set, limit int) SearchResponse {
	items := make([]Item, len(set.Items))
	for i, si := range set.Items {
		it := si.Item()
		items[i] = Item{
			ID:            it.ID(),
			Name:          it.Name(),
			Description:   it.Description(),
			Category:      it.Category(),
			Price:         it.Price(),
			BasePrice:     it.BasePrice(),
			PriceAdjusted: it.PriceAdjusted(),
			Rating:        it.Rating(),
			Score:         si.Score(),
		}
	}
	return SearchResponse{
		Items:   items,
		Total:   set.Total,
		Limit:   limit,
		Mode:    string(set.Mode),
		Intent:  intentToDTO(set.Intent),
		Applied: Constraints(set.Applied),
	}
}

func intentToDTO(in intent.Intent) Constraints {
	return Constraints{PriceMax: in.PriceMax, RatingMin: in.RatingMin, Category: in.Category}
}

func batchResultItem(r dombatch.Result, limit int) BatchResultItem {
	item := BatchResultItem{Query: r.Query(), Status: string(r.Status())}
	if r.Err() != nil {
		code := ErrorCodeInternalError
		switch {
		case errors.Is(r.Err(), domain.ErrCatalogNotLoaded):
			code = ErrorCodeCatalogNotLoaded
		case errors.Is(r.Err(), domain.ErrInvalidRequest):
			code = ErrorCodeValidationFailed
		}
		item.Error = &ErrorResponse{Code: code, Message: safeDomainMessage(r.Err())}
		return item
	}
	resp := searchResponse(r.Set(), limit)
	item.Result = &resp
	return item
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
