package batch

import "github.com/kailas-cloud/shopsearch/internal/domain/search/result"

// ItemStatus is the processing outcome of a single batch item.
type ItemStatus string

// Batch item status values.
const (
	StatusOK    ItemStatus = "ok"
	StatusError ItemStatus = "error"
)

// Result is the outcome of one query in a batch search.
type Result struct {
	query  string
	status ItemStatus
	set    result.Set
	err    error
}

// NewOK creates a successful batch result.
func NewOK(query string, set result.Set) Result {
	return Result{query: query, status: StatusOK, set: set}
}

// NewError creates a failed batch result.
func NewError(query string, err error) Result {
	return Result{query: query, status: StatusError, err: err}
}

// Query returns the query text.
func (r Result) Query() string { return r.query }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Set returns the search outcome; empty on error.
func (r Result) Set() result.Set { return r.set }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }
