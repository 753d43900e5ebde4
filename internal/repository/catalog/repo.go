// Package catalog loads product catalogs from JSON or YAML files.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/shopsearch/internal/domain"
	domcat "github.com/kailas-cloud/shopsearch/internal/domain/catalog"
)

// Format is a catalog file encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%q: %w", path, domain.ErrUnsupportedFormat)
	}
}

// Repo reads a catalog file on every Load.
type Repo struct {
	path   string
	format Format
}

// New creates a file-backed catalog repository. An empty format is inferred from the path.
func New(path string, format Format) (*Repo, error) {
	if format == "" {
		f, err := FormatFromPath(path)
		if err != nil {
			return nil, err
		}
		format = f
	}
	if format != FormatJSON && format != FormatYAML {
		return nil, fmt.Errorf("format %q: %w", format, domain.ErrUnsupportedFormat)
	}
	return &Repo{path: path, format: format}, nil
}

// Path returns the catalog file path.
func (r *Repo) Path() string { return r.path }

// Ping checks that the catalog file is still readable.
func (r *Repo) Ping(_ context.Context) error {
	if _, err := os.Stat(r.path); err != nil {
		return fmt.Errorf("stat catalog %s: %w", r.path, err)
	}
	return nil
}

// Load reads and validates the catalog file.
func (r *Repo) Load(ctx context.Context) (domcat.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return domcat.Catalog{}, fmt.Errorf("load catalog: %w", err)
	}
	f, err := os.Open(filepath.Clean(r.path))
	if err != nil {
		return domcat.Catalog{}, fmt.Errorf("open catalog %s: %w", r.path, err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f, r.format)
}

// Decode parses a catalog from r.
func Decode(r io.Reader, format Format) (domcat.Catalog, error) {
	var records []record
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&records); err != nil {
			return domcat.Catalog{}, fmt.Errorf("decode json catalog: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&records); err != nil && !errors.Is(err, io.EOF) {
			return domcat.Catalog{}, fmt.Errorf("decode yaml catalog: %w", err)
		}
	default:
		return domcat.Catalog{}, fmt.Errorf("format %q: %w", format, domain.ErrUnsupportedFormat)
	}

	c, err := toDomain(records)
	if err != nil {
		return domcat.Catalog{}, fmt.Errorf("%w: %w", domain.ErrInvalidCatalog, err)
	}
	return c, nil
}

// Encode writes c in the given format. Base prices are always written.
func Encode(w io.Writer, c domcat.Catalog, format Format) error {
	records := fromDomain(c)
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("encode json catalog: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		defer func() { _ = enc.Close() }()
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("encode yaml catalog: %w", err)
		}
	default:
		return fmt.Errorf("format %q: %w", format, domain.ErrUnsupportedFormat)
	}
	return nil
}

// Static serves a fixed, already validated catalog.
type Static struct {
	catalog domcat.Catalog
}

// NewStatic wraps an in-memory catalog.
func NewStatic(c domcat.Catalog) *Static { return &Static{catalog: c} }

// Load returns the wrapped catalog.
func (s *Static) Load(_ context.Context) (domcat.Catalog, error) { return s.catalog, nil }
