package mode

import "strings"

// Mode is the result ordering strategy.
type Mode string

// Search mode constants.
const (
	// Search ranks by query similarity, then rating.
	Search Mode = "search"
	// Browse has no query and orders by rating only.
	Browse Mode = "browse"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Search || m == Browse
}

// For picks the mode implied by a query: blank queries browse.
func For(query string) Mode {
	if strings.TrimSpace(query) == "" {
		return Browse
	}
	return Search
}
