package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func serveAuth(t *testing.T, keys []string, path, header string) *httptest.ResponseRecorder {
	t.Helper()
	handler := BearerAuthMiddleware(keys)(okHandler())

	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestAuthMiddleware_Disabled(t *testing.T) {
	assert.Equal(t, http.StatusOK, serveAuth(t, nil, "/search", "").Code)
	assert.Equal(t, http.StatusOK, serveAuth(t, []string{"", ""}, "/search", "").Code)
}

func TestAuthMiddleware_MissingHeader_401(t *testing.T) {
	rr := serveAuth(t, []string{"secret"}, "/search", "")
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&errResp))
	assert.Equal(t, ErrorCodeUnauthorized, errResp.Code)
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"basic scheme", "Basic dXNlcjpwYXNz"},
		{"wrong key", "Bearer wrong-key"},
		{"empty token", "Bearer "},
		{"lowercase scheme", "bearer secret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, serveAuth(t, []string{"secret"}, "/search", tt.header).Code)
		})
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	for _, key := range []string{"key1", "key2"} {
		rr := serveAuth(t, []string{"key1", "key2"}, "/intent", "Bearer "+key)
		assert.Equal(t, http.StatusOK, rr.Code, "key %s", key)
	}
}

func TestAuthMiddleware_ExemptPaths(t *testing.T) {
	for _, path := range []string{"/health", "/metrics"} {
		assert.Equal(t, http.StatusOK, serveAuth(t, []string{"secret"}, path, "").Code, path)
	}
}
