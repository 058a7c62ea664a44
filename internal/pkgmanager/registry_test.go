package pkgmanager

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", WithHTTPClient(srv.Client()))
}

func TestGetRemoteVersion(t *testing.T) {
	var gotPath string
	c := newRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"latest":"1.0.0","next":"1.0.1-beta.0"}`))
	})

	v, err := c.GetRemoteVersion(context.Background(), "@jijiang/packages-box", "next")
	require.NoError(t, err)
	assert.Equal(t, "1.0.1-beta.0", v)
	assert.Equal(t, "/-/package/@jijiang%2Fpackages-box/dist-tags", gotPath)
}

func TestGetRemoteVersionErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		tag     string
		wantMsg string
	}{
		{"not found", http.StatusNotFound, "", "latest", "not found"},
		{"server error", http.StatusInternalServerError, "", "latest", "status 500"},
		{"bad json", http.StatusOK, "<html>", "latest", "parsing dist-tags"},
		{"missing tag", http.StatusOK, `{"latest":"1.0.0"}`, "next", `no "next" dist-tag`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newRegistry(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := c.GetRemoteVersion(context.Background(), "vue", tt.tag)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestGetRemoteVersionCancelled(t *testing.T) {
	c := newRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"latest":"1.0.0"}`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetRemoteVersion(ctx, "vue", "latest")
	assert.ErrorIs(t, err, context.Canceled)
}
