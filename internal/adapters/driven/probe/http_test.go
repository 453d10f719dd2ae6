package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPProber_AnyStatusIsReachable(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusNotFound, http.StatusMethodNotAllowed, http.StatusInternalServerError} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodHead, r.Method)
			assert.Equal(t, "no-cache", r.Header.Get("Cache-Control"))
			assert.Equal(t, "no-cache", r.Header.Get("Pragma"))
			w.WriteHeader(status)
		}))

		err := NewHTTPProber(server.Client()).Probe(context.Background(), server.URL)
		server.Close()

		assert.NoError(t, err, "status %d", status)
	}
}

func TestHTTPProber_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	assert.Error(t, NewHTTPProber(nil).Probe(context.Background(), url))
}

func TestHTTPProber_InvalidURL(t *testing.T) {
	assert.Error(t, NewHTTPProber(nil).Probe(context.Background(), "://bad"))
}
