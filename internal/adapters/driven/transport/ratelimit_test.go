package transport

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_NilNeverBlocks(t *testing.T) {
	var l *Limiter
	assert.NoError(t, l.Wait(context.Background()))
}

func TestLimiter_DisabledRate(t *testing.T) {
	l := NewLimiter(0)
	for i := 0; i < 100; i++ {
		require.NoError(t, l.Wait(context.Background()))
	}
}

func TestLimiter_RespectsContext(t *testing.T) {
	l := NewLimiter(0.001)
	require.NoError(t, l.Wait(context.Background())) // consume the burst

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.Error(t, l.Wait(ctx))
}

func TestRetryAfter(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		status   int
		header   string
		expected time.Duration
	}{
		{"seconds on 429", http.StatusTooManyRequests, "30", 30 * time.Second},
		{"seconds on 503", http.StatusServiceUnavailable, "5", 5 * time.Second},
		{"ignored on 500", http.StatusInternalServerError, "30", 0},
		{"missing header", http.StatusTooManyRequests, "", 0},
		{"negative", http.StatusTooManyRequests, "-1", 0},
		{"http date", http.StatusTooManyRequests, now.Add(2 * time.Minute).Format(http.TimeFormat), 2 * time.Minute},
		{"past date", http.StatusTooManyRequests, now.Add(-time.Minute).Format(http.TimeFormat), 0},
		{"garbage", http.StatusTooManyRequests, "soon", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &http.Response{StatusCode: tt.status, Header: http.Header{}}
			if tt.header != "" {
				resp.Header.Set(HeaderRetryAfter, tt.header)
			}
			assert.Equal(t, tt.expected, RetryAfter(resp, now))
		})
	}

	assert.Zero(t, RetryAfter(nil, now))
}
