// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docsapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/libdocs/internal/metrics"
	"github.com/pdiddy/libdocs/pkg/types"
)

// sleepRecorder stands in for the backoff timer and records each wait.
type sleepRecorder struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (r *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.waits = append(r.waits, d)
	return ctx.Err()
}

func testTransport(t *testing.T, ts *httptest.Server) (*Transport, *sleepRecorder) {
	t.Helper()
	rec := &sleepRecorder{}
	tr := NewTransport(types.ClientConfig{
		BaseURL:     ts.URL,
		APIKey:      "ctx7-test-key",
		RetryConfig: types.RetryConfig{MaxAttempts: 3, BaseDelay: 10 * time.Millisecond},
	}, zerolog.Nop(), metrics.New())
	tr.Client = ts.Client()
	tr.Sleep = rec.sleep
	return tr, rec
}

func TestSendMissingCredentialMakesNoCall(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer ts.Close()

	tr, _ := testTransport(t, ts)
	tr.Config.APIKey = "  "

	err := tr.Send(context.Background(), "/search", url.Values{"q": {"react"}}, nil)
	assert.True(t, types.IsKind(err, types.KindMissingCredential), "got %v", err)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestSendHeaders(t *testing.T) {
	var captured *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		fmt.Fprint(w, `{"results":[]}`)
	}))
	defer ts.Close()

	tr, _ := testTransport(t, ts)
	tr.Config.UserAgent = "libdocs/test"

	var out searchResponse
	require.NoError(t, tr.Send(context.Background(), "/search", url.Values{"q": {"react"}}, &out))

	assert.Equal(t, "Bearer ctx7-test-key", captured.Header.Get("Authorization"))
	assert.Equal(t, types.DefaultSourceTag, captured.Header.Get("X-Context7-Source"))
	assert.Equal(t, "libdocs/test", captured.Header.Get("User-Agent"))
	assert.NotEmpty(t, captured.Header.Get("X-Request-ID"))
	assert.Equal(t, "/search", captured.URL.Path)
	assert.Equal(t, "react", captured.URL.Query().Get("q"))
}

func TestSendRateLimitedWaitsAndSurfacesRateLimited(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":"Rate limit exceeded","retryAfterSeconds":2}`)
	}))
	defer ts.Close()

	tr, rec := testTransport(t, ts)
	err := tr.Send(context.Background(), "/facebook/react", nil, &types.DocResponse{})

	var apiErr *types.APIError
	require.True(t, errors.As(err, &apiErr), "got %v", err)
	assert.Equal(t, types.KindRateLimited, apiErr.Kind)
	assert.Equal(t, 2, apiErr.RetryAfterSeconds)

	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	require.Len(t, rec.waits, 2)
	for _, w := range rec.waits {
		assert.GreaterOrEqual(t, w, 2*time.Second)
	}
	assert.Equal(t, 2.0, testutil.ToFloat64(tr.Metrics.RetriesTotal.WithLabelValues("rate_limited")))
}

func TestSendAuthFailedIsNotRetried(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"Invalid API key"}`)
	}))
	defer ts.Close()

	tr, rec := testTransport(t, ts)
	err := tr.Send(context.Background(), "/facebook/react", nil, &types.DocResponse{})

	assert.True(t, types.IsKind(err, types.KindAuthFailed), "got %v", err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Empty(t, rec.waits)
}

func TestSendNotFoundIsNotRetried(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	tr, _ := testTransport(t, ts)
	err := tr.Send(context.Background(), "/nobody/nothing", nil, &types.DocResponse{})
	assert.True(t, types.IsKind(err, types.KindNotFound))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestSendServerErrorThenSuccess(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"content":"# Routing","library":"/vercel/next.js","version":"v15.1.8"}`)
	}))
	defer ts.Close()

	tr, rec := testTransport(t, ts)
	var out types.DocResponse
	require.NoError(t, tr.Send(context.Background(), "/vercel/next.js", nil, &out))

	assert.Equal(t, "# Routing", out.Content)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Equal(t, []time.Duration{10 * time.Millisecond}, rec.waits)
}

func TestSendServerErrorBackoffDoubles(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	tr, rec := testTransport(t, ts)
	tr.Config.MaxAttempts = 4
	err := tr.Send(context.Background(), "/vercel/next.js", nil, &types.DocResponse{})

	assert.True(t, types.IsKind(err, types.KindServerError))
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 40 * time.Millisecond}, rec.waits)
}

func TestSendMalformedSuccessIsNotRetried(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, `{"content":`)
	}))
	defer ts.Close()

	tr, _ := testTransport(t, ts)
	err := tr.Send(context.Background(), "/vercel/next.js", nil, &types.DocResponse{})
	assert.True(t, types.IsKind(err, types.KindMalformedResponse))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestSendNetworkErrorIsRetried(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	baseURL := ts.URL
	ts.Close()

	tr, rec := testTransport(t, ts)
	tr.Config.BaseURL = baseURL
	tr.Client = &http.Client{Timeout: time.Second}

	err := tr.Send(context.Background(), "/vercel/next.js", nil, &types.DocResponse{})
	assert.True(t, types.IsKind(err, types.KindNetworkError), "got %v", err)
	assert.Len(t, rec.waits, 2)
}

func TestSendAttemptTimeoutIsNetworkError(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			select {
			case <-time.After(2 * time.Second):
			case <-r.Context().Done():
			}
			return
		}
		fmt.Fprint(w, `{"results":[{"title":"React","id":"/facebook/react"}]}`)
	}))
	defer ts.Close()

	tr, _ := testTransport(t, ts)
	client := ts.Client()
	client.Timeout = 50 * time.Millisecond
	tr.Client = client

	var out searchResponse
	require.NoError(t, tr.Send(context.Background(), "/search", url.Values{"q": {"react"}}, &out))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	require.Len(t, out.Results, 1)
}

func TestSendContextCancelledSurfacesLastError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	tr, _ := testTransport(t, ts)
	tr.Sleep = nil
	tr.Config.BaseDelay = time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := tr.Send(ctx, "/vercel/next.js", nil, &types.DocResponse{})
	assert.True(t, types.IsKind(err, types.KindServerError), "got %v", err)
}

func TestSendPacingLimiter(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, `{"results":[]}`)
	}))
	defer ts.Close()

	tr := NewTransport(types.ClientConfig{
		BaseURL:           ts.URL,
		APIKey:            "k",
		RequestsPerSecond: 1000,
	}, zerolog.Nop(), nil)
	require.NotNil(t, tr.Limiter)
	tr.Client = ts.Client()

	for i := 0; i < 3; i++ {
		require.NoError(t, tr.Send(context.Background(), "/search", url.Values{"q": {"x"}}, &searchResponse{}))
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestSendRecordsRequestMetrics(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"results":[]}`)
	}))
	defer ts.Close()

	tr, _ := testTransport(t, ts)
	require.NoError(t, tr.Send(context.Background(), "/search", url.Values{"q": {"x"}}, &searchResponse{}))
	assert.Equal(t, 1.0, testutil.ToFloat64(tr.Metrics.RequestsTotal.WithLabelValues("search", "ok")))
}
