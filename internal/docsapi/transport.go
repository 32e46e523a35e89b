// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docsapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/pdiddy/libdocs/internal/httputil"
	"github.com/pdiddy/libdocs/internal/metrics"
	"github.com/pdiddy/libdocs/pkg/types"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 32 << 20

// Doer sends one HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Sender performs one authenticated GET with retries and decodes the JSON
// body into out. Transport implements it; tests substitute fakes.
type Sender interface {
	Send(ctx context.Context, path string, params url.Values, out any) error
}

// Transport authenticates, dispatches, classifies, and retries requests to
// the documentation service. It holds no per-call state and is safe for
// concurrent use.
type Transport struct {
	Client  Doer
	Config  types.ClientConfig
	Limiter *rate.Limiter
	Logger  zerolog.Logger
	Metrics *metrics.Metrics

	// Sleep replaces the backoff timer; nil uses a real timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewTransport returns a Transport for cfg with an http.Client bounded by
// cfg.Timeout per attempt. Pacing is enabled when cfg.RequestsPerSecond > 0.
func NewTransport(cfg types.ClientConfig, log zerolog.Logger, m *metrics.Metrics) *Transport {
	cfg = cfg.WithDefaults()
	t := &Transport{
		Client:  &http.Client{Timeout: cfg.Timeout},
		Config:  cfg,
		Logger:  log,
		Metrics: m,
	}
	if cfg.RequestsPerSecond > 0 {
		t.Limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return t
}

// Send performs GET BaseURL+path?params and decodes a 200 body into out.
// A missing API key fails with KindMissingCredential before any I/O.
// Transient failures are retried per Config; the last classified error is
// returned when attempts run out.
func (t *Transport) Send(ctx context.Context, path string, params url.Values, out any) error {
	if strings.TrimSpace(t.Config.APIKey) == "" {
		return &types.APIError{
			Kind:    types.KindMissingCredential,
			Message: "no API key configured: set LIBDOCS_API_KEY or CONTEXT7_API_KEY, or pass --api-key",
		}
	}

	reqURL := strings.TrimSuffix(t.Config.BaseURL, "/") + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}
	endpoint := endpointLabel(path)
	requestID := uuid.NewString()
	log := t.Logger.With().Str("request_id", requestID).Str("endpoint", endpoint).Logger()

	policy := httputil.Policy{
		MaxAttempts: t.Config.MaxAttempts,
		BaseDelay:   t.Config.BaseDelay,
		Sleep:       t.Sleep,
		OnRetry: func(attempt int, wait time.Duration, err error) {
			kind := types.KindOf(err)
			t.Metrics.ObserveRetry(string(kind))
			log.Warn().
				Int("attempt", attempt).
				Dur("wait", wait).
				Str("kind", string(kind)).
				Err(err).
				Msg("retrying request")
		},
	}

	return httputil.Retry(ctx, policy, func(ctx context.Context, attempt int) error {
		log.Debug().Int("attempt", attempt).Str("url", reqURL).Msg("sending request")
		return t.attempt(ctx, reqURL, endpoint, requestID, out)
	})
}

// attempt performs a single HTTP exchange and classifies it.
func (t *Transport) attempt(ctx context.Context, reqURL, endpoint, requestID string, out any) error {
	if t.Limiter != nil {
		if err := t.Limiter.Wait(ctx); err != nil {
			return &types.APIError{Kind: types.KindNetworkError, Err: fmt.Errorf("waiting for request slot: %w", err)}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &types.APIError{Kind: types.KindInvalidRequest, Message: "creating request: " + err.Error(), Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+t.Config.APIKey)
	req.Header.Set("X-Context7-Source", t.Config.SourceTag)
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if t.Config.UserAgent != "" {
		req.Header.Set("User-Agent", t.Config.UserAgent)
	}

	start := time.Now()
	resp, err := t.Client.Do(req)
	if err != nil {
		t.Metrics.ObserveRequest(endpoint, string(types.KindNetworkError), time.Since(start))
		return &types.APIError{Kind: types.KindNetworkError, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		t.Metrics.ObserveRequest(endpoint, string(types.KindNetworkError), time.Since(start))
		return &types.APIError{Kind: types.KindNetworkError, Status: resp.StatusCode, Err: fmt.Errorf("reading response body: %w", err)}
	}

	err = Classify(resp.StatusCode, resp.Header, body, out)
	outcome := "ok"
	if err != nil {
		outcome = string(types.KindOf(err))
	}
	t.Metrics.ObserveRequest(endpoint, outcome, time.Since(start))
	return err
}

func endpointLabel(path string) string {
	if path == searchPath {
		return "search"
	}
	return "docs"
}
