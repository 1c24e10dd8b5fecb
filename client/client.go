// Package client is the authenticated HTTP client for the LedgerLine
// backend. Every request carries the current session's bearer token; expired
// tokens get exactly one refresh attempt before the primary call goes out,
// and failures map onto a small status-code taxonomy.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const snippetLimit = 200

// Recorder receives a best-effort diagnostic record of every backend
// exchange. Recording runs on its own goroutine and can never delay or fail
// the caller's request.
type Recorder interface {
	Record(ctx context.Context, rec RequestRecord)
}

// RequestRecord is one backend exchange as seen by the client.
type RequestRecord struct {
	RequestID string
	Method    string
	Endpoint  string
	Status    int
	Duration  time.Duration
	Body      string
}

// logRecorder is the default Recorder: structured debug logging.
type logRecorder struct {
	logger *slog.Logger
}

func (r logRecorder) Record(ctx context.Context, rec RequestRecord) {
	r.logger.DebugContext(ctx, "backend exchange",
		"request_id", rec.RequestID,
		"method", rec.Method,
		"endpoint", rec.Endpoint,
		"status", rec.Status,
		"duration", rec.Duration,
		"body", rec.Body,
	)
}

// Client issues authenticated requests against the LedgerLine backend.
type Client struct {
	baseURL     string
	loginPath   string
	refreshPath string
	http        *http.Client
	cache       *SessionCache
	logger      *slog.Logger
	recorder    Recorder
	now         func() time.Time

	refreshGroup singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger replaces the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithRecorder replaces the default diagnostic recorder.
func WithRecorder(r Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

// WithClock injects a clock for the TTL and expiry checks. Test seam.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
		c.cache.now = now
	}
}

// New constructs a Client over the given backend configuration and session
// provider.
func New(cfg *Config, provider SessionProvider, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(cfg.BackendURL, "/"),
		loginPath:   cfg.LoginPath,
		refreshPath: cfg.RefreshPath,
		http:        &http.Client{Timeout: cfg.RequestTimeout},
		cache:       NewSessionCache(provider, cfg.SessionTTL),
		logger:      slog.Default(),
		now:         time.Now,
	}
	if c.loginPath == "" {
		c.loginPath = "/auth/login"
	}
	if c.refreshPath == "" {
		c.refreshPath = "/auth/refresh"
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.recorder == nil {
		c.recorder = logRecorder{logger: c.logger}
	}
	return c
}

// Do issues an authenticated request and decodes the success envelope.
// ErrNoSession is returned, without touching the network, when the session
// provider has nothing to offer.
func (c *Client) Do(ctx context.Context, method, endpoint string, body any, headers ...http.Header) (*Envelope, error) {
	sess, err := c.cache.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("session lookup: %w", err)
	}
	if sess == nil || sess.Token == "" {
		return nil, ErrNoSession
	}

	token := sess.Token
	if tokenExpired(token, c.now()) {
		fresh, err := c.sharedRefresh(ctx, token)
		if err != nil {
			// Refresh is best effort: fall through with the stale token
			// and let the backend reject it.
			c.logger.WarnContext(ctx, "token refresh failed", "error", err)
		} else {
			token = fresh
			c.cache.Swap(fresh, sess.ExpiresAt)
		}
	}

	return c.send(ctx, method, endpoint, token, body, headers...)
}

// Get issues an authenticated GET.
func (c *Client) Get(ctx context.Context, endpoint string, headers ...http.Header) (*Envelope, error) {
	return c.Do(ctx, http.MethodGet, endpoint, nil, headers...)
}

// Post issues an authenticated POST with a JSON body.
func (c *Client) Post(ctx context.Context, endpoint string, body any, headers ...http.Header) (*Envelope, error) {
	return c.Do(ctx, http.MethodPost, endpoint, body, headers...)
}

// Put issues an authenticated PUT with a JSON body.
func (c *Client) Put(ctx context.Context, endpoint string, body any, headers ...http.Header) (*Envelope, error) {
	return c.Do(ctx, http.MethodPut, endpoint, body, headers...)
}

// Delete issues an authenticated DELETE.
func (c *Client) Delete(ctx context.Context, endpoint string, headers ...http.Header) (*Envelope, error) {
	return c.Do(ctx, http.MethodDelete, endpoint, nil, headers...)
}

func (c *Client) send(ctx context.Context, method, endpoint, token string, body any, headers ...http.Header) (*Envelope, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	// The backend expects the token duplicated in a bare header.
	req.Header.Set("token", token)
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	for _, h := range headers {
		for key, values := range h {
			for _, v := range values {
				req.Header.Add(key, v)
			}
		}
	}

	start := c.now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	c.record(ctx, RequestRecord{
		RequestID: requestID,
		Method:    method,
		Endpoint:  endpoint,
		Status:    resp.StatusCode,
		Duration:  c.now().Sub(start),
		Body:      snippet(raw),
	})

	if resp.StatusCode < http.StatusOK || resp.StatusCode > 299 {
		return nil, c.statusError(resp.StatusCode, raw)
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &APIError{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("backend returned a non-JSON body: %s", snippet(raw)),
			kind:    ErrMalformedResponse,
		}
	}
	return &env, nil
}

// refreshEnvelope is the refresh endpoint's response shape.
type refreshEnvelope struct {
	Status int `json:"status"`
	Data   struct {
		Token string `json:"token"`
	} `json:"data"`
}

// sharedRefresh coalesces concurrent refresh attempts for the same stale
// token: the first caller performs the round trip, the rest share its result.
func (c *Client) sharedRefresh(ctx context.Context, oldToken string) (string, error) {
	v, err, _ := c.refreshGroup.Do(oldToken, func() (any, error) {
		return c.refresh(ctx, oldToken)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// refresh asks the backend for a new token, authenticating with the old one.
func (c *Client) refresh(ctx context.Context, oldToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.refreshPath, nil)
	if err != nil {
		return "", fmt.Errorf("build refresh request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+oldToken)
	req.Header.Set("token", oldToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("refresh call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode > 299 {
		return "", fmt.Errorf("refresh rejected with status %d", resp.StatusCode)
	}

	var env refreshEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return "", fmt.Errorf("decode refresh response: %w", err)
	}
	if env.Data.Token == "" {
		return "", errors.New("refresh response carried no token")
	}
	return env.Data.Token, nil
}

// record hands the exchange to the recorder on its own goroutine. Recording
// is diagnostics only; a panicking recorder must not surface to the caller.
func (c *Client) record(ctx context.Context, rec RequestRecord) {
	r := c.recorder
	if r == nil {
		return
	}
	go func() {
		defer func() { _ = recover() }()
		r.Record(context.WithoutCancel(ctx), rec)
	}()
}

func snippet(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	if len(s) <= snippetLimit {
		return s
	}
	// Never cut a multibyte rune in half; backend messages are not
	// ASCII-only.
	cut := snippetLimit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
