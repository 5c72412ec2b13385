// Package client provides the Randori platform HTTP client with typed
// errors, request metrics and structured logging.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/randori-export/pkg/credential"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for Randori API requests.
var (
	randoriRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "randori_requests_total",
		Help: "Total Randori API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	randoriRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "randori_request_duration_seconds",
		Help:    "Randori API request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"endpoint"})

	randoriErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "randori_errors_total",
		Help: "Total Randori API errors by class",
	}, []string{"class"})
)

// DefaultBaseURL is the public Randori platform.
const DefaultBaseURL = "https://alpha.randori.io/"

// maxErrorBody caps how much of a non-200 body is kept for the error message.
const maxErrorBody = 512

// ErrorClass represents a classification of request failures.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassUnexpected represents any other non-200 status (1xx, 2xx, 3xx).
	ErrorClassUnexpected ErrorClass = "unexpected"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassMalformed represents bodies that are not the expected envelope.
	ErrorClassMalformed ErrorClass = "malformed"
)

// Client talks to the Randori recon API.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is the platform root, e.g. https://alpha.randori.io/
	BaseURL string

	// Credential is sent verbatim as the Authorization header (no Bearer prefix).
	Credential credential.Credential

	// UserAgent header value.
	UserAgent string

	// Timeout bounds each request including reading the body.
	Timeout time.Duration
}

// DefaultConfig returns a configuration for the public platform.
func DefaultConfig(cred credential.Credential, userAgent string) Config {
	return Config{
		BaseURL:    DefaultBaseURL,
		Credential: cred,
		UserAgent:  userAgent,
		Timeout:    30 * time.Second,
	}
}

// New creates a new Randori client.
func New(cfg Config) (*Client, error) {
	if cfg.Credential.Value() == "" {
		return nil, fmt.Errorf("credential is required")
	}

	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be > 0 (got %s)", cfg.Timeout)
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url must be http or https (got %q)", cfg.BaseURL)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("base url has no host (got %q)", cfg.BaseURL)
	}

	logger := log.With().Str("component", "randori-client").Logger()

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: base,
		config:  cfg,
		logger:  logger,
	}, nil
}

// URL resolves an endpoint path such as recon/api/v1/ip against the base URL.
func (c *Client) URL(endpoint string, params url.Values) string {
	u := c.baseURL.JoinPath(strings.TrimPrefix(endpoint, "/"))
	u.RawQuery = params.Encode()
	return u.String()
}

// Do sends req with authentication headers and records metrics.
// Network failures are wrapped with ErrNetwork. The response status is not
// inspected here.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	endpoint := req.URL.Path

	startTime := time.Now()
	defer func() {
		randoriRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	req.Header.Set("Authorization", c.config.Credential.Value())
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("method", req.Method).
		Str("query", redactQuery(req.URL.Query())).
		Msg("Executing Randori request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		randoriErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		randoriRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("HTTP request failed")
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	randoriRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
	c.logger.Debug().
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Msg("Randori response received")

	return resp, nil
}

// Get fetches one page of an entity endpoint. Any status other than 200
// yields a *StatusError; an unreadable or non-JSON body yields
// ErrMalformedResponse. Envelope field presence is left to the caller.
func (c *Client) Get(ctx context.Context, endpoint string, params url.Values) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(endpoint, params), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errClass := c.classifyStatus(resp.StatusCode)
		randoriErrorsTotal.WithLabelValues(string(errClass)).Inc()

		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

		c.logger.Warn().
			Str("endpoint", req.URL.Path).
			Int("status", resp.StatusCode).
			Str("error_class", string(errClass)).
			Msg("Randori request error")

		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			ErrorClass: errClass,
			Endpoint:   req.URL.Path,
			Message:    strings.TrimSpace(string(snippet)),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		randoriErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		return nil, fmt.Errorf("%w: read body: %w", ErrNetwork, err)
	}

	page, err := DecodePage(body)
	if err != nil {
		randoriErrorsTotal.WithLabelValues(string(ErrorClassMalformed)).Inc()
		c.logger.Error().Err(err).Str("endpoint", req.URL.Path).Msg("Undecodable response body")
		return nil, err
	}

	return page, nil
}

// classifyStatus categorizes a non-200 status for observability.
func (c *Client) classifyStatus(status int) ErrorClass {
	switch {
	case status >= 400 && status < 500:
		return ErrorClassClient
	case status >= 500:
		return ErrorClassServer
	default:
		return ErrorClassUnexpected
	}
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// redactQuery shortens the q parameter for debug logs.
func redactQuery(params url.Values) string {
	if q := params.Get("q"); len(q) > 16 {
		params = cloneValues(params)
		params.Set("q", q[:16]+"...")
	}
	return params.Encode()
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
