package modrinth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/samber/mo"
	"go.uber.org/zap"

	"github.com/booky10/modrinth-downloader/internal/metrics"
)

//go:generate mockgen -package=mock -source=client.go -destination=mock/client.go

// Client fetches version documents from the package API. Absent results
// mean the API has nothing for the request.
type Client interface {
	// Version fetches a single version by its id.
	Version(ctx context.Context, id string) (mo.Option[Version], error)

	// ProjectVersions lists the versions of a project matching query, newest
	// first. An empty list is reported as absent.
	ProjectVersions(ctx context.Context, query LatestQuery) (mo.Option[[]Version], error)
}

// Ensure HTTPClient implements Client
var _ Client = (*HTTPClient)(nil)

const maxResponseSize = 32 << 20

// ClientConfig holds the connection settings for HTTPClient.
type ClientConfig struct {
	BaseURL   string
	Token     string
	UserAgent string
	Timeout   time.Duration
}

// Shared transport tuning, reusing connections to the API host.
var defaultTransport = &http.Transport{
	Proxy:                 http.ProxyFromEnvironment,
	MaxIdleConns:          100,
	MaxIdleConnsPerHost:   100,
	IdleConnTimeout:       90 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	ExpectContinueTimeout: 1 * time.Second,
	ForceAttemptHTTP2:     true,
	DialContext: (&net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
}

// HTTPClient talks to the API over HTTP.
type HTTPClient struct {
	baseURL string
	headers http.Header
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates an HTTPClient. An empty token sends unauthenticated
// requests.
func NewClient(cfg ClientConfig, logger *zap.Logger) *HTTPClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	headers := http.Header{}
	headers.Set("Accept", "application/json")
	headers.Set("User-Agent", cfg.UserAgent)
	if cfg.Token != "" {
		headers.Set("Authorization", cfg.Token)
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		headers: headers,
		http: &http.Client{
			Timeout:   timeout,
			Transport: defaultTransport.Clone(),
		},
		logger: logger,
	}
}

func (c *HTTPClient) Version(ctx context.Context, id string) (mo.Option[Version], error) {
	target := fmt.Sprintf("%s/v2/version/%s", c.baseURL, url.PathEscape(id))

	body, found, err := c.fetch(ctx, "version", target)
	if err != nil || !found {
		return mo.None[Version](), err
	}

	var version Version
	if err := json.Unmarshal(body, &version); err != nil {
		return mo.None[Version](), fmt.Errorf("failed to decode version %s: %w", id, err)
	}
	return mo.Some(version), nil
}

func (c *HTTPClient) ProjectVersions(ctx context.Context, query LatestQuery) (mo.Option[[]Version], error) {
	params, err := query.values()
	if err != nil {
		return mo.None[[]Version](), err
	}

	target := fmt.Sprintf("%s/v2/project/%s/version", c.baseURL, url.PathEscape(query.Project))
	if encoded := params.Encode(); encoded != "" {
		target += "?" + encoded
	}

	body, found, err := c.fetch(ctx, "project_versions", target)
	if err != nil || !found {
		return mo.None[[]Version](), err
	}

	var versions []Version
	if err := json.Unmarshal(body, &versions); err != nil {
		return mo.None[[]Version](), fmt.Errorf("failed to decode versions of %s: %w", query.Project, err)
	}
	if len(versions) == 0 {
		return mo.None[[]Version](), nil
	}
	return mo.Some(versions), nil
}

// fetch performs a GET and returns the body of a 200 response. A 404 is
// reported as not found, every other status as *StatusError.
func (c *HTTPClient) fetch(ctx context.Context, endpoint, target string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header = c.headers.Clone()

	c.logger.Info("Fetching", zap.String("url", target))

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveUpstreamRequest(endpoint, 0, time.Since(start))
		return nil, false, fmt.Errorf("failed to fetch %s: %w", target, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	metrics.ObserveUpstreamRequest(endpoint, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, false, fmt.Errorf("failed to read response from %s: %w", target, err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, true, nil
	case http.StatusNotFound:
		return nil, false, nil
	default:
		c.logger.Warn("Unexpected status from API",
			zap.String("url", target),
			zap.Int("status", resp.StatusCode))
		return nil, false, &StatusError{URL: target, Status: resp.StatusCode}
	}
}

func (q LatestQuery) values() (url.Values, error) {
	params := url.Values{}
	if q.Loaders != nil {
		encoded, err := json.Marshal(q.Loaders)
		if err != nil {
			return nil, fmt.Errorf("failed to encode loaders: %w", err)
		}
		params.Set("loaders", string(encoded))
	}
	if q.GameVersions != nil {
		encoded, err := json.Marshal(q.GameVersions)
		if err != nil {
			return nil, fmt.Errorf("failed to encode game_versions: %w", err)
		}
		params.Set("game_versions", string(encoded))
	}
	if q.Featured != nil {
		params.Set("featured", fmt.Sprint(*q.Featured))
	}
	return params, nil
}
