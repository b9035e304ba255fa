package unsplash

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// ErrUnauthorized is returned when the service rejects the access key.
var ErrUnauthorized = errors.New("unsplash rejected the access key")

// PhotoFetcher is the part of the client the app depends on.
type PhotoFetcher interface {
	RandomPhoto(ctx context.Context, query string) (Photo, RateLimit, error)
	Download(ctx context.Context, imageURL string, w io.Writer) (int64, error)
}

var _ PhotoFetcher = (*Client)(nil)

// Client talks to the Unsplash API.
type Client struct {
	endpoint  *url.URL
	http      *http.Client
	accessKey string
	userAgent string
	demo      atomic.Bool
	logger    *zap.Logger
	intn      func(n int) int
	now       func() time.Time
}

// Options configure NewClient.
type Options struct {
	APIURL     string
	AccessKey  string
	DemoMode   bool
	HTTPClient *http.Client
	Logger     *zap.Logger
}

const (
	defaultAPIURL    = "https://api.unsplash.com/photos/random"
	defaultUserAgent = "backdrop/0.1"
	requestTimeout   = 10 * time.Second
	downloadTimeout  = 60 * time.Second
)

// NewClient validates the endpoint and builds a client.
func NewClient(opts Options) (*Client, error) {
	endpoint, err := parseEndpoint(opts.APIURL)
	if err != nil {
		return nil, err
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: downloadTimeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		endpoint:  endpoint,
		http:      httpClient,
		accessKey: strings.TrimSpace(opts.AccessKey),
		userAgent: defaultUserAgent,
		logger:    logger,
		intn:      rand.IntN,
		now:       time.Now,
	}
	c.demo.Store(opts.DemoMode || c.accessKey == "")
	return c, nil
}

// DemoMode reports whether the client serves the built-in photo list.
func (c *Client) DemoMode() bool {
	return c.demo.Load()
}

// RandomPhoto asks for one random landscape photo matching query. The rate
// limit is returned even when the request fails, if the response carried it.
// A rejected key switches the client to demo mode for the rest of the process.
func (c *Client) RandomPhoto(ctx context.Context, query string) (Photo, RateLimit, error) {
	if c == nil {
		return Photo{}, RateLimit{}, fmt.Errorf("client is nil")
	}
	if c.DemoMode() {
		photo, limits := demoPhoto(query, c.intn(len(demoImages)), c.now())
		return photo, limits, nil
	}

	photo, limits, err := c.fetchRandom(ctx, query)
	if errors.Is(err, ErrUnauthorized) {
		c.logger.Warn("api authentication failed, switching to demo mode")
		c.demo.Store(true)
		photo, demoLimits := demoPhoto(query, c.intn(len(demoImages)), c.now())
		return photo, demoLimits, nil
	}
	return photo, limits, err
}

func (c *Client) fetchRandom(ctx context.Context, query string) (Photo, RateLimit, error) {
	values := url.Values{}
	values.Set("featured", "true")
	values.Set("orientation", "landscape")
	if q := strings.TrimSpace(query); q != "" {
		values.Set("query", q)
	}
	reqURL := *c.endpoint
	reqURL.RawQuery = values.Encode()

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return Photo{}, RateLimit{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Version", "v1")
	req.Header.Set("Authorization", "Client-ID "+c.accessKey)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return Photo{}, RateLimit{}, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	limits := rateLimitFrom(resp.Header)
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return Photo{}, limits, ErrUnauthorized
	case resp.StatusCode >= 400:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Photo{}, limits, fmt.Errorf("api returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var photo Photo
	if err := json.NewDecoder(resp.Body).Decode(&photo); err != nil {
		return Photo{}, limits, fmt.Errorf("decode response: %w", err)
	}
	if photo.ImageURL() == "" {
		return Photo{}, limits, fmt.Errorf("response has no image url")
	}
	return photo, limits, nil
}

// Download streams the image at imageURL into w and returns the byte count.
func (c *Client) Download(ctx context.Context, imageURL string, w io.Writer) (int64, error) {
	if c == nil {
		return 0, fmt.Errorf("client is nil")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return 0, fmt.Errorf("create download request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("download image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("download image: status %d", resp.StatusCode)
	}
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("write image: %w", err)
	}
	return n, nil
}

func rateLimitFrom(h http.Header) RateLimit {
	return RateLimit{
		Limit:     h.Get("X-Ratelimit-Limit"),
		Remaining: h.Get("X-Ratelimit-Remaining"),
		Reset:     h.Get("X-Ratelimit-Reset"),
	}
}

func parseEndpoint(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_url %q: missing host", raw)
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
