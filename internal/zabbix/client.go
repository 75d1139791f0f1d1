package zabbix

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	apiPath = "api_jsonrpc.php"
)

// Client is a minimal Zabbix JSON-RPC client covering the calls needed
// for availability reports.
type Client struct {
	url        string
	timeout    time.Duration
	skipVerify bool
	limiter    *rate.Limiter
	httpClient *http.Client
	logger     *logrus.Logger

	mu          sync.Mutex
	auth        string
	staticToken bool
	version     *Version

	nextID atomic.Int64
}

// Option is a functional option for configuring a Client.
type Option func(*Client) error

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %v", d)
		}
		c.timeout = d
		return nil
	}
}

// WithSkipVerify disables TLS certificate verification.
func WithSkipVerify(skip bool) Option {
	return func(c *Client) error {
		c.skipVerify = skip
		return nil
	}
}

// WithRateLimit caps outgoing requests per second. Zero disables the limit.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) error {
		if perSecond < 0 {
			return fmt.Errorf("rate limit must not be negative, got %v", perSecond)
		}
		if perSecond == 0 {
			c.limiter = nil
			return nil
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		return nil
	}
}

// WithToken authenticates with a pre-created API token instead of
// user.login. Logout becomes a no-op.
func WithToken(token string) Option {
	return func(c *Client) error {
		if token == "" {
			return nil
		}
		c.auth = token
		c.staticToken = true
		return nil
	}
}

// WithHTTPClient replaces the HTTP client. Timeout and TLS options are
// then left to the caller.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("http client must not be nil")
		}
		c.httpClient = hc
		return nil
	}
}

// WithLogger sets the logger for request tracing.
func WithLogger(logger *logrus.Logger) Option {
	return func(c *Client) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}

// New creates a Client for the server at url. The api_jsonrpc.php path is
// appended unless url already ends with it.
func New(url string, opts ...Option) (*Client, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("zabbix: server url is required")
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, fmt.Errorf("zabbix: server url %q must start with http:// or https://", url)
	}
	if !strings.HasSuffix(url, apiPath) {
		url = strings.TrimRight(url, "/") + "/" + apiPath
	}

	c := &Client{
		url:     url,
		timeout: DefaultTimeout,
		logger:  logrus.StandardLogger(),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("zabbix: %w", err)
		}
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Timeout: c.timeout,
			Transport: &http.Transport{
				Proxy:           http.ProxyFromEnvironment,
				TLSClientConfig: &tls.Config{InsecureSkipVerify: c.skipVerify},
			},
		}
	}

	return c, nil
}

// URL returns the JSON-RPC endpoint.
func (c *Client) URL() string {
	return c.url
}

type request struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
	ID      int64       `json:"id"`
	Auth    string      `json:"auth,omitempty"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *APIError       `json:"error"`
	ID      int64           `json:"id"`
}

// call performs one JSON-RPC request and decodes the result into out.
// authed requests carry the session either in the auth field or, for
// Zabbix 6.4 and later, as a bearer token.
func (c *Client) call(ctx context.Context, method string, params interface{}, out interface{}, authed bool) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s: %w", method, err)
		}
	}

	req := request{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      c.nextID.Add(1),
	}

	var bearer string
	if authed {
		c.mu.Lock()
		auth, version := c.auth, c.version
		c.mu.Unlock()

		if auth == "" {
			return fmt.Errorf("%s: not logged in", method)
		}
		if c.useBearer(version) {
			bearer = auth
		} else {
			req.Auth = auth
		}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", method, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	httpReq.Header.Set("Content-Type", "application/json-rpc")
	if bearer != "" {
		httpReq.Header.Set("Authorization", "Bearer "+bearer)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", method, err)
	}
	c.logger.Debugf("zabbix %s took %v (%d bytes)", method, time.Since(start), len(raw))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s: unexpected HTTP status %d", method, resp.StatusCode)
	}

	var rpcResp response
	if err := json.Unmarshal(raw, &rpcResp); err != nil {
		return fmt.Errorf("%s: decode response: %w", method, err)
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("%s: %w", method, rpcResp.Error)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(rpcResp.Result, out); err != nil {
		return fmt.Errorf("%s: decode result: %w", method, err)
	}
	return nil
}

// useBearer reports whether the session goes in the Authorization header.
// API tokens work that way from 5.4; login sessions from 6.4.
func (c *Client) useBearer(v *Version) bool {
	if v == nil {
		return false
	}
	if c.staticToken {
		return v.AtLeast(5, 4)
	}
	return v.AtLeast(6, 4)
}
