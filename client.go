package pluct

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/reoring/pluct/source"
)

// Severity selects how a finding is handled.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// maxDuplicateIssues caps duplicate-key findings per document.
const maxDuplicateIssues = 32

// Client fetches schema documents. The zero value is not usable; call NewClient.
type Client struct {
	httpClient *http.Client
	logger     zerolog.Logger
	driver     source.Driver
	userAgent  string
	onDupKey   Severity
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client used for requests. nil is ignored.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger. Fetches are logged at debug level.
func WithLogger(l zerolog.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// WithDriver forces a single decoder regardless of the response Content-Type.
func WithDriver(d source.Driver) ClientOption {
	return func(c *Client) { c.driver = d }
}

// WithUserAgent sets the User-Agent header on every request.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) { c.userAgent = ua }
}

// WithDuplicateKeys controls duplicate object keys in JSON bodies: Ignore
// (default) skips the check, Warn logs them, Error fails the fetch.
func WithDuplicateKeys(s Severity) ClientOption {
	return func(c *Client) { c.onDupKey = s }
}

// NewClient returns a Client using http.DefaultClient and a no-op logger
// unless overridden.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DefaultClient is used by the package-level Get.
var DefaultClient = NewClient()
