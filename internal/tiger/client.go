package tiger

import (
	"github.com/sells-group/siting-cli/internal/fetcher"
)

// Client downloads TIGER/Line products for a single vintage year.
type Client struct {
	fetcher fetcher.Fetcher
	baseURL string
	year    int
	tempDir string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the TIGER/Line root URL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithYear sets the TIGER/Line vintage.
func WithYear(year int) Option {
	return func(c *Client) {
		if year > 0 {
			c.year = year
		}
	}
}

// WithTempDir sets the parent directory for per-download work dirs.
// Empty uses the OS default.
func WithTempDir(dir string) Option {
	return func(c *Client) { c.tempDir = dir }
}

// NewClient creates a TIGER client. The default vintage is 2022.
func NewClient(f fetcher.Fetcher, opts ...Option) *Client {
	c := &Client{
		fetcher: f,
		baseURL: DefaultBaseURL,
		year:    2022,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

