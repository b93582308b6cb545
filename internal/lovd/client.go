// Package lovd scrapes gene and variant listings from LOVD 2 and LOVD 3
// installations.
package lovd

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// PageSize is the largest page size LOVD serves.
const PageSize = 1000

var versionRegex = regexp.MustCompile(`(?i)LOVD v\.([23])\.\d`)

// Config holds scraper settings.
type Config struct {
	RateLimit float64       // page requests per second
	Timeout   time.Duration // per-request HTTP timeout
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		RateLimit: 2,
		Timeout:   60 * time.Second,
	}
}

// Client fetches LOVD pages.
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewClient creates a client. Zero fields in cfg take their defaults.
func NewClient(cfg Config) *Client {
	def := DefaultConfig()
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = def.RateLimit
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}

	return &Client{
		http:    resty.New().SetTimeout(cfg.Timeout),
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		logger:  zap.NewNop(),
	}
}

// SetLogger sets the logger for debug messages.
func (c *Client) SetLogger(l *zap.Logger) {
	c.logger = l
}

// DetectVersion reads the LOVD version from the footer of the page at
// siteURL.
func (c *Client) DetectVersion(ctx context.Context, siteURL string) (Version, error) {
	body, err := c.get(ctx, siteURL)
	if err != nil {
		return 0, err
	}

	m := versionRegex.FindSubmatch(body)
	if m == nil {
		return 0, fmt.Errorf("%w: no version number at %s", ErrUnsupportedVersion, siteURL)
	}
	n, _ := strconv.Atoi(string(m[1]))
	return Version(n), nil
}

// Open detects the LOVD version at siteURL and returns a database using
// the matching dialect.
func (c *Client) Open(ctx context.Context, siteURL string) (*Database, error) {
	v, err := c.DetectVersion(ctx, siteURL)
	if err != nil {
		return nil, err
	}
	return c.Database(siteURL, v)
}

// Database returns a database for a site whose version is already known.
func (c *Client) Database(siteURL string, v Version) (*Database, error) {
	d, ok := dialects[v]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, int(v))
	}
	return &Database{
		client:  c,
		version: v,
		dialect: d,
		baseURL: d.baseURL(siteURL),
	}, nil
}

func (c *Client) get(ctx context.Context, pageURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	c.logger.Debug("fetching page", zap.String("url", pageURL))
	resp, err := c.http.R().SetContext(ctx).Get(pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch %s: %s", pageURL, resp.Status())
	}
	return resp.Body(), nil
}

func (c *Client) document(ctx context.Context, pageURL string) (*goquery.Document, error) {
	body, err := c.get(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}
	return doc, nil
}
