// Package remap converts HGVS transcript variants to genomic notation
// through the Mutalyzer position converter web service.
package remap

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/macarthurlab/leiden/internal/hgvs"
)

// DefaultURL is the Mutalyzer JSON web service.
const DefaultURL = "https://mutalyzer.nl/json"

// resultColumn is the batch result column holding the genomic variant.
const resultColumn = "chromosomal variant"

// Config holds remapping client settings.
type Config struct {
	URL          string
	Build        string        // genome build passed to the service, e.g. hg19
	PollInterval time.Duration // delay between batch status polls
	MaxPolls     int           // polls before a batch is considered timed out
	BatchSize    int           // variants per submitted batch job
	RateLimit    float64       // requests per second
	Timeout      time.Duration // per-request HTTP timeout
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		URL:          DefaultURL,
		Build:        "hg19",
		PollInterval: 500 * time.Millisecond,
		MaxPolls:     240,
		BatchSize:    500,
		RateLimit:    5,
		Timeout:      30 * time.Second,
	}
}

// Client talks to the remapping service. Every request is rate limited and
// runs behind a circuit breaker.
type Client struct {
	http         *resty.Client
	build        string
	pollInterval time.Duration
	maxPolls     int
	limiter      *rate.Limiter
	breaker      *gobreaker.CircuitBreaker
	logger       *zap.Logger

	mu        sync.Mutex
	submitted map[int]int // job id -> number of submitted variants
}

// NewClient creates a client. Zero fields in cfg take their defaults.
func NewClient(cfg Config) *Client {
	def := DefaultConfig()
	if cfg.URL == "" {
		cfg.URL = def.URL
	}
	if cfg.Build == "" {
		cfg.Build = def.Build
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = def.PollInterval
	}
	if cfg.MaxPolls <= 0 {
		cfg.MaxPolls = def.MaxPolls
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = def.RateLimit
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}

	c := &Client{
		http:         resty.New().SetBaseURL(strings.TrimRight(cfg.URL, "/")).SetTimeout(cfg.Timeout),
		build:        cfg.Build,
		pollInterval: cfg.PollInterval,
		maxPolls:     cfg.MaxPolls,
		limiter:      rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		logger:       zap.NewNop(),
		submitted:    make(map[int]int),
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "remap",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// A refused variant is an answer, not a service failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrRemapping)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return c
}

// SetLogger sets the logger for warning and debug messages.
func (c *Client) SetLogger(l *zap.Logger) {
	c.logger = l
}

// SubmitVariantBatch submits variants as one batch job and returns its id.
// Any failure is logged and reported as FailedToSubmit.
func (c *Client) SubmitVariantBatch(ctx context.Context, variants []string) int {
	if len(variants) == 0 {
		c.logger.Warn("refusing to submit empty batch")
		return FailedToSubmit
	}

	data := base64.StdEncoding.EncodeToString([]byte(strings.Join(variants, "\n")))
	body, err := c.call(ctx, http.MethodPost, "/submitBatchJob", nil, map[string]string{
		"data":     data,
		"process":  "PositionConverter",
		"argument": c.build,
	})
	if err != nil {
		c.logger.Warn("batch submission failed", zap.Int("variants", len(variants)), zap.Error(err))
		return FailedToSubmit
	}

	id, err := decodeInt(body)
	if err != nil || id <= 0 {
		c.logger.Warn("batch submission returned no job id",
			zap.Int("variants", len(variants)), zap.ByteString("body", body), zap.Error(err))
		return FailedToSubmit
	}

	c.mu.Lock()
	c.submitted[id] = len(variants)
	c.mu.Unlock()

	c.logger.Debug("submitted batch", zap.Int("job", id), zap.Int("variants", len(variants)))
	return id
}

// EntriesRemainingInBatch returns how many variants of job id are still
// being processed.
func (c *Client) EntriesRemainingInBatch(ctx context.Context, id int) (int, error) {
	body, err := c.call(ctx, http.MethodGet, "/monitorBatchJob",
		map[string]string{"job_id": strconv.Itoa(id)}, nil)
	if err != nil {
		return 0, err
	}
	n, err := decodeInt(body)
	if err != nil {
		return 0, fmt.Errorf("monitor job %d: %w", id, err)
	}
	return n, nil
}

// GetBatchResults returns the genomic variant for each submitted variant of
// job id in submission order. Variants the service could not map are "".
// The result has exactly as many entries as variants were submitted.
func (c *Client) GetBatchResults(ctx context.Context, id int) ([]string, error) {
	body, err := c.call(ctx, http.MethodGet, "/getBatchJob",
		map[string]string{"job_id": strconv.Itoa(id)}, nil)
	if err != nil {
		return nil, err
	}

	var encoded string
	if err := json.Unmarshal(body, &encoded); err != nil {
		return nil, fmt.Errorf("%w: job %d: %v", ErrResultFormat, id, err)
	}
	table, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: job %d: %v", ErrResultFormat, id, err)
	}

	results, err := parseResultTable(table)
	if err != nil {
		return nil, fmt.Errorf("job %d: %w", id, err)
	}

	c.mu.Lock()
	want, ok := c.submitted[id]
	delete(c.submitted, id)
	c.mu.Unlock()

	if ok {
		if len(results) != want {
			c.logger.Warn("batch result count differs from submission",
				zap.Int("job", id), zap.Int("submitted", want), zap.Int("returned", len(results)))
		}
		for len(results) < want {
			results = append(results, "")
		}
		results = results[:want]
	}
	return results, nil
}

// RemapVariant converts a single variant. It returns "" with an error
// wrapping ErrRemapping when the service cannot map the variant, and ""
// with the transport error when the service could not be reached.
func (c *Client) RemapVariant(ctx context.Context, variant string) (string, error) {
	if hgvs.IsNoChange(variant) {
		return "", fmt.Errorf("%w: %s describes no change", ErrRemapping, variant)
	}

	body, err := c.call(ctx, http.MethodGet, "/numberConversion",
		map[string]string{"build": c.build, "variant": variant}, nil)
	if err != nil {
		return "", err
	}

	var mappings []string
	if err := json.Unmarshal(body, &mappings); err != nil {
		return "", fmt.Errorf("%w: %s: unexpected response %q", ErrRemapping, variant, body)
	}
	for _, m := range mappings {
		if m = strings.TrimSpace(m); m != "" {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %s: no genomic mapping", ErrRemapping, variant)
}

// fault is the error object returned by the service.
type fault struct {
	Code   string `json:"faultcode"`
	String string `json:"faultstring"`
}

func (c *Client) call(ctx context.Context, method, endpoint string, query, form map[string]string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		req := c.http.R().SetContext(ctx)
		if query != nil {
			req.SetQueryParams(query)
		}
		if form != nil {
			req.SetFormData(form)
		}

		res, err := req.Execute(method, endpoint)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", endpoint, err)
		}

		body := bytes.TrimSpace(res.Body())
		if f, ok := decodeFault(body); ok {
			return nil, fmt.Errorf("%w: %s: %s: %s", ErrRemapping, endpoint, f.Code, f.String)
		}
		if res.IsError() {
			return nil, fmt.Errorf("%s: unexpected status %d: %s", endpoint, res.StatusCode(), body)
		}
		return body, nil
	})
	if err != nil {
		return nil, err
	}
	return out.([]byte), nil
}

func decodeFault(body []byte) (fault, bool) {
	if len(body) == 0 || body[0] != '{' {
		return fault{}, false
	}
	var f fault
	if err := json.Unmarshal(body, &f); err != nil || f.Code == "" {
		return fault{}, false
	}
	return f, true
}

// decodeInt reads a JSON number or a quoted number.
func decodeInt(body []byte) (int, error) {
	var n json.Number
	if err := json.Unmarshal(body, &n); err == nil {
		v, err := strconv.Atoi(n.String())
		if err != nil {
			return 0, fmt.Errorf("not an integer: %q", body)
		}
		return v, nil
	}

	var s string
	if err := json.Unmarshal(body, &s); err != nil {
		return 0, fmt.Errorf("not an integer: %q", body)
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("not an integer: %q", body)
	}
	return v, nil
}

// parseResultTable extracts the chromosomal variant column from a
// tab-delimited result table with a header row.
func parseResultTable(table []byte) ([]string, error) {
	lines := strings.Split(strings.ReplaceAll(string(table), "\r\n", "\n"), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: empty result table", ErrResultFormat)
	}

	col := -1
	for i, name := range strings.Split(lines[0], "\t") {
		if strings.Contains(strings.ToLower(name), resultColumn) {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("%w: no %q column in header %q", ErrResultFormat, resultColumn, lines[0])
	}

	results := make([]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		fields := strings.Split(line, "\t")
		value := ""
		if col < len(fields) {
			value = strings.TrimSpace(fields[col])
		}
		results = append(results, value)
	}
	return results, nil
}
