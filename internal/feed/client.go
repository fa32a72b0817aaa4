// Package feed fetches the employee CSV feed.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/locvowork/orgmaker/internal/domain"
	"github.com/locvowork/orgmaker/internal/logger"
	"github.com/sony/gobreaker"
)

// ErrNoSource is returned when neither a URL nor a file is configured.
var ErrNoSource = errors.New("feed: no url or file configured")

// Config selects and tunes the feed source. File wins over URL.
type Config struct {
	URL     string
	File    string
	Timeout time.Duration

	// BreakerMaxFailures consecutive failures open the breaker for
	// BreakerTimeout.
	BreakerMaxFailures uint32
	BreakerTimeout     time.Duration
}

// New returns the configured feed.
func New(cfg Config) (domain.EmployeeFeed, error) {
	switch {
	case cfg.File != "":
		return NewFileFeed(cfg.File), nil
	case cfg.URL != "":
		return NewHTTPFeed(cfg), nil
	default:
		return nil, ErrNoSource
	}
}

// HTTPFeed GETs the feed URL. Calls go through a circuit breaker; there is
// no retry.
type HTTPFeed struct {
	url     string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

// NewHTTPFeed builds an HTTP feed from cfg.
func NewHTTPFeed(cfg Config) *HTTPFeed {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	maxFailures := cfg.BreakerMaxFailures
	if maxFailures == 0 {
		maxFailures = 3
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "employee-feed",
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WarnLog(context.Background(), "Circuit breaker '%s' state changed from %v to %v", name, from, to)
		},
	})

	return &HTTPFeed{
		url:     cfg.URL,
		client:  &http.Client{Timeout: timeout},
		breaker: breaker,
	}
}

// Fetch downloads and parses the feed.
func (f *HTTPFeed) Fetch(ctx context.Context) ([][]string, error) {
	body, err := f.breaker.Execute(func() (interface{}, error) {
		return f.get(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch employee feed: %w", err)
	}
	return ParseCSV(ctx, body.(string))
}

func (f *HTTPFeed) get(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return "", err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(data), nil
}

// FileFeed reads the feed from a local file.
type FileFeed struct {
	path string
}

// NewFileFeed returns a feed backed by path.
func NewFileFeed(path string) *FileFeed {
	return &FileFeed{path: path}
}

// Fetch reads and parses the file.
func (f *FileFeed) Fetch(ctx context.Context) ([][]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read employee feed file: %w", err)
	}
	return ParseCSV(ctx, string(data))
}
