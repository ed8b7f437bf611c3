// Package http provides an HTTP implementation of rosdoc.DistributionService
// that reads the rosdistro index and distribution files.
package http

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/fwojciec/rosdoc"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"
)

// DefaultIndexURL is the published rosdistro index.
const DefaultIndexURL = "https://raw.githubusercontent.com/ros/rosdistro/master/index-v4.yaml"

// DefaultTimeout is the default timeout for a single index request.
const DefaultTimeout = 30 * time.Second

// DefaultRequestsPerSecond limits requests to the index host.
const DefaultRequestsPerSecond = 2.0

// Ensure DistributionService implements rosdoc.DistributionService at compile time.
var _ rosdoc.DistributionService = (*DistributionService)(nil)

// DistributionService fetches distributions from a rosdistro index over HTTP.
// Distributions are cached after the first successful fetch, and concurrent
// lookups of the same distribution share one fetch.
// DistributionService is safe for concurrent use by multiple goroutines.
type DistributionService struct {
	client   *http.Client
	indexURL string
	timeout  time.Duration
	limiter  *rate.Limiter
	delays   []time.Duration
	logger   *slog.Logger

	group singleflight.Group
	mu    sync.Mutex
	cache map[string]*rosdoc.Distribution
}

// Option configures a DistributionService.
type Option func(*DistributionService)

// WithClient sets the HTTP client. Defaults to a client with DefaultTimeout.
func WithClient(client *http.Client) Option {
	return func(s *DistributionService) {
		s.client = client
	}
}

// WithIndexURL sets the index location. Defaults to DefaultIndexURL.
func WithIndexURL(indexURL string) Option {
	return func(s *DistributionService) {
		s.indexURL = indexURL
	}
}

// WithTimeout sets the timeout for HTTP requests when no client is given.
func WithTimeout(d time.Duration) Option {
	return func(s *DistributionService) {
		s.timeout = d
	}
}

// WithRateLimit sets the maximum requests per second to the index host.
func WithRateLimit(rps float64) Option {
	return func(s *DistributionService) {
		s.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithRetryDelays sets the waits between attempts of a failed request.
// No delays disables retries. Defaults to DefaultRetryDelays.
func WithRetryDelays(delays ...time.Duration) Option {
	return func(s *DistributionService) {
		s.delays = delays
	}
}

// WithLogger sets the logger used to report retries.
func WithLogger(logger *slog.Logger) Option {
	return func(s *DistributionService) {
		s.logger = logger
	}
}

// NewDistributionService creates a new DistributionService.
func NewDistributionService(opts ...Option) *DistributionService {
	s := &DistributionService{
		indexURL: DefaultIndexURL,
		timeout:  DefaultTimeout,
		limiter:  rate.NewLimiter(rate.Limit(DefaultRequestsPerSecond), 1),
		delays:   DefaultRetryDelays(),
		logger:   slog.New(slog.DiscardHandler),
		cache:    make(map[string]*rosdoc.Distribution),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.client == nil {
		s.client = &http.Client{Timeout: s.timeout}
	}
	return s
}

// FindDistribution returns the named distribution.
// Returns ENOTFOUND if the index does not list it and EINVALID if the index
// or distribution files cannot be parsed.
func (s *DistributionService) FindDistribution(ctx context.Context, name string) (*rosdoc.Distribution, error) {
	if name == "" {
		return nil, rosdoc.Errorf(rosdoc.EINVALID, "distribution name required")
	}

	s.mu.Lock()
	dist, ok := s.cache[name]
	s.mu.Unlock()
	if ok {
		return dist, nil
	}

	// The shared fetch outlives any single caller; each caller still
	// returns as soon as its own ctx is done.
	fetchCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(name, func() (any, error) {
		s.mu.Lock()
		cached, ok := s.cache[name]
		s.mu.Unlock()
		if ok {
			return cached, nil
		}

		dist, err := s.fetchDistribution(fetchCtx, name)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.cache[name] = dist
		s.mu.Unlock()
		return dist, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*rosdoc.Distribution), nil
	}
}

func (s *DistributionService) fetchDistribution(ctx context.Context, name string) (*rosdoc.Distribution, error) {
	base, err := url.Parse(s.indexURL)
	if err != nil {
		return nil, rosdoc.Errorf(rosdoc.EINVALID, "invalid index URL %q: %v", s.indexURL, err)
	}

	var index indexFile
	if err := s.getYAML(ctx, base.String(), &index); err != nil {
		return nil, fmt.Errorf("index: %w", err)
	}

	entry, ok := index.Distributions[name]
	if !ok {
		return nil, rosdoc.Errorf(rosdoc.ENOTFOUND, "distribution %q not in index", name)
	}
	if len(entry.Distribution) == 0 {
		return nil, rosdoc.Errorf(rosdoc.EINVALID, "distribution %q lists no distribution file", name)
	}

	dist := &rosdoc.Distribution{
		Name:            name,
		ReleasePackages: make(map[string]string),
		Repositories:    make(map[string]rosdoc.Repository),
	}
	for _, ref := range entry.Distribution {
		rel, err := url.Parse(ref)
		if err != nil {
			return nil, rosdoc.Errorf(rosdoc.EINVALID, "invalid distribution file reference %q", ref)
		}

		var file distributionFile
		if err := s.getYAML(ctx, base.ResolveReference(rel).String(), &file); err != nil {
			return nil, fmt.Errorf("distribution %s: %w", name, err)
		}
		file.mergeInto(dist)
	}

	return dist, nil
}

// getYAML fetches rawURL and decodes the YAML body into v, retrying
// transient failures.
func (s *DistributionService) getYAML(ctx context.Context, rawURL string, v any) error {
	var body []byte
	err := withRetry(ctx, rawURL, s.delays, s.logger, func() error {
		var err error
		body, err = s.get(ctx, rawURL)
		return err
	})
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(body, v); err != nil {
		return rosdoc.Errorf(rosdoc.EINVALID, "parsing %s: %v", rawURL, err)
	}
	return nil
}

func (s *DistributionService) get(ctx context.Context, rawURL string) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{Code: resp.StatusCode, URL: rawURL}
	}
	return io.ReadAll(resp.Body)
}
