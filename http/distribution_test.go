package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/rosdoc"
	roshttp "github.com/fwojciec/rosdoc/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const indexYAML = `%YAML 1.1
# ROS index file
---
distributions:
  jazzy:
    distribution: [jazzy/distribution.yaml, jazzy/overlay.yaml]
    distribution_status: active
    distribution_type: ros2
  broken:
    distribution: [broken/distribution.yaml]
  empty:
    distribution: []
type: index
version: 4
`

const jazzyYAML = `%YAML 1.1
---
repositories:
  rclcpp:
    doc:
      type: git
      url: https://github.com/ros2/rclcpp.git
      version: jazzy
    release:
      packages:
      - rclcpp
      - rclcpp_action
      url: https://github.com/ros2-gbp/rclcpp-release.git
      version: 28.1.0-1
    source:
      type: git
      url: https://github.com/ros2/rclcpp.git
      version: jazzy
    status: maintained
  ament_lint:
    release:
      url: https://github.com/ros2-gbp/ament_lint-release.git
      version: 0.17.0-1
  source_only:
    source:
      type: git
      url: https://github.com/example/source_only.git
type: distribution
version: 2
`

const overlayYAML = `repositories:
  rclcpp:
    release:
      packages: [rclcpp]
    source:
      type: git
      url: https://github.com/fork/rclcpp.git
type: distribution
version: 2
`

func newIndexServer(t *testing.T, requests *atomic.Int64) *httptest.Server {
	t.Helper()
	files := map[string]string{
		"/index-v4.yaml":            indexYAML,
		"/jazzy/distribution.yaml":  jazzyYAML,
		"/jazzy/overlay.yaml":       overlayYAML,
		"/broken/distribution.yaml": "repositories: [unclosed",
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests != nil {
			requests.Add(1)
		}
		body, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newService(srv *httptest.Server, indexPath string) *roshttp.DistributionService {
	return roshttp.NewDistributionService(
		roshttp.WithClient(srv.Client()),
		roshttp.WithIndexURL(srv.URL+indexPath),
		roshttp.WithRateLimit(1000),
		roshttp.WithRetryDelays(),
	)
}

func TestDistributionService_FindDistribution(t *testing.T) {
	t.Parallel()

	t.Run("merges distribution files", func(t *testing.T) {
		t.Parallel()

		srv := newIndexServer(t, nil)

		dist, err := newService(srv, "/index-v4.yaml").FindDistribution(context.Background(), "jazzy")

		require.NoError(t, err)
		assert.Equal(t, "jazzy", dist.Name)

		url, err := dist.SourceRepositoryURL("rclcpp")
		require.NoError(t, err)
		assert.Equal(t, "https://github.com/fork/rclcpp.git", url, "later files override earlier ones")

		url, err = dist.SourceRepositoryURL("rclcpp_action")
		require.NoError(t, err)
		assert.Equal(t, "https://github.com/fork/rclcpp.git", url)
	})

	t.Run("release without package list releases the repository name", func(t *testing.T) {
		t.Parallel()

		srv := newIndexServer(t, nil)

		dist, err := newService(srv, "/index-v4.yaml").FindDistribution(context.Background(), "jazzy")

		require.NoError(t, err)
		assert.Equal(t, "ament_lint", dist.ReleasePackages["ament_lint"])
		_, err = dist.SourceRepositoryURL("ament_lint")
		assert.Equal(t, rosdoc.ENOTFOUND, rosdoc.ErrorCode(err), "no source entry")
		_, err = dist.SourceRepositoryURL("source_only")
		assert.Equal(t, rosdoc.ENOTFOUND, rosdoc.ErrorCode(err), "not released")
	})

	t.Run("unknown distribution is not found", func(t *testing.T) {
		t.Parallel()

		srv := newIndexServer(t, nil)

		_, err := newService(srv, "/index-v4.yaml").FindDistribution(context.Background(), "nope")

		assert.Equal(t, rosdoc.ENOTFOUND, rosdoc.ErrorCode(err))
	})

	t.Run("distribution without files is invalid", func(t *testing.T) {
		t.Parallel()

		srv := newIndexServer(t, nil)

		_, err := newService(srv, "/index-v4.yaml").FindDistribution(context.Background(), "empty")

		assert.Equal(t, rosdoc.EINVALID, rosdoc.ErrorCode(err))
	})

	t.Run("malformed distribution file is invalid", func(t *testing.T) {
		t.Parallel()

		srv := newIndexServer(t, nil)

		_, err := newService(srv, "/index-v4.yaml").FindDistribution(context.Background(), "broken")

		assert.Equal(t, rosdoc.EINVALID, rosdoc.ErrorCode(err))
	})

	t.Run("missing index reports HTTP status", func(t *testing.T) {
		t.Parallel()

		srv := newIndexServer(t, nil)

		_, err := newService(srv, "/missing.yaml").FindDistribution(context.Background(), "jazzy")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP 404")
	})

	t.Run("empty name is invalid", func(t *testing.T) {
		t.Parallel()

		_, err := roshttp.NewDistributionService().FindDistribution(context.Background(), "")

		assert.Equal(t, rosdoc.EINVALID, rosdoc.ErrorCode(err))
	})

	t.Run("caches distributions", func(t *testing.T) {
		t.Parallel()

		var requests atomic.Int64
		srv := newIndexServer(t, &requests)
		svc := newService(srv, "/index-v4.yaml")

		var wg sync.WaitGroup
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := svc.FindDistribution(context.Background(), "jazzy")
				assert.NoError(t, err)
			}()
		}
		wg.Wait()
		_, err := svc.FindDistribution(context.Background(), "jazzy")
		require.NoError(t, err)

		// One index and two distribution file requests.
		assert.Equal(t, int64(3), requests.Load())
	})

	t.Run("canceled caller leaves shared fetch running", func(t *testing.T) {
		t.Parallel()

		files := newIndexServer(t, nil)
		var indexRequests atomic.Int64
		entered := make(chan struct{})
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/index-v4.yaml" && indexRequests.Add(1) == 1 {
				close(entered)
				select {
				case <-release:
				case <-r.Context().Done():
					return
				}
			}
			http.Redirect(w, r, files.URL+r.URL.Path, http.StatusFound)
		}))
		t.Cleanup(srv.Close)
		releaseOnce := sync.OnceFunc(func() { close(release) })
		t.Cleanup(releaseOnce)
		svc := newService(srv, "/index-v4.yaml")

		// Given a first caller whose lookup is in flight
		ctx, cancel := context.WithCancel(context.Background())
		firstErr := make(chan error, 1)
		go func() {
			_, err := svc.FindDistribution(ctx, "jazzy")
			firstErr <- err
		}()
		<-entered

		// And a second caller waiting on the same lookup
		type result struct {
			dist *rosdoc.Distribution
			err  error
		}
		second := make(chan result, 1)
		go func() {
			dist, err := svc.FindDistribution(context.Background(), "jazzy")
			second <- result{dist, err}
		}()

		// When the first caller gives up
		cancel()

		// Then only the first caller sees the cancellation
		assert.ErrorIs(t, <-firstErr, context.Canceled)
		releaseOnce()
		res := <-second
		require.NoError(t, res.err)
		assert.Equal(t, "jazzy", res.dist.Name)
		assert.Equal(t, int64(1), indexRequests.Load(), "second caller reuses the shared fetch")
	})

	t.Run("retries server errors", func(t *testing.T) {
		t.Parallel()

		var requests atomic.Int64
		files := newIndexServer(t, nil)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if requests.Add(1) <= 2 {
				http.Error(w, "unavailable", http.StatusServiceUnavailable)
				return
			}
			http.Redirect(w, r, files.URL+r.URL.Path, http.StatusFound)
		}))
		t.Cleanup(srv.Close)

		svc := roshttp.NewDistributionService(
			roshttp.WithClient(srv.Client()),
			roshttp.WithIndexURL(srv.URL+"/index-v4.yaml"),
			roshttp.WithRateLimit(1000),
			roshttp.WithRetryDelays(time.Millisecond, time.Millisecond, time.Millisecond),
		)

		dist, err := svc.FindDistribution(context.Background(), "jazzy")

		require.NoError(t, err)
		assert.Equal(t, "jazzy", dist.Name)
	})

	t.Run("does not retry client errors", func(t *testing.T) {
		t.Parallel()

		var requests atomic.Int64
		srv := newIndexServer(t, &requests)
		svc := roshttp.NewDistributionService(
			roshttp.WithClient(srv.Client()),
			roshttp.WithIndexURL(srv.URL+"/missing.yaml"),
			roshttp.WithRateLimit(1000),
			roshttp.WithRetryDelays(time.Millisecond, time.Millisecond),
		)

		_, err := svc.FindDistribution(context.Background(), "jazzy")

		require.Error(t, err)
		assert.Equal(t, int64(1), requests.Load())
	})

	t.Run("gives up after last retry", func(t *testing.T) {
		t.Parallel()

		var requests atomic.Int64
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			requests.Add(1)
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
		}))
		t.Cleanup(srv.Close)

		svc := roshttp.NewDistributionService(
			roshttp.WithClient(srv.Client()),
			roshttp.WithIndexURL(srv.URL+"/index-v4.yaml"),
			roshttp.WithRateLimit(1000),
			roshttp.WithRetryDelays(time.Millisecond, time.Millisecond),
		)

		_, err := svc.FindDistribution(context.Background(), "jazzy")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP 503")
		assert.Equal(t, int64(3), requests.Load())
	})
}
