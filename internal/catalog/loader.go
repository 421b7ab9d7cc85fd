// Package catalog loads the course feed over HTTP or from a local
// file and keeps a cached snapshot in the store for offline starts.
package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/campusplanner/planner/internal/logging"
	"github.com/campusplanner/planner/internal/model"
)

// fetchTimeout bounds one feed download.
const fetchTimeout = 30 * time.Second

// maxConcurrentSources limits parallel source downloads.
const maxConcurrentSources = 5

// refreshInterval is the minimum gap between forced refreshes.
const refreshInterval = 5 * time.Minute

// Snapshotter caches raw feed bytes for offline starts.
type Snapshotter interface {
	SaveCatalogSnapshot(data []byte) error
	LoadCatalogSnapshot() ([]byte, bool, error)
}

// Loader fetches and decodes catalog feeds.
type Loader struct {
	client   *http.Client
	snapshot Snapshotter
	limiter  *rate.Limiter
}

// NewLoader creates a Loader. snapshot may be nil to disable caching.
func NewLoader(snapshot Snapshotter) *Loader {
	return &Loader{
		client:   &http.Client{Timeout: fetchTimeout},
		snapshot: snapshot,
		limiter:  rate.NewLimiter(rate.Every(refreshInterval), 1),
	}
}

// Load fetches and decodes the feed at source, which is either an
// http(s) URL or a local file path. A successful load replaces the
// cached snapshot.
func (l *Loader) Load(ctx context.Context, source string) (*model.Catalog, error) {
	data, err := l.read(ctx, source)
	if err != nil {
		return nil, err
	}
	cat, err := model.DecodeCatalog(data)
	if err != nil {
		return nil, err
	}
	if l.snapshot != nil {
		if err := l.snapshot.SaveCatalogSnapshot(data); err != nil {
			logging.Warn("failed to cache catalog snapshot", "error", err)
		}
	}
	return cat, nil
}

// LoadMerged fetches several feeds concurrently and merges their
// departments in source order. Used for multi-term catalogs served as
// separate documents.
func (l *Loader) LoadMerged(ctx context.Context, sources []string) (*model.Catalog, error) {
	catalogs := make([]*model.Catalog, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentSources)
	for i, source := range sources {
		g.Go(func() error {
			cat, err := l.Load(gctx, source)
			if err != nil {
				return fmt.Errorf("load %s: %w", source, err)
			}
			catalogs[i] = cat
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := &model.Catalog{}
	for _, cat := range catalogs {
		merged.Departments = append(merged.Departments, cat.Departments...)
		if merged.Generated == "" {
			merged.Generated = cat.Generated
		}
	}
	return merged, nil
}

// LoadCached decodes the last cached snapshot. ok is false when no
// snapshot exists.
func (l *Loader) LoadCached() (*model.Catalog, bool, error) {
	if l.snapshot == nil {
		return nil, false, nil
	}
	data, ok, err := l.snapshot.LoadCatalogSnapshot()
	if err != nil || !ok {
		return nil, false, err
	}
	cat, err := model.DecodeCatalog(data)
	if err != nil {
		return nil, false, err
	}
	return cat, true, nil
}

// Refresh re-fetches the feed, rate limited so rapid refresh requests
// collapse into one fetch per interval. ok is false when the limiter
// suppressed the refresh.
func (l *Loader) Refresh(ctx context.Context, source string) (*model.Catalog, bool, error) {
	if !l.limiter.Allow() {
		return nil, false, nil
	}
	cat, err := l.Load(ctx, source)
	if err != nil {
		return nil, false, err
	}
	return cat, true, nil
}

func (l *Loader) read(ctx context.Context, source string) ([]byte, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return l.fetch(ctx, source)
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return data, nil
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Planner/0.1")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}
	return io.ReadAll(resp.Body)
}
