package thumbs

import (
	"context"
	"os"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/fswrangler/fswrangler/pkg/classify"
)

// maxConcurrentScans bounds the background discovery pool. Discovery is
// filesystem-bound; a handful of workers keeps the foreground responsive.
const maxConcurrentScans = 3

// Request identifies one package to resolve.
type Request struct {
	Name   string
	Source classify.Source
	Sim    classify.Sim
}

// Scanner resolves package names to thumbnail paths through the cache,
// deduplicating concurrent requests per name and bounding parallelism.
type Scanner struct {
	cache *Cache
	roots RootSet
	sem   *semaphore.Weighted
	group singleflight.Group
}

// NewScanner creates a scanner over the given cache and root set.
func NewScanner(cache *Cache, roots RootSet) *Scanner {
	return &Scanner{
		cache: cache,
		roots: roots,
		sem:   semaphore.NewWeighted(maxConcurrentScans),
	}
}

// Resolve returns the thumbnail path for one package, scanning the
// filesystem only when the cache has no memoized answer. Concurrent calls
// for the same name share a single in-flight scan. A miss returns
// ("", nil) and is memoized so the name is not rescanned.
func (s *Scanner) Resolve(ctx context.Context, req Request) (string, error) {
	if e, ok := s.cache.Lookup(req.Name); ok {
		return e.Path, nil
	}

	v, err, _ := s.group.Do(req.Name, func() (any, error) {
		// Re-check: another flight may have resolved it while we queued.
		if e, ok := s.cache.Lookup(req.Name); ok {
			return e.Path, nil
		}
		if err := s.sem.Acquire(ctx, 1); err != nil {
			return "", err
		}
		defer s.sem.Release(1)

		path, ok := Discover(req.Name, req.Source, req.Sim, s.roots)
		if !ok {
			s.cache.MarkMissing(req.Name)
			return "", nil
		}
		e := Entry{Path: path, Source: "search"}
		if info, err := os.Stat(path); err == nil {
			e.MTime = info.ModTime().Unix()
		}
		s.cache.Put(req.Name, e)
		return path, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// ScanAll resolves every request with bounded parallelism and returns how
// many resolved to an existing image. The cache is flushed before return
// so memoized results survive the session.
func (s *Scanner) ScanAll(ctx context.Context, reqs []Request) (int, error) {
	found := make([]bool, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			path, err := s.Resolve(ctx, req)
			if err != nil {
				return err
			}
			found[i] = path != ""
			return nil
		})
	}
	err := g.Wait()
	if ferr := s.cache.Flush(); err == nil {
		err = ferr
	}

	n := 0
	for _, ok := range found {
		if ok {
			n++
		}
	}
	return n, err
}
