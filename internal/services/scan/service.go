package scan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"ptr89/internal/domain"
	"ptr89/internal/library"
	"ptr89/internal/pattern"
	"ptr89/internal/search"
)

// Progress is told about every finished search.
type Progress interface {
	Add(n int) error
}

// Options configures a Service.
type Options struct {
	Jobs   int                // concurrent searches, at least 1
	Cache  domain.ResultCache // optional
	Digest string             // image digest for cache keys
	Log    zerolog.Logger
}

// Service implements [domain.ScanService].
type Service struct {
	searcher *search.Searcher
	cache    domain.ResultCache
	digest   string
	jobs     int
	log      zerolog.Logger
	progress Progress
}

var _ domain.ScanService = (*Service)(nil)

// New constructs a Service. Jobs below 1 run searches one at a time.
func New(opts Options) *Service {
	jobs := opts.Jobs
	if jobs < 1 {
		jobs = 1
	}
	s := &Service{
		cache:  opts.Cache,
		digest: opts.Digest,
		jobs:   jobs,
		log:    opts.Log,
	}
	s.searcher = search.New(&s.log)
	return s
}

// WithProgress returns a copy of s that reports to p.
func (s *Service) WithProgress(p Progress) *Service {
	c := *s
	c.progress = p
	c.searcher = search.New(&c.log)
	return &c
}

// FindPatterns parses every pattern, then searches them concurrently. A
// pattern that does not parse aborts the whole call.
func (s *Service) FindPatterns(ctx context.Context, mem search.Memory, patterns []string, limit int) ([]domain.PatternReport, error) {
	reports := make([]domain.PatternReport, len(patterns))
	for i, text := range patterns {
		e, err := pattern.Parse(text)
		if err != nil {
			return nil, err
		}
		reports[i] = domain.PatternReport{Input: text, Expr: e}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.jobs)
	for i := range reports {
		r := &reports[i]
		g.Go(func() error {
			res, cached, err := s.find(gctx, mem, r.Expr, limit)
			if err != nil {
				return fmt.Errorf("pattern %q: %w", r.Input, err)
			}
			r.Results, r.Cached = res, cached
			s.tick()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// FindXRefs searches references to every target concurrently.
func (s *Service) FindXRefs(ctx context.Context, mem search.Memory, targets []uint32, limit int) ([]domain.XRefReport, error) {
	reports := make([]domain.XRefReport, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.jobs)
	for i, target := range targets {
		target := target // per-iteration copy (go.mod targets go 1.21)
		reports[i].Target = target
		r := &reports[i]
		g.Go(func() error {
			start := time.Now()
			refs, err := s.searcher.FindXRefs(gctx, target, mem, limit)
			if err != nil {
				return fmt.Errorf("xrefs %08X: %w", target, err)
			}
			s.log.Debug().
				Str("target", fmt.Sprintf("%08X", target)).
				Int("matches", len(refs)).
				Dur("elapsed", time.Since(start)).
				Msg("x-ref search done")
			r.Refs = refs
			s.tick()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// ResolveLibrary looks up the first match of every entry. Entries without
// a pattern, or whose pattern is unusable, are reported unresolved; the
// latter carry the reason in Err.
func (s *Service) ResolveLibrary(ctx context.Context, mem search.Memory, entries []library.Entry) ([]domain.LibraryReport, error) {
	reports := make([]domain.LibraryReport, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.jobs)
	for i, entry := range entries {
		entry := entry // per-iteration copy (go.mod targets go 1.21)
		reports[i].Entry = entry
		if entry.Pattern == "" {
			s.tick()
			continue
		}

		e, err := pattern.Parse(entry.Pattern)
		if err != nil {
			s.log.Warn().Err(err).
				Str("function", entry.Function).
				Msgf("skipping %03X: bad pattern", entry.ID)
			reports[i].Err = err
			s.tick()
			continue
		}
		reports[i].Type = e.Type

		r := &reports[i]
		g.Go(func() error {
			res, _, err := s.find(gctx, mem, e, 1)
			switch {
			case errors.Is(err, search.ErrNoFixedBytes):
				s.log.Warn().Str("function", entry.Function).
					Msgf("skipping %03X: %v", entry.ID, err)
				r.Err = err
			case err != nil:
				return fmt.Errorf("%03X %s: %w", entry.ID, entry.Function, err)
			case len(res) > 0:
				r.Result, r.Resolved = res[0], true
			}
			s.tick()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// Prettify returns the canonical form of a pattern.
func (s *Service) Prettify(text string) (string, error) {
	e, err := pattern.Parse(text)
	if err != nil {
		return "", err
	}
	return e.String(), nil
}

// find runs one pattern search, going through the cache when there is one.
func (s *Service) find(ctx context.Context, mem search.Memory, e *pattern.Expr, limit int) ([]search.Result, bool, error) {
	if e.Type == pattern.TypeStaticValue {
		res, err := s.searcher.Find(ctx, e, mem, limit)
		return res, false, err
	}

	canonical := e.String()
	key := domain.CacheKey{
		Digest:  s.digest,
		Base:    mem.Base,
		Align:   mem.Align,
		Pattern: canonical,
		Limit:   limit,
	}
	useCache := s.cache != nil && s.digest != ""

	if useCache {
		res, ok, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("pattern", canonical).Msg("cache lookup failed")
		case ok:
			s.log.Debug().Str("pattern", canonical).Int("matches", len(res)).Msg("cache hit")
			return res, true, nil
		}
	}

	start := time.Now()
	res, err := s.searcher.Find(ctx, e, mem, limit)
	if err != nil {
		return nil, false, err
	}
	s.log.Debug().
		Str("pattern", canonical).
		Int("matches", len(res)).
		Dur("elapsed", time.Since(start)).
		Msg("search done")

	if useCache {
		if err := s.cache.Put(ctx, key, res); err != nil {
			s.log.Warn().Err(err).Str("pattern", canonical).Msg("cache store failed")
		}
	}
	return res, false, nil
}

func (s *Service) tick() {
	if s.progress != nil {
		_ = s.progress.Add(1)
	}
}
