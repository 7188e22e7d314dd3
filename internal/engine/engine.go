// Package engine runs the documentation check pipeline: read, extract,
// classify, validate and report, for one file or many.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/leapstack-labs/sqldoclint/pkg/core"
	"github.com/leapstack-labs/sqldoclint/pkg/dialect"
	_ "github.com/leapstack-labs/sqldoclint/pkg/dialects/all" // register dialects
	"github.com/leapstack-labs/sqldoclint/pkg/markdown"
	"github.com/leapstack-labs/sqldoclint/pkg/report"
	"github.com/leapstack-labs/sqldoclint/pkg/validate"
	"golang.org/x/sync/errgroup"
)

// DefaultCacheSize is the number of memoised validation results.
const DefaultCacheSize = 1024

// Engine checks markdown documents. It is safe for concurrent use.
type Engine struct {
	logger   *slog.Logger
	readFile func(string) ([]byte, error)
	parse    markdown.Options
	depth    int
	jobs     int

	// forced overrides classification when set
	forced    core.Dialect
	hasForced bool

	cache  *lru.Cache[cacheKey, core.ValidationResult]
	hits   atomic.Int64
	misses atomic.Int64
}

// Config holds engine configuration.
type Config struct {
	// Dialect forces every snippet to one dialect. Empty classifies each
	// snippet.
	Dialect string
	// Languages are extra fence tags treated as SQL.
	Languages []string
	// IncludeUntagged treats fences without a language tag as SQL.
	IncludeUntagged bool
	// SectionDepth groups report sections; <= 0 uses the report default.
	SectionDepth int
	// Jobs bounds concurrent documents; <= 0 uses the CPU count.
	Jobs int
	// CacheSize bounds the validation memo; 0 uses DefaultCacheSize and a
	// negative value disables it.
	CacheSize int
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
	// ReadFile reads documents (optional, defaults to os.ReadFile)
	ReadFile func(string) ([]byte, error)
}

type cacheKey struct {
	dialect core.Dialect
	text    string
}

// Result is one checked document.
type Result struct {
	Path     string
	Document *markdown.Document
	Report   report.Report
}

// New creates an engine.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	e := &Engine{
		logger:   logger,
		readFile: cfg.ReadFile,
		parse:    markdown.Options{Languages: cfg.Languages, IncludeUntagged: cfg.IncludeUntagged},
		depth:    cfg.SectionDepth,
		jobs:     cfg.Jobs,
	}
	if e.readFile == nil {
		e.readFile = os.ReadFile
	}
	if e.jobs <= 0 {
		e.jobs = runtime.NumCPU()
	}

	if cfg.Dialect != "" {
		d, ok := dialect.Lookup(cfg.Dialect)
		if !ok {
			return nil, fmt.Errorf("unknown dialect %q (known: %v)", cfg.Dialect, dialect.Names())
		}
		e.forced, e.hasForced = d, true
	}

	size := cfg.CacheSize
	if size == 0 {
		size = DefaultCacheSize
	}
	if size > 0 {
		cache, err := lru.New[cacheKey, core.ValidationResult](size)
		if err != nil {
			return nil, fmt.Errorf("failed to create validation cache: %w", err)
		}
		e.cache = cache
	}

	logger.Debug("initializing engine", "dialect", cfg.Dialect, "jobs", e.jobs, "cache_size", size)
	return e, nil
}

// Check processes paths concurrently. Results are in argument order. Any
// read or parse error aborts the whole check and no results are returned.
func (e *Engine) Check(ctx context.Context, paths []string) ([]*Result, error) {
	results := make([]*Result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.jobs)
	for i, path := range paths {
		g.Go(func() error {
			r, err := e.CheckFile(gctx, path)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// CheckFile reads and checks one document.
func (e *Engine) CheckFile(ctx context.Context, path string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	src, err := e.readFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return e.CheckSource(ctx, path, src)
}

// CheckSource checks an in-memory document.
func (e *Engine) CheckSource(ctx context.Context, path string, src []byte) (*Result, error) {
	doc, err := markdown.ParseWithOptions(path, src, e.parse)
	if err != nil {
		return nil, err
	}

	var entries []report.Entry
	for s := range doc.Snippets() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c := e.Classify(s)
		for _, name := range c.Unknown {
			e.logger.Debug("unknown dialect hint, falling back",
				"path", path, "snippet", s.Index, "hint", name, "dialect", c.Dialect)
		}
		entries = append(entries, report.NewEntry(s, c, e.Validate(s, c.Dialect)))
	}

	rep := report.BuildWithOptions(path, entries, report.Options{SectionDepth: e.depth})
	e.logger.Debug("checked document", "path", path,
		"snippets", rep.Summary.Total, "invalid", rep.Summary.Invalid)
	return &Result{Path: path, Document: doc, Report: rep}, nil
}

// Classify returns the snippet's dialect, honouring a forced dialect.
func (e *Engine) Classify(s core.Snippet) dialect.Classification {
	if e.hasForced {
		return dialect.Classification{Dialect: e.forced, Source: dialect.SourceForced}
	}
	return dialect.Classify(s)
}

// Validate checks a snippet against d, reusing memoised results for
// identical text.
func (e *Engine) Validate(s core.Snippet, d core.Dialect) core.ValidationResult {
	if e.cache == nil {
		return validate.Validate(s, d)
	}
	key := cacheKey{dialect: d, text: s.Text}
	if r, ok := e.cache.Get(key); ok {
		e.hits.Add(1)
		r.SnippetIndex = s.Index
		return r
	}
	e.misses.Add(1)
	r := validate.Validate(s, d)
	e.cache.Add(key, r)
	return r
}

// CacheStats returns validation memo hits and misses.
func (e *Engine) CacheStats() (hits, misses int64) {
	return e.hits.Load(), e.misses.Load()
}
