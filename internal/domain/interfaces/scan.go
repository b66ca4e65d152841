package interfaces

import (
	"context"

	"ptr89/internal/library"
	"ptr89/internal/search"

	domaintypes "ptr89/internal/domain/types"
)

// ResultCache stores pattern search results between runs.
type ResultCache interface {
	Get(ctx context.Context, key domaintypes.CacheKey) ([]search.Result, bool, error)
	Put(ctx context.Context, key domaintypes.CacheKey, results []search.Result) error
}

// LibraryLoader reads a pattern library from a path or URL.
type LibraryLoader interface {
	Load(ctx context.Context, src string) ([]library.Entry, error)
}

// ScanService runs the searches behind each CLI mode.
type ScanService interface {
	FindPatterns(ctx context.Context, mem search.Memory, patterns []string, limit int) ([]domaintypes.PatternReport, error)
	FindXRefs(ctx context.Context, mem search.Memory, targets []uint32, limit int) ([]domaintypes.XRefReport, error)
	ResolveLibrary(ctx context.Context, mem search.Memory, entries []library.Entry) ([]domaintypes.LibraryReport, error)
	Prettify(text string) (string, error)
}
