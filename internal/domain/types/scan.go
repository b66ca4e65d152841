package types

import (
	"ptr89/internal/library"
	"ptr89/internal/pattern"
	"ptr89/internal/search"
)

// CacheKey identifies one cached pattern search. Pattern is the
// canonical text, so spelling differences share an entry.
type CacheKey struct {
	Digest  string
	Base    uint32
	Align   int
	Pattern string
	Limit   int
}

// PatternReport is the outcome of searching one pattern.
type PatternReport struct {
	Input   string // pattern as given
	Expr    *pattern.Expr
	Results []search.Result
	Cached  bool
}

// XRefReport lists the references found to one target.
type XRefReport struct {
	Target uint32
	Refs   []search.XRef
}

// LibraryReport is the outcome of resolving one library entry.
type LibraryReport struct {
	Entry    library.Entry
	Type     pattern.Type
	Result   search.Result // first match
	Resolved bool
	Err      error // why the pattern could not be searched
}
