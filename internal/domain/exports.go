package domain

import (
	interfaces "ptr89/internal/domain/interfaces"
	types "ptr89/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	CacheKey      = types.CacheKey
	PatternReport = types.PatternReport
	XRefReport    = types.XRefReport
	LibraryReport = types.LibraryReport
)

// Interface aliases expose contracts from the interfaces subpackage.
type (
	ResultCache   = interfaces.ResultCache
	LibraryLoader = interfaces.LibraryLoader
	ScanService   = interfaces.ScanService
)
