// Package search scans a firmware memory image for patterns and for
// cross-references to an address.
//
// Patterns are matched at offsets that are multiples of the image
// alignment. Sub-pattern slots are followed through branch and LDR
// literal decoding (see package arm) and the nested pattern is matched at
// the destination. A Searcher traces each step at debug level when its
// logger allows it.
package search
