// Package domain defines the reports and contracts shared across ptr89.
// It contains plain types and interfaces only; the subpackages hold the
// definitions and this package re-exports them for compact imports.
package domain
