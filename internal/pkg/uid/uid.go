// Package uid generates identifiers: UUIDv7 strings for correlation and
// delivery ids, snowflake numbers for database primary keys.
package uid

// StringID generates string identifiers.
type StringID interface {
	Generate() string
}

// NumberID generates numeric identifiers.
type NumberID interface {
	Generate() int64
}
