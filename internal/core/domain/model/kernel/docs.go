// Package kernel provides the shared value objects of the bookstore domain model.
//
// The package includes:
//   - UUID: opaque identity used by every aggregate
//   - Price: non-negative monetary amount rounded to cents, backed by shopspring/decimal
//
// Both are immutable and safe for concurrent use.
package kernel
