// Package shared holds code used across layers that belongs to none of them.
//
// # Structure
//
// - testutil: slog capture handlers and disclosure CSV fixtures for tests
//
// Production packages must not import testutil.
package shared
