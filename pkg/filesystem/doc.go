// Package filesystem provides filesystem implementations for brandsync.
//
// This package contains implementations of the types.FS interface backed by
// afero: the real OS filesystem and an in-memory filesystem for tests.
package filesystem
