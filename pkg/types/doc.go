// Package types defines the values shared across brandsync: the classified
// Root, the ResolvedContext of a source file, the per-root RootState, the
// naming Layout that drives classification and the FS abstraction every
// component works through.
package types
