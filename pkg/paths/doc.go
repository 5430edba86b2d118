// Package paths provides centralized path handling for brandsync.
//
// It resolves the base directory that holds the roots and the XDG
// directories used for user configuration and logs.
package paths
