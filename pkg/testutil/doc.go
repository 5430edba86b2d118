// Package testutil provides utilities for testing brandsync components.
//
// Key components:
//   - LayoutBuilder: declarative setup of a base directory with roots and files
//   - CountingFS: counts Stat probes to observe cache hits
//   - LaggyFS: hides freshly written paths until a refresh
//   - FaultyFS: injects errors for chosen operations and paths
//
// All of them work on the in-memory filesystem so tests stay fast and isolated.
package testutil
