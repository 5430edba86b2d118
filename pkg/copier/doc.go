// Package copier propagates a file or directory from its root into another
// root at the same relative path.
//
// A copy runs in three phases:
//
//  1. Planning, on a worker goroutine: the destination is probed and an
//     ordered list of mkdir, copy and skip steps is built.
//  2. Mutation, under the MutationGate: steps are executed in order as synthfs
//     operations over a create-only view of the filesystem. Every step
//     re-checks the destination, so nothing that appeared after planning is
//     overwritten. Directory copies merge; existing entries are kept.
//  3. Verification: the destination is looked up, and on a miss the
//     filesystem is refreshed and the lookup retried once.
//
// The outcome is delivered as a Result through a Poster, never returned from
// Copy and never raised as a panic.
package copier
