// Package output renders brandsync results for the terminal.
//
// Text output is styled through pkg/output/styles. The json and yaml formats
// emit the same data for scripts and editor integrations and never carry
// styling.
package output
