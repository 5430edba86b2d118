package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Keep mirrored source trees in step"
	MsgRootsShort      = "List the roots found in the base directory"
	MsgStatusShort     = "Show which roots contain the given files"
	MsgCopyShort       = "Copy a file or directory into another root"
	MsgActionsShort    = "List the copy actions available for a file"
	MsgWatchShort      = "Show status and refresh it when roots change"
	MsgConfigShort     = "Print the effective configuration"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgFallbackWarning = "Warning: no git repository or BRANDSYNC_ROOT found, using current directory: %s\n"
	MsgNoRoots         = "No roots found in %s\n"
	MsgWatching        = "Watching %s (Ctrl-C to stop)\n"
	MsgVersionFormat   = "brandsync %s (commit %s, built %s)\n"

	// Error messages
	MsgErrInitPaths     = "failed to initialize paths: %w"
	MsgErrLoadConfig    = "failed to load configuration: %w"
	MsgErrCopyFailed    = "copy failed"
	MsgErrWatchDisabled = "watching is disabled by configuration ([watch] enabled = false)"
	MsgErrUnknownShell  = "unknown shell %q"

	// Flag descriptions
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagRoot    = "Base directory holding the roots"
	MsgFlagNoColor = "Disable colored output"
	MsgFlagFormat  = "Output format: text, json or yaml"
	MsgFlagOpen    = "Open the copied file afterwards"
	MsgFlagDryRun  = "Show what would be copied without writing anything"
	MsgFlagFile    = "Report availability of each action for this file"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/copy-long.txt
	msgCopyLongRaw string
	MsgCopyLong    = strings.TrimSpace(msgCopyLongRaw)

	//go:embed msgs/copy-example.txt
	msgCopyExampleRaw string
	MsgCopyExample    = strings.TrimRight(msgCopyExampleRaw, "\n")

	//go:embed msgs/watch-long.txt
	msgWatchLongRaw string
	MsgWatchLong    = strings.TrimSpace(msgWatchLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
