package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/brandsync/internal/version"
	"github.com/arthur-debert/brandsync/pkg/config"
	"github.com/arthur-debert/brandsync/pkg/copier"
	"github.com/arthur-debert/brandsync/pkg/errors"
	"github.com/arthur-debert/brandsync/pkg/logging"
	"github.com/arthur-debert/brandsync/pkg/output"
	"github.com/arthur-debert/brandsync/pkg/watcher"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// statusConcurrency bounds parallel status lookups
const statusConcurrency = 8

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	g := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "brandsync",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(g.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&g.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&g.root, "root", "", MsgFlagRoot)
	rootCmd.PersistentFlags().BoolVar(&g.noColor, "no-color", false, MsgFlagNoColor)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newRootsCmd(g))
	rootCmd.AddCommand(newStatusCmd(g))
	rootCmd.AddCommand(newCopyCmd(g))
	rootCmd.AddCommand(newActionsCmd(g))
	rootCmd.AddCommand(newWatchCmd(g))
	rootCmd.AddCommand(newConfigCmd(g))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

func newRootsCmd(g *globalOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:     "roots",
		Short:   MsgRootsShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := renderer(cmd, g, format)
			if err != nil {
				return err
			}
			a, err := loadApp(cmd, g)
			if err != nil {
				return err
			}
			if err := a.start(serviceOptions{}); err != nil {
				return err
			}
			defer a.close()

			return r.Roots(a.svc.Roots())
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", MsgFlagFormat)
	return cmd
}

func newStatusCmd(g *globalOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:     "status <file>...",
		Short:   MsgStatusShort,
		GroupID: "core",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := renderer(cmd, g, format)
			if err != nil {
				return err
			}
			a, err := loadApp(cmd, g)
			if err != nil {
				return err
			}
			if err := a.start(serviceOptions{}); err != nil {
				return err
			}
			defer a.close()

			files, err := collectStatus(cmd.Context(), a, args)
			if err != nil {
				return err
			}
			return r.Status(files)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", MsgFlagFormat)
	return cmd
}

// collectStatus looks up every file in parallel, keeping argument order.
// Per-file failures are reported in the status, not returned.
func collectStatus(ctx context.Context, a *app, files []string) ([]output.FileStatus, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	statuses := make([]output.FileStatus, len(files))

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(statusConcurrency)
	for i, file := range files {
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			status := output.FileStatus{Path: file}
			resolved, err := a.svc.Resolve(file)
			if err != nil {
				status.Error = errors.GetErrorMessage(err)
			} else {
				status.Root = resolved.Root.Name
				status.RelativePath = resolved.RelativePath
				status.Indicators = a.svc.Indicators(resolved)
			}
			statuses[i] = status
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return statuses, nil
}

func newCopyCmd(g *globalOptions) *cobra.Command {
	var (
		format string
		open   bool
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:               "copy <file> <root>",
		Short:             MsgCopyShort,
		Long:              MsgCopyLong,
		Example:           MsgCopyExample,
		GroupID:           "core",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: rootNamesCompletion(g),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := renderer(cmd, g, format)
			if err != nil {
				return err
			}
			a, err := loadApp(cmd, g)
			if err != nil {
				return err
			}
			if err := a.start(serviceOptions{open: open}); err != nil {
				return err
			}
			defer a.close()

			target, err := findTarget(a.svc, args[1])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			if dryRun {
				plan, err := a.svc.Plan(ctx, args[0], target.Name)
				if err != nil {
					return err
				}
				return r.Plan(plan)
			}

			results := make(chan copier.Result, 1)
			if err := a.svc.CopyPath(ctx, args[0], target.Name, func(result copier.Result) {
				results <- result
			}); err != nil {
				return err
			}
			result := <-results

			if err := r.CopyResult(result); err != nil {
				return err
			}
			if !result.OK() {
				return errors.Wrap(result.Err, errors.GetErrorCode(result.Err), MsgErrCopyFailed)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", MsgFlagFormat)
	cmd.Flags().BoolVar(&open, "open", false, MsgFlagOpen)
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, MsgFlagDryRun)
	return cmd
}

func newActionsCmd(g *globalOptions) *cobra.Command {
	var (
		format string
		file   string
	)
	cmd := &cobra.Command{
		Use:     "actions",
		Short:   MsgActionsShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := renderer(cmd, g, format)
			if err != nil {
				return err
			}
			a, err := loadApp(cmd, g)
			if err != nil {
				return err
			}
			if err := a.start(serviceOptions{}); err != nil {
				return err
			}
			defer a.close()

			if file == "" {
				return r.Actions(a.svc.Actions())
			}
			return r.Actions(a.svc.ActionsFor(file))
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", MsgFlagFormat)
	cmd.Flags().StringVar(&file, "file", "", MsgFlagFile)
	return cmd
}

func newWatchCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "watch <file>...",
		Short:   MsgWatchShort,
		Long:    MsgWatchLong,
		GroupID: "core",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := renderer(cmd, g, "text")
			if err != nil {
				return err
			}
			a, err := loadApp(cmd, g)
			if err != nil {
				return err
			}
			if !a.config.Watch.Enabled {
				return errors.New(errors.ErrInvalidInput, MsgErrWatchDisabled)
			}

			source, err := watcher.NewFSWatcher(watcher.Options{
				BaseDir:   a.paths.BaseDir(),
				Prefix:    a.config.Roots.Prefix,
				Debounce:  a.config.Watch.Debounce,
				QueueSize: a.config.Watch.QueueSize,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			render := func() {
				files, err := collectStatus(ctx, a, args)
				if err != nil {
					return
				}
				if err := r.Status(files); err != nil {
					log.Warn().Err(err).Msg("Failed to render status")
				}
			}

			if err := a.start(serviceOptions{
				source: source,
				onChange: func(batch watcher.Batch) {
					fmt.Fprintln(cmd.OutOrStdout())
					render()
				},
			}); err != nil {
				_ = source.Close()
				return err
			}
			defer a.close()

			fmt.Fprintf(cmd.ErrOrStderr(), MsgWatching, a.paths.BaseDir())
			// Renders share the dispatcher goroutine with change callbacks
			a.svc.Post(render)
			<-ctx.Done()
			return nil
		},
	}
	return cmd
}

func newConfigCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, g)
			if err != nil {
				return err
			}
			content, err := config.Generate(a.config)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), content)
			return err
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			default:
				return fmt.Errorf(MsgErrUnknownShell, args[0])
			}
		},
	}
}
