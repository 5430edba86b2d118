package cli

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/brandsync/pkg/brand"
	"github.com/arthur-debert/brandsync/pkg/config"
	"github.com/arthur-debert/brandsync/pkg/copier"
	"github.com/arthur-debert/brandsync/pkg/errors"
	"github.com/arthur-debert/brandsync/pkg/filesystem"
	"github.com/arthur-debert/brandsync/pkg/logging"
	"github.com/arthur-debert/brandsync/pkg/output"
	"github.com/arthur-debert/brandsync/pkg/paths"
	"github.com/arthur-debert/brandsync/pkg/types"
	"github.com/arthur-debert/brandsync/pkg/watcher"
	"github.com/spf13/cobra"
)

// globalOptions holds the persistent flags
type globalOptions struct {
	verbosity int
	root      string
	noColor   bool
}

// app is the per-invocation wiring of paths, configuration and service
type app struct {
	paths  *paths.Paths
	config *config.Config
	svc    *brand.Service
}

// serviceOptions adjusts the service for a single command
type serviceOptions struct {
	open     bool
	source   watcher.Source
	onChange func(watcher.Batch)
}

// loadApp resolves the base directory and loads configuration
func loadApp(cmd *cobra.Command, g *globalOptions) (*app, error) {
	p, err := paths.New(g.root)
	if err != nil {
		return nil, fmt.Errorf(MsgErrInitPaths, err)
	}
	if p.UsedFallback() {
		fmt.Fprintf(cmd.ErrOrStderr(), MsgFallbackWarning, p.BaseDir())
	}

	cfg, err := config.Load(config.LoadOptions{
		BaseDir:   p.BaseDir(),
		ConfigDir: p.ConfigDir(),
	})
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadConfig, err)
	}

	log := logging.GetLogger("cli")
	log.Debug().
		Str("baseDir", p.BaseDir()).
		Str("configDir", p.ConfigDir()).
		Msg("Loaded configuration")
	return &app{paths: p, config: cfg}, nil
}

// start creates the service. Callers must Close it.
func (a *app) start(opts serviceOptions) error {
	var navigator copier.Navigator
	if opts.open || a.config.Copy.Open {
		navigator = newOpenerNavigator(a.config.Copy.Opener)
	}
	svc, err := brand.New(brand.Options{
		BaseDir:   a.paths.BaseDir(),
		FS:        filesystem.NewOS(),
		Layout:    a.config.Layout(),
		CacheSize: a.config.Cache.Size,
		Source:    opts.source,
		OnChange:  opts.onChange,
		Navigator: navigator,
	})
	if err != nil {
		return err
	}
	a.svc = svc
	return nil
}

func (a *app) close() {
	if a.svc != nil {
		_ = a.svc.Close()
	}
}

// renderer builds the output renderer for cmd
func renderer(cmd *cobra.Command, g *globalOptions, format string) (*output.Renderer, error) {
	f, err := output.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return output.NewRenderer(cmd.OutOrStdout(), f, g.noColor), nil
}

// findTarget accepts a root directory name or a display name
func findTarget(svc *brand.Service, name string) (types.Root, error) {
	if root, err := svc.FindRootByName(name); err == nil {
		return root, nil
	}
	for _, root := range svc.Roots() {
		if strings.EqualFold(root.DisplayName, name) {
			return root, nil
		}
	}
	return types.Root{}, errors.Newf(errors.ErrRootNotFound, "target folder '%s' not found", name).
		WithDetail("root", name)
}

// rootNamesCompletion completes root directory names
func rootNamesCompletion(g *globalOptions) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) != 1 {
			return nil, cobra.ShellCompDirectiveDefault
		}
		a, err := loadApp(cmd, g)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		if err := a.start(serviceOptions{}); err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		defer a.close()

		var names []string
		for _, root := range a.svc.Roots() {
			if strings.HasPrefix(root.Name, toComplete) {
				names = append(names, root.Name)
			}
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	}
}
