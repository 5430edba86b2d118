package paths

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/brandsync/pkg/errors"
)

// Environment variable names
const (
	// EnvRoot is the primary environment variable for the base directory
	EnvRoot = "BRANDSYNC_ROOT"

	// EnvConfigDir overrides the XDG config directory for brandsync
	EnvConfigDir = "BRANDSYNC_CONFIG_DIR"

	// EnvStateDir overrides the XDG state directory for brandsync
	EnvStateDir = "BRANDSYNC_STATE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// AppDirName is the directory name for brandsync-specific files
const AppDirName = "brandsync"

// Paths resolves the directories brandsync works with
type Paths struct {
	baseDir      string
	configDir    string
	stateDir     string
	usedFallback bool
}

// New creates a Paths instance. When baseDir is empty it is determined from
// BRANDSYNC_ROOT, then the enclosing git repository, then the working directory.
func New(baseDir string) (*Paths, error) {
	p := &Paths{}

	if baseDir == "" {
		root, usedFallback, err := findBaseDir()
		if err != nil {
			return nil, err
		}
		p.baseDir = root
		p.usedFallback = usedFallback
	} else {
		p.baseDir = expandHome(baseDir)
	}

	absRoot, err := filepath.Abs(p.baseDir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for base directory")
	}
	p.baseDir = absRoot

	if dir := os.Getenv(EnvConfigDir); dir != "" {
		p.configDir = expandHome(dir)
	} else {
		p.configDir = filepath.Join(xdg.ConfigHome, AppDirName)
	}

	if dir := os.Getenv(EnvStateDir); dir != "" {
		p.stateDir = expandHome(dir)
	} else {
		p.stateDir = filepath.Join(xdg.StateHome, AppDirName)
	}

	return p, nil
}

// findBaseDir determines the base directory using the following priority:
// 1. BRANDSYNC_ROOT environment variable (if set)
// 2. Git repository root (found via 'git rev-parse --show-toplevel')
// 3. Current working directory (fallback)
func findBaseDir() (string, bool, error) {
	if root := os.Getenv(EnvRoot); root != "" {
		return expandHome(root), false, nil
	}

	if gitRoot, err := findGitRoot(); err == nil && gitRoot != "" {
		return gitRoot, false, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", false, errors.Wrapf(err, errors.ErrFileAccess, "failed to get current directory")
	}
	return cwd, true, nil
}

// findGitRoot attempts to find the root of the current git repository
func findGitRoot() (string, error) {
	output, err := exec.Command("git", "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", err
	}

	gitRoot := strings.TrimSpace(string(output))
	if gitRoot == "" {
		return "", errors.New(errors.ErrNotFound, "git root is empty")
	}
	return gitRoot, nil
}

// expandHome expands a leading ~ to the home directory
func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}
	// ~something (not the user's home)
	return path
}

// BaseDir returns the directory holding the roots
func (p *Paths) BaseDir() string {
	return p.baseDir
}

// UsedFallback returns true if the current working directory was used as fallback
func (p *Paths) UsedFallback() bool {
	return p.usedFallback
}

// ConfigDir returns the user config directory for brandsync
func (p *Paths) ConfigDir() string {
	return p.configDir
}

// StateDir returns the state directory for brandsync
func (p *Paths) StateDir() string {
	return p.stateDir
}
