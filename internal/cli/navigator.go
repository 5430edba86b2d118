package cli

import (
	"context"
	"os/exec"
	"runtime"
	"strings"

	"github.com/arthur-debert/brandsync/pkg/errors"
)

// openerNavigator opens copied files with an external command. The command
// is started and not waited for.
type openerNavigator struct {
	command []string
}

func newOpenerNavigator(opener string) *openerNavigator {
	command := strings.Fields(opener)
	if len(command) == 0 {
		command = []string{defaultOpener()}
	}
	return &openerNavigator{command: command}
}

func defaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "windows":
		return "explorer"
	default:
		return "xdg-open"
	}
}

// Navigate implements copier.Navigator
func (n *openerNavigator) Navigate(ctx context.Context, path string) error {
	args := append(append([]string{}, n.command[1:]...), path)
	// Detached from ctx so the opener outlives the command
	cmd := exec.Command(n.command[0], args...)
	if err := cmd.Start(); err != nil {
		return errors.Wrapf(err, errors.ErrNavigation, "failed to start %s", n.command[0]).
			WithDetail("path", path)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
