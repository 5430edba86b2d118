package brand

import (
	"strings"

	"github.com/arthur-debert/brandsync/pkg/errors"
	"github.com/arthur-debert/brandsync/pkg/types"
)

// Indicator is the presentation form of one RootState
type Indicator struct {
	DisplayName string `json:"display_name" yaml:"display_name"`
	RootName    string `json:"root" yaml:"root"`
	Kind        string `json:"kind" yaml:"kind"`
	Exists      bool   `json:"exists" yaml:"exists"`
	IsCurrent   bool   `json:"current" yaml:"current"`
	Path        string `json:"path,omitempty" yaml:"path,omitempty"`
}

// Indicators returns one indicator per root for ctx's relative path
func (s *Service) Indicators(ctx types.ResolvedContext) []Indicator {
	states := s.States(ctx)
	out := make([]Indicator, len(states))
	for i, state := range states {
		out[i] = Indicator{
			DisplayName: state.Root.DisplayName,
			RootName:    state.Root.Name,
			Kind:        state.Root.Kind.String(),
			Exists:      state.Exists(),
			IsCurrent:   state.IsCurrent,
			Path:        state.TargetPath,
		}
	}
	return out
}

// Action is a "copy to root" command offered for a file
type Action struct {
	ID       string `json:"id" yaml:"id"`
	Label    string `json:"label" yaml:"label"`
	RootName string `json:"root" yaml:"root"`
	Enabled  bool   `json:"enabled" yaml:"enabled"`

	// Reason explains a disabled action
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// ActionID returns the stable identifier of the copy action for a root
func ActionID(root types.Root) string {
	return "CopyTo" + strings.ReplaceAll(root.DisplayName, " ", "") + "Action"
}

// Actions returns one enabled copy action per current root
func (s *Service) Actions() []Action {
	rs := s.Roots()
	actions := make([]Action, len(rs))
	for i, root := range rs {
		actions[i] = Action{
			ID:       ActionID(root),
			Label:    "Copy to " + root.DisplayName,
			RootName: root.Name,
			Enabled:  true,
		}
	}
	return actions
}

// ActionsFor returns the copy actions with availability for path
func (s *Service) ActionsFor(path string) []Action {
	actions := s.Actions()
	for i := range actions {
		if _, _, err := s.PrepareCopy(path, actions[i].RootName); err != nil {
			actions[i].Enabled = false
			actions[i].Reason = errors.GetErrorMessage(err)
		}
	}
	return actions
}
