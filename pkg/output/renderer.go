package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/brandsync/pkg/brand"
	"github.com/arthur-debert/brandsync/pkg/copier"
	"github.com/arthur-debert/brandsync/pkg/errors"
	"github.com/arthur-debert/brandsync/pkg/logging"
	"github.com/arthur-debert/brandsync/pkg/output/styles"
	"github.com/arthur-debert/brandsync/pkg/types"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"
)

// Format selects how results are written
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a --format value
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", errors.Newf(errors.ErrInvalidInput, "unknown format %q (want text, json or yaml)", s)
	}
}

// FileStatus is the status of one file across roots
type FileStatus struct {
	Path         string            `json:"path" yaml:"path"`
	Root         string            `json:"root,omitempty" yaml:"root,omitempty"`
	RelativePath string            `json:"relative_path,omitempty" yaml:"relative_path,omitempty"`
	Indicators   []brand.Indicator `json:"indicators,omitempty" yaml:"indicators,omitempty"`
	Error        string            `json:"error,omitempty" yaml:"error,omitempty"`
}

// Renderer writes results in one format
type Renderer struct {
	w      io.Writer
	format Format
}

// NewRenderer creates a renderer. noColor forces plain text styling.
func NewRenderer(w io.Writer, format Format, noColor bool) *Renderer {
	log := logging.GetLogger("output.renderer")

	r := lipgloss.NewRenderer(w)
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	}
	styles.SetRenderer(r)

	log.Debug().
		Str("format", string(format)).
		Bool("noColor", noColor).
		Msg("Created renderer")
	return &Renderer{w: w, format: format}
}

// Format returns the output format
func (r *Renderer) Format() Format {
	return r.format
}

// Roots writes the classified roots
func (r *Renderer) Roots(rs []types.Root) error {
	if r.format != FormatText {
		type rootView struct {
			Name        string `json:"name" yaml:"name"`
			Kind        string `json:"kind" yaml:"kind"`
			DisplayName string `json:"display_name" yaml:"display_name"`
			Path        string `json:"path" yaml:"path"`
		}
		views := make([]rootView, len(rs))
		for i, root := range rs {
			views[i] = rootView{Name: root.Name, Kind: root.Kind.String(), DisplayName: root.DisplayName, Path: root.Path}
		}
		return r.encode(views)
	}

	if len(rs) == 0 {
		return r.println(styles.Render("Muted", "No roots found"))
	}
	width := 0
	for _, root := range rs {
		width = max(width, len(root.DisplayName))
	}
	for _, root := range rs {
		line := fmt.Sprintf("%-*s  %s%s", width, root.DisplayName,
			styles.Render("Path", root.Name), styles.Render("Kind", "("+root.Kind.String()+")"))
		if err := r.println(line); err != nil {
			return err
		}
	}
	return nil
}

// Status writes the indicator lines for each file
func (r *Renderer) Status(files []FileStatus) error {
	if r.format != FormatText {
		return r.encode(files)
	}
	for i, file := range files {
		if i > 0 {
			if err := r.println(""); err != nil {
				return err
			}
		}
		if err := r.println(styles.Render("Header", file.Path)); err != nil {
			return err
		}
		if file.Error != "" {
			if err := r.println("  " + styles.Render("Error", file.Error)); err != nil {
				return err
			}
			continue
		}
		if err := r.println("  " + IndicatorLine(file.Indicators)); err != nil {
			return err
		}
	}
	return nil
}

// IndicatorLine renders one label per root: the current root highlighted,
// present roots plain and missing roots dimmed
func IndicatorLine(indicators []brand.Indicator) string {
	parts := make([]string, len(indicators))
	for i, ind := range indicators {
		switch {
		case ind.IsCurrent:
			parts[i] = styles.Render("Current", "["+ind.DisplayName+"]")
		case ind.Exists:
			parts[i] = styles.Render("Present", ind.DisplayName)
		default:
			parts[i] = styles.Render("Missing", ind.DisplayName)
		}
	}
	return strings.Join(parts, "  ")
}

// Actions writes copy actions
func (r *Renderer) Actions(actions []brand.Action) error {
	if r.format != FormatText {
		return r.encode(actions)
	}
	for _, action := range actions {
		line := action.Label + "  " + styles.Render("Muted", action.ID)
		if !action.Enabled {
			line = styles.Render("Missing", action.Label) + "  " + styles.Render("Muted", action.Reason)
		}
		if err := r.println(line); err != nil {
			return err
		}
	}
	return nil
}

// Plan writes the steps of a dry-run copy
func (r *Renderer) Plan(plan *copier.Plan) error {
	if r.format != FormatText {
		type stepView struct {
			Kind string `json:"kind" yaml:"kind"`
			Path string `json:"path" yaml:"path"`
		}
		steps := make([]stepView, len(plan.Steps))
		for i, step := range plan.Steps {
			steps[i] = stepView{Kind: step.Kind.String(), Path: plan.Relative(step.Dest)}
		}
		return r.encode(map[string]interface{}{
			"source": plan.Source.SourcePath,
			"target": plan.Target.Name,
			"kind":   plan.ItemKind(),
			"steps":  steps,
		})
	}

	header := fmt.Sprintf("Copy %s %s to %s", plan.ItemKind(), plan.Source.RelativePath, plan.Target.DisplayName)
	if err := r.println(styles.Render("Header", header)); err != nil {
		return err
	}
	if len(plan.Steps) == 0 {
		return r.println("  " + styles.Render("Muted", "nothing to do"))
	}
	for _, step := range plan.Steps {
		label := map[copier.StepKind]string{
			copier.StepMkdir: "StepMkdir",
			copier.StepCopy:  "StepCopy",
			copier.StepSkip:  "StepSkip",
		}[step.Kind]
		line := fmt.Sprintf("  %s %s", styles.Render(label, fmt.Sprintf("%-5s", step.Kind.String())), plan.Relative(step.Dest))
		if err := r.println(line); err != nil {
			return err
		}
	}
	return nil
}

// CopyResult writes the outcome of a copy
func (r *Renderer) CopyResult(result copier.Result) error {
	if r.format != FormatText {
		view := map[string]interface{}{"path": result.Path, "is_dir": result.IsDir}
		if result.Err != nil {
			view["error"] = result.Err.Error()
			view["code"] = string(errors.GetErrorCode(result.Err))
		}
		return r.encode(view)
	}
	if result.Err != nil {
		return r.println(styles.Render("Error", "Copy failed: ") + errors.GetErrorMessage(result.Err))
	}
	return r.println(styles.Render("Success", "Copied to ") + styles.Render("Path", result.Path))
}

func (r *Renderer) encode(v interface{}) error {
	switch r.format {
	case FormatJSON:
		enc := json.NewEncoder(r.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(r.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return errors.Newf(errors.ErrInvalidInput, "format %q is not structured", r.format)
	}
}

func (r *Renderer) println(s string) error {
	_, err := fmt.Fprintln(r.w, s)
	return err
}
