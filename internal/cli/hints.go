package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/jvs-project/clonekit/internal/engine"
	"github.com/jvs-project/clonekit/pkg/color"
	"github.com/jvs-project/clonekit/pkg/errclass"
	"github.com/jvs-project/clonekit/pkg/model"
)

// hintFor suggests a next step for well-known failures.
// Returns "" when there is nothing useful to add.
func hintFor(err error) string {
	switch {
	case errors.Is(err, errclass.ErrDestExists):
		var pe *fs.PathError
		if errors.As(err, &pe) {
			return fmt.Sprintf("%s already exists and is never overwritten. Remove it or choose another destination.", color.Path(pe.Path))
		}
		return "The destination already exists and is never overwritten."
	case engine.IsUnsupported(err):
		return fmt.Sprintf("Run %s to fall back to a plain copy, or %s to probe a directory.",
			color.Code("clonekit reflink --or-copy"), color.Code("clonekit check <dir>"))
	case errors.Is(err, errclass.ErrEngineUnknown):
		return "Valid engines: " + strings.Join(engineNames(), ", ") + "."
	case errors.Is(err, errclass.ErrPathOverlap):
		return "Choose a destination outside the source tree."
	case errors.Is(err, errclass.ErrConfigInvalid):
		return fmt.Sprintf("Fix the file or run %s.", color.Code("clonekit config set <key> <value>"))
	case errors.Is(err, fs.ErrNotExist):
		return "Check that the source exists and the destination's parent directory was created."
	}
	return ""
}

func engineNames() []string {
	return []string{string(model.EngineAuto), string(model.EngineReflinkCopy), string(model.EngineCopy)}
}

// formatError renders err with the clonekit prefix and an optional hint.
func formatError(err error) string {
	var sb strings.Builder
	sb.WriteString(errPrefix())
	sb.WriteString(err.Error())
	if hint := hintFor(err); hint != "" {
		sb.WriteString("\n")
		sb.WriteString(color.Faint("  " + hint))
	}
	return sb.String()
}
