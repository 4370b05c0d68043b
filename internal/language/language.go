// Package language defines the toolchain descriptors a runner can
// execute against. Each descriptor names an external interpreter or
// compiler as an argument vector with a ${script} placeholder; the
// set is fixed at configuration time (builtins plus an optional TOML
// file) and never mutated afterward.
package language

import (
	"errors"
	"fmt"
	"strings"
)

// ScriptPlaceholder marks the argument position that receives the
// absolute path of the generated script file.
const ScriptPlaceholder = "${script}"

var (
	// ErrUnknownLanguage indicates a lookup for an unregistered language id.
	ErrUnknownLanguage = errors.New("unknown language")

	// ErrDuplicateLanguage indicates a registration with an already-used id.
	ErrDuplicateLanguage = errors.New("duplicate language id")

	// ErrNoPlaceholder indicates a command template without a ${script}
	// placeholder.
	ErrNoPlaceholder = errors.New("command template has no script placeholder")
)

// Descriptor describes one runnable language.
type Descriptor struct {
	// ID is the stable identifier used for selection (e.g., "swift").
	ID string

	// Name is the human-readable display name.
	Name string

	// Extension is the source file extension without the dot (e.g., "kts").
	Extension string

	// Command is the toolchain argument vector. Exactly one argument
	// contains ScriptPlaceholder, substituted with the script path at
	// launch time. Arguments are passed to process creation directly,
	// never through a shell.
	Command []string
}

// Validate checks the descriptor for structural problems.
func (d Descriptor) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("language descriptor: empty id")
	}
	if d.Extension == "" || strings.HasPrefix(d.Extension, ".") {
		return fmt.Errorf("language %s: extension must be non-empty without a leading dot", d.ID)
	}
	if len(d.Command) == 0 {
		return fmt.Errorf("language %s: empty command template", d.ID)
	}
	holders := 0
	for _, arg := range d.Command {
		holders += strings.Count(arg, ScriptPlaceholder)
	}
	if holders == 0 {
		return fmt.Errorf("language %s: %w", d.ID, ErrNoPlaceholder)
	}
	if holders > 1 {
		return fmt.Errorf("language %s: multiple script placeholders", d.ID)
	}
	return nil
}

// BuildCommand returns the concrete argument vector with the script
// placeholder replaced by scriptPath. The descriptor's template is not
// modified.
func (d Descriptor) BuildCommand(scriptPath string) []string {
	argv := make([]string, len(d.Command))
	for i, arg := range d.Command {
		argv[i] = strings.ReplaceAll(arg, ScriptPlaceholder, scriptPath)
	}
	return argv
}
