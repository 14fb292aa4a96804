package repl

import (
	"sort"
	"strings"
)

// builtins are handled by the loop itself.
var builtins = []string{"exit", "quit", "history"}

// Completer suggests command lines for a prefix.
type Completer struct {
	commands []string
}

// NewCompleter creates a Completer over command paths such as "skills"
// and "skills add".
func NewCompleter(commands []string) *Completer {
	all := append(append([]string(nil), commands...), builtins...)
	sort.Strings(all)
	return &Completer{commands: all}
}

// Complete returns every command starting with prefix, sorted.
func (c *Completer) Complete(prefix string) []string {
	var out []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			out = append(out, cmd)
		}
	}
	return out
}
