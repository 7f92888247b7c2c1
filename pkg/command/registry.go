package command

import (
	"fmt"
	"sort"
)

// DefaultRegistry is the global registry adapters dispatch against. Module
// packages register into it from init().
var DefaultRegistry = NewRegistry()

// Registry stores commands by name and alias. It does not perform dispatch;
// each adapter looks commands up and invokes them with its own Context.
type Registry struct {
	commands map[string]*Command
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]*Command)}
}

// Register adds a command under its name and every alias. A name or alias
// already taken by another command is an error.
func (r *Registry) Register(c *Command) error {
	keys := append([]string{c.Name}, c.Aliases...)
	for _, k := range keys {
		if prev, ok := r.commands[k]; ok && prev != c {
			return fmt.Errorf("command %q: key %q already registered to %q", c.Name, k, prev.Name)
		}
	}
	for _, k := range keys {
		r.commands[k] = c
	}
	return nil
}

// Get returns the command registered under name or alias.
func (r *Registry) Get(name string) (*Command, bool) {
	c, ok := r.commands[name]
	return c, ok
}

// All returns every registered command once, sorted by name.
func (r *Registry) All() []*Command {
	seen := make(map[string]bool, len(r.commands))
	var list []*Command
	for _, c := range r.commands {
		if seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}
