// Package bot is the runtime around the command core: modules, the message
// dispatcher, and cross-cutting middleware. Transport adapters feed it
// incoming messages; it parses them and invokes registered commands.
package bot

import (
	"log"

	"modbot/pkg/command"
)

// Module groups related commands for attribution and help output. Commands
// hold a non-owning reference to their module.
type Module struct {
	Name string
}

// Register builds a command from fn and the tags applied to it, owned by m,
// and adds it to the default registry. Called from module package init();
// conflicts are programmer errors and abort startup.
func Register(m *Module, name string, fn command.HandlerFunc) {
	c, err := command.New(name, m, fn)
	if err != nil {
		log.Fatalf("[ERR] Failed to build command %q: %v", name, err)
	}
	if err := command.DefaultRegistry.Register(c); err != nil {
		log.Fatalf("[ERR] Failed to register command %q: %v", name, err)
	}
}
