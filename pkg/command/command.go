// Package command is the transport-agnostic command core: it defines how a
// handler function becomes a registered command with metadata (description,
// usage hint, aliases), and the per-invocation Context a handler uses to read
// arguments and send responses. How messages arrive and how responses are
// delivered is defined by adapters (Telegram, Discord) that implement the
// Message and Responder interfaces.
package command

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrInvalidCommand is returned when a command is built from a nil handler.
	ErrInvalidCommand = errors.New("invalid command")

	// ErrInvalidArgument is returned when a Context is built from malformed input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnknownAttribute is returned by Context.Field for unrecognized names.
	ErrUnknownAttribute = errors.New("unknown attribute")
)

// HandlerFunc is the universal handler contract. A non-empty returned string
// is shorthand the dispatcher sends as the final response; handlers that
// respond themselves return "".
type HandlerFunc func(ctx context.Context, inv *Context) (string, error)

// Command binds a name, metadata, owning module, and handler. Immutable after
// construction; built once at module registration time.
type Command struct {
	Name          string
	Desc          string
	Usage         string
	UsageOptional bool
	UsageReply    bool
	Aliases       []string

	// Module is an opaque handle identifying the owning module. The core only
	// stores it; callers that know the concrete type may inspect it.
	Module any

	Func HandlerFunc
}

// New builds a Command from a handler and the tags previously applied to it.
// Absent tags yield zero values, never an error. The only failure is a nil
// handler.
func New(name string, mod any, fn HandlerFunc) (*Command, error) {
	if fn == nil {
		return nil, fmt.Errorf("%w: %q has no handler", ErrInvalidCommand, name)
	}
	m := metadataFor(fn)
	return &Command{
		Name:          name,
		Desc:          m.desc,
		Usage:         m.usage,
		UsageOptional: m.usageOptional,
		UsageReply:    m.usageReply,
		Aliases:       m.aliases,
		Module:        mod,
		Func:          fn,
	}, nil
}
