package bot

import (
	"context"
	"time"

	"modbot/internal/storage"
)

// Invocation carries per-dispatch details that are not part of the command
// core's Context: who sent the message, in which chat, and bot-wide handles
// commands may need. It travels on the context.Context.
type Invocation struct {
	ChatID   string
	UserID   string
	Username string
	Prefix   string
	Store    *storage.Storage
	Started  time.Time
}

type ctxKey int

const invocationKey ctxKey = iota

// WithInvocation returns a context carrying inv.
func WithInvocation(ctx context.Context, inv *Invocation) context.Context {
	return context.WithValue(ctx, invocationKey, inv)
}

// InvocationFrom returns the Invocation stored on ctx, if any.
func InvocationFrom(ctx context.Context) (*Invocation, bool) {
	inv, ok := ctx.Value(invocationKey).(*Invocation)
	return inv, ok
}
