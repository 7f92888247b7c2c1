package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"modbot/internal/storage"
	"modbot/pkg/command"
)

// Incoming is one message as seen by a transport adapter.
type Incoming struct {
	Msg      command.Message
	ChatID   string
	UserID   string
	Username string
}

// Dispatcher turns prefixed messages into command invocations: it tokenizes
// the command line, builds the invocation Context, and runs the handler with
// the configured middleware chain. One Dispatch call per incoming message;
// adapters run them on their own goroutines.
type Dispatcher struct {
	reg           *command.Registry
	responder     command.Responder
	store         *storage.Storage
	defaultPrefix string
	chain         []Middleware
}

// NewDispatcher creates a dispatcher over reg. store may be nil (no prefix
// overrides, nothing for the logging middleware to write to).
func NewDispatcher(reg *command.Registry, responder command.Responder, store *storage.Storage, prefix string, mws ...Middleware) *Dispatcher {
	return &Dispatcher{
		reg:           reg,
		responder:     responder,
		store:         store,
		defaultPrefix: prefix,
		chain:         mws,
	}
}

// Prefix returns the command prefix in effect for a chat.
func (d *Dispatcher) Prefix(chatID string) string {
	if d.store != nil {
		if p, ok, err := d.store.GetPrefix(chatID); err == nil && ok {
			return p
		}
	}
	return d.defaultPrefix
}

// Dispatch parses one incoming message and, when it names a registered
// command, invokes it. Reports whether a command ran. Messages without the
// prefix or naming unknown commands are ignored silently; group chats are
// full of both.
func (d *Dispatcher) Dispatch(ctx context.Context, in Incoming) bool {
	plain := in.Msg.RawText()
	prefix := d.Prefix(in.ChatID)
	if !strings.HasPrefix(plain, prefix) {
		return false
	}
	body := plain[len(prefix):]

	segments := strings.Fields(body)
	if len(segments) == 0 {
		return false
	}
	c, ok := d.reg.Get(segments[0])
	if !ok {
		return false
	}

	cmdLen := utf8.RuneCountInString(prefix) + argOffset(body)
	cctx, err := command.NewContext(d.responder, in.Msg, segments, cmdLen)
	if err != nil {
		log.Printf("[ERR] Failed to build context for %q: %v", c.Name, err)
		return false
	}

	ctx = WithInvocation(ctx, &Invocation{
		ChatID:   in.ChatID,
		UserID:   in.UserID,
		Username: in.Username,
		Prefix:   prefix,
		Store:    d.store,
		Started:  time.Now(),
	})

	out, err := Apply(c.Func, d.chain...)(ctx, cctx)
	if err != nil {
		log.Printf("[ERR] Command %s failed: %v", c.Name, err)
		if _, rerr := cctx.Respond(ctx, fmt.Sprintf("⚠️ Error: %v", err), nil); rerr != nil {
			log.Printf("[ERR] Failed to report error for %s: %v", c.Name, rerr)
		}
		return true
	}
	// Returned text is shorthand for a final response.
	if out != "" {
		if _, err := cctx.Respond(ctx, out, nil); err != nil {
			log.Printf("[ERR] Failed to respond for %s: %v", c.Name, err)
		}
	}
	return true
}

// argOffset returns the character offset within body (the text after the
// prefix) where the argument portion begins: past any leading whitespace, the
// invoker token, and the whitespace after it.
func argOffset(body string) int {
	r := []rune(body)
	i := 0
	for i < len(r) && unicode.IsSpace(r[i]) {
		i++
	}
	for i < len(r) && !unicode.IsSpace(r[i]) {
		i++
	}
	for i < len(r) && unicode.IsSpace(r[i]) {
		i++
	}
	return i
}
