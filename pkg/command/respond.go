package command

import "context"

// ModeReply is the delivery mode RespondMulti falls back to for follow-up
// responses. All other mode strings are opaque to this package and interpreted
// by the Responder.
const ModeReply = "reply"

// Message is the minimal view of a chat message the core needs: a formatted
// rendering (markup preserved) and a plain-text rendering (markup stripped).
// Concrete transport types are passed back to the Responder unchanged for
// edit/reply targeting.
type Message interface {
	// Text returns the message text with formatting markup.
	Text() string
	// RawText returns the plain message text.
	RawText() string
}

// SendRequest carries the delivery options the core threads through to a
// Responder. Response, when non-nil, is a previously sent message the
// Responder may edit in place instead of sending a new one, when that is
// valid for the given mode.
type SendRequest struct {
	Mode     string
	Redact   *bool
	Response Message
	// Extra holds transport-specific options, threaded through opaquely.
	Extra map[string]any
}

// Responder is the low-level send/edit primitive, implemented by transport
// adapters. It must accept req.Response == nil (fresh send) and return the
// message it sent or edited. Failures propagate to the handler unchanged.
type Responder interface {
	Respond(ctx context.Context, target Message, text string, req *SendRequest) (Message, error)
}

// RespondOptions are the caller-facing options for Context.Respond and
// Context.RespondMulti. The zero value sends a fresh message to the
// triggering message with the transport's default mode.
type RespondOptions struct {
	// Mode selects the delivery strategy (e.g. "reply", "edit"); recognized
	// values are owned by the Responder.
	Mode string
	// Redact is passed through to the Responder unchanged.
	Redact *bool
	// Msg overrides the target message; defaults to the triggering message.
	Msg Message
	// ReuseResponse permits editing the previous response in place when Mode
	// matches the mode that response was sent with.
	ReuseResponse bool
	// Extra holds transport-specific options, passed through verbatim.
	Extra map[string]any
}
