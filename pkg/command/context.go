package command

import (
	"context"
	"fmt"
)

// Context is the per-invocation object carrying parsed message data and the
// response-sending protocol. The dispatcher builds one immediately before
// invoking a handler and discards it after the handler returns; it is never
// shared across invocations. It holds no lock: a handler that hands it to
// goroutines it spawns must serialize its own Respond calls if the order of
// the stored response matters.
type Context struct {
	// Bot is the send/edit primitive for this invocation.
	Bot Responder
	// Msg is the triggering message, owned by the transport layer.
	Msg Message
	// Segments is the whitespace-tokenized command line; Segments[0] is the
	// invoking name or alias.
	Segments []string
	// CmdLen is the character offset in the message text where the argument
	// portion begins.
	CmdLen int
	// Invoker is the literal name or alias used to trigger the command.
	Invoker string
	// Input is the formatted message text from CmdLen onward.
	Input string
	// ParsedInput is the plain message text from CmdLen onward.
	ParsedInput string

	args     []string
	haveArgs bool

	response     Message
	responseMode string
}

// NewContext builds an invocation Context. segments must be non-empty and
// cmdLen must be a valid character offset into the message's formatted text;
// both failures return ErrInvalidArgument, and the runtime must not invoke a
// handler with a malformed Context. Input and ParsedInput are sliced eagerly;
// Args is deferred until first use.
func NewContext(bot Responder, msg Message, segments []string, cmdLen int) (*Context, error) {
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: empty segments", ErrInvalidArgument)
	}
	if cmdLen < 0 || cmdLen > len([]rune(msg.Text())) {
		return nil, fmt.Errorf("%w: cmd_len %d out of range", ErrInvalidArgument, cmdLen)
	}
	return &Context{
		Bot:         bot,
		Msg:         msg,
		Segments:    segments,
		CmdLen:      cmdLen,
		Invoker:     segments[0],
		Input:       sliceRunes(msg.Text(), cmdLen),
		ParsedInput: sliceRunes(msg.RawText(), cmdLen),
	}, nil
}

// Args returns the tokenized arguments, Segments[1:]. The slice is computed on
// first call and cached, so repeated calls return the identical slice.
func (c *Context) Args() []string {
	if !c.haveArgs {
		c.args = c.Segments[1:]
		c.haveArgs = true
	}
	return c.args
}

// Response returns the most recently sent or edited response for this
// invocation, or nil before the first Respond call.
func (c *Context) Response() Message { return c.response }

// ResponseMode returns the mode the most recent response was sent with.
func (c *Context) ResponseMode() string { return c.responseMode }

// Respond sends text via the Bot primitive and records the result. When
// opts.ReuseResponse is set and opts.Mode matches the mode of the previous
// response, that response is forwarded so the primitive may edit it in place;
// otherwise nil is forwarded, forcing a fresh send. On success the stored
// response and mode are overwritten unconditionally, which is what lets the
// next call reuse them. On failure both are left untouched and the error
// propagates unchanged.
func (c *Context) Respond(ctx context.Context, text string, opts *RespondOptions) (Message, error) {
	if opts == nil {
		opts = &RespondOptions{}
	}
	target := opts.Msg
	if target == nil {
		target = c.Msg
	}
	var prev Message
	if opts.ReuseResponse && opts.Mode == c.responseMode {
		prev = c.response
	}
	resp, err := c.Bot.Respond(ctx, target, text, &SendRequest{
		Mode:     opts.Mode,
		Redact:   opts.Redact,
		Response: prev,
		Extra:    opts.Extra,
	})
	if err != nil {
		return nil, err
	}
	c.response = resp
	c.responseMode = opts.Mode
	return resp, nil
}

// RespondMulti emits one of a sequence of related responses. The first call
// behaves exactly like Respond against the triggering message; every later
// call defaults, for options the caller left unset, to a fresh reply targeting
// the previous response, so the sequence forms a reply chain. Explicit
// options win over the defaults.
func (c *Context) RespondMulti(ctx context.Context, text string, opts *RespondOptions) (Message, error) {
	if opts == nil {
		opts = &RespondOptions{}
	}
	if c.response != nil {
		o := *opts
		if o.Mode == "" {
			o.Mode = ModeReply
		}
		if o.Msg == nil {
			o.Msg = c.response
		}
		opts = &o
	}
	return c.Respond(ctx, text, opts)
}

// Field resolves a Context field by its wire-style name, for inspection and
// scripting tooling. Unknown names return ErrUnknownAttribute rather than a
// zero value, which guards against typos. "args" resolves through the same
// lazy path as Args.
func (c *Context) Field(name string) (any, error) {
	switch name {
	case "bot":
		return c.Bot, nil
	case "msg":
		return c.Msg, nil
	case "segments":
		return c.Segments, nil
	case "cmd_len":
		return c.CmdLen, nil
	case "invoker":
		return c.Invoker, nil
	case "input":
		return c.Input, nil
	case "parsed_input":
		return c.ParsedInput, nil
	case "args":
		return c.Args(), nil
	case "response":
		return c.response, nil
	case "response_mode":
		return c.responseMode, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownAttribute, name)
}

// sliceRunes returns s from character offset n onward, clamping when the
// rendering is shorter than the offset (plain text can be shorter than the
// formatted text the offset was measured against).
func sliceRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if n >= len(r) {
		return ""
	}
	return string(r[n:])
}
