package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMessage struct {
	text string
	raw  string
}

func (m *fakeMessage) Text() string    { return m.text }
func (m *fakeMessage) RawText() string { return m.raw }

type sendCall struct {
	target Message
	text   string
	req    *SendRequest
}

// fakeResponder records every call and returns a fresh message per send, or
// the configured error.
type fakeResponder struct {
	calls []sendCall
	err   error
}

func (r *fakeResponder) Respond(ctx context.Context, target Message, text string, req *SendRequest) (Message, error) {
	r.calls = append(r.calls, sendCall{target: target, text: text, req: req})
	if r.err != nil {
		return nil, r.err
	}
	return &fakeMessage{text: text, raw: text}, nil
}

func newTestContext(t *testing.T, bot Responder) *Context {
	t.Helper()
	msg := &fakeMessage{text: "/echo **hi**", raw: "/echo hi"}
	ctx, err := NewContext(bot, msg, []string{"/echo", "hi"}, 6)
	require.NoError(t, err)
	return ctx
}

func TestNewContext(t *testing.T) {
	t.Run("eager input slicing", func(t *testing.T) {
		ctx := newTestContext(t, &fakeResponder{})
		assert.Equal(t, "/echo", ctx.Invoker)
		assert.Equal(t, "**hi**", ctx.Input)
		assert.Equal(t, "hi", ctx.ParsedInput)
	})

	t.Run("unicode offsets are character based", func(t *testing.T) {
		msg := &fakeMessage{text: "пинг **да**", raw: "пинг да"}
		ctx, err := NewContext(&fakeResponder{}, msg, []string{"пинг", "да"}, 5)
		require.NoError(t, err)
		assert.Equal(t, "**да**", ctx.Input)
		assert.Equal(t, "да", ctx.ParsedInput)
	})

	t.Run("empty segments rejected", func(t *testing.T) {
		_, err := NewContext(&fakeResponder{}, &fakeMessage{}, nil, 0)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("cmd_len out of range rejected", func(t *testing.T) {
		msg := &fakeMessage{text: "/x", raw: "/x"}
		_, err := NewContext(&fakeResponder{}, msg, []string{"/x"}, 3)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		_, err = NewContext(&fakeResponder{}, msg, []string{"/x"}, -1)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestContextArgs(t *testing.T) {
	ctx := newTestContext(t, &fakeResponder{})
	first := ctx.Args()
	assert.Equal(t, []string{"hi"}, first)

	// Cached: repeated access returns the identical slice.
	second := ctx.Args()
	assert.Equal(t, &first[0], &second[0])
}

func TestContextRespond(t *testing.T) {
	t.Run("first respond records response and mode", func(t *testing.T) {
		bot := &fakeResponder{}
		ctx := newTestContext(t, bot)

		resp, err := ctx.Respond(context.Background(), "A", &RespondOptions{Mode: "reply"})
		require.NoError(t, err)
		require.Len(t, bot.calls, 1)
		assert.Same(t, ctx.Msg, bot.calls[0].target)
		assert.Nil(t, bot.calls[0].req.Response)
		assert.Equal(t, "reply", ctx.ResponseMode())
		assert.Same(t, resp, ctx.Response())
	})

	t.Run("reuse forwards previous response on mode match", func(t *testing.T) {
		bot := &fakeResponder{}
		ctx := newTestContext(t, bot)

		first, err := ctx.Respond(context.Background(), "A", &RespondOptions{Mode: "reply"})
		require.NoError(t, err)

		_, err = ctx.Respond(context.Background(), "B", &RespondOptions{Mode: "reply", ReuseResponse: true})
		require.NoError(t, err)
		require.Len(t, bot.calls, 2)
		assert.Same(t, first, bot.calls[1].req.Response)
	})

	t.Run("mode mismatch forces fresh send despite reuse", func(t *testing.T) {
		bot := &fakeResponder{}
		ctx := newTestContext(t, bot)

		_, err := ctx.Respond(context.Background(), "A", &RespondOptions{Mode: "reply"})
		require.NoError(t, err)

		_, err = ctx.Respond(context.Background(), "B", &RespondOptions{Mode: "edit", ReuseResponse: true})
		require.NoError(t, err)
		assert.Nil(t, bot.calls[1].req.Response)
		assert.Equal(t, "edit", ctx.ResponseMode())
	})

	t.Run("reuse on fresh context forwards nil", func(t *testing.T) {
		// Unset mode equals the initial stored mode, but there is no stored
		// response yet, so the primitive still gets a fresh send.
		bot := &fakeResponder{}
		ctx := newTestContext(t, bot)

		_, err := ctx.Respond(context.Background(), "A", &RespondOptions{ReuseResponse: true})
		require.NoError(t, err)
		assert.Nil(t, bot.calls[0].req.Response)
	})

	t.Run("state recorded even without reuse", func(t *testing.T) {
		bot := &fakeResponder{}
		ctx := newTestContext(t, bot)

		resp, err := ctx.Respond(context.Background(), "A", nil)
		require.NoError(t, err)
		assert.Same(t, resp, ctx.Response())
		assert.Equal(t, "", ctx.ResponseMode())
	})

	t.Run("send failure leaves state untouched", func(t *testing.T) {
		boom := errors.New("flood wait")
		bot := &fakeResponder{}
		ctx := newTestContext(t, bot)

		first, err := ctx.Respond(context.Background(), "A", &RespondOptions{Mode: "reply"})
		require.NoError(t, err)

		bot.err = boom
		_, err = ctx.Respond(context.Background(), "B", &RespondOptions{Mode: "edit"})
		assert.ErrorIs(t, err, boom)
		assert.Same(t, first, ctx.Response())
		assert.Equal(t, "reply", ctx.ResponseMode())
	})

	t.Run("msg override and extras threaded through", func(t *testing.T) {
		bot := &fakeResponder{}
		ctx := newTestContext(t, bot)
		other := &fakeMessage{text: "other", raw: "other"}

		redact := true
		_, err := ctx.Respond(context.Background(), "A", &RespondOptions{
			Msg:    other,
			Redact: &redact,
			Extra:  map[string]any{"parse_mode": "HTML"},
		})
		require.NoError(t, err)
		assert.Same(t, other, bot.calls[0].target)
		assert.Equal(t, &redact, bot.calls[0].req.Redact)
		assert.Equal(t, "HTML", bot.calls[0].req.Extra["parse_mode"])
	})
}

func TestContextRespondMulti(t *testing.T) {
	t.Run("first call matches plain respond", func(t *testing.T) {
		bot := &fakeResponder{}
		ctx := newTestContext(t, bot)

		_, err := ctx.RespondMulti(context.Background(), "step 1", nil)
		require.NoError(t, err)
		assert.Same(t, ctx.Msg, bot.calls[0].target)
		assert.Equal(t, "", bot.calls[0].req.Mode)
	})

	t.Run("later calls reply to the previous response", func(t *testing.T) {
		bot := &fakeResponder{}
		ctx := newTestContext(t, bot)

		first, err := ctx.RespondMulti(context.Background(), "step 1", nil)
		require.NoError(t, err)

		_, err = ctx.RespondMulti(context.Background(), "step 2", nil)
		require.NoError(t, err)
		require.Len(t, bot.calls, 2)
		assert.Same(t, first, bot.calls[1].target)
		assert.Equal(t, ModeReply, bot.calls[1].req.Mode)
		assert.Nil(t, bot.calls[1].req.Response)
	})

	t.Run("explicit options win over defaults", func(t *testing.T) {
		bot := &fakeResponder{}
		ctx := newTestContext(t, bot)
		other := &fakeMessage{text: "other", raw: "other"}

		_, err := ctx.RespondMulti(context.Background(), "step 1", nil)
		require.NoError(t, err)

		_, err = ctx.RespondMulti(context.Background(), "step 2", &RespondOptions{Mode: "edit", Msg: other})
		require.NoError(t, err)
		assert.Same(t, other, bot.calls[1].target)
		assert.Equal(t, "edit", bot.calls[1].req.Mode)
	})
}

func TestContextField(t *testing.T) {
	ctx := newTestContext(t, &fakeResponder{})

	got, err := ctx.Field("invoker")
	require.NoError(t, err)
	assert.Equal(t, "/echo", got)

	got, err = ctx.Field("args")
	require.NoError(t, err)
	assert.Equal(t, []string{"hi"}, got)

	_, err = ctx.Field("nonexistent_field")
	assert.ErrorIs(t, err, ErrUnknownAttribute)
}
