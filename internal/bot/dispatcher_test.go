package bot

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modbot/internal/storage"
	"modbot/pkg/command"
)

type fakeMessage struct {
	text string
	raw  string
}

func (m *fakeMessage) Text() string    { return m.text }
func (m *fakeMessage) RawText() string { return m.raw }

type fakeResponder struct {
	texts []string
	err   error
}

func (r *fakeResponder) Respond(ctx context.Context, target command.Message, text string, req *command.SendRequest) (command.Message, error) {
	r.texts = append(r.texts, text)
	if r.err != nil {
		return nil, r.err
	}
	return &fakeMessage{text: text, raw: text}, nil
}

func plainMsg(s string) *fakeMessage { return &fakeMessage{text: s, raw: s} }

func TestDispatch(t *testing.T) {
	t.Run("parses segments and offsets", func(t *testing.T) {
		reg := command.NewRegistry()
		var got *command.Context
		mustRegister(t, reg, "echo", func(ctx context.Context, inv *command.Context) (string, error) {
			got = inv
			return "", nil
		})
		d := NewDispatcher(reg, &fakeResponder{}, nil, ".")

		ran := d.Dispatch(context.Background(), Incoming{Msg: plainMsg(".echo  hello world"), ChatID: "c1"})
		require.True(t, ran)
		require.NotNil(t, got)
		assert.Equal(t, []string{"echo", "hello", "world"}, got.Segments)
		assert.Equal(t, "echo", got.Invoker)
		assert.Equal(t, "hello world", got.ParsedInput)
		assert.Equal(t, []string{"hello", "world"}, got.Args())
	})

	t.Run("ignores messages without prefix or with unknown command", func(t *testing.T) {
		reg := command.NewRegistry()
		d := NewDispatcher(reg, &fakeResponder{}, nil, ".")

		assert.False(t, d.Dispatch(context.Background(), Incoming{Msg: plainMsg("hello"), ChatID: "c1"}))
		assert.False(t, d.Dispatch(context.Background(), Incoming{Msg: plainMsg(".nope"), ChatID: "c1"}))
		assert.False(t, d.Dispatch(context.Background(), Incoming{Msg: plainMsg("."), ChatID: "c1"}))
	})

	t.Run("returned string is sent as the response", func(t *testing.T) {
		reg := command.NewRegistry()
		mustRegister(t, reg, "ping", func(ctx context.Context, inv *command.Context) (string, error) {
			return "Pong!", nil
		})
		resp := &fakeResponder{}
		d := NewDispatcher(reg, resp, nil, ".")

		require.True(t, d.Dispatch(context.Background(), Incoming{Msg: plainMsg(".ping"), ChatID: "c1"}))
		assert.Equal(t, []string{"Pong!"}, resp.texts)
	})

	t.Run("handler error is reported to the chat", func(t *testing.T) {
		reg := command.NewRegistry()
		mustRegister(t, reg, "boom", func(ctx context.Context, inv *command.Context) (string, error) {
			return "", errors.New("kaput")
		})
		resp := &fakeResponder{}
		d := NewDispatcher(reg, resp, nil, ".")

		require.True(t, d.Dispatch(context.Background(), Incoming{Msg: plainMsg(".boom"), ChatID: "c1"}))
		require.Len(t, resp.texts, 1)
		assert.Contains(t, resp.texts[0], "kaput")
	})

	t.Run("per-chat prefix override", func(t *testing.T) {
		store, err := storage.New(filepath.Join(t.TempDir(), "bot.json"))
		require.NoError(t, err)
		defer store.Close()
		require.NoError(t, store.SetPrefix("special", "!"))

		reg := command.NewRegistry()
		ran := 0
		mustRegister(t, reg, "ping", func(ctx context.Context, inv *command.Context) (string, error) {
			ran++
			return "", nil
		})
		d := NewDispatcher(reg, &fakeResponder{}, store, ".")

		assert.True(t, d.Dispatch(context.Background(), Incoming{Msg: plainMsg("!ping"), ChatID: "special"}))
		assert.False(t, d.Dispatch(context.Background(), Incoming{Msg: plainMsg(".ping"), ChatID: "special"}))
		assert.True(t, d.Dispatch(context.Background(), Incoming{Msg: plainMsg(".ping"), ChatID: "other"}))
		assert.Equal(t, 2, ran)
	})

	t.Run("alias dispatches with the alias as invoker", func(t *testing.T) {
		reg := command.NewRegistry()
		var invoker string
		mustRegister(t, reg, "snippet", command.Alias("snip")(func(ctx context.Context, inv *command.Context) (string, error) {
			invoker = inv.Invoker
			return "", nil
		}))
		d := NewDispatcher(reg, &fakeResponder{}, nil, ".")

		require.True(t, d.Dispatch(context.Background(), Incoming{Msg: plainMsg(".snip x"), ChatID: "c1"}))
		assert.Equal(t, "snip", invoker)
	})
}

func TestArgOffset(t *testing.T) {
	cases := []struct {
		body string
		want int
	}{
		{"echo hi", 5},
		{"echo  hi there", 6},
		{"echo", 4},
		{" echo hi", 6},
		{"пинг да", 5},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, argOffset(c.body), c.body)
	}
}

func TestMiddleware(t *testing.T) {
	t.Run("command logger records history", func(t *testing.T) {
		store, err := storage.New(filepath.Join(t.TempDir(), "bot.json"))
		require.NoError(t, err)
		defer store.Close()

		reg := command.NewRegistry()
		mustRegister(t, reg, "ping", func(ctx context.Context, inv *command.Context) (string, error) {
			return "", nil
		})
		d := NewDispatcher(reg, &fakeResponder{}, store, ".", WithCommandLogger())

		require.True(t, d.Dispatch(context.Background(), Incoming{
			Msg: plainMsg(".ping now"), ChatID: "c1", UserID: "u1", Username: "alice",
		}))

		hist, err := store.CommandHistory("c1")
		require.NoError(t, err)
		require.Len(t, hist, 1)
		assert.Equal(t, "ping", hist[0].Command)
		assert.Equal(t, "now", hist[0].Param)
		assert.Equal(t, "alice", hist[0].Username)
	})

	t.Run("rate limit drops the overflow", func(t *testing.T) {
		reg := command.NewRegistry()
		ran := 0
		mustRegister(t, reg, "ping", func(ctx context.Context, inv *command.Context) (string, error) {
			ran++
			return "", nil
		})
		d := NewDispatcher(reg, &fakeResponder{}, nil, ".", WithChatRateLimit(0.0001, 1))

		for i := 0; i < 3; i++ {
			d.Dispatch(context.Background(), Incoming{Msg: plainMsg(".ping"), ChatID: "c1"})
		}
		assert.Equal(t, 1, ran)
	})
}

// mustRegister registers fn on reg without touching the global default registry.
func mustRegister(t *testing.T, reg *command.Registry, name string, fn command.HandlerFunc) {
	t.Helper()
	c, err := command.New(name, nil, fn)
	require.NoError(t, err)
	require.NoError(t, reg.Register(c))
}
