package telegram

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown(t *testing.T) {
	t.Run("no entities returns text unchanged", func(t *testing.T) {
		assert.Equal(t, "plain text", renderMarkdown("plain text", nil))
	})

	t.Run("bold and code", func(t *testing.T) {
		got := renderMarkdown("run go test now", []tgbotapi.MessageEntity{
			{Type: "bold", Offset: 0, Length: 3},
			{Type: "code", Offset: 4, Length: 7},
		})
		assert.Equal(t, "*run* `go test` now", got)
	})

	t.Run("text link", func(t *testing.T) {
		got := renderMarkdown("see docs", []tgbotapi.MessageEntity{
			{Type: "text_link", Offset: 4, Length: 4, URL: "https://example.com"},
		})
		assert.Equal(t, "see [docs](https://example.com)", got)
	})

	t.Run("offsets are utf16 aware", func(t *testing.T) {
		// "🙂" is two UTF-16 code units, so "hi" starts at offset 3.
		got := renderMarkdown("🙂 hi", []tgbotapi.MessageEntity{
			{Type: "italic", Offset: 3, Length: 2},
		})
		assert.Equal(t, "🙂 _hi_", got)
	})

	t.Run("unknown entity types pass through", func(t *testing.T) {
		got := renderMarkdown("@user hello", []tgbotapi.MessageEntity{
			{Type: "mention", Offset: 0, Length: 5},
		})
		assert.Equal(t, "@user hello", got)
	})

	t.Run("out of range entity ignored", func(t *testing.T) {
		got := renderMarkdown("abc", []tgbotapi.MessageEntity{
			{Type: "bold", Offset: 2, Length: 10},
		})
		assert.Equal(t, "abc", got)
	})
}

func TestMessageWrapping(t *testing.T) {
	m := &tgbotapi.Message{
		Text: ".echo hi",
		Entities: []tgbotapi.MessageEntity{
			{Type: "bold", Offset: 6, Length: 2},
		},
	}
	wrapped := wrapMessage(m)
	assert.Equal(t, ".echo *hi*", wrapped.Text())
	assert.Equal(t, ".echo hi", wrapped.RawText())
}
