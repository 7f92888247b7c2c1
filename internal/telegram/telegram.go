// Package telegram binds the command runtime to the Telegram Bot API: it
// feeds incoming messages to the dispatcher and implements the send/edit
// primitive commands respond through.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"modbot/internal/bot"
	"modbot/internal/config"
	"modbot/internal/storage"
	"modbot/pkg/command"
	"modbot/pkg/floodwait"
)

const redactedPlaceholder = "[redacted]"

// Message wraps a Telegram message as a command.Message. The formatted
// rendering is rebuilt from the message entities once, at wrap time.
type Message struct {
	msg       *tgbotapi.Message
	formatted string
}

func wrapMessage(m *tgbotapi.Message) *Message {
	return &Message{msg: m, formatted: renderMarkdown(m.Text, m.Entities)}
}

// Text returns the markdown rendering of the message.
func (m *Message) Text() string { return m.formatted }

// RawText returns the plain message text.
func (m *Message) RawText() string { return m.msg.Text }

// Bot is the Telegram transport adapter.
type Bot struct {
	api        *tgbotapi.BotAPI
	cfg        *config.Config
	dispatcher *bot.Dispatcher
	limiter    *floodwait.Limiter
}

// NewBot creates the adapter and its dispatcher over the default command
// registry.
func NewBot(cfg *config.Config, store *storage.Storage) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("telegram: failed to create client: %w", err)
	}

	b := &Bot{
		api:     api,
		cfg:     cfg,
		limiter: floodwait.New(cfg.SendRate, cfg.SendBurst),
	}
	b.dispatcher = bot.NewDispatcher(
		command.DefaultRegistry, b, store, cfg.CommandPrefix,
		bot.WithCommandLogger(),
		bot.WithChatRateLimit(1, 3),
	)
	return b, nil
}

// Run consumes updates until ctx is done. Each message is dispatched on its
// own goroutine.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	log.Printf("[INFO] ✅ Telegram bot @%s is running.", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			log.Println("[INFO] Telegram update loop stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			m := update.Message
			if m == nil || m.Text == "" || (m.From != nil && m.From.IsBot) {
				continue
			}
			go b.handleMessage(ctx, m)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, m *tgbotapi.Message) {
	in := bot.Incoming{
		Msg:    wrapMessage(m),
		ChatID: strconv.FormatInt(m.Chat.ID, 10),
	}
	if m.From != nil {
		in.UserID = strconv.FormatInt(m.From.ID, 10)
		in.Username = m.From.UserName
	}
	b.dispatcher.Dispatch(ctx, in)
}

// Respond implements command.Responder. A non-nil req.Response is edited in
// place; mode "reply" sends a reply to the target; anything else is a plain
// send to the target's chat. Flood-wait errors from Telegram are retried with
// the server's advised delay.
func (b *Bot) Respond(ctx context.Context, target command.Message, text string, req *command.SendRequest) (command.Message, error) {
	tm, ok := target.(*Message)
	if !ok {
		return nil, fmt.Errorf("telegram: unsupported target message type %T", target)
	}
	if req == nil {
		req = &command.SendRequest{}
	}
	if req.Redact != nil && *req.Redact && b.cfg.RedactResponses {
		text = redactedPlaceholder
	}

	var sent tgbotapi.Message
	err := b.limiter.Do(ctx, func() error {
		var err error
		sent, err = b.api.Send(b.buildChattable(tm, text, req))
		return translateError(err)
	})
	if err != nil {
		return nil, err
	}
	return wrapMessage(&sent), nil
}

func (b *Bot) buildChattable(target *Message, text string, req *command.SendRequest) tgbotapi.Chattable {
	if prev, ok := req.Response.(*Message); ok {
		edit := tgbotapi.NewEditMessageText(prev.msg.Chat.ID, prev.msg.MessageID, text)
		edit.ParseMode = extraString(req.Extra, "parse_mode")
		return edit
	}

	msg := tgbotapi.NewMessage(target.msg.Chat.ID, text)
	if req.Mode == command.ModeReply {
		msg.ReplyToMessageID = target.msg.MessageID
	}
	msg.ParseMode = extraString(req.Extra, "parse_mode")
	if silent, ok := req.Extra["silent"].(bool); ok {
		msg.DisableNotification = silent
	}
	if noPreview, ok := req.Extra["no_preview"].(bool); ok {
		msg.DisableWebPagePreview = noPreview
	}
	return msg
}

func extraString(extra map[string]any, key string) string {
	s, _ := extra[key].(string)
	return s
}

// translateError maps Telegram "Too Many Requests" responses onto
// floodwait.WaitError so the limiter can honor the advised delay.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var tgErr *tgbotapi.Error
	if errors.As(err, &tgErr) && tgErr.RetryAfter > 0 {
		return &floodwait.WaitError{RetryAfter: time.Duration(tgErr.RetryAfter) * time.Second}
	}
	return err
}
