// Package discord binds the command runtime to Discord guild text channels:
// prefixed messages go to the dispatcher, and responses are delivered through
// discordgo as sends, replies, or in-place edits.
package discord

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"modbot/internal/bot"
	"modbot/internal/config"
	"modbot/internal/storage"
	"modbot/pkg/command"
	"modbot/pkg/floodwait"
)

const redactedPlaceholder = "[redacted]"

// Message wraps a Discord message as a command.Message. Discord content is
// already markdown, so the plain rendering strips the formatting runes.
type Message struct {
	msg *discordgo.Message
}

func wrapMessage(m *discordgo.Message) *Message { return &Message{msg: m} }

// Text returns the message content with markdown.
func (m *Message) Text() string { return m.msg.Content }

// RawText returns the message content with markdown stripped.
func (m *Message) RawText() string { return stripMarkdown(m.msg.Content) }

var markdownStripper = strings.NewReplacer(
	"```", "",
	"~~", "",
	"||", "",
	"**", "",
	"__", "",
	"*", "",
	"_", "",
	"`", "",
)

func stripMarkdown(s string) string { return markdownStripper.Replace(s) }

// Bot is the Discord transport adapter.
type Bot struct {
	dg         *discordgo.Session
	cfg        *config.Config
	dispatcher *bot.Dispatcher
	limiter    *floodwait.Limiter
}

// NewBot creates the adapter and its dispatcher over the default command
// registry.
func NewBot(cfg *config.Config, store *storage.Storage) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("discord: failed to create session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	b := &Bot{
		dg:      dg,
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

// Run opens the gateway session and blocks until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	b.dg.AddHandler(b.onReady)
	b.dg.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		b.onMessageCreate(ctx, s, m)
	})

	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("discord: failed to open session: %w", err)
	}
	defer b.dg.Close()

	<-ctx.Done()
	log.Println("[INFO] Discord session closing...")
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	log.Printf("[INFO] ✅ Discord bot %s is running.", r.User.Username)
}

func (b *Bot) onMessageCreate(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.Author.ID == s.State.User.ID {
		return
	}
	go b.dispatcher.Dispatch(ctx, bot.Incoming{
		Msg:      wrapMessage(m.Message),
		ChatID:   m.ChannelID,
		UserID:   m.Author.ID,
		Username: m.Author.Username,
	})
}

// Respond implements command.Responder. A non-nil req.Response is edited in
// place; mode "reply" sends a referenced reply to the target; anything else
// is a plain channel send.
func (b *Bot) Respond(ctx context.Context, target command.Message, text string, req *command.SendRequest) (command.Message, error) {
	tm, ok := target.(*Message)
	if !ok {
		return nil, fmt.Errorf("discord: unsupported target message type %T", target)
	}
	if req == nil {
		req = &command.SendRequest{}
	}
	if req.Redact != nil && *req.Redact && b.cfg.RedactResponses {
		text = redactedPlaceholder
	}

	var sent *discordgo.Message
	err := b.limiter.Do(ctx, func() error {
		var err error
		sent, err = b.send(tm, text, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return wrapMessage(sent), nil
}

func (b *Bot) send(target *Message, text string, req *command.SendRequest) (*discordgo.Message, error) {
	if prev, ok := req.Response.(*Message); ok {
		return b.dg.ChannelMessageEdit(prev.msg.ChannelID, prev.msg.ID, text)
	}
	if req.Mode == command.ModeReply {
		return b.dg.ChannelMessageSendReply(target.msg.ChannelID, text, &discordgo.MessageReference{
			MessageID: target.msg.ID,
			ChannelID: target.msg.ChannelID,
			GuildID:   target.msg.GuildID,
		})
	}
	return b.dg.ChannelMessageSend(target.msg.ChannelID, text)
}
