// Package text provides small text utility commands.
package text

import (
	"context"
	"strings"

	"modbot/internal/bot"
	"modbot/pkg/command"
)

var mod = &bot.Module{Name: "Text"}

func init() {
	bot.Register(mod, "echo",
		command.Desc("Repeat the given text, formatting preserved")(
			command.Usage("<text>", false, false)(echoCmd)))
	bot.Register(mod, "unformat",
		command.Desc("Repeat the given text with formatting stripped")(
			command.Usage("<text>", false, false)(
				command.Alias("plain")(unformatCmd))))
	bot.Register(mod, "shout",
		command.Desc("Repeat the given text, loudly")(
			command.Usage("<text>", false, false)(shoutCmd)))
}

func echoCmd(ctx context.Context, inv *command.Context) (string, error) {
	if inv.Input == "" {
		return "Give me something to echo.", nil
	}
	return inv.Input, nil
}

func unformatCmd(ctx context.Context, inv *command.Context) (string, error) {
	if inv.ParsedInput == "" {
		return "Give me something to unformat.", nil
	}
	return inv.ParsedInput, nil
}

func shoutCmd(ctx context.Context, inv *command.Context) (string, error) {
	if inv.ParsedInput == "" {
		return "Give me something to shout.", nil
	}
	return strings.ToUpper(inv.ParsedInput) + "!", nil
}
