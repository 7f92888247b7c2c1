// Package system provides the bot's built-in housekeeping commands: ping,
// uptime, prefix management, command history, and help.
package system

import (
	"context"
	"fmt"
	"strings"
	"time"

	"modbot/internal/bot"
	"modbot/pkg/command"
	"modbot/pkg/util"
)

var mod = &bot.Module{Name: "System"}

var started = time.Now()

func init() {
	bot.Register(mod, "ping",
		command.Desc("Check response latency")(pingCmd))
	bot.Register(mod, "uptime",
		command.Desc("How long the bot has been running")(
			command.Alias("up")(uptimeCmd)))
	bot.Register(mod, "prefix",
		command.Desc("Get or set this chat's command prefix")(
			command.Usage("[new prefix]", true, false)(prefixCmd)))
	bot.Register(mod, "history",
		command.Desc("Show recent commands used in this chat")(
			command.Alias("hist")(historyCmd)))
	bot.Register(mod, "help",
		command.Desc("List all commands")(
			command.Alias("h", "commands")(helpCmd)))
}

// pingCmd sends a placeholder, then edits it in place with the measured
// round-trip time of the first send.
func pingCmd(ctx context.Context, inv *command.Context) (string, error) {
	start := time.Now()
	if _, err := inv.Respond(ctx, "Calculating...", nil); err != nil {
		return "", err
	}
	latency := time.Since(start)

	_, err := inv.Respond(ctx, fmt.Sprintf("Pong! %dms", latency.Milliseconds()),
		&command.RespondOptions{ReuseResponse: true})
	return "", err
}

func uptimeCmd(ctx context.Context, inv *command.Context) (string, error) {
	return "Uptime: " + util.FormatDuration(time.Since(started)), nil
}

func prefixCmd(ctx context.Context, inv *command.Context) (string, error) {
	info, ok := bot.InvocationFrom(ctx)
	if !ok || info.Store == nil {
		return "", fmt.Errorf("prefix storage is not available")
	}
	if len(inv.Args()) == 0 {
		return fmt.Sprintf("Current prefix: `%s`", info.Prefix), nil
	}

	newPrefix := inv.Args()[0]
	if err := info.Store.SetPrefix(info.ChatID, newPrefix); err != nil {
		return "", fmt.Errorf("failed to save prefix: %w", err)
	}
	return fmt.Sprintf("Prefix set to `%s`", newPrefix), nil
}

func historyCmd(ctx context.Context, inv *command.Context) (string, error) {
	info, ok := bot.InvocationFrom(ctx)
	if !ok || info.Store == nil {
		return "", fmt.Errorf("history storage is not available")
	}
	records, err := info.Store.CommandHistory(info.ChatID)
	if err != nil {
		return "", fmt.Errorf("failed to load history: %w", err)
	}
	if len(records) == 0 {
		return "No commands recorded in this chat yet.", nil
	}

	var sb strings.Builder
	sb.WriteString("Recent commands:\n")
	for _, rec := range records {
		fmt.Fprintf(&sb, "%s  %s — %s", util.FormatDateTpl(rec.Unix, "YYYY-MM-DD hh:mm"), rec.Username, rec.Command)
		if rec.Param != "" {
			fmt.Fprintf(&sb, " %s", rec.Param)
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// helpCmd renders every registered command grouped by module, with usage and
// alias annotations taken from the command metadata.
func helpCmd(ctx context.Context, inv *command.Context) (string, error) {
	prefix := "."
	if info, ok := bot.InvocationFrom(ctx); ok {
		prefix = info.Prefix
	}

	byModule := make(map[string][]*command.Command)
	var order []string
	for _, c := range command.DefaultRegistry.All() {
		name := "Other"
		if m, ok := c.Module.(*bot.Module); ok {
			name = m.Name
		}
		if _, seen := byModule[name]; !seen {
			order = append(order, name)
		}
		byModule[name] = append(byModule[name], c)
	}

	var sb strings.Builder
	for _, modName := range order {
		fmt.Fprintf(&sb, "%s:\n", modName)
		for _, c := range byModule[modName] {
			sb.WriteString("  " + prefix + c.Name)
			if c.Usage != "" {
				if c.UsageOptional {
					fmt.Fprintf(&sb, " [%s]", strings.Trim(c.Usage, "[]<>"))
				} else {
					fmt.Fprintf(&sb, " %s", c.Usage)
				}
			}
			if c.UsageReply {
				sb.WriteString(" (or reply to a message)")
			}
			if c.Desc != "" {
				sb.WriteString(" — " + c.Desc)
			}
			if len(c.Aliases) > 0 {
				fmt.Fprintf(&sb, " (aliases: %s)", strings.Join(c.Aliases, ", "))
			}
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}
