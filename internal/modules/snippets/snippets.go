// Package snippets provides per-chat text snippets: short named blobs saved
// and recalled by command.
package snippets

import (
	"context"
	"fmt"
	"strings"

	"modbot/internal/bot"
	"modbot/pkg/command"
)

var mod = &bot.Module{Name: "Snippets"}

func init() {
	bot.Register(mod, "snippet",
		command.Desc("Save and recall named text snippets")(
			command.Usage("<save|get|del|list> [name] [text]", false, false)(
				command.Alias("snip")(snippetCmd))))
}

func snippetCmd(ctx context.Context, inv *command.Context) (string, error) {
	info, ok := bot.InvocationFrom(ctx)
	if !ok || info.Store == nil {
		return "", fmt.Errorf("snippet storage is not available")
	}

	args := inv.Args()
	if len(args) == 0 {
		return "Usage: snippet <save|get|del|list> [name] [text]", nil
	}

	switch args[0] {
	case "save":
		if len(args) < 3 {
			return "Usage: snippet save <name> <text>", nil
		}
		name := args[1]
		text := strings.Join(args[2:], " ")
		// Two-step feedback: the confirmation arrives as a reply to the
		// progress message.
		if _, err := inv.RespondMulti(ctx, fmt.Sprintf("Saving snippet %q...", name), nil); err != nil {
			return "", err
		}
		if err := info.Store.SetSnippet(info.ChatID, name, text); err != nil {
			return "", fmt.Errorf("failed to save snippet: %w", err)
		}
		_, err := inv.RespondMulti(ctx, fmt.Sprintf("Snippet %q saved.", name), nil)
		return "", err

	case "get":
		if len(args) < 2 {
			return "Usage: snippet get <name>", nil
		}
		text, found, err := info.Store.GetSnippet(info.ChatID, args[1])
		if err != nil {
			return "", fmt.Errorf("failed to load snippet: %w", err)
		}
		if !found {
			return fmt.Sprintf("No snippet named %q.", args[1]), nil
		}
		return text, nil

	case "del":
		if len(args) < 2 {
			return "Usage: snippet del <name>", nil
		}
		existed, err := info.Store.DeleteSnippet(info.ChatID, args[1])
		if err != nil {
			return "", fmt.Errorf("failed to delete snippet: %w", err)
		}
		if !existed {
			return fmt.Sprintf("No snippet named %q.", args[1]), nil
		}
		return fmt.Sprintf("Snippet %q deleted.", args[1]), nil

	case "list":
		names, err := info.Store.SnippetNames(info.ChatID)
		if err != nil {
			return "", fmt.Errorf("failed to list snippets: %w", err)
		}
		if len(names) == 0 {
			return "No snippets saved in this chat.", nil
		}
		return "Snippets: " + strings.Join(names, ", "), nil
	}

	return fmt.Sprintf("Unknown subcommand %q.", args[0]), nil
}
