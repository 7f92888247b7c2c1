package telegram

import (
	"fmt"
	"sort"
	"unicode/utf16"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// renderMarkdown rebuilds a markdown rendering of a message from its plain
// text and entity list, so commands can tell formatted input apart from plain
// input. Entity offsets are UTF-16 code units, per the Telegram API. Nested
// or overlapping entities are rare in practice; any entity starting inside an
// already handled one is skipped.
func renderMarkdown(text string, entities []tgbotapi.MessageEntity) string {
	if len(entities) == 0 {
		return text
	}

	units := utf16.Encode([]rune(text))
	sorted := make([]tgbotapi.MessageEntity, len(entities))
	copy(sorted, entities)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Offset < sorted[j].Offset })

	var out []uint16
	last := 0
	for _, e := range sorted {
		open, close, ok := entityDelims(e)
		if !ok {
			continue
		}
		start, end := e.Offset, e.Offset+e.Length
		if start < last || end > len(units) {
			continue
		}
		out = append(out, units[last:start]...)
		out = append(out, utf16.Encode([]rune(open))...)
		out = append(out, units[start:end]...)
		out = append(out, utf16.Encode([]rune(close))...)
		last = end
	}
	out = append(out, units[last:]...)
	return string(utf16.Decode(out))
}

func entityDelims(e tgbotapi.MessageEntity) (open, close string, ok bool) {
	switch e.Type {
	case "bold":
		return "*", "*", true
	case "italic":
		return "_", "_", true
	case "code":
		return "`", "`", true
	case "pre":
		return "```", "```", true
	case "strikethrough":
		return "~", "~", true
	case "text_link":
		return "[", fmt.Sprintf("](%s)", e.URL), true
	}
	return "", "", false
}
