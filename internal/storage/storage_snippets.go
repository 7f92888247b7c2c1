package storage

import "sort"

// SetSnippet saves a named text snippet for a chat, overwriting any previous
// snippet under the same name.
func (s *Storage) SetSnippet(chatID, name, text string) error {
	rec, err := s.chatRecord(chatID)
	if err != nil {
		return err
	}
	if rec.Snippets == nil {
		rec.Snippets = make(map[string]string)
	}
	rec.Snippets[name] = text
	s.saveChatRecord(chatID, rec)
	return nil
}

// GetSnippet returns a chat's snippet by name.
func (s *Storage) GetSnippet(chatID, name string) (string, bool, error) {
	rec, err := s.chatRecord(chatID)
	if err != nil {
		return "", false, err
	}
	text, ok := rec.Snippets[name]
	return text, ok, nil
}

// DeleteSnippet removes a chat's snippet. It reports whether the snippet
// existed.
func (s *Storage) DeleteSnippet(chatID, name string) (bool, error) {
	rec, err := s.chatRecord(chatID)
	if err != nil {
		return false, err
	}
	if _, ok := rec.Snippets[name]; !ok {
		return false, nil
	}
	delete(rec.Snippets, name)
	s.saveChatRecord(chatID, rec)
	return true, nil
}

// SnippetNames returns the sorted snippet names for a chat.
func (s *Storage) SnippetNames(chatID string) ([]string, error) {
	rec, err := s.chatRecord(chatID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(rec.Snippets))
	for name := range rec.Snippets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
