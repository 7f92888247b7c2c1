package storage

// GetPrefix returns the command prefix override for a chat, if one is set.
func (s *Storage) GetPrefix(chatID string) (string, bool, error) {
	rec, err := s.chatRecord(chatID)
	if err != nil {
		return "", false, err
	}
	return rec.Prefix, rec.Prefix != "", nil
}

// SetPrefix stores a command prefix override for a chat. An empty prefix
// clears the override.
func (s *Storage) SetPrefix(chatID, prefix string) error {
	rec, err := s.chatRecord(chatID)
	if err != nil {
		return err
	}
	rec.Prefix = prefix
	s.saveChatRecord(chatID, rec)
	return nil
}
