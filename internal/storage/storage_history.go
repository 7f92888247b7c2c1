package storage

// AddCommandRecord appends a command usage record for a chat, keeping only the
// most recent commandHistoryLimit entries.
func (s *Storage) AddCommandRecord(chatID string, rec CommandRecord) error {
	cr, err := s.chatRecord(chatID)
	if err != nil {
		return err
	}
	cr.History = append(cr.History, rec)
	if len(cr.History) > commandHistoryLimit {
		cr.History = cr.History[len(cr.History)-commandHistoryLimit:]
	}
	s.saveChatRecord(chatID, cr)
	return nil
}

// CommandHistory returns a chat's command usage history, oldest first.
func (s *Storage) CommandHistory(chatID string) ([]CommandRecord, error) {
	rec, err := s.chatRecord(chatID)
	if err != nil {
		return nil, err
	}
	return rec.History, nil
}
