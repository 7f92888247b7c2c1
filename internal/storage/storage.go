package storage

import (
	"encoding/json"
	"fmt"

	"modbot/datastore"
)

const commandHistoryLimit = 20

// Storage is the typed façade over the embedded datastore: per-chat command
// prefixes, snippets, and a capped command usage history.
type Storage struct {
	ds *datastore.Store
}

// ChatRecord is everything the bot persists for one chat.
type ChatRecord struct {
	Prefix   string            `json:"prefix,omitempty"`
	Snippets map[string]string `json:"snippets,omitempty"`
	History  []CommandRecord   `json:"cmd_history,omitempty"`
}

// CommandRecord is one entry in a chat's command usage history.
type CommandRecord struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Command  string `json:"command"`
	Param    string `json:"param,omitempty"`
	Unix     int64  `json:"unix"`
}

// New opens the storage file at filePath.
func New(filePath string) (*Storage, error) {
	ds, err := datastore.New(filePath)
	if err != nil {
		return nil, err
	}
	return &Storage{ds: ds}, nil
}

// Close flushes and closes the underlying store.
func (s *Storage) Close() error {
	return s.ds.Close()
}

func chatKey(chatID string) string {
	return "chat:" + chatID
}

// chatRecord loads the record for a chat, returning an empty one when absent.
// Values come back from the datastore as generic JSON, so they round-trip
// through json to regain their typed shape.
func (s *Storage) chatRecord(chatID string) (*ChatRecord, error) {
	raw, ok := s.ds.Get(chatKey(chatID))
	if !ok {
		return &ChatRecord{}, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to marshal record for chat %s: %w", chatID, err)
	}
	var rec ChatRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("storage: corrupt record for chat %s: %w", chatID, err)
	}
	return &rec, nil
}

func (s *Storage) saveChatRecord(chatID string, rec *ChatRecord) {
	s.ds.Set(chatKey(chatID), rec)
}
