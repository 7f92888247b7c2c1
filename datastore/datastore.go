// Package datastore is a small embedded key-value store backed by a single
// JSON file. Values are kept in memory and flushed by a background autosave
// loop; saves are atomic, checksum-skipped when nothing changed, and rotate a
// configurable number of backups.
package datastore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// Config holds configuration options for the store.
type Config struct {
	FilePath         string
	AutoSaveInterval time.Duration
	BackupCount      int // number of .bak files to keep
}

// DefaultConfig returns a default configuration for the given file path.
func DefaultConfig(filePath string) *Config {
	return &Config{
		FilePath:         filePath,
		AutoSaveInterval: 10 * time.Second,
		BackupCount:      3,
	}
}

// Store is a thread-safe in-memory map persisted to a JSON file.
type Store struct {
	mu           sync.RWMutex
	data         map[string]any
	config       *Config
	lastChecksum string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	closeMu sync.Mutex
	closed  bool
}

// New opens (or creates) a store with default configuration.
func New(filePath string) (*Store, error) {
	return NewWithConfig(DefaultConfig(filePath))
}

// NewWithConfig opens (or creates) a store with custom configuration.
func NewWithConfig(config *Config) (*Store, error) {
	if config == nil || config.FilePath == "" {
		return nil, fmt.Errorf("datastore: file path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(config.FilePath), 0755); err != nil {
		return nil, fmt.Errorf("datastore: failed to create directory: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		data:   make(map[string]any),
		config: config,
		ctx:    ctx,
		cancel: cancel,
	}

	if _, err := os.Stat(config.FilePath); os.IsNotExist(err) {
		if err := s.writeFileAtomic([]byte("{}")); err != nil {
			cancel()
			return nil, fmt.Errorf("datastore: failed to create file: %w", err)
		}
	} else if err != nil {
		cancel()
		return nil, fmt.Errorf("datastore: failed to stat file: %w", err)
	} else if err := s.load(); err != nil {
		cancel()
		return nil, err
	}

	if config.AutoSaveInterval > 0 {
		s.wg.Add(1)
		go s.autoSave()
	}
	return s, nil
}

// Set stores a value under key.
func (s *Store) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

// Get retrieves a value by key.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

// Delete removes a key.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}

// Keys returns all keys, sorted.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Save forces an immediate flush to disk.
func (s *Store) Save() error {
	return s.save()
}

// Close stops the autosave loop and performs a final save.
func (s *Store) Close() error {
	s.closeMu.Lock()
	if s.closed {
		s.closeMu.Unlock()
		return nil
	}
	s.closed = true
	s.closeMu.Unlock()

	s.cancel()
	s.wg.Wait()
	return s.save()
}

func (s *Store) autoSave() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.config.AutoSaveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			if err := s.save(); err != nil {
				log.Println("[ERR] Datastore autosave failed:", err)
			}
		}
	}
}

func (s *Store) load() error {
	raw, err := os.ReadFile(s.config.FilePath)
	if err != nil {
		return fmt.Errorf("datastore: failed to read file: %w", err)
	}
	data := make(map[string]any)
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("datastore: corrupt file %s: %w", s.config.FilePath, err)
	}
	s.mu.Lock()
	s.data = data
	s.lastChecksum = checksum(raw)
	s.mu.Unlock()
	return nil
}

// save flushes the current data, skipping the write when nothing has changed
// since the last save.
func (s *Store) save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("datastore: failed to marshal data: %w", err)
	}
	sum := checksum(raw)
	if sum == s.lastChecksum {
		return nil
	}

	if s.config.BackupCount > 0 {
		if err := s.rotateBackups(); err != nil {
			log.Println("[WARN] Datastore backup failed:", err)
		}
	}
	if err := s.writeFileAtomic(raw); err != nil {
		return err
	}
	s.lastChecksum = sum
	return nil
}

// rotateBackups shifts file.bak.N up by one and copies the current file to
// file.bak.1.
func (s *Store) rotateBackups() error {
	path := s.config.FilePath
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	for i := s.config.BackupCount - 1; i >= 1; i-- {
		from := fmt.Sprintf("%s.bak.%d", path, i)
		to := fmt.Sprintf("%s.bak.%d", path, i+1)
		if _, err := os.Stat(from); err == nil {
			_ = os.Rename(from, to)
		}
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return os.WriteFile(fmt.Sprintf("%s.bak.1", path), raw, 0644)
}

func (s *Store) writeFileAtomic(data []byte) error {
	tmp := s.config.FilePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("datastore: failed to write temp file: %w", err)
	}
	if err := os.Rename(tmp, s.config.FilePath); err != nil {
		return fmt.Errorf("datastore: failed to replace file: %w", err)
	}
	return nil
}

func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
