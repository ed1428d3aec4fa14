package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Store persists export result sets as JSON files, one file per wallet.
// Writes for the same address are serialized with a per-address lock and
// go through a temp file + rename, so concurrent exports never leave a
// partially written or interleaved file behind.
type Store struct {
	dir    string
	logger *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewStore creates a store writing into dir.
func NewStore(dir string, logger *slog.Logger) *Store {
	return &Store{
		dir:    dir,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

// Path returns the output file path for a wallet address.
func (s *Store) Path(address string) string {
	return filepath.Join(s.dir, fmt.Sprintf("transactions_%s.json", address))
}

// Write serializes the result set as indented JSON and overwrites the
// wallet's output file. Returns the file path.
func (s *Store) Write(address string, txns []SimplifiedTransaction) (string, error) {
	lock := s.addressLock(address)
	lock.Lock()
	defer lock.Unlock()

	// Empty result sets still serialize as [], not null.
	if txns == nil {
		txns = []SimplifiedTransaction{}
	}

	data, err := json.MarshalIndent(txns, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal transactions: %w", err)
	}

	path := s.Path(address)
	tmp, err := os.CreateTemp(s.dir, "transactions_*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("chmod temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("rename temp file: %w", err)
	}

	s.logger.Debug("wrote export file",
		"path", path,
		"count", len(txns),
		"bytes", len(data),
	)

	return path, nil
}

// addressLock returns the mutex guarding writes for one address.
func (s *Store) addressLock(address string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[address]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[address] = lock
	}
	return lock
}
