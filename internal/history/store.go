// Package history persists the conversation log as a JSON file: an ordered
// array of {user, assistant} objects, [] when empty.
package history

import (
	"encoding/json"
	"log/slog"
	"os"
)

// Turn is one recorded (query, answer) exchange.
type Turn struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

// Store reads and writes the history file. All failures are soft: they are
// logged and the caller proceeds without persisted memory for that turn.
// The pipeline controller is the only writer; writes are plain
// read-modify-write with no atomicity beyond that discipline.
type Store struct {
	path   string
	logger *slog.Logger
}

// NewStore creates a history store backed by the file at path.
func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		path:   path,
		logger: logger,
	}
}

// Clear replaces the persisted history with an empty sequence.
// Called once at the start of every ingestion run, so a new document set
// starts a fresh conversation.
func (s *Store) Clear() {
	if err := s.write([]Turn{}); err != nil {
		s.logger.Warn("Failed to clear history", "path", s.path, "error", err)
	}
}

// Load reads the persisted turns in chronological order. A missing or
// corrupt file yields an empty sequence.
func (s *Store) Load() []Turn {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("Failed to read history", "path", s.path, "error", err)
		}
		return []Turn{}
	}

	var turns []Turn
	if err := json.Unmarshal(data, &turns); err != nil {
		s.logger.Warn("History file corrupt, starting empty", "path", s.path, "error", err)
		return []Turn{}
	}
	if turns == nil {
		turns = []Turn{}
	}
	return turns
}

// Append adds a turn to the end of the log, rewriting the file in full.
func (s *Store) Append(turn Turn) {
	turns := s.Load()
	turns = append(turns, turn)
	if err := s.write(turns); err != nil {
		s.logger.Warn("Failed to append history turn", "path", s.path, "error", err)
	}
}

// Len returns the number of persisted turns.
func (s *Store) Len() int {
	return len(s.Load())
}

func (s *Store) write(turns []Turn) error {
	data, err := json.Marshal(turns)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}
