package reminder

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// Store loads and saves the whole reminder collection at once.
//
// Load never fails: missing or unreadable data yields an empty collection.
// A single record that cannot be decoded is kept as stored and written back
// unchanged by Save.
// Callers perform read-modify-write cycles without a lock spanning them, so
// two overlapping cycles may lose one update.
type Store interface {
	Load() []Reminder
	Save(reminders []Reminder) error
}

// JSONStore keeps reminders as a pretty-printed JSON array in a single file.
type JSONStore struct {
	path   string
	logger *zap.SugaredLogger
	mu     sync.Mutex
}

// NewJSONStore returns a store backed by the file at path. The file does
// not need to exist yet.
func NewJSONStore(path string, logger *zap.SugaredLogger) *JSONStore {
	return &JSONStore{path: path, logger: logger}
}

// Path returns the backing file path.
func (s *JSONStore) Path() string {
	return s.path
}

func (s *JSONStore) Load() []Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warnw("failed to read reminders, starting empty", "path", s.path, "err", err)
		}
		return []Reminder{}
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		s.logger.Warnw("failed to parse reminders, starting empty", "path", s.path, "err", err)
		return []Reminder{}
	}

	reminders := make([]Reminder, 0, len(elems))
	for i, elem := range elems {
		var r Reminder
		if err := json.Unmarshal(elem, &r); err != nil {
			s.logger.Warnw("keeping malformed reminder as stored", "path", s.path, "index", i, "err", err)
			r = Malformed(elem)
		}
		reminders = append(reminders, r)
	}
	return reminders
}

func (s *JSONStore) Save(reminders []Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if reminders == nil {
		reminders = []Reminder{}
	}
	data, err := Encode(reminders)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create reminders directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".reminders-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write reminders: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write reminders: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace reminders file: %w", err)
	}
	return nil
}

// Encode renders reminders in the on-disk JSON form.
func Encode(reminders []Reminder) ([]byte, error) {
	data, err := json.MarshalIndent(reminders, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode reminders: %w", err)
	}
	return append(data, '\n'), nil
}

// Find returns the index of the reminder with the given ID, or -1.
func Find(reminders []Reminder, id int64) int {
	for i := range reminders {
		if reminders[i].ID == id {
			return i
		}
	}
	return -1
}
