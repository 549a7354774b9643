// Package catalog owns the authoritative list of mods, its persistence and
// the filtered views served to visitors.
package catalog

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/meur/modcatalog/internal/models"
	"go.uber.org/zap"
)

// Persister stores the serialized catalog under a single key.
// Get returns nil, nil when the key is absent.
type Persister interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
}

// ChangeKind names the mutation that produced a Change
type ChangeKind string

const (
	ChangeAdded      ChangeKind = "added"
	ChangeDownloaded ChangeKind = "downloaded"
	ChangeAttached   ChangeKind = "attached"
)

// Change describes one successful mutation
type Change struct {
	Kind ChangeKind
	Mod  models.Mod
}

// Observer is notified after each persisted mutation
type Observer func(Change)

// Store holds the ordered mod list and writes it back after every mutation
type Store struct {
	mu        sync.Mutex
	persister Persister
	key       string
	logger    *zap.Logger
	mods      []models.Mod
	observers []Observer
}

// New creates a Store. Call Load before serving from it.
func New(p Persister, key string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		persister: p,
		key:       key,
		logger:    logger,
	}
}

// Load initializes the list from the persister, or from the built-in
// defaults when nothing is stored.
//
// A stored value that does not parse is not fatal: the defaults are used, the
// stored value is left untouched until the next mutation, and the returned
// error wraps ErrCorruptState. Read failures are returned as-is.
func (s *Store) Load() ([]models.Mod, error) {
	data, err := s.persister.Get(s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if data == nil {
		s.mods = models.DefaultMods()
		return slices.Clone(s.mods), nil
	}

	var mods []models.Mod
	if err := json.Unmarshal(data, &mods); err != nil || mods == nil {
		s.logger.Warn("Persisted catalog is malformed, using defaults",
			zap.String("key", s.key), zap.Error(err))
		s.mods = models.DefaultMods()
		if err == nil {
			return slices.Clone(s.mods), ErrCorruptState
		}
		return slices.Clone(s.mods), fmt.Errorf("%w: %v", ErrCorruptState, err)
	}

	s.mods = mods
	return slices.Clone(s.mods), nil
}

// Subscribe registers an observer for future mutations
func (s *Store) Subscribe(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// List returns a copy of the current list
func (s *Store) List() []models.Mod {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.mods)
}

// Get returns a mod by ID
func (s *Store) Get(id int) (models.Mod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Mod{}, ErrNotFound
	}
	return s.mods[i], nil
}

// Add validates the draft and prepends a new mod built from it
func (s *Store) Add(d models.ModDraft) (models.Mod, error) {
	if err := validateDraft(d); err != nil {
		return models.Mod{}, err
	}

	s.mu.Lock()
	mod := models.Mod{
		ID:          nextID(s.mods),
		Name:        d.Name,
		Description: d.Description,
		Category:    d.Category,
		Downloads:   0,
		Author:      d.Author,
		Version:     d.Version,
		Icon:        models.IconFor(d.Category),
	}
	next := make([]models.Mod, 0, len(s.mods)+1)
	next = append(next, mod)
	next = append(next, s.mods...)
	err := s.commit(next)
	observers := s.observers
	s.mu.Unlock()

	if err != nil {
		return models.Mod{}, err
	}

	s.logger.Info("Mod added",
		zap.Int("id", mod.ID),
		zap.String("name", mod.Name),
		zap.String("category", mod.Category))
	notify(observers, Change{Kind: ChangeAdded, Mod: mod})
	return mod, nil
}

// RecordDownload counts one download of a mod that has a file attached.
// Mods without a file are refused with ErrFileUnavailable and left unchanged.
func (s *Store) RecordDownload(id int) (models.Mod, error) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return models.Mod{}, ErrNotFound
	}
	if !s.mods[i].HasFile() {
		s.mu.Unlock()
		return models.Mod{}, ErrFileUnavailable
	}

	next := slices.Clone(s.mods)
	next[i].Downloads++
	mod := next[i]
	err := s.commit(next)
	observers := s.observers
	s.mu.Unlock()

	if err != nil {
		return models.Mod{}, err
	}

	s.logger.Debug("Download recorded", zap.Int("id", id), zap.Int("downloads", mod.Downloads))
	notify(observers, Change{Kind: ChangeDownloaded, Mod: mod})
	return mod, nil
}

// AttachFile stores base64 file content on a mod as a data URI
func (s *Store) AttachFile(id int, b64 string) (models.Mod, error) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return models.Mod{}, ErrNotFound
	}

	next := slices.Clone(s.mods)
	next[i].DownloadURL = EncodeDataURI(b64)
	mod := next[i]
	err := s.commit(next)
	observers := s.observers
	s.mu.Unlock()

	if err != nil {
		return models.Mod{}, err
	}

	s.logger.Info("File attached", zap.Int("id", id), zap.Int("payload_bytes", len(b64)))
	notify(observers, Change{Kind: ChangeAttached, Mod: mod})
	return mod, nil
}

// commit persists next and makes it current. Must hold s.mu.
func (s *Store) commit(next []models.Mod) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	if err := s.persister.Put(s.key, data); err != nil {
		s.logger.Error("Failed to persist catalog", zap.String("key", s.key), zap.Error(err))
		return fmt.Errorf("failed to persist catalog: %w", err)
	}
	s.mods = next
	return nil
}

func (s *Store) indexOf(id int) int {
	return slices.IndexFunc(s.mods, func(m models.Mod) bool { return m.ID == id })
}

// nextID is one past the highest ID in use. On a list that never had
// deletions this equals len+1.
func nextID(mods []models.Mod) int {
	highest := 0
	for _, m := range mods {
		if m.ID > highest {
			highest = m.ID
		}
	}
	return highest + 1
}

func validateDraft(d models.ModDraft) error {
	var missing []string
	if strings.TrimSpace(d.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(d.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(d.Author) == "" {
		missing = append(missing, "author")
	}
	if strings.TrimSpace(d.Version) == "" {
		missing = append(missing, "version")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

func notify(observers []Observer, c Change) {
	for _, o := range observers {
		o(c)
	}
}
