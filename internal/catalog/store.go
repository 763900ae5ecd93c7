package catalog

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v2"
)

// DefaultSeed returns the records a fresh store starts with
func DefaultSeed() []Record {
	return []Record{
		{ID: 1, Name: "laptop", Price: 1000},
		{ID: 2, Name: "mouse", Price: 20},
		{ID: 3, Name: "keyboard", Price: 50},
		{ID: 4, Name: "monitor", Price: 200},
	}
}

// Store holds an ordered, in-memory product collection.
// All operations take the lock for their full duration, so each one is
// atomic with respect to concurrent requests.
type Store struct {
	mu      sync.RWMutex
	records []Record
}

// NewStore creates a store seeded with a copy of seed
func NewStore(seed []Record) *Store {
	return &Store{records: cloneRecords(seed)}
}

// LoadSeedFile reads a YAML list of records
func LoadSeedFile(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var records []Record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	return records, nil
}

// List returns every record in insertion order
func (s *Store) List() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRecords(s.records)
}

// Len returns the number of stored records
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Get returns the first record matching id
func (s *Store) Get(id ID) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.records[i], nil
	}
	return Record{}, fmt.Errorf("%w: id %s", ErrNotFound, id)
}

// Update applies patch to the first record matching id
func (s *Store) Update(id ID, patch Patch) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Record{}, fmt.Errorf("%w: id %s", ErrNotFound, id)
	}

	rec := &s.records[i]
	if patch.Name != nil {
		rec.Name = *patch.Name
	}
	if patch.Price != nil {
		rec.Price = *patch.Price
	}
	return *rec, nil
}

// Delete removes every record matching id and returns what remains.
// Deleting an unknown id is a no-op.
func (s *Store) Delete(id ID) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0]
	for _, r := range s.records {
		if !id.Matches(r) {
			kept = append(kept, r)
		}
	}
	// zero the tail so dropped records are not retained
	for i := len(kept); i < len(s.records); i++ {
		s.records[i] = Record{}
	}
	s.records = kept
	return cloneRecords(s.records)
}

// Create appends r as given. Ids are not checked for uniqueness.
func (s *Store) Create(r Record) Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
	return r
}

func (s *Store) indexOf(id ID) int {
	for i, r := range s.records {
		if id.Matches(r) {
			return i
		}
	}
	return -1
}
