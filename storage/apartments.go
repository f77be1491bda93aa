package storage

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"stuywatch/models"
)

// ApartmentStore persists the known set as a single JSON document keyed by
// address. The document is loaded fully at startup and rewritten in full
// after each cycle.
type ApartmentStore struct {
	path string
}

func NewApartmentStore(path string) *ApartmentStore {
	return &ApartmentStore{path: path}
}

// Load reads the persisted known set. A missing file is the expected state on
// first run and a corrupt one is not worth halting over, so both cases log
// and return an empty set.
func (s *ApartmentStore) Load() models.KnownSet {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("No apartments file at %s, starting fresh", s.path)
		} else {
			log.Printf("Error reading apartments file %s: %v", s.path, err)
		}
		return models.KnownSet{}
	}

	var set models.KnownSet
	if err := json.Unmarshal(data, &set); err != nil {
		log.Printf("Error parsing apartments file %s: %v (starting fresh)", s.path, err)
		return models.KnownSet{}
	}
	if set == nil {
		set = models.KnownSet{}
	}

	log.Printf("Loaded %d known apartments from %s", len(set), s.path)
	return set
}

// Save writes the full known set, via a temp file in the same directory and a
// rename, so a crash mid-write cannot truncate the previous document.
func (s *ApartmentStore) Save(set models.KnownSet) error {
	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal apartments: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write apartments: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename apartments file: %w", err)
	}

	log.Printf("Saved %d apartments to %s", len(set), s.path)
	return nil
}
