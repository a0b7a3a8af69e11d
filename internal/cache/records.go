package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ramzilbs/radiance/internal/model"
)

// RecordStore caches extracted records per source document, layered over
// memory and disk. Lookups hit memory first; disk hits are promoted.
// Cached records embed dates resolved under one date policy, so the policy
// is baked into every key: a run with a different reference year or
// rollback window misses entries written under the old one.
type RecordStore struct {
	memory Cache
	disk   Cache
	ttl    time.Duration
	policy string
}

// NewRecordStore creates a record store writing under dir. dates and now
// describe the date policy the cached records are resolved under.
func NewRecordStore(dir string, ttl time.Duration, dates model.DateConfig, now time.Time) *RecordStore {
	return &RecordStore{
		memory: NewMemoryCache(ttl, 10*time.Minute),
		disk:   NewDiskCache(dir, ttl),
		ttl:    ttl,
		policy: datePolicy(dates, now),
	}
}

// datePolicy fingerprints the date configuration. The resolution year is
// spelled out explicitly: with no configured reference year, yearless dates
// pick up the processing year, and a cache entry from last year must not
// answer for this one.
func datePolicy(cfg model.DateConfig, now time.Time) string {
	year := cfg.ReferenceYear
	if year == 0 {
		year = now.Year()
	}
	return fmt.Sprintf("y%d|rb%s|w%d-%d", year, cfg.RollbackTolerance, cfg.MinYear, cfg.MaxYear)
}

// Lookup returns the cached records for the document at path, keyed by its
// current size and mtime. A stat failure or a miss both return false.
func (s *RecordStore) Lookup(path string) ([]model.RawRecord, bool) {
	key, ok := s.statKey(path)
	if !ok {
		return nil, false
	}

	data, found := s.memory.Get(key)
	if !found {
		data, found = s.disk.Get(key)
		if found {
			_ = s.memory.Set(key, data, 0)
		}
	}
	if !found {
		return nil, false
	}

	var records []model.RawRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, false
	}
	return records, true
}

// Store caches the extraction result for the document at path.
func (s *RecordStore) Store(path string, records []model.RawRecord) error {
	key, ok := s.statKey(path)
	if !ok {
		return nil
	}

	data, err := json.Marshal(records)
	if err != nil {
		return err
	}

	_ = s.memory.Set(key, data, s.ttl)
	return s.disk.Set(key, data, s.ttl)
}

// Clear drops both layers.
func (s *RecordStore) Clear() error {
	_ = s.memory.Clear()
	return s.disk.Clear()
}

func (s *RecordStore) statKey(path string) (string, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return "", false
	}
	return FileKey(path, info.Size(), info.ModTime(), s.policy), true
}
