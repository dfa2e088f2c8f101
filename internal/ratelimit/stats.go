package ratelimit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// StatsStore persists allowed/denied counters per throttle key in BoltDB so
// they survive restarts.
type StatsStore struct {
	db     *bolt.DB
	bucket []byte
}

type statsEntry struct {
	Allowed int64     `json:"allowed"`
	Denied  int64     `json:"denied"`
	LastAt  time.Time `json:"last_at"`
}

// OpenStats initializes the BoltDB file and ensures the bucket exists.
func OpenStats(path string, bucket string) (*StatsStore, error) {
	if bucket == "" {
		bucket = "throttle_stats"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &StatsStore{
		db:     db,
		bucket: []byte(bucket),
	}, nil
}

// Record bumps the counter for the key.
func (s *StatsStore) Record(key string, allowed bool) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)

		var entry statsEntry
		if raw := b.Get([]byte(key)); raw != nil {
			if err := json.Unmarshal(raw, &entry); err != nil {
				entry = statsEntry{}
			}
		}
		if allowed {
			entry.Allowed++
		} else {
			entry.Denied++
		}
		entry.LastAt = time.Now()

		payload, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), payload)
	})
}

// Totals sums the counters across all keys.
func (s *StatsStore) Totals() (allowed, denied int64, err error) {
	if s == nil || s.db == nil {
		return 0, 0, bolt.ErrDatabaseNotOpen
	}
	err = s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).ForEach(func(_, v []byte) error {
			var entry statsEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				return nil
			}
			allowed += entry.Allowed
			denied += entry.Denied
			return nil
		})
	})
	return allowed, denied, err
}

// Keys returns the number of tracked throttle keys.
func (s *StatsStore) Keys() (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	var count int
	err := s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(s.bucket).Stats().KeyN
		return nil
	})
	return count, err
}

func (s *StatsStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
