// Package storage persists summaries of completed runs so they can be
// compared later. Runs are written strictly after a result is sealed.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"pummel/internal/report"
	"pummel/internal/runner"
)

const (
	bucketRuns = "runs"

	// DefaultCapacity bounds the history; the oldest runs are evicted
	// once it is exceeded.
	DefaultCapacity = 100
)

type Item struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Config    runner.Config  `json:"config"`
	Summary   report.Summary `json:"summary"`
}

func NewItem(res *runner.Result) Item {
	return Item{
		ID:        uuid.New().String(),
		Timestamp: res.StartedAt,
		Config:    res.Config,
		Summary:   report.Summarize(res),
	}
}

type Store struct {
	db       *bbolt.DB
	capacity int
}

// Open opens (or creates) the history database at path.
func Open(path string, capacity int) (*Store, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketRuns))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, capacity: capacity}, nil
}

// OpenDefault opens the store in the user's home directory.
func OpenDefault() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return Open(filepath.Join(home, ".pummel", "history.db"), DefaultCapacity)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save appends an item and evicts the oldest entries beyond capacity.
// Keys are zero-padded unix-nano timestamps so bbolt's byte order is
// chronological.
func (s *Store) Save(item Item) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketRuns))

		key := []byte(fmt.Sprintf("%020d", item.Timestamp.UnixNano()))
		data, err := json.Marshal(item)
		if err != nil {
			return err
		}
		if err := b.Put(key, data); err != nil {
			return err
		}

		for count(b) > s.capacity {
			k, _ := b.Cursor().First()
			if k == nil {
				break
			}
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

func count(b *bbolt.Bucket) int {
	n := 0
	c := b.Cursor()
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		n++
	}
	return n
}

// List returns items newest first.
func (s *Store) List() []Item {
	var items []Item
	s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketRuns))
		c := b.Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var item Item
			if err := json.Unmarshal(v, &item); err == nil {
				items = append(items, item)
			}
		}
		return nil
	})
	return items
}

func (s *Store) Get(id string) (*Item, error) {
	var found *Item
	s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketRuns))
		return b.ForEach(func(_, v []byte) error {
			var item Item
			if err := json.Unmarshal(v, &item); err == nil && item.ID == id {
				found = &item
			}
			return nil
		})
	})
	if found == nil {
		return nil, fmt.Errorf("run %s not found", id)
	}
	return found, nil
}
