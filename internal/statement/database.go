package statement

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const (
	historyBucketName = "history"

	// historyLimit bounds how many parse records are retained; the oldest
	// are pruned first.
	historyLimit = 20
)

// DB defines the interface for parse-history persistence.
type DB interface {
	// SaveRecord stores a parse record, pruning the oldest beyond the
	// history bound.
	SaveRecord(record *Record) error

	// ListRecords returns retained records, newest first.
	ListRecords() ([]*Record, error)

	// ClearRecords removes all retained records.
	ClearRecords() error

	// Close closes the database connection.
	Close() error
}

// BoltDB implements the DB interface using BoltDB.
//
// Record IDs are nanosecond timestamps, so byte order of the keys matches
// chronological order.
type BoltDB struct {
	db *bbolt.DB
}

// NewBoltDB creates a new BoltDB instance.
func NewBoltDB(path string) (*BoltDB, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(historyBucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &BoltDB{db: db}, nil
}

// SaveRecord stores a record and prunes history beyond the bound.
func (b *BoltDB) SaveRecord(record *Record) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(historyBucketName))
		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshaling record: %w", err)
		}
		if err := bucket.Put([]byte(record.ID), data); err != nil {
			return err
		}

		// Prune oldest entries past the bound.
		count := 0
		cursor := bucket.Cursor()
		for k, _ := cursor.First(); k != nil; k, _ = cursor.Next() {
			count++
		}
		for k, _ := cursor.First(); k != nil && count > historyLimit; k, _ = cursor.Next() {
			if err := cursor.Delete(); err != nil {
				return err
			}
			count--
		}
		return nil
	})
}

// ListRecords returns retained records, newest first.
func (b *BoltDB) ListRecords() ([]*Record, error) {
	records := make([]*Record, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		cursor := tx.Bucket([]byte(historyBucketName)).Cursor()
		for k, v := cursor.Last(); k != nil; k, v = cursor.Prev() {
			var record Record
			if err := json.Unmarshal(v, &record); err != nil {
				return fmt.Errorf("unmarshaling record: %w", err)
			}
			records = append(records, &record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ClearRecords removes all retained records.
func (b *BoltDB) ClearRecords() error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket([]byte(historyBucketName)); err != nil {
			return err
		}
		_, err := tx.CreateBucket([]byte(historyBucketName))
		return err
	})
}

// Close closes the database connection.
func (b *BoltDB) Close() error {
	return b.db.Close()
}
