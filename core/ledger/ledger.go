// Package ledger keeps a bbolt record of written documents and fetched
// assets. It is informational: a sync never skips pages based on it.
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/gaurav-prasanna/notionpipe/core"
)

const (
	documentsBucket = "documents"
	assetsBucket    = "assets"
)

// ErrNotFound is returned for an unknown key.
var ErrNotFound = errors.New("ledger: not found")

// Ledger implements core.Recorder on a bbolt file.
type Ledger struct {
	db *bolt.DB
}

// Open opens or creates the ledger at path.
func Open(path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create ledger directory: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{documentsBucket, assetsBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create buckets: %w", err)
	}
	return &Ledger{db: db}, nil
}

// Close releases the file lock.
func (l *Ledger) Close() error {
	if l.db != nil {
		return l.db.Close()
	}
	return nil
}

// RecordDocument stores rec under its page id.
func (l *Ledger) RecordDocument(rec core.DocumentRecord) error {
	return l.put(documentsBucket, rec.ID, rec)
}

// RecordAsset stores rec under its relative path.
func (l *Ledger) RecordAsset(rec core.AssetRecord) error {
	return l.put(assetsBucket, rec.Path, rec)
}

// Document returns the record for a page id.
func (l *Ledger) Document(id string) (core.DocumentRecord, error) {
	var rec core.DocumentRecord
	err := l.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(documentsBucket)).Get([]byte(id))
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, &rec)
	})
	return rec, err
}

// Documents returns every document record in key order.
func (l *Ledger) Documents() ([]core.DocumentRecord, error) {
	var out []core.DocumentRecord
	err := l.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(documentsBucket)).ForEach(func(_, v []byte) error {
			var rec core.DocumentRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return nil
			}
			out = append(out, rec)
			return nil
		})
	})
	return out, err
}

// Assets returns every asset record in key order.
func (l *Ledger) Assets() ([]core.AssetRecord, error) {
	var out []core.AssetRecord
	err := l.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(assetsBucket)).ForEach(func(_, v []byte) error {
			var rec core.AssetRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return nil
			}
			out = append(out, rec)
			return nil
		})
	})
	return out, err
}

func (l *Ledger) put(bucket, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s record %s: %w", bucket, key, err)
	}
	return l.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket([]byte(bucket)).Put([]byte(key), data); err != nil {
			return fmt.Errorf("failed to save %s record %s: %w", bucket, key, err)
		}
		return nil
	})
}
