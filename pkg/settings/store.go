// Package settings persists the spreadsheet endpoint URL between restarts.
package settings

import (
	"strings"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

// SheetsURLKey is the fixed name the endpoint URL is stored under.
const SheetsURLKey = "googleSheetsUrl"

var bucketName = []byte("settings")

// ErrEmptyURL is returned when a blank endpoint is submitted.
var ErrEmptyURL = errors.New("sheets url is required")

// Store keeps configuration strings in a bbolt file. The endpoint URL is read
// once when the store opens and cached afterwards.
type Store struct {
	db        *bolt.DB
	sheetsURL atomic.Value
}

// Open opens (or creates) the settings file at path and loads the cached values.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "open settings file %s", path)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create settings bucket")
	}

	s := &Store{db: db}
	var current string
	err = db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketName).Get([]byte(SheetsURLKey)); v != nil {
			current = string(v)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "read settings")
	}
	s.sheetsURL.Store(current)
	if current != "" {
		zap.S().Infof("spreadsheet endpoint loaded from %s", path)
	}
	return s, nil
}

// SheetsURL returns the configured endpoint, or "" when sync is not configured.
func (s *Store) SheetsURL() string {
	v, _ := s.sheetsURL.Load().(string)
	return v
}

// SetSheetsURL saves a new endpoint. Blank values are rejected.
func (s *Store) SetSheetsURL(raw string) error {
	url := strings.TrimSpace(raw)
	if url == "" {
		return ErrEmptyURL
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(SheetsURLKey), []byte(url))
	})
	if err != nil {
		return errors.Wrap(err, "save sheets url")
	}
	s.sheetsURL.Store(url)
	return nil
}

// Close releases the file lock.
func (s *Store) Close() error {
	return s.db.Close()
}
