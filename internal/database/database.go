// Package database provides data persistence using BoltDB.
package database

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.etcd.io/bbolt"

	"github.com/amaumene/cinescope/internal/errors"
	"github.com/amaumene/cinescope/internal/models"
)

const (
	// Default database file permissions
	dbFileMode = 0600
	dbDirMode  = 0755

	// Default database filename
	defaultDBFile = "cinescope.db"

	// SchemaVersion is bumped whenever a stored record changes shape.
	// Opening a file written with another version drops every bucket.
	SchemaVersion = 1
)

var (
	bucketUser        = []byte("user")
	bucketPreferences = []byte("preferences")
	bucketMeta        = []byte("meta")

	keyCurrent = []byte("current")
	keySchema  = []byte("schema_version")
)

// Database defines the interface for local persistence operations.
type Database interface {
	// GetUser returns the signed-in user, or nil when signed out
	GetUser() (*models.User, error)
	// SaveUser replaces the stored user
	SaveUser(user *models.User) error
	// DeleteUser removes the stored user
	DeleteUser() error
	// GetPreferences returns stored preferences, or defaults when none were saved
	GetPreferences() (models.Preferences, error)
	// SavePreferences replaces the stored preferences
	SavePreferences(prefs models.Preferences) error
	// Close closes the database file
	Close() error
}

// BoltDB implements the Database interface using bbolt.
// Errors are returned as *errors.LocalError so callers can classify them.
type BoltDB struct {
	db *bbolt.DB
}

// NewBolt opens or creates the database at dbPath.
// If dbPath is empty, uses the default database file in current directory.
func NewBolt(dbPath string) (*BoltDB, error) {
	if dbPath == "" {
		dbPath = filepath.Join(".", defaultDBFile)
	}

	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, dbDirMode); err != nil {
		return nil, &errors.LocalError{Op: "create database directory", Err: err}
	}

	db, err := bbolt.Open(dbPath, dbFileMode, &bbolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, &errors.LocalError{Op: "open bolt database", Err: err}
	}

	store := &BoltDB{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// migrate creates the buckets, dropping existing data when the stored schema
// version differs from SchemaVersion.
func (s *BoltDB) migrate() error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		meta, err := tx.CreateBucketIfNotExists(bucketMeta)
		if err != nil {
			return err
		}

		current := strconv.Itoa(SchemaVersion)
		stored := meta.Get(keySchema)
		if stored != nil && string(stored) != current {
			for _, name := range [][]byte{bucketUser, bucketPreferences} {
				if err := tx.DeleteBucket(name); err != nil && err != bbolt.ErrBucketNotFound {
					return err
				}
			}
		}

		for _, name := range [][]byte{bucketUser, bucketPreferences} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return meta.Put(keySchema, []byte(current))
	})
	if err != nil {
		return &errors.LocalError{Op: "migrate schema", Err: err}
	}
	return nil
}

// Close closes the database connection.
func (s *BoltDB) Close() error {
	return s.db.Close()
}

// GetUser returns nil without error when no user is stored.
func (s *BoltDB) GetUser() (*models.User, error) {
	var user *models.User
	err := s.get(bucketUser, func(data []byte) error {
		user = &models.User{}
		return json.Unmarshal(data, user)
	})
	if err != nil {
		return nil, &errors.LocalError{Op: "get user", Err: err}
	}
	return user, nil
}

func (s *BoltDB) SaveUser(user *models.User) error {
	if user == nil {
		return s.DeleteUser()
	}
	if err := s.put(bucketUser, user); err != nil {
		return &errors.LocalError{Op: "save user", Err: err}
	}
	return nil
}

func (s *BoltDB) DeleteUser() error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketUser).Delete(keyCurrent)
	})
	if err != nil {
		return &errors.LocalError{Op: "delete user", Err: err}
	}
	return nil
}

func (s *BoltDB) GetPreferences() (models.Preferences, error) {
	prefs := models.DefaultPreferences()
	err := s.get(bucketPreferences, func(data []byte) error {
		return json.Unmarshal(data, &prefs)
	})
	if err != nil {
		return models.DefaultPreferences(), &errors.LocalError{Op: "get preferences", Err: err}
	}
	return prefs, nil
}

func (s *BoltDB) SavePreferences(prefs models.Preferences) error {
	if err := s.put(bucketPreferences, prefs); err != nil {
		return &errors.LocalError{Op: "save preferences", Err: err}
	}
	return nil
}

func (s *BoltDB) get(bucket []byte, decode func([]byte) error) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucket).Get(keyCurrent)
		if data == nil {
			return nil
		}
		return decode(data)
	})
}

func (s *BoltDB) put(bucket []byte, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Put(keyCurrent, data)
	})
}
