// Package cache remembers the content fingerprint of every analyzed file so
// batch and watch runs can skip files that have not changed.
package cache

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// FileName is the cache file written into the analyzed directory.
const FileName = ".ledgerprobe-cache.json"

type DB struct {
	// Path -> content fingerprint (xxhash64 hex)
	Entries map[string]string `json:"entries"`
}

func defaultPath(dir string) string {
	return filepath.Join(dir, FileName)
}

// Load always returns a usable DB; the error reports why it is empty.
func Load(dir string) (DB, error) {
	var db DB
	f, err := os.ReadFile(defaultPath(dir))
	if err != nil {
		return DB{Entries: map[string]string{}}, err
	}
	if err := json.Unmarshal(f, &db); err != nil {
		return DB{Entries: map[string]string{}}, err
	}
	if db.Entries == nil {
		db.Entries = map[string]string{}
	}
	return db, nil
}

func Save(dir string, db DB) error {
	if db.Entries == nil {
		return errors.New("empty cache")
	}
	b, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(defaultPath(dir), b, 0644)
}

// Unchanged reports whether path was last seen with fingerprint sum.
func (db DB) Unchanged(path, sum string) bool {
	return db.Entries != nil && sum != "" && db.Entries[path] == sum
}
