package database

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// OpenBolt opens (or creates) the embedded bbolt database file. The timeout
// keeps startup from hanging forever when another process holds the file lock.
func OpenBolt(path string) (*bolt.DB, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt database %s: %w", path, err)
	}
	return db, nil
}
