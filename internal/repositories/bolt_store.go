package repositories

import (
	"fmt"

	bolt "go.etcd.io/bbolt"
)

// Bucket layout for the embedded file-database backend:
//
//	users       user id -> JSON user
//	user_emails email   -> user id
//	business    account id -> JSON business config
//	clients     account id -> nested bucket, client id -> JSON client
//
// bbolt serializes writers, so a read-check-write inside one Update call is
// the conditional-write equivalent of the Postgres backend's guarded UPDATE.
var (
	boltBucketUsers      = []byte("users")
	boltBucketUserEmails = []byte("user_emails")
	boltBucketBusiness   = []byte("business")
	boltBucketClients    = []byte("clients")
)

// SetupBoltBuckets creates the top-level buckets all bolt-backed
// repositories rely on. Call once at startup, before serving requests.
func SetupBoltBuckets(db *bolt.DB) error {
	return db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{boltBucketUsers, boltBucketUserEmails, boltBucketBusiness, boltBucketClients} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("creating bucket %s: %w", name, err)
			}
		}
		return nil
	})
}
