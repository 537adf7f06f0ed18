package repositories

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"avaliaja_backend/internal/models"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

type boltClientRepository struct {
	db *bolt.DB
}

// NewBoltClientRepository creates the embedded file-database backed
// ClientRepository.
func NewBoltClientRepository(db *bolt.DB) ClientRepository {
	return &boltClientRepository{db: db}
}

func accountClientsBucket(tx *bolt.Tx, accountID string, create bool) (*bolt.Bucket, error) {
	root := tx.Bucket(boltBucketClients)
	if root == nil {
		return nil, fmt.Errorf("%w: clients bucket missing", ErrDatabaseError)
	}
	if create {
		return root.CreateBucketIfNotExists([]byte(accountID))
	}
	return root.Bucket([]byte(accountID)), nil
}

func (r *boltClientRepository) CreateClient(client *models.Client) error {
	now := time.Now()
	client.ID = uuid.NewString()
	client.ReviewStatus = models.ReviewStatusNotSent
	client.SentAt = nil
	client.ReviewedAt = nil
	client.AttendanceDate = now
	client.CreatedAt = now

	err := r.db.Update(func(tx *bolt.Tx) error {
		bucket, err := accountClientsBucket(tx, client.AccountID, true)
		if err != nil {
			return fmt.Errorf("%w: opening account bucket: %v", ErrDatabaseError, err)
		}
		// Per-account phone uniqueness, checked inside the same write
		// transaction that inserts the record.
		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			var existing models.Client
			if err := json.Unmarshal(v, &existing); err != nil {
				return fmt.Errorf("%w: decoding client record: %v", ErrDatabaseError, err)
			}
			if existing.Phone == client.Phone {
				return fmt.Errorf("%w: phone %s already registered", ErrDuplicateKey, client.Phone)
			}
		}
		encoded, err := json.Marshal(client)
		if err != nil {
			return fmt.Errorf("%w: encoding client record: %v", ErrDatabaseError, err)
		}
		return bucket.Put([]byte(client.ID), encoded)
	})
	return err
}

func (r *boltClientRepository) GetClientByID(accountID, clientID string) (*models.Client, error) {
	var client *models.Client
	err := r.db.View(func(tx *bolt.Tx) error {
		bucket, err := accountClientsBucket(tx, accountID, false)
		if err != nil {
			return err
		}
		if bucket == nil {
			return ErrNotFound
		}
		raw := bucket.Get([]byte(clientID))
		if raw == nil {
			return ErrNotFound
		}
		client = &models.Client{}
		if err := json.Unmarshal(raw, client); err != nil {
			return fmt.Errorf("%w: decoding client record: %v", ErrDatabaseError, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (r *boltClientRepository) GetClients(accountID string) ([]models.Client, error) {
	clients := []models.Client{}
	err := r.db.View(func(tx *bolt.Tx) error {
		bucket, err := accountClientsBucket(tx, accountID, false)
		if err != nil {
			return err
		}
		if bucket == nil {
			return nil // account has no clients yet
		}
		return bucket.ForEach(func(_, v []byte) error {
			var client models.Client
			if err := json.Unmarshal(v, &client); err != nil {
				return fmt.Errorf("%w: decoding client record: %v", ErrDatabaseError, err)
			}
			clients = append(clients, client)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(clients, func(i, j int) bool {
		if clients[i].CreatedAt.Equal(clients[j].CreatedAt) {
			return clients[i].ID < clients[j].ID
		}
		return clients[i].CreatedAt.After(clients[j].CreatedAt)
	})
	return clients, nil
}

func (r *boltClientRepository) PhoneExists(accountID, phone string) (bool, error) {
	exists := false
	err := r.db.View(func(tx *bolt.Tx) error {
		bucket, err := accountClientsBucket(tx, accountID, false)
		if err != nil {
			return err
		}
		if bucket == nil {
			return nil
		}
		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			if bytes.Contains(v, []byte(phone)) {
				var client models.Client
				if err := json.Unmarshal(v, &client); err != nil {
					return fmt.Errorf("%w: decoding client record: %v", ErrDatabaseError, err)
				}
				if client.Phone == phone {
					exists = true
					return nil
				}
			}
		}
		return nil
	})
	return exists, err
}

// ConditionalTransition relies on bbolt's single-writer guarantee: the guard
// and the mutation happen inside one Update transaction, so at most one of N
// concurrent calls observes the expected status.
func (r *boltClientRepository) ConditionalTransition(accountID, clientID string, expected, next models.ReviewStatus, at time.Time) (*models.Client, error) {
	var updated *models.Client
	err := r.db.Update(func(tx *bolt.Tx) error {
		bucket, err := accountClientsBucket(tx, accountID, false)
		if err != nil {
			return err
		}
		if bucket == nil {
			return ErrNotFound
		}
		raw := bucket.Get([]byte(clientID))
		if raw == nil {
			return ErrNotFound
		}
		client := &models.Client{}
		if err := json.Unmarshal(raw, client); err != nil {
			return fmt.Errorf("%w: decoding client record: %v", ErrDatabaseError, err)
		}
		if client.ReviewStatus != expected {
			return ErrConflict
		}
		client.ReviewStatus = next
		stamp := at
		if next == models.ReviewStatusReviewedManual {
			client.ReviewedAt = &stamp
		} else {
			client.SentAt = &stamp
		}
		encoded, err := json.Marshal(client)
		if err != nil {
			return fmt.Errorf("%w: encoding client record: %v", ErrDatabaseError, err)
		}
		if err := bucket.Put([]byte(clientID), encoded); err != nil {
			return err
		}
		updated = client
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *boltClientRepository) GetMetrics(accountID string, dayStart, weekStart, monthStart time.Time) (*models.ClientMetrics, error) {
	metrics := &models.ClientMetrics{}
	err := r.db.View(func(tx *bolt.Tx) error {
		bucket, err := accountClientsBucket(tx, accountID, false)
		if err != nil {
			return err
		}
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(_, v []byte) error {
			var client models.Client
			if err := json.Unmarshal(v, &client); err != nil {
				return fmt.Errorf("%w: decoding client record: %v", ErrDatabaseError, err)
			}
			sent := client.ReviewStatus == models.ReviewStatusSent ||
				client.ReviewStatus == models.ReviewStatusReviewedManual
			if sent && client.SentAt != nil {
				if !client.SentAt.Before(dayStart) {
					metrics.SentToday++
				}
				if !client.SentAt.Before(weekStart) {
					metrics.SentWeek++
				}
				if !client.SentAt.Before(monthStart) {
					metrics.SentMonth++
				}
			}
			if client.ReviewStatus == models.ReviewStatusReviewedManual && client.ReviewedAt != nil {
				if !client.ReviewedAt.Before(weekStart) {
					metrics.ReviewedWeek++
				}
				if !client.ReviewedAt.Before(monthStart) {
					metrics.ReviewedMonth++
				}
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return metrics, nil
}
