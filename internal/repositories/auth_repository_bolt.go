package repositories

import (
	"encoding/json"
	"fmt"
	"time"

	"avaliaja_backend/internal/models"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

type boltAuthRepository struct {
	db *bolt.DB
}

// NewBoltAuthRepository creates the embedded file-database backed
// AuthRepository.
func NewBoltAuthRepository(db *bolt.DB) AuthRepository {
	return &boltAuthRepository{db: db}
}

// boltUserRecord is the stored form of a user. models.User excludes the
// password hash from JSON serialization, which is exactly what must NOT
// happen on the storage path.
type boltUserRecord struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (rec *boltUserRecord) toModel() *models.User {
	return &models.User{
		ID:           rec.ID,
		Email:        rec.Email,
		PasswordHash: rec.PasswordHash,
		CreatedAt:    rec.CreatedAt,
	}
}

func (r *boltAuthRepository) CreateUser(user *models.User) error {
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()

	return r.db.Update(func(tx *bolt.Tx) error {
		emails := tx.Bucket(boltBucketUserEmails)
		if emails.Get([]byte(user.Email)) != nil {
			return fmt.Errorf("%w: email %s already registered", ErrDuplicateKey, user.Email)
		}
		record := boltUserRecord{
			ID:           user.ID,
			Email:        user.Email,
			PasswordHash: user.PasswordHash,
			CreatedAt:    user.CreatedAt,
		}
		encoded, err := json.Marshal(&record)
		if err != nil {
			return fmt.Errorf("%w: encoding user record: %v", ErrDatabaseError, err)
		}
		if err := tx.Bucket(boltBucketUsers).Put([]byte(user.ID), encoded); err != nil {
			return err
		}
		return emails.Put([]byte(user.Email), []byte(user.ID))
	})
}

func (r *boltAuthRepository) FindUserByEmail(email string) (*models.User, error) {
	var user *models.User
	err := r.db.View(func(tx *bolt.Tx) error {
		userID := tx.Bucket(boltBucketUserEmails).Get([]byte(email))
		if userID == nil {
			return ErrNotFound
		}
		raw := tx.Bucket(boltBucketUsers).Get(userID)
		if raw == nil {
			return ErrNotFound
		}
		var record boltUserRecord
		if err := json.Unmarshal(raw, &record); err != nil {
			return fmt.Errorf("%w: decoding user record: %v", ErrDatabaseError, err)
		}
		user = record.toModel()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *boltAuthRepository) FindUserByID(userID string) (*models.User, error) {
	var user *models.User
	err := r.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(boltBucketUsers).Get([]byte(userID))
		if raw == nil {
			return ErrNotFound
		}
		var record boltUserRecord
		if err := json.Unmarshal(raw, &record); err != nil {
			return fmt.Errorf("%w: decoding user record: %v", ErrDatabaseError, err)
		}
		user = record.toModel()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
