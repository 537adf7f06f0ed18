package repositories

import (
	"encoding/json"
	"fmt"
	"time"

	"avaliaja_backend/internal/models"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

type boltBusinessRepository struct {
	db *bolt.DB
}

// NewBoltBusinessRepository creates the embedded file-database backed
// BusinessRepository.
func NewBoltBusinessRepository(db *bolt.DB) BusinessRepository {
	return &boltBusinessRepository{db: db}
}

func (r *boltBusinessRepository) GetBusiness(accountID string) (*models.Business, error) {
	var business *models.Business
	err := r.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(boltBucketBusiness).Get([]byte(accountID))
		if raw == nil {
			return ErrNotFound
		}
		business = &models.Business{}
		if err := json.Unmarshal(raw, business); err != nil {
			return fmt.Errorf("%w: decoding business record: %v", ErrDatabaseError, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return business, nil
}

func (r *boltBusinessRepository) CreateBusiness(business *models.Business) error {
	now := time.Now()
	business.ID = uuid.NewString()
	business.CreatedAt = now
	business.UpdatedAt = now

	return r.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(boltBucketBusiness)
		if bucket.Get([]byte(business.AccountID)) != nil {
			return fmt.Errorf("%w: business config already exists for account %s", ErrDuplicateKey, business.AccountID)
		}
		encoded, err := json.Marshal(business)
		if err != nil {
			return fmt.Errorf("%w: encoding business record: %v", ErrDatabaseError, err)
		}
		return bucket.Put([]byte(business.AccountID), encoded)
	})
}

func (r *boltBusinessRepository) UpdateBusiness(business *models.Business) error {
	business.UpdatedAt = time.Now()
	return r.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(boltBucketBusiness)
		raw := bucket.Get([]byte(business.AccountID))
		if raw == nil {
			return ErrNotFound
		}
		// Preserve the original identity and creation time.
		var stored models.Business
		if err := json.Unmarshal(raw, &stored); err != nil {
			return fmt.Errorf("%w: decoding business record: %v", ErrDatabaseError, err)
		}
		business.ID = stored.ID
		business.CreatedAt = stored.CreatedAt

		encoded, err := json.Marshal(business)
		if err != nil {
			return fmt.Errorf("%w: encoding business record: %v", ErrDatabaseError, err)
		}
		return bucket.Put([]byte(business.AccountID), encoded)
	})
}
