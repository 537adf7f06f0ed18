package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"avaliaja_backend/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// BusinessRepository defines persistence for the per-account business
// configuration. At most one record per account.
type BusinessRepository interface {
	// GetBusiness returns the account's configuration or ErrNotFound.
	GetBusiness(accountID string) (*models.Business, error)
	// CreateBusiness inserts the configuration, assigning ID and timestamps.
	CreateBusiness(business *models.Business) error
	// UpdateBusiness overwrites the configurable fields, refreshing UpdatedAt.
	UpdateBusiness(business *models.Business) error
}

type businessRepository struct {
	db *sql.DB
}

// NewBusinessRepository creates the Postgres-backed BusinessRepository.
func NewBusinessRepository(db *sql.DB) BusinessRepository {
	return &businessRepository{db: db}
}

const businessColumns = `id, account_id, business_name, whatsapp_number, google_review_link, default_message, created_at, updated_at`

func (r *businessRepository) GetBusiness(accountID string) (*models.Business, error) {
	business := &models.Business{}
	query := `SELECT ` + businessColumns + ` FROM business WHERE account_id = $1`
	err := r.db.QueryRow(query, accountID).Scan(
		&business.ID, &business.AccountID, &business.BusinessName,
		&business.WhatsappNumber, &business.GoogleReviewLink,
		&business.DefaultMessage, &business.CreatedAt, &business.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting business config for account %s: %v", ErrDatabaseError, accountID, err)
	}
	return business, nil
}

func (r *businessRepository) CreateBusiness(business *models.Business) error {
	now := time.Now()
	business.ID = uuid.NewString()
	business.CreatedAt = now
	business.UpdatedAt = now

	query := `INSERT INTO business (` + businessColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(query,
		business.ID, business.AccountID, business.BusinessName,
		business.WhatsappNumber, business.GoogleReviewLink,
		business.DefaultMessage, business.CreatedAt, business.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
			}
		}
		return fmt.Errorf("%w: creating business config: %v", ErrDatabaseError, err)
	}
	return nil
}

func (r *businessRepository) UpdateBusiness(business *models.Business) error {
	business.UpdatedAt = time.Now()
	query := `UPDATE business SET
	            business_name = $1, whatsapp_number = $2,
	            google_review_link = $3, default_message = $4, updated_at = $5
	          WHERE account_id = $6`
	result, err := r.db.Exec(query,
		business.BusinessName, business.WhatsappNumber,
		business.GoogleReviewLink, business.DefaultMessage,
		business.UpdatedAt, business.AccountID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating business config: %v", ErrDatabaseError, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected for business update: %v", ErrDatabaseError, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
