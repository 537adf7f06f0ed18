package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"avaliaja_backend/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq" // For pq.Error
)

// ClientRepository defines persistence for client records. Every operation is
// scoped by the owning account id. Implementations must make
// ConditionalTransition atomic with respect to concurrent calls for the same
// client row: the expected-status guard is part of the write itself.
type ClientRepository interface {
	// CreateClient inserts the client, assigning ID, ReviewStatus = NOT_SENT
	// and AttendanceDate/CreatedAt = now. Returns ErrDuplicateKey when the
	// phone already exists for the account.
	CreateClient(client *models.Client) error
	GetClientByID(accountID, clientID string) (*models.Client, error)
	// GetClients returns the account's clients, newest first.
	GetClients(accountID string) ([]models.Client, error)
	PhoneExists(accountID, phone string) (bool, error)
	// ConditionalTransition moves the client from expected to next in one
	// conditional write, stamping sentAt (next == SENT) or reviewedAt
	// (next == REVIEWED_MANUAL) with at. Returns ErrConflict when the stored
	// status is not expected, ErrNotFound when the client does not exist.
	ConditionalTransition(accountID, clientID string, expected, next models.ReviewStatus, at time.Time) (*models.Client, error)
	// GetMetrics counts sends and manual reviews since each boundary.
	GetMetrics(accountID string, dayStart, weekStart, monthStart time.Time) (*models.ClientMetrics, error)
}

type clientRepository struct {
	db *sql.DB
}

// NewClientRepository creates the Postgres-backed ClientRepository.
func NewClientRepository(db *sql.DB) ClientRepository {
	return &clientRepository{db: db}
}

const clientColumns = `id, account_id, name, phone, satisfied, complained, review_status, sent_at, reviewed_at, attendance_date, created_at`

func scanClient(row interface{ Scan(...interface{}) error }) (*models.Client, error) {
	client := &models.Client{}
	var sentAt, reviewedAt sql.NullTime
	err := row.Scan(
		&client.ID, &client.AccountID, &client.Name, &client.Phone,
		&client.Satisfied, &client.Complained, &client.ReviewStatus,
		&sentAt, &reviewedAt, &client.AttendanceDate, &client.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if sentAt.Valid {
		client.SentAt = &sentAt.Time
	}
	if reviewedAt.Valid {
		client.ReviewedAt = &reviewedAt.Time
	}
	return client, nil
}

// CreateClient inserts a new client for its owning account.
func (r *clientRepository) CreateClient(client *models.Client) error {
	now := time.Now()
	client.ID = uuid.NewString()
	client.ReviewStatus = models.ReviewStatusNotSent
	client.SentAt = nil
	client.ReviewedAt = nil
	client.AttendanceDate = now
	client.CreatedAt = now

	query := `INSERT INTO clients (` + clientColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(query,
		client.ID, client.AccountID, client.Name, client.Phone,
		client.Satisfied, client.Complained, client.ReviewStatus,
		nil, nil, client.AttendanceDate, client.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
			}
		}
		return fmt.Errorf("%w: creating client: %v", ErrDatabaseError, err)
	}
	return nil
}

// GetClientByID retrieves one client, scoped by account.
func (r *clientRepository) GetClientByID(accountID, clientID string) (*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1 AND account_id = $2`
	client, err := scanClient(r.db.QueryRow(query, clientID, accountID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting client %s: %v", ErrDatabaseError, clientID, err)
	}
	return client, nil
}

// GetClients retrieves all of an account's clients, newest first.
func (r *clientRepository) GetClients(accountID string) ([]models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE account_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(query, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying clients: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	clients := []models.Client{}
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning client: %v", ErrDatabaseError, err)
		}
		clients = append(clients, *client)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating client rows: %v", ErrDatabaseError, err)
	}
	return clients, nil
}

// PhoneExists reports whether the normalized phone is already registered for
// the account.
func (r *clientRepository) PhoneExists(accountID, phone string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM clients WHERE account_id = $1 AND phone = $2)`
	if err := r.db.QueryRow(query, accountID, phone).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: checking phone existence: %v", ErrDatabaseError, err)
	}
	return exists, nil
}

// ConditionalTransition performs the guard and the mutation in a single
// UPDATE keyed on the expected current status, so two simultaneous requests
// for the same client cannot both succeed.
func (r *clientRepository) ConditionalTransition(accountID, clientID string, expected, next models.ReviewStatus, at time.Time) (*models.Client, error) {
	column := "sent_at"
	if next == models.ReviewStatusReviewedManual {
		column = "reviewed_at"
	}
	query := fmt.Sprintf(`UPDATE clients SET review_status = $1, %s = $2
	          WHERE id = $3 AND account_id = $4 AND review_status = $5`, column)

	result, err := r.db.Exec(query, next, at, clientID, accountID, expected)
	if err != nil {
		return nil, fmt.Errorf("%w: transitioning client %s: %v", ErrDatabaseError, clientID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%w: rows affected for client %s: %v", ErrDatabaseError, clientID, err)
	}
	if rowsAffected == 0 {
		// Either the client is gone or a concurrent transition won.
		if _, getErr := r.GetClientByID(accountID, clientID); getErr != nil {
			return nil, getErr
		}
		return nil, ErrConflict
	}
	return r.GetClientByID(accountID, clientID)
}

// GetMetrics aggregates send/review counts in one round trip.
func (r *clientRepository) GetMetrics(accountID string, dayStart, weekStart, monthStart time.Time) (*models.ClientMetrics, error) {
	metrics := &models.ClientMetrics{}
	query := `SELECT
	            COUNT(*) FILTER (WHERE review_status IN ('SENT', 'REVIEWED_MANUAL') AND sent_at >= $2) AS sent_today,
	            COUNT(*) FILTER (WHERE review_status IN ('SENT', 'REVIEWED_MANUAL') AND sent_at >= $3) AS sent_week,
	            COUNT(*) FILTER (WHERE review_status IN ('SENT', 'REVIEWED_MANUAL') AND sent_at >= $4) AS sent_month,
	            COUNT(*) FILTER (WHERE review_status = 'REVIEWED_MANUAL' AND reviewed_at >= $3) AS reviewed_week,
	            COUNT(*) FILTER (WHERE review_status = 'REVIEWED_MANUAL' AND reviewed_at >= $4) AS reviewed_month
	          FROM clients WHERE account_id = $1`

	err := r.db.QueryRow(query, accountID, dayStart, weekStart, monthStart).Scan(
		&metrics.SentToday, &metrics.SentWeek, &metrics.SentMonth,
		&metrics.ReviewedWeek, &metrics.ReviewedMonth,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: aggregating client metrics: %v", ErrDatabaseError, err)
	}
	return metrics, nil
}
