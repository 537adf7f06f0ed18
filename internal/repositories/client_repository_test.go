package repositories

import (
	"regexp"
	"testing"
	"time"

	"avaliaja_backend/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAccountID = "7b9c2a1e-0000-0000-0000-000000000001"
	testClientID  = "7b9c2a1e-0000-0000-0000-000000000002"
)

func newMockClientRepo(t *testing.T) (ClientRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewClientRepository(db), mock
}

func clientRows(status models.ReviewStatus, sentAt, reviewedAt interface{}) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "account_id", "name", "phone", "satisfied", "complained",
		"review_status", "sent_at", "reviewed_at", "attendance_date", "created_at",
	}).AddRow(testClientID, testAccountID, "Maria", "5511987654321", true, false,
		string(status), sentAt, reviewedAt, now, now)
}

func TestClientRepository_CreateClient(t *testing.T) {
	repo, mock := newMockClientRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO clients")).
		WithArgs(sqlmock.AnyArg(), testAccountID, sqlmock.AnyArg(), "5511987654321",
			true, false, models.ReviewStatusNotSent, nil, nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	name := "Maria"
	client := &models.Client{
		AccountID: testAccountID,
		Name:      &name,
		Phone:     "5511987654321",
		Satisfied: true,
	}
	err := repo.CreateClient(client)
	require.NoError(t, err)
	assert.NotEmpty(t, client.ID)
	assert.Equal(t, models.ReviewStatusNotSent, client.ReviewStatus)
	assert.Nil(t, client.SentAt)
	assert.Nil(t, client.ReviewedAt)
	assert.False(t, client.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientRepository_CreateClient_DuplicatePhone(t *testing.T) {
	repo, mock := newMockClientRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO clients")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "clients_account_id_phone_key"})

	err := repo.CreateClient(&models.Client{AccountID: testAccountID, Phone: "5511987654321"})
	assert.ErrorIs(t, err, ErrDuplicateKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientRepository_GetClientByID_NotFound(t *testing.T) {
	repo, mock := newMockClientRepo(t)

	mock.ExpectQuery("SELECT .+ FROM clients WHERE id =").
		WithArgs(testClientID, testAccountID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetClientByID(testAccountID, testClientID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientRepository_PhoneExists(t *testing.T) {
	repo, mock := newMockClientRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(testAccountID, "5511987654321").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.PhoneExists(testAccountID, "5511987654321")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientRepository_ConditionalTransition_Success(t *testing.T) {
	repo, mock := newMockClientRepo(t)
	at := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)

	mock.ExpectExec("UPDATE clients SET review_status = .+, sent_at =").
		WithArgs(models.ReviewStatusSent, at, testClientID, testAccountID, models.ReviewStatusNotSent).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT .+ FROM clients WHERE id =").
		WithArgs(testClientID, testAccountID).
		WillReturnRows(clientRows(models.ReviewStatusSent, at, nil))

	client, err := repo.ConditionalTransition(testAccountID, testClientID,
		models.ReviewStatusNotSent, models.ReviewStatusSent, at)
	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusSent, client.ReviewStatus)
	require.NotNil(t, client.SentAt)
	assert.True(t, client.SentAt.Equal(at))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientRepository_ConditionalTransition_StampsReviewedAt(t *testing.T) {
	repo, mock := newMockClientRepo(t)
	sentAt := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	at := sentAt.Add(48 * time.Hour)

	mock.ExpectExec("UPDATE clients SET review_status = .+, reviewed_at =").
		WithArgs(models.ReviewStatusReviewedManual, at, testClientID, testAccountID, models.ReviewStatusSent).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT .+ FROM clients WHERE id =").
		WithArgs(testClientID, testAccountID).
		WillReturnRows(clientRows(models.ReviewStatusReviewedManual, sentAt, at))

	client, err := repo.ConditionalTransition(testAccountID, testClientID,
		models.ReviewStatusSent, models.ReviewStatusReviewedManual, at)
	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusReviewedManual, client.ReviewStatus)
	require.NotNil(t, client.ReviewedAt)
	assert.True(t, client.ReviewedAt.Equal(at))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A lost race leaves zero rows updated but the client still present: that is
// a conflict, not a missing client.
func TestClientRepository_ConditionalTransition_Conflict(t *testing.T) {
	repo, mock := newMockClientRepo(t)
	at := time.Now()

	mock.ExpectExec("UPDATE clients SET review_status =").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT .+ FROM clients WHERE id =").
		WithArgs(testClientID, testAccountID).
		WillReturnRows(clientRows(models.ReviewStatusSent, time.Now(), nil))

	_, err := repo.ConditionalTransition(testAccountID, testClientID,
		models.ReviewStatusNotSent, models.ReviewStatusSent, at)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientRepository_ConditionalTransition_NotFound(t *testing.T) {
	repo, mock := newMockClientRepo(t)

	mock.ExpectExec("UPDATE clients SET review_status =").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT .+ FROM clients WHERE id =").
		WithArgs(testClientID, testAccountID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.ConditionalTransition(testAccountID, testClientID,
		models.ReviewStatusNotSent, models.ReviewStatusSent, time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientRepository_GetMetrics(t *testing.T) {
	repo, mock := newMockClientRepo(t)
	dayStart := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	weekStart := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT").
		WithArgs(testAccountID, dayStart, weekStart, monthStart).
		WillReturnRows(sqlmock.NewRows([]string{
			"sent_today", "sent_week", "sent_month", "reviewed_week", "reviewed_month",
		}).AddRow(2, 5, 12, 3, 7))

	metrics, err := repo.GetMetrics(testAccountID, dayStart, weekStart, monthStart)
	require.NoError(t, err)
	assert.Equal(t, &models.ClientMetrics{
		SentToday: 2, SentWeek: 5, SentMonth: 12, ReviewedWeek: 3, ReviewedMonth: 7,
	}, metrics)
	assert.NoError(t, mock.ExpectationsWereMet())
}
