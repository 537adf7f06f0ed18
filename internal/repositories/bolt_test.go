package repositories

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"avaliaja_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"
)

func newTestBoltDB(t *testing.T) *bolt.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "avaliaja_test.db")
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	require.NoError(t, err)
	require.NoError(t, SetupBoltBuckets(db))
	t.Cleanup(func() { db.Close() })
	return db
}

func newBoltClient(t *testing.T, repo ClientRepository, accountID, phone string) *models.Client {
	t.Helper()
	client := &models.Client{AccountID: accountID, Phone: phone, Satisfied: true}
	require.NoError(t, repo.CreateClient(client))
	return client
}

func TestBoltClientRepository_CreateAndGet(t *testing.T) {
	repo := NewBoltClientRepository(newTestBoltDB(t))

	created := newBoltClient(t, repo, testAccountID, "5511987654321")
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.ReviewStatusNotSent, created.ReviewStatus)

	got, err := repo.GetClientByID(testAccountID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "5511987654321", got.Phone)
	assert.Nil(t, got.SentAt)
	assert.Nil(t, got.ReviewedAt)
}

func TestBoltClientRepository_GetClientByID_NotFound(t *testing.T) {
	repo := NewBoltClientRepository(newTestBoltDB(t))

	_, err := repo.GetClientByID(testAccountID, "missing-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBoltClientRepository_DuplicatePhone(t *testing.T) {
	repo := NewBoltClientRepository(newTestBoltDB(t))

	newBoltClient(t, repo, testAccountID, "5511987654321")
	err := repo.CreateClient(&models.Client{AccountID: testAccountID, Phone: "5511987654321"})
	assert.ErrorIs(t, err, ErrDuplicateKey)

	// Same phone under another account is fine.
	err = repo.CreateClient(&models.Client{AccountID: "other-account", Phone: "5511987654321"})
	assert.NoError(t, err)
}

func TestBoltClientRepository_PhoneExists(t *testing.T) {
	repo := NewBoltClientRepository(newTestBoltDB(t))
	newBoltClient(t, repo, testAccountID, "5511987654321")

	exists, err := repo.PhoneExists(testAccountID, "5511987654321")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.PhoneExists(testAccountID, "5511911112222")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.PhoneExists("account-without-clients", "5511987654321")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestBoltClientRepository_GetClients_NewestFirst(t *testing.T) {
	repo := NewBoltClientRepository(newTestBoltDB(t))

	phones := []string{"5511911110001", "5511911110002", "5511911110003"}
	for _, phone := range phones {
		newBoltClient(t, repo, testAccountID, phone)
		time.Sleep(2 * time.Millisecond)
	}

	clients, err := repo.GetClients(testAccountID)
	require.NoError(t, err)
	require.Len(t, clients, 3)
	assert.Equal(t, "5511911110003", clients[0].Phone)
	assert.Equal(t, "5511911110002", clients[1].Phone)
	assert.Equal(t, "5511911110001", clients[2].Phone)

	empty, err := repo.GetClients("account-without-clients")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestBoltClientRepository_ConditionalTransition(t *testing.T) {
	repo := NewBoltClientRepository(newTestBoltDB(t))
	created := newBoltClient(t, repo, testAccountID, "5511987654321")

	sentAt := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	client, err := repo.ConditionalTransition(testAccountID, created.ID,
		models.ReviewStatusNotSent, models.ReviewStatusSent, sentAt)
	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusSent, client.ReviewStatus)
	require.NotNil(t, client.SentAt)
	assert.True(t, client.SentAt.Equal(sentAt))
	assert.Nil(t, client.ReviewedAt)

	// Repeating the same transition must now conflict.
	_, err = repo.ConditionalTransition(testAccountID, created.ID,
		models.ReviewStatusNotSent, models.ReviewStatusSent, sentAt)
	assert.ErrorIs(t, err, ErrConflict)

	reviewedAt := sentAt.Add(48 * time.Hour)
	client, err = repo.ConditionalTransition(testAccountID, created.ID,
		models.ReviewStatusSent, models.ReviewStatusReviewedManual, reviewedAt)
	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusReviewedManual, client.ReviewStatus)
	require.NotNil(t, client.ReviewedAt)
	assert.True(t, client.ReviewedAt.Equal(reviewedAt))
	require.NotNil(t, client.SentAt)
	assert.True(t, client.ReviewedAt.After(*client.SentAt))
}

func TestBoltClientRepository_ConditionalTransition_NotFound(t *testing.T) {
	repo := NewBoltClientRepository(newTestBoltDB(t))
	newBoltClient(t, repo, testAccountID, "5511987654321")

	_, err := repo.ConditionalTransition(testAccountID, "missing-id",
		models.ReviewStatusNotSent, models.ReviewStatusSent, time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}

// N concurrent duplicate requests against the same client: exactly one may
// win the NOT_SENT -> SENT transition.
func TestBoltClientRepository_ConcurrentTransitions(t *testing.T) {
	repo := NewBoltClientRepository(newTestBoltDB(t))
	created := newBoltClient(t, repo, testAccountID, "5511987654321")

	const workers = 16
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.ConditionalTransition(testAccountID, created.ID,
				models.ReviewStatusNotSent, models.ReviewStatusSent, time.Now())
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes, conflicts := 0, 0
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)
}

func TestBoltClientRepository_GetMetrics(t *testing.T) {
	repo := NewBoltClientRepository(newTestBoltDB(t))

	dayStart := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	weekStart := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	send := func(phone string, sentAt time.Time) *models.Client {
		client := newBoltClient(t, repo, testAccountID, phone)
		updated, err := repo.ConditionalTransition(testAccountID, client.ID,
			models.ReviewStatusNotSent, models.ReviewStatusSent, sentAt)
		require.NoError(t, err)
		return updated
	}

	// Sent today (counts in all three send windows).
	send("5511911110001", dayStart.Add(10*time.Hour))
	// Sent earlier this week, reviewed this week.
	reviewed := send("5511911110002", weekStart.Add(6*time.Hour))
	_, err := repo.ConditionalTransition(testAccountID, reviewed.ID,
		models.ReviewStatusSent, models.ReviewStatusReviewedManual, weekStart.Add(30*time.Hour))
	require.NoError(t, err)
	// Sent earlier this month only.
	send("5511911110003", monthStart.Add(12*time.Hour))
	// Sent before the month boundary: outside every window.
	send("5511911110004", monthStart.Add(-time.Hour))
	// Never sent.
	newBoltClient(t, repo, testAccountID, "5511911110005")

	metrics, err := repo.GetMetrics(testAccountID, dayStart, weekStart, monthStart)
	require.NoError(t, err)
	assert.Equal(t, &models.ClientMetrics{
		SentToday:     1,
		SentWeek:      2,
		SentMonth:     3,
		ReviewedWeek:  1,
		ReviewedMonth: 1,
	}, metrics)
}

func TestBoltBusinessRepository_RoundTrip(t *testing.T) {
	repo := NewBoltBusinessRepository(newTestBoltDB(t))

	_, err := repo.GetBusiness(testAccountID)
	assert.ErrorIs(t, err, ErrNotFound)

	business := &models.Business{
		AccountID:        testAccountID,
		BusinessName:     "Padaria do Zé",
		WhatsappNumber:   "5511987654321",
		GoogleReviewLink: "https://g.page/r/abc/review",
		DefaultMessage:   "Avalie a gente: {{link_google}}",
	}
	require.NoError(t, repo.CreateBusiness(business))
	assert.NotEmpty(t, business.ID)

	err = repo.CreateBusiness(&models.Business{AccountID: testAccountID, BusinessName: "Outra"})
	assert.ErrorIs(t, err, ErrDuplicateKey)

	got, err := repo.GetBusiness(testAccountID)
	require.NoError(t, err)
	assert.Equal(t, business.ID, got.ID)
	assert.Equal(t, "Padaria do Zé", got.BusinessName)

	updated := &models.Business{
		AccountID:        testAccountID,
		BusinessName:     "Padaria Nova",
		WhatsappNumber:   "5511911112222",
		GoogleReviewLink: "https://g.page/r/def/review",
		DefaultMessage:   "Novo texto: {{link_google}}",
	}
	require.NoError(t, repo.UpdateBusiness(updated))
	// Identity and creation time survive the rewrite.
	assert.Equal(t, business.ID, updated.ID)
	assert.True(t, updated.CreatedAt.Equal(got.CreatedAt))

	err = repo.UpdateBusiness(&models.Business{AccountID: "unknown-account"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBoltAuthRepository_RoundTrip(t *testing.T) {
	repo := NewBoltAuthRepository(newTestBoltDB(t))

	user := &models.User{Email: "owner@example.com", PasswordHash: "$2a$10$hash"}
	require.NoError(t, repo.CreateUser(user))
	assert.NotEmpty(t, user.ID)

	err := repo.CreateUser(&models.User{Email: "owner@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, ErrDuplicateKey)

	byEmail, err := repo.FindUserByEmail("owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
	// The stored hash must survive the round trip even though the model hides
	// it from API responses.
	assert.Equal(t, "$2a$10$hash", byEmail.PasswordHash)

	byID, err := repo.FindUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", byID.Email)

	_, err = repo.FindUserByEmail("nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.FindUserByID("missing-id")
	assert.ErrorIs(t, err, ErrNotFound)
}
