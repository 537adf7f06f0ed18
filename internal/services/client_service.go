package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"avaliaja_backend/internal/models"
	"avaliaja_backend/internal/repositories"
	"avaliaja_backend/pkg/utils"
	"avaliaja_backend/pkg/validators"
	"avaliaja_backend/pkg/walink"
)

// --- Custom Service Errors for Client ---
var (
	ErrClientNotFound        = errors.New("client not found")
	ErrClientValidation      = errors.New("client data validation error")
	ErrPhoneNumberExists     = errors.New("phone number already registered for this account")
	ErrBusinessNotConfigured = errors.New("business must be configured before requesting reviews")
	// ErrTransitionConflict: a concurrent transition won the race. The caller
	// may retry after re-reading current state; the core never auto-retries.
	ErrTransitionConflict = errors.New("client status changed concurrently, try again")
)

// --- Client DTOs ---

// CreateClientRequest DTO. Satisfied and Complained are pointers so that a
// missing boolean binds as an error rather than defaulting to false.
type CreateClientRequest struct {
	Name       *string `json:"name"`
	Phone      string  `json:"phone" binding:"required"`
	Satisfied  *bool   `json:"satisfied" binding:"required"`
	Complained *bool   `json:"complained" binding:"required"`
}

// ReviewRequestResult is the outcome of a successful review request: the
// wa.me deep link to open and the client in its post-transition state.
type ReviewRequestResult struct {
	WaLink string         `json:"waLink"`
	Client *models.Client `json:"client"`
}

// --- ClientService Interface ---
type ClientService interface {
	CreateClient(accountID string, req CreateClientRequest) (*models.Client, error)
	GetClients(accountID string) ([]models.Client, error)
	GetClientByID(accountID, clientID string) (*models.Client, error)
	// RequestReview builds the wa.me review link for an eligible client and
	// atomically transitions it NOT_SENT -> SENT.
	RequestReview(accountID, clientID string) (*ReviewRequestResult, error)
	// MarkReviewed atomically transitions a client SENT -> REVIEWED_MANUAL.
	MarkReviewed(accountID, clientID string) (*models.Client, error)
	GetMetrics(accountID string) (*models.ClientMetrics, error)
}

type clientService struct {
	clientRepo   repositories.ClientRepository
	businessRepo repositories.BusinessRepository
	now          func() time.Time
}

// NewClientService creates a new instance of ClientService.
func NewClientService(clientRepo repositories.ClientRepository, businessRepo repositories.BusinessRepository) ClientService {
	return &clientService{
		clientRepo:   clientRepo,
		businessRepo: businessRepo,
		now:          time.Now,
	}
}

func normalizeClientPhone(phone string) (string, error) {
	normalized, err := validators.NormalizePhone(phone)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrClientValidation, err.Error())
	}
	return normalized, nil
}

// CreateClient validates and registers a new client for the account. The
// phone is stored in its canonical normalized form.
func (s *clientService) CreateClient(accountID string, req CreateClientRequest) (*models.Client, error) {
	normalizedPhone, err := normalizeClientPhone(req.Phone)
	if err != nil {
		return nil, err
	}

	exists, err := s.clientRepo.PhoneExists(accountID, normalizedPhone)
	if err != nil {
		return nil, fmt.Errorf("failed to check phone uniqueness: %w", err)
	}
	if exists {
		return nil, ErrPhoneNumberExists
	}

	name := req.Name
	if name != nil {
		// A blank name is stored as absent, not as an empty string.
		name = utils.NewNullString(strings.TrimSpace(*name))
	}

	client := &models.Client{
		AccountID:  accountID,
		Name:       name,
		Phone:      normalizedPhone,
		Satisfied:  req.Satisfied != nil && *req.Satisfied,
		Complained: req.Complained != nil && *req.Complained,
	}
	if err := s.clientRepo.CreateClient(client); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			// Lost a race with a concurrent create for the same phone.
			return nil, ErrPhoneNumberExists
		}
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

func (s *clientService) GetClients(accountID string) ([]models.Client, error) {
	clients, err := s.clientRepo.GetClients(accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

func (s *clientService) GetClientByID(accountID, clientID string) (*models.Client, error) {
	client, err := s.clientRepo.GetClientByID(accountID, clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return client, nil
}

// RequestReview checks eligibility, builds the deep link and performs the
// conditional NOT_SENT -> SENT transition. The link is generated before the
// transition so a failed write never leaves a stamped client without a link.
func (s *clientService) RequestReview(accountID, clientID string) (*ReviewRequestResult, error) {
	client, err := s.GetClientByID(accountID, clientID)
	if err != nil {
		return nil, err
	}
	if err := client.CanRequestReview(); err != nil {
		return nil, err
	}

	business, err := s.businessRepo.GetBusiness(accountID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBusinessNotConfigured
		}
		return nil, fmt.Errorf("failed to load business config: %w", err)
	}

	link := walink.BuildReviewLink(client.Phone, business.DefaultMessage, business.GoogleReviewLink)

	updated, err := s.clientRepo.ConditionalTransition(
		accountID, clientID,
		models.ReviewStatusNotSent, models.ReviewStatusSent,
		s.now(),
	)
	if err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			// A concurrent request already sent the link; the re-read state
			// is SENT, so "already sent" is the accurate rejection.
			return nil, models.ErrReviewAlreadySent
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to mark client as sent: %w", err)
	}

	return &ReviewRequestResult{WaLink: link, Client: updated}, nil
}

// MarkReviewed confirms that a client who received the link has left a
// review, via the conditional SENT -> REVIEWED_MANUAL transition.
func (s *clientService) MarkReviewed(accountID, clientID string) (*models.Client, error) {
	client, err := s.GetClientByID(accountID, clientID)
	if err != nil {
		return nil, err
	}
	if err := client.CanMarkReviewed(); err != nil {
		return nil, err
	}

	updated, err := s.clientRepo.ConditionalTransition(
		accountID, clientID,
		models.ReviewStatusSent, models.ReviewStatusReviewedManual,
		s.now(),
	)
	if err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, ErrTransitionConflict
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to mark client as reviewed: %w", err)
	}
	return updated, nil
}

// GetMetrics aggregates send/review counts for the dashboard. Day boundary is
// local midnight, week boundary the most recent Sunday 00:00, month boundary
// day 1 00:00.
func (s *clientService) GetMetrics(accountID string) (*models.ClientMetrics, error) {
	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := dayStart.AddDate(0, 0, -int(now.Weekday()))
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	metrics, err := s.clientRepo.GetMetrics(accountID, dayStart, weekStart, monthStart)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate metrics: %w", err)
	}
	return metrics, nil
}
