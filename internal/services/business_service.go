package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"avaliaja_backend/internal/models"
	"avaliaja_backend/internal/repositories"
	"avaliaja_backend/pkg/utils"
	"avaliaja_backend/pkg/validators"
)

// --- Custom Service Errors for Business ---
var (
	ErrBusinessNotFound   = errors.New("business configuration not found")
	ErrBusinessValidation = errors.New("business configuration validation error")
	ErrNoFieldsToUpdate   = errors.New("no fields to update")
)

// FieldErrors reports per-field validation failures so the caller can render
// them next to the offending inputs.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for field := range fe {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return "invalid fields: " + strings.Join(fields, ", ")
}

// --- Business DTOs ---

// SaveBusinessRequest carries the full configuration for create-or-replace.
type SaveBusinessRequest struct {
	BusinessName     string `json:"businessName" binding:"required"`
	WhatsappNumber   string `json:"whatsappNumber" binding:"required"`
	GoogleReviewLink string `json:"googleReviewLink" binding:"required"`
	DefaultMessage   string `json:"defaultMessage" binding:"required"`
}

// UpdateBusinessRequest carries a partial configuration update.
type UpdateBusinessRequest struct {
	BusinessName     *string `json:"businessName"`
	WhatsappNumber   *string `json:"whatsappNumber"`
	GoogleReviewLink *string `json:"googleReviewLink"`
	DefaultMessage   *string `json:"defaultMessage"`
}

// SaveBusinessResult is a saved configuration plus the non-fatal template
// warning, when the default message carries no {{link_google}} placeholder.
type SaveBusinessResult struct {
	Business *models.Business
	Warning  string
	Created  bool
}

// --- BusinessService Interface ---
type BusinessService interface {
	GetConfig(accountID string) (*models.Business, error)
	SaveConfig(accountID string, req SaveBusinessRequest) (*SaveBusinessResult, error)
	UpdateConfig(accountID string, req UpdateBusinessRequest) (*models.Business, error)
}

type businessService struct {
	businessRepo repositories.BusinessRepository
}

// NewBusinessService creates a new instance of BusinessService.
func NewBusinessService(repo repositories.BusinessRepository) BusinessService {
	return &businessService{businessRepo: repo}
}

func (s *businessService) GetConfig(accountID string) (*models.Business, error) {
	business, err := s.businessRepo.GetBusiness(accountID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, fmt.Errorf("failed to get business config: %w", err)
	}
	return business, nil
}

// SaveConfig validates and creates the configuration, or replaces it when one
// already exists for the account.
func (s *businessService) SaveConfig(accountID string, req SaveBusinessRequest) (*SaveBusinessResult, error) {
	fieldErrors := FieldErrors{}

	if utils.IsEmpty(req.BusinessName) {
		fieldErrors["businessName"] = "business name cannot be empty"
	}
	normalizedPhone, err := validators.NormalizePhone(req.WhatsappNumber)
	if err != nil {
		fieldErrors["whatsappNumber"] = err.Error()
	}
	if err := validators.ValidateGoogleReviewURL(req.GoogleReviewLink); err != nil {
		fieldErrors["googleReviewLink"] = err.Error()
	}
	warning, err := validators.ValidateMessage(req.DefaultMessage)
	if err != nil {
		fieldErrors["defaultMessage"] = err.Error()
	}
	if len(fieldErrors) > 0 {
		return nil, fieldErrors
	}

	existing, err := s.businessRepo.GetBusiness(accountID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing business config: %w", err)
	}

	if existing != nil {
		existing.BusinessName = req.BusinessName
		existing.WhatsappNumber = normalizedPhone
		existing.GoogleReviewLink = strings.TrimSpace(req.GoogleReviewLink)
		existing.DefaultMessage = req.DefaultMessage
		if err := s.businessRepo.UpdateBusiness(existing); err != nil {
			return nil, fmt.Errorf("failed to update business config: %w", err)
		}
		return &SaveBusinessResult{Business: existing, Warning: warning}, nil
	}

	business := &models.Business{
		AccountID:        accountID,
		BusinessName:     req.BusinessName,
		WhatsappNumber:   normalizedPhone,
		GoogleReviewLink: strings.TrimSpace(req.GoogleReviewLink),
		DefaultMessage:   req.DefaultMessage,
	}
	if err := s.businessRepo.CreateBusiness(business); err != nil {
		return nil, fmt.Errorf("failed to create business config: %w", err)
	}
	return &SaveBusinessResult{Business: business, Warning: warning, Created: true}, nil
}

// UpdateConfig applies a partial update, validating only the provided fields.
func (s *businessService) UpdateConfig(accountID string, req UpdateBusinessRequest) (*models.Business, error) {
	business, err := s.businessRepo.GetBusiness(accountID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, fmt.Errorf("failed to load business config for update: %w", err)
	}

	if req.BusinessName == nil && req.WhatsappNumber == nil &&
		req.GoogleReviewLink == nil && req.DefaultMessage == nil {
		return nil, ErrNoFieldsToUpdate
	}

	fieldErrors := FieldErrors{}
	if req.BusinessName != nil {
		if utils.IsEmpty(*req.BusinessName) {
			fieldErrors["businessName"] = "business name cannot be empty"
		} else {
			business.BusinessName = *req.BusinessName
		}
	}
	if req.WhatsappNumber != nil {
		normalized, err := validators.NormalizePhone(*req.WhatsappNumber)
		if err != nil {
			fieldErrors["whatsappNumber"] = err.Error()
		} else {
			business.WhatsappNumber = normalized
		}
	}
	if req.GoogleReviewLink != nil {
		if err := validators.ValidateGoogleReviewURL(*req.GoogleReviewLink); err != nil {
			fieldErrors["googleReviewLink"] = err.Error()
		} else {
			business.GoogleReviewLink = strings.TrimSpace(*req.GoogleReviewLink)
		}
	}
	if req.DefaultMessage != nil {
		if _, err := validators.ValidateMessage(*req.DefaultMessage); err != nil {
			fieldErrors["defaultMessage"] = err.Error()
		} else {
			business.DefaultMessage = *req.DefaultMessage
		}
	}
	if len(fieldErrors) > 0 {
		return nil, fieldErrors
	}

	if err := s.businessRepo.UpdateBusiness(business); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, fmt.Errorf("failed to update business config: %w", err)
	}
	return business, nil
}
