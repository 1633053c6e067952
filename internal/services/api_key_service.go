package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"vendor-backend/internal/models"
	"vendor-backend/internal/repository"
)

const (
	apiKeyPrefix      = "vk_"
	apiKeyRandomBytes = 24
	apiKeyDisplayLen  = 8
)

// APIKeyService issues and verifies database-backed API keys
type APIKeyService interface {
	CreateAPIKey(ctx context.Context, req *models.CreateAPIKeyRequest) (*models.CreatedAPIKey, error)
	ListAPIKeys(ctx context.Context) ([]models.APIKey, error)
	RevokeAPIKey(ctx context.Context, id int64) error
	Authenticate(ctx context.Context, key string) (*models.APIKey, error)
}

type apiKeyService struct {
	repo repository.APIKeyRepository
}

// NewAPIKeyService creates a new API key service instance
func NewAPIKeyService(repo repository.APIKeyRepository) APIKeyService {
	return &apiKeyService{repo: repo}
}

// HashAPIKey returns the hex sha256 digest stored for a key
func HashAPIKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

func (s *apiKeyService) CreateAPIKey(ctx context.Context, req *models.CreateAPIKeyRequest) (*models.CreatedAPIKey, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("name", "is required")
	}

	buf := make([]byte, apiKeyRandomBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate api key: %w", err)
	}
	plain := apiKeyPrefix + hex.EncodeToString(buf)

	key := &models.APIKey{
		Name:    name,
		Prefix:  plain[:apiKeyDisplayLen],
		KeyHash: HashAPIKey(plain),
	}
	if err := s.repo.Create(ctx, key); err != nil {
		return nil, fmt.Errorf("failed to store api key: %w", err)
	}

	return &models.CreatedAPIKey{APIKey: *key, Key: plain}, nil
}

func (s *apiKeyService) ListAPIKeys(ctx context.Context) ([]models.APIKey, error) {
	return s.repo.List(ctx)
}

func (s *apiKeyService) RevokeAPIKey(ctx context.Context, id int64) error {
	err := s.repo.Deactivate(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrAPIKeyNotFound
	}
	return err
}

// Authenticate resolves an active key and records its use
func (s *apiKeyService) Authenticate(ctx context.Context, key string) (*models.APIKey, error) {
	if key == "" {
		return nil, ErrAPIKeyNotFound
	}

	found, err := s.repo.GetActiveByHash(ctx, HashAPIKey(key))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAPIKeyNotFound
		}
		return nil, err
	}

	now := time.Now()
	if err := s.repo.TouchLastUsed(ctx, found.ID, now); err != nil {
		return nil, fmt.Errorf("failed to record api key use: %w", err)
	}
	found.LastUsedAt = &now
	return found, nil
}
