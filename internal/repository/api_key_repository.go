package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"vendor-backend/internal/models"
)

type APIKeyRepository interface {
	Create(ctx context.Context, key *models.APIKey) error
	GetActiveByHash(ctx context.Context, hash string) (*models.APIKey, error)
	List(ctx context.Context) ([]models.APIKey, error)
	Deactivate(ctx context.Context, id int64) error
	TouchLastUsed(ctx context.Context, id int64, at time.Time) error
}

type apiKeyRepository struct {
	db *gorm.DB
}

func NewAPIKeyRepository(db *gorm.DB) APIKeyRepository {
	return &apiKeyRepository{db: db}
}

func (r *apiKeyRepository) Create(ctx context.Context, key *models.APIKey) error {
	key.CreatedAt = time.Now()
	key.IsActive = true
	return r.db.WithContext(ctx).Create(key).Error
}

func (r *apiKeyRepository) GetActiveByHash(ctx context.Context, hash string) (*models.APIKey, error) {
	var key models.APIKey
	err := r.db.WithContext(ctx).
		Where("key_hash = ? AND is_active = ?", hash, true).
		First(&key).Error
	if err != nil {
		return nil, err
	}
	return &key, nil
}

func (r *apiKeyRepository) List(ctx context.Context) ([]models.APIKey, error) {
	var keys []models.APIKey
	err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&keys).Error
	return keys, err
}

func (r *apiKeyRepository) Deactivate(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Model(&models.APIKey{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *apiKeyRepository) TouchLastUsed(ctx context.Context, id int64, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.APIKey{}).
		Where("id = ?", id).
		Update("last_used_at", at).Error
}
