package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vendor-backend/internal/models"
)

// MigrationRunRepository keeps the ledger of migration command executions
type MigrationRunRepository interface {
	Start(ctx context.Context, name string, dryRun bool) (*models.MigrationRun, error)
	Finish(ctx context.Context, run *models.MigrationRun) error
	LatestCompleted(ctx context.Context, name string) (*models.MigrationRun, error)
	HasCompleted(ctx context.Context, name string) (bool, error)
}

type migrationRunRepository struct {
	db *gorm.DB
}

func NewMigrationRunRepository(db *gorm.DB) MigrationRunRepository {
	return &migrationRunRepository{db: db}
}

func (r *migrationRunRepository) Start(ctx context.Context, name string, dryRun bool) (*models.MigrationRun, error) {
	run := &models.MigrationRun{
		RunID:     uuid.New(),
		Name:      name,
		DryRun:    dryRun,
		StartedAt: time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

// Finish stamps the run as finished and stores its tallies and failure, if any
func (r *migrationRunRepository) Finish(ctx context.Context, run *models.MigrationRun) error {
	now := time.Now()
	run.FinishedAt = &now

	return r.db.WithContext(ctx).Model(&models.MigrationRun{}).
		Where("id = ?", run.ID).
		Updates(map[string]interface{}{
			"finished_at": now,
			"processed":   run.Processed,
			"succeeded":   run.Succeeded,
			"skipped":     run.Skipped,
			"failed":      run.Failed,
			"failure":     run.Failure,
		}).Error
}

// LatestCompleted returns the most recent successful, non dry-run execution of name
func (r *migrationRunRepository) LatestCompleted(ctx context.Context, name string) (*models.MigrationRun, error) {
	var run models.MigrationRun
	err := r.db.WithContext(ctx).
		Where("name = ? AND dry_run = ? AND finished_at IS NOT NULL AND failure IS NULL", name, false).
		Order("finished_at DESC, id DESC").
		First(&run).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *migrationRunRepository) HasCompleted(ctx context.Context, name string) (bool, error) {
	_, err := r.LatestCompleted(ctx, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
