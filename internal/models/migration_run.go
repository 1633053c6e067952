package models

import (
	"time"

	"github.com/google/uuid"
)

// Migration run names
const (
	MigrationProducts   = "products"
	MigrationOrderItems = "order-items"
)

// MigrationRun is the ledger entry of one execution of a migration command.
// A finished, non dry-run "products" entry without a failure marks the catalog
// copy as complete. Failure holds the error that stopped the run early.
type MigrationRun struct {
	ID         int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	RunID      uuid.UUID  `json:"runId" gorm:"type:uuid;not null;uniqueIndex:idx_migration_runs_run_id"`
	Name       string     `json:"name" gorm:"not null;index"`
	DryRun     bool       `json:"dryRun" gorm:"not null;default:false"`
	StartedAt  time.Time  `json:"startedAt" gorm:"not null"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
	Processed  int        `json:"processed"`
	Succeeded  int        `json:"succeeded"`
	Skipped    int        `json:"skipped"`
	Failed     int        `json:"failed"`
	Failure    *string    `json:"failure,omitempty" gorm:"type:text"`
}

// TableName returns the table name for the MigrationRun model
func (MigrationRun) TableName() string {
	return "migration_runs"
}
