package models

import "time"

// APIKey is a hashed credential accepted in the X-API-Key header
type APIKey struct {
	ID         int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name       string     `json:"name" gorm:"not null"`
	Prefix     string     `json:"prefix" gorm:"not null"`
	KeyHash    string     `json:"-" gorm:"not null;uniqueIndex:idx_api_keys_hash"`
	IsActive   bool       `json:"isActive" gorm:"not null;default:true"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// CreateAPIKeyRequest represents a request to issue an API key
type CreateAPIKeyRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreatedAPIKey carries the plain key, which is only ever returned once
type CreatedAPIKey struct {
	APIKey
	Key string `json:"key"`
}

// APIKeyResponse represents an issued API key response
type APIKeyResponse struct {
	Success bool           `json:"success"`
	Data    *CreatedAPIKey `json:"data"`
}

// APIKeyListResponse represents a list of API keys response
type APIKeyListResponse struct {
	Success bool     `json:"success"`
	Data    []APIKey `json:"data"`
}

// TableName returns the table name for the APIKey model
func (APIKey) TableName() string {
	return "api_keys"
}
