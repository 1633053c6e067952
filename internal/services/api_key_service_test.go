package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vendor-backend/internal/models"
	"vendor-backend/internal/repository"
	"vendor-backend/internal/testutil"
)

func TestAPIKeyService_IssueAuthenticateRevoke(t *testing.T) {
	service := NewAPIKeyService(repository.NewAPIKeyRepository(testutil.NewTestDB(t)))
	ctx := context.Background()

	created, err := service.CreateAPIKey(ctx, &models.CreateAPIKeyRequest{Name: "dashboard"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(created.Key, "vk_"))
	assert.Equal(t, created.Key[:8], created.Prefix)
	assert.Equal(t, HashAPIKey(created.Key), created.KeyHash)
	assert.NotEqual(t, created.Key, created.KeyHash)

	key, err := service.Authenticate(ctx, created.Key)
	require.NoError(t, err)
	assert.Equal(t, created.ID, key.ID)
	assert.NotNil(t, key.LastUsedAt)

	_, err = service.Authenticate(ctx, created.Key+"x")
	assert.ErrorIs(t, err, ErrAPIKeyNotFound)

	require.NoError(t, service.RevokeAPIKey(ctx, created.ID))
	_, err = service.Authenticate(ctx, created.Key)
	assert.ErrorIs(t, err, ErrAPIKeyNotFound)

	assert.ErrorIs(t, service.RevokeAPIKey(ctx, 999), ErrAPIKeyNotFound)
}

func TestAPIKeyService_RequiresName(t *testing.T) {
	service := NewAPIKeyService(repository.NewAPIKeyRepository(testutil.NewTestDB(t)))

	_, err := service.CreateAPIKey(context.Background(), &models.CreateAPIKeyRequest{Name: "  "})
	assert.True(t, IsValidation(err))
}

func TestHashAPIKey(t *testing.T) {
	assert.Equal(t,
		"2bb80d537b1da3e38bd30361aa855686bde0eacd7162fef6a25fe97bf527a25b",
		HashAPIKey("secret"))
}
