package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vendor-backend/internal/models"
	"vendor-backend/internal/repository"
	"vendor-backend/internal/testutil"
)

func newCustomerService(t *testing.T) CustomerService {
	t.Helper()
	return NewCustomerService(repository.NewCustomerRepository(testutil.NewTestDB(t)))
}

func TestCustomerService_Create(t *testing.T) {
	service := newCustomerService(t)
	ctx := context.Background()

	customer, err := service.CreateCustomer(ctx, &models.CreateCustomerRequest{Name: "  Ana  ", Email: "Ana@Example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Ana", customer.Name)
	assert.Equal(t, "ana@example.com", customer.Email)

	_, err = service.CreateCustomer(ctx, &models.CreateCustomerRequest{Name: "Other", Email: "ANA@example.com"})
	assert.ErrorIs(t, err, ErrCustomerEmailExists)

	_, err = service.CreateCustomer(ctx, &models.CreateCustomerRequest{Name: " ", Email: "x@example.com"})
	assert.True(t, IsValidation(err))
}

func TestCustomerService_Update(t *testing.T) {
	service := newCustomerService(t)
	ctx := context.Background()

	ana, err := service.CreateCustomer(ctx, &models.CreateCustomerRequest{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)
	_, err = service.CreateCustomer(ctx, &models.CreateCustomerRequest{Name: "Luis", Email: "luis@example.com"})
	require.NoError(t, err)

	sameEmail := "ana@example.com"
	name := "Ana María"
	updated, err := service.UpdateCustomer(ctx, ana.ID, &models.UpdateCustomerRequest{Name: &name, Email: &sameEmail})
	require.NoError(t, err)
	assert.Equal(t, "Ana María", updated.Name)

	taken := "luis@example.com"
	_, err = service.UpdateCustomer(ctx, ana.ID, &models.UpdateCustomerRequest{Email: &taken})
	assert.ErrorIs(t, err, ErrCustomerEmailExists)

	_, err = service.UpdateCustomer(ctx, 999, &models.UpdateCustomerRequest{Name: &name})
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestCustomerService_DeleteReturnsRecord(t *testing.T) {
	service := newCustomerService(t)
	ctx := context.Background()

	ana, err := service.CreateCustomer(ctx, &models.CreateCustomerRequest{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)

	deleted, err := service.DeleteCustomer(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", deleted.Email)

	_, err = service.GetCustomer(ctx, ana.ID)
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestCustomerService_ListDefaultsPaging(t *testing.T) {
	service := newCustomerService(t)

	_, pagination, err := service.ListCustomers(context.Background(), nil, 0, 1000)
	require.NoError(t, err)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 20, pagination.Limit)
}
