package partner

import (
	"context"
	"testing"

	"github.com/batterydepartment/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSupplierService() (*SupplierService, *fakeSupplierRepo) {
	repo := newFakeSupplierRepo()
	return NewSupplierService(repo), repo
}

func TestSupplierService_Create(t *testing.T) {
	svc, _ := newTestSupplierService()

	resp, err := svc.Create(context.Background(), CreateSupplierRequest{
		Code:         "rhy",
		Name:         "RHY Battery Co",
		ContactName:  "Wei Chen",
		ContactEmail: "Wei@RHY.example.com",
		Phone:        "+86 755 1234 5678",
	})
	require.NoError(t, err)
	assert.Equal(t, "RHY", resp.Code)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "wei@rhy.example.com", resp.ContactEmail)
	assert.Equal(t, "Wei Chen", resp.ContactName)
}

func TestSupplierService_Create_DuplicateCode(t *testing.T) {
	svc, _ := newTestSupplierService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateSupplierRequest{
		Code: "RHY", Name: "RHY Battery Co", ContactEmail: "wei@rhy.example.com",
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateSupplierRequest{
		Code: "rhy", Name: "Another Co", ContactEmail: "other@example.com",
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "DUPLICATE_CODE", domainErr.Code)
}

func TestSupplierService_Update(t *testing.T) {
	svc, _ := newTestSupplierService()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateSupplierRequest{
		Code: "RHY", Name: "RHY Battery Co", ContactEmail: "wei@rhy.example.com",
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, UpdateSupplierRequest{
		Name:         "RHY Battery Group",
		ContactName:  "Li Na",
		ContactEmail: "li@rhy.example.com",
		Phone:        "+86 755 8765 4321",
	})
	require.NoError(t, err)
	assert.Equal(t, "RHY Battery Group", updated.Name)
	assert.Equal(t, "Li Na", updated.ContactName)
	assert.Equal(t, "li@rhy.example.com", updated.ContactEmail)
}

func TestSupplierService_Lifecycle(t *testing.T) {
	svc, _ := newTestSupplierService()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateSupplierRequest{
		Code: "RHY", Name: "RHY Battery Co", ContactEmail: "wei@rhy.example.com",
	})
	require.NoError(t, err)

	activated, err := svc.Activate(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", activated.Status)

	_, err = svc.Activate(ctx, created.ID)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_ACTIVE", domainErr.Code)

	suspended, err := svc.Suspend(ctx, created.ID, SuspendSupplierRequest{
		Reason: "repeated UN38.3 documentation gaps",
	})
	require.NoError(t, err)
	assert.Equal(t, "suspended", suspended.Status)
	assert.Equal(t, "repeated UN38.3 documentation gaps", suspended.Notes)

	// A suspended supplier can be reinstated
	reinstated, err := svc.Activate(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", reinstated.Status)
}

func TestSupplierService_Suspend_RequiresActive(t *testing.T) {
	svc, _ := newTestSupplierService()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateSupplierRequest{
		Code: "RHY", Name: "RHY Battery Co", ContactEmail: "wei@rhy.example.com",
	})
	require.NoError(t, err)

	_, err = svc.Suspend(ctx, created.ID, SuspendSupplierRequest{Reason: "never onboarded"})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}

func TestSupplierService_GetByCode(t *testing.T) {
	svc, _ := newTestSupplierService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateSupplierRequest{
		Code: "RHY", Name: "RHY Battery Co", ContactEmail: "wei@rhy.example.com",
	})
	require.NoError(t, err)

	found, err := svc.GetByCode(ctx, "rhy")
	require.NoError(t, err)
	assert.Equal(t, "RHY", found.Code)

	_, err = svc.GetByCode(ctx, "NOPE")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestSupplierService_List_FiltersByStatus(t *testing.T) {
	svc, _ := newTestSupplierService()
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateSupplierRequest{
		Code: "RHY", Name: "RHY Battery Co", ContactEmail: "wei@rhy.example.com",
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateSupplierRequest{
		Code: "VLT", Name: "Voltline Cells", ContactEmail: "ops@voltline.example.com",
	})
	require.NoError(t, err)

	_, err = svc.Activate(ctx, first.ID)
	require.NoError(t, err)

	active, err := svc.List(ctx, SupplierListFilter{Status: "active"})
	require.NoError(t, err)
	require.Len(t, active.Items, 1)
	assert.Equal(t, "RHY", active.Items[0].Code)

	all, err := svc.List(ctx, SupplierListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Total)
}
