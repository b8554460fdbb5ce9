package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/batterydepartment/backend/internal/domain/catalog"
	"github.com/batterydepartment/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*catalog.Product
}

func newMemoryProductRepo() *memoryProductRepo {
	return &memoryProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *memoryProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *memoryProductRepo) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []catalog.Product
	for _, p := range r.products {
		if status, ok := filter.Filters["status"]; ok && string(p.Status) != status {
			continue
		}
		if line, ok := filter.Filters["product_line"]; ok && p.ProductLine != line {
			continue
		}
		result = append(result, *p)
	}
	return result, nil
}

func (r *memoryProductRepo) Save(ctx context.Context, p *catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = p
	return nil
}

func (r *memoryProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *memoryProductRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	items, err := r.FindAll(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(items)), nil
}

func (r *memoryProductRepo) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryProductRepo) FindBySlug(ctx context.Context, slugValue string) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.Slug == slugValue {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryProductRepo) FindByProductLine(ctx context.Context, line string, filter shared.Filter) ([]catalog.Product, error) {
	filter.Filters = map[string]interface{}{"product_line": line}
	return r.FindAll(ctx, filter)
}

func (r *memoryProductRepo) FindActive(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	filter.Filters = map[string]interface{}{"status": string(catalog.ProductStatusActive)}
	return r.FindAll(ctx, filter)
}

func (r *memoryProductRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []catalog.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *memoryProductRepo) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	_, err := r.FindBySKU(ctx, sku)
	if errors.Is(err, shared.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

type fakeSearcher struct {
	hits []SearchHit
	err  error
}

func (f *fakeSearcher) SearchProducts(ctx context.Context, query string, from, size int) (int64, []SearchHit, error) {
	if f.err != nil {
		return 0, nil, f.err
	}
	return int64(len(f.hits)), f.hits, nil
}

func newTestProductService() (*ProductService, *memoryProductRepo) {
	repo := newMemoryProductRepo()
	return NewProductService(repo), repo
}

func createTestProduct(t *testing.T, svc *ProductService) *ProductResponse {
	t.Helper()
	resp, err := svc.Create(context.Background(), CreateProductRequest{
		SKU:         "BD-20V-5AH",
		Name:        "20V MAX 5.0Ah Battery",
		ProductLine: "PowerStack",
		Voltage:     decimal.NewFromInt(20),
		CapacityAh:  decimal.NewFromInt(5),
		Chemistry:   "li-ion",
		BasePrice:   decimal.NewFromInt(99),
	})
	require.NoError(t, err)
	return resp
}

func TestProductService_Create(t *testing.T) {
	svc, _ := newTestProductService()

	resp := createTestProduct(t, svc)

	assert.Equal(t, "BD-20V-5AH", resp.SKU)
	assert.Equal(t, "20v-max-5-0ah-battery", resp.Slug)
	assert.Equal(t, string(catalog.ProductStatusDraft), resp.Status)
	assert.True(t, resp.BasePrice.Equal(decimal.NewFromInt(99)))
	assert.True(t, resp.WattHours.Equal(decimal.NewFromInt(100)))
}

func TestProductService_Create_DuplicateSKU(t *testing.T) {
	svc, _ := newTestProductService()
	createTestProduct(t, svc)

	_, err := svc.Create(context.Background(), CreateProductRequest{
		SKU:         "BD-20V-5AH",
		Name:        "Another battery",
		ProductLine: "PowerStack",
		Voltage:     decimal.NewFromInt(20),
		CapacityAh:  decimal.NewFromInt(5),
		Chemistry:   "li-ion",
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "DUPLICATE_SKU", domainErr.Code)
}

func TestProductService_Update_RegeneratesSlug(t *testing.T) {
	svc, _ := newTestProductService()
	created := createTestProduct(t, svc)

	updated, err := svc.Update(context.Background(), created.ID, UpdateProductRequest{
		Name:        "FlexVolt 60V 9.0Ah",
		Description: "Jobsite workhorse",
	})
	require.NoError(t, err)
	assert.Equal(t, "flexvolt-60v-9-0ah", updated.Slug)
	assert.Equal(t, "Jobsite workhorse", updated.Description)
}

func TestProductService_SetPrice_RejectsNegative(t *testing.T) {
	svc, _ := newTestProductService()
	created := createTestProduct(t, svc)

	_, err := svc.SetPrice(context.Background(), created.ID, SetPriceRequest{
		BasePrice: decimal.NewFromInt(-1),
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_PRICE", domainErr.Code)
}

func TestProductService_SetDiscountTiers(t *testing.T) {
	svc, _ := newTestProductService()
	created := createTestProduct(t, svc)

	resp, err := svc.SetDiscountTiers(context.Background(), created.ID, SetDiscountTiersRequest{
		Tiers: []DiscountTierRequest{
			{MinQuantity: 5, Percent: decimal.NewFromInt(5)},
			{MinQuantity: 10, Percent: decimal.NewFromInt(10)},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Tiers, 2)

	// Replacing tiers drops the old set entirely.
	resp, err = svc.SetDiscountTiers(context.Background(), created.ID, SetDiscountTiersRequest{
		Tiers: []DiscountTierRequest{
			{MinQuantity: 20, Percent: decimal.NewFromInt(15)},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Tiers, 1)
	assert.Equal(t, 20, resp.Tiers[0].MinQuantity)
}

func TestProductService_SetDiscountTiers_DuplicateMinQuantity(t *testing.T) {
	svc, _ := newTestProductService()
	created := createTestProduct(t, svc)

	_, err := svc.SetDiscountTiers(context.Background(), created.ID, SetDiscountTiersRequest{
		Tiers: []DiscountTierRequest{
			{MinQuantity: 5, Percent: decimal.NewFromInt(5)},
			{MinQuantity: 5, Percent: decimal.NewFromInt(8)},
		},
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "DUPLICATE_TIER", domainErr.Code)
}

func TestProductService_Lifecycle(t *testing.T) {
	svc, _ := newTestProductService()
	created := createTestProduct(t, svc)

	activated, err := svc.Activate(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(catalog.ProductStatusActive), activated.Status)

	retired, err := svc.Retire(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(catalog.ProductStatusRetired), retired.Status)

	// Retired products stay retired.
	_, err = svc.Activate(context.Background(), created.ID)
	require.Error(t, err)
}

func TestProductService_Activate_RequiresPrice(t *testing.T) {
	svc, _ := newTestProductService()

	resp, err := svc.Create(context.Background(), CreateProductRequest{
		SKU:         "BD-12V-2AH",
		Name:        "12V compact battery",
		ProductLine: "Compact",
		Voltage:     decimal.NewFromInt(12),
		CapacityAh:  decimal.NewFromInt(2),
		Chemistry:   "li-ion",
	})
	require.NoError(t, err)

	_, err = svc.Activate(context.Background(), resp.ID)
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "MISSING_PRICE", domainErr.Code)
}

func TestProductService_GetBySlug(t *testing.T) {
	svc, _ := newTestProductService()
	created := createTestProduct(t, svc)

	found, err := svc.GetBySlug(context.Background(), created.Slug)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = svc.GetBySlug(context.Background(), "no-such-battery")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestProductService_ListActive_FiltersDrafts(t *testing.T) {
	svc, _ := newTestProductService()
	created := createTestProduct(t, svc)

	items, total, err := svc.ListActive(context.Background(), ProductListFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)

	_, err = svc.Activate(context.Background(), created.ID)
	require.NoError(t, err)

	items, total, err = svc.ListActive(context.Background(), ProductListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, created.ID, items[0].ID)
}

func TestProductService_Search(t *testing.T) {
	svc, _ := newTestProductService()

	_, err := svc.Search(context.Background(), SearchRequest{Query: "flexvolt"})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "SEARCH_UNAVAILABLE", domainErr.Code)

	svc.SetSearcher(&fakeSearcher{hits: []SearchHit{
		{ID: uuid.NewString(), SKU: "BD-60V-9AH", Name: "FlexVolt 60V 9.0Ah", ProductLine: "FlexVolt"},
	}})

	resp, err := svc.Search(context.Background(), SearchRequest{Query: "flexvolt", Size: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Total)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "BD-60V-9AH", resp.Results[0].SKU)
}
