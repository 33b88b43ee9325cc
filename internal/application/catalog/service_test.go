package catalog

import (
	"context"
	"testing"

	"github.com/storefront-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProductStore struct{ mock.Mock }

func (m *mockProductStore) Put(ctx context.Context, p *domain.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockProductStore) Get(ctx context.Context, productID string) (*domain.Product, error) {
	args := m.Called(ctx, productID)
	if p := args.Get(0); p != nil {
		return p.(*domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductStore) Scan(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if p := args.Get(0); p != nil {
		return p.([]domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductStore) Update(ctx context.Context, productID string, updates map[string]interface{}) error {
	return m.Called(ctx, productID, updates).Error(0)
}

func (m *mockProductStore) HardDelete(ctx context.Context, productID string) error {
	return m.Called(ctx, productID).Error(0)
}

func sampleCatalog() []domain.Product {
	return []domain.Product{
		{ProductID: "p1", Name: "Mouse", Category: "electronics", Price: 25, OriginalPrice: 50, Rating: 4.5},
		{ProductID: "p2", Name: "Mug", Category: "home", Price: 10, Rating: 3.0},
		{ProductID: "p3", Name: "Keyboard", Category: "electronics", Price: 80, Rating: 4.9},
	}
}

func TestListFiltersByCategory(t *testing.T) {
	repo := new(mockProductStore)
	svc := NewService(repo)

	repo.On("Scan", mock.Anything).Return(sampleCatalog(), nil)

	got, err := svc.List(context.Background(), domain.ProductQuery{Category: "electronics"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, p := range got {
		assert.Equal(t, "electronics", p.Category)
	}
}

func TestListSortsByPrice(t *testing.T) {
	repo := new(mockProductStore)
	svc := NewService(repo)

	repo.On("Scan", mock.Anything).Return(sampleCatalog(), nil)

	asc, err := svc.List(context.Background(), domain.ProductQuery{Sort: "price-asc"})
	require.NoError(t, err)
	require.Len(t, asc, 3)
	assert.Equal(t, "p2", asc[0].ProductID)
	assert.Equal(t, "p3", asc[2].ProductID)

	repo2 := new(mockProductStore)
	repo2.On("Scan", mock.Anything).Return(sampleCatalog(), nil)
	desc, err := NewService(repo2).List(context.Background(), domain.ProductQuery{Sort: "price-desc"})
	require.NoError(t, err)
	assert.Equal(t, "p3", desc[0].ProductID)
}

func TestListSortsByRating(t *testing.T) {
	repo := new(mockProductStore)
	svc := NewService(repo)

	repo.On("Scan", mock.Anything).Return(sampleCatalog(), nil)

	got, err := svc.List(context.Background(), domain.ProductQuery{Sort: "rating"})
	require.NoError(t, err)
	assert.Equal(t, "p3", got[0].ProductID)
	assert.Equal(t, "p2", got[2].ProductID)
}

func TestListComputesDiscount(t *testing.T) {
	repo := new(mockProductStore)
	svc := NewService(repo)

	repo.On("Scan", mock.Anything).Return(sampleCatalog(), nil)

	got, err := svc.List(context.Background(), domain.ProductQuery{})
	require.NoError(t, err)
	byID := map[string]domain.Product{}
	for _, p := range got {
		byID[p.ProductID] = p
	}
	assert.Equal(t, 50, byID["p1"].Discount)
	assert.Equal(t, 0, byID["p2"].Discount)
}

func TestCreateDefaults(t *testing.T) {
	repo := new(mockProductStore)
	svc := NewService(repo)

	var stored *domain.Product
	repo.On("Put", mock.Anything, mock.AnythingOfType("*domain.Product")).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*domain.Product)
	}).Return(nil)

	p, err := svc.Create(context.Background(), domain.ProductInput{
		Name: "Lamp", Description: "Desk lamp", Price: 30, Category: "home",
	})
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEmpty(t, p.ProductID)
	assert.True(t, p.InStock)
	assert.True(t, p.Enable)
	assert.Zero(t, p.Discount)
}

func TestUpdateUnknownProduct(t *testing.T) {
	repo := new(mockProductStore)
	svc := NewService(repo)

	repo.On("Get", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)

	_, err := svc.Update(context.Background(), "ghost", domain.ProductInput{Name: "X", Description: "Y", Price: 1, Category: "z"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestDelete(t *testing.T) {
	repo := new(mockProductStore)
	svc := NewService(repo)

	repo.On("Get", mock.Anything, "p1").Return(&domain.Product{ProductID: "p1"}, nil)
	repo.On("HardDelete", mock.Anything, "p1").Return(nil)

	require.NoError(t, svc.Delete(context.Background(), "p1"))
	repo.AssertExpectations(t)
}

func TestComputeDiscount(t *testing.T) {
	assert.Equal(t, 50, computeDiscount(100, 50))
	assert.Equal(t, 33, computeDiscount(150, 100))
	assert.Equal(t, 0, computeDiscount(0, 50))
	assert.Equal(t, 0, computeDiscount(50, 50))
	assert.Equal(t, 0, computeDiscount(50, 60))
}
