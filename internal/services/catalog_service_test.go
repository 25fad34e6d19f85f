package services

import (
	"context"
	"errors"
	"eshop/internal/domain"
	"eshop/internal/mocks"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newProductInput() *domain.Product {
	return &domain.Product{
		Name:       "Laptop",
		Price:      decimal.RequireFromString("999.99"),
		Stock:      10,
		CategoryID: TestCategoryID,
	}
}

func TestCatalogService_CreateProduct(t *testing.T) {
	tests := []struct {
		name         string
		input        func() *domain.Product
		setupMocks   func(*mocks.MockProductRepository, *mocks.MockCategoryRepository)
		expectedCode string
	}{
		{
			name:  "successful creation",
			input: newProductInput,
			setupMocks: func(mockProducts *mocks.MockProductRepository, mockCategories *mocks.MockCategoryRepository) {
				mockCategories.On("Exists", mock.Anything, TestCategoryID).Return(true, nil)
				mockProducts.On("Create", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil).Run(func(args mock.Arguments) {
					p := args.Get(1).(*domain.Product)
					p.ID = 7
					p.CreatedBy = domain.DefaultCreatedBy
				})
			},
		},
		{
			name:  "unknown category",
			input: newProductInput,
			setupMocks: func(mockProducts *mocks.MockProductRepository, mockCategories *mocks.MockCategoryRepository) {
				mockCategories.On("Exists", mock.Anything, TestCategoryID).Return(false, nil)
			},
			expectedCode: domain.CodeForeignKeyViolation,
		},
		{
			name:  "category removed between check and insert",
			input: newProductInput,
			setupMocks: func(mockProducts *mocks.MockProductRepository, mockCategories *mocks.MockCategoryRepository) {
				mockCategories.On("Exists", mock.Anything, TestCategoryID).Return(true, nil)
				mockProducts.On("Create", mock.Anything, mock.Anything).Return(
					domain.NewForeignKeyViolation(domain.ResourceProduct, domain.ResourceCategory, TestCategoryID))
			},
			expectedCode: domain.CodeForeignKeyViolation,
		},
		{
			name: "price with three decimals",
			input: func() *domain.Product {
				p := newProductInput()
				p.Price = decimal.RequireFromString("1.999")
				return p
			},
			setupMocks:   func(*mocks.MockProductRepository, *mocks.MockCategoryRepository) {},
			expectedCode: domain.CodeInvalidPrice,
		},
		{
			name: "negative stock",
			input: func() *domain.Product {
				p := newProductInput()
				p.Stock = -1
				return p
			},
			setupMocks:   func(*mocks.MockProductRepository, *mocks.MockCategoryRepository) {},
			expectedCode: domain.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockProducts := new(mocks.MockProductRepository)
			mockCategories := new(mocks.MockCategoryRepository)
			tt.setupMocks(mockProducts, mockCategories)

			p, err := NewCatalogService(mockProducts, mockCategories).CreateProduct(context.Background(), tt.input())
			if tt.expectedCode != "" {
				assert.ErrorIs(t, err, &domain.Error{Code: tt.expectedCode})
				assert.Nil(t, p)
			} else {
				require.NoError(t, err)
				assert.Equal(t, uint(7), p.ID)
				assert.Equal(t, domain.DefaultCreatedBy, p.CreatedBy)
			}
			mockProducts.AssertExpectations(t)
			mockCategories.AssertExpectations(t)
		})
	}
}

func TestCatalogService_UpdateProduct(t *testing.T) {
	t.Run("keeps path id and audit fields", func(t *testing.T) {
		mockProducts := new(mocks.MockProductRepository)
		mockCategories := new(mocks.MockCategoryRepository)
		mockCache := new(mocks.MockProductCache)

		existing := CreateMockProduct(3, "Old", "5.00", 1)
		existing.CreatedBy = "alice"
		mockProducts.On("FindByID", mock.Anything, uint(3)).Return(existing, nil)
		mockCategories.On("Exists", mock.Anything, TestCategoryID).Return(true, nil)
		mockProducts.On("Update", mock.Anything, mock.MatchedBy(func(p *domain.Product) bool {
			return p.ID == 3 && p.CreatedBy == "alice" && p.CreatedAt.Equal(existing.CreatedAt)
		})).Return(nil)
		mockCache.On("Delete", mock.Anything, uint(3)).Return(nil)

		service := NewCatalogService(mockProducts, mockCategories)
		service.SetProductCache(mockCache)

		input := newProductInput()
		input.ID = 999
		p, err := service.UpdateProduct(context.Background(), 3, input)
		require.NoError(t, err)
		assert.Equal(t, uint(3), p.ID)
		mockProducts.AssertExpectations(t)
		mockCache.AssertExpectations(t)
	})

	t.Run("missing product", func(t *testing.T) {
		mockProducts := new(mocks.MockProductRepository)
		mockProducts.On("FindByID", mock.Anything, uint(3)).Return(nil, nil)

		_, err := NewCatalogService(mockProducts, new(mocks.MockCategoryRepository)).
			UpdateProduct(context.Background(), 3, newProductInput())
		assert.ErrorIs(t, err, domain.ErrResourceNotFound)
	})
}

func TestCatalogService_GetProduct_ReadThroughCache(t *testing.T) {
	mockProducts := new(mocks.MockProductRepository)
	mockCategories := new(mocks.MockCategoryRepository)
	mockCache := new(mocks.MockProductCache)

	product := CreateMockProduct(1, "Laptop", "999.99", 10)
	mockCache.On("Get", mock.Anything, uint(1)).Return(nil, nil).Once()
	mockProducts.On("FindByID", mock.Anything, uint(1)).Return(product, nil).Once()
	mockCache.On("Set", mock.Anything, product).Return(nil).Once()
	mockCache.On("Get", mock.Anything, uint(1)).Return(product, nil).Once()

	service := NewCatalogService(mockProducts, mockCategories)
	service.SetProductCache(mockCache)

	first, err := service.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	second, err := service.GetProduct(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "Electronics", first.CategoryName())
	assert.Equal(t, first, second)
	mockProducts.AssertNumberOfCalls(t, "FindByID", 1)
	mockCache.AssertExpectations(t)
}

func TestCatalogService_GetProduct_CacheFailureFallsThrough(t *testing.T) {
	mockProducts := new(mocks.MockProductRepository)
	mockCache := new(mocks.MockProductCache)

	product := CreateMockProduct(1, "Laptop", "999.99", 10)
	cacheErr := domain.NewStoreError(domain.KindUnavailable, domain.CodeCacheError, "get product cache", errors.New("refused"))
	mockCache.On("Get", mock.Anything, uint(1)).Return(nil, cacheErr)
	mockCache.On("Set", mock.Anything, product).Return(cacheErr)
	mockProducts.On("FindByID", mock.Anything, uint(1)).Return(product, nil)

	service := NewCatalogService(mockProducts, new(mocks.MockCategoryRepository))
	service.SetProductCache(mockCache)

	got, err := service.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, product, got)
}

func TestCatalogService_GetProduct_CollapsesConcurrentMisses(t *testing.T) {
	mockProducts := new(mocks.MockProductRepository)
	release := make(chan time.Time)
	product := CreateMockProduct(1, "Laptop", "999.99", 10)
	mockProducts.On("FindByID", mock.Anything, uint(1)).
		WaitUntil(release).
		Return(product, nil)

	service := NewCatalogService(mockProducts, new(mocks.MockCategoryRepository))

	const callers = 8
	var wg sync.WaitGroup
	results := make([]*domain.Product, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := service.GetProduct(context.Background(), 1)
			assert.NoError(t, err)
			results[i] = p
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, p := range results {
		assert.Equal(t, product, p)
	}
	calls := len(mockProducts.Calls)
	assert.GreaterOrEqual(t, calls, 1)
	assert.Less(t, calls, callers)
}

func TestCatalogService_GetProduct_CancelledLeaderDoesNotFailWaiters(t *testing.T) {
	mockProducts := new(mocks.MockProductRepository)
	started := make(chan struct{})
	release := make(chan struct{})
	product := CreateMockProduct(1, "Laptop", "999.99", 10)

	var startOnce sync.Once
	loadErrs := make(chan error, 2)
	mockProducts.On("FindByID", mock.Anything, uint(1)).
		Run(func(args mock.Arguments) {
			startOnce.Do(func() { close(started) })
			<-release
			loadErrs <- args.Get(0).(context.Context).Err()
		}).
		Return(product, nil)

	service := NewCatalogService(mockProducts, new(mocks.MockCategoryRepository))

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	leaderDone := make(chan error, 1)
	go func() {
		_, err := service.GetProduct(leaderCtx, 1)
		leaderDone <- err
	}()
	<-started

	waiterDone := make(chan *domain.Product, 1)
	go func() {
		p, err := service.GetProduct(context.Background(), 1)
		assert.NoError(t, err)
		waiterDone <- p
	}()

	time.Sleep(50 * time.Millisecond)
	cancelLeader()
	close(release)

	assert.Equal(t, product, <-waiterDone)
	assert.NoError(t, <-leaderDone)
	assert.NoError(t, <-loadErrs)
	mockProducts.AssertExpectations(t)
}

func TestCatalogService_GetProduct_NotFound(t *testing.T) {
	mockProducts := new(mocks.MockProductRepository)
	mockProducts.On("FindByID", mock.Anything, uint(404)).Return(nil, nil)

	_, err := NewCatalogService(mockProducts, new(mocks.MockCategoryRepository)).GetProduct(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrResourceNotFound)

	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.ResourceProduct, de.Details["resourceType"])
}

func TestCatalogService_DeleteProduct(t *testing.T) {
	mockProducts := new(mocks.MockProductRepository)
	mockCache := new(mocks.MockProductCache)
	mockProducts.On("Delete", mock.Anything, uint(1)).Return(true, nil)
	mockProducts.On("Delete", mock.Anything, uint(2)).Return(false, nil)
	mockCache.On("Delete", mock.Anything, uint(1)).Return(nil)

	service := NewCatalogService(mockProducts, new(mocks.MockCategoryRepository))
	service.SetProductCache(mockCache)

	assert.NoError(t, service.DeleteProduct(context.Background(), 1))
	assert.ErrorIs(t, service.DeleteProduct(context.Background(), 2), domain.ErrResourceNotFound)
	mockCache.AssertExpectations(t)
	mockCache.AssertNotCalled(t, "Delete", mock.Anything, uint(2))
}

func TestCatalogService_ListProductsByCategory_Empty(t *testing.T) {
	mockProducts := new(mocks.MockProductRepository)
	mockProducts.On("FindByCategoryID", mock.Anything, uint(77)).Return([]domain.Product{}, nil)

	out, err := NewCatalogService(mockProducts, new(mocks.MockCategoryRepository)).
		ListProductsByCategory(context.Background(), 77)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCatalogService_DeleteCategory(t *testing.T) {
	tests := []struct {
		name         string
		setupMocks   func(*mocks.MockCategoryRepository)
		expectedCode string
	}{
		{
			name: "no products",
			setupMocks: func(mockCategories *mocks.MockCategoryRepository) {
				mockCategories.On("FindByID", mock.Anything, TestCategoryID).Return(&domain.Category{ID: TestCategoryID, Name: "Books"}, nil)
				mockCategories.On("HasProducts", mock.Anything, TestCategoryID).Return(false, nil)
				mockCategories.On("Delete", mock.Anything, TestCategoryID).Return(true, nil)
			},
		},
		{
			name: "has products",
			setupMocks: func(mockCategories *mocks.MockCategoryRepository) {
				mockCategories.On("FindByID", mock.Anything, TestCategoryID).Return(&domain.Category{ID: TestCategoryID, Name: "Books"}, nil)
				mockCategories.On("HasProducts", mock.Anything, TestCategoryID).Return(true, nil)
			},
			expectedCode: domain.CodeResourceHasDependents,
		},
		{
			name: "product added after the check",
			setupMocks: func(mockCategories *mocks.MockCategoryRepository) {
				mockCategories.On("FindByID", mock.Anything, TestCategoryID).Return(&domain.Category{ID: TestCategoryID, Name: "Books"}, nil)
				mockCategories.On("HasProducts", mock.Anything, TestCategoryID).Return(false, nil)
				mockCategories.On("Delete", mock.Anything, TestCategoryID).Return(false,
					domain.NewResourceHasDependents(domain.ResourceCategory, TestCategoryID, domain.ResourceProducts))
			},
			expectedCode: domain.CodeResourceHasDependents,
		},
		{
			name: "missing category",
			setupMocks: func(mockCategories *mocks.MockCategoryRepository) {
				mockCategories.On("FindByID", mock.Anything, TestCategoryID).Return(nil, nil)
			},
			expectedCode: domain.CodeResourceNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockCategories := new(mocks.MockCategoryRepository)
			tt.setupMocks(mockCategories)

			err := NewCatalogService(new(mocks.MockProductRepository), mockCategories).
				DeleteCategory(context.Background(), TestCategoryID)
			if tt.expectedCode == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, &domain.Error{Code: tt.expectedCode})
			}
			mockCategories.AssertExpectations(t)
		})
	}
}

func TestCatalogService_CreateCategory_Duplicate(t *testing.T) {
	mockCategories := new(mocks.MockCategoryRepository)
	mockCategories.On("Create", mock.Anything, mock.Anything).Return(
		domain.NewDuplicateResource(domain.ResourceCategory, "name", "Books"))

	_, err := NewCatalogService(new(mocks.MockProductRepository), mockCategories).
		CreateCategory(context.Background(), &domain.Category{Name: "Books"})
	assert.ErrorIs(t, err, domain.ErrDuplicateResource)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

func TestCatalogService_UpdateCategory_InvalidatesProducts(t *testing.T) {
	mockProducts := new(mocks.MockProductRepository)
	mockCategories := new(mocks.MockCategoryRepository)
	mockCache := new(mocks.MockProductCache)

	mockCategories.On("FindByID", mock.Anything, TestCategoryID).Return(&domain.Category{ID: TestCategoryID, Name: "Old"}, nil)
	mockCategories.On("Update", mock.Anything, mock.MatchedBy(func(c *domain.Category) bool {
		return c.ID == TestCategoryID && c.Name == "New"
	})).Return(nil)
	mockProducts.On("FindByCategoryID", mock.Anything, TestCategoryID).Return([]domain.Product{
		*CreateMockProduct(1, "A", "1.00", 1),
		*CreateMockProduct(2, "B", "1.00", 1),
	}, nil)
	mockCache.On("Delete", mock.Anything, uint(1)).Return(nil)
	mockCache.On("Delete", mock.Anything, uint(2)).Return(nil)

	service := NewCatalogService(mockProducts, mockCategories)
	service.SetProductCache(mockCache)

	c, err := service.UpdateCategory(context.Background(), TestCategoryID, &domain.Category{ID: 55, Name: "New"})
	require.NoError(t, err)
	assert.Equal(t, TestCategoryID, c.ID)
	mockCache.AssertExpectations(t)
}

func TestCatalogService_WarmupProductCache(t *testing.T) {
	mockProducts := new(mocks.MockProductRepository)
	mockCache := new(mocks.MockProductCache)

	p1 := CreateMockProduct(1, "Laptop", "999.99", 10)
	mockProducts.On("FindByID", mock.Anything, uint(1)).Return(p1, nil)
	mockProducts.On("FindByID", mock.Anything, uint(2)).Return(nil, errors.New("db down"))
	mockProducts.On("FindByID", mock.Anything, uint(3)).Return(nil, nil)
	mockCache.On("Set", mock.Anything, p1).Return(nil)

	service := NewCatalogService(mockProducts, new(mocks.MockCategoryRepository))
	assert.NoError(t, service.WarmupProductCache(context.Background(), []uint{1, 2, 3}))
	mockProducts.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)

	service.SetProductCache(mockCache)
	assert.NoError(t, service.WarmupProductCache(context.Background(), []uint{1, 2, 3}))
	mockCache.AssertNumberOfCalls(t, "Set", 1)
}
