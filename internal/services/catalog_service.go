package services

import (
	"context"
	"eshop/internal/domain"
	"eshop/internal/repository"
	"log"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"
)

// sharedLoadTimeout bounds a collapsed product load, which outlives the
// cancellation of the request that started it.
const sharedLoadTimeout = 5 * time.Second

type CatalogService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	cache      repository.ProductCache
	loads      singleflight.Group
}

func NewCatalogService(p repository.ProductRepository, c repository.CategoryRepository) *CatalogService {
	return &CatalogService{
		products:   p,
		categories: c,
	}
}

// SetProductCache enables read-through caching for GetProduct.
func (s *CatalogService) SetProductCache(cache repository.ProductCache) {
	s.cache = cache
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.products.FindAll(ctx)
}

// GetProduct consults the cache first. Cache failures are logged and the
// request falls through to the database.
func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*domain.Product, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err != nil {
			log.Printf("product cache get %d: %v", id, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	v, err, _ := s.loads.Do(strconv.FormatUint(uint64(id), 10), func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedLoadTimeout)
		defer cancel()
		return s.products.FindByID(lctx, id)
	})
	if err != nil {
		return nil, err
	}
	p := v.(*domain.Product)
	if p == nil {
		return nil, domain.NewResourceNotFound(domain.ResourceProduct, id)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, p); err != nil {
			log.Printf("product cache set %d: %v", id, err)
		}
	}
	return p, nil
}

// ListProductsByCategory returns an empty list for an unknown category.
func (s *CatalogService) ListProductsByCategory(ctx context.Context, categoryID uint) ([]domain.Product, error) {
	return s.products.FindByCategoryID(ctx, categoryID)
}

func (s *CatalogService) CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireCategory(ctx, p.CategoryID); err != nil {
		return nil, err
	}

	p.ID = 0
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	log.Printf("Created product %d (%s)", p.ID, p.Name)
	return p, nil
}

// UpdateProduct keeps the path id and the original audit fields.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, p *domain.Product) (*domain.Product, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.NewResourceNotFound(domain.ResourceProduct, id)
	}
	if err := s.requireCategory(ctx, p.CategoryID); err != nil {
		return nil, err
	}

	p.ID = id
	p.CreatedBy = existing.CreatedBy
	p.CreatedAt = existing.CreatedAt
	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	// A concurrent GetProduct miss that read the old row may still Set it
	// after this; the stale entry lives until PRODUCT_CACHE_TTL expires.
	s.invalidate(ctx, id)
	return p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	deleted, err := s.products.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.NewResourceNotFound(domain.ResourceProduct, id)
	}
	s.invalidate(ctx, id)
	log.Printf("Deleted product %d", id)
	return nil
}

// WarmupProductCache loads the given products into the cache, skipping any
// that fail.
func (s *CatalogService) WarmupProductCache(ctx context.Context, productIDs []uint) error {
	if s.cache == nil {
		return nil
	}

	for _, id := range productIDs {
		p, err := s.products.FindByID(ctx, id)
		if err != nil {
			log.Printf("Failed to warm up cache for product %d: %v", id, err)
			continue
		}
		if p == nil {
			continue
		}
		if err := s.cache.Set(ctx, p); err != nil {
			log.Printf("Failed to warm up cache for product %d: %v", id, err)
		}
	}
	return nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.FindAll(ctx)
}

func (s *CatalogService) GetCategory(ctx context.Context, id uint) (*domain.Category, error) {
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NewResourceNotFound(domain.ResourceCategory, id)
	}
	return c, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	c.ID = 0
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	log.Printf("Created category %d (%s)", c.ID, c.Name)
	return c, nil
}

// UpdateCategory also drops cached products of the category, since cached
// products carry the category name.
func (s *CatalogService) UpdateCategory(ctx context.Context, id uint, c *domain.Category) (*domain.Category, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.GetCategory(ctx, id); err != nil {
		return nil, err
	}

	c.ID = id
	if err := s.categories.Update(ctx, c); err != nil {
		return nil, err
	}

	if s.cache != nil {
		products, err := s.products.FindByCategoryID(ctx, id)
		if err != nil {
			log.Printf("product cache invalidation for category %d: %v", id, err)
		}
		for _, p := range products {
			s.invalidate(ctx, p.ID)
		}
	}
	return c, nil
}

// DeleteCategory refuses while any product still references the category.
func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return err
	}

	hasProducts, err := s.categories.HasProducts(ctx, id)
	if err != nil {
		return err
	}
	if hasProducts {
		return domain.NewResourceHasDependents(domain.ResourceCategory, id, domain.ResourceProducts)
	}

	deleted, err := s.categories.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.NewResourceNotFound(domain.ResourceCategory, id)
	}
	log.Printf("Deleted category %d", id)
	return nil
}

func (s *CatalogService) requireCategory(ctx context.Context, categoryID uint) error {
	exists, err := s.categories.Exists(ctx, categoryID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.NewForeignKeyViolation(domain.ResourceProduct, domain.ResourceCategory, categoryID)
	}
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context, id uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, id); err != nil {
		log.Printf("product cache delete %d: %v", id, err)
	}
}
