package sqlrepo

import (
	"context"
	"errors"
	"eshop/internal/domain"
	"eshop/internal/repository"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type productRepo struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) FindAll(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	if err := r.db.WithContext(ctx).Preload("Category").Order("id").Find(&out).Error; err != nil {
		log.Printf("FindAll products error: %v", err)
		return nil, translateError("list products", err)
	}
	return out, nil
}

func (r *productRepo) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).Preload("Category").First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("FindByID product %d error: %v", id, err)
		return nil, translateError("get product", err)
	}
	return &p, nil
}

func (r *productRepo) FindByCategoryID(ctx context.Context, categoryID uint) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("category_id = ?", categoryID).
		Order("id").
		Find(&out).Error
	if err != nil {
		log.Printf("FindByCategoryID %d error: %v", categoryID, err)
		return nil, translateError("list products by category", err)
	}
	return out, nil
}

// Create inserts the product and reloads it so the category is populated.
func (r *productRepo) Create(ctx context.Context, p *domain.Product) error {
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = nil
	if p.CreatedBy == "" {
		p.CreatedBy = domain.DefaultCreatedBy
	}

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error; err != nil {
		return r.writeError("create product", p, err)
	}
	log.Printf("Product saved with ID: %d", p.ID)
	return r.reload(ctx, p)
}

func (r *productRepo) Update(ctx context.Context, p *domain.Product) error {
	now := time.Now().UTC()
	err := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"name":        p.Name,
			"description": p.Description,
			"price":       p.Price,
			"stock":       p.Stock,
			"category_id": p.CategoryID,
			"updated_at":  now,
		}).Error
	if err != nil {
		return r.writeError("update product", p, err)
	}
	return r.reload(ctx, p)
}

func (r *productRepo) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&domain.Product{}, id)
	if res.Error != nil {
		log.Printf("Delete product %d error: %v", id, res.Error)
		return false, translateError("delete product", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *productRepo) reload(ctx context.Context, p *domain.Product) error {
	var fresh domain.Product
	if err := r.db.WithContext(ctx).Preload("Category").First(&fresh, p.ID).Error; err != nil {
		return translateError("reload product", err)
	}
	*p = fresh
	return nil
}

// writeError covers a category deleted between the service's existence check
// and the write.
func (r *productRepo) writeError(op string, p *domain.Product, err error) error {
	if v, _, _ := classifyConstraint(err); v == missingReference {
		return domain.NewForeignKeyViolation(domain.ResourceProduct, domain.ResourceCategory, p.CategoryID)
	}
	log.Printf("%s error: %v", op, err)
	return translateError(op, err)
}
