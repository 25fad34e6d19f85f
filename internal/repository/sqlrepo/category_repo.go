package sqlrepo

import (
	"context"
	"errors"
	"eshop/internal/domain"
	"eshop/internal/repository"
	"log"

	"gorm.io/gorm"
)

type categoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) repository.CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) FindAll(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	if err := r.db.WithContext(ctx).Order("id").Find(&out).Error; err != nil {
		log.Printf("FindAll categories error: %v", err)
		return nil, translateError("list categories", err)
	}
	return out, nil
}

func (r *categoryRepo) FindByID(ctx context.Context, id uint) (*domain.Category, error) {
	var c domain.Category
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("FindByID category %d error: %v", id, err)
		return nil, translateError("get category", err)
	}
	return &c, nil
}

func (r *categoryRepo) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&domain.Category{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, translateError("check category", err)
	}
	return n > 0, nil
}

func (r *categoryRepo) HasProducts(ctx context.Context, id uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).Where("category_id = ?", id).Limit(1).Count(&n).Error
	if err != nil {
		return false, translateError("check category products", err)
	}
	return n > 0, nil
}

func (r *categoryRepo) Create(ctx context.Context, c *domain.Category) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return r.writeError("create category", c, err)
	}
	log.Printf("Category saved with ID: %d", c.ID)
	return nil
}

func (r *categoryRepo) Update(ctx context.Context, c *domain.Category) error {
	err := r.db.WithContext(ctx).
		Model(&domain.Category{}).
		Where("id = ?", c.ID).
		Updates(map[string]any{"name": c.Name, "description": c.Description}).Error
	if err != nil {
		return r.writeError("update category", c, err)
	}
	return nil
}

// Delete returns RESOURCE_HAS_DEPENDENCIES when the foreign key on
// products.category_id rejects the delete.
func (r *categoryRepo) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&domain.Category{}, id)
	if res.Error != nil {
		if v, _, _ := classifyConstraint(res.Error); v == referencedRow {
			return false, domain.NewResourceHasDependents(domain.ResourceCategory, id, domain.ResourceProducts)
		}
		log.Printf("Delete category %d error: %v", id, res.Error)
		return false, translateError("delete category", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *categoryRepo) writeError(op string, c *domain.Category, err error) error {
	if v, index, value := classifyConstraint(err); v == uniqueViolation {
		field := fieldForIndex(index)
		if field == "" {
			field = "name"
		}
		if value == "" {
			value = c.Name
		}
		return domain.NewDuplicateResource(domain.ResourceCategory, field, value)
	}
	log.Printf("%s error: %v", op, err)
	return translateError(op, err)
}
