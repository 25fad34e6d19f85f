package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	ResourceProduct  = "Product"
	ResourceCategory = "Category"
	ResourceProducts = "Products"

	DefaultCreatedBy = "system"

	MaxCategoryNameLen        = 100
	MaxCategoryDescriptionLen = 500
	MaxProductDescriptionLen  = 1000
	MaxCreatedByLen           = 100
)

type Category struct {
	ID          uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string `json:"name" gorm:"size:100;not null;uniqueIndex:idx_categories_name"`
	Description string `json:"description" gorm:"size:500"`
}

type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string          `json:"name" gorm:"size:200;not null;index:idx_products_name"`
	Description string          `json:"description" gorm:"size:1000"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(18,2);not null"`
	Stock       int             `json:"stock" gorm:"not null"`
	CategoryID  uint            `json:"categoryId" gorm:"not null;index:idx_products_category_id"`
	Category    *Category       `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	CreatedBy   string          `json:"createdBy" gorm:"size:100;not null"`
	CreatedAt   time.Time       `json:"createdAt" gorm:"not null;autoCreateTime:false"`
	UpdatedAt   *time.Time      `json:"updatedAt" gorm:"autoUpdateTime:false"`
}

// CategoryName is empty when the category was not loaded with the product.
func (p *Product) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}

// HasValidPrice reports whether price is positive with at most two decimals.
func HasValidPrice(price decimal.Decimal) bool {
	return price.IsPositive() && price.Equal(price.Round(2))
}

func (c *Category) Validate() error {
	name := strings.TrimSpace(c.Name)
	switch {
	case name == "":
		return NewValidationError("Category name is required.", map[string]any{"name": "required"})
	case utf8.RuneCountInString(c.Name) > MaxCategoryNameLen:
		return NewValidationError(fmt.Sprintf("Category name cannot exceed %d characters.", MaxCategoryNameLen),
			map[string]any{"name": "max"})
	case utf8.RuneCountInString(c.Description) > MaxCategoryDescriptionLen:
		return NewValidationError(fmt.Sprintf("Category description cannot exceed %d characters.", MaxCategoryDescriptionLen),
			map[string]any{"description": "max"})
	}
	return nil
}

func (p *Product) Validate() error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return NewValidationError("Product name is required.", map[string]any{"name": "required"})
	case utf8.RuneCountInString(p.Name) > MaxProductNameLen:
		return NewValidationError(fmt.Sprintf("Product name cannot exceed %d characters.", MaxProductNameLen),
			map[string]any{"name": "max"})
	case utf8.RuneCountInString(p.Description) > MaxProductDescriptionLen:
		return NewValidationError(fmt.Sprintf("Product description cannot exceed %d characters.", MaxProductDescriptionLen),
			map[string]any{"description": "max"})
	case utf8.RuneCountInString(p.CreatedBy) > MaxCreatedByLen:
		return NewValidationError(fmt.Sprintf("CreatedBy cannot exceed %d characters.", MaxCreatedByLen),
			map[string]any{"createdBy": "max"})
	case !HasValidPrice(p.Price):
		return NewInvalidPrice(p.Price.String())
	case p.Stock < 0:
		return NewValidationError("Stock cannot be negative.", map[string]any{"stock": "min"})
	case p.CategoryID == 0:
		return NewValidationError("CategoryId must be greater than 0.", map[string]any{"categoryId": "required"})
	}
	return nil
}
