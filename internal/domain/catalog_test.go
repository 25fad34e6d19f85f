package domain

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestHasValidPrice(t *testing.T) {
	assert.True(t, HasValidPrice(decimal.RequireFromString("0.01")))
	assert.True(t, HasValidPrice(decimal.RequireFromString("999.99")))
	assert.False(t, HasValidPrice(decimal.Zero))
	assert.False(t, HasValidPrice(decimal.RequireFromString("-1")))
	assert.False(t, HasValidPrice(decimal.RequireFromString("1.005")))
}

func TestProduct_Validate(t *testing.T) {
	valid := func() Product {
		return Product{Name: "Laptop", Price: decimal.RequireFromString("999.99"), Stock: 0, CategoryID: 1}
	}

	tests := []struct {
		name   string
		mutate func(*Product)
		code   string
	}{
		{"valid", func(*Product) {}, ""},
		{"blank name", func(p *Product) { p.Name = "  " }, CodeValidation},
		{"long name", func(p *Product) { p.Name = strings.Repeat("x", 201) }, CodeValidation},
		{"long description", func(p *Product) { p.Description = strings.Repeat("x", 1001) }, CodeValidation},
		{"multibyte name at limit", func(p *Product) { p.Name = strings.Repeat("é", 200) }, ""},
		{"multibyte name over limit", func(p *Product) { p.Name = strings.Repeat("é", 201) }, CodeValidation},
		{"multibyte description at limit", func(p *Product) { p.Description = strings.Repeat("鞋", 1000) }, ""},
		{"multibyte createdBy at limit", func(p *Product) { p.CreatedBy = strings.Repeat("ü", 100) }, ""},
		{"zero price", func(p *Product) { p.Price = decimal.Zero }, CodeInvalidPrice},
		{"three decimals", func(p *Product) { p.Price = decimal.RequireFromString("9.999") }, CodeInvalidPrice},
		{"negative stock", func(p *Product) { p.Stock = -1 }, CodeValidation},
		{"no category", func(p *Product) { p.CategoryID = 0 }, CodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(&p)
			err := p.Validate()
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, &Error{Code: tt.code})
		})
	}
}

func TestCategory_Validate(t *testing.T) {
	assert.NoError(t, (&Category{Name: "Books"}).Validate())
	assert.Error(t, (&Category{Name: ""}).Validate())
	assert.Error(t, (&Category{Name: strings.Repeat("x", 101)}).Validate())
	assert.Error(t, (&Category{Name: "Books", Description: strings.Repeat("x", 501)}).Validate())

	// Limits count characters, not bytes.
	assert.NoError(t, (&Category{Name: strings.Repeat("é", 100)}).Validate())
	assert.Error(t, (&Category{Name: strings.Repeat("é", 101)}).Validate())
	assert.NoError(t, (&Category{Name: "Books", Description: strings.Repeat("鞋", 500)}).Validate())
}

func TestProduct_CategoryName(t *testing.T) {
	p := &Product{}
	assert.Equal(t, "", p.CategoryName())
	p.Category = &Category{Name: "Books"}
	assert.Equal(t, "Books", p.CategoryName())
}
