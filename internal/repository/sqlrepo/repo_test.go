package sqlrepo

import (
	"context"
	"eshop/internal/domain"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func getGormDB(t *testing.T) *gorm.DB {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/catalog_test?charset=utf8mb4&parseTime=True&loc=UTC"
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&domain.Category{}, &domain.Product{}))
	return db
}

func uniqueName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

func TestCategoryRepo_DuplicateName(t *testing.T) {
	db := getGormDB(t)
	ctx := context.Background()
	repo := NewCategoryRepository(db)

	name := uniqueName("dup")
	first := &domain.Category{Name: name}
	require.NoError(t, repo.Create(ctx, first))
	defer db.Delete(&domain.Category{}, first.ID)

	err := repo.Create(ctx, &domain.Category{Name: name})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDuplicateResource)

	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "name", de.Details["propertyName"])
	assert.Equal(t, name, de.Details["propertyValue"])
}

func TestProductRepo_MissingCategory(t *testing.T) {
	db := getGormDB(t)
	ctx := context.Background()
	repo := NewProductRepository(db)

	err := repo.Create(ctx, &domain.Product{
		Name:       uniqueName("orphan"),
		Price:      decimal.RequireFromString("1.00"),
		CategoryID: 999999,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrForeignKeyViolation)
}

func TestCategoryRepo_DeleteWithProducts(t *testing.T) {
	db := getGormDB(t)
	ctx := context.Background()
	categories := NewCategoryRepository(db)
	products := NewProductRepository(db)

	c := &domain.Category{Name: uniqueName("parent")}
	require.NoError(t, categories.Create(ctx, c))

	p := &domain.Product{Name: "child", Price: decimal.RequireFromString("5.50"), Stock: 1, CategoryID: c.ID}
	require.NoError(t, products.Create(ctx, p))
	assert.Equal(t, c.Name, p.CategoryName())
	assert.Equal(t, domain.DefaultCreatedBy, p.CreatedBy)
	assert.Nil(t, p.UpdatedAt)

	has, err := categories.HasProducts(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, has)

	_, err = categories.Delete(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrResourceHasDependents)

	deleted, err := products.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = categories.Delete(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestProductRepo_UpdateSetsUpdatedAt(t *testing.T) {
	db := getGormDB(t)
	ctx := context.Background()
	categories := NewCategoryRepository(db)
	products := NewProductRepository(db)

	c := &domain.Category{Name: uniqueName("upd")}
	require.NoError(t, categories.Create(ctx, c))
	defer db.Delete(&domain.Category{}, c.ID)

	p := &domain.Product{Name: "before", Price: decimal.RequireFromString("10.00"), Stock: 1, CategoryID: c.ID}
	require.NoError(t, products.Create(ctx, p))
	defer db.Delete(&domain.Product{}, p.ID)

	p.Name = "after"
	p.Price = decimal.RequireFromString("12.34")
	require.NoError(t, products.Update(ctx, p))

	got, err := products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Name)
	assert.True(t, decimal.RequireFromString("12.34").Equal(got.Price))
	require.NotNil(t, got.UpdatedAt)

	missing, err := products.FindByID(ctx, 4294967295)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
