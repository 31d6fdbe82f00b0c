package dao

import (
	"context"

	"gorm.io/gorm"
)

type Category struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"unique;not null"`
}

type CategoryDAO struct {
	db *gorm.DB
}

func NewCategoryDAO(db *gorm.DB) *CategoryDAO {
	return &CategoryDAO{
		db: db,
	}
}

func (d *CategoryDAO) FindAll(ctx context.Context) ([]Category, error) {
	categories := []Category{}

	if err := d.db.WithContext(ctx).Order("id").Find(&categories).Error; err != nil {
		return nil, err
	}

	return categories, nil
}

// Seed creates the named categories that do not exist yet.
func (d *CategoryDAO) Seed(ctx context.Context, names []string) error {
	for _, name := range names {
		category := Category{Name: name}
		if err := d.db.WithContext(ctx).Where(Category{Name: name}).FirstOrCreate(&category).Error; err != nil {
			return err
		}
	}

	return nil
}
