package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/event-api/internal/domain"
	"github.com/vietanh2810/event-api/internal/repository/dao"
)

type CategoryDAO interface {
	FindAll(ctx context.Context) ([]dao.Category, error)
}

type CategoryRepository struct {
	dao CategoryDAO
}

func NewCategoryRepository(dao CategoryDAO) *CategoryRepository {
	return &CategoryRepository{
		dao: dao,
	}
}

func (r *CategoryRepository) FindAll(ctx context.Context) ([]domain.Category, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	categories := make([]domain.Category, 0, len(found))
	for _, c := range found {
		categories = append(categories, domain.Category{ID: c.ID, Name: c.Name})
	}

	return categories, nil
}
