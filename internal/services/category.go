package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/habitflow/habitflow-backend/internal/logger"
	"github.com/habitflow/habitflow-backend/internal/pkg/apperr"
	"github.com/habitflow/habitflow-backend/internal/repos"
	"github.com/habitflow/habitflow-backend/internal/requestdata"
	"github.com/habitflow/habitflow-backend/internal/types"
)

type CategoryService interface {
	Create(ctx context.Context, name, color string) (*types.Category, error)
	List(ctx context.Context) ([]*types.Category, error)
	Update(ctx context.Context, categoryID uuid.UUID, name, color *string) (*types.Category, error)
	Delete(ctx context.Context, categoryID uuid.UUID) error
}

type categoryService struct {
	db           *gorm.DB
	log          *logger.Logger
	categoryRepo repos.CategoryRepo
}

func NewCategoryService(db *gorm.DB, log *logger.Logger, categoryRepo repos.CategoryRepo) CategoryService {
	return &categoryService{db: db, log: log.With("service", "CategoryService"), categoryRepo: categoryRepo}
}

func (cs *categoryService) Create(ctx context.Context, name, color string) (*types.Category, error) {
	userID := requestdata.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apperr.Validationf("no authenticated user in context")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validationf("category name is required")
	}
	category := &types.Category{
		ID:     uuid.New(),
		UserID: userID,
		Name:   name,
		Color:  strings.TrimSpace(color),
	}
	if _, err := cs.categoryRepo.Create(ctx, nil, []*types.Category{category}); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

func (cs *categoryService) List(ctx context.Context) ([]*types.Category, error) {
	return cs.categoryRepo.GetByUserID(ctx, nil, requestdata.UserID(ctx))
}

func (cs *categoryService) get(ctx context.Context, categoryID uuid.UUID) (*types.Category, error) {
	category, err := cs.categoryRepo.GetByUserAndID(ctx, nil, requestdata.UserID(ctx), categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load category: %w", err)
	}
	if category == nil {
		return nil, apperr.NotFoundf("category not found")
	}
	return category, nil
}

func (cs *categoryService) Update(ctx context.Context, categoryID uuid.UUID, name, color *string) (*types.Category, error) {
	category, err := cs.get(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if name != nil {
		n := strings.TrimSpace(*name)
		if n == "" {
			return nil, apperr.Validationf("category name cannot be empty")
		}
		category.Name = n
	}
	if color != nil {
		category.Color = strings.TrimSpace(*color)
	}
	if err := cs.categoryRepo.Update(ctx, nil, category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

func (cs *categoryService) Delete(ctx context.Context, categoryID uuid.UUID) error {
	category, err := cs.get(ctx, categoryID)
	if err != nil {
		return err
	}
	// Habits referencing the category fall back to uncategorized via the
	// SET NULL constraint.
	return cs.categoryRepo.DeleteByIDs(ctx, nil, []uuid.UUID{category.ID})
}
