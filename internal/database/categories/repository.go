// Package categories provides database operations for the shared category
// list. Categories are global; users only link to them.
package categories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/booktracker/internal/entities"
)

// ErrNotFound is returned when no category matches the lookup.
var ErrNotFound = errors.New("category not found")

// Repository handles all category database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new categories repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetAllCategories retrieves all categories ordered by name.
func (r *Repository) GetAllCategories() ([]entities.Category, error) {
	var categories []entities.Category
	err := r.db.Order("name ASC").Find(&categories).Error
	return categories, err
}

// GetCategoryByID retrieves a category by ID.
func (r *Repository) GetCategoryByID(id uint) (*entities.Category, error) {
	var category entities.Category
	err := r.db.First(&category, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}
