// Package reviews provides database operations for book reviews. Each user
// holds at most one review per book.
package reviews

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/booktracker/internal/entities"
)

// ErrNotFound is returned when no review matches the lookup.
var ErrNotFound = errors.New("review not found")

// Repository handles all review database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new reviews repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// UpsertReview creates the user's review for a book, or replaces its
// content when one already exists.
func (r *Repository) UpsertReview(bookID, userID uint, content string) (*entities.Review, error) {
	var review entities.Review
	err := r.db.Where("book_id = ? AND user_id = ?", bookID, userID).First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		review = entities.Review{
			BookID:  bookID,
			UserID:  userID,
			Content: content,
		}
		if err := r.db.Create(&review).Error; err != nil {
			return nil, err
		}
		return &review, nil
	}
	if err != nil {
		return nil, err
	}

	if err := r.db.Model(&review).Update("content", content).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// GetReview retrieves the user's review for a book.
func (r *Repository) GetReview(bookID, userID uint) (*entities.Review, error) {
	var review entities.Review
	err := r.db.Where("book_id = ? AND user_id = ?", bookID, userID).First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &review, nil
}

// DeleteReview removes the user's review for a book.
func (r *Repository) DeleteReview(bookID, userID uint) error {
	result := r.db.Where("book_id = ? AND user_id = ?", bookID, userID).Delete(&entities.Review{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
