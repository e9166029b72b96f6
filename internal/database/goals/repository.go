// Package goals provides database operations for yearly reading goals.
package goals

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/booktracker/internal/entities"
)

// ErrNotFound is returned when no goal matches the lookup.
var ErrNotFound = errors.New("reading goal not found")

// Repository handles all reading goal database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new goals repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// UpsertGoal creates the user's goal for a year, or updates the target
// when one already exists. One goal per (user, year).
func (r *Repository) UpsertGoal(userID uint, year, targetBooks int) (*entities.ReadingGoal, error) {
	var goal entities.ReadingGoal
	err := r.db.Where("user_id = ? AND year = ?", userID, year).First(&goal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		goal = entities.ReadingGoal{
			UserID:      userID,
			Year:        year,
			TargetBooks: targetBooks,
		}
		if err := r.db.Create(&goal).Error; err != nil {
			return nil, fmt.Errorf("failed to create goal: %w", err)
		}
	} else if err != nil {
		return nil, err
	} else {
		if err := r.db.Model(&goal).Update("target_books", targetBooks).Error; err != nil {
			return nil, fmt.Errorf("failed to update goal: %w", err)
		}
	}

	if err := r.refreshProgress(&goal); err != nil {
		return nil, err
	}
	return &goal, nil
}

// GetGoalsForUser retrieves all of a user's goals, newest year first, with
// progress recomputed from completed books.
func (r *Repository) GetGoalsForUser(userID uint) ([]entities.ReadingGoal, error) {
	var goals []entities.ReadingGoal
	err := r.db.Where("user_id = ?", userID).Order("year DESC").Find(&goals).Error
	if err != nil {
		return nil, err
	}
	for i := range goals {
		if err := r.refreshProgress(&goals[i]); err != nil {
			return nil, err
		}
	}
	return goals, nil
}

// GetGoal retrieves the user's goal for a specific year.
func (r *Repository) GetGoal(userID uint, year int) (*entities.ReadingGoal, error) {
	var goal entities.ReadingGoal
	err := r.db.Where("user_id = ? AND year = ?", userID, year).First(&goal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := r.refreshProgress(&goal); err != nil {
		return nil, err
	}
	return &goal, nil
}

// refreshProgress recounts the books completed in the goal's year and
// persists the count when it drifted.
func (r *Repository) refreshProgress(goal *entities.ReadingGoal) error {
	var completed int64
	err := r.db.Model(&entities.Book{}).
		Where("user_id = ? AND status = ?", goal.UserID, entities.StatusCompleted).
		Where("finish_date IS NOT NULL").
		Where("CAST(strftime('%Y', finish_date) AS INTEGER) = ?", goal.Year).
		Count(&completed).Error
	if err != nil {
		return fmt.Errorf("failed to count completed books: %w", err)
	}

	if int(completed) != goal.CurrentBooks {
		goal.CurrentBooks = int(completed)
		if err := r.db.Model(goal).Update("current_books", goal.CurrentBooks).Error; err != nil {
			return fmt.Errorf("failed to refresh goal progress: %w", err)
		}
	}
	return nil
}
