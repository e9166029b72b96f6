// Package books provides database operations for book management, including
// the progress-driven status transitions.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.GetBookByID(123, userID)
package books

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/booktracker/internal/entities"
)

var (
	// ErrNotFound is returned when a book does not exist or belongs to a
	// different user. The two cases are intentionally indistinguishable.
	ErrNotFound = errors.New("book not found")

	// ErrPageExceedsTotal is returned when a progress update would push
	// the current page past the book's total page count.
	ErrPageExceedsTotal = errors.New("current page cannot exceed total pages")
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetBookByID retrieves a single book owned by userID, hydrated with its
// categories and the owner's review.
func (r *Repository) GetBookByID(id, userID uint) (*entities.Book, error) {
	return getBook(r.db, id, userID)
}

func getBook(db *gorm.DB, id, userID uint) (*entities.Book, error) {
	var book entities.Book
	err := db.
		Preload("Categories", func(db *gorm.DB) *gorm.DB {
			return db.Order("categories.name ASC")
		}).
		Preload("Reviews", "user_id = ?", userID).
		Where("id = ? AND user_id = ?", id, userID).
		First(&book).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	hydrate(&book)
	return &book, nil
}

// hydrate folds the preloaded reviews into the single owner review and
// normalises nil slices so they serialise as empty arrays.
func hydrate(book *entities.Book) {
	if len(book.Reviews) > 0 {
		review := book.Reviews[0]
		book.Review = &review
	}
	book.Reviews = nil
	if book.Categories == nil {
		book.Categories = []entities.Category{}
	}
}

// GetBooksForUser retrieves all of a user's books, optionally filtered by
// status, most recently updated first. Each book is hydrated.
func (r *Repository) GetBooksForUser(userID uint, status entities.ReadingStatus) ([]entities.Book, error) {
	query := r.db.
		Preload("Categories", func(db *gorm.DB) *gorm.DB {
			return db.Order("categories.name ASC")
		}).
		Preload("Reviews", "user_id = ?", userID).
		Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var books []entities.Book
	if err := query.Order("updated_at DESC").Find(&books).Error; err != nil {
		return nil, err
	}
	for i := range books {
		hydrate(&books[i])
	}
	return books, nil
}

// CreateBook inserts a new book for userID and links the given categories.
// Returns the hydrated book.
func (r *Repository) CreateBook(userID uint, book *entities.Book, categoryIDs []uint) (*entities.Book, error) {
	book.ID = 0
	book.UserID = userID
	if book.Status == "" {
		book.Status = entities.StatusToRead
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Categories", "User", "Reviews").Create(book).Error; err != nil {
			return fmt.Errorf("failed to create book: %w", err)
		}
		return linkCategories(tx, book.ID, categoryIDs)
	})
	if err != nil {
		return nil, err
	}

	return r.GetBookByID(book.ID, userID)
}

// UpdateBook applies a partial field update and, when replaceCategories is
// set, swaps the full category set. Both happen in one transaction so
// concurrent readers never observe a category-less window.
//
// This path deliberately does not derive status from page progress; use
// UpdateProgress for that.
func (r *Repository) UpdateBook(id, userID uint, updates map[string]any, categoryIDs []uint, replaceCategories bool) (*entities.Book, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := requireOwned(tx, id, userID); err != nil {
			return err
		}

		if updates == nil {
			updates = map[string]any{}
		}
		updates["updated_at"] = time.Now()
		if err := tx.Model(&entities.Book{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update book: %w", err)
		}

		if replaceCategories {
			if err := tx.Where("book_id = ?", id).Delete(&bookCategory{}).Error; err != nil {
				return fmt.Errorf("failed to clear categories: %w", err)
			}
			return linkCategories(tx, id, categoryIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetBookByID(id, userID)
}

// UpdateProgress sets the current page and derives the reading status:
//
//	page == 0          -> to_read, start date cleared
//	0 < page < total   -> reading when coming from to_read, else unchanged
//	page == total      -> completed, finish date set
//
// A page beyond the total is rejected and the book is left untouched.
func (r *Repository) UpdateProgress(id, userID uint, currentPage int) (*entities.Book, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var book entities.Book
		err := tx.Where("id = ? AND user_id = ?", id, userID).First(&book).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if currentPage > book.TotalPages {
			return ErrPageExceedsTotal
		}

		now := time.Now()
		updates := map[string]any{
			"current_page": currentPage,
			"updated_at":   now,
		}

		switch {
		case currentPage == 0:
			updates["status"] = entities.StatusToRead
			updates["start_date"] = nil
		case currentPage < book.TotalPages:
			if book.Status == entities.StatusToRead {
				updates["status"] = entities.StatusReading
				updates["start_date"] = now
			}
		default: // currentPage == book.TotalPages
			updates["status"] = entities.StatusCompleted
			updates["finish_date"] = now
			if book.StartDate == nil {
				updates["start_date"] = now
			}
		}

		return tx.Model(&entities.Book{}).Where("id = ?", id).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	return r.GetBookByID(id, userID)
}

// DeleteBook removes a user's book. Category links and reviews cascade.
func (r *Repository) DeleteBook(id, userID uint) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&entities.Book{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func requireOwned(tx *gorm.DB, id, userID uint) error {
	var count int64
	if err := tx.Model(&entities.Book{}).Where("id = ? AND user_id = ?", id, userID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

// bookCategory maps the many2many join table so category links can be
// replaced without going through the association API.
type bookCategory struct {
	BookID     uint `gorm:"primaryKey"`
	CategoryID uint `gorm:"primaryKey"`
}

func (bookCategory) TableName() string { return "book_categories" }

func linkCategories(tx *gorm.DB, bookID uint, categoryIDs []uint) error {
	for _, categoryID := range categoryIDs {
		link := bookCategory{BookID: bookID, CategoryID: categoryID}
		if err := tx.Create(&link).Error; err != nil {
			return fmt.Errorf("failed to link category %d: %w", categoryID, err)
		}
	}
	return nil
}
