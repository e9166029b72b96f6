// Package stats provides read-only aggregation queries over a user's
// books. Everything is computed per request; nothing is cached.
package stats

import (
	"fmt"
	"math"

	"gorm.io/gorm"

	"github.com/mrlokans/booktracker/internal/entities"
)

// Overview summarises a user's whole library.
type Overview struct {
	TotalBooks     int     `json:"totalBooks"`
	BooksReading   int     `json:"booksReading"`
	BooksCompleted int     `json:"booksCompleted"`
	TotalPages     int     `json:"totalPages"`
	PagesRead      int     `json:"pagesRead"`
	AverageRating  float64 `json:"averageRating"`
}

// MonthlyBucket holds completion counts for a single month.
type MonthlyBucket struct {
	Month          int `json:"month"`
	BooksCompleted int `json:"booksCompleted"`
	PagesRead      int `json:"pagesRead"`
}

// CategoryStat aggregates a user's books within one category.
type CategoryStat struct {
	Name      string  `json:"name"`
	BookCount int     `json:"bookCount"`
	AvgRating float64 `json:"avgRating"`
}

// Repository runs the aggregation queries.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new stats repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetOverview computes library-wide counters for a user. The average
// rating covers only rated books, rounded to one decimal place, and is 0
// when no book has a rating.
func (r *Repository) GetOverview(userID uint) (*Overview, error) {
	var books []entities.Book
	if err := r.db.Where("user_id = ?", userID).Find(&books).Error; err != nil {
		return nil, fmt.Errorf("failed to load books: %w", err)
	}

	overview := &Overview{TotalBooks: len(books)}
	ratingSum, rated := 0, 0
	for _, book := range books {
		switch book.Status {
		case entities.StatusReading:
			overview.BooksReading++
		case entities.StatusCompleted:
			overview.BooksCompleted++
		}
		overview.TotalPages += book.TotalPages
		overview.PagesRead += book.CurrentPage
		if book.Rating != nil {
			ratingSum += *book.Rating
			rated++
		}
	}
	if rated > 0 {
		overview.AverageRating = math.Round(float64(ratingSum)/float64(rated)*10) / 10
	}
	return overview, nil
}

// GetMonthly buckets the user's completed books by finish month. A book
// contributes only when its finish date falls in the requested year.
func (r *Repository) GetMonthly(userID uint, year int) ([]MonthlyBucket, error) {
	var books []entities.Book
	if err := r.db.Where("user_id = ?", userID).Find(&books).Error; err != nil {
		return nil, fmt.Errorf("failed to load books: %w", err)
	}

	buckets := make([]MonthlyBucket, 12)
	for i := range buckets {
		buckets[i].Month = i + 1
	}
	for _, book := range books {
		if book.FinishDate == nil || book.FinishDate.Year() != year {
			continue
		}
		month := int(book.FinishDate.Month()) - 1
		buckets[month].BooksCompleted++
		buckets[month].PagesRead += book.TotalPages
	}
	return buckets, nil
}

// GetCategoryBreakdown aggregates the user's books per category: book
// count and mean rating, restricted to categories holding at least one of
// the user's books, busiest categories first, at most 10 rows.
func (r *Repository) GetCategoryBreakdown(userID uint) ([]CategoryStat, error) {
	var results []CategoryStat
	err := r.db.Raw(`
		SELECT
			c.name AS name,
			COUNT(DISTINCT b.id) AS book_count,
			COALESCE(AVG(b.rating), 0) AS avg_rating
		FROM categories c
		LEFT JOIN book_categories bc ON c.id = bc.category_id
		LEFT JOIN books b ON bc.book_id = b.id AND b.user_id = ?
		WHERE b.id IS NOT NULL
		GROUP BY c.id, c.name
		ORDER BY book_count DESC
		LIMIT 10
	`, userID).Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate categories: %w", err)
	}
	if results == nil {
		results = []CategoryStat{}
	}
	return results, nil
}
