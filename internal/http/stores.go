package http

import (
	"github.com/mrlokans/booktracker/internal/database/stats"
	"github.com/mrlokans/booktracker/internal/entities"
)

// Store interfaces the controllers depend on. The repositories under
// internal/database implement them.

// BookStore provides book persistence and the progress state machine.
type BookStore interface {
	GetBookByID(id, userID uint) (*entities.Book, error)
	GetBooksForUser(userID uint, status entities.ReadingStatus) ([]entities.Book, error)
	CreateBook(userID uint, book *entities.Book, categoryIDs []uint) (*entities.Book, error)
	UpdateBook(id, userID uint, updates map[string]any, categoryIDs []uint, replaceCategories bool) (*entities.Book, error)
	UpdateProgress(id, userID uint, currentPage int) (*entities.Book, error)
	DeleteBook(id, userID uint) error
}

// CategoryStore provides read access to the shared category list.
type CategoryStore interface {
	GetAllCategories() ([]entities.Category, error)
}

// ReviewStore provides per-user book reviews.
type ReviewStore interface {
	UpsertReview(bookID, userID uint, content string) (*entities.Review, error)
	DeleteReview(bookID, userID uint) error
}

// GoalStore provides yearly reading goals.
type GoalStore interface {
	UpsertGoal(userID uint, year, targetBooks int) (*entities.ReadingGoal, error)
	GetGoalsForUser(userID uint) ([]entities.ReadingGoal, error)
}

// StatsStore provides the aggregate queries backing the stats endpoint.
type StatsStore interface {
	GetOverview(userID uint) (*stats.Overview, error)
	GetMonthly(userID uint, year int) ([]stats.MonthlyBucket, error)
	GetCategoryBreakdown(userID uint) ([]stats.CategoryStat, error)
}

// Auditor records audit events.
type Auditor interface {
	LogEvent(event *entities.AuditEvent) error
}
