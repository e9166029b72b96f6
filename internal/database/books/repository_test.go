package books

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/booktracker/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, func()) {
	dbPath := "./test_books_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Category{},
		&entities.Book{},
		&entities.Review{},
		&entities.ReadingGoal{},
	)
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, db, cleanup
}

func createTestUser(t *testing.T, db *gorm.DB, email string) uint {
	user := entities.User{Email: email, PasswordHash: "x", Name: "Test User", Role: entities.UserRoleUser}
	require.NoError(t, db.Create(&user).Error)
	return user.ID
}

func createTestCategory(t *testing.T, db *gorm.DB, name string) uint {
	category := entities.Category{Name: name}
	require.NoError(t, db.Create(&category).Error)
	return category.ID
}

func TestRepository_CreateBook_Defaults(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()
	userID := createTestUser(t, db, "reader@example.com")

	book, err := repo.CreateBook(userID, &entities.Book{
		Title:      "Dune",
		Author:     "Frank Herbert",
		TotalPages: 704,
	}, nil)

	require.NoError(t, err)
	assert.NotZero(t, book.ID)
	assert.Equal(t, userID, book.UserID)
	assert.Equal(t, 0, book.CurrentPage)
	assert.Equal(t, entities.StatusToRead, book.Status)
	assert.Empty(t, book.Categories)
	assert.Nil(t, book.Review)
}

func TestRepository_CreateBook_WithCategories(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()
	userID := createTestUser(t, db, "reader@example.com")
	scifi := createTestCategory(t, db, "Science Fiction")
	fiction := createTestCategory(t, db, "Fiction")

	book, err := repo.CreateBook(userID, &entities.Book{
		Title:      "Foundation",
		Author:     "Isaac Asimov",
		TotalPages: 296,
	}, []uint{scifi, fiction})

	require.NoError(t, err)
	require.Len(t, book.Categories, 2)
	// Hydration orders categories by name
	assert.Equal(t, "Fiction", book.Categories[0].Name)
	assert.Equal(t, "Science Fiction", book.Categories[1].Name)
}

func TestRepository_GetBookByID_OtherUser(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()
	owner := createTestUser(t, db, "owner@example.com")
	other := createTestUser(t, db, "other@example.com")

	book, err := repo.CreateBook(owner, &entities.Book{Title: "Dune", Author: "Frank Herbert", TotalPages: 704}, nil)
	require.NoError(t, err)

	_, err = repo.GetBookByID(book.ID, other)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_GetBooksForUser_FilterAndOrder(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()
	userID := createTestUser(t, db, "reader@example.com")

	first, err := repo.CreateBook(userID, &entities.Book{Title: "Older", Author: "A", TotalPages: 100}, nil)
	require.NoError(t, err)
	_, err = repo.CreateBook(userID, &entities.Book{Title: "Newer", Author: "B", TotalPages: 100}, nil)
	require.NoError(t, err)

	// Touch the older book so it moves to the front
	_, err = repo.UpdateBook(first.ID, userID, map[string]any{"author": "A."}, nil, false)
	require.NoError(t, err)

	all, err := repo.GetBooksForUser(userID, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Older", all[0].Title)

	reading, err := repo.GetBooksForUser(userID, entities.StatusReading)
	require.NoError(t, err)
	assert.Empty(t, reading)

	toRead, err := repo.GetBooksForUser(userID, entities.StatusToRead)
	require.NoError(t, err)
	assert.Len(t, toRead, 2)
}

func TestRepository_GetBooksForUser_HydratesOwnReviewOnly(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()
	owner := createTestUser(t, db, "owner@example.com")

	book, err := repo.CreateBook(owner, &entities.Book{Title: "Dune", Author: "Frank Herbert", TotalPages: 704}, nil)
	require.NoError(t, err)

	review := entities.Review{BookID: book.ID, UserID: owner, Content: "Spice must flow."}
	require.NoError(t, db.Create(&review).Error)

	books, err := repo.GetBooksForUser(owner, "")
	require.NoError(t, err)
	require.Len(t, books, 1)
	require.NotNil(t, books[0].Review)
	assert.Equal(t, "Spice must flow.", books[0].Review.Content)
}

func TestRepository_UpdateProgress_StartsReading(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()
	userID := createTestUser(t, db, "reader@example.com")

	book, err := repo.CreateBook(userID, &entities.Book{Title: "Dune", Author: "Frank Herbert", TotalPages: 300}, nil)
	require.NoError(t, err)

	updated, err := repo.UpdateProgress(book.ID, userID, 150)
	require.NoError(t, err)
	assert.Equal(t, 150, updated.CurrentPage)
	assert.Equal(t, entities.StatusReading, updated.Status)
	require.NotNil(t, updated.StartDate)
	assert.WithinDuration(t, time.Now(), *updated.StartDate, 5*time.Second)
	assert.Nil(t, updated.FinishDate)
}

func TestRepository_UpdateProgress_MidwayKeepsStatus(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()
	userID := createTestUser(t, db, "reader@example.com")

	book, err := repo.CreateBook(userID, &entities.Book{
		Title: "Brave New World", Author: "Aldous Huxley", TotalPages: 288,
		CurrentPage: 50, Status: entities.StatusAbandoned,
	}, nil)
	require.NoError(t, err)

	updated, err := repo.UpdateProgress(book.ID, userID, 100)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusAbandoned, updated.Status)
	assert.Nil(t, updated.StartDate)
}

func TestRepository_UpdateProgress_Completes(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()
	userID := createTestUser(t, db, "reader@example.com")

	book, err := repo.CreateBook(userID, &entities.Book{Title: "Dune", Author: "Frank Herbert", TotalPages: 300}, nil)
	require.NoError(t, err)

	updated, err := repo.UpdateProgress(book.ID, userID, 300)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusCompleted, updated.Status)
	require.NotNil(t, updated.FinishDate)
	// Start date is backfilled when the book was never started
	require.NotNil(t, updated.StartDate)
}

func TestRepository_UpdateProgress_CompletesKeepsStartDate(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()
	userID := createTestUser(t, db, "reader@example.com")

	book, err := repo.CreateBook(userID, &entities.Book{Title: "Dune", Author: "Frank Herbert", TotalPages: 300}, nil)
	require.NoError(t, err)

	started, err := repo.UpdateProgress(book.ID, userID, 100)
	require.NoError(t, err)
	require.NotNil(t, started.StartDate)
	originalStart := *started.StartDate

	completed, err := repo.UpdateProgress(book.ID, userID, 300)
	require.NoError(t, err)
	require.NotNil(t, completed.StartDate)
	assert.WithinDuration(t, originalStart, *completed.StartDate, time.Second)
}

func TestRepository_UpdateProgress_ResetToZero(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()
	userID := createTestUser(t, db, "reader@example.com")

	book, err := repo.CreateBook(userID, &entities.Book{Title: "Dune", Author: "Frank Herbert", TotalPages: 300}, nil)
	require.NoError(t, err)

	_, err = repo.UpdateProgress(book.ID, userID, 150)
	require.NoError(t, err)

	reset, err := repo.UpdateProgress(book.ID, userID, 0)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusToRead, reset.Status)
	assert.Equal(t, 0, reset.CurrentPage)
	assert.Nil(t, reset.StartDate)
}

func TestRepository_UpdateProgress_ExceedsTotal(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()
	userID := createTestUser(t, db, "reader@example.com")

	book, err := repo.CreateBook(userID, &entities.Book{Title: "Dune", Author: "Frank Herbert", TotalPages: 300}, nil)
	require.NoError(t, err)

	_, err = repo.UpdateProgress(book.ID, userID, 300)
	require.NoError(t, err)

	_, err = repo.UpdateProgress(book.ID, userID, 301)
	assert.ErrorIs(t, err, ErrPageExceedsTotal)

	// The rejected update leaves the book untouched
	unchanged, err := repo.GetBookByID(book.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, 300, unchanged.CurrentPage)
	assert.Equal(t, entities.StatusCompleted, unchanged.Status)
}

func TestRepository_UpdateProgress_OtherUser(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()
	owner := createTestUser(t, db, "owner@example.com")
	other := createTestUser(t, db, "other@example.com")

	book, err := repo.CreateBook(owner, &entities.Book{Title: "Dune", Author: "Frank Herbert", TotalPages: 300}, nil)
	require.NoError(t, err)

	_, err = repo.UpdateProgress(book.ID, other, 100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_UpdateBook_DoesNotDeriveStatus(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()
	userID := createTestUser(t, db, "reader@example.com")

	book, err := repo.CreateBook(userID, &entities.Book{Title: "Dune", Author: "Frank Herbert", TotalPages: 300}, nil)
	require.NoError(t, err)

	// Writing the last page through the general update path must not
	// complete the book; only the progress path derives status.
	updated, err := repo.UpdateBook(book.ID, userID, map[string]any{"current_page": 300}, nil, false)
	require.NoError(t, err)
	assert.Equal(t, 300, updated.CurrentPage)
	assert.Equal(t, entities.StatusToRead, updated.Status)
	assert.Nil(t, updated.FinishDate)
}

func TestRepository_UpdateBook_ReplaceCategories(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()
	userID := createTestUser(t, db, "reader@example.com")
	fantasy := createTestCategory(t, db, "Fantasy")
	fiction := createTestCategory(t, db, "Fiction")
	mystery := createTestCategory(t, db, "Mystery")

	book, err := repo.CreateBook(userID, &entities.Book{Title: "The Hobbit", Author: "J.R.R. Tolkien", TotalPages: 304}, []uint{fantasy, fiction})
	require.NoError(t, err)
	require.Len(t, book.Categories, 2)

	replaced, err := repo.UpdateBook(book.ID, userID, nil, []uint{mystery}, true)
	require.NoError(t, err)
	require.Len(t, replaced.Categories, 1)
	assert.Equal(t, "Mystery", replaced.Categories[0].Name)
}

func TestRepository_UpdateBook_EmptyCategoryListClearsAll(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()
	userID := createTestUser(t, db, "reader@example.com")
	fantasy := createTestCategory(t, db, "Fantasy")
	fiction := createTestCategory(t, db, "Fiction")

	book, err := repo.CreateBook(userID, &entities.Book{Title: "The Hobbit", Author: "J.R.R. Tolkien", TotalPages: 304}, []uint{fantasy, fiction})
	require.NoError(t, err)

	cleared, err := repo.UpdateBook(book.ID, userID, nil, []uint{}, true)
	require.NoError(t, err)
	assert.Empty(t, cleared.Categories)
}

func TestRepository_UpdateBook_OtherUser(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()
	owner := createTestUser(t, db, "owner@example.com")
	other := createTestUser(t, db, "other@example.com")

	book, err := repo.CreateBook(owner, &entities.Book{Title: "Dune", Author: "Frank Herbert", TotalPages: 300}, nil)
	require.NoError(t, err)

	_, err = repo.UpdateBook(book.ID, other, map[string]any{"title": "Stolen"}, nil, false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_DeleteBook(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()
	userID := createTestUser(t, db, "reader@example.com")
	fantasy := createTestCategory(t, db, "Fantasy")

	book, err := repo.CreateBook(userID, &entities.Book{Title: "The Hobbit", Author: "J.R.R. Tolkien", TotalPages: 304}, []uint{fantasy})
	require.NoError(t, err)

	review := entities.Review{BookID: book.ID, UserID: userID, Content: "Great."}
	require.NoError(t, db.Create(&review).Error)

	require.NoError(t, repo.DeleteBook(book.ID, userID))

	_, err = repo.GetBookByID(book.ID, userID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Category links and reviews cascade with the book
	var linkCount int64
	require.NoError(t, db.Table("book_categories").Where("book_id = ?", book.ID).Count(&linkCount).Error)
	assert.Zero(t, linkCount)

	var reviewCount int64
	require.NoError(t, db.Model(&entities.Review{}).Where("book_id = ?", book.ID).Count(&reviewCount).Error)
	assert.Zero(t, reviewCount)
}

func TestRepository_DeleteBook_OtherUser(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()
	owner := createTestUser(t, db, "owner@example.com")
	other := createTestUser(t, db, "other@example.com")

	book, err := repo.CreateBook(owner, &entities.Book{Title: "Dune", Author: "Frank Herbert", TotalPages: 300}, nil)
	require.NoError(t, err)

	err = repo.DeleteBook(book.ID, other)
	assert.ErrorIs(t, err, ErrNotFound)

	// Still reachable by the owner
	_, err = repo.GetBookByID(book.ID, owner)
	assert.NoError(t, err)
}
