package http

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booktracker/internal/database/books"
	"github.com/mrlokans/booktracker/internal/entities"
)

// BooksController serves the CRUD and progress endpoints for books.
type BooksController struct {
	books   BookStore
	auditor Auditor
}

// NewBooksController creates the books controller.
func NewBooksController(store BookStore, auditor Auditor) *BooksController {
	return &BooksController{
		books:   store,
		auditor: auditor,
	}
}

type createBookRequest struct {
	Title       string                 `json:"title"`
	Author      string                 `json:"author"`
	ISBN        string                 `json:"isbn"`
	TotalPages  int                    `json:"totalPages"`
	CurrentPage *int                   `json:"currentPage"`
	Status      entities.ReadingStatus `json:"status"`
	Rating      *int                   `json:"rating"`
	CoverImage  string                 `json:"coverImage"`
	CategoryIDs []uint                 `json:"categoryIds"`
}

type updateBookRequest struct {
	Title       *string                 `json:"title"`
	Author      *string                 `json:"author"`
	ISBN        *string                 `json:"isbn"`
	TotalPages  *int                    `json:"totalPages"`
	CurrentPage *int                    `json:"currentPage"`
	Status      *entities.ReadingStatus `json:"status"`
	Rating      *int                    `json:"rating"`
	CoverImage  *string                 `json:"coverImage"`
	CategoryIDs *[]uint                 `json:"categoryIds"`
}

type progressRequest struct {
	CurrentPage *int `json:"currentPage"`
}

// ListBooks returns all of the caller's books, optionally filtered by
// status, hydrated with categories and the caller's review.
func (controller *BooksController) ListBooks(c *gin.Context) {
	status := entities.ReadingStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		respondBadRequest(c, "Invalid status")
		return
	}

	result, err := controller.books.GetBooksForUser(GetUserID(c), status)
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	respondData(c, result)
}

// CreateBook adds a book to the caller's library.
func (controller *BooksController) CreateBook(c *gin.Context) {
	var req createBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	if req.Title == "" {
		respondBadRequest(c, "Title is required")
		return
	}
	if req.Author == "" {
		respondBadRequest(c, "Author is required")
		return
	}
	if req.TotalPages < 1 {
		respondBadRequest(c, "Total pages must be at least 1")
		return
	}
	if req.CurrentPage != nil && *req.CurrentPage < 0 {
		respondBadRequest(c, "Current page must be 0 or greater")
		return
	}
	if req.Status != "" && !req.Status.Valid() {
		respondBadRequest(c, "Invalid status")
		return
	}
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		respondBadRequest(c, "Rating must be between 1 and 5")
		return
	}

	book := &entities.Book{
		Title:      req.Title,
		Author:     req.Author,
		ISBN:       req.ISBN,
		TotalPages: req.TotalPages,
		Status:     req.Status,
		Rating:     req.Rating,
		CoverImage: req.CoverImage,
	}
	if req.CurrentPage != nil {
		book.CurrentPage = *req.CurrentPage
	}

	created, err := controller.books.CreateBook(GetUserID(c), book, req.CategoryIDs)
	if err != nil {
		respondInternalError(c, err, "create book")
		return
	}
	respondCreated(c, created)
}

// GetBook returns one of the caller's books.
func (controller *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Invalid book ID")
	if !ok {
		return
	}

	book, err := controller.books.GetBookByID(id, GetUserID(c))
	if err != nil {
		if errors.Is(err, books.ErrNotFound) {
			respondNotFound(c, "Book not found")
			return
		}
		respondInternalError(c, err, "get book")
		return
	}
	respondData(c, book)
}

// UpdateBook applies a partial update. Provided fields are written as-is;
// this path does not derive the status from page progress. When
// categoryIds is present, even empty, the full category set is replaced.
func (controller *BooksController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Invalid book ID")
	if !ok {
		return
	}

	var req updateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	updates := map[string]any{}
	if req.Title != nil {
		if *req.Title == "" {
			respondBadRequest(c, "Title is required")
			return
		}
		updates["title"] = *req.Title
	}
	if req.Author != nil {
		if *req.Author == "" {
			respondBadRequest(c, "Author is required")
			return
		}
		updates["author"] = *req.Author
	}
	if req.ISBN != nil {
		updates["isbn"] = *req.ISBN
	}
	if req.TotalPages != nil {
		if *req.TotalPages < 1 {
			respondBadRequest(c, "Total pages must be at least 1")
			return
		}
		updates["total_pages"] = *req.TotalPages
	}
	if req.CurrentPage != nil {
		if *req.CurrentPage < 0 {
			respondBadRequest(c, "Current page must be 0 or greater")
			return
		}
		updates["current_page"] = *req.CurrentPage
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			respondBadRequest(c, "Invalid status")
			return
		}
		updates["status"] = *req.Status
	}
	if req.Rating != nil {
		if *req.Rating < 1 || *req.Rating > 5 {
			respondBadRequest(c, "Rating must be between 1 and 5")
			return
		}
		updates["rating"] = *req.Rating
	}
	if req.CoverImage != nil {
		updates["cover_image"] = *req.CoverImage
	}

	var categoryIDs []uint
	replaceCategories := req.CategoryIDs != nil
	if replaceCategories {
		categoryIDs = *req.CategoryIDs
	}

	book, err := controller.books.UpdateBook(id, GetUserID(c), updates, categoryIDs, replaceCategories)
	if err != nil {
		if errors.Is(err, books.ErrNotFound) {
			respondNotFound(c, "Book not found")
			return
		}
		respondInternalError(c, err, "update book")
		return
	}
	respondData(c, book)
}

// UpdateProgress sets the current page and applies the status derivation:
// 0 resets to to_read, reaching the last page completes the book.
func (controller *BooksController) UpdateProgress(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Invalid book ID")
	if !ok {
		return
	}

	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}
	if req.CurrentPage == nil || *req.CurrentPage < 0 {
		respondBadRequest(c, "Current page must be 0 or greater")
		return
	}

	book, err := controller.books.UpdateProgress(id, GetUserID(c), *req.CurrentPage)
	if err != nil {
		switch {
		case errors.Is(err, books.ErrNotFound):
			respondNotFound(c, "Book not found")
		case errors.Is(err, books.ErrPageExceedsTotal):
			respondBadRequest(c, "Current page cannot exceed total pages")
		default:
			respondInternalError(c, err, "update progress")
		}
		return
	}
	respondData(c, book)
}

// DeleteBook removes one of the caller's books.
func (controller *BooksController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Invalid book ID")
	if !ok {
		return
	}

	userID := GetUserID(c)
	if err := controller.books.DeleteBook(id, userID); err != nil {
		if errors.Is(err, books.ErrNotFound) {
			respondNotFound(c, "Book not found")
			return
		}
		respondInternalError(c, err, "delete book")
		return
	}

	if controller.auditor != nil {
		event := &entities.AuditEvent{
			UserID:      userID,
			EventType:   entities.AuditEventDelete,
			Action:      "book_delete",
			Description: "book deleted",
			EntityType:  "book",
			EntityID:    &id,
			Status:      entities.AuditStatusSuccess,
		}
		if err := controller.auditor.LogEvent(event); err != nil {
			log.Printf("Failed to record audit event (book_delete): %v", err)
		}
	}

	respondMessage(c, "Book deleted")
}
