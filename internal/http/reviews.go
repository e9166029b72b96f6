package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booktracker/internal/database/books"
	"github.com/mrlokans/booktracker/internal/database/reviews"
)

// ReviewsController serves the caller's review on their own books. Each
// user keeps at most one review per book.
type ReviewsController struct {
	reviews ReviewStore
	books   BookStore
}

// NewReviewsController creates the reviews controller.
func NewReviewsController(store ReviewStore, bookStore BookStore) *ReviewsController {
	return &ReviewsController{
		reviews: store,
		books:   bookStore,
	}
}

type reviewRequest struct {
	Content string `json:"content"`
}

// UpsertReview creates or replaces the caller's review for a book.
func (controller *ReviewsController) UpsertReview(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Invalid book ID")
	if !ok {
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}
	if req.Content == "" {
		respondBadRequest(c, "Content is required")
		return
	}

	userID := GetUserID(c)
	if _, err := controller.books.GetBookByID(id, userID); err != nil {
		if errors.Is(err, books.ErrNotFound) {
			respondNotFound(c, "Book not found")
			return
		}
		respondInternalError(c, err, "upsert review")
		return
	}

	review, err := controller.reviews.UpsertReview(id, userID, req.Content)
	if err != nil {
		respondInternalError(c, err, "upsert review")
		return
	}
	respondData(c, review)
}

// DeleteReview removes the caller's review for a book.
func (controller *ReviewsController) DeleteReview(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Invalid book ID")
	if !ok {
		return
	}

	err := controller.reviews.DeleteReview(id, GetUserID(c))
	if err != nil {
		if errors.Is(err, reviews.ErrNotFound) {
			respondNotFound(c, "Review not found")
			return
		}
		respondInternalError(c, err, "delete review")
		return
	}
	respondMessage(c, "Review deleted")
}
