package http

import (
	"github.com/gin-gonic/gin"
)

// CategoriesController serves the shared category list.
type CategoriesController struct {
	categories CategoryStore
}

// NewCategoriesController creates the categories controller.
func NewCategoriesController(store CategoryStore) *CategoriesController {
	return &CategoriesController{categories: store}
}

// ListCategories returns all categories ordered by name.
func (controller *CategoriesController) ListCategories(c *gin.Context) {
	categories, err := controller.categories.GetAllCategories()
	if err != nil {
		respondInternalError(c, err, "list categories")
		return
	}
	respondData(c, categories)
}
