package http

import (
	"time"

	"github.com/gin-gonic/gin"
)

// GoalsController serves yearly reading goals.
type GoalsController struct {
	goals GoalStore
}

// NewGoalsController creates the goals controller.
func NewGoalsController(store GoalStore) *GoalsController {
	return &GoalsController{goals: store}
}

type goalRequest struct {
	Year        *int `json:"year"`
	TargetBooks *int `json:"targetBooks"`
}

// ListGoals returns all of the caller's goals, newest year first, with
// progress recomputed from completed books.
func (controller *GoalsController) ListGoals(c *gin.Context) {
	goals, err := controller.goals.GetGoalsForUser(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "list goals")
		return
	}
	respondData(c, goals)
}

// UpsertGoal sets the caller's target for a year, creating the goal when
// none exists. Omitting the year targets the current year.
func (controller *GoalsController) UpsertGoal(c *gin.Context) {
	var req goalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	year := time.Now().Year()
	if req.Year != nil {
		year = *req.Year
	}
	if year < 1970 || year > 9999 {
		respondBadRequest(c, "Invalid year")
		return
	}
	if req.TargetBooks == nil || *req.TargetBooks < 1 {
		respondBadRequest(c, "Target books must be at least 1")
		return
	}

	goal, err := controller.goals.UpsertGoal(GetUserID(c), year, *req.TargetBooks)
	if err != nil {
		respondInternalError(c, err, "upsert goal")
		return
	}
	respondData(c, goal)
}
