package http

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booktracker/internal/database/stats"
)

// StatsController serves the aggregate statistics endpoint.
type StatsController struct {
	stats StatsStore
}

// NewStatsController creates the stats controller.
func NewStatsController(store StatsStore) *StatsController {
	return &StatsController{stats: store}
}

type statsResponse struct {
	Overview   *stats.Overview       `json:"overview"`
	Monthly    []stats.MonthlyBucket `json:"monthly"`
	Categories []stats.CategoryStat  `json:"categories"`
}

// GetStats computes the caller's overview, monthly completion buckets for
// the requested year (current year by default) and category breakdown.
func (controller *StatsController) GetStats(c *gin.Context) {
	year := time.Now().Year()
	if yearStr := c.Query("year"); yearStr != "" {
		parsed, err := strconv.Atoi(yearStr)
		if err != nil {
			respondBadRequest(c, "Invalid year")
			return
		}
		year = parsed
	}

	userID := GetUserID(c)

	overview, err := controller.stats.GetOverview(userID)
	if err != nil {
		respondInternalError(c, err, "stats overview")
		return
	}
	monthly, err := controller.stats.GetMonthly(userID, year)
	if err != nil {
		respondInternalError(c, err, "stats monthly")
		return
	}
	categories, err := controller.stats.GetCategoryBreakdown(userID)
	if err != nil {
		respondInternalError(c, err, "stats categories")
		return
	}

	respondData(c, statsResponse{
		Overview:   overview,
		Monthly:    monthly,
		Categories: categories,
	})
}
