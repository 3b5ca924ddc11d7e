package controller

import (
	"strconv"

	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/internal/service"
	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// @Summary Student progress overview
// @Tags dashboard
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/dashboard/overview [get]
func (c *DashboardController) Overview(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	overview, err := c.DashboardService.Overview(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, overview)
}

// @Summary XP leaderboard
// @Tags dashboard
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "number of entries, default 10"
// @Success 200 {object} util.Response
// @Router /api/dashboard/leaderboard [get]
func (c *DashboardController) Leaderboard(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	if limit < 1 || limit > 100 {
		limit = 10
	}

	entries, err := c.DashboardService.Leaderboard(limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}

// @Summary Rebuild the XP leaderboard from persisted progress
// @Tags dashboard
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/admin/leaderboard/rebuild [post]
func (c *DashboardController) RebuildLeaderboard(ctx *gin.Context) {
	if err := c.DashboardService.RebuildLeaderboard(); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"rebuilt": true})
}
