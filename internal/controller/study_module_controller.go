package controller

import (
	"errors"
	"strconv"
	"time"

	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/internal/model"
	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/internal/service"
	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/internal/util"

	"github.com/gin-gonic/gin"
)

// StudyModuleController is the teacher-side surface: authoring, publishing
// and assigning study modules.
type StudyModuleController struct {
	ModuleService *service.StudyModuleService
}

func NewStudyModuleController(moduleService *service.StudyModuleService) *StudyModuleController {
	return &StudyModuleController{ModuleService: moduleService}
}

func parseIDParam(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func pageParams(ctx *gin.Context) (int, int) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

func moduleError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrModuleNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrModulePublished),
		errors.Is(err, util.ErrModuleNotPublished),
		errors.Is(err, util.ErrInvalidModuleShape):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// @Summary Create a study module
// @Tags study-modules
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CreateModuleRequest true "module with lessons and steps"
// @Success 201 {object} util.Response
// @Router /api/study-modules [post]
func (c *StudyModuleController) Create(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	m, err := c.ModuleService.Create(user.UserID, req)
	if err != nil {
		moduleError(ctx, err)
		return
	}
	util.Created(ctx, m)
}

// @Summary Update a draft module
// @Tags study-modules
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "module id"
// @Param body body service.CreateModuleRequest true "replacement definition"
// @Success 200 {object} util.Response
// @Router /api/study-modules/{id} [put]
func (c *StudyModuleController) Update(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req service.CreateModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	m, err := c.ModuleService.Update(user.UserID, id, req)
	if err != nil {
		moduleError(ctx, err)
		return
	}
	util.Success(ctx, m)
}

type publishRequest struct {
	PublishAt *time.Time `json:"publishAt"`
}

// @Summary Publish a module, now or on a schedule
// @Tags study-modules
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "module id"
// @Success 200 {object} util.Response
// @Router /api/study-modules/{id}/publish [post]
func (c *StudyModuleController) Publish(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req publishRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		util.BadRequest(ctx, err.Error())
		return
	}

	m, err := c.ModuleService.Publish(user.UserID, id, req.PublishAt)
	if err != nil {
		moduleError(ctx, err)
		return
	}
	util.Success(ctx, m)
}

// @Summary List own modules
// @Tags study-modules
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/study-modules [get]
func (c *StudyModuleController) ListMine(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	page, limit := pageParams(ctx)

	modules, total, err := c.ModuleService.ListMine(user.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: modules, Total: total, Page: page, Limit: limit})
}

// @Summary Get a module definition with answer keys
// @Tags study-modules
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "module id"
// @Success 200 {object} util.Response
// @Router /api/study-modules/{id} [get]
func (c *StudyModuleController) Get(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	m, err := c.ModuleService.GetDefinition(id)
	if err != nil {
		moduleError(ctx, err)
		return
	}
	if m.CreatedByID != user.UserID && user.Role != model.Admin {
		util.Forbidden(ctx)
		return
	}
	util.Success(ctx, m)
}

type assignRequest struct {
	StudentIDs []uint     `json:"studentIds" binding:"required"`
	DueDate    *time.Time `json:"dueDate"`
}

// @Summary Assign a published module to students
// @Tags study-modules
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "module id"
// @Param body body assignRequest true "student ids and optional due date"
// @Success 200 {object} util.Response
// @Router /api/study-modules/{id}/assign [post]
func (c *StudyModuleController) Assign(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req assignRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ModuleService.Assign(user.UserID, id, req.StudentIDs, req.DueDate); err != nil {
		moduleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"assigned": len(req.StudentIDs)})
}
