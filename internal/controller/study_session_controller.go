package controller

import (
	"errors"

	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/internal/progression"
	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/internal/service"
	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/internal/util"

	"github.com/gin-gonic/gin"
)

// StudySessionController is the student-side surface: working through an
// assigned module step by step.
type StudySessionController struct {
	SessionService *service.StudySessionService
	ModuleService  *service.StudyModuleService
}

func NewStudySessionController(sessionService *service.StudySessionService, moduleService *service.StudyModuleService) *StudySessionController {
	return &StudySessionController{SessionService: sessionService, ModuleService: moduleService}
}

func sessionError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrModuleNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrNotAssigned):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrModuleNotPublished):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// @Summary List modules assigned to the current student
// @Tags study-sessions
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/study/assigned [get]
func (c *StudySessionController) Assigned(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	modules, err := c.SessionService.AssignedModules(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, modules)
}

// @Summary Browse published modules
// @Tags study-sessions
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/catalog [get]
func (c *StudySessionController) Catalog(ctx *gin.Context) {
	page, limit := pageParams(ctx)
	subject := ctx.Query("subject")

	modules, total, err := c.ModuleService.ListPublished(subject, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: modules, Total: total, Page: page, Limit: limit})
}

// @Summary Start or resume a study session
// @Tags study-sessions
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "module id"
// @Success 200 {object} util.Response
// @Router /api/study/{id}/start [post]
func (c *StudySessionController) Start(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	view, err := c.SessionService.Start(user.UserID, id)
	if err != nil {
		sessionError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary Submit an answer for the active step
// @Tags study-sessions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "module id"
// @Param body body progression.Submission true "answer payload"
// @Success 200 {object} util.Response
// @Router /api/study/{id}/submit [post]
func (c *StudySessionController) Submit(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var sub progression.Submission
	if err := ctx.ShouldBindJSON(&sub); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.SessionService.SubmitAnswer(user.UserID, id, sub)
	if err != nil {
		sessionError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary Restart the current lesson from its first step
// @Tags study-sessions
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "module id"
// @Success 200 {object} util.Response
// @Router /api/study/{id}/restart-lesson [post]
func (c *StudySessionController) RestartLesson(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	view, err := c.SessionService.RestartLesson(user.UserID, id)
	if err != nil {
		sessionError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary Lesson lock states for a module
// @Tags study-sessions
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "module id"
// @Success 200 {object} util.Response
// @Router /api/study/{id}/lessons [get]
func (c *StudySessionController) LessonStates(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	states, err := c.SessionService.LessonStates(user.UserID, id)
	if err != nil {
		sessionError(ctx, err)
		return
	}
	util.Success(ctx, states)
}
