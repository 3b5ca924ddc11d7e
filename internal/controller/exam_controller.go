package controller

import (
	"errors"

	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/internal/service"
	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/internal/util"

	"github.com/gin-gonic/gin"
)

type ExamController struct {
	ExamService *service.ExamService
}

func NewExamController(examService *service.ExamService) *ExamController {
	return &ExamController{ExamService: examService}
}

func examError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrExamNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied), errors.Is(err, util.ErrNotAssigned):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrExamAlreadyTaken):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrExamNotPublished):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// @Summary Create an exam
// @Tags exams
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CreateExamRequest true "exam with questions"
// @Success 201 {object} util.Response
// @Router /api/exams [post]
func (c *ExamController) Create(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exam, err := c.ExamService.Create(user.UserID, req)
	if err != nil {
		examError(ctx, err)
		return
	}
	util.Created(ctx, exam)
}

// @Summary Publish an exam
// @Tags exams
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "exam id"
// @Success 200 {object} util.Response
// @Router /api/exams/{id}/publish [post]
func (c *ExamController) Publish(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	exam, err := c.ExamService.Publish(user.UserID, id)
	if err != nil {
		examError(ctx, err)
		return
	}
	util.Success(ctx, exam)
}

// @Summary Assign an exam to students
// @Tags exams
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "exam id"
// @Param body body assignRequest true "student ids and optional due date"
// @Success 200 {object} util.Response
// @Router /api/exams/{id}/assign [post]
func (c *ExamController) Assign(ctx *gin.Context) {
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

	if err := c.ExamService.Assign(user.UserID, id, req.StudentIDs, req.DueDate); err != nil {
		examError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"assigned": len(req.StudentIDs)})
}

// @Summary List own exams
// @Tags exams
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/exams [get]
func (c *ExamController) ListMine(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	page, limit := pageParams(ctx)

	exams, total, err := c.ExamService.ListMine(user.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: exams, Total: total, Page: page, Limit: limit})
}

// @Summary Fetch an assigned exam without answer keys
// @Tags exams
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "exam id"
// @Success 200 {object} util.Response
// @Router /api/exams/{id}/take [get]
func (c *ExamController) Take(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	exam, err := c.ExamService.GetForStudent(user.UserID, id)
	if err != nil {
		examError(ctx, err)
		return
	}
	util.Success(ctx, exam)
}

// @Summary Submit exam answers for grading
// @Tags exams
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "exam id"
// @Param body body service.ExamSubmission true "answers keyed by question id"
// @Success 200 {object} util.Response
// @Router /api/exams/{id}/submit [post]
func (c *ExamController) Submit(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var sub service.ExamSubmission
	if err := ctx.ShouldBindJSON(&sub); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.ExamService.Submit(user.UserID, id, sub)
	if err != nil {
		examError(ctx, err)
		return
	}
	util.Success(ctx, attempt)
}

// @Summary List exams assigned to the current student
// @Tags exams
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/exams/assigned [get]
func (c *ExamController) Assigned(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	assignments, err := c.ExamService.AssignedExams(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, assignments)
}

// @Summary All attempts for an exam the caller owns
// @Tags exams
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "exam id"
// @Success 200 {object} util.Response
// @Router /api/exams/{id}/results [get]
func (c *ExamController) Results(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	attempts, err := c.ExamService.Results(user.UserID, id)
	if err != nil {
		examError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}

// @Summary The current student's own exam attempts
// @Tags exams
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/exams/my-results [get]
func (c *ExamController) MyResults(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	attempts, err := c.ExamService.MyResults(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}
