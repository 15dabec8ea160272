package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type GradeController struct {
	GradingService   *service.GradingService
	GradebookService *service.GradebookService
}

func NewGradeController(gradingService *service.GradingService, gradebookService *service.GradebookService) *GradeController {
	return &GradeController{
		GradingService:   gradingService,
		GradebookService: gradebookService,
	}
}

// SubmitQuiz godoc
// @Summary 提交测验
// @Description answers 的键为题目下标（从 0 开始），答案区分大小写
// @Tags 评分
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "报名ID"
// @Param   moduleId path int true "测验模块ID"
// @Param   body body service.QuizSubmitRequest true "答案"
// @Success 200 {object} util.Response{data=service.QuizResult}
// @Failure 403 {object} util.Response "不是本人的报名"
// @Failure 404 {object} util.Response "报名或测验不存在"
// @Router /api/enrollments/{id}/quiz/{moduleId} [post]
func (c *GradeController) SubmitQuiz(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	moduleID, ok := pathID(ctx, "moduleId")
	if !ok {
		return
	}
	var req service.QuizSubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	res, err := c.GradingService.SubmitQuiz(ctx.Request.Context(), actor.UserID, id, moduleID, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// SubmitAssignment godoc
// @Summary 提交作业
// @Tags 评分
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "报名ID"
// @Param   body body service.AssignmentSubmitRequest true "作业内容"
// @Success 201 {object} util.Response{data=object}
// @Router /api/enrollments/{id}/submissions [post]
func (c *GradeController) SubmitAssignment(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.AssignmentSubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	index, sub, err := c.GradingService.SubmitAssignment(ctx.Request.Context(), actor.UserID, id, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"index": index, "submission": sub})
}

// GradeSubmission godoc
// @Summary 教师评分作业提交
// @Description index 为提交在报名记录中的位置，grade 取值 0-100
// @Tags 评分
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "报名ID"
// @Param   index path int true "提交位置"
// @Param   body body service.GradeSubmissionRequest true "分数与评语"
// @Success 200 {object} util.Response{data=model.Submission}
// @Failure 400 {object} util.Response "分数超出范围"
// @Failure 404 {object} util.Response "报名或提交不存在"
// @Router /api/teacher/enrollments/{id}/submissions/{index}/grade [post]
func (c *GradeController) GradeSubmission(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	index, err := strconv.Atoi(ctx.Param("index"))
	if err != nil {
		util.BadRequest(ctx, "invalid index")
		return
	}
	var req service.GradeSubmissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sub, err := c.GradingService.GradeSubmission(ctx.Request.Context(), actor, id, index, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, sub)
}

// GetGrades godoc
// @Summary 成绩与最终成绩
// @Tags 评分
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "报名ID"
// @Success 200 {object} util.Response{data=service.GradesView}
// @Router /api/enrollments/{id}/grades [get]
func (c *GradeController) GetGrades(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	view, err := c.GradingService.GetGrades(ctx.Request.Context(), actor, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// ListSubmissions godoc
// @Summary 课程作业提交列表
// @Tags 评分
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Param   status query string false "graded / ungraded / all" default(all)
// @Success 200 {object} util.Response{data=[]service.SubmissionView}
// @Router /api/teacher/courses/{id}/submissions [get]
func (c *GradeController) ListSubmissions(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	list, err := c.GradingService.ListSubmissions(ctx.Request.Context(), actor, id, ctx.Query("status"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// ExportGradebook godoc
// @Summary 导出成绩册
// @Tags 评分
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {file} file
// @Router /api/teacher/courses/{id}/gradebook.xlsx [get]
func (c *GradeController) ExportGradebook(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	buf, filename, err := c.GradebookService.Export(ctx.Request.Context(), actor, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	ctx.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	ctx.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
