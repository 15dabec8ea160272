package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EnrollmentController struct {
	EnrollmentService *service.EnrollmentService
}

func NewEnrollmentController(enrollmentService *service.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{EnrollmentService: enrollmentService}
}

// Enroll godoc
// @Summary 报名课程
// @Tags 报名
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 201 {object} util.Response{data=model.Enrollment}
// @Failure 404 {object} util.Response "课程或用户不存在"
// @Failure 409 {object} util.Response "重复报名或名额已满"
// @Router /api/courses/{id}/enroll [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	courseID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	e, err := c.EnrollmentService.Enroll(ctx.Request.Context(), actor.UserID, courseID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, e)
}

// ListMine godoc
// @Summary 我的报名
// @Tags 报名
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Enrollment}
// @Router /api/enrollments [get]
func (c *EnrollmentController) ListMine(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	list, err := c.EnrollmentService.ListMine(ctx.Request.Context(), actor.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// Get godoc
// @Summary 报名详情
// @Tags 报名
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "报名ID"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/enrollments/{id} [get]
func (c *EnrollmentController) Get(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	e, err := c.EnrollmentService.Get(ctx.Request.Context(), id, actor)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, e)
}

// Unenroll godoc
// @Summary 取消报名
// @Tags 报名
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "报名ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/enrollments/{id} [delete]
func (c *EnrollmentController) Unenroll(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.EnrollmentService.Unenroll(ctx.Request.Context(), id, actor); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id})
}

// CompleteModule godoc
// @Summary 标记模块已完成
// @Tags 报名
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "报名ID"
// @Param   moduleId path int true "模块ID"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Router /api/enrollments/{id}/modules/{moduleId}/complete [post]
func (c *EnrollmentController) CompleteModule(ctx *gin.Context) {
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
	e, err := c.EnrollmentService.CompleteModule(ctx.Request.Context(), id, moduleID, actor.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, e)
}

// Roster godoc
// @Summary 课程报名名单
// @Tags 课程管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.Enrollment}
// @Router /api/teacher/courses/{id}/enrollments [get]
func (c *EnrollmentController) Roster(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	list, err := c.EnrollmentService.Roster(ctx.Request.Context(), id, actor)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, list)
}
