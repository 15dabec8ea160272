package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// UserController 管理员的学生管理接口
type UserController struct {
	UserService       *service.UserService
	EnrollmentService *service.EnrollmentService
	ReconcileService  *service.ReconcileService
}

func NewUserController(userService *service.UserService, enrollmentService *service.EnrollmentService, reconcileService *service.ReconcileService) *UserController {
	return &UserController{
		UserService:       userService,
		EnrollmentService: enrollmentService,
		ReconcileService:  reconcileService,
	}
}

// ListStudents godoc
// @Summary 学生列表
// @Tags 管理
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页条数" default(20)
// @Param   search query string false "姓名或邮箱关键词"
// @Success 200 {object} util.Response{data=service.StudentList}
// @Router /api/admin/students [get]
func (c *UserController) ListStudents(ctx *gin.Context) {
	page, limit := util.Pagination(ctx)
	list, err := c.UserService.ListStudents(ctx.Request.Context(), ctx.Query("search"), page, limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// GetStudent godoc
// @Summary 学生详情（含报名记录）
// @Tags 管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "学生ID"
// @Success 200 {object} util.Response{data=service.StudentDetail}
// @Failure 404 {object} util.Response
// @Router /api/admin/students/{id} [get]
func (c *UserController) GetStudent(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	detail, err := c.UserService.GetStudent(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// DeleteStudent godoc
// @Summary 删除学生及其全部报名记录
// @Tags 管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "学生ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/students/{id} [delete]
func (c *UserController) DeleteStudent(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.UserService.DeleteStudent(ctx.Request.Context(), id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id})
}

// UpdatePayment godoc
// @Summary 修改报名支付状态
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "报名ID"
// @Param   body body service.PaymentUpdateRequest true "支付状态"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Router /api/admin/enrollments/{id}/payment [patch]
func (c *UserController) UpdatePayment(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.PaymentUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	e, err := c.EnrollmentService.UpdatePayment(ctx.Request.Context(), id, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, e)
}

// Reconcile godoc
// @Summary 手动清理悬挂的报名记录
// @Tags 管理
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.ReconcileResult}
// @Router /api/admin/maintenance/reconcile [post]
func (c *UserController) Reconcile(ctx *gin.Context) {
	res, err := c.ReconcileService.Run(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, res)
}
