package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
	ModuleService *service.ModuleService
}

func NewCourseController(courseService *service.CourseService, moduleService *service.ModuleService) *CourseController {
	return &CourseController{
		CourseService: courseService,
		ModuleService: moduleService,
	}
}

// ListCourses godoc
// @Summary 已发布课程列表
// @Tags 课程
// @Produce  json
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页条数" default(20)
// @Param   category query string false "分类"
// @Param   level query string false "难度 beginner/intermediate/advanced"
// @Param   search query string false "关键词"
// @Success 200 {object} util.Response{data=service.CourseList}
// @Router /api/courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	page, limit := util.Pagination(ctx)
	list, err := c.CourseService.List(ctx.Request.Context(), service.CourseListQuery{
		Category: ctx.Query("category"),
		Level:    ctx.Query("level"),
		Keyword:  ctx.Query("search"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// GetCourse godoc
// @Summary 课程详情
// @Description 包含按顺序排列的模块，测验不返回正确答案
// @Tags 课程
// @Produce  json
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 404 {object} util.Response
// @Router /api/courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	course, err := c.CourseService.Get(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// ListMyCourses godoc
// @Summary 教师自己的课程
// @Tags 课程管理
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.CourseList}
// @Router /api/teacher/courses [get]
func (c *CourseController) ListMyCourses(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	page, limit := util.Pagination(ctx)
	list, err := c.CourseService.ListManaged(ctx.Request.Context(), actor, page, limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// GetManagedCourse godoc
// @Summary 教师查看课程完整内容
// @Tags 课程管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=model.Course}
// @Router /api/teacher/courses/{id} [get]
func (c *CourseController) GetManagedCourse(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	course, err := c.CourseService.GetManaged(ctx.Request.Context(), actor, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// CreateCourse godoc
// @Summary 创建课程
// @Tags 课程管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.CourseRequest true "课程信息"
// @Success 201 {object} util.Response{data=model.Course}
// @Failure 400 {object} util.Response
// @Router /api/teacher/courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req service.CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	course, err := c.CourseService.Create(ctx.Request.Context(), actor, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// UpdateCourse godoc
// @Summary 更新课程
// @Tags 课程管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Param   body body service.CourseRequest true "课程信息"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 403 {object} util.Response
// @Router /api/teacher/courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	course, err := c.CourseService.Update(ctx.Request.Context(), actor, id, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// DeleteCourse godoc
// @Summary 删除课程
// @Description 同一事务中删除课程的模块和报名记录
// @Tags 课程管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.CourseService.Delete(ctx.Request.Context(), actor, id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id})
}

// ListModules godoc
// @Summary 课程模块列表（含答案）
// @Tags 课程管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.Module}
// @Router /api/teacher/courses/{id}/modules [get]
func (c *CourseController) ListModules(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	modules, err := c.ModuleService.ListManaged(ctx.Request.Context(), actor, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, modules)
}

// CreateModule godoc
// @Summary 新增模块
// @Description 测验至少一道题；未指定顺序时追加到末尾
// @Tags 课程管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Param   body body service.ModuleRequest true "模块"
// @Success 201 {object} util.Response{data=model.Module}
// @Router /api/teacher/courses/{id}/modules [post]
func (c *CourseController) CreateModule(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.ModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	module, err := c.ModuleService.Create(ctx.Request.Context(), actor, id, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, module)
}

// UpdateModule godoc
// @Summary 更新模块
// @Tags 课程管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "模块ID"
// @Param   body body service.ModuleRequest true "模块"
// @Success 200 {object} util.Response{data=model.Module}
// @Router /api/teacher/modules/{id} [put]
func (c *CourseController) UpdateModule(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.ModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	module, err := c.ModuleService.Update(ctx.Request.Context(), actor, id, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, module)
}

// DeleteModule godoc
// @Summary 删除模块
// @Tags 课程管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "模块ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/modules/{id} [delete]
func (c *CourseController) DeleteModule(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.ModuleService.Delete(ctx.Request.Context(), actor, id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id})
}

// GetModule godoc
// @Summary 学习模块内容
// @Description 课程教师与管理员可见完整内容，已报名学生看到的测验不含正确答案
// @Tags 学习
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "模块ID"
// @Success 200 {object} util.Response{data=model.Module}
// @Failure 403 {object} util.Response
// @Router /api/modules/{id} [get]
// @Router /api/teacher/modules/{id} [get]
func (c *CourseController) GetModule(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	module, err := c.ModuleService.Get(ctx.Request.Context(), actor, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, module)
}
