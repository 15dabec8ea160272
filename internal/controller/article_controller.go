package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ArticleController struct {
	ArticleService *service.ArticleService
}

func NewArticleController(articleService *service.ArticleService) *ArticleController {
	return &ArticleController{ArticleService: articleService}
}

// ListArticles godoc
// @Summary 已发布文章
// @Tags 文章
// @Produce  json
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页条数" default(20)
// @Success 200 {object} util.Response{data=service.ArticleList}
// @Router /api/articles [get]
func (c *ArticleController) ListArticles(ctx *gin.Context) {
	page, limit := util.Pagination(ctx)
	list, err := c.ArticleService.ListPublished(ctx.Request.Context(), page, limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// GetArticle godoc
// @Summary 文章详情
// @Tags 文章
// @Produce  json
// @Param   slug path string true "文章 slug"
// @Success 200 {object} util.Response{data=model.Article}
// @Failure 404 {object} util.Response
// @Router /api/articles/{slug} [get]
func (c *ArticleController) GetArticle(ctx *gin.Context) {
	a, err := c.ArticleService.GetPublished(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, a)
}

// ListMyArticles godoc
// @Summary 我的文章（含草稿）
// @Tags 文章
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.ArticleList}
// @Router /api/teacher/articles [get]
func (c *ArticleController) ListMyArticles(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	page, limit := util.Pagination(ctx)
	list, err := c.ArticleService.ListMine(ctx.Request.Context(), actor, page, limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// CreateArticle godoc
// @Summary 发表文章
// @Description slug 为空时由标题生成
// @Tags 文章
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.ArticleRequest true "文章"
// @Success 201 {object} util.Response{data=model.Article}
// @Router /api/teacher/articles [post]
func (c *ArticleController) CreateArticle(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req service.ArticleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	a, err := c.ArticleService.Create(ctx.Request.Context(), actor, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, a)
}

// UpdateArticle godoc
// @Summary 更新文章
// @Tags 文章
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "文章ID"
// @Param   body body service.ArticleRequest true "文章"
// @Success 200 {object} util.Response{data=model.Article}
// @Router /api/teacher/articles/{id} [put]
func (c *ArticleController) UpdateArticle(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.ArticleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	a, err := c.ArticleService.Update(ctx.Request.Context(), actor, id, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, a)
}

// DeleteArticle godoc
// @Summary 删除文章
// @Tags 文章
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "文章ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/articles/{id} [delete]
func (c *ArticleController) DeleteArticle(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.ArticleService.Delete(ctx.Request.Context(), actor, id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id})
}
