package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UploadController struct {
	StorageService *service.StorageService
}

func NewUploadController(storageService *service.StorageService) *UploadController {
	return &UploadController{StorageService: storageService}
}

// Upload godoc
// @Summary 上传作业附件
// @Description 返回的 url 作为提交作业时 files 字段的引用
// @Tags 上传
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   file formData file true "附件"
// @Success 201 {object} util.Response{data=service.UploadResult}
// @Failure 400 {object} util.Response "文件类型不允许"
// @Failure 413 {object} util.Response "文件过大"
// @Router /api/uploads [post]
func (c *UploadController) Upload(ctx *gin.Context) {
	if _, ok := currentActor(ctx); !ok {
		return
	}
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	res, err := c.StorageService.UploadSubmissionFile(ctx.Request.Context(), file)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, res)
}
