package util

import (
	"errors"
	"lms_backend/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PageResponse 分页响应结构
type PageResponse struct {
	List  interface{} `json:"list"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Resource not found")
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error",
		zap.String("path", c.FullPath()),
		zap.String("method", c.Request.Method),
		zap.Error(err),
	)
	InternalServerError(c)
}

// ValidationFailed 返回 400，字段错误列表放在 data 中
func ValidationFailed(c *gin.Context, verr *ValidationError) {
	c.JSON(http.StatusBadRequest, Response{
		Code:    http.StatusBadRequest,
		Message: verr.Error(),
		Data:    verr.Fields,
	})
}

// HandleError 将业务错误映射为 HTTP 状态码，未识别的错误记录日志并返回 500
func HandleError(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		ValidationFailed(c, verr)
	case errors.Is(err, ErrInvalidGrade),
		errors.Is(err, ErrEmptyQuiz),
		errors.Is(err, ErrNotAssignment),
		errors.Is(err, ErrInvalidFileType):
		BadRequest(c, err.Error())
	case errors.Is(err, ErrFileTooLarge):
		Error(c, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrCourseNotFound),
		errors.Is(err, ErrModuleNotFound),
		errors.Is(err, ErrArticleNotFound),
		errors.Is(err, ErrEnrollmentNotFound),
		errors.Is(err, ErrSubmissionNotFound),
		errors.Is(err, ErrQuizNotFound):
		Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrAlreadyEnrolled),
		errors.Is(err, ErrCourseFull),
		errors.Is(err, ErrEmailRegistered),
		errors.Is(err, ErrSlugTaken):
		Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrOwnershipMismatch),
		errors.Is(err, ErrPermissionDenied):
		Error(c, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		Error(c, http.StatusUnauthorized, err.Error())
	default:
		LogInternalError(c, err)
	}
}
