package service

import (
	"errors"
	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

// Actor 发起请求的用户
type Actor struct {
	UserID uint
	Role   model.UserRole
}

func ActorFromClaims(c *util.Claims) Actor {
	return Actor{UserID: c.UserID, Role: c.Role}
}

func (a Actor) IsAdmin() bool {
	return a.Role == model.Admin
}

// CanManageCourse 课程讲师本人或管理员
func (a Actor) CanManageCourse(course *model.Course) bool {
	return a.IsAdmin() || (a.Role == model.Teacher && course.InstructorID == a.UserID)
}

// notFound 将 gorm 的记录不存在转换为业务错误
func notFound(err error, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}
