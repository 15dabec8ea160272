package util

import "errors"

var (
	ErrNotFound           = errors.New("NotFound")
	ErrUserNotFound       = errors.New("UserNotFound")
	ErrCourseNotFound     = errors.New("CourseNotFound")
	ErrModuleNotFound     = errors.New("ModuleNotFound")
	ErrArticleNotFound    = errors.New("ArticleNotFound")
	ErrEnrollmentNotFound = errors.New("EnrollmentNotFound")
	ErrSubmissionNotFound = errors.New("SubmissionNotFound")
	ErrQuizNotFound       = errors.New("QuizNotFound")

	ErrAlreadyEnrolled = errors.New("AlreadyEnrolled")
	ErrCourseFull      = errors.New("CourseFull")
	ErrEmailRegistered = errors.New("该邮箱已被注册")
	ErrSlugTaken       = errors.New("slug already in use")

	ErrOwnershipMismatch  = errors.New("OwnershipMismatch")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")

	ErrInvalidGrade  = errors.New("InvalidGrade")
	ErrEmptyQuiz     = errors.New("quiz has no questions")
	ErrNotAssignment = errors.New("module is not an assignment")

	ErrFileTooLarge    = errors.New("文件大小超过限制")
	ErrInvalidFileType = errors.New("非法的文件类型")
)
