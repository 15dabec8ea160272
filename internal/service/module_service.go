package service

import (
	"context"
	"errors"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ModuleService struct {
	ModuleRepo     *repository.ModuleRepository
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Cache          *CourseCache
	DB             *gorm.DB
}

func NewModuleService(
	moduleRepo *repository.ModuleRepository,
	courseRepo *repository.CourseRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	cache *CourseCache,
	db *gorm.DB,
) *ModuleService {
	return &ModuleService{
		ModuleRepo:     moduleRepo,
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		Cache:          cache,
		DB:             db,
	}
}

type QuizQuestionRequest struct {
	Question      string   `json:"question" validate:"required,max=2000"`
	Options       []string `json:"options" validate:"max=20"`
	CorrectAnswer string   `json:"correctAnswer" validate:"required,max=1000"`
}

type ModuleRequest struct {
	Title       string                `json:"title" validate:"required,max=255"`
	Description string                `json:"description" validate:"max=10000"`
	Type        string                `json:"type" validate:"required,oneof=TEXT PDF QUIZ ASSIGNMENT"`
	Order       *int                  `json:"order" validate:"omitempty,min=0"`
	Content     string                `json:"content"`
	FileURL     string                `json:"fileUrl" validate:"max=512"`
	Questions   []QuizQuestionRequest `json:"questions" validate:"dive"`
	DueDate     *time.Time            `json:"dueDate"`
}

// validate 字段校验之外，测验至少需要一道题，PDF 需要文件地址
func (r ModuleRequest) validate() error {
	verr := &util.ValidationError{}
	if err := util.Validate(r); err != nil {
		if !errors.As(err, &verr) {
			return err
		}
	}
	switch model.ModuleType(r.Type) {
	case model.ModuleQuiz:
		if len(r.Questions) == 0 {
			verr.Add("questions", "at least one question is required")
		}
	case model.ModulePDF:
		if r.FileURL == "" {
			verr.Add("fileUrl", "is required")
		}
	}
	return verr.OrNil()
}

func (r ModuleRequest) apply(m *model.Module) {
	m.Title = r.Title
	m.Description = r.Description
	m.Type = model.ModuleType(r.Type)
	m.Content = r.Content
	m.FileURL = r.FileURL
	m.DueDate = r.DueDate
	if r.Order != nil {
		m.Order = *r.Order
	}

	m.Questions = nil
	if m.Type == model.ModuleQuiz {
		qs := make(datatypes.JSONSlice[model.QuizQuestion], len(r.Questions))
		for i, q := range r.Questions {
			qs[i] = model.QuizQuestion{Question: q.Question, Options: q.Options, CorrectAnswer: q.CorrectAnswer}
		}
		m.Questions = qs
	}
}

func (s *ModuleService) managedCourse(db *gorm.DB, actor Actor, courseID uint) (*model.Course, error) {
	course, err := s.CourseRepo.WithTx(db).FindByID(courseID)
	if err != nil {
		return nil, notFound(err, util.ErrCourseNotFound)
	}
	if !actor.CanManageCourse(course) {
		return nil, util.ErrPermissionDenied
	}
	return course, nil
}

// Create 未指定顺序时追加到课程末尾
func (s *ModuleService) Create(ctx context.Context, actor Actor, courseID uint, req ModuleRequest) (*model.Module, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx)
	if _, err := s.managedCourse(db, actor, courseID); err != nil {
		return nil, err
	}

	m := &model.Module{CourseID: courseID}
	req.apply(m)
	if req.Order == nil {
		last, err := s.ModuleRepo.WithTx(db).MaxOrder(courseID)
		if err != nil {
			return nil, err
		}
		m.Order = last + 1
	}

	if err := s.ModuleRepo.WithTx(db).Create(m); err != nil {
		return nil, err
	}
	s.Cache.Invalidate(ctx, courseID)
	return m, nil
}

func (s *ModuleService) Update(ctx context.Context, actor Actor, id uint, req ModuleRequest) (*model.Module, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx)
	m, err := s.ModuleRepo.WithTx(db).FindByID(id)
	if err != nil {
		return nil, notFound(err, util.ErrModuleNotFound)
	}
	if _, err := s.managedCourse(db, actor, m.CourseID); err != nil {
		return nil, err
	}

	req.apply(m)
	if err := s.ModuleRepo.WithTx(db).Update(m); err != nil {
		return nil, err
	}
	s.Cache.Invalidate(ctx, m.CourseID)
	return m, nil
}

func (s *ModuleService) Delete(ctx context.Context, actor Actor, id uint) error {
	db := s.DB.WithContext(ctx)
	m, err := s.ModuleRepo.WithTx(db).FindByID(id)
	if err != nil {
		return notFound(err, util.ErrModuleNotFound)
	}
	if _, err := s.managedCourse(db, actor, m.CourseID); err != nil {
		return err
	}
	if err := s.ModuleRepo.WithTx(db).Delete(id); err != nil {
		return err
	}
	s.Cache.Invalidate(ctx, m.CourseID)
	return nil
}

// ListManaged 讲师视角的模块列表，包含测验答案
func (s *ModuleService) ListManaged(ctx context.Context, actor Actor, courseID uint) ([]model.Module, error) {
	db := s.DB.WithContext(ctx)
	if _, err := s.managedCourse(db, actor, courseID); err != nil {
		return nil, err
	}
	return s.ModuleRepo.WithTx(db).ListByCourse(courseID)
}

// Get 已报名学生查看模块时隐藏正确答案，讲师与管理员可见完整内容
func (s *ModuleService) Get(ctx context.Context, actor Actor, id uint) (*model.Module, error) {
	db := s.DB.WithContext(ctx)
	m, err := s.ModuleRepo.WithTx(db).FindByID(id)
	if err != nil {
		return nil, notFound(err, util.ErrModuleNotFound)
	}

	course, err := s.CourseRepo.WithTx(db).FindByID(m.CourseID)
	if err != nil {
		return nil, notFound(err, util.ErrCourseNotFound)
	}
	if actor.CanManageCourse(course) {
		return m, nil
	}

	if _, err := s.EnrollmentRepo.WithTx(db).FindByUserAndCourse(actor.UserID, m.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPermissionDenied
		}
		return nil, err
	}
	view := m.WithoutAnswers()
	return &view, nil
}
