package service

import (
	"context"
	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"
	"lms_backend/pkg/tracing"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CourseService struct {
	CourseRepo     *repository.CourseRepository
	ModuleRepo     *repository.ModuleRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Cache          *CourseCache
	DB             *gorm.DB
	Cfg            *config.Config
}

func NewCourseService(
	courseRepo *repository.CourseRepository,
	moduleRepo *repository.ModuleRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	cache *CourseCache,
	db *gorm.DB,
	cfg *config.Config,
) *CourseService {
	return &CourseService{
		CourseRepo:     courseRepo,
		ModuleRepo:     moduleRepo,
		EnrollmentRepo: enrollmentRepo,
		Cache:          cache,
		DB:             db,
		Cfg:            cfg,
	}
}

type CourseRequest struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description string  `json:"description" validate:"max=10000"`
	Category    string  `json:"category" validate:"max=100"`
	Level       string  `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Price       float64 `json:"price" validate:"gte=0"`
	Thumbnail   string  `json:"thumbnail" validate:"max=255"`
	MaxStudents *int    `json:"maxStudents" validate:"omitempty,min=1"`
	Published   bool    `json:"published"`
}

type CourseListQuery struct {
	Category string
	Level    string
	Keyword  string
	Page     int
	Limit    int
}

type CourseList struct {
	Items []model.Course `json:"items"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

func (s *CourseService) applyRequest(course *model.Course, req CourseRequest) {
	course.Title = req.Title
	course.Description = req.Description
	course.Category = req.Category
	course.Level = model.CourseLevel(req.Level)
	if course.Level == "" {
		course.Level = model.LevelBeginner
	}
	course.Price = req.Price
	course.Thumbnail = req.Thumbnail
	course.Published = req.Published
	if req.MaxStudents != nil {
		course.MaxStudents = *req.MaxStudents
	}
}

func (s *CourseService) Create(ctx context.Context, actor Actor, req CourseRequest) (*model.Course, error) {
	if err := util.Validate(req); err != nil {
		return nil, err
	}

	course := &model.Course{
		InstructorID: actor.UserID,
		MaxStudents:  s.Cfg.Enrollment.DefaultMaxStudents,
	}
	s.applyRequest(course, req)

	if err := s.CourseRepo.WithTx(s.DB.WithContext(ctx)).Create(course); err != nil {
		return nil, err
	}
	logger.Log.Info("course created", zap.Uint("courseId", course.ID), zap.Uint("instructorId", actor.UserID))
	return course, nil
}

// Update 仅课程讲师或管理员可修改；名额不能低于当前报名人数
func (s *CourseService) Update(ctx context.Context, actor Actor, id uint, req CourseRequest) (*model.Course, error) {
	if err := util.Validate(req); err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx)
	course, err := s.CourseRepo.WithTx(db).FindByID(id)
	if err != nil {
		return nil, notFound(err, util.ErrCourseNotFound)
	}
	if !actor.CanManageCourse(course) {
		return nil, util.ErrPermissionDenied
	}

	s.applyRequest(course, req)

	count, err := s.EnrollmentRepo.WithTx(db).CountByCourse(id)
	if err != nil {
		return nil, err
	}
	if int64(course.MaxStudents) < count {
		verr := &util.ValidationError{}
		verr.Add("maxStudents", "must not be below the current enrollment count")
		return nil, verr
	}

	if err := s.CourseRepo.WithTx(db).Update(course); err != nil {
		return nil, err
	}
	s.Cache.Invalidate(ctx, id)
	return course, nil
}

// Get 公开课程详情，优先读缓存；测验答案不对外暴露
func (s *CourseService) Get(ctx context.Context, id uint) (*model.Course, error) {
	course, ok := s.Cache.Get(ctx, id)
	if !ok {
		var err error
		course, err = s.CourseRepo.WithTx(s.DB.WithContext(ctx)).FindWithModules(id)
		if err != nil {
			return nil, notFound(err, util.ErrCourseNotFound)
		}
		s.Cache.Set(ctx, course)
	}
	if !course.Published {
		return nil, util.ErrCourseNotFound
	}

	for i := range course.Modules {
		course.Modules[i] = course.Modules[i].WithoutAnswers()
	}
	return course, nil
}

// GetManaged 讲师或管理员查看课程完整内容（含未发布和测验答案）
func (s *CourseService) GetManaged(ctx context.Context, actor Actor, id uint) (*model.Course, error) {
	course, err := s.CourseRepo.WithTx(s.DB.WithContext(ctx)).FindWithModules(id)
	if err != nil {
		return nil, notFound(err, util.ErrCourseNotFound)
	}
	if !actor.CanManageCourse(course) {
		return nil, util.ErrPermissionDenied
	}
	return course, nil
}

func (s *CourseService) List(ctx context.Context, q CourseListQuery) (*CourseList, error) {
	items, total, err := s.CourseRepo.WithTx(s.DB.WithContext(ctx)).List(repository.CourseFilter{
		Category:   q.Category,
		Level:      q.Level,
		Keyword:    q.Keyword,
		OnlyPublic: true,
	}, q.Page, q.Limit)
	if err != nil {
		return nil, err
	}
	return &CourseList{Items: items, Total: total, Page: q.Page, Limit: q.Limit}, nil
}

// ListManaged 教师自己的课程，管理员可见全部
func (s *CourseService) ListManaged(ctx context.Context, actor Actor, page, limit int) (*CourseList, error) {
	filter := repository.CourseFilter{}
	if !actor.IsAdmin() {
		filter.InstructorID = actor.UserID
	}
	items, total, err := s.CourseRepo.WithTx(s.DB.WithContext(ctx)).List(filter, page, limit)
	if err != nil {
		return nil, err
	}
	return &CourseList{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// Delete 在同一事务中依次删除模块、报名记录和课程，提交后再清理缓存
func (s *CourseService) Delete(ctx context.Context, actor Actor, id uint) error {
	ctx, span := tracing.Start(ctx, "CourseService.Delete")
	defer span.End()

	var modulesRemoved, enrollmentsRemoved int64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		courses := s.CourseRepo.WithTx(tx)
		course, err := courses.FindByID(id)
		if err != nil {
			return notFound(err, util.ErrCourseNotFound)
		}
		if !actor.CanManageCourse(course) {
			return util.ErrPermissionDenied
		}

		if modulesRemoved, err = s.ModuleRepo.WithTx(tx).DeleteByCourse(id); err != nil {
			return err
		}
		if enrollmentsRemoved, err = s.EnrollmentRepo.WithTx(tx).DeleteByCourse(id); err != nil {
			return err
		}
		affected, err := courses.Delete(id)
		if err != nil {
			return err
		}
		if affected == 0 {
			return util.ErrCourseNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.Cache.Invalidate(ctx, id)
	logger.Log.Info("course deleted",
		zap.Uint("courseId", id),
		zap.Int64("modules", modulesRemoved),
		zap.Int64("enrollments", enrollmentsRemoved),
		zap.Uint("by", actor.UserID),
	)
	return nil
}
