package service

import (
	"context"
	"errors"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"
	"lms_backend/pkg/monitoring"
	"lms_backend/pkg/tracing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type EnrollmentService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	CourseRepo     *repository.CourseRepository
	ModuleRepo     *repository.ModuleRepository
	UserRepo       *repository.UserRepository
	DB             *gorm.DB
	now            func() time.Time
}

func NewEnrollmentService(
	enrollmentRepo *repository.EnrollmentRepository,
	courseRepo *repository.CourseRepository,
	moduleRepo *repository.ModuleRepository,
	userRepo *repository.UserRepository,
	db *gorm.DB,
) *EnrollmentService {
	return &EnrollmentService{
		EnrollmentRepo: enrollmentRepo,
		CourseRepo:     courseRepo,
		ModuleRepo:     moduleRepo,
		UserRepo:       userRepo,
		DB:             db,
		now:            time.Now,
	}
}

type PaymentUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING PAID FREE FAILED"`
}

// Enroll 为用户报名课程。课程行在事务内加锁，名额检查与写入在同一事务中完成；
// (user_id, course_id) 唯一索引兜底重复报名。
func (s *EnrollmentService) Enroll(ctx context.Context, userID, courseID uint) (*model.Enrollment, error) {
	ctx, span := tracing.Start(ctx, "EnrollmentService.Enroll")
	defer span.End()

	var created *model.Enrollment
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.UserRepo.WithTx(tx)
		courses := s.CourseRepo.WithTx(tx)
		enrollments := s.EnrollmentRepo.WithTx(tx)

		exists, err := users.Exists(userID)
		if err != nil {
			return err
		}
		if !exists {
			return util.ErrNotFound
		}

		course, err := courses.FindByIDForUpdate(courseID)
		if err != nil {
			return notFound(err, util.ErrNotFound)
		}
		if !course.Published {
			return util.ErrNotFound
		}

		if _, err := enrollments.FindByUserAndCourse(userID, courseID); err == nil {
			return util.ErrAlreadyEnrolled
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		count, err := enrollments.CountByCourse(courseID)
		if err != nil {
			return err
		}
		if count >= int64(course.MaxStudents) {
			return util.ErrCourseFull
		}

		payment := model.PaymentPending
		if course.IsFree() {
			payment = model.PaymentFree
		}

		e := &model.Enrollment{
			UserID:        userID,
			CourseID:      courseID,
			PaymentStatus: payment,
			EnrolledAt:    s.now(),
			Progress:      0,
		}
		if err := enrollments.Create(e); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return util.ErrAlreadyEnrolled
			}
			return err
		}
		created = e
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, util.ErrAlreadyEnrolled):
			monitoring.EnrollmentsRejected.WithLabelValues("already_enrolled").Inc()
		case errors.Is(err, util.ErrCourseFull):
			monitoring.EnrollmentsRejected.WithLabelValues("course_full").Inc()
		case errors.Is(err, util.ErrNotFound):
			monitoring.EnrollmentsRejected.WithLabelValues("not_found").Inc()
		}
		return nil, err
	}

	monitoring.EnrollmentsCreated.Inc()
	logger.Log.Info("enrollment created",
		zap.Uint("enrollmentId", created.ID),
		zap.Uint("userId", userID),
		zap.Uint("courseId", courseID),
	)
	return created, nil
}

// loadOwned 读取报名记录并校验归属
func (s *EnrollmentService) loadOwned(db *gorm.DB, id, userID uint) (*model.Enrollment, error) {
	e, err := s.EnrollmentRepo.WithTx(db).FindByID(id)
	if err != nil {
		return nil, notFound(err, util.ErrEnrollmentNotFound)
	}
	if e.UserID != userID {
		return nil, util.ErrOwnershipMismatch
	}
	return e, nil
}

func (s *EnrollmentService) Get(ctx context.Context, id uint, actor Actor) (*model.Enrollment, error) {
	e, err := s.EnrollmentRepo.WithTx(s.DB.WithContext(ctx)).FindByIDWithCourse(id)
	if err != nil {
		return nil, notFound(err, util.ErrEnrollmentNotFound)
	}
	if e.UserID == actor.UserID || actor.IsAdmin() {
		return e, nil
	}
	if e.Course != nil && actor.CanManageCourse(e.Course) {
		return e, nil
	}
	return nil, util.ErrOwnershipMismatch
}

func (s *EnrollmentService) ListMine(ctx context.Context, userID uint) ([]model.Enrollment, error) {
	return s.EnrollmentRepo.WithTx(s.DB.WithContext(ctx)).ListByUser(userID)
}

// Roster 课程的全部报名记录
func (s *EnrollmentService) Roster(ctx context.Context, courseID uint, actor Actor) ([]model.Enrollment, error) {
	db := s.DB.WithContext(ctx)
	course, err := s.CourseRepo.WithTx(db).FindByID(courseID)
	if err != nil {
		return nil, notFound(err, util.ErrCourseNotFound)
	}
	if !actor.CanManageCourse(course) {
		return nil, util.ErrPermissionDenied
	}
	return s.EnrollmentRepo.WithTx(db).ListByCourse(courseID)
}

// Unenroll 学生本人或管理员可取消报名
func (s *EnrollmentService) Unenroll(ctx context.Context, id uint, actor Actor) error {
	ctx, span := tracing.Start(ctx, "EnrollmentService.Unenroll")
	defer span.End()

	repo := s.EnrollmentRepo.WithTx(s.DB.WithContext(ctx))
	e, err := repo.FindByID(id)
	if err != nil {
		return notFound(err, util.ErrEnrollmentNotFound)
	}
	if e.UserID != actor.UserID && !actor.IsAdmin() {
		return util.ErrOwnershipMismatch
	}
	if _, err := repo.Delete(id); err != nil {
		return err
	}
	logger.Log.Info("enrollment removed", zap.Uint("enrollmentId", id), zap.Uint("by", actor.UserID))
	return nil
}

// CompleteModule 记录模块完成并更新进度
func (s *EnrollmentService) CompleteModule(ctx context.Context, enrollmentID, moduleID, userID uint) (*model.Enrollment, error) {
	ctx, span := tracing.Start(ctx, "EnrollmentService.CompleteModule")
	defer span.End()

	e, err := s.loadOwned(s.DB.WithContext(ctx), enrollmentID, userID)
	if err != nil {
		return nil, err
	}

	modules := s.ModuleRepo.WithTx(s.DB.WithContext(ctx))
	module, err := modules.FindByID(moduleID)
	if err != nil {
		return nil, notFound(err, util.ErrModuleNotFound)
	}
	if module.CourseID != e.CourseID {
		return nil, util.ErrModuleNotFound
	}

	total, err := modules.CountByCourse(e.CourseID)
	if err != nil {
		return nil, err
	}

	e.MarkModuleCompleted(moduleID, int(total), s.now())
	if err := s.EnrollmentRepo.WithTx(s.DB.WithContext(ctx)).Save(e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *EnrollmentService) UpdatePayment(ctx context.Context, id uint, req PaymentUpdateRequest) (*model.Enrollment, error) {
	if err := util.Validate(req); err != nil {
		return nil, err
	}
	repo := s.EnrollmentRepo.WithTx(s.DB.WithContext(ctx))
	e, err := repo.FindByID(id)
	if err != nil {
		return nil, notFound(err, util.ErrEnrollmentNotFound)
	}
	e.PaymentStatus = model.PaymentStatus(req.Status)
	if err := repo.Save(e); err != nil {
		return nil, err
	}
	return e, nil
}
