package service

import (
	"context"
	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/pkg/database"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fixture 一套基于内存 SQLite 的服务实例
type fixture struct {
	db          *gorm.DB
	cfg         *config.Config
	users       *repository.UserRepository
	courses     *repository.CourseRepository
	modules     *repository.ModuleRepository
	enrollments *repository.EnrollmentRepository
	articles    *repository.ArticleRepository

	auth       *AuthService
	user       *UserService
	course     *CourseService
	module     *ModuleService
	enrollment *EnrollmentService
	grading    *GradingService
	gradebook  *GradebookService
	article    *ArticleService
	reconcile  *ReconcileService
}

var fixedNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := database.NewTestDB(t)
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireTime = time.Hour
	cfg.Enrollment.DefaultMaxStudents = 30

	f := &fixture{
		db:          db,
		cfg:         cfg,
		users:       repository.NewUserRepository(db),
		courses:     repository.NewCourseRepository(db),
		modules:     repository.NewModuleRepository(db),
		enrollments: repository.NewEnrollmentRepository(db),
		articles:    repository.NewArticleRepository(db),
	}
	cache := NewCourseCache(nil, 0)

	f.auth = NewAuthService(f.users, cfg)
	f.user = NewUserService(f.users, f.enrollments, db)
	f.course = NewCourseService(f.courses, f.modules, f.enrollments, cache, db, cfg)
	f.module = NewModuleService(f.modules, f.courses, f.enrollments, cache, db)
	f.enrollment = NewEnrollmentService(f.enrollments, f.courses, f.modules, f.users, db)
	f.enrollment.now = func() time.Time { return fixedNow }
	f.grading = NewGradingService(f.enrollments, f.courses, f.modules, db, cfg)
	f.grading.now = func() time.Time { return fixedNow }
	f.gradebook = NewGradebookService(f.enrollments, f.courses, f.modules, db)
	f.article = NewArticleService(f.articles, db)
	f.reconcile = NewReconcileService(f.enrollments, db)
	return f
}

func (f *fixture) createUser(t *testing.T, name string, role model.UserRole) *model.User {
	t.Helper()
	u := &model.User{Name: name, Email: name + "@example.com", Password: "x", Role: role}
	require.NoError(t, f.users.Create(u))
	return u
}

func (f *fixture) createCourse(t *testing.T, instructor *model.User, maxStudents int) *model.Course {
	t.Helper()
	c := &model.Course{
		Title:        "Distributed Systems",
		InstructorID: instructor.ID,
		MaxStudents:  maxStudents,
		Published:    true,
	}
	require.NoError(t, f.courses.Create(c))
	return c
}

func (f *fixture) createQuiz(t *testing.T, courseID uint, answers ...string) *model.Module {
	t.Helper()
	m := &model.Module{CourseID: courseID, Title: "Quiz", Type: model.ModuleQuiz}
	for i, a := range answers {
		m.Questions = append(m.Questions, model.QuizQuestion{
			Question:      "Q" + string(rune('1'+i)),
			Options:       []string{"A", "B", "C", "D"},
			CorrectAnswer: a,
		})
	}
	require.NoError(t, f.modules.Create(m))
	return m
}

func (f *fixture) createAssignment(t *testing.T, courseID uint) *model.Module {
	t.Helper()
	m := &model.Module{CourseID: courseID, Title: "Essay", Type: model.ModuleAssignment}
	require.NoError(t, f.modules.Create(m))
	return m
}

func (f *fixture) enroll(t *testing.T, userID, courseID uint) *model.Enrollment {
	t.Helper()
	e, err := f.enrollment.Enroll(context.Background(), userID, courseID)
	require.NoError(t, err)
	return e
}

func teacherActor(u *model.User) Actor {
	return Actor{UserID: u.ID, Role: model.Teacher}
}

func intPtr(v int) *int { return &v }
