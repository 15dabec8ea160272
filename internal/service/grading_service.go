package service

import (
	"context"
	"errors"
	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"
	"lms_backend/pkg/monitoring"
	"lms_backend/pkg/tracing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	MinGrade = 0
	MaxGrade = 100
)

// 提交列表筛选
const (
	FilterAll      = "all"
	FilterGraded   = "graded"
	FilterUngraded = "ungraded"
)

type GradingService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	CourseRepo     *repository.CourseRepository
	ModuleRepo     *repository.ModuleRepository
	DB             *gorm.DB
	Cfg            *config.Config
	now            func() time.Time
}

func NewGradingService(
	enrollmentRepo *repository.EnrollmentRepository,
	courseRepo *repository.CourseRepository,
	moduleRepo *repository.ModuleRepository,
	db *gorm.DB,
	cfg *config.Config,
) *GradingService {
	return &GradingService{
		EnrollmentRepo: enrollmentRepo,
		CourseRepo:     courseRepo,
		ModuleRepo:     moduleRepo,
		DB:             db,
		Cfg:            cfg,
		now:            time.Now,
	}
}

// QuizSubmitRequest 题目下标 -> 所选答案
type QuizSubmitRequest struct {
	Answers map[int]string `json:"answers" validate:"required"`
}

type QuizResult struct {
	Score      int         `json:"score"`
	Total      int         `json:"total"`
	Percentage int         `json:"percentage"`
	FinalGrade *int        `json:"finalGrade"`
	Updated    bool        `json:"updated"`
	Grade      model.Grade `json:"grade"`
}

type AssignmentSubmitRequest struct {
	ModuleID uint     `json:"moduleId" validate:"required"`
	Type     string   `json:"type" validate:"required,oneof=TEXT FILE TEXT_AND_FILE"`
	Content  string   `json:"content" validate:"max=20000"`
	Files    []string `json:"files" validate:"max=10,dive,required,max=512"`
}

type GradeSubmissionRequest struct {
	Grade    *int   `json:"grade" validate:"required"`
	Feedback string `json:"feedback" validate:"max=2000"`
}

// SubmissionView 教师端提交列表条目
type SubmissionView struct {
	EnrollmentID uint             `json:"enrollmentId"`
	Index        int              `json:"index"`
	Student      *model.User      `json:"student,omitempty"`
	Submission   model.Submission `json:"submission"`
}

type GradesView struct {
	EnrollmentID uint          `json:"enrollmentId"`
	Grades       []model.Grade `json:"grades"`
	FinalGrade   *int          `json:"finalGrade"`
}

// ScoreQuiz 按下标逐题精确比对（区分大小写），未作答视为错误
func ScoreQuiz(questions []model.QuizQuestion, answers map[int]string) int {
	score := 0
	for i, q := range questions {
		if a, ok := answers[i]; ok && a == q.CorrectAnswer {
			score++
		}
	}
	return score
}

func (s *GradingService) loadOwned(ctx context.Context, enrollmentID, userID uint) (*model.Enrollment, error) {
	e, err := s.EnrollmentRepo.WithTx(s.DB.WithContext(ctx)).FindByID(enrollmentID)
	if err != nil {
		return nil, notFound(err, util.ErrEnrollmentNotFound)
	}
	if e.UserID != userID {
		return nil, util.ErrOwnershipMismatch
	}
	return e, nil
}

// SubmitQuiz 为测验评分并写入成绩列表；重复提交原地更新同一条成绩
func (s *GradingService) SubmitQuiz(ctx context.Context, userID, enrollmentID, moduleID uint, req QuizSubmitRequest) (*QuizResult, error) {
	ctx, span := tracing.Start(ctx, "GradingService.SubmitQuiz")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("enrollment.id", int64(enrollmentID)),
		attribute.Int64("module.id", int64(moduleID)),
	)

	if err := util.Validate(req); err != nil {
		return nil, err
	}

	e, err := s.loadOwned(ctx, enrollmentID, userID)
	if err != nil {
		return nil, err
	}

	module, err := s.ModuleRepo.WithTx(s.DB.WithContext(ctx)).FindByID(moduleID)
	if err != nil {
		return nil, notFound(err, util.ErrQuizNotFound)
	}
	if !module.IsQuiz() || module.CourseID != e.CourseID {
		return nil, util.ErrQuizNotFound
	}
	total := len(module.Questions)
	if total == 0 {
		return nil, util.ErrEmptyQuiz
	}

	score := ScoreQuiz(module.Questions, req.Answers)
	grade := model.Grade{
		ItemType:   model.ItemQuiz,
		ItemID:     module.ID,
		Title:      module.Title,
		Score:      score,
		MaxScore:   total,
		Percentage: model.Percentage(score, total),
		GradedAt:   s.now(),
	}
	updated := e.UpsertGrade(grade)

	if err := s.EnrollmentRepo.WithTx(s.DB.WithContext(ctx)).Save(e); err != nil {
		return nil, err
	}

	monitoring.QuizSubmissions.Inc()
	logger.Log.Info("quiz scored",
		zap.Uint("enrollmentId", e.ID),
		zap.Uint("moduleId", module.ID),
		zap.Int("score", score),
		zap.Int("total", total),
		zap.Bool("updated", updated),
	)

	return &QuizResult{
		Score:      score,
		Total:      total,
		Percentage: grade.Percentage,
		FinalGrade: e.FinalGrade,
		Updated:    updated,
		Grade:      grade,
	}, nil
}

// SubmitAssignment 追加一条未评分的作业提交，返回其在提交列表中的位置
func (s *GradingService) SubmitAssignment(ctx context.Context, userID, enrollmentID uint, req AssignmentSubmitRequest) (int, *model.Submission, error) {
	ctx, span := tracing.Start(ctx, "GradingService.SubmitAssignment")
	defer span.End()

	verr := &util.ValidationError{}
	if err := util.Validate(req); err != nil {
		if !errors.As(err, &verr) {
			return 0, nil, err
		}
	}
	switch model.SubmissionType(req.Type) {
	case model.SubmissionText:
		if req.Content == "" {
			verr.Add("content", "is required")
		}
	case model.SubmissionFile:
		if len(req.Files) == 0 {
			verr.Add("files", "is required")
		}
	case model.SubmissionTextAndFile:
		if req.Content == "" {
			verr.Add("content", "is required")
		}
		if len(req.Files) == 0 {
			verr.Add("files", "is required")
		}
	}
	if err := verr.OrNil(); err != nil {
		return 0, nil, err
	}

	e, err := s.loadOwned(ctx, enrollmentID, userID)
	if err != nil {
		return 0, nil, err
	}

	module, err := s.ModuleRepo.WithTx(s.DB.WithContext(ctx)).FindByID(req.ModuleID)
	if err != nil {
		return 0, nil, notFound(err, util.ErrModuleNotFound)
	}
	if module.CourseID != e.CourseID {
		return 0, nil, util.ErrModuleNotFound
	}
	if module.Type != model.ModuleAssignment {
		return 0, nil, util.ErrNotAssignment
	}

	index := e.AddSubmission(model.Submission{
		ModuleID:    module.ID,
		Type:        model.SubmissionType(req.Type),
		Content:     req.Content,
		Files:       req.Files,
		SubmittedAt: s.now(),
	})
	if err := s.EnrollmentRepo.WithTx(s.DB.WithContext(ctx)).Save(e); err != nil {
		return 0, nil, err
	}

	monitoring.AssignmentSubmissions.Inc()
	logger.Log.Info("assignment submitted",
		zap.Uint("enrollmentId", e.ID),
		zap.Uint("moduleId", module.ID),
		zap.Int("index", index),
	)
	return index, &e.Submissions[index], nil
}

// GradeSubmission 教师为指定位置的提交打分（0-100，含边界）
func (s *GradingService) GradeSubmission(ctx context.Context, actor Actor, enrollmentID uint, index int, req GradeSubmissionRequest) (*model.Submission, error) {
	ctx, span := tracing.Start(ctx, "GradingService.GradeSubmission")
	defer span.End()

	if err := util.Validate(req); err != nil {
		monitoring.SubmissionsGraded.WithLabelValues("invalid").Inc()
		return nil, err
	}
	if *req.Grade < MinGrade || *req.Grade > MaxGrade {
		monitoring.SubmissionsGraded.WithLabelValues("invalid").Inc()
		return nil, util.ErrInvalidGrade
	}

	repo := s.EnrollmentRepo.WithTx(s.DB.WithContext(ctx))
	e, err := repo.FindByID(enrollmentID)
	if err != nil {
		return nil, notFound(err, util.ErrEnrollmentNotFound)
	}
	course, err := s.CourseRepo.WithTx(s.DB.WithContext(ctx)).FindByID(e.CourseID)
	if err != nil {
		return nil, notFound(err, util.ErrCourseNotFound)
	}
	if !actor.CanManageCourse(course) {
		return nil, util.ErrPermissionDenied
	}

	sub, ok := e.SubmissionAt(index)
	if !ok {
		return nil, util.ErrSubmissionNotFound
	}

	now := s.now()
	grade := *req.Grade
	sub.Grade = &grade
	sub.Feedback = req.Feedback
	sub.GradedAt = &now
	sub.GradedBy = actor.UserID

	if s.Cfg != nil && s.Cfg.Grading.IncludeAssignmentsInFinal {
		title := ""
		m, err := s.ModuleRepo.WithTx(s.DB.WithContext(ctx)).FindByID(sub.ModuleID)
		switch {
		case err == nil:
			title = m.Title
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}
		e.UpsertGrade(model.Grade{
			ItemType:   model.ItemAssignment,
			ItemID:     sub.ModuleID,
			Title:      title,
			Score:      grade,
			MaxScore:   MaxGrade,
			Percentage: model.Percentage(grade, MaxGrade),
			GradedAt:   now,
			Feedback:   req.Feedback,
		})
	}

	if err := repo.Save(e); err != nil {
		return nil, err
	}

	monitoring.SubmissionsGraded.WithLabelValues("ok").Inc()
	logger.Log.Info("submission graded",
		zap.Uint("enrollmentId", e.ID),
		zap.Int("index", index),
		zap.Int("grade", grade),
		zap.Uint("gradedBy", actor.UserID),
	)
	return sub, nil
}

// GetGrades 学生本人、课程讲师或管理员可查看
func (s *GradingService) GetGrades(ctx context.Context, actor Actor, enrollmentID uint) (*GradesView, error) {
	e, err := s.EnrollmentRepo.WithTx(s.DB.WithContext(ctx)).FindByIDWithCourse(enrollmentID)
	if err != nil {
		return nil, notFound(err, util.ErrEnrollmentNotFound)
	}
	if e.UserID != actor.UserID && !(e.Course != nil && actor.CanManageCourse(e.Course)) && !actor.IsAdmin() {
		return nil, util.ErrOwnershipMismatch
	}
	grades := []model.Grade(e.Grades)
	if grades == nil {
		grades = []model.Grade{}
	}
	return &GradesView{EnrollmentID: e.ID, Grades: grades, FinalGrade: e.FinalGrade}, nil
}

// ListSubmissions 列出课程下的作业提交，status 为 graded / ungraded / all
func (s *GradingService) ListSubmissions(ctx context.Context, actor Actor, courseID uint, status string) ([]SubmissionView, error) {
	if status == "" {
		status = FilterAll
	}
	if status != FilterAll && status != FilterGraded && status != FilterUngraded {
		verr := &util.ValidationError{}
		verr.Add("status", "must be one of [graded ungraded all]")
		return nil, verr
	}

	course, err := s.CourseRepo.WithTx(s.DB.WithContext(ctx)).FindByID(courseID)
	if err != nil {
		return nil, notFound(err, util.ErrCourseNotFound)
	}
	if !actor.CanManageCourse(course) {
		return nil, util.ErrPermissionDenied
	}

	enrollments, err := s.EnrollmentRepo.WithTx(s.DB.WithContext(ctx)).ListByCourse(courseID)
	if err != nil {
		return nil, err
	}

	views := make([]SubmissionView, 0)
	for _, e := range enrollments {
		for i, sub := range e.Submissions {
			if status == FilterGraded && !sub.IsGraded() {
				continue
			}
			if status == FilterUngraded && sub.IsGraded() {
				continue
			}
			views = append(views, SubmissionView{
				EnrollmentID: e.ID,
				Index:        i,
				Student:      e.User,
				Submission:   sub,
			})
		}
	}
	return views, nil
}
