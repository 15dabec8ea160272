package service

import (
	"bytes"
	"context"
	"fmt"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/tracing"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const gradebookSheet = "Gradebook"

type GradebookService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	CourseRepo     *repository.CourseRepository
	ModuleRepo     *repository.ModuleRepository
	DB             *gorm.DB
}

func NewGradebookService(
	enrollmentRepo *repository.EnrollmentRepository,
	courseRepo *repository.CourseRepository,
	moduleRepo *repository.ModuleRepository,
	db *gorm.DB,
) *GradebookService {
	return &GradebookService{
		EnrollmentRepo: enrollmentRepo,
		CourseRepo:     courseRepo,
		ModuleRepo:     moduleRepo,
		DB:             db,
	}
}

// Export 导出课程成绩册：每个报名一行，测验按模块顺序占一列，未作答留空
func (s *GradebookService) Export(ctx context.Context, actor Actor, courseID uint) (*bytes.Buffer, string, error) {
	ctx, span := tracing.Start(ctx, "GradebookService.Export")
	defer span.End()

	db := s.DB.WithContext(ctx)
	course, err := s.CourseRepo.WithTx(db).FindByID(courseID)
	if err != nil {
		return nil, "", notFound(err, util.ErrCourseNotFound)
	}
	if !actor.CanManageCourse(course) {
		return nil, "", util.ErrPermissionDenied
	}

	quizzes, err := s.ModuleRepo.WithTx(db).ListByCourseAndType(courseID, model.ModuleQuiz)
	if err != nil {
		return nil, "", err
	}
	enrollments, err := s.EnrollmentRepo.WithTx(db).ListByCourse(courseID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", gradebookSheet); err != nil {
		return nil, "", err
	}

	header := []interface{}{"Student", "Email", "Progress", "Completed"}
	for _, q := range quizzes {
		header = append(header, q.Title)
	}
	header = append(header, "Final Grade")
	if err := f.SetSheetRow(gradebookSheet, "A1", &header); err != nil {
		return nil, "", err
	}

	for i, e := range enrollments {
		name, email := "", ""
		if e.User != nil {
			name, email = e.User.Name, e.User.Email
		}
		row := []interface{}{name, email, e.Progress, e.Completed}
		for _, q := range quizzes {
			if g, ok := e.FindGrade(model.ItemQuiz, q.ID); ok {
				row = append(row, g.Percentage)
			} else {
				row = append(row, nil)
			}
		}
		if e.FinalGrade != nil {
			row = append(row, *e.FinalGrade)
		} else {
			row = append(row, nil)
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetSheetRow(gradebookSheet, cell, &row); err != nil {
			return nil, "", err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}
	return buf, fmt.Sprintf("course-%d-gradebook.xlsx", courseID), nil
}
