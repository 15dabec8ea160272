package repository

import (
	"errors"
	"lms_backend/internal/model"
	"lms_backend/pkg/database"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedUserCourse(t *testing.T, db *gorm.DB) (*model.User, *model.Course) {
	t.Helper()
	u := &model.User{Name: "Ann", Email: "ann@example.com", Password: "x", Role: model.Student}
	require.NoError(t, db.Create(u).Error)
	c := &model.Course{Title: "Go", InstructorID: 99, MaxStudents: 10}
	require.NoError(t, db.Create(c).Error)
	return u, c
}

func TestEnrollmentRepository_EmbeddedDocumentsRoundTrip(t *testing.T) {
	db := database.NewTestDB(t)
	repo := NewEnrollmentRepository(db)
	u, c := seedUserCourse(t, db)

	e := &model.Enrollment{UserID: u.ID, CourseID: c.ID, EnrolledAt: time.Now()}
	require.NoError(t, repo.Create(e))

	e.AddSubmission(model.Submission{ModuleID: 5, Type: model.SubmissionText, Content: "answer", SubmittedAt: time.Now()})
	e.UpsertGrade(model.Grade{ItemType: model.ItemQuiz, ItemID: 3, Score: 3, MaxScore: 4, Percentage: 75})
	require.NoError(t, repo.Save(e))

	got, err := repo.FindByID(e.ID)
	require.NoError(t, err)
	require.Len(t, got.Submissions, 1)
	assert.Equal(t, "answer", got.Submissions[0].Content)
	assert.Nil(t, got.Submissions[0].Grade)
	require.Len(t, got.Grades, 1)
	assert.Equal(t, 75, got.Grades[0].Percentage)
	require.NotNil(t, got.FinalGrade)
	assert.Equal(t, 75, *got.FinalGrade)
}

func TestEnrollmentRepository_UniqueUserCourse(t *testing.T) {
	db := database.NewTestDB(t)
	repo := NewEnrollmentRepository(db)
	u, c := seedUserCourse(t, db)

	require.NoError(t, repo.Create(&model.Enrollment{UserID: u.ID, CourseID: c.ID, EnrolledAt: time.Now()}))
	err := repo.Create(&model.Enrollment{UserID: u.ID, CourseID: c.ID, EnrolledAt: time.Now()})
	assert.Error(t, err)
}

func TestEnrollmentRepository_DeleteOrphans(t *testing.T) {
	db := database.NewTestDB(t)
	repo := NewEnrollmentRepository(db)
	u, c := seedUserCourse(t, db)

	keep := &model.Enrollment{UserID: u.ID, CourseID: c.ID, EnrolledAt: time.Now()}
	require.NoError(t, repo.Create(keep))
	require.NoError(t, repo.Create(&model.Enrollment{UserID: 777, CourseID: c.ID, EnrolledAt: time.Now()}))
	require.NoError(t, repo.Create(&model.Enrollment{UserID: u.ID, CourseID: 888, EnrolledAt: time.Now()}))

	n, err := repo.DeleteOrphans()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = repo.FindByID(keep.ID)
	assert.NoError(t, err)
	count, err := repo.CountByCourse(c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestModuleRepository_ListByCourseOrdered(t *testing.T) {
	db := database.NewTestDB(t)
	repo := NewModuleRepository(db)

	require.NoError(t, repo.Create(&model.Module{CourseID: 1, Title: "second", Type: model.ModuleText, Order: 2}))
	require.NoError(t, repo.Create(&model.Module{CourseID: 1, Title: "first", Type: model.ModuleText, Order: 1}))
	require.NoError(t, repo.Create(&model.Module{CourseID: 2, Title: "other", Type: model.ModuleText, Order: 0}))

	modules, err := repo.ListByCourse(1)
	require.NoError(t, err)
	require.Len(t, modules, 2)
	assert.Equal(t, "first", modules[0].Title)

	maxOrder, err := repo.MaxOrder(1)
	require.NoError(t, err)
	assert.Equal(t, 2, maxOrder)

	_, err = repo.FindByID(12345)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
