package seed

import (
	"context"
	"strings"
	"testing"

	"lms_backend/internal/model"
	"lms_backend/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demo = `
users:
  - name: Tina
    email: Tina@Example.com
    password: password123
    role: teacher
  - name: Sam
    email: sam@example.com
    password: password123
    role: student
courses:
  - title: Intro to Go
    instructor: tina@example.com
    published: true
    modules:
      - title: Welcome
        type: TEXT
        content: hello
      - title: Check
        type: QUIZ
        questions:
          - question: "1+1"
            options: ["1", "2"]
            answer: "2"
`

func TestApply_Idempotent(t *testing.T) {
	db := database.NewTestDB(t)
	f, err := Parse(strings.NewReader(demo))
	require.NoError(t, err)

	res, err := Apply(context.Background(), db, f, 25)
	require.NoError(t, err)
	assert.Equal(t, &Result{UsersCreated: 2, CoursesCreated: 1, ModulesCreated: 2}, res)

	res, err = Apply(context.Background(), db, f, 25)
	require.NoError(t, err)
	assert.Equal(t, &Result{}, res)

	var course model.Course
	require.NoError(t, db.Preload("Modules").First(&course).Error)
	assert.Equal(t, 25, course.MaxStudents)
	assert.Equal(t, model.LevelBeginner, course.Level)
	require.Len(t, course.Modules, 2)

	var quiz model.Module
	require.NoError(t, db.Where("type = ?", model.ModuleQuiz).First(&quiz).Error)
	require.Len(t, quiz.Questions, 1)
	assert.Equal(t, "2", quiz.Questions[0].CorrectAnswer)
	assert.Equal(t, 1, quiz.Order)
}

func TestParse_Rejects(t *testing.T) {
	tests := map[string]string{
		"unknown role":   "users:\n  - {name: a, email: a@x.io, password: password123, role: guest}\n",
		"short password": "users:\n  - {name: a, email: a@x.io, password: short, role: student}\n",
		"empty quiz":     "courses:\n  - title: c\n    instructor: t@x.io\n    modules:\n      - {title: q, type: QUIZ}\n",
		"unknown field":  "teachers: []\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(body))
			assert.Error(t, err)
		})
	}
}

func TestApply_MissingInstructorRollsBack(t *testing.T) {
	db := database.NewTestDB(t)
	f, err := Parse(strings.NewReader(`
users:
  - {name: s, email: s@example.com, password: password123, role: student}
courses:
  - {title: orphan, instructor: nobody@example.com}
`))
	require.NoError(t, err)

	_, err = Apply(context.Background(), db, f, 10)
	assert.Error(t, err)

	var users int64
	require.NoError(t, db.Model(&model.User{}).Count(&users).Error)
	assert.Zero(t, users)
}
