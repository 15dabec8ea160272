package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentage(t *testing.T) {
	tests := []struct {
		score, total, want int
	}{
		{3, 4, 75},
		{0, 4, 0},
		{4, 4, 100},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13}, // 12.5 进位
		{1, 0, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Percentage(tt.score, tt.total), "%d/%d", tt.score, tt.total)
	}
}

func TestUpsertGrade_UpdatesInPlace(t *testing.T) {
	e := &Enrollment{}

	updated := e.UpsertGrade(Grade{ItemType: ItemQuiz, ItemID: 7, Percentage: 50})
	assert.False(t, updated)

	updated = e.UpsertGrade(Grade{ItemType: ItemQuiz, ItemID: 7, Percentage: 100})
	assert.True(t, updated)

	require.Len(t, e.Grades, 1)
	assert.Equal(t, 100, e.Grades[0].Percentage)
	require.NotNil(t, e.FinalGrade)
	assert.Equal(t, 100, *e.FinalGrade)
}

func TestUpsertGrade_SameItemIDDifferentType(t *testing.T) {
	e := &Enrollment{}
	e.UpsertGrade(Grade{ItemType: ItemQuiz, ItemID: 7, Percentage: 60})
	e.UpsertGrade(Grade{ItemType: ItemAssignment, ItemID: 7, Percentage: 90})

	assert.Len(t, e.Grades, 2)
	g, ok := e.FindGrade(ItemAssignment, 7)
	require.True(t, ok)
	assert.Equal(t, 90, g.Percentage)
}

func TestRecomputeFinalGrade(t *testing.T) {
	e := &Enrollment{}
	for i, p := range []int{80, 90, 70} {
		e.UpsertGrade(Grade{ItemType: ItemQuiz, ItemID: uint(i + 1), Percentage: p})
	}
	require.NotNil(t, e.FinalGrade)
	assert.Equal(t, 80, *e.FinalGrade)

	// (75 + 80) / 2 = 77.5 -> 78
	e2 := &Enrollment{}
	e2.UpsertGrade(Grade{ItemType: ItemQuiz, ItemID: 1, Percentage: 75})
	e2.UpsertGrade(Grade{ItemType: ItemQuiz, ItemID: 2, Percentage: 80})
	assert.Equal(t, 78, *e2.FinalGrade)

	e3 := &Enrollment{}
	e3.RecomputeFinalGrade()
	assert.Nil(t, e3.FinalGrade)
}

func TestSubmissionAt(t *testing.T) {
	e := &Enrollment{}
	idx := e.AddSubmission(Submission{ModuleID: 3, Type: SubmissionText, Content: "hi"})
	assert.Equal(t, 0, idx)

	s, ok := e.SubmissionAt(0)
	require.True(t, ok)
	assert.False(t, s.IsGraded())

	_, ok = e.SubmissionAt(1)
	assert.False(t, ok)
	_, ok = e.SubmissionAt(-1)
	assert.False(t, ok)
}

func TestMarkModuleCompleted(t *testing.T) {
	now := time.Now()
	e := &Enrollment{}

	e.MarkModuleCompleted(1, 3, now)
	assert.Equal(t, 33, e.Progress)
	assert.False(t, e.Completed)

	// 重复完成不计数
	e.MarkModuleCompleted(1, 3, now)
	assert.Equal(t, 33, e.Progress)
	assert.Len(t, e.CompletedModules, 1)

	e.MarkModuleCompleted(2, 3, now)
	e.MarkModuleCompleted(3, 3, now)
	assert.Equal(t, 100, e.Progress)
	assert.True(t, e.Completed)
	require.NotNil(t, e.CompletedAt)
}

func TestModuleWithoutAnswers(t *testing.T) {
	m := Module{Type: ModuleQuiz}
	m.Questions = append(m.Questions, QuizQuestion{Question: "2+2", Options: []string{"3", "4"}, CorrectAnswer: "4"})

	hidden := m.WithoutAnswers()
	assert.Empty(t, hidden.Questions[0].CorrectAnswer)
	assert.Equal(t, "4", m.Questions[0].CorrectAnswer)
}
