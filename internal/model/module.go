package model

import (
	"time"

	"gorm.io/datatypes"
)

type ModuleType string

const (
	ModuleText       ModuleType = "TEXT"
	ModulePDF        ModuleType = "PDF"
	ModuleQuiz       ModuleType = "QUIZ"
	ModuleAssignment ModuleType = "ASSIGNMENT"
)

// QuizQuestion 测验题目，CorrectAnswer 与提交答案做精确匹配（区分大小写）
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// swagger:model Module
type Module struct {
	BaseModel
	CourseID    uint                              `gorm:"index;not null" json:"courseId"`
	Title       string                            `gorm:"size:255;not null" json:"title"`
	Description string                            `gorm:"type:text" json:"description"`
	Type        ModuleType                        `gorm:"size:20;not null" json:"type"`
	Order       int                               `gorm:"default:0" json:"order"`
	Content     string                            `gorm:"type:text" json:"content"`
	FileURL     string                            `gorm:"size:512" json:"fileUrl"`
	Questions   datatypes.JSONSlice[QuizQuestion] `json:"questions,omitempty"`
	DueDate     *time.Time                        `json:"dueDate,omitempty"`
}

func (Module) TableName() string {
	return "modules"
}

func (m *Module) IsQuiz() bool {
	return m.Type == ModuleQuiz
}

// WithoutAnswers 返回隐藏正确答案后的副本，供学生端展示
func (m Module) WithoutAnswers() Module {
	if len(m.Questions) == 0 {
		return m
	}
	qs := make(datatypes.JSONSlice[QuizQuestion], len(m.Questions))
	for i, q := range m.Questions {
		qs[i] = QuizQuestion{Question: q.Question, Options: q.Options}
	}
	m.Questions = qs
	return m
}
