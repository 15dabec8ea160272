package model

import (
	"time"

	"gorm.io/datatypes"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentFree    PaymentStatus = "FREE"
	PaymentFailed  PaymentStatus = "FAILED"
)

type GradeItemType string

const (
	ItemQuiz       GradeItemType = "QUIZ"
	ItemAssignment GradeItemType = "ASSIGNMENT"
)

type SubmissionType string

const (
	SubmissionText        SubmissionType = "TEXT"
	SubmissionFile        SubmissionType = "FILE"
	SubmissionTextAndFile SubmissionType = "TEXT_AND_FILE"
)

// Submission 作业提交，嵌入在报名记录中，通过在列表中的位置寻址
type Submission struct {
	ModuleID    uint           `json:"moduleId"`
	Type        SubmissionType `json:"type"`
	Content     string         `json:"content,omitempty"`
	Files       []string       `json:"files,omitempty"`
	SubmittedAt time.Time      `json:"submittedAt"`
	Grade       *int           `json:"grade"`
	Feedback    string         `json:"feedback,omitempty"`
	GradedAt    *time.Time     `json:"gradedAt,omitempty"`
	GradedBy    uint           `json:"gradedBy,omitempty"`
}

func (s *Submission) IsGraded() bool {
	return s.Grade != nil
}

// Grade 成绩记录，同一报名内 (ItemType, ItemID) 唯一
type Grade struct {
	ItemType   GradeItemType `json:"itemType"`
	ItemID     uint          `json:"itemId"`
	Title      string        `json:"title"`
	Score      int           `json:"score"`
	MaxScore   int           `json:"maxScore"`
	Percentage int           `json:"percentage"`
	GradedAt   time.Time     `json:"gradedAt"`
	Feedback   string        `json:"feedback,omitempty"`
}

type GradeKey struct {
	ItemType GradeItemType
	ItemID   uint
}

func (g Grade) Key() GradeKey {
	return GradeKey{ItemType: g.ItemType, ItemID: g.ItemID}
}

// swagger:model Enrollment
type Enrollment struct {
	BaseModel
	UserID           uint                            `gorm:"not null;uniqueIndex:idx_enrollment_user_course" json:"userId"`
	CourseID         uint                            `gorm:"not null;uniqueIndex:idx_enrollment_user_course;index" json:"courseId"`
	User             *User                           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Course           *Course                         `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	PaymentStatus    PaymentStatus                   `gorm:"size:20;default:'PENDING'" json:"paymentStatus"`
	EnrolledAt       time.Time                       `json:"enrolledAt"`
	Completed        bool                            `gorm:"default:false" json:"completed"`
	CompletedAt      *time.Time                      `json:"completedAt,omitempty"`
	Progress         int                             `gorm:"default:0" json:"progress"`
	CompletedModules datatypes.JSONSlice[uint]       `json:"completedModules"`
	Submissions      datatypes.JSONSlice[Submission] `json:"submissions"`
	Grades           datatypes.JSONSlice[Grade]      `json:"grades"`
	FinalGrade       *int                            `json:"finalGrade"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// gradeIndex 按 (ItemType, ItemID) 建立成绩下标
func (e *Enrollment) gradeIndex() map[GradeKey]int {
	idx := make(map[GradeKey]int, len(e.Grades))
	for i, g := range e.Grades {
		idx[g.Key()] = i
	}
	return idx
}

// FindGrade 返回指定条目的成绩记录
func (e *Enrollment) FindGrade(itemType GradeItemType, itemID uint) (*Grade, bool) {
	i, ok := e.gradeIndex()[GradeKey{ItemType: itemType, ItemID: itemID}]
	if !ok {
		return nil, false
	}
	return &e.Grades[i], true
}

// UpsertGrade 已存在相同 (ItemType, ItemID) 时原地更新，否则追加；随后重算最终成绩。
// 返回 true 表示更新了已有记录。
func (e *Enrollment) UpsertGrade(g Grade) bool {
	updated := false
	if i, ok := e.gradeIndex()[g.Key()]; ok {
		e.Grades[i] = g
		updated = true
	} else {
		e.Grades = append(e.Grades, g)
	}
	e.RecomputeFinalGrade()
	return updated
}

// RecomputeFinalGrade 最终成绩为所有成绩百分比的算术平均（四舍五入）
func (e *Enrollment) RecomputeFinalGrade() {
	if len(e.Grades) == 0 {
		e.FinalGrade = nil
		return
	}
	sum := 0
	for _, g := range e.Grades {
		sum += g.Percentage
	}
	final := RoundDiv(sum, len(e.Grades))
	e.FinalGrade = &final
}

// SubmissionAt 按位置取提交记录
func (e *Enrollment) SubmissionAt(index int) (*Submission, bool) {
	if index < 0 || index >= len(e.Submissions) {
		return nil, false
	}
	return &e.Submissions[index], true
}

func (e *Enrollment) AddSubmission(s Submission) int {
	e.Submissions = append(e.Submissions, s)
	return len(e.Submissions) - 1
}

// MarkModuleCompleted 记录模块完成并重算进度，已完成的模块不重复记录。
// totalModules 为课程当前的模块总数。
func (e *Enrollment) MarkModuleCompleted(moduleID uint, totalModules int, now time.Time) {
	seen := false
	for _, id := range e.CompletedModules {
		if id == moduleID {
			seen = true
			break
		}
	}
	if !seen {
		e.CompletedModules = append(e.CompletedModules, moduleID)
	}

	if totalModules <= 0 {
		return
	}
	progress := RoundDiv(len(e.CompletedModules)*100, totalModules)
	if progress > 100 {
		progress = 100
	}
	e.Progress = progress

	if e.Progress == 100 && !e.Completed {
		e.Completed = true
		e.CompletedAt = &now
	}
}

// Percentage 计算得分百分比，四舍五入（0.5 进位）
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return RoundDiv(score*100, total)
}

// RoundDiv 非负整数除法，结果按 0.5 进位取整
func RoundDiv(num, den int) int {
	return (2*num + den) / (2 * den)
}
