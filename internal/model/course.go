package model

type CourseLevel string

const (
	LevelBeginner     CourseLevel = "beginner"
	LevelIntermediate CourseLevel = "intermediate"
	LevelAdvanced     CourseLevel = "advanced"
)

// swagger:model Course
type Course struct {
	BaseModel
	Title        string      `gorm:"size:255;not null" json:"title"`
	Description  string      `gorm:"type:text" json:"description"`
	Category     string      `gorm:"size:100;index" json:"category"`
	Level        CourseLevel `gorm:"size:20;default:'beginner'" json:"level"`
	Price        float64     `gorm:"default:0" json:"price"`
	Thumbnail    string      `gorm:"size:255" json:"thumbnail"`
	InstructorID uint        `gorm:"index;not null" json:"instructorId"`
	Instructor   *User       `gorm:"foreignKey:InstructorID" json:"instructor,omitempty"`
	MaxStudents  int         `gorm:"not null" json:"maxStudents"`
	Published    bool        `gorm:"default:false" json:"published"`
	Modules      []Module    `gorm:"foreignKey:CourseID" json:"modules,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// IsFree 免费课程报名后无需支付
func (c *Course) IsFree() bool {
	return c.Price <= 0
}
