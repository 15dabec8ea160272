package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) WithTx(tx *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: tx}
}

type CourseFilter struct {
	Category     string
	Level        string
	Keyword      string
	InstructorID uint
	OnlyPublic   bool
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, id).Error
	return &course, err
}

// FindByIDForUpdate 在事务内锁定课程行，串行化同一课程的报名名额检查
func (r *CourseRepository) FindByIDForUpdate(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.Clauses(clause.Locking{Strength: "UPDATE"}).First(&course, id).Error
	return &course, err
}

// FindWithModules 课程详情，模块按顺序排列
func (r *CourseRepository) FindWithModules(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.
		Preload("Instructor").
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Order(orderColumn).Order("id asc")
		}).
		First(&course, id).Error
	return &course, err
}

func (r *CourseRepository) List(filter CourseFilter, page, limit int) ([]model.Course, int64, error) {
	var courses []model.Course
	var total int64

	query := r.DB.Model(&model.Course{})
	if filter.OnlyPublic {
		query = query.Where("published = ?", true)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Level != "" {
		query = query.Where("level = ?", filter.Level)
	}
	if filter.InstructorID > 0 {
		query = query.Where("instructor_id = ?", filter.InstructorID)
	}
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Preload("Instructor").Order("created_at desc").Offset(offset).Limit(limit).Find(&courses).Error
	return courses, total, err
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Omit(clause.Associations).Save(course).Error
}

func (r *CourseRepository) Delete(id uint) (int64, error) {
	res := r.DB.Delete(&model.Course{}, id)
	return res.RowsAffected, res.Error
}
