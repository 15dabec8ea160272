package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func (r *EnrollmentRepository) WithTx(tx *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: tx}
}

func (r *EnrollmentRepository) Create(e *model.Enrollment) error {
	return r.DB.Omit(clause.Associations).Create(e).Error
}

func (r *EnrollmentRepository) FindByID(id uint) (*model.Enrollment, error) {
	var e model.Enrollment
	err := r.DB.First(&e, id).Error
	return &e, err
}

func (r *EnrollmentRepository) FindByIDWithCourse(id uint) (*model.Enrollment, error) {
	var e model.Enrollment
	err := r.DB.Preload("Course").First(&e, id).Error
	return &e, err
}

func (r *EnrollmentRepository) FindByUserAndCourse(userID, courseID uint) (*model.Enrollment, error) {
	var e model.Enrollment
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EnrollmentRepository) CountByCourse(courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).Where("course_id = ?", courseID).Count(&count).Error
	return count, err
}

func (r *EnrollmentRepository) ListByUser(userID uint) ([]model.Enrollment, error) {
	var es []model.Enrollment
	err := r.DB.Preload("Course").Where("user_id = ?", userID).Order("enrolled_at desc").Find(&es).Error
	return es, err
}

func (r *EnrollmentRepository) ListByCourse(courseID uint) ([]model.Enrollment, error) {
	var es []model.Enrollment
	err := r.DB.Preload("User").Where("course_id = ?", courseID).Order("enrolled_at asc").Find(&es).Error
	return es, err
}

// Save 整个文档回写，不做版本校验（后写覆盖）
func (r *EnrollmentRepository) Save(e *model.Enrollment) error {
	return r.DB.Omit(clause.Associations).Save(e).Error
}

func (r *EnrollmentRepository) Delete(id uint) (int64, error) {
	res := r.DB.Delete(&model.Enrollment{}, id)
	return res.RowsAffected, res.Error
}

func (r *EnrollmentRepository) DeleteByUser(userID uint) (int64, error) {
	res := r.DB.Where("user_id = ?", userID).Delete(&model.Enrollment{})
	return res.RowsAffected, res.Error
}

func (r *EnrollmentRepository) DeleteByCourse(courseID uint) (int64, error) {
	res := r.DB.Where("course_id = ?", courseID).Delete(&model.Enrollment{})
	return res.RowsAffected, res.Error
}

// DeleteOrphans 删除用户或课程已不存在的报名记录
func (r *EnrollmentRepository) DeleteOrphans() (int64, error) {
	res := r.DB.
		Where("user_id NOT IN (?)", r.DB.Model(&model.User{}).Select("id")).
		Or("course_id NOT IN (?)", r.DB.Model(&model.Course{}).Select("id")).
		Delete(&model.Enrollment{})
	return res.RowsAffected, res.Error
}
