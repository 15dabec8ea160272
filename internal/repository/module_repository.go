package repository

import (
	"database/sql"
	"lms_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// order 是保留字，排序时交给 gorm 按方言加引号
var orderColumn = clause.OrderByColumn{Column: clause.Column{Name: "order"}}

type ModuleRepository struct {
	DB *gorm.DB
}

func NewModuleRepository(db *gorm.DB) *ModuleRepository {
	return &ModuleRepository{DB: db}
}

func (r *ModuleRepository) WithTx(tx *gorm.DB) *ModuleRepository {
	return &ModuleRepository{DB: tx}
}

func (r *ModuleRepository) Create(module *model.Module) error {
	return r.DB.Create(module).Error
}

func (r *ModuleRepository) FindByID(id uint) (*model.Module, error) {
	var module model.Module
	err := r.DB.First(&module, id).Error
	return &module, err
}

func (r *ModuleRepository) ListByCourse(courseID uint) ([]model.Module, error) {
	var modules []model.Module
	err := r.DB.Where("course_id = ?", courseID).Order(orderColumn).Order("id asc").Find(&modules).Error
	return modules, err
}

func (r *ModuleRepository) ListByCourseAndType(courseID uint, moduleType model.ModuleType) ([]model.Module, error) {
	var modules []model.Module
	err := r.DB.Where("course_id = ? AND type = ?", courseID, moduleType).Order(orderColumn).Order("id asc").Find(&modules).Error
	return modules, err
}

func (r *ModuleRepository) CountByCourse(courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Module{}).Where("course_id = ?", courseID).Count(&count).Error
	return count, err
}

func (r *ModuleRepository) MaxOrder(courseID uint) (int, error) {
	var maxOrder sql.NullInt64
	err := r.DB.Model(&model.Module{}).
		Where("course_id = ?", courseID).
		Select("MAX(" + r.DB.Statement.Quote("order") + ")").
		Scan(&maxOrder).Error
	if err != nil || !maxOrder.Valid {
		return 0, err
	}
	return int(maxOrder.Int64), nil
}

func (r *ModuleRepository) Update(module *model.Module) error {
	return r.DB.Save(module).Error
}

func (r *ModuleRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Module{}, id).Error
}

func (r *ModuleRepository) DeleteByCourse(courseID uint) (int64, error) {
	res := r.DB.Where("course_id = ?", courseID).Delete(&model.Module{})
	return res.RowsAffected, res.Error
}
