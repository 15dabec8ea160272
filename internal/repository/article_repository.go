package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ArticleRepository struct {
	DB *gorm.DB
}

func NewArticleRepository(db *gorm.DB) *ArticleRepository {
	return &ArticleRepository{DB: db}
}

func (r *ArticleRepository) WithTx(tx *gorm.DB) *ArticleRepository {
	return &ArticleRepository{DB: tx}
}

func (r *ArticleRepository) Create(a *model.Article) error {
	return r.DB.Omit(clause.Associations).Create(a).Error
}

func (r *ArticleRepository) FindByID(id uint) (*model.Article, error) {
	var a model.Article
	err := r.DB.First(&a, id).Error
	return &a, err
}

func (r *ArticleRepository) FindBySlug(slug string) (*model.Article, error) {
	var a model.Article
	err := r.DB.Preload("Author").Where("slug = ?", slug).First(&a).Error
	return &a, err
}

func (r *ArticleRepository) SlugExists(slug string, excludeID uint) (bool, error) {
	var count int64
	query := r.DB.Model(&model.Article{}).Where("slug = ?", slug)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *ArticleRepository) List(onlyPublished bool, authorID uint, page, limit int) ([]model.Article, int64, error) {
	var as []model.Article
	var total int64

	query := r.DB.Model(&model.Article{})
	if onlyPublished {
		query = query.Where("published = ?", true)
	}
	if authorID > 0 {
		query = query.Where("author_id = ?", authorID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Preload("Author").Order("created_at desc").Offset(offset).Limit(limit).Find(&as).Error
	return as, total, err
}

func (r *ArticleRepository) Update(a *model.Article) error {
	return r.DB.Omit(clause.Associations).Save(a).Error
}

func (r *ArticleRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Article{}, id).Error
}
