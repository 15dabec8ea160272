package service

import (
	"context"
	"errors"
	"fmt"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ArticleService struct {
	ArticleRepo *repository.ArticleRepository
	DB          *gorm.DB
}

func NewArticleService(articleRepo *repository.ArticleRepository, db *gorm.DB) *ArticleService {
	return &ArticleService{ArticleRepo: articleRepo, DB: db}
}

type ArticleRequest struct {
	Title     string   `json:"title" validate:"required,max=255"`
	Slug      string   `json:"slug" validate:"omitempty,max=255"`
	Summary   string   `json:"summary" validate:"max=512"`
	Content   string   `json:"content" validate:"required"`
	Tags      []string `json:"tags" validate:"max=20,dive,required,max=50"`
	Published bool     `json:"published"`
}

type ArticleList struct {
	Items []model.Article `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// Slugify 标题转 slug：字母数字保留并转小写，其余字符折叠为单个连字符
func Slugify(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// uniqueSlug 冲突时追加序号
func (s *ArticleService) uniqueSlug(repo *repository.ArticleRepository, base string, excludeID uint) (string, error) {
	if base == "" {
		base = "article-" + uuid.New().String()[:8]
	}
	slug := base
	for i := 2; i < 100; i++ {
		exists, err := repo.SlugExists(slug, excludeID)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
	return "", util.ErrSlugTaken
}

func (s *ArticleService) apply(a *model.Article, req ArticleRequest) {
	a.Title = req.Title
	a.Summary = req.Summary
	a.Content = req.Content
	a.Tags = datatypes.JSONSlice[string](req.Tags)
	if req.Published && !a.Published {
		now := time.Now()
		a.PublishedAt = &now
	}
	a.Published = req.Published
}

func (s *ArticleService) Create(ctx context.Context, actor Actor, req ArticleRequest) (*model.Article, error) {
	if err := util.Validate(req); err != nil {
		return nil, err
	}
	repo := s.ArticleRepo.WithTx(s.DB.WithContext(ctx))

	base := Slugify(req.Slug)
	if base == "" {
		base = Slugify(req.Title)
	}
	slug, err := s.uniqueSlug(repo, base, 0)
	if err != nil {
		return nil, err
	}

	a := &model.Article{AuthorID: actor.UserID, Slug: slug}
	s.apply(a, req)
	if err := repo.Create(a); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrSlugTaken
		}
		return nil, err
	}
	return a, nil
}

// Update 作者本人或管理员；显式指定的 slug 冲突时报错而不是自动改名
func (s *ArticleService) Update(ctx context.Context, actor Actor, id uint, req ArticleRequest) (*model.Article, error) {
	if err := util.Validate(req); err != nil {
		return nil, err
	}
	repo := s.ArticleRepo.WithTx(s.DB.WithContext(ctx))

	a, err := repo.FindByID(id)
	if err != nil {
		return nil, notFound(err, util.ErrArticleNotFound)
	}
	if a.AuthorID != actor.UserID && !actor.IsAdmin() {
		return nil, util.ErrPermissionDenied
	}

	if slug := Slugify(req.Slug); slug != "" && slug != a.Slug {
		exists, err := repo.SlugExists(slug, a.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, util.ErrSlugTaken
		}
		a.Slug = slug
	}

	s.apply(a, req)
	if err := repo.Update(a); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrSlugTaken
		}
		return nil, err
	}
	return a, nil
}

func (s *ArticleService) Delete(ctx context.Context, actor Actor, id uint) error {
	repo := s.ArticleRepo.WithTx(s.DB.WithContext(ctx))
	a, err := repo.FindByID(id)
	if err != nil {
		return notFound(err, util.ErrArticleNotFound)
	}
	if a.AuthorID != actor.UserID && !actor.IsAdmin() {
		return util.ErrPermissionDenied
	}
	return repo.Delete(id)
}

func (s *ArticleService) GetPublished(ctx context.Context, slug string) (*model.Article, error) {
	a, err := s.ArticleRepo.WithTx(s.DB.WithContext(ctx)).FindBySlug(slug)
	if err != nil {
		return nil, notFound(err, util.ErrArticleNotFound)
	}
	if !a.Published {
		return nil, util.ErrArticleNotFound
	}
	return a, nil
}

func (s *ArticleService) ListPublished(ctx context.Context, page, limit int) (*ArticleList, error) {
	items, total, err := s.ArticleRepo.WithTx(s.DB.WithContext(ctx)).List(true, 0, page, limit)
	if err != nil {
		return nil, err
	}
	return &ArticleList{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// ListMine 作者自己的文章，包含草稿
func (s *ArticleService) ListMine(ctx context.Context, actor Actor, page, limit int) (*ArticleList, error) {
	items, total, err := s.ArticleRepo.WithTx(s.DB.WithContext(ctx)).List(false, actor.UserID, page, limit)
	if err != nil {
		return nil, err
	}
	return &ArticleList{Items: items, Total: total, Page: page, Limit: limit}, nil
}
