package service

import (
	"context"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"
	"lms_backend/pkg/tracing"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UserService struct {
	UserRepo       *repository.UserRepository
	EnrollmentRepo *repository.EnrollmentRepository
	DB             *gorm.DB
}

func NewUserService(userRepo *repository.UserRepository, enrollmentRepo *repository.EnrollmentRepository, db *gorm.DB) *UserService {
	return &UserService{
		UserRepo:       userRepo,
		EnrollmentRepo: enrollmentRepo,
		DB:             db,
	}
}

type StudentList struct {
	Items []model.User `json:"items"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

type StudentDetail struct {
	*model.User
	Enrollments []model.Enrollment `json:"enrollments"`
}

type UpdateProfileRequest struct {
	Name   string `json:"name" validate:"required,max=100"`
	Avatar string `json:"avatar" validate:"max=255"`
	Bio    string `json:"bio" validate:"max=2000"`
}

func (s *UserService) ListStudents(ctx context.Context, keyword string, page, limit int) (*StudentList, error) {
	users, total, err := s.UserRepo.WithTx(s.DB.WithContext(ctx)).ListByRole(model.Student, keyword, page, limit)
	if err != nil {
		return nil, err
	}
	return &StudentList{Items: users, Total: total, Page: page, Limit: limit}, nil
}

func (s *UserService) GetStudent(ctx context.Context, id uint) (*StudentDetail, error) {
	db := s.DB.WithContext(ctx)
	user, err := s.UserRepo.WithTx(db).FindByID(id)
	if err != nil {
		return nil, notFound(err, util.ErrUserNotFound)
	}
	if user.Role != model.Student {
		return nil, util.ErrUserNotFound
	}
	enrollments, err := s.EnrollmentRepo.WithTx(db).ListByUser(id)
	if err != nil {
		return nil, err
	}
	return &StudentDetail{User: user, Enrollments: enrollments}, nil
}

// DeleteStudent 同一事务中先删除该学生的全部报名记录，再删除用户本身
func (s *UserService) DeleteStudent(ctx context.Context, id uint) error {
	ctx, span := tracing.Start(ctx, "UserService.DeleteStudent")
	defer span.End()

	var removed int64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.UserRepo.WithTx(tx)
		user, err := users.FindByID(id)
		if err != nil {
			return notFound(err, util.ErrUserNotFound)
		}
		if user.Role != model.Student {
			return util.ErrUserNotFound
		}

		if removed, err = s.EnrollmentRepo.WithTx(tx).DeleteByUser(id); err != nil {
			return err
		}
		affected, err := users.Delete(id)
		if err != nil {
			return err
		}
		if affected == 0 {
			return util.ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Log.Info("student deleted", zap.Uint("userId", id), zap.Int64("enrollments", removed))
	return nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uint, req UpdateProfileRequest) (*model.User, error) {
	if err := util.Validate(req); err != nil {
		return nil, err
	}
	repo := s.UserRepo.WithTx(s.DB.WithContext(ctx))
	user, err := repo.FindByID(userID)
	if err != nil {
		return nil, notFound(err, util.ErrUserNotFound)
	}
	user.Name = req.Name
	user.Avatar = req.Avatar
	user.Bio = req.Bio
	if err := repo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
