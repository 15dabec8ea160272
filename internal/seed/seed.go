// Package seed 从 YAML 文件导入演示数据（用户、课程与模块），重复执行不会产生重复记录
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type File struct {
	Users   []User   `yaml:"users"`
	Courses []Course `yaml:"courses"`
}

type User struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

type Course struct {
	Title       string   `yaml:"title"`
	Instructor  string   `yaml:"instructor"` // 教师邮箱
	Description string   `yaml:"description"`
	Category    string   `yaml:"category"`
	Level       string   `yaml:"level"`
	Price       float64  `yaml:"price"`
	MaxStudents int      `yaml:"max_students"`
	Published   bool     `yaml:"published"`
	Modules     []Module `yaml:"modules"`
}

type Module struct {
	Title     string     `yaml:"title"`
	Type      string     `yaml:"type"`
	Content   string     `yaml:"content"`
	FileURL   string     `yaml:"file_url"`
	Questions []Question `yaml:"questions"`
}

type Question struct {
	Question string   `yaml:"question"`
	Options  []string `yaml:"options"`
	Answer   string   `yaml:"answer"`
}

type Result struct {
	UsersCreated   int
	CoursesCreated int
	ModulesCreated int
}

func Parse(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &f, f.check()
}

func (f *File) check() error {
	for i, u := range f.Users {
		switch model.UserRole(u.Role) {
		case model.Student, model.Teacher, model.Admin:
		default:
			return fmt.Errorf("users[%d]: unknown role %q", i, u.Role)
		}
		if u.Email == "" || len(u.Password) < 8 {
			return fmt.Errorf("users[%d]: email and a password of at least 8 characters are required", i)
		}
	}
	for i, c := range f.Courses {
		if c.Title == "" || c.Instructor == "" {
			return fmt.Errorf("courses[%d]: title and instructor are required", i)
		}
		for j, m := range c.Modules {
			switch model.ModuleType(m.Type) {
			case model.ModuleQuiz:
				if len(m.Questions) == 0 {
					return fmt.Errorf("courses[%d].modules[%d]: quiz without questions", i, j)
				}
			case model.ModuleText, model.ModulePDF, model.ModuleAssignment:
			default:
				return fmt.Errorf("courses[%d].modules[%d]: unknown type %q", i, j, m.Type)
			}
		}
	}
	return nil
}

// Apply 在一个事务内导入，已存在的用户（按邮箱）与课程（按教师+标题）跳过
func Apply(ctx context.Context, db *gorm.DB, f *File, defaultMaxStudents int) (*Result, error) {
	res := &Result{}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := repository.NewUserRepository(tx)
		courses := repository.NewCourseRepository(tx)
		modules := repository.NewModuleRepository(tx)

		for _, u := range f.Users {
			email := strings.ToLower(strings.TrimSpace(u.Email))
			if _, err := users.FindByEmail(email); err == nil {
				continue
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			if err := users.Create(&model.User{
				Name:     u.Name,
				Email:    email,
				Password: string(hash),
				Role:     model.UserRole(u.Role),
			}); err != nil {
				return err
			}
			res.UsersCreated++
		}

		for _, c := range f.Courses {
			instructor, err := users.FindByEmail(strings.ToLower(strings.TrimSpace(c.Instructor)))
			if err != nil {
				return fmt.Errorf("course %q: instructor %s: %w", c.Title, c.Instructor, err)
			}

			var existing int64
			if err := tx.Model(&model.Course{}).
				Where("instructor_id = ? AND title = ?", instructor.ID, c.Title).
				Count(&existing).Error; err != nil {
				return err
			}
			if existing > 0 {
				continue
			}

			course := &model.Course{
				Title:        c.Title,
				Description:  c.Description,
				Category:     c.Category,
				Level:        model.LevelBeginner,
				Price:        c.Price,
				InstructorID: instructor.ID,
				MaxStudents:  c.MaxStudents,
				Published:    c.Published,
			}
			if c.Level != "" {
				course.Level = model.CourseLevel(c.Level)
			}
			if course.MaxStudents < 1 {
				course.MaxStudents = defaultMaxStudents
			}
			if err := courses.Create(course); err != nil {
				return err
			}
			res.CoursesCreated++

			for order, m := range c.Modules {
				module := &model.Module{
					CourseID: course.ID,
					Title:    m.Title,
					Type:     model.ModuleType(m.Type),
					Order:    order,
					Content:  m.Content,
					FileURL:  m.FileURL,
				}
				if len(m.Questions) > 0 {
					qs := make(datatypes.JSONSlice[model.QuizQuestion], len(m.Questions))
					for i, q := range m.Questions {
						qs[i] = model.QuizQuestion{Question: q.Question, Options: q.Options, CorrectAnswer: q.Answer}
					}
					module.Questions = qs
				}
				if err := modules.Create(module); err != nil {
					return err
				}
				res.ModulesCreated++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("seed applied",
		zap.Int("users", res.UsersCreated),
		zap.Int("courses", res.CoursesCreated),
		zap.Int("modules", res.ModulesCreated),
	)
	return res, nil
}
