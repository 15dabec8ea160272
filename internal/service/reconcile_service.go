package service

import (
	"context"
	"lms_backend/internal/repository"
	"lms_backend/pkg/logger"
	"lms_backend/pkg/monitoring"
	"lms_backend/pkg/tracing"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReconcileService 定期清理用户或课程已不存在的报名记录
type ReconcileService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	DB             *gorm.DB
	cron           *cron.Cron
}

func NewReconcileService(enrollmentRepo *repository.EnrollmentRepository, db *gorm.DB) *ReconcileService {
	return &ReconcileService{EnrollmentRepo: enrollmentRepo, DB: db}
}

type ReconcileResult struct {
	Removed  int64     `json:"removed"`
	RunAt    time.Time `json:"runAt"`
	Duration string    `json:"duration"`
}

func (s *ReconcileService) Run(ctx context.Context) (*ReconcileResult, error) {
	ctx, span := tracing.Start(ctx, "ReconcileService.Run")
	defer span.End()

	start := time.Now()
	removed, err := s.EnrollmentRepo.WithTx(s.DB.WithContext(ctx)).DeleteOrphans()
	if err != nil {
		logger.Log.Error("orphan reconciliation failed", zap.Error(err))
		return nil, err
	}

	monitoring.OrphansRemoved.Add(float64(removed))
	logger.Log.Info("orphan reconciliation finished",
		zap.Int64("removed", removed),
		zap.Duration("took", time.Since(start)),
	)
	return &ReconcileResult{Removed: removed, RunAt: start, Duration: time.Since(start).String()}, nil
}

// Start 按 cron 表达式调度，空表达式表示不启用
func (s *ReconcileService) Start(schedule string) error {
	if schedule == "" {
		return nil
	}
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		_, _ = s.Run(ctx)
	}); err != nil {
		return err
	}
	c.Start()
	s.cron = c
	logger.Log.Info("reconcile job scheduled", zap.String("schedule", schedule))
	return nil
}

func (s *ReconcileService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}
