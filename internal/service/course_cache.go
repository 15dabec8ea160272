package service

import (
	"context"
	"encoding/json"
	"fmt"
	"lms_backend/internal/model"
	"lms_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const courseCacheKeyPrefix = "course:detail:"

// CourseCache 课程详情读缓存，Redis 未启用时所有操作为空实现
type CourseCache struct {
	Redis *redis.Client
	TTL   time.Duration
}

func NewCourseCache(rdb *redis.Client, ttlSeconds int) *CourseCache {
	if ttlSeconds <= 0 {
		ttlSeconds = 300
	}
	return &CourseCache{Redis: rdb, TTL: time.Duration(ttlSeconds) * time.Second}
}

func courseCacheKey(id uint) string {
	return fmt.Sprintf("%s%d", courseCacheKeyPrefix, id)
}

func (c *CourseCache) enabled() bool {
	return c != nil && c.Redis != nil
}

func (c *CourseCache) Get(ctx context.Context, id uint) (*model.Course, bool) {
	if !c.enabled() {
		return nil, false
	}
	data, err := c.Redis.Get(ctx, courseCacheKey(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Log.Warn("course cache read failed", zap.Uint("courseId", id), zap.Error(err))
		}
		return nil, false
	}
	var course model.Course
	if err := json.Unmarshal(data, &course); err != nil {
		return nil, false
	}
	return &course, true
}

func (c *CourseCache) Set(ctx context.Context, course *model.Course) {
	if !c.enabled() {
		return
	}
	data, err := json.Marshal(course)
	if err != nil {
		return
	}
	if err := c.Redis.Set(ctx, courseCacheKey(course.ID), data, c.TTL).Err(); err != nil {
		logger.Log.Warn("course cache write failed", zap.Uint("courseId", course.ID), zap.Error(err))
	}
}

func (c *CourseCache) Invalidate(ctx context.Context, id uint) {
	if !c.enabled() {
		return
	}
	if err := c.Redis.Del(ctx, courseCacheKey(id)).Err(); err != nil {
		logger.Log.Warn("course cache invalidate failed", zap.Uint("courseId", id), zap.Error(err))
	}
}
