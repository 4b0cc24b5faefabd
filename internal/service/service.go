package service

import (
	"go.uber.org/zap"

	"rt-roster/backend/config"
	"rt-roster/backend/internal/repository"
	"rt-roster/backend/pkg/jwt"
	"rt-roster/backend/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth      *AuthService
	Therapist *TherapistService
	Cycle     *CycleService
	Schedule  *ScheduleService
	Export    *ExportService
}

// NewService 创建 Service 聚合
// redisClient 允许为 nil（降级模式：登出不再使 Token 即时失效）
func NewService(repo *repository.Repository, redisClient *redis.Client, jwtManager *jwt.Manager, cfg *config.Config, logger *zap.Logger) *Service {
	return &Service{
		Auth:      NewAuthService(repo, redisClient, jwtManager, logger),
		Therapist: NewTherapistService(repo, logger),
		Cycle:     NewCycleService(repo, logger),
		Schedule:  NewScheduleService(repo, &cfg.Scheduling, logger),
		Export:    NewExportService(repo, logger),
	}
}

// strategyFromName 按名称选择资格判定策略，未知或空名称回落到默认策略
func strategyFromName(name string) EligibilityStrategy {
	if name == "preferred_days" {
		return PreferredDaysStrategy{}
	}
	return PatternStrategy{}
}
