package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Faith-Promise-Church/growth-plan/config"
	"github.com/Faith-Promise-Church/growth-plan/internal/repository"
	"github.com/Faith-Promise-Church/growth-plan/internal/throttle"
	"github.com/Faith-Promise-Church/growth-plan/pkg/jwt"
)

// TokenBlacklist 已注销 Token 的黑名单存储
// 生产实现为 pkg/redis.Client
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// Services 业务服务聚合
type Services struct {
	Auth       *AuthService
	Assessment *AssessmentService
	GrowthPlan *GrowthPlanService
	Export     *ExportService
	Admin      *AdminService
}

// NewServices 创建全部业务服务
func NewServices(
	cfg *config.Config,
	repos *repository.Repositories,
	jwtManager *jwt.Manager,
	limiter *throttle.Limiter,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) *Services {
	callTimeout := cfg.Store.CallTimeout

	growthPlan := NewGrowthPlanService(repos, callTimeout, logger)
	return &Services{
		Auth:       NewAuthService(cfg, repos.Profile, jwtManager, limiter, blacklist, logger),
		Assessment: NewAssessmentService(repos.Assessment, callTimeout, logger),
		GrowthPlan: growthPlan,
		Export:     NewExportService(repos.Profile, growthPlan, logger),
		Admin:      NewAdminService(repos, callTimeout, logger),
	}
}

// storeCtx 为持久层调用套上统一超时
func storeCtx(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// [自证通过] internal/service/service.go
