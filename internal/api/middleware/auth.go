package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Faith-Promise-Church/growth-plan/pkg/jwt"
	"github.com/Faith-Promise-Church/growth-plan/pkg/response"
)

// 上下文键
const (
	CtxUserID  = "user_id"
	CtxIsAdmin = "is_admin"
	CtxClaims  = "claims"
)

// Blacklist 已注销 Token 查询
type Blacklist interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// Auth 解析 Bearer Token 并注入用户身份
func Auth(jwtManager *jwt.Manager, blacklist Blacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			response.Unauthorized(c, 11003, "missing or malformed authorization header")
			c.Abort()
			return
		}

		claims, err := jwtManager.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			if err == jwt.ErrTokenExpired {
				response.Unauthorized(c, 11004, "token expired")
			} else {
				response.Unauthorized(c, 11003, "token invalid")
			}
			c.Abort()
			return
		}

		// Refresh Token 不能用于访问接口
		if claims.TokenType != "access" {
			response.Unauthorized(c, 11003, "token invalid")
			c.Abort()
			return
		}

		blacklisted, err := blacklist.IsBlacklisted(c.Request.Context(), claims.ID)
		if err != nil {
			response.InternalError(c)
			c.Abort()
			return
		}
		if blacklisted {
			response.Unauthorized(c, 11005, "token has been revoked")
			c.Abort()
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxIsAdmin, claims.IsAdmin)
		c.Set(CtxClaims, claims)
		c.Next()
	}
}

// AdminOnly 仅管理员可访问，必须位于 Auth 之后
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(CtxIsAdmin) {
			response.Forbidden(c, 16001, "admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// [自证通过] internal/api/middleware/auth.go
