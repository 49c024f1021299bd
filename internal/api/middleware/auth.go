package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/showcase_go_server/internal/pkg/blacklist"
	"github.com/qs3c/showcase_go_server/internal/pkg/jwt"
	"github.com/qs3c/showcase_go_server/internal/pkg/response"
)

const (
	UserIDKey = "userID"
	TokenKey  = "token"
)

// Auth JWT 认证中间件，已登出的 Token 会被拒绝
func Auth(jwtSecret string, tokens *blacklist.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			response.AuthError(c, "请提供认证信息")
			c.Abort()
			return
		}

		claims, err := jwt.ParseToken(tokenString, jwtSecret)
		if err != nil {
			response.AuthError(c, "认证失败或已过期")
			c.Abort()
			return
		}

		if tokens != nil {
			revoked, err := tokens.IsRevoked(c.Request.Context(), tokenString)
			if err == nil && revoked {
				response.AuthError(c, "认证已失效，请重新登录")
				c.Abort()
				return
			}
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(TokenKey, tokenString)
		c.Next()
	}
}

// OptionalAuth 可选认证中间件（不强制要求登录）
func OptionalAuth(jwtSecret string, tokens *blacklist.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		claims, err := jwt.ParseToken(tokenString, jwtSecret)
		if err != nil {
			c.Next()
			return
		}

		if tokens != nil {
			revoked, err := tokens.IsRevoked(c.Request.Context(), tokenString)
			if err == nil && revoked {
				c.Next()
				return
			}
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(TokenKey, tokenString)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return "", false
	}
	return tokenString, true
}

// GetUserID 从上下文获取用户 ID
func GetUserID(c *gin.Context) (int64, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := userID.(int64)
	return id, ok
}

// GetToken 从上下文获取原始 Token
func GetToken(c *gin.Context) (string, bool) {
	token, exists := c.Get(TokenKey)
	if !exists {
		return "", false
	}
	s, ok := token.(string)
	return s, ok
}
