package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ZhenGtai123/chat-app/internal/domain"
	"github.com/ZhenGtai123/chat-app/internal/service"
)

// HeaderAPIToken 是客户端携带 API token 的请求头。
const HeaderAPIToken = "X-API-Token"

// ctxUserKey 是认证用户在 gin context 中的键。
const ctxUserKey = "user"

// TokenResolver 将 API token 解析为用户。由 service.UserService 实现，
// 测试中可以用桩实现替换。
type TokenResolver interface {
	GetByToken(ctx context.Context, token string) (*domain.User, error)
}

// TokenAuth 返回一个 Gin 中间件，用于校验请求头中的 API token。
// 两种认证失败对客户端都是 401，但错误信息区分：
// token 缺失 -> "Authentication required"；token 无法解析到用户 -> "Invalid API token"。
// 解析过程中的存储故障是 500，不能让客户端误以为凭证有误。
func TokenAuth(resolver TokenResolver) gin.HandlerFunc {
	if resolver == nil {
		panic("token resolver cannot be nil for TokenAuth middleware")
	}

	return func(c *gin.Context) {
		token := c.GetHeader(HeaderAPIToken)
		if token == "" {
			logrus.Warn("Auth middleware: missing API token header")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		user, err := resolver.GetByToken(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				logrus.Warn("Auth middleware: token did not resolve to a user")
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API token"})
			} else {
				logrus.WithError(err).Error("Auth middleware: failed to resolve API token")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "An unexpected error occurred"})
			}
			c.Abort()
			return
		}
		if user == nil {
			logrus.Warn("Auth middleware: resolver returned no user")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API token"})
			c.Abort()
			return
		}

		c.Set(ctxUserKey, user)
		c.Set("user_id", user.ID)
		logrus.WithField("user_id", user.ID).Debug("Auth middleware: user authenticated")

		c.Next()
	}
}

// CurrentUser 从 gin context 中取出认证用户。
// 只应在经过 TokenAuth 的路由中调用。
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	value, ok := c.Get(ctxUserKey)
	if !ok {
		return nil, false
	}
	user, ok := value.(*domain.User)
	return user, ok
}
