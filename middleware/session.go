package middleware

import (
	"net/http"
	"strings"
	"time"

	"budget/config"
	"budget/database"
	"budget/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// IssueSession 创建会话记录并写入 HttpOnly Cookie
func IssueSession(c *gin.Context, user *models.User) (*models.Session, error) {
	cfg := config.GetConfig()

	session := models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		ExpiresAt: time.Now().Add(cfg.Session.IdleTimeout),
	}
	if err := database.DB.Create(&session).Error; err != nil {
		return nil, err
	}

	setSessionCookie(c, cfg, session.ID, int(cfg.Session.IdleTimeout.Seconds()))
	return &session, nil
}

// DestroySession 删除当前会话并清除 Cookie
func DestroySession(c *gin.Context) {
	cfg := config.GetConfig()
	if sid, err := c.Cookie(cfg.Session.CookieName); err == nil && sid != "" {
		database.DB.Where("id = ?", sid).Delete(&models.Session{})
	}
	setSessionCookie(c, cfg, "", -1)
}

// setSessionCookie release 模式下启用 Secure，SameSite=Lax 防止跨站 POST 携带 Cookie
func setSessionCookie(c *gin.Context, cfg *config.Config, value string, maxAge int) {
	secure := cfg.Server.Mode == "release"
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.Session.CookieName, value, maxAge, "/", "", secure, true)
}

// AuthRequired 认证中间件
// 优先使用会话 Cookie，其次接受 Authorization: Bearer JWT（App 等非浏览器客户端）
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg := config.GetConfig()

		// 1) 会话 Cookie
		if sid, err := c.Cookie(cfg.Session.CookieName); err == nil && sid != "" {
			var session models.Session
			if err := database.DB.Where("id = ?", sid).First(&session).Error; err == nil {
				if session.IsExpired() {
					database.DB.Delete(&session)
					setSessionCookie(c, cfg, "", -1)
					abortUnauthorized(c, "会话已过期，请重新登录")
					return
				}

				// 防御性检查：会话指向的用户可能已不存在，此时清除会话
				var user models.User
				if err := database.DB.First(&user, session.UserID).Error; err != nil {
					database.DB.Delete(&session)
					setSessionCookie(c, cfg, "", -1)
					abortUnauthorized(c, "请先登录")
					return
				}

				// 滑动续期：每次请求刷新空闲超时
				expiresAt := time.Now().Add(cfg.Session.IdleTimeout)
				database.DB.Model(&session).Update("expires_at", expiresAt)
				setSessionCookie(c, cfg, session.ID, int(cfg.Session.IdleTimeout.Seconds()))

				c.Set("userID", session.UserID)
				c.Set("username", session.Username)
				c.Set("sessionID", session.ID)
				c.Next()
				return
			}
		}

		// 2) Bearer JWT
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") && parts[1] != "" {
				claims, err := ParseToken(parts[1])
				if err == nil {
					c.Set("userID", claims.UserID)
					c.Set("username", claims.Username)
					c.Next()
					return
				}
			}
		}

		abortUnauthorized(c, "请先登录")
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"code":    http.StatusUnauthorized,
		"message": message,
	})
	c.Abort()
}

// GetCurrentUserID 获取当前登录用户 ID，未登录返回 0
func GetCurrentUserID(c *gin.Context) uint {
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// GetCurrentUsername 获取当前登录用户名
func GetCurrentUsername(c *gin.Context) string {
	if v, ok := c.Get("username"); ok {
		if name, ok := v.(string); ok {
			return name
		}
	}
	return ""
}
