package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newLimitedLoginRouter(maxAttempts int, window time.Duration) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(LoginRateLimit(maxAttempts, window))
	router.POST("/api/v1/auth/login", func(c *gin.Context) {
		c.JSON(401, gin.H{"message": "用户名或密码错误"})
	})
	return router
}

func attemptLogin(router *gin.Engine, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/v1/auth/login", nil)
	req.RemoteAddr = ip + ":54321"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLoginRateLimit_BlocksAfterMaxAttempts(t *testing.T) {
	router := newLimitedLoginRouter(3, time.Minute)

	// 前 3 次正常透传（即使登录失败也计入尝试次数）
	for i := 0; i < 3; i++ {
		w := attemptLogin(router, "10.0.0.7")
		assert.Equal(t, 401, w.Code)
	}

	// 第 4 次被限流
	w := attemptLogin(router, "10.0.0.7")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "登录尝试过于频繁")
}

func TestLoginRateLimit_PerIP(t *testing.T) {
	router := newLimitedLoginRouter(1, time.Minute)

	// 一个 IP 被限流不影响其他 IP
	assert.Equal(t, 401, attemptLogin(router, "10.0.0.8").Code)
	assert.Equal(t, http.StatusTooManyRequests, attemptLogin(router, "10.0.0.8").Code)
	assert.Equal(t, 401, attemptLogin(router, "10.0.0.9").Code)
}

func TestLoginRateLimit_WindowExpiry(t *testing.T) {
	router := newLimitedLoginRouter(1, 50*time.Millisecond)

	assert.Equal(t, 401, attemptLogin(router, "10.0.0.10").Code)
	assert.Equal(t, http.StatusTooManyRequests, attemptLogin(router, "10.0.0.10").Code)

	// 窗口过期后恢复放行
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, 401, attemptLogin(router, "10.0.0.10").Code)
}
