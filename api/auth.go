package api

import (
	"strings"
	"time"

	"budget/config"
	"budget/database"
	"budget/middleware"
	"budget/models"
	"budget/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	cfg          *config.Config
	emailService *service.EmailService
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		cfg:          cfg,
		emailService: service.NewEmailService(&cfg.Email),
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50" example:"testuser"`
	Email    string `json:"email" binding:"required,email" example:"test@example.com"`
	Password string `json:"password" binding:"required,min=6,max=50" example:"password123"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"testuser"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// LoginResponse 登录响应
// Token 供 App 等非浏览器客户端使用，浏览器客户端依赖会话 Cookie
type LoginResponse struct {
	Token    string      `json:"token"`
	UserInfo models.User `json:"user_info"`
}

// Register 用户注册
// @Summary 用户注册
// @Description 创建新用户账号，注册成功后自动登录（写入会话 Cookie 并返回 token）
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "注册信息"
// @Success 200 {object} Response{data=LoginResponse} "注册成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 500 {object} Response "服务器错误"
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	// 邮箱统一小写存储，保证唯一性判断大小写不敏感
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" {
		BadRequest(c, "用户名不能为空")
		return
	}

	// 检查用户名是否已存在
	var existingUser models.User
	if err := database.DB.Where("username = ?", req.Username).First(&existingUser).Error; err == nil {
		BadRequest(c, "用户名已存在")
		return
	}

	// 检查邮箱是否已被使用
	if err := database.DB.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		BadRequest(c, "该邮箱已被注册")
		return
	}

	// 创建用户
	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: service.HashPassword(req.Password),
	}

	if err := database.DB.Create(&user).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建用户失败"))
		return
	}

	// 注册即登录：写入会话 Cookie 并签发 token
	if _, err := middleware.IssueSession(c, &user); err != nil {
		InternalError(c, SafeErrorMessage(err, "创建会话失败"))
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Username, h.cfg.JWT.ExpireTime)
	if err != nil {
		InternalError(c, "生成 token 失败")
		return
	}

	// 欢迎邮件为可选功能，失败不影响注册
	if h.cfg.Email.Enabled {
		go h.emailService.SendWelcomeEmail(user.Email, user.Username)
	}

	SuccessWithMessage(c, "注册成功", LoginResponse{
		Token:    token,
		UserInfo: user,
	})
}

// Login 用户登录
// @Summary 用户登录
// @Description 用户登录，写入会话 Cookie 并返回 token
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录信息"
// @Success 200 {object} Response{data=LoginResponse} "登录成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "用户名或密码错误"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	// 用户不存在与密码错误返回同一提示，避免用户名枚举
	var user models.User
	if err := database.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		Unauthorized(c, "用户名或密码错误")
		return
	}

	if !service.VerifyPassword(req.Password, user.Password) {
		Unauthorized(c, "用户名或密码错误")
		return
	}

	if _, err := middleware.IssueSession(c, &user); err != nil {
		InternalError(c, SafeErrorMessage(err, "创建会话失败"))
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Username, h.cfg.JWT.ExpireTime)
	if err != nil {
		InternalError(c, "生成 token 失败")
		return
	}

	Success(c, LoginResponse{
		Token:    token,
		UserInfo: user,
	})
}

// Logout 退出登录
// @Summary 退出登录
// @Description 删除服务端会话并清除会话 Cookie
// @Tags 认证
// @Accept json
// @Produce json
// @Success 200 {object} Response "退出成功"
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.DestroySession(c)
	SuccessWithMessage(c, "退出成功", nil)
}

// GetProfile 获取当前用户信息
// @Summary 获取当前用户信息
// @Description 获取当前登录用户的详细信息
// @Tags 认证
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.User} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/auth/profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		NotFound(c, "用户不存在")
		return
	}

	Success(c, user)
}

// UpdateProfileRequest 更新个人信息请求
type UpdateProfileRequest struct {
	Email       string  `json:"email" binding:"omitempty,email" example:"new@example.com"`
	FullName    *string `json:"full_name" example:"张三"`
	PhoneNumber *string `json:"phone_number" example:"13800138000"`
	Address     *string `json:"address" example:"北京市朝阳区"`
}

// UpdateProfile 更新个人信息
// @Summary 更新个人信息
// @Description 更新当前用户的邮箱、姓名、电话、地址
// @Tags 认证
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "个人信息"
// @Success 200 {object} Response{data=models.User} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/auth/profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		NotFound(c, "用户不存在")
		return
	}

	updates := make(map[string]interface{})
	if req.Email != "" {
		email := strings.ToLower(strings.TrimSpace(req.Email))
		if email != user.Email {
			var other models.User
			if err := database.DB.Where("email = ? AND id <> ?", email, userID).First(&other).Error; err == nil {
				BadRequest(c, "该邮箱已被注册")
				return
			}
			updates["email"] = email
		}
	}
	if req.FullName != nil {
		updates["full_name"] = req.FullName
	}
	if req.PhoneNumber != nil {
		updates["phone_number"] = req.PhoneNumber
	}
	if req.Address != nil {
		updates["address"] = req.Address
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&user).Updates(updates).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "更新失败"))
			return
		}
	}

	database.DB.First(&user, userID)
	SuccessWithMessage(c, "更新成功", user)
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required" example:"oldpassword123"`
	NewPassword     string `json:"new_password" binding:"required,min=6,max=50" example:"newpassword123"`
	ConfirmPassword string `json:"confirm_password" binding:"required" example:"newpassword123"`
}

// ChangePassword 修改密码
// @Summary 修改密码
// @Description 修改当前用户密码，需要提供当前密码
// @Tags 认证
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "密码信息"
// @Success 200 {object} Response "修改成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "当前密码错误"
// @Router /api/v1/auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	if req.NewPassword != req.ConfirmPassword {
		BadRequest(c, "两次输入的新密码不一致")
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		NotFound(c, "用户不存在")
		return
	}

	if !service.VerifyPassword(req.CurrentPassword, user.Password) {
		Unauthorized(c, "当前密码错误")
		return
	}

	if err := database.DB.Model(&user).Update("password", service.HashPassword(req.NewPassword)).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新密码失败"))
		return
	}

	SuccessWithMessage(c, "密码修改成功", nil)
}

// RequestPasswordResetRequest 请求密码重置
type RequestPasswordResetRequest struct {
	Email string `json:"email" binding:"required,email" example:"test@example.com"`
}

// RequestPasswordReset 请求密码重置（发送验证码邮件）
// @Summary 请求密码重置
// @Description 通过邮箱发送密码重置验证码，需要启用邮件服务
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body RequestPasswordResetRequest true "密码重置请求"
// @Success 200 {object} Response "验证码已发送"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/auth/password/request-reset [post]
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req RequestPasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "请输入有效的邮箱地址")
		return
	}

	if !h.cfg.Email.Enabled {
		BadRequest(c, "邮件服务未启用，请联系管理员重置密码")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	// 为了安全，即使用户不存在也返回成功
	var user models.User
	if err := database.DB.Where("email = ?", email).First(&user).Error; err != nil {
		SuccessWithMessage(c, "如果该邮箱已注册，您将收到密码重置验证码", nil)
		return
	}

	// 防止频繁发送
	var existingReset models.PasswordReset
	if err := database.DB.Where("user_id = ? AND used = ? AND expires_at > ?",
		user.ID, false, time.Now()).First(&existingReset).Error; err == nil {
		if time.Since(existingReset.CreatedAt) < time.Minute {
			Error(c, 429, "请求过于频繁，请稍后再试")
			return
		}
		database.DB.Model(&existingReset).Update("used", true)
	}

	code, err := models.GenerateResetCode()
	if err != nil {
		InternalError(c, "生成验证码失败")
		return
	}

	passwordReset := models.PasswordReset{
		UserID:    user.ID,
		Code:      code,
		Email:     email,
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}

	if err := database.DB.Create(&passwordReset).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建重置验证码失败"))
		return
	}

	if err := h.emailService.SendPasswordResetEmail(email, user.Username, code); err != nil {
		database.DB.Delete(&passwordReset)
		InternalError(c, SafeErrorMessage(err, "邮件发送失败"))
		return
	}

	SuccessWithMessage(c, "密码重置验证码已发送，请查收邮件", nil)
}

// ResetPasswordRequest 重置密码请求
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email" example:"test@example.com"`
	Code        string `json:"code" binding:"required,len=6" example:"123456"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=50" example:"newpassword123"`
}

// ResetPassword 使用验证码重置密码
// @Summary 重置密码
// @Description 使用邮件验证码重置密码
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "重置密码请求"
// @Success 200 {object} Response "密码重置成功"
// @Failure 400 {object} Response "验证码错误或已过期"
// @Router /api/v1/auth/password/reset [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var passwordReset models.PasswordReset
	if err := database.DB.Where("email = ? AND code = ?", email, req.Code).First(&passwordReset).Error; err != nil {
		BadRequest(c, "验证码错误")
		return
	}

	if !passwordReset.IsValid() {
		if passwordReset.Used {
			BadRequest(c, "验证码已被使用")
		} else {
			BadRequest(c, "验证码已过期，请重新获取")
		}
		return
	}

	if err := database.DB.Model(&models.User{}).Where("id = ?", passwordReset.UserID).
		Update("password", service.HashPassword(req.NewPassword)).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新密码失败"))
		return
	}

	// 使该用户所有未使用的验证码失效
	database.DB.Model(&models.PasswordReset{}).
		Where("user_id = ? AND used = ?", passwordReset.UserID, false).
		Update("used", true)

	SuccessWithMessage(c, "密码重置成功，请使用新密码登录", nil)
}
