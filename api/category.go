package api

import (
	"strconv"
	"strings"

	"budget/database"
	"budget/middleware"
	"budget/models"

	"github.com/gin-gonic/gin"
)

// CategoryHandler 类别处理器
type CategoryHandler struct{}

// NewCategoryHandler 创建类别处理器
func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

// CreateCategoryRequest 创建类别请求
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,max=100" example:"宠物"`
	Type string `json:"type" binding:"required" example:"Expense"` // Income / Expense
}

// CategoryListResponse 类别列表响应，按收支类型分组
type CategoryListResponse struct {
	Income  []models.Category `json:"income"`
	Expense []models.Category `json:"expense"`
}

// List 获取类别列表
// @Summary 获取类别列表
// @Description 获取当前用户可见的类别（全局类别 + 用户自建类别），按类型和名称排序
// @Tags 类别
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=CategoryListResponse} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var categories []models.Category
	if err := database.DB.
		Where("user_id IS NULL OR user_id = ?", userID).
		Order("type ASC, name ASC").
		Find(&categories).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	resp := CategoryListResponse{
		Income:  make([]models.Category, 0),
		Expense: make([]models.Category, 0),
	}
	for _, cat := range categories {
		if cat.Type == models.TypeIncome {
			resp.Income = append(resp.Income, cat)
		} else {
			resp.Expense = append(resp.Expense, cat)
		}
	}

	Success(c, resp)
}

// Create 创建类别
// @Summary 创建类别
// @Description 创建用户自建类别，同一可见范围内名称不区分大小写不可重复
// @Tags 类别
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCategoryRequest true "类别信息"
// @Success 200 {object} Response{data=models.Category} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		BadRequest(c, "类别名称不能为空")
		return
	}
	if !models.IsValidType(req.Type) {
		BadRequest(c, "类型必须为 Income 或 Expense")
		return
	}

	// 可见范围内同类型名称查重（不区分大小写）
	var existing models.Category
	if err := database.DB.
		Where("(user_id IS NULL OR user_id = ?) AND type = ? AND LOWER(name) = LOWER(?)",
			userID, req.Type, req.Name).
		First(&existing).Error; err == nil {
		BadRequest(c, "同名类别已存在")
		return
	}

	category := models.Category{
		Name:   req.Name,
		Type:   req.Type,
		UserID: &userID,
	}

	if err := database.DB.Create(&category).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建类别失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", category)
}

// Delete 删除类别
// @Summary 删除类别
// @Description 删除用户自建类别，全局类别和仍被交易引用的类别不可删除
// @Tags 类别
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "类别ID"
// @Success 200 {object} Response "删除成功"
// @Failure 400 {object} Response "类别不可删除"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "类别不存在"
// @Router /api/v1/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	// 只允许删除用户自建类别，全局类别对请求方不可见为"自有"
	var category models.Category
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&category).Error; err != nil {
		NotFound(c, "类别不存在")
		return
	}

	// 仍被交易引用的类别拒绝删除
	var count int64
	if err := database.DB.Model(&models.Transaction{}).
		Where("category_id = ?", category.ID).
		Count(&count).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	if count > 0 {
		BadRequest(c, "该类别下仍有交易记录，请先删除或调整相关交易")
		return
	}

	if err := database.DB.Delete(&category).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}

	SuccessWithMessage(c, "删除成功", nil)
}
