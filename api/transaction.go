package api

import (
	"strconv"
	"time"

	"budget/database"
	"budget/middleware"
	"budget/models"

	"github.com/gin-gonic/gin"
)

// TransactionHandler 交易记录处理器
type TransactionHandler struct{}

// NewTransactionHandler 创建交易记录处理器
func NewTransactionHandler() *TransactionHandler {
	return &TransactionHandler{}
}

// CreateTransactionRequest 创建交易请求
type CreateTransactionRequest struct {
	CategoryID  uint    `json:"category_id" binding:"required" example:"1"`
	Type        string  `json:"type" binding:"required" example:"Expense"` // Income / Expense
	Amount      float64 `json:"amount" binding:"required,gt=0" example:"42.50"`
	Description string  `json:"description" binding:"max=500" example:"午餐"`
	Date        string  `json:"date" binding:"required" example:"2024-01-15"`
}

// UpdateTransactionRequest 更新交易请求
type UpdateTransactionRequest struct {
	CategoryID  *uint    `json:"category_id" example:"1"`
	Type        string   `json:"type" example:"Expense"`
	Amount      *float64 `json:"amount" example:"42.50"`
	Description *string  `json:"description" example:"午餐"`
	Date        string   `json:"date" example:"2024-01-15"`
}

// TransactionListRequest 交易列表请求
type TransactionListRequest struct {
	Page       int    `form:"page" example:"1"`
	PageSize   int    `form:"page_size" example:"10"`
	Type       string `form:"type" example:"Expense"`
	CategoryID uint   `form:"category_id" example:"1"`
	StartDate  string `form:"start_date" example:"2024-01-01"`
	EndDate    string `form:"end_date" example:"2024-12-31"`
}

// resolveCategory 解析用户可见的类别（全局类别或用户自建类别）
func resolveCategory(userID, categoryID uint) (*models.Category, bool) {
	var category models.Category
	if err := database.DB.
		Where("id = ? AND (user_id IS NULL OR user_id = ?)", categoryID, userID).
		First(&category).Error; err != nil {
		return nil, false
	}
	return &category, true
}

// Create 创建交易记录
// @Summary 创建交易记录
// @Description 创建一条收入或支出记录，类别必须对当前用户可见且类型一致
// @Tags 交易记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTransactionRequest true "交易信息"
// @Success 200 {object} Response{data=models.Transaction} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	if !models.IsValidType(req.Type) {
		BadRequest(c, "类型必须为 Income 或 Expense")
		return
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		BadRequest(c, "日期格式错误，应为: 2006-01-02")
		return
	}

	category, ok := resolveCategory(userID, req.CategoryID)
	if !ok {
		BadRequest(c, "无效的类别")
		return
	}

	// 交易类型必须与类别类型一致
	if category.Type != req.Type {
		BadRequest(c, "交易类型与类别类型不一致")
		return
	}

	transaction := models.Transaction{
		UserID:      userID,
		CategoryID:  category.ID,
		Type:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
		Date:        date,
	}

	if err := database.DB.Create(&transaction).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建交易记录失败"))
		return
	}

	database.DB.Preload("Category").First(&transaction, transaction.ID)
	SuccessWithMessage(c, "创建成功", transaction)
}

// List 获取交易记录列表
// @Summary 获取交易记录列表
// @Description 获取当前用户的交易记录，支持分页与类型、类别、日期范围筛选
// @Tags 交易记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Param type query string false "类型筛选 (Income/Expense)"
// @Param category_id query int false "类别筛选"
// @Param start_date query string false "开始日期 (2024-01-01)"
// @Param end_date query string false "结束日期 (2024-12-31)"
// @Success 200 {object} Response{data=PageResponse{list=[]models.Transaction}} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req TransactionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	// 默认分页参数
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 10
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	query := database.DB.Model(&models.Transaction{}).Where("user_id = ?", userID)

	if req.Type != "" {
		query = query.Where("type = ?", req.Type)
	}
	if req.CategoryID > 0 {
		query = query.Where("category_id = ?", req.CategoryID)
	}

	// 日期范围筛选
	if req.StartDate != "" {
		startDate, err := time.ParseInLocation("2006-01-02", req.StartDate, time.Local)
		if err == nil {
			query = query.Where("date >= ?", startDate)
		}
	}
	if req.EndDate != "" {
		endDate, err := time.ParseInLocation("2006-01-02", req.EndDate, time.Local)
		if err == nil {
			// 包含结束日期当天
			endDate = endDate.Add(24*time.Hour - time.Second)
			query = query.Where("date <= ?", endDate)
		}
	}

	var total int64
	query.Count(&total)

	var transactions []models.Transaction
	offset := (req.Page - 1) * req.PageSize
	if err := query.Preload("Category").
		Order("date DESC, id DESC").
		Offset(offset).Limit(req.PageSize).
		Find(&transactions).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	Success(c, PageResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		List:     transactions,
	})
}

// Get 获取单条交易记录
// @Summary 获取单条交易记录
// @Description 根据ID获取交易记录详情
// @Tags 交易记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "交易记录ID"
// @Success 200 {object} Response{data=models.Transaction} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var transaction models.Transaction
	if err := database.DB.Preload("Category").
		Where("id = ? AND user_id = ?", id, userID).
		First(&transaction).Error; err != nil {
		NotFound(c, "记录不存在")
		return
	}

	Success(c, transaction)
}

// Update 更新交易记录
// @Summary 更新交易记录
// @Description 更新指定的交易记录，更新后仍需满足类别可见与类型一致约束
// @Tags 交易记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "交易记录ID"
// @Param request body UpdateTransactionRequest true "交易信息"
// @Success 200 {object} Response{data=models.Transaction} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/transactions/{id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var transaction models.Transaction
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&transaction).Error; err != nil {
		NotFound(c, "记录不存在")
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	// 更新后的目标类型与类别：未提供的字段沿用现值
	targetType := transaction.Type
	if req.Type != "" {
		if !models.IsValidType(req.Type) {
			BadRequest(c, "类型必须为 Income 或 Expense")
			return
		}
		targetType = req.Type
	}
	targetCategoryID := transaction.CategoryID
	if req.CategoryID != nil {
		targetCategoryID = *req.CategoryID
	}

	category, ok := resolveCategory(userID, targetCategoryID)
	if !ok {
		BadRequest(c, "无效的类别")
		return
	}
	if category.Type != targetType {
		BadRequest(c, "交易类型与类别类型不一致")
		return
	}

	updates := map[string]interface{}{
		"type":        targetType,
		"category_id": targetCategoryID,
	}
	if req.Amount != nil {
		if *req.Amount <= 0 {
			BadRequest(c, "金额必须大于 0")
			return
		}
		updates["amount"] = *req.Amount
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Date != "" {
		date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
		if err != nil {
			BadRequest(c, "日期格式错误，应为: 2006-01-02")
			return
		}
		updates["date"] = date
	}

	if err := database.DB.Model(&transaction).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新失败"))
		return
	}

	database.DB.Preload("Category").First(&transaction, transaction.ID)
	SuccessWithMessage(c, "更新成功", transaction)
}

// Delete 删除交易记录
// @Summary 删除交易记录
// @Description 删除指定的交易记录
// @Tags 交易记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "交易记录ID"
// @Success 200 {object} Response "删除成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var transaction models.Transaction
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&transaction).Error; err != nil {
		NotFound(c, "记录不存在")
		return
	}

	if err := database.DB.Delete(&transaction).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}

	SuccessWithMessage(c, "删除成功", nil)
}
