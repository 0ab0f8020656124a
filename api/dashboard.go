package api

import (
	"budget/database"
	"budget/middleware"
	"budget/models"
	"budget/service"

	"github.com/gin-gonic/gin"
)

// DashboardHandler 首页汇总处理器
type DashboardHandler struct{}

// NewDashboardHandler 创建首页汇总处理器
func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

// DashboardResponse 首页汇总响应
type DashboardResponse struct {
	TotalIncome        float64                `json:"total_income"`
	TotalExpense       float64                `json:"total_expense"`
	Balance            float64                `json:"balance"`
	RecentTransactions []models.Transaction   `json:"recent_transactions"`
	ExpensesByCategory []service.CategoryStat `json:"expenses_by_category"`
}

// Get 获取首页汇总
// @Summary 获取首页汇总
// @Description 返回当前用户的总收入、总支出、结余、最近 10 条交易与按类别汇总的支出
// @Tags 首页
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=DashboardResponse} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/dashboard [get]
func (h *DashboardHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var transactions []models.Transaction
	if err := database.DB.Preload("Category").
		Where("user_id = ?", userID).
		Find(&transactions).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	summary := service.Summarize(transactions)

	Success(c, DashboardResponse{
		TotalIncome:        summary.TotalIncome,
		TotalExpense:       summary.TotalExpense,
		Balance:            summary.Balance,
		RecentTransactions: service.RecentTransactions(transactions, 10),
		ExpensesByCategory: service.ExpensesByCategory(transactions),
	})
}
