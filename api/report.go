package api

import (
	"net/http"
	"time"

	"budget/database"
	"budget/middleware"
	"budget/models"
	"budget/service"

	"github.com/gin-gonic/gin"
)

// ReportHandler 报表处理器
type ReportHandler struct{}

// NewReportHandler 创建报表处理器
func NewReportHandler() *ReportHandler {
	return &ReportHandler{}
}

// ReportResponse 报表响应
type ReportResponse struct {
	Monthly       service.PeriodSummary  `json:"monthly"`
	Yearly        service.PeriodSummary  `json:"yearly"`
	TopCategories []service.CategoryStat `json:"top_categories"`
	Trend         []service.TrendPoint   `json:"trend"`
}

// loadUserTransactions 加载用户全部交易（含类别）
func loadUserTransactions(c *gin.Context, userID uint) ([]models.Transaction, bool) {
	var transactions []models.Transaction
	if err := database.DB.Preload("Category").
		Where("user_id = ?", userID).
		Find(&transactions).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return nil, false
	}
	return transactions, true
}

// Get 获取收支报表
// @Summary 获取收支报表
// @Description 返回当前月/年的收支汇总、支出类别 Top5 与最近 6 个月支出趋势
// @Tags 报表
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=ReportResponse} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/reports [get]
func (h *ReportHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	transactions, ok := loadUserTransactions(c, userID)
	if !ok {
		return
	}

	now := time.Now()
	Success(c, ReportResponse{
		Monthly:       service.MonthlySummary(transactions, now),
		Yearly:        service.YearlySummary(transactions, now),
		TopCategories: service.TopCategories(transactions, 5),
		Trend:         service.MonthlyTrend(transactions, now, 6),
	})
}

// TrendChart 获取支出趋势图
// @Summary 获取支出趋势图
// @Description 将最近 6 个月支出趋势渲染为 PNG 柱状图
// @Tags 报表
// @Accept json
// @Produce image/png
// @Security BearerAuth
// @Success 200 {file} file "PNG 图片"
// @Failure 401 {object} Response "未授权"
// @Failure 500 {object} Response "渲染失败"
// @Router /api/v1/reports/trend.png [get]
func (h *ReportHandler) TrendChart(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	transactions, ok := loadUserTransactions(c, userID)
	if !ok {
		return
	}

	points := service.MonthlyTrend(transactions, time.Now(), 6)
	png, err := service.RenderTrendChart(points)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "渲染趋势图失败"))
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
