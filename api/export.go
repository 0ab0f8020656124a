package api

import (
	"fmt"
	"net/http"
	"strings"

	"budget/database"
	"budget/middleware"
	"budget/models"
	"budget/service"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler 导出处理器
type ExportHandler struct{}

// NewExportHandler 创建导出处理器
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

// csvHeader 导出文件固定表头
const csvHeader = "Date,Type,Amount,Category,Description"

// exportTransactions 查询待导出的交易（含类别，日期倒序）
func exportTransactions(c *gin.Context, userID uint) ([]models.Transaction, bool) {
	var transactions []models.Transaction
	if err := database.DB.Preload("Category").
		Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Find(&transactions).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询数据失败"))
		return nil, false
	}
	return transactions, true
}

// ExportCSV 导出交易记录为 CSV
// @Summary 导出交易记录为 CSV
// @Description 导出当前用户的全部交易记录，表头固定为 Date,Type,Amount,Category,Description
// @Tags 导出
// @Accept json
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {file} file "CSV 文件"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	transactions, ok := exportTransactions(c, userID)
	if !ok {
		return
	}

	var sb strings.Builder
	sb.WriteString(csvHeader)
	sb.WriteString("\n")

	for _, t := range transactions {
		fields := []string{
			t.Date.Format("2006-01-02"),
			t.Type,
			service.FormatAmount(t.Amount),
			service.EscapeCSVField(t.CategoryName()),
			service.EscapeCSVField(t.Description),
		}
		sb.WriteString(strings.Join(fields, ","))
		sb.WriteString("\n")
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", "attachment; filename=transactions.csv")
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(sb.String()))
}

// ExportExcel 导出交易记录为 Excel
// @Summary 导出交易记录为 Excel
// @Description 导出当前用户的全部交易记录为 xlsx 文件，列与 CSV 导出一致
// @Tags 导出
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file "Excel 文件"
// @Failure 401 {object} Response "未授权"
// @Failure 500 {object} Response "生成失败"
// @Router /api/v1/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	transactions, ok := exportTransactions(c, userID)
	if !ok {
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Transactions"
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 10)
	f.SetColWidth(sheetName, "C", "C", 12)
	f.SetColWidth(sheetName, "D", "D", 16)
	f.SetColWidth(sheetName, "E", "E", 40)

	headers := []string{"Date", "Type", "Amount", "Category", "Description"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, t := range transactions {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), t.Date.Format("2006-01-02"))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), t.Type)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), t.Amount)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), t.CategoryName())
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), t.Description)
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=transactions.xlsx")

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, SafeErrorMessage(err, "生成 Excel 失败"))
		return
	}
}
