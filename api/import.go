package api

import (
	"bufio"
	"strconv"
	"strings"
	"time"

	"budget/database"
	"budget/middleware"
	"budget/models"
	"budget/service"

	"github.com/gin-gonic/gin"
)

// ImportHandler 导入处理器
type ImportHandler struct{}

// NewImportHandler 创建导入处理器
func NewImportHandler() *ImportHandler {
	return &ImportHandler{}
}

// ImportResult 导入结果
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ImportCSV 导入交易记录
// @Summary 导入交易记录
// @Description 上传 CSV 文件批量导入交易记录。首行视为表头丢弃；格式非法的行跳过并计数；
// @Description 类别按名称和类型在可见范围内精确匹配，不存在时自动创建为用户自建类别。
// @Description 按物理行解析，带引号字段内的换行会被误拆为两行，该行会被跳过。
// @Tags 导入
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV 文件"
// @Success 200 {object} Response{data=ImportResult} "导入完成"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/import/csv [post]
func (h *ImportHandler) ImportCSV(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "请上传 CSV 文件")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		BadRequest(c, SafeErrorMessage(err, "无法读取上传文件"))
		return
	}
	defer file.Close()

	var result ImportResult
	var staged []models.Transaction

	// 同一文件内相同 (名称, 类型) 的类别只解析/创建一次
	categoryCache := make(map[string]*models.Category)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	firstLine := true
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")

		// 首行为表头，直接丢弃
		if firstLine {
			firstLine = false
			continue
		}
		// 空数据行计入跳过
		if strings.TrimSpace(line) == "" {
			result.Skipped++
			continue
		}

		fields := service.ParseCSVLine(line)
		if len(fields) < 5 {
			result.Skipped++
			continue
		}

		date, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(fields[0]), time.Local)
		if err != nil {
			result.Skipped++
			continue
		}

		txType := strings.TrimSpace(fields[1])
		if !models.IsValidType(txType) {
			result.Skipped++
			continue
		}

		// 金额只要求可解析，不限制符号（冲正、退款等负数记录照常导入）
		amount, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
		if err != nil {
			result.Skipped++
			continue
		}

		categoryName := strings.TrimSpace(fields[3])
		if categoryName == "" {
			result.Skipped++
			continue
		}

		category, err := h.resolveOrCreateCategory(userID, categoryName, txType, categoryCache)
		if err != nil {
			result.Skipped++
			continue
		}

		staged = append(staged, models.Transaction{
			UserID:      userID,
			CategoryID:  category.ID,
			Type:        txType,
			Amount:      amount,
			Description: strings.TrimSpace(fields[4]),
			Date:        date,
		})
		result.Imported++
	}

	if err := scanner.Err(); err != nil {
		BadRequest(c, SafeErrorMessage(err, "读取文件失败"))
		return
	}

	// 逐行校验通过的记录统一入库
	if len(staged) > 0 {
		if err := database.DB.Create(&staged).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "保存导入记录失败"))
			return
		}
	}

	SuccessWithMessage(c, "导入完成", result)
}

// resolveOrCreateCategory 按名称和类型在可见范围内精确匹配类别，不存在时创建为用户自建类别
func (h *ImportHandler) resolveOrCreateCategory(userID uint, name, txType string, cache map[string]*models.Category) (*models.Category, error) {
	key := txType + "\x00" + name
	if cat, ok := cache[key]; ok {
		return cat, nil
	}

	var category models.Category
	err := database.DB.
		Where("(user_id IS NULL OR user_id = ?) AND type = ? AND name = ?", userID, txType, name).
		First(&category).Error
	if err == nil {
		cache[key] = &category
		return &category, nil
	}

	category = models.Category{
		Name:   name,
		Type:   txType,
		UserID: &userID,
	}
	if err := database.DB.Create(&category).Error; err != nil {
		return nil, err
	}

	cache[key] = &category
	return &category, nil
}
