package service

import (
	"strconv"
	"strings"
)

// ParseCSVLine 解析单条 CSV 记录
// 从左到右扫描，维护 inQuotes 状态：引号内的 "" 还原为一个字面引号，
// 引号外的逗号分隔字段，行尾追加最后一个字段（空行也会产出一个空字段）。
// 注意：按物理行解析，带引号字段内的换行不在本层处理（调用方按行读取）
func ParseCSVLine(line string) []string {
	var result []string
	var sb strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				sb.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			result = append(result, sb.String())
			sb.Reset()
		default:
			sb.WriteByte(ch)
		}
	}

	result = append(result, sb.String())
	return result
}

// EscapeCSVField 转义 CSV 字段
// 含逗号、引号或换行的字段用引号包裹，内部引号加倍
func EscapeCSVField(value string) string {
	if strings.ContainsAny(value, ",\"\n\r") {
		return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
	}
	return value
}

// FormatAmount 金额格式化为两位小数的不变格式（货币精度）
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
