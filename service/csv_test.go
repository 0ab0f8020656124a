package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCSVLine(t *testing.T) {
	// 无引号：n 个逗号产出 n+1 个字段
	assert.Equal(t, []string{"a", "b", "c"}, ParseCSVLine("a,b,c"))
	assert.Equal(t, []string{""}, ParseCSVLine(""))
	assert.Equal(t, []string{"", ""}, ParseCSVLine(","))

	// 引号内的逗号不分隔字段
	assert.Equal(t, []string{"a", "b,c", "d"}, ParseCSVLine(`a,"b,c",d`))

	// "" 还原为一个字面引号
	assert.Equal(t, []string{"a", `b"c`, "d"}, ParseCSVLine(`a,"b""c",d`))

	// 整段引号包裹
	assert.Equal(t, []string{"hello, world"}, ParseCSVLine(`"hello, world"`))

	// 未闭合引号：剩余内容全部归入当前字段
	assert.Equal(t, []string{"a", "b,c"}, ParseCSVLine(`a,"b,c`))
}

func TestParseCSVLine_FieldCount(t *testing.T) {
	for n := 0; n < 5; n++ {
		line := strings.Repeat(",", n)
		assert.Len(t, ParseCSVLine(line), n+1, fmt.Sprintf("%d 个逗号", n))
	}
}

func TestEscapeCSVField(t *testing.T) {
	assert.Equal(t, "plain", EscapeCSVField("plain"))
	assert.Equal(t, `"a,b"`, EscapeCSVField("a,b"))
	assert.Equal(t, `"say ""hi"""`, EscapeCSVField(`say "hi"`))
	assert.Equal(t, "\"line\nbreak\"", EscapeCSVField("line\nbreak"))
}

func TestEscapeParseRoundTrip(t *testing.T) {
	fields := []string{"2024-01-01", "Income", "1000.00", "Salary", `Jan "pay", first half`}
	var escaped []string
	for _, f := range fields {
		escaped = append(escaped, EscapeCSVField(f))
	}
	line := strings.Join(escaped, ",")
	assert.Equal(t, fields, ParseCSVLine(line))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "42.50", FormatAmount(42.5))
	assert.Equal(t, "1000.00", FormatAmount(1000))
	assert.Equal(t, "0.99", FormatAmount(0.99))
}
