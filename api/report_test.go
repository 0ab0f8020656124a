package api

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"budget/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportHandler_Get(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	initAPITestConfig()
	defer func() { config.GlobalConfig = nil }()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WithArgs(uint(1)).
		WillReturnRows(transactionRows().
			AddRow(1, 1, 3, "Income", 1000, "", now, now, now).
			AddRow(2, 1, 4, "Expense", 42.5, "午餐", now, now, now))

	mock.ExpectQuery("SELECT .* FROM `categories`").
		WillReturnRows(categoryRows().
			AddRow(3, "Salary", "Income", nil, now, now).
			AddRow(4, "Food", "Expense", nil, now, now))

	router := authedRouter(1, "user1")
	h := NewReportHandler()
	router.GET("/reports", h.Get)

	req := httptest.NewRequest("GET", "/reports", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})

	monthly := data["monthly"].(map[string]interface{})
	assert.InDelta(t, 1000, monthly["income"].(float64), 0.001)
	assert.InDelta(t, 42.5, monthly["expense"].(float64), 0.001)

	yearly := data["yearly"].(map[string]interface{})
	assert.InDelta(t, 1000, yearly["income"].(float64), 0.001)

	top := data["top_categories"].([]interface{})
	require.Len(t, top, 1)
	assert.Equal(t, "Food", top[0].(map[string]interface{})["category"])

	// 趋势固定 6 个月，最早的在前
	trend := data["trend"].([]interface{})
	require.Len(t, trend, 6)
	last := trend[5].(map[string]interface{})
	assert.Equal(t, now.Format("Jan 2006"), last["month"])
	assert.InDelta(t, 42.5, last["expense"].(float64), 0.001)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportHandler_TrendChart(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	initAPITestConfig()
	defer func() { config.GlobalConfig = nil }()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WithArgs(uint(1)).
		WillReturnRows(transactionRows().
			AddRow(1, 1, 4, "Expense", 42.5, "午餐", now, now, now))

	mock.ExpectQuery("SELECT .* FROM `categories`").
		WillReturnRows(categoryRows().
			AddRow(4, "Food", "Expense", nil, now, now))

	router := authedRouter(1, "user1")
	h := NewReportHandler()
	router.GET("/reports/trend.png", h.TrendChart)

	req := httptest.NewRequest("GET", "/reports/trend.png", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	// PNG 魔数
	assert.Equal(t, "\x89PNG", w.Body.String()[:4])
	require.NoError(t, mock.ExpectationsWereMet())
}
