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

func TestDashboardHandler_Get(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	initAPITestConfig()
	defer func() { config.GlobalConfig = nil }()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WithArgs(uint(1)).
		WillReturnRows(transactionRows().
			AddRow(1, 1, 3, "Income", 1000, "", now, now, now).
			AddRow(2, 1, 4, "Expense", 42.5, "午餐", now, now, now).
			AddRow(3, 1, 4, "Expense", 30, "晚餐", now, now, now))

	mock.ExpectQuery("SELECT .* FROM `categories`").
		WillReturnRows(categoryRows().
			AddRow(3, "Salary", "Income", nil, now, now).
			AddRow(4, "Food", "Expense", nil, now, now))

	router := authedRouter(1, "user1")
	h := NewDashboardHandler()
	router.GET("/dashboard", h.Get)

	req := httptest.NewRequest("GET", "/dashboard", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})

	// 结余 = 收入 − 支出
	assert.InDelta(t, 1000, data["total_income"].(float64), 0.001)
	assert.InDelta(t, 72.5, data["total_expense"].(float64), 0.001)
	assert.InDelta(t, 927.5, data["balance"].(float64), 0.001)

	assert.Len(t, data["recent_transactions"], 3)

	byCategory := data["expenses_by_category"].([]interface{})
	require.Len(t, byCategory, 1)
	food := byCategory[0].(map[string]interface{})
	assert.Equal(t, "Food", food["category"])
	assert.InDelta(t, 72.5, food["amount"].(float64), 0.001)
	assert.Equal(t, float64(2), food["count"])

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDashboardHandler_Get_Empty(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	initAPITestConfig()
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WithArgs(uint(1)).
		WillReturnRows(transactionRows())

	router := authedRouter(1, "user1")
	h := NewDashboardHandler()
	router.GET("/dashboard", h.Get)

	req := httptest.NewRequest("GET", "/dashboard", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Zero(t, data["total_income"].(float64))
	assert.Zero(t, data["balance"].(float64))
	require.NoError(t, mock.ExpectationsWereMet())
}
