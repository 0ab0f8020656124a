package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"budget/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transactionRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "category_id", "type", "amount", "description", "date", "created_at", "updated_at"})
}

func TestTransactionHandler_Create(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	initAPITestConfig()
	defer func() { config.GlobalConfig = nil }()

	now := time.Now()

	// 类别可见且类型一致
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WithArgs(uint(4), uint(1)).
		WillReturnRows(categoryRows().
			AddRow(4, "Food", "Expense", nil, now, now))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `transactions`").
		WillReturnResult(sqlmock.NewResult(10, 1))
	mock.ExpectCommit()

	// 创建后重新加载（含类别）
	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WillReturnRows(transactionRows().
			AddRow(10, 1, 4, "Expense", 42.50, "午餐", now, now, now))
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WillReturnRows(categoryRows().
			AddRow(4, "Food", "Expense", nil, now, now))

	router := authedRouter(1, "user1")
	h := NewTransactionHandler()
	router.POST("/transactions", h.Create)

	body := `{"category_id":4,"type":"Expense","amount":42.50,"description":"午餐","date":"2024-01-15"}`
	req := httptest.NewRequest("POST", "/transactions", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(42.50), data["amount"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionHandler_Create_TypeMismatch(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	initAPITestConfig()
	defer func() { config.GlobalConfig = nil }()

	now := time.Now()

	// Salary 是收入类别，不能用于支出
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WithArgs(uint(3), uint(1)).
		WillReturnRows(categoryRows().
			AddRow(3, "Salary", "Income", nil, now, now))

	router := authedRouter(1, "user1")
	h := NewTransactionHandler()
	router.POST("/transactions", h.Create)

	body := `{"category_id":3,"type":"Expense","amount":10,"date":"2024-01-15"}`
	req := httptest.NewRequest("POST", "/transactions", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "交易类型与类别类型不一致")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionHandler_Create_CategoryNotVisible(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	initAPITestConfig()
	defer func() { config.GlobalConfig = nil }()

	// 其他用户的类别查不到
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WithArgs(uint(77), uint(1)).
		WillReturnRows(categoryRows())

	router := authedRouter(1, "user1")
	h := NewTransactionHandler()
	router.POST("/transactions", h.Create)

	body := `{"category_id":77,"type":"Expense","amount":10,"date":"2024-01-15"}`
	req := httptest.NewRequest("POST", "/transactions", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "无效的类别")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionHandler_List(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	initAPITestConfig()
	defer func() { config.GlobalConfig = nil }()

	now := time.Now()

	mock.ExpectQuery("SELECT count.* FROM `transactions`").
		WithArgs(uint(1), "Expense").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WithArgs(uint(1), "Expense").
		WillReturnRows(transactionRows().
			AddRow(2, 1, 4, "Expense", 30, "晚餐", now, now, now).
			AddRow(1, 1, 4, "Expense", 42.5, "午餐", now.Add(-24*time.Hour), now, now))

	mock.ExpectQuery("SELECT .* FROM `categories`").
		WillReturnRows(categoryRows().
			AddRow(4, "Food", "Expense", nil, now, now))

	router := authedRouter(1, "user1")
	h := NewTransactionHandler()
	router.GET("/transactions", h.List)

	req := httptest.NewRequest("GET", "/transactions?type=Expense", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["total"])
	assert.Equal(t, float64(1), data["page"])
	assert.Len(t, data["list"], 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionHandler_Get_NotOwned(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	initAPITestConfig()
	defer func() { config.GlobalConfig = nil }()

	// 其他用户的记录按 user_id 过滤后查不到
	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WithArgs(uint64(9), uint(1)).
		WillReturnRows(transactionRows())

	router := authedRouter(1, "user1")
	h := NewTransactionHandler()
	router.GET("/transactions/:id", h.Get)

	req := httptest.NewRequest("GET", "/transactions/9", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 404, w.Code)
	assert.Contains(t, w.Body.String(), "记录不存在")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionHandler_Delete(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	initAPITestConfig()
	defer func() { config.GlobalConfig = nil }()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WithArgs(uint64(3), uint(1)).
		WillReturnRows(transactionRows().
			AddRow(3, 1, 4, "Expense", 10, "", now, now, now))

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `transactions`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := authedRouter(1, "user1")
	h := NewTransactionHandler()
	router.DELETE("/transactions/:id", h.Delete)

	req := httptest.NewRequest("DELETE", "/transactions/3", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "删除成功")
	require.NoError(t, mock.ExpectationsWereMet())
}
