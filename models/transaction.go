package models

import (
	"time"
)

// Transaction 交易记录
// Type 必须与所引用类别的 Type 一致；类别必须是全局的或属于同一用户
type Transaction struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"index;not null"`
	CategoryID  uint      `json:"category_id" gorm:"index;not null"`
	Type        string    `json:"type" gorm:"size:20;not null"` // Income / Expense
	Amount      float64   `json:"amount" gorm:"type:decimal(18,2);not null"`
	Description string    `json:"description" gorm:"size:500"`
	Date        time.Time `json:"date" gorm:"not null;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	User        User      `json:"-" gorm:"foreignKey:UserID"`
	Category    Category  `json:"category" gorm:"foreignKey:CategoryID"`
}

// TableName 设置表名
func (Transaction) TableName() string {
	return "transactions"
}

// CategoryName 返回类别名称，类别缺失时返回 Unknown
func (t *Transaction) CategoryName() string {
	if t.Category.Name == "" {
		return "Unknown"
	}
	return t.Category.Name
}
