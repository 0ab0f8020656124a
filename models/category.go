package models

import (
	"time"
)

// 收支类型常量，类别与交易共用
const (
	TypeIncome  = "Income"
	TypeExpense = "Expense"
)

// IsValidType 校验收支类型取值
func IsValidType(t string) bool {
	return t == TypeIncome || t == TypeExpense
}

// Category 收支类别
// UserID 为 nil 表示全局类别：初始化时播种、所有用户共享、不可删除
type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null;index"`
	Type      string    `json:"type" gorm:"size:20;not null;index"` // Income / Expense
	UserID    *uint     `json:"user_id" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      *User     `json:"-" gorm:"foreignKey:UserID"`
}

// TableName 设置表名
func (Category) TableName() string {
	return "categories"
}

// IsGlobal 是否为全局共享类别
func (c *Category) IsGlobal() bool {
	return c.UserID == nil
}

// GlobalCategorySeed 初始化时播种的 11 个全局类别
func GlobalCategorySeed() []Category {
	names := []struct {
		Name string
		Type string
	}{
		{"Salary", TypeIncome},
		{"Freelance", TypeIncome},
		{"Business", TypeIncome},
		{"Food", TypeExpense},
		{"Rent", TypeExpense},
		{"Transport", TypeExpense},
		{"Entertainment", TypeExpense},
		{"Bills", TypeExpense},
		{"Shopping", TypeExpense},
		{"Health", TypeExpense},
		{"Other", TypeExpense},
	}
	cats := make([]Category, 0, len(names))
	for _, n := range names {
		cats = append(cats, Category{Name: n.Name, Type: n.Type})
	}
	return cats
}
