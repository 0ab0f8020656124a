package models

import (
	"time"
)

// User 用户模型
// Email 以小写形式存储，保证唯一索引对大小写不敏感
type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Username    string    `json:"username" gorm:"uniqueIndex;size:100;not null"`
	Email       string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Password    string    `json:"-" gorm:"size:255;not null"` // SHA-256 摘要的 base64 编码
	FullName    *string   `json:"full_name,omitempty" gorm:"size:100"`
	PhoneNumber *string   `json:"phone_number,omitempty" gorm:"size:30"`
	Address     *string   `json:"address,omitempty" gorm:"size:255"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName 设置表名
func (User) TableName() string {
	return "users"
}
