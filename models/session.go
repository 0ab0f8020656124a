package models

import "time"

// Session 服务端会话，通过 HttpOnly Cookie 中的会话 ID 寻址
// ExpiresAt 随每次请求滑动续期（空闲超时 30 分钟）
type Session struct {
	ID        string    `json:"id" gorm:"primaryKey;size:64"` // UUID
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Username  string    `json:"username" gorm:"size:100;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

// TableName 设置表名
func (Session) TableName() string {
	return "sessions"
}

// IsExpired 会话是否已过期
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
