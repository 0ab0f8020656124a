package service

import (
	"crypto/sha256"
	"encoding/base64"
)

// HashPassword 对密码做 SHA-256 摘要并 base64 编码
// 确定性哈希：同一密码总是得到同一摘要，登录时重新哈希后按字符串精确比较
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// VerifyPassword 校验密码与存储摘要是否一致
func VerifyPassword(password, digest string) bool {
	return HashPassword(password) == digest
}
