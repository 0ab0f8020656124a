package service

import (
	"testing"

	"budget/config"

	"github.com/stretchr/testify/assert"
)

func newTestEmailService() *EmailService {
	return NewEmailService(&config.EmailConfig{})
}

func TestGenerateWelcomeEmailBody(t *testing.T) {
	s := newTestEmailService()
	body := s.generateWelcomeEmailBody("张三")
	assert.Contains(t, body, "张三")
	assert.Contains(t, body, "欢迎使用记账系统")
}

func TestGenerateResetEmailBody(t *testing.T) {
	s := newTestEmailService()
	body := s.generateResetEmailBody("李四", "888999")
	assert.Contains(t, body, "李四")
	assert.Contains(t, body, "888999")
	assert.Contains(t, body, "密码重置")
	assert.Contains(t, body, "10 分钟")
}

func TestSendEmailDisabled(t *testing.T) {
	s := newTestEmailService()
	assert.Error(t, s.SendWelcomeEmail("a@example.com", "张三"))
	assert.Error(t, s.SendPasswordResetEmail("a@example.com", "张三", "123456"))
}
