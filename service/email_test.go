package service

import (
	"errors"
	"testing"
	"time"

	"budget/config"
	"budget/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

func newTestEmailService(enabled bool) (*EmailService, *[]*gomail.Message) {
	s := NewEmailService(&config.EmailConfig{Enabled: enabled, Username: "bot@example.com", From: "记账本"})
	var sent []*gomail.Message
	s.send = func(m *gomail.Message) error {
		sent = append(sent, m)
		return nil
	}
	return s, &sent
}

func TestSendWelcomeEmail(t *testing.T) {
	s, sent := newTestEmailService(true)
	require.NoError(t, s.SendWelcomeEmail("a@x.com", "<张三>"))
	require.Len(t, *sent, 1)

	m := (*sent)[0]
	assert.Equal(t, []string{"a@x.com"}, m.GetHeader("To"))

	body := s.generateWelcomeBody("<张三>")
	assert.Contains(t, body, "&lt;张三&gt;")
	assert.NotContains(t, body, "<张三>")
}

func TestSendEmail_Disabled(t *testing.T) {
	s, sent := newTestEmailService(false)
	assert.ErrorIs(t, s.SendWelcomeEmail("a@x.com", "a"), ErrEmailDisabled)
	assert.ErrorIs(t, s.SendMonthlyReport("a@x.com", "a", &MonthlyReport{}), ErrEmailDisabled)
	assert.Empty(t, *sent)
}

func TestSendEmail_Failure(t *testing.T) {
	s, _ := newTestEmailService(true)
	s.send = func(*gomail.Message) error { return errors.New("connection refused") }

	err := s.SendWelcomeEmail("a@x.com", "a")
	assert.ErrorContains(t, err, "connection refused")
}

func TestGenerateMonthlyReportBody(t *testing.T) {
	s, _ := newTestEmailService(true)
	body := s.generateMonthlyReportBody("李四", &MonthlyReport{
		Month: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Summary: models.MonthSummary{
			TotalIncome:  decimal.NewFromInt(1000),
			TotalExpense: decimal.RequireFromString("250.5"),
			Balance:      decimal.RequireFromString("749.5"),
			Expenses:     []models.CategoryTotal{{Name: "food", Total: decimal.RequireFromString("250.5")}},
			Days:         make([]models.DailyTotal, 3),
		},
	})
	assert.Contains(t, body, "2024年05月")
	assert.Contains(t, body, "李四")
	assert.Contains(t, body, "250.50")
	assert.Contains(t, body, "749.50")
	assert.Contains(t, body, "本月支出：<strong>250.50</strong>")
	assert.Contains(t, body, "本月共有 3 天")
	assert.Contains(t, body, "<td>food</td>")
	assert.Contains(t, body, "暂无记录")
	assert.Contains(t, body, "width: 100%;")
}
