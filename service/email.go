package service

import (
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"budget/config"
	"budget/models"

	"gopkg.in/gomail.v2"
)

// ErrEmailDisabled 邮件服务未启用
var ErrEmailDisabled = errors.New("邮件服务未启用，请配置 BUDGET_EMAIL_ENABLED=true")

// EmailService 邮件服务
type EmailService struct {
	cfg  *config.EmailConfig
	send func(m *gomail.Message) error
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	s := &EmailService{cfg: cfg}
	s.send = s.dialAndSend
	return s
}

// Enabled 是否已启用邮件
func (s *EmailService) Enabled() bool {
	return s.cfg != nil && s.cfg.Enabled
}

// MonthlyReport 月度汇总邮件的数据，金额只统计 Month 当月
type MonthlyReport struct {
	Month   time.Time
	Summary models.MonthSummary
}

// SendWelcomeEmail 发送注册欢迎邮件
func (s *EmailService) SendWelcomeEmail(toEmail, name string) error {
	if !s.Enabled() {
		return ErrEmailDisabled
	}
	return s.sendEmail(toEmail, "【记账本】欢迎注册", s.generateWelcomeBody(name))
}

// SendMonthlyReport 发送月度收支汇总邮件
func (s *EmailService) SendMonthlyReport(toEmail, name string, report *MonthlyReport) error {
	if !s.Enabled() {
		return ErrEmailDisabled
	}
	subject := fmt.Sprintf("【记账本】%s 收支汇总", report.Month.Format("2006年01月"))
	return s.sendEmail(toEmail, subject, s.generateMonthlyReportBody(name, report))
}

func (s *EmailService) generateWelcomeBody(name string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: 'Microsoft YaHei', Arial, sans-serif; padding: 20px;">
    <h2>💰 欢迎使用记账本</h2>
    <p>尊敬的 <strong>%s</strong>，您好！</p>
    <p>您的账号已创建，系统已为您准备好常用的收支类别，现在就可以开始记账了。</p>
    <p style="color: #666;">此邮件由系统自动发送，请勿回复</p>
</body>
</html>
`, html.EscapeString(name))
}

func (s *EmailService) generateMonthlyReportBody(name string, r *MonthlyReport) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: 'Microsoft YaHei', Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; }
        .header { background: linear-gradient(135deg, #2563eb, #1d4ed8); color: white; padding: 30px; text-align: center; }
        .content { padding: 30px; }
        table { width: 100%%; border-collapse: collapse; margin: 10px 0 20px; }
        td, th { border-bottom: 1px solid #eee; padding: 8px; text-align: left; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header"><h1>💰 %s 收支汇总</h1></div>
        <div class="content">
            <p>尊敬的 <strong>%s</strong>，您好！</p>
            <p>本月收入：<strong>%s</strong>　本月支出：<strong>%s</strong>　当前余额：<strong>%s</strong></p>
            <p>本月共有 %d 天有记账记录。</p>
            <h3>本月支出类别</h3>
            %s
            <h3>本月收入类别</h3>
            %s
        </div>
        <div class="footer">
            <p>此邮件由系统自动发送，请勿回复</p>
        </div>
    </div>
</body>
</html>
`,
		r.Month.Format("2006年01月"),
		html.EscapeString(name),
		r.Summary.TotalIncome.StringFixed(2),
		r.Summary.TotalExpense.StringFixed(2),
		r.Summary.Balance.StringFixed(2),
		len(r.Summary.Days),
		categoryTable(r.Summary.Expenses),
		categoryTable(r.Summary.Incomes),
	)
}

func categoryTable(list []models.CategoryTotal) string {
	if len(list) == 0 {
		return "<p>暂无记录</p>"
	}
	var b strings.Builder
	b.WriteString("<table><tr><th>类别</th><th>金额</th></tr>")
	for _, c := range list {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td></tr>", html.EscapeString(c.Name), c.Total.StringFixed(2))
	}
	b.WriteString("</table>")
	return b.String()
}

// sendEmail 发送邮件
func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.send(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}
	return nil
}

func (s *EmailService) dialAndSend(m *gomail.Message) error {
	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	return d.DialAndSend(m)
}
