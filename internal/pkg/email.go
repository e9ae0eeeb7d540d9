package pkg

import (
	"context"
	"crypto/tls"
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string // 发件人邮箱
	Password string // 授权码/密码
	From     string // 显示的发件人，可与 Username 相同
}

// Enabled 未配置 Host 时不发送邮件
func (c SMTPConfig) Enabled() bool { return c.Host != "" }

// Mailer 邮件发送
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: m.cfg.Host}
	return d.DialAndSend(msg)
}

// NopMailer 未配置 SMTP 时使用
type NopMailer struct{}

func (NopMailer) Send(context.Context, string, string, string) error { return nil }

func WelcomeHTML(name string) string {
	return fmt.Sprintf(`<p>Hi %s,</p><p>Your account is ready. Follow people, share posts and check your activity feed.</p>`, html.EscapeString(name))
}
