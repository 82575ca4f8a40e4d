package pkg

import (
	"crypto/tls"
	"fmt"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string // 发件人邮箱
	Password string // 授权码/密码
	From     string // 显示的发件人，可与 Username 相同
}

func SendEmail(cfg SMTPConfig, to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	return d.DialAndSend(m)
}

// ClaimNoticeHTML 有人认领名额时给单主发的通知邮件
func ClaimNoticeHTML(claimantName string, count int) string {
	return fmt.Sprintf(`<p>您好，</p><p><b>%s</b> 认领了您的 <b>%d</b> 个帮忙名额，正在确认中。</p><p>请登录系统查看详情。</p>`, claimantName, count)
}

// CompleteNoticeHTML 对方标记完成时给单主发的通知邮件
func CompleteNoticeHTML(counterpartyName, serviceLabel string) string {
	return fmt.Sprintf(`<p>您好，</p><p><b>%s</b> 已将帮忙标记为完成，优惠类型：<b>%s</b>。</p><p>请登录系统确认。</p>`, counterpartyName, serviceLabel)
}
