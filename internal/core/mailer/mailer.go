package mailer

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer 注册欢迎邮件。尽力而为：失败记日志，绝不向调用方冒泡
type Mailer struct {
	dialer  *gomail.Dialer
	from    string
	appName string
	enabled bool
	log     *zap.Logger
}

func New(host string, port int, username, password, from, appName string, enabled bool, l *zap.Logger) *Mailer {
	return &Mailer{
		dialer:  gomail.NewDialer(host, port, username, password),
		from:    from,
		appName: appName,
		enabled: enabled,
		log:     l,
	}
}

// SendWelcome 在独立 goroutine 里调用
func (m *Mailer) SendWelcome(to, firstName, username string) {
	if !m.enabled {
		return
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("Welcome to %s!", m.appName))
	msg.SetBody("text/plain", fmt.Sprintf(
		"Hello %s,\n\nThank you for registering at %s. Your account has been created successfully!\n\nUsername: %s\n\nYou can now login and start exploring our collection.\n\nBest regards,\nThe %s Team",
		firstName, m.appName, username, m.appName,
	))
	if err := m.dialer.DialAndSend(msg); err != nil {
		m.log.Warn("welcome mail failed", zap.String("to", to), zap.Error(err))
	}
}
