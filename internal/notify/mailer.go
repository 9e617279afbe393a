package notify

import (
	"log"

	"github.com/proplan-dev/proplan/internal/config"
	"gopkg.in/gomail.v2"
)

// Mailer delivers outbound mail on a best-effort basis. Delivery
// failures are logged and swallowed; a missing relay host turns every
// send into a logged no-op. Callers must never fail because of it.
type Mailer struct {
	host     string
	port     int
	user     string
	password string
	useTLS   bool
	from     string
}

func NewMailer(cfg config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		useTLS:   cfg.SMTPTLS,
		from:     cfg.MailFrom,
	}
}

// Send dispatches the message in a detached goroutine and returns
// immediately.
func (m *Mailer) Send(to, subject, body string) {
	if m == nil {
		return
	}

	if m.host == "" || m.port == 0 {
		log.Printf("email skipped (no relay configured) to=%s subject=%q", to, subject)
		return
	}

	go func() {
		if err := m.send(to, subject, body); err != nil {
			log.Printf("email failed to=%s subject=%q: %v", to, subject, err)
			return
		}
		log.Printf("email sent to=%s subject=%q", to, subject)
	}()
}

func (m *Mailer) send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(m.host, m.port, m.user, m.password)
	dialer.SSL = m.useTLS

	return dialer.DialAndSend(msg)
}
