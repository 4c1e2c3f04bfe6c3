package mail

import (
	"log"

	"gopkg.in/gomail.v2"
)

// AlertSender sends plain-text operational alerts over SMTP. Alerting
// is best-effort: when SMTP is not configured, alerts are logged and
// dropped instead of failing the caller.
type AlertSender struct {
	Host      string
	Port      int
	User      string
	Password  string
	Recipient string
}

func NewAlertSender(host string, port int, user, password, recipient string) *AlertSender {
	return &AlertSender{
		Host:      host,
		Port:      port,
		User:      user,
		Password:  password,
		Recipient: recipient,
	}
}

func (s *AlertSender) Send(subject, body string) error {
	if s.Host == "" || s.Recipient == "" {
		log.Printf("⚠️ Alerta sem SMTP configurado: %s (%s)", subject, body)
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.User)
	m.SetHeader("To", s.Recipient)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return err
	}

	log.Printf("✅ Alerta enviado para %s: %s", s.Recipient, subject)
	return nil
}
