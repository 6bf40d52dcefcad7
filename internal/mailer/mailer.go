package mailer

import (
	"log"

	"gopkg.in/gomail.v2"

	"github.com/campuscare/counselling-api/internal/config"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers booking notifications off the request path. A full queue
// or a dead SMTP server drops mail instead of failing the booking.
type Mailer struct {
	dialer *gomail.Dialer
	sender string
	queue  chan Message
}

func New(cfg *config.Config) *Mailer {
	m := &Mailer{
		sender: cfg.SenderEmail,
		queue:  make(chan Message, 100),
	}

	if cfg.SMTPHost != "" {
		m.dialer = gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	}

	go m.worker()
	return m
}

func (m *Mailer) worker() {
	for msg := range m.queue {
		if m.dialer == nil {
			continue
		}

		mail := gomail.NewMessage()
		mail.SetHeader("From", m.sender)
		mail.SetHeader("To", msg.To)
		mail.SetHeader("Subject", msg.Subject)
		mail.SetBody("text/plain", msg.Body)

		if err := m.dialer.DialAndSend(mail); err != nil {
			log.Println("mail send error:", err)
		}
	}
}

func (m *Mailer) Send(msg Message) {
	if msg.To == "" {
		return
	}
	select {
	case m.queue <- msg:
	default:
		log.Println("mail queue full, dropping message")
	}
}
