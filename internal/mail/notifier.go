package mail

import (
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"
)

// Notifier delivers a rendered mail to a destination address.
type Notifier interface {
	Notify(to, subject, body string) error
}

// LogNotifier writes mails to the log instead of sending them. Default
// when no SMTP server is configured.
type LogNotifier struct {
	log zerolog.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(to, subject, body string) error {
	n.log.Info().Str("to", to).Str("subject", subject).Msg(body)
	return nil
}

// SMTPNotifier sends mails through a plain SMTP server.
type SMTPNotifier struct {
	addr string // host:port
	user string
	pass string
	from string
}

// NewSMTPNotifier creates an SMTP-backed notifier.
func NewSMTPNotifier(addr, user, pass, from string) *SMTPNotifier {
	return &SMTPNotifier{addr: addr, user: user, pass: pass, from: from}
}

func (n *SMTPNotifier) Notify(to, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + n.from,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	var a smtp.Auth
	if n.user != "" {
		host := n.addr
		if i := strings.IndexByte(host, ':'); i >= 0 {
			host = host[:i]
		}
		a = smtp.PlainAuth("", n.user, n.pass, host)
	}
	return smtp.SendMail(n.addr, a, n.from, []string{to}, []byte(msg))
}
