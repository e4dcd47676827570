// Package mail moves registration mails from the outbox table to the
// user's inbox: a dispatcher publishes pending rows to a durable queue
// and a worker consumes the queue and delivers through a Notifier.
package mail

import "fmt"

// RegistrationQueue is the durable queue registration mails travel on.
const RegistrationQueue = "mail.registration"

// RegistrationMail is the message published for every created user. It
// carries the generated plaintext password for the first login.
type RegistrationMail struct {
	OutboxID uint   `json:"outbox_id"`
	UserID   uint   `json:"user_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Subject returns the mail subject line.
func (m RegistrationMail) Subject() string {
	return "Welcome to the team, " + m.Name
}

// Body returns the mail body with the generated password.
func (m RegistrationMail) Body() string {
	return fmt.Sprintf(
		"Hi %s,\n\nYour account has been created. Log in with:\n\n  email:    %s\n  password: %s\n\nPlease change this password after your first login.\n",
		m.Name, m.Email, m.Password,
	)
}
