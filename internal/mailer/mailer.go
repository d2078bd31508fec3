// Package mailer delivers report and alert email over SMTP. Delivery is
// optional: when the SMTP host is unset every send becomes a silent no-op,
// so the rest of the service never has to check for email configuration.
package mailer

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/ramnagarhs/mdm-service/internal/config"
	"github.com/ramnagarhs/mdm-service/internal/models"
)

// Mailer sends HTML mail through a single configured SMTP account.
type Mailer struct {
	host     string
	port     string
	user     string
	password string
	from     string
	admin    string
}

// New builds a Mailer from the email section of the config. The returned
// Mailer is usable even when unconfigured; Enabled reports the difference.
func New(cfg *config.Config) *Mailer {
	// Open relays have no SMTP account; the admin address stands in as the
	// envelope sender so From: is never empty.
	from := cfg.SMTPUser
	if from == "" {
		from = cfg.AdminEmail
	}
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     from,
		admin:    cfg.AdminEmail,
	}
}

// Enabled reports whether SMTP delivery is configured.
func (m *Mailer) Enabled() bool {
	return m != nil && m.host != ""
}

// Send delivers one HTML message. Unconfigured mailers drop it silently.
func (m *Mailer) Send(to, subject, htmlBody string) error {
	if !m.Enabled() {
		return nil
	}
	if to == "" {
		return fmt.Errorf("mailer: no recipient")
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	addr := m.host + ":" + m.port
	var auth smtp.Auth
	if m.user != "" && m.password != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}

	return smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg.String()))
}

// SendToAdmin delivers a message to the configured admin address.
func (m *Mailer) SendToAdmin(subject, htmlBody string) error {
	return m.Send(m.admin, subject, htmlBody)
}

// SendPasswordReset mails the reset link for a requested password reset.
// Delivery runs in the background; a failure is logged, not surfaced, so the
// response to the requester stays the same either way.
func (m *Mailer) SendPasswordReset(user *models.User, reset *models.PasswordReset, frontendURL string) {
	if !m.Enabled() || user == nil || reset == nil {
		return
	}

	link := frontendURL + "/reset-password.html?token=" + reset.Token
	body := fmt.Sprintf(`
		<h2>Password Reset</h2>
		<p>Hello %s,</p>
		<p>A password reset was requested for your account. The link below is
		valid for one hour and can be used once.</p>
		<p><a href="%s">Reset your password</a></p>
		<p>If you did not request this, you can ignore this email.</p>`,
		user.Name, link)

	go func() {
		if err := m.Send(user.Email, "Password reset", body); err != nil {
			log.Printf("password reset mail to %s failed: %v", user.Email, err)
		}
	}()
}
