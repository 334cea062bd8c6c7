package notifier

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strings"
	"time"

	"botwatch/internal/models"
)

// Email delivers critical alerts to a recipient list over SMTP. Delivery is
// fire-and-forget from the evaluator's point of view: failures are logged
// and never abort a monitoring cycle.
type Email struct {
	Host       string
	Port       int
	User       string
	Password   string
	Recipients []string

	Timeout time.Duration
	log     *slog.Logger
}

func NewEmail(host string, port int, user, password string, recipients []string, logger *slog.Logger) *Email {
	return &Email{
		Host:       host,
		Port:       port,
		User:       user,
		Password:   password,
		Recipients: recipients,
		Timeout:    10 * time.Second,
		log:        logger,
	}
}

// Enabled reports whether notification is configured. When it is not, the
// evaluator silently skips delivery.
func (e *Email) Enabled() bool {
	return e.User != "" && len(e.Recipients) > 0
}

// Notify attempts delivery of one alert and reports success. The attempt is
// always logged regardless of outcome.
func (e *Email) Notify(alert models.Alert) bool {
	if err := e.send(alert); err != nil {
		e.log.Error("alert notification failed", "type", alert.Type, "err", err)
		return false
	}
	e.log.Info("alert notification delivered", "type", alert.Type, "recipients", len(e.Recipients))
	return true
}

func (e *Email) send(alert models.Alert) error {
	addr := fmt.Sprintf("%s:%d", e.Host, e.Port)

	conn, err := net.DialTimeout("tcp", addr, e.Timeout)
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}
	// Bound the whole SMTP conversation, not just the dial.
	_ = conn.SetDeadline(time.Now().Add(e.Timeout))

	client, err := smtp.NewClient(conn, e.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: e.Host}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}

	auth := smtp.PlainAuth("", e.User, e.Password, e.Host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}

	if err := client.Mail(e.User); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	for _, rcpt := range e.Recipients {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("rcpt %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write([]byte(e.Compose(alert))); err != nil {
		w.Close()
		return fmt.Errorf("write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finish message: %w", err)
	}
	return client.Quit()
}

// Compose renders the full RFC 822 message for an alert.
func (e *Email) Compose(alert models.Alert) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", e.User)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(e.Recipients, ", "))
	fmt.Fprintf(&b, "Subject: CRITICAL ALERT: publishing bot - %s\r\n", alert.Type)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "Publishing bot monitoring alert\r\n\r\n")
	fmt.Fprintf(&b, "Type: %s\r\n", alert.Type)
	fmt.Fprintf(&b, "Severity: %s\r\n", alert.Severity)
	fmt.Fprintf(&b, "Time: %s\r\n\r\n", alert.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(&b, "Message:\r\n%s\r\n\r\n", alert.Message)
	b.WriteString("--\r\nAutomated monitoring system\r\n")
	return b.String()
}
