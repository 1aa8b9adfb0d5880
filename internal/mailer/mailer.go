// Package mailer renders and delivers the transactional emails triggered
// by a new booking.  Delivery is best-effort: when SMTP is not configured
// the rendered messages are appended to logs/notifications.log so nothing
// is silently dropped in development.
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nvasic/lastminute-booking/internal/config"
	"github.com/nvasic/lastminute-booking/internal/queue"
)

// Mailer delivers a single rendered message.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// New returns an SMTP-backed mailer when a host is configured, otherwise
// a file mailer writing to the notification log.
func New(cfg config.SMTPConfig) Mailer {
	if cfg.Host == "" {
		return &FileMailer{Path: filepath.Join("logs", "notifications.log")}
	}
	return &SMTPMailer{cfg: cfg}
}

// SMTPMailer sends messages through a plain SMTP relay.
type SMTPMailer struct {
	cfg config.SMTPConfig
}

func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	addr := m.cfg.Host + ":" + m.cfg.Port
	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	}
	msg := strings.Join([]string{
		"From: " + m.cfg.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=UTF-8",
		"",
		htmlBody,
	}, "\r\n")
	return smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg))
}

// FileMailer appends rendered messages to a log file, one block per
// message.  Used when SMTP is unconfigured and in tests.
type FileMailer struct {
	Path string
}

func (m *FileMailer) Send(to, subject, htmlBody string) error {
	if err := os.MkdirAll(filepath.Dir(m.Path), 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(m.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	line := fmt.Sprintf("[%s] to=%s subject=%q\n%s\n\n",
		time.Now().UTC().Format(time.RFC3339), to, subject, htmlBody)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// The two transactional templates are inline HTML.  Copy changes go
// through here, there is no template directory.
var guestTmpl = template.Must(template.New("guest").Parse(`<html><body>
<h2>Booking confirmed — {{.Reference}}</h2>
<p>Hi {{.GuestName}},</p>
<p>Your last-minute stay at <b>{{.AccommodationName}}</b> in {{.CityName}} is confirmed.</p>
<ul>
<li>Arrival: {{.ArrivalAt}}</li>
<li>Stay length: {{.Duration}}</li>
<li>Package: {{.Package}}{{if .GuideAssigned}} (local guide assigned){{end}}</li>
<li>Total: {{.Total}}</li>
</ul>
<p>Your reservation is held until {{.ExpiresAt}}.</p>
</body></html>`))

var ownerTmpl = template.Must(template.New("owner").Parse(`<html><body>
<h2>New booking — {{.Reference}}</h2>
<p>Hi {{.OwnerName}},</p>
<p><b>{{.AccommodationName}}</b> has been booked by {{.GuestName}} ({{.GuestEmail}}).</p>
<ul>
<li>Arrival: {{.ArrivalAt}}</li>
<li>Stay length: {{.Duration}}</li>
<li>Total: {{.Total}}</li>
</ul>
</body></html>`))

type templateData struct {
	queue.BookingCreatedEvent
	Total string
}

// FormatCents renders a cent amount as a euro string for the templates.
func FormatCents(cents uint32) string {
	return fmt.Sprintf("%d.%02d EUR", cents/100, cents%100)
}

// RenderGuestConfirmation renders the traveler-facing confirmation email.
func RenderGuestConfirmation(ev queue.BookingCreatedEvent) (subject, body string, err error) {
	var buf bytes.Buffer
	if err := guestTmpl.Execute(&buf, templateData{ev, FormatCents(ev.TotalCents)}); err != nil {
		return "", "", err
	}
	return "Your booking " + ev.Reference + " is confirmed", buf.String(), nil
}

// RenderOwnerNotification renders the owner-facing notification email.
func RenderOwnerNotification(ev queue.BookingCreatedEvent) (subject, body string, err error) {
	var buf bytes.Buffer
	if err := ownerTmpl.Execute(&buf, templateData{ev, FormatCents(ev.TotalCents)}); err != nil {
		return "", "", err
	}
	return "New booking " + ev.Reference + " for " + ev.AccommodationName, buf.String(), nil
}
