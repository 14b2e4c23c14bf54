package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/winbetball/betball/internal/domain/notification"
)

type EmailConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	Recipients []string
}

// Email sends game announcements as a plain-text digest over SMTP.
type Email struct {
	addr       string
	auth       smtp.Auth
	from       string
	recipients []string
	logger     *slog.Logger

	// send is swappable for tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmail(cfg EmailConfig, logger *slog.Logger) *Email {
	if logger == nil {
		logger = slog.Default()
	}

	port := cfg.Port
	if port <= 0 {
		port = 587
	}
	host := strings.TrimSpace(cfg.Host)

	var auth smtp.Auth
	if strings.TrimSpace(cfg.Username) != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, host)
	}

	recipients := make([]string, 0, len(cfg.Recipients))
	for _, addr := range cfg.Recipients {
		if candidate := strings.TrimSpace(addr); candidate != "" {
			recipients = append(recipients, candidate)
		}
	}

	return &Email{
		addr:       fmt.Sprintf("%s:%d", host, port),
		auth:       auth,
		from:       strings.TrimSpace(cfg.From),
		recipients: recipients,
		logger:     logger,
		send:       smtp.SendMail,
	}
}

func (e *Email) Name() string { return "email" }

func (e *Email) SendAnnouncements(ctx context.Context, items []notification.Announcement) error {
	if len(items) == 0 {
		return nil
	}
	if e.from == "" || len(e.recipients) == 0 {
		return crerr.New("email sender and recipients are required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	subject := "New game open for bets"
	if len(items) > 1 {
		subject = fmt.Sprintf("%d new games open for bets", len(items))
	}

	msg := renderEmailMessage(e.from, e.recipients, subject, items)
	if err := e.send(e.addr, e.auth, e.from, e.recipients, msg); err != nil {
		return crerr.Wrap(err, "send announcement email")
	}

	e.logger.InfoContext(ctx, "email announcement sent", "games", len(items), "recipients", len(e.recipients))
	return nil
}

func renderEmailMessage(from string, recipients []string, subject string, items []notification.Announcement) []byte {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("From: " + from + "\r\n")
	_, _ = buf.WriteString("To: " + strings.Join(recipients, ", ") + "\r\n")
	_, _ = buf.WriteString("Subject: " + subject + "\r\n")
	_, _ = buf.WriteString("MIME-Version: 1.0\r\n")
	_, _ = buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	_, _ = buf.WriteString("\r\n")

	for _, item := range items {
		if strings.TrimSpace(item.TournamentName) != "" {
			_, _ = buf.WriteString(item.TournamentName)
			_, _ = buf.WriteString(": ")
		}
		_, _ = buf.WriteString(item.Team1)
		_, _ = buf.WriteString(" vs ")
		_, _ = buf.WriteString(item.Team2)
		if strings.TrimSpace(item.Title) != "" {
			_, _ = buf.WriteString(" (" + item.Title + ")")
		}
		_, _ = buf.WriteString("\r\nKickoff: ")
		_, _ = buf.WriteString(item.StartTime.UTC().Format("Mon 02 Jan 15:04 MST"))
		_, _ = buf.WriteString("\r\n\r\n")
	}
	_, _ = buf.WriteString("Place your bets before kickoff minus the cutoff lead.\r\n")

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out
}
