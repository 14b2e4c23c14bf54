package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/winbetball/betball/internal/domain/notification"
	"github.com/winbetball/betball/internal/platform/resilience"
)

var errTelegramTransient = crerr.New("telegram transient failure")

type TelegramConfig struct {
	BaseURL  string
	BotToken string
	ChatID   string
	Timeout  time.Duration
	Breaker  resilience.BreakerConfig
}

// Telegram posts game announcements to one chat via the Bot API. All games
// of a batch go out as a single message to stay inside rate limits.
type Telegram struct {
	client         *http.Client
	baseURL        string
	botToken       string
	chatID         string
	logger         *slog.Logger
	breaker        *resilience.Breaker
	breakerEnabled bool
}

func NewTelegram(cfg TelegramConfig, logger *slog.Logger) *Telegram {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}
	breakerCfg := cfg.Breaker.Normalized()

	return &Telegram{
		client:         &http.Client{Timeout: timeout},
		baseURL:        baseURL,
		botToken:       strings.TrimSpace(cfg.BotToken),
		chatID:         strings.TrimSpace(cfg.ChatID),
		logger:         logger,
		breaker:        resilience.NewBreaker(breakerCfg),
		breakerEnabled: breakerCfg.Enabled,
	}
}

func (t *Telegram) Name() string { return "telegram" }

func (t *Telegram) SendAnnouncements(ctx context.Context, items []notification.Announcement) error {
	if len(items) == 0 {
		return nil
	}
	if t.botToken == "" || t.chatID == "" {
		return crerr.New("telegram bot token and chat id are required")
	}

	if t.breakerEnabled {
		if err := t.breaker.Allow(); err != nil {
			t.logger.WarnContext(ctx, "telegram circuit breaker rejected request", "state", t.breaker.State())
			return fmt.Errorf("telegram is temporarily unavailable: %w", err)
		}
	}

	payload, err := sonic.Marshal(map[string]any{
		"chat_id":    t.chatID,
		"text":       renderAnnouncementText(items),
		"parse_mode": "HTML",
	})
	if err != nil {
		return crerr.Wrap(err, "marshal telegram payload")
	}

	sendURL := t.baseURL + "/bot" + t.botToken + "/sendMessage"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendURL, strings.NewReader(string(payload)))
	if err != nil {
		return crerr.Wrap(err, "create telegram request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		callErr := fmt.Errorf("%w: send telegram message: %v", errTelegramTransient, err)
		t.recordCircuitResult(callErr)
		return callErr
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		callErr := fmt.Errorf("telegram status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(raw)))
		if isTelegramRetryableStatus(resp.StatusCode) {
			callErr = fmt.Errorf("%w: %v", errTelegramTransient, callErr)
		}
		t.recordCircuitResult(callErr)
		return callErr
	}

	t.logger.InfoContext(ctx, "telegram announcement sent", "games", len(items))
	t.recordCircuitResult(nil)
	return nil
}

func renderAnnouncementText(items []notification.Announcement) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if len(items) == 1 {
		_, _ = buf.WriteString("<b>New game open for bets!</b>\n")
	} else {
		_, _ = buf.WriteString(fmt.Sprintf("<b>%d new games open for bets!</b>\n", len(items)))
	}

	for _, item := range items {
		_, _ = buf.WriteString("\n")
		if strings.TrimSpace(item.TournamentName) != "" {
			_, _ = buf.WriteString(escapeHTML(item.TournamentName))
			_, _ = buf.WriteString(": ")
		}
		_, _ = buf.WriteString(escapeHTML(item.Team1))
		_, _ = buf.WriteString(" vs ")
		_, _ = buf.WriteString(escapeHTML(item.Team2))
		if strings.TrimSpace(item.Title) != "" {
			_, _ = buf.WriteString(" (")
			_, _ = buf.WriteString(escapeHTML(item.Title))
			_, _ = buf.WriteString(")")
		}
		_, _ = buf.WriteString("\nKickoff: ")
		_, _ = buf.WriteString(item.StartTime.UTC().Format("Mon 02 Jan 15:04 MST"))
	}

	return buf.String()
}

func escapeHTML(value string) string {
	value = strings.ReplaceAll(value, "&", "&amp;")
	value = strings.ReplaceAll(value, "<", "&lt;")
	return strings.ReplaceAll(value, ">", "&gt;")
}

func (t *Telegram) recordCircuitResult(err error) {
	if !t.breakerEnabled || t.breaker == nil {
		return
	}
	if err != nil && crerr.Is(err, errTelegramTransient) {
		t.breaker.MarkFailure()
		return
	}
	t.breaker.MarkSuccess()
}

func isTelegramRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= http.StatusInternalServerError
}
