package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"github.com/amishk599/internwatch/internal/model"
)

// Ensure TelegramNotifier implements model.Notifier.
var _ model.Notifier = (*TelegramNotifier)(nil)

// TelegramConfig holds the bot credentials and destination chat.
type TelegramConfig struct {
	Token       string
	ChatID      string        // numeric chat id or @channel username
	APIEndpoint string        // format string with token and method; defaults to tgbotapi.APIEndpoint
	MinInterval time.Duration // minimum gap between two messages
}

// TelegramNotifier sends one chat message per posting through the Bot API.
type TelegramNotifier struct {
	bot     *tgbotapi.BotAPI
	chatID  int64
	channel string
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewTelegramNotifier returns a notifier bound to the configured chat. It
// makes no network call, so an unreachable Bot API surfaces as a Notify error
// instead of blocking startup. Use Verify to check the token up front.
func NewTelegramNotifier(cfg TelegramConfig, httpClient *http.Client, logger *slog.Logger) (*TelegramNotifier, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("init telegram bot: empty token")
	}
	if cfg.ChatID == "" {
		return nil, fmt.Errorf("init telegram bot: empty chat id")
	}

	endpoint := cfg.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}

	bot := &tgbotapi.BotAPI{
		Token:  cfg.Token,
		Client: httpClient,
		Buffer: 100,
	}
	bot.SetAPIEndpoint(endpoint)

	n := &TelegramNotifier{
		bot:     bot,
		limiter: newLimiter(cfg.MinInterval),
		logger:  logger,
	}

	if id, err := strconv.ParseInt(cfg.ChatID, 10, 64); err == nil {
		n.chatID = id
	} else {
		n.channel = cfg.ChatID
	}
	return n, nil
}

// Verify authenticates the token with a getMe round trip.
func (n *TelegramNotifier) Verify() error {
	me, err := n.bot.GetMe()
	if err != nil {
		return fmt.Errorf("verify telegram bot: %w", err)
	}
	n.bot.Self = me
	n.logger.Info("telegram bot verified", "username", me.UserName)
	return nil
}

// Notify sends the formatted alert for p. The returned error is for logging
// only; callers do not retry.
func (n *TelegramNotifier) Notify(ctx context.Context, p model.Posting) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("telegram pacing: %w", err)
	}

	msg := n.newMessage(FormatMessage(p))
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true

	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send for %s: %w", p.Identity(), err)
	}
	n.logger.Info("telegram alert sent", "source", p.Source, "company", p.Company, "title", p.Title)
	return nil
}

func (n *TelegramNotifier) newMessage(text string) tgbotapi.MessageConfig {
	if n.channel != "" {
		return tgbotapi.NewMessageToChannel(n.channel, text)
	}
	return tgbotapi.NewMessage(n.chatID, text)
}

// newLimiter allows one message per interval; a non-positive interval means
// no pacing.
func newLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// SendTestMessage sends a sample posting to verify the integration works.
func SendTestMessage(ctx context.Context, n model.Notifier) error {
	return n.Notify(ctx, model.Posting{
		Source:     "test",
		Title:      "Test Notification: Integration Verified",
		Company:    "internwatch",
		ExternalID: "test-001",
		URL:        "https://boards.greenhouse.io",
	})
}
