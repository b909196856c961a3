package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/streamhub/internal/config"
)

// Client wraps the Telegram Bot API connection
type Client struct {
	api    *tgbotapi.BotAPI
	logger *logrus.Logger
}

// NewClient creates a new Telegram Bot API client
func NewClient(cfg *config.Config, logger *logrus.Logger) (*Client, error) {
	httpClient := &http.Client{Timeout: 10 * time.Second}

	api, err := tgbotapi.NewBotAPIWithClient(cfg.BotToken, tgbotapi.APIEndpoint, httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Telegram: %w", err)
	}

	logger.WithField("username", api.Self.UserName).Info("Telegram bot authorized")

	return &Client{
		api:    api,
		logger: logger,
	}, nil
}

// API exposes the underlying Bot API connection
func (c *Client) API() *tgbotapi.BotAPI {
	return c.api
}

// RegisterWebhook points Telegram at our webhook endpoint, retrying a few
// times with exponential backoff
func (c *Client) RegisterWebhook(ctx context.Context, appURL, token string) error {
	webhookURL := strings.TrimRight(appURL, "/") + "/" + token

	wh, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		return fmt.Errorf("failed to build webhook config: %w", err)
	}

	operation := func() error {
		resp, err := c.api.Request(wh)
		if err != nil {
			return err
		}
		if !resp.Ok {
			return fmt.Errorf("telegram rejected webhook: %s", resp.Description)
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 4), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}

	c.logger.WithField("url", strings.TrimRight(appURL, "/")+"/<token>").Info("Telegram webhook registered")
	return nil
}
