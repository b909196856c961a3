package handlers

import (
	"encoding/json"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/streamhub/internal/bot"
)

// WebhookHandler receives Telegram webhook updates and feeds them to the
// conversation handler
type WebhookHandler struct {
	bot    *bot.Handler // nil when the bot subsystem is disabled
	logger *logrus.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(botHandler *bot.Handler, logger *logrus.Logger) *WebhookHandler {
	return &WebhookHandler{
		bot:    botHandler,
		logger: logger,
	}
}

// ServeHTTP handles the Telegram webhook endpoint. Telegram retries on
// non-200 responses, so bad updates are acknowledged rather than rejected.
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.bot == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "bot not configured"})
		return
	}

	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.logger.WithError(err).Warn("Failed to decode Telegram update")
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	h.bot.HandleUpdate(update)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
