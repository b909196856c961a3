package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/streamhub/internal/models"
)

// API is the slice of the Telegram Bot API the conversation handler uses
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Invalidator clears cached API responses after a content write
type Invalidator interface {
	InvalidateAll()
}

// Handler drives the per-chat upload and edit conversations
type Handler struct {
	api      API
	db       *models.Database
	cache    Invalidator
	sessions *Sessions
	logger   *logrus.Logger
}

// NewHandler creates a conversation handler
func NewHandler(api API, db *models.Database, cache Invalidator, logger *logrus.Logger) *Handler {
	return &Handler{
		api:      api,
		db:       db,
		cache:    cache,
		sessions: NewSessions(),
		logger:   logger,
	}
}

// HandleUpdate dispatches one incoming Telegram update
func (h *Handler) HandleUpdate(update tgbotapi.Update) {
	switch {
	case update.Message != nil && update.Message.Chat != nil:
		h.handleText(update.Message.Chat.ID, update.Message.Text)

	case update.CallbackQuery != nil:
		query := update.CallbackQuery

		// Answer first so the client drops its loading spinner
		if _, err := h.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
			h.logger.WithError(err).Warn("Failed to answer callback query")
		}

		if query.Message == nil || query.Message.Chat == nil {
			h.logger.Warn("Callback query without originating chat, ignoring")
			return
		}
		h.handleCallback(query.Message.Chat.ID, query.Data)
	}
}

// handleText routes a text message based on the chat's current state
func (h *Handler) handleText(chatID int64, text string) {
	// Commands override whatever state the chat is in
	switch {
	case strings.HasPrefix(text, "/add"):
		h.startUpload(chatID)
		return
	case strings.HasPrefix(text, "/view"):
		h.sendContentList(chatID, false)
		return
	case strings.HasPrefix(text, "/edit"):
		h.send(chatID, "Select the content you wish to edit from the list below:")
		h.sendContentList(chatID, true)
		return
	}

	sess := h.sessions.Get(chatID)

	switch sess.State {
	case StateWaitingForTitle:
		sess.Draft.Title = strings.TrimSpace(text)
		sess.State = StateWaitingForThumbnail
		h.sessions.Put(chatID, sess)
		h.send(chatID, "✅ Title set.\n\nNext, please send the *public URL* for the content thumbnail image:")

	case StateWaitingForThumbnail:
		if !strings.HasPrefix(text, "http") {
			h.send(chatID, "Please send a *public URL* starting with `http` or `https`.")
			return
		}
		sess.Draft.ThumbnailURL = strings.TrimSpace(text)
		sess.State = StateWaitingForTags
		h.sessions.Put(chatID, sess)
		h.send(chatID, "✅ Thumbnail URL set.\n\nPlease enter comma-separated *tags* (e.g., action, sci-fi, 2024). These drive the similar-content suggestions.")

	case StateWaitingForTags:
		sess.Draft.TagsRaw = strings.TrimSpace(text)
		sess.State = StateWaitingForLinkTitle
		h.sessions.Put(chatID, sess)
		h.send(chatID, "✅ Tags set.\n\nEnter the name for the streaming link (e.g., 'Full Video' or 'S01E01 Pilot').")

	case StateWaitingForLinkTitle:
		sess.Draft.CurrentLinkTitle = strings.TrimSpace(text)
		sess.State = StateWaitingForLinkURL
		h.sessions.Put(chatID, sess)
		h.send(chatID, fmt.Sprintf("Link name set: *%s*\n\nNow, send the *streaming URL*:", sess.Draft.CurrentLinkTitle))

	case StateWaitingForLinkURL:
		if !strings.HasPrefix(text, "http") {
			h.send(chatID, "Please send a URL starting with `http` or `https`.")
			return
		}
		linkTitle := sess.Draft.CurrentLinkTitle
		if linkTitle == "" {
			linkTitle = "Link"
		}
		sess.Draft.Links = append(sess.Draft.Links, models.StreamLink{
			EpisodeTitle: linkTitle,
			URL:          strings.TrimSpace(text),
		})
		sess.Draft.CurrentLinkTitle = ""
		sess.State = StateConfirmLink
		h.sessions.Put(chatID, sess)

		keyboard := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("➕ Add Another Link", callbackData("add", "Yes", "")),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ Done Uploading", callbackData("add", "No", "")),
			),
		)
		h.sendKeyboard(chatID, fmt.Sprintf("✅ Streaming URL added! Total links: %d.\n\nWhat next?", len(sess.Draft.Links)), keyboard)

	case StateWaitingForNewValue:
		h.applyEdit(chatID, sess, strings.TrimSpace(text))

	default:
		h.send(chatID, "Please use the `/add` command to begin a new upload, `/view` to see content, or `/edit` to manage existing items.")
	}
}

// handleCallback routes an inline-keyboard press. Unrecognized payloads are
// ignored rather than failing the webhook.
func (h *Handler) handleCallback(chatID int64, data string) {
	cb, ok := ParseCallback(data)
	if !ok {
		h.logger.WithFields(logrus.Fields{
			"chat_id": chatID,
			"data":    data,
		}).Warn("Ignoring unrecognized callback payload")
		return
	}

	sess := h.sessions.Get(chatID)

	switch cb.Action {
	case ActionSelectType:
		sess.Draft.Type = cb.ContentType
		sess.State = StateWaitingForTitle
		h.sessions.Put(chatID, sess)
		h.send(chatID, "✅ Content type set.\n\nWhat is the *title* of the video/series?")

	case ActionAddAnotherLink:
		sess.State = StateWaitingForLinkTitle
		h.sessions.Put(chatID, sess)
		h.send(chatID, "Enter the name for the streaming link (e.g., 'Full Video' or 'S01E01 Pilot').")

	case ActionFinishUpload:
		h.finishUpload(chatID, sess)

	case ActionEditStart:
		h.sessions.Put(chatID, Session{
			State: StateWaitingForEditField,
			Draft: Draft{EditID: cb.ID},
		})
		keyboard := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✏️ Title", callbackData("edit", "field", string(models.FieldTitle))),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("🖼️ Thumbnail URL", callbackData("edit", "field", string(models.FieldThumbnail))),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("🏷️ Tags", callbackData("edit", "field", string(models.FieldTags))),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", callbackData("edit", "cancel", "")),
			),
		)
		h.sendKeyboard(chatID, fmt.Sprintf("Content ID `%d` selected.\n\nWhich field do you want to modify?", cb.ID), keyboard)

	case ActionEditField:
		if sess.Draft.EditID == 0 {
			h.send(chatID, "❌ Error: Lost content ID. Please use `/edit` again.")
			h.sessions.Reset(chatID)
			return
		}
		sess.Draft.EditField = cb.Field
		sess.State = StateWaitingForNewValue
		h.sessions.Put(chatID, sess)
		h.send(chatID, editPrompt(cb.Field))

	case ActionEditCancel:
		h.send(chatID, "Edit cancelled.")
		h.sessions.Reset(chatID)

	case ActionDeleteConfirm:
		sess.State = StateConfirmDelete
		h.sessions.Put(chatID, sess)
		keyboard := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ YES, delete it!", callbackData("delete", "execute", fmt.Sprintf("%d", cb.ID))),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("❌ No, keep it", callbackData("edit", "cancel", "")),
			),
		)
		h.sendKeyboard(chatID, fmt.Sprintf("⚠️ *Are you sure you want to delete content ID* `%d`?", cb.ID), keyboard)

	case ActionDeleteExecute:
		if err := h.db.DeleteContent(cb.ID); err != nil {
			h.logger.WithError(err).WithField("content_id", cb.ID).Error("Failed to delete content")
			h.send(chatID, fmt.Sprintf("❌ Error: Could not delete content ID `%d`.", cb.ID))
		} else {
			h.cache.InvalidateAll()
			h.send(chatID, fmt.Sprintf("🗑️ *Deleted!* Content ID `%d` removed successfully.", cb.ID))
		}
		h.sessions.Reset(chatID)
	}
}

// startUpload begins a fresh upload conversation, discarding any prior state
func (h *Handler) startUpload(chatID int64) {
	h.sessions.Put(chatID, Session{State: StateWaitingForType})

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎬 Video", callbackData("type", string(models.ContentTypeVideo), "")),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📺 Web Series", callbackData("type", string(models.ContentTypeSeries), "")),
		),
	)
	h.sendKeyboard(chatID, "*Welcome to the content upload bot!*\n\nPlease select the type of content:", keyboard)
}

// finishUpload validates and persists the draft. Whatever the outcome, the
// session ends up back in START; a failed save loses the draft.
func (h *Handler) finishUpload(chatID int64, sess Session) {
	if sess.Draft.Title == "" || len(sess.Draft.Links) == 0 {
		h.send(chatID, "❌ Error: Missing title or streaming links. Please start over with `/add`.")
		h.sessions.Reset(chatID)
		return
	}

	item := &models.ContentItem{
		Title:        sess.Draft.Title,
		Type:         sess.Draft.Type,
		ThumbnailURL: sess.Draft.ThumbnailURL,
		Tags:         models.NormalizeTags(sess.Draft.TagsRaw),
		Links:        sess.Draft.Links,
	}

	if err := h.db.CreateContent(item); err != nil {
		h.logger.WithError(err).Error("Failed to save content")
		h.send(chatID, "❌ Error: Could not save to database. Please try again later.")
		h.sessions.Reset(chatID)
		return
	}

	h.cache.InvalidateAll()
	h.logger.WithFields(logrus.Fields{
		"content_id": item.ID,
		"title":      item.Title,
	}).Info("Content saved via bot")
	h.send(chatID, fmt.Sprintf("🎉 *Success!* Content '%s' saved to database.", item.Title))
	h.sessions.Reset(chatID)
}

// applyEdit performs the single-field update of the edit flow. The session
// resets regardless of the outcome.
func (h *Handler) applyEdit(chatID int64, sess Session, value string) {
	defer h.sessions.Reset(chatID)

	if sess.Draft.EditID == 0 || sess.Draft.EditField == "" {
		h.send(chatID, "❌ Error: Lost state for update. Please start editing again with `/edit`.")
		return
	}

	if err := h.db.UpdateContentField(sess.Draft.EditID, sess.Draft.EditField, value); err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"content_id": sess.Draft.EditID,
			"field":      sess.Draft.EditField,
		}).Error("Failed to update content field")
		h.send(chatID, "❌ Error: Update failed.")
		return
	}

	h.cache.InvalidateAll()
	h.send(chatID, fmt.Sprintf("🎉 *Success!* Content ID `%d`: field *%s* updated!", sess.Draft.EditID, sess.Draft.EditField))
}

// sendContentList sends the latest ten items, optionally with per-item
// edit/delete buttons
func (h *Handler) sendContentList(chatID int64, withActions bool) {
	items, err := h.db.GetRecentContent(10)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch content list")
		h.send(chatID, "❌ An error occurred while fetching content.")
		return
	}

	if len(items) == 0 {
		h.send(chatID, "📭 No content found. Use `/add` to upload one!")
		return
	}

	if withActions {
		for i, item := range items {
			summary := fmt.Sprintf("*%d. %s* (`%s`)", i+1, item.Title, item.Type)
			keyboard := tgbotapi.NewInlineKeyboardMarkup(
				tgbotapi.NewInlineKeyboardRow(
					tgbotapi.NewInlineKeyboardButtonData("✍️ Edit", callbackData("edit", "start", fmt.Sprintf("%d", item.ID))),
				),
				tgbotapi.NewInlineKeyboardRow(
					tgbotapi.NewInlineKeyboardButtonData("🗑️ Delete", callbackData("delete", "confirm", fmt.Sprintf("%d", item.ID))),
				),
			)
			h.sendKeyboard(chatID, summary, keyboard)
		}
		return
	}

	lines := make([]string, 0, len(items))
	for i, item := range items {
		lines = append(lines, fmt.Sprintf("*%d. %s* (`%s`)", i+1, item.Title, item.Type))
	}
	h.send(chatID, "📦 *Latest 10 Content Items:*\n\n"+strings.Join(lines, "\n\n"))
}

// editPrompt returns the prompt for the chosen edit field
func editPrompt(field models.EditableField) string {
	switch field {
	case models.FieldTitle:
		return "Enter the *new title*:"
	case models.FieldThumbnail:
		return "Enter the *new thumbnail URL* (must start with http/s):"
	case models.FieldTags:
		return "Enter the *new tags* (comma-separated):"
	}
	return "Enter the new value:"
}

// send delivers a Markdown text message, logging delivery failures
func (h *Handler) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := h.api.Send(msg); err != nil {
		h.logger.WithError(err).WithField("chat_id", chatID).Error("Failed to send message")
	}
}

// sendKeyboard delivers a Markdown message with an inline keyboard
func (h *Handler) sendKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = keyboard
	if _, err := h.api.Send(msg); err != nil {
		h.logger.WithError(err).WithField("chat_id", chatID).Error("Failed to send message")
	}
}
