package bot

import (
	"sync"

	"github.com/amaumene/streamhub/internal/models"
)

// State identifies where a chat is in a multi-step conversation
type State string

const (
	StateStart               State = "START"
	StateWaitingForType      State = "WAITING_FOR_TYPE"
	StateWaitingForTitle     State = "WAITING_FOR_TITLE"
	StateWaitingForThumbnail State = "WAITING_FOR_THUMBNAIL"
	StateWaitingForTags      State = "WAITING_FOR_TAGS"
	StateWaitingForLinkTitle State = "WAITING_FOR_LINK_TITLE"
	StateWaitingForLinkURL   State = "WAITING_FOR_LINK_URL"
	StateConfirmLink         State = "CONFIRM_LINK"
	StateWaitingForEditField State = "WAITING_FOR_EDIT_FIELD"
	StateWaitingForNewValue  State = "WAITING_FOR_NEW_VALUE"
	StateConfirmDelete       State = "CONFIRM_DELETE"
)

// Draft is the in-progress content of one conversation: a partial
// ContentItem plus the transient keys of the link and edit flows
type Draft struct {
	Type         models.ContentType
	Title        string
	ThumbnailURL string
	TagsRaw      string
	Links        []models.StreamLink

	// link flow
	CurrentLinkTitle string

	// edit flow
	EditID    uint64
	EditField models.EditableField
}

// Session is the conversation state of a single chat
type Session struct {
	State State
	Draft Draft
}

// Sessions tracks one Session per chat id. The map itself is guarded; the
// sessions are copied in and out, so concurrent updates for the same chat
// are last-write-wins.
type Sessions struct {
	mu     sync.Mutex
	byChat map[int64]Session
}

// NewSessions creates an empty session tracker
func NewSessions() *Sessions {
	return &Sessions{byChat: make(map[int64]Session)}
}

// Get returns the session for a chat, implicitly starting one in START
// state on first contact
func (s *Sessions) Get(chatID int64) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byChat[chatID]
	if !ok {
		sess = Session{State: StateStart}
		s.byChat[chatID] = sess
	}
	return sess
}

// Put stores the session for a chat
func (s *Sessions) Put(chatID int64, sess Session) {
	s.mu.Lock()
	s.byChat[chatID] = sess
	s.mu.Unlock()
}

// Reset returns a chat to START with an empty draft
func (s *Sessions) Reset(chatID int64) {
	s.mu.Lock()
	s.byChat[chatID] = Session{State: StateStart}
	s.mu.Unlock()
}
