package domain

import (
	"errors"
	"time"
)

// Chat-specific validation errors.
var (
	// ErrMessageIDEmpty is returned when a message ID is empty.
	ErrMessageIDEmpty = errors.New("message ID cannot be empty")

	// ErrMessageRoleInvalid is returned when a message role is not one of
	// user, assistant, or system.
	ErrMessageRoleInvalid = errors.New("message role must be user, assistant, or system")

	// ErrSessionIDEmpty is returned when a chat session ID is empty.
	ErrSessionIDEmpty = errors.New("chat session ID cannot be empty")

	// ErrSessionNoMessages is returned when a chat session has no messages.
	ErrSessionNoMessages = errors.New("chat session must contain at least one message")
)

// Role identifies the author of a chat message.
type Role string

// Valid message roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is a single entry in a chat session. Messages are immutable once
// created and are only ever appended to a session.
type Message struct {
	ID      string `json:"id"`
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Validate checks if the Message has valid data.
func (m Message) Validate() error {
	if m.ID == "" {
		return ErrMessageIDEmpty
	}

	switch m.Role {
	case RoleUser, RoleAssistant, RoleSystem:
	default:
		return ErrMessageRoleInvalid
	}

	return nil
}

// TitleLength is the number of characters of the first user message used as
// the session title.
const TitleLength = 40

// DefaultSessionTitle is used when a session has no user message yet.
const DefaultSessionTitle = "New Chat"

// ChatSession is one continuous conversation owned by a single user.
// The message sequence is append-only; Timestamp is refreshed on every save.
type ChatSession struct {
	ID        string    `json:"id"`
	Timestamp int64     `json:"timestamp"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
}

// NewChatSession creates a ChatSession from an ordered message sequence,
// deriving the title from the first user message.
func NewChatSession(id string, messages []Message) (*ChatSession, error) {
	session := &ChatSession{
		ID:        id,
		Timestamp: time.Now().UnixMilli(),
		Title:     DeriveTitle(messages),
		Messages:  messages,
	}

	if err := session.Validate(); err != nil {
		return nil, err
	}

	return session, nil
}

// Validate checks if the ChatSession has valid data.
func (s *ChatSession) Validate() error {
	if s.ID == "" {
		return ErrSessionIDEmpty
	}

	if len(s.Messages) == 0 {
		return ErrSessionNoMessages
	}

	for _, m := range s.Messages {
		if err := m.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// Append adds a message to the session and refreshes the timestamp and title.
// The existing message sequence is never reordered or truncated.
func (s *ChatSession) Append(m Message) error {
	if err := m.Validate(); err != nil {
		return err
	}

	s.Messages = append(s.Messages, m)
	s.Timestamp = time.Now().UnixMilli()
	s.Title = DeriveTitle(s.Messages)
	return nil
}

// LastUserMessage returns the most recent user message content, or an empty
// string if the session has none.
func (s *ChatSession) LastUserMessage() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleUser {
			return s.Messages[i].Content
		}
	}
	return ""
}

// DeriveTitle returns the session title for a message sequence: the first
// TitleLength characters of the first user message, or DefaultSessionTitle
// when no user message exists.
func DeriveTitle(messages []Message) string {
	for _, m := range messages {
		if m.Role != RoleUser {
			continue
		}

		// Truncate on runes so multi-byte content stays valid UTF-8.
		runes := []rune(m.Content)
		if len(runes) > TitleLength {
			return string(runes[:TitleLength])
		}
		return m.Content
	}
	return DefaultSessionTitle
}
