// Package chat holds the session and message model plus the reducers that
// mutate it. Every mutation returns a new value; callers holding an old
// Collection can keep reading it safely while a newer one is being built.
package chat

import (
	"time"

	"github.com/google/uuid"
)

// Role of a message author.
type Role string

const (
	// RoleUser marks a message written by the user.
	RoleUser Role = "user"
	// RoleModel marks a message produced by the model.
	RoleModel Role = "model"
)

const (
	// DefaultTitle is the title of a session before its first user message.
	DefaultTitle = "New Conversation"
	// ImageChatTitle is used when the first user message has attachments but no text.
	ImageChatTitle = "Image Chat"
	// TitleLength is the number of leading characters of the first user
	// message used as the session title.
	TitleLength = 30
)

// Attachment is an inline binary payload carried by a message.
// Immutable once created.
type Attachment struct {
	MimeType string `json:"mimeType"`
	// Data is the base64-encoded payload.
	Data string `json:"data"`
	Name string `json:"name,omitempty"`
}

// Message is a single turn in a session. Content is only mutated while the
// message is the trailing model message of an in-flight stream.
type Message struct {
	ID          string       `json:"id"`
	Role        Role         `json:"role"`
	Content     string       `json:"content"`
	Attachments []Attachment `json:"attachments,omitempty"`
	// Timestamp is epoch milliseconds.
	Timestamp int64 `json:"timestamp"`
	IsError   bool  `json:"isError,omitempty"`
}

// Session is one conversation thread.
type Session struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Messages []*Message `json:"messages"`
	// CreatedAt and UpdatedAt are epoch milliseconds.
	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
}

// Collection is an ordered list of sessions, newest first.
type Collection []*Session

// NewUserMessage instantiates a user message.
func NewUserMessage(text string, attachments []Attachment) *Message {
	return &Message{
		ID:          uuid.New().String(),
		Role:        RoleUser,
		Content:     text,
		Attachments: attachments,
		Timestamp:   time.Now().UnixMilli(),
	}
}

// NewModelMessage instantiates an empty model message, the placeholder that
// streamed fragments are folded into.
func NewModelMessage() *Message {
	return &Message{
		ID:        uuid.New().String(),
		Role:      RoleModel,
		Timestamp: time.Now().UnixMilli(),
	}
}

// NewSession instantiates an empty session.
func NewSession() *Session {
	now := time.Now().UnixMilli()
	return &Session{
		ID:        uuid.New().String(),
		Title:     DefaultTitle,
		Messages:  []*Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsEmpty returns true if the session has no messages.
func (s *Session) IsEmpty() bool { return len(s.Messages) == 0 }

// LastMessage returns the most recent message, or nil.
func (s *Session) LastMessage() *Message {
	if len(s.Messages) == 0 {
		return nil
	}
	return s.Messages[len(s.Messages)-1]
}

// Append returns a copy of the session with the message appended. The title
// is derived from the first user message and frozen thereafter.
func (s *Session) Append(msg *Message) *Session {
	out := *s
	out.Messages = make([]*Message, len(s.Messages), len(s.Messages)+1)
	copy(out.Messages, s.Messages)
	out.Messages = append(out.Messages, msg)
	out.UpdatedAt = time.Now().UnixMilli()
	if len(s.Messages) == 0 && msg.Role == RoleUser {
		out.Title = DeriveTitle(msg.Content)
	}
	return &out
}

// DeriveTitle computes a session title from the first user message's text.
func DeriveTitle(text string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ImageChatTitle
	}
	if len(runes) > TitleLength {
		runes = runes[:TitleLength]
	}
	return string(runes)
}

// Find returns the session with the given id, or nil.
func (c Collection) Find(id string) *Session {
	for _, session := range c {
		if session.ID == id {
			return session
		}
	}
	return nil
}

// Insert returns a copy of the collection with the session at the front.
func (c Collection) Insert(session *Session) Collection {
	out := make(Collection, 0, len(c)+1)
	out = append(out, session)
	out = append(out, c...)
	return out
}

// Remove returns a copy of the collection without the session of the given
// id. A collection is never left empty: removing the last session yields a
// collection holding a single fresh session.
func (c Collection) Remove(id string) Collection {
	out := make(Collection, 0, len(c))
	for _, session := range c {
		if session.ID != id {
			out = append(out, session)
		}
	}
	if len(out) == 0 {
		out = append(out, NewSession())
	}
	return out
}

// Replace returns a copy of the collection with the given session swapped in
// for the one sharing its id.
func (c Collection) Replace(session *Session) Collection {
	out := make(Collection, len(c))
	for i, s := range c {
		if s.ID == session.ID {
			out[i] = session
		} else {
			out[i] = s
		}
	}
	return out
}
