package chat

import (
	"context"
	"strings"
	"sync"

	"github.com/aimchat/aimchat/internal/debug"
)

// ErrorNotice is appended to a model message when its stream fails.
const ErrorNotice = "\n\n**[Error: Failed to generate response. Please check your connection or try again.]**"

var log = debug.GetLogger()

// Store persists the whole session collection.
type Store interface {
	Load() Collection
	Save(Collection) error
}

// Completer streams a model completion, invoking onChunk for each text
// fragment in delivery order before returning the full accumulated text.
type Completer interface {
	StreamCompletion(ctx context.Context, history []*Message, newText string, attachments []Attachment, modelID string, onChunk func(string)) (string, error)
}

// Controller mediates all session and message mutation and drives the model
// call. It is the sole owner of the collection; readers get immutable
// snapshots.
type Controller struct {
	mu        sync.Mutex
	store     Store
	completer Completer

	sessions  Collection
	currentID string
	loading   bool
	model     string

	// onChange is invoked after every state change, outside the lock.
	onChange func()
}

// NewController loads the persisted collection and returns a controller.
// An empty or unreadable store yields a collection with one fresh session.
func NewController(store Store, completer Completer, model string) *Controller {
	sessions := store.Load()
	if len(sessions) == 0 {
		sessions = Collection{NewSession()}
	}
	return &Controller{
		store:     store,
		completer: completer,
		sessions:  sessions,
		currentID: sessions[0].ID,
		model:     model,
	}
}

// SetOnChange registers the observer invoked after every state change.
func (c *Controller) SetOnChange(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// Sessions returns the current collection snapshot.
func (c *Controller) Sessions() Collection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessions
}

// CurrentSessionID returns the id of the current session.
func (c *Controller) CurrentSessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentID
}

// CurrentSession returns the current session, or nil.
func (c *Controller) CurrentSession() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessions.Find(c.currentID)
}

// Loading reports whether a completion request is outstanding.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Model returns the selected model identifier.
func (c *Controller) Model() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.model
}

// SetModel selects the model used for subsequent completions.
func (c *Controller) SetModel(model string) {
	c.mu.Lock()
	c.model = model
	c.mu.Unlock()
	c.notify()
}

// NewSession inserts a fresh session at the front of the collection and
// makes it current.
func (c *Controller) NewSession() *Session {
	session := NewSession()
	c.mu.Lock()
	c.sessions = c.sessions.Insert(session)
	c.currentID = session.ID
	c.mu.Unlock()
	c.persist()
	c.notify()
	return session
}

// SelectSession makes the session with the given id current.
func (c *Controller) SelectSession(id string) {
	c.mu.Lock()
	if c.sessions.Find(id) == nil {
		c.mu.Unlock()
		return
	}
	c.currentID = id
	c.mu.Unlock()
	c.notify()
}

// DeleteSession removes the session. Removing the last session leaves a
// fresh empty one in its place, so the collection is never empty and the
// empty state is never persisted.
func (c *Controller) DeleteSession(id string) {
	c.mu.Lock()
	c.sessions = c.sessions.Remove(id)
	if c.currentID == id {
		c.currentID = c.sessions[0].ID
	}
	c.mu.Unlock()
	c.persist()
	c.notify()
}

// SendMessage appends a user message to the current session, opens a model
// placeholder and folds the streamed completion into it. Adapter failures
// are absorbed into the placeholder's error flag and notice; they are never
// returned. The call blocks until the stream completes, fails, or ctx is
// cancelled.
func (c *Controller) SendMessage(ctx context.Context, text string, attachments []Attachment) {
	c.mu.Lock()
	session := c.sessions.Find(c.currentID)
	if session == nil || c.loading {
		c.mu.Unlock()
		return
	}
	if strings.TrimSpace(text) == "" && len(attachments) == 0 {
		c.mu.Unlock()
		return
	}

	// The request history is the pre-send snapshot: the new text reaches the
	// adapter once, as the new turn, so neither the just-appended user
	// message nor the empty placeholder may appear in the seeded history.
	history := session.Messages

	userMsg := NewUserMessage(text, attachments)
	session = session.Append(userMsg)
	c.sessions = c.sessions.Replace(session)
	c.loading = true

	placeholder := NewModelMessage()
	c.sessions = c.sessions.Replace(session.Append(placeholder))
	sessionID := c.currentID
	model := c.model
	c.mu.Unlock()
	c.persist()
	c.notify()

	_, err := c.completer.StreamCompletion(ctx, history, text, attachments, model, func(fragment string) {
		c.mu.Lock()
		c.sessions = c.sessions.ExtendMessage(sessionID, placeholder.ID, fragment)
		c.mu.Unlock()
		c.notify()
	})
	c.mu.Lock()
	if err != nil {
		log.Error("completion failed", "session", sessionID, "model", model, "error", err)
		c.sessions = c.sessions.FailMessage(sessionID, placeholder.ID, ErrorNotice)
	}
	c.loading = false
	c.mu.Unlock()
	c.persist()
	c.notify()
}

func (c *Controller) persist() {
	c.mu.Lock()
	sessions := c.sessions
	c.mu.Unlock()
	if err := c.store.Save(sessions); err != nil {
		log.Error("saving sessions", "error", err)
	}
}

func (c *Controller) notify() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}
