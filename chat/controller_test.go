package chat

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	loaded Collection
	saved  []Collection
}

func (s *fakeStore) Load() Collection        { return s.loaded }
func (s *fakeStore) Save(c Collection) error { s.saved = append(s.saved, c); return nil }
func (s *fakeStore) lastSaved() Collection   { return s.saved[len(s.saved)-1] }

type fakeCompleter struct {
	fragments []string
	err       error

	gotHistory []*Message
	gotText    string
	gotModel   string
	onInvoke   func()
}

func (f *fakeCompleter) StreamCompletion(ctx context.Context, history []*Message, newText string, attachments []Attachment, modelID string, onChunk func(string)) (string, error) {
	f.gotHistory = history
	f.gotText = newText
	f.gotModel = modelID
	if f.onInvoke != nil {
		f.onInvoke()
	}
	var full strings.Builder
	for _, fragment := range f.fragments {
		onChunk(fragment)
		full.WriteString(fragment)
	}
	if f.err != nil {
		return "", f.err
	}
	return full.String(), nil
}

func newTestController(completer *fakeCompleter) (*Controller, *fakeStore) {
	store := &fakeStore{}
	return NewController(store, completer, "gemini-2.5-flash"), store
}

func TestNewControllerCreatesInitialSession(t *testing.T) {
	req := require.New(t)

	controller, _ := newTestController(&fakeCompleter{})
	req.Len(controller.Sessions(), 1)
	req.Equal(controller.Sessions()[0].ID, controller.CurrentSessionID())
	req.False(controller.Loading())
}

func TestSendMessageStreamsIntoPlaceholder(t *testing.T) {
	req := require.New(t)

	completer := &fakeCompleter{fragments: []string{"Hel", "lo, ", "world"}}
	controller, store := newTestController(completer)

	controller.SendMessage(context.Background(), "hi there", nil)

	session := controller.CurrentSession()
	req.Len(session.Messages, 2)
	req.Equal(RoleUser, session.Messages[0].Role)
	req.Equal("hi there", session.Messages[0].Content)
	req.Equal(RoleModel, session.Messages[1].Role)
	req.Equal("Hello, world", session.Messages[1].Content)
	req.False(session.Messages[1].IsError)
	req.False(controller.Loading())
	req.Equal("gemini-2.5-flash", completer.gotModel)

	// Title derived from the first user message.
	req.Equal("hi there", session.Title)

	// The final state was persisted.
	req.Equal("Hello, world", store.lastSaved()[0].Messages[1].Content)
}

func TestSendMessageHistoryIsPreSendSnapshot(t *testing.T) {
	req := require.New(t)

	completer := &fakeCompleter{fragments: []string{"ok"}}
	controller, _ := newTestController(completer)

	// On a fresh session the seeded history is empty: the new text travels
	// only as the new turn, never duplicated inside the history.
	controller.SendMessage(context.Background(), "first", nil)
	req.Empty(completer.gotHistory)
	req.Equal("first", completer.gotText)

	controller.SendMessage(context.Background(), "second", nil)

	// History holds the completed prior turn only: the first user message
	// and its response. No placeholder, no second copy of the new text.
	req.Len(completer.gotHistory, 2)
	req.Equal(RoleUser, completer.gotHistory[0].Role)
	req.Equal("first", completer.gotHistory[0].Content)
	req.Equal(RoleModel, completer.gotHistory[1].Role)
	req.Equal("ok", completer.gotHistory[1].Content)
	req.Equal("second", completer.gotText)
}

func TestSendMessageTitleFrozenAfterFirstTurn(t *testing.T) {
	req := require.New(t)

	completer := &fakeCompleter{fragments: []string{"ok"}}
	controller, _ := newTestController(completer)

	controller.SendMessage(context.Background(), "first message", nil)
	controller.SendMessage(context.Background(), "second message", nil)
	req.Equal("first message", controller.CurrentSession().Title)
}

func TestSendMessageImageOnlyTitle(t *testing.T) {
	req := require.New(t)

	completer := &fakeCompleter{fragments: []string{"a cat"}}
	controller, _ := newTestController(completer)

	controller.SendMessage(context.Background(), "", []Attachment{{MimeType: "image/png", Data: "aGk="}})
	req.Equal(ImageChatTitle, controller.CurrentSession().Title)
}

func TestSendMessageEmptySubmissionIsNoop(t *testing.T) {
	req := require.New(t)

	completer := &fakeCompleter{}
	controller, _ := newTestController(completer)

	controller.SendMessage(context.Background(), "   ", nil)
	req.True(controller.CurrentSession().IsEmpty())
	req.Empty(completer.gotText)
}

func TestSendMessageWhileLoadingIsNoop(t *testing.T) {
	req := require.New(t)

	completer := &fakeCompleter{fragments: []string{"ok"}}
	controller, _ := newTestController(completer)
	completer.onInvoke = func() {
		req.True(controller.Loading())
		// Re-entrant send while the request is outstanding: rejected.
		controller.SendMessage(context.Background(), "sneaky", nil)
	}

	controller.SendMessage(context.Background(), "hello", nil)

	session := controller.CurrentSession()
	req.Len(session.Messages, 2)
	req.False(controller.Loading())
}

func TestSendMessageFailureAnnotatesPlaceholder(t *testing.T) {
	req := require.New(t)

	completer := &fakeCompleter{fragments: []string{"Partial answer"}, err: errors.New("boom")}
	controller, store := newTestController(completer)

	controller.SendMessage(context.Background(), "hello", nil)

	placeholder := controller.CurrentSession().Messages[1]
	req.Equal("Partial answer"+ErrorNotice, placeholder.Content)
	req.True(placeholder.IsError)
	req.False(controller.Loading())

	// The failure is part of the durable history.
	req.True(store.lastSaved()[0].Messages[1].IsError)
}

func TestDeleteSessionSwitchesCurrent(t *testing.T) {
	req := require.New(t)

	controller, store := newTestController(&fakeCompleter{fragments: []string{"ok"}})
	a := controller.Sessions()[0]
	controller.SendMessage(context.Background(), "keep me", nil)

	b := controller.NewSession()
	req.Equal(b.ID, controller.CurrentSessionID())

	controller.DeleteSession(b.ID)
	req.Equal(a.ID, controller.CurrentSessionID())
	req.Len(controller.Sessions(), 1)

	saved := store.lastSaved()
	req.Len(saved, 1)
	req.Equal(a.ID, saved[0].ID)
}

func TestDeleteLastSessionLeavesFreshOne(t *testing.T) {
	req := require.New(t)

	controller, _ := newTestController(&fakeCompleter{})
	id := controller.CurrentSessionID()

	controller.DeleteSession(id)

	sessions := controller.Sessions()
	req.Len(sessions, 1)
	req.NotEqual(id, sessions[0].ID)
	req.True(sessions[0].IsEmpty())
	req.Equal(DefaultTitle, sessions[0].Title)
	req.Equal(sessions[0].ID, controller.CurrentSessionID())
}

func TestSelectSession(t *testing.T) {
	req := require.New(t)

	controller, _ := newTestController(&fakeCompleter{})
	a := controller.Sessions()[0]
	controller.NewSession()

	controller.SelectSession(a.ID)
	req.Equal(a.ID, controller.CurrentSessionID())

	// Unknown ids are ignored.
	controller.SelectSession("missing")
	req.Equal(a.ID, controller.CurrentSessionID())
}

func TestOnChangeNotified(t *testing.T) {
	req := require.New(t)

	controller, _ := newTestController(&fakeCompleter{fragments: []string{"a", "b"}})
	notified := 0
	controller.SetOnChange(func() { notified++ })

	controller.SendMessage(context.Background(), "hello", nil)

	// At least: user+placeholder append, two fragments, final state.
	req.GreaterOrEqual(notified, 4)
}
