package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aimchat/aimchat/chat"
	"github.com/aimchat/aimchat/configuration"
)

type stubStore struct{}

func (stubStore) Load() chat.Collection      { return nil }
func (stubStore) Save(chat.Collection) error { return nil }

type stubCompleter struct{}

func (stubCompleter) StreamCompletion(ctx context.Context, history []*chat.Message, newText string, attachments []chat.Attachment, modelID string, onChunk func(string)) (string, error) {
	return "", nil
}

func newTestModel(t *testing.T) *Model {
	t.Helper()
	config := &configuration.Config{DefaultModel: "test-model"}
	controller := chat.NewController(stubStore{}, stubCompleter{}, "test-model")
	model, err := New(context.Background(), config, controller)
	require.NoError(t, err)
	return model
}

func TestStreamDoneReleasesRequestContext(t *testing.T) {
	req := require.New(t)

	m := newTestModel(t)
	cancelled := false
	m.cancelStream = func() { cancelled = true }

	m.Update(StreamDoneMsg{})
	req.True(cancelled)
	req.Nil(m.cancelStream)

	// A second settle without an outstanding request is a no-op.
	m.Update(StreamDoneMsg{})
}
