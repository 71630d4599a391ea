package chat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtend(t *testing.T) {
	req := require.New(t)

	placeholder := NewModelMessage()
	messages := []*Message{NewUserMessage("hi", nil), placeholder}

	for _, fragment := range []string{"Hel", "lo, ", "world"} {
		messages = Extend(messages, placeholder.ID, fragment)
	}
	req.Equal("Hello, world", messages[1].Content)

	// The original placeholder was never mutated in place.
	req.Equal("", placeholder.Content)

	// Unknown ids leave content untouched.
	messages = Extend(messages, "missing", "x")
	req.Equal("Hello, world", messages[1].Content)
}

func TestExtendMessage(t *testing.T) {
	req := require.New(t)

	session := NewSession()
	placeholder := NewModelMessage()
	session = session.Append(NewUserMessage("hi", nil)).Append(placeholder)
	collection := Collection{session}

	out := collection.ExtendMessage(session.ID, placeholder.ID, "chunk")
	req.Equal("chunk", out[0].Messages[1].Content)
	req.Equal("", collection[0].Messages[1].Content)

	// Unknown session ids are a no-op.
	req.Equal(out, out.ExtendMessage("missing", placeholder.ID, "x"))
}

func TestFailMessage(t *testing.T) {
	req := require.New(t)

	session := NewSession()
	placeholder := NewModelMessage()
	session = session.Append(NewUserMessage("hi", nil)).Append(placeholder)
	collection := Collection{session}.ExtendMessage(session.ID, placeholder.ID, "Partial answer")

	out := collection.FailMessage(session.ID, placeholder.ID, ErrorNotice)
	failed := out[0].Messages[1]
	req.Equal("Partial answer"+ErrorNotice, failed.Content)
	req.True(failed.IsError)

	// Prior snapshot untouched.
	req.False(collection[0].Messages[1].IsError)
}
