package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveTitle(t *testing.T) {
	req := require.New(t)

	req.Equal("Image Chat", DeriveTitle(""))
	req.Equal("hello", DeriveTitle("hello"))
	req.Equal(strings.Repeat("a", 30), DeriveTitle(strings.Repeat("a", 45)))

	// Multi-byte runes count as single characters.
	req.Equal(strings.Repeat("é", 30), DeriveTitle(strings.Repeat("é", 31)))
}

func TestSessionAppend(t *testing.T) {
	req := require.New(t)

	session := NewSession()
	req.Equal(DefaultTitle, session.Title)
	req.True(session.IsEmpty())

	updated := session.Append(NewUserMessage("what is the capital of France, actually?", nil))
	req.Equal("what is the capital of France,", updated.Title)
	req.Len(updated.Messages, 1)

	// The input session is untouched.
	req.True(session.IsEmpty())
	req.Equal(DefaultTitle, session.Title)

	// The title is frozen after the first user message.
	updated = updated.Append(NewUserMessage("something else entirely", nil))
	req.Equal("what is the capital of France,", updated.Title)

	// Model messages never set a title.
	other := NewSession().Append(NewModelMessage())
	req.Equal(DefaultTitle, other.Title)
}

func TestCollectionInsertAndFind(t *testing.T) {
	req := require.New(t)

	a, b := NewSession(), NewSession()
	collection := Collection{}.Insert(a).Insert(b)

	// Newest first.
	req.Equal(b.ID, collection[0].ID)
	req.Equal(a.ID, collection[1].ID)
	req.Equal(a, collection.Find(a.ID))
	req.Nil(collection.Find("missing"))
}

func TestCollectionRemove(t *testing.T) {
	req := require.New(t)

	a, b := NewSession(), NewSession()
	collection := Collection{a, b}

	out := collection.Remove(a.ID)
	req.Len(out, 1)
	req.Equal(b.ID, out[0].ID)

	// The input collection is untouched.
	req.Len(collection, 2)
}

func TestCollectionRemoveLast(t *testing.T) {
	req := require.New(t)

	a := NewSession()
	out := Collection{a}.Remove(a.ID)

	// Removing the last session yields a fresh empty one, never an empty
	// collection.
	req.Len(out, 1)
	req.NotEqual(a.ID, out[0].ID)
	req.True(out[0].IsEmpty())
	req.Equal(DefaultTitle, out[0].Title)
}

func TestCollectionReplace(t *testing.T) {
	req := require.New(t)

	a, b := NewSession(), NewSession()
	collection := Collection{a, b}

	updated := a.Append(NewUserMessage("hi", nil))
	out := collection.Replace(updated)
	req.Equal(updated, out[0])
	req.Equal(b, out[1])
	req.True(collection[0].IsEmpty())
}
