package chat

// Extend returns a copy of messages with fragment concatenated onto the
// content of the message with the given id. Fragments must be applied in
// delivery order; Extend never reorders, buffers or deduplicates them.
// Messages other than the target are shared with the input slice.
func Extend(messages []*Message, id, fragment string) []*Message {
	out := make([]*Message, len(messages))
	for i, msg := range messages {
		if msg.ID == id {
			extended := *msg
			extended.Content = msg.Content + fragment
			out[i] = &extended
		} else {
			out[i] = msg
		}
	}
	return out
}

// ExtendMessage folds a streamed fragment into the identified message of the
// identified session, returning the updated collection.
func (c Collection) ExtendMessage(sessionID, messageID, fragment string) Collection {
	session := c.Find(sessionID)
	if session == nil {
		return c
	}
	out := *session
	out.Messages = Extend(session.Messages, messageID, fragment)
	return c.Replace(&out)
}

// FailMessage marks the identified message as errored, appending the given
// notice to whatever content has accumulated so far.
func (c Collection) FailMessage(sessionID, messageID, notice string) Collection {
	session := c.Find(sessionID)
	if session == nil {
		return c
	}
	out := *session
	out.Messages = make([]*Message, len(session.Messages))
	for i, msg := range session.Messages {
		if msg.ID == messageID {
			failed := *msg
			failed.Content += notice
			failed.IsError = true
			out.Messages[i] = &failed
		} else {
			out.Messages[i] = msg
		}
	}
	return c.Replace(&out)
}
