package session

import "github.com/aimchat/aimchat/chat"

// StateChangedMsg signals that the controller mutated its state; the view
// re-reads its snapshot.
type StateChangedMsg struct{}

// StreamDoneMsg signals that a SendMessage call returned (success, failure
// or cancellation -- the transcript already reflects which).
type StreamDoneMsg struct{}

// AttachmentLoadedMsg carries an attachment staged for the next message.
type AttachmentLoadedMsg struct {
	Attachment chat.Attachment
}

// CommandErrorMsg carries a slash-command failure for the status line.
type CommandErrorMsg struct {
	Err error
}
