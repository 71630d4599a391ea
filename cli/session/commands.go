package session

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"github.com/aimchat/aimchat/internal/file"
)

// parseCommand interprets slash commands typed into the input.
// Supported: /attach <path>, /model <name>.
func (m *Model) parseCommand(text string) (tea.Cmd, bool) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "/") {
		return nil, false
	}
	fields := strings.Fields(trimmed)
	switch fields[0] {
	case "/attach":
		if len(fields) < 2 {
			return commandError(errors.New("usage: /attach <path>")), true
		}
		path := strings.TrimSpace(strings.TrimPrefix(trimmed, "/attach"))
		return loadAttachment(path), true
	case "/model":
		if len(fields) != 2 {
			return commandError(errors.New("usage: /model <name>")), true
		}
		model, err := m.config.Model(fields[1])
		if err != nil {
			return commandError(err), true
		}
		m.controller.SetModel(model.Name)
		return nil, true
	default:
		return commandError(errors.Errorf("unknown command %s", fields[0])), true
	}
}

// sendMessage clears the input and drives the controller in the background.
// The controller call blocks until the stream finishes; its progress reaches
// the UI through StateChangedMsg notifications.
func (m *Model) sendMessage(text string) tea.Cmd {
	attachments := m.pendingAttachments
	m.pendingAttachments = nil
	m.textarea.Reset()
	m.history.Add(text)

	var ctx context.Context
	var cancel context.CancelFunc
	if timeout := m.config.RequestTimeout; timeout > 0 {
		ctx, cancel = context.WithTimeout(m.ctx, time.Duration(timeout)*time.Second)
	} else {
		ctx, cancel = context.WithCancel(m.ctx)
	}
	m.cancelStream = cancel
	controller := m.controller
	return func() tea.Msg {
		controller.SendMessage(ctx, text, attachments)
		return StreamDoneMsg{}
	}
}

func loadAttachment(path string) tea.Cmd {
	return func() tea.Msg {
		attachment, err := file.LoadAttachment(path)
		if err != nil {
			return CommandErrorMsg{Err: err}
		}
		return AttachmentLoadedMsg{Attachment: attachment}
	}
}

func commandError(err error) tea.Cmd {
	return func() tea.Msg { return CommandErrorMsg{Err: err} }
}
