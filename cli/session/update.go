package session

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.dalton.dog/bubbleup"
	"golang.design/x/clipboard"

	"github.com/aimchat/aimchat/chat"
)

// narrowWidth is the terminal width under which the sidebar behaves as an
// overlay and closes on session creation.
const narrowWidth = 80

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	outAlert, alertCmd := m.alert.Update(msg)
	m.alert = outAlert.(bubbleup.AlertModel)
	if alertCmd != nil {
		cmds = append(cmds, alertCmd)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKey(msg, cmds)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.recalculateLayout()
		m.refreshViewport(true)

	case StateChangedMsg:
		wasAtBottom := m.viewport.AtBottom()
		m.refreshViewport(wasAtBottom)
		return m, tea.Batch(cmds...)

	case StreamDoneMsg:
		// Release the request context (and its timeout timer) now that the
		// stream has settled.
		if m.cancelStream != nil {
			m.cancelStream()
			m.cancelStream = nil
		}
		m.refreshViewport(true)
		return m, tea.Batch(cmds...)

	case AttachmentLoadedMsg:
		m.pendingAttachments = append(m.pendingAttachments, msg.Attachment)
		m.statusErr = nil
		return m, tea.Batch(cmds...)

	case CommandErrorMsg:
		m.statusErr = msg.Err
		return m, tea.Batch(cmds...)
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	cmds = append(cmds, cmd)
	m.textarea, cmd = m.textarea.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) updateKey(msg tea.KeyMsg, cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	loading := m.controller.Loading()

	if m.focusSidebar {
		return m.updateSidebarKey(msg, cmds)
	}

	switch msg.String() {
	case "alt+p":
		if !loading {
			if entry, ok := m.history.Previous(m.textarea.Value()); ok {
				m.textarea.SetValue(entry)
				m.historyNavigating = true
			}
			return m, nil
		}
	case "alt+n":
		if !loading {
			if entry, ok := m.history.Next(); ok {
				m.textarea.SetValue(entry)
				m.historyNavigating = true
			}
			return m, nil
		}
	case "alt+m":
		if !loading {
			m.cycleModel()
		}
		return m, nil
	case "alt+w":
		return m.copyLastResponse(cmds)
	}

	switch msg.Type {
	case tea.KeyCtrlC:
		if loading && m.cancelStream != nil {
			m.cancelStream()
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case tea.KeyCtrlJ:
		if !loading {
			return m.submit(cmds)
		}
		return m, nil

	case tea.KeyCtrlN:
		m.newSession()
		return m, nil

	case tea.KeyCtrlB:
		m.showSidebar = !m.showSidebar
		m.recalculateLayout()
		m.refreshViewport(true)
		return m, nil

	case tea.KeyTab:
		if m.showSidebar {
			m.focusSidebar = true
			m.sidebarIndex = m.currentSidebarIndex()
			m.textarea.Blur()
		}
		return m, nil

	case tea.KeyEnter:
		if m.historyNavigating {
			m.history.Reset()
			m.historyNavigating = false
		}

	case tea.KeyRunes, tea.KeyBackspace, tea.KeyDelete:
		if m.historyNavigating {
			m.history.Reset()
			m.historyNavigating = false
		}
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) updateSidebarKey(msg tea.KeyMsg, cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	sessions := m.controller.Sessions()
	switch msg.String() {
	case "up", "k":
		if m.sidebarIndex > 0 {
			m.sidebarIndex--
		}
	case "down", "j":
		if m.sidebarIndex < len(sessions)-1 {
			m.sidebarIndex++
		}
	case "enter":
		if m.sidebarIndex < len(sessions) {
			m.controller.SelectSession(sessions[m.sidebarIndex].ID)
		}
		m.focusInput()
		m.refreshViewport(true)
	case "n":
		m.newSession()
		m.focusInput()
	case "d":
		if !m.controller.Loading() && m.sidebarIndex < len(sessions) {
			m.controller.DeleteSession(sessions[m.sidebarIndex].ID)
			if m.sidebarIndex >= len(m.controller.Sessions()) {
				m.sidebarIndex = len(m.controller.Sessions()) - 1
			}
			m.refreshViewport(true)
		}
	case "tab", "esc":
		m.focusInput()
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}
	return m, tea.Batch(cmds...)
}

// submit either runs a slash command or sends the input as a message.
func (m *Model) submit(cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	text := m.textarea.Value()
	if strings.TrimSpace(text) == "" && len(m.pendingAttachments) == 0 {
		return m, tea.Batch(cmds...)
	}
	if cmd, ok := m.parseCommand(text); ok {
		m.textarea.Reset()
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}
	cmds = append(cmds, m.sendMessage(text))
	return m, tea.Batch(cmds...)
}

// newSession creates a session and, on narrow terminals, closes the sidebar
// overlay.
func (m *Model) newSession() {
	m.controller.NewSession()
	if m.width < narrowWidth {
		m.showSidebar = false
		m.recalculateLayout()
	}
	m.refreshViewport(true)
}

func (m *Model) focusInput() {
	m.focusSidebar = false
	m.textarea.Focus()
}

// currentSidebarIndex returns the index of the current session in the
// collection, for initial sidebar selection.
func (m *Model) currentSidebarIndex() int {
	currentID := m.controller.CurrentSessionID()
	for i, session := range m.controller.Sessions() {
		if session.ID == currentID {
			return i
		}
	}
	return 0
}

// copyLastResponse writes the most recent model message to the clipboard.
func (m *Model) copyLastResponse(cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	session := m.currentSession()
	if session == nil || !m.clipboardOK {
		return m, tea.Batch(cmds...)
	}
	for i := len(session.Messages) - 1; i >= 0; i-- {
		if session.Messages[i].Role == chat.RoleModel {
			clipboard.Write(clipboard.FmtText, []byte(session.Messages[i].Content))
			cmds = append(cmds, m.alert.NewAlertCmd(bubbleup.InfoKey, "Copied to clipboard!"))
			break
		}
	}
	return m, tea.Batch(cmds...)
}
