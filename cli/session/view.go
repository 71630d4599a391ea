package session

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aimchat/aimchat/chat"
)

// View renders the model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	if m.controller.Loading() {
		b.WriteString(fmt.Sprintf("%s Generating...", m.spinner.View()))
	} else {
		b.WriteString(m.textarea.View())
	}
	main := b.String()

	if !m.showSidebar {
		return main
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), main)
}

// renderSidebar renders the session list, newest first.
func (m *Model) renderSidebar() string {
	var b strings.Builder
	b.WriteString(sidebarTitleStyle.Render("AimChat"))
	b.WriteString("\n\n")

	currentID := m.controller.CurrentSessionID()
	for i, session := range m.controller.Sessions() {
		title := session.Title
		if runes := []rune(title); len(runes) > SidebarWidth-4 {
			title = string(runes[:SidebarWidth-4]) + "…"
		}
		style := sessionItemStyle
		switch {
		case m.focusSidebar && i == m.sidebarIndex:
			style = sessionItemFocusedStyle
		case session.ID == currentID:
			style = sessionItemActiveStyle
		}
		b.WriteString(style.Render(title))
		b.WriteString("\n")
	}
	if m.focusSidebar {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render("enter select · n new · d del"))
	}
	return sidebarStyle.Height(m.height).Render(b.String())
}

// renderStatus renders the line between thread and input: model, staged
// attachments and the last command error.
func (m *Model) renderStatus() string {
	parts := []string{statusStyle.Render(m.selectedModelLabel())}
	if n := len(m.pendingAttachments); n > 0 {
		names := make([]string, n)
		for i, attachment := range m.pendingAttachments {
			names[i] = attachment.Name
		}
		parts = append(parts, attachmentStyle.Render(fmt.Sprintf("📎 %s", strings.Join(names, ", "))))
	}
	if m.statusErr != nil {
		parts = append(parts, errorTextStyle.Render(m.statusErr.Error()))
	}
	return strings.Join(parts, "  ")
}

// renderMessages renders the current session's transcript.
func (m *Model) renderMessages() string {
	session := m.currentSession()
	if session == nil || session.IsEmpty() {
		return statusStyle.Render("Start a conversation. Markdown and image attachments are supported.")
	}

	streamingID := ""
	if m.controller.Loading() {
		if last := session.LastMessage(); last != nil && last.Role == chat.RoleModel {
			streamingID = last.ID
		}
	}

	var b strings.Builder
	for _, msg := range session.Messages {
		if msg.Role == chat.RoleUser {
			b.WriteString(userLabelStyle.Render("You"))
			b.WriteString("\n")
			b.WriteString(msg.Content)
			for _, attachment := range msg.Attachments {
				b.WriteString("\n")
				b.WriteString(attachmentStyle.Render("📎 " + attachment.Name))
			}
		} else {
			b.WriteString(modelLabelStyle.Render("AimChat"))
			b.WriteString("\n")
			finalized := msg.ID != streamingID
			rendered := m.renderer.Render(msg.ID, msg.Content, finalized && !msg.IsError)
			if msg.IsError {
				rendered = errorTextStyle.Render(rendered)
			}
			b.WriteString(rendered)
		}
		b.WriteString("\n\n")
	}
	return b.String()
}

// refreshViewport re-renders the transcript into the viewport.
func (m *Model) refreshViewport(gotoBottom bool) {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderMessages())
	if gotoBottom {
		m.viewport.GotoBottom()
	}
}

// recalculateLayout resizes the components to the current terminal size.
func (m *Model) recalculateLayout() {
	mainWidth := m.width
	if m.showSidebar {
		mainWidth -= SidebarWidth + 1
	}
	if mainWidth < 20 {
		mainWidth = 20
	}

	viewportHeight := m.height - MinTextareaHeight - 2
	if viewportHeight < 5 {
		viewportHeight = 5
	}

	m.viewport.Width = mainWidth
	m.viewport.Height = viewportHeight
	m.textarea.SetWidth(mainWidth)
	if err := m.renderer.SetWidth(mainWidth); err != nil {
		log.Error("resizing markdown renderer", "error", err)
	}
}
