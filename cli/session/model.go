// Package session implements the interactive chat TUI: a sidebar of
// sessions, a markdown thread viewport and a message input.
package session

import (
	"context"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.dalton.dog/bubbleup"

	"github.com/aimchat/aimchat/chat"
	"github.com/aimchat/aimchat/configuration"
	"github.com/aimchat/aimchat/internal/debug"
	"github.com/aimchat/aimchat/internal/history"
	"github.com/aimchat/aimchat/internal/markdown"
)

var log = debug.GetLogger()

// Model represents the Bubble Tea model for the chat TUI.
type Model struct {
	// Core dependencies
	ctx        context.Context
	config     *configuration.Config
	controller *chat.Controller

	// UI components
	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *markdown.Renderer
	alert    bubbleup.AlertModel

	// UI state
	width        int
	height       int
	ready        bool
	showSidebar  bool
	focusSidebar bool
	sidebarIndex int
	quitting     bool
	statusErr    error

	// Attachments staged for the next message.
	pendingAttachments []chat.Attachment

	// Input history
	history           *history.History
	historyNavigating bool

	// Stream control
	cancelStream context.CancelFunc

	// Clipboard availability (golang.design/x/clipboard needs a display).
	clipboardOK bool

	// Program reference for sending messages from goroutines
	program   *tea.Program
	programMu sync.Mutex
}

// New creates a new chat TUI model.
func New(ctx context.Context, config *configuration.Config, controller *chat.Controller) (*Model, error) {
	ta := textarea.New()
	ta.Placeholder = "Type your message... (Ctrl+J to send, Tab for sidebar, /attach <file>, Ctrl+C to quit)"
	ta.Focus()
	ta.CharLimit = 0
	ta.SetHeight(MinTextareaHeight)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(true)
	ta.Prompt = ""

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	renderer, err := markdown.NewRenderer(80)
	if err != nil {
		return nil, err
	}

	return &Model{
		ctx:         ctx,
		config:      config,
		controller:  controller,
		textarea:    ta,
		spinner:     sp,
		renderer:    renderer,
		alert:       *bubbleup.NewAlertModel(25, true, 1),
		history:     history.NewHistory(),
		showSidebar: true,
	}, nil
}

// SetProgram sets the tea.Program reference for async message sending.
func (m *Model) SetProgram(p *tea.Program) {
	m.programMu.Lock()
	defer m.programMu.Unlock()
	m.program = p
}

// getProgram safely gets the program reference.
func (m *Model) getProgram() *tea.Program {
	m.programMu.Lock()
	defer m.programMu.Unlock()
	return m.program
}

// SetClipboardAvailable records whether clipboard writes can be attempted.
func (m *Model) SetClipboardAvailable(ok bool) { m.clipboardOK = ok }

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		m.alert.Init(),
	)
}

// currentSession returns the controller's current session snapshot.
func (m *Model) currentSession() *chat.Session {
	return m.controller.CurrentSession()
}

// selectedModelLabel returns the label of the selected model.
func (m *Model) selectedModelLabel() string {
	model, err := m.config.Model(m.controller.Model())
	if err != nil {
		return m.controller.Model()
	}
	return model.Label
}

// cycleModel selects the next model in the configured table.
func (m *Model) cycleModel() {
	models := m.config.Models
	if len(models) == 0 {
		return
	}
	current := m.controller.Model()
	next := models[0]
	for i, model := range models {
		if model.Name == current && i+1 < len(models) {
			next = models[i+1]
			break
		}
	}
	m.controller.SetModel(next.Name)
}
