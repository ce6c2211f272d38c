package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dgallion1/documind/internal/apiclient"
	"github.com/dgallion1/documind/internal/document"
)

// ChatPort is the TUI-facing subset of the API client.
type ChatPort interface {
	Chat(ctx context.Context, query string, useRAG bool) (document.Answer, error)
	UploadText(ctx context.Context, text string) (apiclient.UploadResult, error)
	UploadPDF(ctx context.Context, path string) (apiclient.UploadResult, error)
}

type role int

const (
	roleUser role = iota
	roleAssistant
	roleSystem
	roleError
)

// message is one line of the append-only conversation log.
type message struct {
	role    role
	text    string
	sources []string
}

// Model is the Bubble Tea model for the chat client.
type Model struct {
	client      ChatPort
	input       textinput.Model
	viewport    viewport.Model
	spinner     spinner.Model
	messages    []message
	useRAG      bool
	showSources bool
	waiting     bool
	ready       bool
}

// New creates a new chat model. The greeting is shown as the first
// transcript line.
func New(client ChatPort, greeting string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question, /upload <path>, or /text <fact>"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		client:   client,
		input:    ti,
		viewport: vp,
		spinner:  sp,
		useRAG:   true,
		messages: []message{{role: roleSystem, text: greeting}},
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// chatResultMsg delivers one finished chat request.
type chatResultMsg struct {
	answer document.Answer
	err    error
}

// uploadResultMsg delivers one finished ingestion request.
type uploadResultMsg struct {
	result apiclient.UploadResult
	err    error
}

func chatCmd(client ChatPort, query string, useRAG bool) tea.Cmd {
	return func() tea.Msg {
		ans, err := client.Chat(context.Background(), query, useRAG)
		return chatResultMsg{answer: ans, err: err}
	}
}

func uploadPDFCmd(client ChatPort, path string) tea.Cmd {
	return func() tea.Msg {
		result, err := client.UploadPDF(context.Background(), path)
		return uploadResultMsg{result: result, err: err}
	}
}

func uploadTextCmd(client ChatPort, text string) tea.Cmd {
	return func() tea.Msg {
		result, err := client.UploadText(context.Background(), text)
		return uploadResultMsg{result: result, err: err}
	}
}

// Update handles key, window, and request-completion events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 2 + th + ih // header, status, box frames
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width-transcriptBoxStyle.GetHorizontalFrameSize())
		m.viewport.Height = vh
		m.refreshTranscript()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+r":
			m.useRAG = !m.useRAG
			return m, nil
		case "ctrl+s":
			m.showSources = !m.showSources
			m.refreshTranscript()
			return m, nil
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		case "enter":
			return m.submit()
		}

	case spinner.TickMsg:
		if m.waiting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case chatResultMsg:
		m.waiting = false
		if msg.err != nil {
			m.messages = append(m.messages, message{role: roleError, text: msg.err.Error()})
		} else {
			m.messages = append(m.messages, message{
				role:    roleAssistant,
				text:    msg.answer.Text,
				sources: msg.answer.Sources,
			})
		}
		m.refreshTranscript()
		return m, nil

	case uploadResultMsg:
		m.waiting = false
		if msg.err != nil {
			m.messages = append(m.messages, message{role: roleError, text: msg.err.Error()})
		} else {
			m.messages = append(m.messages, message{
				role: roleSystem,
				text: fmt.Sprintf("%s (%d chunks added)", msg.result.Message, msg.result.ChunksAdded),
			})
		}
		m.refreshTranscript()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit reads the input line, renders it immediately, and starts the
// matching request. One request runs at a time.
func (m Model) submit() (Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	if line == "" || m.waiting {
		return m, nil
	}
	m.input.Reset()
	m.messages = append(m.messages, message{role: roleUser, text: line})

	c := parseCommand(line)
	switch c.kind {
	case cmdUploadPDF:
		if c.arg == "" {
			m.messages = append(m.messages, message{role: roleError, text: "usage: /upload <path>"})
			m.refreshTranscript()
			return m, nil
		}
		m.waiting = true
		m.refreshTranscript()
		return m, tea.Batch(uploadPDFCmd(m.client, c.arg), m.spinner.Tick)

	case cmdUploadText:
		if c.arg == "" {
			m.messages = append(m.messages, message{role: roleError, text: "usage: /text <text>"})
			m.refreshTranscript()
			return m, nil
		}
		m.waiting = true
		m.refreshTranscript()
		return m, tea.Batch(uploadTextCmd(m.client, c.arg), m.spinner.Tick)

	case cmdUnknown:
		m.messages = append(m.messages, message{role: roleError, text: "unknown command: /" + c.arg})
		m.refreshTranscript()
		return m, nil
	}

	m.waiting = true
	m.refreshTranscript()
	return m, tea.Batch(chatCmd(m.client, line, m.useRAG), m.spinner.Tick)
}

func (m *Model) refreshTranscript() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Connecting..."
	}
	header := headerStyle.Render("DocuMind Chat")
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	return header + "\n" + transcript + "\n" + input + "\n" + m.statusLine()
}

func (m Model) statusLine() string {
	if m.waiting {
		return statusStyle.Render(m.spinner.View() + " waiting for answer...")
	}
	mode := "RAG on"
	if !m.useRAG {
		mode = "RAG off"
	}
	return statusStyle.Render(fmt.Sprintf("%s | enter send | ctrl+r rag | ctrl+s sources | esc quit", mode))
}

func (m Model) renderTranscript() string {
	var sb strings.Builder
	for i, msg := range m.messages {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		switch msg.role {
		case roleUser:
			sb.WriteString(userStyle.Render("You") + " " + msg.text)
		case roleAssistant:
			sb.WriteString(botStyle.Render("Assistant") + " " + msg.text)
			sb.WriteString(m.renderSources(msg.sources))
		case roleSystem:
			sb.WriteString(systemStyle.Render(msg.text))
		case roleError:
			sb.WriteString(errorStyle.Render("Error: " + msg.text))
		}
	}
	out := sb.String()
	if m.viewport.Width > 0 {
		return lipgloss.NewStyle().Width(m.viewport.Width).Render(out)
	}
	return out
}

// renderSources shows citations collapsed to a count, or expanded one
// per line when toggled.
func (m Model) renderSources(sources []string) string {
	if len(sources) == 0 {
		return ""
	}
	if !m.showSources {
		return "\n" + systemStyle.Render(fmt.Sprintf("(%d sources, ctrl+s to expand)", len(sources)))
	}
	var sb strings.Builder
	sb.WriteString("\n" + systemStyle.Render("Sources:"))
	for _, s := range sources {
		sb.WriteString("\n" + systemStyle.Render("  - "+s))
	}
	return sb.String()
}

type commandKind int

const (
	cmdChat commandKind = iota
	cmdUploadPDF
	cmdUploadText
	cmdUnknown
)

type command struct {
	kind commandKind
	arg  string
}

// parseCommand maps an input line to a chat query or slash command.
func parseCommand(line string) command {
	if !strings.HasPrefix(line, "/") {
		return command{kind: cmdChat, arg: line}
	}
	name, arg, _ := strings.Cut(line[1:], " ")
	arg = strings.TrimSpace(arg)
	switch name {
	case "upload":
		return command{kind: cmdUploadPDF, arg: arg}
	case "text":
		return command{kind: cmdUploadText, arg: arg}
	default:
		return command{kind: cmdUnknown, arg: name}
	}
}

var (
	headerStyle        = lipgloss.NewStyle().Bold(true)
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	userStyle          = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	botStyle           = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	systemStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)
