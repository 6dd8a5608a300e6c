package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styling
var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0a84ff")).
			Bold(true)

	botStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#30d158"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff453a"))

	intentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#30d158")).
			Padding(0, 1)
)

// Model defines the application state
type Model struct {
	input   textinput.Model
	spinner spinner.Model
	client  *ApiClient
	lines   []string
	loading bool
	err     string
}

type chatMsg struct {
	result *ChatResult
	err    error
}

func initialModel() Model {
	ti := textinput.New()
	ti.Placeholder = "What would you like to order?"
	ti.Focus()
	ti.CharLimit = 280
	ti.Width = 60

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		input:   ti,
		spinner: s,
		client:  NewApiClient(),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.client.ClearSession()
			return m, tea.Quit
		case tea.KeyEnter:
			text := strings.TrimSpace(m.input.Value())
			if text == "" || m.loading {
				return m, nil
			}
			m.lines = append(m.lines, userStyle.Render("you: ")+text)
			m.input.Reset()
			m.loading = true
			m.err = ""
			return m, tea.Batch(m.spinner.Tick, m.sendUtterance(text))
		}

	case chatMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.lines = append(m.lines, botStyle.Render("maitred: ")+msg.result.Reply)
		for _, c := range msg.result.Candidates {
			line := fmt.Sprintf("  • %s (%.1f★", c.Name, c.Rating)
			if c.DistanceKm != nil {
				line += fmt.Sprintf(", %.1f km", *c.DistanceKm)
			}
			m.lines = append(m.lines, line+")")
		}
		if msg.result.Intent != nil {
			m.lines = append(m.lines, intentStyle.Render("order placed: "+summarize(msg.result)))
		}
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) sendUtterance(text string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.client.Chat(text, nil, nil)
		return chatMsg{result: result, err: err}
	}
}

func summarize(r *ChatResult) string {
	parts := make([]string, 0, len(r.Intent.Items))
	for _, item := range r.Intent.Items {
		parts = append(parts, fmt.Sprintf("%dx %s", item.Quantity, item.Name))
	}
	return strings.Join(parts, ", ")
}

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("maitred — order by chat"))
	b.WriteString("\n\n")

	for _, line := range m.lines {
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.err != "" {
		b.WriteString(errorStyle.Render("error: " + m.err))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.loading {
		b.WriteString(m.spinner.View() + " thinking...")
	} else {
		b.WriteString(m.input.View())
	}
	b.WriteString("\n\n(esc to quit)")

	return docStyle.Render(b.String())
}

func main() {
	client := NewApiClient()
	if !client.CheckHealth() {
		fmt.Printf("Warning: API server at %s is not available.\n", client.BaseURL)
	}

	if _, err := tea.NewProgram(initialModel()).Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
