package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/adventure-engine/internal/engine"
	"github.com/muesli/reflow/wordwrap"
)

const placeholderText = "What do you do?"

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	narratorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	feedbackStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)
)

// GameUI is the BubbleTea model that runs the terminal game.
type GameUI struct {
	processor *engine.TurnProcessor
	session   *engine.Session

	viewport viewport.Model
	textarea textarea.Model
	lines    []string
	ready    bool
	loading  bool
	quitting bool
	width    int
	height   int
}

type turnMsg struct {
	utterance string
	result    *engine.TurnResult
	err       error
}

type savedMsg struct {
	err error
}

func NewGameUI(processor *engine.TurnProcessor, sess *engine.Session) *GameUI {
	ta := textarea.New()
	ta.Placeholder = placeholderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 500
	ta.SetWidth(50)
	ta.SetHeight(2)
	ta.ShowLineNumbers = false

	vp := viewport.New(50, 20)
	vp.MouseWheelEnabled = true

	ui := &GameUI{
		processor: processor,
		session:   sess,
		viewport:  vp,
		textarea:  ta,
	}
	ui.writeOpening()
	return ui
}

func (m *GameUI) Init() tea.Cmd {
	return textarea.Blink
}

func (m *GameUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		taCmd tea.Cmd
		vpCmd tea.Cmd
	)
	m.textarea, taCmd = m.textarea.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - m.textarea.Height() - 3
		m.textarea.SetWidth(msg.Width - 4)
		m.ready = true
		m.refresh()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, m.saveAndQuit()
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}
			m.textarea.Reset()
			return m, m.handleInput(input)
		}

	case turnMsg:
		m.loading = false
		// Commit here, on the UI goroutine. The turn runs in a Cmd
		// goroutine that must not touch the session while View and
		// statusBar read it.
		if msg.err == nil && !m.quitting {
			m.session.State = msg.result.State
		}
		m.appendTurn(msg)
		m.refresh()

	case savedMsg:
		if msg.err != nil {
			m.appendLine(errorStyle.Render(fmt.Sprintf("Warning: final save failed: %v", msg.err)))
			m.refresh()
		}
		return m, tea.Quit
	}

	return m, tea.Batch(taCmd, vpCmd)
}

func (m *GameUI) View() string {
	if !m.ready {
		return "Loading..."
	}
	return fmt.Sprintf("%s\n%s\n%s\n%s",
		m.viewport.View(),
		separatorStyle.Render(strings.Repeat("─", max(0, m.width))),
		m.textarea.View(),
		m.statusBar(),
	)
}

func (m *GameUI) statusBar() string {
	status := m.session.State.DescribeStats()
	if m.loading {
		status += "  |  interpreting your action..."
	}
	return statusStyle.Render(status)
}

// handleInput resolves shortcut commands locally and sends everything
// else to the turn processor.
func (m *GameUI) handleInput(input string) tea.Cmd {
	m.appendLine(userStyle.Render("> " + input))

	if cmd := engine.TryHandleCommand(m.session.State, input); cmd.Handled {
		if cmd.Quit {
			m.appendLine(narratorStyle.Render(cmd.Message))
			m.refresh()
			return m.saveAndQuit()
		}
		m.appendLine(narratorStyle.Render(cmd.Message))
		m.refresh()
		return nil
	}

	m.loading = true
	m.refresh()

	utterance := input
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		result, err := m.processor.ProcessTurn(ctx, m.session, utterance)
		return turnMsg{utterance: utterance, result: result, err: err}
	}
}

func (m *GameUI) saveAndQuit() tea.Cmd {
	m.quitting = true
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return savedMsg{err: m.processor.SaveNow(ctx, m.session)}
	}
}

// appendTurn renders the outcome of one processed turn.
func (m *GameUI) appendTurn(msg turnMsg) {
	if msg.err != nil {
		m.appendLine(errorStyle.Render(msg.err.Error()))
		m.appendLine(promptStyle.Render("Try rephrasing your action, or type 'help'."))
		return
	}

	result := msg.result
	d := result.Delta

	if len(d.PlayerActions) > 0 {
		m.appendLine(feedbackStyle.Render("You: " + strings.Join(d.PlayerActions, ", ")))
	}
	if len(d.InventoryChanges.Added) > 0 {
		m.appendLine(feedbackStyle.Render("Gained: " + strings.Join(d.InventoryChanges.Added, ", ")))
	}
	if len(d.InventoryChanges.Removed) > 0 {
		m.appendLine(feedbackStyle.Render("Lost: " + strings.Join(d.InventoryChanges.Removed, ", ")))
	}
	for _, interaction := range d.EntityInteractions {
		line := fmt.Sprintf("%s %s", strings.ReplaceAll(interaction.Action, "_", " "), interaction.ID)
		if interaction.Outcome != "" {
			line += " - " + interaction.Outcome
		}
		m.appendLine(feedbackStyle.Render(line))
	}
	if change := d.PlayerStatsChanges.HealthChange; change != 0 {
		m.appendLine(feedbackStyle.Render(fmt.Sprintf("Health %+d", change)))
	}
	if change := d.PlayerStatsChanges.GoldChange; change != 0 {
		m.appendLine(feedbackStyle.Render(fmt.Sprintf("Gold %+d", change)))
	}
	if gained := d.PlayerStatsChanges.XPGained; gained > 0 {
		m.appendLine(feedbackStyle.Render(fmt.Sprintf("XP +%d", gained)))
	}
	for _, quest := range d.QuestUpdates {
		m.appendLine(feedbackStyle.Render(fmt.Sprintf("Quest '%s': %s", quest.QuestID, quest.Status)))
	}
	for _, event := range d.GameEvents {
		m.appendLine(feedbackStyle.Render(strings.ReplaceAll(event, "_", " ") + "!"))
	}
	if result.NarrativeHint != "" {
		m.appendLine(narratorStyle.Render(result.NarrativeHint))
	}
	if d.LocationChanges.NewLocationID != "" {
		m.appendLine(narratorStyle.Render(m.session.State.DescribeLocation()))
	}
	if result.PlayerDied {
		m.appendLine(errorStyle.Render("You have died. Your adventure ends here."))
	}
	if result.SaveFailed {
		m.appendLine(errorStyle.Render("Warning: progress could not be saved and may not survive a restart."))
	}
}

func (m *GameUI) writeOpening() {
	m.appendLine(titleStyle.Render("ADVENTURE ENGINE"))
	m.appendLine("")
	if m.session.Recovered {
		m.appendLine(errorStyle.Render("Your save file was unreadable; the world has been restored from the beginning."))
		m.appendLine("")
	}
	m.appendLine(narratorStyle.Render(m.session.State.DescribeLocation()))
	m.appendLine("")
	m.appendLine(promptStyle.Render("Describe your actions naturally. Type 'help' for shortcuts."))
}

func (m *GameUI) appendLine(line string) {
	m.lines = append(m.lines, line)
}

func (m *GameUI) refresh() {
	if !m.ready {
		return
	}
	width := max(20, m.viewport.Width-4)
	var content strings.Builder
	for _, line := range m.lines {
		content.WriteString(wordwrap.String(line, width))
		content.WriteString("\n")
	}
	m.viewport.SetContent(content.String())
	m.viewport.GotoBottom()
}
