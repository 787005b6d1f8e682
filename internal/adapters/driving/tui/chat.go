// Package tui provides the interactive chat interface, following the Elm
// architecture via Bubbletea.
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

	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
)

// answerReceived is emitted when the chat service produced an answer.
type answerReceived struct {
	answer *driving.Answer
}

// askFailed is emitted when the chat service returned an error.
type askFailed struct {
	err error
}

// entry is one rendered transcript element.
type entry struct {
	question string
	answer   *driving.Answer
	err      error
}

// Chat is the interactive chat model. It implements tea.Model.
type Chat struct {
	svc       driving.ChatService
	sessionID string
	ctx       context.Context
	styles    *Styles

	input    textinput.Model
	spin     spinner.Model
	viewport viewport.Model

	transcript []entry
	waiting    bool
	ready      bool
	width      int
	height     int
}

// Ensure Chat implements tea.Model.
var _ tea.Model = (*Chat)(nil)

// NewChat creates a chat model bound to a session.
func NewChat(svc driving.ChatService, sessionID string) *Chat {
	s := DefaultStyles()

	input := textinput.New()
	input.Placeholder = "Ask a question..."
	input.Prompt = "> "
	input.Focus()

	spin := spinner.New(spinner.WithSpinner(spinner.Dot))
	spin.Style = s.Muted

	return &Chat{
		svc:       svc,
		sessionID: sessionID,
		ctx:       context.Background(),
		styles:    s,
		input:     input,
		spin:      spin,
		viewport:  viewport.New(80, 20),
		width:     80,
		height:    24,
	}
}

// WithContext sets the context used for chat service calls.
func (c *Chat) WithContext(ctx context.Context) *Chat {
	if ctx != nil {
		c.ctx = ctx
	}
	return c
}

// Init starts the input cursor blink.
func (c *Chat) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (c *Chat) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.setDimensions(msg.Width, msg.Height)
		c.ready = true
		return c, nil

	case tea.KeyMsg:
		return c.handleKey(msg)

	case spinner.TickMsg:
		if !c.waiting {
			return c, nil
		}
		var cmd tea.Cmd
		c.spin, cmd = c.spin.Update(msg)
		return c, cmd

	case answerReceived:
		c.waiting = false
		c.transcript[len(c.transcript)-1].answer = msg.answer
		c.refreshViewport()
		return c, nil

	case askFailed:
		c.waiting = false
		c.transcript[len(c.transcript)-1].err = msg.err
		c.refreshViewport()
		return c, nil
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

func (c *Chat) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return c, tea.Quit

	case tea.KeyCtrlL:
		c.svc.ClearHistory(c.sessionID)
		c.transcript = nil
		c.refreshViewport()
		return c, nil

	case tea.KeyEnter:
		question := strings.TrimSpace(c.input.Value())
		if question == "" || c.waiting {
			return c, nil
		}
		c.input.Reset()
		c.transcript = append(c.transcript, entry{question: question})
		c.waiting = true
		c.refreshViewport()
		return c, tea.Batch(c.ask(question), c.spin.Tick)

	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		c.viewport, cmd = c.viewport.Update(msg)
		return c, cmd
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

// ask runs the chat service call off the UI loop.
func (c *Chat) ask(question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := c.svc.Ask(c.ctx, c.sessionID, question)
		if err != nil {
			return askFailed{err: err}
		}
		return answerReceived{answer: answer}
	}
}

// View renders the chat screen.
func (c *Chat) View() string {
	if !c.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(c.styles.Title.Render("askdoc chat"))
	b.WriteString("\n")
	b.WriteString(c.viewport.View())
	b.WriteString("\n")

	inputLine := c.input.View()
	if c.waiting {
		inputLine = c.spin.View() + " Thinking..."
	}
	b.WriteString(c.styles.Input.Width(c.width - 2).Render(inputLine))
	b.WriteString("\n")
	b.WriteString(c.styles.Help.Render("enter: send • ctrl+l: clear history • esc: quit"))

	return b.String()
}

func (c *Chat) setDimensions(width, height int) {
	c.width = width
	c.height = height
	c.input.Width = width - 8

	// Title, input box (3 with border), and help line take the rest.
	viewHeight := height - 6
	if viewHeight < 3 {
		viewHeight = 3
	}
	c.viewport.Width = width
	c.viewport.Height = viewHeight
	c.refreshViewport()
}

// refreshViewport re-renders the transcript and scrolls to the bottom.
func (c *Chat) refreshViewport() {
	wrap := lipgloss.NewStyle().Width(c.viewport.Width - 2)

	var sections []string
	for i := range c.transcript {
		e := &c.transcript[i]
		sections = append(sections, c.styles.Question.Render("You: ")+e.question)

		switch {
		case e.err != nil:
			sections = append(sections, c.styles.Error.Render("Error: "+e.err.Error()))
		case e.answer != nil:
			sections = append(sections, wrap.Render(c.renderAnswer(e.answer)))
		}
	}

	c.viewport.SetContent(strings.Join(sections, "\n\n"))
	c.viewport.GotoBottom()
}

func (c *Chat) renderAnswer(answer *driving.Answer) string {
	var b strings.Builder

	if answer.Text != "" {
		b.WriteString(c.styles.Answer.Render(answer.Text))
	} else if len(answer.Sources) == 0 {
		b.WriteString(c.styles.Muted.Render("No relevant passages found."))
	} else {
		b.WriteString(c.styles.Muted.Render("No LLM configured; showing sources only."))
	}

	for i := range answer.Sources {
		src := &answer.Sources[i]
		b.WriteString("\n")
		b.WriteString(c.styles.Source.Render(
			fmt.Sprintf("[%d] %s (%.2f)", i+1, src.Chunk.ID, src.Score)))
	}

	return b.String()
}
