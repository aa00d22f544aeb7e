// Package console is a terminal front end that stands in for the chat
// provider. Commands typed into the input and toggles picked from the latest
// checklist go through the same controller the webhook uses.
package console

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/checkd/internal/checklist"
	"github.com/sandeepkv93/checkd/internal/views"
)

// Controller is the part of checklist.Controller the console drives.
type Controller interface {
	HandleText(ctx context.Context, chatID int64, text string) error
	HandleToggle(ctx context.Context, ref checklist.MessageRef, token string) error
}

// Trigger fires the daily checklist.
type Trigger interface {
	Fire(ctx context.Context, now time.Time) error
}

type StatusBar struct {
	Text    string
	IsError bool
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// eventDoneMsg reports the end of a controller call started by a key press.
type eventDoneMsg struct {
	status string
	err    error
}

const helpMarkdown = `# checkd console

Type a command and press **enter**:

- ` + "`/addlist 2026-01-13 Milk;Eggs`" + ` saves a checklist (` + "`mon`..`sun`" + ` for weekday defaults)
- ` + "`/list 2026-01-13`" + ` shows it
- ` + "`/removelist 2026-01-13`" + ` deletes it

Press **tab** to move into the latest checklist, **up/down** to pick an item
and **enter** to check it. **ctrl+t** sends today's checklist.`

type keyMap struct {
	Submit  key.Binding
	Focus   key.Binding
	Up      key.Binding
	Down    key.Binding
	Trigger key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Focus, k.Up, k.Down, k.Trigger, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

func defaultKeys() keyMap {
	return keyMap{
		Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send/toggle")),
		Focus:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "input/list")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Trigger: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "daily")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	}
}

type Model struct {
	ctx        context.Context
	controller Controller
	trigger    Trigger
	transcript *Transcript
	now        func() time.Time

	input     textinput.Model
	help      help.Model
	keys      keyMap
	activeID  int64
	Cursor    int
	FocusList bool

	HelpVisible bool
	helpView    string
	Busy        bool
	Status      StatusBar
	LastError   error
	Quitting    bool
}

func NewModel(ctx context.Context, controller Controller, trigger Trigger, transcript *Transcript) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	input := textinput.New()
	input.Placeholder = "/addlist 2026-01-13 Task1;Task2"
	input.Prompt = "> "
	input.CharLimit = 512
	input.Focus()

	return Model{
		ctx:        ctx,
		controller: controller,
		trigger:    trigger,
		transcript: transcript,
		now:        time.Now,
		input:      input,
		help:       help.New(),
		keys:       defaultKeys(),
		Status:     StatusBar{Text: "ready"},
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.input.Width = max(typed.Width-4, 10)
		m.help.Width = typed.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(typed)
	case eventDoneMsg:
		m.Busy = false
		m.syncActive()
		if typed.err != nil {
			m.LastError = typed.err
			m.Status = StatusBar{Text: "error: " + typed.err.Error(), IsError: true}
			return m, nil
		}
		m.Status = StatusBar{Text: typed.status}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Trigger):
		if m.trigger == nil {
			m.Status = StatusBar{Text: "daily trigger not configured", IsError: true}
			return m, nil
		}
		return m.startEvent("daily checklist sent", func(ctx context.Context) error {
			return m.trigger.Fire(ctx, m.now())
		})
	case key.Matches(msg, m.keys.Focus):
		m.syncActive()
		if m.activeID == 0 {
			m.FocusList = false
			m.Status = StatusBar{Text: "no checklist to select"}
			return m, nil
		}
		m.FocusList = !m.FocusList
		if m.FocusList {
			m.input.Blur()
		} else {
			m.input.Focus()
		}
		return m, nil
	}

	if m.FocusList {
		return m.handleListKey(msg)
	}

	if key.Matches(msg, m.keys.Submit) {
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		m.input.SetValue("")
		m.HelpVisible = isHelp(text)
		if m.HelpVisible && m.helpView == "" {
			m.helpView = views.RenderMarkdown(helpMarkdown)
		}
		return m.startEvent("sent "+firstWord(text), func(ctx context.Context) error {
			return m.controller.HandleText(ctx, ChatID, text)
		})
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entry, ok := m.transcript.Active()
	if !ok {
		m.FocusList = false
		m.input.Focus()
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.Cursor > 0 {
			m.Cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.Cursor < len(entry.Controls)-1 {
			m.Cursor++
		}
	case key.Matches(msg, m.keys.Submit):
		if m.Cursor >= len(entry.Controls) {
			return m, nil
		}
		token := entry.Controls[m.Cursor].Action
		ref := checklist.MessageRef{ChatID: ChatID, MessageID: entry.ID}
		return m.startEvent("toggled", func(ctx context.Context) error {
			return m.controller.HandleToggle(ctx, ref, token)
		})
	}
	return m, nil
}

func (m Model) startEvent(status string, run func(context.Context) error) (tea.Model, tea.Cmd) {
	m.Busy = true
	ctx := m.ctx
	return m, func() tea.Msg {
		return eventDoneMsg{status: status, err: run(ctx)}
	}
}

// syncActive follows the newest checklist message and resets the cursor when
// it changes.
func (m *Model) syncActive() {
	entry, ok := m.transcript.Active()
	if !ok {
		m.activeID = 0
		m.Cursor = 0
		return
	}
	if entry.ID != m.activeID {
		m.activeID = entry.ID
		m.Cursor = 0
	}
	if m.Cursor >= len(entry.Controls) {
		m.Cursor = len(entry.Controls) - 1
	}
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	status := m.Status.Text
	if m.Busy {
		status = "working..."
	}
	out := views.RenderConsole(views.ConsoleData{
		Header:     "checkd console",
		Entries:    m.transcript.Entries(),
		ActiveID:   m.activeID,
		Cursor:     m.Cursor,
		FocusList:  m.FocusList,
		Input:      m.input.View(),
		StatusLine: status,
		Footer:     m.help.View(m.keys),
	})
	if m.HelpVisible {
		out = m.helpView + "\n" + out
	}
	return out
}

func isHelp(text string) bool {
	word := firstWord(text)
	if at := strings.Index(word, "@"); at >= 0 {
		word = word[:at]
	}
	return strings.EqualFold(word, "/help")
}

func firstWord(text string) string {
	if fields := strings.Fields(text); len(fields) > 0 {
		return fields[0]
	}
	return ""
}
