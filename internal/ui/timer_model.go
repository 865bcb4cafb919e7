package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/michael-freling/tabletop-clock/internal/clock"
)

type timerKeyMap struct {
	Toggle   key.Binding
	Reset    key.Binding
	Less     key.Binding
	More     key.Binding
	MuchLess key.Binding
	MuchMore key.Binding
	Quit     key.Binding
}

func (k timerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Reset, k.Less, k.More, k.MuchLess, k.MuchMore, k.Quit}
}

func (k timerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var timerKeys = timerKeyMap{
	Toggle:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "start/stop")),
	Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
	Less:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "-10s")),
	More:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "+10s")),
	MuchLess: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "-1m")),
	MuchMore: key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "+1m")),
	Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

type timerStateMsg clock.TimerState

// TimerModel is the plain countdown timer screen
type TimerModel struct {
	ctx     context.Context
	timer   *clock.PlainTimer
	updates <-chan clock.TimerState

	keys timerKeyMap
	help help.Model

	state    clock.TimerState
	err      error
	quitting bool
}

// NewTimerModel creates the timer screen for a running PlainTimer
func NewTimerModel(ctx context.Context, timer *clock.PlainTimer) *TimerModel {
	m := &TimerModel{
		ctx:     ctx,
		timer:   timer,
		updates: timer.Subscribe(),
		keys:    timerKeys,
		help:    help.New(),
	}
	m.refresh()
	return m
}

func (m *TimerModel) Init() tea.Cmd {
	return m.waitForState()
}

func (m *TimerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case timerStateMsg:
		m.state = clock.TimerState(msg)
		return m, m.waitForState()

	case tea.KeyMsg:
		var err error
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Toggle):
			err = m.timer.Toggle()
		case key.Matches(msg, m.keys.Reset):
			err = m.timer.Reset()
		case key.Matches(msg, m.keys.Less):
			err = m.timer.Adjust(-10)
		case key.Matches(msg, m.keys.More):
			err = m.timer.Adjust(10)
		case key.Matches(msg, m.keys.MuchLess):
			err = m.timer.Adjust(-60)
		case key.Matches(msg, m.keys.MuchMore):
			err = m.timer.Adjust(60)
		}
		if err != nil {
			m.err = err
		}
		m.refresh()
	}

	return m, nil
}

func (m *TimerModel) refresh() {
	st, err := m.timer.State()
	if err != nil {
		m.err = err
		return
	}
	m.state = st
}

func (m *TimerModel) waitForState() tea.Cmd {
	return func() tea.Msg {
		select {
		case st := <-m.updates:
			return timerStateMsg(st)
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *TimerModel) View() string {
	if m.quitting {
		return ""
	}

	style := sideStyle
	switch {
	case m.state.Remaining == 0:
		style = expiredSideStyle
	case m.state.Running:
		style = activeSideStyle
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(style.Render(FormatTime(m.state.Remaining)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("start " + FormatTime(m.state.StartValue)))
	b.WriteString("\n")
	if m.state.Remaining == 0 {
		b.WriteString(Red("Time is up.") + "\n")
	}
	if m.err != nil {
		b.WriteString(Red("✗ "+m.err.Error()) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}
