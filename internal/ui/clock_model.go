package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/michael-freling/tabletop-clock/internal/clock"
	"github.com/michael-freling/tabletop-clock/internal/session"
)

const noticeDuration = 2 * time.Second

type clockKeyMap struct {
	TapOne key.Binding
	TapTwo key.Binding
	Pause  key.Binding
	Save   key.Binding
	Exit   key.Binding
	Yes    key.Binding
	No     key.Binding
}

func (k clockKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.TapOne, k.TapTwo, k.Pause, k.Save, k.Exit}
}

func (k clockKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Yes, k.No}}
}

var clockKeys = clockKeyMap{
	TapOne: key.NewBinding(key.WithKeys("1", "a"), key.WithHelp("1/a", "tap P1")),
	TapTwo: key.NewBinding(key.WithKeys("2", "l"), key.WithHelp("2/l", "tap P2")),
	Pause:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause/resume")),
	Save:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save & exit")),
	Exit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "exit")),
	Yes:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
	No:     key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),
}

type operation int

const (
	opOpen operation = iota
	opSave
	opExit
)

// Message types
type (
	snapshotMsg    clock.Snapshot
	promptMsg      confirmRequest
	noticeMsg      string
	clearNoticeMsg struct{}
	opDoneMsg      struct {
		op  operation
		err error
	}
)

// ClockModel is the two-sided clock screen
type ClockModel struct {
	ctx       context.Context
	session   *session.Session
	confirmer *Confirmer
	notifier  *Notifier
	open      func(ctx context.Context) error
	updates   <-chan clock.Snapshot

	keys clockKeyMap
	help help.Model

	snap     clock.Snapshot
	pending  *confirmRequest
	notice   string
	busy     bool
	err      error
	quitting bool
}

// NewClockModel creates the clock screen. open runs once when the screen
// starts, typically Session.Start or Session.ResumeFrom, and may ask for
// confirmation through confirmer.
func NewClockModel(ctx context.Context, sess *session.Session, confirmer *Confirmer, notifier *Notifier, open func(ctx context.Context) error) *ClockModel {
	m := &ClockModel{
		ctx:       ctx,
		session:   sess,
		confirmer: confirmer,
		notifier:  notifier,
		open:      open,
		updates:   sess.Subscribe(),
		keys:      clockKeys,
		help:      help.New(),
	}
	m.refresh()
	return m
}

// Err returns the error that ended the screen, if any
func (m *ClockModel) Err() error {
	return m.err
}

func (m *ClockModel) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.waitForSnapshot(),
		m.waitForPrompt(),
		m.waitForNotice(),
	}
	if m.open != nil {
		m.busy = true
		cmds = append(cmds, m.run(opOpen, m.open))
	}
	return tea.Batch(cmds...)
}

func (m *ClockModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case snapshotMsg:
		m.snap = clock.Snapshot(msg)
		return m, m.waitForSnapshot()

	case promptMsg:
		req := confirmRequest(msg)
		m.pending = &req
		return m, m.waitForPrompt()

	case noticeMsg:
		m.notice = string(msg)
		return m, tea.Batch(
			m.waitForNotice(),
			tea.Tick(noticeDuration, func(time.Time) tea.Msg { return clearNoticeMsg{} }),
		)

	case clearNoticeMsg:
		m.notice = ""
		return m, nil

	case opDoneMsg:
		return m.finish(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *ClockModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.pending != nil {
		switch {
		case key.Matches(msg, m.keys.Yes):
			m.answer(true)
		case key.Matches(msg, m.keys.No):
			m.answer(false)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.TapOne):
		m.tap(clock.SideOne)
	case key.Matches(msg, m.keys.TapTwo):
		m.tap(clock.SideTwo)
	case key.Matches(msg, m.keys.Pause):
		m.togglePause()
	case key.Matches(msg, m.keys.Save):
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, m.run(opSave, m.session.Save)
	case key.Matches(msg, m.keys.Exit):
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, m.run(opExit, func(ctx context.Context) error {
			return m.session.Exit(ctx, false)
		})
	}
	return m, nil
}

func (m *ClockModel) answer(ok bool) {
	m.pending.reply <- ok
	m.pending = nil
}

func (m *ClockModel) tap(side clock.Side) {
	if _, err := m.session.Tap(side); err != nil {
		m.err = err
	}
	m.refresh()
}

func (m *ClockModel) togglePause() {
	var err error
	switch m.snap.State {
	case clock.StatePlaying:
		_, err = m.session.Pause()
	case clock.StatePaused:
		_, err = m.session.Resume()
	}
	if err != nil {
		m.err = err
	}
	m.refresh()
}

func (m *ClockModel) refresh() {
	snap, err := m.session.Snapshot()
	if err != nil {
		m.err = err
		return
	}
	m.snap = snap
}

func (m *ClockModel) finish(msg opDoneMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	m.refresh()

	switch {
	case msg.err == nil:
		m.err = nil
		if msg.op == opOpen {
			return m, nil
		}
	case errors.Is(msg.err, session.ErrCancelled):
		if msg.op != opOpen {
			return m, nil
		}
	default:
		m.err = msg.err
		if msg.op != opOpen {
			return m, nil
		}
	}

	m.quitting = true
	return m, tea.Quit
}

// run executes a session operation off the UI goroutine so that its
// confirmation prompt can be answered from the screen
func (m *ClockModel) run(op operation, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{op: op, err: fn(m.ctx)}
	}
}

func (m *ClockModel) waitForSnapshot() tea.Cmd {
	return func() tea.Msg {
		select {
		case snap := <-m.updates:
			return snapshotMsg(snap)
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *ClockModel) waitForPrompt() tea.Cmd {
	return func() tea.Msg {
		select {
		case req := <-m.confirmer.requests:
			return promptMsg(req)
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *ClockModel) waitForNotice() tea.Cmd {
	return func() tea.Msg {
		select {
		case message := <-m.notifier.messages:
			return noticeMsg(message)
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *ClockModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s  %s  turn %d  %s\n\n",
		Bold(string(m.snap.Mode)),
		dimStyle.Render(describeConfig(m.snap.Mode, m.snap.Config)),
		m.snap.TurnCount,
		FormatState(m.snap.State),
	))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderSide(clock.SideOne),
		"  ",
		m.renderSide(clock.SideTwo),
	))
	b.WriteString("\n\n")

	switch m.snap.State {
	case clock.StateReady:
		b.WriteString("Tap your side to start your opponent's clock.\n")
	case clock.StatePaused:
		b.WriteString(Yellow("Paused.") + " Press space or tap to continue.\n")
	case clock.StateFinished:
		b.WriteString(Red(fmt.Sprintf("%s ran out of time.", m.snap.Expired())) + "\n")
	}

	if m.pending != nil {
		b.WriteString(promptStyle.Render(m.pending.prompt.Message()+"  [y/n]") + "\n")
	}
	if m.notice != "" {
		b.WriteString(Green("✓ "+m.notice) + "\n")
	}
	if m.err != nil {
		b.WriteString(Red("✗ "+m.err.Error()) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func (m *ClockModel) renderSide(side clock.Side) string {
	style := sideStyle
	switch {
	case m.snap.Expired() == side:
		style = expiredSideStyle
	case m.snap.Active == side && m.snap.State == clock.StatePlaying:
		style = activeSideStyle
	}
	return style.Render(side.String() + "\n\n" + FormatTime(m.snap.Time(side)))
}

func describeConfig(mode clock.Mode, cfg clock.Config) string {
	switch mode {
	case clock.ModeGong:
		return fmt.Sprintf("%ds per move", cfg.GongSeconds)
	case clock.ModeFischer:
		return fmt.Sprintf("%s +%ds from turn %d", FormatTime(cfg.TotalTimeSeconds), cfg.IncrementSeconds, cfg.IncrementStartTurn)
	case clock.ModeBronstein:
		return fmt.Sprintf("%s delay %ds", FormatTime(cfg.TotalTimeSeconds), cfg.IncrementSeconds)
	default:
		return FormatTime(cfg.TotalTimeSeconds)
	}
}
