// Package tui is the interactive front end: numeric fields for the run
// parameters, a start key, a live progress bar and match log, and the
// final summary.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/lox/playnine/internal/config"
	"github.com/lox/playnine/internal/game"
	"github.com/lox/playnine/internal/report"
	"github.com/lox/playnine/internal/simulator"
)

// maxLogLines bounds the match log kept in memory.
const maxLogLines = 500

const (
	fieldTarget = iota
	fieldRounds
	fieldSimulations
	fieldMode
	fieldCount
)

var fieldLabels = [fieldCount]string{
	fieldTarget:      "Target score",
	fieldRounds:      "Rounds",
	fieldSimulations: "Simulations",
	fieldMode:        "Mode (race/solo)",
}

type progressMsg int

type matchMsg simulator.MatchRecord

type finishedMsg struct {
	result *simulator.Result
	err    error
}

// monitor forwards simulator events into the model's message channel.
type monitor chan<- tea.Msg

func (m monitor) OnProgress(percent int) { m <- progressMsg(percent) }

func (m monitor) OnMatchFound(match simulator.MatchRecord) { m <- matchMsg(match) }

// Model is the bubbletea model for an interactive session.
type Model struct {
	base   simulator.Config
	logger *log.Logger

	inputs  [fieldCount]textinput.Model
	focused int

	progress progress.Model
	percent  int
	logView  viewport.Model
	logLines []string

	running bool
	cancel  context.CancelFunc
	msgs    chan tea.Msg

	result *simulator.Result
	err    error

	width, height int
}

// New creates a model whose fields start from base.
func New(base simulator.Config, logger *log.Logger) *Model {
	m := &Model{
		base:     base,
		logger:   logger.WithPrefix("tui"),
		progress: progress.New(progress.WithDefaultGradient()),
		logView:  viewport.New(60, 8),
	}

	values := [fieldCount]string{
		fieldTarget:      strconv.Itoa(base.TargetScore),
		fieldRounds:      strconv.Itoa(base.Rounds),
		fieldSimulations: strconv.Itoa(base.Simulations),
		fieldMode:        string(base.Mode),
	}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 10
		ti.Width = 12
		ti.SetValue(values[i])
		m.inputs[i] = ti
	}
	m.inputs[fieldTarget].Focus()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.progress.Width = max(10, msg.Width-8)
		m.logView.Width = max(20, msg.Width-4)
		m.logView.Height = max(3, msg.Height-18)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.stop()
			return m, tea.Quit
		case "esc":
			if m.running {
				m.stop()
				return m, nil
			}
			return m, tea.Quit
		case "tab", "down":
			if !m.running {
				m.focus((m.focused + 1) % fieldCount)
			}
			return m, nil
		case "shift+tab", "up":
			if !m.running {
				m.focus((m.focused + fieldCount - 1) % fieldCount)
			}
			return m, nil
		case "enter":
			if m.running {
				return m, nil
			}
			return m, m.start()
		}

	case progressMsg:
		m.percent = int(msg)
		return m, m.waitForEvent()

	case matchMsg:
		m.appendLog(fmt.Sprintf("Match found! %s", simulator.MatchRecord(msg)))
		return m, m.waitForEvent()

	case finishedMsg:
		m.running = false
		m.cancel = nil
		m.result = msg.result
		if msg.err != nil && !simulator.IsCancelled(msg.err) {
			m.err = msg.err
		}
		return m, nil
	}

	if m.running {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

func (m *Model) focus(i int) {
	m.inputs[m.focused].Blur()
	m.focused = i
	m.inputs[i].Focus()
}

func (m *Model) appendLog(line string) {
	m.logLines = append(m.logLines, line)
	if len(m.logLines) > maxLogLines {
		m.logLines = m.logLines[len(m.logLines)-maxLogLines:]
	}
	m.logView.SetContent(strings.Join(m.logLines, "\n"))
	m.logView.GotoBottom()
}

// Config parses the input fields into a run configuration.
func (m *Model) Config() (simulator.Config, error) {
	cfg := m.base

	ints := []struct {
		field int
		dst   *int
	}{
		{fieldTarget, &cfg.TargetScore},
		{fieldRounds, &cfg.Rounds},
		{fieldSimulations, &cfg.Simulations},
	}
	for _, f := range ints {
		v, err := strconv.Atoi(strings.TrimSpace(m.inputs[f.field].Value()))
		if err != nil {
			return cfg, fmt.Errorf("%s must be a whole number", fieldLabels[f.field])
		}
		*f.dst = v
	}

	mode, err := game.ParseMode(m.inputs[fieldMode].Value())
	if err != nil {
		return cfg, err
	}
	cfg.Mode = mode

	if err := config.Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// start launches a run in the background and returns the command that
// delivers its first event.
func (m *Model) start() tea.Cmd {
	cfg, err := m.Config()
	if err != nil {
		m.err = err
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	msgs := make(chan tea.Msg, 256)
	cfg.Logger = m.logger
	cfg.Monitor = monitor(msgs)

	m.running = true
	m.cancel = cancel
	m.msgs = msgs
	m.err = nil
	m.result = nil
	m.percent = 0
	m.logLines = nil
	m.logView.SetContent("")

	m.logger.Debug("Starting run", "target", cfg.TargetScore, "rounds", cfg.Rounds, "simulations", cfg.Simulations)
	go func() {
		res, err := simulator.Run(ctx, cfg)
		msgs <- finishedMsg{result: res, err: err}
	}()
	return m.waitForEvent()
}

func (m *Model) waitForEvent() tea.Cmd {
	msgs := m.msgs
	return func() tea.Msg {
		return <-msgs
	}
}

func (m *Model) stop() {
	if m.cancel != nil {
		m.cancel()
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(HeaderStyle.Render("Play Nine Probability Simulator"))
	b.WriteString("\n\n")

	for i, in := range m.inputs {
		label := LabelStyle
		if i == m.focused && !m.running {
			label = FocusedLabelStyle
		}
		fmt.Fprintf(&b, "%s %s\n", label.Render(fmt.Sprintf("%-17s", fieldLabels[i]+":")), in.View())
	}
	b.WriteString("\n")

	switch {
	case m.running:
		b.WriteString(m.progress.ViewAs(float64(m.percent) / 100))
		b.WriteString("\n")
		b.WriteString(InfoStyle.Render("esc: stop run"))
	case m.err != nil:
		b.WriteString(ErrorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
		b.WriteString(InfoStyle.Render("enter: start  tab: next field  esc: quit"))
	default:
		b.WriteString(InfoStyle.Render("enter: start  tab: next field  esc: quit"))
	}
	b.WriteString("\n")

	if len(m.logLines) > 0 {
		b.WriteString(PaneStyle.Render(MatchLogStyle.Render(m.logView.View())))
		b.WriteString("\n")
	}

	if m.result != nil {
		var summary strings.Builder
		report.PrintSummary(&summary, m.result, m.base.Rules)
		b.WriteString(summary.String())
	}
	return b.String()
}

// Result returns the last finished run, if any.
func (m *Model) Result() *simulator.Result {
	return m.result
}

// Run starts the interactive program and blocks until the user quits.
func Run(base simulator.Config, logger *log.Logger) error {
	_, err := tea.NewProgram(New(base, logger), tea.WithAltScreen()).Run()
	return err
}
