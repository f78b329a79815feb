// Command statekit-demo wires the statekit pieces into a small program:
// type a name, press enter to run a delayed greeting through a request
// session (supersede policy), undo/redo the input with ctrl+z/ctrl+y, and
// the last successful greeting is persisted across runs.
package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/statekit/history"
	"github.com/jask/statekit/internal/config"
	"github.com/jask/statekit/persist"
	"github.com/jask/statekit/request"
	"github.com/jask/statekit/teastate"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#89b4fa")).Bold(true)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#585b70"))
)

type model struct {
	ctx      context.Context
	input    string
	hist     *history.History[string]
	sess     *request.Session[string, string]
	relay    *teastate.Relay[string]
	snap     request.Snapshot[string]
	last     *persist.State[string]
	styles   teastate.StatusStyles
	undoKeys teastate.UndoKeys
	saveErr  error
	quitting bool
}

func (m model) Init() tea.Cmd {
	return m.relay.Next()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if v, ok := teastate.HandleUndoKeys(m.hist, m.undoKeys, msg); ok {
			m.input = v
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c", "esc":
			m.sess.Close()
			m.quitting = true
			return m, tea.Quit
		case "enter":
			name := strings.TrimSpace(m.input)
			if name == "" {
				return m, nil
			}
			m.hist.Push(name)
			return m, teastate.SubmitCmd(m.sess, name)
		case "backspace":
			if len(m.input) > 0 {
				m.input = m.input[:len(m.input)-1]
			}
			return m, nil
		default:
			if msg.Type == tea.KeyRunes {
				m.input += string(msg.Runes)
			}
			return m, nil
		}

	case teastate.TransitionMsg[string]:
		m.snap = msg.Snapshot
		if m.snap.Phase == request.PhaseDone && m.snap.OK {
			m.saveErr = m.last.Set(m.ctx, m.snap.Value)
		}
		return m, m.relay.Next()
	}
	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(promptStyle.Render("name> "))
	b.WriteString(m.input)
	b.WriteString("\n\n")
	b.WriteString(teastate.RenderStatus(m.styles, m.snap))
	b.WriteString("\n")
	if m.saveErr != nil {
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("save failed: %v", m.saveErr)))
		b.WriteString("\n")
	}
	if last := m.last.Get(); last != "" {
		b.WriteString(hintStyle.Render("last greeting: " + last))
		b.WriteString("\n")
	}
	b.WriteString(hintStyle.Render("enter submit · ctrl+z undo · ctrl+y redo · esc quit"))
	b.WriteString("\n")
	return b.String()
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	store, err := persist.NewFileStore(filepath.Join(cfg.State.Dir, "statekit.toml"))
	if err != nil {
		log.Fatalf("open state file: %v", err)
	}
	last := persist.NewState(ctx, store, "last_greeting", "", persist.StateConfig{})

	delay := time.Duration(cfg.Greeter.DelayMS) * time.Millisecond
	template := cfg.Greeter.Template
	relay := teastate.NewRelay[string]("greeting")
	sess := request.New(func(ctx context.Context, name string) (string, error) {
		select {
		case <-time.After(delay):
			return fmt.Sprintf(template, name), nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}, request.Config[string]{
		Policy:   request.Supersede,
		Observer: relay.Observer(),
	})

	m := model{
		ctx:      ctx,
		hist:     history.New(""),
		sess:     sess,
		relay:    relay,
		last:     last,
		styles:   teastate.DefaultStatusStyles(),
		undoKeys: teastate.DefaultUndoKeys(),
	}
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatalf("run: %v", err)
	}
}
