// Package tui provides the full-screen fragment picker built on bubbletea.
package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"retitle/internal/composer"
	"retitle/internal/selection"
)

// Model is the bubbletea model for one document.
type Model struct {
	path     string
	state    *selection.State
	keys     *KeyMap
	styles   *Styles
	input    textinput.Model
	cursor   int
	editing  bool
	done     bool
	decision selection.Decision
}

// NewModel creates the picker for doc.
func NewModel(doc selection.Document, opts composer.Options) *Model {
	ti := textinput.New()
	ti.Placeholder = "filename"
	ti.CharLimit = 255
	ti.Width = 60

	return &Model{
		path:     doc.Path,
		state:    selection.New(doc.Fragments, opts),
		keys:     DefaultKeyMap(),
		styles:   DefaultStyles(),
		input:    ti,
		decision: selection.Decision{Outcome: selection.Cancel},
	}
}

// Init initialises the model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Decision returns the operator's decision; Cancel until they make one.
func (m *Model) Decision() selection.Decision {
	return m.decision
}

// State returns the selection being edited.
func (m *Model) State() *selection.State {
	return m.state
}

// Update handles key presses.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.editing {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}
	if m.editing {
		return m.updateEditing(keyMsg)
	}

	switch {
	case key.Matches(keyMsg, m.keys.Abort):
		return m.finish(selection.Decision{Outcome: selection.Abort})
	case key.Matches(keyMsg, m.keys.Cancel):
		return m.finish(selection.Decision{Outcome: selection.Cancel})
	case key.Matches(keyMsg, m.keys.Confirm):
		return m.finish(m.state.Decide())
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.state.Fragments())-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Toggle):
		m.state.Toggle(m.cursor)
	case key.Matches(keyMsg, m.keys.Case):
		m.state.CycleCase()
	case key.Matches(keyMsg, m.keys.Sanitize):
		m.state.CycleSanitize()
	case key.Matches(keyMsg, m.keys.Edit):
		m.editing = true
		m.input.SetValue(m.state.Preview())
		m.input.CursorEnd()
		return m, m.input.Focus()
	default:
		if s := keyMsg.String(); len(s) == 1 && s[0] >= '0' && s[0] <= '9' {
			idx := int(s[0] - '0')
			if idx < len(m.state.Fragments()) {
				m.cursor = idx
				m.state.Toggle(idx)
			}
		}
	}
	return m, nil
}

func (m *Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m.finish(selection.Decision{Outcome: selection.Abort})
	case tea.KeyEnter:
		m.state.SetManual(m.input.Value())
		m.editing = false
		m.input.Blur()
		return m, nil
	case tea.KeyEsc:
		m.editing = false
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) finish(d selection.Decision) (tea.Model, tea.Cmd) {
	m.decision = d
	m.done = true
	return m, tea.Quit
}

// View renders the picker.
func (m *Model) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(filepath.Base(m.path)))
	b.WriteString("\n\n")

	for i, f := range m.state.Fragments() {
		cursor := "  "
		if i == m.cursor {
			cursor = m.styles.Cursor.Render("> ")
		}
		box := "[ ]"
		text := m.styles.Normal.Render(f.Text)
		if m.state.IsSelected(i) {
			box = "[x]"
			text = m.styles.Selected.Render(f.Text)
		}
		if f.Failed {
			text = m.styles.Error.Render(f.Text)
		}
		line := fmt.Sprintf("%s%s %d  %s", cursor, box, i, text)
		if f.LikelyTitle {
			line += " " + m.styles.Hint.Render("likely title")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	opts := m.state.Options()
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("Case: %s   Sanitize: %s", opts.Case.Label(), opts.Sanitize.Label())))
	b.WriteString("\n")

	if m.editing {
		b.WriteString(m.styles.Preview.Render(m.input.View()))
		b.WriteString("\n")
		b.WriteString(m.styles.Help.Render("[enter] Keep  [esc] Discard"))
		return b.String()
	}

	preview := m.state.Preview()
	if preview == "" {
		preview = m.styles.Muted.Render("(nothing selected)")
	}
	b.WriteString(m.styles.Preview.Render(preview))
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render(helpLine(m.keys)))
	return b.String()
}

func helpLine(k *KeyMap) string {
	parts := make([]string, 0, len(k.ShortHelp()))
	for _, b := range k.ShortHelp() {
		h := b.Help()
		parts = append(parts, fmt.Sprintf("[%s] %s", h.Key, h.Desc))
	}
	return strings.Join(parts, "  ")
}
