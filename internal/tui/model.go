package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/clarabennett2626/logtail/internal/buffer"
	"github.com/clarabennett2626/logtail/internal/session"
)

// LineMsg carries one appended buffer entry into the TUI.
type LineMsg struct {
	Entry buffer.Entry
}

// ClearMsg signals the buffer was emptied (reconfigure or rotation) and
// carries the applied source description and capacity.
type ClearMsg struct {
	Label      string
	Configured bool
	Capacity   int
}

// Model is the terminal view over a tail session.
type Model struct {
	width  int
	height int
	ready  bool

	entries  []buffer.Entry
	capacity int

	// Virtual scrolling state.
	offset     int  // index of the first visible line
	autoScroll bool // stick to bottom when new lines arrive

	sourceLabel string
	configured  bool
}

// NewModel creates a model seeded from the session's current view.
func NewModel(s *session.Session) Model {
	v := s.CurrentView()
	maxLines := s.Config().MaxLines
	if maxLines < 1 {
		maxLines = buffer.DefaultCapacity
	}
	return Model{
		autoScroll:  true,
		entries:     v.Entries,
		capacity:    maxLines,
		sourceLabel: v.Label,
		configured:  v.Configured,
	}
}

// viewHeight returns the number of lines available for log display
// (total height minus header and status bar).
func (m Model) viewHeight() int {
	h := m.height - 2
	if h < 1 {
		return 1
	}
	return h
}

// maxOffset returns the maximum valid scroll offset.
func (m Model) maxOffset() int {
	max := len(m.entries) - m.viewHeight()
	if max < 0 {
		return 0
	}
	return max
}

func (m *Model) clampOffset() {
	if m.offset < 0 {
		m.offset = 0
	}
	if max := m.maxOffset(); m.offset > max {
		m.offset = max
	}
}

// isAtBottom reports whether the viewport shows the newest entry.
func (m Model) isAtBottom() bool {
	return m.offset >= m.maxOffset()
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "j", "down":
			m.autoScroll = false
			m.offset++
			m.clampOffset()
			if m.isAtBottom() {
				m.autoScroll = true
			}
		case "k", "up":
			m.autoScroll = false
			m.offset--
			m.clampOffset()
		case "g", "home":
			m.autoScroll = false
			m.offset = 0
		case "G", "end":
			m.offset = m.maxOffset()
			m.autoScroll = true
		case "pgdown", "ctrl+f":
			m.autoScroll = false
			m.offset += m.viewHeight()
			m.clampOffset()
			if m.isAtBottom() {
				m.autoScroll = true
			}
		case "pgup", "ctrl+b":
			m.autoScroll = false
			m.offset -= m.viewHeight()
			m.clampOffset()
		case "ctrl+d":
			m.autoScroll = false
			m.offset += m.viewHeight() / 2
			m.clampOffset()
			if m.isAtBottom() {
				m.autoScroll = true
			}
		case "ctrl+u":
			m.autoScroll = false
			m.offset -= m.viewHeight() / 2
			m.clampOffset()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		if m.autoScroll {
			m.offset = m.maxOffset()
		}
		m.clampOffset()

	case LineMsg:
		m.entries = append(m.entries, msg.Entry)
		if over := len(m.entries) - m.capacity; over > 0 {
			m.entries = m.entries[over:]
			m.offset -= over
		}
		// autoScroll records whether the view was at the bottom before
		// the append; only then does the viewport follow.
		if m.autoScroll {
			m.offset = m.maxOffset()
		}
		m.clampOffset()

	case ClearMsg:
		m.entries = nil
		m.offset = 0
		m.autoScroll = true
		m.sourceLabel = msg.Label
		m.configured = msg.Configured
		if msg.Capacity > 0 {
			m.capacity = msg.Capacity
		}
	}
	return m, nil
}

// View renders the TUI.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(headerStyle.Render(m.sourceLabel))
	b.WriteByte('\n')

	vh := m.viewHeight()
	if len(m.entries) == 0 {
		m.renderPlaceholder(&b, vh)
	} else {
		end := m.offset + vh
		if end > len(m.entries) {
			end = len(m.entries)
		}
		start := m.offset
		if start < 0 {
			start = 0
		}
		rendered := 0
		for i := start; i < end; i++ {
			b.WriteString(styleFor(m.entries[i].Tag).Render(m.entries[i].Text))
			b.WriteByte('\n')
			rendered++
		}
		for i := rendered; i < vh; i++ {
			b.WriteByte('\n')
		}
	}

	b.WriteString(m.statusLine())
	return b.String()
}

func (m Model) renderPlaceholder(b *strings.Builder, vh int) {
	first := "No log source configured."
	second := "Run with -file or -unit to set up."
	if m.configured {
		first = "No log entries yet."
		second = "Waiting for input..."
	}
	for i := 0; i < vh; i++ {
		if i == vh/2-1 {
			b.WriteString(placeholderStyle.Render("  " + first))
		} else if i == vh/2 {
			b.WriteString(placeholderStyle.Render("  " + second))
		}
		b.WriteByte('\n')
	}
}

func (m Model) statusLine() string {
	scrollInfo := "bottom"
	if len(m.entries) > 0 && !m.isAtBottom() {
		pct := 0
		if m.maxOffset() > 0 {
			pct = m.offset * 100 / m.maxOffset()
		}
		scrollInfo = fmt.Sprintf("%d%%", pct)
	}

	left := statusKeyStyle.Render("Lines:") + statusBarStyle.Render(fmt.Sprintf(" %d/%d ", len(m.entries), m.capacity))
	right := statusKeyStyle.Render("Pos:") + statusBarStyle.Render(fmt.Sprintf(" %s ", scrollInfo))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return statusBarStyle.Render(left + strings.Repeat(" ", gap) + right)
}

// Listen forwards session changes into a running program. Call it once,
// after the program is created.
func Listen(s *session.Session, prog *tea.Program) {
	s.Subscribe(func(c session.Change) {
		if c.Cleared {
			prog.Send(ClearMsg{Label: c.Label, Configured: c.Configured, Capacity: c.Capacity})
		} else {
			prog.Send(LineMsg{Entry: c.Entry})
		}
	})
}
