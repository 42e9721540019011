package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/txdesk/internal/auth"
)

// chromeLines is the header bar plus the help footer.
const chromeLines = 2

const helpTitle = "Keyboard shortcuts"

type overlayDismissedMsg struct{}

func dismissOverlay() tea.Msg { return overlayDismissedMsg{} }

// Shell is the signed-in console: a header naming the admin, the
// transaction list, a help footer and at most one overlay.
type Shell struct {
	session   auth.Session
	list      *ListView
	presenter Presenter
	keys      keyMap
	help      help.Model

	overlay *Overlay
	closing *Overlay

	width  int
	height int
}

func NewShell(session auth.Session, list *ListView, presenter Presenter) *Shell {
	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	h.Styles.ShortDesc = mutedStyle
	h.Styles.ShortSeparator = mutedStyle
	return &Shell{
		session:   session,
		list:      list,
		presenter: presenter,
		keys:      defaultKeys(),
		help:      h,
	}
}

func (s *Shell) Init() tea.Cmd { return s.list.Init() }

func (s *Shell) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		s.width, s.height = m.Width, m.Height
		s.help.Width = m.Width
		s.list.SetSize(m.Width, max(m.Height-chromeLines, 1))
		return s, nil
	case tea.KeyMsg:
		if key.Matches(m, s.keys.Quit) {
			s.list.Unmount()
			return s, tea.Quit
		}
		if s.overlay != nil {
			if handled, cmd := s.overlay.HandleKey(m); handled {
				return s, cmd
			}
		}
		if key.Matches(m, s.keys.Help) {
			if s.overlay == nil {
				return s, s.open(NewOverlay(helpTitle, s.shortcuts(), dismissOverlay))
			}
			if s.overlay.Title == helpTitle {
				return s, dismissOverlay
			}
		}
		return s, s.list.Update(m)
	case openDetailMsg:
		return s, s.open(NewOverlay("Transaction "+m.tx.ID, s.presenter.Detail(m.tx), dismissOverlay))
	case overlayDismissedMsg:
		if s.overlay == nil {
			return s, nil
		}
		s.closing, s.overlay = s.overlay, nil
		return s, s.closing.Leave()
	case overlayFrameMsg:
		switch {
		case s.overlay != nil && s.overlay.Owns(m):
			return s, s.overlay.Step(m)
		case s.closing != nil && s.closing.Owns(m):
			cmd := s.closing.Step(m)
			if s.closing.Done() {
				s.closing = nil
			}
			return s, cmd
		}
		return s, nil
	}
	return s, s.list.Update(msg)
}

func (s *Shell) open(o *Overlay) tea.Cmd {
	var cmds []tea.Cmd
	if s.overlay != nil {
		s.closing = s.overlay
		cmds = append(cmds, s.closing.Leave())
	}
	s.overlay = o
	cmds = append(cmds, o.Init())
	return tea.Batch(cmds...)
}

// Overlay returns the open overlay, if any.
func (s *Shell) Overlay() *Overlay { return s.overlay }

func (s *Shell) List() *ListView { return s.list }

func (s *Shell) View() string {
	width := s.width
	if width <= 0 {
		width = defaultWidth
	}
	body := s.list.View()
	bodyHeight := strings.Count(body, "\n") + 1
	if s.height > 0 {
		bodyHeight = max(s.height-chromeLines, 1)
	}
	page := s.header(width) + "\n" +
		canvas(body, width, bodyHeight) + "\n" +
		fitLine(s.help.View(s.keys), width)
	height := bodyHeight + chromeLines

	switch {
	case s.overlay != nil:
		return s.overlay.Render(page, width, height)
	case s.closing != nil:
		return s.closing.Render(page, width, height)
	}
	return page
}

func (s *Shell) header(width int) string {
	left := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("txdesk") +
		mutedStyle.Render(" · admin console")
	who := s.session.Email
	if who == "" {
		who = s.session.Subject
	}
	right := mutedStyle.Render(who)
	gap := max(width-2-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return barStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func (s *Shell) shortcuts() string {
	var rows []string
	for _, group := range s.keys.FullHelp() {
		for _, b := range group {
			h := b.Help()
			rows = append(rows, cursorStyle.Render(padTo(h.Key, 8))+" "+h.Desc)
		}
	}
	return strings.Join(rows, "\n")
}

func padTo(s string, n int) string {
	if w := lipgloss.Width(s); w < n {
		return s + strings.Repeat(" ", n-w)
	}
	return s
}
