package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/txdesk/internal/auth"
)

// Authorizer resolves a session token to an administrator session.
type Authorizer interface {
	Authorize(token string) (auth.Session, error)
}

// Gate shows the console only to administrators. The inner model is built
// after the session checks out, so nothing behind the gate runs otherwise.
type Gate struct {
	authorizer Authorizer
	token      string
	open       func(auth.Session) tea.Model

	checked bool
	inner   tea.Model
	err     error
}

func NewGate(a Authorizer, token string, open func(auth.Session) tea.Model) *Gate {
	return &Gate{authorizer: a, token: token, open: open}
}

func (g *Gate) Init() tea.Cmd {
	if g.checked {
		return nil
	}
	g.checked = true
	s, err := g.authorizer.Authorize(g.token)
	if err == nil && !s.IsAdmin() {
		err = auth.ErrNotAdmin
	}
	if err != nil {
		g.err = err
		return nil
	}
	g.inner = g.open(s)
	return g.inner.Init()
}

// Err is why the gate stayed shut, or nil.
func (g *Gate) Err() error { return g.err }

// Inner is the model behind the gate, nil until a session is accepted.
func (g *Gate) Inner() tea.Model { return g.inner }

func (g *Gate) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if g.inner != nil {
		var cmd tea.Cmd
		g.inner, cmd = g.inner.Update(msg)
		return g, cmd
	}
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "q", "ctrl+c", "esc", "enter":
			return g, tea.Quit
		}
	}
	return g, nil
}

func (g *Gate) View() string {
	if g.inner != nil {
		return g.inner.View()
	}
	if !g.checked {
		return mutedStyle.Render("Checking session…")
	}
	return errorStyle.Render("Access denied") + "\n\n" +
		g.err.Error() + "\n" +
		mutedStyle.Render("Sign in with an administrator session token and try again.") + "\n\n" +
		mutedStyle.Render("press q to quit")
}
