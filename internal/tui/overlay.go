package tui

import (
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	overlayFrames   = 4
	overlayInterval = 40 * time.Millisecond
	overlayMaxWidth = 64
)

var (
	overlaySeq atomic.Uint64
	closeKey   = defaultKeys().Close
)

type overlayFrameMsg struct{ id uint64 }

// Overlay is a card drawn centered over the page on a faded backdrop. Esc or
// x asks for dismissal by emitting OnDismiss; the owner decides whether to
// close it. Other keys are not consumed.
type Overlay struct {
	Title     string
	Body      string
	OnDismiss func() tea.Msg

	id      uint64
	frame   int
	leaving bool
}

func NewOverlay(title, body string, onDismiss func() tea.Msg) *Overlay {
	return &Overlay{Title: title, Body: body, OnDismiss: onDismiss, id: overlaySeq.Add(1)}
}

// Init starts the entrance animation.
func (o *Overlay) Init() tea.Cmd { return o.tick() }

// HandleKey reports whether msg was a dismiss key. Each dismiss key press
// yields exactly one OnDismiss message.
func (o *Overlay) HandleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	if o.leaving {
		return false, nil
	}
	if !key.Matches(msg, closeKey) {
		return false, nil
	}
	if o.OnDismiss == nil {
		return true, nil
	}
	return true, tea.Cmd(o.OnDismiss)
}

// Step advances the entrance or exit animation.
func (o *Overlay) Step(msg overlayFrameMsg) tea.Cmd {
	if msg.id != o.id {
		return nil
	}
	if o.leaving {
		if o.frame > 0 {
			o.frame--
		}
		if o.frame == 0 {
			return nil
		}
		return o.tick()
	}
	if o.frame < overlayFrames {
		o.frame++
	}
	if o.frame == overlayFrames {
		return nil
	}
	return o.tick()
}

// Leave plays the entrance in reverse. Done reports true once it finishes.
func (o *Overlay) Leave() tea.Cmd {
	if o.leaving {
		return nil
	}
	o.leaving = true
	if o.frame == 0 {
		return nil
	}
	return o.tick()
}

func (o *Overlay) Done() bool { return o.leaving && o.frame == 0 }

// Owns reports whether msg is one of this overlay's animation frames.
func (o *Overlay) Owns(msg overlayFrameMsg) bool { return msg.id == o.id }

func (o *Overlay) tick() tea.Cmd {
	id := o.id
	return tea.Tick(overlayInterval, func(time.Time) tea.Msg { return overlayFrameMsg{id: id} })
}

// Render composites the card over base, a width by height page.
func (o *Overlay) Render(base string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	if o.Done() {
		return canvas(base, width, height)
	}
	settled := o.frame == overlayFrames
	shortfall := overlayFrames - o.frame

	cardWidth := min(overlayMaxWidth, width-4) - 2*shortfall
	cardWidth = max(cardWidth, 12)
	border := colorSurface2
	if settled {
		border = colorLavender
	}
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(1, 2).
		Width(cardWidth - 2).
		Render(o.content(cardWidth - 6))

	rows := strings.Split(card, "\n")
	x := max((width-widest(rows))/2, 0)
	y := max((height-len(rows))/2+shortfall, 0)
	return placeAt(canvas(dim(base), width, height), card, x, y, width, height)
}

func (o *Overlay) content(inner int) string {
	closer := mutedStyle.Render("✕")
	title := cell(o.Title, max(inner-2, 1), titleStyle)
	head := title + " " + closer
	body := lipgloss.NewStyle().Foreground(colorText).Width(inner).Render(o.Body)
	return head + "\n\n" + body
}
