package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

type dismissed struct{}

func TestOverlayDismissKeysEmitOnce(t *testing.T) {
	calls := 0
	o := NewOverlay("Title", "body", func() tea.Msg {
		calls++
		return dismissed{}
	})
	for _, k := range []tea.KeyMsg{{Type: tea.KeyEsc}, keyRunes("x")} {
		handled, cmd := o.HandleKey(k)
		if !handled || cmd == nil {
			t.Fatalf("%q should dismiss", k.String())
		}
		if _, ok := cmd().(dismissed); !ok {
			t.Fatalf("%q produced the wrong message", k.String())
		}
	}
	if calls != 2 {
		t.Fatalf("dismiss calls = %d, want one per key press", calls)
	}
}

func TestOverlayDismissFollowsCloseBinding(t *testing.T) {
	o := NewOverlay("Title", "body", dismissOverlay)
	for _, k := range defaultKeys().Close.Keys() {
		msg := keyRunes(k)
		if k == "esc" {
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		}
		if handled, cmd := o.HandleKey(msg); !handled || cmd == nil {
			t.Fatalf("close key %q did not dismiss", k)
		}
	}
}

func TestOverlayPassesOtherKeys(t *testing.T) {
	o := NewOverlay("Title", "body", dismissOverlay)
	for _, k := range []tea.KeyMsg{keyRunes("j"), {Type: tea.KeyEnter}, keyRunes("q")} {
		if handled, cmd := o.HandleKey(k); handled || cmd != nil {
			t.Fatalf("%q should reach the page", k.String())
		}
	}
}

func TestOverlayWithoutHandler(t *testing.T) {
	o := NewOverlay("Title", "body", nil)
	handled, cmd := o.HandleKey(tea.KeyMsg{Type: tea.KeyEsc})
	if !handled || cmd != nil {
		t.Fatalf("handled=%v cmd=%v", handled, cmd != nil)
	}
}

func TestOverlayRenderKeepsBackdrop(t *testing.T) {
	var rows []string
	for i := 0; i < 20; i++ {
		rows = append(rows, "row-"+strings.Repeat(string(rune('a'+i)), 60))
	}
	o := NewOverlay("Details", "hello overlay", dismissOverlay)
	settle(o)
	out := plain(o.Render(strings.Join(rows, "\n"), 80, 20))
	lines := strings.Split(out, "\n")
	if len(lines) != 20 {
		t.Fatalf("line count = %d, want 20", len(lines))
	}
	for _, want := range []string{"Details", "hello overlay", "✕"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q:\n%s", want, out)
		}
	}
	if !strings.HasPrefix(lines[0], "row-a") || !strings.HasPrefix(lines[19], "row-t") {
		t.Fatalf("backdrop rows lost:\n%s", out)
	}
}

func TestOverlayAnimatesInAndOut(t *testing.T) {
	o := NewOverlay("T", "b", nil)
	steps := settle(o)
	if steps != overlayFrames {
		t.Fatalf("entrance frames = %d, want %d", steps, overlayFrames)
	}
	if o.Done() {
		t.Fatalf("settled overlay reported done")
	}
	if o.Leave() == nil {
		t.Fatalf("leave should animate")
	}
	if handled, _ := o.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}); handled {
		t.Fatalf("leaving overlay must not dismiss again")
	}
	for i := 0; i < overlayFrames; i++ {
		o.Step(overlayFrameMsg{id: o.id})
	}
	if !o.Done() {
		t.Fatalf("overlay should be done after its exit frames")
	}
	if o.Step(overlayFrameMsg{id: o.id + 1000}) != nil {
		t.Fatalf("foreign frame should be ignored")
	}
}

// settle steps o through its entrance and returns the frame count.
func settle(o *Overlay) int {
	n := 0
	for {
		n++
		if o.Step(overlayFrameMsg{id: o.id}) == nil {
			return n
		}
	}
}
