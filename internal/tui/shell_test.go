package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/txdesk/internal/auth"
	"github.com/jask/txdesk/internal/diag"
	"github.com/jask/txdesk/internal/docstore"
	"github.com/jask/txdesk/internal/ledger"
)

var admin = auth.Session{Subject: "u-admin", Email: "root@example.com", Role: auth.RoleAdmin}

func newTestShell(t *testing.T, f TransactionFetcher) *Shell {
	t.Helper()
	s := NewShell(admin, newTestList(t, f, &diag.Recorder{}), testPresenter())
	s.Update(tea.WindowSizeMsg{Width: 140, Height: 30})
	return s
}

func TestShellHeaderAndFooter(t *testing.T) {
	s := newTestShell(t, &fakeFetcher{})
	load(t, s.List())
	view := plain(s.View())
	if !strings.Contains(view, "root@example.com") {
		t.Fatalf("header should name the admin:\n%s", view)
	}
	if !strings.Contains(view, "quit") {
		t.Fatalf("footer should list shortcuts:\n%s", view)
	}
	if got := len(strings.Split(view, "\n")); got != 30 {
		t.Fatalf("view height = %d, want 30", got)
	}
}

func TestShellDetailOverlayRoundTrip(t *testing.T) {
	txs := []ledger.Transaction{tx("t1", ledger.TypeDeposit, ledger.StatusCompleted, "500")}
	s := newTestShell(t, &fakeFetcher{result: docstore.FetchResult{Transactions: txs}})
	load(t, s.List())

	_, cmd := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	s.Update(cmd())
	if s.Overlay() == nil || s.Overlay().Title != "Transaction t1" {
		t.Fatalf("expected detail overlay, got %+v", s.Overlay())
	}
	if !strings.Contains(plain(s.View()), "+NPR 500.00") {
		t.Fatalf("detail overlay should show the amount")
	}

	_, cmd = s.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatalf("esc should request dismissal")
	}
	s.Update(cmd())
	if s.Overlay() != nil {
		t.Fatalf("overlay still open after dismissal")
	}
}

func TestShellOverlayLetsPageKeysThrough(t *testing.T) {
	txs := []ledger.Transaction{
		tx("t1", ledger.TypeDeposit, ledger.StatusCompleted, "1"),
		tx("t2", ledger.TypeDeposit, ledger.StatusCompleted, "2"),
	}
	s := newTestShell(t, &fakeFetcher{result: docstore.FetchResult{Transactions: txs}})
	load(t, s.List())

	s.Update(keyRunes("?"))
	if s.Overlay() == nil || s.Overlay().Title != "Keyboard shortcuts" {
		t.Fatalf("help overlay not open")
	}
	s.Update(keyRunes("j"))
	if sel, _ := s.List().Selected(); sel.ID != "t2" {
		t.Fatalf("page key did not reach the list, selected %s", sel.ID)
	}
	if s.Overlay() == nil {
		t.Fatalf("page key closed the overlay")
	}

	_, cmd := s.Update(keyRunes("?"))
	if cmd == nil {
		t.Fatalf("? should close the help overlay")
	}
	s.Update(cmd())
	if s.Overlay() != nil {
		t.Fatalf("help overlay still open after toggling")
	}
}

func TestShellQuitUnmountsList(t *testing.T) {
	f := &fakeFetcher{block: make(chan struct{})}
	s := newTestShell(t, f)
	s.Init()
	fetch := s.List().fetch()
	done := make(chan tea.Msg, 1)
	go func() { done <- fetch() }()

	_, cmd := s.Update(keyRunes("q"))
	if cmd == nil {
		t.Fatalf("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("q should produce tea.QuitMsg")
	}
	if s.List().Mounted() {
		t.Fatalf("list still mounted after quit")
	}
	select {
	case msg := <-done:
		if loaded := msg.(transactionsLoadedMsg); !errors.Is(loaded.err, context.Canceled) {
			t.Fatalf("fetch err = %v, want context.Canceled", loaded.err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("fetch not cancelled on quit")
	}
}
