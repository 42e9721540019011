package tui

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/shopspring/decimal"

	"github.com/jask/txdesk/internal/diag"
	"github.com/jask/txdesk/internal/docstore"
	"github.com/jask/txdesk/internal/ledger"
	"github.com/jask/txdesk/internal/money"
)

type fakeFetcher struct {
	result docstore.FetchResult
	err    error
	// block, when set, holds Fetch until it is closed or ctx ends.
	block chan struct{}
	calls atomic.Int32
}

func (f *fakeFetcher) Fetch(ctx context.Context) (docstore.FetchResult, error) {
	f.calls.Add(1)
	if f.block != nil {
		select {
		case <-ctx.Done():
			return docstore.FetchResult{}, ctx.Err()
		case <-f.block:
		}
	}
	return f.result, f.err
}

func testPresenter() Presenter {
	return Presenter{Money: money.NewFormatter("en-US"), Currency: "NPR", Location: time.UTC}
}

func newTestList(t *testing.T, f TransactionFetcher, rep diag.Reporter) *ListView {
	t.Helper()
	l := NewListView(context.Background(), ListOptions{Reader: f, Diag: rep, Presenter: testPresenter()})
	l.SetSize(140, 40)
	return l
}

// load mounts l and delivers the result of its fetch.
func load(t *testing.T, l *ListView) {
	t.Helper()
	l.Init()
	l.Update(l.fetch()())
}

func tx(id string, typ ledger.Type, status ledger.Status, amount string) ledger.Transaction {
	return ledger.Transaction{
		ID:        id,
		UserID:    "u-" + id,
		UserEmail: id + "@example.com",
		Amount:    decimal.RequireFromString(amount),
		Type:      typ,
		Status:    status,
		Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func plain(s string) string { return ansi.Strip(s) }

func countLines(s, substr string) int {
	n := 0
	for _, line := range strings.Split(plain(s), "\n") {
		if strings.Contains(line, substr) {
			n++
		}
	}
	return n
}

// runBatch executes cmd and any batch it expands to, returning every message
// produced.
func runBatch(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, runBatch(c)...)
	}
	return out
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
