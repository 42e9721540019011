package tui

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/txdesk/internal/diag"
	"github.com/jask/txdesk/internal/docstore"
	"github.com/jask/txdesk/internal/ledger"
)

const (
	placeholderRows = 5
	pulseInterval   = 120 * time.Millisecond
	emptyNotice     = "No transactions found"
	defaultWidth    = 120
)

var pulseGlyphs = []string{"░", "▒"}

var errNoReader = errors.New("no transaction reader configured")

// TransactionFetcher runs the transaction list query.
type TransactionFetcher interface {
	Fetch(ctx context.Context) (docstore.FetchResult, error)
}

type listState int

const (
	listLoading listState = iota
	listEmpty
	listPopulated
)

func (s listState) String() string {
	switch s {
	case listLoading:
		return "loading"
	case listEmpty:
		return "empty"
	default:
		return "populated"
	}
}

var mountSeq atomic.Uint64

type transactionsLoadedMsg struct {
	mount  uint64
	result docstore.FetchResult
	err    error
}

type pulseMsg struct{ mount uint64 }

type openDetailMsg struct{ tx ledger.Transaction }

// ListOptions wires a ListView to its collaborators.
type ListOptions struct {
	Reader    TransactionFetcher
	Diag      diag.Reporter
	Presenter Presenter
	// Timeout bounds the fetch. Zero means no bound beyond the mount.
	Timeout time.Duration
}

// ListView shows every transaction, newest first. It fetches once per mount
// and ignores results that arrive after Unmount.
type ListView struct {
	parent context.Context
	opts   ListOptions
	keys   keyMap

	ctx     context.Context
	cancel  context.CancelFunc
	mountID uint64
	mounted bool

	state  listState
	txs    []ledger.Transaction
	rows   []Row
	totals string
	cursor int
	offset int
	pulse  int

	width  int
	height int
}

func NewListView(ctx context.Context, opts ListOptions) *ListView {
	if ctx == nil {
		ctx = context.Background()
	}
	return &ListView{parent: ctx, opts: opts, keys: defaultKeys()}
}

// Init mounts the view and issues its single fetch.
func (l *ListView) Init() tea.Cmd {
	if l.mounted {
		return nil
	}
	l.ctx, l.cancel = context.WithCancel(l.parent)
	l.mountID = mountSeq.Add(1)
	l.mounted = true
	l.state = listLoading
	l.txs, l.rows, l.totals = nil, nil, ""
	l.cursor, l.offset = 0, 0
	return tea.Batch(l.fetch(), l.tickPulse())
}

// Unmount cancels any fetch in flight. Its result, if it still arrives, is
// dropped without touching the view.
func (l *ListView) Unmount() {
	if !l.mounted {
		return
	}
	l.mounted = false
	l.cancel()
}

func (l *ListView) Mounted() bool { return l.mounted }

func (l *ListView) fetch() tea.Cmd {
	ctx, mount, reader, timeout := l.ctx, l.mountID, l.opts.Reader, l.opts.Timeout
	return func() tea.Msg {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		if reader == nil {
			return transactionsLoadedMsg{mount: mount, err: errNoReader}
		}
		res, err := reader.Fetch(ctx)
		return transactionsLoadedMsg{mount: mount, result: res, err: err}
	}
}

func (l *ListView) tickPulse() tea.Cmd {
	mount := l.mountID
	return tea.Tick(pulseInterval, func(time.Time) tea.Msg { return pulseMsg{mount: mount} })
}

func (l *ListView) SetSize(width, height int) {
	l.width, l.height = width, height
	l.clampScroll()
}

func (l *ListView) Update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case transactionsLoadedMsg:
		l.loaded(m)
	case pulseMsg:
		if !l.mounted || m.mount != l.mountID || l.state != listLoading {
			return nil
		}
		l.pulse++
		return l.tickPulse()
	case tea.KeyMsg:
		return l.handleKey(m)
	}
	return nil
}

func (l *ListView) loaded(m transactionsLoadedMsg) {
	if !l.mounted || m.mount != l.mountID {
		return
	}
	ctx := l.ctx
	if m.err != nil {
		// a failed fetch reads as an empty list
		l.opts.report(ctx, m.err, "fetch transactions")
		l.show(nil)
		return
	}
	for _, err := range m.result.Rejected {
		l.opts.report(ctx, err, "parse transaction")
	}
	l.show(m.result.Transactions)
}

func (l *ListView) show(txs []ledger.Transaction) {
	l.txs = txs
	l.rows = make([]Row, len(txs))
	for i, tx := range txs {
		l.rows[i] = l.opts.Presenter.Row(tx)
	}
	l.cursor, l.offset = 0, 0
	if len(txs) == 0 {
		l.state = listEmpty
		l.totals = ""
		return
	}
	l.state = listPopulated
	l.totals = l.opts.Presenter.Totals(ledger.Summarize(txs))
}

func (o ListOptions) report(ctx context.Context, err error, what string) {
	if o.Diag != nil {
		o.Diag.Report(ctx, err, what)
	}
}

func (l *ListView) handleKey(m tea.KeyMsg) tea.Cmd {
	if l.state != listPopulated {
		return nil
	}
	switch {
	case key.Matches(m, l.keys.Up):
		if l.cursor > 0 {
			l.cursor--
		}
	case key.Matches(m, l.keys.Down):
		if l.cursor < len(l.rows)-1 {
			l.cursor++
		}
	case key.Matches(m, l.keys.Top):
		l.cursor = 0
	case key.Matches(m, l.keys.Bottom):
		l.cursor = len(l.rows) - 1
	case key.Matches(m, l.keys.Details):
		tx := l.txs[l.cursor]
		return func() tea.Msg { return openDetailMsg{tx: tx} }
	}
	l.clampScroll()
	return nil
}

// State is "loading", "empty" or "populated".
func (l *ListView) State() string { return l.state.String() }

// Rows returns the display rows in store order.
func (l *ListView) Rows() []Row { return l.rows }

func (l *ListView) Selected() (ledger.Transaction, bool) {
	if l.state != listPopulated {
		return ledger.Transaction{}, false
	}
	return l.txs[l.cursor], true
}

// View renders the page body.
func (l *ListView) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Transactions"))
	b.WriteString("\n")
	switch l.state {
	case listLoading:
		for i := 0; i < placeholderRows; i++ {
			b.WriteString("\n")
			b.WriteString(l.placeholder(i))
		}
	case listEmpty:
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(emptyNotice))
	default:
		b.WriteString(mutedStyle.Render(l.totals))
		b.WriteString("\n\n")
		b.WriteString(l.tableHeader())
		end := min(l.offset+l.visibleRows(), len(l.rows))
		for i := l.offset; i < end; i++ {
			b.WriteString("\n")
			b.WriteString(l.renderRow(l.rows[i], i == l.cursor))
		}
	}
	return b.String()
}

type columns struct {
	marker, tx, user, amount, status, date int
}

const colGap = 2

func (l *ListView) columns() columns {
	width := l.width
	if width <= 0 {
		width = defaultWidth
	}
	c := columns{marker: 2, tx: 22, user: 26, amount: 18, status: 14}
	used := c.marker + c.tx + c.user + c.amount + c.status + 4*colGap
	c.date = max(width-used, 22)
	return c
}

func (l *ListView) tableHeader() string {
	c := l.columns()
	gap := strings.Repeat(" ", colGap)
	return strings.Repeat(" ", c.marker) +
		cell("TRANSACTION", c.tx, headerStyle) + gap +
		cell("USER", c.user, headerStyle) + gap +
		cell("AMOUNT", c.amount, headerStyle) + gap +
		cell("STATUS", c.status, headerStyle) + gap +
		cell("DATE", c.date, headerStyle)
}

func (l *ListView) placeholder(i int) string {
	c := l.columns()
	glyph := pulseGlyphs[(l.pulse+i)%len(pulseGlyphs)]
	width := c.tx + c.user + c.amount + c.status + c.date + 4*colGap
	return strings.Repeat(" ", c.marker) + mutedStyle.Render(strings.Repeat(glyph, width))
}

func (l *ListView) renderRow(r Row, selected bool) string {
	c := l.columns()
	gap := strings.Repeat(" ", colGap)
	marker := strings.Repeat(" ", c.marker)
	if selected {
		marker = cursorStyle.Render("▶") + " "
	}
	label := toneStyle(r.AmountTone).Render(r.Icon) + " " + titleStyle.Render(r.TypeLabel)
	first := marker +
		cell(label, c.tx, mutedStyle) + gap +
		cell(r.User, c.user, titleStyle) + gap +
		cell(r.Amount, c.amount, toneStyle(r.AmountTone).Bold(true)) + gap +
		cell(r.Status, c.status, badgeStyle(r.StatusTone)) + gap +
		cell(r.Date, c.date, mutedStyle)
	second := strings.Repeat(" ", c.marker) +
		cell("  "+r.IDLabel, c.tx, mutedStyle) + gap +
		cell(r.UserIDLabel, c.user, mutedStyle) + gap +
		strings.Repeat(" ", c.amount) + gap +
		cell(r.Remarks, c.status+colGap+c.date, mutedStyle)
	return first + "\n" + second
}

// rowLines is the height of one rendered row.
const rowLines = 2

func (l *ListView) visibleRows() int {
	if l.height <= 0 {
		return len(l.rows)
	}
	return max((l.height-4)/rowLines, 1)
}

func (l *ListView) clampScroll() {
	n := l.visibleRows()
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+n {
		l.offset = l.cursor - n + 1
	}
	l.offset = max(l.offset, 0)
}
