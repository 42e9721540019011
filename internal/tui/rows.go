package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/jask/txdesk/internal/ledger"
	"github.com/jask/txdesk/internal/money"
)

const anonymousUser = "Anonymous"

// Presenter turns transactions into display cells.
type Presenter struct {
	Money    money.Formatter
	Currency string
	Location *time.Location
	Layout   string
}

// Row is the display form of one transaction.
type Row struct {
	ID          string
	Icon        string
	TypeLabel   string
	IDLabel     string
	User        string
	UserIDLabel string
	Amount      string
	AmountTone  Tone
	Status      string
	StatusTone  Tone
	Remarks     string
	Date        string
}

func (p Presenter) Row(tx ledger.Transaction) Row {
	user := tx.UserEmail
	if tx.Anonymous() {
		user = anonymousUser
	}
	return Row{
		ID:          tx.ID,
		Icon:        TypeIcon(tx.Type),
		TypeLabel:   tx.Type.Label(),
		IDLabel:     "ID: " + tx.ID,
		User:        user,
		UserIDLabel: "ID: " + tx.UserID,
		Amount:      p.Money.Signed(tx.Type.Sign(), p.Currency, tx.Amount),
		AmountTone:  TypeTone(tx.Type),
		Status:      tx.Status.Label(),
		StatusTone:  StatusTone(tx.Status),
		Remarks:     tx.Remarks,
		Date:        p.Date(tx.Timestamp),
	}
}

func (p Presenter) Date(t time.Time) string {
	loc := p.Location
	if loc == nil {
		loc = time.Local
	}
	layout := p.Layout
	if layout == "" {
		layout = "1/2/2006, 3:04:05 PM"
	}
	return t.In(loc).Format(layout)
}

// Totals renders the count and per-type sums shown above the table.
func (p Presenter) Totals(t ledger.Totals) string {
	noun := "transactions"
	if t.Count == 1 {
		noun = "transaction"
	}
	return fmt.Sprintf("%d %s · deposits %s · withdrawals %s",
		t.Count, noun,
		p.Money.Signed(ledger.TypeDeposit.Sign(), p.Currency, t.Deposits),
		p.Money.Signed(ledger.TypeWithdraw.Sign(), p.Currency, t.Withdrawals))
}

// Detail is the body of the transaction detail overlay.
func (p Presenter) Detail(tx ledger.Transaction) string {
	r := p.Row(tx)
	remarks := r.Remarks
	if strings.TrimSpace(remarks) == "" {
		remarks = "-"
	}
	pairs := [][2]string{
		{"Type", r.TypeLabel},
		{"Status", r.Status},
		{"Amount", r.Amount},
		{"User", r.User},
		{"User ID", tx.UserID},
		{"Recorded", r.Date},
		{"Remarks", remarks},
	}
	var b strings.Builder
	for i, kv := range pairs {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%-9s", kv[0])))
		b.WriteString(" ")
		b.WriteString(kv[1])
	}
	return b.String()
}

// TypeIcon is the arrow drawn beside the type label.
func TypeIcon(t ledger.Type) string {
	if t == ledger.TypeDeposit {
		return "↓"
	}
	return "↑"
}

func TypeTone(t ledger.Type) Tone {
	if t == ledger.TypeDeposit {
		return ToneGreen
	}
	return ToneRed
}

func StatusTone(s ledger.Status) Tone {
	switch s {
	case ledger.StatusCompleted:
		return ToneGreen
	case ledger.StatusFailed:
		return ToneRed
	default:
		return ToneYellow
	}
}
