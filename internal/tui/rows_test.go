package tui

import (
	"strings"
	"testing"

	"github.com/jask/txdesk/internal/diag"
	"github.com/jask/txdesk/internal/docstore"
	"github.com/jask/txdesk/internal/ledger"
)

func TestPresenterRowTypeAndStatus(t *testing.T) {
	p := testPresenter()
	cases := []struct {
		typ        ledger.Type
		status     ledger.Status
		amount     string
		icon       string
		amountTone Tone
		label      string
		statusTone Tone
	}{
		{ledger.TypeDeposit, ledger.StatusCompleted, "+NPR 75.50", "↓", ToneGreen, "Completed", ToneGreen},
		{ledger.TypeDeposit, ledger.StatusPending, "+NPR 75.50", "↓", ToneGreen, "Pending", ToneYellow},
		{ledger.TypeDeposit, ledger.StatusFailed, "+NPR 75.50", "↓", ToneGreen, "Failed", ToneRed},
		{ledger.TypeWithdraw, ledger.StatusCompleted, "-NPR 75.50", "↑", ToneRed, "Completed", ToneGreen},
		{ledger.TypeWithdraw, ledger.StatusPending, "-NPR 75.50", "↑", ToneRed, "Pending", ToneYellow},
		{ledger.TypeWithdraw, ledger.StatusFailed, "-NPR 75.50", "↑", ToneRed, "Failed", ToneRed},
	}
	for _, tc := range cases {
		t.Run(string(tc.typ)+"/"+string(tc.status), func(t *testing.T) {
			r := p.Row(tx("t1", tc.typ, tc.status, "75.5"))
			if r.Amount != tc.amount || r.AmountTone != tc.amountTone {
				t.Fatalf("amount = %q tone %d, want %q tone %d", r.Amount, r.AmountTone, tc.amount, tc.amountTone)
			}
			if r.Icon != tc.icon {
				t.Fatalf("icon = %q, want %q", r.Icon, tc.icon)
			}
			if r.Status != tc.label || r.StatusTone != tc.statusTone {
				t.Fatalf("status = %q tone %d, want %q tone %d", r.Status, r.StatusTone, tc.label, tc.statusTone)
			}
			if r.User != "t1@example.com" {
				t.Fatalf("user = %q", r.User)
			}
		})
	}
}

func TestPresenterRowWithoutEmail(t *testing.T) {
	item := tx("t2", ledger.TypeWithdraw, ledger.StatusPending, "10")
	item.UserEmail = ""
	r := testPresenter().Row(item)
	if r.User != "Anonymous" {
		t.Fatalf("user = %q, want Anonymous", r.User)
	}
	if r.UserIDLabel != "ID: u-t2" {
		t.Fatalf("user id = %q", r.UserIDLabel)
	}
	if r.Remarks != "" {
		t.Fatalf("remarks = %q, want none", r.Remarks)
	}
}

func TestListRendersWithdrawAndAnonymous(t *testing.T) {
	w := tx("w1", ledger.TypeWithdraw, ledger.StatusPending, "75.5")
	w.UserEmail = ""
	d := tx("d1", ledger.TypeDeposit, ledger.StatusFailed, "20")
	f := &fakeFetcher{result: docstore.FetchResult{Transactions: []ledger.Transaction{w, d}}}
	l := newTestList(t, f, &diag.Recorder{})
	load(t, l)

	view := plain(l.View())
	for _, want := range []string{"Withdraw", "Anonymous", "ID: u-w1", "-NPR 75.50", "Pending", "+NPR 20.00", "Failed"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "w1@example.com") {
		t.Fatalf("anonymous row should not show an email:\n%s", view)
	}
}
