// Package sample generates plausible transaction documents for demos and
// tests.
package sample

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/jask/txdesk/internal/docstore"
	"github.com/jask/txdesk/internal/ledger"
)

// Putter stores documents; *repository.DocumentRepo satisfies it.
type Putter interface {
	Put(ctx context.Context, collection string, doc docstore.Document) error
}

var (
	emails  = []string{"asha@example.com", "bikash@example.com", "", "kiran@example.com", "", "sita@example.com"}
	remarks = []string{"", "", "esewa top-up", "bank transfer", "", "manual review", ""}
)

// Documents generates n transaction documents spread over the last 30 days
// before now. The same seed yields the same documents apart from ids.
func Documents(n int, now time.Time, seed int64) []docstore.Document {
	rng := rand.New(rand.NewSource(seed))
	out := make([]docstore.Document, 0, n)
	for i := 0; i < n; i++ {
		typ := ledger.TypeDeposit
		if rng.Intn(3) == 0 {
			typ = ledger.TypeWithdraw
		}
		status := ledger.StatusCompleted
		switch r := rng.Intn(10); {
		case r < 2:
			status = ledger.StatusPending
		case r < 3:
			status = ledger.StatusFailed
		}
		ts := now.Add(-time.Duration(rng.Intn(30*24*60)) * time.Minute).UTC()
		fields := map[string]any{
			ledger.FieldUserID:    fmt.Sprintf("usr_%03d", rng.Intn(40)),
			ledger.FieldAmount:    float64(rng.Intn(5000000)) / 100,
			ledger.FieldType:      string(typ),
			ledger.FieldStatus:    string(status),
			ledger.FieldTimestamp: ts.Format(time.RFC3339),
		}
		if e := emails[rng.Intn(len(emails))]; e != "" {
			fields[ledger.FieldUserEmail] = e
		}
		if r := remarks[rng.Intn(len(remarks))]; r != "" {
			fields[ledger.FieldRemarks] = r
		}
		out = append(out, docstore.Document{ID: uuid.NewString(), Fields: fields})
	}
	return out
}

// BatchPutter stores many documents at once.
type BatchPutter interface {
	PutMany(ctx context.Context, collection string, docs []docstore.Document) error
}

// Seed writes n generated documents into collection, in one batch when p
// supports it.
func Seed(ctx context.Context, p Putter, collection string, n int) error {
	docs := Documents(n, time.Now(), time.Now().UnixNano())
	if b, ok := p.(BatchPutter); ok {
		return b.PutMany(ctx, collection, docs)
	}
	for _, doc := range docs {
		if err := p.Put(ctx, collection, doc); err != nil {
			return err
		}
	}
	return nil
}
