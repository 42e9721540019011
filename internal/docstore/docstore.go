// Package docstore describes the document database the console reads from
// and the one query it issues against it.
package docstore

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jask/txdesk/internal/ledger"
)

// Document is a raw store record: its id plus its field map.
type Document = ledger.Document

// Query asks for every document of a collection ordered by one field.
type Query struct {
	Collection string
	OrderBy    string
	Descending bool
}

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Validate rejects names a backend could misinterpret.
func (q Query) Validate() error {
	if !namePattern.MatchString(q.Collection) {
		return fmt.Errorf("invalid collection name %q", q.Collection)
	}
	if q.OrderBy != "" && !namePattern.MatchString(q.OrderBy) {
		return fmt.Errorf("invalid order field %q", q.OrderBy)
	}
	return nil
}

// QueryService runs a query and returns the matching documents in order.
type QueryService interface {
	Query(ctx context.Context, q Query) ([]Document, error)
}

// DefaultCollection is where transaction documents live.
const DefaultCollection = "transactions"

// TransactionReader issues the transaction list query through an injected
// QueryService.
type TransactionReader struct {
	Service    QueryService
	Collection string
}

func NewTransactionReader(svc QueryService, collection string) *TransactionReader {
	if collection == "" {
		collection = DefaultCollection
	}
	return &TransactionReader{Service: svc, Collection: collection}
}

// FetchResult is what one Fetch produced. Rejected holds a validation error
// for every document that could not be parsed.
type FetchResult struct {
	Transactions []ledger.Transaction
	Rejected     []error
}

// Fetch reads every transaction, newest first. The order is the store's; no
// re-sorting happens here.
func (r *TransactionReader) Fetch(ctx context.Context) (FetchResult, error) {
	if r == nil || r.Service == nil {
		return FetchResult{}, fmt.Errorf("fetch transactions: no query service")
	}
	q := Query{Collection: r.Collection, OrderBy: ledger.FieldTimestamp, Descending: true}
	if err := q.Validate(); err != nil {
		return FetchResult{}, fmt.Errorf("fetch transactions: %w", err)
	}
	docs, err := r.Service.Query(ctx, q)
	if err != nil {
		return FetchResult{}, fmt.Errorf("fetch transactions: %w", err)
	}
	txs, rejected := ledger.ParseAll(docs)
	return FetchResult{Transactions: txs, Rejected: rejected}, nil
}
