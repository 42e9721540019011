package docstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Memory is an in-process QueryService. Documents are kept per collection in
// insertion order and sorted on read by the requested field.
type Memory struct {
	mu    sync.Mutex
	docs  map[string][]Document
	Err   error
	Delay time.Duration

	queries []Query
}

func NewMemory() *Memory {
	return &Memory{docs: map[string][]Document{}}
}

func (m *Memory) Put(collection string, docs ...Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.docs == nil {
		m.docs = map[string][]Document{}
	}
	m.docs[collection] = append(m.docs[collection], docs...)
}

// Queries returns every query received so far.
func (m *Memory) Queries() []Query {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Query(nil), m.queries...)
}

func (m *Memory) Query(ctx context.Context, q Query) ([]Document, error) {
	m.mu.Lock()
	m.queries = append(m.queries, q)
	delay, failure := m.Delay, m.Err
	docs := append([]Document(nil), m.docs[q.Collection]...)
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	if failure != nil {
		return nil, failure
	}
	if q.OrderBy == "" {
		return docs, nil
	}
	sort.SliceStable(docs, func(i, j int) bool {
		c := compareField(docs[i].Fields[q.OrderBy], docs[j].Fields[q.OrderBy])
		if q.Descending {
			return c > 0
		}
		return c < 0
	})
	return docs, nil
}

func compareField(a, b any) int {
	switch av := a.(type) {
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv)
		}
	case float64:
		if bv, ok := b.(float64); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	}
	as, bs := fmt.Sprint(a), fmt.Sprint(b)
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	}
	return 0
}
