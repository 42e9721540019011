// Package firestore serves docstore queries from Cloud Firestore.
package firestore

import (
	"context"
	"errors"
	"fmt"

	gfs "cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/jask/txdesk/internal/docstore"
)

// Snapshot is the part of a Firestore document the store needs.
type Snapshot interface {
	ID() string
	Data() map[string]any
}

// Runner executes an ordered collection scan.
type Runner interface {
	Run(ctx context.Context, q docstore.Query) ([]Snapshot, error)
}

// Store implements docstore.QueryService.
type Store struct {
	runner Runner
}

func New(r Runner) *Store { return &Store{runner: r} }

func (s *Store) Query(ctx context.Context, q docstore.Query) ([]docstore.Document, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	snaps, err := s.runner.Run(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", q.Collection, err)
	}
	out := make([]docstore.Document, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, docstore.Document{ID: snap.ID(), Fields: snap.Data()})
	}
	return out, nil
}

// Open creates a Firestore client for projectID. credentialsFile may be empty
// to use application default credentials.
func Open(ctx context.Context, projectID, credentialsFile string) (*gfs.Client, error) {
	if projectID == "" {
		return nil, errors.New("firestore: project id required")
	}
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := gfs.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore: new client: %w", err)
	}
	return client, nil
}

// ClientRunner runs queries with a real client.
type ClientRunner struct {
	Client *gfs.Client
}

func (r ClientRunner) Run(ctx context.Context, q docstore.Query) ([]Snapshot, error) {
	query := r.Client.Collection(q.Collection).Query
	if q.OrderBy != "" {
		dir := gfs.Asc
		if q.Descending {
			dir = gfs.Desc
		}
		query = query.OrderBy(q.OrderBy, dir)
	}
	iter := query.Documents(ctx)
	defer iter.Stop()

	var out []Snapshot
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, snapshot{doc})
	}
	return out, nil
}

type snapshot struct {
	doc *gfs.DocumentSnapshot
}

func (s snapshot) ID() string           { return s.doc.Ref.ID }
func (s snapshot) Data() map[string]any { return s.doc.Data() }
