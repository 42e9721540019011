package repository

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jask/txdesk/internal/database"
	"github.com/jask/txdesk/internal/docstore"
)

// DocumentRepo stores JSON documents by collection and serves docstore
// queries over them.
type DocumentRepo struct {
	db *sql.DB
}

func NewDocumentRepo(db *sql.DB) *DocumentRepo { return &DocumentRepo{db: db} }

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Put inserts or replaces a document.
func (r *DocumentRepo) Put(ctx context.Context, collection string, doc docstore.Document) error {
	return put(ctx, r.db, collection, doc)
}

// PutMany writes docs in one transaction; either all land or none do.
func (r *DocumentRepo) PutMany(ctx context.Context, collection string, docs []docstore.Document) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, doc := range docs {
			if err := put(ctx, tx, collection, doc); err != nil {
				return err
			}
		}
		return nil
	})
}

func put(ctx context.Context, db execer, collection string, doc docstore.Document) error {
	if err := (docstore.Query{Collection: collection}).Validate(); err != nil {
		return err
	}
	if doc.ID == "" {
		return fmt.Errorf("put %s: document id required", collection)
	}
	body, err := json.Marshal(doc.Fields)
	if err != nil {
		return fmt.Errorf("put %s/%s: encode: %w", collection, doc.ID, err)
	}
	_, err = db.ExecContext(ctx, `
	INSERT INTO documents(collection, id, body) VALUES (?, ?, ?)
	ON CONFLICT(collection, id) DO UPDATE SET body=excluded.body;
	`, collection, doc.ID, string(body))
	return err
}

func (r *DocumentRepo) Count(ctx context.Context, collection string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents WHERE collection = ?`, collection).Scan(&n)
	return n, err
}

// Query implements docstore.QueryService.
func (r *DocumentRepo) Query(ctx context.Context, q docstore.Query) ([]docstore.Document, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	query := "SELECT id, body FROM documents WHERE collection = ?"
	args := []interface{}{q.Collection}
	if q.OrderBy != "" {
		dir := "ASC"
		if q.Descending {
			dir = "DESC"
		}
		query += " ORDER BY json_extract(body, ?) " + dir + ", id " + dir
		args = append(args, "$."+q.OrderBy)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []docstore.Document
	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return nil, err
		}
		fields, err := decodeBody(body)
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", id, err)
		}
		out = append(out, docstore.Document{ID: id, Fields: fields})
	}
	return out, rows.Err()
}

func decodeBody(body string) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	return fields, nil
}
