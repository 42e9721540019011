// Package mongostore serves docstore queries from MongoDB.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jask/txdesk/internal/docstore"
)

// Finder reads whole collections in a given sort order.
type Finder interface {
	FindAll(ctx context.Context, sort bson.D) ([]bson.M, error)
}

// CollectionProvider hands out a Finder per collection name.
type CollectionProvider interface {
	Collection(name string) Finder
}

// MongoCollection adapts *mongo.Collection to Finder.
type MongoCollection struct {
	*mongo.Collection
}

func (c *MongoCollection) FindAll(ctx context.Context, sort bson.D) ([]bson.M, error) {
	opts := options.Find()
	if len(sort) > 0 {
		opts.SetSort(sort)
	}
	cur, err := c.Collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to perform Find: %w", err)
	}
	var out []bson.M
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode cursor: %w", err)
	}
	return out, nil
}

// MongoProvider adapts a database handle to CollectionProvider.
type MongoProvider struct {
	db *mongo.Database
}

func NewMongoProvider(client *mongo.Client, database string) *MongoProvider {
	return &MongoProvider{db: client.Database(database)}
}

func (p *MongoProvider) Collection(name string) Finder {
	return &MongoCollection{p.db.Collection(name)}
}

// Connect dials uri and pings the primary.
func Connect(ctx context.Context, uri string, log *logrus.Logger) (*mongo.Client, error) {
	if log != nil {
		log.WithField("uri", redact(uri)).Debug("connecting to mongodb")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	if log != nil {
		log.Info("connected to mongodb")
	}
	return client, nil
}

// Store implements docstore.QueryService.
type Store struct {
	provider CollectionProvider
}

func New(provider CollectionProvider) *Store {
	return &Store{provider: provider}
}

func (s *Store) Query(ctx context.Context, q docstore.Query) ([]docstore.Document, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	var sort bson.D
	if q.OrderBy != "" {
		dir := 1
		if q.Descending {
			dir = -1
		}
		sort = bson.D{{Key: q.OrderBy, Value: dir}}
	}
	raw, err := s.provider.Collection(q.Collection).FindAll(ctx, sort)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", q.Collection, err)
	}
	out := make([]docstore.Document, 0, len(raw))
	for _, m := range raw {
		out = append(out, toDocument(m))
	}
	return out, nil
}

func toDocument(m bson.M) docstore.Document {
	doc := docstore.Document{Fields: make(map[string]any, len(m))}
	for k, v := range m {
		if k == "_id" {
			doc.ID = idString(v)
			continue
		}
		doc.Fields[k] = normalize(v)
	}
	return doc
}

func idString(v any) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	case nil:
		return ""
	default:
		return fmt.Sprint(id)
	}
}

// normalize maps BSON-specific scalars onto plain Go values.
func normalize(v any) any {
	switch x := v.(type) {
	case primitive.DateTime:
		return x.Time().UTC()
	case primitive.Timestamp:
		return time.Unix(int64(x.T), 0).UTC()
	case primitive.Decimal128:
		return x.String()
	case primitive.ObjectID:
		return x.Hex()
	default:
		return v
	}
}

func redact(uri string) string {
	opts := options.Client().ApplyURI(uri)
	if opts.Auth != nil && opts.Auth.Password != "" {
		return "mongodb://<redacted>@" + firstHost(opts.Hosts)
	}
	return uri
}

func firstHost(hosts []string) string {
	if len(hosts) == 0 {
		return ""
	}
	return hosts[0]
}
