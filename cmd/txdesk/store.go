package main

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jask/txdesk/internal/config"
	"github.com/jask/txdesk/internal/database"
	"github.com/jask/txdesk/internal/database/repository"
	"github.com/jask/txdesk/internal/docstore"
	"github.com/jask/txdesk/internal/docstore/firestore"
	"github.com/jask/txdesk/internal/docstore/mongostore"
	"github.com/jask/txdesk/internal/sample"
)

const connectTimeout = 10 * time.Second

// openStore returns the configured backend and a func releasing it.
func openStore(ctx context.Context, cfg config.Config, log *logrus.Logger) (docstore.QueryService, func(), error) {
	entry := log.WithField("backend", cfg.Store.Backend)
	switch cfg.Store.Backend {
	case config.BackendSQLite:
		db, err := database.OpenMigrated(cfg.Store.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		entry.WithField("path", cfg.Store.SQLite.Path).Info("store ready")
		return repository.NewDocumentRepo(db), func() { _ = db.Close() }, nil

	case config.BackendMongo:
		dialCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		client, err := mongostore.Connect(dialCtx, cfg.Store.Mongo.URI, log)
		if err != nil {
			return nil, nil, err
		}
		entry.WithField("database", cfg.Store.Mongo.Database).Info("store ready")
		release := func() {
			ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
			defer cancel()
			if err := client.Disconnect(ctx); err != nil {
				log.WithError(err).Warn("mongodb disconnect")
			}
		}
		return mongostore.New(mongostore.NewMongoProvider(client, cfg.Store.Mongo.Database)), release, nil

	case config.BackendFirestore:
		client, err := firestore.Open(ctx, cfg.Store.Firestore.ProjectID, cfg.Store.Firestore.CredentialsFile)
		if err != nil {
			return nil, nil, err
		}
		entry.WithField("project", cfg.Store.Firestore.ProjectID).Info("store ready")
		return firestore.New(firestore.ClientRunner{Client: client}), func() { _ = client.Close() }, nil

	case config.BackendMemory:
		mem := docstore.NewMemory()
		mem.Delay = cfg.Store.Memory.Latency
		mem.Put(cfg.Store.Collection, sample.Documents(cfg.Store.Memory.Seed, time.Now(), time.Now().UnixNano())...)
		entry.WithField("documents", cfg.Store.Memory.Seed).Info("store ready")
		return mem, func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}
