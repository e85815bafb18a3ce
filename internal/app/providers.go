package app

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"

	"github.com/nguyentranbao-ct/community-worker/internal/config"
	"github.com/nguyentranbao-ct/community-worker/internal/store"
	"github.com/nguyentranbao-ct/community-worker/internal/store/firebase"
	"github.com/nguyentranbao-ct/community-worker/internal/store/memory"
	"github.com/nguyentranbao-ct/community-worker/internal/store/mongostore"
)

func newStore(lc fx.Lifecycle, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case "firebase":
		return firebase.NewClient(cfg.Store), nil
	case "mongo":
		db, err := newMongoDB(lc, cfg)
		if err != nil {
			return nil, err
		}
		return mongostore.New(db, cfg.Database.Collection), nil
	case "memory":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %q", cfg.Store.Backend)
	}
}

func newMongoDB(lc fx.Lifecycle, cfg *config.Config) (*mongo.Database, error) {
	opts := options.Client().
		SetAppName("community-worker").
		ApplyURI(cfg.Database.URI)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	mongoClient, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("init mongo client: %w", err)
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return mongoClient.Ping(ctx, nil)
		},
		OnStop: func(ctx context.Context) error {
			return mongoClient.Disconnect(ctx)
		},
	})

	return mongoClient.Database(cfg.Database.Database), nil
}
