package bootstrap

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/issuetracker/issue-tracker-backend/config"
	"github.com/issuetracker/issue-tracker-backend/internal/issues/repository"
	"github.com/issuetracker/issue-tracker-backend/internal/issues/repository/memory"
	"github.com/issuetracker/issue-tracker-backend/internal/issues/repository/mongostore"
	"github.com/issuetracker/issue-tracker-backend/internal/issues/repository/pgstore"
	"github.com/issuetracker/issue-tracker-backend/internal/issues/repository/redisstore"
	mongoconn "github.com/issuetracker/issue-tracker-backend/internal/storage/mongo"
	pgconn "github.com/issuetracker/issue-tracker-backend/internal/storage/postgres"
	redisconn "github.com/issuetracker/issue-tracker-backend/internal/storage/redis"
)

// OpenStore connects the project store selected by cfg.Store.Driver. The
// returned close func releases the underlying client.
func OpenStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (repository.ProjectStore, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		client, err := mongoconn.NewClient(ctx, &cfg.Mongo)
		if err != nil {
			return nil, nil, err
		}
		store := mongostore.NewStore(mongoconn.Collection(client, &cfg.Mongo))
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Str("collection", cfg.Mongo.Collection).Msg("mongo store ready")
		return store, func() { _ = client.Disconnect(context.Background()) }, nil

	case config.DriverRedis:
		client, err := redisconn.NewClient(ctx, &cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis store ready")
		return redisstore.NewStore(client), func() { _ = client.Close() }, nil

	case config.DriverPostgres:
		open := pgconn.NewConnection
		if cfg.Database.SQLDriver == config.SQLDriverPGX {
			open = pgconn.NewPool
		}
		db, err := open(ctx, &cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		store := pgstore.NewStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Info().Str("host", cfg.Database.Host).Str("db", cfg.Database.Name).Str("sql_driver", cfg.Database.SQLDriver).Msg("postgres store ready")
		return store, func() { _ = db.Close() }, nil

	case config.DriverMemory:
		log.Warn().Msg("using in-memory store; data is lost on restart")
		return memory.NewStore(), func() {}, nil
	}

	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
