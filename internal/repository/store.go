package repository

import (
	"context"
	"fmt"

	awsclient "factory-matching/internal/common/aws"
	"factory-matching/internal/common/config"
	"factory-matching/internal/common/database"
	"factory-matching/internal/common/logger"
	"factory-matching/internal/models"
)

// Store bundles the repositories of the configured backend.
type Store struct {
	Factories     FactoryRepository
	Consultations ConsultationRepository

	pingers []func(context.Context) error
	closers []func() error
}

// Open builds the configured backend and, when enabled, wraps the factory
// repository in the redis cache.
func Open(ctx context.Context, cfg *config.Config, log logger.Logger) (*Store, error) {
	store := &Store{}

	switch cfg.Storage.Backend {
	case config.BackendMemory:
		mem := NewMemoryStore()
		store.Factories = mem.Factories()
		store.Consultations = mem.Consultations()

	case config.BackendDynamoDB:
		d := cfg.Storage.DynamoDB
		client, err := awsclient.NewDynamoDBClient(ctx, d.Region, d.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("dynamodb client: %w", err)
		}
		tables := DynamoDBTables{
			Factories:     d.FactoriesTable,
			Consultations: d.ConsultationsTable,
			RegionIndex:   d.RegionIndex,
		}
		store.Factories = NewDynamoFactoryRepository(client, tables)
		store.Consultations = NewDynamoConsultationRepository(client, tables)

	case config.BackendPostgres:
		pg, err := database.NewPostgres(cfg.Storage.Postgres)
		if err != nil {
			return nil, err
		}
		if err := Migrate(ctx, pg); err != nil {
			_ = pg.Close()
			return nil, err
		}
		store.Factories = NewPostgresFactoryRepository(pg)
		store.Consultations = NewPostgresConsultationRepository(pg)
		store.pingers = append(store.pingers, pg.Ping)
		store.closers = append(store.closers, pg.Close)

	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Storage.Backend)
	}

	if es := cfg.Storage.Elasticsearch; es.Enabled {
		client, err := database.NewElasticsearch(es)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		index := NewElasticFactoryRepository(client.Client, es.FactoryIndex)
		if err := index.EnsureIndex(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
		store.Factories = index
		store.pingers = append(store.pingers, client.Ping)
	}

	if cfg.Cache.Enabled {
		rdb := database.NewRedis(cfg.Cache.Redis)
		store.Factories = NewCachedFactoryRepository(store.Factories, rdb, config.GetDuration(cfg.Cache.TTL), log)
		store.pingers = append(store.pingers, rdb.Ping)
		store.closers = append(store.closers, rdb.Close)
	}

	log.Info("Storage initialized", map[string]interface{}{
		"backend":     cfg.Storage.Backend,
		"searchIndex": cfg.Storage.Elasticsearch.Enabled,
		"cache":       cfg.Cache.Enabled,
	})
	return store, nil
}

// Seed saves factories that are not already stored.
func (s *Store) Seed(ctx context.Context, factories []models.Factory) (int, error) {
	existing, err := s.Factories.List(ctx)
	if err != nil {
		return 0, err
	}
	known := make(map[string]bool, len(existing))
	for _, f := range existing {
		known[f.ID] = true
	}

	added := 0
	for _, f := range factories {
		if known[f.ID] {
			continue
		}
		if err := s.Factories.Save(ctx, f); err != nil {
			return added, fmt.Errorf("seed factory %s: %w", f.ID, err)
		}
		added++
	}
	return added, nil
}

// Ping checks every backing connection.
func (s *Store) Ping(ctx context.Context) error {
	for _, ping := range s.pingers {
		if err := ping(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Close() error {
	var firstErr error
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
