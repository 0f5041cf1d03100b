// Package database opens the listing and user stores of the configured engine.
package database

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/sigimobiliare/sig/core"
	"github.com/sigimobiliare/sig/core/listing"
	"github.com/sigimobiliare/sig/core/user"
	demodb "github.com/sigimobiliare/sig/storage/database/demo"
	inmemdb "github.com/sigimobiliare/sig/storage/database/inmem"
	"github.com/sigimobiliare/sig/storage/database/mongodb"
	"github.com/sigimobiliare/sig/storage/database/postgres"
)

// Store groups the repositories of one engine.
type Store struct {
	Engine   string
	Listings listing.Repository
	Users    user.Repository

	// Postgres is set for the postgres engine only (migrations).
	Postgres *postgres.DB

	closer core.Closer
}

// Open connects to the engine selected by conf. With no engine and no URI the demo store is used.
func Open(ctx context.Context, conf *core.Config) (*Store, error) {
	engine := conf.Database.EffectiveEngine()
	store := &Store{Engine: engine}

	switch engine {
	case core.EngineMongoDB:
		db, err := mongodb.Open(ctx, conf)
		if err != nil {
			return nil, err
		}
		store.Listings = mongodb.NewListingRepository(db)
		store.Users = mongodb.NewUserRepository(db)
		store.closer = db

	case core.EnginePostgres:
		if err := postgres.CreateIfNotExist(conf); err != nil {
			return nil, err
		}
		db, err := postgres.Open(conf)
		if err != nil {
			return nil, err
		}
		if err = postgres.Migrate(db); err != nil {
			_ = db.Close(ctx)
			return nil, err
		}
		store.Listings = postgres.NewListingRepository(db)
		store.Users = postgres.NewUserRepository(db)
		store.Postgres = db
		store.closer = db

	case core.EngineMemory:
		db := inmemdb.Open()
		store.Listings = inmemdb.NewListingRepository(db)
		store.Users = inmemdb.NewUserRepository(db)
		store.closer = db

	case core.EngineNone:
		store.Listings = demodb.NewListingRepository(time.Now().UTC())
		store.Users = demodb.NewUserRepository()

	default:
		return nil, errors.Errorf("unknown database engine %q", engine)
	}
	return store, nil
}

// Demo reports whether the store serves the read-only defaults.
func (s *Store) Demo() bool {
	return s.Engine == core.EngineNone
}

func (s *Store) Close(ctx context.Context) error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close(ctx)
}
