package mongodb

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/sigimobiliare/sig/core"
)

const (
	defaultDBName  = "sig"
	connectTimeout = 10 * time.Second

	listingsCollection = "listings"
	usersCollection    = "users"
)

type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

// Open connects to the MongoDB deployment of conf.Database.URI and checks it answers.
func Open(ctx context.Context, conf *core.Config) (*DB, error) {
	if conf.Database.URI == "" {
		return nil, core.ErrStoreNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(conf.Database.URI))
	if err != nil {
		return nil, errors.Wrap(err, "connecting to mongodb")
	}
	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "pinging mongodb")
	}
	return &DB{client: client, db: client.Database(dbName(conf))}, nil
}

// dbName prefers the configured name, then the database of the URI path.
func dbName(conf *core.Config) string {
	if name := core.CleanString(conf.Database.Name); name != "" {
		return name
	}
	if cs, err := connstring.Parse(conf.Database.URI); err == nil && cs.Database != "" {
		return cs.Database
	}
	return defaultDBName
}

func (db *DB) Ping(ctx context.Context) error {
	return db.db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

func (db *DB) Close(ctx context.Context) error {
	return db.client.Disconnect(ctx)
}

func (db *DB) collection(name string) *mongo.Collection {
	return db.db.Collection(name)
}
