package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

type Mongo struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// NewMongo connects to uri and selects database. The connection is verified
// with a primary ping before returning.
func NewMongo(ctx context.Context, uri string, database string) (*Mongo, error) {
	if database == "" {
		return nil, fmt.Errorf("mongo database name is required")
	}

	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	slog.Info("mongo connected", "database", database)
	return &Mongo{Client: client, Database: client.Database(database)}, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	if m == nil || m.Client == nil {
		return nil
	}
	return m.Client.Disconnect(ctx)
}

func (m *Mongo) Health(ctx context.Context) error {
	return m.Client.Ping(ctx, readpref.Primary())
}
