// Package database maneja el cliente MongoDB y el chequeo de vida detrás de
// GET /api/ping.
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"storefront-api/internal/logger"
)

const connectTimeout = 30 * time.Second

// Connect conecta a uri y hace ping al primario. El cliente se comparte entre
// todas las peticiones durante la vida del proceso.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}

	logger.Logger.Info().Msg("Connected to MongoDB")
	return client, nil
}

// Pinger indica si el store está vivo.
type Pinger interface {
	Ping(ctx context.Context) (bool, error)
}

// MongoPinger corre el comando ping contra una base.
type MongoPinger struct {
	db *mongo.Database
}

func NewMongoPinger(db *mongo.Database) *MongoPinger {
	return &MongoPinger{db: db}
}

func (p *MongoPinger) Ping(ctx context.Context) (bool, error) {
	var status struct {
		OK float64 `bson:"ok"`
	}
	if err := p.db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Decode(&status); err != nil {
		return false, err
	}
	return status.OK == 1, nil
}

// StaticPinger siempre responde vivo. Acompaña al store en memoria.
type StaticPinger struct{}

func (StaticPinger) Ping(context.Context) (bool, error) { return true, nil }
