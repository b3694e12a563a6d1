// Package dbtest entrega a los tests de integración una base MongoDB
// desechable. Los tests se omiten si MONGO_URI no está o el servidor no responde.
package dbtest

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// URIEnv es la variable con la conexión al servidor de pruebas.
const URIEnv = "MONGO_URI"

const dialTimeout = 5 * time.Second

// NewDatabase conecta a $MONGO_URI y retorna una base con nombre único que
// se elimina al terminar el test.
func NewDatabase(t testing.TB) *mongo.Database {
	t.Helper()

	uri := os.Getenv(URIEnv)
	if uri == "" {
		t.Skipf("%s not set, skipping MongoDB integration test", URIEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Skipf("MongoDB not available at %s: %v", uri, err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		t.Skipf("MongoDB not available at %s: %v", uri, err)
	}

	db := client.Database(fmt.Sprintf("storefront_test_%d", time.Now().UnixNano()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}
