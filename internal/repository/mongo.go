package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront-api/internal/identifier"
)

// DefaultTimeout limita cada llamada al store cuando no hay timeout configurado.
const DefaultTimeout = 5 * time.Second

// Nombres de colecciones.
const (
	ProductsCollection = "products"
	CartCollection     = "cart"
	WishlistCollection = "wishlist"
	UsersCollection    = "users"
)

func orDefault(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return DefaultTimeout
	}
	return timeout
}

// findAll lee toda la colección. No se pide orden; MongoDB retorna el orden
// natural.
func findAll[T any](ctx context.Context, coll *mongo.Collection) ([]T, error) {
	cursor, err := coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := make([]T, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, id identifier.ID) (*T, error) {
	var doc T
	if err := coll.FindOne(ctx, id.Filter()).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func insertOne(ctx context.Context, coll *mongo.Collection, doc interface{}) (identifier.ID, error) {
	res, err := coll.InsertOne(ctx, doc)
	if err != nil {
		return identifier.ID{}, err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return identifier.ID{}, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return identifier.FromObjectID(oid), nil
}

func updateOne(ctx context.Context, coll *mongo.Collection, id identifier.ID, fields bson.M) (*UpdateResult, error) {
	res, err := coll.UpdateOne(ctx, id.Filter(), bson.M{"$set": fields})
	if err != nil {
		return nil, err
	}
	return &UpdateResult{
		ID:            id.String(),
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
	}, nil
}

func deleteOne(ctx context.Context, coll *mongo.Collection, id identifier.ID) (int64, error) {
	res, err := coll.DeleteOne(ctx, id.Filter())
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// nonNil mantiene los operandos de $in/$nin como arrays y no como null.
func nonNil(keys []string) []string {
	if keys == nil {
		return []string{}
	}
	return keys
}
