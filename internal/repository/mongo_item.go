package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront-api/internal/identifier"
	"storefront-api/internal/models"
)

const productRefField = "productId"

// MongoItemRepository guarda líneas del carrito o de la lista de deseos, según
// la colección que reciba.
type MongoItemRepository struct {
	collection *mongo.Collection
	timeout    time.Duration
}

func NewMongoItemRepository(collection *mongo.Collection, timeout time.Duration) *MongoItemRepository {
	return &MongoItemRepository{
		collection: collection,
		timeout:    orDefault(timeout),
	}
}

func (r *MongoItemRepository) FindAll(ctx context.Context) ([]models.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return findAll[models.Item](ctx, r.collection)
}

func (r *MongoItemRepository) FindByID(ctx context.Context, id identifier.ID) (*models.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return findOne[models.Item](ctx, r.collection, id)
}

func (r *MongoItemRepository) Create(ctx context.Context, item *models.Item) (identifier.ID, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	id, err := insertOne(ctx, r.collection, item)
	if err != nil {
		return identifier.ID{}, err
	}
	item.ObjectID, _ = id.ObjectID()
	return id, nil
}

func (r *MongoItemRepository) Update(ctx context.Context, id identifier.ID, fields bson.M) (*UpdateResult, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return updateOne(ctx, r.collection, id, fields)
}

func (r *MongoItemRepository) Delete(ctx context.Context, id identifier.ID) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return deleteOne(ctx, r.collection, id)
}

// DeleteByProduct elimina cada item que referencia alguna de keys.
func (r *MongoItemRepository) DeleteByProduct(ctx context.Context, keys []string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.collection.DeleteMany(ctx, bson.M{
		productRefField: bson.M{"$in": nonNil(keys)},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteOrphans elimina cada item cuyo productId falta o no está en
// keep.
func (r *MongoItemRepository) DeleteOrphans(ctx context.Context, keep []string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.collection.DeleteMany(ctx, bson.M{
		productRefField: bson.M{"$nin": nonNil(keep)},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
