package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront-api/internal/identifier"
	"storefront-api/internal/models"
)

// MongoProductRepository guarda productos en una colección MongoDB.
type MongoProductRepository struct {
	collection *mongo.Collection
	timeout    time.Duration
}

func NewMongoProductRepository(collection *mongo.Collection, timeout time.Duration) *MongoProductRepository {
	return &MongoProductRepository{
		collection: collection,
		timeout:    orDefault(timeout),
	}
}

// FindAll lista todo el catálogo, sin filtros ni paginación.
func (r *MongoProductRepository) FindAll(ctx context.Context) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return findAll[models.Product](ctx, r.collection)
}

// FindByID obtiene un producto por id nativo o de aplicación.
func (r *MongoProductRepository) FindByID(ctx context.Context, id identifier.ID) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return findOne[models.Product](ctx, r.collection, id)
}

// Create inserta el producto y le asigna el id nativo.
func (r *MongoProductRepository) Create(ctx context.Context, product *models.Product) (identifier.ID, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	id, err := insertOne(ctx, r.collection, product)
	if err != nil {
		return identifier.ID{}, err
	}
	product.ObjectID, _ = id.ObjectID()
	return id, nil
}

// Update aplica fields sobre el producto con $set.
func (r *MongoProductRepository) Update(ctx context.Context, id identifier.ID, fields bson.M) (*UpdateResult, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return updateOne(ctx, r.collection, id, fields)
}

// Delete elimina a lo sumo un producto.
func (r *MongoProductRepository) Delete(ctx context.Context, id identifier.ID) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return deleteOne(ctx, r.collection, id)
}

// Keys proyecta solo los campos de id de cada producto.
func (r *MongoProductRepository) Keys(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{
		identifier.NativeField:      1,
		identifier.ApplicationField: 1,
	})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var refs []struct {
		ObjectID primitive.ObjectID `bson:"_id"`
		ID       string             `bson:"id,omitempty"`
	}
	if err := cursor.All(ctx, &refs); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(refs)*2)
	for _, ref := range refs {
		p := models.Product{ObjectID: ref.ObjectID, ID: ref.ID}
		keys = append(keys, p.Keys()...)
	}
	return keys, nil
}
