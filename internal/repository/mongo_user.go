package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"storefront-api/internal/identifier"
	"storefront-api/internal/models"
)

type MongoUserRepository struct {
	collection *mongo.Collection
	timeout    time.Duration
}

func NewMongoUserRepository(collection *mongo.Collection, timeout time.Duration) *MongoUserRepository {
	return &MongoUserRepository{
		collection: collection,
		timeout:    orDefault(timeout),
	}
}

func (r *MongoUserRepository) FindAll(ctx context.Context) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return findAll[models.User](ctx, r.collection)
}

func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) (identifier.ID, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	id, err := insertOne(ctx, r.collection, user)
	if err != nil {
		return identifier.ID{}, err
	}
	user.ObjectID, _ = id.ObjectID()
	return id, nil
}
