package catalog

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"storefront-api/internal/identifier"
	"storefront-api/internal/models"
	"storefront-api/internal/repository"
)

// UserService guarda los registros de clientes. Ninguna otra colección
// referencia usuarios, así que no hay cascada.
type UserService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

func (s *UserService) Create(ctx context.Context, fields bson.M) (id identifier.ID, err error) {
	ctx, span := startSpan(ctx, "catalog.users.create")
	defer func() { endSpan(span, err) }()

	var user models.User
	if err := decodePayload(fields, &user); err != nil {
		return identifier.ID{}, err
	}
	return s.repo.Create(ctx, &user)
}
