package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront-api/internal/identifier"
	"storefront-api/internal/models"
)

var (
	errDuplicateKey = errors.New("duplicate key error: _id already exists")
	errImmutableID  = errors.New("performing an update on the path '_id' would modify the immutable field '_id'")
)

// memCollection es una lista de documentos ordenada por inserción y protegida
// por mutex, con la misma semántica de ids que una colección MongoDB. Los
// documentos se guardan y entregan como copias pasadas por BSON.
type memCollection[T any] struct {
	mu   sync.RWMutex
	docs []*T
	ref  func(*T) (*primitive.ObjectID, string)
}

func newMemCollection[T any](ref func(*T) (*primitive.ObjectID, string)) *memCollection[T] {
	return &memCollection[T]{ref: ref}
}

func clone[T any](doc *T) (*T, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var out T
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *memCollection[T]) matches(doc *T, id identifier.ID) bool {
	oid, appID := c.ref(doc)
	if native, ok := id.ObjectID(); ok {
		return *oid == native
	}
	return appID == id.String()
}

func (c *memCollection[T]) all() ([]T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, 0, len(c.docs))
	for _, doc := range c.docs {
		cp, err := clone(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, *cp)
	}
	return out, nil
}

func (c *memCollection[T]) find(id identifier.ID) (*T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, doc := range c.docs {
		if c.matches(doc, id) {
			return clone(doc)
		}
	}
	return nil, ErrNotFound
}

func (c *memCollection[T]) insert(doc *T) (identifier.ID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	oid, _ := c.ref(doc)
	if oid.IsZero() {
		*oid = primitive.NewObjectID()
	}
	for _, existing := range c.docs {
		if other, _ := c.ref(existing); *other == *oid {
			return identifier.ID{}, errDuplicateKey
		}
	}

	cp, err := clone(doc)
	if err != nil {
		return identifier.ID{}, err
	}
	c.docs = append(c.docs, cp)
	return identifier.FromObjectID(*oid), nil
}

// update aplica fields como $set sobre el primer documento que coincide.
func (c *memCollection[T]) update(id identifier.ID, fields bson.M) (*UpdateResult, error) {
	if _, ok := fields[identifier.NativeField]; ok {
		return nil, errImmutableID
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	result := &UpdateResult{ID: id.String()}
	for i, doc := range c.docs {
		if !c.matches(doc, id) {
			continue
		}
		result.MatchedCount = 1

		next, modified, err := applySet(doc, fields)
		if err != nil {
			return nil, err
		}
		if modified {
			c.docs[i] = next
			result.ModifiedCount = 1
		}
		return result, nil
	}
	return result, nil
}

func applySet[T any](doc *T, fields bson.M) (*T, bool, error) {
	before, err := bson.Marshal(doc)
	if err != nil {
		return nil, false, err
	}

	var merged bson.M
	if err := bson.Unmarshal(before, &merged); err != nil {
		return nil, false, err
	}
	for k, v := range fields {
		merged[k] = v
	}

	raw, err := bson.Marshal(merged)
	if err != nil {
		return nil, false, err
	}
	var next T
	if err := bson.Unmarshal(raw, &next); err != nil {
		return nil, false, fmt.Errorf("apply update: %w", err)
	}

	after, err := bson.Marshal(&next)
	if err != nil {
		return nil, false, err
	}
	return &next, !bytes.Equal(before, after), nil
}

func (c *memCollection[T]) deleteOne(id identifier.ID) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, doc := range c.docs {
		if c.matches(doc, id) {
			c.docs = append(c.docs[:i], c.docs[i+1:]...)
			return 1
		}
	}
	return 0
}

func (c *memCollection[T]) deleteWhere(pred func(*T) bool) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.docs[:0]
	var removed int64
	for _, doc := range c.docs {
		if pred(doc) {
			removed++
			continue
		}
		kept = append(kept, doc)
	}
	for i := len(kept); i < len(c.docs); i++ {
		c.docs[i] = nil
	}
	c.docs = kept
	return removed
}

func (c *memCollection[T]) each(fn func(*T)) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, doc := range c.docs {
		fn(doc)
	}
}

// MemoryProductRepository guarda productos en memoria. Respalda el driver
// de desarrollo local y los tests.
type MemoryProductRepository struct {
	c *memCollection[models.Product]
}

func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		c: newMemCollection(func(p *models.Product) (*primitive.ObjectID, string) {
			return &p.ObjectID, p.ID
		}),
	}
}

func (r *MemoryProductRepository) FindAll(_ context.Context) ([]models.Product, error) {
	return r.c.all()
}

func (r *MemoryProductRepository) FindByID(_ context.Context, id identifier.ID) (*models.Product, error) {
	return r.c.find(id)
}

func (r *MemoryProductRepository) Create(_ context.Context, product *models.Product) (identifier.ID, error) {
	return r.c.insert(product)
}

func (r *MemoryProductRepository) Update(_ context.Context, id identifier.ID, fields bson.M) (*UpdateResult, error) {
	return r.c.update(id, fields)
}

func (r *MemoryProductRepository) Delete(_ context.Context, id identifier.ID) (int64, error) {
	return r.c.deleteOne(id), nil
}

func (r *MemoryProductRepository) Keys(_ context.Context) ([]string, error) {
	keys := make([]string, 0)
	r.c.each(func(p *models.Product) {
		keys = append(keys, p.Keys()...)
	})
	return keys, nil
}

// MemoryItemRepository guarda líneas del carrito o de la lista de deseos en memoria.
type MemoryItemRepository struct {
	c *memCollection[models.Item]
}

func NewMemoryItemRepository() *MemoryItemRepository {
	return &MemoryItemRepository{
		c: newMemCollection(func(it *models.Item) (*primitive.ObjectID, string) {
			return &it.ObjectID, it.ID
		}),
	}
}

func (r *MemoryItemRepository) FindAll(_ context.Context) ([]models.Item, error) {
	return r.c.all()
}

func (r *MemoryItemRepository) FindByID(_ context.Context, id identifier.ID) (*models.Item, error) {
	return r.c.find(id)
}

func (r *MemoryItemRepository) Create(_ context.Context, item *models.Item) (identifier.ID, error) {
	return r.c.insert(item)
}

func (r *MemoryItemRepository) Update(_ context.Context, id identifier.ID, fields bson.M) (*UpdateResult, error) {
	return r.c.update(id, fields)
}

func (r *MemoryItemRepository) Delete(_ context.Context, id identifier.ID) (int64, error) {
	return r.c.deleteOne(id), nil
}

func (r *MemoryItemRepository) DeleteByProduct(_ context.Context, keys []string) (int64, error) {
	set := toSet(keys)
	return r.c.deleteWhere(func(it *models.Item) bool {
		_, ok := set[it.ProductID]
		return ok
	}), nil
}

func (r *MemoryItemRepository) DeleteOrphans(_ context.Context, keep []string) (int64, error) {
	set := toSet(keep)
	return r.c.deleteWhere(func(it *models.Item) bool {
		_, ok := set[it.ProductID]
		return !ok
	}), nil
}

type MemoryUserRepository struct {
	c *memCollection[models.User]
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		c: newMemCollection(func(u *models.User) (*primitive.ObjectID, string) {
			return &u.ObjectID, u.ID
		}),
	}
}

func (r *MemoryUserRepository) FindAll(_ context.Context) ([]models.User, error) {
	return r.c.all()
}

func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) (identifier.ID, error) {
	return r.c.insert(user)
}

func toSet(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}
