package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/apperr"
	"storefront/internal/models"
)

const (
	writeTimeout = 5 * time.Second
	readTimeout  = 3 * time.Second
	listTimeout  = 10 * time.Second
)

type ProductRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(collection *mongo.Collection) *ProductRepository {
	return &ProductRepository{collection: collection}
}

// Create inserts a new product.
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	product.ID = primitive.NewObjectID()
	product.Reserved = 0
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt

	_, err := r.collection.InsertOne(ctx, product)
	return errors.Wrap(err, "insert product")
}

// FindByID returns one product by hex id.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.ErrNotFound
	}
	return r.findOne(ctx, objID)
}

// Find returns one product by object id.
func (r *ProductRepository) Find(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	return r.findOne(ctx, id)
}

func (r *ProductRepository) findOne(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	var product models.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.ErrNotFound
		}
		return nil, errors.Wrap(err, "find product")
	}
	return &product, nil
}

// FindByIDs returns the products that exist among the given ids, keyed by id.
// Missing ids are simply absent from the map.
func (r *ProductRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Product, error) {
	byID := make(map[primitive.ObjectID]*models.Product, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}

	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, errors.Wrap(err, "find products")
	}
	defer cursor.Close(ctx)

	var products []*models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, errors.Wrap(err, "decode products")
	}
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}

// FindAll lists products newest first, with optional category filter and
// pagination.
func (r *ProductRepository) FindAll(ctx context.Context, page, pageSize int, category string) ([]*models.Product, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "count products")
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if page > 0 && pageSize > 0 {
		findOptions.SetSkip(int64((page - 1) * pageSize))
		findOptions.SetLimit(int64(pageSize))
	} else {
		findOptions.SetLimit(100)
	}

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, errors.Wrap(err, "list products")
	}
	defer cursor.Close(ctx)

	var products []*models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, errors.Wrap(err, "decode products")
	}
	return products, total, nil
}

// Update applies a partial update built from the non-nil fields.
func (r *ProductRepository) Update(ctx context.Context, id string, update bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.ErrNotFound
	}

	update["updated_at"] = time.Now()
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": update})
	if err != nil {
		return errors.Wrap(err, "update product")
	}
	if result.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Delete removes a product.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.ErrNotFound
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return errors.Wrap(err, "delete product")
	}
	if result.DeletedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Reserve moves qty units from available stock into the reservation held by
// carts. The guard and the move are one document update, so two concurrent
// reservations can never take the same unit.
func (r *ProductRepository) Reserve(ctx context.Context, id primitive.ObjectID, qty int) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	filter := bson.M{"_id": id, "stock": bson.M{"$gte": qty}}
	update := bson.M{
		"$inc": bson.M{"stock": -qty, "reserved": qty},
		"$set": bson.M{"updated_at": time.Now()},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return errors.Wrap(err, "reserve stock")
	}
	if result.MatchedCount == 0 {
		return r.shortfall(ctx, id)
	}
	return nil
}

// Release returns qty reserved units to available stock. A missing product
// is treated as already released so removing a stale cart line still works.
func (r *ProductRepository) Release(ctx context.Context, id primitive.ObjectID, qty int) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	filter := bson.M{"_id": id, "reserved": bson.M{"$gte": qty}}
	update := bson.M{
		"$inc": bson.M{"stock": qty, "reserved": -qty},
		"$set": bson.M{"updated_at": time.Now()},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return errors.Wrap(err, "release stock")
	}
	if result.MatchedCount == 0 {
		if _, err := r.findOne(ctx, id); errors.Is(err, apperr.ErrNotFound) {
			return nil
		}
		return errors.Errorf("reservation underflow releasing %d units of %s", qty, id.Hex())
	}
	return nil
}

// ConsumeReserved burns qty reserved units at checkout without touching
// available stock; the units left the sellable pool when they were reserved.
func (r *ProductRepository) ConsumeReserved(ctx context.Context, id primitive.ObjectID, qty int) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	filter := bson.M{"_id": id, "reserved": bson.M{"$gte": qty}}
	update := bson.M{
		"$inc": bson.M{"reserved": -qty},
		"$set": bson.M{"updated_at": time.Now()},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return errors.Wrap(err, "consume reserved stock")
	}
	if result.MatchedCount == 0 {
		return r.shortfall(ctx, id)
	}
	return nil
}

// shortfall distinguishes a missing product from an uncovered quantity after
// a conditional update matched nothing.
func (r *ProductRepository) shortfall(ctx context.Context, id primitive.ObjectID) error {
	product, err := r.findOne(ctx, id)
	if err != nil {
		return err
	}
	return &apperr.InsufficientStockError{Product: product.Name}
}

// Count returns the number of products, optionally restricted to stock
// strictly below threshold (threshold < 0 counts everything).
func (r *ProductRepository) Count(ctx context.Context, stockBelow int) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	filter := bson.M{}
	if stockBelow >= 0 {
		filter["stock"] = bson.M{"$lt": stockBelow}
	}
	total, err := r.collection.CountDocuments(ctx, filter)
	return total, errors.Wrap(err, "count products")
}
