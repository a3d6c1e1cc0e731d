package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/vasiliy-maslov/storefront-service/internal/db"
	"github.com/vasiliy-maslov/storefront-service/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type entryDocument struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	Email     string               `bson:"email"`
	ProductID string               `bson:"productId"`
	Title     string               `bson:"title"`
	Image     string               `bson:"image"`
	Size      string               `bson:"size"`
	Price     primitive.Decimal128 `bson:"price"`
	Quantity  int                  `bson:"quantity"`
	CreatedAt time.Time            `bson:"createdAt"`
}

type mongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(coll *mongo.Collection) Repository {
	return &mongoRepository{coll: coll}
}

func (r *mongoRepository) ListByEmail(ctx context.Context, email string) ([]Entry, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"email": email})
	if err != nil {
		return nil, fmt.Errorf("repository: failed to find cart of %s: %w", email, err)
	}

	var docs []entryDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("repository: failed to decode cart entries: %w", err)
	}

	entries := make([]Entry, 0, len(docs))
	for _, d := range docs {
		price, err := db.DecimalFromBSON(d.Price)
		if err != nil {
			return nil, fmt.Errorf("repository: %w", err)
		}
		entries = append(entries, Entry{
			ID:        d.ID.Hex(),
			Email:     d.Email,
			ProductID: d.ProductID,
			Title:     d.Title,
			Image:     d.Image,
			Size:      d.Size,
			Price:     price,
			Quantity:  d.Quantity,
			CreatedAt: d.CreatedAt,
		})
	}
	return entries, nil
}

func (r *mongoRepository) Exists(ctx context.Context, email, productID, size string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, entryKey(email, productID, size), options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("repository: failed to check cart entry: %w", err)
	}
	return n > 0, nil
}

func (r *mongoRepository) Create(ctx context.Context, e *Entry) (string, error) {
	price, err := db.DecimalToBSON(e.Price)
	if err != nil {
		return "", fmt.Errorf("repository: %w", err)
	}

	now := time.Now().UTC()
	res, err := r.coll.InsertOne(ctx, entryDocument{
		Email:     e.Email,
		ProductID: e.ProductID,
		Title:     e.Title,
		Image:     e.Image,
		Size:      e.Size,
		Price:     price,
		Quantity:  e.Quantity,
		CreatedAt: now,
	})
	if err != nil {
		return "", fmt.Errorf("repository: failed to insert cart entry: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("repository: unexpected inserted id type %T", res.InsertedID)
	}

	e.ID = oid.Hex()
	e.CreatedAt = now
	return e.ID, nil
}

func (r *mongoRepository) Delete(ctx context.Context, id string) (store.DeleteResult, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return store.DeleteResult{}, nil
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return store.DeleteResult{}, fmt.Errorf("repository: failed to delete cart entry %s: %w", id, err)
	}
	return store.DeleteResult{DeletedCount: res.DeletedCount}, nil
}

func entryKey(email, productID, size string) bson.M {
	return bson.M{"email": email, "productId": productID, "size": size}
}
