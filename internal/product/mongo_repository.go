package product

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/vasiliy-maslov/storefront-service/internal/db"
	"github.com/vasiliy-maslov/storefront-service/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type stockDocument struct {
	S  int `bson:"S"`
	M  int `bson:"M"`
	L  int `bson:"L"`
	XL int `bson:"XL"`
}

type productDocument struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	Title       string               `bson:"title"`
	Description string               `bson:"description"`
	Gender      string               `bson:"gender"`
	Category    string               `bson:"category"`
	Price       primitive.Decimal128 `bson:"price"`
	Image       string               `bson:"image"`
	Quantity    stockDocument        `bson:"quantity"`
	CreatedAt   time.Time            `bson:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt"`
}

func (d productDocument) toProduct() (Product, error) {
	price, err := db.DecimalFromBSON(d.Price)
	if err != nil {
		return Product{}, err
	}
	return Product{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Gender:      d.Gender,
		Category:    d.Category,
		Price:       price,
		Image:       d.Image,
		Quantity:    Stock(d.Quantity),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

type mongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(coll *mongo.Collection) Repository {
	return &mongoRepository{coll: coll}
}

func (r *mongoRepository) Create(ctx context.Context, p *Product) (string, error) {
	price, err := db.DecimalToBSON(p.Price)
	if err != nil {
		return "", fmt.Errorf("repository: %w", err)
	}

	now := time.Now().UTC()
	res, err := r.coll.InsertOne(ctx, productDocument{
		Title:       p.Title,
		Description: p.Description,
		Gender:      p.Gender,
		Category:    p.Category,
		Price:       price,
		Image:       p.Image,
		Quantity:    stockDocument(p.Quantity),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return "", fmt.Errorf("repository: failed to insert product: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("repository: unexpected inserted id type %T", res.InsertedID)
	}

	p.ID = oid.Hex()
	p.CreatedAt = now
	p.UpdatedAt = now
	return p.ID, nil
}

func (r *mongoRepository) Get(ctx context.Context, id string) (*Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, store.ErrNotFound
	}

	var doc productDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to find product %s: %w", id, err)
	}

	p, err := doc.toProduct()
	if err != nil {
		return nil, fmt.Errorf("repository: %w", err)
	}
	return &p, nil
}

func (r *mongoRepository) List(ctx context.Context, filter Filter) ([]Product, error) {
	cursor, err := r.coll.Find(ctx, listFilter(filter))
	if err != nil {
		return nil, fmt.Errorf("repository: failed to find products: %w", err)
	}
	return decodeProducts(ctx, cursor)
}

func (r *mongoRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("repository: failed to count products: %w", err)
	}
	return n, nil
}

func (r *mongoRepository) Sample(ctx context.Context, n int, filter Filter) ([]Product, error) {
	cursor, err := r.coll.Aggregate(ctx, samplePipeline(n, filter))
	if err != nil {
		return nil, fmt.Errorf("repository: failed to sample products: %w", err)
	}
	return decodeProducts(ctx, cursor)
}

func (r *mongoRepository) Update(ctx context.Context, id string, fields UpdateFields) (store.UpdateResult, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return store.UpdateResult{}, nil
	}

	set, err := updateSet(fields)
	if err != nil {
		return store.UpdateResult{}, fmt.Errorf("repository: %w", err)
	}
	if len(set) == 0 {
		return store.UpdateResult{}, store.ErrEmptyUpdate
	}
	set["updatedAt"] = time.Now().UTC()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return store.UpdateResult{}, fmt.Errorf("repository: failed to update product %s: %w", id, err)
	}
	return store.UpdateResult{MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}, nil
}

func (r *mongoRepository) Delete(ctx context.Context, id string) (store.DeleteResult, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return store.DeleteResult{}, nil
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return store.DeleteResult{}, fmt.Errorf("repository: failed to delete product %s: %w", id, err)
	}
	return store.DeleteResult{DeletedCount: res.DeletedCount}, nil
}

func decodeProducts(ctx context.Context, cursor *mongo.Cursor) ([]Product, error) {
	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("repository: failed to decode products: %w", err)
	}

	products := make([]Product, 0, len(docs))
	for _, d := range docs {
		p, err := d.toProduct()
		if err != nil {
			return nil, fmt.Errorf("repository: %w", err)
		}
		products = append(products, p)
	}
	return products, nil
}

func listFilter(filter Filter) bson.M {
	f := bson.M{}
	if filter.Search != "" {
		f["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
	}
	if filter.Category != "" {
		f["category"] = filter.Category
	}
	if filter.Gender != "" {
		f["gender"] = filter.Gender
	}
	if filter.ExcludeID != "" {
		// A malformed id cannot match any document, so there is nothing to exclude.
		if oid, err := primitive.ObjectIDFromHex(filter.ExcludeID); err == nil {
			f["_id"] = bson.M{"$ne": oid}
		}
	}
	return f
}

func samplePipeline(n int, filter Filter) mongo.Pipeline {
	match := listFilter(Filter{Gender: filter.Gender, ExcludeID: filter.ExcludeID})
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sample", Value: bson.M{"size": n}}},
	}
}

func updateSet(fields UpdateFields) (bson.M, error) {
	set := bson.M{}
	if fields.Title != nil {
		set["title"] = *fields.Title
	}
	if fields.Description != nil {
		set["description"] = *fields.Description
	}
	if fields.Gender != nil {
		set["gender"] = *fields.Gender
	}
	if fields.Category != nil {
		set["category"] = *fields.Category
	}
	if fields.Price != nil {
		price, err := db.DecimalToBSON(*fields.Price)
		if err != nil {
			return nil, err
		}
		set["price"] = price
	}
	if fields.Image != nil {
		set["image"] = *fields.Image
	}
	if fields.Quantity != nil {
		set["quantity"] = stockDocument(*fields.Quantity)
	}
	return set, nil
}
