package address

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vasiliy-maslov/storefront-service/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type addressDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	Name      string             `bson:"name"`
	House     string             `bson:"house"`
	Road      string             `bson:"road"`
	Area      string             `bson:"area"`
	City      string             `bson:"city"`
	Details   string             `bson:"details"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

type mongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(coll *mongo.Collection) Repository {
	return &mongoRepository{coll: coll}
}

func (r *mongoRepository) GetByEmail(ctx context.Context, email string) (*Address, error) {
	var doc addressDocument
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to find address for %s: %w", email, err)
	}

	return &Address{
		ID:        doc.ID.Hex(),
		Email:     doc.Email,
		Name:      doc.Name,
		House:     doc.House,
		Road:      doc.Road,
		Area:      doc.Area,
		City:      doc.City,
		Details:   doc.Details,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

func (r *mongoRepository) Upsert(ctx context.Context, email string, fields Fields) (store.UpdateResult, error) {
	res, err := r.coll.UpdateOne(ctx, bson.M{"email": email}, upsertUpdate(fields, time.Now().UTC()), options.Update().SetUpsert(true))
	if err != nil {
		return store.UpdateResult{}, fmt.Errorf("repository: failed to upsert address for %s: %w", email, err)
	}

	out := store.UpdateResult{MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}
	if oid, ok := res.UpsertedID.(primitive.ObjectID); ok {
		id := oid.Hex()
		out.UpsertedID = &id
	}
	return out, nil
}

// upsertUpdate sets the provided fields and fills the remaining ones with
// empty strings only when the document is being created.
func upsertUpdate(fields Fields, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	onInsert := bson.M{}
	for _, c := range fields.columns() {
		if c.value != nil {
			set[c.name] = *c.value
		} else {
			onInsert[c.name] = ""
		}
	}

	update := bson.M{"$set": set}
	if len(onInsert) > 0 {
		update["$setOnInsert"] = onInsert
	}
	return update
}
