package sequence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/storefront-service/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type recordDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Kind      string             `bson:"kind"`
	Value     int64              `bson:"value"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

type mongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(coll *mongo.Collection) Repository {
	return &mongoRepository{coll: coll}
}

func (r *mongoRepository) Get(ctx context.Context, kind Kind, id string) (*Record, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, store.ErrNotFound
	}

	var doc recordDocument
	if err := r.coll.FindOne(ctx, recordFilter(kind, oid)).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to find %s sequence %s: %w", kind, id, err)
	}

	return &Record{ID: doc.ID.Hex(), Kind: Kind(doc.Kind), Value: doc.Value, UpdatedAt: doc.UpdatedAt}, nil
}

func (r *mongoRepository) Update(ctx context.Context, kind Kind, id string, value int64) (store.UpdateResult, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return store.UpdateResult{}, nil
	}

	update := bson.M{"$set": bson.M{"value": value, "updatedAt": time.Now().UTC()}}
	res, err := r.coll.UpdateOne(ctx, recordFilter(kind, oid), update)
	if err != nil {
		return store.UpdateResult{}, fmt.Errorf("repository: failed to update %s sequence %s: %w", kind, id, err)
	}
	return store.UpdateResult{MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}, nil
}

// Seed ids of the counter records on the document store. The relational
// backend seeds the same counters through a migration.
const (
	ProductCodeSeedID = "66a1f0c2e4b0a1b2c3d4e501"
	OrderIDSeedID     = "66a1f0c2e4b0a1b2c3d4e502"
)

type seed struct {
	id    string
	kind  Kind
	value int64
}

var mongoSeeds = []seed{
	{id: ProductCodeSeedID, kind: KindProductCode, value: 1000},
	{id: OrderIDSeedID, kind: KindOrderID, value: 100000},
}

// SeedMongo creates the counter records that do not exist yet. Existing
// records keep their value.
func SeedMongo(ctx context.Context, coll *mongo.Collection) error {
	models, err := seedModels(time.Now().UTC())
	if err != nil {
		return err
	}

	res, err := coll.BulkWrite(ctx, models)
	if err != nil {
		return fmt.Errorf("repository: failed to seed sequences: %w", err)
	}
	if res.UpsertedCount > 0 {
		log.Info().Int64("created", res.UpsertedCount).Msg("repository: sequence records seeded")
	}
	return nil
}

func seedModels(now time.Time) ([]mongo.WriteModel, error) {
	models := make([]mongo.WriteModel, 0, len(mongoSeeds))
	for _, s := range mongoSeeds {
		oid, err := primitive.ObjectIDFromHex(s.id)
		if err != nil {
			return nil, fmt.Errorf("repository: invalid seed id %s: %w", s.id, err)
		}
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": oid}).
			SetUpdate(bson.M{"$setOnInsert": bson.M{
				"kind":      string(s.kind),
				"value":     s.value,
				"updatedAt": now,
			}}).
			SetUpsert(true))
	}
	return models, nil
}

func recordFilter(kind Kind, oid primitive.ObjectID) bson.M {
	return bson.M{"_id": oid, "kind": string(kind)}
}
