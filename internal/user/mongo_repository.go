package user

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/vasiliy-maslov/storefront-service/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	Name      string             `bson:"name"`
	Image     string             `bson:"image"`
	Number    string             `bson:"number"`
	Role      string             `bson:"role,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d userDocument) toUser() User {
	return User{
		ID:        d.ID.Hex(),
		Email:     d.Email,
		Name:      d.Name,
		Image:     d.Image,
		Number:    d.Number,
		Role:      Role(d.Role),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type mongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(coll *mongo.Collection) Repository {
	return &mongoRepository{coll: coll}
}

func (r *mongoRepository) Create(ctx context.Context, user *User) (string, error) {
	now := time.Now().UTC()
	doc := userDocument{
		Email:     user.Email,
		Name:      user.Name,
		Image:     user.Image,
		Number:    user.Number,
		Role:      string(user.Role),
		CreatedAt: now,
		UpdatedAt: now,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrEmailExists
		}
		return "", fmt.Errorf("repository: failed to insert user: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("repository: unexpected inserted id type %T", res.InsertedID)
	}

	user.ID = oid.Hex()
	user.CreatedAt = now
	user.UpdatedAt = now
	return user.ID, nil
}

func (r *mongoRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var doc userDocument
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to find user by email: %w", err)
	}

	u := doc.toUser()
	return &u, nil
}

func (r *mongoRepository) Search(ctx context.Context, query string) ([]User, error) {
	cursor, err := r.coll.Find(ctx, searchFilter(query))
	if err != nil {
		return nil, fmt.Errorf("repository: failed to search users: %w", err)
	}

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("repository: failed to decode users: %w", err)
	}

	users := make([]User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.toUser())
	}
	return users, nil
}

func (r *mongoRepository) Update(ctx context.Context, email string, fields UpdateFields) (store.UpdateResult, error) {
	set := updateSet(fields)
	if len(set) == 0 {
		return store.UpdateResult{}, store.ErrEmptyUpdate
	}
	set["updatedAt"] = time.Now().UTC()

	res, err := r.coll.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": set})
	if err != nil {
		return store.UpdateResult{}, fmt.Errorf("repository: failed to update user %s: %w", email, err)
	}

	return store.UpdateResult{MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}, nil
}

// searchFilter matches query as a case-insensitive substring of name, email
// or number. Regex metacharacters in query are matched literally.
func searchFilter(query string) bson.M {
	if query == "" {
		return bson.M{}
	}
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	return bson.M{"$or": bson.A{
		bson.M{"name": pattern},
		bson.M{"email": pattern},
		bson.M{"number": pattern},
	}}
}

func updateSet(fields UpdateFields) bson.M {
	set := bson.M{}
	if fields.Name != nil {
		set["name"] = *fields.Name
	}
	if fields.Image != nil {
		set["image"] = *fields.Image
	}
	if fields.Number != nil {
		set["number"] = *fields.Number
	}
	if fields.Role != nil {
		set["role"] = string(*fields.Role)
	}
	return set
}
