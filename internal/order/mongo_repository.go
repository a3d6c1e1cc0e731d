package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vasiliy-maslov/storefront-service/internal/db"
	"github.com/vasiliy-maslov/storefront-service/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type lineItemDocument struct {
	ID        string               `bson:"id"`
	ProductID string               `bson:"productId"`
	Title     string               `bson:"title"`
	Size      string               `bson:"size"`
	Quantity  int                  `bson:"quantity"`
	Price     primitive.Decimal128 `bson:"price"`
}

type orderDocument struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	OrderID   string               `bson:"orderId"`
	Email     string               `bson:"email"`
	Name      string               `bson:"name"`
	Phone     string               `bson:"phone"`
	Address   string               `bson:"address"`
	OrderInfo []lineItemDocument   `bson:"orderInfo"`
	Total     primitive.Decimal128 `bson:"total"`
	Status    string               `bson:"status"`
	CreatedAt time.Time            `bson:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt"`
}

func newOrderDocument(o *Order, now time.Time) (orderDocument, error) {
	total, err := db.DecimalToBSON(o.Total)
	if err != nil {
		return orderDocument{}, err
	}

	items := make([]lineItemDocument, 0, len(o.OrderInfo))
	for _, item := range o.OrderInfo {
		price, err := db.DecimalToBSON(item.Price)
		if err != nil {
			return orderDocument{}, err
		}
		items = append(items, lineItemDocument{
			ID:        item.ID,
			ProductID: item.ProductID,
			Title:     item.Title,
			Size:      item.Size,
			Quantity:  item.Quantity,
			Price:     price,
		})
	}

	return orderDocument{
		OrderID:   o.OrderID,
		Email:     o.Email,
		Name:      o.Name,
		Phone:     o.Phone,
		Address:   o.Address,
		OrderInfo: items,
		Total:     total,
		Status:    string(o.Status),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (d orderDocument) toOrder() (Order, error) {
	total, err := db.DecimalFromBSON(d.Total)
	if err != nil {
		return Order{}, err
	}

	items := make([]LineItem, 0, len(d.OrderInfo))
	for _, item := range d.OrderInfo {
		price, err := db.DecimalFromBSON(item.Price)
		if err != nil {
			return Order{}, err
		}
		items = append(items, LineItem{
			ID:        item.ID,
			ProductID: item.ProductID,
			Title:     item.Title,
			Size:      item.Size,
			Quantity:  item.Quantity,
			Price:     price,
		})
	}

	return Order{
		ID:        d.ID.Hex(),
		OrderID:   d.OrderID,
		Email:     d.Email,
		Name:      d.Name,
		Phone:     d.Phone,
		Address:   d.Address,
		OrderInfo: items,
		Total:     total,
		Status:    Status(d.Status),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

type mongoRepository struct {
	orders *mongo.Collection
	carts  *mongo.Collection
}

// NewMongoRepository needs both collections because placing an order also
// clears cart entries. Transactions require a replica set or sharded cluster.
func NewMongoRepository(orders, carts *mongo.Collection) Repository {
	return &mongoRepository{orders: orders, carts: carts}
}

func (r *mongoRepository) Place(ctx context.Context, o *Order) (PlaceResult, error) {
	now := time.Now().UTC()
	doc, err := newOrderDocument(o, now)
	if err != nil {
		return PlaceResult{}, fmt.Errorf("repository: %w", err)
	}

	session, err := r.orders.Database().Client().StartSession()
	if err != nil {
		return PlaceResult{}, fmt.Errorf("repository: failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	var (
		insertedID primitive.ObjectID
		deleted    int64
	)
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := r.orders.InsertOne(sc, doc)
		if err != nil {
			return nil, fmt.Errorf("failed to insert order %s: %w", o.OrderID, err)
		}
		oid, ok := res.InsertedID.(primitive.ObjectID)
		if !ok {
			return nil, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
		}
		insertedID = oid

		delRes, err := r.carts.DeleteMany(sc, cartFilter(o.Email, o.CartIDs()))
		if err != nil {
			return nil, fmt.Errorf("failed to delete cart entries of order %s: %w", o.OrderID, err)
		}
		deleted = delRes.DeletedCount
		return nil, nil
	})
	if err != nil {
		return PlaceResult{}, fmt.Errorf("repository: order placement aborted: %w", err)
	}

	o.ID = insertedID.Hex()
	o.CreatedAt = now
	o.UpdatedAt = now

	return PlaceResult{InsertedID: o.ID, OrderID: o.OrderID, DeletedCount: deleted}, nil
}

func (r *mongoRepository) ListAll(ctx context.Context) ([]Order, error) {
	return r.find(ctx, bson.M{})
}

func (r *mongoRepository) GetByID(ctx context.Context, id string) (*Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, store.ErrNotFound
	}

	var doc orderDocument
	if err := r.orders.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to find order %s: %w", id, err)
	}

	o, err := doc.toOrder()
	if err != nil {
		return nil, fmt.Errorf("repository: %w", err)
	}
	return &o, nil
}

func (r *mongoRepository) ListByEmail(ctx context.Context, email string, delivered bool) ([]Order, error) {
	return r.find(ctx, statusFilter(email, delivered))
}

func (r *mongoRepository) UpdateStatus(ctx context.Context, orderID string, status Status) (store.UpdateResult, error) {
	filter := bson.M{"orderId": orderID, "status": bson.M{"$ne": string(StatusDelivered)}}
	update := bson.M{"$set": bson.M{"status": string(status), "updatedAt": time.Now().UTC()}}

	res, err := r.orders.UpdateMany(ctx, filter, update)
	if err != nil {
		return store.UpdateResult{}, fmt.Errorf("repository: failed to update status of order %s: %w", orderID, err)
	}
	return store.UpdateResult{MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}, nil
}

func (r *mongoRepository) DeleteByOrderID(ctx context.Context, orderID string) (store.DeleteResult, error) {
	res, err := r.orders.DeleteMany(ctx, bson.M{"orderId": orderID})
	if err != nil {
		return store.DeleteResult{}, fmt.Errorf("repository: failed to delete order %s: %w", orderID, err)
	}
	return store.DeleteResult{DeletedCount: res.DeletedCount}, nil
}

func (r *mongoRepository) find(ctx context.Context, filter bson.M) ([]Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.orders.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to find orders: %w", err)
	}

	var docs []orderDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("repository: failed to decode orders: %w", err)
	}

	orders := make([]Order, 0, len(docs))
	for _, d := range docs {
		o, err := d.toOrder()
		if err != nil {
			return nil, fmt.Errorf("repository: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// cartFilter selects the cart entries of email with the given ids. Ids that
// are not valid ObjectIDs cannot name a cart entry and are skipped.
func cartFilter(email string, ids []string) bson.M {
	oids := make(bson.A, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	return bson.M{"email": email, "_id": bson.M{"$in": oids}}
}

func statusFilter(email string, delivered bool) bson.M {
	if delivered {
		return bson.M{"email": email, "status": string(StatusDelivered)}
	}
	return bson.M{"email": email, "status": bson.M{"$ne": string(StatusDelivered)}}
}
