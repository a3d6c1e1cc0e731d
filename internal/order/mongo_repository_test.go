package order

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCartFilter(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	got := cartFilter("jane@example.com", []string{a.Hex(), "not-an-id", b.Hex()})
	want := bson.M{"email": "jane@example.com", "_id": bson.M{"$in": bson.A{a, b}}}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("cartFilter() mismatch (-want +got):\n%s", diff)
	}
}

func TestStatusFilter(t *testing.T) {
	assert.Equal(t,
		bson.M{"email": "jane@example.com", "status": "Delivered"},
		statusFilter("jane@example.com", true))
	assert.Equal(t,
		bson.M{"email": "jane@example.com", "status": bson.M{"$ne": "Delivered"}},
		statusFilter("jane@example.com", false))
}

func TestOrderDocumentRoundTrip(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	in := &Order{
		OrderID: "100231",
		Email:   "jane@example.com",
		Total:   decimal.RequireFromString("25.50"),
		Status:  StatusCreated,
		OrderInfo: []LineItem{
			{ID: "A", ProductID: "p-1", Size: "M", Quantity: 2, Price: decimal.RequireFromString("10.00")},
		},
	}

	doc, err := newOrderDocument(in, now)
	require.NoError(t, err)
	doc.ID = primitive.NewObjectID()

	out, err := doc.toOrder()
	require.NoError(t, err)
	assert.Equal(t, doc.ID.Hex(), out.ID)
	assert.Equal(t, in.OrderID, out.OrderID)
	assert.True(t, in.Total.Equal(out.Total))
	require.Len(t, out.OrderInfo, 1)
	assert.True(t, in.OrderInfo[0].Price.Equal(out.OrderInfo[0].Price))
	assert.Equal(t, now, out.CreatedAt)
}
