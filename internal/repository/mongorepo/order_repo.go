package mongorepo

import (
	"context"
	"errors"
	"eshop/internal/domain"
	"eshop/internal/repository"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type orderRepo struct {
	coll *mongo.Collection
}

func NewOrderRepository(coll *mongo.Collection) repository.OrderRepository {
	return &orderRepo{coll: coll}
}

var newestFirst = bson.D{{Key: "orderDate", Value: -1}}

// Create inserts the order and assigns the generated id to order.ID.
func (r *orderRepo) Create(ctx context.Context, order *domain.Order) error {
	doc, err := newOrderDocument(order)
	if err != nil {
		return domain.NewInternal(err)
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.NewOrderNumberCollision(order.OrderNumber, err)
		}
		log.Printf("mongo insert order %s: %v", order.OrderNumber, err)
		return translateError("create order", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return domain.NewInternal(errors.New("inserted order id is not an ObjectID"))
	}
	order.ID = oid.Hex()
	log.Printf("Order saved successfully with ID: %s", order.ID)
	return nil
}

// FindByID treats an id that is not a valid ObjectID hex string as absent.
func (r *orderRepo) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var doc orderDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		log.Printf("mongo find order %s: %v", id, err)
		return nil, translateError("get order", err)
	}
	return r.decode(&doc)
}

func (r *orderRepo) FindAll(ctx context.Context) ([]domain.Order, error) {
	return r.find(ctx, "list orders", bson.M{})
}

func (r *orderRepo) FindByUserID(ctx context.Context, userID string) ([]domain.Order, error) {
	return r.find(ctx, "list orders by user", bson.M{"userId": userID})
}

// UpdateStatus only touches the status field. Concurrent updates are not
// compared against the previous value, so the last write wins.
func (r *orderRepo) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"status": status.String()}})
	if err != nil {
		log.Printf("mongo update order %s status: %v", id, err)
		return false, translateError("update order status", err)
	}
	return res.MatchedCount > 0, nil
}

func (r *orderRepo) find(ctx context.Context, op string, filter bson.M) ([]domain.Order, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(newestFirst))
	if err != nil {
		log.Printf("mongo %s: %v", op, err)
		return nil, translateError(op, err)
	}
	defer cur.Close(ctx)

	var docs []orderDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, translateError(op, err)
	}

	out := make([]domain.Order, 0, len(docs))
	for i := range docs {
		o, err := r.decode(&docs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, nil
}

func (r *orderRepo) decode(doc *orderDocument) (*domain.Order, error) {
	o, err := doc.toDomain()
	if err != nil {
		return nil, domain.NewInternal(err)
	}
	return o, nil
}
