package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"agrimarket-delivery/internal/apperr"
	"agrimarket-delivery/internal/domain"
	"agrimarket-delivery/internal/ports/deliverytx"
)

const (
	deliveriesCollection = "deliveries"
	ordersCollection     = "orders"
)

// Connect creates and pings a MongoDB client.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// Store is the MongoDB-backed delivery and order storage.
// Transactions require a replica set.
type Store struct {
	client     *mongo.Client
	deliveries *mongo.Collection
	orders     *mongo.Collection
	now        func() time.Time
}

// NewStore creates a new Store on database dbName.
func NewStore(client *mongo.Client, dbName string) *Store {
	db := client.Database(dbName)
	return &Store{
		client:     client,
		deliveries: db.Collection(deliveriesCollection),
		orders:     db.Collection(ordersCollection),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// EnsureIndexes creates the unique indexes deliveries rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.deliveries.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "order_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "tracking_number", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create delivery indexes: %w", err)
	}
	return nil
}

func findDelivery(ctx context.Context, c *mongo.Collection, filter bson.M) (*domain.Delivery, error) {
	var doc deliveryDoc
	err := c.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func findOrder(ctx context.Context, c *mongo.Collection, id string) (*domain.Order, error) {
	var doc orderDoc
	err := c.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

// GetDeliveryByID - returns delivery by its ID, nil when absent.
func (s *Store) GetDeliveryByID(ctx context.Context, id string) (*domain.Delivery, error) {
	d, err := findDelivery(ctx, s.deliveries, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("get delivery %q: %w", id, err)
	}
	return d, nil
}

// GetDeliveryByOrderID - returns the delivery of an order, nil when absent.
func (s *Store) GetDeliveryByOrderID(ctx context.Context, orderID string) (*domain.Delivery, error) {
	d, err := findDelivery(ctx, s.deliveries, bson.M{"order_id": orderID})
	if err != nil {
		return nil, fmt.Errorf("get delivery by order %q: %w", orderID, err)
	}
	return d, nil
}

// GetOrder - returns order by its ID, nil when absent.
func (s *Store) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	o, err := findOrder(ctx, s.orders, id)
	if err != nil {
		return nil, fmt.Errorf("get order %q: %w", id, err)
	}
	return o, nil
}

// WithTx runs fn inside a multi-document transaction.
func (s *Store) WithTx(ctx context.Context, fn func(tx deliverytx.Repository) error) error {
	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(&txRepo{s: s, sc: sc})
	})
	return err
}

// txRepo runs storage operations on the session of an open transaction.
// The session context replaces the ctx passed to each method.
type txRepo struct {
	s  *Store
	sc mongo.SessionContext
}

func (r *txRepo) GetDeliveryForUpdate(_ context.Context, id string) (*domain.Delivery, error) {
	d, err := findDelivery(r.sc, r.s.deliveries, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("get delivery %q for update: %w", id, err)
	}
	return d, nil
}

func (r *txRepo) GetDeliveryByOrderID(_ context.Context, orderID string) (*domain.Delivery, error) {
	d, err := findDelivery(r.sc, r.s.deliveries, bson.M{"order_id": orderID})
	if err != nil {
		return nil, fmt.Errorf("get delivery by order %q: %w", orderID, err)
	}
	return d, nil
}

func (r *txRepo) InsertDelivery(_ context.Context, d *domain.Delivery) error {
	if _, err := r.s.deliveries.InsertOne(r.sc, toDeliveryDoc(d)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("insert delivery for order %q: %w", d.OrderID, apperr.ErrConflict)
		}
		return fmt.Errorf("insert delivery: %w", err)
	}
	return nil
}

func (r *txRepo) ApplyAssignment(_ context.Context, id string, a domain.DriverAssignment) error {
	res, err := r.s.deliveries.UpdateOne(r.sc, bson.M{"_id": id}, assignmentUpdate(a, r.s.now()))
	if err != nil {
		return fmt.Errorf("assign driver to delivery %q: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("delivery %q: %w", id, apperr.ErrNotFound)
	}
	return nil
}

func (r *txRepo) ApplyStatusUpdate(_ context.Context, id string, u domain.StatusUpdate) error {
	filter := bson.M{"_id": id, "status": string(u.From)}
	res, err := r.s.deliveries.UpdateOne(r.sc, filter, statusUpdate(u, r.s.now()))
	if err != nil {
		return fmt.Errorf("update delivery %q status: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return &apperr.TransitionError{From: string(u.From), To: string(u.To)}
	}
	return nil
}

func (r *txRepo) GetOrderForUpdate(_ context.Context, id string) (*domain.Order, error) {
	o, err := findOrder(r.sc, r.s.orders, id)
	if err != nil {
		return nil, fmt.Errorf("get order %q for update: %w", id, err)
	}
	return o, nil
}

func (r *txRepo) UpsertOrder(_ context.Context, o *domain.Order) error {
	opts := options.Update().SetUpsert(true)
	if _, err := r.s.orders.UpdateOne(r.sc, bson.M{"_id": o.ID}, orderUpsert(o, r.s.now()), opts); err != nil {
		return fmt.Errorf("upsert order %q: %w", o.ID, err)
	}
	stored, err := findOrder(r.sc, r.s.orders, o.ID)
	if err != nil {
		return fmt.Errorf("reload order %q: %w", o.ID, err)
	}
	if stored != nil {
		o.Status = stored.Status
		o.DeliveryID = stored.DeliveryID
		o.CreatedAt = stored.CreatedAt
		o.UpdatedAt = stored.UpdatedAt
	}
	return nil
}

func (r *txRepo) UpdateOrderStatus(_ context.Context, id string, status domain.OrderStatus) error {
	return r.updateOrder(id, bson.M{"status": string(status)})
}

func (r *txRepo) SetOrderDelivery(_ context.Context, orderID, deliveryID string) error {
	return r.updateOrder(orderID, bson.M{"delivery_id": deliveryID})
}

func (r *txRepo) updateOrder(id string, set bson.M) error {
	set["updated_at"] = r.s.now()
	res, err := r.s.orders.UpdateOne(r.sc, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update order %q: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("order %q: %w", id, apperr.ErrNotFound)
	}
	return nil
}

var _ deliverytx.Repository = (*txRepo)(nil)
