package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"eshop_back_end/internal/models"
)

// MongoStores regroupe les implémentations MongoDB des stores du cœur
// commandes, construites une fois au démarrage et injectées explicitement.
type MongoStores struct {
	Products   ProductStore
	Items      OrderItemStore
	Orders     OrderStore
	Users      UserStore
	UnitOfWork UnitOfWork
}

func NewMongoStores(client *mongo.Client, db *mongo.Database) *MongoStores {
	return &MongoStores{
		Products:   &mongoProducts{coll: db.Collection("products")},
		Items:      &mongoOrderItems{coll: db.Collection("orderitems")},
		Orders:     &mongoOrders{coll: db.Collection("orders")},
		Users:      &mongoUsers{coll: db.Collection("users")},
		UnitOfWork: &mongoUnitOfWork{client: client},
	}
}

// --- Unit of work (session MongoDB) ---

type mongoUnitOfWork struct {
	client *mongo.Client
}

// WithTransaction ouvre une session Mongo et exécute fn dans une transaction
// multi-documents. Le contexte de session est propagé à travers le ctx passé
// à fn : toutes les opérations des stores y participent automatiquement.
func (u *mongoUnitOfWork) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := u.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// --- Products ---

type mongoProducts struct {
	coll *mongo.Collection
}

func (s *mongoProducts) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var p models.Product
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *mongoProducts) DecrementStock(ctx context.Context, id primitive.ObjectID, quantity int) (bool, error) {
	// Décrément conditionnel : ne matche que si le stock restant suffit,
	// le compteur ne peut donc jamais devenir négatif.
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id, "countInStock": bson.M{"$gte": quantity}},
		bson.M{"$inc": bson.M{"countInStock": -quantity}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// --- Order items ---

type mongoOrderItems struct {
	coll *mongo.Collection
}

func (s *mongoOrderItems) Insert(ctx context.Context, item models.OrderItem) (primitive.ObjectID, error) {
	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	if _, err := s.coll.InsertOne(ctx, item); err != nil {
		return primitive.NilObjectID, err
	}
	return item.ID, nil
}

func (s *mongoOrderItems) FindByID(ctx context.Context, id primitive.ObjectID) (*models.OrderItem, error) {
	var item models.OrderItem
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *mongoOrderItems) Delete(ctx context.Context, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return err
}

// --- Orders ---

type mongoOrders struct {
	coll *mongo.Collection
}

func (s *mongoOrders) Insert(ctx context.Context, order models.Order) error {
	_, err := s.coll.InsertOne(ctx, order)
	return err
}

func (s *mongoOrders) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var o models.Order
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *mongoOrders) Replace(ctx context.Context, order models.Order) error {
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": order.ID}, order)
	return err
}

func (s *mongoOrders) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (s *mongoOrders) Find(ctx context.Context, filter OrderFilter, page, limit int64) ([]models.Order, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "dateOrdered", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := s.coll.Find(ctx, filterToBSON(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *mongoOrders) Count(ctx context.Context, filter OrderFilter) (int64, error) {
	return s.coll.CountDocuments(ctx, filterToBSON(filter))
}

func (s *mongoOrders) SumTotalPrice(ctx context.Context) (float64, error) {
	cursor, err := s.coll.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":        nil,
			"totalSales": bson.M{"$sum": "$totalPrice"},
		}}},
	})
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		TotalSales float64 `bson:"totalSales"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	// Aucune commande : 0, jamais une erreur
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].TotalSales, nil
}

func filterToBSON(filter OrderFilter) bson.M {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.UserID != nil {
		query["user"] = *filter.UserID
	}
	return query
}

// --- Users ---

type mongoUsers struct {
	coll *mongo.Collection
}

func (s *mongoUsers) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
