package admins

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository defines persistence operations for admin accounts
type Repository interface {
	GetByUsername(ctx context.Context, username string) (*Admin, error)
	GetBySub(ctx context.Context, sub string) (*Admin, error)
	UpsertBySub(ctx context.Context, a *Admin) (*Admin, error)
	Insert(ctx context.Context, a *Admin) (*Admin, error)
	Count(ctx context.Context) (int64, error)
}

// MongoRepository implements Repository using MongoDB
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) GetByUsername(ctx context.Context, username string) (*Admin, error) {
	var a Admin
	if err := r.col.FindOne(ctx, bson.M{"username": username}).Decode(&a); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *MongoRepository) GetBySub(ctx context.Context, sub string) (*Admin, error) {
	var a Admin
	if err := r.col.FindOne(ctx, bson.M{"sub": sub}).Decode(&a); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *MongoRepository) UpsertBySub(ctx context.Context, a *Admin) (*Admin, error) {
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	filter := bson.M{"sub": a.Sub}
	repl := bson.M{"$set": bson.M{
		"username":  a.Username,
		"email":     a.Email,
		"name":      a.Name,
		"updatedAt": a.UpdatedAt,
		"createdAt": a.CreatedAt,
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var updated Admin
	if err := r.col.FindOneAndUpdate(ctx, filter, repl, opts).Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return a, nil
		}
		return nil, err
	}
	return &updated, nil
}

func (r *MongoRepository) Insert(ctx context.Context, a *Admin) (*Admin, error) {
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	res, err := r.col.InsertOne(ctx, a)
	if err != nil {
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		a.ID = oid.Hex()
	}
	return a, nil
}

func (r *MongoRepository) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}
