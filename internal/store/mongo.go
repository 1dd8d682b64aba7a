package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements DocumentStore on a Mongo database. Collections are
// addressed by name; generated ids are ObjectID hex strings while fixed
// singleton ids ("1", "byteedocaboutText") are stored as plain string _ids.
type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

// idFilter matches either an ObjectID hex or a raw string _id.
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": oid}
	}
	return bson.M{"_id": id}
}

// splitTimestamps separates ServerTimestamp sentinels from plain fields so
// they can be written with $currentDate.
func splitTimestamps(fields Fields) (bson.M, []string) {
	set := bson.M{}
	var stamps []string
	for k, v := range fields {
		if _, ok := v.(serverTimestamp); ok {
			stamps = append(stamps, k)
			continue
		}
		set[k] = v
	}
	return set, stamps
}

func (m *MongoStore) Get(ctx context.Context, collection, id string) (Fields, error) {
	var raw bson.M
	err := m.db.Collection(collection).FindOne(ctx, idFilter(id)).Decode(&raw)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	delete(raw, "_id")
	return Fields(raw), nil
}

func (m *MongoStore) List(ctx context.Context, collection string) ([]Document, error) {
	cur, err := m.db.Collection(collection).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []Document{}
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, err
		}
		id := ""
		switch v := raw["_id"].(type) {
		case primitive.ObjectID:
			id = v.Hex()
		case string:
			id = v
		}
		delete(raw, "_id")
		out = append(out, Document{ID: id, Fields: Fields(raw)})
	}
	return out, cur.Err()
}

func (m *MongoStore) Create(ctx context.Context, collection string, fields Fields) (string, error) {
	doc, stamps := splitTimestamps(fields)
	now := primitive.NewDateTimeFromTime(nowUTC())
	for _, k := range stamps {
		doc[k] = now
	}
	res, err := m.db.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	if s, ok := res.InsertedID.(string); ok {
		return s, nil
	}
	return "", nil
}

func (m *MongoStore) Merge(ctx context.Context, collection, id string, fields Fields) error {
	set, stamps := splitTimestamps(fields)
	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(stamps) > 0 {
		cd := bson.M{}
		for _, k := range stamps {
			cd[k] = true
		}
		update["$currentDate"] = cd
	}
	if len(update) == 0 {
		return nil
	}
	opts := options.Update().SetUpsert(true)
	_, err := m.db.Collection(collection).UpdateOne(ctx, idFilter(id), update, opts)
	return err
}

func (m *MongoStore) Delete(ctx context.Context, collection, id string) error {
	res, err := m.db.Collection(collection).DeleteOne(ctx, idFilter(id))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
