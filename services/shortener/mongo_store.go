package shortener

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoRecord struct {
	ShortCode   string     `bson:"short_code"`
	LongUrl     string     `bson:"long_url"`
	Clicks      int64      `bson:"clicks"`
	CreatedAt   time.Time  `bson:"created_at"`
	LastClicked *time.Time `bson:"last_clicked"`
}

func (r mongoRecord) record() Record {
	out := Record{
		ShortCode: r.ShortCode,
		LongUrl:   r.LongUrl,
		Clicks:    r.Clicks,
		CreatedAt: r.CreatedAt.UTC(),
	}
	if r.LastClicked != nil {
		t := r.LastClicked.UTC()
		out.LastClicked = &t
	}
	return out
}

// DefaultMongoDatabase is where existing deployments keep their `urls`.
const DefaultMongoDatabase = "url_shortener"

// MongoStore keeps records in the `urls` collection of a mongo database,
// the document layout matches deployments that already hold data.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func NewMongoStore(ctx context.Context, uri, database string) (MongoStore, error) {
	if database == "" {
		database = DefaultMongoDatabase
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return MongoStore{}, err
	}
	err = client.Ping(ctx, nil)
	if err != nil {
		client.Disconnect(context.Background())
		return MongoStore{}, err
	}

	collection := client.Database(database).Collection("urls")
	_, err = collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "short_code", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		client.Disconnect(context.Background())
		return MongoStore{}, err
	}

	return MongoStore{client: client, collection: collection}, nil
}

func (s MongoStore) Create(ctx context.Context, record Record) (Record, bool, error) {
	res, err := s.collection.UpdateOne(
		ctx,
		bson.M{"short_code": record.ShortCode},
		bson.M{"$setOnInsert": mongoRecord{
			ShortCode: record.ShortCode,
			LongUrl:   record.LongUrl,
			Clicks:    0,
			CreatedAt: record.CreatedAt.UTC(),
		}},
		options.Update().SetUpsert(true),
	)
	if mongo.IsDuplicateKeyError(err) {
		existing, err := s.Get(ctx, record.ShortCode)
		return existing, false, err
	}
	if err != nil {
		return Record{}, false, err
	}
	existing, err := s.Get(ctx, record.ShortCode)
	if err != nil {
		return Record{}, false, err
	}
	return existing, res.UpsertedCount > 0, nil
}

func (s MongoStore) Get(ctx context.Context, code string) (Record, error) {
	var doc mongoRecord
	err := s.collection.FindOne(ctx, bson.M{"short_code": code}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	return doc.record(), nil
}

func (s MongoStore) RecordClick(ctx context.Context, code string, now time.Time) (Record, error) {
	var doc mongoRecord
	err := s.collection.FindOneAndUpdate(
		ctx,
		bson.M{"short_code": code},
		bson.M{
			"$inc": bson.M{"clicks": 1},
			"$set": bson.M{"last_clicked": now.UTC()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	return doc.record(), nil
}

func (s MongoStore) Delete(ctx context.Context, code string) error {
	res, err := s.collection.DeleteOne(ctx, bson.M{"short_code": code})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s MongoStore) List(ctx context.Context, limit int) ([]Record, error) {
	cursor, err := s.collection.Find(
		ctx,
		bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []mongoRecord
	err = cursor.All(ctx, &docs)
	if err != nil {
		return nil, err
	}
	out := make([]Record, len(docs))
	for i, d := range docs {
		out[i] = d.record()
	}
	return out, nil
}

func (s MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	return s.client.Disconnect(ctx)
}
