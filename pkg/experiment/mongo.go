package experiment

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// mongoTimeout bounds connecting and each write.
const mongoTimeout = 10 * time.Second

// MongoSink inserts rows into a MongoDB collection, one document per row.
type MongoSink struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// OpenMongo connects to out.URI and verifies the connection.
func OpenMongo(ctx context.Context, out MongoOutput) (*MongoSink, error) {
	cctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	client, err := mongo.Connect(cctx, options.Client().ApplyURI(out.URI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(cctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	coll := client.Database(out.Database).Collection(out.Collection)
	_, err = coll.Indexes().CreateOne(cctx, mongo.IndexModel{
		Keys: bson.D{{Key: "run_id", Value: 1}, {Key: "strategy", Value: 1}, {Key: "heuristic", Value: 1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return &MongoSink{client: client, coll: coll}, nil
}

// Write inserts rows with a single unordered InsertMany.
func (s *MongoSink) Write(ctx context.Context, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}
	docs := make([]any, len(rows))
	for i, r := range rows {
		docs[i] = r
	}
	wctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()
	_, err := s.coll.InsertMany(wctx, docs, options.InsertMany().SetOrdered(false))
	return err
}

// Rows reads the rows of one run back.
func (s *MongoSink) Rows(ctx context.Context, runID string) ([]Row, error) {
	opts := options.Find().SetSort(bson.D{{Key: "strategy", Value: 1}, {Key: "heuristic", Value: 1}, {Key: "instance", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.M{"run_id": runID}, opts)
	if err != nil {
		return nil, err
	}
	var rows []Row
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Close disconnects the client.
func (s *MongoSink) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}
