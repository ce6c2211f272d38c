package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dgallion1/documind/internal/document"
)

// Fixed datastore layout. The vector index must exist in Atlas before the
// service starts; nothing here creates it.
const (
	DatabaseName    = "rag_db"
	CollectionName  = "embeddings"
	VectorIndexName = "vector_index"
	VectorPath      = "embedding"
)

// $vectorSearch examines numCandidates = k * candidateMultiplier entries
// before returning the top k.
const candidateMultiplier = 10

// Metadata is the per-chunk provenance stored alongside each embedding.
// Page is omitted for unpaged sources and reads back as 0.
type Metadata struct {
	Source string `bson:"source"`
	Page   int    `bson:"page,omitempty"`
}

// Record is one persisted embedding document, one-to-one with a chunk.
type Record struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	ChunkID   string             `bson:"chunk_id"`
	Text      string             `bson:"text"`
	Embedding []float32          `bson:"embedding"`
	Metadata  Metadata           `bson:"metadata"`
}

// Store owns the MongoDB client and the embeddings collection handle.
// One Store is opened at startup, shared across requests, and closed at
// shutdown.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// Connect opens and pings the deployment behind uri, then resolves the
// fixed database and collection.
func Connect(ctx context.Context, uri string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return &Store{
		client: client,
		coll:   client.Database(DatabaseName).Collection(CollectionName),
	}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// AddDocuments inserts records in order and returns how many were
// persisted. A failure partway leaves the earlier records stored; the
// returned count reflects that.
func (s *Store) AddDocuments(ctx context.Context, records []Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	docs := make([]interface{}, 0, len(records))
	for _, r := range records {
		docs = append(docs, r)
	}

	res, err := s.coll.InsertMany(ctx, docs)
	if err != nil {
		inserted := 0
		if res != nil {
			inserted = len(res.InsertedIDs)
		}
		return inserted, fmt.Errorf("insert embeddings: %w", err)
	}
	return len(res.InsertedIDs), nil
}

// SimilaritySearch runs one $vectorSearch over the named index and
// returns the k nearest chunks in rank order.
func (s *Store) SimilaritySearch(ctx context.Context, vector []float32, k int) ([]document.Match, error) {
	if k <= 0 {
		return nil, nil
	}

	cursor, err := s.coll.Aggregate(ctx, vectorSearchPipeline(vector, k))
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	var hits []searchHit
	if err := cursor.All(ctx, &hits); err != nil {
		return nil, fmt.Errorf("decode search results: %w", err)
	}

	matches := make([]document.Match, 0, len(hits))
	for _, h := range hits {
		matches = append(matches, document.Match{
			Text:   h.Text,
			Source: h.Metadata.Source,
			Page:   h.Metadata.Page,
			Score:  h.Score,
		})
	}
	return matches, nil
}

// Count reports how many embedding documents the collection holds.
func (s *Store) Count(ctx context.Context) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}

// Collections lists the collection names in the fixed database.
func (s *Store) Collections(ctx context.Context) ([]string, error) {
	names, err := s.client.Database(DatabaseName).ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return names, nil
}

type searchHit struct {
	Text     string   `bson:"text"`
	Metadata Metadata `bson:"metadata"`
	Score    float64  `bson:"score"`
}

func vectorSearchPipeline(vector []float32, k int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$vectorSearch", Value: bson.D{
			{Key: "index", Value: VectorIndexName},
			{Key: "path", Value: VectorPath},
			{Key: "queryVector", Value: vector},
			{Key: "numCandidates", Value: k * candidateMultiplier},
			{Key: "limit", Value: k},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "text", Value: 1},
			{Key: "metadata", Value: 1},
			{Key: "score", Value: bson.D{{Key: "$meta", Value: "vectorSearchScore"}}},
		}}},
	}
}
