package vectorstore

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/qdrant/go-client/qdrant"

	"notebase/internal/contextutil"
)

// QdrantStore implements VectorStore using Qdrant.
type QdrantStore struct {
	client *qdrant.Client
}

// NewQdrantStore creates a new Qdrant vector store client. urlStr should be
// in the format "http://host:port" (e.g. "http://localhost:6333"); the gRPC
// port is derived from the HTTP port.
func NewQdrantStore(urlStr string) (*QdrantStore, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsedURL.Hostname()
	if host == "" {
		host = "localhost"
	}

	port := 6334
	if parsedURL.Port() != "" {
		if httpPort, err := strconv.Atoi(parsedURL.Port()); err == nil {
			// gRPC port is typically HTTP port + 1.
			port = httpPort + 1
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}

	return &QdrantStore{client: client}, nil
}

// Upsert inserts or updates one point in the collection.
func (s *QdrantStore) Upsert(ctx context.Context, collection string, point Point) error {
	logger := contextutil.LoggerFromContext(ctx)

	qdrantPoint := &qdrant.PointStruct{
		Id:      qdrant.NewID(point.ID),
		Vectors: qdrant.NewVectors(point.Vec...),
		Payload: qdrant.NewValueMap(map[string]any{"item_id": point.ItemID}),
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Points:         []*qdrant.PointStruct{qdrantPoint},
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to upsert point", "collection", collection, "item_id", point.ItemID, "error", err)
		return fmt.Errorf("failed to upsert point: %w", err)
	}
	return nil
}

// Search returns the k nearest points by cosine similarity, optionally
// restricted to the given item ids.
func (s *QdrantStore) Search(ctx context.Context, collection string, query []float32, k int, itemIDs []int64) ([]Hit, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0")
	}

	limit := uint64(k)
	queryReq := &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(query...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	}
	if len(itemIDs) > 0 {
		queryReq.Filter = &qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatchInts("item_id", itemIDs...)},
		}
	}

	scoredPoints, err := s.client.Query(ctx, queryReq)
	if err != nil {
		logger.ErrorContext(ctx, "failed to search points", "collection", collection, "k", k, "error", err)
		return nil, fmt.Errorf("failed to search points: %w", err)
	}

	results := make([]Hit, 0, len(scoredPoints))
	for _, point := range scoredPoints {
		itemID, ok := payloadItemID(point.Payload)
		if !ok {
			logger.WarnContext(ctx, "point missing item_id payload, skipping", "collection", collection)
			continue
		}
		results = append(results, Hit{ItemID: itemID, Similarity: point.Score})
	}

	return results, nil
}

// Delete removes points by their ids.
func (s *QdrantStore) Delete(ctx context.Context, collection string, ids []string) error {
	logger := contextutil.LoggerFromContext(ctx)

	if len(ids) == 0 {
		return nil
	}

	qdrantIDs := make([]*qdrant.PointId, 0, len(ids))
	for _, id := range ids {
		qdrantIDs = append(qdrantIDs, qdrant.NewID(id))
	}

	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collection,
		Points:         qdrant.NewPointsSelector(qdrantIDs...),
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to delete points", "collection", collection, "count", len(ids), "error", err)
		return fmt.Errorf("failed to delete points: %w", err)
	}
	return nil
}

// EnsureCollection ensures a cosine collection exists with the specified
// vector size. An existing collection with a different width is a
// configuration error and fails startup.
func (s *QdrantStore) EnsureCollection(ctx context.Context, collection string, vectorSize int) error {
	logger := contextutil.LoggerFromContext(ctx)

	exists, err := s.client.CollectionExists(ctx, collection)
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}

	if !exists {
		err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: collection,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     uint64(vectorSize),
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}
		logger.InfoContext(ctx, "collection created", "collection", collection, "vector_size", vectorSize)
		return nil
	}

	info, err := s.client.GetCollectionInfo(ctx, collection)
	if err != nil {
		return fmt.Errorf("failed to get collection info: %w", err)
	}

	config := info.Config
	if config == nil || config.Params == nil {
		return fmt.Errorf("collection config is invalid")
	}
	vectorsConfig := config.Params.GetVectorsConfig()
	if vectorsConfig == nil {
		return fmt.Errorf("collection vectors config is invalid")
	}
	params := vectorsConfig.GetParams()
	if params == nil {
		return fmt.Errorf("collection vector params are invalid")
	}

	if int(params.Size) != vectorSize {
		return fmt.Errorf("collection vector size mismatch: expected %d, got %d", vectorSize, params.Size)
	}
	return nil
}

// Health probes the Qdrant instance.
func (s *QdrantStore) Health(ctx context.Context) error {
	if _, err := s.client.HealthCheck(ctx); err != nil {
		return fmt.Errorf("qdrant health check: %w", err)
	}
	return nil
}

func payloadItemID(payload map[string]*qdrant.Value) (int64, bool) {
	if payload == nil {
		return 0, false
	}
	v, ok := payload["item_id"]
	if !ok || v == nil {
		return 0, false
	}
	if iv, ok := v.Kind.(*qdrant.Value_IntegerValue); ok {
		return iv.IntegerValue, true
	}
	return 0, false
}
