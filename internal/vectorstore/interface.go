package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks notebase/internal/vectorstore VectorStore

import "context"

// Point is one stored embedding. ID is the point's own identifier; ItemID
// links it back to the content item row.
type Point struct {
	ID     string
	ItemID int64
	Vec    []float32
}

// Hit is a nearest-neighbor result. Similarity is cosine similarity: higher
// is more similar, equivalently 1 minus the normalized cosine distance.
type Hit struct {
	ItemID     int64
	Similarity float32
}

// VectorStore defines the vector index operations used by ingestion and
// retrieval.
type VectorStore interface {
	// Upsert inserts or updates one point in the collection.
	Upsert(ctx context.Context, collection string, point Point) error

	// Search returns up to k hits ordered by descending similarity. When
	// itemIDs is non-empty, results are restricted to those items.
	Search(ctx context.Context, collection string, query []float32, k int, itemIDs []int64) ([]Hit, error)

	// Delete removes points by their ids.
	Delete(ctx context.Context, collection string, ids []string) error
}
