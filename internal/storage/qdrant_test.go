//go:build integration

package storage

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDimension = 4

// setupTestIndex creates a test index against a local Qdrant.
// Skips the test if Qdrant is not running.
func setupTestIndex(t *testing.T) *QdrantIndex {
	index, err := NewQdrantIndex("localhost", 6334, "research_assistant_test", testDimension)
	if err != nil {
		t.Skipf("Qdrant not available: %v", err)
	}
	t.Cleanup(func() {
		_ = index.Drop(context.Background())
		index.Close()
	})

	require.NoError(t, index.Drop(context.Background()))
	return index
}

func testChunk(content string, embedding []float32) *Chunk {
	return &Chunk{
		ID:         uuid.New().String(),
		Source:     "docs/paper.pdf",
		Page:       1,
		ChunkIndex: 0,
		Content:    content,
		Embedding:  embedding,
	}
}

func TestQdrantIndex_RebuildAndQuery(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()

	require.NoError(t, index.Create(ctx))
	chunks := []*Chunk{
		testChunk("alpha", []float32{1, 0, 0, 0}),
		testChunk("beta", []float32{0, 1, 0, 0}),
		testChunk("gamma", []float32{0, 0, 1, 0}),
	}
	require.NoError(t, index.AddChunks(ctx, chunks))

	count, err := index.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)

	// Nearest neighbor of the first basis vector is "alpha".
	results, err := index.Query(ctx, []float32{1, 0, 0, 0}, 2)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "alpha", results[0].Chunk.Content)
	assert.Greater(t, results[0].Score, results[len(results)-1].Score-1e-6)

	// Rebuilding replaces, never appends.
	require.NoError(t, index.Drop(ctx))
	require.NoError(t, index.Create(ctx))
	require.NoError(t, index.AddChunks(ctx, chunks))
	count, err = index.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)
}

func TestQdrantIndex_QueryMissingCollection(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()

	_, err := index.Query(ctx, []float32{1, 0, 0, 0}, 5)
	assert.ErrorIs(t, err, ErrIndexMissing)
}

func TestQdrantIndex_QueryEmptyCollection(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()

	require.NoError(t, index.Create(ctx))
	_, err := index.Query(ctx, []float32{1, 0, 0, 0}, 5)
	assert.ErrorIs(t, err, ErrIndexEmpty)
}

func TestQdrantIndex_DropAbsentIsNoop(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()

	require.NoError(t, index.Drop(ctx))
	require.NoError(t, index.Drop(ctx))

	count, err := index.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestQdrantIndex_DimensionMismatch(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()

	require.NoError(t, index.Create(ctx))
	bad := testChunk("bad", []float32{1, 0})
	err := index.AddChunks(ctx, []*Chunk{bad})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}
