package storage

// Chunk is the unit of indexing and retrieval: a bounded slice of document
// text with provenance and an embedding vector.
type Chunk struct {
	ID         string    // UUID, assigned at index time
	Source     string    // Originating file path
	Page       int       // 1-based page number within the source file
	ChunkIndex int       // Position within the page (0, 1, 2...)
	Content    string    // Chunk text
	Embedding  []float32 // Vector of the configured dimension
}

// ScoredChunk pairs a retrieved chunk with its similarity score.
type ScoredChunk struct {
	Chunk *Chunk
	Score float64 // Cosine similarity, higher is closer
}

// DefaultVectorDimension matches OpenAI text-embedding-3-small. Ollama's
// nomic-embed-text uses 768; the dimension is configured per index.
const DefaultVectorDimension = 1536
