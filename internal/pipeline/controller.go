// Package pipeline orchestrates the ingestion and query sequences over the
// loader, splitter, embedder, vector index, synthesizer, and history store.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bull/research-assistant/internal/config"
	"github.com/bull/research-assistant/internal/history"
	"github.com/bull/research-assistant/internal/llm"
	"github.com/bull/research-assistant/internal/pdf"
	"github.com/bull/research-assistant/internal/storage"
)

// State is the controller's lifecycle position. Transitions:
// Idle -> Ingesting -> Ready -> Querying -> Ready; a failed ingest returns
// to Idle, a failed query returns to Ready.
type State int

const (
	StateIdle State = iota
	StateIngesting
	StateReady
	StateQuerying
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateIngesting:
		return "ingesting"
	case StateReady:
		return "ready"
	case StateQuerying:
		return "querying"
	default:
		return "unknown"
	}
}

// Loader produces page records from document files.
type Loader interface {
	LoadFiles(paths []string) ([]pdf.PageRecord, error)
}

// Splitter divides page text into chunk-sized pieces.
type Splitter interface {
	Split(text string) []string
}

// Embedder turns texts into vectors, one per input, in input order.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorIndex is the persistent nearest-neighbor store. Drop on an absent
// index is a no-op; Query on an absent or empty index is an error.
type VectorIndex interface {
	Drop(ctx context.Context) error
	Create(ctx context.Context) error
	AddChunks(ctx context.Context, chunks []*storage.Chunk) error
	Query(ctx context.Context, embedding []float32, k int) ([]*storage.ScoredChunk, error)
	Count(ctx context.Context) (uint64, error)
}

// HistoryStore persists the conversation log. All methods fail soft.
type HistoryStore interface {
	Clear()
	Load() []history.Turn
	Append(turn history.Turn)
}

// IngestResult contains statistics about one ingestion run.
type IngestResult struct {
	Files    int
	Pages    int
	Chunks   int
	Duration time.Duration
}

// QueryResult is one answered question with its supporting chunks.
type QueryResult struct {
	Answer  string
	Model   string
	Sources []*storage.ScoredChunk
}

// Status is a snapshot of the controller and its persisted state.
type Status struct {
	State        string
	IndexedCount uint64
	HistoryTurns int
}

// Controller serializes all pipeline runs: each ingest or query runs to
// completion before the next is accepted. The index and the history file
// have no locking of their own; this mutex is the sole serialization point.
type Controller struct {
	cfg      config.Config
	loader   Loader
	splitter Splitter
	embedder Embedder
	index    VectorIndex
	synth    llm.Synthesizer
	history  HistoryStore
	logger   *slog.Logger

	mu    sync.Mutex
	state State
}

// NewController wires the pipeline components. The controller starts Idle;
// call Resume to adopt an index persisted by an earlier process.
func NewController(
	cfg config.Config,
	loader Loader,
	splitter Splitter,
	embedder Embedder,
	index VectorIndex,
	synth llm.Synthesizer,
	historyStore HistoryStore,
	logger *slog.Logger,
) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		cfg:      cfg,
		loader:   loader,
		splitter: splitter,
		embedder: embedder,
		index:    index,
		synth:    synth,
		history:  historyStore,
		logger:   logger,
		state:    StateIdle,
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Resume transitions Idle -> Ready when a non-empty index already exists,
// so queries work across process restarts without re-ingesting.
func (c *Controller) Resume(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateIdle {
		return nil
	}
	count, err := c.index.Count(ctx)
	if err != nil {
		return fmt.Errorf("probe index: %w", err)
	}
	if count > 0 {
		c.state = StateReady
		c.logger.Info("Resumed existing index", "chunks", count)
	}
	return nil
}

// Ingest rebuilds the index from the given files: clear history, drop the
// index, load pages, split into chunks, embed, store. An empty file list is
// a no-op and leaves the state untouched. Any step failure aborts the run
// and returns the controller to Idle; partial index writes are not rolled
// back, but the next ingest drops the collection first.
func (c *Controller) Ingest(ctx context.Context, paths []string) (*IngestResult, error) {
	if len(paths) == 0 {
		return &IngestResult{}, nil
	}

	c.mu.Lock()
	if c.state == StateIngesting || c.state == StateQuerying {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrBusy, c.state)
	}
	c.state = StateIngesting
	c.mu.Unlock()

	result, err := c.ingest(ctx, paths)

	c.mu.Lock()
	if err != nil {
		c.state = StateIdle
	} else {
		c.state = StateReady
	}
	c.mu.Unlock()

	return result, err
}

func (c *Controller) ingest(ctx context.Context, paths []string) (*IngestResult, error) {
	start := time.Now()
	c.logger.Info("Starting ingestion", "files", len(paths))

	// A new document set starts a fresh conversation.
	c.history.Clear()

	if err := c.index.Drop(ctx); err != nil {
		return nil, fmt.Errorf("%w: clear index: %v", ErrIndex, err)
	}

	pages, err := c.loader.LoadFiles(paths)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	c.logger.Info("Loaded pages", "count", len(pages))

	chunks := c.splitPages(pages)
	c.logger.Info("Split into chunks", "count", len(chunks))

	if len(chunks) == 0 {
		// Nothing to index: the collection stays absent.
		return &IngestResult{
			Files:    len(paths),
			Pages:    len(pages),
			Duration: time.Since(start),
		}, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	embedCtx, cancel := c.withTimeout(ctx, c.cfg.EmbedTimeout)
	embeddings, err := c.embedder.EmbedTexts(embedCtx, texts)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("%w: embeddings: %v", ErrIndex, err)
	}
	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
	}

	if err := c.index.Create(ctx); err != nil {
		return nil, fmt.Errorf("%w: create index: %v", ErrIndex, err)
	}
	if err := c.index.AddChunks(ctx, chunks); err != nil {
		return nil, fmt.Errorf("%w: store chunks: %v", ErrIndex, err)
	}

	result := &IngestResult{
		Files:    len(paths),
		Pages:    len(pages),
		Chunks:   len(chunks),
		Duration: time.Since(start),
	}
	c.logger.Info("Ingestion complete",
		"files", result.Files,
		"pages", result.Pages,
		"chunks", result.Chunks,
		"duration", result.Duration,
	)
	return result, nil
}

// splitPages chunks each page independently, so no chunk ever crosses a
// page or document boundary.
func (c *Controller) splitPages(pages []pdf.PageRecord) []*storage.Chunk {
	var chunks []*storage.Chunk
	for _, page := range pages {
		pieces := c.splitter.Split(page.Text)
		for i, piece := range pieces {
			chunks = append(chunks, &storage.Chunk{
				ID:         uuid.New().String(),
				Source:     page.Path,
				Page:       page.Page,
				ChunkIndex: i,
				Content:    piece,
			})
		}
	}
	return chunks
}

// Query answers one question: load history, retrieve context, synthesize,
// append the turn. Failure leaves the index and history untouched and the
// controller returns to Ready, so further queries remain possible.
func (c *Controller) Query(ctx context.Context, query string) (*QueryResult, error) {
	c.mu.Lock()
	switch c.state {
	case StateIngesting, StateQuerying:
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrBusy, c.state)
	case StateIdle:
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: no documents ingested", ErrRetrieval)
	}
	c.state = StateQuerying
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.state = StateReady
		c.mu.Unlock()
	}()

	turns := c.history.Load()

	embedCtx, cancel := c.withTimeout(ctx, c.cfg.EmbedTimeout)
	embeddings, err := c.embedder.EmbedTexts(embedCtx, []string{query})
	cancel()
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", ErrRetrieval, err)
	}

	k := c.cfg.TopK
	if k <= 0 {
		k = 5
	}
	scored, err := c.index.Query(ctx, embeddings[0], k)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRetrieval, err)
	}
	c.logger.Debug("Retrieved context", "chunks", len(scored))

	synthCtx, cancel := c.withTimeout(ctx, c.cfg.SynthesisTimeout)
	result, err := c.synth.Synthesize(synthCtx, query, buildContext(scored), llm.FormatHistory(turns))
	cancel()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSynthesis, err)
	}

	c.history.Append(history.Turn{User: query, Assistant: result.Answer})

	return &QueryResult{
		Answer:  result.Answer,
		Model:   result.Model,
		Sources: scored,
	}, nil
}

// Status reports the controller state alongside index and history sizes.
func (c *Controller) Status(ctx context.Context) (*Status, error) {
	count, err := c.index.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count index: %w", err)
	}
	return &Status{
		State:        c.State().String(),
		IndexedCount: count,
		HistoryTurns: len(c.history.Load()),
	}, nil
}

// buildContext concatenates retrieved chunks into the prompt context block,
// best match first, each annotated with its source location.
func buildContext(scored []*storage.ScoredChunk) string {
	var b strings.Builder
	for i, sc := range scored {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%s p.%d] %s", sc.Chunk.Source, sc.Chunk.Page, sc.Chunk.Content)
	}
	return b.String()
}

func (c *Controller) withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
