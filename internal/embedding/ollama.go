package embedding

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/ollama/ollama/envconfig"
)

const (
	// OllamaModel is the local embedding model.
	OllamaModel = "nomic-embed-text"

	// OllamaDimension is the vector dimension for nomic-embed-text.
	OllamaDimension = 768
)

// OllamaEmbedder generates embeddings through a local Ollama server.
// Requests run with bounded concurrency; the output order always matches
// the input order.
type OllamaEmbedder struct {
	client        *api.Client
	model         string
	timeout       time.Duration
	maxConcurrent int
}

// NewOllamaEmbedder creates an embedder against the given Ollama host.
// An empty host falls back to the OLLAMA_HOST environment default.
func NewOllamaEmbedder(host, model string, timeout time.Duration) (*OllamaEmbedder, error) {
	hostURL := envconfig.Host()
	if host != "" {
		parsed, err := url.Parse(host)
		if err != nil {
			return nil, fmt.Errorf("invalid ollama host %q: %w", host, err)
		}
		hostURL = parsed
	}
	if model == "" {
		model = OllamaModel
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &OllamaEmbedder{
		client:        api.NewClient(hostURL, http.DefaultClient),
		model:         model,
		timeout:       timeout,
		maxConcurrent: 3,
	}, nil
}

// Dimension returns the nomic-embed-text vector length.
func (e *OllamaEmbedder) Dimension() int {
	return OllamaDimension
}

// EmbedTexts generates one embedding per text, preserving input order.
func (e *OllamaEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, e.maxConcurrent)
	errChan := make(chan error, len(texts))

	for i := range texts {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(i int) {
			defer wg.Done()
			defer func() { <-semaphore }()

			vec, err := e.embedOne(ctx, texts[i])
			if err != nil {
				errChan <- fmt.Errorf("failed to embed text %d: %w", i, err)
				return
			}
			embeddings[i] = vec
		}(i)
	}

	wg.Wait()
	close(errChan)

	if err := <-errChan; err != nil {
		return nil, err
	}
	return embeddings, nil
}

// embedOne requests a single embedding with a per-call timeout.
func (e *OllamaEmbedder) embedOne(ctx context.Context, text string) ([]float32, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.client.Embeddings(ctxWithTimeout, &api.EmbeddingRequest{
		Model:  e.model,
		Prompt: text,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding: %w", err)
	}

	return toFloat32(resp.Embedding), nil
}
