package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
	"github.com/ollama/ollama/envconfig"
)

// OllamaModel is the default local chat model.
const OllamaModel = "llama3"

// OllamaSynthesizer answers through a local Ollama server.
type OllamaSynthesizer struct {
	client *api.Client
	model  string
}

// NewOllamaSynthesizer creates a synthesizer against the given Ollama host.
// An empty host falls back to the OLLAMA_HOST environment default.
func NewOllamaSynthesizer(host, model string) (*OllamaSynthesizer, error) {
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

	return &OllamaSynthesizer{
		client: api.NewClient(hostURL, http.DefaultClient),
		model:  model,
	}, nil
}

// Synthesize generates an answer with the full prompt. The streamed
// response is accumulated and returned whole; an empty completion is an
// error.
func (s *OllamaSynthesizer) Synthesize(ctx context.Context, query, contextText, historyText string) (*SynthesisResult, error) {
	req := api.GenerateRequest{
		Model:  s.model,
		Prompt: BuildPrompt(contextText, historyText, query),
		Options: map[string]any{
			"temperature": 0.1,
			"num_predict": 1024,
		},
	}

	var answer strings.Builder
	err := s.client.Generate(ctx, &req, func(resp api.GenerateResponse) error {
		_, err := answer.WriteString(resp.Response)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate response: %w", err)
	}

	text := strings.TrimSpace(answer.String())
	if text == "" {
		return nil, fmt.Errorf("model returned empty response")
	}

	return &SynthesisResult{
		Answer: text,
		Model:  s.model,
	}, nil
}
