// Package llm synthesizes grounded answers by invoking a language model
// with retrieved context and conversation history.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go"

	"github.com/bull/research-assistant/internal/embedding"
)

// DefaultMaxContextTokens is the maximum context length before truncation
// (in tokens, estimated at 4 characters per token).
const DefaultMaxContextTokens = 16000

// SynthesisResult is the validated outcome of one model call.
type SynthesisResult struct {
	Answer string // The extracted answer text
	Model  string // Backend model that produced it
}

// Synthesizer produces a grounded answer from context, history, and a query.
type Synthesizer interface {
	Synthesize(ctx context.Context, query, contextText, historyText string) (*SynthesisResult, error)
}

// answerPayload is the structured response shape requested from the model.
type answerPayload struct {
	Answer string `json:"answer"`
}

// OpenAISynthesizer answers via an OpenAI chat completion with a JSON
// response format, parsed into SynthesisResult at the service boundary.
type OpenAISynthesizer struct {
	client    *openai.Client
	model     openai.ChatModel
	maxTokens int
	logger    *slog.Logger
}

// NewOpenAISynthesizer creates a synthesizer reusing the embedding
// package's OpenAI client.
func NewOpenAISynthesizer(client *embedding.Client, logger *slog.Logger) *OpenAISynthesizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenAISynthesizer{
		client:    client.Client(),
		model:     openai.ChatModelGPT4o,
		maxTokens: DefaultMaxContextTokens,
		logger:    logger,
	}
}

// Synthesize invokes the model and extracts the answer field from its
// structured response. A malformed or empty response is an error, never an
// empty answer.
func (s *OpenAISynthesizer) Synthesize(ctx context.Context, query, contextText, historyText string) (*SynthesisResult, error) {
	prompt := BuildPrompt(s.truncate(contextText), historyText, query)
	prompt += `

Respond in JSON format:
{"answer": "Your answer here"}`

	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: s.model,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{
				Type: "json_object",
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("model returned no choices")
	}

	var payload answerPayload
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if strings.TrimSpace(payload.Answer) == "" {
		return nil, fmt.Errorf("model response missing answer field")
	}

	return &SynthesisResult{
		Answer: payload.Answer,
		Model:  string(s.model),
	}, nil
}

// truncate caps the context at the token budget, estimated at 4 characters
// per token.
func (s *OpenAISynthesizer) truncate(text string) string {
	maxChars := s.maxTokens * 4
	if len(text) <= maxChars {
		return text
	}
	s.logger.Warn("Truncating context",
		"from_chars", len(text),
		"to_chars", maxChars,
		"estimated_tokens", s.maxTokens,
	)
	return text[:maxChars]
}
