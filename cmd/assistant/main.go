// Package main provides the research-assistant CLI: PDF ingestion, question
// answering, interactive chat, and an MCP serve mode.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bull/research-assistant/internal/config"
	"github.com/bull/research-assistant/internal/embedding"
	"github.com/bull/research-assistant/internal/history"
	"github.com/bull/research-assistant/internal/llm"
	mcpserver "github.com/bull/research-assistant/internal/mcp"
	"github.com/bull/research-assistant/internal/pdf"
	"github.com/bull/research-assistant/internal/pipeline"
	"github.com/bull/research-assistant/internal/storage"
	"github.com/bull/research-assistant/internal/textsplit"
)

var rootCmd = &cobra.Command{
	Use:   "assistant",
	Short: "Research assistant over your PDF documents",
	Long: `Retrieval-augmented question answering: ingest PDF documents into a
vector index, then ask questions answered from retrieved passages and
prior conversation turns.

Environment variables:
  QDRANT_HOST     Qdrant hostname (default: localhost)
  QDRANT_PORT     Qdrant gRPC port (default: 6334)
  COLLECTION      Qdrant collection name (default: research_assistant)
  HISTORY_PATH    Conversation log file (default: history.json)
  MODEL_BACKEND   ollama or openai (default: ollama)
  OLLAMA_HOST     Ollama base URL (optional)
  OPENAI_API_KEY  Required when MODEL_BACKEND=openai`,
}

var ingestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Rebuild the index from PDF files",
	Long: `Clears the conversation history, deletes the existing index, and rebuilds
it from the given PDF files. Any file failure aborts the whole run.`,
	RunE: runIngest,
}

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer one question from the ingested documents",
	Args:  cobra.ExactArgs(1),
	RunE:  runAsk,
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive question loop over the ingested documents",
	RunE:  runChat,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the assistant over MCP",
	Long: `Runs an MCP server with ingest_documents, ask_question, and get_status
tools. Default transport is stdio with a background /health endpoint;
--http serves MCP over HTTP instead.`,
	RunE: runServe,
}

var serveHTTP bool

func init() {
	serveCmd.Flags().BoolVar(&serveHTTP, "http", false, "serve MCP over HTTP instead of stdio")
	rootCmd.AddCommand(ingestCmd, askCmd, chatCmd, serveCmd)
}

func main() {
	// Load .env file if present (local development), ignore if missing.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildController wires the pipeline from configuration. The returned index
// is also needed separately for the serve-mode health endpoint.
func buildController(cfg config.Config) (*pipeline.Controller, *storage.QdrantIndex, error) {
	var (
		embedder  pipeline.Embedder
		synth     llm.Synthesizer
		dimension int
	)

	switch cfg.Backend {
	case config.BackendOpenAI:
		client, err := embedding.NewClient()
		if err != nil {
			return nil, nil, fmt.Errorf("create OpenAI client: %w", err)
		}
		embedder = embedding.NewOpenAIEmbedder(client, 0) // default batch size
		synth = llm.NewOpenAISynthesizer(client, slog.Default())
		dimension = embedding.OpenAIDimension
	case config.BackendOllama:
		ollamaEmbedder, err := embedding.NewOllamaEmbedder(cfg.OllamaHost, cfg.EmbedModel, cfg.EmbedTimeout)
		if err != nil {
			return nil, nil, fmt.Errorf("create Ollama embedder: %w", err)
		}
		embedder = ollamaEmbedder
		dimension = ollamaEmbedder.Dimension()
		synth, err = llm.NewOllamaSynthesizer(cfg.OllamaHost, cfg.ChatModel)
		if err != nil {
			return nil, nil, fmt.Errorf("create Ollama synthesizer: %w", err)
		}
	default:
		return nil, nil, fmt.Errorf("unknown MODEL_BACKEND %q (want %s or %s)",
			cfg.Backend, config.BackendOllama, config.BackendOpenAI)
	}

	index, err := storage.NewQdrantIndex(cfg.QdrantHost, cfg.QdrantPort, cfg.Collection, dimension)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to Qdrant: %w", err)
	}

	controller := pipeline.NewController(
		cfg,
		pdf.NewLoader(),
		textsplit.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap),
		embedder,
		index,
		synth,
		history.NewStore(cfg.HistoryPath, slog.Default()),
		slog.Default(),
	)

	return controller, index, nil
}

func runIngest(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Println("No files given; nothing to do.")
		return nil
	}

	cfg := config.FromEnv()
	controller, index, err := buildController(cfg)
	if err != nil {
		return err
	}
	defer index.Close()

	fmt.Printf("Ingesting %d file(s)...\n", len(args))
	result, err := controller.Ingest(cmd.Context(), args)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Println()
	fmt.Println("Ingestion complete!")
	fmt.Printf("  Files:    %d\n", result.Files)
	fmt.Printf("  Pages:    %d\n", result.Pages)
	fmt.Printf("  Chunks:   %d\n", result.Chunks)
	fmt.Printf("  Duration: %s\n", result.Duration.Round(time.Millisecond))
	return nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg := config.FromEnv()
	controller, index, err := buildController(cfg)
	if err != nil {
		return err
	}
	defer index.Close()

	if err := controller.Resume(cmd.Context()); err != nil {
		return err
	}

	result, err := controller.Query(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Println(result.Answer)
	printSources(result)
	return nil
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg := config.FromEnv()
	controller, index, err := buildController(cfg)
	if err != nil {
		return err
	}
	defer index.Close()

	if err := controller.Resume(cmd.Context()); err != nil {
		return err
	}

	fmt.Println("Ask questions about your documents. Empty line or Ctrl-D exits.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			break
		}

		result, err := controller.Query(cmd.Context(), question)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		fmt.Println()
		fmt.Println(result.Answer)
		printSources(result)
		fmt.Println()
	}
	return scanner.Err()
}

func runServe(cmd *cobra.Command, args []string) error {
	// Cancel on SIGTERM/SIGINT so the stdio transport shuts down cleanly.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	cfg := config.FromEnv()
	controller, index, err := buildController(cfg)
	if err != nil {
		return err
	}
	defer index.Close()

	if err := controller.Resume(ctx); err != nil {
		return err
	}

	server := mcpserver.NewServer(controller)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", mcpserver.NewHealthHandler(index))
	mux.Handle("/mcp", mcpserver.NewHTTPHandler(server, nil))
	addr := "0.0.0.0:" + cfg.Port

	if serveHTTP {
		log.Printf("Starting HTTP server on %s (MCP at /mcp, health at /health)", addr)
		return http.ListenAndServe(addr, mux)
	}

	// Stdio mode with the health endpoint in the background.
	go func() {
		log.Printf("Starting health server on %s", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Printf("Health server error: %v", err)
		}
	}()

	log.Println("Starting research assistant MCP server (stdio mode)...")
	return server.Run(ctx)
}

func printSources(result *pipeline.QueryResult) {
	if len(result.Sources) == 0 {
		return
	}
	fmt.Println()
	fmt.Println("Sources:")
	for _, sc := range result.Sources {
		fmt.Printf("  - %s p.%d (score %.3f)\n", sc.Chunk.Source, sc.Chunk.Page, sc.Score)
	}
}
