// Package mcp exposes the research assistant over the Model Context
// Protocol.
package mcp

// IngestInput defines the input parameters for the ingest_documents tool.
type IngestInput struct {
	// Paths lists the PDF files to ingest. The existing index and
	// conversation history are replaced.
	Paths []string `json:"paths" jsonschema:"required,description=PDF file paths to ingest; replaces the current index and clears history"`
}

// IngestOutput reports ingestion statistics.
type IngestOutput struct {
	Files    int    `json:"files"`
	Pages    int    `json:"pages"`
	Chunks   int    `json:"chunks"`
	Duration string `json:"duration"`
	// Message provides informational context (e.g. for an empty file list).
	Message string `json:"message,omitempty"`
}

// AskInput defines the input parameters for the ask_question tool.
type AskInput struct {
	// Question is the natural-language question to answer from the
	// ingested documents.
	Question string `json:"question" jsonschema:"required,description=The question to answer from the ingested documents"`
}

// AskOutput contains the grounded answer and its supporting passages.
type AskOutput struct {
	Answer  string   `json:"answer"`
	Model   string   `json:"model"`
	Sources []Source `json:"sources"`
}

// Source identifies one retrieved passage backing an answer.
type Source struct {
	// File is the originating document path.
	File string `json:"file"`
	// Page is the 1-based page number within the file.
	Page int `json:"page"`
	// Score is the similarity score (higher is closer).
	Score float64 `json:"score"`
}

// StatusInput defines the input for the get_status tool (none required).
type StatusInput struct {
	// No input parameters required
}

// StatusOutput is a snapshot of the assistant's state.
type StatusOutput struct {
	State         string `json:"state"`
	IndexedChunks uint64 `json:"indexed_chunks"`
	HistoryTurns  int    `json:"history_turns"`
}
