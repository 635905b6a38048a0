package pipeline

import "errors"

// Error kinds for pipeline failures. Components return plain errors; the
// controller wraps each failed step with its kind so callers can classify
// with errors.Is. History failures have no kind here: they are logged and
// swallowed inside the store.
var (
	// ErrLoad marks a bad or missing input file.
	ErrLoad = errors.New("document load failed")

	// ErrIndex marks an embedding or vector-store failure during ingestion.
	ErrIndex = errors.New("indexing failed")

	// ErrRetrieval marks a missing/empty index or a search backend failure.
	ErrRetrieval = errors.New("retrieval failed")

	// ErrSynthesis marks a model backend failure or malformed response.
	ErrSynthesis = errors.New("answer synthesis failed")

	// ErrBusy is returned when a run is requested while another is in flight.
	ErrBusy = errors.New("pipeline busy")
)
