package pipeline

import "errors"

// Define static errors
var (
	// ErrNoNodes is returned when node enumeration yields an empty universe
	ErrNoNodes = errors.New("no valid nodes found in ARMT data")
	// ErrMissingInput is returned when a run is started without all three tables
	ErrMissingInput = errors.New("ARMT, outflow, and master tables are all required")
)
