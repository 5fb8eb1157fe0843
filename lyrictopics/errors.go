package lyrictopics

import "fmt"

// InsufficientDataError reports a batch too small for reduction or
// clustering.
type InsufficientDataError struct {
	Stage string
	Have  int
	Need  int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: %d vectors, need at least %d", e.Stage, e.Have, e.Need)
}

// DimensionMismatchError reports an input vector whose length differs from
// the rest of the batch.
type DimensionMismatchError struct {
	Index int
	Want  int
	Got   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("vector %d has dimension %d, want %d", e.Index, e.Got, e.Want)
}

// GenerationError reports an irrecoverable external collaborator failure or
// malformed collaborator output, tagged with the stage and entity that
// failed.
type GenerationError struct {
	Stage  string
	Entity string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s failed for %q", e.Stage, e.Entity)
	}
	return fmt.Sprintf("%s failed for %q: %v", e.Stage, e.Entity, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// EmptyTaxonomyError marks the valid but degenerate terminal state where no
// clusters or labels survived to scoring. The orchestrator returns it
// together with the fully-formed zero-column result.
type EmptyTaxonomyError struct {
	Reason string
}

func (e *EmptyTaxonomyError) Error() string {
	return "empty taxonomy: " + e.Reason
}
