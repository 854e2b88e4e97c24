package pipeline

import (
	"errors"
	"fmt"

	"github.com/pfrederiksen/tvfixtures/internal/fetcher"
)

// Kind classifies a pipeline failure.
type Kind string

const (
	KindInput    Kind = "input"
	KindFetch    Kind = "fetch"
	KindRender   Kind = "render"
	KindParse    Kind = "parse"
	KindMerge    Kind = "merge"
	KindWrite    Kind = "write"
	KindInternal Kind = "internal"
)

// Failure is any error that ended a run early. Stage names the step
// ("LiveOnSat", "SportEventz", "merge", "write", ...).
type Failure struct {
	Stage string
	Kind  Kind
	Err   error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s (%s): %v", f.Stage, f.Kind, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// fail wraps err, deriving the kind from the typed fetcher errors and
// falling back to def.
func fail(stage string, def Kind, err error) *Failure {
	var existing *Failure
	if errors.As(err, &existing) {
		return existing
	}
	kind := def
	var re *fetcher.RenderError
	var fe *fetcher.FetchError
	switch {
	case errors.As(err, &re):
		kind = KindRender
	case errors.As(err, &fe):
		kind = KindFetch
	}
	return &Failure{Stage: stage, Kind: kind, Err: err}
}
