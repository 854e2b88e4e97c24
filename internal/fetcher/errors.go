package fetcher

import "fmt"

// FetchError is returned when a document could not be retrieved within the
// configured number of attempts.
type FetchError struct {
	Source   string
	URL      string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s failed after %d attempt(s): %v", e.Source, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// RenderError is returned when the headless render fallback fails. The
// browser has already been released when it is returned.
type RenderError struct {
	Source string
	URL    string
	Err    error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("rendering %s (%s): %v", e.Source, e.URL, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
