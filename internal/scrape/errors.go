package scrape

import (
	"errors"
	"fmt"
)

var ErrSourceFetchFailed = errors.New("source fetch failed")

// SourceFetchFailedError names the query that aborted an aggregation.
type SourceFetchFailedError struct {
	Index  int
	Query  string
	Status int   // 0 when the request never got a reply
	Err    error // transport or parse error, if any
}

func (e *SourceFetchFailedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("source query %d (%s): %v", e.Index, e.Query, e.Err)
	}
	return fmt.Sprintf("source query %d (%s): status %d", e.Index, e.Query, e.Status)
}

func (e *SourceFetchFailedError) Unwrap() error { return e.Err }

func (e *SourceFetchFailedError) Is(target error) bool { return target == ErrSourceFetchFailed }
