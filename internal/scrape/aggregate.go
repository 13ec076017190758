// Package scrape fetches the configured 591 search pages and merges their listings.
package scrape

import (
	"bytes"
	"context"
	"log/slog"
	"slices"

	"rentwatch-engine/internal/domain"
	"rentwatch-engine/internal/extract"
)

type Aggregator struct {
	Fetcher   Fetcher
	Extractor extract.Extractor
	Queries   []string
	Logger    *slog.Logger
}

func NewAggregator(f Fetcher, queries []string, log *slog.Logger) *Aggregator {
	if log == nil {
		log = slog.Default()
	}
	return &Aggregator{
		Fetcher:   f,
		Extractor: extract.Default(),
		Queries:   slices.Clone(queries),
		Logger:    log,
	}
}

// Listings fetches every query in order and returns all listings, reversed as a whole.
// Sources list newest first, so the result reads roughly oldest first.
// The first failing query aborts the run and no partial result is returned.
func (a *Aggregator) Listings(ctx context.Context) ([]domain.Listing, error) {
	var all []domain.Listing

	for i, q := range a.Queries {
		page, err := a.Fetcher.Fetch(ctx, q)
		if err != nil {
			return nil, &SourceFetchFailedError{Index: i, Query: q, Err: err}
		}
		if !page.OK() {
			return nil, &SourceFetchFailedError{Index: i, Query: q, Status: page.Status}
		}

		listings, err := a.Extractor.FromHTML(bytes.NewReader(page.Body))
		if err != nil {
			return nil, &SourceFetchFailedError{Index: i, Query: q, Status: page.Status, Err: err}
		}
		a.Logger.Debug("source scraped", "query", i, "listings", len(listings))
		all = append(all, listings...)
	}

	slices.Reverse(all)
	return all, nil
}
