// Package pipeline runs one scrape, dedup and notify pass.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"rentwatch-engine/internal/domain"
	"rentwatch-engine/internal/scrape"
)

type ListingSource interface {
	Listings(ctx context.Context) ([]domain.Listing, error)
}

// NotifiedStore holds the ids that were already sent out.
type NotifiedStore interface {
	ReadNotifiedIDs(ctx context.Context) (*domain.NotifiedSet, error)
	WriteNotifiedIDs(ctx context.Context, set *domain.NotifiedSet) error
}

type Sender interface {
	Send(ctx context.Context, message string) error
}

type Locker interface {
	TryAcquire() (release func(), ok bool, err error)
}

type Status string

const (
	StatusNoNewData Status = "no_new_data"
	StatusProcessed Status = "processed"
	StatusBusy      Status = "busy"
)

type Result struct {
	RunID      string    `json:"run_id"`
	Status     Status    `json:"status"`
	Fetched    int       `json:"fetched"`
	Known      int       `json:"known"`
	New        int       `json:"new"`
	SourceErr  error     `json:"-"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Message is the short outcome reported back to the trigger.
func (r Result) Message() string {
	switch r.Status {
	case StatusProcessed:
		return "Data processed!"
	case StatusBusy:
		return "Run already in progress."
	default:
		return "No new data."
	}
}

type Orchestrator struct {
	Source  ListingSource
	Store   NotifiedStore
	Sender  Sender
	Compose func([]domain.Listing) string
	Lock    Locker // optional
	Logger  *slog.Logger
	Now     func() time.Time
}

// Run executes one pass.
//
// A failed source query ends the run with StatusNoNewData and a nil error;
// the cause is kept in Result.SourceErr. The notified set is written after
// dispatch even when dispatch fails, so those listings are not retried; the
// dispatch error is still returned.
func (o *Orchestrator) Run(ctx context.Context) (res Result, err error) {
	now := o.Now
	if now == nil {
		now = time.Now
	}
	log := o.Logger
	if log == nil {
		log = slog.Default()
	}

	res = Result{RunID: uuid.NewString(), StartedAt: now().UTC()}
	log = log.With("run_id", res.RunID)
	defer func() { res.FinishedAt = now().UTC() }()

	if o.Lock != nil {
		release, ok, lerr := o.Lock.TryAcquire()
		if lerr != nil {
			return res, lerr
		}
		if !ok {
			res.Status = StatusBusy
			log.Info("run skipped, another run holds the lock")
			return res, nil
		}
		defer release()
	}

	all, err := o.Source.Listings(ctx)
	if err != nil {
		if errors.Is(err, scrape.ErrSourceFetchFailed) {
			res.Status = StatusNoNewData
			res.SourceErr = err
			log.Warn("source fetch failed, no data this run", "error", err)
			return res, nil
		}
		return res, fmt.Errorf("aggregate listings: %w", err)
	}
	res.Fetched = len(all)
	if len(all) == 0 {
		res.Status = StatusNoNewData
		log.Info("no listings found")
		return res, nil
	}

	known, err := o.Store.ReadNotifiedIDs(ctx)
	if err != nil {
		return res, err
	}
	res.Known = known.Len()

	fresh := NewListings(all, known)
	res.New = len(fresh)
	if len(fresh) == 0 {
		res.Status = StatusNoNewData
		log.Info("no new listings", "fetched", res.Fetched, "known", res.Known)
		return res, nil
	}
	res.Status = StatusProcessed

	var sendErr error
	if err := o.Sender.Send(ctx, o.Compose(fresh)); err != nil {
		sendErr = fmt.Errorf("dispatch %d listings: %w", len(fresh), err)
		log.Error("notification not delivered, ids are marked notified anyway", "error", err, "new", len(fresh))
	}

	if err := o.Store.WriteNotifiedIDs(ctx, MergeIDs(known, fresh)); err != nil {
		return res, errors.Join(sendErr, err)
	}

	log.Info("listings notified", "fetched", res.Fetched, "known", res.Known, "new", res.New)
	return res, sendErr
}
