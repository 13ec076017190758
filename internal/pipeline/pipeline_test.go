package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentwatch-engine/internal/domain"
	"rentwatch-engine/internal/logging"
	"rentwatch-engine/internal/notify"
	"rentwatch-engine/internal/scrape"
)

type fakeSource struct {
	listings []domain.Listing
	err      error
	calls    int
}

func (f *fakeSource) Listings(context.Context) ([]domain.Listing, error) {
	f.calls++
	return f.listings, f.err
}

type memStore struct {
	ids      []string
	reads    int
	writes   int
	readErr  error
	writeErr error
}

func (m *memStore) ReadNotifiedIDs(context.Context) (*domain.NotifiedSet, error) {
	m.reads++
	if m.readErr != nil {
		return nil, m.readErr
	}
	return domain.NewNotifiedSet(m.ids...), nil
}

func (m *memStore) WriteNotifiedIDs(_ context.Context, set *domain.NotifiedSet) error {
	m.writes++
	if m.writeErr != nil {
		return m.writeErr
	}
	m.ids = set.IDs()
	return nil
}

type recordSender struct {
	messages []string
	err      error
}

func (r *recordSender) Send(_ context.Context, msg string) error {
	r.messages = append(r.messages, msg)
	return r.err
}

type busyLock struct{}

func (busyLock) TryAcquire() (func(), bool, error) { return nil, false, nil }

func listing(id string) domain.Listing {
	return domain.Listing{ID: id, Title: "title " + id, Info: "info", URL: "https://rent.591.com.tw/" + id}
}

func newOrchestrator(src *fakeSource, st *memStore, snd *recordSender) *Orchestrator {
	return &Orchestrator{
		Source:  src,
		Store:   st,
		Sender:  snd,
		Compose: notify.Compose,
		Logger:  logging.Discard(),
		Now:     func() time.Time { return time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC) },
	}
}

func TestRunNotifiesAndWritesFullSet(t *testing.T) {
	src := &fakeSource{listings: []domain.Listing{listing("1"), listing("9"), listing("2")}}
	st := &memStore{ids: []string{"9"}}
	snd := &recordSender{}

	res, err := newOrchestrator(src, st, snd).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StatusProcessed, res.Status)
	assert.Equal(t, "Data processed!", res.Message())
	assert.Equal(t, 3, res.Fetched)
	assert.Equal(t, 1, res.Known)
	assert.Equal(t, 2, res.New)
	assert.NotEmpty(t, res.RunID)

	require.Len(t, snd.messages, 1)
	assert.Equal(t, notify.Compose([]domain.Listing{listing("1"), listing("2")}), snd.messages[0])
	assert.Equal(t, []string{"9", "1", "2"}, st.ids)
	assert.Equal(t, 1, st.writes)
}

func TestRunTwiceSecondHasNoNewData(t *testing.T) {
	src := &fakeSource{listings: []domain.Listing{listing("1"), listing("2")}}
	st := &memStore{}
	snd := &recordSender{}
	o := newOrchestrator(src, st, snd)

	res, err := o.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, StatusProcessed, res.Status)

	res, err = o.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusNoNewData, res.Status)
	assert.Equal(t, "No new data.", res.Message())
	assert.Equal(t, 1, st.writes, "an empty diff must not write")
	assert.Len(t, snd.messages, 1)
}

func TestRunSourceFailureTouchesNothing(t *testing.T) {
	src := &fakeSource{err: &scrape.SourceFetchFailedError{Index: 0, Query: "q", Status: 500}}
	st := &memStore{ids: []string{"1"}}
	snd := &recordSender{}

	res, err := newOrchestrator(src, st, snd).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusNoNewData, res.Status)
	assert.ErrorIs(t, res.SourceErr, scrape.ErrSourceFetchFailed)
	assert.Zero(t, st.reads)
	assert.Zero(t, st.writes)
	assert.Empty(t, snd.messages)
}

func TestRunEmptySourceReadsNothing(t *testing.T) {
	st := &memStore{}
	res, err := newOrchestrator(&fakeSource{}, st, &recordSender{}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusNoNewData, res.Status)
	assert.Zero(t, st.reads)
}

func TestRunOtherSourceErrorIsReturned(t *testing.T) {
	boom := errors.New("boom")
	_, err := newOrchestrator(&fakeSource{err: boom}, &memStore{}, &recordSender{}).Run(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestRunDispatchFailureStillWrites(t *testing.T) {
	src := &fakeSource{listings: []domain.Listing{listing("5")}}
	st := &memStore{}
	snd := &recordSender{err: &notify.DispatchError{Status: 502}}

	res, err := newOrchestrator(src, st, snd).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, notify.ErrDispatchFailed)
	assert.Equal(t, StatusProcessed, res.Status)
	// known gap: the id is recorded although the message never arrived
	assert.Equal(t, []string{"5"}, st.ids)
}

func TestRunReadErrorStops(t *testing.T) {
	src := &fakeSource{listings: []domain.Listing{listing("5")}}
	st := &memStore{readErr: errors.New("disk gone")}
	snd := &recordSender{}

	_, err := newOrchestrator(src, st, snd).Run(context.Background())
	require.Error(t, err)
	assert.Empty(t, snd.messages)
	assert.Zero(t, st.writes)
}

func TestRunWriteErrorJoinsDispatchError(t *testing.T) {
	src := &fakeSource{listings: []domain.Listing{listing("5")}}
	writeErr := errors.New("readonly")
	st := &memStore{writeErr: writeErr}
	snd := &recordSender{err: &notify.DispatchError{Status: 500}}

	_, err := newOrchestrator(src, st, snd).Run(context.Background())
	assert.ErrorIs(t, err, writeErr)
	assert.ErrorIs(t, err, notify.ErrDispatchFailed)
}

func TestRunEmptyIDsAreNotifiedEveryRun(t *testing.T) {
	noID := domain.Listing{Title: "no id", URL: "https://rent.591.com.tw/list"}
	src := &fakeSource{listings: []domain.Listing{noID}}
	st := &memStore{}
	snd := &recordSender{}
	o := newOrchestrator(src, st, snd)

	for i := 0; i < 2; i++ {
		res, err := o.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, StatusProcessed, res.Status, "run %d", i)
	}
	assert.Len(t, snd.messages, 2)
	assert.Empty(t, st.ids, "empty ids are never recorded")
}

func TestRunBusy(t *testing.T) {
	src := &fakeSource{listings: []domain.Listing{listing("1")}}
	o := newOrchestrator(src, &memStore{}, &recordSender{})
	o.Lock = busyLock{}

	res, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusBusy, res.Status)
	assert.Equal(t, "Run already in progress.", res.Message())
	assert.Zero(t, src.calls)
}

func TestRunStampsTimes(t *testing.T) {
	res, err := newOrchestrator(&fakeSource{}, &memStore{}, &recordSender{}).Run(context.Background())
	require.NoError(t, err)
	assert.False(t, res.StartedAt.IsZero())
	assert.False(t, res.FinishedAt.IsZero())
}
