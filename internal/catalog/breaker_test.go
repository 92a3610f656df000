package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/diymedia/internal/apperr"
	"github.com/stwalsh4118/diymedia/internal/models"
)

type countingSource struct {
	stubSource
	calls int
}

func (s *countingSource) FetchCatalog(ctx context.Context) ([]*models.MediaItem, error) {
	s.calls++
	return s.stubSource.FetchCatalog(ctx)
}

func TestBreakerState_String(t *testing.T) {
	tests := []struct {
		state BreakerState
		want  string
	}{
		{BreakerClosed, "closed"},
		{BreakerOpen, "open"},
		{BreakerHalfOpen, "half_open"},
		{BreakerState(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.String())
		})
	}
}

func TestGuardedSource_PassesThrough(t *testing.T) {
	src := &countingSource{stubSource: stubSource{items: []*models.MediaItem{item("A", 2001, models.MediaTypeMovie)}}}
	g := NewGuardedSource(src, BreakerConfig{})

	items, err := g.FetchCatalog(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, BreakerClosed, g.State())
	assert.Equal(t, 1, src.calls)
}

func TestGuardedSource_OpensAndRecovers(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	failure := apperr.Transient("catalog.fetch", errors.New("database is locked"))
	src := &countingSource{stubSource: stubSource{err: failure}}
	g := NewGuardedSource(src, BreakerConfig{
		FailureThreshold: 2,
		ResetTimeout:     time.Minute,
		Now:              clock,
	})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := g.FetchCatalog(ctx)
		assert.ErrorIs(t, err, failure)
	}
	assert.Equal(t, BreakerOpen, g.State())

	// Open: the source is not consulted
	_, err := g.FetchCatalog(ctx)
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
	assert.True(t, apperr.IsTransient(err))
	assert.Equal(t, 2, src.calls)

	// A failed trial reopens
	now = now.Add(time.Minute)
	assert.Equal(t, BreakerHalfOpen, g.State())
	_, err = g.FetchCatalog(ctx)
	assert.ErrorIs(t, err, failure)
	assert.Equal(t, BreakerOpen, g.State())
	assert.Equal(t, 3, src.calls)

	// A successful trial closes
	now = now.Add(time.Minute)
	src.err = nil
	src.items = []*models.MediaItem{item("A", 2001, models.MediaTypeMovie)}
	items, err := g.FetchCatalog(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, BreakerClosed, g.State())
}

func TestGuardedSource_IgnoresCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &countingSource{stubSource: stubSource{err: apperr.Transient("catalog.fetch", context.Canceled)}}
	g := NewGuardedSource(src, BreakerConfig{FailureThreshold: 1})

	for i := 0; i < 3; i++ {
		_, err := g.FetchCatalog(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	}
	assert.Equal(t, BreakerClosed, g.State())
	assert.Equal(t, 3, src.calls)
}

func TestGuardedSource_SuccessResetsFailures(t *testing.T) {
	src := &countingSource{stubSource: stubSource{err: errors.New("boom")}}
	g := NewGuardedSource(src, BreakerConfig{FailureThreshold: 2})
	ctx := context.Background()

	_, _ = g.FetchCatalog(ctx)
	src.err = nil
	_, err := g.FetchCatalog(ctx)
	require.NoError(t, err)

	src.err = errors.New("boom")
	_, _ = g.FetchCatalog(ctx)
	assert.Equal(t, BreakerClosed, g.State())
}

// blockingSource holds each fetch until release is closed
type blockingSource struct {
	started chan struct{}
	release chan struct{}
	items   []*models.MediaItem
}

func (s *blockingSource) FetchCatalog(ctx context.Context) ([]*models.MediaItem, error) {
	s.started <- struct{}{}
	<-s.release
	return s.items, nil
}

func TestGuardedSource_HalfOpenAllowsOneTrial(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	failing := &stubSource{err: errors.New("database is locked")}
	g := NewGuardedSource(failing, BreakerConfig{
		FailureThreshold: 1,
		ResetTimeout:     time.Minute,
		Now:              clock,
	})
	ctx := context.Background()

	_, err := g.FetchCatalog(ctx)
	require.Error(t, err)
	require.Equal(t, BreakerOpen, g.State())

	blocking := &blockingSource{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
		items:   []*models.MediaItem{item("A", 2001, models.MediaTypeMovie)},
	}
	g.source = blocking
	now = now.Add(time.Minute)

	trialDone := make(chan error, 1)
	go func() {
		_, err := g.FetchCatalog(ctx)
		trialDone <- err
	}()
	<-blocking.started

	// The trial is still running; other callers are turned away
	_, err = g.FetchCatalog(ctx)
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
	assert.Equal(t, BreakerHalfOpen, g.State())

	close(blocking.release)
	require.NoError(t, <-trialDone)
	assert.Equal(t, BreakerClosed, g.State())

	items, err := g.FetchCatalog(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestGuardedSource_CancelledTrialFreesSlot(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	src := &countingSource{stubSource: stubSource{err: errors.New("boom")}}
	g := NewGuardedSource(src, BreakerConfig{
		FailureThreshold: 1,
		ResetTimeout:     time.Minute,
		Now:              clock,
	})

	_, _ = g.FetchCatalog(context.Background())
	now = now.Add(time.Minute)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	src.err = context.Canceled
	_, err := g.FetchCatalog(cancelled)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, BreakerHalfOpen, g.State())

	src.err = nil
	_, err = g.FetchCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, BreakerClosed, g.State())
	assert.Equal(t, 3, src.calls)
}
