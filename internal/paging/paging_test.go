package paging

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/cinescope/internal/errors"
	"github.com/amaumene/cinescope/internal/result"
)

func fakeLoader(totalPages, perPage int) LoadPageFunc[string] {
	return func(ctx context.Context, page int) result.Result[Envelope[string]] {
		items := make([]string, perPage)
		for i := range items {
			items[i] = fmt.Sprintf("p%d-%d", page, i)
		}
		return result.Success(Envelope[string]{
			Page:         page,
			Items:        items,
			TotalPages:   totalPages,
			TotalResults: totalPages * perPage,
		})
	}
}

func key(v int) *int { return &v }

func TestLoadCappedAtMaxPages(t *testing.T) {
	src := NewSource(fakeLoader(10, 20), key(3))

	res := src.Load(context.Background(), LoadParams{Key: key(3)})
	require.False(t, res.IsError())
	assert.Nil(t, res.NextKey)
	require.NotNil(t, res.PrevKey)
	assert.Equal(t, 2, *res.PrevKey)
}

func TestLoadPastCapSkipsFetch(t *testing.T) {
	var calls atomic.Int32
	src := NewSource(func(ctx context.Context, page int) result.Result[Envelope[string]] {
		calls.Add(1)
		return fakeLoader(10, 20)(ctx, page)
	}, key(2))

	res := src.Load(context.Background(), LoadParams{Key: key(5)})
	require.False(t, res.IsError())
	assert.Empty(t, res.Data)
	assert.Nil(t, res.NextKey)
	assert.Equal(t, 2, res.TotalPages)
	assert.Zero(t, calls.Load())

	res = src.Load(context.Background(), LoadParams{Key: key(2)})
	assert.Len(t, res.Data, 20)
	assert.Equal(t, 2, res.TotalPages)
	assert.Equal(t, 200, res.TotalResults)
	assert.Equal(t, int32(1), calls.Load())
}

func TestLoadSinglePageNoCap(t *testing.T) {
	src := NewSource(fakeLoader(1, 20), nil)

	res := src.Load(context.Background(), LoadParams{Key: key(1)})
	require.False(t, res.IsError())
	assert.Nil(t, res.PrevKey)
	assert.Nil(t, res.NextKey)
}

func TestLoadFirstAndLastPage(t *testing.T) {
	src := NewSource(fakeLoader(5, 20), nil)

	first := src.Load(context.Background(), LoadParams{})
	require.False(t, first.IsError())
	assert.Len(t, first.Data, 20)
	assert.Nil(t, first.PrevKey)
	require.NotNil(t, first.NextKey)
	assert.Equal(t, 2, *first.NextKey)

	last := src.Load(context.Background(), LoadParams{Key: key(5)})
	assert.Nil(t, last.NextKey)
	require.NotNil(t, last.PrevKey)
	assert.Equal(t, 4, *last.PrevKey)
}

func TestLoadErrorIsRetryable(t *testing.T) {
	var calls int32
	src := NewSource(func(ctx context.Context, page int) result.Result[Envelope[string]] {
		if atomic.AddInt32(&calls, 1) == 1 {
			return result.Failure[Envelope[string]](errors.New(errors.KindNoInternet, nil))
		}
		return fakeLoader(3, 2)(ctx, page)
	}, nil)

	res := src.Load(context.Background(), LoadParams{Key: key(2)})
	require.True(t, res.IsError())
	assert.Equal(t, errors.KindNoInternet, res.Err.Kind)

	res = src.Load(context.Background(), LoadParams{Key: key(2)})
	require.False(t, res.IsError())
	assert.Equal(t, 2, res.Key)
}

func TestConcurrentLoadsShareOneFetch(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	src := NewSource(func(ctx context.Context, page int) result.Result[Envelope[string]] {
		atomic.AddInt32(&calls, 1)
		<-release
		return fakeLoader(3, 1)(ctx, page)
	}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			src.Load(context.Background(), LoadParams{Key: key(2)})
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRefreshKey(t *testing.T) {
	src := NewSource(fakeLoader(5, 2), nil)

	assert.Nil(t, src.RefreshKey(State[string]{}))

	state := State[string]{
		Pages: []Page[string]{
			{Data: []string{"a", "b"}, Key: 2, PrevKey: key(1), NextKey: key(3)},
			{Data: []string{"c", "d"}, Key: 3, PrevKey: key(2), NextKey: key(4)},
		},
		Anchor: key(3),
	}
	got := src.RefreshKey(state)
	require.NotNil(t, got)
	assert.Equal(t, 3, *got)

	first := State[string]{
		Pages:  []Page[string]{{Data: []string{"a"}, Key: 1, NextKey: key(2)}},
		Anchor: key(0),
	}
	got = src.RefreshKey(first)
	require.NotNil(t, got)
	assert.Equal(t, 1, *got)
}

func TestPagerAppendAndScopedError(t *testing.T) {
	var failPage3 atomic.Bool
	failPage3.Store(true)
	src := NewSource(func(ctx context.Context, page int) result.Result[Envelope[string]] {
		if page == 3 && failPage3.Load() {
			return result.Failure[Envelope[string]](errors.New(errors.KindServer, nil))
		}
		return fakeLoader(3, 2)(ctx, page)
	}, nil)
	pager := NewPager(src)
	ctx := context.Background()

	pager.Refresh(ctx)
	pager.Append(ctx)
	snap := pager.Snapshot()
	assert.Len(t, snap.Items, 4)
	assert.False(t, snap.EndReached)

	pager.Append(ctx)
	snap = pager.Snapshot()
	assert.Len(t, snap.Items, 4, "loaded pages survive a failed append")
	assert.Equal(t, "error", string(snap.Append.Status))
	assert.Equal(t, errors.KindServer, snap.Append.Err.Kind)

	failPage3.Store(false)
	pager.Retry(ctx)
	snap = pager.Snapshot()
	assert.Len(t, snap.Items, 6)
	assert.True(t, snap.EndReached)

	// end reached: append is a no-op
	pager.Append(ctx)
	assert.Len(t, pager.Snapshot().Items, 6)
}

func TestPagerRefreshResumesAtAnchor(t *testing.T) {
	pager := NewPager(NewSource(fakeLoader(5, 2), nil))
	ctx := context.Background()

	pager.Refresh(ctx)
	pager.Append(ctx)
	pager.Append(ctx)
	pager.SetAnchor(5)

	pager.Refresh(ctx)
	snap := pager.Snapshot()
	assert.Equal(t, 3, snap.FirstPageKey)
	assert.Equal(t, []string{"p3-0", "p3-1"}, snap.Items)

	pager.Prepend(ctx)
	assert.Equal(t, 2, pager.Snapshot().FirstPageKey)
}

func TestPagerPublishesSnapshots(t *testing.T) {
	pager := NewPager(NewSource(fakeLoader(2, 1), nil))
	var seen []Snapshot[string]
	pager.OnChange(func(s Snapshot[string]) { seen = append(seen, s) })

	pager.Refresh(context.Background())
	require.Len(t, seen, 2)
	assert.True(t, seen[0].Refresh.IsLoading())
	assert.Equal(t, "success", string(seen[1].Refresh.Status))
}

// gatedLoader blocks loads of the gated pages until released and reports
// every load that started.
func gatedLoader(totalPages, perPage int, gated ...int) (LoadPageFunc[string], map[int]chan struct{}, chan int) {
	gates := make(map[int]chan struct{}, len(gated))
	for _, page := range gated {
		gates[page] = make(chan struct{})
	}
	started := make(chan int, 16)
	load := func(ctx context.Context, page int) result.Result[Envelope[string]] {
		started <- page
		if gate, ok := gates[page]; ok {
			<-gate
		}
		return fakeLoader(totalPages, perPage)(ctx, page)
	}
	return load, gates, started
}

func waitStarted(t *testing.T, started chan int, page int) {
	t.Helper()
	for {
		select {
		case got := <-started:
			if got == page {
				return
			}
		case <-time.After(time.Second):
			t.Fatalf("load of page %d never started", page)
		}
	}
}

func TestPagerStaleAppendKeepsNewerAppendGuard(t *testing.T) {
	var gateOn atomic.Bool
	load, gates, started := gatedLoader(5, 2, 2, 3)
	pager := NewPager(NewSource(func(ctx context.Context, page int) result.Result[Envelope[string]] {
		if !gateOn.Load() {
			return fakeLoader(5, 2)(ctx, page)
		}
		return load(ctx, page)
	}, nil))
	ctx := context.Background()

	pager.Refresh(ctx)
	pager.Append(ctx)
	require.Equal(t, 2, pager.Snapshot().LoadedPages)
	gateOn.Store(true)

	staleDone := make(chan struct{})
	go func() {
		defer close(staleDone)
		pager.Append(ctx) // page 3, outlived by the refresh below
	}()
	waitStarted(t, started, 3)

	pager.SetAnchor(0)
	pager.Refresh(ctx)
	waitStarted(t, started, 1)
	require.Equal(t, 1, pager.Snapshot().LoadedPages)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		pager.Append(ctx) // page 2 of the new generation
	}()
	waitStarted(t, started, 2)

	close(gates[3])
	<-staleDone
	require.True(t, pager.Snapshot().Append.IsLoading(), "stale append must not clear the newer one")

	pager.Append(ctx) // refused while page 2 is in flight

	close(gates[2])
	wg.Wait()

	snap := pager.Snapshot()
	assert.Equal(t, []string{"p1-0", "p1-1", "p2-0", "p2-1"}, snap.Items)
	assert.Equal(t, 2, snap.LoadedPages)
}

func TestPagerPublishesPrependState(t *testing.T) {
	var failPage2 atomic.Bool
	pager := NewPager(NewSource(func(ctx context.Context, page int) result.Result[Envelope[string]] {
		if page == 2 && failPage2.Load() {
			return result.Failure[Envelope[string]](errors.New(errors.KindRequestTimeout, nil))
		}
		return fakeLoader(5, 1)(ctx, page)
	}, nil))
	ctx := context.Background()

	pager.Refresh(ctx)
	pager.Append(ctx)
	pager.Append(ctx)
	pager.SetAnchor(2)
	pager.Refresh(ctx)
	require.Equal(t, 3, pager.Snapshot().FirstPageKey)

	var seen []Snapshot[string]
	pager.OnChange(func(s Snapshot[string]) { seen = append(seen, s) })
	failPage2.Store(true)

	pager.Prepend(ctx)
	require.Len(t, seen, 2)
	assert.True(t, seen[0].Prepend.IsLoading())
	assert.Equal(t, "error", string(seen[1].Prepend.Status))
	assert.Equal(t, errors.KindRequestTimeout, seen[1].Prepend.Err.Kind)

	failPage2.Store(false)
	pager.Retry(ctx)
	snap := pager.Snapshot()
	assert.Equal(t, "success", string(snap.Prepend.Status))
	assert.Equal(t, 2, snap.FirstPageKey)
}
