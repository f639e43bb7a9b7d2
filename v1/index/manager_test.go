package index

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/graysonrie/vevtor/v1/embedding"
	"github.com/graysonrie/vevtor/v1/indexable"
	"github.com/graysonrie/vevtor/v1/observability"
	"github.com/graysonrie/vevtor/v1/vectorstore"
	"github.com/graysonrie/vevtor/v1/vectorstore/vectorstoretest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type file struct {
	Name       string `json:"name" vevtor:"id,embed"`
	ParentDir  string `json:"parent_dir"`
	Collection string `json:"collection" vevtor:"collection"`
}

func files(collection string, names ...string) []indexable.Indexable {
	out := make([]indexable.Indexable, len(names))
	for i, n := range names {
		out[i] = indexable.Wrap(file{Name: n, ParentDir: "/tmp", Collection: collection})
	}
	return out
}

// fakeEmbedder returns a vector whose first element is the label length.
type fakeEmbedder struct {
	dim uint64

	mu    sync.Mutex
	calls [][]string
}

func (f *fakeEmbedder) vector(text string) []float32 {
	v := make([]float32, f.dim)
	v[0] = float32(len(text))
	return v
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	return f.vector(text), nil
}

func (f *fakeEmbedder) EmbedMany(_ context.Context, texts []string) ([][]float32, error) {
	f.mu.Lock()
	f.calls = append(f.calls, texts)
	f.mu.Unlock()

	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = f.vector(t)
	}
	return out, nil
}

func (f *fakeEmbedder) Dimensions() uint64 { return f.dim }

var _ embedding.Generator = (*fakeEmbedder)(nil)

// recordingObserver keeps every notification.
type recordingObserver struct {
	mu  sync.Mutex
	ops []observability.OperationContext
}

func (r *recordingObserver) ObserveOperation(ctx observability.OperationContext) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, ctx)
}

func (r *recordingObserver) find(operation string) []observability.OperationContext {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []observability.OperationContext
	for _, op := range r.ops {
		if op.Operation == operation {
			out = append(out, op)
		}
	}
	return out
}

func newTestManager(store vectorstore.Store) (*Manager, *fakeEmbedder) {
	gen := &fakeEmbedder{dim: 3}
	return NewManager(store, gen, DefaultConfig()), gen
}

func TestGroupByCollectionPartitionsExactly(t *testing.T) {
	items := append(files("files", "a", "b"), files("docs", "c")...)
	items = append(items, files("files", "d")...)
	items = append(items, files("Files", "e")...)

	groups := GroupByCollection(items)
	require.Len(t, groups, 3)

	assert.Equal(t, "files", groups[0].Collection)
	assert.Equal(t, []int{0, 1, 3}, groups[0].Indices)
	assert.Equal(t, "docs", groups[1].Collection)
	assert.Equal(t, []int{2}, groups[1].Indices)
	assert.Equal(t, "Files", groups[2].Collection)
	assert.Equal(t, []int{4}, groups[2].Indices)

	seen := 0
	for _, g := range groups {
		seen += len(g.Indices)
	}
	assert.Equal(t, len(items), seen)
}

func TestInsertManyCreatesEachCollectionOnce(t *testing.T) {
	store := vectorstoretest.New()
	m, gen := newTestManager(store)

	var names []string
	for i := range 200 {
		names = append(names, fmt.Sprintf("f%03d", i))
	}
	items := append(files("files", names...), files("docs", "x", "y")...)

	require.NoError(t, m.InsertMany(context.Background(), items))

	assert.ElementsMatch(t, []string{"files", "docs"}, store.Creates())
	require.Len(t, gen.calls, 1)
	assert.Len(t, gen.calls[0], 202)

	upserts := store.Upserts()
	require.Len(t, upserts, 2)
	for _, u := range upserts {
		switch u.Collection {
		case "files":
			require.Len(t, u.Points, 200)
			assert.Equal(t, indexable.StringID("f000"), u.Points[0].ID)
			assert.Equal(t, indexable.StringID("f199"), u.Points[199].ID)
		case "docs":
			require.Len(t, u.Points, 2)
			assert.Equal(t, "x", u.Points[0].Payload["name"])
		default:
			t.Fatalf("unexpected collection %q", u.Collection)
		}
	}

	dim, ok := store.Dimension("files")
	require.True(t, ok)
	assert.Equal(t, uint64(3), dim)
}

func TestInsertManyCacheHitSkipsRemoteCalls(t *testing.T) {
	store := vectorstoretest.New("files")
	m, _ := newTestManager(store)
	ctx := context.Background()

	require.NoError(t, m.RefreshCollections(ctx))
	assert.Equal(t, []string{"files"}, m.KnownCollections())

	require.NoError(t, m.InsertMany(ctx, files("files", "a")))
	require.NoError(t, m.InsertMany(ctx, files("files", "b")))

	assert.Equal(t, 1, store.Lists())
	assert.Empty(t, store.Creates())
	assert.Len(t, store.Points("files"), 2)
}

func TestInsertManyDoesNotCacheCreatedCollection(t *testing.T) {
	store := vectorstoretest.New()
	m, _ := newTestManager(store)
	ctx := context.Background()

	require.NoError(t, m.InsertMany(ctx, files("files", "a")))
	assert.NotContains(t, m.KnownCollections(), "files")
	assert.Equal(t, 1, store.Lists())

	// The next miss refreshes and finds the collection instead of creating it again.
	require.NoError(t, m.InsertMany(ctx, files("files", "b")))
	assert.Equal(t, 2, store.Lists())
	assert.Equal(t, []string{"files"}, store.Creates())
	assert.Contains(t, m.KnownCollections(), "files")
}

func TestInsertManyEmptyIsNoop(t *testing.T) {
	store := vectorstoretest.New()
	m, gen := newTestManager(store)

	require.NoError(t, m.InsertMany(context.Background(), nil))
	assert.Empty(t, gen.calls)
	assert.Zero(t, store.Lists())
}

func TestInsertManyEmbeddingFailureWritesNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := embedding.NewMockGenerator(ctrl)
	boom := errors.New("inference down")
	gen.EXPECT().EmbedMany(gomock.Any(), []string{"a", "b"}).Return(nil, boom)

	store := vectorstoretest.New()
	m := NewManager(store, gen, DefaultConfig())

	err := m.InsertMany(context.Background(), files("files", "a", "b"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmbedding)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, store.Upserts())
	assert.Zero(t, store.Lists())
}

func TestInsertManyRejectsShortEmbeddingResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := embedding.NewMockGenerator(ctrl)
	gen.EXPECT().EmbedMany(gomock.Any(), gomock.Any()).Return([][]float32{{1}}, nil)

	store := vectorstoretest.New()
	m := NewManager(store, gen, DefaultConfig())

	err := m.InsertMany(context.Background(), files("files", "a", "b"))
	assert.ErrorIs(t, err, ErrEmbedding)
	assert.Empty(t, store.Upserts())
}

func TestInsertManyIsolatesCollectionFailures(t *testing.T) {
	store := vectorstoretest.New("files", "docs", "notes")
	boom := errors.New("disk full")
	store.FailOn(vectorstoretest.OpUpsert, "docs", boom)
	store.FailOn(vectorstoretest.OpCreate, "broken", errors.New("forbidden"))

	m, _ := newTestManager(store)
	items := append(files("files", "a"), files("docs", "b")...)
	items = append(items, files("broken", "c")...)
	items = append(items, files("notes", "d")...)

	err := m.InsertMany(context.Background(), items)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	cerrs := CollectionErrors(err)
	require.Len(t, cerrs, 2)
	assert.Equal(t, "docs", cerrs[0].Collection)
	assert.Equal(t, OpUpsert, cerrs[0].Op)
	assert.Equal(t, "broken", cerrs[1].Collection)
	assert.Equal(t, OpEnsure, cerrs[1].Op)

	assert.Len(t, store.Points("files"), 1)
	assert.Len(t, store.Points("notes"), 1)
}

func TestEnsureCollectionCoalescesConcurrentCallers(t *testing.T) {
	store := vectorstoretest.New()
	m, _ := newTestManager(store)

	var wg sync.WaitGroup
	errs := make([]error, 20)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = m.EnsureCollection(context.Background(), "shared")
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"shared"}, store.Creates())
}

func TestEnsureCollectionRefreshFailure(t *testing.T) {
	store := vectorstoretest.New()
	boom := errors.New("unavailable")
	store.FailOn(vectorstoretest.OpList, "", boom)
	m, _ := newTestManager(store)

	err := m.EnsureCollection(context.Background(), "files")
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, store.Creates())
}

func TestInsertManyReportsToObserver(t *testing.T) {
	store := vectorstoretest.New("files")
	obs := &recordingObserver{}
	m, _ := newTestManager(store)
	m.WithObserver(obs)

	require.NoError(t, m.InsertMany(context.Background(), files("files", "a", "b")))

	upserts := obs.find("upsert")
	require.Len(t, upserts, 1)
	assert.Equal(t, "index", upserts[0].Component)
	assert.Equal(t, "files", upserts[0].Resource)
	assert.Equal(t, int64(2), upserts[0].Size)
	assert.NoError(t, upserts[0].Error)

	require.Len(t, obs.find("embed"), 1)
}

func TestWithLoggerNilFallsBackToNop(t *testing.T) {
	m, _ := newTestManager(vectorstoretest.New())
	assert.Same(t, m, m.WithLogger(nil))
	assert.NotNil(t, m.logger)
}
