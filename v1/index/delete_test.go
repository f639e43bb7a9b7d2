package index

import (
	"context"
	"errors"
	"testing"

	"github.com/graysonrie/vevtor/v1/indexable"
	"github.com/graysonrie/vevtor/v1/vectorstore/vectorstoretest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteManyGroupsByCollection(t *testing.T) {
	store := vectorstoretest.New("files", "docs")
	m, _ := newTestManager(store)

	err := m.DeleteMany(context.Background(), []Key{
		{Collection: "files", ID: 10},
		{Collection: "docs", ID: 20},
		{Collection: "files", ID: 30},
	})
	require.NoError(t, err)

	deletes := store.Deletes()
	require.Len(t, deletes, 2)
	byCollection := map[string][]uint64{}
	for _, d := range deletes {
		byCollection[d.Collection] = d.IDs
	}
	assert.Equal(t, []uint64{10, 30}, byCollection["files"])
	assert.Equal(t, []uint64{20}, byCollection["docs"])
}

func TestDeleteManyIsolatesFailures(t *testing.T) {
	store := vectorstoretest.New("files", "docs")
	boom := errors.New("denied")
	store.FailOn(vectorstoretest.OpDelete, "files", boom)
	m, _ := newTestManager(store)

	require.NoError(t, m.InsertMany(context.Background(), append(files("files", "a"), files("docs", "b")...)))

	err := m.DeleteMany(context.Background(), []Key{
		{Collection: "files", ID: 1},
		{Collection: "docs", ID: indexable.StringID("b")},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	cerrs := CollectionErrors(err)
	require.Len(t, cerrs, 1)
	assert.Equal(t, "files", cerrs[0].Collection)
	assert.Equal(t, OpDelete, cerrs[0].Op)
	assert.Empty(t, store.Points("docs"))
}

func TestDeleteManyEmptyIsNoop(t *testing.T) {
	store := vectorstoretest.New()
	m, _ := newTestManager(store)
	require.NoError(t, m.DeleteMany(context.Background(), nil))
	assert.Empty(t, store.Deletes())
}

func TestResetAllDeletesEveryCollection(t *testing.T) {
	store := vectorstoretest.New("files", "docs", "notes")
	boom := errors.New("locked")
	store.FailOn(vectorstoretest.OpDeleteCollection, "docs", boom)
	m, _ := newTestManager(store)
	ctx := context.Background()

	require.NoError(t, m.RefreshCollections(ctx))
	require.Len(t, m.KnownCollections(), 3)

	err := m.ResetAll(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	assert.ElementsMatch(t, []string{"files", "docs", "notes"}, store.DeletedCollections())
	assert.Equal(t, []string{"docs"}, m.KnownCollections())

	names, err := store.ListCollections(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"docs"}, names)
}

func TestResetAllListFailure(t *testing.T) {
	store := vectorstoretest.New("files")
	boom := errors.New("unavailable")
	store.FailOn(vectorstoretest.OpList, "", boom)
	m, _ := newTestManager(store)

	assert.ErrorIs(t, m.ResetAll(context.Background()), boom)
	assert.Empty(t, store.DeletedCollections())
}
