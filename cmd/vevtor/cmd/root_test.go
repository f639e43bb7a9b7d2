package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/graysonrie/vevtor/v1/indexable"
	"github.com/graysonrie/vevtor/v1/logger"
	"github.com/graysonrie/vevtor/v1/observability"
	"github.com/graysonrie/vevtor/v1/service"
	"github.com/graysonrie/vevtor/v1/vectorstore"
	"github.com/graysonrie/vevtor/v1/vectorstore/vectorstoretest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lengthEmbedder struct{}

func (lengthEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	return []float32{float32(len(text)), 1}, nil
}

func (e lengthEmbedder) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i], _ = e.Embed(ctx, t)
	}
	return out, nil
}

func (lengthEmbedder) Dimensions() uint64 { return 2 }

// ctxEmbedder fails once its context is done, like a remote generator would.
type ctxEmbedder struct{ lengthEmbedder }

func (e ctxEmbedder) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.lengthEmbedder.EmbedMany(ctx, texts)
}

// cancelOnEOF cancels a context once the wrapped reader is exhausted.
type cancelOnEOF struct {
	r      io.Reader
	cancel context.CancelFunc
}

func (c cancelOnEOF) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if errors.Is(err, io.EOF) {
		c.cancel()
	}
	return n, err
}

// useStore makes every command run against store.
func useStore(t *testing.T, store *vectorstoretest.Store) {
	t.Helper()
	prev := openApp
	openApp = func(_ context.Context, cfg service.Config) (*app, error) {
		return &app{
			cfg:     cfg,
			svc:     service.New(store, lengthEmbedder{}, cfg.Index),
			log:     logger.NewNop(),
			cleanup: func() error { return nil },
		}, nil
	}
	t.Cleanup(func() { openApp = prev })
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestHealthCmd(t *testing.T) {
	useStore(t, vectorstoretest.New())

	out, _, err := execute(t, "", "health")
	require.NoError(t, err)
	assert.Contains(t, out, "vectorstoretest test")
}

func TestCollectionsCmd(t *testing.T) {
	useStore(t, vectorstoretest.New("notes", "files"))

	out, _, err := execute(t, "", "collections")
	require.NoError(t, err)
	assert.Equal(t, "files\nnotes\n", out)

	out, _, err = execute(t, "", "collections", "--json")
	require.NoError(t, err)
	var names []string
	require.NoError(t, json.Unmarshal([]byte(out), &names))
	assert.Equal(t, []string{"files", "notes"}, names)
}

func TestResetCmdNeedsConfirmation(t *testing.T) {
	store := vectorstoretest.New("notes")
	useStore(t, store)

	_, _, err := execute(t, "", "reset")
	assert.ErrorIs(t, err, errResetNotConfirmed)
	assert.Empty(t, store.DeletedCollections())

	out, _, err := execute(t, "", "reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "All collections deleted")
	assert.Equal(t, []string{"notes"}, store.DeletedCollections())
}

func TestDeleteCmd(t *testing.T) {
	store := vectorstoretest.New("notes")
	useStore(t, store)

	_, _, err := execute(t, "", "delete", "--collection", "notes", "--key", "a.md", "--key", "b.md", "--id", "42")
	require.NoError(t, err)

	deletes := store.Deletes()
	require.Len(t, deletes, 2)
	assert.ElementsMatch(t, []uint64{indexable.StringID("a.md"), indexable.StringID("b.md")}, deletes[0].IDs)
	assert.Equal(t, []uint64{42}, deletes[1].IDs)
}

func TestDeleteCmdValidation(t *testing.T) {
	useStore(t, vectorstoretest.New("notes"))

	_, _, err := execute(t, "", "delete", "--key", "a.md")
	assert.Error(t, err)

	_, _, err = execute(t, "", "delete", "--collection", "notes")
	assert.ErrorContains(t, err, "nothing to delete")
}

func TestDeleteCmdReportsBackendFailure(t *testing.T) {
	store := vectorstoretest.New("notes")
	store.FailOn(vectorstoretest.OpDelete, "notes", errors.New("unavailable"))
	useStore(t, store)

	_, _, err := execute(t, "", "delete", "--collection", "notes", "--id", "1")
	assert.ErrorContains(t, err, "unavailable")
}

func TestIndexCmdReadsJSONLines(t *testing.T) {
	store := vectorstoretest.New()
	useStore(t, store)

	input := strings.Join([]string{
		`{"key":"a.md","collection":"notes","text":"alpha"}`,
		`{"key":`,
		`{"key":"b.md","collection":"notes","text":"beta","metadata":{"lang":"en"}}`,
		``,
		`{"key":"c.go","collection":"code","text":"package main"}`,
	}, "\n")

	out, errOut, err := execute(t, input, "index")
	require.NoError(t, err)
	assert.Contains(t, out, "Indexed 3 document(s) in 1 batch(es), 1 skipped, 0 failed")
	assert.Contains(t, errOut, "line 2:")

	notes := store.Points("notes")
	require.Len(t, notes, 2)
	b := notes[indexable.StringID("b.md")]
	assert.Equal(t, "beta", b.Payload["text"])
	assert.Equal(t, map[string]any{"lang": "en"}, b.Payload["metadata"])
	assert.Len(t, store.Points("code"), 1)
}

func TestIndexCmdReportsFailedBatches(t *testing.T) {
	store := vectorstoretest.New("notes")
	store.FailOn(vectorstoretest.OpUpsert, "notes", errors.New("disk full"))
	useStore(t, store)

	out, _, err := execute(t, `{"key":"a.md","collection":"notes","text":"alpha"}`, "index")
	require.Error(t, err)
	assert.Contains(t, out, "1 failed")
}

func TestIndexFlushesAfterInterrupt(t *testing.T) {
	store := vectorstoretest.New()
	cfg := service.DefaultConfig()
	a := &app{
		cfg:     cfg,
		svc:     service.New(store, ctxEmbedder{}, cfg.Index),
		log:     logger.NewNop(),
		cleanup: func() error { return nil },
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	in := cancelOnEOF{
		r: strings.NewReader(`{"key":"a.md","collection":"notes","text":"alpha"}` + "\n" +
			`{"key":"b.md","collection":"notes","text":"beta"}` + "\n"),
		cancel: cancel,
	}

	var stdout bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(io.Discard)

	require.NoError(t, runIndex(ctx, cmd, a, in))
	require.Error(t, ctx.Err())
	assert.Contains(t, stdout.String(), "Indexed 2 document(s) in 1 batch(es), 0 skipped, 0 failed")
	assert.Len(t, store.Points("notes"), 2)
}

func TestSearchCmdPrintsJSONLines(t *testing.T) {
	store := vectorstoretest.New("notes")
	store.SetSearchResults("notes", []vectorstore.ScoredPayload{
		{ID: 1, Score: 0.9, Payload: indexable.Payload{"key": "a.md", "text": "alpha"}},
		{ID: 2, Score: 0.4, Payload: indexable.Payload{"key": "b.md", "text": "beta"}},
	})
	useStore(t, store)

	out, _, err := execute(t, "", "search", "--collection", "notes", "-k", "1", "alpha", "notes")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1)

	var got searchResult
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &got))
	assert.Equal(t, uint64(1), got.ID)
	assert.Equal(t, "a.md", got.Payload["key"])

	searches := store.Searches()
	require.Len(t, searches, 1)
	assert.Equal(t, uint64(1), searches[0].TopK)
	assert.Equal(t, float32(len("alpha notes")), searches[0].Vector[0])
}

func TestUnavailableGenerator(t *testing.T) {
	cause := errors.New("missing EMBEDDING_ENDPOINT")
	gen := unavailableGenerator{err: cause}

	_, err := gen.EmbedMany(context.Background(), []string{"x"})
	assert.ErrorIs(t, err, cause)
	assert.Zero(t, gen.Dimensions())
}

func TestRunConsumeFlushesWorker(t *testing.T) {
	store := vectorstoretest.New()
	cfg := service.DefaultConfig()
	a := &app{
		cfg:     cfg,
		svc:     service.New(store, lengthEmbedder{}, cfg.Index),
		log:     logger.NewNop(),
		cleanup: func() error { return nil },
	}

	err := runConsume(context.Background(), a, func(ctx context.Context, _ *app, sender docSender, _ observability.Observer) error {
		for _, key := range []string{"a", "b", "c"} {
			doc := Document{Key: key, Collection: "stream", Text: "text " + key}
			if err := sender.Send(ctx, indexable.Wrap(doc)); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, store.Points("stream"), 3)
}

func TestRunConsumeFlushesAfterInterrupt(t *testing.T) {
	store := vectorstoretest.New()
	cfg := service.DefaultConfig()
	a := &app{
		cfg:     cfg,
		svc:     service.New(store, ctxEmbedder{}, cfg.Index),
		log:     logger.NewNop(),
		cleanup: func() error { return nil },
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := runConsume(ctx, a, func(ctx context.Context, _ *app, sender docSender, _ observability.Observer) error {
		doc := Document{Key: "a", Collection: "stream", Text: "text a"}
		if err := sender.Send(ctx, indexable.Wrap(doc)); err != nil {
			return err
		}
		cancel()
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, store.Points("stream"), 1)
}

func TestRunConsumeReturnsSourceError(t *testing.T) {
	cfg := service.DefaultConfig()
	a := &app{
		cfg: cfg,
		svc: service.New(vectorstoretest.New(), lengthEmbedder{}, cfg.Index),
		log: logger.NewNop(),
	}
	broken := errors.New("broker unreachable")

	err := runConsume(context.Background(), a, func(context.Context, *app, docSender, observability.Observer) error {
		return broken
	})
	assert.ErrorIs(t, err, broken)
}
