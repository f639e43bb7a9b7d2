package ingest

import (
	"testing"

	"github.com/graysonrie/vevtor/v1/indexable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Key   string `json:"key" vevtor:"id"`
	Body  string `json:"body" vevtor:"embed"`
	Board string `json:"board" vevtor:"collection"`
}

func TestTaggedJSON(t *testing.T) {
	rec, err := TaggedJSON[doc]()([]byte(`{"key":"k1","body":"hello","board":"inbox"}`))
	require.NoError(t, err)
	assert.Equal(t, indexable.StringID("k1"), rec.ID())
	assert.Equal(t, "inbox", rec.Collection())
	assert.Equal(t, "hello", rec.EmbedLabel())
}

func TestJSONRejectsMalformedBody(t *testing.T) {
	_, err := JSON[doc]()([]byte(`{"key":`))
	assert.Error(t, err)
}
