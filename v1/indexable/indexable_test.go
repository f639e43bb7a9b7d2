package indexable

import (
	"errors"
	"math"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fileRecord struct {
	Name       string   `json:"name" vevtor:"id,embed"`
	ParentDir  string   `json:"parent_dir"`
	Collection string   `json:"collection" vevtor:"collection"`
	Size       int64    `json:"size"`
	Score      float64  `json:"score"`
	Tags       []string `json:"tags"`
	Note       *string  `json:"note"`
}

type ticket struct {
	Number uint64 `json:"number" vevtor:"id"`
	Title  string `json:"title" vevtor:"embed"`
	Board  string `json:"-" vevtor:"collection"`
}

// note is a hand-written adapter whose collection is not stored in the payload.
type note struct {
	Key   string
	Body  string
	Board string
}

func (n note) ID() uint64         { return StringID(n.Key) }
func (n note) Collection() string { return n.Board }
func (n note) EmbedLabel() string { return n.Body }
func (n note) AsPayload() Payload { return Payload{"key": n.Key, "body": n.Body} }

func (n *note) FromPayload(p Payload) error {
	key, ok := p["key"].(string)
	if !ok {
		return MissingField("key")
	}
	body, ok := p["body"].(string)
	if !ok {
		return MissingField("body")
	}
	n.Key, n.Body = key, body
	return nil
}

var _ Indexable = note{}
var _ Indexable = Tagged[fileRecord]{}

func TestTaggedRoundTrip(t *testing.T) {
	in := fileRecord{
		Name:       "report.pdf",
		ParentDir:  "/home/docs",
		Collection: "files",
		Size:       2048,
		Score:      0.5,
		Tags:       []string{"a", "b"},
	}

	payload := Wrap(in).AsPayload()
	out, err := TaggedDecoder[fileRecord]()(payload)
	require.NoError(t, err)
	assert.Equal(t, in, out.Value)
}

func TestTaggedAccessors(t *testing.T) {
	f := Wrap(fileRecord{Name: "report.pdf", Collection: "files"})
	assert.Equal(t, StringID("report.pdf"), f.ID())
	assert.Equal(t, "files", f.Collection())
	assert.Equal(t, "report.pdf", f.EmbedLabel())

	tk := Wrap(ticket{Number: 42, Title: "broken build", Board: "ops"})
	assert.Equal(t, uint64(42), tk.ID())
	assert.Equal(t, "ops", tk.Collection())
	assert.Equal(t, "broken build", tk.EmbedLabel())
}

func TestTaggedExcludedFieldIsNotStored(t *testing.T) {
	tk := Wrap(ticket{Number: 7, Title: "t", Board: "ops"})
	p := tk.AsPayload()
	assert.NotContains(t, p, "Board")

	out, err := TaggedDecoder[ticket]()(p)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), out.Value.Number)
	assert.Equal(t, "t", out.Value.Title)
	assert.Empty(t, out.Value.Board)
}

func TestWrapPanicsWithoutTags(t *testing.T) {
	type untagged struct{ Name string }
	assert.Panics(t, func() { Wrap(untagged{Name: "x"}) })
	assert.Panics(t, func() { Wrap(42) })
}

func TestPayloadOfNumbers(t *testing.T) {
	p := PayloadOf(fileRecord{Name: "a", Size: 10, Score: 1.25})
	assert.Equal(t, int64(10), p["size"])
	assert.Equal(t, 1.25, p["score"])
	assert.Nil(t, p["note"])
}

type hashedRecord struct {
	Key    string            `json:"key" vevtor:"id,embed"`
	Hash   uint64            `json:"hash"`
	Parent *uint64           `json:"parent"`
	Seen   []uint64          `json:"seen"`
	ByName map[string]uint64 `json:"by_name"`
	Ratio  float64           `json:"ratio"`
	Board  string            `json:"board" vevtor:"collection"`
}

func TestLargeUnsignedValuesRoundTrip(t *testing.T) {
	const big = uint64(math.MaxUint64 - 12345)
	parent := StringID("parent") | 1<<63
	in := hashedRecord{
		Key:    "a.md",
		Hash:   big,
		Parent: &parent,
		Seen:   []uint64{1, big},
		ByName: map[string]uint64{"x": big},
		Ratio:  1e19,
		Board:  "files",
	}

	p := Wrap(in).AsPayload()
	assert.Equal(t, "18446744073709539270", p["hash"])

	out, err := TaggedDecoder[hashedRecord]()(p)
	require.NoError(t, err)
	assert.Equal(t, in, out.Value)
	assert.Equal(t, "18446744073709539270", p["hash"], "decoding must not modify the payload")
}

func TestLargeUnsignedStringStaysStringForTextFields(t *testing.T) {
	type labelled struct {
		Label string `json:"label"`
	}
	out, err := DecodePayload[labelled](Payload{"label": "18446744073709539270"})
	require.NoError(t, err)
	assert.Equal(t, "18446744073709539270", out.Label)
}

func TestPayloadOfPanicsOnNonObject(t *testing.T) {
	assert.Panics(t, func() { PayloadOf(42) })
	assert.Panics(t, func() { PayloadOf(func() {}) })
}

func TestStringIDIsStable(t *testing.T) {
	keys := []string{"", "test", "report.pdf", "ünïcødé"}
	for _, k := range keys {
		assert.Equal(t, StringID(k), StringID(k))
		assert.Equal(t, xxhash.Sum64(append([]byte(k), 0xff)), StringID(k))
	}
	assert.NotEqual(t, StringID("a"), StringID("b"))
}

func TestDecodePayloadMissingField(t *testing.T) {
	_, err := DecodePayload[fileRecord](Payload{"name": "a", "collection": "files"})
	require.Error(t, err)

	var rerr *ReconstructionError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "parent_dir", rerr.Field)
	assert.True(t, errors.Is(err, ErrMissingField))
}

func TestDecodePayloadMistypedField(t *testing.T) {
	p := PayloadOf(fileRecord{Name: "a"})
	p["size"] = "not a number"

	_, err := DecodePayload[fileRecord](p)
	var rerr *ReconstructionError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "size", rerr.Field)
}

func TestDecoderForReconstructor(t *testing.T) {
	dec := DecoderFor[note]()

	in := note{Key: "k1", Body: "hello", Board: "inbox"}
	out, err := dec(in.AsPayload())
	require.NoError(t, err)
	assert.Equal(t, "k1", out.Key)
	assert.Equal(t, "hello", out.Body)
	assert.Empty(t, out.Board)

	_, err = dec(Payload{"key": "k1"})
	var rerr *ReconstructionError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "body", rerr.Field)
}

func TestDecoderForWrapsPlainErrors(t *testing.T) {
	dec := DecoderFor[failing]()
	_, err := dec(Payload{})

	var rerr *ReconstructionError
	require.ErrorAs(t, err, &rerr)
	assert.ErrorIs(t, err, errBoom)
}

var errBoom = errors.New("boom")

type failing struct{}

func (*failing) FromPayload(Payload) error { return errBoom }
