package indexable

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// TagName is the struct tag read by Wrap.
const TagName = "vevtor"

// Tag values recognised by Wrap.
const (
	TagID         = "id"
	TagCollection = "collection"
	TagEmbed      = "embed"
)

// Tagged adapts any struct annotated with `vevtor` tags to Indexable,
// so record types do not need a hand-written adapter:
//
//	type File struct {
//	    Name       string `json:"name" vevtor:"id,embed"`
//	    ParentDir  string `json:"parent_dir"`
//	    Collection string `json:"collection" vevtor:"collection"`
//	}
//
//	item := indexable.Wrap(File{Name: "a.txt", Collection: "files"})
//
// A string id field is hashed with StringID, integer id fields are used
// as-is. The payload is the JSON form of the struct.
type Tagged[T any] struct {
	Value  T
	fields *taggedFields
}

type taggedFields struct {
	id         []int
	collection []int
	embed      []int
}

var taggedCache sync.Map

// Wrap returns the Indexable view of v. It panics if T is not a struct
// carrying all three tags, since that is a programming error.
func Wrap[T any](v T) Tagged[T] {
	return Tagged[T]{Value: v, fields: fieldsOf(reflect.TypeOf(v))}
}

// WrapAll wraps every element of vs.
func WrapAll[T any](vs []T) []Tagged[T] {
	out := make([]Tagged[T], len(vs))
	for i, v := range vs {
		out[i] = Wrap(v)
	}
	return out
}

// TaggedDecoder returns the decoder matching Wrap: the payload is decoded
// back into T and wrapped again.
func TaggedDecoder[T any]() Decoder[Tagged[T]] {
	return func(p Payload) (Tagged[T], error) {
		v, err := DecodePayload[T](p)
		if err != nil {
			return Tagged[T]{}, err
		}
		return Wrap(v), nil
	}
}

func (t Tagged[T]) ID() uint64 {
	f := t.field(t.fields.id)
	switch f.Kind() {
	case reflect.String:
		return StringID(f.String())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return f.Uint()
	default:
		return uint64(f.Int())
	}
}

func (t Tagged[T]) Collection() string {
	return t.field(t.fields.collection).String()
}

func (t Tagged[T]) EmbedLabel() string {
	return t.field(t.fields.embed).String()
}

func (t Tagged[T]) AsPayload() Payload {
	return PayloadOf(t.Value)
}

func (t Tagged[T]) field(index []int) reflect.Value {
	v := reflect.ValueOf(t.Value)
	for v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	return v.FieldByIndex(index)
}

func fieldsOf(t reflect.Type) *taggedFields {
	if cached, ok := taggedCache.Load(t); ok {
		return cached.(*taggedFields)
	}

	st := t
	for st != nil && st.Kind() == reflect.Pointer {
		st = st.Elem()
	}
	if st == nil || st.Kind() != reflect.Struct {
		panic(fmt.Sprintf("indexable: Wrap needs a struct type, got %v", t))
	}

	tf := &taggedFields{}
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		for _, tag := range splitTag(f.Tag.Get(TagName)) {
			switch tag {
			case TagID:
				if !isIDKind(f.Type.Kind()) {
					panic(fmt.Sprintf("indexable: %v.%s: id field must be a string or integer", st, f.Name))
				}
				tf.id = f.Index
			case TagCollection:
				mustBeString(st, f)
				tf.collection = f.Index
			case TagEmbed:
				mustBeString(st, f)
				tf.embed = f.Index
			}
		}
	}

	switch {
	case tf.id == nil:
		panic(fmt.Sprintf("indexable: %v has no field tagged %s:%q", st, TagName, TagID))
	case tf.collection == nil:
		panic(fmt.Sprintf("indexable: %v has no field tagged %s:%q", st, TagName, TagCollection))
	case tf.embed == nil:
		panic(fmt.Sprintf("indexable: %v has no field tagged %s:%q", st, TagName, TagEmbed))
	}

	actual, _ := taggedCache.LoadOrStore(t, tf)
	return actual.(*taggedFields)
}

func splitTag(tag string) []string {
	if tag == "" {
		return nil
	}
	return strings.Split(tag, ",")
}

func isIDKind(k reflect.Kind) bool {
	switch k {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func mustBeString(st reflect.Type, f reflect.StructField) {
	if f.Type.Kind() != reflect.String {
		panic(fmt.Sprintf("indexable: %v.%s: tagged field must be a string", st, f.Name))
	}
}
