package indexable

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// PayloadOf serialises v to its generic JSON form and returns the
// top-level object as a Payload. Integral numbers are kept as int64,
// unsigned ones above the int64 range as their decimal string, all other
// numbers become float64. DecodePayload turns those strings back into
// numbers for numeric fields.
//
// It panics if v does not serialise to a JSON object: that means the
// record type and its adapter disagree, which is not a runtime condition.
func PayloadOf(v any) Payload {
	p, err := payloadOf(v)
	if err != nil {
		panic(fmt.Sprintf("indexable: cannot build payload for %T: %v", v, err))
	}
	return p
}

func payloadOf(v any) (Payload, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, err
	}

	obj, ok := generic.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected a JSON object, got %T", generic)
	}

	p := make(Payload, len(obj))
	for k, val := range obj {
		p[k] = normalizeNumbers(val)
	}
	return p, nil
}

// normalizeNumbers replaces json.Number values with int64, a decimal
// string for unsigned values past MaxInt64, or float64.
func normalizeNumbers(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if u, err := strconv.ParseUint(val.String(), 10, 64); err == nil {
			return strconv.FormatUint(u, 10)
		}
		f, _ := val.Float64()
		return f
	case map[string]any:
		for k, inner := range val {
			val[k] = normalizeNumbers(inner)
		}
		return val
	case []any:
		for i, inner := range val {
			val[i] = normalizeNumbers(inner)
		}
		return val
	default:
		return v
	}
}

// DecodePayload is the generic JSON-based Decoder. It rebuilds T from the
// payload and rejects payloads that lack any required field of T.
//
// A field is required unless it is a pointer, carries the omitempty
// option or is excluded with `json:"-"`.
func DecodePayload[T any](p Payload) (T, error) {
	var out T

	if missing := missingRequired(reflect.TypeOf(out), p); missing != "" {
		return out, MissingField(missing)
	}

	raw, err := json.Marshal(restoreNumbers(reflect.TypeOf(out), map[string]any(p)))
	if err != nil {
		return out, &ReconstructionError{Err: err}
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return out, &ReconstructionError{Field: typeErr.Field, Err: err}
		}
		return out, &ReconstructionError{Err: err}
	}
	return out, nil
}

// requiredCache maps reflect.Type to the []string of required JSON keys.
var requiredCache sync.Map

func missingRequired(t reflect.Type, p Payload) string {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return ""
	}

	keys, ok := requiredCache.Load(t)
	if !ok {
		keys, _ = requiredCache.LoadOrStore(t, requiredKeys(t))
	}

	for _, k := range keys.([]string) {
		if _, present := p[k]; !present {
			return k
		}
	}
	return ""
}

func requiredKeys(t reflect.Type) []string {
	var keys []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Anonymous {
			continue
		}
		name, opts, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" && opts == "" {
			continue
		}
		if strings.Contains(opts, "omitempty") || strings.Contains(opts, "omitzero") {
			continue
		}
		if f.Type.Kind() == reflect.Pointer {
			continue
		}
		if name == "" {
			name = f.Name
		}
		keys = append(keys, name)
	}
	return keys
}

// restoreNumbers returns a copy of v in which decimal strings sitting where
// t expects a number are turned back into numbers. It undoes the string
// form PayloadOf gives to large unsigned values.
func restoreNumbers(t reflect.Type, v any) any {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || v == nil {
		return v
	}

	switch t.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		if s, ok := v.(string); ok {
			if u, err := strconv.ParseUint(s, 10, 64); err == nil {
				return u
			}
		}
		return v

	case reflect.Struct:
		obj, ok := v.(map[string]any)
		if !ok {
			return v
		}
		fields := jsonFields(t)
		out := make(map[string]any, len(obj))
		for k, inner := range obj {
			if ft, ok := fields[k]; ok {
				out[k] = restoreNumbers(ft, inner)
			} else {
				out[k] = inner
			}
		}
		return out

	case reflect.Map:
		obj, ok := v.(map[string]any)
		if !ok {
			return v
		}
		out := make(map[string]any, len(obj))
		for k, inner := range obj {
			out[k] = restoreNumbers(t.Elem(), inner)
		}
		return out

	case reflect.Slice, reflect.Array:
		list, ok := v.([]any)
		if !ok {
			return v
		}
		out := make([]any, len(list))
		for i, inner := range list {
			out[i] = restoreNumbers(t.Elem(), inner)
		}
		return out
	}
	return v
}

// fieldsCache maps a struct reflect.Type to its map[string]reflect.Type of
// JSON keys.
var fieldsCache sync.Map

func jsonFields(t reflect.Type) map[string]reflect.Type {
	if cached, ok := fieldsCache.Load(t); ok {
		return cached.(map[string]reflect.Type)
	}

	fields := make(map[string]reflect.Type)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if f.Anonymous && name == "" {
			et := f.Type
			if et.Kind() == reflect.Pointer {
				et = et.Elem()
			}
			if et.Kind() == reflect.Struct {
				for k, ft := range jsonFields(et) {
					if _, taken := fields[k]; !taken {
						fields[k] = ft
					}
				}
				continue
			}
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		fields[name] = f.Type
	}

	actual, _ := fieldsCache.LoadOrStore(t, fields)
	return actual.(map[string]reflect.Type)
}
