package qdrant

import (
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/graysonrie/vevtor/v1/vectorstore"
	qdrant "github.com/qdrant/go-client/qdrant"
)

// ── Point Conversion ─────────────────────────────────────────────────────────

func toPointStructs(points []vectorstore.Point) ([]*qdrant.PointStruct, error) {
	out := make([]*qdrant.PointStruct, 0, len(points))
	for _, p := range points {
		payload, err := toQdrantPayload(p.Payload)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", p.ID, err)
		}
		out = append(out, &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(p.ID),
			Vectors: qdrant.NewVectors(p.Vector...),
			Payload: payload,
		})
	}
	return out, nil
}

func toPointIDs(ids []uint64) []*qdrant.PointId {
	out := make([]*qdrant.PointId, 0, len(ids))
	for _, id := range ids {
		out = append(out, qdrant.NewIDNum(id))
	}
	return out
}

// ── Payload Conversion ───────────────────────────────────────────────────────

// toQdrantPayload converts a generic payload to Qdrant values. Supported
// leaves are nil, bool, string, every integer and float kind; maps with
// string keys and slices are converted recursively.
func toQdrantPayload(payload map[string]any) (map[string]*qdrant.Value, error) {
	if payload == nil {
		return nil, nil
	}
	out := make(map[string]*qdrant.Value, len(payload))
	for k, v := range payload {
		val, err := toQdrantValue(v)
		if err != nil {
			return nil, fmt.Errorf("payload field %q: %w", k, err)
		}
		out[k] = val
	}
	return out, nil
}

func toQdrantValue(v any) (*qdrant.Value, error) {
	switch val := v.(type) {
	case nil:
		return &qdrant.Value{Kind: &qdrant.Value_NullValue{NullValue: qdrant.NullValue_NULL_VALUE}}, nil
	case bool:
		return &qdrant.Value{Kind: &qdrant.Value_BoolValue{BoolValue: val}}, nil
	case string:
		return &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: val}}, nil
	case int:
		return intValue(int64(val)), nil
	case int8:
		return intValue(int64(val)), nil
	case int16:
		return intValue(int64(val)), nil
	case int32:
		return intValue(int64(val)), nil
	case int64:
		return intValue(val), nil
	case uint:
		return uintValue(uint64(val)), nil
	case uint8:
		return intValue(int64(val)), nil
	case uint16:
		return intValue(int64(val)), nil
	case uint32:
		return intValue(int64(val)), nil
	case uint64:
		return uintValue(val), nil
	case float32:
		return doubleValue(float64(val)), nil
	case float64:
		return doubleValue(val), nil
	case map[string]any:
		fields, err := toQdrantPayload(val)
		if err != nil {
			return nil, err
		}
		return &qdrant.Value{Kind: &qdrant.Value_StructValue{StructValue: &qdrant.Struct{Fields: fields}}}, nil
	case []any:
		return listValue(len(val), func(i int) any { return val[i] })
	case []string:
		return listValue(len(val), func(i int) any { return val[i] })
	}

	// Typed slices such as []int64 or []float64.
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		return listValue(rv.Len(), func(i int) any { return rv.Index(i).Interface() })
	}

	return nil, fmt.Errorf("unsupported payload value type %T", v)
}

func intValue(i int64) *qdrant.Value {
	return &qdrant.Value{Kind: &qdrant.Value_IntegerValue{IntegerValue: i}}
}

// uintValue keeps values above MaxInt64 as decimal strings, since Qdrant
// integers are signed. indexable.DecodePayload reads them back exactly.
func uintValue(u uint64) *qdrant.Value {
	if u > math.MaxInt64 {
		return &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: strconv.FormatUint(u, 10)}}
	}
	return intValue(int64(u))
}

func doubleValue(f float64) *qdrant.Value {
	return &qdrant.Value{Kind: &qdrant.Value_DoubleValue{DoubleValue: f}}
}

func listValue(n int, at func(int) any) (*qdrant.Value, error) {
	values := make([]*qdrant.Value, n)
	for i := 0; i < n; i++ {
		item, err := toQdrantValue(at(i))
		if err != nil {
			return nil, fmt.Errorf("list item %d: %w", i, err)
		}
		values[i] = item
	}
	return &qdrant.Value{Kind: &qdrant.Value_ListValue{ListValue: &qdrant.ListValue{Values: values}}}, nil
}

// ── Result Conversion ────────────────────────────────────────────────────────

// parseScoredPoints converts a Qdrant query response. Points with UUID ids
// are rejected because every point this package writes has a numeric id.
func parseScoredPoints(resp []*qdrant.ScoredPoint) ([]vectorstore.ScoredPayload, error) {
	results := make([]vectorstore.ScoredPayload, 0, len(resp))
	for _, r := range resp {
		id, err := extractPointID(r.GetId())
		if err != nil {
			return nil, err
		}
		results = append(results, vectorstore.ScoredPayload{
			ID:      id,
			Score:   r.GetScore(),
			Payload: fromQdrantPayload(r.GetPayload()),
		})
	}
	return results, nil
}

func extractPointID(id *qdrant.PointId) (uint64, error) {
	if id == nil {
		return 0, fmt.Errorf("nil point ID")
	}
	switch v := id.PointIdOptions.(type) {
	case *qdrant.PointId_Num:
		return v.Num, nil
	default:
		return 0, fmt.Errorf("unexpected PointId type: %T", v)
	}
}

// fromQdrantPayload converts Qdrant's protobuf payload to a generic map.
// Integers come back as int64 and doubles as float64, matching what
// indexable.PayloadOf produces.
func fromQdrantPayload(payload map[string]*qdrant.Value) map[string]any {
	if payload == nil {
		return map[string]any{}
	}
	result := make(map[string]any, len(payload))
	for k, v := range payload {
		result[k] = fromQdrantValue(v)
	}
	return result
}

func fromQdrantValue(v *qdrant.Value) any {
	if v == nil {
		return nil
	}
	switch val := v.Kind.(type) {
	case *qdrant.Value_StringValue:
		return val.StringValue
	case *qdrant.Value_IntegerValue:
		return val.IntegerValue
	case *qdrant.Value_DoubleValue:
		return val.DoubleValue
	case *qdrant.Value_BoolValue:
		return val.BoolValue
	case *qdrant.Value_NullValue:
		return nil
	case *qdrant.Value_StructValue:
		if val.StructValue == nil {
			return nil
		}
		return fromQdrantPayload(val.StructValue.Fields)
	case *qdrant.Value_ListValue:
		if val.ListValue == nil {
			return nil
		}
		items := make([]any, len(val.ListValue.Values))
		for i, item := range val.ListValue.Values {
			items[i] = fromQdrantValue(item)
		}
		return items
	default:
		return nil
	}
}
