package uavalue

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// BuiltinType tags which OPC UA built-in type a Variant's Value holds.
type BuiltinType uint8

const (
	Boolean BuiltinType = iota
	Byte
	SByte
	Int16
	UInt16
	Int32
	UInt32
	Int64
	UInt64
	Float
	Double
	String
	DateTime
	Guid
	ByteString
	LocalizedTextType
)

func (t BuiltinType) String() string {
	names := [...]string{
		"Boolean", "Byte", "SByte", "Int16", "UInt16", "Int32", "UInt32",
		"Int64", "UInt64", "Float", "Double", "String", "DateTime", "Guid",
		"ByteString", "LocalizedText",
	}
	if int(t) < len(names) {
		return names[t]
	}
	return "Unknown"
}

// ScalarValueRank is the valueRank convention for a scalar attribute, per
// OPC UA Part 3. Array dimensionality uses rank >= 0 (0 meaning a
// one-dimensional array of unknown length, 1+ giving the dimension count).
const ScalarValueRank int32 = -1

// LocalizedText is a (locale, text) pair used for DisplayName and
// Description attributes.
type LocalizedText struct {
	Locale string
	Text   string
}

func (l LocalizedText) String() string {
	if l.Locale == "" {
		return l.Text
	}
	return fmt.Sprintf("[%s] %s", l.Locale, l.Text)
}

// Variant is a tagged scalar-or-array attribute value. Value holds a Go
// value of the type named by Type: the scalar Go type directly (bool,
// byte, int16, ..., string, time.Time, LocalizedText) when Rank ==
// ScalarValueRank, or a slice of that type when Rank >= 0.
type Variant struct {
	Type            BuiltinType
	Rank            int32
	ArrayDimensions []uint32
	Value           any
}

// IsScalar reports whether v holds a single value rather than an array.
func (v Variant) IsScalar() bool {
	return v.Rank == ScalarValueRank
}

// variantWire is Variant's JSON wire shape: Value travels as a raw
// message so MarshalJSON/UnmarshalJSON can decode it into the concrete
// Go type Type names instead of letting encoding/json guess (which
// turns every number into float64 and every struct into
// map[string]interface{}).
type variantWire struct {
	Type            BuiltinType
	Rank            int32
	ArrayDimensions []uint32
	Value           json.RawMessage
}

// MarshalJSON serializes v with Value encoded as its concrete Go type
// so UnmarshalJSON can recover it exactly.
func (v Variant) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(v.Value)
	if err != nil {
		return nil, fmt.Errorf("uavalue: marshal value for %s: %w", v.Type, err)
	}
	return json.Marshal(variantWire{
		Type:            v.Type,
		Rank:            v.Rank,
		ArrayDimensions: v.ArrayDimensions,
		Value:           raw,
	})
}

// UnmarshalJSON decodes a Variant previously produced by MarshalJSON,
// switching on the wire's Type tag to decode Value into the scalar Go
// type (or, for an array, a slice of it) that Type names rather than
// encoding/json's untyped defaults.
func (v *Variant) UnmarshalJSON(data []byte) error {
	var wire variantWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	v.Type = wire.Type
	v.Rank = wire.Rank
	v.ArrayDimensions = wire.ArrayDimensions

	if len(wire.Value) == 0 || string(wire.Value) == "null" {
		v.Value = nil
		return nil
	}

	if wire.Rank == ScalarValueRank {
		val, err := decodeScalar(wire.Type, wire.Value)
		if err != nil {
			return fmt.Errorf("uavalue: decode scalar %s: %w", wire.Type, err)
		}
		v.Value = val
		return nil
	}

	val, err := decodeArray(wire.Type, wire.Value)
	if err != nil {
		return fmt.Errorf("uavalue: decode array %s: %w", wire.Type, err)
	}
	v.Value = val
	return nil
}

// decodeScalar unmarshals raw into the concrete Go type BuiltinType t
// holds as a scalar, returning it as an any so Variant.Value round-trips
// through JSON as the same type it was built with.
func decodeScalar(t BuiltinType, raw json.RawMessage) (any, error) {
	switch t {
	case Boolean:
		var x bool
		err := json.Unmarshal(raw, &x)
		return x, err
	case Byte:
		var x byte
		err := json.Unmarshal(raw, &x)
		return x, err
	case SByte:
		var x int8
		err := json.Unmarshal(raw, &x)
		return x, err
	case Int16:
		var x int16
		err := json.Unmarshal(raw, &x)
		return x, err
	case UInt16:
		var x uint16
		err := json.Unmarshal(raw, &x)
		return x, err
	case Int32:
		var x int32
		err := json.Unmarshal(raw, &x)
		return x, err
	case UInt32:
		var x uint32
		err := json.Unmarshal(raw, &x)
		return x, err
	case Int64:
		var x int64
		err := json.Unmarshal(raw, &x)
		return x, err
	case UInt64:
		var x uint64
		err := json.Unmarshal(raw, &x)
		return x, err
	case Float:
		var x float32
		err := json.Unmarshal(raw, &x)
		return x, err
	case Double:
		var x float64
		err := json.Unmarshal(raw, &x)
		return x, err
	case String:
		var x string
		err := json.Unmarshal(raw, &x)
		return x, err
	case DateTime:
		var x time.Time
		err := json.Unmarshal(raw, &x)
		return x, err
	case Guid:
		var x uuid.UUID
		err := json.Unmarshal(raw, &x)
		return x, err
	case ByteString:
		var x []byte
		err := json.Unmarshal(raw, &x)
		return x, err
	case LocalizedTextType:
		var x LocalizedText
		err := json.Unmarshal(raw, &x)
		return x, err
	default:
		return nil, fmt.Errorf("unknown builtin type %d", t)
	}
}

// decodeArray unmarshals raw into a slice of the concrete Go type
// BuiltinType t holds, mirroring decodeScalar for Rank >= 0 variants.
func decodeArray(t BuiltinType, raw json.RawMessage) (any, error) {
	switch t {
	case Boolean:
		var x []bool
		err := json.Unmarshal(raw, &x)
		return x, err
	case Byte:
		var x []byte
		err := json.Unmarshal(raw, &x)
		return x, err
	case SByte:
		var x []int8
		err := json.Unmarshal(raw, &x)
		return x, err
	case Int16:
		var x []int16
		err := json.Unmarshal(raw, &x)
		return x, err
	case UInt16:
		var x []uint16
		err := json.Unmarshal(raw, &x)
		return x, err
	case Int32:
		var x []int32
		err := json.Unmarshal(raw, &x)
		return x, err
	case UInt32:
		var x []uint32
		err := json.Unmarshal(raw, &x)
		return x, err
	case Int64:
		var x []int64
		err := json.Unmarshal(raw, &x)
		return x, err
	case UInt64:
		var x []uint64
		err := json.Unmarshal(raw, &x)
		return x, err
	case Float:
		var x []float32
		err := json.Unmarshal(raw, &x)
		return x, err
	case Double:
		var x []float64
		err := json.Unmarshal(raw, &x)
		return x, err
	case String:
		var x []string
		err := json.Unmarshal(raw, &x)
		return x, err
	case DateTime:
		var x []time.Time
		err := json.Unmarshal(raw, &x)
		return x, err
	case Guid:
		var x []uuid.UUID
		err := json.Unmarshal(raw, &x)
		return x, err
	case ByteString:
		var x [][]byte
		err := json.Unmarshal(raw, &x)
		return x, err
	case LocalizedTextType:
		var x []LocalizedText
		err := json.Unmarshal(raw, &x)
		return x, err
	default:
		return nil, fmt.Errorf("unknown builtin type %d", t)
	}
}

// NewBoolean builds a scalar Boolean variant.
func NewBoolean(b bool) Variant { return Variant{Type: Boolean, Rank: ScalarValueRank, Value: b} }

// NewInt32 builds a scalar Int32 variant.
func NewInt32(i int32) Variant { return Variant{Type: Int32, Rank: ScalarValueRank, Value: i} }

// NewUInt32 builds a scalar UInt32 variant.
func NewUInt32(i uint32) Variant { return Variant{Type: UInt32, Rank: ScalarValueRank, Value: i} }

// NewDouble builds a scalar Double variant.
func NewDouble(f float64) Variant { return Variant{Type: Double, Rank: ScalarValueRank, Value: f} }

// NewString builds a scalar String variant.
func NewString(s string) Variant { return Variant{Type: String, Rank: ScalarValueRank, Value: s} }

// NewDateTime builds a scalar DateTime variant.
func NewDateTime(t time.Time) Variant {
	return Variant{Type: DateTime, Rank: ScalarValueRank, Value: t}
}

// NewLocalizedText builds a scalar LocalizedText variant.
func NewLocalizedText(locale, text string) Variant {
	return Variant{Type: LocalizedTextType, Rank: ScalarValueRank, Value: LocalizedText{Locale: locale, Text: text}}
}

// NewInt32Array builds a one-dimensional Int32 array variant.
func NewInt32Array(v []int32) Variant {
	return Variant{
		Type:            Int32,
		Rank:            0,
		ArrayDimensions: []uint32{uint32(len(v))},
		Value:           v,
	}
}

// AsInt32 returns the scalar Int32 payload, or ok=false if v does not hold
// one.
func (v Variant) AsInt32() (int32, bool) {
	if v.Type != Int32 || !v.IsScalar() {
		return 0, false
	}
	i, ok := v.Value.(int32)
	return i, ok
}

// AsString returns the scalar String payload, or ok=false if v does not
// hold one.
func (v Variant) AsString() (string, bool) {
	if v.Type != String || !v.IsScalar() {
		return "", false
	}
	s, ok := v.Value.(string)
	return s, ok
}

// Equal reports whether v and other carry the same type, rank, dimensions
// and value.
func (v Variant) Equal(other Variant) bool {
	if v.Type != other.Type || v.Rank != other.Rank {
		return false
	}
	if len(v.ArrayDimensions) != len(other.ArrayDimensions) {
		return false
	}
	for i := range v.ArrayDimensions {
		if v.ArrayDimensions[i] != other.ArrayDimensions[i] {
			return false
		}
	}
	return reflect.DeepEqual(v.Value, other.Value)
}
