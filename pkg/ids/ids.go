package ids

import (
	"encoding/base64"
	"fmt"
	"hash/fnv"
	"strconv"

	"github.com/google/uuid"
)

// IdentifierKind tags which variant of NodeId.Numeric/Text/GuidValue holds the
// identifier's payload.
type IdentifierKind uint8

const (
	Numeric IdentifierKind = iota
	String
	Guid
	Opaque
)

func (k IdentifierKind) tag() string {
	switch k {
	case Numeric:
		return "i"
	case String:
		return "s"
	case Guid:
		return "g"
	case Opaque:
		return "b"
	default:
		return "?"
	}
}

// NodeId is a namespaced, variant-tagged node identifier. It is a plain
// comparable value (every field is comparable) so it can be used directly
// as a Go map key — the node store keys its bucket encoding on it and the
// reference index keys adjacency lookups on it.
//
// The zero value, NULL, is the distinguished "server-assigned" sentinel:
// namespace 0, numeric identifier 0 — the same bit pattern OPC UA reserves
// for ns=0;i=0.
type NodeId struct {
	Namespace uint16
	Kind      IdentifierKind
	Numeric   uint32
	Text      string    // holds the payload for String and Opaque kinds
	GuidValue uuid.UUID // holds the payload for the Guid kind
}

// NULL is the distinguished "server-assigned" NodeId.
var NULL = NodeId{}

// NewNumeric builds a numeric NodeId.
func NewNumeric(ns uint16, id uint32) NodeId {
	return NodeId{Namespace: ns, Kind: Numeric, Numeric: id}
}

// NewString builds a string NodeId.
func NewString(ns uint16, s string) NodeId {
	return NodeId{Namespace: ns, Kind: String, Text: s}
}

// NewGuid builds a Guid NodeId from a github.com/google/uuid value.
func NewGuid(ns uint16, g uuid.UUID) NodeId {
	return NodeId{Namespace: ns, Kind: Guid, GuidValue: g}
}

// NewOpaque builds an opaque (ByteString) NodeId.
func NewOpaque(ns uint16, b []byte) NodeId {
	return NodeId{Namespace: ns, Kind: Opaque, Text: string(b)}
}

// IsNull reports whether id is the NULL sentinel.
func (id NodeId) IsNull() bool {
	return id == NULL
}

// Opaque returns the raw bytes of an Opaque-kind NodeId.
func (id NodeId) Opaque() []byte {
	return []byte(id.Text)
}

// Hash returns a stable 64-bit hash of id, suitable for external indexing
// structures that cannot use NodeId directly as a key (e.g. a bolt key
// derived from an identifier with namespace-qualified uniqueness).
func (id NodeId) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte{byte(id.Namespace), byte(id.Namespace >> 8), byte(id.Kind)})
	switch id.Kind {
	case Numeric:
		_, _ = h.Write([]byte{byte(id.Numeric), byte(id.Numeric >> 8), byte(id.Numeric >> 16), byte(id.Numeric >> 24)})
	case String, Opaque:
		_, _ = h.Write([]byte(id.Text))
	case Guid:
		b, _ := id.GuidValue.MarshalBinary()
		_, _ = h.Write(b)
	}
	return h.Sum64()
}

// Compare orders NodeIds by namespace, then variant tag, then payload. It
// gives a total order usable for deterministic iteration and sibling
// BrowseName-collision tie-breaking.
func (id NodeId) Compare(other NodeId) int {
	if id.Namespace != other.Namespace {
		return int(id.Namespace) - int(other.Namespace)
	}
	if id.Kind != other.Kind {
		return int(id.Kind) - int(other.Kind)
	}
	switch id.Kind {
	case Numeric:
		if id.Numeric == other.Numeric {
			return 0
		}
		if id.Numeric < other.Numeric {
			return -1
		}
		return 1
	case String, Opaque:
		switch {
		case id.Text < other.Text:
			return -1
		case id.Text > other.Text:
			return 1
		default:
			return 0
		}
	case Guid:
		a, b := id.GuidValue.String(), other.GuidValue.String()
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	default:
		return 0
	}
}

// String renders id in the textual form "ns=<n>;<tag>=<value>", the same
// convention OPC UA Part 6 uses for NodeId string encoding.
func (id NodeId) String() string {
	switch id.Kind {
	case Numeric:
		return fmt.Sprintf("ns=%d;i=%d", id.Namespace, id.Numeric)
	case String:
		return fmt.Sprintf("ns=%d;s=%s", id.Namespace, id.Text)
	case Guid:
		return fmt.Sprintf("ns=%d;g=%s", id.Namespace, id.GuidValue.String())
	case Opaque:
		return fmt.Sprintf("ns=%d;b=%s", id.Namespace, base64.StdEncoding.EncodeToString(id.Opaque()))
	default:
		return fmt.Sprintf("ns=%d;?=%s", id.Namespace, strconv.Quote(id.Text))
	}
}

// QualifiedName is a namespaced browse name: (namespaceIndex, name).
type QualifiedName struct {
	NamespaceIndex uint16
	Name           string
}

func (q QualifiedName) String() string {
	return fmt.Sprintf("%d:%s", q.NamespaceIndex, q.Name)
}
