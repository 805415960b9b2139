package query

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/stellarcade/querycache/errs"
)

// Namespace is the top-level category of cached data.
type Namespace string

// Built-in namespaces. Keys are not restricted to these; unknown
// namespaces resolve to the fallback policy.
const (
	NamespaceBalances    Namespace = "balances"
	NamespaceGames       Namespace = "games"
	NamespaceTournaments Namespace = "tournaments"
	NamespaceRewards     Namespace = "rewards"
	NamespaceProfile     Namespace = "profile"
)

// Namespaces returns the built-in namespaces in stable order.
func Namespaces() []Namespace {
	return []Namespace{
		NamespaceBalances,
		NamespaceGames,
		NamespaceTournaments,
		NamespaceRewards,
		NamespaceProfile,
	}
}

// maxExactInt is the largest float64 magnitude whose whole values
// convert to int64 without loss.
const maxExactInt = 1 << 53

// Key identifies one cached item: a namespace followed by scalar path
// segments. Two keys are equal iff their sequences are element-wise
// equal, which by construction is equivalent to their encodings being
// equal.
//
// Contract:
//   - Construction: use New or a canonical constructor. The zero Key
//     is invalid; the store treats it as absent.
//   - Concurrency: safe for concurrent use (immutable after New).
type Key struct {
	ns   Namespace
	segs []any
	enc  string
}

// New builds a Key from a namespace and scalar segments. Accepted
// segments are strings, booleans, nil, and numeric values. Integers of
// every width normalize to int64, and whole floats within the exactly
// representable range normalize to int64, so 7, int32(7), and 7.0
// produce the same key.
func New(ns Namespace, segments ...any) (Key, error) {
	if ns == "" {
		return Key{}, errs.Wrap(errs.KindValidation, errs.CodeInvalidKey, "invalid key", ErrEmptyNamespace)
	}
	segs := make([]any, len(segments))
	for i, seg := range segments {
		norm, err := normalizeSegment(seg)
		if err != nil {
			return Key{}, errs.Wrap(errs.KindValidation, errs.CodeInvalidKey, "invalid key", err).
				WithDetail("namespace", string(ns)).
				WithDetail("segment", i)
		}
		segs[i] = norm
	}
	return Key{ns: ns, segs: segs, enc: encode(ns, segs)}, nil
}

func normalizeSegment(seg any) (any, error) {
	switch v := seg.(type) {
	case nil:
		return nil, nil
	case string:
		return v, nil
	case bool:
		return v, nil
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint:
		if uint64(v) > math.MaxInt64 {
			return nil, ErrNumberOverflow
		}
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return nil, ErrNumberOverflow
		}
		return int64(v), nil
	case float32:
		return normalizeFloat(float64(v))
	case float64:
		return normalizeFloat(v)
	default:
		return nil, ErrNonScalarSegment
	}
}

func normalizeFloat(f float64) (any, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, ErrNonFiniteNumber
	}
	if f == math.Trunc(f) && math.Abs(f) <= maxExactInt {
		return int64(f), nil
	}
	return f, nil
}

func encode(ns Namespace, segs []any) string {
	parts := make([]any, 0, len(segs)+1)
	parts = append(parts, string(ns))
	parts = append(parts, segs...)
	// Normalized segments are always JSON-encodable.
	b, _ := json.Marshal(parts)
	return string(b)
}

// Namespace returns the key's namespace tag.
func (k Key) Namespace() Namespace { return k.ns }

// Segments returns a copy of the path segments after the namespace.
func (k Key) Segments() []any {
	out := make([]any, len(k.segs))
	copy(out, k.segs)
	return out
}

// Encode returns the canonical encoding used as the storage slot.
// Structurally equal keys encode identically; structurally different
// keys never collide.
func (k Key) Encode() string { return k.enc }

// String renders the key in slash-separated form for logs and error
// details. Encode, not String, is the storage identity.
func (k Key) String() string {
	if k.IsZero() {
		return ""
	}
	var b strings.Builder
	b.WriteString(string(k.ns))
	for _, seg := range k.segs {
		b.WriteByte('/')
		b.WriteString(formatSegment(seg))
	}
	return b.String()
}

func formatSegment(seg any) string {
	switch v := seg.(type) {
	case nil:
		return "null"
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return ""
}

// IsZero reports whether the key was not produced by a constructor.
func (k Key) IsZero() bool { return k.ns == "" }

// Equal reports element-wise equality.
func (k Key) Equal(other Key) bool { return k.enc == other.enc }

// HasPrefix reports whether prefix's elements are a leading
// subsequence of k's, namespace included. Every key is a prefix of
// itself.
func (k Key) HasPrefix(prefix Key) bool {
	if k.ns != prefix.ns || len(prefix.segs) > len(k.segs) {
		return false
	}
	for i, seg := range prefix.segs {
		if k.segs[i] != seg {
			return false
		}
	}
	return true
}
