package selection

import (
	"cmp"
	"fmt"
	"math/big"

	"github.com/marcovc/services/internal/contracts"
)

type keyKind uint8

const (
	kindRational keyKind = iota + 1
	kindTimestamp
	kindBool
)

func (k keyKind) String() string {
	switch k {
	case kindRational:
		return "rational"
	case kindTimestamp:
		return "timestamp"
	case kindBool:
		return "bool"
	default:
		return "invalid"
	}
}

// SortKey is the comparable value a strategy assigns to an order. It holds
// exactly one of a rational, an optional timestamp or a boolean; build it
// with RationalKey, TimestampKey, NoTimestampKey or BoolKey.
// ⭐ SSOT: 정렬 키 비교 규칙은 여기서만
type SortKey struct {
	kind  keyKind
	rat   *big.Rat
	ts    contracts.Timestamp
	hasTS bool
	b     bool
}

// RationalKey orders numerically. A nil value counts as zero.
func RationalKey(r *big.Rat) SortKey {
	return SortKey{kind: kindRational, rat: r}
}

// TimestampKey orders later timestamps higher
func TimestampKey(ts contracts.Timestamp) SortKey {
	return SortKey{kind: kindTimestamp, ts: ts, hasTS: true}
}

// NoTimestampKey sorts below every present timestamp
func NoTimestampKey() SortKey {
	return SortKey{kind: kindTimestamp}
}

// BoolKey orders true above false
func BoolKey(b bool) SortKey {
	return SortKey{kind: kindBool, b: b}
}

// Timestamp returns the timestamp held by a timestamp key, false when absent
func (k SortKey) Timestamp() (contracts.Timestamp, bool) {
	return k.ts, k.kind == kindTimestamp && k.hasTS
}

// Compare returns -1, 0 or +1. Keys of different variants are not
// comparable and Compare panics on them.
func (k SortKey) Compare(other SortKey) int {
	if k.kind != other.kind {
		panic(fmt.Sprintf("selection: comparing %s sort key with %s sort key", k.kind, other.kind))
	}

	switch k.kind {
	case kindRational:
		return ratOrZero(k.rat).Cmp(ratOrZero(other.rat))
	case kindTimestamp:
		switch {
		case k.hasTS && other.hasTS:
			return cmp.Compare(k.ts, other.ts)
		case k.hasTS:
			return 1
		case other.hasTS:
			return -1
		default:
			return 0
		}
	case kindBool:
		switch {
		case k.b == other.b:
			return 0
		case k.b:
			return 1
		default:
			return -1
		}
	default:
		panic("selection: zero SortKey")
	}
}

func (k SortKey) String() string {
	switch k.kind {
	case kindRational:
		return ratOrZero(k.rat).RatString()
	case kindTimestamp:
		if !k.hasTS {
			return "none"
		}
		return fmt.Sprintf("%d", k.ts)
	case kindBool:
		return fmt.Sprintf("%t", k.b)
	default:
		return "invalid"
	}
}

var zeroRat = new(big.Rat)

func ratOrZero(r *big.Rat) *big.Rat {
	if r == nil {
		return zeroRat
	}
	return r
}

// compareKeys compares key sequences lexicographically; the first differing
// position decides. Sequences come from the same strategy list and have equal
// length.
func compareKeys(a, b []SortKey) int {
	for i := range a {
		if c := a[i].Compare(b[i]); c != 0 {
			return c
		}
	}
	return 0
}
