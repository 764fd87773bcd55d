package cache

import (
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Field separators for the serialized bag. Unlikely to occur in values, so
// {"a":"b","c":""} and {"a":"b\x1ec"} cannot collide on concatenation.
const (
	fieldSep = '\x1e'
	valueSep = '\x1f'
)

// GenerateKey derives an opaque fixed-width cache key from a flat bag of
// named values. The bag is serialized deterministically (field names in
// sorted order) and hashed with xxhash64, so equal bags always yield equal
// keys and unequal bags collide only with hash probability.
//
// The function knows nothing about prompts or charts; callers decide which
// inputs are semantically relevant. Volatile inputs (wall-clock time,
// reactive UI triggers) must never be put in the bag.
func GenerateKey(fields map[string]any) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	digest := xxhash.New()
	for _, name := range names {
		digest.WriteString(name)
		digest.Write([]byte{valueSep})
		fmt.Fprintf(digest, "%v", fields[name])
		digest.Write([]byte{fieldSep})
	}
	return fmt.Sprintf("%016x", digest.Sum64())
}
